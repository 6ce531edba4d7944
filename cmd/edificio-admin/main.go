// Command edificio-admin is a terminal client for the condominium API.
// It keeps a persisted session, caches reads and navigates the same
// sections the web frontend has.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/hvigueras/edificio-admin/config"
	"github.com/hvigueras/edificio-admin/internal/client/cache"
	"github.com/hvigueras/edificio-admin/internal/client/gateway"
	"github.com/hvigueras/edificio-admin/internal/client/kvstore"
	"github.com/hvigueras/edificio-admin/internal/client/modules"
	"github.com/hvigueras/edificio-admin/internal/client/nav"
	"github.com/hvigueras/edificio-admin/internal/client/session"
	"github.com/hvigueras/edificio-admin/internal/core/domain"
	"github.com/hvigueras/edificio-admin/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}
	middleware.SetupLogging(cfg.Logging.Level)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Client failed")
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	if dir := filepath.Dir(cfg.Datos.ClienteStorage); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}
	kv, err := kvstore.OpenFile(cfg.Datos.ClienteStorage)
	if err != nil {
		return err
	}

	sesion, err := session.New(session.Config{BaseURL: cfg.API.BaseURL, KV: kv})
	if err != nil {
		return err
	}

	respuestas := cache.New(cfg.GetCacheTTL())
	respuestas.StartSweep()
	defer respuestas.Close()

	gw, err := gateway.New(gateway.Config{
		BaseURL: cfg.API.BaseURL,
		Tokens:  sesion,
		Cache:   respuestas,
	})
	if err != nil {
		return err
	}

	entrada := bufio.NewScanner(os.Stdin)

	if sesion.CheckAuth(ctx, false) != session.Stay {
		if err := login(ctx, sesion, entrada); err != nil {
			return err
		}
	}
	u := sesion.CurrentUser()
	if u != nil {
		fmt.Printf("Sesion activa: %s (%s)\n", u.Nombre, u.Rol)
	}

	controlador := nav.New(&vistaTerminal{})
	registrarModulos(controlador, gw)

	controlador.ShowSection(ctx, nav.SeccionInicial)
	repl(ctx, controlador, sesion, entrada)
	return nil
}

// login prompts for credentials until a session is established.
func login(ctx context.Context, sesion *session.Store, entrada *bufio.Scanner) error {
	for {
		fmt.Print("Email: ")
		if !entrada.Scan() {
			return fmt.Errorf("entrada cerrada")
		}
		email := strings.TrimSpace(entrada.Text())

		fmt.Print("Password: ")
		if !entrada.Scan() {
			return fmt.Errorf("entrada cerrada")
		}
		password := strings.TrimSpace(entrada.Text())

		u, err := sesion.Login(ctx, email, password)
		if err != nil {
			fmt.Println("Login fallido:", err)
			continue
		}
		fmt.Printf("Bienvenido, %s\n", u.Nombre)
		return nil
	}
}

// repl reads section names and commands until "salir" or EOF.
func repl(ctx context.Context, controlador *nav.Controller, sesion *session.Store, entrada *bufio.Scanner) {
	fmt.Println("Secciones: dashboard, usuarios, cuotas, gastos, fondos, anuncios, cierres, parcialidades")
	fmt.Println("Comandos: renovar, logout, salir")

	for {
		fmt.Printf("[%s] > ", controlador.Current())
		if !entrada.Scan() {
			return
		}
		cmd := strings.TrimSpace(strings.ToLower(entrada.Text()))
		switch cmd {
		case "":
		case "salir":
			return
		case "logout":
			sesion.Logout()
			fmt.Println("Sesion cerrada")
			return
		case "renovar":
			if _, err := sesion.RenewToken(ctx); err != nil {
				fmt.Println("Renovacion fallida:", err)
				return
			}
			fmt.Println("Token renovado")
		default:
			controlador.ShowSection(ctx, cmd)
		}
	}
}

func registrarModulos(controlador *nav.Controller, gw *gateway.Client) {
	controlador.Register(modules.NewDashboard(gw, renderDashboard))
	controlador.Register(modules.NewUsuarios(gw, renderUsuarios))
	controlador.Register(modules.NewCuotas(gw, renderCuotas))
	controlador.Register(modules.NewGastos(gw, renderGastos))
	controlador.Register(modules.NewFondos(gw, renderFondos))
	controlador.Register(modules.NewAnuncios(gw, renderAnuncios))
	controlador.Register(modules.NewCierres(gw, renderCierres))
	controlador.Register(modules.NewParcialidades(gw, renderParcialidades))
}

// vistaTerminal renders navigation state as plain terminal output. There
// are no real panels to toggle, so every known section "exists".
type vistaTerminal struct{}

func (v *vistaTerminal) DeactivateAll() {}

func (v *vistaTerminal) ActivateSection(id string) bool { return true }

func (v *vistaTerminal) HighlightMenu(id string) {}

func (v *vistaTerminal) SetTitle(titulo string) {
	fmt.Printf("\n== %s ==\n", titulo)
}

func (v *vistaTerminal) Notify(nivel nav.Nivel, msg string) {
	if nivel == nav.NivelError {
		fmt.Println("ERROR:", msg)
		return
	}
	fmt.Println(msg)
}

func renderDashboard(d modules.DatosDashboard) {
	fmt.Printf("Cuotas pendientes: %d\n", d.Resumen.CuotasPendientes)
	fmt.Printf("Gastos del mes:    $%.2f\n", d.Resumen.GastosDelMes)
	fmt.Printf("Saldo en fondos:   $%.2f\n", d.Resumen.SaldoFondos)
	fmt.Printf("Anuncios activos:  %d\n", d.Resumen.AnunciosActivos)
	for _, a := range d.Anuncios {
		fmt.Printf("  - [%s] %s\n", a.Tipo, a.Titulo)
	}
}

func renderUsuarios(usuarios []domain.Usuario) {
	w := tabla()
	fmt.Fprintln(w, "ID\tNOMBRE\tEMAIL\tROL\tDEPTO")
	for _, u := range usuarios {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Nombre, u.Email, u.Rol, u.Departamento)
	}
	w.Flush()
}

func renderCuotas(cuotas []domain.Cuota) {
	w := tabla()
	fmt.Fprintln(w, "ID\tDEPTO\tPERIODO\tMONTO\tESTADO")
	for _, c := range cuotas {
		fmt.Fprintf(w, "%d\t%s\t%02d/%d\t$%.2f\t%s\n", c.ID, c.Departamento, c.Mes, c.Anio, c.Monto, c.Estado)
	}
	w.Flush()
}

func renderGastos(gastos []domain.Gasto) {
	w := tabla()
	fmt.Fprintln(w, "ID\tFECHA\tCONCEPTO\tCATEGORIA\tMONTO")
	for _, g := range gastos {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t$%.2f\n", g.ID, g.Fecha.Format("2006-01-02"), g.Concepto, g.Categoria, g.Monto)
	}
	w.Flush()
}

func renderFondos(fondos []domain.Fondo) {
	w := tabla()
	fmt.Fprintln(w, "ID\tNOMBRE\tSALDO")
	for _, f := range fondos {
		fmt.Fprintf(w, "%d\t%s\t$%.2f\n", f.ID, f.Nombre, f.Saldo)
	}
	w.Flush()
}

func renderAnuncios(anuncios []domain.Anuncio) {
	w := tabla()
	fmt.Fprintln(w, "ID\tTITULO\tTIPO\tACTIVO")
	for _, a := range anuncios {
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", a.ID, a.Titulo, a.Tipo, a.Activo)
	}
	w.Flush()
}

func renderCierres(cierres []domain.Cierre) {
	w := tabla()
	fmt.Fprintln(w, "PERIODO\tINGRESOS\tGASTOS\tBALANCE\tESTADO")
	for _, c := range cierres {
		fmt.Fprintf(w, "%02d/%d\t$%.2f\t$%.2f\t$%.2f\t%s\n", c.Mes, c.Anio, c.IngresosTotales, c.GastosTotales, c.Balance, c.Estado)
	}
	w.Flush()
}

func renderParcialidades(parcialidades []domain.Parcialidad) {
	w := tabla()
	fmt.Fprintln(w, "ID\tDEPTO\tNO.\tPAGADO\tPROGRESO\tESTADO")
	for _, p := range parcialidades {
		fmt.Fprintf(w, "%d\t%s\t%d\t$%.2f\t%.1f%%\t%s\n", p.ID, p.Departamento, p.NumeroParcialidad, p.MontoPagado, p.ProgresoPorcentaje, p.Estado)
	}
	w.Flush()
}

func tabla() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}
