package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// FinanzasService implements the money-side business rules: cuotas, gastos,
// fondos, cierres, parcialidades and the dashboard aggregate.
type FinanzasService struct {
	usuarios      domain.UsuarioRepository
	cuotas        domain.CuotaRepository
	gastos        domain.GastoRepository
	fondos        domain.FondoRepository
	cierres       domain.CierreRepository
	parcialidades domain.ParcialidadRepository
	anuncios      domain.AnuncioRepository
}

// NewFinanzasService creates a new FinanzasService.
func NewFinanzasService(
	usuarios domain.UsuarioRepository,
	cuotas domain.CuotaRepository,
	gastos domain.GastoRepository,
	fondos domain.FondoRepository,
	cierres domain.CierreRepository,
	parcialidades domain.ParcialidadRepository,
	anuncios domain.AnuncioRepository,
) *FinanzasService {
	return &FinanzasService{
		usuarios:      usuarios,
		cuotas:        cuotas,
		gastos:        gastos,
		fondos:        fondos,
		cierres:       cierres,
		parcialidades: parcialidades,
		anuncios:      anuncios,
	}
}

// GenerarCuotas creates one pending cuota per occupied unit for the given
// month. Units come from the registered tenants.
func (s *FinanzasService) GenerarCuotas(ctx context.Context, mes, anio int, monto float64) ([]domain.Cuota, error) {
	if monto <= 0 {
		return nil, fmt.Errorf("generar cuotas: %w", ErrMontoInvalido)
	}
	if mes < 1 || mes > 12 {
		return nil, fmt.Errorf("generar cuotas: mes %d fuera de rango", mes)
	}

	usuarios, err := s.usuarios.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}

	vence := time.Date(anio, time.Month(mes), 10, 0, 0, 0, 0, time.UTC)
	var nuevas []domain.Cuota
	for _, u := range usuarios {
		if u.Departamento == "" {
			continue
		}
		nuevas = append(nuevas, domain.Cuota{
			Departamento:     u.Departamento,
			Mes:              mes,
			Anio:             anio,
			Monto:            monto,
			Estado:           domain.CuotaPendiente,
			FechaVencimiento: vence,
		})
	}

	creadas, err := s.cuotas.CreateBatch(ctx, nuevas)
	if err != nil {
		return nil, fmt.Errorf("insert cuotas: %w", err)
	}
	return creadas, nil
}

// RegistrarPago marks a cuota as paid, optionally attaching a payment
// receipt reference.
func (s *FinanzasService) RegistrarPago(ctx context.Context, cuotaID int, comprobante string) (*domain.Cuota, error) {
	c, err := s.cuotas.GetByID(ctx, cuotaID)
	if err != nil {
		return nil, fmt.Errorf("query cuota %d: %w", cuotaID, err)
	}
	if c == nil {
		return nil, fmt.Errorf("cuota %d: %w", cuotaID, ErrNoEncontrado)
	}
	if c.Estado == domain.CuotaPagada {
		return nil, fmt.Errorf("cuota %d: %w", cuotaID, ErrCuotaPagada)
	}

	ahora := time.Now().UTC()
	c.Estado = domain.CuotaPagada
	c.FechaPago = &ahora
	if comprobante != "" {
		c.ComprobantePago = comprobante
	}
	if err := s.cuotas.Update(ctx, *c); err != nil {
		return nil, fmt.Errorf("update cuota %d: %w", cuotaID, err)
	}
	return c, nil
}

// Transferir moves money between two fondos, failing when the source
// balance cannot cover the amount.
func (s *FinanzasService) Transferir(ctx context.Context, t domain.Transferencia) error {
	if t.Monto <= 0 {
		return fmt.Errorf("transferencia: %w", ErrMontoInvalido)
	}

	origen, err := s.fondos.GetByID(ctx, t.OrigenID)
	if err != nil {
		return fmt.Errorf("query fondo %d: %w", t.OrigenID, err)
	}
	if origen == nil {
		return fmt.Errorf("fondo origen %d: %w", t.OrigenID, ErrNoEncontrado)
	}
	destino, err := s.fondos.GetByID(ctx, t.DestinoID)
	if err != nil {
		return fmt.Errorf("query fondo %d: %w", t.DestinoID, err)
	}
	if destino == nil {
		return fmt.Errorf("fondo destino %d: %w", t.DestinoID, ErrNoEncontrado)
	}

	if origen.Saldo < t.Monto {
		return fmt.Errorf("transferir %.2f de %q: %w", t.Monto, origen.Nombre, ErrSaldoInsuficiente)
	}

	origen.Saldo -= t.Monto
	destino.Saldo += t.Monto
	if err := s.fondos.UpdateSaldos(ctx, *origen, *destino); err != nil {
		return fmt.Errorf("update fondos: %w", err)
	}
	return nil
}

// EjecutarCierre computes and stores the accounting closure for a month.
// Ingresos are the paid cuotas of the period, gastos the expenses dated in
// the period.
func (s *FinanzasService) EjecutarCierre(ctx context.Context, mes, anio int) (*domain.Cierre, error) {
	if previo, err := s.cierres.GetByPeriodo(ctx, mes, anio); err != nil {
		return nil, fmt.Errorf("query cierre %d/%d: %w", mes, anio, err)
	} else if previo != nil {
		return nil, fmt.Errorf("cierre %d/%d: %w", mes, anio, ErrCierreExiste)
	}

	cuotas, err := s.cuotas.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list cuotas: %w", err)
	}
	var ingresos float64
	for _, c := range cuotas {
		if c.Mes == mes && c.Anio == anio && c.Estado == domain.CuotaPagada {
			ingresos += c.Monto
		}
	}

	gastos, err := s.gastos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gastos: %w", err)
	}
	var egresos float64
	for _, g := range gastos {
		if g.Fecha.Year() == anio && int(g.Fecha.Month()) == mes {
			egresos += g.Monto
		}
	}

	cierre, err := s.cierres.Create(ctx, domain.Cierre{
		Mes:             mes,
		Anio:            anio,
		IngresosTotales: ingresos,
		GastosTotales:   egresos,
		Balance:         ingresos - egresos,
		Estado:          domain.CierreCerrado,
	})
	if err != nil {
		return nil, fmt.Errorf("insert cierre: %w", err)
	}
	return cierre, nil
}

// PagarParcialidad records an installment payment and refreshes its
// progress percentage against the annual assessment total.
func (s *FinanzasService) PagarParcialidad(ctx context.Context, id int, monto, totalAnual float64) (*domain.Parcialidad, error) {
	if monto <= 0 {
		return nil, fmt.Errorf("pagar parcialidad: %w", ErrMontoInvalido)
	}

	p, err := s.parcialidades.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("query parcialidad %d: %w", id, err)
	}
	if p == nil {
		return nil, fmt.Errorf("parcialidad %d: %w", id, ErrNoEncontrado)
	}

	p.MontoPagado += monto
	p.NumeroParcialidad++
	if totalAnual > 0 {
		p.ProgresoPorcentaje = p.MontoPagado / totalAnual * 100
		if p.ProgresoPorcentaje >= 100 {
			p.ProgresoPorcentaje = 100
			p.Estado = domain.CuotaPagada
		} else {
			p.Estado = domain.CuotaParcial
		}
	}
	if err := s.parcialidades.Update(ctx, *p); err != nil {
		return nil, fmt.Errorf("update parcialidad %d: %w", id, err)
	}
	return p, nil
}

// Resumen builds the dashboard aggregate for the current month.
func (s *FinanzasService) Resumen(ctx context.Context) (*domain.ResumenDashboard, error) {
	ahora := time.Now()
	res := &domain.ResumenDashboard{}

	cuotas, err := s.cuotas.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list cuotas: %w", err)
	}
	for _, c := range cuotas {
		if c.Estado == domain.CuotaPendiente || c.Estado == domain.CuotaVencida {
			res.CuotasPendientes++
		}
	}

	gastos, err := s.gastos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gastos: %w", err)
	}
	for _, g := range gastos {
		if g.Fecha.Year() == ahora.Year() && g.Fecha.Month() == ahora.Month() {
			res.GastosDelMes += g.Monto
		}
	}

	fondos, err := s.fondos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fondos: %w", err)
	}
	for _, f := range fondos {
		res.SaldoFondos += f.Saldo
	}

	anuncios, err := s.anuncios.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list anuncios: %w", err)
	}
	for _, a := range anuncios {
		if a.Activo {
			res.AnunciosActivos++
		}
	}
	return res, nil
}
