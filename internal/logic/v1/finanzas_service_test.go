package v1

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvigueras/edificio-admin/internal/core/domain"
	"github.com/hvigueras/edificio-admin/internal/core/repository"
)

// entornoFinanzas wires a FinanzasService over a throwaway flat-file DB
// with two tenants and seeded funds.
type entornoFinanzas struct {
	finanzas      *FinanzasService
	gastos        *repository.GastoRepo
	fondos        *repository.FondoRepo
	cuotas        *repository.CuotaRepo
	anuncios      *repository.AnuncioRepo
	parcialidades *repository.ParcialidadRepo
}

func nuevoEntornoFinanzas(t *testing.T) *entornoFinanzas {
	t.Helper()
	db, err := repository.Open(filepath.Join(t.TempDir(), "edificio.json"))
	require.NoError(t, err)
	ctx := context.Background()

	usuarios := repository.NewUsuarioRepo(db)
	cuotas := repository.NewCuotaRepo(db)
	gastos := repository.NewGastoRepo(db)
	fondos := repository.NewFondoRepo(db)
	cierres := repository.NewCierreRepo(db)
	parcialidades := repository.NewParcialidadRepo(db)
	anuncios := repository.NewAnuncioRepo(db)

	_, err = usuarios.Create(ctx, domain.Usuario{Nombre: "Uno", Email: "uno@x.com", Departamento: "101", Rol: domain.RolInquilino})
	require.NoError(t, err)
	_, err = usuarios.Create(ctx, domain.Usuario{Nombre: "Dos", Email: "dos@x.com", Departamento: "102", Rol: domain.RolInquilino})
	require.NoError(t, err)
	// No unit, no cuota.
	_, err = usuarios.Create(ctx, domain.Usuario{Nombre: "Admin", Email: "admin@x.com", Rol: domain.RolAdmin})
	require.NoError(t, err)

	require.NoError(t, fondos.Seed(ctx, []domain.Fondo{
		{Nombre: "Operacion", Saldo: 1000},
		{Nombre: "Reserva", Saldo: 500},
	}))

	return &entornoFinanzas{
		finanzas:      NewFinanzasService(usuarios, cuotas, gastos, fondos, cierres, parcialidades, anuncios),
		gastos:        gastos,
		fondos:        fondos,
		cuotas:        cuotas,
		anuncios:      anuncios,
		parcialidades: parcialidades,
	}
}

func TestGenerarCuotas_OnePerOccupiedUnit(t *testing.T) {
	e := nuevoEntornoFinanzas(t)

	creadas, err := e.finanzas.GenerarCuotas(context.Background(), 6, 2025, 1500)
	require.NoError(t, err)
	require.Len(t, creadas, 2, "users without a unit get no cuota")

	for _, c := range creadas {
		assert.Equal(t, domain.CuotaPendiente, c.Estado)
		assert.Equal(t, 1500.0, c.Monto)
		assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), c.FechaVencimiento)
		assert.NotZero(t, c.ID)
	}
	assert.Equal(t, "101", creadas[0].Departamento)
	assert.Equal(t, "102", creadas[1].Departamento)
}

func TestGenerarCuotas_RejectsBadInput(t *testing.T) {
	e := nuevoEntornoFinanzas(t)
	ctx := context.Background()

	_, err := e.finanzas.GenerarCuotas(ctx, 6, 2025, 0)
	assert.ErrorIs(t, err, ErrMontoInvalido)

	_, err = e.finanzas.GenerarCuotas(ctx, 13, 2025, 100)
	assert.Error(t, err)
}

func TestRegistrarPago_MarksPaidOnce(t *testing.T) {
	e := nuevoEntornoFinanzas(t)
	ctx := context.Background()

	creadas, err := e.finanzas.GenerarCuotas(ctx, 6, 2025, 1500)
	require.NoError(t, err)

	pagada, err := e.finanzas.RegistrarPago(ctx, creadas[0].ID, "REC-001")
	require.NoError(t, err)
	assert.Equal(t, domain.CuotaPagada, pagada.Estado)
	assert.NotNil(t, pagada.FechaPago)
	assert.Equal(t, "REC-001", pagada.ComprobantePago)

	_, err = e.finanzas.RegistrarPago(ctx, creadas[0].ID, "")
	assert.ErrorIs(t, err, ErrCuotaPagada)
}

func TestRegistrarPago_UnknownCuota(t *testing.T) {
	e := nuevoEntornoFinanzas(t)

	_, err := e.finanzas.RegistrarPago(context.Background(), 999, "")
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestTransferir_MovesBalance(t *testing.T) {
	e := nuevoEntornoFinanzas(t)
	ctx := context.Background()

	require.NoError(t, e.finanzas.Transferir(ctx, domain.Transferencia{OrigenID: 1, DestinoID: 2, Monto: 300}))

	origen, err := e.fondos.GetByID(ctx, 1)
	require.NoError(t, err)
	destino, err := e.fondos.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 700.0, origen.Saldo)
	assert.Equal(t, 800.0, destino.Saldo)
}

func TestTransferir_InsufficientBalance(t *testing.T) {
	e := nuevoEntornoFinanzas(t)
	ctx := context.Background()

	err := e.finanzas.Transferir(ctx, domain.Transferencia{OrigenID: 2, DestinoID: 1, Monto: 501})
	assert.ErrorIs(t, err, ErrSaldoInsuficiente)

	// Nothing moved.
	origen, _ := e.fondos.GetByID(ctx, 2)
	assert.Equal(t, 500.0, origen.Saldo)
}

func TestTransferir_RejectsNonPositiveAmountAndUnknownFund(t *testing.T) {
	e := nuevoEntornoFinanzas(t)
	ctx := context.Background()

	err := e.finanzas.Transferir(ctx, domain.Transferencia{OrigenID: 1, DestinoID: 2, Monto: 0})
	assert.ErrorIs(t, err, ErrMontoInvalido)

	err = e.finanzas.Transferir(ctx, domain.Transferencia{OrigenID: 9, DestinoID: 2, Monto: 10})
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestEjecutarCierre_ComputesPeriodTotals(t *testing.T) {
	e := nuevoEntornoFinanzas(t)
	ctx := context.Background()

	creadas, err := e.finanzas.GenerarCuotas(ctx, 6, 2025, 1500)
	require.NoError(t, err)
	_, err = e.finanzas.RegistrarPago(ctx, creadas[0].ID, "")
	require.NoError(t, err)

	_, err = e.gastos.Create(ctx, domain.Gasto{Fecha: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), Concepto: "Luz", Monto: 400})
	require.NoError(t, err)
	// A different month stays out of the closure.
	_, err = e.gastos.Create(ctx, domain.Gasto{Fecha: time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), Concepto: "Agua", Monto: 999})
	require.NoError(t, err)

	cierre, err := e.finanzas.EjecutarCierre(ctx, 6, 2025)
	require.NoError(t, err)

	assert.Equal(t, 1500.0, cierre.IngresosTotales, "only paid cuotas count")
	assert.Equal(t, 400.0, cierre.GastosTotales)
	assert.Equal(t, 1100.0, cierre.Balance)
	assert.Equal(t, domain.CierreCerrado, cierre.Estado)
}

func TestEjecutarCierre_PeriodClosesOnlyOnce(t *testing.T) {
	e := nuevoEntornoFinanzas(t)
	ctx := context.Background()

	_, err := e.finanzas.EjecutarCierre(ctx, 6, 2025)
	require.NoError(t, err)

	_, err = e.finanzas.EjecutarCierre(ctx, 6, 2025)
	assert.ErrorIs(t, err, ErrCierreExiste)
}

// nuevoEntornoParcialidades seeds one installment plan through the data
// file, the only way plans enter the system today.
func nuevoEntornoParcialidades(t *testing.T) *entornoFinanzas {
	t.Helper()
	ruta := filepath.Join(t.TempDir(), "edificio.json")
	doc := `{"parcialidades":[{"id":1,"departamento":"101","usuario_nombre":"Uno","numero_parcialidad":0,"monto_pagado":0,"estado":"pendiente","progreso_porcentaje":0}],"secuencias":{"parcialidades":1}}`
	require.NoError(t, os.WriteFile(ruta, []byte(doc), 0o600))

	db, err := repository.Open(ruta)
	require.NoError(t, err)

	usuarios := repository.NewUsuarioRepo(db)
	cuotas := repository.NewCuotaRepo(db)
	gastos := repository.NewGastoRepo(db)
	fondos := repository.NewFondoRepo(db)
	cierres := repository.NewCierreRepo(db)
	parcialidades := repository.NewParcialidadRepo(db)
	anuncios := repository.NewAnuncioRepo(db)

	return &entornoFinanzas{
		finanzas:      NewFinanzasService(usuarios, cuotas, gastos, fondos, cierres, parcialidades, anuncios),
		gastos:        gastos,
		fondos:        fondos,
		cuotas:        cuotas,
		anuncios:      anuncios,
		parcialidades: parcialidades,
	}
}

func TestPagarParcialidad_TracksProgress(t *testing.T) {
	e := nuevoEntornoParcialidades(t)
	ctx := context.Background()

	p, err := e.finanzas.PagarParcialidad(ctx, 1, 3000, 12000)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, p.MontoPagado)
	assert.Equal(t, 1, p.NumeroParcialidad)
	assert.Equal(t, 25.0, p.ProgresoPorcentaje)
	assert.Equal(t, domain.CuotaParcial, p.Estado)
}

func TestPagarParcialidad_CompletesAtFullAmount(t *testing.T) {
	e := nuevoEntornoParcialidades(t)
	ctx := context.Background()

	_, err := e.finanzas.PagarParcialidad(ctx, 1, 9000, 12000)
	require.NoError(t, err)
	p, err := e.finanzas.PagarParcialidad(ctx, 1, 3000, 12000)
	require.NoError(t, err)

	assert.Equal(t, 100.0, p.ProgresoPorcentaje)
	assert.Equal(t, domain.CuotaPagada, p.Estado)
	assert.Equal(t, 2, p.NumeroParcialidad)
}

func TestPagarParcialidad_RejectsBadInput(t *testing.T) {
	e := nuevoEntornoParcialidades(t)
	ctx := context.Background()

	_, err := e.finanzas.PagarParcialidad(ctx, 1, 0, 12000)
	assert.ErrorIs(t, err, ErrMontoInvalido)

	_, err = e.finanzas.PagarParcialidad(ctx, 77, 100, 12000)
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestResumen_AggregatesCurrentState(t *testing.T) {
	e := nuevoEntornoFinanzas(t)
	ctx := context.Background()

	_, err := e.finanzas.GenerarCuotas(ctx, 6, 2025, 1500)
	require.NoError(t, err)

	ahora := time.Now()
	_, err = e.gastos.Create(ctx, domain.Gasto{Fecha: ahora, Concepto: "Luz", Monto: 250})
	require.NoError(t, err)

	_, err = e.anuncios.Create(ctx, domain.Anuncio{Titulo: "Activo", Activo: true})
	require.NoError(t, err)
	_, err = e.anuncios.Create(ctx, domain.Anuncio{Titulo: "Apagado", Activo: false})
	require.NoError(t, err)

	res, err := e.finanzas.Resumen(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, res.CuotasPendientes)
	assert.Equal(t, 250.0, res.GastosDelMes)
	assert.Equal(t, 1500.0, res.SaldoFondos)
	assert.Equal(t, 1, res.AnunciosActivos)
}
