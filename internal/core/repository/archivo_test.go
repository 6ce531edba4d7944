package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

func abrirDB(t *testing.T) (*DB, string) {
	t.Helper()
	ruta := filepath.Join(t.TempDir(), "edificio.json")
	db, err := Open(ruta)
	require.NoError(t, err)
	return db, ruta
}

func TestOpen_MissingFileStartsEmpty(t *testing.T) {
	db, _ := abrirDB(t)

	usuarios, err := NewUsuarioRepo(db).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, usuarios)
}

func TestUsuarioRepo_RoundTripWithPasswordHash(t *testing.T) {
	db, ruta := abrirDB(t)
	ctx := context.Background()

	creado, err := NewUsuarioRepo(db).Create(ctx, domain.Usuario{
		Nombre:       "Admin",
		Email:        "admin@x.com",
		Rol:          domain.RolAdmin,
		PasswordHash: "$2a$10$hash",
		CreadoEn:     time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, creado.ID)

	// The hash survives the file round-trip even though the domain type
	// excludes it from JSON.
	reabierto, err := Open(ruta)
	require.NoError(t, err)
	u, err := NewUsuarioRepo(reabierto).GetByEmail(ctx, "admin@x.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "$2a$10$hash", u.PasswordHash)
}

func TestSiguienteID_IsMonotonicPerCollection(t *testing.T) {
	db, _ := abrirDB(t)
	ctx := context.Background()

	usuarios := NewUsuarioRepo(db)
	gastos := NewGastoRepo(db)

	u1, err := usuarios.Create(ctx, domain.Usuario{Nombre: "A", Email: "a@x.com"})
	require.NoError(t, err)
	u2, err := usuarios.Create(ctx, domain.Usuario{Nombre: "B", Email: "b@x.com"})
	require.NoError(t, err)
	g1, err := gastos.Create(ctx, domain.Gasto{Concepto: "Luz"})
	require.NoError(t, err)

	assert.Equal(t, 1, u1.ID)
	assert.Equal(t, 2, u2.ID)
	assert.Equal(t, 1, g1.ID, "collections count independently")
}

func TestSiguienteID_SurvivesDeletes(t *testing.T) {
	db, ruta := abrirDB(t)
	ctx := context.Background()

	gastos := NewGastoRepo(db)
	g1, err := gastos.Create(ctx, domain.Gasto{Concepto: "Luz"})
	require.NoError(t, err)
	require.NoError(t, gastos.Delete(ctx, g1.ID))

	reabierto, err := Open(ruta)
	require.NoError(t, err)
	g2, err := NewGastoRepo(reabierto).Create(ctx, domain.Gasto{Concepto: "Agua"})
	require.NoError(t, err)

	assert.Equal(t, 2, g2.ID, "IDs are never reused")
}

func TestFondoRepo_SeedOnlyOnEmpty(t *testing.T) {
	db, _ := abrirDB(t)
	ctx := context.Background()

	fondos := NewFondoRepo(db)
	require.NoError(t, fondos.Seed(ctx, []domain.Fondo{{Nombre: "Operacion", Saldo: 100}}))
	require.NoError(t, fondos.Seed(ctx, []domain.Fondo{{Nombre: "Duplicado"}}))

	lista, err := fondos.List(ctx)
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, "Operacion", lista[0].Nombre)
}

func TestFondoRepo_UpdateSaldosRejectsUnknownFund(t *testing.T) {
	db, _ := abrirDB(t)
	ctx := context.Background()

	fondos := NewFondoRepo(db)
	require.NoError(t, fondos.Seed(ctx, []domain.Fondo{{Nombre: "Operacion", Saldo: 100}}))

	err := fondos.UpdateSaldos(ctx, domain.Fondo{ID: 1, Saldo: 50}, domain.Fondo{ID: 9, Saldo: 50})
	assert.Error(t, err)

	// Source untouched on failure.
	f, err := fondos.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100.0, f.Saldo)
}

func TestCuotaRepo_ListFiltersByDepartamento(t *testing.T) {
	db, _ := abrirDB(t)
	ctx := context.Background()

	cuotas := NewCuotaRepo(db)
	_, err := cuotas.CreateBatch(ctx, []domain.Cuota{
		{Departamento: "101", Mes: 6, Anio: 2025},
		{Departamento: "102", Mes: 6, Anio: 2025},
		{Departamento: "101", Mes: 7, Anio: 2025},
	})
	require.NoError(t, err)

	filtradas, err := cuotas.List(ctx, "101")
	require.NoError(t, err)
	assert.Len(t, filtradas, 2)

	todas, err := cuotas.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, todas, 3)
}

func TestSesionRepo_LifecycleAndExpiry(t *testing.T) {
	ctx := context.Background()
	sesiones := NewSesionRepo()

	require.NoError(t, sesiones.Create(ctx, 1, "viva", time.Now().Add(time.Hour)))
	require.NoError(t, sesiones.Create(ctx, 1, "muerta", time.Now().Add(-time.Hour)))

	require.NoError(t, sesiones.DeleteExpired(ctx))

	s, err := sesiones.GetByToken(ctx, "viva")
	require.NoError(t, err)
	assert.NotNil(t, s)

	s, err = sesiones.GetByToken(ctx, "muerta")
	require.NoError(t, err)
	assert.Nil(t, s)
}
