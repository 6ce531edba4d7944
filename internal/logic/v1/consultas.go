package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// Read pass-throughs and the gasto CRUD. Validation lives here, storage
// in the repositories.

// ListarCuotas returns the cuotas, optionally filtered by departamento.
func (s *FinanzasService) ListarCuotas(ctx context.Context, departamento string) ([]domain.Cuota, error) {
	return s.cuotas.List(ctx, departamento)
}

// ListarGastos returns every gasto.
func (s *FinanzasService) ListarGastos(ctx context.Context) ([]domain.Gasto, error) {
	return s.gastos.List(ctx)
}

// CrearGasto records a new expense.
func (s *FinanzasService) CrearGasto(ctx context.Context, g domain.Gasto) (*domain.Gasto, error) {
	if g.Monto <= 0 {
		return nil, fmt.Errorf("crear gasto: %w", ErrMontoInvalido)
	}
	if g.Fecha.IsZero() {
		g.Fecha = time.Now().UTC()
	}
	creado, err := s.gastos.Create(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("insert gasto: %w", err)
	}
	return creado, nil
}

// ActualizarGasto modifies an expense.
func (s *FinanzasService) ActualizarGasto(ctx context.Context, g domain.Gasto) error {
	if g.Monto <= 0 {
		return fmt.Errorf("actualizar gasto: %w", ErrMontoInvalido)
	}
	actual, err := s.gastos.GetByID(ctx, g.ID)
	if err != nil {
		return fmt.Errorf("query gasto %d: %w", g.ID, err)
	}
	if actual == nil {
		return fmt.Errorf("gasto %d: %w", g.ID, ErrNoEncontrado)
	}
	if err := s.gastos.Update(ctx, g); err != nil {
		return fmt.Errorf("update gasto %d: %w", g.ID, err)
	}
	return nil
}

// EliminarGasto removes an expense.
func (s *FinanzasService) EliminarGasto(ctx context.Context, id int) error {
	g, err := s.gastos.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("query gasto %d: %w", id, err)
	}
	if g == nil {
		return fmt.Errorf("gasto %d: %w", id, ErrNoEncontrado)
	}
	if err := s.gastos.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete gasto %d: %w", id, err)
	}
	return nil
}

// ListarFondos returns every fondo.
func (s *FinanzasService) ListarFondos(ctx context.Context) ([]domain.Fondo, error) {
	return s.fondos.List(ctx)
}

// ListarCierres returns every cierre.
func (s *FinanzasService) ListarCierres(ctx context.Context) ([]domain.Cierre, error) {
	return s.cierres.List(ctx)
}

// ListarParcialidades returns the parcialidades, optionally filtered by
// departamento.
func (s *FinanzasService) ListarParcialidades(ctx context.Context, departamento string) ([]domain.Parcialidad, error) {
	return s.parcialidades.List(ctx, departamento)
}
