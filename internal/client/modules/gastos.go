package modules

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hvigueras/edificio-admin/internal/client/gateway"
	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// Gastos manages the expenses section.
type Gastos struct {
	gw     *gateway.Client
	render func([]domain.Gasto)
}

// NewGastos creates the gastos module. render may be nil.
func NewGastos(gw *gateway.Client, render func([]domain.Gasto)) *Gastos {
	return &Gastos{gw: gw, render: render}
}

var _ Module = (*Gastos)(nil)

// Nombre returns the section identifier.
func (m *Gastos) Nombre() string { return "gastos" }

// Load fetches all gastos and renders them.
func (m *Gastos) Load(ctx context.Context) error {
	var resp struct {
		OK     bool           `json:"ok"`
		Gastos []domain.Gasto `json:"gastos"`
	}
	if err := m.gw.Get(ctx, "/gastos", &resp); err != nil {
		return fmt.Errorf("cargar gastos: %w", err)
	}
	if m.render != nil {
		m.render(resp.Gastos)
	}
	return nil
}

// Invalidate purges cached gasto reads.
func (m *Gastos) Invalidate() { m.gw.Invalidate("gastos") }

// Crear records a new expense, then reloads.
func (m *Gastos) Crear(ctx context.Context, g domain.Gasto) error {
	if err := m.gw.Mutate(ctx, http.MethodPost, "/gastos", g, nil); err != nil {
		return fmt.Errorf("crear gasto: %w", err)
	}
	return m.Load(ctx)
}

// Actualizar updates an expense, then reloads.
func (m *Gastos) Actualizar(ctx context.Context, g domain.Gasto) error {
	path := fmt.Sprintf("/gastos/%d", g.ID)
	if err := m.gw.Mutate(ctx, http.MethodPut, path, g, nil); err != nil {
		return fmt.Errorf("actualizar gasto %d: %w", g.ID, err)
	}
	return m.Load(ctx)
}

// Eliminar deletes an expense, then reloads.
func (m *Gastos) Eliminar(ctx context.Context, id int) error {
	path := fmt.Sprintf("/gastos/%d", id)
	if err := m.gw.Mutate(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("eliminar gasto %d: %w", id, err)
	}
	return m.Load(ctx)
}
