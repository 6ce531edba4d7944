package modules

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hvigueras/edificio-admin/internal/client/gateway"
	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// Cierres manages the accounting-closure section.
type Cierres struct {
	gw     *gateway.Client
	render func([]domain.Cierre)
}

// NewCierres creates the cierres module. render may be nil.
func NewCierres(gw *gateway.Client, render func([]domain.Cierre)) *Cierres {
	return &Cierres{gw: gw, render: render}
}

var _ Module = (*Cierres)(nil)

// Nombre returns the section identifier.
func (m *Cierres) Nombre() string { return "cierres" }

// Load fetches all cierres and renders them.
func (m *Cierres) Load(ctx context.Context) error {
	var resp struct {
		OK      bool            `json:"ok"`
		Cierres []domain.Cierre `json:"cierres"`
	}
	if err := m.gw.Get(ctx, "/cierres", &resp); err != nil {
		return fmt.Errorf("cargar cierres: %w", err)
	}
	if m.render != nil {
		m.render(resp.Cierres)
	}
	return nil
}

// Invalidate purges cached cierre reads.
func (m *Cierres) Invalidate() { m.gw.Invalidate("cierres") }

// Ejecutar runs the monthly closure, then reloads. An already-closed
// period is rejected by the server and surfaces here unchanged.
func (m *Cierres) Ejecutar(ctx context.Context, mes, anio int) error {
	body := map[string]any{"mes": mes, "anio": anio}
	if err := m.gw.Mutate(ctx, http.MethodPost, "/cierres", body, nil); err != nil {
		return fmt.Errorf("ejecutar cierre %d/%d: %w", mes, anio, err)
	}
	return m.Load(ctx)
}
