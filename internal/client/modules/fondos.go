package modules

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hvigueras/edificio-admin/internal/client/gateway"
	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// Fondos manages the building-funds section.
type Fondos struct {
	gw     *gateway.Client
	render func([]domain.Fondo)
}

// NewFondos creates the fondos module. render may be nil.
func NewFondos(gw *gateway.Client, render func([]domain.Fondo)) *Fondos {
	return &Fondos{gw: gw, render: render}
}

var _ Module = (*Fondos)(nil)

// Nombre returns the section identifier.
func (m *Fondos) Nombre() string { return "fondos" }

// Load fetches all fondos and renders them.
func (m *Fondos) Load(ctx context.Context) error {
	var resp struct {
		OK     bool           `json:"ok"`
		Fondos []domain.Fondo `json:"fondos"`
	}
	if err := m.gw.Get(ctx, "/fondos", &resp); err != nil {
		return fmt.Errorf("cargar fondos: %w", err)
	}
	if m.render != nil {
		m.render(resp.Fondos)
	}
	return nil
}

// Invalidate purges cached fondo reads.
func (m *Fondos) Invalidate() { m.gw.Invalidate("fondos") }

// Transferir moves money between two fondos, then reloads. Insufficient
// balance is rejected by the server and surfaces here unchanged.
func (m *Fondos) Transferir(ctx context.Context, t domain.Transferencia) error {
	if err := m.gw.Mutate(ctx, http.MethodPost, "/fondos/transferencia", t, nil); err != nil {
		return fmt.Errorf("transferir %.2f: %w", t.Monto, err)
	}
	return m.Load(ctx)
}
