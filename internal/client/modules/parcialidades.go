package modules

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hvigueras/edificio-admin/internal/client/gateway"
	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// Parcialidades manages the installment-payment section.
type Parcialidades struct {
	gw     *gateway.Client
	render func([]domain.Parcialidad)
}

// NewParcialidades creates the parcialidades module. render may be nil.
func NewParcialidades(gw *gateway.Client, render func([]domain.Parcialidad)) *Parcialidades {
	return &Parcialidades{gw: gw, render: render}
}

var _ Module = (*Parcialidades)(nil)

// Nombre returns the section identifier.
func (m *Parcialidades) Nombre() string { return "parcialidades" }

// Load fetches all parcialidades and renders them.
func (m *Parcialidades) Load(ctx context.Context) error {
	var resp struct {
		OK            bool                 `json:"ok"`
		Parcialidades []domain.Parcialidad `json:"parcialidades"`
	}
	if err := m.gw.Get(ctx, "/parcialidades", &resp); err != nil {
		return fmt.Errorf("cargar parcialidades: %w", err)
	}
	if m.render != nil {
		m.render(resp.Parcialidades)
	}
	return nil
}

// Invalidate purges cached parcialidad reads.
func (m *Parcialidades) Invalidate() { m.gw.Invalidate("parcialidades") }

// RegistrarPago records an installment payment, then reloads.
func (m *Parcialidades) RegistrarPago(ctx context.Context, id int, monto, totalAnual float64) error {
	body := map[string]any{"monto": monto, "total_anual": totalAnual}
	path := fmt.Sprintf("/parcialidades/%d/pagar", id)
	if err := m.gw.Mutate(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("pagar parcialidad %d: %w", id, err)
	}
	return m.Load(ctx)
}
