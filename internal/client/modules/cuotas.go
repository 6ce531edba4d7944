package modules

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hvigueras/edificio-admin/internal/client/gateway"
	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// Cuotas manages the monthly-fee section.
type Cuotas struct {
	gw     *gateway.Client
	render func([]domain.Cuota)
}

// NewCuotas creates the cuotas module. render may be nil.
func NewCuotas(gw *gateway.Client, render func([]domain.Cuota)) *Cuotas {
	return &Cuotas{gw: gw, render: render}
}

var _ Module = (*Cuotas)(nil)

// Nombre returns the section identifier.
func (m *Cuotas) Nombre() string { return "cuotas" }

// Load fetches all cuotas and renders them.
func (m *Cuotas) Load(ctx context.Context) error {
	var resp struct {
		OK     bool           `json:"ok"`
		Cuotas []domain.Cuota `json:"cuotas"`
	}
	if err := m.gw.Get(ctx, "/cuotas", &resp); err != nil {
		return fmt.Errorf("cargar cuotas: %w", err)
	}
	if m.render != nil {
		m.render(resp.Cuotas)
	}
	return nil
}

// Invalidate purges cached cuota reads.
func (m *Cuotas) Invalidate() { m.gw.Invalidate("cuotas") }

// GenerarMes creates the month's cuotas for every unit, then reloads.
func (m *Cuotas) GenerarMes(ctx context.Context, mes, anio int, monto float64) error {
	body := map[string]any{"mes": mes, "anio": anio, "monto": monto}
	if err := m.gw.Mutate(ctx, http.MethodPost, "/cuotas/generar", body, nil); err != nil {
		return fmt.Errorf("generar cuotas %d/%d: %w", mes, anio, err)
	}
	return m.Load(ctx)
}

// RegistrarPago marks a cuota as paid, optionally with a receipt
// reference, then reloads.
func (m *Cuotas) RegistrarPago(ctx context.Context, id int, comprobante string) error {
	body := map[string]any{"comprobante": comprobante}
	path := fmt.Sprintf("/cuotas/%d/pagar", id)
	if err := m.gw.Mutate(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("registrar pago de cuota %d: %w", id, err)
	}
	return m.Load(ctx)
}
