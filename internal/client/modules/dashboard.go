package modules

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hvigueras/edificio-admin/internal/client/gateway"
	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// DatosDashboard is everything the landing section renders.
type DatosDashboard struct {
	Resumen  domain.ResumenDashboard
	Anuncios []domain.Anuncio
}

// Dashboard manages the read-only landing section.
type Dashboard struct {
	gw     *gateway.Client
	render func(DatosDashboard)
}

// NewDashboard creates the dashboard module. render may be nil.
func NewDashboard(gw *gateway.Client, render func(DatosDashboard)) *Dashboard {
	return &Dashboard{gw: gw, render: render}
}

var _ Module = (*Dashboard)(nil)

// Nombre returns the section identifier.
func (m *Dashboard) Nombre() string { return "dashboard" }

// Load fetches the aggregate and the active notices in one concurrent
// batch and renders them together.
func (m *Dashboard) Load(ctx context.Context) error {
	resps, err := m.gw.Batch(ctx, []gateway.Request{
		{Method: http.MethodGet, Path: "/dashboard/resumen"},
		{Method: http.MethodGet, Path: "/anuncios"},
	})
	if err != nil {
		return fmt.Errorf("cargar dashboard: %w", err)
	}

	var datos DatosDashboard

	var resumen struct {
		OK      bool                    `json:"ok"`
		Resumen domain.ResumenDashboard `json:"resumen"`
	}
	if err := resps[0].JSON(&resumen); err != nil {
		return fmt.Errorf("parse resumen: %w", err)
	}
	datos.Resumen = resumen.Resumen

	var anuncios struct {
		OK       bool             `json:"ok"`
		Anuncios []domain.Anuncio `json:"anuncios"`
	}
	if err := resps[1].JSON(&anuncios); err != nil {
		return fmt.Errorf("parse anuncios: %w", err)
	}
	for _, a := range anuncios.Anuncios {
		if a.Activo {
			datos.Anuncios = append(datos.Anuncios, a)
		}
	}

	if m.render != nil {
		m.render(datos)
	}
	return nil
}

// Invalidate purges the cached aggregate.
func (m *Dashboard) Invalidate() { m.gw.Invalidate("dashboard") }
