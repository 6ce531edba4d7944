package modules

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hvigueras/edificio-admin/internal/client/gateway"
	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// Anuncios manages the building-notice section.
type Anuncios struct {
	gw     *gateway.Client
	render func([]domain.Anuncio)
}

// NewAnuncios creates the anuncios module. render may be nil.
func NewAnuncios(gw *gateway.Client, render func([]domain.Anuncio)) *Anuncios {
	return &Anuncios{gw: gw, render: render}
}

var _ Module = (*Anuncios)(nil)

// Nombre returns the section identifier.
func (m *Anuncios) Nombre() string { return "anuncios" }

// Load fetches all anuncios and renders them.
func (m *Anuncios) Load(ctx context.Context) error {
	var resp struct {
		OK       bool             `json:"ok"`
		Anuncios []domain.Anuncio `json:"anuncios"`
	}
	if err := m.gw.Get(ctx, "/anuncios", &resp); err != nil {
		return fmt.Errorf("cargar anuncios: %w", err)
	}
	if m.render != nil {
		m.render(resp.Anuncios)
	}
	return nil
}

// Invalidate purges cached anuncio reads.
func (m *Anuncios) Invalidate() { m.gw.Invalidate("anuncios") }

// Crear publishes a new notice, then reloads.
func (m *Anuncios) Crear(ctx context.Context, a domain.Anuncio) error {
	if err := m.gw.Mutate(ctx, http.MethodPost, "/anuncios", a, nil); err != nil {
		return fmt.Errorf("crear anuncio: %w", err)
	}
	return m.Load(ctx)
}

// Actualizar edits a notice, then reloads.
func (m *Anuncios) Actualizar(ctx context.Context, a domain.Anuncio) error {
	path := fmt.Sprintf("/anuncios/%d", a.ID)
	if err := m.gw.Mutate(ctx, http.MethodPut, path, a, nil); err != nil {
		return fmt.Errorf("actualizar anuncio %d: %w", a.ID, err)
	}
	return m.Load(ctx)
}

// Eliminar removes a notice, then reloads.
func (m *Anuncios) Eliminar(ctx context.Context, id int) error {
	path := fmt.Sprintf("/anuncios/%d", id)
	if err := m.gw.Mutate(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("eliminar anuncio %d: %w", id, err)
	}
	return m.Load(ctx)
}
