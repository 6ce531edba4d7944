package modules

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hvigueras/edificio-admin/internal/client/gateway"
	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// Usuarios manages the user administration section.
type Usuarios struct {
	gw     *gateway.Client
	render func([]domain.Usuario)
}

// NewUsuarios creates the usuarios module. render may be nil.
func NewUsuarios(gw *gateway.Client, render func([]domain.Usuario)) *Usuarios {
	return &Usuarios{gw: gw, render: render}
}

var _ Module = (*Usuarios)(nil)

// Nombre returns the section identifier.
func (m *Usuarios) Nombre() string { return "usuarios" }

// Load fetches the user list and renders it.
func (m *Usuarios) Load(ctx context.Context) error {
	var resp struct {
		OK       bool             `json:"ok"`
		Usuarios []domain.Usuario `json:"usuarios"`
	}
	if err := m.gw.Get(ctx, "/usuarios", &resp); err != nil {
		return fmt.Errorf("cargar usuarios: %w", err)
	}
	if m.render != nil {
		m.render(resp.Usuarios)
	}
	return nil
}

// Invalidate purges cached user reads.
func (m *Usuarios) Invalidate() { m.gw.Invalidate("usuarios") }

// Crear registers a new user, then reloads the section.
func (m *Usuarios) Crear(ctx context.Context, u domain.Usuario, password string) error {
	body := struct {
		domain.Usuario
		Password string `json:"password"`
	}{Usuario: u, Password: password}

	if err := m.gw.Mutate(ctx, http.MethodPost, "/usuarios", body, nil); err != nil {
		return fmt.Errorf("crear usuario: %w", err)
	}
	return m.Load(ctx)
}

// Actualizar updates a user, then reloads the section. An empty password
// keeps the current one.
func (m *Usuarios) Actualizar(ctx context.Context, u domain.Usuario, password string) error {
	body := struct {
		domain.Usuario
		Password string `json:"password,omitempty"`
	}{Usuario: u, Password: password}

	path := fmt.Sprintf("/usuarios/%d", u.ID)
	if err := m.gw.Mutate(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("actualizar usuario %d: %w", u.ID, err)
	}
	return m.Load(ctx)
}

// Eliminar deletes a user, then reloads the section. Deleting the primary
// administrator is rejected by the server and surfaces here unchanged.
func (m *Usuarios) Eliminar(ctx context.Context, id int) error {
	path := fmt.Sprintf("/usuarios/%d", id)
	if err := m.gw.Mutate(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("eliminar usuario %d: %w", id, err)
	}
	return m.Load(ctx)
}
