package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// UsuarioRepo implements domain.UsuarioRepository on the flat-file DB.
type UsuarioRepo struct {
	db *DB
}

// NewUsuarioRepo creates a new UsuarioRepo.
func NewUsuarioRepo(db *DB) *UsuarioRepo {
	return &UsuarioRepo{db: db}
}

var _ domain.UsuarioRepository = (*UsuarioRepo)(nil)

// List returns every user ordered by ID.
func (r *UsuarioRepo) List(ctx context.Context) ([]domain.Usuario, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.Usuario, 0, len(r.db.doc.Usuarios))
	for _, reg := range r.db.doc.Usuarios {
		u := reg.Usuario
		u.PasswordHash = reg.PasswordHash
		out = append(out, u)
	}
	return out, nil
}

// GetByID returns the user with the given ID, or (nil, nil).
func (r *UsuarioRepo) GetByID(ctx context.Context, id int) (*domain.Usuario, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, reg := range r.db.doc.Usuarios {
		if reg.ID == id {
			u := reg.Usuario
			u.PasswordHash = reg.PasswordHash
			return &u, nil
		}
	}
	return nil, nil
}

// GetByEmail returns the user matching the given email, or (nil, nil).
// Emails are compared case-insensitively.
func (r *UsuarioRepo) GetByEmail(ctx context.Context, email string) (*domain.Usuario, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, reg := range r.db.doc.Usuarios {
		if strings.EqualFold(reg.Email, email) {
			u := reg.Usuario
			u.PasswordHash = reg.PasswordHash
			return &u, nil
		}
	}
	return nil, nil
}

// ExistsByEmail returns true when a user with the given email exists.
func (r *UsuarioRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := r.GetByEmail(ctx, email)
	return u != nil, err
}

// Create inserts a new user and returns it with the generated ID.
func (r *UsuarioRepo) Create(ctx context.Context, u domain.Usuario) (*domain.Usuario, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u.ID = r.db.siguienteID("usuarios")
	reg := usuarioRegistro{Usuario: u, PasswordHash: u.PasswordHash}
	r.db.doc.Usuarios = append(r.db.doc.Usuarios, reg)
	if err := r.db.guardar(); err != nil {
		return nil, err
	}
	return &u, nil
}

// Update overwrites the stored user with the same ID.
func (r *UsuarioRepo) Update(ctx context.Context, u domain.Usuario) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, reg := range r.db.doc.Usuarios {
		if reg.ID == u.ID {
			hash := u.PasswordHash
			if hash == "" {
				hash = reg.PasswordHash
			}
			r.db.doc.Usuarios[i] = usuarioRegistro{Usuario: u, PasswordHash: hash}
			return r.db.guardar()
		}
	}
	return fmt.Errorf("usuario %d no existe", u.ID)
}

// Delete removes the user with the given ID.
func (r *UsuarioRepo) Delete(ctx context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, reg := range r.db.doc.Usuarios {
		if reg.ID == id {
			r.db.doc.Usuarios = append(r.db.doc.Usuarios[:i], r.db.doc.Usuarios[i+1:]...)
			return r.db.guardar()
		}
	}
	return fmt.Errorf("usuario %d no existe", id)
}
