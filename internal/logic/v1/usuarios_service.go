package v1

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// adminPrincipalID is the user that can never be deleted. The bootstrap
// admin is always the first record in the store.
const adminPrincipalID = 1

// UsuariosService implements user management business rules.
type UsuariosService struct {
	usuarios domain.UsuarioRepository
}

// NewUsuariosService creates a new UsuariosService.
func NewUsuariosService(usuarios domain.UsuarioRepository) *UsuariosService {
	return &UsuariosService{usuarios: usuarios}
}

// Listar returns every registered user.
func (s *UsuariosService) Listar(ctx context.Context) ([]domain.Usuario, error) {
	return s.usuarios.List(ctx)
}

// Crear registers a new user. The email must be unique and the role one of
// the known values.
func (s *UsuariosService) Crear(ctx context.Context, u domain.Usuario, password string) (*domain.Usuario, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Rol == "" {
		u.Rol = domain.RolInquilino
	}

	existe, err := s.usuarios.ExistsByEmail(ctx, u.Email)
	if err != nil {
		return nil, fmt.Errorf("check email %q: %w", u.Email, err)
	}
	if existe {
		return nil, fmt.Errorf("crear usuario %q: %w", u.Email, ErrUsuarioExiste)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	u.CreadoEn = time.Now().UTC()

	creado, err := s.usuarios.Create(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("insert usuario: %w", err)
	}
	return creado, nil
}

// Actualizar modifies an existing user. Password is only re-hashed when a
// new one is provided.
func (s *UsuariosService) Actualizar(ctx context.Context, u domain.Usuario, password string) error {
	actual, err := s.usuarios.GetByID(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("query usuario %d: %w", u.ID, err)
	}
	if actual == nil {
		return fmt.Errorf("usuario %d: %w", u.ID, ErrUsuarioNoEncontrado)
	}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	if u.CreadoEn.IsZero() {
		u.CreadoEn = actual.CreadoEn
	}

	if err := s.usuarios.Update(ctx, u); err != nil {
		return fmt.Errorf("update usuario %d: %w", u.ID, err)
	}
	return nil
}

// Eliminar removes a user. The primary administrator is protected.
func (s *UsuariosService) Eliminar(ctx context.Context, id int) error {
	if id == adminPrincipalID {
		return fmt.Errorf("eliminar usuario %d: %w", id, ErrAdminProtegido)
	}

	u, err := s.usuarios.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("query usuario %d: %w", id, err)
	}
	if u == nil {
		return fmt.Errorf("usuario %d: %w", id, ErrUsuarioNoEncontrado)
	}

	if err := s.usuarios.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete usuario %d: %w", id, err)
	}
	return nil
}
