package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/hvigueras/edificio-admin/internal/core/domain"
	"github.com/hvigueras/edificio-admin/middleware"
)

// sesionTTL is how long an issued token stays valid.
const sesionTTL = 24 * time.Hour

// AuthService implements authentication business rules.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT touch the storage format directly.
type AuthService struct {
	usuarios domain.UsuarioRepository
	sesiones domain.SesionRepository
}

// NewAuthService creates a new AuthService with the given repository dependencies.
func NewAuthService(usuarios domain.UsuarioRepository, sesiones domain.SesionRepository) *AuthService {
	return &AuthService{
		usuarios: usuarios,
		sesiones: sesiones,
	}
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("email", req.Email),
	))
	defer span.End()

	u, err := s.usuarios.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query usuario %q: %w", req.Email, err)
	}
	if u == nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		return nil, fmt.Errorf("authenticate %q: %w", req.Email, ErrUsuarioNoEncontrado)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate %q: %w", req.Email, ErrCredencialesInvalidas)
	}

	token := uuid.NewString()
	if err := s.sesiones.Create(ctx, u.ID, token, time.Now().Add(sesionTTL)); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create sesion: %w", err)
	}

	span.SetAttributes(
		attribute.Int("usuario.id", u.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("usuario.authenticated")

	return &domain.AuthResponse{OK: true, Token: token, Usuario: u}, nil
}

// Renovar exchanges a valid token for a fresh one, returning the current
// user. The old token is revoked.
func (s *AuthService) Renovar(ctx context.Context, token string) (*domain.AuthResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.renovar", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	u, err := s.UsuarioPorToken(ctx, token)
	if err != nil {
		return nil, err
	}

	nuevo := uuid.NewString()
	if err := s.sesiones.Create(ctx, u.ID, nuevo, time.Now().Add(sesionTTL)); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create sesion: %w", err)
	}
	if err := s.sesiones.Delete(ctx, token); err != nil {
		span.RecordError(err)
	}

	span.SetAttributes(attribute.Int("usuario.id", u.ID))
	return &domain.AuthResponse{OK: true, Token: nuevo, Usuario: u}, nil
}

// UsuarioPorToken resolves a session token to its user.
func (s *AuthService) UsuarioPorToken(ctx context.Context, token string) (*domain.Usuario, error) {
	ses, err := s.sesiones.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("query sesion: %w", err)
	}
	if ses == nil {
		return nil, fmt.Errorf("lookup sesion: %w", ErrSesionNoEncontrada)
	}
	if time.Now().After(ses.ExpiresAt) {
		_ = s.sesiones.Delete(ctx, token)
		return nil, fmt.Errorf("sesion vencida en %v: %w", ses.ExpiresAt, ErrSesionExpirada)
	}

	u, err := s.usuarios.GetByID(ctx, ses.UsuarioID)
	if err != nil {
		return nil, fmt.Errorf("query usuario %d: %w", ses.UsuarioID, err)
	}
	if u == nil {
		return nil, fmt.Errorf("usuario %d: %w", ses.UsuarioID, ErrUsuarioNoEncontrado)
	}
	return u, nil
}

// CrearAdminInicial provisions the primary administrator account when no
// users exist yet. Safe to call on every startup.
func (s *AuthService) CrearAdminInicial(ctx context.Context, email, password string) error {
	existe, err := s.usuarios.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if existe {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.usuarios.Create(ctx, domain.Usuario{
		Nombre:       "Administrador",
		Email:        email,
		Rol:          domain.RolAdmin,
		PasswordHash: string(hash),
		CreadoEn:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}
