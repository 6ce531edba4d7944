package repository

import (
	"context"
	"sync"
	"time"

	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// SesionRepo implements domain.SesionRepository with an in-memory token
// table. Sessions do not survive a server restart; clients renew on load.
type SesionRepo struct {
	mu       sync.Mutex
	sesiones map[string]domain.Sesion
}

// NewSesionRepo creates a new SesionRepo.
func NewSesionRepo() *SesionRepo {
	return &SesionRepo{sesiones: make(map[string]domain.Sesion)}
}

var _ domain.SesionRepository = (*SesionRepo)(nil)

// Create stores a new session for the given user.
func (r *SesionRepo) Create(ctx context.Context, usuarioID int, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sesiones[token] = domain.Sesion{Token: token, UsuarioID: usuarioID, ExpiresAt: expiresAt}
	return nil
}

// GetByToken looks up a session by its token. Returns (nil, nil) on miss.
func (r *SesionRepo) GetByToken(ctx context.Context, token string) (*domain.Sesion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sesiones[token]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Delete removes the session for the given token.
func (r *SesionRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sesiones, token)
	return nil
}

// DeleteExpired removes every session whose expiry has passed.
func (r *SesionRepo) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for token, s := range r.sesiones {
		if now.After(s.ExpiresAt) {
			delete(r.sesiones, token)
		}
	}
	return nil
}
