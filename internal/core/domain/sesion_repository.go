package domain

import (
	"context"
	"time"
)

// Sesion represents an issued auth token together with its owner and expiry.
type Sesion struct {
	Token     string
	UsuarioID int
	ExpiresAt time.Time
}

// SesionRepository defines the data-access contract for session tokens.
// Implementations live in internal/core/repository (Core layer).
type SesionRepository interface {
	// Create stores a new session for the given user.
	Create(ctx context.Context, usuarioID int, token string, expiresAt time.Time) error

	// GetByToken looks up a session by its token.
	// Returns (nil, nil) when the token does not match any session.
	GetByToken(ctx context.Context, token string) (*Sesion, error)

	// Delete removes the session for the given token.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes every session whose expiry has passed.
	DeleteExpired(ctx context.Context) error
}
