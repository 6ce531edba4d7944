package domain

import "context"

// UsuarioRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only, never on the storage format.
type UsuarioRepository interface {
	// List returns every user ordered by ID.
	List(ctx context.Context) ([]Usuario, error)

	// GetByID returns the user with the given ID.
	// Returns (nil, nil) when no user is found.
	GetByID(ctx context.Context, id int) (*Usuario, error)

	// GetByEmail returns the user matching the given email.
	// Returns (nil, nil) when no user is found.
	GetByEmail(ctx context.Context, email string) (*Usuario, error)

	// ExistsByEmail returns true when a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create inserts a new user and returns it with the generated ID.
	Create(ctx context.Context, u Usuario) (*Usuario, error)

	// Update overwrites the stored user with the same ID.
	Update(ctx context.Context, u Usuario) error

	// Delete removes the user with the given ID.
	Delete(ctx context.Context, id int) error
}
