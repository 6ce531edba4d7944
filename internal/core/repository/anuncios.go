package repository

import (
	"context"
	"fmt"

	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// AnuncioRepo implements domain.AnuncioRepository on the flat-file DB.
type AnuncioRepo struct {
	db *DB
}

// NewAnuncioRepo creates a new AnuncioRepo.
func NewAnuncioRepo(db *DB) *AnuncioRepo {
	return &AnuncioRepo{db: db}
}

var _ domain.AnuncioRepository = (*AnuncioRepo)(nil)

// List returns every anuncio.
func (r *AnuncioRepo) List(ctx context.Context) ([]domain.Anuncio, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.Anuncio, len(r.db.doc.Anuncios))
	copy(out, r.db.doc.Anuncios)
	return out, nil
}

// GetByID returns the anuncio with the given ID, or (nil, nil).
func (r *AnuncioRepo) GetByID(ctx context.Context, id int) (*domain.Anuncio, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, a := range r.db.doc.Anuncios {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

// Create inserts a new anuncio and returns it with the generated ID.
func (r *AnuncioRepo) Create(ctx context.Context, a domain.Anuncio) (*domain.Anuncio, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a.ID = r.db.siguienteID("anuncios")
	r.db.doc.Anuncios = append(r.db.doc.Anuncios, a)
	if err := r.db.guardar(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Update overwrites the stored anuncio with the same ID.
func (r *AnuncioRepo) Update(ctx context.Context, a domain.Anuncio) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, got := range r.db.doc.Anuncios {
		if got.ID == a.ID {
			r.db.doc.Anuncios[i] = a
			return r.db.guardar()
		}
	}
	return fmt.Errorf("anuncio %d no existe", a.ID)
}

// Delete removes the anuncio with the given ID.
func (r *AnuncioRepo) Delete(ctx context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, a := range r.db.doc.Anuncios {
		if a.ID == id {
			r.db.doc.Anuncios = append(r.db.doc.Anuncios[:i], r.db.doc.Anuncios[i+1:]...)
			return r.db.guardar()
		}
	}
	return fmt.Errorf("anuncio %d no existe", id)
}
