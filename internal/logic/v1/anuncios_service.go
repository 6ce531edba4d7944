package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// AnunciosService implements notice management.
type AnunciosService struct {
	anuncios domain.AnuncioRepository
}

// NewAnunciosService creates a new AnunciosService.
func NewAnunciosService(anuncios domain.AnuncioRepository) *AnunciosService {
	return &AnunciosService{anuncios: anuncios}
}

// Listar returns every anuncio.
func (s *AnunciosService) Listar(ctx context.Context) ([]domain.Anuncio, error) {
	return s.anuncios.List(ctx)
}

// Crear publishes a new anuncio, active by default.
func (s *AnunciosService) Crear(ctx context.Context, a domain.Anuncio) (*domain.Anuncio, error) {
	if a.Titulo == "" {
		return nil, fmt.Errorf("crear anuncio: titulo requerido")
	}
	if a.FechaPublicacion.IsZero() {
		a.FechaPublicacion = time.Now().UTC()
	}
	a.Activo = true

	creado, err := s.anuncios.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("insert anuncio: %w", err)
	}
	return creado, nil
}

// Actualizar edits an anuncio.
func (s *AnunciosService) Actualizar(ctx context.Context, a domain.Anuncio) error {
	actual, err := s.anuncios.GetByID(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("query anuncio %d: %w", a.ID, err)
	}
	if actual == nil {
		return fmt.Errorf("anuncio %d: %w", a.ID, ErrNoEncontrado)
	}
	if err := s.anuncios.Update(ctx, a); err != nil {
		return fmt.Errorf("update anuncio %d: %w", a.ID, err)
	}
	return nil
}

// Eliminar removes an anuncio.
func (s *AnunciosService) Eliminar(ctx context.Context, id int) error {
	a, err := s.anuncios.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("query anuncio %d: %w", id, err)
	}
	if a == nil {
		return fmt.Errorf("anuncio %d: %w", id, ErrNoEncontrado)
	}
	if err := s.anuncios.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete anuncio %d: %w", id, err)
	}
	return nil
}
