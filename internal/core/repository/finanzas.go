package repository

import (
	"context"
	"fmt"

	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// CuotaRepo implements domain.CuotaRepository on the flat-file DB.
type CuotaRepo struct {
	db *DB
}

// NewCuotaRepo creates a new CuotaRepo.
func NewCuotaRepo(db *DB) *CuotaRepo {
	return &CuotaRepo{db: db}
}

var _ domain.CuotaRepository = (*CuotaRepo)(nil)

// List returns every cuota, optionally filtered by departamento.
func (r *CuotaRepo) List(ctx context.Context, departamento string) ([]domain.Cuota, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.Cuota, 0, len(r.db.doc.Cuotas))
	for _, c := range r.db.doc.Cuotas {
		if departamento == "" || c.Departamento == departamento {
			out = append(out, c)
		}
	}
	return out, nil
}

// GetByID returns the cuota with the given ID, or (nil, nil).
func (r *CuotaRepo) GetByID(ctx context.Context, id int) (*domain.Cuota, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, c := range r.db.doc.Cuotas {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

// CreateBatch inserts the given cuotas and returns them with generated IDs.
func (r *CuotaRepo) CreateBatch(ctx context.Context, cuotas []domain.Cuota) ([]domain.Cuota, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	creadas := make([]domain.Cuota, 0, len(cuotas))
	for _, c := range cuotas {
		c.ID = r.db.siguienteID("cuotas")
		r.db.doc.Cuotas = append(r.db.doc.Cuotas, c)
		creadas = append(creadas, c)
	}
	if err := r.db.guardar(); err != nil {
		return nil, err
	}
	return creadas, nil
}

// Update overwrites the stored cuota with the same ID.
func (r *CuotaRepo) Update(ctx context.Context, c domain.Cuota) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, got := range r.db.doc.Cuotas {
		if got.ID == c.ID {
			r.db.doc.Cuotas[i] = c
			return r.db.guardar()
		}
	}
	return fmt.Errorf("cuota %d no existe", c.ID)
}

// GastoRepo implements domain.GastoRepository on the flat-file DB.
type GastoRepo struct {
	db *DB
}

// NewGastoRepo creates a new GastoRepo.
func NewGastoRepo(db *DB) *GastoRepo {
	return &GastoRepo{db: db}
}

var _ domain.GastoRepository = (*GastoRepo)(nil)

// List returns every gasto.
func (r *GastoRepo) List(ctx context.Context) ([]domain.Gasto, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.Gasto, len(r.db.doc.Gastos))
	copy(out, r.db.doc.Gastos)
	return out, nil
}

// GetByID returns the gasto with the given ID, or (nil, nil).
func (r *GastoRepo) GetByID(ctx context.Context, id int) (*domain.Gasto, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, g := range r.db.doc.Gastos {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, nil
}

// Create inserts a new gasto and returns it with the generated ID.
func (r *GastoRepo) Create(ctx context.Context, g domain.Gasto) (*domain.Gasto, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	g.ID = r.db.siguienteID("gastos")
	r.db.doc.Gastos = append(r.db.doc.Gastos, g)
	if err := r.db.guardar(); err != nil {
		return nil, err
	}
	return &g, nil
}

// Update overwrites the stored gasto with the same ID.
func (r *GastoRepo) Update(ctx context.Context, g domain.Gasto) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, got := range r.db.doc.Gastos {
		if got.ID == g.ID {
			r.db.doc.Gastos[i] = g
			return r.db.guardar()
		}
	}
	return fmt.Errorf("gasto %d no existe", g.ID)
}

// Delete removes the gasto with the given ID.
func (r *GastoRepo) Delete(ctx context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, g := range r.db.doc.Gastos {
		if g.ID == id {
			r.db.doc.Gastos = append(r.db.doc.Gastos[:i], r.db.doc.Gastos[i+1:]...)
			return r.db.guardar()
		}
	}
	return fmt.Errorf("gasto %d no existe", id)
}

// FondoRepo implements domain.FondoRepository on the flat-file DB.
type FondoRepo struct {
	db *DB
}

// NewFondoRepo creates a new FondoRepo.
func NewFondoRepo(db *DB) *FondoRepo {
	return &FondoRepo{db: db}
}

var _ domain.FondoRepository = (*FondoRepo)(nil)

// List returns every fondo.
func (r *FondoRepo) List(ctx context.Context) ([]domain.Fondo, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.Fondo, len(r.db.doc.Fondos))
	copy(out, r.db.doc.Fondos)
	return out, nil
}

// GetByID returns the fondo with the given ID, or (nil, nil).
func (r *FondoRepo) GetByID(ctx context.Context, id int) (*domain.Fondo, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, f := range r.db.doc.Fondos {
		if f.ID == id {
			return &f, nil
		}
	}
	return nil, nil
}

// UpdateSaldos atomically overwrites the balances of both fondos touched by
// a transfer. Either both rows change and the file is rewritten once, or
// nothing changes.
func (r *FondoRepo) UpdateSaldos(ctx context.Context, origen, destino domain.Fondo) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	oi, di := -1, -1
	for i, f := range r.db.doc.Fondos {
		switch f.ID {
		case origen.ID:
			oi = i
		case destino.ID:
			di = i
		}
	}
	if oi < 0 {
		return fmt.Errorf("fondo %d no existe", origen.ID)
	}
	if di < 0 {
		return fmt.Errorf("fondo %d no existe", destino.ID)
	}

	r.db.doc.Fondos[oi] = origen
	r.db.doc.Fondos[di] = destino
	return r.db.guardar()
}

// Seed inserts the given fondos when the collection is empty.
func (r *FondoRepo) Seed(ctx context.Context, fondos []domain.Fondo) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if len(r.db.doc.Fondos) > 0 {
		return nil
	}
	for _, f := range fondos {
		f.ID = r.db.siguienteID("fondos")
		r.db.doc.Fondos = append(r.db.doc.Fondos, f)
	}
	return r.db.guardar()
}

// CierreRepo implements domain.CierreRepository on the flat-file DB.
type CierreRepo struct {
	db *DB
}

// NewCierreRepo creates a new CierreRepo.
func NewCierreRepo(db *DB) *CierreRepo {
	return &CierreRepo{db: db}
}

var _ domain.CierreRepository = (*CierreRepo)(nil)

// List returns every cierre.
func (r *CierreRepo) List(ctx context.Context) ([]domain.Cierre, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.Cierre, len(r.db.doc.Cierres))
	copy(out, r.db.doc.Cierres)
	return out, nil
}

// GetByPeriodo returns the closure for the given month, or (nil, nil).
func (r *CierreRepo) GetByPeriodo(ctx context.Context, mes, anio int) (*domain.Cierre, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, c := range r.db.doc.Cierres {
		if c.Mes == mes && c.Anio == anio {
			return &c, nil
		}
	}
	return nil, nil
}

// Create inserts a new cierre and returns it with the generated ID.
func (r *CierreRepo) Create(ctx context.Context, c domain.Cierre) (*domain.Cierre, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c.ID = r.db.siguienteID("cierres")
	r.db.doc.Cierres = append(r.db.doc.Cierres, c)
	if err := r.db.guardar(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ParcialidadRepo implements domain.ParcialidadRepository on the flat-file DB.
type ParcialidadRepo struct {
	db *DB
}

// NewParcialidadRepo creates a new ParcialidadRepo.
func NewParcialidadRepo(db *DB) *ParcialidadRepo {
	return &ParcialidadRepo{db: db}
}

var _ domain.ParcialidadRepository = (*ParcialidadRepo)(nil)

// List returns every parcialidad, optionally filtered by departamento.
func (r *ParcialidadRepo) List(ctx context.Context, departamento string) ([]domain.Parcialidad, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.Parcialidad, 0, len(r.db.doc.Parcialidades))
	for _, p := range r.db.doc.Parcialidades {
		if departamento == "" || p.Departamento == departamento {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetByID returns the parcialidad with the given ID, or (nil, nil).
func (r *ParcialidadRepo) GetByID(ctx context.Context, id int) (*domain.Parcialidad, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, p := range r.db.doc.Parcialidades {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

// Update overwrites the stored parcialidad with the same ID.
func (r *ParcialidadRepo) Update(ctx context.Context, p domain.Parcialidad) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, got := range r.db.doc.Parcialidades {
		if got.ID == p.ID {
			r.db.doc.Parcialidades[i] = p
			return r.db.guardar()
		}
	}
	return fmt.Errorf("parcialidad %d no existe", p.ID)
}
