package domain

import "context"

// CuotaRepository defines the data-access contract for monthly fees.
type CuotaRepository interface {
	// List returns every cuota, optionally filtered by departamento
	// (empty string = all units).
	List(ctx context.Context, departamento string) ([]Cuota, error)

	// GetByID returns the cuota with the given ID, or (nil, nil).
	GetByID(ctx context.Context, id int) (*Cuota, error)

	// CreateBatch inserts the given cuotas (one per unit when a month is
	// generated) and returns them with generated IDs.
	CreateBatch(ctx context.Context, cuotas []Cuota) ([]Cuota, error)

	// Update overwrites the stored cuota with the same ID.
	Update(ctx context.Context, c Cuota) error
}

// GastoRepository defines the data-access contract for expenses.
type GastoRepository interface {
	List(ctx context.Context) ([]Gasto, error)
	GetByID(ctx context.Context, id int) (*Gasto, error)
	Create(ctx context.Context, g Gasto) (*Gasto, error)
	Update(ctx context.Context, g Gasto) error
	Delete(ctx context.Context, id int) error
}

// FondoRepository defines the data-access contract for building funds.
type FondoRepository interface {
	List(ctx context.Context) ([]Fondo, error)
	GetByID(ctx context.Context, id int) (*Fondo, error)

	// UpdateSaldos atomically overwrites the balances of both fondos
	// touched by a transfer.
	UpdateSaldos(ctx context.Context, origen, destino Fondo) error
}

// AnuncioRepository defines the data-access contract for notices.
type AnuncioRepository interface {
	List(ctx context.Context) ([]Anuncio, error)
	GetByID(ctx context.Context, id int) (*Anuncio, error)
	Create(ctx context.Context, a Anuncio) (*Anuncio, error)
	Update(ctx context.Context, a Anuncio) error
	Delete(ctx context.Context, id int) error
}

// CierreRepository defines the data-access contract for accounting closures.
type CierreRepository interface {
	List(ctx context.Context) ([]Cierre, error)

	// GetByPeriodo returns the closure for the given month, or (nil, nil).
	GetByPeriodo(ctx context.Context, mes, anio int) (*Cierre, error)

	Create(ctx context.Context, c Cierre) (*Cierre, error)
}

// ParcialidadRepository defines the data-access contract for installments.
type ParcialidadRepository interface {
	List(ctx context.Context, departamento string) ([]Parcialidad, error)
	GetByID(ctx context.Context, id int) (*Parcialidad, error)
	Update(ctx context.Context, p Parcialidad) error
}
