// Package repository implements the domain data-access contracts on top of a
// single flat JSON file, the storage format used by the upstream system.
// All collections live in one document; every mutation rewrites the file
// atomically (temp file + rename).
package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// usuarioRegistro persists a user together with its password hash, which the
// domain type deliberately excludes from JSON.
type usuarioRegistro struct {
	domain.Usuario
	PasswordHash string `json:"password_hash"`
}

type documento struct {
	Usuarios      []usuarioRegistro    `json:"usuarios"`
	Cuotas        []domain.Cuota       `json:"cuotas"`
	Gastos        []domain.Gasto       `json:"gastos"`
	Fondos        []domain.Fondo       `json:"fondos"`
	Anuncios      []domain.Anuncio     `json:"anuncios"`
	Cierres       []domain.Cierre      `json:"cierres"`
	Parcialidades []domain.Parcialidad `json:"parcialidades"`
	Secuencias    map[string]int       `json:"secuencias"`
}

// DB is the shared handle to the flat-file document. The typed repositories
// in this package all operate through one DB so a single mutex covers every
// collection.
type DB struct {
	mu   sync.Mutex
	ruta string
	doc  documento
}

// Open loads the document at ruta, creating an empty one when the file does
// not exist yet.
func Open(ruta string) (*DB, error) {
	db := &DB{
		ruta: ruta,
		doc:  documento{Secuencias: make(map[string]int)},
	}

	data, err := os.ReadFile(ruta)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return db, nil
		}
		return nil, fmt.Errorf("read data file %q: %w", ruta, err)
	}

	if err := json.Unmarshal(data, &db.doc); err != nil {
		return nil, fmt.Errorf("parse data file %q: %w", ruta, err)
	}
	if db.doc.Secuencias == nil {
		db.doc.Secuencias = make(map[string]int)
	}
	return db, nil
}

// guardar writes the document back to disk. Callers must hold db.mu.
func (db *DB) guardar() error {
	data, err := json.MarshalIndent(db.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data file: %w", err)
	}

	dir := filepath.Dir(db.ruta)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".edificio-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(name, db.ruta); err != nil {
		os.Remove(name)
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

// siguienteID returns the next ID for the named collection.
// Callers must hold db.mu.
func (db *DB) siguienteID(coleccion string) int {
	db.doc.Secuencias[coleccion]++
	return db.doc.Secuencias[coleccion]
}
