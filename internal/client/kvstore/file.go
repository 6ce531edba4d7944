package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File implements Store backed by a flat JSON file. The whole map is
// rewritten atomically (temp file + rename) on every mutation; the working
// set is a handful of session keys, so this is cheap.
type File struct {
	mu   sync.Mutex
	ruta string
	m    map[string]string
}

// OpenFile loads the store at ruta, creating an empty one when the file
// does not exist.
func OpenFile(ruta string) (*File, error) {
	s := &File{ruta: ruta, m: make(map[string]string)}

	data, err := os.ReadFile(ruta)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read storage %q: %w", ruta, err)
	}
	if err := json.Unmarshal(data, &s.m); err != nil {
		return nil, fmt.Errorf("parse storage %q: %w", ruta, err)
	}
	return s, nil
}

var _ Store = (*File)(nil)

func (s *File) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *File) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return s.guardar()
}

func (s *File) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return s.guardar()
}

// guardar writes the map back to disk. Callers must hold s.mu.
func (s *File) guardar() error {
	data, err := json.MarshalIndent(s.m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}

	dir := filepath.Dir(s.ruta)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create storage dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".storage-*.json")
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
	if err := os.Rename(name, s.ruta); err != nil {
		os.Remove(name)
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
