package kvstore

import "sync"

// Memory implements Store with a plain map. Used in tests and anywhere
// persistence across runs is not needed.
type Memory struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

var _ Store = (*Memory)(nil)

func (s *Memory) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *Memory) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *Memory) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}
