package storage

import "sync"

// MemoryStore keeps entries in a map. Tests use it so every store instance
// starts from a clean, inspectable slate.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemory() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	cp := make([]byte, len(val))
	copy(cp, val)
	return cp, nil
}

func (s *MemoryStore) Set(key string, val []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(val))
	copy(cp, val)
	s.entries[key] = cp
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
