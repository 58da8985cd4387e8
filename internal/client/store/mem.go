package store

import "sync"

// MemStore is a volatile in-memory Store. Used in tests and for ephemeral
// sessions that should leave nothing behind on disk.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// OpenMem constructs an empty MemStore.
func OpenMem() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

// Get returns the blob stored under key.
func (s *MemStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set replaces the blob under key.
func (s *MemStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[key] = cp
	return nil
}

// Delete removes key.
func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Close is a no-op.
func (s *MemStore) Close() error { return nil }
