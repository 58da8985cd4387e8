package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps all collections in a single JSON file. The whole map is
// held in memory and rewritten on every Set, via a temp file rename so a
// crash mid-write never leaves a partial file behind.
type FileStore struct {
	path string
	mu   sync.Mutex
	data map[string]json.RawMessage
}

// OpenFile loads the store at path, starting empty when the file does not
// exist yet.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path, data: make(map[string]json.RawMessage)}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("open store file: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&s.data); err != nil {
		return nil, fmt.Errorf("decode store file: %w", err)
	}
	return s, nil
}

// Get returns the blob stored under key.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
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

// Set replaces the blob under key and persists the whole store.
func (s *FileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(json.RawMessage, len(value))
	copy(cp, value)
	s.data[key] = cp
	return s.flush()
}

// Delete removes key and persists the store.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flush()
}

// Close is a no-op for the file store; every Set already persists.
func (s *FileStore) Close() error { return nil }

// flush writes the map to a temp file and renames it over the store path.
// Callers must hold s.mu.
func (s *FileStore) flush() error {
	buf, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".campussync-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
