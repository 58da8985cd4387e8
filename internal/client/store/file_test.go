package store

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestOpenFile_NotExist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	_, ok, err := s.Get("cache:courses")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected empty store")
	}
}

func TestFileStore_SetGetDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}

	if err := s.Set("cache:courses", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok, err := s.Get("cache:courses")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v, %v", got, ok, err)
	}
	if !bytes.Equal(got, []byte(`[{"id":1}]`)) {
		t.Errorf("unexpected value: %s", got)
	}

	if err := s.Delete("cache:courses"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Get("cache:courses"); ok {
		t.Error("expected key gone after delete")
	}
	// Deleting a missing key is not an error.
	if err := s.Delete("cache:courses"); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if err := s.Set("cache:settings", []byte(`{"theme":"dark"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, ok, err := reopened.Get("cache:settings")
	if err != nil || !ok {
		t.Fatalf("Get after reopen = %v, %v, %v", got, ok, err)
	}
	if !bytes.Equal(got, []byte(`{"theme":"dark"}`)) {
		t.Errorf("unexpected value after reopen: %s", got)
	}
}

func TestFileStore_SetReplacesWholeValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, _ := OpenFile(path)

	_ = s.Set("k", []byte(`[1,2,3]`))
	_ = s.Set("k", []byte(`[9]`))
	got, _, _ := s.Get("k")
	if !bytes.Equal(got, []byte(`[9]`)) {
		t.Errorf("expected full replacement, got %s", got)
	}
}
