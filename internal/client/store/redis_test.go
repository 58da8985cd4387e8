package store

import (
	"bytes"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := OpenRedis(mr.Addr(), "test:")
	if err != nil {
		t.Fatalf("OpenRedis failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRedis_Unreachable(t *testing.T) {
	if _, err := OpenRedis("127.0.0.1:1", "test:"); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestRedisStore_SetGetDelete(t *testing.T) {
	s := newRedisStore(t)

	if _, ok, err := s.Get("cache:courses"); ok || err != nil {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := s.Set("cache:courses", []byte(`[{"id":7}]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok, err := s.Get("cache:courses")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v, %v", got, ok, err)
	}
	if !bytes.Equal(got, []byte(`[{"id":7}]`)) {
		t.Errorf("unexpected value: %s", got)
	}

	if err := s.Delete("cache:courses"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Get("cache:courses"); ok {
		t.Error("expected key gone after delete")
	}
}

func TestRedisStore_SetReplacesWholeValue(t *testing.T) {
	s := newRedisStore(t)

	_ = s.Set("k", []byte(`[1,2,3]`))
	_ = s.Set("k", []byte(`[9]`))
	got, _, _ := s.Get("k")
	if !bytes.Equal(got, []byte(`[9]`)) {
		t.Errorf("expected full replacement, got %s", got)
	}
}
