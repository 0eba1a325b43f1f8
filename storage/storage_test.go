package storage

import (
	"errors"
	"testing"
)

func testStore(t *testing.T, s Store) {
	t.Helper()

	if _, err := s.Get(AuthKey); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound on empty store, got %v", err)
	}

	if err := s.Set(AuthKey, []byte(`{"isLoggedIn":true}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	val, err := s.Get(AuthKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(val) != `{"isLoggedIn":true}` {
		t.Fatalf("unexpected value: %s", val)
	}

	if _, err := s.Get(CartKey); !errors.Is(err, ErrKeyNotFound) {
		t.Fatal("keys must be independent")
	}

	if err := s.Delete(AuthKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(AuthKey); !errors.Is(err, ErrKeyNotFound) {
		t.Fatal("expected ErrKeyNotFound after delete")
	}

	// deleting a missing key is not an error
	if err := s.Delete(AuthKey); err != nil {
		t.Fatalf("delete of missing key: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemory())
}

func TestBadgerStore(t *testing.T) {
	s, err := OpenBadger(t.TempDir())
	if err != nil {
		t.Fatalf("opening badger: %v", err)
	}
	defer s.Close()

	testStore(t, s)
}

func TestBadgerStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenBadger(dir)
	if err != nil {
		t.Fatalf("opening badger: %v", err)
	}
	if err := s.Set(CartKey, []byte(`{"items":[]}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = OpenBadger(dir)
	if err != nil {
		t.Fatalf("reopening badger: %v", err)
	}
	defer s.Close()

	val, err := s.Get(CartKey)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if string(val) != `{"items":[]}` {
		t.Fatalf("unexpected value after reopen: %s", val)
	}
}
