package store

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteGetMissingKey(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Get("absent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("Get(absent) = %q, want empty string", got)
	}
}

func TestSQLiteSetGet(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("todoAppData", `{"projects":[]}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := s.Get("todoAppData")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != `{"projects":[]}` {
		t.Errorf("Get = %q", got)
	}
}

func TestSQLiteSetReplaces(t *testing.T) {
	s := newTestStore(t)

	s.Set("key", "first")
	if err := s.Set("key", "second"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, _ := s.Get("key")
	if got != "second" {
		t.Errorf("Get after overwrite = %q, want second", got)
	}
}

func TestSQLiteDelete(t *testing.T) {
	s := newTestStore(t)

	s.Set("key", "value")
	if err := s.Delete("key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got, _ := s.Get("key"); got != "" {
		t.Errorf("Get after delete = %q, want empty string", got)
	}

	// Deleting a missing key is fine
	if err := s.Delete("key"); err != nil {
		t.Errorf("second delete errored: %v", err)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Set("key", "survives")
	s.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if got, _ := reopened.Get("key"); got != "survives" {
		t.Errorf("Get after reopen = %q, want survives", got)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	if got, _ := s.Get("absent"); got != "" {
		t.Errorf("Get(absent) = %q, want empty string", got)
	}
	s.Set("key", "value")
	if got, _ := s.Get("key"); got != "value" {
		t.Errorf("Get = %q, want value", got)
	}
	s.Delete("key")
	if got, _ := s.Get("key"); got != "" {
		t.Errorf("Get after delete = %q, want empty string", got)
	}
}
