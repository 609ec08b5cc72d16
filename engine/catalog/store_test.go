package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lifelineconnect/lifeline/engine/domain"
)

func writeCSV(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "resources.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewStoreStartsEmpty(t *testing.T) {
	s := NewStore(nil)
	if s.Current() == nil {
		t.Fatal("Current must never be nil")
	}
	if got := s.Resources(); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil table, got %#v", got)
	}
	if _, err := s.Reload(); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
}

func TestStoreLoadAndReload(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "name,city\nFood Bank,Tulsa\n,Norman\n")

	s := NewStore(nil)
	snap, err := s.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Resources) != 1 || snap.Rejected != 1 || snap.Source != path {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if s.Current() != snap {
		t.Fatal("Load should publish the snapshot")
	}

	old := s.Resources()
	writeCSV(t, dir, "name,city\nFood Bank,Tulsa\nShelter,Norman\n")
	snap2, err := s.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if len(snap2.Resources) != 2 {
		t.Fatalf("expected 2 resources after reload, got %d", len(snap2.Resources))
	}
	if len(old) != 1 {
		t.Fatal("previous snapshot must stay intact")
	}
}

func TestStoreFailedLoadKeepsSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "name\nA\n")

	s := NewStore(nil)
	if _, err := s.Load(path); err != nil {
		t.Fatal(err)
	}
	before := s.Current()

	writeCSV(t, dir, "city\nTulsa\n")
	if _, err := s.Reload(); !errors.Is(err, ErrNoNameColumn) {
		t.Fatalf("expected ErrNoNameColumn, got %v", err)
	}
	if s.Current() != before {
		t.Fatal("failed reload replaced the snapshot")
	}

	if _, err := s.Load(filepath.Join(dir, "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if s.Current() != before {
		t.Fatal("failed load replaced the snapshot")
	}
}

func TestNewStatic(t *testing.T) {
	s := NewStatic([]domain.Resource{{Name: "A"}})
	if len(s.Resources()) != 1 || s.Current().Source != "static" {
		t.Fatalf("unexpected %+v", s.Current())
	}
	s.Set(nil, "cleared")
	if s.Resources() == nil {
		t.Fatal("Set(nil) should publish an empty table")
	}
}

func TestStoreConcurrentReadsDuringReload(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "name\nA\nB\n")
	s := NewStore(nil)
	if _, err := s.Load(path); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if n := len(s.Resources()); n != 2 {
					t.Errorf("observed partial table of %d rows", n)
					return
				}
			}
		}()
	}
	for i := 0; i < 20; i++ {
		if _, err := s.Reload(); err != nil {
			t.Error(err)
			break
		}
	}
	wg.Wait()
}
