package auditlog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExportLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.db")

	snapshot := []Record{
		{Family: "Employee", Size: 64, Addr: 0x1000},
		{Family: "Department", Size: 32, Addr: 0x2000},
	}

	if err := Export(path, snapshot); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(got) != len(snapshot) {
		t.Fatalf("Load returned %d records, want %d", len(got), len(snapshot))
	}
	for i, rec := range snapshot {
		if got[i] != rec {
			t.Errorf("record %d = %+v, want %+v", i, got[i], rec)
		}
	}
}

func TestExportOverwritesPreviousSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.db")

	if err := Export(path, []Record{{Family: "A", Size: 1, Addr: 1}}); err != nil {
		t.Fatalf("first Export failed: %v", err)
	}
	if err := Export(path, []Record{{Family: "B", Size: 2, Addr: 2}}); err != nil {
		t.Fatalf("second Export failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly one record after overwrite, got %d", len(got))
	}
	if got[0].Family != "B" {
		t.Errorf("record Family = %q, want %q", got[0].Family, "B")
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "does-not-exist.db")

	if _, err := os.Stat(path); err == nil {
		t.Fatal("test setup error: file unexpectedly exists")
	}

	if _, err := Load(path); err != nil {
		t.Fatalf("Load on a missing file should create it and return no records, got error: %v", err)
	}
}
