package enrich

import (
	"path/filepath"
	"testing"
)

func TestProgressLoadMissingFile(t *testing.T) {
	p := &Progress{Path: filepath.Join(t.TempDir(), "missing.csv")}

	m, err := p.Load()
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if len(m) != 0 {
		t.Errorf("Expected empty map for missing file, got %d entries", len(m))
	}
}

func TestProgressRoundTrip(t *testing.T) {
	p := &Progress{Path: filepath.Join(t.TempDir(), "progress.csv")}

	results := []Result{
		{ID: "1", ImageURL: "https://example.com/milk.jpg"},
		{ID: "2", ImageURL: ""},
		{ID: "3", ImageURL: QuotaSentinel},
	}
	if err := p.Save(results); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	m, err := p.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if len(m) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(m))
	}
	if m["1"] != "https://example.com/milk.jpg" {
		t.Errorf("Expected URL for id 1, got %q", m["1"])
	}
	if m["2"] != "" {
		t.Errorf("Expected empty URL for id 2, got %q", m["2"])
	}
	if m["3"] != QuotaSentinel {
		t.Errorf("Expected quota sentinel for id 3, got %q", m["3"])
	}
}

func TestProgressSaveOverwrites(t *testing.T) {
	p := &Progress{Path: filepath.Join(t.TempDir(), "progress.csv")}

	if err := p.Save([]Result{{ID: "1", ImageURL: "a"}, {ID: "2", ImageURL: "b"}}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := p.Save([]Result{{ID: "1", ImageURL: "a"}}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	m, err := p.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(m) != 1 {
		t.Errorf("Expected full overwrite to leave 1 entry, got %d", len(m))
	}
}
