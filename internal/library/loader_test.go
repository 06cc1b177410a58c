package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEmbedded(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(lib.Openings) == 0 || len(lib.Endgames) == 0 {
		t.Fatalf("embedded library is empty: openings=%d endgames=%d", len(lib.Openings), len(lib.Endgames))
	}
	if e := FindByID(lib.OpeningEntries(), "italian-game"); e == nil {
		t.Fatalf("expected italian-game in embedded openings")
	}
}

func TestLoadFromPathDuplicateID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.json")
	raw := `{"openings":[
		{"id":"dup","title":"One","eco":"A00","category":"X","difficulty":"beginner","positions":[]},
		{"id":"dup","title":"Two","eco":"A01","category":"X","difficulty":"beginner","positions":[]}
	],"endgames":[]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadFromPath(path); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestLoadFromPathMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected decode error for malformed library")
	}
}
