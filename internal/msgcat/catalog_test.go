package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s, err := c.Render("welcome.step1.title", nil)
	if err != nil || s == "" {
		t.Fatalf("Render step1 title: %q %v", s, err)
	}
	s, err = c.Render("library.stats", map[string]int{"Openings": 6, "Endgames": 5, "Positions": 9})
	if err != nil {
		t.Fatalf("Render stats: %v", err)
	}
	if !strings.Contains(s, "6 openings") {
		t.Fatalf("unexpected stats rendering: %q", s)
	}
}

func TestOverrideDirWins(t *testing.T) {
	dir := t.TempDir()
	override := "welcome:\n  step1:\n    title: \"Hello again\"\n"
	if err := os.WriteFile(filepath.Join(dir, "override.yaml"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s, err := c.Render("welcome.step1.title", nil)
	if err != nil || s != "Hello again" {
		t.Fatalf("override not applied: %q %v", s, err)
	}
	// Untouched keys still come from the embedded defaults
	if _, err := c.Render("welcome.step2.title", nil); err != nil {
		t.Fatalf("default lost after override: %v", err)
	}
}

func TestRenderOrFallsBack(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.RenderOr("no.such.key", nil, "fallback"); got != "fallback" {
		t.Fatalf("RenderOr = %q, want fallback", got)
	}
}
