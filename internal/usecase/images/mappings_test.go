package images

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMappings(t *testing.T) {
	m := DefaultMappings()

	if got := m.Keywords["teide"]; len(got) != 1 || got[0] != "teide" {
		t.Errorf(`unexpected keywords["teide"]: %v`, got)
	}
	if got := m.Keywords["whale"]; len(got) != 1 || got[0] != "dolphins" {
		t.Errorf(`unexpected keywords["whale"]: %v`, got)
	}
	if got := m.Categories["natura"]; len(got) == 0 {
		t.Error(`expected fallback prefixes for category "natura"`)
	}
}

func TestLoadMappings_EmptyPathReturnsDefaults(t *testing.T) {
	m, err := LoadMappings("")
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Keywords) == 0 || len(m.Categories) == 0 {
		t.Error("expected built-in tables")
	}
}

func TestLoadMappings_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mappings.yaml")
	data := []byte(`
keywords:
  volcano: [teide]
categories:
  stargazing: [teide]
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := LoadMappings(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Keywords["volcano"]; len(got) != 1 || got[0] != "teide" {
		t.Errorf(`unexpected keywords["volcano"]: %v`, got)
	}
	if got := m.Categories["stargazing"]; len(got) != 1 || got[0] != "teide" {
		t.Errorf(`unexpected categories["stargazing"]: %v`, got)
	}
}

func TestLoadMappings_MissingFile(t *testing.T) {
	if _, err := LoadMappings(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing mappings file")
	}
}

func TestLoadMappings_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("keywords: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMappings(path); err == nil {
		t.Fatal("expected error for malformed mappings file")
	}
}
