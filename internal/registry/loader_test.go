package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDir_FiltersSerGz(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"english.all.3class.distsim.crf.ser.gz",
		"german.conll.4class.SER.GZ", // case-insensitive
		"readme.txt",
		"stanford-ner.jar",
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte(""), 0o644); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
	}
	got, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 classifiers, got %d: %+v", len(got), got)
	}
	for _, c := range got {
		if c.Path != filepath.Join(dir, c.ID) {
			t.Fatalf("path mismatch: %+v", c)
		}
	}
}

func TestLoadDir_SkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "nested.ser.gz"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no classifiers, got %+v", got)
	}
}

func TestLoadDir_MissingDir(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
