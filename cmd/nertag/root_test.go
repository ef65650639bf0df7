package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"nertag/internal/config"
)

func TestResolveConfig_Defaults(t *testing.T) {
	root := newRootCmd()
	if err := root.ParseFlags(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := resolveConfig(root)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.InstallPath != config.DefaultInstallPath || cfg.HeapSizeMB != config.DefaultHeapSizeMB {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestResolveConfig_FlagOverrides(t *testing.T) {
	root := newRootCmd()
	err := root.ParseFlags([]string{"--install-path", "/opt/x", "--heap-mb", "256", "--classifier", "c.gz"})
	if err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := resolveConfig(root)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.InstallPath != "/opt/x" || cfg.HeapSizeMB != 256 || cfg.ClassifierFile != "c.gz" {
		t.Fatalf("flag overrides not applied: %+v", cfg)
	}
	// Untouched fields keep defaults.
	if cfg.JarFile != config.DefaultJarFile {
		t.Fatalf("jar default lost: %+v", cfg)
	}
}

func TestResolveConfig_FileThenFlags(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, "cfg.yaml")
	if err := os.WriteFile(p, []byte("install_path: /from/file\nheap_size_mb: 100\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	root := newRootCmd()
	if err := root.ParseFlags([]string{"--config", p, "--heap-mb", "900"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := resolveConfig(root)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// Flags win over the file; file wins over defaults.
	if cfg.InstallPath != "/from/file" || cfg.HeapSizeMB != 900 {
		t.Fatalf("precedence wrong: %+v", cfg)
	}
}

type fakeCloser struct {
	once   sync.Once
	closed chan struct{}
}

func (f *fakeCloser) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func TestShutdownOnSignal_ClosesOnCancel(t *testing.T) {
	fc := &fakeCloser{closed: make(chan struct{})}
	_, stop := shutdownOnSignal(context.Background(), fc)
	stop()
	select {
	case <-fc.closed:
	case <-time.After(2 * time.Second):
		t.Fatalf("classifier not closed on shutdown")
	}
}

func TestResolveConfig_BadConfigFile(t *testing.T) {
	root := newRootCmd()
	if err := root.ParseFlags([]string{"--config", "/no/such/file.yaml"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := resolveConfig(root); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
