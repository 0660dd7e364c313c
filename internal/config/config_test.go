package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxCallDepth != 0 || len(cfg.ImportPaths) != 0 {
		t.Fatalf("expected zero-value config, got %+v", cfg)
	}
}

func TestLoadParsesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teachlang.yaml")
	content := "max_call_depth: 64\nimport_paths:\n  - ./lib\n  - ./vendor\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxCallDepth != 64 {
		t.Errorf("MaxCallDepth = %d, want 64", cfg.MaxCallDepth)
	}
	want := []string{"./lib", "./vendor"}
	if len(cfg.ImportPaths) != len(want) {
		t.Fatalf("ImportPaths = %v, want %v", cfg.ImportPaths, want)
	}
	for i, p := range want {
		if cfg.ImportPaths[i] != p {
			t.Errorf("ImportPaths[%d] = %q, want %q", i, cfg.ImportPaths[i], p)
		}
	}
}
