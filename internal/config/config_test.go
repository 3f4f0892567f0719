package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("default level = %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("default format = %q", cfg.Logging.Format)
	}
	if cfg.Output.Indent != "  " {
		t.Errorf("default indent = %q", cfg.Output.Indent)
	}
	if !cfg.Catalog.Enabled {
		t.Error("catalog should be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `[logging]
level = "DEBUG"
format = "JSON"

[output]
indent = "	"

[catalog]
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected the file to be reported as found")
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level not lowercased: %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("format not lowercased: %q", cfg.Logging.Format)
	}
	if cfg.Output.Indent != "\t" {
		t.Errorf("indent = %q", cfg.Output.Indent)
	}
	if cfg.Catalog.Enabled {
		t.Error("catalog should be disabled")
	}
}

func TestLoadMissingExplicitPathUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("missing file reported as found")
	}
	if cfg.Logging.Level != "info" || cfg.Output.Indent != "  " {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadExpandsCatalogPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `[catalog]
enabled = true
path = "~/cplscan-test/catalog.db"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.HasPrefix(cfg.Catalog.Path, "~") {
		t.Errorf("catalog path not expanded: %q", cfg.Catalog.Path)
	}
	if !filepath.IsAbs(cfg.Catalog.Path) {
		t.Errorf("catalog path not absolute: %q", cfg.Catalog.Path)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unsupported logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "indent with visible characters",
			mutate:  func(c *Config) { c.Output.Indent = "->" },
			wantErr: "output.indent",
		},
		{
			name: "catalog enabled without path",
			mutate: func(c *Config) {
				c.Catalog.Enabled = true
				c.Catalog.Path = ""
			},
			wantErr: "catalog.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Fatal("sample config not found after creation")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("sample config does not validate: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	got, err := ExpandPath("~/some/file.db")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	want := filepath.Join(home, "some", "file.db")
	if got != want {
		t.Errorf("ExpandPath = %q, want %q", got, want)
	}

	abs, err := ExpandPath("/already/absolute")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if abs != "/already/absolute" {
		t.Errorf("absolute path changed: %q", abs)
	}
}
