package config

import (
	"os"
	"path/filepath"
	"testing"

	"webmap/internal/shortcode"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Listen != "127.0.0.1:8080" {
		t.Errorf("default listen = %q, want 127.0.0.1:8080", cfg.Listen)
	}
	if !cfg.History {
		t.Error("default history should be true")
	}
	if cfg.Locale != "" {
		t.Errorf("default locale = %q, want auto-detect", cfg.Locale)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"empty listen", func(c *Config) { c.Listen = "" }, true},
		{"invalid theme", func(c *Config) { c.Defaults.Theme = "neon" }, true},
		{"valid dark theme", func(c *Config) { c.Defaults.Theme = "Dark" }, false},
		{"invalid id", func(c *Config) { c.Defaults.ID = "not-an-id" }, true},
		{"valid id", func(c *Config) { c.Defaults.ID = "a72b0766aea04b48bf7a0e8c27ccc007" }, false},
		{"invalid width", func(c *Config) { c.Defaults.Width = "wide" }, true},
		{"valid percent width", func(c *Config) { c.Defaults.Width = "80%" }, false},
		{"valid px height", func(c *Config) { c.Defaults.Height = "400px" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromTOML(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	dir := filepath.Join(tmpDir, "webmap")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := `
locale = "de"
history = false
listen = ":9090"

[defaults]
theme = "dark"
height = "450"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Locale != "de" {
		t.Errorf("locale = %q, want de", cfg.Locale)
	}
	if cfg.History {
		t.Error("history should be false")
	}
	if cfg.Listen != ":9090" {
		t.Errorf("listen = %q, want :9090", cfg.Listen)
	}
	if cfg.Defaults.Theme != "dark" || cfg.Defaults.Height != "450" {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[defaults]\ntheme = \"neon\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected validation error")
	}

	if err := os.WriteFile(path, []byte("listen = [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}
	if cfg.Listen != "127.0.0.1:8080" {
		t.Errorf("missing file should return defaults, got listen = %q", cfg.Listen)
	}
}

func TestDefaultsApply(t *testing.T) {
	d := Defaults{Theme: "dark", Width: "80%", Height: "300"}
	in := shortcode.Attributes{Width: shortcode.Str(""), Flags: []string{"zoom"}}

	out := d.Apply(in)

	if v, _ := out.Get(shortcode.AttrTheme); v != "dark" {
		t.Errorf("theme = %q, want dark", v)
	}
	if v, ok := out.Get(shortcode.AttrWidth); !ok || v != "" {
		t.Errorf("explicit empty width should be kept, got %q (set %v)", v, ok)
	}
	if v, _ := out.Get(shortcode.AttrHeight); v != "300" {
		t.Errorf("height = %q, want 300", v)
	}
	if _, ok := out.Get(shortcode.AttrID); ok {
		t.Error("id should stay unset when no site default exists")
	}
	if in.Theme != nil {
		t.Error("Apply modified its input")
	}
	if !out.HasFlag("zoom") {
		t.Error("flags should be preserved")
	}
}

func TestHistoryPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	path, err := HistoryPath()
	if err != nil {
		t.Fatalf("HistoryPath() error: %v", err)
	}
	if path != "/tmp/data/webmap/history.tsv" {
		t.Errorf("got %q", path)
	}
}
