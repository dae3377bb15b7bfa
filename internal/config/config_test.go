package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	errs "github.com/tidl-lang/tidl/core/errors"
	"github.com/tidl-lang/tidl/internal/logging"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "tidl.yaml", `
search_paths:
  - schemas
  - vendor/schemas
cache_size: 64
store_path: .tidl-store.db
log_level: debug
log_format: json
`)

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &Config{
		SearchPaths: []string{"schemas", "vendor/schemas"},
		CacheSize:   64,
		StorePath:   ".tidl-store.db",
		LogLevel:    "debug",
		LogFormat:   "json",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "tidl.json", `{
  "search_paths": ["schemas"],
  "log_level": "warn"
}`)

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.SearchPaths) != 1 || got.SearchPaths[0] != "schemas" {
		t.Errorf("SearchPaths = %v; want [schemas]", got.SearchPaths)
	}
	if got.LogLevel != "warn" {
		t.Errorf("LogLevel = %q; want warn", got.LogLevel)
	}
	// Fields absent from the file keep their defaults.
	if got.LogFormat != "text" {
		t.Errorf("LogFormat = %q; want text", got.LogFormat)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad level", "log_level: loud\n"},
		{"bad format", "log_format: xml\n"},
		{"negative cache", "cache_size: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "tidl.yaml", tt.body)
			if _, err := Load(path); err == nil {
				t.Error("Load should reject invalid config")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Error("Load should fail for a missing file")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("default config mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoggingAccessors(t *testing.T) {
	c := &Config{LogLevel: "error", LogFormat: "json"}
	if c.LoggingLevel() != logging.LevelError {
		t.Errorf("LoggingLevel() = %v; want LevelError", c.LoggingLevel())
	}
	if c.LoggingFormat() != logging.FormatJSON {
		t.Errorf("LoggingFormat() = %v; want FormatJSON", c.LoggingFormat())
	}

	c = &Config{}
	if c.LoggingLevel() != logging.LevelInfo {
		t.Errorf("LoggingLevel() = %v; want LevelInfo", c.LoggingLevel())
	}
	if c.LoggingFormat() != logging.FormatText {
		t.Errorf("LoggingFormat() = %v; want FormatText", c.LoggingFormat())
	}
}

func TestLoadRejectsErrInvalidInput(t *testing.T) {
	path := writeConfig(t, "tidl.yaml", "log_format: xml\n")
	_, err := Load(path)
	if !errs.Is(err, errs.ErrInvalidInput) {
		t.Errorf("Load error = %v; want ErrInvalidInput", err)
	}
}
