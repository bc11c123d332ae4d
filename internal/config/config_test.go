package config

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/modules"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Server.ReadLimit != DefaultReadLimit {
		t.Errorf("Server.ReadLimit = %d, want %d", cfg.Server.ReadLimit, DefaultReadLimit)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if diff := cmp.Diff(modules.DefaultNames, cfg.Modules); diff != "" {
		t.Errorf("Modules mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := Load(tmpDir); !stderrors.Is(err, os.ErrNotExist) {
		t.Errorf("missing config: %v", err)
	}

	path := writeConfig(t, tmpDir, `{
  "server": {"addr": "127.0.0.1:9000", "shutdownTimeout": "2s"},
  "log": {"level": "debug", "format": "json"},
  "metrics": {"enabled": false},
  "modules": ["attrs", "classes"]
}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadLimit != DefaultReadLimit {
		t.Errorf("Server.ReadLimit default not applied: %d", cfg.Server.ReadLimit)
	}
	if cfg.ShutdownWindow() != 2*time.Second {
		t.Errorf("ShutdownWindow() = %v", cfg.ShutdownWindow())
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be false")
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q", cfg.Metrics.Path)
	}
	if diff := cmp.Diff([]string{"attrs", "classes"}, cfg.Modules); diff != "" {
		t.Errorf("Modules mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOrNew(t *testing.T) {
	cfg, err := LoadOrNew(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != DefaultAddr || cfg.Path() != "" {
		t.Errorf("LoadOrNew without file = %+v", cfg)
	}

	dir := t.TempDir()
	writeConfig(t, dir, `{"log": {"level": "loud"}}`)
	if _, err := LoadOrNew(dir); !stderrors.Is(err, errors.ErrInvalidConfig) {
		t.Errorf("invalid file must still fail: %v", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", `{"server": `, "Failed to parse"},
		{"negative limit", `{"server": {"readLimit": -1}}`, "readLimit"},
		{"bad timeout", `{"server": {"shutdownTimeout": "soon"}}`, "shutdownTimeout"},
		{"bad level", `{"log": {"level": "loud"}}`, "log.level"},
		{"bad format", `{"log": {"format": "xml"}}`, "log.format"},
		{"bad metrics path", `{"metrics": {"path": "metrics"}}`, "metrics.path"},
		{"unknown module", `{"modules": ["props", "magic"]}`, "magic"},
		{"duplicate module", `{"modules": ["props", "props"]}`, "twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.body)

			_, err := Load(dir)
			if !stderrors.Is(err, errors.ErrInvalidConfig) {
				t.Fatalf("error = %v, want invalid config", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestEmptyModules(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"modules": []}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Modules) != 0 {
		t.Errorf("Modules = %v, want none", cfg.Modules)
	}
}

func TestSaveTo(t *testing.T) {
	cfg := New()
	cfg.Server.Addr = ":8123"
	cfg.Modules = []string{"styles"}

	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Addr != ":8123" || len(loaded.Modules) != 1 {
		t.Errorf("round trip = %+v", loaded)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "code", "R002")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(out, `"code":"R002"`) {
		t.Errorf("json output = %q", out)
	}

	if _, err := (LogConfig{Level: "loud"}).NewLogger(&buf); !stderrors.Is(err, errors.ErrInvalidConfig) {
		t.Errorf("bad level: %v", err)
	}
}
