package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mverdi/loadburst/internal/config"
)

// TestLoadFlags parses a plain flag invocation.
func TestLoadFlags(t *testing.T) {
	loader := config.NewLoader()
	cfg, err := loader.Load([]string{
		"--target", "http://localhost:9000/ok",
		"-c", "8",
		"-t", "200",
		"-r", "40",
		"--json-output",
		"-y",
		"-o", "rows.csv",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TargetURL != "http://localhost:9000/ok" {
		t.Fatalf("target %q", cfg.TargetURL)
	}
	if cfg.Concurrency != 8 || cfg.TotalRequests != 200 || cfg.TargetRPS != 40 {
		t.Fatalf("load fields %d/%d/%d", cfg.Concurrency, cfg.TotalRequests, cfg.TargetRPS)
	}
	if !cfg.JSONOutput || !cfg.AssumeYes || cfg.OutPath != "rows.csv" {
		t.Fatalf("output fields %+v", cfg)
	}
	if cfg.TUI {
		t.Fatal("tui enabled without the flag")
	}
}

// TestLoadDefaults leaves everything at the minimum when only a target is
// given.
func TestLoadDefaults(t *testing.T) {
	cfg, err := config.NewLoader().Load([]string{"--target", "http://localhost/"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Concurrency != 1 || cfg.TotalRequests != 1 || cfg.TargetRPS != 1 {
		t.Fatalf("defaults %d/%d/%d, want 1/1/1", cfg.Concurrency, cfg.TotalRequests, cfg.TargetRPS)
	}
	if cfg.Tracing.Protocol != "grpc" || cfg.Tracing.SampleRate != 1.0 {
		t.Fatalf("tracing defaults %+v", cfg.Tracing)
	}
}

// TestLoadBareInvocationDefaultsToTUI checks the no-arguments path.
func TestLoadBareInvocationDefaultsToTUI(t *testing.T) {
	cfg, err := config.NewLoader().Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.TUI {
		t.Fatal("bare invocation did not select the TUI")
	}
}

// TestLoadHelp returns the sentinel instead of a config.
func TestLoadHelp(t *testing.T) {
	_, err := config.NewLoader().Load([]string{"--help"})
	if !errors.Is(err, config.ErrHelpRequested) {
		t.Fatalf("expected ErrHelpRequested, got %v", err)
	}
}

// TestLoadConfigFileAndOverride checks file values and flag precedence.
func TestLoadConfigFileAndOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "burst.yaml")
	content := `
target: http://filehost:8080/ok
concurrency: 20
total: 500
rate: 100
json_output: true
tracing:
  endpoint: localhost:4317
  protocol: http
  sample_rate: 0.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--config", path, "-c", "3"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TargetURL != "http://filehost:8080/ok" {
		t.Fatalf("target %q", cfg.TargetURL)
	}
	// The flag wins over the file.
	if cfg.Concurrency != 3 {
		t.Fatalf("concurrency %d, want flag override 3", cfg.Concurrency)
	}
	if cfg.TotalRequests != 500 || cfg.TargetRPS != 100 || !cfg.JSONOutput {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Tracing.Endpoint != "localhost:4317" || cfg.Tracing.Protocol != "http" || cfg.Tracing.SampleRate != 0.5 {
		t.Fatalf("tracing section not applied: %+v", cfg.Tracing)
	}
	if cfg.ConfigFile != path {
		t.Fatalf("config file path %q", cfg.ConfigFile)
	}
}

// TestLoadMissingConfigFile surfaces the read error.
func TestLoadMissingConfigFile(t *testing.T) {
	_, err := config.NewLoader().Load([]string{"--config", "/nonexistent/burst.yaml"})
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

// TestWriteExample generates a loadable file and refuses to overwrite it.
func TestWriteExample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "example.yaml")

	if err := config.WriteExample(path); err != nil {
		t.Fatalf("write example: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read example: %v", err)
	}
	if !strings.HasPrefix(string(data), "# loadburst configuration") {
		t.Fatalf("missing header comment: %q", string(data)[:40])
	}

	// The generated file must round-trip through the loader.
	cfg, err := config.NewLoader().Load([]string{"--config", path})
	if err != nil {
		t.Fatalf("load generated example: %v", err)
	}
	if cfg.TargetURL == "" || cfg.Concurrency != 10 {
		t.Fatalf("example values not loaded: %+v", cfg)
	}

	if err := config.WriteExample(path); err == nil {
		t.Fatal("expected refusal to overwrite an existing file")
	}
}
