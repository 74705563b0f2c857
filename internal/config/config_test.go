package config_test

import (
	"strings"
	"testing"

	"github.com/mverdi/loadburst/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		TargetURL:     "http://localhost:8080/ok",
		Concurrency:   10,
		TotalRequests: 100,
		TargetRPS:     50,
	}
}

// TestClampedPullsIntoRange checks both bounds of every load field.
func TestClampedPullsIntoRange(t *testing.T) {
	cfg := config.Config{
		TargetURL:     "http://localhost/",
		Concurrency:   config.MaxConcurrency + 1,
		TotalRequests: 0,
		TargetRPS:     -3,
	}

	clamped, notes := cfg.Clamped()
	if clamped.Concurrency != config.MaxConcurrency {
		t.Fatalf("concurrency %d, want %d", clamped.Concurrency, config.MaxConcurrency)
	}
	if clamped.TotalRequests != 1 {
		t.Fatalf("total %d, want 1", clamped.TotalRequests)
	}
	if clamped.TargetRPS != 1 {
		t.Fatalf("rate %d, want 1", clamped.TargetRPS)
	}
	if len(notes) != 3 {
		t.Fatalf("expected a note per adjustment, got %v", notes)
	}
}

// TestClampedInRangeUntouched ensures valid values pass through silently.
func TestClampedInRangeUntouched(t *testing.T) {
	cfg := validConfig()
	clamped, notes := cfg.Clamped()
	if clamped != cfg {
		t.Fatalf("config changed: %+v", clamped)
	}
	if len(notes) != 0 {
		t.Fatalf("unexpected notes: %v", notes)
	}
}

// TestValidate covers the structural failures clamping cannot repair.
func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"missing target", func(c *config.Config) { c.TargetURL = "" }, "target is required"},
		{"bad scheme", func(c *config.Config) { c.TargetURL = "ftp://host/file" }, "http or https"},
		{"no host", func(c *config.Config) { c.TargetURL = "http://" }, "no host"},
		{"dashboard with json", func(c *config.Config) { c.Dashboard = true; c.JSONOutput = true }, "mutually exclusive"},
		{"bad sample rate", func(c *config.Config) { c.Tracing.SampleRate = 1.5 }, "sample_rate"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %v, want substring %q", err, tc.wantErr)
			}
		})
	}
}

// TestTracingEnabled keys off the endpoint only.
func TestTracingEnabled(t *testing.T) {
	if (config.TracingConfig{}).Enabled() {
		t.Fatal("empty tracing config reported enabled")
	}
	if !(config.TracingConfig{Endpoint: "localhost:4317"}).Enabled() {
		t.Fatal("endpoint set but reported disabled")
	}
	if (config.TracingConfig{Endpoint: "   "}).Enabled() {
		t.Fatal("blank endpoint reported enabled")
	}
}
