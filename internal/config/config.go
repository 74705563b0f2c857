package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Hard global caps on what a single run may request. These are not
// configurable at runtime; out-of-range operator input is clamped, never
// rejected.
const (
	MaxRequestsPerSec = 1000
	MaxTotalRequests  = 100000
	MaxConcurrency    = 500
)

// Config describes one load-test run plus the output surface around it.
// The engine only reads the first four fields; the rest drive the cmd layer.
type Config struct {
	TargetURL     string `mapstructure:"target"`
	Concurrency   int    `mapstructure:"concurrency"`
	TotalRequests int    `mapstructure:"total"`
	TargetRPS     int    `mapstructure:"rate"`

	JSONOutput bool   `mapstructure:"json_output"`
	Dashboard  bool   `mapstructure:"dashboard"`
	AssumeYes  bool   `mapstructure:"assume_yes"`
	OutPath    string `mapstructure:"out"`
	ConfigFile string `mapstructure:"-"`

	// CLI-only switches, never read from config files.
	TUI            bool   `mapstructure:"-"`
	InitConfigPath string `mapstructure:"-"`

	Tracing TracingConfig `mapstructure:"tracing"`
}

// TracingConfig enables the optional OTLP trace exporter.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	ServiceName string  `mapstructure:"service_name"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Propagate   bool    `mapstructure:"propagate"`
}

// Enabled reports whether an exporter endpoint was configured.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != ""
}

// Clamped forces the load fields into their legal ranges and reports every
// adjustment made. Out-of-range values are a policy matter, not an error:
// the run proceeds at the nearest bound.
func (c Config) Clamped() (Config, []string) {
	var notes []string
	clampInt := func(name string, v *int, lo, hi int) {
		switch {
		case *v < lo:
			notes = append(notes, fmt.Sprintf("%s raised from %d to %d", name, *v, lo))
			*v = lo
		case *v > hi:
			notes = append(notes, fmt.Sprintf("%s lowered from %d to %d", name, *v, hi))
			*v = hi
		}
	}
	clampInt("concurrency", &c.Concurrency, 1, MaxConcurrency)
	clampInt("total", &c.TotalRequests, 1, MaxTotalRequests)
	clampInt("rate", &c.TargetRPS, 1, MaxRequestsPerSec)
	return c, notes
}

// Validate checks structural problems that clamping cannot repair.
func (c Config) Validate() error {
	target := strings.TrimSpace(c.TargetURL)
	if target == "" {
		return fmt.Errorf("target is required (use --help for usage information)")
	}
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("target must be an http or https URL, got %q", target)
	}
	if u.Host == "" {
		return fmt.Errorf("target %q has no host", target)
	}
	if c.Dashboard && c.JSONOutput {
		return fmt.Errorf("dashboard and json-output are mutually exclusive")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing sample_rate must be between 0.0 and 1.0, got %g", c.Tracing.SampleRate)
	}
	return nil
}
