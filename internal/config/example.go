package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// exampleFile mirrors the keys the loader understands. Kept separate from
// Config so the generated file only shows settings that belong in a file.
type exampleFile struct {
	Target      string             `yaml:"target"`
	Concurrency int                `yaml:"concurrency"`
	Total       int                `yaml:"total"`
	Rate        int                `yaml:"rate"`
	Dashboard   bool               `yaml:"dashboard"`
	JSONOutput  bool               `yaml:"json_output"`
	Out         string             `yaml:"out"`
	Tracing     exampleTracingFile `yaml:"tracing"`
}

type exampleTracingFile struct {
	Endpoint   string  `yaml:"endpoint"`
	Protocol   string  `yaml:"protocol"`
	Insecure   bool    `yaml:"insecure"`
	SampleRate float64 `yaml:"sample_rate"`
	Propagate  bool    `yaml:"propagate"`
}

const exampleHeader = `# loadburst configuration.
# Values outside the hard caps (concurrency %d, total %d, rate %d) are
# clamped to the nearest bound at run start.
`

// WriteExample writes a commented example configuration file to path. It
// refuses to overwrite an existing file.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	example := exampleFile{
		Target:      "http://localhost:8080/ok",
		Concurrency: 10,
		Total:       1000,
		Rate:        50,
		Out:         "loadburst-rows.csv",
		Tracing: exampleTracingFile{
			Protocol:   "grpc",
			SampleRate: 1.0,
		},
	}

	body, err := yaml.Marshal(example)
	if err != nil {
		return err
	}

	header := fmt.Sprintf(exampleHeader, MaxConcurrency, MaxTotalRequests, MaxRequestsPerSec)
	return os.WriteFile(path, append([]byte(header), body...), 0o644)
}
