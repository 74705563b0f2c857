package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RegisterFlags registers all CLI flags to a cobra command.
func RegisterFlags(cmd *cobra.Command) {
	configureFlags(cmd.Flags())
}

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "loadburst",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Core load flags
	flags.String("target", "", "Target URL to burst against")
	flags.IntP("concurrency", "c", 1, fmt.Sprintf("Number of concurrent units (max %d)", MaxConcurrency))
	flags.IntP("total", "t", 1, fmt.Sprintf("Total number of requests to send (max %d)", MaxTotalRequests))
	flags.IntP("rate", "r", 1, fmt.Sprintf("Aggregate requests-per-second target (max %d)", MaxRequestsPerSec))

	// Output flags
	flags.Bool("json-output", false, "Emit the final report as JSON")
	flags.Bool("dashboard", false, "Show live terminal dashboard while the run is active")
	flags.StringP("out", "o", "", "Write buffered rows to this CSV file when the run ends")

	// Control flags
	flags.BoolP("yes", "y", false, "Confirm target authorization without prompting")
	flags.Bool("tui", false, "Launch the interactive terminal UI")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")
	flags.String("init-config", "", "Write an example configuration file to the given path and exit")

	// Tracing flags
	flags.String("trace-endpoint", "", "OTLP endpoint for request traces (empty disables tracing)")
	flags.String("trace-protocol", "grpc", "OTLP protocol: 'grpc' or 'http'")
	flags.Bool("trace-insecure", false, "Skip TLS for the OTLP exporter")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config,
// overriding values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("target") {
		val, err := fs.GetString("target")
		if err != nil {
			return err
		}
		cfg.TargetURL = val
	}
	if fs.Changed("concurrency") {
		val, err := fs.GetInt("concurrency")
		if err != nil {
			return err
		}
		cfg.Concurrency = val
	}
	if fs.Changed("total") {
		val, err := fs.GetInt("total")
		if err != nil {
			return err
		}
		cfg.TotalRequests = val
	}
	if fs.Changed("rate") {
		val, err := fs.GetInt("rate")
		if err != nil {
			return err
		}
		cfg.TargetRPS = val
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("dashboard") {
		val, err := fs.GetBool("dashboard")
		if err != nil {
			return err
		}
		cfg.Dashboard = val
	}
	if fs.Changed("out") {
		val, err := fs.GetString("out")
		if err != nil {
			return err
		}
		cfg.OutPath = val
	}
	if fs.Changed("yes") {
		val, err := fs.GetBool("yes")
		if err != nil {
			return err
		}
		cfg.AssumeYes = val
	}
	if fs.Changed("trace-endpoint") {
		val, err := fs.GetString("trace-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = val
	}
	if fs.Changed("trace-protocol") {
		val, err := fs.GetString("trace-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = val
	}
	if fs.Changed("trace-insecure") {
		val, err := fs.GetBool("trace-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}
	return nil
}
