package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mverdi/loadburst/internal/config"
	"github.com/mverdi/loadburst/internal/dashboard"
	"github.com/mverdi/loadburst/internal/engine"
	"github.com/mverdi/loadburst/internal/httpclient"
	"github.com/mverdi/loadburst/internal/output"
	"github.com/mverdi/loadburst/internal/results"
	"github.com/mverdi/loadburst/internal/tracing"
	"github.com/mverdi/loadburst/internal/tui/app"
)

const progressInterval = time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}

	if cfg.InitConfigPath != "" {
		if err := config.WriteExample(cfg.InitConfigPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote example config to %s\n", cfg.InitConfigPath)
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tracer, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = tracer.Shutdown(shutdownCtx)
	}()

	eng := engine.New(engine.Options{
		NewRequester: func(target string) engine.Requester {
			return httpclient.New(target, httpclient.Options{Tracing: tracer})
		},
	})

	if cfg.TUI {
		return app.Run(eng, *cfg)
	}

	return runHeadless(ctx, cancel, eng, *cfg)
}

func runHeadless(ctx context.Context, cancel context.CancelFunc, eng *engine.Engine, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	clamped, notes := cfg.Clamped()
	for _, note := range notes {
		fmt.Fprintf(os.Stderr, "Note: %s\n", note)
	}

	if !clamped.AssumeYes {
		ok, err := confirmRun(os.Stdin, os.Stderr, clamped)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return nil
		}
	}

	if err := eng.Start(clamped); err != nil {
		return err
	}
	plan := eng.Plan()

	// An interrupt requests a cooperative stop; units finish their current
	// request before exiting.
	go func() {
		<-ctx.Done()
		eng.Stop()
	}()

	var dash *dashboard.Dashboard
	if clamped.Dashboard {
		var err error
		dash, err = dashboard.New(eng, dashboard.RunConfig{
			TargetURL:    plan.Config.TargetURL,
			Concurrency:  plan.Config.Concurrency,
			Total:        plan.Config.TotalRequests,
			TargetRPS:    plan.Config.TargetRPS,
			PerUnitRPS:   plan.PerUnitRPS,
			EstimatedRPS: plan.EstimatedRPS,
			ConfigFile:   clamped.ConfigFile,
		}, cancel)
		if err != nil {
			eng.Stop()
			return err
		}
		dash.Start()
	}

	var progress *output.ProgressReporter
	if !clamped.JSONOutput && !clamped.Dashboard {
		progress = output.NewProgressReporter(eng, plan.Config.TotalRequests, progressInterval, os.Stdout)
		progress.Start()
	}

	<-eng.Done()
	elapsed := eng.Elapsed()
	snap := eng.Snapshot()

	if dash != nil {
		dash.Stop()
	}
	if progress != nil {
		progress.Stop()
		fmt.Fprintln(os.Stdout)
	}

	report := output.BuildReport(eng.RunID(), plan, snap, elapsed)
	if clamped.JSONOutput {
		if err := output.PrintJSONReport(os.Stdout, report); err != nil {
			return err
		}
	} else {
		output.PrintReport(os.Stdout, report)
	}

	if clamped.OutPath != "" {
		if err := results.ExportFile(clamped.OutPath, snap.Rows); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(snap.Rows), clamped.OutPath)
	}

	if snap.Summary.Errors > 0 {
		return fmt.Errorf("%d requests failed", snap.Summary.Errors)
	}
	return nil
}
