package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/enc/audit"
	"github.com/randalmurphal/enc/config"
	"github.com/randalmurphal/enc/cost"
	"github.com/randalmurphal/enc/metrics"
	"github.com/randalmurphal/enc/pricing"
	"github.com/randalmurphal/enc/provider"
	"github.com/randalmurphal/enc/tokens"
	"github.com/randalmurphal/enc/transpile"
	"github.com/randalmurphal/enc/watch"
)

// configRecord is the first audit section of every log file.
type configRecord struct {
	RunID string `json:"run_id"`
	config.Snapshot
}

func (a *app) run(cmd *cobra.Command, inputPath string) error {
	ctx := cmd.Context()
	logger := a.logger()

	vars, err := config.BuildEnvironment(a.environ, a.envFiles)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrConfig, err)
	}
	env, err := config.ParseEnvironment(vars)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrConfig, err)
	}
	file, err := a.loadFile(logger)
	if err != nil {
		return err
	}

	o := a.overrides(cmd)
	catalog, err := pricing.Load(config.PricingPath(o, env, file))
	if err != nil {
		return err
	}

	eff, warnings, err := config.Resolve(config.Inputs{
		Overrides: o,
		Env:       env,
		File:      file,
		Catalog:   catalog,
		InputPath: inputPath,
		Command:   strings.Join(a.args, " "),
	})
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	snap := eff.Snapshot(env, catalog)
	if a.flags.showConfig {
		return a.printConfig(snap)
	}

	if !provider.IsRegistered(eff.Provider) {
		return fmt.Errorf("%w: %w: %s (available: %s)", config.ErrConfig, provider.ErrUnknownProvider,
			eff.Provider, strings.Join(provider.Available(), ", "))
	}

	var rec *metrics.Recorder
	if a.flags.metricsFile != "" {
		rec = metrics.New()
	}
	tracker := cost.NewTracker()
	counter := tokens.ForProvider(eff.Provider, eff.Model)

	pcfg := provider.Config{
		Model:   eff.Model,
		APIKey:  eff.APIKey,
		BaseURL: eff.APIBase,
		Logger:  logger,
	}

	// Each run gets its own log file, so the sink and the adapter holding
	// it are rebuilt every time.
	once := func(ctx context.Context) error {
		sink := a.openAudit(eff, snap, logger)
		defer sink.Close()

		adapter, err := provider.New(eff.Provider, pcfg.WithAudit(sink))
		if err != nil {
			return err
		}
		t := transpile.New(adapter,
			transpile.WithCatalog(catalog),
			transpile.WithAudit(sink),
			transpile.WithLogger(logger),
			transpile.WithMetrics(rec),
			transpile.WithTracker(tracker),
			transpile.WithCounter(counter),
		)

		fmt.Fprintf(a.stdout, "transpiling '%s' to %s -> '%s'...\n", eff.InputPath, eff.TargetLanguage, eff.OutputPath)
		out, err := t.Run(ctx, eff)
		if werr := rec.WriteTextfile(a.flags.metricsFile); werr != nil {
			logger.Warn("could not write metrics", "error", werr)
		}
		if err != nil {
			if provider.IsAuthError(err) {
				logger.Warn("the backend rejected the api key", "provider", eff.Provider)
			}
			return err
		}
		return out.Summary(eff).Write(a.stdout)
	}

	if err := once(ctx); err != nil {
		if !a.flags.watch {
			return err
		}
		a.printError(err)
	}
	if !a.flags.watch {
		return nil
	}

	logger.Info("watching for changes; press Ctrl-C to stop", "path", eff.InputPath)
	err = watch.New(eff.InputPath, watch.WithLogger(logger)).Watch(ctx, func(ctx context.Context) error {
		if err := once(ctx); err != nil {
			return err
		}
		return tracker.WriteSession(a.stdout)
	})
	if err != nil {
		return err
	}
	return tracker.WriteSession(a.stdout)
}

// sinkCloser is an audit sink that may hold a file open.
type sinkCloser interface {
	audit.Sink
	Close() error
}

type nopCloser struct{ audit.Sink }

func (nopCloser) Close() error { return nil }

// openAudit opens the per-run log file and records the configuration.
// Failure to open it disables logging rather than failing the run.
func (a *app) openAudit(eff config.Effective, snap config.Snapshot, logger *slog.Logger) sinkCloser {
	if eff.LogsDir == "" {
		logger.Info("api call logging is disabled as the logs path is empty")
		return nopCloser{audit.Discard}
	}

	sink, err := audit.Open(eff.LogsDir, eff.Provider, eff.Model, audit.WithLogger(logger))
	if err != nil {
		logger.Warn("could not open api log file; logging disabled", "dir", eff.LogsDir, "error", err)
		return nopCloser{audit.Discard}
	}
	logger.Debug("logging api calls", "path", sink.Path(), "run_id", sink.RunID())
	sink.Record(audit.LabelConfiguration, configRecord{RunID: sink.RunID(), Snapshot: snap})
	return sink
}

func (a *app) printError(err error) {
	color.New(color.FgRed).Fprintf(a.stderr, "error: %v\n", err)
}
