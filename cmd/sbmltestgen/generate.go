package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/sbmltestgen/internal/config"
	"github.com/nao1215/sbmltestgen/internal/database"
	"github.com/nao1215/sbmltestgen/internal/log"
	"github.com/nao1215/sbmltestgen/internal/model"
	"github.com/nao1215/sbmltestgen/internal/pipeline"
	"github.com/nao1215/sbmltestgen/internal/report"
)

// runGenerateCmd processes the single model file given to the root command.
func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := newGenerator(cmd, cfg, newLogger(cmd, cfg))
	defer g.close()

	run := model.NewRun(cfg.ModelFiles[0])
	previous := g.latestRun(ctx, run.ModelFile)
	if err := g.pipelineFor(run.ModelFile).Execute(ctx, run); err != nil {
		g.printFailure(run)
		return errFailed
	}
	if previous != nil && !slices.Equal(previous.Levels, run.Levels) {
		g.logger.Info("translatable levels changed since the last run",
			"model", run.ModelFile,
			"previous", previous.Levels,
			"current", run.Levels,
			"last_run", previous.Date,
		)
	}
	return g.writeSummary(run)
}

// newLogger creates the logger selected by the verbose and log-json flags.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	jsonLog, err := cmd.Flags().GetBool("log-json")
	if err == nil && jsonLog {
		return log.NewJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}
	return log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.ModelFiles = args
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.SummaryFormat, err = cmd.Flags().GetString("summary")
	if err != nil {
		return nil, err
	}
	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory
	cfg.SkipTranslations, err = cmd.Flags().GetBool("no-translations")
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Lookup("batch") != nil {
		cfg.BatchSize, err = cmd.Flags().GetInt("batch")
		if err != nil {
			return nil, err
		}
	}

	// An explicitly named configuration file must exist; otherwise a
	// missing file just means defaults.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file, cmd.Flags().Changed)
	case explicitConfigPath:
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	return cfg, nil
}

// headerFor returns the header text configured for modelFile.
func headerFor(cfg *config.Config, modelFile string) report.HeaderDefaults {
	h := cfg.File.HeaderFor(modelFile)
	return report.HeaderDefaults{
		Category:    h.Category,
		Synopsis:    h.Synopsis,
		TestType:    h.TestType,
		GeneratedBy: h.GeneratedBy,
		Description: h.Description,
	}
}

// generator holds what the runs of one command share.
type generator struct {
	cfg    *config.Config
	logger *slog.Logger

	// out and errOut are safe for concurrent use by batch runs.
	out    io.Writer
	errOut io.Writer

	// summary is nil unless --summary was given.
	summary report.Writer

	// db is nil when history is disabled or could not be opened.
	db *database.HistoryDB
}

// newGenerator prepares the shared state for cfg.
// A history database that cannot be opened is logged and skipped.
func newGenerator(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) *generator {
	var mu sync.Mutex
	g := &generator{
		cfg:    cfg,
		logger: logger,
		out:    &lockedWriter{w: cmd.OutOrStdout(), mu: &mu},
		errOut: &lockedWriter{w: cmd.ErrOrStderr(), mu: &mu},
	}

	if cfg.SummaryFormat != "" {
		// Validate has already rejected unknown formats.
		g.summary, _ = report.NewWriter(cfg.SummaryFormat, g.out) //nolint:errcheck // format is validated
	}

	if cfg.SaveHistory {
		db, err := database.Open(cfg.HistoryDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("history disabled", "dir", cfg.HistoryDir, "error", err)
		} else {
			g.db = db
		}
	}

	return g
}

// close releases the history database.
func (g *generator) close() {
	if g.db != nil {
		if err := g.db.Close(); err != nil {
			g.logger.Warn("failed to close history database", "error", err)
		}
	}
}

// latestRun returns the last recorded run of modelFile, or nil when there
// is none or history is disabled.
func (g *generator) latestRun(ctx context.Context, modelFile string) *model.RunSummary {
	if g.db == nil {
		return nil
	}
	prev, err := g.db.LatestRun(ctx, modelFile)
	if err != nil {
		g.logger.Debug("failed to read previous run", "model", modelFile, "error", err)
		return nil
	}
	return prev
}

// pipelineFor creates the pipeline for one model file.
func (g *generator) pipelineFor(modelFile string) *pipeline.Pipeline {
	opts := pipeline.Options{
		Header:           headerFor(g.cfg, modelFile),
		SkipTranslations: g.cfg.SkipTranslations,
		Out:              g.out,
		ErrOut:           g.errOut,
		Logger:           g.logger,
	}
	if g.db != nil {
		opts.Recorder = g.db
	}
	return pipeline.DefaultPipeline(opts)
}

// printFailure explains why run stopped, in the form the test-suite
// scripts expect.
func (g *generator) printFailure(run *model.Run) {
	switch {
	case errors.Is(run.Error, pipeline.ErrSBMLErrors):
		fmt.Fprintln(g.errOut, "Encountered the following SBML errors:")
		if err := run.Document.PrintErrors(g.errOut); err != nil {
			g.logger.Warn("failed to print diagnostics", "error", err)
		}
	case errors.Is(run.Error, pipeline.ErrNoModel):
		fmt.Fprintln(g.out, "No model present.")
	case run.Error != nil:
		fmt.Fprintf(g.errOut, "Error:  %v\n", run.Error)
	}
}

// writeSummary prints the run summary if one was requested.
func (g *generator) writeSummary(run *model.Run) error {
	if g.summary == nil {
		return nil
	}
	if _, err := g.summary.Write(run); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// lockedWriter serialises writes to a shared output.
type lockedWriter struct {
	w  io.Writer
	mu *sync.Mutex
}

// Write implements io.Writer.
func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
