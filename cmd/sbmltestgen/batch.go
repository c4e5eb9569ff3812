package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/sbmltestgen/internal/config"
	"github.com/nao1215/sbmltestgen/internal/model"
	"github.com/nao1215/sbmltestgen/internal/pipeline"
)

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <model-file>...",
		Short: "Generate test cases for several models concurrently",
		Long: `Batch runs the generator for every model file given, several at a time.

Each model is processed exactly as by 'sbmltestgen <model-file>'. A model
that fails does not stop the others; the exit status is 1 if any failed.

Examples:
  # Regenerate every level 2 version 4 case of a test-suite checkout
  sbmltestgen batch cases/semantic/*/*-sbml-l2v4.xml

  # Limit concurrency and print a JSON summary per model
  sbmltestgen batch -b 4 -s json cases/semantic/000*/*-sbml-l3v1.xml`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBatchCmd,
	}

	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of models processed concurrently")

	return cmd
}

// runBatchCmd executes the batch command.
func runBatchCmd(cmd *cobra.Command, args []string) error {
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

	return runBatch(ctx, g)
}

// runBatch processes every model file of g.cfg and reports each run as
// it completes.
func runBatch(ctx context.Context, g *generator) error {
	files := g.cfg.ModelFiles
	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		g.pipelineFor,
		pipeline.WithConcurrency(g.cfg.BatchSize),
		pipeline.WithBatchLogger(g.logger),
	)

	// Callbacks run concurrently; mu keeps each run's report together.
	var mu sync.Mutex
	failed := 0
	err := bp.ProcessBatchWithCallback(ctx, files, func(run *model.Run, index int) {
		mu.Lock()
		defer mu.Unlock()

		if run.Failed() {
			fmt.Fprintf(g.errOut, "[%d/%d] %s failed\n", index+1, len(files), run.ModelFile)
			g.printFailure(run)
			failed++
			return
		}
		if err := g.writeSummary(run); err != nil {
			g.logger.Error("summary failed", "model", run.ModelFile, "error", err)
		}
	})

	g.logger.Info("batch complete",
		"models", len(files),
		"failed", failed,
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	if err != nil {
		return err
	}
	if failed > 0 {
		fmt.Fprintf(g.errOut, "%d of %d models failed\n", failed, len(files))
		return errFailed
	}
	return nil
}
