package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/sbmltestgen/internal/model"
	"github.com/nao1215/sbmltestgen/internal/report"
)

// DefaultConcurrency is the number of runs a BatchProcessor executes at once
// unless WithConcurrency says otherwise.
const DefaultConcurrency = 10

// Factory creates the pipeline for one model file.
type Factory func(modelFile string) *Pipeline

// BatchProcessor handles concurrent processing of multiple model files.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-run execution
// 2. Runs share nothing, so each gets its own pipeline from the factory
type BatchProcessor struct {
	// factory creates a new pipeline for each run. It receives the model
	// file so per-model configuration can be applied.
	factory Factory

	// concurrency is the maximum number of concurrent runs.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed runs in input order.
	// Access is synchronized via mutex.
	results []*model.Run
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent runs.
// Values below one are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(factory Factory, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		factory:     factory,
		concurrency: DefaultConcurrency,
		results:     make([]*model.Run, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs the pipeline for every model file concurrently.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
//
// Returns one run per model file, in input order, including failed runs.
// The error return is only set if the batch was cancelled; files not
// started by then have a nil entry.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, modelFiles []string) ([]*model.Run, error) {
	bp.results = make([]*model.Run, len(modelFiles))

	err := bp.ProcessBatchWithCallback(ctx, modelFiles, func(run *model.Run, index int) {
		bp.mu.Lock()
		bp.results[index] = run
		bp.mu.Unlock()
	})

	return bp.results, err
}

// ProcessBatchWithCallback runs every model file and calls callback for
// each completed run. This is useful for streaming results.
//
// The callback receives the run and the index of its file in modelFiles.
// It is called from the goroutine that completed the run, so it must be
// safe for concurrent use. Files of the same test case (the same
// description file) never run at the same time; they run in input order.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	modelFiles []string,
	callback func(run *model.Run, index int),
) error {
	bp.logger.Info("starting batch processing",
		"total_models", len(modelFiles),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	// Files of one test case share their translations and description
	// file, so each case runs its files one after another.
	for _, group := range groupByCase(modelFiles) {
		g.Go(func() error {
			for _, i := range group {
				if err := ctx.Err(); err != nil {
					return err
				}
				callback(bp.runOne(ctx, modelFiles[i], i, len(modelFiles)), i)
			}
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_models", len(modelFiles),
		"elapsed", time.Since(startTime),
	)

	return err
}

// runOne executes the pipeline for one model file.
func (bp *BatchProcessor) runOne(ctx context.Context, modelFile string, index, total int) *model.Run {
	bp.logger.Debug("processing model",
		"model", modelFile,
		"index", index+1,
		"total", total,
	)

	run := model.NewRun(modelFile)
	if err := bp.factory(modelFile).Execute(ctx, run); err != nil {
		// Failures stay with their run; other files continue.
		bp.logger.Debug("run failed",
			"model", modelFile,
			"error", err,
		)
	}
	return run
}

// groupByCase groups the indexes of modelFiles by the description file
// they write, in order of first appearance. A file without the -sbml-l
// token writes no description file and only shares with itself.
func groupByCase(modelFiles []string) [][]int {
	var groups [][]int
	seen := make(map[string]int, len(modelFiles))
	for i, file := range modelFiles {
		key := filepath.Clean(file)
		if name, err := report.ModelFileName(key); err == nil {
			key = name
		}
		if g, ok := seen[key]; ok {
			groups[g] = append(groups[g], i)
			continue
		}
		seen[key] = len(groups)
		groups = append(groups, []int{i})
	}
	return groups
}
