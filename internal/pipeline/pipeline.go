package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/sbmltestgen/internal/model"
)

// Step is one stage of a run.
//
// Design decision: Steps are an interface rather than plain functions so
// that they can carry their own options (output writers, the prober, the
// recorder) and report a stable Name() for logs and the run history.
type Step interface {
	// Do advances run. A returned error stops the run; problems the run
	// survives are reported by the step itself and return nil.
	Do(ctx context.Context, run *model.Run) error

	// Name identifies the step in logs and in Run.PerformedSteps.
	Name() string
}

// Pipeline runs its steps in order over a single model.Run.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger

	// continueOnError keeps later steps running after a failure.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps running after a failed step. Off by default:
// every step after the gate relies on what the earlier ones produced.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step over run.
//
// The context is checked between steps only; a single step is a short
// sequence of file operations. A cancelled run is marked Cancelled.
// Unless continueOnError is set, the first failing step ends the run and
// its error is returned. Failures are always recorded on run, and run is
// finished only when Execute returns nil.
func (p *Pipeline) Execute(ctx context.Context, run *model.Run) error {
	log := p.logger.With("model", run.ModelFile)

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			log.Warn("pipeline cancelled", "step", step.Name(), "reason", err)
			run.Cancelled = true
			run.SetError(err)
			return err
		}

		log.Info("executing step", "step", step.Name())
		err := step.Do(ctx, run)
		if err != nil {
			log.Debug("step failed", "step", step.Name(), "error", err)
			run.SetError(err)
			if !p.continueOnError {
				return err
			}
		} else {
			log.Debug("step completed", "step", step.Name())
		}
		run.PerformedSteps = append(run.PerformedSteps, step.Name())
	}

	run.Finish()
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	return names
}
