package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/sbmltestgen/internal/classify"
	"github.com/nao1215/sbmltestgen/internal/model"
	"github.com/nao1215/sbmltestgen/internal/report"
	"github.com/nao1215/sbmltestgen/internal/sbml"
	"github.com/nao1215/sbmltestgen/internal/translate"
)

// Step names, as recorded in model.Run.PerformedSteps.
const (
	StepLoad     = "load"
	StepGate     = "gate"
	StepProbe    = "probe"
	StepClassify = "classify"
	StepFormat   = "format"
	StepWrite    = "write"
	StepRecord   = "record"
)

// reportError prints a problem the run survives, in the form the test-suite
// scripts look for on stderr.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error:  %s\n", err)
}

// LoadStep reads the SBML file named by the run.
type LoadStep struct{}

// NewLoadStep creates a new load step.
func NewLoadStep() *LoadStep {
	return &LoadStep{}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return StepLoad
}

// Do reads run.ModelFile into run.Document. Only I/O failures are errors;
// content problems are left as diagnostics for the gate.
func (s *LoadStep) Do(_ context.Context, run *model.Run) error {
	doc, err := sbml.ReadFile(run.ModelFile)
	if err != nil {
		return err
	}
	run.Document = doc
	return nil
}

// GateStep stops runs whose document cannot be described.
//
// Design decision: The gate is a separate step rather than part of loading
// so that the caller can still print the diagnostics from run.Document
// after the run failed.
type GateStep struct{}

// NewGateStep creates a new gate step.
func NewGateStep() *GateStep {
	return &GateStep{}
}

// Name returns the step name.
func (s *GateStep) Name() string {
	return StepGate
}

// Do returns ErrSBMLErrors if the document has error diagnostics and
// ErrNoModel if it has no model.
func (s *GateStep) Do(_ context.Context, run *model.Run) error {
	if run.Document == nil {
		return ErrNoDocument
	}
	if run.Document.HasErrors() {
		return ErrSBMLErrors
	}
	if run.Document.Model == nil {
		return ErrNoModel
	}
	return nil
}

// ProbeStep records the levels the model converts to and writes the
// translated files.
type ProbeStep struct {
	prober *translate.Prober

	// errOut receives the missing token message.
	errOut io.Writer

	logger *slog.Logger
}

// ProbeStepOption configures a ProbeStep.
type ProbeStepOption func(*ProbeStep)

// WithProbeErrorOutput sets where the missing token message is printed.
func WithProbeErrorOutput(w io.Writer) ProbeStepOption {
	return func(s *ProbeStep) {
		s.errOut = w
	}
}

// WithProbeLogger sets a custom logger for the probe step.
func WithProbeLogger(logger *slog.Logger) ProbeStepOption {
	return func(s *ProbeStep) {
		s.logger = logger
	}
}

// NewProbeStep creates a probe step using prober.
func NewProbeStep(prober *translate.Prober, opts ...ProbeStepOption) *ProbeStep {
	s := &ProbeStep{
		prober: prober,
		errOut: os.Stderr,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ProbeStep) Name() string {
	return StepProbe
}

// Do probes every target. A file name without a level token leaves the
// levels empty and the run continues.
func (s *ProbeStep) Do(ctx context.Context, run *model.Run) error {
	if run.Document == nil {
		return ErrNoDocument
	}

	result, err := s.prober.Probe(ctx, run.Document, run.ModelFile)
	if errors.Is(err, translate.ErrMissingLevelToken) {
		reportError(s.errOut, err)
		return nil
	}
	if err != nil {
		return err
	}

	run.Levels = result.Levels
	run.Written = result.Written
	s.logger.Debug("probed translations",
		"model", run.ModelFile,
		"levels", result.Levels,
		"written", len(result.Written),
	)
	return nil
}

// ClassifyStep derives the component and test tags.
type ClassifyStep struct{}

// NewClassifyStep creates a new classify step.
func NewClassifyStep() *ClassifyStep {
	return &ClassifyStep{}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return StepClassify
}

// Do sets run.Features.
func (s *ClassifyStep) Do(_ context.Context, run *model.Run) error {
	if run.Document == nil {
		return ErrNoDocument
	}
	run.Features = classify.ClassifyDocument(run.Document)
	return nil
}

// FormatStep renders the test-suite description.
type FormatStep struct {
	formatter *report.SuiteFormatter
}

// NewFormatStep creates a format step rendering with formatter.
// A nil formatter uses the default header placeholders.
func NewFormatStep(formatter *report.SuiteFormatter) *FormatStep {
	if formatter == nil {
		formatter = report.NewSuiteFormatter()
	}
	return &FormatStep{formatter: formatter}
}

// Name returns the step name.
func (s *FormatStep) Name() string {
	return StepFormat
}

// Do sets run.Report.
func (s *FormatStep) Do(_ context.Context, run *model.Run) error {
	if run.Model() == nil {
		return ErrNoModel
	}
	run.Report = s.formatter.Format(run.Model(), run.Features, run.Levels)
	return nil
}

// WriteStep writes the description file next to the model.
type WriteStep struct {
	// out receives the confirmation line.
	out io.Writer

	// errOut receives the missing token message.
	errOut io.Writer
}

// WriteStepOption configures a WriteStep.
type WriteStepOption func(*WriteStep)

// WithWriteOutput sets where the confirmation line is printed.
func WithWriteOutput(w io.Writer) WriteStepOption {
	return func(s *WriteStep) {
		s.out = w
	}
}

// WithWriteErrorOutput sets where the missing token message is printed.
func WithWriteErrorOutput(w io.Writer) WriteStepOption {
	return func(s *WriteStep) {
		s.errOut = w
	}
}

// NewWriteStep creates a new write step.
func NewWriteStep(opts ...WriteStepOption) *WriteStep {
	s := &WriteStep{
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return StepWrite
}

// Do writes run.Report and sets run.ReportFile. A model file name without
// the -sbml-l token is reported and skipped; the run still succeeds.
func (s *WriteStep) Do(_ context.Context, run *model.Run) error {
	path, err := report.WriteModelFile(run.Report, run.ModelFile, s.out)
	if errors.Is(err, report.ErrMissingSBMLToken) {
		reportError(s.errOut, err)
		return nil
	}
	if err != nil {
		return err
	}
	run.ReportFile = path
	return nil
}

// Recorder stores run summaries.
type Recorder interface {
	SaveRun(ctx context.Context, summary *model.RunSummary) error
}

// RecordStep saves the run in the history.
type RecordStep struct {
	recorder Recorder
	logger   *slog.Logger
}

// RecordStepOption configures a RecordStep.
type RecordStepOption func(*RecordStep)

// WithRecordLogger sets a custom logger for the record step.
func WithRecordLogger(logger *slog.Logger) RecordStepOption {
	return func(s *RecordStep) {
		s.logger = logger
	}
}

// NewRecordStep creates a record step saving to recorder.
func NewRecordStep(recorder Recorder, opts ...RecordStepOption) *RecordStep {
	s := &RecordStep{
		recorder: recorder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *RecordStep) Name() string {
	return StepRecord
}

// Do saves the summary. Failures are logged and never stop the run,
// since the description file is already written.
func (s *RecordStep) Do(ctx context.Context, run *model.Run) error {
	summary := model.NewRunSummary(run)
	summary.Steps = append(summary.Steps, StepRecord)
	if err := s.recorder.SaveRun(ctx, summary); err != nil {
		s.logger.Warn("failed to record run",
			"model", run.ModelFile,
			"error", err,
		)
	}
	return nil
}

// Options holds the settings of the standard run pipeline.
type Options struct {
	// Header overrides the header placeholders.
	Header report.HeaderDefaults

	// SkipTranslations leaves out the probe step.
	SkipTranslations bool

	// Recorder, when set, adds the record step.
	Recorder Recorder

	// Out receives the confirmation lines. Defaults to os.Stdout.
	Out io.Writer

	// ErrOut receives the problems a run survives. Defaults to os.Stderr.
	ErrOut io.Writer

	// Logger is used by the pipeline and its steps. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultPipeline creates the standard run pipeline:
// load, gate, probe, classify, format, write and record.
//
// Design decision: We provide a default pipeline because:
// 1. Reduces boilerplate in CLI
// 2. Ensures consistent ordering for single and batch runs
func DefaultPipeline(opts Options) *Pipeline {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	p := New(WithLogger(opts.Logger))
	p.AddSteps(NewLoadStep(), NewGateStep())

	if !opts.SkipTranslations {
		prober := translate.NewProber(
			translate.WithOutput(opts.Out),
			translate.WithLogger(opts.Logger),
		)
		p.AddStep(NewProbeStep(prober,
			WithProbeErrorOutput(opts.ErrOut),
			WithProbeLogger(opts.Logger),
		))
	}

	p.AddSteps(
		NewClassifyStep(),
		NewFormatStep(report.NewSuiteFormatter(report.WithHeader(opts.Header))),
		NewWriteStep(WithWriteOutput(opts.Out), WithWriteErrorOutput(opts.ErrOut)),
	)

	if opts.Recorder != nil {
		p.AddStep(NewRecordStep(opts.Recorder, WithRecordLogger(opts.Logger)))
	}

	return p
}
