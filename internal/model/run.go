package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/sbmltestgen/internal/sbml"
)

// Run is the record of one model file going through the pipeline.
// Every step reads what earlier steps left here and adds its own results.
//
// Design decision: We use a single mutable struct passed through the steps
// rather than returning values from each step. This mirrors how the steps
// build on each other (the classifier needs the document, the formatter
// needs the features and levels) and keeps the Step interface uniform.
type Run struct {
	// === Identity ===

	// ID uniquely identifies the run in the history database.
	ID string

	// ModelFile is the path of the SBML file given on the command line.
	ModelFile string

	// StartedAt is when the run was created.
	StartedAt time.Time

	// FinishedAt is when the last step completed. Zero until then.
	FinishedAt time.Time

	// === Results ===

	// Document is the parsed input. Nil until the load step ran.
	Document *sbml.Document

	// Levels lists the "L.V" pairs the model converts to cleanly,
	// in probing order.
	Levels []string

	// Written holds the paths of translated model files written while probing.
	Written []string

	// Features holds the tags derived from the model.
	Features *FeatureSet

	// Report is the full text of the test-suite description file.
	Report string

	// ReportFile is the path the report was written to.
	// Empty if the file name did not allow deriving one.
	ReportFile string

	// === Execution ===

	// PerformedSteps lists the names of the steps that completed.
	PerformedSteps []string

	// Error is the error that stopped the run, if any.
	Error error

	// ErrorMessage is Error as text, kept for output after the run.
	ErrorMessage string

	// Cancelled is true if the context ended before all steps ran.
	Cancelled bool
}

// NewRun creates a run for the given model file.
func NewRun(modelFile string) *Run {
	return &Run{
		ID:             uuid.NewString(),
		ModelFile:      modelFile,
		StartedAt:      time.Now(),
		Features:       NewFeatureSet(),
		Levels:         make([]string, 0),
		Written:        make([]string, 0),
		PerformedSteps: make([]string, 0),
	}
}

// Model returns the SBML model of the run, or nil if none was loaded.
func (r *Run) Model() *sbml.Model {
	if r.Document == nil {
		return nil
	}
	return r.Document.Model
}

// Failed reports whether the run stopped with an error.
func (r *Run) Failed() bool {
	return r.Error != nil
}

// SetError records err as the reason the run stopped.
func (r *Run) SetError(err error) {
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// Finish marks the run as complete.
func (r *Run) Finish() {
	r.FinishedAt = time.Now()
}
