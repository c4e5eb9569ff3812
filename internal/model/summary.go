package model

import "time"

// RunSummary is a flat, serializable view of a Run.
// The terminal writers and the history database work from it.
//
// Design decision: We create a separate summary rather than serializing Run
// because:
// 1. Run holds the SBML document, which has no useful JSON form
// 2. It gives every output (text, markdown, JSON, SQLite) the same fields
// 3. It separates presentation concerns from pipeline state
type RunSummary struct {
	// ID is the run identifier.
	ID string `json:"id"`

	// ModelFile is the input path.
	ModelFile string `json:"model_file"`

	// ReportFile is where the test-suite description was written.
	ReportFile string `json:"report_file,omitempty"`

	// Date is when the run started.
	Date time.Time `json:"date"`

	// === Source Document ===

	// Level is the SBML level of the input.
	Level int `json:"level"`

	// Version is the SBML version of the input.
	Version int `json:"version"`

	// Counts is the entity inventory of the model.
	Counts EntityCounts `json:"counts"`

	// === Results ===

	// Levels lists the pairs the model converts to.
	Levels []string `json:"levels"`

	// ComponentTags are the sorted component tags.
	ComponentTags []string `json:"component_tags"`

	// TestTags are the sorted test tags.
	TestTags []string `json:"test_tags"`

	// Translations holds the paths of translated model files.
	Translations []string `json:"translations,omitempty"`

	// Steps lists the pipeline steps that completed.
	Steps []string `json:"steps"`

	// Error contains the error message if the run failed.
	Error string `json:"error,omitempty"`
}

// EntityCounts is the number of each kind of SBML construct in a model.
type EntityCounts struct {
	Compartments        int `json:"compartments"`
	Species             int `json:"species"`
	Parameters          int `json:"parameters"`
	Reactions           int `json:"reactions"`
	Rules               int `json:"rules"`
	Events              int `json:"events"`
	InitialAssignments  int `json:"initial_assignments"`
	FunctionDefinitions int `json:"function_definitions"`
	Constraints         int `json:"constraints"`
}

// Total returns the sum of all counts.
func (c EntityCounts) Total() int {
	return c.Compartments + c.Species + c.Parameters + c.Reactions + c.Rules +
		c.Events + c.InitialAssignments + c.FunctionDefinitions + c.Constraints
}

// NewRunSummary creates a summary of run.
func NewRunSummary(run *Run) *RunSummary {
	s := &RunSummary{
		ID:            run.ID,
		ModelFile:     run.ModelFile,
		ReportFile:    run.ReportFile,
		Date:          run.StartedAt,
		Levels:        run.Levels,
		ComponentTags: []string{},
		TestTags:      []string{},
		Translations:  run.Written,
		Steps:         run.PerformedSteps,
		Error:         run.ErrorMessage,
	}

	if run.Document != nil {
		s.Level = run.Document.Level
		s.Version = run.Document.Version
	}

	if m := run.Model(); m != nil {
		s.Counts = EntityCounts{
			Compartments:        len(m.Compartments),
			Species:             len(m.Species),
			Parameters:          len(m.Parameters),
			Reactions:           len(m.Reactions),
			Rules:               len(m.Rules),
			Events:              len(m.Events),
			InitialAssignments:  len(m.InitialAssignments),
			FunctionDefinitions: len(m.FunctionDefinitions),
			Constraints:         len(m.Constraints),
		}
	}

	if run.Features != nil {
		s.ComponentTags = run.Features.Components.Sorted()
		s.TestTags = run.Features.Tests.Sorted()
	}

	return s
}
