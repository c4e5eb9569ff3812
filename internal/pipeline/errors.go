package pipeline

import "errors"

// Errors that stop a run.
var (
	// ErrSBMLErrors is returned when the input document has diagnostics
	// of error severity or worse. The diagnostics stay on run.Document.
	ErrSBMLErrors = errors.New("encountered SBML errors")

	// ErrNoModel is returned when the document holds no model element.
	ErrNoModel = errors.New("no model present")

	// ErrNoDocument is returned by steps that need a loaded document.
	ErrNoDocument = errors.New("no document loaded")
)
