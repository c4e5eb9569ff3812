package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoModelFile is returned when no SBML file was given.
	ErrNoModelFile = errors.New("no model file specified: provide the path of an SBML file")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no file is ever processed.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrUnknownSummaryFormat is returned when --summary names a format
	// other than text, markdown or json.
	ErrUnknownSummaryFormat = errors.New("unknown summary format: use text, markdown or json")

	// ErrNoHistoryDir is returned when history is enabled without a directory.
	ErrNoHistoryDir = errors.New("history is enabled but no history directory is set")
)
