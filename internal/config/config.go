package config

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "sbmltestgen"

	// DefaultBatchSize is the number of model files processed at once in
	// batch mode. Each run is cheap, so the limit mostly bounds open files.
	DefaultBatchSize = 10

	// DefaultSummaryFormat prints nothing beyond the status lines.
	DefaultSummaryFormat = ""
)

// SummaryFormats lists the accepted --summary values.
var SummaryFormats = []string{"text", "markdown", "json"}

// Config holds all configuration options for sbmltestgen.
// This struct is populated from CLI flags and the optional configuration
// file, then passed through the application rather than kept in globals.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is small, and the header text lives in File so it
// can vary per model.
type Config struct {
	// ModelFiles are the SBML files to process.
	ModelFiles []string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of model files processed concurrently.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the usual locations.
	ConfigFilePath string

	// File holds the loaded configuration file. Never nil after NewConfig.
	File *File

	// SummaryFormat selects a summary printed after each run.
	// Empty prints no summary.
	SummaryFormat string

	// SkipTranslations disables version probing. The levels line of the
	// header is then left empty and no translated files are written.
	SkipTranslations bool

	// SaveHistory records each successful run in the history database.
	SaveHistory bool

	// HistoryDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/sbmltestgen on Linux).
	HistoryDir string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero (batch size, history).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		BatchSize:     DefaultBatchSize,
		File:          &File{Models: make(map[string]HeaderConfig)},
		SummaryFormat: DefaultSummaryFormat,
		SaveHistory:   true,
		HistoryDir:    XDGDataDir(),
	}
}

// ApplyFile copies the settings of cf that were not already set on the
// command line. changed reports whether a flag was given explicitly.
func (c *Config) ApplyFile(cf *File, changed func(flag string) bool) {
	if cf == nil {
		return
	}
	c.File = cf
	if cf.Summary != "" && !changed("summary") {
		c.SummaryFormat = cf.Summary
	}
	if cf.Batch > 0 && !changed("batch") {
		c.BatchSize = cf.Batch
	}
	if cf.HistoryDir != "" {
		c.HistoryDir = cf.HistoryDir
	}
}

// SummaryFormatList splits SummaryFormat on commas, so that
// "text,json" prints both summaries. Empty entries are dropped.
func (c *Config) SummaryFormatList() []string {
	var formats []string
	for _, f := range strings.Split(c.SummaryFormat, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// HistoryPath returns the path of the history database file.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.HistoryDir, "history.db")
}

// XDGDataDir returns the XDG data directory for sbmltestgen.
// On Linux: ~/.local/share/sbmltestgen
// On macOS: ~/Library/Application Support/sbmltestgen
// On Windows: %LOCALAPPDATA%\sbmltestgen
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sbmltestgen.
// On Linux: ~/.config/sbmltestgen
// On macOS: ~/Library/Application Support/sbmltestgen
// On Windows: %APPDATA%\sbmltestgen
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
func (c *Config) Validate() error {
	if len(c.ModelFiles) == 0 {
		return ErrNoModelFile
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	for _, format := range c.SummaryFormatList() {
		if !slices.Contains(SummaryFormats, format) {
			return ErrUnknownSummaryFormat
		}
	}

	if c.SaveHistory && c.HistoryDir == "" {
		return ErrNoHistoryDir
	}

	return nil
}
