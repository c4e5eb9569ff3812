package config

import "path/filepath"

// HeaderConfig holds the free-text fields of the test-suite header.
// Empty fields fall back to the built-in placeholders.
type HeaderConfig struct {
	// Category is written after "category:".
	Category string `yaml:"category,omitempty"`

	// Synopsis is written after "synopsis:".
	Synopsis string `yaml:"synopsis,omitempty"`

	// TestType is written after "testType:".
	TestType string `yaml:"testType,omitempty"`

	// GeneratedBy is written after "generatedBy:".
	GeneratedBy string `yaml:"generatedBy,omitempty"`

	// Description is the paragraph following the header fields.
	Description string `yaml:"description,omitempty"`
}

// File represents the structure of the .sbmltestgen configuration file.
type File struct {
	// Header is applied to every model.
	Header HeaderConfig `yaml:"header,omitempty"`

	// Models maps a model file name to header values for that model only.
	// Keys may be a base name ("00001-sbml-l2v4.xml") or a path as given
	// on the command line.
	Models map[string]HeaderConfig `yaml:"models,omitempty"`

	// Summary is the default summary format.
	Summary string `yaml:"summary,omitempty"`

	// Batch is the default number of files processed concurrently.
	Batch int `yaml:"batch,omitempty"`

	// HistoryDir overrides the directory of the history database.
	HistoryDir string `yaml:"historyDir,omitempty"`
}

// HeaderFor returns the header values for modelFile.
// It merges the model-specific entry, if any, over the global header.
// An exact path match wins over a base name match.
func (cf *File) HeaderFor(modelFile string) HeaderConfig {
	result := cf.Header

	override, ok := cf.Models[modelFile]
	if !ok {
		override, ok = cf.Models[filepath.Base(modelFile)]
	}
	if !ok {
		return result
	}

	if override.Category != "" {
		result.Category = override.Category
	}
	if override.Synopsis != "" {
		result.Synopsis = override.Synopsis
	}
	if override.TestType != "" {
		result.TestType = override.TestType
	}
	if override.GeneratedBy != "" {
		result.GeneratedBy = override.GeneratedBy
	}
	if override.Description != "" {
		result.Description = override.Description
	}
	return result
}
