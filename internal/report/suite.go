package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/nao1215/sbmltestgen/internal/model"
	"github.com/nao1215/sbmltestgen/internal/sbml"
)

// Header placeholders written when no configuration overrides them.
const (
	DefaultCategory    = "Test"
	DefaultSynopsis    = "[[Write description here.]]"
	DefaultTestType    = "TimeCourse"
	DefaultGeneratedBy = "Analytic||Numeric"
	DefaultDescription = "{Write general description of why you have created the model here.}"
)

// HeaderDefaults holds the free-text values of the test-suite header.
// Tags and levels are always computed; everything else is a placeholder
// for the test author to edit.
type HeaderDefaults struct {
	Category    string
	Synopsis    string
	TestType    string
	GeneratedBy string
	Description string
}

// DefaultHeader returns the standard placeholders.
func DefaultHeader() HeaderDefaults {
	return HeaderDefaults{
		Category:    DefaultCategory,
		Synopsis:    DefaultSynopsis,
		TestType:    DefaultTestType,
		GeneratedBy: DefaultGeneratedBy,
		Description: DefaultDescription,
	}
}

// withFallbacks fills empty fields from DefaultHeader.
func (h HeaderDefaults) withFallbacks() HeaderDefaults {
	d := DefaultHeader()
	if h.Category == "" {
		h.Category = d.Category
	}
	if h.Synopsis == "" {
		h.Synopsis = d.Synopsis
	}
	if h.TestType == "" {
		h.TestType = d.TestType
	}
	if h.GeneratedBy == "" {
		h.GeneratedBy = d.GeneratedBy
	}
	if h.Description == "" {
		h.Description = d.Description
	}
	return h
}

// SuiteFormatter renders the test-suite description of a model.
type SuiteFormatter struct {
	header HeaderDefaults
}

// SuiteOption configures a SuiteFormatter.
type SuiteOption func(*SuiteFormatter)

// WithHeader overrides the header placeholders. Empty fields keep
// their default.
func WithHeader(h HeaderDefaults) SuiteOption {
	return func(f *SuiteFormatter) {
		f.header = h.withFallbacks()
	}
}

// NewSuiteFormatter creates a formatter with the given options.
func NewSuiteFormatter(opts ...SuiteOption) *SuiteFormatter {
	f := &SuiteFormatter{header: DefaultHeader()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format returns the complete description file: the header followed by
// the model summary, wrapped in a "(*" ... "*)" comment block.
func (f *SuiteFormatter) Format(m *sbml.Model, features *model.FeatureSet, levels []string) string {
	return "(*\n\n" + f.Header(features, levels) + f.Summary(m) + "\n*)"
}

// Header returns the metadata block of the description file.
func (f *SuiteFormatter) Header(features *model.FeatureSet, levels []string) string {
	if features == nil {
		features = model.NewFeatureSet()
	}
	var sb strings.Builder
	sb.WriteString("category:      " + f.header.Category + "\n")
	sb.WriteString("synopsis:      " + f.header.Synopsis + "\n")
	sb.WriteString("componentTags: " + features.Components.String() + "\n")
	sb.WriteString("testTags:      " + features.Tests.String() + "\n")
	sb.WriteString("testType:      " + f.header.TestType + "\n")
	sb.WriteString("levels:        " + strings.Join(levels, ", ") + "\n")
	sb.WriteString("generatedBy:   " + f.header.GeneratedBy + "\n")
	sb.WriteString("\n")
	sb.WriteString(f.header.Description + "\n")
	sb.WriteString("\n")
	return sb.String()
}

// Summary returns the prose and tables describing m.
func (f *SuiteFormatter) Summary(m *sbml.Model) string {
	var sb strings.Builder
	sb.WriteString("The model contains:\n")
	writeInventory(&sb, m)
	writeConstraintsAndFunctions(&sb, m)

	sb.WriteString(reactionTable(m))
	sb.WriteString(eventTable(m))
	sb.WriteString(ruleTable(m))
	sb.WriteString(initialConditionsTable(m))
	sb.WriteString("\n")

	if amountsReadAsConcentrations(m) {
		sb.WriteString("The species' initial quantities are given in terms of substance units to\n")
		sb.WriteString("make it easier to use the model in a discrete stochastic simulator, but\n")
		sb.WriteString("their symbols represent their values in concentration units where they\n")
		sb.WriteString("appear in expressions.\n\n")
	}

	sb.WriteString("{Keep this next line if 'generatedBy' is 'Analytic':}\n")
	sb.WriteString("Note: The test data for this model was generated from an analytical\n")
	sb.WriteString("solution of the system of equations.\n")
	return sb.String()
}

// amountsReadAsConcentrations reports whether every species declares an
// initial amount and none has only substance units.
func amountsReadAsConcentrations(m *sbml.Model) bool {
	if len(m.Species) == 0 {
		return false
	}
	for _, s := range m.Species {
		if s.InitialAmount == nil || s.IsHasOnlySubstanceUnits() {
			return false
		}
	}
	return true
}

// formatNumber prints v with six significant digits, the way the
// test-suite files have always shown declared values.
func formatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// plural returns "s" when n is not 1.
func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
