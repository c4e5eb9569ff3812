package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sbmltestgen/internal/model"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display with clear section formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. The generated .m file is the real output; this is only a receipt
type SimpleWriter struct {
	baseWriter

	// verbose adds the translation files and performed steps.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary of run in human-readable format.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	return w.WriteSummary(model.NewRunSummary(run))
}

// WriteSummary outputs the summary in human-readable format.
func (w *SimpleWriter) WriteSummary(s *model.RunSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, s)
	w.writeInventory(&sb, s)
	w.writeTags(&sb, s)
	if w.verbose {
		w.writeDetails(&sb, s)
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeHeader writes the run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, s *model.RunSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        SBMLTESTGEN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Model File:     %s\n", s.ModelFile)
	if s.Level > 0 {
		fmt.Fprintf(sb, "SBML:           Level %d Version %d\n", s.Level, s.Version)
	}
	if s.ReportFile != "" {
		fmt.Fprintf(sb, "Report File:    %s\n", s.ReportFile)
	}
	fmt.Fprintf(sb, "Levels:         %s\n", levelsText(s.Levels))
	fmt.Fprintf(sb, "Date:           %s\n", s.Date.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Status:         %s\n", statusText(s))
	sb.WriteString("\n")
}

// writeInventory writes the entity counts.
func (w *SimpleWriter) writeInventory(sb *strings.Builder, s *model.RunSummary) {
	section(sb, "MODEL CONTENTS")
	for _, row := range countRows(s.Counts) {
		fmt.Fprintf(sb, "  %-22s %d\n", row.label+":", row.count)
	}
	sb.WriteString("\n")
}

// writeTags writes the component and test tags.
func (w *SimpleWriter) writeTags(sb *strings.Builder, s *model.RunSummary) {
	section(sb, "TAGS")
	writeTagList(sb, "Component tags", s.ComponentTags)
	writeTagList(sb, "Test tags", s.TestTags)
}

func writeTagList(sb *strings.Builder, title string, tags []string) {
	sb.WriteString(title + ":\n")
	if len(tags) == 0 {
		sb.WriteString("  (none)\n\n")
		return
	}
	for _, tag := range tags {
		fmt.Fprintf(sb, "  [+] %s\n", tag)
	}
	sb.WriteString("\n")
}

// writeDetails writes translation files and performed steps.
func (w *SimpleWriter) writeDetails(sb *strings.Builder, s *model.RunSummary) {
	section(sb, "DETAILS")
	sb.WriteString("Translations:\n")
	if len(s.Translations) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, path := range s.Translations {
		fmt.Fprintf(sb, "  %s\n", path)
	}
	fmt.Fprintf(sb, "\nSteps: %s\n", joinList(s.Steps))
	fmt.Fprintf(sb, "Run ID: %s\n\n", s.ID)
}

// countRow is one line of the entity inventory.
type countRow struct {
	label string
	count int
}

// countRows lists the inventory in display order.
func countRows(c model.EntityCounts) []countRow {
	return []countRow{
		{"Compartments", c.Compartments},
		{"Species", c.Species},
		{"Parameters", c.Parameters},
		{"Reactions", c.Reactions},
		{"Rules", c.Rules},
		{"Events", c.Events},
		{"Initial assignments", c.InitialAssignments},
		{"Function definitions", c.FunctionDefinitions},
		{"Constraints", c.Constraints},
	}
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}
