package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sbmltestgen/internal/model"
)

// Format names accepted by NewWriter.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Writer defines the interface for run summary output.
// Implementations print the outcome of a run in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or buffers in
// tests with the same API.
type Writer interface {
	// Write outputs the summary of a completed run.
	// Returns the number of bytes written and any error encountered.
	Write(run *model.Run) (int, error)

	// WriteSummary outputs an already extracted summary, such as one
	// loaded from the history database.
	WriteSummary(summary *model.RunSummary) (int, error)
}

// NewWriter returns the Writer for format. An empty format selects text.
// A comma-separated list such as "text,json" returns a MultiWriter
// printing each format in turn.
func NewWriter(format string, output io.Writer) (Writer, error) {
	if strings.Contains(format, ",") {
		var writers []Writer
		for _, f := range strings.Split(format, ",") {
			if f = strings.TrimSpace(f); f == "" {
				continue
			}
			w, err := NewWriter(f, output)
			if err != nil {
				return nil, err
			}
			writers = append(writers, w)
		}
		return NewMultiWriter(writers...), nil
	}

	switch format {
	case "", FormatText:
		return NewSimpleWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("unknown summary format %q", format)
	}
}

// MultiWriter writes each summary to several Writers in turn.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write summaries, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the run to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(run *model.Run) (int, error) {
	return m.WriteSummary(model.NewRunSummary(run))
}

// WriteSummary outputs the summary to all configured Writers.
func (m *MultiWriter) WriteSummary(summary *model.RunSummary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// statusText describes the outcome of a run in one line.
func statusText(s *model.RunSummary) string {
	if s.Error != "" {
		return "ERROR - " + s.Error
	}
	return "Complete"
}

// levelsText lists the levels, or "none".
func levelsText(levels []string) string {
	if len(levels) == 0 {
		return "none"
	}
	return joinList(levels)
}
