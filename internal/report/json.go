package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/sbmltestgen/internal/model"
)

// JSONWriter prints run summaries as JSON, one value per call, each
// followed by a newline. The field names are those of model.RunSummary.
//
// Design decision: encoding/json is enough here. The summary is a flat
// struct with tags, and no library in our stack does the job better.
// HTML escaping is off so that formulas with "<" stay readable.
type JSONWriter struct {
	baseWriter

	prefix string
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent indents nested values with indent, each line starting
// with prefix. The default output is compact.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.prefix = prefix
		w.indent = indent
	}
}

// WithPrettyPrint indents with two spaces.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter printing to output.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write prints the summary of run.
func (w *JSONWriter) Write(run *model.Run) (int, error) {
	return w.encode(model.NewRunSummary(run))
}

// WriteSummary prints summary.
func (w *JSONWriter) WriteSummary(summary *model.RunSummary) (int, error) {
	return w.encode(summary)
}

// WriteSummaries prints summaries as one array; nil prints "[]".
func (w *JSONWriter) WriteSummaries(summaries []*model.RunSummary) (int, error) {
	if summaries == nil {
		summaries = []*model.RunSummary{}
	}
	return w.encode(summaries)
}

// encode renders v in full before writing, so a failed encoding leaves
// the output untouched.
func (w *JSONWriter) encode(v any) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.prefix != "" || w.indent != "" {
		enc.SetIndent(w.prefix, w.indent)
	}
	if err := enc.Encode(v); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
