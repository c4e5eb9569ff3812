// Package report renders what sbmltestgen produces.
//
// SuiteFormatter builds the test-suite description of a model: a metadata
// header with the derived tags and levels, followed by prose and tables in
// the markup of the SBML test suite. WriteModelFile saves it as the
// "-model.m" file next to the model, keeping any previous version below
// the new text.
//
// The Writer implementations print a short summary of a run to the terminal:
//   - SimpleWriter: Human-readable text output
//   - MarkdownWriter: Markdown with tables and a mermaid chart
//   - JSONWriter: Structured JSON output for tool integration
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) to follow the single responsibility
// principle. This allows adding new output formats without modifying
// the core data structures.
package report
