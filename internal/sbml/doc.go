// Package sbml reads, validates, converts and writes SBML documents.
//
// The package covers the subset of SBML that test-suite generation needs:
//   - Level 1 Versions 1 and 2 (formula strings, name-as-identifier)
//   - Level 2 Versions 1 to 5
//   - Level 3 Versions 1 and 2 core
//
// A Document is read with ReadFile or Parse. Problems with the content never
// abort reading; they are recorded as Diagnostics with a Severity, and
// HasErrors reports whether any of them blocks further processing.
//
// SetLevelAndVersion converts a document in place. Before converting it checks
// every construct of the model against the target; anything the target cannot
// express is recorded as an Error diagnostic and the document stays unchanged.
// Probing a conversion is therefore done on a Clone.
//
// Design decision: Optional attributes are pointer fields (nil means "not set")
// with effective-value methods such as IsConstant that apply the SBML defaults.
// Report generation needs both answers ("was it declared?" and "what is it?").
package sbml
