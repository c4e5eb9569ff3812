// Package model defines the data structures shared by the sbmltestgen
// packages.
//
// This package contains the following main types:
//   - TagSet: A deduplicated set of feature tags rendered in sorted order
//   - FeatureSet: The component tags and test tags derived from a model
//   - Run: The record of one input file going through the pipeline
//   - RunSummary: A flat, serializable view of a Run for output and storage
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The classifier, the report writers, the pipeline and the history
// database all need these types, so centralizing them prevents import cycles.
//
// RunSummary is the only type designed to be serialized. A Run holds the parsed
// SBML document, which is large and has no meaningful JSON form.
package model
