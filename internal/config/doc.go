// Package config provides configuration structures and utilities for sbmltestgen.
// It defines the options for generating test-suite descriptions, the optional
// .sbmltestgen file holding header text, and the locations of the run history.
package config
