// Package log provides the slog setup of sbmltestgen.
//
// This package extends slog to provide:
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//   - Short file paths: absolute paths under the working directory are
//     logged relative to it, so batch runs over a test-suite tree stay readable
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("wrote translation", "file", "/home/me/cases/00001/00001-sbml-l3v1.xml")
//	// file=cases/00001/00001-sbml-l3v1.xml when run from /home/me
//
//	slog.SetDefault(logger)
package log
