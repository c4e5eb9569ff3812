// Package database provides SQLite-based storage for sbmltestgen.
//
// This package implements the HistoryDB, which stores one record per
// successful run: the model file, the report written, the source level and
// version, the levels the model converts to, and the derived tags. The
// history command reads it back to show how a test case changed over time.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. WAL mode lets the history command read while a batch run writes
package database
