package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sbmltestgen/internal/model"
)

// FileName is the name of the database file inside the history directory.
const FileName = "history.db"

// timestampLayout has a fixed width so stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNoSummary is returned by SaveRun when given a nil summary.
var ErrNoSummary = errors.New("no run summary to save")

// HistoryDB provides SQLite-based storage for run summaries.
//
// Design decision: We store the full summary as JSON next to a few indexed
// columns. Queries filter on the columns; reads decode the JSON, so new
// summary fields need no schema migration.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer. Concurrent batch runs share this
	// connection, which serialises their inserts.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		model_file TEXT NOT NULL,
		report_file TEXT,
		level INTEGER,
		version INTEGER,
		levels TEXT,
		timestamp TEXT NOT NULL,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_model ON runs(model_file);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a run summary. Saving the same run ID twice replaces
// the earlier record.
func (hdb *HistoryDB) SaveRun(ctx context.Context, s *model.RunSummary) error {
	if s == nil {
		return ErrNoSummary
	}

	summaryJSON, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to serialize run summary: %w", err)
	}
	levelsJSON, err := json.Marshal(s.Levels)
	if err != nil {
		return fmt.Errorf("failed to serialize levels: %w", err)
	}

	query := `
	INSERT INTO runs (id, model_file, report_file, level, version, levels, timestamp, summary_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		model_file = excluded.model_file,
		report_file = excluded.report_file,
		level = excluded.level,
		version = excluded.version,
		levels = excluded.levels,
		timestamp = excluded.timestamp,
		summary_json = excluded.summary_json
	`

	_, err = hdb.db.ExecContext(ctx, query,
		s.ID,
		s.ModelFile,
		s.ReportFile,
		s.Level,
		s.Version,
		string(levelsJSON),
		s.Date.UTC().Format(timestampLayout),
		string(summaryJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// GetRun retrieves a run by its ID. It returns nil, nil if there is none.
func (hdb *HistoryDB) GetRun(ctx context.Context, id string) (*model.RunSummary, error) {
	query := `SELECT summary_json FROM runs WHERE id = ?`

	var summaryJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&summaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var s model.RunSummary
	if err := json.Unmarshal([]byte(summaryJSON), &s); err != nil {
		return nil, fmt.Errorf("failed to parse run: %w", err)
	}
	return &s, nil
}

// LatestRun retrieves the most recent run of modelFile.
// It returns nil, nil if the model was never processed.
func (hdb *HistoryDB) LatestRun(ctx context.Context, modelFile string) (*model.RunSummary, error) {
	runs, err := hdb.ListRuns(ctx, modelFile, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

// ListRuns retrieves runs newest first. An empty modelFile lists runs of
// every model. A limit of zero or less returns all matching runs.
func (hdb *HistoryDB) ListRuns(ctx context.Context, modelFile string, limit int) ([]*model.RunSummary, error) {
	query := `SELECT summary_json FROM runs`
	var args []any
	if modelFile != "" {
		query += ` WHERE model_file = ?`
		args = append(args, modelFile)
	}
	query += ` ORDER BY timestamp DESC, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.RunSummary
	for rows.Next() {
		var summaryJSON string
		if err := rows.Scan(&summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		var s model.RunSummary
		if err := json.Unmarshal([]byte(summaryJSON), &s); err != nil {
			continue // Skip malformed records
		}
		runs = append(runs, &s)
	}

	return runs, rows.Err()
}

// ModelRecord describes one model file in the history.
type ModelRecord struct {
	// ModelFile is the path as given on the command line.
	ModelFile string

	// Runs is the number of recorded runs.
	Runs int

	// LastRun is when the model was last processed.
	LastRun time.Time
}

// ListModels returns every model file in the history, sorted by name.
func (hdb *HistoryDB) ListModels(ctx context.Context) ([]ModelRecord, error) {
	query := `
	SELECT model_file, COUNT(*), MAX(timestamp)
	FROM runs
	GROUP BY model_file
	ORDER BY model_file
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer rows.Close()

	var models []ModelRecord
	for rows.Next() {
		var rec ModelRecord
		var timestamp string
		if err := rows.Scan(&rec.ModelFile, &rec.Runs, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		rec.LastRun = parseTimestamp(timestamp)
		models = append(models, rec)
	}

	return models, rows.Err()
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite default datetime format
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
