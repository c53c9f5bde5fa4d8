// Package runstore persists run history to a local sqlite database:
// one row per `stratum run` invocation and one row per runner's
// outcome within it, so `stratum status`/`list`/`logs` can report on
// past runs without re-executing anything.
package runstore

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists and retrieves run history.
type Store interface {
	CreateRun(modulesDir, samplesFile string) (string, error)
	CompleteRun(runID string, status string, errMessage string) error
	GetRun(runID string) (*RunRecord, error)
	ListRuns(opts ListRunsOptions) ([]RunRecord, error)
	DeleteRun(runID string) error

	RecordOutcome(outcome RunnerOutcomeRecord) error
	GetOutcomes(runID string) ([]RunnerOutcomeRecord, error)

	Close() error
}

type store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at dbPath and
// applies every pending migration.
func Open(dbPath string) (Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("runstore: opening %s: %w", dbPath, err)
	}

	// sqlite performs best with a single connection given its
	// file-level locking model.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("runstore: pinging %s: %w", dbPath, err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("runstore: %s: %w", pragma, err)
		}
	}

	manager := NewMigrationManager(db)
	if err := manager.InitializeMigrationTable(); err != nil {
		return nil, err
	}
	if err := manager.MigrateUp(allMigrations(), 0); err != nil {
		return nil, err
	}

	return &store{db: db}, nil
}

func (s *store) Close() error {
	return s.db.Close()
}

// CreateRun inserts a new run row in "running" status and returns its
// generated run ID.
func (s *store) CreateRun(modulesDir, samplesFile string) (string, error) {
	now := time.Now()
	runID, err := newRunID(now)
	if err != nil {
		return "", err
	}

	_, err = s.db.Exec(
		`INSERT INTO run (run_id, modules_dir, samples_file, status, started_at) VALUES (?, ?, ?, 'running', ?)`,
		runID, modulesDir, samplesFile, now.Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("runstore: creating run: %w", err)
	}
	return runID, nil
}

func newRunID(now time.Time) (string, error) {
	randBytes := make([]byte, 4)
	if _, err := rand.Read(randBytes); err != nil {
		return "", fmt.Errorf("runstore: generating run id: %w", err)
	}
	return fmt.Sprintf("run-%s-%s", now.Format("20060102-150405"), hex.EncodeToString(randBytes)), nil
}

// CompleteRun marks a run terminal: status is one of completed,
// failed, or cancelled, and completed_at is stamped to now.
func (s *store) CompleteRun(runID, status, errMessage string) error {
	_, err := s.db.Exec(
		`UPDATE run SET status = ?, completed_at = ?, error_message = ? WHERE run_id = ?`,
		status, time.Now().Unix(), nullableString(errMessage), runID,
	)
	if err != nil {
		return fmt.Errorf("runstore: completing run %s: %w", runID, err)
	}
	return nil
}

func (s *store) GetRun(runID string) (*RunRecord, error) {
	row := s.db.QueryRow(
		`SELECT run_id, modules_dir, samples_file, status, started_at, completed_at, error_message FROM run WHERE run_id = ?`,
		runID,
	)
	record, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("runstore: run %s not found", runID)
	}
	return record, err
}

func (s *store) ListRuns(opts ListRunsOptions) ([]RunRecord, error) {
	query := `SELECT run_id, modules_dir, samples_file, status, started_at, completed_at, error_message FROM run WHERE 1=1`
	var args []any

	if opts.Status != "" {
		query += " AND status = ?"
		args = append(args, opts.Status)
	}
	if opts.OlderThan > 0 {
		query += " AND started_at < ?"
		args = append(args, time.Now().Add(-opts.OlderThan).Unix())
	}
	query += " ORDER BY started_at DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("runstore: listing runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		record, err := scanRunRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func (s *store) DeleteRun(runID string) error {
	_, err := s.db.Exec(`DELETE FROM run WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("runstore: deleting run %s: %w", runID, err)
	}
	return nil
}

func (s *store) RecordOutcome(outcome RunnerOutcomeRecord) error {
	now := time.Now()
	completedAt := now.Unix()
	_, err := s.db.Exec(
		`INSERT INTO runner_outcome
			(run_id, runner_name, fingerprint, sample_count, done_count, cached, crashed, started_at, completed_at, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		outcome.RunID, outcome.RunnerName, outcome.Fingerprint, outcome.SampleCount, outcome.DoneCount,
		outcome.Cached, outcome.Crashed, now.Unix(), completedAt, nullableString(outcome.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("runstore: recording outcome for %s: %w", outcome.RunnerName, err)
	}
	return nil
}

func (s *store) GetOutcomes(runID string) ([]RunnerOutcomeRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, runner_name, fingerprint, sample_count, done_count, cached, crashed, started_at, completed_at, error_message
		FROM runner_outcome WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("runstore: listing outcomes for %s: %w", runID, err)
	}
	defer rows.Close()

	var records []RunnerOutcomeRecord
	for rows.Next() {
		var r RunnerOutcomeRecord
		var startedAt int64
		var completedAt sql.NullInt64
		var errMessage sql.NullString
		if err := rows.Scan(&r.ID, &r.RunID, &r.RunnerName, &r.Fingerprint, &r.SampleCount, &r.DoneCount,
			&r.Cached, &r.Crashed, &startedAt, &completedAt, &errMessage); err != nil {
			return nil, err
		}
		r.StartedAt = time.Unix(startedAt, 0)
		if completedAt.Valid {
			t := time.Unix(completedAt.Int64, 0)
			r.CompletedAt = &t
		}
		r.ErrorMessage = errMessage.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*RunRecord, error) {
	return scanRunRow(row)
}

func scanRunRow(row scanner) (*RunRecord, error) {
	var r RunRecord
	var startedAt int64
	var completedAt sql.NullInt64
	var errMessage sql.NullString

	err := row.Scan(&r.RunID, &r.ModulesDir, &r.SamplesFile, &r.Status, &startedAt, &completedAt, &errMessage)
	if err != nil {
		return nil, err
	}
	r.StartedAt = time.Unix(startedAt, 0)
	if completedAt.Valid {
		t := time.Unix(completedAt.Int64, 0)
		r.CompletedAt = &t
	}
	r.ErrorMessage = errMessage.String
	return &r, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
