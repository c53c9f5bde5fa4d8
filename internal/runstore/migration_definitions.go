package runstore

// allMigrations returns every migration in version order, the run
// history schema this package's Store persists: one row per run, one
// row per runner outcome within a run.
func allMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "create run and runner_outcome tables",
			Up: `
CREATE TABLE IF NOT EXISTS run (
    run_id TEXT PRIMARY KEY,
    modules_dir TEXT NOT NULL,
    samples_file TEXT NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('running', 'completed', 'failed', 'cancelled')),
    started_at INTEGER NOT NULL,
    completed_at INTEGER,
    error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_run_started ON run(started_at);
CREATE INDEX IF NOT EXISTS idx_run_status ON run(status);

CREATE TABLE IF NOT EXISTS runner_outcome (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    runner_name TEXT NOT NULL,
    fingerprint TEXT NOT NULL,
    sample_count INTEGER NOT NULL DEFAULT 0,
    done_count INTEGER NOT NULL DEFAULT 0,
    cached BOOLEAN NOT NULL DEFAULT FALSE,
    crashed BOOLEAN NOT NULL DEFAULT FALSE,
    started_at INTEGER NOT NULL,
    completed_at INTEGER,
    error_message TEXT,
    FOREIGN KEY (run_id) REFERENCES run(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_outcome_run ON runner_outcome(run_id);
CREATE INDEX IF NOT EXISTS idx_outcome_runner ON runner_outcome(runner_name);
CREATE INDEX IF NOT EXISTS idx_outcome_fingerprint ON runner_outcome(fingerprint);
`,
		},
	}
}
