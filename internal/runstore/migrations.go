package runstore

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sort"
	"time"
)

// Migration is a single forward schema change, tracked by version and
// verified by checksum of its Up statement.
type Migration struct {
	Version     int
	Description string
	Up          string
	AppliedAt   *time.Time
}

// MigrationManager applies and tracks Migrations against a sqlite
// database via a schema_migrations bookkeeping table.
type MigrationManager struct {
	db *sql.DB
}

// NewMigrationManager returns a manager bound to db.
func NewMigrationManager(db *sql.DB) *MigrationManager {
	return &MigrationManager{db: db}
}

// InitializeMigrationTable creates the schema_migrations bookkeeping
// table if it doesn't already exist.
func (m *MigrationManager) InitializeMigrationTable() error {
	_, err := m.db.Exec(`
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at INTEGER NOT NULL,
		checksum TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("runstore: creating schema_migrations: %w", err)
	}
	return nil
}

// GetCurrentVersion returns the highest applied migration version, or 0
// if none have been applied.
func (m *MigrationManager) GetCurrentVersion() (int, error) {
	var version sql.NullInt64
	err := m.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return int(version.Int64), nil
}

// PendingMigrations returns the subset of all whose version exceeds the
// current applied version, sorted ascending.
func (m *MigrationManager) PendingMigrations(all []Migration) ([]Migration, error) {
	current, err := m.GetCurrentVersion()
	if err != nil {
		return nil, err
	}
	sorted := append([]Migration(nil), all...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	var pending []Migration
	for _, mig := range sorted {
		if mig.Version > current {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// MigrateUp applies every pending migration up to and including
// targetVersion (or all pending migrations, if targetVersion is 0).
func (m *MigrationManager) MigrateUp(all []Migration, targetVersion int) error {
	pending, err := m.PendingMigrations(all)
	if err != nil {
		return err
	}

	for _, mig := range pending {
		if targetVersion > 0 && mig.Version > targetVersion {
			break
		}
		if err := m.applyOne(mig); err != nil {
			return fmt.Errorf("runstore: applying migration %d (%s): %w", mig.Version, mig.Description, err)
		}
	}
	return nil
}

func (m *MigrationManager) applyOne(mig Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(mig.Up); err != nil {
		return err
	}

	checksum := calculateChecksum(mig.Up)
	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, description, applied_at, checksum) VALUES (?, ?, ?, ?)",
		mig.Version, mig.Description, time.Now().Unix(), checksum,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func calculateChecksum(sql string) string {
	sum := sha256.Sum256([]byte(sql))
	return hex.EncodeToString(sum[:])
}
