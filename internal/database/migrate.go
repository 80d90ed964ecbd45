package database

import (
	"cmp"
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

var migrationName = regexp.MustCompile(`^(\d{3})_(.+)\.sql$`)

// Migration is one versioned schema change.
type Migration struct {
	Version     int
	Description string
	UpSQL       string
	DownSQL     string
	Checksum    string
	Applied     bool
	AppliedAt   time.Time
}

// MigrationResult summarizes a migration run.
type MigrationResult struct {
	Applied        []Migration
	CurrentVersion int
	TargetVersion  int
}

// Migrator applies the embedded migrations to a database.
type Migrator struct {
	db         *DB
	migrations []Migration
}

// NewMigrator loads the embedded migrations and makes sure the
// bookkeeping table exists.
func NewMigrator(db *DB) (*Migrator, error) {
	migrations, err := loadMigrations(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("loading migrations: %w", err)
	}

	m := &Migrator{db: db, migrations: migrations}
	if err := m.ensureMigrationsTable(); err != nil {
		return nil, fmt.Errorf("creating migrations table: %w", err)
	}
	return m, nil
}

// Migrations returns the known migrations in version order.
func (m *Migrator) Migrations() []Migration {
	return slices.Clone(m.migrations)
}

// loadMigrations reads NNN_description.sql files from dir in fsys.
func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		matches := migrationName.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}

		version, _ := strconv.Atoi(matches[1])
		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		up, down := parseMigration(string(content))
		sum := sha256.Sum256([]byte(up))
		migrations = append(migrations, Migration{
			Version:     version,
			Description: strings.ReplaceAll(matches[2], "_", " "),
			UpSQL:       up,
			DownSQL:     down,
			Checksum:    hex.EncodeToString(sum[:]),
		})
	}

	slices.SortFunc(migrations, func(a, b Migration) int {
		return cmp.Compare(a.Version, b.Version)
	})

	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %03d", migrations[i].Version)
		}
	}

	return migrations, nil
}

// parseMigration splits a migration file at its Up and Down markers.
// A file without markers is all Up.
func parseMigration(content string) (upSQL, downSQL string) {
	upIdx := strings.Index(content, upMarker)
	downIdx := strings.Index(content, downMarker)

	switch {
	case upIdx == -1:
		return strings.TrimSpace(content), ""
	case downIdx == -1:
		return strings.TrimSpace(content[upIdx+len(upMarker):]), ""
	case upIdx < downIdx:
		upSQL = content[upIdx+len(upMarker) : downIdx]
		downSQL = content[downIdx+len(downMarker):]
	default:
		downSQL = content[downIdx+len(downMarker) : upIdx]
		upSQL = content[upIdx+len(upMarker):]
	}
	return strings.TrimSpace(upSQL), strings.TrimSpace(downSQL)
}

func (m *Migrator) ensureMigrationsTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now')),
			checksum TEXT
		)
	`)
	return err
}

// CurrentVersion returns the highest applied version, or 0.
func (m *Migrator) CurrentVersion(ctx context.Context) (int, error) {
	var version int
	err := m.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM schema_migrations",
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("querying current version: %w", err)
	}
	return version, nil
}

// PendingMigrations returns the migrations above the current version.
func (m *Migrator) PendingMigrations(ctx context.Context) ([]Migration, error) {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, mig := range m.migrations {
		if mig.Version > current {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// MigrateUp applies every pending migration, each in its own transaction.
func (m *Migrator) MigrateUp(ctx context.Context) (*MigrationResult, error) {
	if len(m.migrations) == 0 {
		return &MigrationResult{}, nil
	}
	return m.MigrateTo(ctx, m.migrations[len(m.migrations)-1].Version)
}

// MigrateDown rolls back the most recent migration.
func (m *Migrator) MigrateDown(ctx context.Context) (*MigrationResult, error) {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}
	if current == 0 {
		return &MigrationResult{}, errors.New("no migrations to roll back")
	}

	target := 0
	for _, mig := range m.migrations {
		if mig.Version < current {
			target = mig.Version
		}
	}
	return m.MigrateTo(ctx, target)
}

// MigrateTo moves the schema up or down to targetVersion.
func (m *Migrator) MigrateTo(ctx context.Context, targetVersion int) (*MigrationResult, error) {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}

	result := &MigrationResult{CurrentVersion: current, TargetVersion: targetVersion}
	if targetVersion == current {
		m.db.log.Debug("database schema is up to date", "version", current)
		return result, nil
	}

	if targetVersion > current {
		for _, mig := range m.migrations {
			if mig.Version <= current || mig.Version > targetVersion {
				continue
			}
			m.db.log.Info("applying migration", "version", mig.Version, "description", mig.Description)
			if err := m.apply(ctx, mig.UpSQL, func(tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx,
					"INSERT INTO schema_migrations (version, description, checksum) VALUES (?, ?, ?)",
					mig.Version, mig.Description, mig.Checksum)
				return err
			}); err != nil {
				return result, fmt.Errorf("migration %d failed: %w", mig.Version, err)
			}
			mig.Applied = true
			mig.AppliedAt = time.Now()
			result.Applied = append(result.Applied, mig)
		}
	} else {
		for _, mig := range slices.Backward(m.migrations) {
			if mig.Version > current || mig.Version <= targetVersion {
				continue
			}
			if mig.DownSQL == "" {
				return result, fmt.Errorf("migration %d has no rollback SQL", mig.Version)
			}
			m.db.log.Info("rolling back migration", "version", mig.Version, "description", mig.Description)
			if err := m.apply(ctx, mig.DownSQL, func(tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = ?", mig.Version)
				return err
			}); err != nil {
				return result, fmt.Errorf("rollback %d failed: %w", mig.Version, err)
			}
			result.Applied = append(result.Applied, mig)
		}
	}

	m.db.log.Info("migrations complete", "from", current, "to", targetVersion, "steps", len(result.Applied))
	return result, nil
}

// apply runs the statements in script and then record, all in one transaction.
func (m *Migrator) apply(ctx context.Context, script string, record func(*sql.Tx) error) error {
	return m.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range splitStatements(script) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("executing statement: %w\nSQL: %s", err, stmt)
			}
		}
		if err := record(tx); err != nil {
			return fmt.Errorf("recording migration: %w", err)
		}
		return nil
	})
}

// Status returns every known migration marked with whether it is applied.
// It fails when an applied migration's checksum no longer matches the
// embedded file.
func (m *Migrator) Status(ctx context.Context) ([]Migration, error) {
	rows, err := m.db.QueryContext(ctx,
		"SELECT version, applied_at, COALESCE(checksum, '') FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("querying applied migrations: %w", err)
	}
	defer rows.Close()

	type applied struct {
		at       time.Time
		checksum string
	}
	done := make(map[int]applied)
	for rows.Next() {
		var version int
		var at, checksum string
		if err := rows.Scan(&version, &at, &checksum); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		t, _ := time.Parse(time.DateTime, at)
		done[version] = applied{at: t, checksum: checksum}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	result := m.Migrations()
	var errs []error
	for i := range result {
		a, ok := done[result[i].Version]
		if !ok {
			continue
		}
		result[i].Applied = true
		result[i].AppliedAt = a.at
		if a.checksum != "" && a.checksum != result[i].Checksum {
			errs = append(errs, fmt.Errorf("migration %03d was modified after it was applied", result[i].Version))
		}
	}
	return result, errors.Join(errs...)
}

// splitStatements splits a script on semicolons outside quoted strings
// and drops empty statements.
func splitStatements(script string) []string {
	var statements []string
	var current strings.Builder
	var quote rune

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for _, ch := range script {
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == ';':
			flush()
			continue
		}
		current.WriteRune(ch)
	}
	flush()

	return statements
}
