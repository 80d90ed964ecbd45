// Package database manages the SQLite file that holds the warehouse state
// slots: WAL journaling, integrity checks, scheduled backups and schema
// migrations.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/saae/almox/internal/config"
	"github.com/saae/almox/internal/util"

	_ "modernc.org/sqlite"
)

// ErrClosed is returned by operations on a closed database.
var ErrClosed = errors.New("database is closed")

// backupPrefix names every backup file written by Backup.
const backupPrefix = "almox-"

// DB wraps a sql.DB with backup scheduling and shutdown coordination.
type DB struct {
	*sql.DB
	path      string
	config    *config.DatabaseConfig
	backupDir string
	log       *slog.Logger

	mu     sync.RWMutex
	closed bool

	backupTicker *time.Ticker
	backupDone   chan struct{}
	cleanup      sync.WaitGroup
}

// Open connects to the database at dbPath in WAL mode. A failed integrity
// check is logged rather than returned so the caller can run AttemptRecovery.
func Open(dbPath string, cfg *config.DatabaseConfig, backupDir string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = &config.DatabaseConfig{}
	}

	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	connStr := fmt.Sprintf("file:%s?_txlock=immediate&_timeout=5000", dbPath)
	sqlDB, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite has a single writer.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	db := &DB{
		DB:        sqlDB,
		path:      dbPath,
		config:    cfg,
		backupDir: backupDir,
		log:       logger.With("component", "database"),
	}

	if err := db.initPragmas(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("initializing pragmas: %w", err)
	}

	if err := db.CheckIntegrity(context.Background()); err != nil {
		db.log.Warn("database integrity check failed", "error", err)
	}

	if cfg.BackupIntervalHours > 0 && backupDir != "" {
		db.startBackupScheduler(time.Duration(cfg.BackupIntervalHours) * time.Hour)
	}

	return db, nil
}

func (db *DB) initPragmas() error {
	pragmas := []struct {
		name   string
		pragma string
	}{
		{"journal_mode", "PRAGMA journal_mode=WAL"},
		{"synchronous", "PRAGMA synchronous=NORMAL"},
		{"busy_timeout", "PRAGMA busy_timeout=5000"},
		{"foreign_keys", "PRAGMA foreign_keys=ON"},
		{"cache_size", "PRAGMA cache_size=-8000"},
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p.pragma); err != nil {
			return fmt.Errorf("setting %s: %w", p.name, err)
		}
	}
	return nil
}

// CheckIntegrity runs PRAGMA integrity_check and fails unless SQLite
// answers a single "ok".
func (db *DB) CheckIntegrity(ctx context.Context) error {
	results, err := integrityRows(ctx, db.DB)
	if err != nil {
		return err
	}
	if len(results) == 1 && results[0] == "ok" {
		return nil
	}
	return fmt.Errorf("integrity check failed: %s", strings.Join(results, "; "))
}

func integrityRows(ctx context.Context, q interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}) ([]string, error) {
	rows, err := q.QueryContext(ctx, "PRAGMA integrity_check")
	if err != nil {
		return nil, fmt.Errorf("running integrity check: %w", err)
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var result string
		if err := rows.Scan(&result); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}
	return results, nil
}

// Checkpoint flushes the WAL into the main database file.
func (db *DB) Checkpoint(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}
	return nil
}

// Backup writes a compacted copy of the database to the backup directory
// and returns its path.
func (db *DB) Backup(ctx context.Context) (string, error) {
	if db.IsClosed() {
		return "", ErrClosed
	}
	if db.backupDir == "" {
		return "", errors.New("backup directory not configured")
	}

	name := backupPrefix + time.Now().Format(util.FileStampFormat) + ".db"
	backupPath := filepath.Join(db.backupDir, name)

	if err := db.Checkpoint(ctx); err != nil {
		db.log.Warn("checkpoint before backup failed", "error", err)
	}

	escaped := strings.ReplaceAll(backupPath, "'", "''")
	if _, err := db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", escaped)); err != nil {
		return "", fmt.Errorf("creating backup: %w", err)
	}

	db.log.Info("database backup created", "path", backupPath)

	if db.config.BackupRetentionDays > 0 {
		db.cleanup.Add(1)
		go func() {
			defer db.cleanup.Done()
			db.PruneBackups(time.Now().AddDate(0, 0, -db.config.BackupRetentionDays))
		}()
	}

	return backupPath, nil
}

// PruneBackups removes backup files last modified before cutoff and
// returns how many were removed. Files not written by Backup are left alone.
func (db *DB) PruneBackups(cutoff time.Time) int {
	if db.backupDir == "" {
		return 0
	}

	entries, err := os.ReadDir(db.backupDir)
	if err != nil {
		db.log.Warn("reading backup directory", "error", err)
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), backupPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(db.backupDir, entry.Name())
		if err := os.Remove(path); err != nil {
			db.log.Warn("removing old backup", "path", path, "error", err)
			continue
		}
		db.log.Debug("removed old backup", "path", path)
		removed++
	}
	return removed
}

func (db *DB) startBackupScheduler(interval time.Duration) {
	db.backupTicker = time.NewTicker(interval)
	db.backupDone = make(chan struct{})

	go func() {
		for {
			select {
			case <-db.backupTicker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				if _, err := db.Backup(ctx); err != nil {
					db.log.Error("scheduled backup failed", "error", err)
				}
				cancel()
			case <-db.backupDone:
				return
			}
		}
	}()
}

// Close stops the backup scheduler, checkpoints the WAL and closes the
// connection. Closing twice is a no-op.
func (db *DB) Close() error {
	db.mu.Lock()
	if db.closed {
		db.mu.Unlock()
		return nil
	}
	db.closed = true
	db.mu.Unlock()

	if db.backupTicker != nil {
		db.backupTicker.Stop()
		close(db.backupDone)
	}
	db.cleanup.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.Checkpoint(ctx); err != nil {
		db.log.Warn("final checkpoint failed", "error", err)
	}

	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}

	db.log.Info("database closed")
	return nil
}

// IsClosed reports whether Close has been called.
func (db *DB) IsClosed() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.closed
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// BeginTx starts a transaction, failing with ErrClosed after Close.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	if db.IsClosed() {
		return nil, ErrClosed
	}
	return db.DB.BeginTx(ctx, opts)
}

// WithTransaction runs fn in a transaction, committing when it returns nil
// and rolling back otherwise.
func (db *DB) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back after error %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// HealthCheck verifies the connection answers a trivial query.
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.IsClosed() {
		return ErrClosed
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("health check query: %w", err)
	}
	if result != 1 {
		return errors.New("unexpected health check result")
	}
	return nil
}

// Stats describes the database file.
type Stats struct {
	Path          string
	SizeBytes     int64
	WALSizeBytes  int64
	PageCount     int64
	FreePageCount int64
	PageSize      int64
	JournalMode   string
}

// GetStats collects file sizes and page statistics. Individual pragma
// failures are logged and leave the field zero.
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	if db.IsClosed() {
		return nil, ErrClosed
	}

	stats := &Stats{Path: db.path}

	if info, err := os.Stat(db.path); err == nil {
		stats.SizeBytes = info.Size()
	}
	if info, err := os.Stat(db.path + "-wal"); err == nil {
		stats.WALSizeBytes = info.Size()
	}

	queries := []struct {
		pragma string
		dest   any
	}{
		{"PRAGMA page_count", &stats.PageCount},
		{"PRAGMA freelist_count", &stats.FreePageCount},
		{"PRAGMA page_size", &stats.PageSize},
		{"PRAGMA journal_mode", &stats.JournalMode},
	}
	for _, q := range queries {
		if err := db.QueryRowContext(ctx, q.pragma).Scan(q.dest); err != nil {
			db.log.Warn("getting stat", "pragma", q.pragma, "error", err)
		}
	}

	return stats, nil
}
