package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/saae/almox/internal/util"

	_ "modernc.org/sqlite"
)

// RecoveryResult is the outcome of AttemptRecovery.
type RecoveryResult int

const (
	// RecoverySuccess means the database was healthy or recovered in place.
	RecoverySuccess RecoveryResult = iota
	// RecoveryFromBackup means the database was replaced by a backup.
	RecoveryFromBackup
	// RecoveryFailed means nothing worked.
	RecoveryFailed
)

func (r RecoveryResult) String() string {
	switch r {
	case RecoverySuccess:
		return "success"
	case RecoveryFromBackup:
		return "restored_from_backup"
	case RecoveryFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrRecoveryFailed is returned when every recovery phase failed.
var ErrRecoveryFailed = errors.New("all recovery attempts failed")

// RecoveryReport records what AttemptRecovery tried.
type RecoveryReport struct {
	Result       RecoveryResult
	DatabasePath string
	BackupUsed   string
	WALRecovered bool
	Steps        []RecoveryStep
}

// RecoveryStep is one phase of a recovery attempt.
type RecoveryStep struct {
	Name      string
	Succeeded bool
	Message   string
	Duration  time.Duration
}

// AttemptRecovery checks the database at dbPath before it is opened and
// tries, in order, an integrity check, a WAL replay and a restore of the
// newest healthy backup. A missing file is a first run and succeeds.
func AttemptRecovery(ctx context.Context, dbPath, backupDir string, logger *slog.Logger) (*RecoveryReport, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "recovery", "path", dbPath)
	report := &RecoveryReport{DatabasePath: dbPath}

	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		report.Result = RecoverySuccess
		report.Steps = append(report.Steps, RecoveryStep{
			Name:      "check_exists",
			Succeeded: true,
			Message:   "database does not exist (first run)",
		})
		return report, nil
	}

	step := report.run("integrity_check", func() (string, error) {
		return checkDatabaseIntegrity(ctx, dbPath)
	})
	if step.Succeeded {
		report.Result = RecoverySuccess
		log.Debug("database integrity check passed")
		return report, nil
	}
	log.Warn("database integrity check failed", "error", step.Message)

	if _, err := os.Stat(dbPath + "-wal"); err == nil {
		replayed := report.run("wal_recovery", func() (string, error) {
			return attemptWALRecovery(ctx, dbPath)
		})
		if replayed.Succeeded {
			recheck := report.run("post_wal_integrity", func() (string, error) {
				return checkDatabaseIntegrity(ctx, dbPath)
			})
			if recheck.Succeeded {
				report.Result = RecoverySuccess
				report.WALRecovered = true
				log.Info("database recovered via WAL replay")
				return report, nil
			}
		}
	}

	if backupDir != "" {
		restored := report.run("backup_restoration", func() (string, error) {
			return restoreFromBackup(ctx, dbPath, backupDir, log)
		})
		if restored.Succeeded {
			report.Result = RecoveryFromBackup
			report.BackupUsed = restored.Message
			log.Info("database restored from backup", "backup", restored.Message)
			return report, nil
		}
	}

	report.Result = RecoveryFailed
	log.Error("database recovery failed", "steps", len(report.Steps))
	return report, ErrRecoveryFailed
}

// run executes one phase and appends its outcome to the report.
func (r *RecoveryReport) run(name string, fn func() (string, error)) RecoveryStep {
	start := time.Now()
	msg, err := fn()

	step := RecoveryStep{Name: name, Succeeded: err == nil, Message: msg, Duration: time.Since(start)}
	if err != nil {
		step.Message = err.Error()
	}
	r.Steps = append(r.Steps, step)
	return step
}

func checkDatabaseIntegrity(ctx context.Context, dbPath string) (string, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", dbPath))
	if err != nil {
		return "", fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	results, err := integrityRows(ctx, db)
	if err != nil {
		return "", err
	}
	if len(results) == 1 && results[0] == "ok" {
		return "ok", nil
	}
	return "", fmt.Errorf("integrity check failed: %s", strings.Join(results, "; "))
}

func attemptWALRecovery(ctx context.Context, dbPath string) (string, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_txlock=immediate", dbPath))
	if err != nil {
		return "", fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA wal_checkpoint(RESTART)"); err != nil {
		return "", fmt.Errorf("WAL checkpoint: %w", err)
	}
	return "WAL checkpoint complete", nil
}

// restoreFromBackup copies the newest backup that passes an integrity
// check over dbPath, keeping the damaged file aside.
func restoreFromBackup(ctx context.Context, dbPath, backupDir string, log *slog.Logger) (string, error) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return "", fmt.Errorf("reading backup directory: %w", err)
	}

	type backupFile struct {
		path    string
		modTime time.Time
	}

	var backups []backupFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), backupPrefix) || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backupFile{
			path:    filepath.Join(backupDir, entry.Name()),
			modTime: info.ModTime(),
		})
	}

	if len(backups) == 0 {
		return "", errors.New("no backup files found")
	}

	slices.SortFunc(backups, func(a, b backupFile) int {
		return b.modTime.Compare(a.modTime)
	})

	for _, backup := range backups {
		if _, err := checkDatabaseIntegrity(ctx, backup.path); err != nil {
			log.Debug("backup failed integrity check", "backup", backup.path, "error", err)
			continue
		}

		corrupted := dbPath + ".corrupted." + time.Now().Format(util.FileStampFormat)
		if err := moveFile(dbPath, corrupted); err != nil {
			log.Warn("failed to preserve corrupted database", "error", err)
		}
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")

		if err := copyFile(backup.path, dbPath); err != nil {
			return "", fmt.Errorf("copying backup: %w", err)
		}
		return backup.path, nil
	}

	return "", errors.New("no valid backup found")
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("syncing destination: %w", err)
	}
	return nil
}

// Diagnostics describes a database file without modifying it.
type Diagnostics struct {
	Path          string
	Exists        bool
	SizeBytes     int64
	ModTime       time.Time
	WALExists     bool
	WALSizeBytes  int64
	OpenError     string
	SQLiteVersion string
	JournalMode   string
	QuickCheck    string
}

// DiagnoseDatabase gathers Diagnostics for dbPath. Query failures leave
// the corresponding field empty.
func DiagnoseDatabase(ctx context.Context, dbPath string) (*Diagnostics, error) {
	diag := &Diagnostics{Path: dbPath}

	info, err := os.Stat(dbPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return diag, nil
	case err != nil:
		return nil, fmt.Errorf("stating database: %w", err)
	}
	diag.Exists = true
	diag.SizeBytes = info.Size()
	diag.ModTime = info.ModTime()

	if wal, err := os.Stat(dbPath + "-wal"); err == nil {
		diag.WALExists = true
		diag.WALSizeBytes = wal.Size()
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", dbPath))
	if err != nil {
		diag.OpenError = err.Error()
		return diag, nil
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&diag.SQLiteVersion)
	db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&diag.JournalMode)
	if err := db.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&diag.QuickCheck); err != nil {
		diag.OpenError = err.Error()
	}

	return diag, nil
}
