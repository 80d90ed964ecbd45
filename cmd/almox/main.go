// almox: warehouse management for the SAAE water and sewage utility.
//
// Tracks items, pumps, stock movements, users and alerts in a single
// state document kept in SQLite, with a terminal interface and report
// export to XLSX and PDF.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/saae/almox/internal/config"
	"github.com/saae/almox/internal/database"
	"github.com/saae/almox/internal/database/seed"
	"github.com/saae/almox/internal/reports"
	"github.com/saae/almox/internal/repository"
	"github.com/saae/almox/internal/services/reporting"
	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/tui"
	"github.com/saae/almox/internal/util"
)

// Build information (set via ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

type options struct {
	configPath  string
	migrateOnly bool
	reset       bool
	export      string
	diagnose    bool
	debug       bool
}

func main() {
	var (
		opts        options
		showVersion bool
	)
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.BoolVar(&opts.migrateOnly, "migrate-only", false, "Run migrations and exit")
	flag.BoolVar(&opts.reset, "reset", false, "Discard the saved state and start from the initial dataset")
	flag.StringVar(&opts.export, "export", "", "Export a report (xlsx or pdf) and exit")
	flag.BoolVar(&opts.diagnose, "diagnose", false, "Print database and saved state diagnostics and exit")
	flag.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&showVersion, "version", false, "Show version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("almox version %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()

		time.AfterFunc(10*time.Second, func() {
			slog.Error("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	if err := run(ctx, opts); err != nil {
		slog.Error("application error", "error", err)
		fmt.Fprintln(os.Stderr, "almox:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, cfgPath, err := config.Load(opts.configPath, true)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog, err := setupLogging(cfg, opts.debug)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("almox starting",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cfgPath,
	)

	dbPath, err := config.EnsureDataDir(cfg)
	if err != nil {
		return fmt.Errorf("ensuring data directory: %w", err)
	}

	backupDir, err := config.BackupDir(cfg)
	if err != nil {
		logger.Warn("failed to create backup directory", "error", err)
		backupDir = ""
	}

	if opts.diagnose {
		diag, err := database.DiagnoseDatabase(ctx, dbPath)
		if err != nil {
			return fmt.Errorf("diagnosing database: %w", err)
		}
		printDiagnostics(diag)
		if !diag.Exists || diag.OpenError != "" {
			return nil
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		report, err := database.AttemptRecovery(ctx, dbPath, backupDir, logger)
		if err != nil {
			logger.Error("database recovery failed", "path", dbPath, "steps", len(report.Steps))
			return fmt.Errorf("database recovery failed: %w", err)
		}

		switch report.Result {
		case database.RecoveryFromBackup:
			logger.Warn("database restored from backup", "backup", report.BackupUsed)
		case database.RecoverySuccess:
			logger.Debug("database integrity verified")
		}
	}

	db, err := database.Open(dbPath, &cfg.Database, backupDir, logger)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		logger.Info("closing database")
		if err := db.Close(); err != nil {
			logger.Error("error closing database", "error", err)
		}
	}()

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}

	migrator, err := database.NewMigrator(db)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	pending, err := migrator.PendingMigrations(ctx)
	if err != nil {
		return fmt.Errorf("checking migrations: %w", err)
	}
	logger.Debug("pending migrations", "count", len(pending))

	result, err := migrator.MigrateUp(ctx)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if len(result.Applied) > 0 {
		logger.Info("applied migrations",
			"count", len(result.Applied),
			"to_version", result.TargetVersion,
		)
	}

	if opts.migrateOnly {
		logger.Info("migrations complete, exiting")
		return nil
	}

	clock := util.SystemClock{}
	slots := repository.NewSlotRepository(db.DB, clock)

	if opts.diagnose {
		return printSlotReport(ctx, db, slots, cfg.Warehouse.Slot)
	}

	if opts.reset {
		removed, err := slots.Delete(ctx, cfg.Warehouse.Slot)
		if err != nil {
			return fmt.Errorf("resetting saved state: %w", err)
		}
		logger.Warn("saved state discarded", "slot", cfg.Warehouse.Slot, "existed", removed)
	}

	if info, err := slots.Revision(ctx, cfg.Warehouse.Slot); err == nil {
		logger.Info("saved state found", "slot", info.Name, "revision", info.Revision, "saved_at", info.SavedAt)
	}

	initial, decoded := store.Hydrate(ctx, slots, cfg.Warehouse.Slot, seed.InitialState(), logger)
	s := store.New(initial,
		store.WithClock(clock),
		store.WithLogger(logger),
		store.WithAlertResponsible(cfg.Warehouse.AlertResponsible),
		store.WithObserver(store.NewSlotObserver(slots, cfg.Warehouse.Slot)),
	)
	if !decoded.Clean() && !decoded.Missing {
		logger.Warn("some collections were reset to the initial dataset", "collections", decoded.Fallbacks)
	}

	exportDir, err := config.ExportDir(cfg)
	if err != nil {
		return fmt.Errorf("preparing export directory: %w", err)
	}
	svc := reporting.NewService(s, reporting.Settings{
		Dir:       exportDir,
		Warehouse: cfg.Warehouse.Name,
		Author:    cfg.Warehouse.AlertResponsible,
		Options: reports.Options{
			WindowDays: cfg.Reports.WindowDays,
			UnitValue:  cfg.Reports.UnitValueDecimal(),
		},
		ReplenishFactor: cfg.Reports.ReplenishFactorDecimal(),
	}, clock, logger)

	if opts.export != "" {
		format, err := reporting.ParseFormat(opts.export)
		if err != nil {
			return err
		}
		res, err := svc.Export(ctx, format)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", res.Path, humanize.Bytes(uint64(res.Size)))
		return nil
	}

	tui.Version = Version
	tui.BuildTime = BuildTime

	logger.Info("starting TUI", "warehouse", cfg.Warehouse.Name, "slot", cfg.Warehouse.Slot)

	if err := tui.Run(ctx, s, svc, cfg, clock, logger); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if n := s.SaveFailures(); n > 0 {
		logger.Error("session ended with unsaved changes", "failed_saves", n)
	}
	logger.Info("almox shutdown complete")
	return nil
}

func printDiagnostics(d *database.Diagnostics) {
	fmt.Printf("Database:      %s\n", d.Path)
	if !d.Exists {
		fmt.Println("Status:        not created yet")
		return
	}
	fmt.Printf("Size:          %s (modified %s)\n", humanize.Bytes(uint64(d.SizeBytes)), humanize.Time(d.ModTime))
	if d.WALExists {
		fmt.Printf("WAL:           %s\n", humanize.Bytes(uint64(d.WALSizeBytes)))
	}
	if d.OpenError != "" {
		fmt.Printf("Open error:    %s\n", d.OpenError)
		return
	}
	fmt.Printf("SQLite:        %s\n", d.SQLiteVersion)
	fmt.Printf("Journal mode:  %s\n", d.JournalMode)
	fmt.Printf("Quick check:   %s\n", d.QuickCheck)
}

// printSlotReport prints page statistics and the recent saves of slot.
func printSlotReport(ctx context.Context, db *database.DB, slots *repository.SlotRepository, slot string) error {
	stats, err := db.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("reading database stats: %w", err)
	}
	fmt.Printf("Pages:         %d (%d free, %s each)\n",
		stats.PageCount, stats.FreePageCount, humanize.Bytes(uint64(stats.PageSize)))

	history, err := slots.History(ctx, slot, 10)
	if err != nil {
		return fmt.Errorf("reading slot history: %w", err)
	}
	fmt.Printf("Slot %q:  %d recent save(s)\n", slot, len(history))
	for _, h := range history {
		fmt.Printf("  %s  %s  %s\n", h.Revision, h.SavedAt.Local().Format(time.DateTime), humanize.Bytes(uint64(h.SizeBytes)))
	}
	return nil
}

// setupLogging writes JSON to the configured log file, or text to stderr
// when no file is set. The returned func closes the file.
func setupLogging(cfg *config.Config, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	} else {
		switch cfg.Logging.Level {
		case config.LogLevelDebug:
			level = slog.LevelDebug
		case config.LogLevelWarn:
			level = slog.LevelWarn
		case config.LogLevelError:
			level = slog.LevelError
		}
	}

	logPath, err := config.EnsureLogDir(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if logPath == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts)), func() {}, nil
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(logFile, handlerOpts)), func() { logFile.Close() }, nil
}
