package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/saae/almox/internal/config"

	_ "modernc.org/sqlite"
)

// NewInMemory opens a private in-memory database with no WAL, no backups
// and no migrations applied.
func NewInMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return &DB{
		DB:     sqlDB,
		path:   ":memory:",
		config: &config.DatabaseConfig{},
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// NewMigratedInMemory opens an in-memory database with every migration
// applied.
func NewMigratedInMemory() (*DB, error) {
	db, err := NewInMemory()
	if err != nil {
		return nil, err
	}

	m, err := NewMigrator(db)
	if err == nil {
		_, err = m.MigrateUp(context.Background())
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating in-memory database: %w", err)
	}
	return db, nil
}
