// Package config provides configuration management for almox.
// Configurations are loaded from TOML files with XDG-compliant paths.
package config

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Config holds the complete application configuration.
type Config struct {
	Warehouse WarehouseConfig `toml:"warehouse"`
	Display   DisplayConfig   `toml:"display"`
	Logging   LoggingConfig   `toml:"logging"`
	Database  DatabaseConfig  `toml:"database"`
	Reports   ReportsConfig   `toml:"reports"`
	Export    ExportConfig    `toml:"export"`
}

// WarehouseConfig identifies the warehouse and where its state is kept.
type WarehouseConfig struct {
	Name string `toml:"name"`

	// Slot is the key the whole state document is saved under.
	Slot string `toml:"slot"`

	// AlertResponsible is assigned to automatically raised alerts.
	AlertResponsible string `toml:"alert_responsible"`
}

// DisplayConfig controls TUI appearance.
type DisplayConfig struct {
	ColorScheme ColorScheme `toml:"color_scheme"`
	DateFormat  string      `toml:"date_format"`
	TimeFormat  string      `toml:"time_format"`
}

// ColorScheme defines the terminal color palette.
type ColorScheme string

const (
	ColorSchemeSanitation ColorScheme = "sanitation"
	ColorSchemeAmber      ColorScheme = "amber"
	ColorSchemeWhite      ColorScheme = "white"
)

// LoggingConfig controls application logging.
type LoggingConfig struct {
	Level LogLevel `toml:"level"`
	File  string   `toml:"file"`
}

// LogLevel defines logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// DatabaseConfig controls SQLite database settings.
type DatabaseConfig struct {
	Path                string `toml:"path"`
	BackupIntervalHours int    `toml:"backup_interval_hours"`
	BackupRetentionDays int    `toml:"backup_retention_days"`
}

// ReportsConfig tunes the aggregations on the reports screen.
// Money and factors are decimal strings so they survive TOML untouched.
type ReportsConfig struct {
	WindowDays      int    `toml:"window_days"`
	UnitValue       string `toml:"unit_value"`
	ReplenishFactor string `toml:"replenish_factor"`
}

// ExportConfig controls where exported reports are written.
type ExportConfig struct {
	Dir string `toml:"dir"`
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Warehouse.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("warehouse: %w", err))
	}

	if err := c.Display.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("display: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}

	if err := c.Reports.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("reports: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks that the warehouse configuration is valid.
func (w *WarehouseConfig) Validate() error {
	var errs []error

	if w.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}

	if w.Slot == "" {
		errs = append(errs, errors.New("slot is required"))
	}

	return errors.Join(errs...)
}

// Validate checks that the display configuration is valid.
func (d *DisplayConfig) Validate() error {
	switch d.ColorScheme {
	case "", ColorSchemeSanitation, ColorSchemeAmber, ColorSchemeWhite:
		return nil
	}
	return fmt.Errorf("invalid color_scheme: %s", d.ColorScheme)
}

// Validate checks that the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	switch l.Level {
	case "", LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	}
	return fmt.Errorf("invalid log level: %s", l.Level)
}

// Validate checks that the database configuration is valid.
func (d *DatabaseConfig) Validate() error {
	var errs []error

	if d.Path == "" {
		errs = append(errs, errors.New("path is required"))
	}

	if d.BackupIntervalHours < 0 {
		errs = append(errs, errors.New("backup_interval_hours must be non-negative"))
	}

	if d.BackupRetentionDays < 0 {
		errs = append(errs, errors.New("backup_retention_days must be non-negative"))
	}

	return errors.Join(errs...)
}

// Validate checks that the reports configuration is valid.
func (r *ReportsConfig) Validate() error {
	var errs []error

	if r.WindowDays < 1 {
		errs = append(errs, errors.New("window_days must be positive"))
	}

	if v, err := decimal.NewFromString(r.UnitValue); err != nil {
		errs = append(errs, fmt.Errorf("invalid unit_value: %w", err))
	} else if v.IsNegative() {
		errs = append(errs, errors.New("unit_value must be non-negative"))
	}

	if f, err := decimal.NewFromString(r.ReplenishFactor); err != nil {
		errs = append(errs, fmt.Errorf("invalid replenish_factor: %w", err))
	} else if f.LessThan(decimal.NewFromInt(1)) {
		errs = append(errs, errors.New("replenish_factor must be at least 1"))
	}

	return errors.Join(errs...)
}

// UnitValueDecimal returns the configured unit value.
func (r *ReportsConfig) UnitValueDecimal() decimal.Decimal {
	return decimal.RequireFromString(r.UnitValue)
}

// ReplenishFactorDecimal returns the configured replenishment factor.
func (r *ReportsConfig) ReplenishFactorDecimal() decimal.Decimal {
	return decimal.RequireFromString(r.ReplenishFactor)
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Warehouse: WarehouseConfig{
			Name:             "Almoxarifado SAAE",
			Slot:             "almoxarifado-data",
			AlertResponsible: "Almoxarifado Central",
		},
		Display: DisplayConfig{
			ColorScheme: ColorSchemeSanitation,
			DateFormat:  "2006-01-02",
			TimeFormat:  "15:04",
		},
		Logging: LoggingConfig{
			Level: LogLevelInfo,
			File:  "logs/almox.log",
		},
		Database: DatabaseConfig{
			Path:                "almox.db",
			BackupIntervalHours: 24,
			BackupRetentionDays: 30,
		},
		Reports: ReportsConfig{
			WindowDays:      7,
			UnitValue:       "50.00",
			ReplenishFactor: "1.5",
		},
		Export: ExportConfig{
			Dir: "exports",
		},
	}
}
