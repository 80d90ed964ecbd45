package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultConfigFileName is the standard configuration file name.
	DefaultConfigFileName = "almox.toml"

	// XDGSubdir is the subdirectory used under the XDG config and data homes.
	XDGSubdir = "almox"
)

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading config from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads configuration from, in order of precedence:
//  1. explicitPath, if given (no fallback)
//  2. $XDG_CONFIG_HOME/almox/almox.toml
//  3. ./almox.toml
//  4. a freshly written default, if createDefault is set
//
// It returns the configuration and the path it came from, which is empty
// when the default could not be written.
func Load(explicitPath string, createDefault bool) (*Config, string, error) {
	if explicitPath != "" {
		cfg, err := loadFromFile(explicitPath)
		if err != nil {
			return nil, "", &LoadError{Path: explicitPath, Err: err}
		}
		return cfg, explicitPath, nil
	}

	candidates := []string{xdgConfigPath(), filepath.Join(".", DefaultConfigFileName)}
	for _, path := range candidates {
		if path == "" || !fileExists(path) {
			continue
		}
		cfg, err := loadFromFile(path)
		if err != nil {
			return nil, "", &LoadError{Path: path, Err: err}
		}
		return cfg, path, nil
	}

	if !createDefault {
		return nil, "", fmt.Errorf("no configuration file found; searched: %v", candidates)
	}

	cfg := Default()
	target := ConfigPath("")
	if err := Save(cfg, target); err != nil {
		return cfg, "", nil
	}
	return cfg, target, nil
}

func loadFromFile(path string) (*Config, error) {
	// Start with defaults so missing keys keep sensible values.
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys: %v", undecoded)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Save writes a configuration to a TOML file.
func Save(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	header := `# almox configuration
# Warehouse and pump inventory for the maintenance department.
#
# Generated on first run. Edit as needed.

`
	if _, err := f.WriteString(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding TOML: %w", err)
	}

	return nil
}

// xdgConfigPath returns the XDG config file path, or "" when no home
// directory can be determined.
func xdgConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, XDGSubdir, DefaultConfigFileName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", XDGSubdir, DefaultConfigFileName)
}

// dataHome returns the XDG data directory for almox, or "" when unknown.
func dataHome() string {
	xdg := os.Getenv("XDG_DATA_HOME")
	if xdg == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		xdg = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(xdg, XDGSubdir)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ConfigPath returns the configuration file path that would be used.
func ConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	xdgPath := xdgConfigPath()
	if xdgPath != "" && fileExists(xdgPath) {
		return xdgPath
	}

	cwdPath := filepath.Join(".", DefaultConfigFileName)
	if fileExists(cwdPath) {
		return cwdPath
	}

	if xdgPath != "" {
		return xdgPath
	}
	return cwdPath
}

// resolveDataPath places a relative path under the data home, creating
// the parent directory. Absolute paths are kept.
func resolveDataPath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		if home := dataHome(); home != "" {
			path = filepath.Join(home, path)
		}
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", err
		}
	}
	return path, nil
}

// EnsureDataDir creates the data directory and returns the database path.
func EnsureDataDir(cfg *Config) (string, error) {
	path, err := resolveDataPath(cfg.Database.Path)
	if err != nil {
		return "", fmt.Errorf("creating database directory: %w", err)
	}
	return path, nil
}

// EnsureLogDir creates the log directory and returns the log file path.
// An empty file setting disables file logging and returns "".
func EnsureLogDir(cfg *Config) (string, error) {
	if cfg.Logging.File == "" {
		return "", nil
	}

	path, err := resolveDataPath(cfg.Logging.File)
	if err != nil {
		return "", fmt.Errorf("creating log directory: %w", err)
	}
	return path, nil
}

// BackupDir returns the directory for database backups, next to the database.
func BackupDir(cfg *Config) (string, error) {
	dbPath, err := EnsureDataDir(cfg)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(filepath.Dir(dbPath), "backups")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}
	return dir, nil
}

// ExportDir returns the directory reports are exported to.
func ExportDir(cfg *Config) (string, error) {
	if cfg.Export.Dir == "" {
		return "", errors.New("export dir is not configured")
	}

	dir := cfg.Export.Dir
	if !filepath.IsAbs(dir) {
		if home := dataHome(); home != "" {
			dir = filepath.Join(home, dir)
		}
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	return dir, nil
}
