package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type LoggingCfg struct {
	File         string `yaml:"file" json:"file"`                   // Log file path; empty means stdout only
	MaxSizeMB    int    `yaml:"max_size_mb" json:"max_size_mb"`     // Rotate after this many megabytes
	MaxBackups   int    `yaml:"max_backups" json:"max_backups"`     // Rotated files to keep
	RotationDays int    `yaml:"rotation_days" json:"rotation_days"` // Days to keep rotated logs
}

type MetricsCfg struct {
	Textfile string `yaml:"textfile" json:"textfile"` // node_exporter textfile path, written after each run
}

type Config struct {
	DataPath       string     `yaml:"data_path" json:"data_path"`             // Directory holding per-app data folders
	AppsFile       string     `yaml:"apps_file" json:"apps_file"`             // App registry manifest
	SettingsFile   string     `yaml:"settings_file" json:"settings_file"`     // Launcher toggles
	DatabasePath   string     `yaml:"database_path" json:"database_path"`     // SQLite reconciliation history
	LockFile       string     `yaml:"lock_file" json:"lock_file"`             // Serializes reconciliations
	ProtectedPaths []string   `yaml:"protected_paths" json:"protected_paths"` // Extra paths that may never be deleted
	Logging        LoggingCfg `yaml:"logging" json:"logging"`
	Metrics        MetricsCfg `yaml:"metrics" json:"metrics"`
}

var (
	errNoDataPath  = errors.New("configuration must specify data_path")
	errInvalidPath = errors.New("path must be absolute")
)

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateAndDefault(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) validateAndDefault() error {
	if c.DataPath == "" {
		return errNoDataPath
	}
	dataPath, err := cleanAbsolute(c.DataPath)
	if err != nil {
		return fmt.Errorf("data_path: %w", err)
	}
	c.DataPath = dataPath

	// Everything else lives next to the data folders unless overridden
	root := filepath.Dir(c.DataPath)
	if c.AppsFile == "" {
		c.AppsFile = filepath.Join(root, "apps.yaml")
	}
	if c.SettingsFile == "" {
		c.SettingsFile = filepath.Join(root, "settings.yaml")
	}
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(root, "history.db")
	}
	if c.LockFile == "" {
		c.LockFile = filepath.Join(root, ".reconcile.lock")
	}

	for _, p := range []*string{&c.AppsFile, &c.SettingsFile, &c.DatabasePath, &c.LockFile} {
		cp, err := cleanAbsolute(*p)
		if err != nil {
			return err
		}
		*p = cp
	}

	cleaned := make([]string, 0, len(c.ProtectedPaths))
	for _, p := range c.ProtectedPaths {
		cp, err := cleanAbsolute(p)
		if err != nil {
			return fmt.Errorf("protected_paths: %w", err)
		}
		cleaned = append(cleaned, cp)
	}
	c.ProtectedPaths = cleaned

	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.RotationDays <= 0 {
		c.Logging.RotationDays = 30
	}
	if c.Logging.File != "" {
		cp, err := cleanAbsolute(c.Logging.File)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = cp
	}

	return nil
}

func cleanAbsolute(p string) (string, error) {
	if p == "" {
		return "", errInvalidPath
	}
	cp := filepath.Clean(p)
	if !filepath.IsAbs(cp) {
		return "", fmt.Errorf("%w: %s", errInvalidPath, p)
	}
	return cp, nil
}

// Default returns a validated configuration rooted at dataPath. Used when no
// config file exists yet.
func Default(dataPath string) (*Config, error) {
	cfg := &Config{DataPath: dataPath}
	if err := cfg.validateAndDefault(); err != nil {
		return nil, err
	}
	return cfg, nil
}
