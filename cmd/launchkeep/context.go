package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"launchkeep/internal/config"
	"launchkeep/internal/logging"
	"launchkeep/internal/safety"
)

var errConfig = errors.New("invalid configuration")

type commandContext struct {
	configFlag   *string
	dataPathFlag *string
	jsonFlag     *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	log        *log.Logger
}

func newCommandContext(configFlag, dataPathFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		dataPathFlag: dataPathFlag,
		jsonFlag:     jsonFlag,
	}
}

// ensureConfig loads the configuration once. --data-path wins over any file;
// without an explicit --config a missing default file falls back to defaults.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = c.loadConfig()
		if c.configErr != nil {
			c.configErr = fmt.Errorf("%w: %w", errConfig, c.configErr)
		}
	})
	return c.config, c.configErr
}

func (c *commandContext) loadConfig() (*config.Config, error) {
	if dataPath := flagValue(c.dataPathFlag); dataPath != "" {
		abs, err := filepath.Abs(dataPath)
		if err != nil {
			return nil, err
		}
		return config.Default(abs)
	}

	path := flagValue(c.configFlag)
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.Is(err, os.ErrNotExist) {
		return config.Default(defaultDataPath())
	}
	return nil, err
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// logger writes to stderr so that tables and JSON on stdout stay clean
func (c *commandContext) logger(stderr io.Writer) *log.Logger {
	c.loggerOnce.Do(func() {
		c.log = logging.NewWithOutput(stderr, c.config)
	})
	return c.log
}

// validator guards deletions under the data path. The launcher's own state
// files are always protected.
func folderValidator(cfg *config.Config) *safety.Validator {
	protected := append([]string{}, cfg.ProtectedPaths...)
	protected = append(protected, cfg.AppsFile, cfg.SettingsFile, cfg.DatabasePath, cfg.LockFile)
	if cfg.Logging.File != "" {
		protected = append(protected, cfg.Logging.File)
	}
	return safety.NewValidator(cfg.DataPath, protected)
}

func flagValue(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func defaultConfigPath() string {
	if v := strings.TrimSpace(os.Getenv("LAUNCHKEEP_CONFIG")); v != "" {
		return v
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "launchkeep.yaml")
	}
	return filepath.Join(dir, "launchkeep", "config.yaml")
}

func defaultDataPath() string {
	if v := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); v != "" {
		return filepath.Join(v, "launchkeep", "Data")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "launchkeep", "Data")
	}
	return filepath.Join(home, ".local", "share", "launchkeep", "Data")
}
