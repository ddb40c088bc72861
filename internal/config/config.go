package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NemecSoft/YunGame/internal/access"
	"github.com/NemecSoft/YunGame/pkg/database"
	"github.com/NemecSoft/YunGame/pkg/utilities"
)

// ConfigPath is read when Load is given no path. It is optional.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	DatabasePath  string   `yaml:"databasePath"`
	BusyTimeoutMS int      `yaml:"busyTimeoutMs"`
	LogLevel      string   `yaml:"logLevel"`
	LogDev        bool     `yaml:"logDev"`
	LogsDir       string   `yaml:"logsDir"`
	UserLevel     string   `yaml:"userLevel"`
	Mode          string   `yaml:"mode"`
	LibraryRoots  []string `yaml:"libraryRoots"`
}

// Load reads config from path (defaults to config.yaml, which may be
// absent), then applies environment overrides and validates.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{LogLevel: "info", Mode: "play", UserLevel: "normal"}
	explicit := path != ""
	if !explicit {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	// Override with environment variables
	if v := os.Getenv("YUNGAME_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("YUNGAME_BUSY_TIMEOUT_MS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return cfg, fmt.Errorf("config: YUNGAME_BUSY_TIMEOUT_MS %q is not a number", v)
		}
		cfg.BusyTimeoutMS = n
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_DEV"); v != "" {
		cfg.LogDev = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("LOGS_DIR"); v != "" {
		cfg.LogsDir = v
	}
	if v := os.Getenv("YUNGAME_USER_LEVEL"); v != "" {
		cfg.UserLevel = v
	}
	if v := os.Getenv("YUNGAME_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("YUNGAME_LIBRARY_ROOTS"); v != "" {
		cfg.LibraryRoots = filepath.SplitList(v)
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.BusyTimeoutMS < 0 {
		return errors.New("config: busyTimeoutMs must be >= 0")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: logLevel %q must be one of debug, info, warn, error", cfg.LogLevel)
	}
	if _, err := access.ParseUserLevel(cfg.UserLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := access.ParseMode(cfg.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for _, r := range cfg.LibraryRoots {
		if strings.TrimSpace(r) == "" {
			return errors.New("config: libraryRoots must not contain empty entries")
		}
	}
	return nil
}

// Database returns the store settings. An empty DatabasePath selects the
// per-user default location.
func (c FileConfig) Database() database.Config {
	db := database.DefaultConfig(c.DatabasePath)
	if c.BusyTimeoutMS > 0 {
		db.BusyTimeout = time.Duration(c.BusyTimeoutMS) * time.Millisecond
	}
	return db
}

// Logger returns the logger settings.
func (c FileConfig) Logger() utilities.Config {
	return utilities.Config{Level: c.LogLevel, Dev: c.LogDev, Dir: c.LogsDir}
}

// Access returns the parsed user level and mode. Load has validated both.
func (c FileConfig) Access() (access.UserLevel, access.Mode) {
	u, _ := access.ParseUserLevel(c.UserLevel)
	m, _ := access.ParseMode(c.Mode)
	return u, m
}
