package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration, stored as YAML. A missing file
// is created with defaults on first load.
type Config struct {
	// Database is the sqlite file holding the task store.
	Database string `yaml:"database"`

	// LogFile receives structured logs. The TUI owns the terminal, so
	// logging never goes to stdout or stderr.
	LogFile string `yaml:"log_file"`

	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// ExportPath is the default target for calendar exports.
	ExportPath string `yaml:"export_path"`

	// PreviewCount is how many upcoming occurrences per task the export
	// and the detail pane expand a repeat rule into.
	PreviewCount int `yaml:"preview_count"`

	// ConfirmDelete gates the delete action behind a confirmation prompt.
	ConfirmDelete bool `yaml:"confirm_delete"`

	// WatcherBuffer is the due-event channel capacity.
	WatcherBuffer int `yaml:"watcher_buffer"`
}

func DefaultConfig() *Config {
	return &Config{
		Database:      defaultInHome("cadence.db"),
		LogFile:       defaultInHome("cadence.log"),
		LogLevel:      "info",
		ExportPath:    "cadence.ics",
		PreviewCount:  5,
		ConfirmDelete: true,
		WatcherBuffer: 64,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "cadence.yaml"
	}
	return filepath.Join(base, "cadence", "config.yaml")
}

func defaultInHome(name string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(base, "cadence", name)
}

// Normalize fills missing or out-of-range values so partially filled
// configs from older versions keep working.
func (c *Config) Normalize() {
	defaults := DefaultConfig()
	if c.Database == "" {
		c.Database = defaults.Database
	}
	if c.LogFile == "" {
		c.LogFile = defaults.LogFile
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = defaults.LogLevel
	}
	if c.ExportPath == "" {
		c.ExportPath = defaults.ExportPath
	}
	if c.PreviewCount <= 0 {
		c.PreviewCount = defaults.PreviewCount
	}
	if c.WatcherBuffer <= 0 {
		c.WatcherBuffer = defaults.WatcherBuffer
	}
}

// Load reads the YAML config at path, creating it with defaults when it
// does not exist yet. Environment variables override file values last.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if saveErr := Save(path, cfg); saveErr != nil {
				return cfg, saveErr
			}
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	cfg.applyEnv()
	return &cfg, nil
}

// Save writes the config atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config: path is empty")
	}
	if cfg == nil {
		return errors.New("config: nil config")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".cadence-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("CADENCE_DATABASE")); v != "" {
		c.Database = v
	}
	if v := strings.TrimSpace(os.Getenv("CADENCE_LOG_FILE")); v != "" {
		c.LogFile = v
	}
	if v := strings.TrimSpace(os.Getenv("CADENCE_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("CADENCE_EXPORT_PATH")); v != "" {
		c.ExportPath = v
	}
	if v, ok := getEnvInt("CADENCE_PREVIEW_COUNT"); ok && v > 0 {
		c.PreviewCount = v
	}
	if v, ok := getEnvBool("CADENCE_CONFIRM_DELETE"); ok {
		c.ConfirmDelete = v
	}
	if v, ok := getEnvInt("CADENCE_WATCHER_BUFFER"); ok && v > 0 {
		c.WatcherBuffer = v
	}
	c.Normalize()
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
