// Package config handles configuration loading, validation, and management for kanatype.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"kanatype/internal/logging"
	"kanatype/internal/matcher"
)

// Version is the current configuration schema version.
const Version = 2

// Config holds the complete trainer configuration.
type Config struct {
	// Version is the configuration schema version for migrations.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Game controls the session flow.
	Game GameConfig `toml:"game" json:"game" yaml:"game"`

	// Bank selects the question bank.
	Bank BankConfig `toml:"bank" json:"bank" yaml:"bank"`

	// Table selects the romanization table.
	Table TableConfig `toml:"table" json:"table" yaml:"table"`

	// Display configures the front ends.
	Display DisplayConfig `toml:"display" json:"display" yaml:"display"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	// mu protects concurrent access to the config.
	mu sync.RWMutex `toml:"-" json:"-" yaml:"-"`
}

// GameConfig holds session settings.
type GameConfig struct {
	// StartKey starts and restarts a game: "space", "enter" or a single
	// character.
	StartKey string `toml:"start_key" json:"start_key" yaml:"start_key"`

	// AdvanceDelayMs is the pause after a completed question.
	AdvanceDelayMs int `toml:"advance_delay_ms" json:"advance_delay_ms" yaml:"advance_delay_ms"`

	// Shuffle randomizes the question order on every start.
	Shuffle bool `toml:"shuffle" json:"shuffle" yaml:"shuffle"`

	// Seed fixes the shuffle order. Zero picks a random seed.
	Seed uint64 `toml:"seed" json:"seed" yaml:"seed"`

	// Nasal is the ん policy: "lenient" or "strict".
	Nasal string `toml:"nasal" json:"nasal" yaml:"nasal"`
}

// BankConfig holds question bank settings.
type BankConfig struct {
	// Path is the bank file. Empty uses the built-in sample bank.
	Path string `toml:"path" json:"path" yaml:"path"`

	// SkipInvalid drops questions the table cannot type instead of
	// refusing to start.
	SkipInvalid bool `toml:"skip_invalid" json:"skip_invalid" yaml:"skip_invalid"`
}

// TableConfig holds romanization table settings.
type TableConfig struct {
	// Path is a TOML table file. Empty uses the built-in table.
	Path string `toml:"path" json:"path" yaml:"path"`
}

// DisplayConfig holds front end settings. These may change while running.
type DisplayConfig struct {
	// ShakeMs is the duration of the miss shake. Zero disables it.
	ShakeMs int `toml:"shake_ms" json:"shake_ms" yaml:"shake_ms"`

	// FlashMs is the duration of the miss flash. Zero disables it.
	FlashMs int `toml:"flash_ms" json:"flash_ms" yaml:"flash_ms"`

	// Color enables ANSI styling in the terminal.
	Color bool `toml:"color" json:"color" yaml:"color"`

	// Theme is the GUI palette: "light" or "dark".
	Theme string `toml:"theme" json:"theme" yaml:"theme"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is the log format: "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is the log destination: "stdout", "stderr", "file" or "both".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the log file path.
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`

	// MaxSizeMB is the maximum log file size before rotation.
	MaxSizeMB int `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files to keep.
	MaxBackups int `toml:"max_backups" json:"max_backups" yaml:"max_backups"`

	// MaxAgeDays is the maximum age of rotated files.
	MaxAgeDays int `toml:"max_age_days" json:"max_age_days" yaml:"max_age_days"`

	// Compress gzips rotated files.
	Compress bool `toml:"compress" json:"compress" yaml:"compress"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		Game: GameConfig{
			StartKey:       "space",
			AdvanceDelayMs: 300,
			Shuffle:        true,
			Nasal:          matcher.NasalLenient.String(),
		},
		Bank: BankConfig{
			SkipInvalid: true,
		},
		Display: DisplayConfig{
			ShakeMs: 300,
			FlashMs: 400,
			Color:   true,
			Theme:   "light",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "file",
			FilePath:   filepath.Join(PlatformLogDir(), "kanatype.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(PlatformConfigDir(), "config.toml")
}

// Load reads configuration from the specified path.
// If the file doesn't exist, returns default configuration.
// Supports TOML, JSON, and YAML formats based on file extension.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg, err := loadConfigFromFile(path)
	if err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	cfg.ApplyEnvOverrides()

	if cfg.Version < Version {
		if _, err := MigrateConfig(cfg, ""); err != nil {
			return nil, fmt.Errorf("migrate config: %w", err)
		}
	}

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// EnsureDirectories creates the log directory.
func (c *Config) EnsureDirectories() error {
	if c.Logging.FilePath == "" {
		return nil
	}
	dir := filepath.Dir(c.Logging.FilePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// KanatypeDir returns the base kanatype data directory.
// Uses platform-specific paths or the KANATYPE_DATA_DIR environment override.
func KanatypeDir() string {
	if envDir := os.Getenv("KANATYPE_DATA_DIR"); envDir != "" {
		return envDir
	}
	return PlatformDataDir()
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables are prefixed with KANATYPE_ and use underscores.
func (c *Config) ApplyEnvOverrides() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Content overrides
	if v := os.Getenv("KANATYPE_BANK_PATH"); v != "" {
		c.Bank.Path = v
	}
	if v := os.Getenv("KANATYPE_TABLE_PATH"); v != "" {
		c.Table.Path = v
	}

	// Game overrides
	if v := os.Getenv("KANATYPE_NASAL"); v != "" {
		c.Game.Nasal = v
	}
	if v := os.Getenv("KANATYPE_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Game.Seed = seed
		}
	}

	// Logging overrides
	if v := os.Getenv("KANATYPE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("KANATYPE_LOG_PATH"); v != "" {
		c.Logging.FilePath = v
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &Config{
		Version: c.Version,
		Game:    c.Game,
		Bank:    c.Bank,
		Table:   c.Table,
		Display: c.Display,
		Logging: c.Logging,
	}
}

// StartKey returns the parsed start key.
func (c *Config) StartKey() (rune, error) {
	return ParseKey(c.Game.StartKey)
}

// NasalPolicy returns the parsed ん policy.
func (c *Config) NasalPolicy() (matcher.NasalPolicy, error) {
	return matcher.ParseNasalPolicy(c.Game.Nasal)
}

// AdvanceDelay returns the pause after a completed question.
func (c *Config) AdvanceDelay() time.Duration {
	return time.Duration(c.Game.AdvanceDelayMs) * time.Millisecond
}

// ShakeDuration returns the miss shake duration.
func (c *Config) ShakeDuration() time.Duration {
	return time.Duration(c.Display.ShakeMs) * time.Millisecond
}

// FlashDuration returns the miss flash duration.
func (c *Config) FlashDuration() time.Duration {
	return time.Duration(c.Display.FlashMs) * time.Millisecond
}

// LoggerConfig converts the logging section for logging.New.
func (c *Config) LoggerConfig(component string) (*logging.Config, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}

	lc := logging.DefaultConfig()
	lc.Level = level
	if c.Logging.Format == "json" {
		lc.Format = logging.FormatJSON
	}
	lc.Output = c.Logging.Output
	lc.FilePath = expandPath(c.Logging.FilePath)
	lc.MaxSize = int64(c.Logging.MaxSizeMB)
	lc.MaxBackups = c.Logging.MaxBackups
	lc.MaxAge = c.Logging.MaxAgeDays
	lc.Compress = c.Logging.Compress
	lc.Component = component
	return lc, nil
}

// ParseKey parses a key name: "space", "enter" or a single character.
func ParseKey(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "space":
		return ' ', nil
	case "enter", "return":
		return '\r', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("unknown key %q", s)
	}
	r, _ := utf8.DecodeRuneInString(strings.ToLower(s))
	return r, nil
}
