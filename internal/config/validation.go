package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kanatype/internal/bank"
	"kanatype/internal/matcher"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ErrInvalidConfig is returned when validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// Is lets errors.Is match ErrInvalidConfig.
func (e ValidationErrors) Is(target error) bool {
	return target == ErrInvalidConfig && len(e) > 0
}

// ValidateConfig performs comprehensive validation of the configuration.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	errs = append(errs, validateGame(&c.Game)...)
	errs = append(errs, validateBank(&c.Bank)...)
	errs = append(errs, validateTable(&c.Table)...)
	errs = append(errs, validateDisplay(&c.Display)...)
	errs = append(errs, validateLogging(&c.Logging)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateGame(g *GameConfig) ValidationErrors {
	var errs ValidationErrors

	if _, err := ParseKey(g.StartKey); err != nil {
		errs = append(errs, ValidationError{
			Field:   "game.start_key",
			Message: err.Error(),
		})
	}

	if g.AdvanceDelayMs < 0 || g.AdvanceDelayMs > 10000 {
		errs = append(errs, *RangeError("game.advance_delay_ms", 0, 10000))
	}

	if _, err := matcher.ParseNasalPolicy(g.Nasal); err != nil {
		errs = append(errs, ValidationError{
			Field:   "game.nasal",
			Message: fmt.Sprintf("invalid policy: %s (valid: lenient, strict)", g.Nasal),
		})
	}

	return errs
}

func validateBank(b *BankConfig) ValidationErrors {
	var errs ValidationErrors
	if b.Path == "" {
		return nil
	}

	if _, err := bank.FormatOf(b.Path); err != nil {
		errs = append(errs, ValidationError{
			Field:   "bank.path",
			Message: err.Error(),
		})
	}
	if _, err := os.Stat(expandPath(b.Path)); err != nil {
		errs = append(errs, ValidationError{
			Field:   "bank.path",
			Message: fmt.Sprintf("bank file not accessible: %v", err),
		})
	}
	return errs
}

func validateTable(t *TableConfig) ValidationErrors {
	var errs ValidationErrors
	if t.Path == "" {
		return nil
	}

	if ext := strings.ToLower(filepath.Ext(t.Path)); ext != ".toml" {
		errs = append(errs, ValidationError{
			Field:   "table.path",
			Message: fmt.Sprintf("table must be a .toml file, got %q", ext),
		})
	}
	if _, err := os.Stat(expandPath(t.Path)); err != nil {
		errs = append(errs, ValidationError{
			Field:   "table.path",
			Message: fmt.Sprintf("table file not accessible: %v", err),
		})
	}
	return errs
}

func validateDisplay(d *DisplayConfig) ValidationErrors {
	var errs ValidationErrors

	if d.ShakeMs < 0 || d.ShakeMs > 5000 {
		errs = append(errs, *RangeError("display.shake_ms", 0, 5000))
	}
	if d.FlashMs < 0 || d.FlashMs > 5000 {
		errs = append(errs, *RangeError("display.flash_ms", 0, 5000))
	}

	switch d.Theme {
	case "light", "dark":
	default:
		errs = append(errs, ValidationError{
			Field:   "display.theme",
			Message: fmt.Sprintf("invalid theme: %s (valid: light, dark)", d.Theme),
		})
	}

	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid log level: %s (valid: debug, info, warn, error)", l.Level),
		})
	}

	switch l.Format {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid log format: %s (valid: text, json)", l.Format),
		})
	}

	switch l.Output {
	case "stdout", "stderr":
	case "file", "both":
		if l.FilePath == "" {
			errs = append(errs, ValidationError{
				Field:   "logging.file_path",
				Message: fmt.Sprintf("file path is required when output is '%s'", l.Output),
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("invalid log output: %s (valid: stdout, stderr, file, both)", l.Output),
		})
	}

	if l.MaxSizeMB < 1 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_size_mb",
			Message: "max size must be at least 1 MB",
		})
	}

	if l.MaxBackups < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_backups",
			Message: "max backups cannot be negative",
		})
	}

	if l.MaxAgeDays < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_age_days",
			Message: "max age cannot be negative",
		})
	}

	return errs
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ExpandPath expands a leading "~/" to the user's home directory.
func ExpandPath(path string) string {
	return expandPath(path)
}

// RangeError creates a validation error for an out-of-range value.
func RangeError(field string, min, max interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("value must be between %v and %v", min, max),
	}
}
