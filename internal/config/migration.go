package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"kanatype/internal/matcher"
)

// MigrationResult contains the result of a configuration migration.
type MigrationResult struct {
	FromVersion int
	ToVersion   int
	Backup      string
	Changes     []string
	Warnings    []string
}

// MigrateConfig migrates a configuration from an older version to the current version.
// With a non-empty configPath a backup of the file is written first.
func MigrateConfig(cfg *Config, configPath string) (*MigrationResult, error) {
	if cfg.Version >= Version {
		return nil, nil // No migration needed
	}

	result := &MigrationResult{
		FromVersion: cfg.Version,
		ToVersion:   Version,
	}

	if configPath != "" {
		backup, err := backupConfig(configPath)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("could not create backup: %v", err))
		} else {
			result.Backup = backup
		}
	}

	// Apply migrations in sequence
	for cfg.Version < Version {
		changes, warnings, err := applyMigration(cfg)
		if err != nil {
			return result, fmt.Errorf("migration from v%d to v%d failed: %w", cfg.Version, cfg.Version+1, err)
		}
		result.Changes = append(result.Changes, changes...)
		result.Warnings = append(result.Warnings, warnings...)
	}

	return result, nil
}

// applyMigration applies a single version upgrade.
func applyMigration(cfg *Config) (changes []string, warnings []string, err error) {
	switch cfg.Version {
	case 0, 1:
		changes, warnings = migrateV1ToV2(cfg)
		cfg.Version = 2
		return changes, warnings, nil
	default:
		return nil, nil, fmt.Errorf("unknown version %d", cfg.Version)
	}
}

// migrateV1ToV2 migrates from version 1 to version 2.
// V2 added the ん policy, the GUI theme and the miss flash.
func migrateV1ToV2(cfg *Config) (changes []string, warnings []string) {
	if cfg.Game.Nasal == "" {
		cfg.Game.Nasal = matcher.NasalLenient.String()
		changes = append(changes, "set game.nasal to lenient")
	}
	if cfg.Display.Theme == "" {
		cfg.Display.Theme = "light"
		changes = append(changes, "set display.theme to light")
	}
	if cfg.Display.FlashMs == 0 && cfg.Display.ShakeMs > 0 {
		cfg.Display.FlashMs = cfg.Display.ShakeMs
		changes = append(changes, "set display.flash_ms from display.shake_ms")
	}
	return changes, warnings
}

// backupConfig creates a backup of the config file.
func backupConfig(configPath string) (string, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return "", err
	}

	backupPath := fmt.Sprintf("%s.v%d.%s.bak", configPath, Version-1, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backupPath, data, 0600); err != nil {
		return "", err
	}
	return backupPath, nil
}

// MigrateLegacyConfig converts the flat key layout used before versioned
// configs ("bank", "delay_ms", "strict_n", "start_key") to a Config.
func MigrateLegacyConfig(data map[string]interface{}) (*Config, error) {
	cfg := DefaultConfig()

	if v, ok := data["bank"].(string); ok {
		cfg.Bank.Path = v
	}
	if v, ok := data["table"].(string); ok {
		cfg.Table.Path = v
	}
	if v, ok := data["start_key"].(string); ok {
		cfg.Game.StartKey = v
	}
	switch v := data["delay_ms"].(type) {
	case int64:
		cfg.Game.AdvanceDelayMs = int(v)
	case float64:
		cfg.Game.AdvanceDelayMs = int(v)
	case int:
		cfg.Game.AdvanceDelayMs = v
	}
	if v, ok := data["strict_n"].(bool); ok && v {
		cfg.Game.Nasal = matcher.NasalStrict.String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("legacy config: %w", err)
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := encodeConfig(cfg, filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

func encodeConfig(cfg *Config, ext string) ([]byte, error) {
	c := cfg.Clone()

	switch ext {
	case ".json":
		return json.MarshalIndent(c, "", "  ")
	case ".yaml", ".yml":
		return yaml.Marshal(c)
	default:
		var buf bytes.Buffer
		buf.WriteString("# kanatype configuration\n\n")
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}
