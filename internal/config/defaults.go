package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "kanatype"

// PlatformDataDir returns the platform-specific data directory.
//
// Platform paths:
//   - macOS:   ~/Library/Application Support/kanatype/
//   - Linux:   ~/.local/share/kanatype/
//   - Windows: %APPDATA%\kanatype\
//
// Falls back to ~/.kanatype if platform detection fails.
func PlatformDataDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Application Support", appName)
	case "linux":
		return xdgDir("XDG_DATA_HOME", ".local", "share")
	case "windows":
		return windowsDir("APPDATA", "Roaming")
	default:
		return fallbackDataDir()
	}
}

// PlatformConfigDir returns the platform-specific config directory.
//
// Platform paths:
//   - macOS:   ~/Library/Application Support/kanatype/
//   - Linux:   ~/.config/kanatype/
//   - Windows: %APPDATA%\kanatype\
func PlatformConfigDir() string {
	switch runtime.GOOS {
	case "linux":
		return xdgDir("XDG_CONFIG_HOME", ".config")
	case "darwin", "windows":
		return PlatformDataDir()
	default:
		return fallbackDataDir()
	}
}

// PlatformLogDir returns the platform-specific log directory.
//
// Platform paths:
//   - macOS:   ~/Library/Logs/kanatype/
//   - Linux:   ~/.local/state/kanatype/
//   - Windows: %LOCALAPPDATA%\kanatype\logs\
func PlatformLogDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Logs", appName)
	case "linux":
		return xdgDir("XDG_STATE_HOME", ".local", "state")
	case "windows":
		return filepath.Join(windowsDir("LOCALAPPDATA", "Local"), "logs")
	default:
		return filepath.Join(fallbackDataDir(), "logs")
	}
}

func homeDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return home
}

// xdgDir follows the XDG Base Directory Specification: $env/kanatype, or
// ~/<fallback...>/kanatype when env is unset.
func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	parts := append([]string{homeDir()}, fallback...)
	return filepath.Join(append(parts, appName)...)
}

func windowsDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(homeDir(), "AppData", fallback, appName)
}

func fallbackDataDir() string {
	return filepath.Join(homeDir(), "."+appName)
}

// DefaultPaths holds the default locations for the current platform.
type DefaultPaths struct {
	DataDir   string
	ConfigDir string
	LogDir    string

	ConfigFile string
	LogFile    string
}

// GetDefaultPaths returns all default paths for the current platform.
func GetDefaultPaths() *DefaultPaths {
	configDir := PlatformConfigDir()
	logDir := PlatformLogDir()
	return &DefaultPaths{
		DataDir:    KanatypeDir(),
		ConfigDir:  configDir,
		LogDir:     logDir,
		ConfigFile: filepath.Join(configDir, "config.toml"),
		LogFile:    filepath.Join(logDir, "kanatype.log"),
	}
}

// SupportedConfigFormats returns the list of supported config file formats.
func SupportedConfigFormats() []string {
	return []string{
		"toml",
		"json",
		"yaml",
		"yml",
	}
}

// FindConfigFile searches for a config file in standard locations.
// Returns the path to the first found config file, or empty string if none found.
func FindConfigFile() string {
	paths := GetDefaultPaths()

	// Search order:
	// 1. Current directory
	// 2. Config directory
	// 3. Data directory
	searchDirs := []string{
		".",
		paths.ConfigDir,
		paths.DataDir,
	}

	for _, dir := range searchDirs {
		for _, ext := range SupportedConfigFormats() {
			path := filepath.Join(dir, "config."+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return ""
}
