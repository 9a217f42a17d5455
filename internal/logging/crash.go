package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sync"
	"time"
)

// CrashReport represents information about a crash.
type CrashReport struct {
	Timestamp  time.Time      `json:"timestamp"`
	Version    string         `json:"version"`
	GoVersion  string         `json:"go_version"`
	GOOS       string         `json:"goos"`
	GOARCH     string         `json:"goarch"`
	PanicValue string         `json:"panic_value"`
	StackTrace string         `json:"stack_trace"`
	Component  string         `json:"component,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
}

// CrashHandler handles panic recovery and crash reporting.
type CrashHandler struct {
	mu        sync.Mutex
	crashDir  string
	version   string
	component string
	onCrash   func(CrashReport)
	stderr    io.Writer
}

// CrashHandlerConfig configures the crash handler.
type CrashHandlerConfig struct {
	// CrashDir is the directory to write crash dumps.
	CrashDir string

	// Version is the application version.
	Version string

	// Component is the component name.
	Component string

	// OnCrash runs before the report is printed. The terminal front end
	// restores the tty here so the report is readable.
	OnCrash func(CrashReport)

	// Stderr receives the human readable report. Defaults to os.Stderr.
	Stderr io.Writer
}

// DefaultCrashDir returns the platform-specific default crash directory.
func DefaultCrashDir() string {
	switch runtime.GOOS {
	case "darwin":
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "Library", "Logs", "DiagnosticReports", "kanatype")
	case "windows":
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		return filepath.Join(appData, "kanatype", "crashes")
	default:
		stateHome := os.Getenv("XDG_STATE_HOME")
		if stateHome == "" {
			homeDir, _ := os.UserHomeDir()
			stateHome = filepath.Join(homeDir, ".local", "state")
		}
		return filepath.Join(stateHome, "kanatype", "crashes")
	}
}

// NewCrashHandler creates a new CrashHandler.
func NewCrashHandler(cfg *CrashHandlerConfig) *CrashHandler {
	if cfg == nil {
		cfg = &CrashHandlerConfig{}
	}
	h := &CrashHandler{
		crashDir:  cfg.CrashDir,
		version:   cfg.Version,
		component: cfg.Component,
		onCrash:   cfg.OnCrash,
		stderr:    cfg.Stderr,
	}
	if h.crashDir == "" {
		h.crashDir = DefaultCrashDir()
	}
	if h.component == "" {
		h.component = "kanatype"
	}
	if h.stderr == nil {
		h.stderr = os.Stderr
	}
	return h
}

// Dir returns the crash dump directory.
func (h *CrashHandler) Dir() string {
	return h.crashDir
}

// Recover runs fn and turns a panic into a crash report. It reports
// whether fn panicked.
func (h *CrashHandler) Recover(fn func()) (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			h.HandlePanic(r, nil)
			panicked = true
		}
	}()
	fn()
	return false
}

// HandlePanic records a crash report for panicValue. The dump is written
// to the crash directory; a failure to write it is noted on stderr.
func (h *CrashHandler) HandlePanic(panicValue any, contextInfo map[string]any) CrashReport {
	h.mu.Lock()
	defer h.mu.Unlock()

	report := CrashReport{
		Timestamp:  time.Now().UTC(),
		Version:    h.version,
		GoVersion:  runtime.Version(),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		Component:  h.component,
		Context:    contextInfo,
	}
	if report.Version == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			report.Version = bi.Main.Version
		}
	}

	if h.onCrash != nil {
		h.onCrash(report)
	}

	path, err := h.writeCrashDump(report)

	fmt.Fprintf(h.stderr, "\r\n=== CRASH REPORT ===\r\n")
	fmt.Fprintf(h.stderr, "Time: %s\r\n", report.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(h.stderr, "Panic: %s\r\n", report.PanicValue)
	fmt.Fprintf(h.stderr, "Stack trace:\n%s\n", report.StackTrace)
	if err != nil {
		fmt.Fprintf(h.stderr, "Crash dump not written: %v\n", err)
	} else {
		fmt.Fprintf(h.stderr, "Crash dump written to: %s\n", path)
	}
	return report
}

func (h *CrashHandler) writeCrashDump(report CrashReport) (string, error) {
	if err := os.MkdirAll(h.crashDir, 0750); err != nil {
		return "", fmt.Errorf("create crash directory: %w", err)
	}
	name := fmt.Sprintf("crash-%s-%s.json",
		report.Component,
		report.Timestamp.Format("20060102-150405.000"))
	path := filepath.Join(h.crashDir, name)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal crash report: %w", err)
	}
	if err := os.WriteFile(path, data, 0640); err != nil {
		return "", fmt.Errorf("write crash report: %w", err)
	}
	return path, nil
}

func (h *CrashHandler) reportFiles() ([]string, error) {
	return filepath.Glob(filepath.Join(h.crashDir, "crash-*.json"))
}

// GetCrashReports returns the readable crash reports in the crash directory.
func (h *CrashHandler) GetCrashReports() ([]CrashReport, error) {
	files, err := h.reportFiles()
	if err != nil {
		return nil, err
	}

	reports := make([]CrashReport, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		var report CrashReport
		if err := json.Unmarshal(data, &report); err != nil {
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// CleanupOldCrashReports removes crash reports older than maxAge.
func (h *CrashHandler) CleanupOldCrashReports(maxAge time.Duration) error {
	files, err := h.reportFiles()
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-maxAge)
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(file)
		}
	}
	return nil
}

// ClearCrashReports removes all crash reports.
func (h *CrashHandler) ClearCrashReports() error {
	files, err := h.reportFiles()
	if err != nil {
		return err
	}
	for _, file := range files {
		os.Remove(file)
	}
	return nil
}
