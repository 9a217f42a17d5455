package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FileRotator is an io.Writer over a log file that rotates by size and by
// day. Rotated files are named <name>-<timestamp><ext>, optionally gzipped,
// and pruned by count and age.
type FileRotator struct {
	config   *Config
	mu       sync.Mutex
	file     *os.File
	size     int64
	lastTime time.Time
	now      func() time.Time

	// background compression and cleanup
	wg sync.WaitGroup
}

// NewFileRotator creates a new FileRotator.
func NewFileRotator(cfg *Config) (*FileRotator, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	r := &FileRotator{
		config: cfg,
		now:    time.Now,
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	if err := r.openFile(); err != nil {
		return nil, err
	}
	return r, nil
}

// openFile opens or creates the log file.
func (r *FileRotator) openFile() error {
	file, err := os.OpenFile(r.config.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("stat log file: %w", err)
	}

	r.file = file
	r.size = info.Size()
	r.lastTime = r.now()
	return nil
}

// Write implements io.Writer.
func (r *FileRotator) Write(p []byte) (n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		if err := r.openFile(); err != nil {
			return 0, err
		}
	}

	if r.shouldRotate(int64(len(p))) {
		if err := r.rotate(); err != nil {
			return 0, fmt.Errorf("rotate log: %w", err)
		}
	}

	n, err = r.file.Write(p)
	r.size += int64(n)
	return n, err
}

// shouldRotate checks if the log file should be rotated. An empty file is
// never rotated. MaxSize zero disables size-based rotation.
func (r *FileRotator) shouldRotate(writeSize int64) bool {
	if r.size == 0 {
		return false
	}
	if max := r.config.MaxSize * 1024 * 1024; max > 0 && r.size+writeSize > max {
		return true
	}
	return r.lastTime.YearDay() != r.now().YearDay()
}

// rotate performs the log rotation.
func (r *FileRotator) rotate() error {
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			return fmt.Errorf("close current log: %w", err)
		}
		r.file = nil
	}

	name, ext := r.nameParts()
	dir := filepath.Dir(r.config.FilePath)
	rotatedPath := filepath.Join(dir, fmt.Sprintf("%s-%s%s", name, r.now().Format("20060102-150405.000"), ext))

	if err := os.Rename(r.config.FilePath, rotatedPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rename log file: %w", err)
	}

	if err := r.openFile(); err != nil {
		return err
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if r.config.Compress {
			compressFile(rotatedPath)
		}
		r.cleanup()
	}()
	return nil
}

func (r *FileRotator) nameParts() (name, ext string) {
	base := filepath.Base(r.config.FilePath)
	ext = filepath.Ext(base)
	return strings.TrimSuffix(base, ext), ext
}

// compressFile gzips path and removes the original on success.
func compressFile(path string) {
	input, err := os.Open(path)
	if err != nil {
		return
	}
	defer input.Close()

	output, err := os.Create(path + ".gz")
	if err != nil {
		return
	}
	defer output.Close()

	gz := gzip.NewWriter(output)
	gz.Name = filepath.Base(path)
	gz.ModTime = time.Now()

	if _, err := io.Copy(gz, input); err != nil {
		gz.Close()
		os.Remove(path + ".gz")
		return
	}
	if err := gz.Close(); err != nil {
		os.Remove(path + ".gz")
		return
	}

	os.Remove(path)
}

// cleanup removes rotated files beyond MaxBackups or older than MaxAge.
func (r *FileRotator) cleanup() {
	files, err := r.rotatedFiles()
	if err != nil {
		return
	}

	type fileInfo struct {
		path    string
		modTime time.Time
	}
	infos := make([]fileInfo, 0, len(files))
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		infos = append(infos, fileInfo{path: path, modTime: info.ModTime()})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].modTime.Before(infos[j].modTime)
	})

	if r.config.MaxBackups > 0 && len(infos) > r.config.MaxBackups {
		for _, f := range infos[:len(infos)-r.config.MaxBackups] {
			os.Remove(f.path)
		}
		infos = infos[len(infos)-r.config.MaxBackups:]
	}

	if r.config.MaxAge > 0 {
		cutoff := time.Now().AddDate(0, 0, -r.config.MaxAge)
		for _, f := range infos {
			if f.modTime.Before(cutoff) {
				os.Remove(f.path)
			}
		}
	}
}

// rotatedFiles lists rotated logs, compressed or not.
func (r *FileRotator) rotatedFiles() ([]string, error) {
	name, ext := r.nameParts()
	pattern := filepath.Join(filepath.Dir(r.config.FilePath), name+"-*"+ext+"*")
	return filepath.Glob(pattern)
}

// Close waits for background compression and closes the current file.
func (r *FileRotator) Close() error {
	r.wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// GetLogFiles returns the current log file followed by rotated ones.
func (r *FileRotator) GetLogFiles() ([]string, error) {
	files := []string{r.config.FilePath}
	matches, err := r.rotatedFiles()
	if err != nil {
		return files, err
	}
	return append(files, matches...), nil
}
