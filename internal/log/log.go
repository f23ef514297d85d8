// Package log configures the process-wide slog logger.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

const (
	LevelTrace = slog.Level(-8)
	// LevelNone is above every level a record is ever logged at.
	LevelNone = slog.Level(16)
)

// ParseLevel maps a -log-level flag value onto a slog level. Unknown
// values disable logging.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return LevelNone
	}
}

// fileWriter appends to a log file and can reopen it after rotation.
type fileWriter struct {
	path string
	mu   sync.Mutex
	fh   *os.File
	sigs chan os.Signal
}

func openFileWriter(path string) (*fileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory for '%s': %w", path, err)
	}
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file '%s': %w", path, err)
	}
	return &fileWriter{path: path, fh: fh}, nil
}

func (w *fileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fh.Write(p)
}

func (w *fileWriter) reopen() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	fh, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.fh.Close()
	w.fh = fh
	return nil
}

// setupLogRotation reopens the file on SIGHUP:
//
//	mv tan.log tan.bak && kill -HUP <pid>
func (w *fileWriter) setupLogRotation() {
	w.sigs = make(chan os.Signal, 1)
	signal.Notify(w.sigs, syscall.SIGHUP)
	go func() {
		for range w.sigs {
			if err := w.reopen(); err != nil {
				fmt.Fprintf(os.Stderr, "could not reopen log file: %v\n", err)
			}
		}
	}()
}

func (w *fileWriter) Close() error {
	if w.sigs != nil {
		signal.Stop(w.sigs)
		close(w.sigs)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fh.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a JSON logger writing records at level or above to file, or
// to stderr when file is empty. If the file cannot be opened the logger
// falls back to stderr and the error is returned alongside it.
func New(level string, file string) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{
		AddSource: false,
		Level:     ParseLevel(level),
	}

	if file == "" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nopCloser{}, nil
	}

	w, err := openFileWriter(file)
	if err != nil {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nopCloser{}, err
	}
	w.setupLogRotation()

	return slog.New(slog.NewJSONHandler(w, opts)), w, nil
}
