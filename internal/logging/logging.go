// Package logging builds the charmbracelet/log logger shared by the CLI,
// the TUI and the entity middleware.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at level (debug|info|warn|error).
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "tada",
		ReportTimestamp: true,
	}), nil
}

// Open returns a logger for file, or for fallback when file is empty.
// The returned closer must be called on exit.
func Open(file, level string, fallback io.Writer) (*log.Logger, io.Closer, error) {
	if file == "" {
		l, err := New(fallback, level)
		return l, nopCloser{}, err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l, err := New(f, level)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return l, f, nil
}

// nopCloser stands in for the log file when logs go to the fallback writer.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }
