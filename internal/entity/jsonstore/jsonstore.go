// Package jsonstore is the JSON-file backend. Single file, human-readable,
// portable; the whole list is rewritten on every change.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Makepad-fr/tada/internal/entity"
	"github.com/Makepad-fr/tada/internal/model"
)

// DefaultFileName is used when no path is configured.
const DefaultFileName = "todos.json"

// DefaultPath resolves DefaultFileName in the working directory.
func DefaultPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, DefaultFileName), nil
}

// File is an entity.SnapshotStore backed by a JSON array on disk.
type File struct {
	Path string
}

// Open returns a client over the file at path.
func Open(path string) *entity.SnapshotClient {
	return entity.NewSnapshotClient(File{Path: path})
}

func (f File) Read(context.Context) ([]model.Item, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return items, nil
}

func (f File) Write(_ context.Context, items []model.Item) error {
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	// write-then-rename so a crash never leaves a truncated file
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
