package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fentz26/elhem/internal/models"
)

// FileStore keeps each collection in <dir>/<collection>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(c Collection) string {
	return filepath.Join(s.dir, string(c)+".json")
}

// Load reads the collection file; a missing file is an empty collection.
func (s *FileStore) Load(_ context.Context, c Collection) ([]models.Record, error) {
	data, err := os.ReadFile(s.path(c))
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c, err)
	}
	records, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c, err)
	}
	return records, nil
}

// Save replaces the collection file. The records are written to a temporary
// file in the same directory and renamed over the target, so a concurrent
// Load sees either the old or the new collection.
func (s *FileStore) Save(_ context.Context, c Collection, records []models.Record) error {
	data, err := Encode(records)
	if err != nil {
		return fmt.Errorf("save %s: %w", c, err)
	}
	if err := writeFileAtomic(s.path(c), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (s *FileStore) Driver() Driver { return DriverFilesystem }

func (s *FileStore) Close() error { return nil }
