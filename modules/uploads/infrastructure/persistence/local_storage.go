package persistence

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"

	"github.com/renterra/backoffice/modules/uploads/domain/upload"
)

// LocalStorage writes files under a base directory on the local filesystem.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) upload.Storage {
	return &LocalStorage{basePath: basePath}
}

func (s *LocalStorage) Save(ctx context.Context, path string, data []byte) error {
	full := filepath.Join(s.basePath, filepath.Clean(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errors.Wrap(err, "create upload directory")
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return errors.Wrap(err, "write upload")
	}
	return nil
}

func (s *LocalStorage) Open(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.basePath, filepath.Clean(path)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, upload.ErrNotFound
		}
		return nil, errors.Wrap(err, "read upload")
	}
	return data, nil
}

func (s *LocalStorage) Remove(ctx context.Context, path string) error {
	if err := os.Remove(filepath.Join(s.basePath, filepath.Clean(path))); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove upload")
	}
	return nil
}
