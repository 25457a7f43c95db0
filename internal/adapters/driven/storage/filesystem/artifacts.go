package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/evid-cli/evid/internal/core/domain"
)

// Read returns the content of path.
func (s *Store) Read(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	return data, err
}

// Write replaces the content of path.
func (s *Store) Write(_ context.Context, path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// CreateExclusive writes path only if it does not exist yet.
func (s *Store) CreateExclusive(_ context.Context, path string, data []byte) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return false, err
	}
	return true, f.Close()
}
