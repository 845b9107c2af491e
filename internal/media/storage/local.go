package storage

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// LocalStorage writes files into a directory that the HTTP server exposes
// under urlPrefix.
type LocalStorage struct {
	dir       string
	urlPrefix string
}

func NewLocalStorage(dir, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create media dir %s", dir)
	}
	return &LocalStorage{dir: dir, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}, nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Save(_ context.Context, name string, data []byte) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(p, data, 0o644), "write %s", name)
}

func (s *LocalStorage) Read(_ context.Context, name string) ([]byte, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	return data, nil
}

// Remove ignores files that are already gone.
func (s *LocalStorage) Remove(_ context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", name)
	}
	return nil
}

func (s *LocalStorage) URL(name string) string {
	return path.Join(s.urlPrefix, name)
}

// path keeps every name inside dir.
func (s *LocalStorage) path(name string) (string, error) {
	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == string(filepath.Separator) || base != name {
		return "", errors.Errorf("invalid media filename %q", name)
	}
	return filepath.Join(s.dir, base), nil
}
