package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// LocalStore writes blobs into a directory that the HTTP layer serves statically.
type LocalStore struct {
	dir       string
	publicURL string
	logger    *zap.Logger
}

func NewLocalStore(dir, publicURL string, logger *zap.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{
		dir:       dir,
		publicURL: publicURL,
		logger:    logger,
	}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, fileName string, r io.Reader) (string, error) {
	key := newKey(fileName)
	path := s.path(key)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, r)
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	s.logger.Debug("Blob saved", zap.String("key", key), zap.Int64("size", size))
	return key, nil
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrBlobNotFound, key)
	}
	return err
}

func (s *LocalStore) URL(key string) string {
	return joinURL(s.publicURL, key)
}

// path confines keys to the upload directory.
func (s *LocalStore) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key))
}
