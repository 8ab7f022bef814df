// Package storage keeps uploaded transcript files outside the database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"transcript-extractor/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrBlobNotFound = errors.New("blob not found")

// BlobStore persists uploaded byte streams under stable keys. It performs no
// validation of the content.
type BlobStore interface {
	// Save stores the stream and returns its key.
	Save(ctx context.Context, fileName string, r io.Reader) (string, error)
	// Open returns the stored content or ErrBlobNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// URL resolves a key to the path or URL exposed to API clients.
	URL(key string) string
}

// newKey keeps the original extension so served files stay recognisable.
func newKey(fileName string) string {
	return uuid.New().String() + filepath.Ext(fileName)
}

func joinURL(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if prefix[len(prefix)-1] == '/' {
		return prefix + key
	}
	return prefix + "/" + key
}

// New builds the blob store selected by cfg.Backend.
func New(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (BlobStore, error) {
	switch cfg.Backend {
	case config.StorageLocal:
		return NewLocalStore(cfg.UploadDir, cfg.PublicURL, logger)
	case config.StorageGCS:
		return NewGCSStore(ctx, cfg.GCSBucket, cfg.PublicURL, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
