package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
)

// GCSStore keeps blobs in a Google Cloud Storage bucket. Credentials come from
// Application Default Credentials.
type GCSStore struct {
	client    *storage.Client
	bucket    string
	prefix    string
	publicURL string
	logger    *zap.Logger
}

func NewGCSStore(ctx context.Context, bucket, publicURL string, logger *zap.Logger) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStore{
		client:    client,
		bucket:    bucket,
		prefix:    "uploads",
		publicURL: publicURL,
		logger:    logger,
	}, nil
}

func (s *GCSStore) Save(ctx context.Context, fileName string, r io.Reader) (string, error) {
	key := path.Join(s.prefix, newKey(fileName))

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "text/plain; charset=utf-8"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("copy file to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	s.logger.Debug("Blob uploaded", zap.String("bucket", s.bucket), zap.String("key", key))
	return key, nil
}

func (s *GCSStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: gs://%s/%s", ErrBlobNotFound, s.bucket, key)
	}
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	return rc, nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("%w: gs://%s/%s", ErrBlobNotFound, s.bucket, key)
	}
	return err
}

func (s *GCSStore) URL(key string) string {
	return joinURL(s.publicURL, key)
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
