package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"transcript-extractor/internal/models"
	"transcript-extractor/internal/storage"

	"go.uber.org/zap"
)

const DefaultExtractionTimeout = 10 * time.Second

// Extractor turns transcript text into FinancialFacts with exactly one
// provider call bounded by a wall-clock timeout.
type Extractor struct {
	provider FactProvider
	blobs    storage.BlobStore
	timeout  time.Duration
	logger   *zap.Logger
}

func NewExtractor(provider FactProvider, blobs storage.BlobStore, timeout time.Duration, logger *zap.Logger) *Extractor {
	if timeout <= 0 {
		timeout = DefaultExtractionTimeout
	}
	return &Extractor{
		provider: provider,
		blobs:    blobs,
		timeout:  timeout,
		logger:   logger,
	}
}

type extractionResult struct {
	facts *models.FinancialFacts
	err   error
}

// ExtractBlob reads the stored transcript and extracts facts from it.
func (e *Extractor) ExtractBlob(ctx context.Context, key string) (*models.FinancialFacts, error) {
	rc, err := e.blobs.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}

	return e.Extract(ctx, string(content))
}

// Extract runs the provider call on its own goroutine under a deadline. On
// expiry the context is cancelled, which tears down the outbound request, and
// ErrExtractionTimedOut is returned without waiting for the goroutine.
func (e *Extractor) Extract(ctx context.Context, transcript string) (*models.FinancialFacts, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("%w: no completion provider configured", ErrConfigurationMissing)
	}

	prompt := BuildExtractionPrompt(transcript)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	results := make(chan extractionResult, 1)
	go func() {
		facts, err := e.provider.ExtractFacts(ctx, prompt)
		results <- extractionResult{facts: facts, err: err}
	}()

	select {
	case res := <-results:
		if res.err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, e.timedOut(start)
			}
			e.logger.Warn("Extraction failed",
				zap.String("provider", e.provider.Name()),
				zap.Error(res.err),
			)
			return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, res.err)
		}
		if res.facts == nil {
			return nil, fmt.Errorf("%w: empty response", ErrExtractionFailed)
		}

		e.logger.Info("Extraction completed",
			zap.String("provider", e.provider.Name()),
			zap.Duration("duration", time.Since(start)),
		)
		return res.facts, nil

	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, e.timedOut(start)
		}
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, ctx.Err())
	}
}

func (e *Extractor) timedOut(start time.Time) error {
	e.logger.Warn("Extraction timed out",
		zap.String("provider", e.provider.Name()),
		zap.Duration("timeout", e.timeout),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ErrExtractionTimedOut
}
