package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"transcript-extractor/internal/dto"
	"transcript-extractor/internal/models"
	"transcript-extractor/internal/repository"
	"transcript-extractor/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const timeoutNote = "The instance has been %s, but the data extraction timed out. You can update the file to retry."

// TranscriptStore is the persistence boundary; *repository.TranscriptRepository implements it.
type TranscriptStore interface {
	Create(ctx context.Context, t *models.Transcript) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transcript, error)
	Update(ctx context.Context, t *models.Transcript) error
	UpdateFacts(ctx context.Context, id uuid.UUID, facts models.FinancialFacts, uploadedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*models.Transcript, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TranscriptService struct {
	repo      TranscriptStore
	blobs     storage.BlobStore
	extractor *Extractor
	logger    *zap.Logger
}

func NewTranscriptService(repo TranscriptStore, blobs storage.BlobStore, extractor *Extractor, logger *zap.Logger) *TranscriptService {
	return &TranscriptService{
		repo:      repo,
		blobs:     blobs,
		extractor: extractor,
		logger:    logger,
	}
}

// Create validates and stores an upload, then extracts facts from it.
// A timed-out extraction still succeeds; the response carries a note.
func (s *TranscriptService) Create(ctx context.Context, in *dto.CreateTranscriptInput) (*dto.TranscriptResponse, error) {
	if err := ValidateUpload(in.File, true); err != nil {
		return nil, err
	}
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}

	key, err := s.blobs.Save(ctx, in.File.Name, in.File.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	now := time.Now()
	t := &models.Transcript{
		ID:         uuid.New(),
		Title:      title,
		FileKey:    key,
		FileName:   in.File.Name,
		CreatedAt:  now,
		UploadedAt: now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		s.removeBlob(ctx, key)
		return nil, fmt.Errorf("failed to create transcript record: %w", err)
	}

	s.logger.Info("Transcript created",
		zap.String("id", t.ID.String()),
		zap.String("file_name", t.FileName),
		zap.Int64("file_size", in.File.Size),
	)

	note, err := s.process(ctx, t, "created")
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(t)
	resp.Note = note
	return resp, nil
}

// Update changes title and/or file. Extraction re-runs when a new file is
// supplied or the record has never received facts.
func (s *TranscriptService) Update(ctx context.Context, id uuid.UUID, in *dto.UpdateTranscriptInput) (*dto.TranscriptResponse, error) {
	t, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ValidateUpload(in.File, false); err != nil {
		return nil, err
	}
	if in.Title != nil {
		title, err := normalizeTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		t.Title = title
	}

	var replacedKey string
	if in.File != nil {
		key, err := s.blobs.Save(ctx, in.File.Name, in.File.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to store file: %w", err)
		}
		replacedKey = t.FileKey
		t.FileKey = key
		t.FileName = in.File.Name
	}

	t.UploadedAt = time.Now()
	if err := s.repo.Update(ctx, t); err != nil {
		if in.File != nil {
			s.removeBlob(ctx, t.FileKey)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("failed to update transcript record: %w", err)
	}
	if replacedKey != "" {
		s.removeBlob(ctx, replacedKey)
	}

	s.logger.Info("Transcript updated",
		zap.String("id", t.ID.String()),
		zap.Bool("file_replaced", in.File != nil),
	)

	if in.File == nil && t.HasFacts() {
		return s.toResponse(t), nil
	}

	note, err := s.process(ctx, t, "updated")
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(t)
	resp.Note = note
	return resp, nil
}

func (s *TranscriptService) Get(ctx context.Context, id uuid.UUID) (*dto.TranscriptResponse, error) {
	t, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(t), nil
}

// List returns transcripts in creation order.
func (s *TranscriptService) List(ctx context.Context, limit, offset int) ([]*dto.TranscriptResponse, error) {
	transcripts, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.TranscriptResponse, len(transcripts))
	for i, t := range transcripts {
		responses[i] = s.toResponse(t)
	}
	return responses, nil
}

func (s *TranscriptService) Delete(ctx context.Context, id uuid.UUID) error {
	t, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTranscriptNotFound
		}
		return fmt.Errorf("failed to delete transcript record: %w", err)
	}
	s.removeBlob(ctx, t.FileKey)

	s.logger.Info("Transcript deleted", zap.String("id", id.String()))
	return nil
}

// process runs extraction for a persisted record and writes the facts back.
// It returns the advisory note on timeout and leaves facts untouched on any
// other failure.
func (s *TranscriptService) process(ctx context.Context, t *models.Transcript, verb string) (string, error) {
	if t.FileKey == "" {
		return "", ErrMissingFile
	}

	facts, err := s.extractor.ExtractBlob(ctx, t.FileKey)
	switch {
	case errors.Is(err, ErrExtractionTimedOut):
		if err := s.writeFacts(ctx, t, models.TimedOutFacts()); err != nil {
			return "", err
		}
		return fmt.Sprintf(timeoutNote, verb), nil
	case err != nil:
		s.logger.Warn("Transcript extraction failed",
			zap.String("id", t.ID.String()),
			zap.Error(err),
		)
		return "", err
	}

	return "", s.writeFacts(ctx, t, sanitizeFacts(facts.WithSentinels()))
}

func (s *TranscriptService) writeFacts(ctx context.Context, t *models.Transcript, facts models.FinancialFacts) error {
	now := time.Now()
	if err := s.repo.UpdateFacts(ctx, t.ID, facts, now); err != nil {
		return fmt.Errorf("failed to save extracted data: %w", err)
	}

	t.Assets = facts.Assets
	t.Expenditures = facts.Expenditures
	t.Income = facts.Income
	t.UploadedAt = now
	return nil
}

func (s *TranscriptService) get(ctx context.Context, id uuid.UUID) (*models.Transcript, error) {
	t, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTranscriptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	return t, nil
}

func (s *TranscriptService) removeBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
		s.logger.Warn("Failed to remove stored file", zap.String("key", key), zap.Error(err))
	}
}

func (s *TranscriptService) toResponse(t *models.Transcript) *dto.TranscriptResponse {
	return &dto.TranscriptResponse{
		ID:           t.ID.String(),
		Title:        t.Title,
		File:         s.blobs.URL(t.FileKey),
		Assets:       nonNilFacts(t.Assets),
		Expenditures: nonNilFacts(t.Expenditures),
		Income:       nonNilFacts(t.Income),
		UploadedAt:   t.UploadedAt.Format(time.RFC3339),
	}
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(sanitizeUTF8(title))
	if title == "" {
		return models.DefaultTitle, nil
	}
	if err := CheckTitle(title); err != nil {
		return "", err
	}
	return title, nil
}

func nonNilFacts(facts []string) []string {
	if facts == nil {
		return []string{}
	}
	return facts
}
