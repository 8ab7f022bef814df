package repository

import (
	"context"
	"errors"
	"time"

	"transcript-extractor/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("record not found")

// DBTX is the subset of *pgxpool.Pool used by repositories.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var transcriptColumns = []string{
	"id", "title", "file_key", "file_name", "assets", "expenditures", "income", "created_at", "uploaded_at",
}

type TranscriptRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewTranscriptRepository(db DBTX, logger *zap.Logger) *TranscriptRepository {
	return &TranscriptRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TranscriptRepository) Create(ctx context.Context, t *models.Transcript) error {
	query := squirrel.Insert("transcripts").
		Columns(transcriptColumns...).
		Values(t.ID, t.Title, t.FileKey, t.FileName, nonNil(t.Assets), nonNil(t.Expenditures), nonNil(t.Income), t.CreatedAt, t.UploadedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TranscriptRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transcript, error) {
	query := squirrel.Select(transcriptColumns...).
		From("transcripts").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var t models.Transcript
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&t.ID, &t.Title, &t.FileKey, &t.FileName, &t.Assets, &t.Expenditures, &t.Income, &t.CreatedAt, &t.UploadedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// Update writes the caller-editable fields and refreshes uploaded_at.
func (r *TranscriptRepository) Update(ctx context.Context, t *models.Transcript) error {
	query := squirrel.Update("transcripts").
		Set("title", t.Title).
		Set("file_key", t.FileKey).
		Set("file_name", t.FileName).
		Set("uploaded_at", t.UploadedAt).
		Where(squirrel.Eq{"id": t.ID}).
		PlaceholderFormat(squirrel.Dollar)

	return r.execAffectingOne(ctx, query)
}

// UpdateFacts overwrites all three fact columns in a single statement.
func (r *TranscriptRepository) UpdateFacts(ctx context.Context, id uuid.UUID, facts models.FinancialFacts, uploadedAt time.Time) error {
	query := squirrel.Update("transcripts").
		Set("assets", nonNil(facts.Assets)).
		Set("expenditures", nonNil(facts.Expenditures)).
		Set("income", nonNil(facts.Income)).
		Set("uploaded_at", uploadedAt).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	return r.execAffectingOne(ctx, query)
}

// List returns transcripts in creation order. A non-positive limit means no limit.
func (r *TranscriptRepository) List(ctx context.Context, limit, offset int) ([]*models.Transcript, error) {
	query := squirrel.Select(transcriptColumns...).
		From("transcripts").
		OrderBy("created_at ASC", "id ASC").
		PlaceholderFormat(squirrel.Dollar)
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	if offset > 0 {
		query = query.Offset(uint64(offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transcripts := make([]*models.Transcript, 0)
	for rows.Next() {
		var t models.Transcript
		if err := rows.Scan(
			&t.ID, &t.Title, &t.FileKey, &t.FileName, &t.Assets, &t.Expenditures, &t.Income, &t.CreatedAt, &t.UploadedAt,
		); err != nil {
			return nil, err
		}
		transcripts = append(transcripts, &t)
	}

	return transcripts, rows.Err()
}

func (r *TranscriptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("transcripts").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	return r.execAffectingOne(ctx, query)
}

func (r *TranscriptRepository) execAffectingOne(ctx context.Context, query squirrel.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// nonNil keeps TEXT[] columns from receiving NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
