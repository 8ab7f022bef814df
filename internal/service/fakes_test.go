package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"transcript-extractor/internal/models"
	"transcript-extractor/internal/repository"
	"transcript-extractor/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memStore is an in-memory TranscriptStore preserving insertion order.
type memStore struct {
	mu              sync.Mutex
	order           []uuid.UUID
	rows            map[uuid.UUID]*models.Transcript
	updateFactCalls int
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[uuid.UUID]*models.Transcript)}
}

func (m *memStore) Create(ctx context.Context, t *models.Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.rows[t.ID] = &cp
	m.order = append(m.order, t.ID)
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) Update(ctx context.Context, t *models.Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	row.Title = t.Title
	row.FileKey = t.FileKey
	row.FileName = t.FileName
	row.UploadedAt = t.UploadedAt
	return nil
}

func (m *memStore) UpdateFacts(ctx context.Context, id uuid.UUID, facts models.FinancialFacts, uploadedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	row.Assets = facts.Assets
	row.Expenditures = facts.Expenditures
	row.Income = facts.Income
	row.UploadedAt = uploadedAt
	m.updateFactCalls++
	return nil
}

func (m *memStore) List(ctx context.Context, limit, offset int) ([]*models.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Transcript, 0, len(m.order))
	for i, id := range m.order {
		if i < offset {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		cp := *m.rows[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// staticProvider returns the same facts every call.
type staticProvider struct {
	facts models.FinancialFacts
	calls atomic.Int32
}

func (p *staticProvider) Name() string { return "static" }

func (p *staticProvider) ExtractFacts(ctx context.Context, prompt string) (*models.FinancialFacts, error) {
	p.calls.Add(1)
	facts := p.facts
	return &facts, nil
}

// blockingProvider waits until its context ends, like a hung remote call.
type blockingProvider struct {
	cancelled chan struct{}
}

func newBlockingProvider() *blockingProvider {
	return &blockingProvider{cancelled: make(chan struct{})}
}

func (p *blockingProvider) Name() string { return "blocking" }

func (p *blockingProvider) ExtractFacts(ctx context.Context, prompt string) (*models.FinancialFacts, error) {
	<-ctx.Done()
	close(p.cancelled)
	return nil, ctx.Err()
}

type failingProvider struct{}

var errProviderDown = errors.New("provider unavailable")

func (failingProvider) Name() string { return "failing" }

func (failingProvider) ExtractFacts(ctx context.Context, prompt string) (*models.FinancialFacts, error) {
	return nil, errProviderDown
}

func newTestBlobs(t *testing.T) *storage.LocalStore {
	t.Helper()
	blobs, err := storage.NewLocalStore(t.TempDir(), "/uploads", zap.NewNop())
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}
	return blobs
}

func newTestService(t *testing.T, provider FactProvider, timeout time.Duration) (*TranscriptService, *memStore, *storage.LocalStore) {
	t.Helper()
	store := newMemStore()
	blobs := newTestBlobs(t)
	extractor := NewExtractor(provider, blobs, timeout, zap.NewNop())
	return NewTranscriptService(store, blobs, extractor, zap.NewNop()), store, blobs
}
