package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"transcript-extractor/internal/dto"
	"transcript-extractor/internal/models"
	"transcript-extractor/internal/repository"
	"transcript-extractor/internal/service"
	"transcript-extractor/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sampleTranscript = "Content of file 1. Jack earns Rs. 50,000 per month. His expenses are Rs. 10,000 per month. He has a house and a car."

type memStore struct {
	mu    sync.Mutex
	order []uuid.UUID
	rows  map[uuid.UUID]*models.Transcript
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
	row.Title, row.FileKey, row.FileName, row.UploadedAt = t.Title, t.FileKey, t.FileName, t.UploadedAt
	return nil
}

func (m *memStore) UpdateFacts(ctx context.Context, id uuid.UUID, facts models.FinancialFacts, uploadedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	row.Assets, row.Expenditures, row.Income, row.UploadedAt = facts.Assets, facts.Expenditures, facts.Income, uploadedAt
	return nil
}

func (m *memStore) List(ctx context.Context, limit, offset int) ([]*models.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Transcript
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

// hangingProvider never answers before its context ends.
type hangingProvider struct{}

func (hangingProvider) Name() string { return "hanging" }

func (hangingProvider) ExtractFacts(ctx context.Context, prompt string) (*models.FinancialFacts, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newTestApp(t *testing.T, provider service.FactProvider, timeout time.Duration) *fiber.App {
	t.Helper()
	blobs, err := storage.NewLocalStore(t.TempDir(), "/uploads", zap.NewNop())
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}
	store := &memStore{rows: make(map[uuid.UUID]*models.Transcript)}
	extractor := service.NewExtractor(provider, blobs, timeout, zap.NewNop())
	handler := NewTranscriptHandler(service.NewTranscriptService(store, blobs, extractor, zap.NewNop()), zap.NewNop())

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	transcripts := app.Group("/api/transcripts")
	transcripts.Get("/", handler.ListTranscripts)
	transcripts.Post("/", handler.CreateTranscript)
	transcripts.Get("/:id", handler.GetTranscript)
	transcripts.Put("/:id", handler.UpdateTranscript)
	transcripts.Patch("/:id", handler.UpdateTranscript)
	transcripts.Delete("/:id", handler.DeleteTranscript)
	return app
}

// multipartRequest builds a form with an optional title field and an
// optional file part; an empty fileName omits the file.
func multipartRequest(t *testing.T, method, target string, title *string, fileName string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if title != nil {
		if err := w.WriteField("title", *title); err != nil {
			t.Fatal(err)
		}
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func strPtr(s string) *string { return &s }

func doJSON(t *testing.T, app *fiber.App, req *http.Request, wantStatus int, out any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s status = %d, want %d, body = %s", req.Method, req.URL.Path, resp.StatusCode, wantStatus, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decode body %q: %v", raw, err)
		}
	}
}

func TestTranscriptHandler_CreateValidFile(t *testing.T) {
	app := newTestApp(t, service.NewStubProvider(), time.Second)

	var got dto.TranscriptResponse
	doJSON(t, app, multipartRequest(t, http.MethodPost, "/api/transcripts/", strPtr("Test File"), "testfile.txt", []byte(sampleTranscript)), fiber.StatusCreated, &got)

	if got.Title != "Test File" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Income) != 1 || got.Income[0] != "Jack earns Rs. 50,000 per month." {
		t.Errorf("income = %v", got.Income)
	}
	if got.Note != "" {
		t.Errorf("note = %q, want none", got.Note)
	}
	if _, err := time.Parse(time.RFC3339, got.UploadedAt); err != nil {
		t.Errorf("uploaded_at = %q: %v", got.UploadedAt, err)
	}
}

func TestTranscriptHandler_CreateRejectsLargeFile(t *testing.T) {
	app := newTestApp(t, service.NewStubProvider(), time.Second)

	var got dto.ErrorResponse
	content := bytes.Repeat([]byte("a"), 1001*1024)
	doJSON(t, app, multipartRequest(t, http.MethodPost, "/api/transcripts/", strPtr("Large File"), "largefile.txt", content), fiber.StatusBadRequest, &got)

	if got.Errors["file"] != "Maximum file size is 1000KB." {
		t.Errorf("errors = %v", got.Errors)
	}
}

func TestTranscriptHandler_CreateAcceptsBoundarySize(t *testing.T) {
	app := newTestApp(t, service.NewStubProvider(), time.Second)

	content := bytes.Repeat([]byte("a"), 1000*1024)
	doJSON(t, app, multipartRequest(t, http.MethodPost, "/api/transcripts/", nil, "exact.txt", content), fiber.StatusCreated, nil)
}

func TestTranscriptHandler_CreateRejectsExtension(t *testing.T) {
	app := newTestApp(t, service.NewStubProvider(), time.Second)

	var got dto.ErrorResponse
	doJSON(t, app, multipartRequest(t, http.MethodPost, "/api/transcripts/", strPtr("Invalid File"), "testfile.pdf", []byte("PDF content")), fiber.StatusBadRequest, &got)

	if !strings.Contains(got.Errors["file"], `"pdf"`) {
		t.Errorf("errors = %v", got.Errors)
	}
}

func TestTranscriptHandler_CreateRequiresFile(t *testing.T) {
	app := newTestApp(t, service.NewStubProvider(), time.Second)

	var got dto.ErrorResponse
	doJSON(t, app, multipartRequest(t, http.MethodPost, "/api/transcripts/", strPtr("No File"), "", nil), fiber.StatusBadRequest, &got)

	if _, ok := got.Errors["file"]; !ok {
		t.Errorf("errors = %v, want file error", got.Errors)
	}
}

func TestTranscriptHandler_CreateTimeoutReturnsNote(t *testing.T) {
	app := newTestApp(t, hangingProvider{}, 20*time.Millisecond)

	var got dto.TranscriptResponse
	doJSON(t, app, multipartRequest(t, http.MethodPost, "/api/transcripts/", nil, "slow.txt", []byte(sampleTranscript)), fiber.StatusCreated, &got)

	if got.Note == "" {
		t.Error("note missing on timed out extraction")
	}
	if len(got.Assets) != 1 || got.Assets[0] != models.TimeoutMessage {
		t.Errorf("assets = %v, want timeout sentinel", got.Assets)
	}
}

func TestTranscriptHandler_ListGetUpdateDelete(t *testing.T) {
	app := newTestApp(t, service.NewStubProvider(), time.Second)

	var first, second dto.TranscriptResponse
	doJSON(t, app, multipartRequest(t, http.MethodPost, "/api/transcripts/", strPtr("Transcript 1"), "file1.txt", []byte("File content")), fiber.StatusCreated, &first)
	doJSON(t, app, multipartRequest(t, http.MethodPost, "/api/transcripts/", strPtr("Transcript 2"), "file2.txt", []byte("File content")), fiber.StatusCreated, &second)

	var list []dto.TranscriptResponse
	doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/transcripts/", nil), fiber.StatusOK, &list)
	if len(list) != 2 || list[0].Title != "Transcript 1" || list[1].Title != "Transcript 2" {
		t.Fatalf("list = %+v", list)
	}

	var fetched dto.TranscriptResponse
	doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/transcripts/"+first.ID, nil), fiber.StatusOK, &fetched)
	if fetched.ID != first.ID {
		t.Errorf("get id = %q, want %q", fetched.ID, first.ID)
	}

	var updated dto.TranscriptResponse
	doJSON(t, app, multipartRequest(t, http.MethodPatch, "/api/transcripts/"+first.ID, strPtr("Renamed"), "", nil), fiber.StatusOK, &updated)
	if updated.Title != "Renamed" || updated.File != first.File {
		t.Errorf("patched = %+v", updated)
	}

	doJSON(t, app, multipartRequest(t, http.MethodPut, "/api/transcripts/"+second.ID, nil, "new.txt", []byte(sampleTranscript)), fiber.StatusOK, &updated)
	if len(updated.Income) != 1 || updated.Income[0] == models.InsufficientDataMessage {
		t.Errorf("re-extracted income = %v", updated.Income)
	}

	doJSON(t, app, httptest.NewRequest(http.MethodDelete, "/api/transcripts/"+first.ID, nil), fiber.StatusNoContent, nil)
	doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/transcripts/"+first.ID, nil), fiber.StatusNotFound, nil)
}

func TestTranscriptHandler_UpdateRejectsExtension(t *testing.T) {
	app := newTestApp(t, service.NewStubProvider(), time.Second)

	var created dto.TranscriptResponse
	doJSON(t, app, multipartRequest(t, http.MethodPost, "/api/transcripts/", nil, "a.txt", []byte("File content")), fiber.StatusCreated, &created)
	doJSON(t, app, multipartRequest(t, http.MethodPut, "/api/transcripts/"+created.ID, nil, "b.pdf", []byte("x")), fiber.StatusBadRequest, nil)
}

func TestTranscriptHandler_NotFound(t *testing.T) {
	app := newTestApp(t, service.NewStubProvider(), time.Second)

	var got dto.ErrorResponse
	doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/transcripts/"+uuid.NewString(), nil), fiber.StatusNotFound, &got)
	if got.Detail != "Not found." {
		t.Errorf("detail = %q", got.Detail)
	}

	doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/transcripts/not-a-uuid", nil), fiber.StatusNotFound, nil)
	doJSON(t, app, httptest.NewRequest(http.MethodDelete, "/api/transcripts/"+uuid.NewString(), nil), fiber.StatusNotFound, nil)
}

func TestErrorHandler_UncaughtErrorIsBadRequest(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return io.ErrUnexpectedEOF
	})

	var got dto.ErrorResponse
	doJSON(t, app, httptest.NewRequest(http.MethodGet, "/boom", nil), fiber.StatusBadRequest, &got)
	if got.Detail != io.ErrUnexpectedEOF.Error() {
		t.Errorf("detail = %q", got.Detail)
	}
}
