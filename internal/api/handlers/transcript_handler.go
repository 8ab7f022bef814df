package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"transcript-extractor/internal/dto"
	"transcript-extractor/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TranscriptService is the lifecycle controller the handler drives.
type TranscriptService interface {
	Create(ctx context.Context, in *dto.CreateTranscriptInput) (*dto.TranscriptResponse, error)
	Update(ctx context.Context, id uuid.UUID, in *dto.UpdateTranscriptInput) (*dto.TranscriptResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.TranscriptResponse, error)
	List(ctx context.Context, limit, offset int) ([]*dto.TranscriptResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TranscriptHandler struct {
	transcripts TranscriptService
	logger      *zap.Logger
}

func NewTranscriptHandler(transcripts TranscriptService, logger *zap.Logger) *TranscriptHandler {
	return &TranscriptHandler{
		transcripts: transcripts,
		logger:      logger,
	}
}

// ListTranscripts godoc
// @Summary List transcripts
// @Description Get transcripts in creation order
// @Tags transcripts
// @Produce json
// @Param limit query int false "Limit, 0 for all" default(0)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {array} dto.TranscriptResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/transcripts/ [get]
func (h *TranscriptHandler) ListTranscripts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)
	if limit < 0 || offset < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Detail: "limit and offset must not be negative.",
		})
	}

	transcripts, err := h.transcripts.List(c.UserContext(), limit, offset)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(transcripts)
}

// CreateTranscript godoc
// @Summary Upload a transcript
// @Description Store a .txt transcript and extract assets, expenditures and income from it
// @Tags transcripts
// @Accept multipart/form-data
// @Produce json
// @Param title formData string false "Title"
// @Param file formData file true "Transcript (.txt, up to 1000KB)"
// @Security Bearer
// @Success 201 {object} dto.TranscriptResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/transcripts/ [post]
func (h *TranscriptHandler) CreateTranscript(c *fiber.Ctx) error {
	form, err := multipartForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Detail: err.Error()})
	}

	file, closeFile, err := formUpload(form)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Detail: "Failed to open file"})
	}
	defer closeFile()

	title, _ := formValue(form, "title")

	transcript, err := h.transcripts.Create(c.UserContext(), &dto.CreateTranscriptInput{
		Title: title,
		File:  file,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(transcript)
}

// GetTranscript godoc
// @Summary Get a transcript
// @Tags transcripts
// @Produce json
// @Param id path string true "Transcript ID"
// @Security Bearer
// @Success 200 {object} dto.TranscriptResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/transcripts/{id}/ [get]
func (h *TranscriptHandler) GetTranscript(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.respondError(c, service.ErrTranscriptNotFound)
	}

	transcript, err := h.transcripts.Get(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(transcript)
}

// UpdateTranscript godoc
// @Summary Update a transcript
// @Description Change the title and/or replace the file. A new file re-runs extraction.
// @Tags transcripts
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Transcript ID"
// @Param title formData string false "Title"
// @Param file formData file false "Transcript (.txt, up to 1000KB)"
// @Security Bearer
// @Success 200 {object} dto.TranscriptResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/transcripts/{id}/ [put]
// @Router /api/transcripts/{id}/ [patch]
func (h *TranscriptHandler) UpdateTranscript(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.respondError(c, service.ErrTranscriptNotFound)
	}

	form, err := multipartForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Detail: err.Error()})
	}

	file, closeFile, err := formUpload(form)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Detail: "Failed to open file"})
	}
	defer closeFile()

	input := &dto.UpdateTranscriptInput{File: file}
	if title, ok := formValue(form, "title"); ok {
		input.Title = &title
	}

	transcript, err := h.transcripts.Update(c.UserContext(), id, input)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(transcript)
}

// DeleteTranscript godoc
// @Summary Delete a transcript
// @Tags transcripts
// @Param id path string true "Transcript ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/transcripts/{id}/ [delete]
func (h *TranscriptHandler) DeleteTranscript(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.respondError(c, service.ErrTranscriptNotFound)
	}

	if err := h.transcripts.Delete(c.UserContext(), id); err != nil {
		return h.respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TranscriptHandler) respondError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Detail: verr.Message,
			Errors: map[string]string{verr.Field: verr.Message},
		})
	case errors.Is(err, service.ErrTranscriptNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Detail: service.ErrTranscriptNotFound.Error(),
		})
	}

	h.logger.Error("Transcript request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Detail: err.Error()})
}

// ErrorHandler renders errors that escape handlers, recovered panics
// included, as {"detail": ...}. Fiber errors keep their status code.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusBadRequest
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(dto.ErrorResponse{Detail: err.Error()})
}

// multipartForm returns nil when the request carries no multipart body, so
// missing fields surface as validation errors rather than parse errors.
func multipartForm(c *fiber.Ctx) (*multipart.Form, error) {
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	return c.MultipartForm()
}

func formValue(form *multipart.Form, key string) (string, bool) {
	if form == nil {
		return "", false
	}
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func formUpload(form *multipart.Form) (*dto.FileUpload, func(), error) {
	noop := func() {}
	if form == nil || len(form.File["file"]) == 0 {
		return nil, noop, nil
	}

	header := form.File["file"][0]
	src, err := header.Open()
	if err != nil {
		return nil, noop, err
	}

	return &dto.FileUpload{
		Name:    header.Filename,
		Size:    header.Size,
		Content: src,
	}, func() { src.Close() }, nil
}
