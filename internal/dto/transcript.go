package dto

import "io"

// FileUpload is a multipart file handed from the HTTP layer to the service.
type FileUpload struct {
	Name    string
	Size    int64
	Content io.Reader
}

type CreateTranscriptInput struct {
	Title string
	File  *FileUpload
}

// UpdateTranscriptInput carries optional fields; nil means "keep existing".
type UpdateTranscriptInput struct {
	Title *string
	File  *FileUpload
}

type TranscriptResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	File         string   `json:"file"`
	Assets       []string `json:"assets"`
	Expenditures []string `json:"expenditures"`
	Income       []string `json:"income"`
	UploadedAt   string   `json:"uploaded_at"`
	Note         string   `json:"note,omitempty"`
}

type ErrorResponse struct {
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors,omitempty"`
}
