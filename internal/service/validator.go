package service

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"transcript-extractor/internal/dto"
)

const (
	MaxFileSizeKB    = 1000
	MaxFileSize      = MaxFileSizeKB * 1024
	AllowedExtension = ".txt"
	MaxTitleLength   = 255
)

// CheckSize rejects files larger than MaxFileSize bytes; the boundary is inclusive.
func CheckSize(size int64) error {
	if size > MaxFileSize {
		return &ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("Maximum file size is %dKB.", MaxFileSizeKB),
			Err:     ErrSizeExceeded,
		}
	}
	return nil
}

// CheckExtension requires a case-sensitive ".txt" suffix.
func CheckExtension(name string) error {
	if strings.HasSuffix(name, AllowedExtension) {
		return nil
	}
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return &ValidationError{
		Field:   "file",
		Message: fmt.Sprintf("File extension %q is not allowed. Allowed extensions are: txt.", ext),
		Err:     ErrBadExtension,
	}
}

func CheckTitle(title string) error {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("Ensure this field has no more than %d characters.", MaxTitleLength),
			Err:     ErrTitleTooLong,
		}
	}
	return nil
}

// ValidateUpload applies the file rules. A file is mandatory only when creating.
func ValidateUpload(file *dto.FileUpload, creating bool) error {
	if file == nil {
		if creating {
			return &ValidationError{
				Field:   "file",
				Message: "This field is required when creating a new instance.",
				Err:     ErrFileRequired,
			}
		}
		return nil
	}

	if err := CheckExtension(file.Name); err != nil {
		return err
	}
	return CheckSize(file.Size)
}
