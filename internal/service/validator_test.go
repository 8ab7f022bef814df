package service

import (
	"errors"
	"strings"
	"testing"

	"transcript-extractor/internal/dto"
)

func TestCheckSize(t *testing.T) {
	tests := []struct {
		name    string
		size    int64
		wantErr bool
	}{
		{"empty file", 0, false},
		{"small file", 12, false},
		{"exactly at limit", 1000 * 1024, false},
		{"one byte over", 1000*1024 + 1, true},
		{"1001KB", 1001 * 1024, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSize(tt.size)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckSize(%d) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrSizeExceeded) {
				t.Errorf("CheckSize() error = %v, want ErrSizeExceeded", err)
			}
			if !strings.Contains(err.Error(), "Maximum file size is 1000KB.") {
				t.Errorf("CheckSize() message = %q", err.Error())
			}
		})
	}
}

func TestCheckExtension(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		wantErr  bool
	}{
		{"txt file", "testfile.txt", false},
		{"dotted name", "notes.2024.txt", false},
		{"pdf file", "testfile.pdf", true},
		{"upper case extension", "testfile.TXT", true},
		{"txt not suffix", "testfile.txt.pdf", true},
		{"no extension", "testfile", true},
		{"bare txt", "txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckExtension(tt.fileName)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckExtension(%q) error = %v, wantErr %v", tt.fileName, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrBadExtension) {
				t.Errorf("CheckExtension() error = %v, want ErrBadExtension", err)
			}
			if !strings.Contains(err.Error(), "is not allowed. Allowed extensions are: txt.") {
				t.Errorf("CheckExtension() message = %q", err.Error())
			}
		})
	}
}

func TestValidateUpload(t *testing.T) {
	var verr *ValidationError

	err := ValidateUpload(nil, true)
	if !errors.As(err, &verr) || verr.Field != "file" || !errors.Is(err, ErrFileRequired) {
		t.Errorf("ValidateUpload(nil, create) error = %v, want file-required ValidationError", err)
	}

	if err := ValidateUpload(nil, false); err != nil {
		t.Errorf("ValidateUpload(nil, update) error = %v, want nil", err)
	}

	err = ValidateUpload(&dto.FileUpload{Name: "big.pdf", Size: 2000 * 1024}, true)
	if !errors.Is(err, ErrBadExtension) {
		t.Errorf("ValidateUpload() error = %v, want extension checked first", err)
	}

	if err := ValidateUpload(&dto.FileUpload{Name: "ok.txt", Size: 10}, true); err != nil {
		t.Errorf("ValidateUpload() error = %v, want nil", err)
	}
}

func TestCheckTitle(t *testing.T) {
	if err := CheckTitle(strings.Repeat("я", MaxTitleLength)); err != nil {
		t.Errorf("CheckTitle() at limit error = %v", err)
	}
	if err := CheckTitle(strings.Repeat("a", MaxTitleLength+1)); !errors.Is(err, ErrTitleTooLong) {
		t.Errorf("CheckTitle() over limit error = %v, want ErrTitleTooLong", err)
	}
}
