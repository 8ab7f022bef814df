package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultTitle = "No Title"

// Fact sentinels distinguish "checked, nothing found" and "timed out" from
// a record that was never processed (empty slices).
const (
	InsufficientDataMessage = "Not enough data."
	TimeoutMessage          = "Extraction timed out. Please try again later."
)

type Transcript struct {
	ID           uuid.UUID `db:"id"`
	Title        string    `db:"title"`
	FileKey      string    `db:"file_key"`
	FileName     string    `db:"file_name"`
	Assets       []string  `db:"assets"`
	Expenditures []string  `db:"expenditures"`
	Income       []string  `db:"income"`
	CreatedAt    time.Time `db:"created_at"`
	UploadedAt   time.Time `db:"uploaded_at"`
}

// HasFacts reports whether extraction results were ever written.
func (t *Transcript) HasFacts() bool {
	return len(t.Assets) > 0 && len(t.Expenditures) > 0 && len(t.Income) > 0
}
