package entity

import (
	"time"

	"github.com/google/uuid"
)

// Run is one processed roster document.
type Run struct {
	ID           uuid.UUID `json:"id"`
	SourcePath   string    `json:"source_path"`
	ContentHash  string    `json:"content_hash"` // sha256 hex of the source file
	Status       string    `json:"status"`
	Records      int       `json:"records"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
