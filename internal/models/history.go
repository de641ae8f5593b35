package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoryRecord is a stored copy of a generated quiz. Write-once; read many.
type HistoryRecord struct {
	ID              uuid.UUID `json:"id"`
	SourceReference string    `json:"source_reference"`
	Title           string    `json:"title"`
	Quiz            Quiz      `json:"quiz"`
	Summary         string    `json:"summary,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// HistorySaveJob is the payload queued for the persistence worker.
type HistorySaveJob struct {
	SourceReference string `json:"source_reference"`
	Title           string `json:"title"`
	Quiz            Quiz   `json:"quiz"`
	Summary         string `json:"summary"`
}
