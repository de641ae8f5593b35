package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"wikiquiz-backend/internal/models"
	"wikiquiz-backend/internal/repository"
)

const historyListLimit = 100

// HistoryHandler projects stored quiz records for display. It is read-only;
// records are written by the persistence worker.
type HistoryHandler struct {
	historyRepo *repository.HistoryRepo
}

func NewHistoryHandler(historyRepo *repository.HistoryRepo) *HistoryHandler {
	return &HistoryHandler{historyRepo: historyRepo}
}

type historyEntry struct {
	ID              uuid.UUID   `json:"id"`
	SourceReference string      `json:"source_reference"`
	Title           string      `json:"title"`
	QuestionCount   int         `json:"question_count"`
	CreatedAt       time.Time   `json:"created_at"`
	Quiz            models.Quiz `json:"quiz"`
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.historyRepo.List(r.Context(), historyListLimit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch history", r))
		return
	}

	entries := make([]historyEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, historyEntry{
			ID:              rec.ID,
			SourceReference: rec.SourceReference,
			Title:           rec.Title,
			// len of a nil slice is 0, so a record whose stored
			// document lost its questions still lists cleanly.
			QuestionCount: len(rec.Quiz.Questions),
			CreatedAt:     rec.CreatedAt,
			Quiz:          rec.Quiz,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}
