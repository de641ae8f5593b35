package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wikiquiz-backend/internal/models"
	"wikiquiz-backend/internal/repository"
	"wikiquiz-backend/internal/services"
)

type quizGenerationService interface {
	GenerateQuiz(ctx context.Context, req models.GenerateQuizRequest) (models.Quiz, error)
}

type QuizHandler struct {
	generation  quizGenerationService
	historyRepo *repository.HistoryRepo
}

func NewQuizHandler(generation quizGenerationService, historyRepo *repository.HistoryRepo) *QuizHandler {
	return &QuizHandler{
		generation:  generation,
		historyRepo: historyRepo,
	}
}

func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyEasy
	}
	if req.NumberOfQuestions == 0 {
		req.NumberOfQuestions = 5
	}

	result, err := h.generation.GenerateQuiz(r.Context(), req)
	if err != nil {
		var invalid *services.InvalidRequestError
		switch {
		case errors.As(err, &invalid):
			writeJSON(w, http.StatusBadRequest, errorResp("INVALID_REQUEST", invalid.Message, r))
		case errors.Is(err, context.Canceled):
			// Client went away; nothing left to write.
		default:
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to generate quiz", r))
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid quiz ID", r))
		return
	}

	rec, err := h.historyRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch quiz", r))
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}
