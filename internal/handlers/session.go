package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"wikiquiz-backend/internal/models"
	"wikiquiz-backend/internal/quiz"
)

// SessionHandler owns the live quiz sessions. Sessions are ephemeral process
// state: they live in memory, belong to one interaction, and vanish on reset
// or restart. The store mutex serializes all transitions for a session.
type SessionHandler struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*quiz.Session
}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{sessions: make(map[uuid.UUID]*quiz.Session)}
}

type startSessionRequest struct {
	Quiz models.Quiz `json:"quiz"`
}

type answerRequest struct {
	OptionIndex int `json:"option_index"`
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	// The session engine only accepts documents that pass the same checks
	// generation output does. Clients cannot start a session on a quiz
	// with, say, zero correct options per question.
	validated, err := quiz.Validate(req.Quiz, models.DifficultyMedium)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		return
	}

	session, err := quiz.NewSession(validated)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Quiz has no questions", r))
		return
	}

	id := uuid.New()
	h.mu.Lock()
	h.sessions[id] = session
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, sessionView(id, session))
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	view := sessionView(id, session)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	h.mu.Lock()
	current := session.Current()
	if req.OptionIndex < 0 || req.OptionIndex >= len(current.Options) {
		h.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "option_index out of range", r))
		return
	}

	applied := session.Answer(current.Options[req.OptionIndex])
	view := sessionView(id, session)
	h.mu.Unlock()

	view["applied"] = applied
	writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	session.Advance()
	view := sessionView(id, session)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) Result(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	score, total, percent, err := session.FinalScore()
	h.mu.Unlock()

	if err != nil {
		if errors.Is(err, quiz.ErrInvalidSessionState) {
			writeJSON(w, http.StatusConflict, errorResp("INVALID_STATE", "Session is not completed", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to compute result", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": id,
		"score":      score,
		"total":      total,
		"percent":    percent,
	})
}

// Reset discards the session entirely. Deleting an unknown session is fine;
// the end state is the same.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Session reset"})
}

func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (uuid.UUID, *quiz.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return uuid.Nil, nil, false
	}

	h.mu.Lock()
	session, exists := h.sessions[id]
	h.mu.Unlock()

	if !exists {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		return uuid.Nil, nil, false
	}
	return id, session, true
}

func sessionView(id uuid.UUID, s *quiz.Session) map[string]interface{} {
	return map[string]interface{}{
		"session_id":    id,
		"quiz":          s.Quiz,
		"current_index": s.CurrentIndex,
		"score":         s.Score,
		"completed":     s.Completed,
	}
}
