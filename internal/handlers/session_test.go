package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"wikiquiz-backend/internal/models"
)

func sessionRouter() http.Handler {
	h := NewSessionHandler()
	r := chi.NewRouter()
	r.Post("/sessions", h.Start)
	r.Get("/sessions/{id}", h.Get)
	r.Post("/sessions/{id}/answer", h.Answer)
	r.Post("/sessions/{id}/advance", h.Advance)
	r.Get("/sessions/{id}/result", h.Result)
	r.Delete("/sessions/{id}", h.Reset)
	return r
}

func threeQuestionQuiz() models.Quiz {
	questions := make([]models.Question, 3)
	for i := range questions {
		questions[i] = models.Question{
			Question: fmt.Sprintf("Question %d?", i+1),
			Options: []models.Option{
				{Text: fmt.Sprintf("Right %d", i+1), IsCorrect: true},
				{Text: fmt.Sprintf("Wrong %d", i+1)},
			},
			Explanation: "From the article.",
			Difficulty:  models.DifficultyEasy,
		}
	}
	return models.Quiz{Title: "HTTP test quiz", Questions: questions}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func startSession(t *testing.T, router http.Handler) string {
	t.Helper()
	rr := doJSON(t, router, http.MethodPost, "/sessions", map[string]interface{}{"quiz": threeQuestionQuiz()})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201 starting session, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode start response: %v", err)
	}
	return resp.SessionID
}

func TestSessionFlow_FullRun(t *testing.T) {
	router := sessionRouter()
	id := startSession(t, router)

	// Q1 correct
	rr := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/answer", answerRequest{OptionIndex: 0})
	if rr.Code != http.StatusOK {
		t.Fatalf("Answer failed: %d %s", rr.Code, rr.Body.String())
	}
	doJSON(t, router, http.MethodPost, "/sessions/"+id+"/advance", nil)

	// Skip Q2
	doJSON(t, router, http.MethodPost, "/sessions/"+id+"/advance", nil)

	// Q3 incorrect, then complete
	doJSON(t, router, http.MethodPost, "/sessions/"+id+"/answer", answerRequest{OptionIndex: 1})
	doJSON(t, router, http.MethodPost, "/sessions/"+id+"/advance", nil)

	rr = doJSON(t, router, http.MethodGet, "/sessions/"+id+"/result", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Result failed: %d %s", rr.Code, rr.Body.String())
	}

	var result struct {
		Score   int `json:"score"`
		Total   int `json:"total"`
		Percent int `json:"percent"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode result: %v", err)
	}
	if result.Score != 1 || result.Total != 3 || result.Percent != 33 {
		t.Errorf("Expected (1, 3, 33), got (%d, %d, %d)", result.Score, result.Total, result.Percent)
	}
}

func TestSessionAnswer_LocksFirstChoice(t *testing.T) {
	router := sessionRouter()
	id := startSession(t, router)

	doJSON(t, router, http.MethodPost, "/sessions/"+id+"/answer", answerRequest{OptionIndex: 0})
	rr := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/answer", answerRequest{OptionIndex: 1})

	var resp struct {
		Applied bool `json:"applied"`
		Score   int  `json:"score"`
		Quiz    struct {
			Questions []struct {
				Selected string `json:"selected"`
			} `json:"questions"`
		} `json:"quiz"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode answer response: %v", err)
	}
	if resp.Applied {
		t.Error("Second answer should not be applied")
	}
	if resp.Score != 1 {
		t.Errorf("Expected score 1, got %d", resp.Score)
	}
	if resp.Quiz.Questions[0].Selected != "Right 1" {
		t.Errorf("Expected first selection kept, got %q", resp.Quiz.Questions[0].Selected)
	}
}

func TestSessionResult_BeforeCompletionIsConflict(t *testing.T) {
	router := sessionRouter()
	id := startSession(t, router)

	rr := doJSON(t, router, http.MethodGet, "/sessions/"+id+"/result", nil)
	if rr.Code != http.StatusConflict {
		t.Errorf("Expected 409 for result before completion, got %d", rr.Code)
	}
}

func TestSessionStart_RejectsInvalidQuiz(t *testing.T) {
	router := sessionRouter()

	invalid := threeQuestionQuiz()
	invalid.Questions[1].Options[0].IsCorrect = false // no correct option

	rr := doJSON(t, router, http.MethodPost, "/sessions", map[string]interface{}{"quiz": invalid})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid quiz, got %d", rr.Code)
	}
}

func TestSessionReset_DiscardsSession(t *testing.T) {
	router := sessionRouter()
	id := startSession(t, router)

	rr := doJSON(t, router, http.MethodDelete, "/sessions/"+id, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Reset failed: %d", rr.Code)
	}

	rr = doJSON(t, router, http.MethodGet, "/sessions/"+id, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after reset, got %d", rr.Code)
	}
}

func TestSessionLookup_UnknownAndMalformedIDs(t *testing.T) {
	router := sessionRouter()

	rr := doJSON(t, router, http.MethodGet, "/sessions/not-a-uuid", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed id, got %d", rr.Code)
	}

	rr = doJSON(t, router, http.MethodGet, "/sessions/1b4e28ba-2fa1-11d2-883f-0016d3cca427", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown id, got %d", rr.Code)
	}
}
