package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/api/googleapi"

	"wikiquiz-backend/internal/models"
)

const providerPayload = `{
  "questions": [
    {
      "question": "What is Go?",
      "options": ["A language", "A board game", "A planet", "A protocol"],
      "answer": "A language",
      "difficulty": "easy",
      "explanation": "The article describes Go as a programming language."
    }
  ],
  "related_topics": ["Compilers", "Concurrency", "Google"]
}`

func TestParseProviderQuiz_PlainJSON(t *testing.T) {
	q, err := parseProviderQuiz(providerPayload)
	if err != nil {
		t.Fatalf("parseProviderQuiz failed: %v", err)
	}

	if len(q.Questions) != 1 {
		t.Fatalf("Expected 1 question, got %d", len(q.Questions))
	}
	question := q.Questions[0]
	if len(question.Options) != 4 {
		t.Fatalf("Expected 4 options, got %d", len(question.Options))
	}
	for _, opt := range question.Options {
		want := opt.Text == "A language"
		if opt.IsCorrect != want {
			t.Errorf("Option %q: is_correct=%v, want %v", opt.Text, opt.IsCorrect, want)
		}
	}
	if len(q.RelatedTopics) != 3 {
		t.Errorf("Expected 3 related topics, got %d", len(q.RelatedTopics))
	}
}

func TestParseProviderQuiz_ToleratesFencesAndChatter(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n" + providerPayload + "\n```"},
		{"bare fence", "```\n" + providerPayload + "\n```"},
		{"preamble and trailer", "Here is your quiz:\n" + providerPayload + "\nEnjoy!"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := parseProviderQuiz(tc.raw)
			if err != nil {
				t.Fatalf("parseProviderQuiz failed: %v", err)
			}
			if len(q.Questions) != 1 {
				t.Errorf("Expected 1 question, got %d", len(q.Questions))
			}
		})
	}
}

func TestParseProviderQuiz_RejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "I cannot help with that.", "{not json}"} {
		if _, err := parseProviderQuiz(raw); err == nil {
			t.Errorf("Expected parse error for %q", raw)
		}
	}
}

func TestClassifyProviderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind string
	}{
		{"deadline", context.DeadlineExceeded, GenErrTimeout},
		{"wrapped deadline", errors.Join(errors.New("rpc"), context.DeadlineExceeded), GenErrTimeout},
		{"quota", &googleapi.Error{Code: 429, Message: "quota exceeded"}, GenErrQuotaExceeded},
		{"server error", &googleapi.Error{Code: 503}, GenErrProviderUnavailable},
		{"transport", errors.New("connection refused"), GenErrProviderUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			genErr := classifyProviderError(tc.err)
			if genErr.Kind != tc.kind {
				t.Errorf("Expected kind %q, got %q", tc.kind, genErr.Kind)
			}
		})
	}
}

func TestBuildQuizPrompt(t *testing.T) {
	prompt := buildQuizPrompt("Alan Turing", "Turing worked at Bletchley Park.", models.DifficultyHard, 7)

	for _, want := range []string{
		"generate exactly 7 multiple-choice questions",
		"Difficulty: hard",
		"exactly 4 options",
		"Turing worked at Bletchley Park.",
		"---ARTICLE START---",
		`"related_topics"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q", want)
		}
	}
}

func TestGeminiService_UnavailableWithoutKey(t *testing.T) {
	svc, err := NewGeminiService("", 2, 0)
	if err != nil {
		t.Fatalf("NewGeminiService failed: %v", err)
	}
	defer svc.Close()

	if svc.Enabled() {
		t.Fatal("Service should not be enabled without an API key")
	}

	_, err = svc.GenerateQuiz(context.Background(), &Article{Title: "X", Text: "Y"}, models.DifficultyEasy, 5)
	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.Kind != GenErrProviderUnavailable {
		t.Errorf("Expected provider_unavailable, got %v", err)
	}
}
