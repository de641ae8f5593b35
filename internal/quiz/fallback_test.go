package quiz

import (
	"bytes"
	"encoding/json"
	"testing"

	"wikiquiz-backend/internal/models"
)

func TestFallback_IsSchemaValid(t *testing.T) {
	for _, count := range models.SupportedQuestionCounts {
		q := Fallback("Quantum mechanics", models.DifficultyMedium, count)

		if _, err := Validate(q, models.DifficultyMedium); err != nil {
			t.Fatalf("Fallback output failed validation for count %d: %v", count, err)
		}
		if len(q.Questions) != count {
			t.Errorf("Expected %d questions, got %d", count, len(q.Questions))
		}
		for i, question := range q.Questions {
			correct := 0
			for _, opt := range question.Options {
				if opt.IsCorrect {
					correct++
				}
			}
			if correct != 1 {
				t.Errorf("Question %d has %d correct options, want exactly 1", i, correct)
			}
			if question.Difficulty != models.DifficultyMedium {
				t.Errorf("Question %d has difficulty %q, want medium", i, question.Difficulty)
			}
		}
	}
}

func TestFallback_IsDeterministic(t *testing.T) {
	first, err := json.Marshal(Fallback("Photosynthesis", models.DifficultyMedium, 5))
	if err != nil {
		t.Fatalf("Failed to marshal first quiz: %v", err)
	}
	second, err := json.Marshal(Fallback("Photosynthesis", models.DifficultyMedium, 5))
	if err != nil {
		t.Fatalf("Failed to marshal second quiz: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("Fallback is not deterministic:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestFallback_TopicAppearsInContent(t *testing.T) {
	q := Fallback("The French Revolution", models.DifficultyEasy, 5)

	if q.Title != "The French Revolution" {
		t.Errorf("Expected title derived from topic, got %q", q.Title)
	}
	if len(q.RelatedTopics) == 0 || q.RelatedTopics[0] != "The French Revolution" {
		t.Errorf("Expected topic as first related topic, got %v", q.RelatedTopics)
	}
}
