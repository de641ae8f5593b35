package quiz

import (
	"errors"
	"testing"

	"wikiquiz-backend/internal/models"
)

func validQuiz() models.Quiz {
	return models.Quiz{
		Title:           "Go (programming language)",
		SourceReference: "https://en.wikipedia.org/wiki/Go_(programming_language)",
		Questions: []models.Question{
			{
				Question: "Who designed Go?",
				Options: []models.Option{
					{Text: "Griesemer, Pike and Thompson", IsCorrect: true},
					{Text: "Linus Torvalds"},
					{Text: "Guido van Rossum"},
					{Text: "James Gosling"},
				},
				Explanation: "The article names the three designers.",
				Difficulty:  models.DifficultyEasy,
			},
		},
		RelatedTopics: []string{"Programming languages"},
	}
}

func TestValidate_AcceptsValidQuiz(t *testing.T) {
	out, err := Validate(validQuiz(), models.DifficultyEasy)
	if err != nil {
		t.Fatalf("Validate returned error for valid quiz: %v", err)
	}
	if len(out.Questions) != 1 {
		t.Errorf("Expected 1 question, got %d", len(out.Questions))
	}
}

func TestValidate_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(q *models.Quiz)
		wantCheck string
	}{
		{
			"no questions",
			func(q *models.Quiz) { q.Questions = nil },
			"questions",
		},
		{
			"empty question text",
			func(q *models.Quiz) { q.Questions[0].Question = "" },
			"question_text",
		},
		{
			"single option",
			func(q *models.Quiz) { q.Questions[0].Options = q.Questions[0].Options[:1] },
			"options",
		},
		{
			"no correct option",
			func(q *models.Quiz) { q.Questions[0].Options[0].IsCorrect = false },
			"correct_option",
		},
		{
			"two correct options",
			func(q *models.Quiz) { q.Questions[0].Options[1].IsCorrect = true },
			"correct_option",
		},
		{
			"empty explanation",
			func(q *models.Quiz) { q.Questions[0].Explanation = "" },
			"explanation",
		},
		{
			"unknown difficulty",
			func(q *models.Quiz) { q.Questions[0].Difficulty = "brutal" },
			"difficulty",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := validQuiz()
			tc.mutate(&q)

			_, err := Validate(q, models.DifficultyEasy)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected *ValidationError, got %T", err)
			}
			if vErr.Check != tc.wantCheck {
				t.Errorf("Expected check %q, got %q", tc.wantCheck, vErr.Check)
			}
		})
	}
}

func TestValidate_DefaultsMissingDifficulty(t *testing.T) {
	q := validQuiz()
	q.Questions[0].Difficulty = ""

	out, err := Validate(q, models.DifficultyHard)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if out.Questions[0].Difficulty != models.DifficultyHard {
		t.Errorf("Expected difficulty defaulted to hard, got %q", out.Questions[0].Difficulty)
	}
	if q.Questions[0].Difficulty != "" {
		t.Error("Validate mutated its input")
	}
}
