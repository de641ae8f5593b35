package quiz

import (
	"fmt"

	"wikiquiz-backend/internal/models"
)

// ValidationError reports the first structural check a candidate quiz failed.
type ValidationError struct {
	Check   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("quiz validation failed (%s): %s", e.Check, e.Message)
}

// Validate enforces the quiz document shape regardless of where the candidate
// came from. It is all-or-nothing: the only repair it performs is defaulting a
// missing question difficulty to defaultDifficulty. On success it returns a
// copy of the candidate with defaults applied; the input is never mutated.
func Validate(candidate models.Quiz, defaultDifficulty string) (models.Quiz, error) {
	if len(candidate.Questions) == 0 {
		return models.Quiz{}, &ValidationError{Check: "questions", Message: "quiz has no questions"}
	}

	out := candidate
	out.Questions = make([]models.Question, len(candidate.Questions))
	copy(out.Questions, candidate.Questions)

	for i := range out.Questions {
		q := &out.Questions[i]

		if q.Question == "" {
			return models.Quiz{}, &ValidationError{
				Check:   "question_text",
				Message: fmt.Sprintf("question %d has empty text", i+1),
			}
		}
		if len(q.Options) < 2 {
			return models.Quiz{}, &ValidationError{
				Check:   "options",
				Message: fmt.Sprintf("question %d has %d options, need at least 2", i+1, len(q.Options)),
			}
		}

		correct := 0
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return models.Quiz{}, &ValidationError{
				Check:   "correct_option",
				Message: fmt.Sprintf("question %d has %d correct options, need exactly 1", i+1, correct),
			}
		}

		if q.Explanation == "" {
			return models.Quiz{}, &ValidationError{
				Check:   "explanation",
				Message: fmt.Sprintf("question %d has empty explanation", i+1),
			}
		}

		if q.Difficulty == "" {
			q.Difficulty = defaultDifficulty
		} else if !models.IsValidDifficulty(q.Difficulty) {
			return models.Quiz{}, &ValidationError{
				Check:   "difficulty",
				Message: fmt.Sprintf("question %d has unrecognized difficulty %q", i+1, q.Difficulty),
			}
		}
	}

	return out, nil
}
