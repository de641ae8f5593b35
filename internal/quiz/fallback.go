package quiz

import (
	"fmt"

	"wikiquiz-backend/internal/models"
)

// Fallback builds a placeholder quiz from nothing but the topic label and the
// requested parameters. It is deterministic and never fails, which keeps quiz
// generation available while the AI provider is down, over quota, or returning
// garbage. Its output satisfies the same invariants Validate enforces.
func Fallback(topic, difficulty string, count int) models.Quiz {
	questions := make([]models.Question, count)
	for i := range questions {
		questions[i] = models.Question{
			Question: fmt.Sprintf("According to the article about %s, what topic is discussed in section %d?", topic, i+1),
			Options: []models.Option{
				{Text: fmt.Sprintf("Information about %s", topic), IsCorrect: true},
				{Text: "Unrelated topic"},
				{Text: "Different subject"},
				{Text: "Another area"},
			},
			Explanation: fmt.Sprintf("This question is based on content from the article about %s.", topic),
			Difficulty:  difficulty,
		}
	}

	return models.Quiz{
		Title:         topic,
		Questions:     questions,
		RelatedTopics: []string{topic, "Wikipedia", "General Knowledge"},
	}
}
