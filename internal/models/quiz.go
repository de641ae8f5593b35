package models

// Recognized difficulty levels for generated questions.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// SupportedQuestionCounts lists the question counts a caller may request.
var SupportedQuestionCounts = []int{5, 7, 10}

func IsValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func IsSupportedQuestionCount(n int) bool {
	for _, c := range SupportedQuestionCounts {
		if n == c {
			return true
		}
	}
	return false
}

type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question is immutable once generated except for Answered/Selected,
// which are only mutated by a quiz session.
type Question struct {
	Question    string   `json:"question"`
	Options     []Option `json:"options"`
	Explanation string   `json:"explanation"`
	Difficulty  string   `json:"difficulty"`
	Answered    bool     `json:"answered"`
	Selected    string   `json:"selected,omitempty"`
}

// CorrectOption returns the option flagged correct, or nil if none is.
func (q *Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

type Quiz struct {
	Title           string     `json:"title"`
	SourceReference string     `json:"source_reference"`
	Questions       []Question `json:"questions"`
	RelatedTopics   []string   `json:"related_topics"`
}

type GenerateQuizRequest struct {
	URL               string `json:"url"`
	Difficulty        string `json:"difficulty"`
	NumberOfQuestions int    `json:"number_of_questions"`
}
