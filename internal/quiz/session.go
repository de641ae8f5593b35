package quiz

import (
	"errors"
	"math"

	"wikiquiz-backend/internal/models"
)

// ErrInvalidSessionState signals a sequencing violation: the caller invoked an
// operation the session's state machine does not permit. This is a programming
// error in the caller, not a recoverable condition.
var ErrInvalidSessionState = errors.New("invalid session state")

// Session tracks one user's progress through one quiz. A session has a single
// logical owner and is not safe for concurrent use; callers holding sessions
// across goroutines must serialize access themselves.
type Session struct {
	Quiz         models.Quiz `json:"quiz"`
	CurrentIndex int         `json:"current_index"`
	Score        int         `json:"score"`
	Completed    bool        `json:"completed"`
}

// NewSession starts a session at the first question with every question
// unanswered. The quiz must have at least one question.
func NewSession(q models.Quiz) (*Session, error) {
	if len(q.Questions) == 0 {
		return nil, ErrInvalidSessionState
	}

	s := &Session{Quiz: q}
	s.Quiz.Questions = make([]models.Question, len(q.Questions))
	copy(s.Quiz.Questions, q.Questions)
	for i := range s.Quiz.Questions {
		s.Quiz.Questions[i].Answered = false
		s.Quiz.Questions[i].Selected = ""
	}
	return s, nil
}

// Current returns the question at the session's position.
func (s *Session) Current() *models.Question {
	return &s.Quiz.Questions[s.CurrentIndex]
}

// Answer records opt against the current question. The first answer wins:
// once a question is answered, further calls leave the session unchanged and
// report false. A correct answer increments the score by exactly 1. Answering
// never advances the position.
func (s *Session) Answer(opt models.Option) bool {
	if s.Completed {
		return false
	}

	q := s.Current()
	if q.Answered {
		return false
	}

	q.Answered = true
	q.Selected = opt.Text
	if opt.IsCorrect {
		s.Score++
	}
	return true
}

// Advance moves to the next question, or marks the session completed when
// already on the last one. The index stays on the last question after
// completion so that totals are computed against the question count.
// Advancing past an unanswered question forfeits its point with no penalty.
func (s *Session) Advance() {
	if s.Completed {
		return
	}
	if s.CurrentIndex == len(s.Quiz.Questions)-1 {
		s.Completed = true
		return
	}
	s.CurrentIndex++
}

// FinalScore reports (correct, total, percent). It is only valid once the
// session has completed.
func (s *Session) FinalScore() (int, int, int, error) {
	if !s.Completed {
		return 0, 0, 0, ErrInvalidSessionState
	}
	total := len(s.Quiz.Questions)
	percent := int(math.Round(float64(s.Score) / float64(total) * 100))
	return s.Score, total, percent, nil
}
