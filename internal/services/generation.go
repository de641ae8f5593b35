package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"path"
	"strings"

	"github.com/redis/go-redis/v9"

	"wikiquiz-backend/internal/models"
	"wikiquiz-backend/internal/quiz"
)

// HistorySaveQueue is the Redis list the persistence worker consumes.
const HistorySaveQueue = "queue:history-save"

type articleExtractor interface {
	Extract(ctx context.Context, sourceURL string) (*Article, error)
}

type quizGenerator interface {
	GenerateQuiz(ctx context.Context, article *Article, difficulty string, count int) (models.Quiz, error)
}

// GenerationService composes extraction, the AI adapter, the validator and
// the fallback generator into one total operation: given a well-formed
// request and an extractable source, it always returns a usable quiz. Only
// caller-input problems surface as errors; provider failures of any kind are
// absorbed by the fallback path.
type GenerationService struct {
	extract   articleExtractor
	generator quizGenerator
	queue     *redis.Client
}

func NewGenerationService(extract articleExtractor, generator quizGenerator, queue *redis.Client) *GenerationService {
	return &GenerationService{
		extract:   extract,
		generator: generator,
		queue:     queue,
	}
}

// GenerateQuiz implements the generation pipeline. The returned quiz has the
// same shape regardless of which path produced it; callers cannot and need
// not distinguish AI output from fallback output.
func (s *GenerationService) GenerateQuiz(ctx context.Context, req models.GenerateQuizRequest) (models.Quiz, error) {
	if strings.TrimSpace(req.URL) == "" {
		return models.Quiz{}, &InvalidRequestError{Message: "url is required"}
	}
	if !models.IsValidDifficulty(req.Difficulty) {
		return models.Quiz{}, &InvalidRequestError{Message: fmt.Sprintf("difficulty must be one of easy, medium, hard; got %q", req.Difficulty)}
	}
	if !models.IsSupportedQuestionCount(req.NumberOfQuestions) {
		return models.Quiz{}, &InvalidRequestError{Message: fmt.Sprintf("number_of_questions must be one of %v; got %d", models.SupportedQuestionCounts, req.NumberOfQuestions)}
	}

	// An unextractable source is a caller problem: the quiz cannot be
	// grounded in content that does not exist. Not masked by fallback.
	article, err := s.extract.Extract(ctx, req.URL)
	if err != nil {
		return models.Quiz{}, &InvalidRequestError{Message: err.Error()}
	}

	result, via := s.generate(ctx, article, req)
	if ctx.Err() != nil {
		// Caller abandoned the request; return nothing rather than a
		// quiz nobody is waiting for.
		return models.Quiz{}, ctx.Err()
	}

	result.SourceReference = req.URL
	if result.Title == "" {
		result.Title = deriveTopic(article, req.URL)
	}

	log.Printf("quiz generated via %s path for %s (%d questions, %s)",
		via, req.URL, len(result.Questions), req.Difficulty)

	s.enqueueHistorySave(ctx, result, article.Summary)
	return result, nil
}

// generate runs the AI path and falls back on any adapter or validation
// failure. It reports which path produced the quiz.
func (s *GenerationService) generate(ctx context.Context, article *Article, req models.GenerateQuizRequest) (models.Quiz, string) {
	candidate, err := s.generator.GenerateQuiz(ctx, article, req.Difficulty, req.NumberOfQuestions)
	if err != nil {
		log.Printf("AI generation failed for %s: %v; using fallback", req.URL, err)
		return quiz.Fallback(deriveTopic(article, req.URL), req.Difficulty, req.NumberOfQuestions), "fallback"
	}

	validated, err := quiz.Validate(candidate, req.Difficulty)
	if err != nil {
		log.Printf("AI output rejected for %s: %v; using fallback", req.URL, err)
		return quiz.Fallback(deriveTopic(article, req.URL), req.Difficulty, req.NumberOfQuestions), "fallback"
	}

	// A structurally valid response that comes up short on questions is
	// still unusable: the caller asked for a fixed count. Extra questions
	// are fine; too few means fall back.
	if len(validated.Questions) < req.NumberOfQuestions {
		log.Printf("AI output rejected for %s: %d questions, requested %d; using fallback",
			req.URL, len(validated.Questions), req.NumberOfQuestions)
		return quiz.Fallback(deriveTopic(article, req.URL), req.Difficulty, req.NumberOfQuestions), "fallback"
	}

	return validated, "ai"
}

// enqueueHistorySave hands the finished quiz to the persistence worker.
// Fire-and-forget: a queue failure must not fail the generation response.
func (s *GenerationService) enqueueHistorySave(ctx context.Context, q models.Quiz, summary string) {
	if s.queue == nil {
		return
	}
	job := models.HistorySaveJob{
		SourceReference: q.SourceReference,
		Title:           q.Title,
		Quiz:            q,
		Summary:         summary,
	}
	data, _ := json.Marshal(job)
	if err := s.queue.LPush(ctx, HistorySaveQueue, string(data)).Err(); err != nil {
		log.Printf("failed to enqueue history save for %s: %v", q.SourceReference, err)
	}
}

// deriveTopic picks a human-readable topic label for a source: the extracted
// article title when there is one, otherwise a label built from the URL.
func deriveTopic(article *Article, sourceURL string) string {
	if article != nil && article.Title != "" {
		return article.Title
	}
	if parsed, err := url.Parse(sourceURL); err == nil {
		if base := path.Base(parsed.Path); base != "" && base != "/" && base != "." {
			return strings.ReplaceAll(base, "_", " ")
		}
		if parsed.Host != "" {
			return parsed.Host
		}
	}
	return "Web Article"
}
