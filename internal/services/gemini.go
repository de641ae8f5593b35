package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"wikiquiz-backend/internal/models"
)

// GeminiService is the adapter to the external generation provider. It makes
// exactly one outbound call per invocation, enforces a bounded wait, and
// classifies every failure into a GenerationError kind. Retry policy (if any)
// belongs to the caller.
type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	timeout  time.Duration
	rateChan chan struct{} // Token bucket
}

// NewGeminiService builds the adapter. An empty apiKey is allowed: the
// service stays up and every generation attempt reports the provider as
// unavailable, which the orchestrator absorbs with the fallback generator.
func NewGeminiService(apiKey string, concurrentReqs int, timeout time.Duration) (*GeminiService, error) {
	s := &GeminiService{timeout: timeout}

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}
	s.rateChan = rateChan

	if apiKey == "" {
		return s, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.5-flash")
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(2048)

	s.client = client
	s.model = model
	return s, nil
}

func (s *GeminiService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// Enabled reports whether an API key was configured.
func (s *GeminiService) Enabled() bool { return s.client != nil }

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// GenerateQuiz asks the provider for count questions grounded in the article
// text and maps the response into the quiz shape. The result still has to
// pass quiz.Validate; this method only guarantees structural parseability.
func (s *GeminiService) GenerateQuiz(ctx context.Context, article *Article, difficulty string, count int) (models.Quiz, error) {
	if s.client == nil {
		return models.Quiz{}, &GenerationError{Kind: GenErrProviderUnavailable, Err: errors.New("no Gemini API key configured")}
	}

	if err := s.acquireRate(ctx); err != nil {
		return models.Quiz{}, classifyProviderError(err)
	}
	defer s.releaseRate()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := buildQuizPrompt(article.Title, article.Text, difficulty, count)

	resp, err := s.model.GenerateContent(callCtx, genai.Text(prompt))
	if err != nil {
		return models.Quiz{}, classifyProviderError(err)
	}

	rawText := extractText(resp)
	if rawText == "" {
		return models.Quiz{}, &GenerationError{Kind: GenErrMalformedResponse, Err: errors.New("provider returned empty text")}
	}

	parsed, err := parseProviderQuiz(rawText)
	if err != nil {
		return models.Quiz{}, &GenerationError{Kind: GenErrMalformedResponse, Err: err}
	}

	parsed.Title = article.Title
	return parsed, nil
}

// classifyProviderError maps transport and API errors onto the generation
// error taxonomy.
func classifyProviderError(err error) *GenerationError {
	var apiErr *googleapi.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &GenerationError{Kind: GenErrTimeout, Err: err}
	case errors.As(err, &apiErr) && apiErr.Code == 429:
		return &GenerationError{Kind: GenErrQuotaExceeded, Err: err}
	default:
		return &GenerationError{Kind: GenErrProviderUnavailable, Err: err}
	}
}

// providerQuestion mirrors the shape we instruct the model to emit: plain
// option strings plus the answer string, converted here into flagged options.
type providerQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Difficulty  string   `json:"difficulty"`
}

type providerQuiz struct {
	Questions     []providerQuestion `json:"questions"`
	RelatedTopics []string           `json:"related_topics"`
}

// parseProviderQuiz turns raw model output into an unvalidated quiz document.
// It tolerates markdown fences and surrounding chatter around the JSON object.
func parseProviderQuiz(rawText string) (models.Quiz, error) {
	rawText = strings.TrimSpace(rawText)
	rawText = strings.TrimPrefix(rawText, "```json")
	rawText = strings.TrimPrefix(rawText, "```")
	rawText = strings.TrimSuffix(rawText, "```")
	rawText = strings.TrimSpace(rawText)

	var parsed providerQuiz
	if err := json.Unmarshal([]byte(rawText), &parsed); err != nil {
		// Try to extract the JSON object
		start := strings.Index(rawText, "{")
		end := strings.LastIndex(rawText, "}")
		if start < 0 || end <= start {
			return models.Quiz{}, fmt.Errorf("no JSON object in provider output")
		}
		if err := json.Unmarshal([]byte(rawText[start:end+1]), &parsed); err != nil {
			return models.Quiz{}, fmt.Errorf("failed to parse provider output: %w", err)
		}
	}

	quiz := models.Quiz{
		Questions:     make([]models.Question, len(parsed.Questions)),
		RelatedTopics: parsed.RelatedTopics,
	}
	for i, pq := range parsed.Questions {
		options := make([]models.Option, len(pq.Options))
		for j, opt := range pq.Options {
			options[j] = models.Option{Text: opt, IsCorrect: opt == pq.Answer}
		}
		quiz.Questions[i] = models.Question{
			Question:    pq.Question,
			Options:     options,
			Explanation: pq.Explanation,
			Difficulty:  pq.Difficulty,
		}
	}
	return quiz, nil
}

func buildQuizPrompt(articleTitle, articleText, difficulty string, count int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("You are a quiz generator. Based on the following article about %q, generate exactly %d multiple-choice questions.\n\n", articleTitle, count))
	b.WriteString("Use ONLY information from the article. Do NOT use outside knowledge.\n\n")

	b.WriteString(fmt.Sprintf("Difficulty: %s\n", difficulty))
	switch difficulty {
	case models.DifficultyEasy:
		b.WriteString("Easy = direct recall from the text.\n")
	case models.DifficultyMedium:
		b.WriteString("Medium = application of concepts from the text.\n")
	case models.DifficultyHard:
		b.WriteString("Hard = analysis or inference grounded in the text.\n")
	}

	b.WriteString(`
Rules:
1. Each question must have exactly 4 options.
2. Questions must be factual and specific to the article content.
3. Provide a brief explanation for each answer, based on the article.
4. Also suggest 3 related topics.

Return ONLY a valid JSON object with no markdown formatting, no code blocks, no extra text. Use this exact format:

{
  "questions": [
    {
      "question": "Question text here?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "answer": "Option A",
      "difficulty": "` + difficulty + `",
      "explanation": "Brief explanation based on the article."
    }
  ],
  "related_topics": ["Topic1", "Topic2", "Topic3"]
}
`)

	b.WriteString("\n---ARTICLE START---\n")
	b.WriteString(articleText)
	b.WriteString("\n---ARTICLE END---\n")

	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
