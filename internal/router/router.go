package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"wikiquiz-backend/internal/handlers"
	"wikiquiz-backend/internal/middleware"
)

func New(
	quizHandler *handlers.QuizHandler,
	historyHandler *handlers.HistoryHandler,
	sessionHandler *handlers.SessionHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Generation makes an outbound AI call; keep it to 10 req/min per IP.
	generateLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Quiz Generation & History ────
		r.Group(func(r chi.Router) {
			r.Use(generateLimiter.Middleware)
			r.Post("/quiz", quizHandler.Generate)
		})
		r.Get("/quiz/{id}", quizHandler.Get)
		r.Get("/history", historyHandler.List)

		// ──── Quiz Sessions ────
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Start)
			r.Get("/{id}", sessionHandler.Get)
			r.Post("/{id}/answer", sessionHandler.Answer)
			r.Post("/{id}/advance", sessionHandler.Advance)
			r.Get("/{id}/result", sessionHandler.Result)
			r.Delete("/{id}", sessionHandler.Reset)
		})
	})

	return r
}
