package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"wikiquiz-backend/internal/models"
	"wikiquiz-backend/internal/repository"
	"wikiquiz-backend/internal/services"
)

// Pool persists finished quizzes off the request path. Generation enqueues a
// save job and returns immediately; a failed save costs a history entry,
// never a generation response.
type Pool struct {
	redis       *redis.Client
	historyRepo *repository.HistoryRepo
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewPool(redisClient *redis.Client, historyRepo *repository.HistoryRepo, workerCount int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		redis:       redisClient,
		historyRepo: historyRepo,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}
	log.Printf("Started %d history worker goroutines", p.workerCount)
}

// Stop cancels the worker context, unblocking any BLPop in flight.
func (p *Pool) Stop() {
	p.cancel()
}

func (p *Pool) worker(id int) {
	for {
		result, err := p.redis.BLPop(p.ctx, 30*time.Second, services.HistorySaveQueue).Result()
		if err != nil {
			if p.ctx.Err() != nil {
				log.Printf("History worker %d shutting down", id)
				return
			}
			continue // Timeout or error, retry
		}
		if len(result) < 2 {
			continue
		}

		var job models.HistorySaveJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("History worker %d: failed to parse save job: %v", id, err)
			continue
		}

		rec := &models.HistoryRecord{
			SourceReference: job.SourceReference,
			Title:           job.Title,
			Quiz:            job.Quiz,
			Summary:         job.Summary,
		}

		// A dequeued job still gets saved during shutdown, on its own deadline.
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := p.historyRepo.Create(saveCtx, rec); err != nil {
			log.Printf("History worker %d: failed to save quiz for %s: %v", id, job.SourceReference, err)
		} else {
			log.Printf("History worker %d: saved quiz %s (%s)", id, rec.ID, rec.Title)
		}
		cancel()
	}
}
