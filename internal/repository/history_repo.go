package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"wikiquiz-backend/internal/models"
)

type HistoryRepo struct {
	pool *pgxpool.Pool
}

func NewHistoryRepo(pool *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{pool: pool}
}

func (r *HistoryRepo) Create(ctx context.Context, rec *models.HistoryRecord) error {
	rec.ID = uuid.New()
	quizJSON, err := json.Marshal(rec.Quiz)
	if err != nil {
		return err
	}

	query := `INSERT INTO quiz_history (id, source_url, title, quiz_json, summary)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		rec.ID, rec.SourceReference, rec.Title, quizJSON, rec.Summary,
	).Scan(&rec.CreatedAt)
}

func (r *HistoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.HistoryRecord, error) {
	rec := &models.HistoryRecord{}
	var quizJSON []byte

	query := `SELECT id, source_url, title, quiz_json, summary, created_at
		FROM quiz_history WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.SourceReference, &rec.Title, &quizJSON, &rec.Summary, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	// A record with an unreadable document still lists; the quiz just
	// comes back empty.
	json.Unmarshal(quizJSON, &rec.Quiz)
	return rec, nil
}

func (r *HistoryRepo) List(ctx context.Context, limit int) ([]*models.HistoryRecord, error) {
	query := `SELECT id, source_url, title, quiz_json, summary, created_at
		FROM quiz_history ORDER BY created_at DESC, id DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.HistoryRecord
	for rows.Next() {
		rec := &models.HistoryRecord{}
		var quizJSON []byte
		if err := rows.Scan(&rec.ID, &rec.SourceReference, &rec.Title, &quizJSON, &rec.Summary, &rec.CreatedAt); err != nil {
			return nil, err
		}
		json.Unmarshal(quizJSON, &rec.Quiz)
		records = append(records, rec)
	}
	return records, rows.Err()
}
