package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clarainova/clara-backend/internal/entity"
)

// AnalyticsRepository persists answered chat turns and later feedback.
type AnalyticsRepository interface {
	Create(ctx context.Context, record entity.AnalyticsRecord) (*entity.AnalyticsRecord, error)
	Get(ctx context.Context, id string) (*entity.AnalyticsRecord, error)
	AttachFeedback(ctx context.Context, id string, rating int, category, text *string) error
}

var _ AnalyticsRepository = &AnalyticsPostgres{}

type AnalyticsPostgres struct {
	db *pgxpool.Pool
}

func NewAnalyticsPostgres(db *pgxpool.Pool) *AnalyticsPostgres {
	return &AnalyticsPostgres{db: db}
}

func (r *AnalyticsPostgres) Create(ctx context.Context, record entity.AnalyticsRecord) (*entity.AnalyticsRecord, error) {
	id := record.ID
	if id == "" {
		id = uuid.NewString()
	}

	sources := record.Sources
	if sources == nil {
		sources = []entity.Source{}
	}
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return nil, fmt.Errorf("marshal sources: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO query_analytics (id, query, response, sources)
		VALUES ($1, $2, $3, $4)
		RETURNING id, query, response, sources, rating, feedback_category, feedback_text, created_at`,
		id, record.Query, record.Response, sourcesJSON,
	)
	return scanAnalytics(row)
}

func (r *AnalyticsPostgres) Get(ctx context.Context, id string) (*entity.AnalyticsRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse analytics ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		SELECT id, query, response, sources, rating, feedback_category, feedback_text, created_at
		FROM query_analytics WHERE id = $1`,
		id,
	)

	record, err := scanAnalytics(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrAnalyticsNotFound
		}
		return nil, fmt.Errorf("get analytics record: %w", err)
	}
	return record, nil
}

// AttachFeedback sets feedback fields by ID. The original query/response
// pair is never touched.
func (r *AnalyticsPostgres) AttachFeedback(ctx context.Context, id string, rating int, category, text *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE query_analytics
		SET rating = $2, feedback_category = $3, feedback_text = $4
		WHERE id = $1`,
		id, rating, category, text,
	)
	if err != nil {
		return fmt.Errorf("attach feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrAnalyticsNotFound
	}
	return nil
}

func scanAnalytics(row pgx.Row) (*entity.AnalyticsRecord, error) {
	var record entity.AnalyticsRecord
	var sourcesJSON []byte

	err := row.Scan(
		&record.ID,
		&record.Query,
		&record.Response,
		&sourcesJSON,
		&record.Rating,
		&record.FeedbackCategory,
		&record.FeedbackText,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(sourcesJSON) > 0 {
		if err := json.Unmarshal(sourcesJSON, &record.Sources); err != nil {
			return nil, fmt.Errorf("unmarshal sources: %w", err)
		}
	}
	return &record, nil
}
