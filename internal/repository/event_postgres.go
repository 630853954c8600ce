package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clarainova/clara-backend/internal/entity"
)

// EventRepository records ingestion step outcomes, append-only.
type EventRepository interface {
	Record(ctx context.Context, event entity.ProcessingEvent) error
	ListByDocument(ctx context.Context, documentID string) ([]*entity.ProcessingEvent, error)
}

var _ EventRepository = &EventPostgres{}

type EventPostgres struct {
	db *pgxpool.Pool
}

func NewEventPostgres(db *pgxpool.Pool) *EventPostgres {
	return &EventPostgres{db: db}
}

func (r *EventPostgres) Record(ctx context.Context, event entity.ProcessingEvent) error {
	id := event.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO processing_events (id, document_id, step, duration_ms, success, error_message)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, event.DocumentID, event.Step, event.DurationMs, event.Success, event.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("record processing event: %w", err)
	}
	return nil
}

func (r *EventPostgres) ListByDocument(ctx context.Context, documentID string) ([]*entity.ProcessingEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, document_id, step, duration_ms, success, error_message, created_at
		FROM processing_events
		WHERE document_id = $1
		ORDER BY created_at ASC`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list processing events: %w", err)
	}
	defer rows.Close()

	events := make([]*entity.ProcessingEvent, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan processing event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
