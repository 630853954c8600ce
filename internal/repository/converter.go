package repository

import (
	"github.com/jackc/pgx/v5"

	"github.com/clarainova/clara-backend/internal/entity"
)

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var doc entity.Document
	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Category,
		&doc.Status,
		&doc.ErrorReason,
		&doc.LastBatchIndex,
		&doc.TotalBatches,
		&doc.StorageKey,
		&doc.ContentType,
		&doc.ChunkCount,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func scanEvent(row pgx.Row) (*entity.ProcessingEvent, error) {
	var ev entity.ProcessingEvent
	err := row.Scan(
		&ev.ID,
		&ev.DocumentID,
		&ev.Step,
		&ev.DurationMs,
		&ev.Success,
		&ev.ErrorMessage,
		&ev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}
