package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clarainova/clara-backend/internal/entity"
)

// FrontendErrorRepository stores client-reported errors after scrubbing.
type FrontendErrorRepository interface {
	Create(ctx context.Context, report entity.FrontendError) error
}

var _ FrontendErrorRepository = &FrontendErrorPostgres{}

type FrontendErrorPostgres struct {
	db *pgxpool.Pool
}

func NewFrontendErrorPostgres(db *pgxpool.Pool) *FrontendErrorPostgres {
	return &FrontendErrorPostgres{db: db}
}

func (r *FrontendErrorPostgres) Create(ctx context.Context, report entity.FrontendError) error {
	id := report.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO frontend_errors (id, message, component_stack, url)
		VALUES ($1, $2, $3, $4)`,
		id, report.Message, report.ComponentStack, report.URL,
	)
	if err != nil {
		return fmt.Errorf("create frontend error: %w", err)
	}
	return nil
}
