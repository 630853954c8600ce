package export

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/pkg/formatter"
	"github.com/clarainova/clara-backend/internal/pkg/validator"
)

// Export is the rendered file plus the headers needed to serve it.
type Export struct {
	Data        []byte
	ContentType string
	Filename    string
}

type ExportUsecase struct {
	factory   *formatter.Factory
	validator *validator.Validator
	logger    *zap.Logger
}

func NewUsecase(factory *formatter.Factory, validator *validator.Validator, logger *zap.Logger) *ExportUsecase {
	return &ExportUsecase{
		factory:   factory,
		validator: validator,
		logger:    logger,
	}
}

// Render turns an answered turn into a downloadable document.
func (uc *ExportUsecase) Render(ctx context.Context, req *entity.ExportRequest) (*Export, error) {
	if err := uc.validator.ValidateExport(req); err != nil {
		return nil, err
	}

	fmtr, err := uc.factory.Create(req.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidFormat, req.Format)
	}

	data, err := fmtr.Format(req)
	if err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}

	ctxzap.Info(ctx, "conversation exported",
		zap.String("format", string(req.Format)),
		zap.Int("bytes", len(data)),
	)

	return &Export{
		Data:        data,
		ContentType: fmtr.ContentType(),
		Filename:    "conversa-clara" + fmtr.FileExtension(),
	}, nil
}
