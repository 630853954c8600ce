package feedback

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/pkg/scrub"
	"github.com/clarainova/clara-backend/internal/pkg/validator"
	"github.com/clarainova/clara-backend/internal/repository"
)

type FeedbackUsecase struct {
	analyticsRepo repository.AnalyticsRepository
	errorRepo     repository.FrontendErrorRepository
	validator     *validator.Validator
	logger        *zap.Logger
}

func NewUsecase(
	analyticsRepo repository.AnalyticsRepository,
	errorRepo repository.FrontendErrorRepository,
	validator *validator.Validator,
	logger *zap.Logger,
) *FeedbackUsecase {
	return &FeedbackUsecase{
		analyticsRepo: analyticsRepo,
		errorRepo:     errorRepo,
		validator:     validator,
		logger:        logger,
	}
}

// Submit attaches feedback to a previously answered turn by its query ID.
func (uc *FeedbackUsecase) Submit(ctx context.Context, req *entity.FeedbackRequest) error {
	if err := uc.validator.ValidateFeedback(req); err != nil {
		return err
	}

	if err := uc.analyticsRepo.AttachFeedback(ctx, req.QueryID, req.Rating, req.FeedbackCategory, req.FeedbackText); err != nil {
		return err
	}

	ctxzap.Info(ctx, "feedback recorded",
		zap.String("query_id", req.QueryID),
		zap.Int("rating", req.Rating),
	)
	return nil
}

// LogFrontendError scrubs personal data patterns from every field before
// the report is stored.
func (uc *FeedbackUsecase) LogFrontendError(ctx context.Context, req *entity.FrontendErrorRequest) error {
	if err := uc.validator.ValidateFrontendError(req); err != nil {
		return err
	}

	report := entity.FrontendError{
		Message:        scrub.PII(req.ErrorMessage),
		ComponentStack: scrub.PII(req.ComponentStack),
		URL:            scrub.PII(req.URL),
	}
	if err := uc.errorRepo.Create(ctx, report); err != nil {
		return err
	}

	ctxzap.Info(ctx, "frontend error recorded")
	return nil
}
