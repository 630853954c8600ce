package document

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/pkg/validator"
	"github.com/clarainova/clara-backend/internal/repository"
	"github.com/clarainova/clara-backend/internal/storage"
)

// DocumentUsecase implements the admin document catalog operations
type DocumentUsecase struct {
	docRepo   repository.DocumentRepository
	eventRepo repository.EventRepository
	store     storage.UploadStorage
	validator *validator.Validator
	logger    *zap.Logger
}

func NewUsecase(
	docRepo repository.DocumentRepository,
	eventRepo repository.EventRepository,
	store storage.UploadStorage,
	validator *validator.Validator,
	logger *zap.Logger,
) *DocumentUsecase {
	return &DocumentUsecase{
		docRepo:   docRepo,
		eventRepo: eventRepo,
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// Register records an uploaded file as a pending document. The file itself
// reached object storage earlier via a presigned URL.
func (uc *DocumentUsecase) Register(ctx context.Context, req *entity.RegisterDocumentRequest) (*entity.Document, error) {
	if err := uc.validator.ValidateRegisterDocument(req); err != nil {
		return nil, err
	}

	doc, err := uc.docRepo.Create(ctx, entity.Document{
		Title:       req.Title,
		Category:    req.Category,
		StorageKey:  req.StorageKey,
		ContentType: req.ContentType,
	})
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "document registered",
		zap.String("document_id", doc.ID),
		zap.String("title", doc.Title),
	)
	return doc, nil
}

func (uc *DocumentUsecase) Get(ctx context.Context, id string) (*entity.Document, error) {
	return uc.docRepo.Get(ctx, id)
}

func (uc *DocumentUsecase) List(ctx context.Context, skip, limit int) ([]*entity.Document, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}
	return uc.docRepo.List(ctx, skip, limit)
}

// Delete removes the document row (chunks and events cascade) and then
// the stored file. A missing object is logged, not fatal: the catalog
// entry is already gone.
func (uc *DocumentUsecase) Delete(ctx context.Context, id string) error {
	doc, err := uc.docRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.docRepo.Delete(ctx, id); err != nil {
		return err
	}

	if doc.StorageKey != "" {
		if err := uc.store.RemoveObject(ctx, doc.StorageKey); err != nil {
			ctxzap.Warn(ctx, "failed to remove stored file", zap.Error(err))
		}
	}

	ctxzap.Info(ctx, "document deleted", zap.String("document_id", id))
	return nil
}

// Events returns the append-only ingestion history for a document.
func (uc *DocumentUsecase) Events(ctx context.Context, id string) ([]*entity.ProcessingEvent, error) {
	if _, err := uc.docRepo.Get(ctx, id); err != nil {
		return nil, err
	}
	return uc.eventRepo.ListByDocument(ctx, id)
}

// UploadURL issues a short-lived presigned PUT so the admin client ships
// the file straight to object storage.
func (uc *DocumentUsecase) UploadURL(ctx context.Context, req *entity.UploadURLRequest) (*entity.UploadURLResponse, error) {
	if err := uc.validator.ValidateUploadURL(req); err != nil {
		return nil, err
	}

	resp, err := uc.store.PresignedPutURL(ctx, validator.SanitizeFilename(req.Filename), req.ContentType)
	if err != nil {
		return nil, fmt.Errorf("issue upload url: %w", err)
	}

	ctxzap.Info(ctx, "upload url issued", zap.String("storage_key", resp.StorageKey))
	return resp, nil
}
