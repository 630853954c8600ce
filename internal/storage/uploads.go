package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/config"
	"github.com/clarainova/clara-backend/internal/entity"
)

// UploadStorage hands out presigned PUT URLs so document files flow
// directly from the admin client to object storage, and serves the
// ingestion pipeline reads afterwards.
type UploadStorage interface {
	PresignedPutURL(ctx context.Context, filename, contentType string) (*entity.UploadURLResponse, error)
	GetObject(ctx context.Context, storageKey string) ([]byte, error)
	RemoveObject(ctx context.Context, storageKey string) error
	Ready() bool
}

var _ UploadStorage = &MinioStorage{}

type MinioStorage struct {
	client *minio.Client
	cfg    config.StorageConfig
	logger *zap.Logger
}

func NewMinioStorage(cfg config.StorageConfig, logger *zap.Logger) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		logger.Info("created storage bucket", zap.String("bucket", cfg.Bucket))
	}

	return &MinioStorage{client: client, cfg: cfg, logger: logger}, nil
}

func (s *MinioStorage) PresignedPutURL(ctx context.Context, filename, contentType string) (*entity.UploadURLResponse, error) {
	storageKey := fmt.Sprintf("uploads/%s/%s", uuid.NewString(), filename)

	presigned, err := s.client.PresignedPutObject(ctx, s.cfg.Bucket, storageKey, s.cfg.UploadURLTTL)
	if err != nil {
		return nil, fmt.Errorf("presign upload url: %w", err)
	}

	return &entity.UploadURLResponse{
		UploadURL:  rewritePublicURL(presigned, s.cfg.PublicURL),
		StorageKey: storageKey,
		ExpiresAt:  time.Now().Add(s.cfg.UploadURLTTL),
	}, nil
}

func (s *MinioStorage) GetObject(ctx context.Context, storageKey string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.cfg.Bucket, storageKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", storageKey, err)
	}
	return data, nil
}

func (s *MinioStorage) RemoveObject(ctx context.Context, storageKey string) error {
	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, storageKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", storageKey, err)
	}
	return nil
}

func (s *MinioStorage) Ready() bool {
	return s.client != nil
}

// rewritePublicURL swaps the internal endpoint for the public one when the
// storage service sits behind a different external host.
func rewritePublicURL(presigned *url.URL, publicURL string) string {
	if publicURL == "" {
		return presigned.String()
	}
	public, err := url.Parse(publicURL)
	if err != nil {
		return presigned.String()
	}
	presigned.Scheme = public.Scheme
	presigned.Host = public.Host
	return presigned.String()
}
