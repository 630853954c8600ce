package entity

import "time"

type RegisterDocumentRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	StorageKey  string `json:"storage_key"`
	ContentType string `json:"content_type"`
}

type DocumentDTO struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Category       string         `json:"category"`
	Status         DocumentStatus `json:"status"`
	ErrorReason    *string        `json:"error_reason,omitempty"`
	LastBatchIndex *int           `json:"last_batch_index,omitempty"`
	TotalBatches   *int           `json:"total_batches,omitempty"`
	ChunkCount     int            `json:"chunk_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type UploadURLRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type UploadURLResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	LLMConfigured bool   `json:"llm_configured"`
	DBConfigured  bool   `json:"db_configured"`
	StorageReady  bool   `json:"storage_ready"`
}
