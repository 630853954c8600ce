package entity

import (
	"fmt"
	"time"
)

type DocumentStatus string

// Document status represents the current stage of the ingestion pipeline
const (
	DocumentStatusPending    DocumentStatus = "pending"    // Registered, waiting for ingestion
	DocumentStatusExtracting DocumentStatus = "extracting" // Pulling plain text out of the source file
	DocumentStatusChunking   DocumentStatus = "chunking"   // Splitting text into passages
	DocumentStatusEmbedding  DocumentStatus = "embedding"  // Requesting vectors for each passage
	DocumentStatusCompleted  DocumentStatus = "completed"  // Terminal: all batches embedded
	DocumentStatusFailed     DocumentStatus = "failed"     // Terminal but retryable from last batch
)

func (ds DocumentStatus) Terminal() bool {
	return ds == DocumentStatusCompleted || ds == DocumentStatusFailed
}

func (ds DocumentStatus) Validate() error {
	switch ds {
	case DocumentStatusPending, DocumentStatusExtracting, DocumentStatusChunking,
		DocumentStatusEmbedding, DocumentStatusCompleted, DocumentStatusFailed:
		return nil
	default:
		return fmt.Errorf("unknown document status: %s", ds)
	}
}

type Document struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Category       string         `json:"category"`
	Status         DocumentStatus `json:"status"`
	ErrorReason    *string        `json:"error_reason,omitempty"`
	LastBatchIndex *int           `json:"last_batch_index,omitempty"`
	TotalBatches   *int           `json:"total_batches,omitempty"`
	StorageKey     string         `json:"storage_key"`
	ContentType    string         `json:"content_type"`
	ChunkCount     int            `json:"chunk_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// EmbeddingDim is the only vector length the chunk store accepts. It must
// match the embedding model output exactly; a mismatch is a per-chunk
// ingestion error, never silently truncated or padded.
const EmbeddingDim = 768

type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Seq        int       `json:"seq"`
	Content    string    `json:"content"`
	Embedding  []float32 `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProcessingEvent is an append-only record of one ingestion step's outcome.
// It feeds observability queries only; the retrieval and chat paths never
// read it.
type ProcessingEvent struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"document_id"`
	Step         string    `json:"step"`
	DurationMs   int64     `json:"duration_ms"`
	Success      bool      `json:"success"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

func (mr MessageRole) Validate() error {
	switch mr {
	case RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("unknown message role: %s", mr)
	}
}

type ChatMode string

const (
	ChatModeFast ChatMode = "fast" // local knowledge base only
	ChatModeAuto ChatMode = "auto" // web search when local context is weak
	ChatModeDeep ChatMode = "deep" // always web search, quorum required
)

func (cm ChatMode) Validate() error {
	switch cm {
	case ChatModeFast, ChatModeAuto, ChatModeDeep:
		return nil
	default:
		return fmt.Errorf("unknown chat mode: %s", cm)
	}
}

// SourceKind tags where a grounding passage came from, so citations can
// distinguish knowledge-base chunks from live web results.
type SourceKind string

const (
	SourceKindKnowledgeBase SourceKind = "knowledge_base"
	SourceKindWeb           SourceKind = "web"
)

type Source struct {
	Kind  SourceKind `json:"kind"`
	Title string     `json:"title"`
	URL   string     `json:"url,omitempty"`
}

// AnalyticsRecord stores one answered chat turn. Feedback is attached later
// by ID and never overwrites the original query/response pair.
type AnalyticsRecord struct {
	ID               string    `json:"id"`
	Query            string    `json:"query"`
	Response         string    `json:"response"`
	Sources          []Source  `json:"sources"`
	Rating           *int      `json:"rating,omitempty"`
	FeedbackCategory *string   `json:"feedback_category,omitempty"`
	FeedbackText     *string   `json:"feedback_text,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type FrontendError struct {
	ID             string    `json:"id"`
	Message        string    `json:"message"`
	ComponentStack string    `json:"component_stack"`
	URL            string    `json:"url"`
	CreatedAt      time.Time `json:"created_at"`
}
