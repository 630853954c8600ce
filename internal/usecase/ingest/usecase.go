package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	retrygo "github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/pkg/chunker"
	"github.com/clarainova/clara-backend/internal/pkg/extract"
	"github.com/clarainova/clara-backend/internal/pkg/logger"
	"github.com/clarainova/clara-backend/internal/pkg/retry"
	"github.com/clarainova/clara-backend/internal/repository"
)

const (
	embedBatchSize = 16
	ocrBatchPages  = 5

	// Pause between embedding batches so a large document cannot saturate
	// the provider's rate limit on its own.
	embedPacing = 200 * time.Millisecond

	// A chunk that cannot be embedded is skipped; the document only fails
	// once this many chunks in a row are unembeddable.
	maxConsecutiveChunkFailures = 3
)

// IngestUsecase drives the document pipeline:
// pending -> extracting -> chunking -> embedding -> completed | failed.
// At most one run per document is active at a time.
type IngestUsecase struct {
	docRepo     repository.DocumentRepository
	chunkRepo   repository.ChunkRepository
	eventRepo   repository.EventRepository
	store       ObjectStore
	extractor   *extract.Extractor
	chunker     *chunker.Chunker
	embedder    Embedder
	transcriber Transcriber
	retryCfg    *retry.RetryConfig
	logger      *zap.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewUsecase(
	docRepo repository.DocumentRepository,
	chunkRepo repository.ChunkRepository,
	eventRepo repository.EventRepository,
	store ObjectStore,
	extractor *extract.Extractor,
	chunker *chunker.Chunker,
	embedder Embedder,
	transcriber Transcriber,
	retryCfg *retry.RetryConfig,
	logger *zap.Logger,
) *IngestUsecase {
	return &IngestUsecase{
		docRepo:     docRepo,
		chunkRepo:   chunkRepo,
		eventRepo:   eventRepo,
		store:       store,
		extractor:   extractor,
		chunker:     chunker,
		embedder:    embedder,
		transcriber: transcriber,
		retryCfg:    retryCfg,
		logger:      logger,
		inflight:    make(map[string]struct{}),
	}
}

// StartIngestion validates the trigger synchronously and runs the pipeline
// in the background. A completed document is re-ingested from scratch.
func (uc *IngestUsecase) StartIngestion(ctx context.Context, documentID string) error {
	doc, err := uc.docRepo.Get(ctx, documentID)
	if err != nil {
		return err
	}
	if !uc.acquire(documentID) {
		return entity.ErrIngestionInFlight
	}

	if doc.Status == entity.DocumentStatusCompleted {
		if err := uc.chunkRepo.DeleteByDocument(ctx, documentID); err != nil {
			uc.release(documentID)
			return fmt.Errorf("clear previous chunks: %w", err)
		}
	}

	uc.spawn(ctx, doc, 0)
	return nil
}

// Retry resumes a failed document from its last persisted batch index
// instead of restarting the pipeline.
func (uc *IngestUsecase) Retry(ctx context.Context, documentID string) error {
	doc, err := uc.docRepo.Get(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.Status != entity.DocumentStatusFailed {
		return entity.ErrDocumentNotFailed
	}
	if !uc.acquire(documentID) {
		return entity.ErrIngestionInFlight
	}

	startBatch := 0
	if doc.LastBatchIndex != nil {
		startBatch = *doc.LastBatchIndex
	}

	uc.spawn(ctx, doc, startBatch)
	return nil
}

func (uc *IngestUsecase) spawn(ctx context.Context, doc *entity.Document, startBatch int) {
	bgCtx := logger.AddFields(ctxzap.ToContext(context.Background(), ctxzap.Extract(ctx)),
		zap.String("document_id", doc.ID),
		zap.String("action", "Ingest-async"),
	)

	go func() {
		defer uc.release(doc.ID)
		uc.run(bgCtx, doc, startBatch)
	}()
}

func (uc *IngestUsecase) acquire(documentID string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, busy := uc.inflight[documentID]; busy {
		return false
	}
	uc.inflight[documentID] = struct{}{}
	return true
}

func (uc *IngestUsecase) release(documentID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.inflight, documentID)
}

func (uc *IngestUsecase) run(ctx context.Context, doc *entity.Document, startBatch int) {
	text, err := uc.extractStage(ctx, doc)
	if err != nil {
		uc.fail(ctx, doc.ID, startBatch, err)
		return
	}

	chunks, err := uc.chunkStage(ctx, doc, text)
	if err != nil {
		uc.fail(ctx, doc.ID, startBatch, err)
		return
	}

	if err := uc.embedStage(ctx, doc, chunks, startBatch); err != nil {
		return
	}

	if err := uc.docRepo.UpdateStatus(ctx, doc.ID, entity.DocumentStatusCompleted, nil); err != nil {
		ctxzap.Error(ctx, "failed to mark document completed", zap.Error(err))
		return
	}
	ctxzap.Info(ctx, "document ingestion completed", zap.Int("chunks", len(chunks)))
}

func (uc *IngestUsecase) extractStage(ctx context.Context, doc *entity.Document) (string, error) {
	if err := uc.docRepo.UpdateStatus(ctx, doc.ID, entity.DocumentStatusExtracting, nil); err != nil {
		return "", err
	}

	started := time.Now()

	data, err := uc.store.GetObject(ctx, doc.StorageKey)
	if err != nil {
		uc.record(ctx, doc.ID, "extract", started, err)
		return "", fmt.Errorf("fetch source file: %w", err)
	}

	extraction, err := uc.extractor.Extract(data, filepath.Base(doc.StorageKey), doc.ContentType)
	if err != nil {
		uc.record(ctx, doc.ID, "extract", started, err)
		return "", fmt.Errorf("extract text: %w", err)
	}

	text := extraction.Text
	if extraction.NeedsOCR {
		ctxzap.Info(ctx, "text layer too sparse, transcribing via multimodal model",
			zap.Float64("avg_chars_per_page", extraction.AvgCharsPerPage),
		)
		text, err = uc.transcribe(ctx, doc, data)
		if err != nil {
			uc.record(ctx, doc.ID, "extract", started, err)
			return "", fmt.Errorf("transcribe document: %w", err)
		}
	}

	uc.record(ctx, doc.ID, "extract", started, nil)
	return text, nil
}

func (uc *IngestUsecase) transcribe(ctx context.Context, doc *entity.Document, data []byte) (string, error) {
	batches, err := uc.extractor.PDFBatches(data, ocrBatchPages)
	if err != nil {
		return "", err
	}

	var text string
	for i := range batches {
		batch := batches[i]
		transcribed, err := retrygo.DoWithData(func() (string, error) {
			return uc.transcriber.TranscribeBatch(ctx, &batch)
		}, uc.retryCfg.ToRetryOptions()...)
		if err != nil {
			return "", fmt.Errorf("transcribe pages %d-%d: %w", batch.FirstPage, batch.LastPage, err)
		}
		text += transcribed + "\n\n"
	}
	return text, nil
}

func (uc *IngestUsecase) chunkStage(ctx context.Context, doc *entity.Document, text string) ([]string, error) {
	if err := uc.docRepo.UpdateStatus(ctx, doc.ID, entity.DocumentStatusChunking, nil); err != nil {
		return nil, err
	}

	started := time.Now()
	chunks := uc.chunker.Split(text)
	if len(chunks) == 0 {
		err := fmt.Errorf("document produced no chunks")
		uc.record(ctx, doc.ID, "chunk", started, err)
		return nil, err
	}

	uc.record(ctx, doc.ID, "chunk", started, nil)
	ctxzap.Info(ctx, "document chunked", zap.Int("chunks", len(chunks)))
	return chunks, nil
}

// embedStage embeds chunk batches sequentially, persisting progress after
// each batch. A batch that still fails after retries is retried chunk by
// chunk: bad chunks are skipped and the document only fails once
// maxConsecutiveChunkFailures chunks in a row are unembeddable. The failed
// index is the resume point; a later retry continues there because chunk
// rows upsert on (document_id, seq).
func (uc *IngestUsecase) embedStage(ctx context.Context, doc *entity.Document, chunks []string, startBatch int) error {
	if err := uc.docRepo.UpdateStatus(ctx, doc.ID, entity.DocumentStatusEmbedding, nil); err != nil {
		return err
	}

	totalBatches := (len(chunks) + embedBatchSize - 1) / embedBatchSize
	if startBatch >= totalBatches {
		startBatch = 0
	}

	consecutiveFailures := 0
	for batchIndex := startBatch; batchIndex < totalBatches; batchIndex++ {
		first := batchIndex * embedBatchSize
		last := first + embedBatchSize
		if last > len(chunks) {
			last = len(chunks)
		}
		batch := chunks[first:last]

		started := time.Now()
		var rows []entity.Chunk
		vectors, err := retrygo.DoWithData(func() ([][]float32, error) {
			return uc.embedder.Embed(ctx, batch)
		}, uc.retryCfg.ToRetryOptions()...)
		if err == nil {
			consecutiveFailures = 0
			rows = make([]entity.Chunk, len(batch))
			for i, content := range batch {
				rows[i] = entity.Chunk{
					DocumentID: doc.ID,
					Seq:        first + i,
					Content:    content,
					Embedding:  vectors[i],
				}
			}
		} else {
			ctxzap.Warn(ctx, "batch embedding failed, embedding chunks individually",
				zap.Int("batch_index", batchIndex),
				zap.Error(err),
			)
			rows, consecutiveFailures, err = uc.embedChunksIndividually(ctx, doc.ID, batch, first, consecutiveFailures)
			if err != nil {
				uc.record(ctx, doc.ID, "embed", started, err)
				uc.failBatch(ctx, doc.ID, batchIndex, totalBatches, fmt.Errorf("embed batch %d: %w", batchIndex, err))
				return err
			}
		}

		if err := uc.chunkRepo.UpsertBatch(ctx, rows); err != nil {
			uc.record(ctx, doc.ID, "embed", started, err)
			uc.failBatch(ctx, doc.ID, batchIndex, totalBatches, fmt.Errorf("store batch %d: %w", batchIndex, err))
			return err
		}

		uc.record(ctx, doc.ID, "embed", started, nil)
		if err := uc.docRepo.UpdateProgress(ctx, doc.ID, batchIndex, totalBatches); err != nil {
			ctxzap.Warn(ctx, "failed to persist batch progress", zap.Error(err))
		}

		if batchIndex < totalBatches-1 {
			select {
			case <-time.After(embedPacing):
			case <-ctx.Done():
				uc.failBatch(ctx, doc.ID, batchIndex, totalBatches, ctx.Err())
				return ctx.Err()
			}
		}
	}
	return nil
}

// embedChunksIndividually isolates a failing batch. Each chunk is embedded
// on its own so one bad chunk (dimension mismatch, oversized payload) does
// not take the rest of the batch down with it. Skipped chunks get a failed
// processing event; the consecutive counter carries across batches.
func (uc *IngestUsecase) embedChunksIndividually(ctx context.Context, documentID string, batch []string, firstSeq, consecutive int) ([]entity.Chunk, int, error) {
	rows := make([]entity.Chunk, 0, len(batch))
	for i, content := range batch {
		started := time.Now()
		vectors, err := retrygo.DoWithData(func() ([][]float32, error) {
			return uc.embedder.Embed(ctx, []string{content})
		}, uc.retryCfg.ToRetryOptions()...)
		if err == nil && len(vectors) != 1 {
			err = fmt.Errorf("expected 1 vector, got %d", len(vectors))
		}
		if err != nil {
			consecutive++
			uc.record(ctx, documentID, "embed", started, fmt.Errorf("embed chunk seq %d: %w", firstSeq+i, err))
			if consecutive >= maxConsecutiveChunkFailures {
				return nil, consecutive, fmt.Errorf("%d consecutive chunks failed embedding: %w", consecutive, err)
			}
			ctxzap.Warn(ctx, "skipping chunk that failed embedding",
				zap.Int("seq", firstSeq+i),
				zap.Error(err),
			)
			continue
		}

		consecutive = 0
		rows = append(rows, entity.Chunk{
			DocumentID: documentID,
			Seq:        firstSeq + i,
			Content:    content,
			Embedding:  vectors[0],
		})
	}
	return rows, consecutive, nil
}

// failBatch records the resume point before marking the document failed,
// so a later retry starts at the batch that broke.
func (uc *IngestUsecase) failBatch(ctx context.Context, documentID string, batchIndex, totalBatches int, cause error) {
	if err := uc.docRepo.UpdateProgress(ctx, documentID, batchIndex, totalBatches); err != nil {
		ctxzap.Warn(ctx, "failed to persist resume point", zap.Error(err))
	}
	uc.fail(ctx, documentID, batchIndex, cause)
}

func (uc *IngestUsecase) fail(ctx context.Context, documentID string, batchIndex int, cause error) {
	ctxzap.Error(ctx, "document ingestion failed",
		zap.Int("batch_index", batchIndex),
		zap.Error(cause),
	)

	reason := cause.Error()
	if err := uc.docRepo.UpdateStatus(ctx, documentID, entity.DocumentStatusFailed, &reason); err != nil {
		ctxzap.Error(ctx, "failed to mark document failed", zap.Error(err))
	}
}

func (uc *IngestUsecase) record(ctx context.Context, documentID, step string, started time.Time, cause error) {
	event := entity.ProcessingEvent{
		DocumentID: documentID,
		Step:       step,
		DurationMs: time.Since(started).Milliseconds(),
		Success:    cause == nil,
	}
	if cause != nil {
		msg := cause.Error()
		event.ErrorMessage = &msg
	}
	if err := uc.eventRepo.Record(ctx, event); err != nil {
		ctxzap.Warn(ctx, "failed to record processing event", zap.Error(err))
	}
}
