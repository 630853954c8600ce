package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/pkg/chunker"
	"github.com/clarainova/clara-backend/internal/pkg/extract"
	"github.com/clarainova/clara-backend/internal/pkg/retry"
	"github.com/clarainova/clara-backend/internal/repository"
)

type memDocRepo struct {
	mu   sync.Mutex
	docs map[string]*entity.Document
}

func newMemDocRepo(docs ...*entity.Document) *memDocRepo {
	repo := &memDocRepo{docs: make(map[string]*entity.Document)}
	for _, doc := range docs {
		repo.docs[doc.ID] = doc
	}
	return repo
}

func (r *memDocRepo) Create(_ context.Context, doc entity.Document) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = &doc
	return &doc, nil
}

func (r *memDocRepo) Get(_ context.Context, id string) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, entity.ErrDocumentNotFound
	}
	copied := *doc
	return &copied, nil
}

func (r *memDocRepo) List(context.Context, int, int) ([]*entity.Document, error) { return nil, nil }

func (r *memDocRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

func (r *memDocRepo) UpdateStatus(_ context.Context, id string, status entity.DocumentStatus, errorReason *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc, ok := r.docs[id]; ok {
		doc.Status = status
		doc.ErrorReason = errorReason
	}
	return nil
}

func (r *memDocRepo) UpdateProgress(_ context.Context, id string, lastBatchIndex, totalBatches int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc, ok := r.docs[id]; ok {
		doc.LastBatchIndex = &lastBatchIndex
		doc.TotalBatches = &totalBatches
	}
	return nil
}

func (r *memDocRepo) status(id string) entity.DocumentStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[id].Status
}

func (r *memDocRepo) progress(id string) (lastBatch, totalBatches int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc := r.docs[id]
	if doc.LastBatchIndex != nil {
		lastBatch = *doc.LastBatchIndex
	}
	if doc.TotalBatches != nil {
		totalBatches = *doc.TotalBatches
	}
	return lastBatch, totalBatches
}

type memChunkStore struct {
	mu      sync.Mutex
	rows    map[int]entity.Chunk
	deleted int
	err     error
}

func newMemChunkStore() *memChunkStore {
	return &memChunkStore{rows: make(map[int]entity.Chunk)}
}

func (s *memChunkStore) UpsertBatch(_ context.Context, chunks []entity.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, chunk := range chunks {
		s.rows[chunk.Seq] = chunk
	}
	return nil
}

func (s *memChunkStore) CountByDocument(context.Context, string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows), nil
}

func (s *memChunkStore) DeleteByDocument(context.Context, string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted++
	s.rows = make(map[int]entity.Chunk)
	return nil
}

func (s *memChunkStore) SearchByVector(context.Context, []float32, int) ([]repository.SearchHit, error) {
	return nil, nil
}

func (s *memChunkStore) SearchByTerms(context.Context, []string, int) ([]repository.SearchHit, error) {
	return nil, nil
}

func (s *memChunkStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *memChunkStore) has(seq int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[seq]
	return ok
}

type memEventRepo struct {
	mu     sync.Mutex
	events []entity.ProcessingEvent
}

func (r *memEventRepo) Record(_ context.Context, event entity.ProcessingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *memEventRepo) ListByDocument(context.Context, string) ([]*entity.ProcessingEvent, error) {
	return nil, nil
}

func (r *memEventRepo) steps() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	steps := make([]string, 0, len(r.events))
	for _, e := range r.events {
		steps = append(steps, e.Step)
	}
	return steps
}

func (r *memEventRepo) failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	failed := 0
	for _, e := range r.events {
		if !e.Success {
			failed++
		}
	}
	return failed
}

type stubStore struct {
	data []byte
	err  error
}

func (s *stubStore) GetObject(context.Context, string) ([]byte, error) { return s.data, s.err }
func (s *stubStore) RemoveObject(context.Context, string) error        { return nil }

type countingEmbedder struct {
	mu      sync.Mutex
	calls   int
	failAt  int
	failErr error
}

func (e *countingEmbedder) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.failAt > 0 && e.calls >= e.failAt {
		return nil, e.failErr
	}
	vectors := make([][]float32, len(inputs))
	for i := range vectors {
		vectors[i] = make([]float32, entity.EmbeddingDim)
	}
	return vectors, nil
}

// substringEmbedder rejects any input containing the marker, so a batch
// holding a bad chunk fails while its clean siblings embed individually.
type substringEmbedder struct {
	mu         sync.Mutex
	failMarker string
}

func (e *substringEmbedder) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, input := range inputs {
		if strings.Contains(input, e.failMarker) {
			return nil, errors.New("provider rejected the input")
		}
	}
	vectors := make([][]float32, len(inputs))
	for i := range vectors {
		vectors[i] = make([]float32, entity.EmbeddingDim)
	}
	return vectors, nil
}

type stubTranscriber struct{}

func (stubTranscriber) TranscribeBatch(context.Context, *entity.OCRBatch) (string, error) {
	return "", errors.New("transcription not expected in this test")
}

func fastRetry() *retry.RetryConfig {
	return &retry.RetryConfig{Attempts: 1, Delay: time.Millisecond, MaxDelay: time.Millisecond}
}

func pendingTxtDoc() *entity.Document {
	return &entity.Document{
		ID:          "doc-1",
		Title:       "Manual",
		Status:      entity.DocumentStatusPending,
		StorageKey:  "uploads/x/manual.txt",
		ContentType: "text/plain",
	}
}

func newIngestFixture(doc *entity.Document, store *stubStore, embedder Embedder) (*IngestUsecase, *memDocRepo, *memChunkStore, *memEventRepo) {
	docRepo := newMemDocRepo(doc)
	chunkStore := newMemChunkStore()
	eventRepo := &memEventRepo{}
	uc := NewUsecase(
		docRepo,
		chunkStore,
		eventRepo,
		store,
		extract.New(0),
		chunker.New(200, 80),
		embedder,
		stubTranscriber{},
		fastRetry(),
		zap.NewNop(),
	)
	return uc, docRepo, chunkStore, eventRepo
}

func waitStatus(t *testing.T, repo *memDocRepo, id string, want entity.DocumentStatus) {
	t.Helper()
	require.Eventually(t, func() bool {
		return repo.status(id) == want
	}, 5*time.Second, 10*time.Millisecond)
}

func TestStartIngestion_CompletesTxtDocument(t *testing.T) {
	store := &stubStore{data: []byte("Primeiro parágrafo sobre processos.\n\nSegundo parágrafo sobre protocolos.")}
	embedder := &countingEmbedder{}
	uc, docRepo, chunkStore, eventRepo := newIngestFixture(pendingTxtDoc(), store, embedder)

	require.NoError(t, uc.StartIngestion(context.Background(), "doc-1"))
	waitStatus(t, docRepo, "doc-1", entity.DocumentStatusCompleted)

	assert.Greater(t, chunkStore.count(), 0)
	assert.Contains(t, eventRepo.steps(), "extract")
	assert.Contains(t, eventRepo.steps(), "chunk")
	assert.Contains(t, eventRepo.steps(), "embed")
}

func TestStartIngestion_UnknownDocument(t *testing.T) {
	uc, _, _, _ := newIngestFixture(pendingTxtDoc(), &stubStore{}, &countingEmbedder{})

	err := uc.StartIngestion(context.Background(), "missing")
	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)
}

func TestStartIngestion_RejectsConcurrentRun(t *testing.T) {
	uc, _, _, _ := newIngestFixture(pendingTxtDoc(), &stubStore{}, &countingEmbedder{})

	require.True(t, uc.acquire("doc-1"))
	defer uc.release("doc-1")

	err := uc.StartIngestion(context.Background(), "doc-1")
	assert.ErrorIs(t, err, entity.ErrIngestionInFlight)
}

func TestStartIngestion_ReingestClearsPreviousChunks(t *testing.T) {
	doc := pendingTxtDoc()
	doc.Status = entity.DocumentStatusCompleted
	store := &stubStore{data: []byte("Conteúdo atualizado do documento.")}
	embedder := &countingEmbedder{}
	uc, docRepo, chunkStore, _ := newIngestFixture(doc, store, embedder)

	require.NoError(t, uc.StartIngestion(context.Background(), "doc-1"))
	waitStatus(t, docRepo, "doc-1", entity.DocumentStatusCompleted)

	assert.Equal(t, 1, chunkStore.deleted)
}

func TestStartIngestion_StorageFailureMarksFailed(t *testing.T) {
	store := &stubStore{err: errors.New("object not found")}
	uc, docRepo, _, eventRepo := newIngestFixture(pendingTxtDoc(), store, &countingEmbedder{})

	require.NoError(t, uc.StartIngestion(context.Background(), "doc-1"))
	waitStatus(t, docRepo, "doc-1", entity.DocumentStatusFailed)

	doc, err := docRepo.Get(context.Background(), "doc-1")
	require.NoError(t, err)
	require.NotNil(t, doc.ErrorReason)
	assert.Contains(t, *doc.ErrorReason, "fetch source file")
	assert.Contains(t, eventRepo.steps(), "extract")
}

func TestStartIngestion_EmptyDocumentFailsChunking(t *testing.T) {
	store := &stubStore{data: []byte("   ")}
	uc, docRepo, _, _ := newIngestFixture(pendingTxtDoc(), store, &countingEmbedder{})

	require.NoError(t, uc.StartIngestion(context.Background(), "doc-1"))
	waitStatus(t, docRepo, "doc-1", entity.DocumentStatusFailed)
}

// threeParagraphText chunks into three passages with chunker.New(200, 80):
// each paragraph is around 150 characters, so no two fit a 200-char passage.
func threeParagraphText(middle string) []byte {
	return []byte(
		"A abertura de processos administrativos exige o preenchimento completo do " +
			"formulário de protocolo e a anexação dos documentos obrigatórios do requerente.\n\n" +
			middle + "\n\n" +
			"O acompanhamento da tramitação pode ser feito pela central de atendimento ou " +
			"pelo portal, informando o número do protocolo gerado no ato da abertura.")
}

func TestStartIngestion_SkipsUnembeddableChunk(t *testing.T) {
	middle := "Os dados do segundo parágrafo contêm a sequência SEQUENCIA_INVALIDA que o " +
		"provedor de embeddings rejeita por completo durante o processamento em lote."
	store := &stubStore{data: threeParagraphText(middle)}
	embedder := &substringEmbedder{failMarker: "SEQUENCIA_INVALIDA"}
	uc, docRepo, chunkStore, eventRepo := newIngestFixture(pendingTxtDoc(), store, embedder)

	require.NoError(t, uc.StartIngestion(context.Background(), "doc-1"))
	waitStatus(t, docRepo, "doc-1", entity.DocumentStatusCompleted)

	assert.Equal(t, 2, chunkStore.count())
	assert.True(t, chunkStore.has(0))
	assert.False(t, chunkStore.has(1), "the rejected chunk is skipped, not stored")
	assert.True(t, chunkStore.has(2))
	assert.GreaterOrEqual(t, eventRepo.failures(), 1)
}

func TestStartIngestion_FailsAfterConsecutiveChunkFailures(t *testing.T) {
	middle := "O segundo parágrafo descreve a juntada de documentos ao expediente e os " +
		"prazos de resposta das unidades responsáveis pela análise do pedido protocolado."
	store := &stubStore{data: threeParagraphText(middle)}
	embedder := &countingEmbedder{failAt: 1, failErr: errors.New("provider rejected the batch")}
	uc, docRepo, chunkStore, _ := newIngestFixture(pendingTxtDoc(), store, embedder)

	require.NoError(t, uc.StartIngestion(context.Background(), "doc-1"))
	waitStatus(t, docRepo, "doc-1", entity.DocumentStatusFailed)

	doc, err := docRepo.Get(context.Background(), "doc-1")
	require.NoError(t, err)
	require.NotNil(t, doc.ErrorReason)
	assert.Contains(t, *doc.ErrorReason, "consecutive chunks failed embedding")
	assert.Zero(t, chunkStore.count())

	lastBatch, totalBatches := docRepo.progress("doc-1")
	assert.Equal(t, 0, lastBatch)
	assert.Equal(t, 1, totalBatches)
}

func TestRetry_RequiresFailedStatus(t *testing.T) {
	uc, _, _, _ := newIngestFixture(pendingTxtDoc(), &stubStore{}, &countingEmbedder{})

	err := uc.Retry(context.Background(), "doc-1")
	assert.ErrorIs(t, err, entity.ErrDocumentNotFailed)
}

func TestRetry_ResumesFailedDocument(t *testing.T) {
	doc := pendingTxtDoc()
	doc.Status = entity.DocumentStatusFailed
	zero := 0
	one := 1
	doc.LastBatchIndex = &zero
	doc.TotalBatches = &one
	store := &stubStore{data: []byte("Parágrafo sobre despacho e tramitação de expedientes.")}
	embedder := &countingEmbedder{}
	uc, docRepo, chunkStore, _ := newIngestFixture(doc, store, embedder)

	require.NoError(t, uc.Retry(context.Background(), "doc-1"))
	waitStatus(t, docRepo, "doc-1", entity.DocumentStatusCompleted)

	assert.Greater(t, chunkStore.count(), 0)
}
