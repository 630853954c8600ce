package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/clarainova/clara-backend/internal/entity"
)

// SearchHit pairs a chunk with its parent document metadata and, for
// vector search, the cosine similarity against the query vector.
type SearchHit struct {
	Chunk         entity.Chunk
	DocumentTitle string
	DocumentDate  time.Time
	Similarity    float64
}

// ChunkRepository defines the interface for chunk persistence and retrieval
type ChunkRepository interface {
	UpsertBatch(ctx context.Context, chunks []entity.Chunk) error
	CountByDocument(ctx context.Context, documentID string) (int, error)
	DeleteByDocument(ctx context.Context, documentID string) error
	SearchByVector(ctx context.Context, vector []float32, limit int) ([]SearchHit, error)
	SearchByTerms(ctx context.Context, terms []string, limit int) ([]SearchHit, error)
}

var _ ChunkRepository = &ChunkPostgres{}

type ChunkPostgres struct {
	db *pgxpool.Pool
}

func NewChunkPostgres(db *pgxpool.Pool) *ChunkPostgres {
	return &ChunkPostgres{db: db}
}

// UpsertBatch writes chunks keyed on (document_id, seq) so a retried
// ingestion overwrites rows from the failed run instead of duplicating.
func (r *ChunkPostgres) UpsertBatch(ctx context.Context, chunks []entity.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	for _, chunk := range chunks {
		if len(chunk.Embedding) != entity.EmbeddingDim {
			return fmt.Errorf("%w: chunk seq %d has %d dimensions",
				entity.ErrEmbeddingDimension, chunk.Seq, len(chunk.Embedding))
		}
	}

	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		id := chunk.ID
		if id == "" {
			id = uuid.NewString()
		}
		batch.Queue(`
			INSERT INTO chunks (id, document_id, seq, content, embedding)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (document_id, seq)
			DO UPDATE SET content = EXCLUDED.content, embedding = EXCLUDED.embedding`,
			id, chunk.DocumentID, chunk.Seq, chunk.Content, pgvector.NewVector(chunk.Embedding),
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range chunks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert chunk: %w", err)
		}
	}
	return nil
}

func (r *ChunkPostgres) CountByDocument(ctx context.Context, documentID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM chunks WHERE document_id = $1`, documentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return count, nil
}

func (r *ChunkPostgres) DeleteByDocument(ctx context.Context, documentID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM chunks WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	return nil
}

const searchHitColumns = `c.id, c.document_id, c.seq, c.content, c.created_at,
	d.title, d.created_at`

// searchableStatuses lists the document states whose chunks retrieval may
// return. Failed documents stay in: everything embedded before the failure
// is valid and immediately searchable.
var searchableStatuses = []string{
	string(entity.DocumentStatusCompleted),
	string(entity.DocumentStatusFailed),
}

// SearchByVector returns the closest searchable chunks by cosine distance,
// most similar first.
func (r *ChunkPostgres) SearchByVector(ctx context.Context, vector []float32, limit int) ([]SearchHit, error) {
	if len(vector) != entity.EmbeddingDim {
		return nil, fmt.Errorf("%w: query vector has %d dimensions",
			entity.ErrEmbeddingDimension, len(vector))
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+searchHitColumns+`, 1 - (c.embedding <=> $1) AS similarity
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE d.status = ANY($2) AND c.embedding IS NOT NULL
		ORDER BY c.embedding <=> $1
		LIMIT $3`,
		pgvector.NewVector(vector), searchableStatuses, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	return scanSearchHits(rows, true)
}

// SearchByTerms returns chunks whose content matches any expanded term.
// Scoring happens in the caller; this query only narrows the candidate set.
func (r *ChunkPostgres) SearchByTerms(ctx context.Context, terms []string, limit int) ([]SearchHit, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	patterns := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		patterns = append(patterns, "%"+term+"%")
	}
	if len(patterns) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+searchHitColumns+`
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE d.status = ANY($2) AND c.content ILIKE ANY($1)
		ORDER BY c.created_at DESC
		LIMIT $3`,
		patterns, searchableStatuses, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("term search: %w", err)
	}
	defer rows.Close()

	return scanSearchHits(rows, false)
}

func scanSearchHits(rows pgx.Rows, withSimilarity bool) ([]SearchHit, error) {
	hits := make([]SearchHit, 0)
	for rows.Next() {
		var hit SearchHit
		dest := []any{
			&hit.Chunk.ID,
			&hit.Chunk.DocumentID,
			&hit.Chunk.Seq,
			&hit.Chunk.Content,
			&hit.Chunk.CreatedAt,
			&hit.DocumentTitle,
			&hit.DocumentDate,
		}
		if withSimilarity {
			dest = append(dest, &hit.Similarity)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}
