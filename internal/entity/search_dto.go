package entity

import "time"

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// ChunkScores exposes every component of the blend so callers can verify
// the combined value independently.
type ChunkScores struct {
	Lexical  float64 `json:"lexical"`
	Vector   float64 `json:"vector"`
	Combined float64 `json:"combined"`
}

type SearchResult struct {
	ChunkID       string      `json:"chunk_id"`
	DocumentID    string      `json:"document_id"`
	DocumentTitle string      `json:"document_title"`
	Content       string      `json:"content"`
	Scores        ChunkScores `json:"scores"`
	DocumentDate  time.Time   `json:"document_date"`
}

type SearchResponse struct {
	Query         string         `json:"query"`
	ExpandedTerms []string       `json:"expanded_terms"`
	Results       []SearchResult `json:"results"`
}
