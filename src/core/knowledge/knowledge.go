package knowledge

import (
	"context"
	"errors"
)

var (
	ErrNotReady        = errors.New("Corpus not loaded")
	ErrInvalidCorpus   = errors.New("Invalid corpus artifact")
	ErrEmptyQuery      = errors.New("Query is required")
	ErrUnknownDocument = errors.New("Document not found")
)

// SearchService defines the interface for query operations over the corpus
type SearchService interface {
	// SearchChunks returns the top scoring chunks for a query text.
	SearchChunks(ctx context.Context, query string, topK int) ([]ChunkHit, error)
	// SearchDocuments aggregates chunk hits into a role-weighted document ranking.
	SearchDocuments(ctx context.Context, query string, role Role, topDocs int) ([]DocumentResult, error)
}

// SummaryService defines the interface for role-tailored summarization
type SummaryService interface {
	Summarize(ctx context.Context, role Role, query string, docs []DocumentResult, history []Turn) (*Summary, error)
}

// DocumentService defines the interface for document-level browsing operations
type DocumentService interface {
	Trending(limit int) ([]DocumentPreview, error)
	FutureWork(pmcid string) (*FutureWorkReport, error)
	MatchFollowups(ctx context.Context, intent string, sourcePMCID string) ([]FollowupMatch, error)
}

// SystemService defines the interface for system operations
type SystemService interface {
	CheckHealth() HealthStatus
	Describe() DebugReport
}
