package knowledge

import (
	"context"
	"fmt"
	"strings"
)

// SearchOptions tunes retrieval. Zero values take the defaults below.
type SearchOptions struct {
	// Candidates is the chunk pool size feeding document aggregation.
	Candidates int
	// DefaultChunks applies when SearchChunks gets topK <= 0.
	DefaultChunks int
	// DefaultDocs applies when SearchDocuments gets topDocs <= 0.
	DefaultDocs int
	// MaxDocs caps topDocs regardless of what the caller asks for.
	MaxDocs int
}

const (
	defaultCandidates = 50
	defaultChunkHits  = 10
	defaultTopDocs    = 5
	defaultMaxTopDocs = 20
)

type searchService struct {
	corpus   *Handle
	embedder Embedder
	opts     SearchOptions
}

func NewSearchService(corpus *Handle, embedder Embedder, opts SearchOptions) SearchService {
	if opts.Candidates <= 0 {
		opts.Candidates = defaultCandidates
	}
	if opts.DefaultChunks <= 0 {
		opts.DefaultChunks = defaultChunkHits
	}
	if opts.DefaultDocs <= 0 {
		opts.DefaultDocs = defaultTopDocs
	}
	if opts.MaxDocs <= 0 {
		opts.MaxDocs = defaultMaxTopDocs
	}
	return &searchService{
		corpus:   corpus,
		embedder: embedder,
		opts:     opts,
	}
}

func (s *searchService) SearchChunks(ctx context.Context, query string, topK int) ([]ChunkHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	corpus, err := s.corpus.Get()
	if err != nil {
		return nil, err
	}

	if topK <= 0 {
		topK = s.opts.DefaultChunks
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	return corpus.Rank(vec, topK), nil
}

func (s *searchService) SearchDocuments(ctx context.Context, query string, role Role, topDocs int) ([]DocumentResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	corpus, err := s.corpus.Get()
	if err != nil {
		return nil, err
	}

	if topDocs <= 0 {
		topDocs = s.opts.DefaultDocs
	}
	if topDocs > s.opts.MaxDocs {
		topDocs = s.opts.MaxDocs
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits := corpus.Rank(vec, s.opts.Candidates)
	return RankDocuments(corpus, hits, role, topDocs), nil
}
