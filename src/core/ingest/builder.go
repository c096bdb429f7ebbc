package ingest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"skynet/src/core/knowledge"
)

// ChunkBuilder turns publications into corpus chunks, assigning
// sequential chunk ids across every call.
type ChunkBuilder struct {
	fetcher *Fetcher
	split   func(string) ([]string, error)
	counter int
}

// NewChunkBuilder creates a builder that fetches pages through fetcher
// and splits text with SplitSection.
func NewChunkBuilder(fetcher *Fetcher) *ChunkBuilder {
	return &ChunkBuilder{fetcher: fetcher, split: SplitSection}
}

// Build fetches and parses one publication and returns its chunks:
// abstract first, then body sections in name order, then the funding and
// acknowledgement extracts.
func (b *ChunkBuilder) Build(ctx context.Context, pub Publication) ([]knowledge.Chunk, error) {
	page, err := b.fetcher.Fetch(ctx, pub.URL, pub.PMCID)
	if err != nil {
		return nil, err
	}
	parsed, err := ParseArticle(page)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pub.PMCID, err)
	}

	var chunks []knowledge.Chunk
	add := func(section, text string) error {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		parts, err := b.split(text)
		if err != nil {
			return fmt.Errorf("failed to split %s section of %s: %w", section, pub.PMCID, err)
		}
		for _, part := range parts {
			chunks = append(chunks, knowledge.Chunk{
				ChunkID:   fmt.Sprintf("chunk_%06d", b.counter),
				DocID:     "doc_" + pub.PMCID,
				PMCID:     pub.PMCID,
				Section:   section,
				ChunkText: part,
				Title:     pub.Title,
				URL:       pub.URL,
			})
			b.counter++
		}
		return nil
	}

	if err := add("abstract", parsed.Abstract); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(parsed.Sections))
	for name := range parsed.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := add(name, parsed.Sections[name]); err != nil {
			return nil, err
		}
	}
	if err := add("funding", parsed.Funding); err != nil {
		return nil, err
	}
	if err := add("acknowledgements", parsed.Acknowledgements); err != nil {
		return nil, err
	}
	return chunks, nil
}
