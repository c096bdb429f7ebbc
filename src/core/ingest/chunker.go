package ingest

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	chunkTokens  = 800
	chunkOverlap = 0
)

// SplitSection cuts section text into windows of at most 800 tokens in
// the cl100k_base encoding, matching what the embedding model consumes.
func SplitSection(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	splitter := textsplitter.NewTokenSplitter(
		textsplitter.WithChunkSize(chunkTokens),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)
	return splitter.SplitText(text)
}
