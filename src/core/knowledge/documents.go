package knowledge

import (
	"fmt"
)

const (
	trendingSample       = 100
	defaultTrendingLimit = 8
	maxTrendingLimit     = 20
	previewRunes         = 150
)

type documentService struct {
	corpus   *Handle
	embedder Embedder
}

func NewDocumentService(corpus *Handle, embedder Embedder) DocumentService {
	return &documentService{
		corpus:   corpus,
		embedder: embedder,
	}
}

// Trending returns up to limit distinct publications sampled from the
// head of the corpus, with a short text preview each.
func (s *documentService) Trending(limit int) ([]DocumentPreview, error) {
	corpus, err := s.corpus.Get()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultTrendingLimit
	}
	if limit > maxTrendingLimit {
		limit = maxTrendingLimit
	}

	sample := corpus.Size()
	if sample > trendingSample {
		sample = trendingSample
	}

	seen := make(map[string]struct{}, limit)
	trending := make([]DocumentPreview, 0, limit)
	for i := 0; i < sample && len(trending) < limit; i++ {
		chunk := corpus.ChunkAt(i)
		if _, ok := seen[chunk.DocID]; ok {
			continue
		}
		seen[chunk.DocID] = struct{}{}
		trending = append(trending, DocumentPreview{
			ID:      chunk.DocID,
			Title:   chunk.Title,
			PMCID:   chunk.PMCID,
			URL:     chunk.URL,
			Section: chunk.Section,
			Preview: Preview(chunk.ChunkText, previewRunes),
		})
	}
	return trending, nil
}

// FutureWork extracts follow-up research intents from one paper's chunks.
func (s *documentService) FutureWork(pmcid string) (*FutureWorkReport, error) {
	corpus, err := s.corpus.Get()
	if err != nil {
		return nil, err
	}

	report := &FutureWorkReport{PMCID: pmcid}
	found := false
	for i := 0; i < corpus.Size(); i++ {
		chunk := corpus.ChunkAt(i)
		if chunk.PMCID == pmcid {
			report.Title = chunk.Title
			report.URL = chunk.URL
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, pmcid)
	}

	report.Items = ExtractFutureWork(corpus, pmcid)
	return report, nil
}

// DocumentContent joins a document's strongest chunk texts for display,
// using at most maxChunks of them.
func DocumentContent(c *Corpus, doc DocumentResult, maxChunks int) string {
	hits := doc.Chunks
	if maxChunks > 0 && len(hits) > maxChunks {
		hits = hits[:maxChunks]
	}
	out := ""
	for i, hit := range hits {
		if i > 0 {
			out += "\n\n"
		}
		out += c.ChunkAt(hit.Index).ChunkText
	}
	return out
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Preview cuts s to at most n runes, marking dropped text with an ellipsis.
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
