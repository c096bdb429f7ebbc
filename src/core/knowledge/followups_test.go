package knowledge_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"skynet/src/core/knowledge"
)

func followupTestHandle(t *testing.T) *knowledge.Handle {
	t.Helper()
	chunks := []knowledge.Chunk{
		{ChunkID: "chunk_000000", DocID: "doc_PMC1", PMCID: "PMC1", Section: "discussion", Title: "Source Paper", URL: "https://example.org/PMC1", ChunkText: "source paper text"},
		{ChunkID: "chunk_000001", DocID: "doc_PMC2", PMCID: "PMC2", Section: "results", Title: "Weak Chapter", URL: "https://example.org/PMC2", ChunkText: "weak chunk text"},
		{ChunkID: "chunk_000002", DocID: "doc_PMC2", PMCID: "PMC2", Section: "methods", Title: "Strong Chapter", URL: "https://example.org/PMC2", ChunkText: "strong chunk text"},
		{ChunkID: "chunk_000003", DocID: "doc_PMC3", PMCID: "PMC3", Section: "methods", Title: "Below Threshold", URL: "https://example.org/PMC3", ChunkText: "barely related text"},
		{ChunkID: "chunk_000004", DocID: "doc_PMC4", PMCID: "PMC4", Section: "results", Title: "Mid Relevance", URL: "https://example.org/PMC4", ChunkText: "somewhat related text"},
	}
	vectors := [][]float32{
		{1, 0},
		{0, 1},
		{1, 0},
		{1, 3},
		{1, 1},
	}
	return newReadyHandle(t, chunks, vectors)
}

func TestMatchFollowups(t *testing.T) {
	emb := &stubEmbedder{vec: []float32{1, 0}}
	svc := knowledge.NewDocumentService(followupTestHandle(t), emb)

	matches, err := svc.MatchFollowups(context.Background(), "assess recovery after reloading", "PMC1")
	if err != nil {
		t.Fatalf("MatchFollowups() error = %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("MatchFollowups() returned %d matches, want 2", len(matches))
	}

	best := matches[0]
	if best.PaperID != "PMC2" {
		t.Errorf("matches[0].PaperID = %q, want PMC2", best.PaperID)
	}
	if best.Relevance != 1 {
		t.Errorf("matches[0].Relevance = %v, want 1", best.Relevance)
	}
	if best.Evidence != "strong chunk text" || best.Title != "Strong Chapter" {
		t.Errorf("matches[0] should carry the best chunk of the paper, got evidence %q title %q", best.Evidence, best.Title)
	}
	if best.Link != "https://example.org/PMC2" {
		t.Errorf("matches[0].Link = %q", best.Link)
	}

	second := matches[1]
	if second.PaperID != "PMC4" {
		t.Errorf("matches[1].PaperID = %q, want PMC4", second.PaperID)
	}
	if second.Relevance != 0.707 {
		t.Errorf("matches[1].Relevance = %v, want 0.707 after rounding", second.Relevance)
	}

	for _, m := range matches {
		if m.PaperID == "PMC1" {
			t.Error("source paper must be excluded from matches")
		}
		if m.PaperID == "PMC3" {
			t.Error("papers below the relevance threshold must be excluded")
		}
	}
}

func TestMatchFollowupsValidation(t *testing.T) {
	emb := &stubEmbedder{vec: []float32{1, 0}}
	svc := knowledge.NewDocumentService(followupTestHandle(t), emb)

	for _, intent := range []string{"", "   "} {
		if _, err := svc.MatchFollowups(context.Background(), intent, "PMC1"); !errors.Is(err, knowledge.ErrEmptyQuery) {
			t.Errorf("MatchFollowups(%q) error = %v, want ErrEmptyQuery", intent, err)
		}
	}

	notReady := knowledge.NewDocumentService(knowledge.NewHandle(), emb)
	if _, err := notReady.MatchFollowups(context.Background(), "an intent", "PMC1"); !errors.Is(err, knowledge.ErrNotReady) {
		t.Errorf("MatchFollowups(not ready) error = %v, want ErrNotReady", err)
	}
}

func TestMatchFollowupsEmbedError(t *testing.T) {
	errBoom := errors.New("boom")
	emb := &stubEmbedder{err: errBoom}
	svc := knowledge.NewDocumentService(followupTestHandle(t), emb)

	_, err := svc.MatchFollowups(context.Background(), "an intent", "PMC1")
	if !errors.Is(err, errBoom) {
		t.Errorf("MatchFollowups() error = %v, want wrapped embed error", err)
	}
}

func TestMatchFollowupsCapAndTruncation(t *testing.T) {
	longTitle := strings.Repeat("t", 300)
	longText := strings.Repeat("e", 300)

	chunks := make([]knowledge.Chunk, 0, 15)
	vectors := make([][]float32, 0, 15)
	for i := 0; i < 15; i++ {
		pmcid := fmt.Sprintf("PMC%02d", i)
		chunks = append(chunks, knowledge.Chunk{
			ChunkID:   fmt.Sprintf("chunk_%06d", i),
			DocID:     "doc_" + pmcid,
			PMCID:     pmcid,
			Section:   "results",
			Title:     longTitle,
			URL:       "https://example.org/" + pmcid,
			ChunkText: longText,
		})
		vectors = append(vectors, []float32{1, 0})
	}

	emb := &stubEmbedder{vec: []float32{1, 0}}
	svc := knowledge.NewDocumentService(newReadyHandle(t, chunks, vectors), emb)

	matches, err := svc.MatchFollowups(context.Background(), "an intent", "PMC99")
	if err != nil {
		t.Fatalf("MatchFollowups() error = %v", err)
	}

	if len(matches) != 12 {
		t.Fatalf("MatchFollowups() returned %d matches, want the 12 match cap", len(matches))
	}
	if got := len([]rune(matches[0].Title)); got != 160 {
		t.Errorf("Title length = %d runes, want 160", got)
	}
	if got := len([]rune(matches[0].Evidence)); got != 180 {
		t.Errorf("Evidence length = %d runes, want 180", got)
	}
}
