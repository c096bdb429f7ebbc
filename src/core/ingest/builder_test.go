package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func seedPage(t *testing.T, dir, pmcid, page string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, pmcid+".html"), []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildChunkOrder(t *testing.T) {
	dir := t.TempDir()
	seedPage(t, dir, "PMC1", `<html><body>
<div class="abstract"><p>Bones weaken in orbit.</p></div>
<article>
<h2>Results</h2><p>Density fell by a tenth.</p>
<h2>Introduction</h2><p>Mice preceded humans to orbit.</p>
<h2>Funding</h2><p>This study was supported by grant NNX-123.</p>
</article>
</body></html>`)

	b := NewChunkBuilder(NewFetcher(dir, nil))
	b.split = func(text string) ([]string, error) { return []string{text}, nil }

	pub := Publication{PMCID: "PMC1", Title: "Mice in Orbit", URL: "https://example.org/PMC1"}
	chunks, err := b.Build(context.Background(), pub)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var sections []string
	for _, c := range chunks {
		sections = append(sections, c.Section)
	}
	// Body sections come back in name order, after the abstract and
	// before the extracted funding sentences.
	want := []string{"abstract", "funding", "introduction", "results", "funding"}
	if len(sections) != len(want) {
		t.Fatalf("Build() produced sections %v, want %v", sections, want)
	}
	for i := range want {
		if sections[i] != want[i] {
			t.Fatalf("Build() produced sections %v, want %v", sections, want)
		}
	}

	for i, c := range chunks {
		if c.DocID != "doc_PMC1" || c.PMCID != "PMC1" {
			t.Errorf("chunks[%d] ids = %s/%s", i, c.DocID, c.PMCID)
		}
		if c.Title != "Mice in Orbit" || c.URL != "https://example.org/PMC1" {
			t.Errorf("chunks[%d] metadata = %q %q", i, c.Title, c.URL)
		}
	}
	if chunks[0].ChunkID != "chunk_000000" || chunks[1].ChunkID != "chunk_000001" {
		t.Errorf("chunk ids = %s, %s", chunks[0].ChunkID, chunks[1].ChunkID)
	}
	if chunks[0].ChunkText != "Bones weaken in orbit." {
		t.Errorf("abstract chunk text = %q", chunks[0].ChunkText)
	}
}

func TestBuildCountsAcrossPublications(t *testing.T) {
	dir := t.TempDir()
	page := `<html><body><div class="abstract"><p>One short abstract.</p></div></body></html>`
	seedPage(t, dir, "PMC1", page)
	seedPage(t, dir, "PMC2", page)

	b := NewChunkBuilder(NewFetcher(dir, nil))
	b.split = func(text string) ([]string, error) { return []string{text}, nil }

	first, err := b.Build(context.Background(), Publication{PMCID: "PMC1", Title: "First", URL: "https://example.org/PMC1"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	second, err := b.Build(context.Background(), Publication{PMCID: "PMC2", Title: "Second", URL: "https://example.org/PMC2"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if first[0].ChunkID != "chunk_000000" {
		t.Errorf("first chunk id = %s", first[0].ChunkID)
	}
	if second[0].ChunkID != "chunk_000001" {
		t.Errorf("second chunk id = %s, want the counter to continue", second[0].ChunkID)
	}
}

func TestBuildSplitsLongSections(t *testing.T) {
	dir := t.TempDir()
	seedPage(t, dir, "PMC1", `<html><body><div class="abstract"><p>Part one and part two.</p></div></body></html>`)

	b := NewChunkBuilder(NewFetcher(dir, nil))
	b.split = func(text string) ([]string, error) {
		return []string{"part one", "part two"}, nil
	}

	chunks, err := b.Build(context.Background(), Publication{PMCID: "PMC1", Title: "Split", URL: "https://example.org/PMC1"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("Build() produced %d chunks, want 2", len(chunks))
	}
	if chunks[0].ChunkText != "part one" || chunks[1].ChunkText != "part two" {
		t.Errorf("chunk texts = %q, %q", chunks[0].ChunkText, chunks[1].ChunkText)
	}
	if chunks[0].Section != "abstract" || chunks[1].Section != "abstract" {
		t.Errorf("chunk sections = %q, %q, want both abstract", chunks[0].Section, chunks[1].Section)
	}
}
