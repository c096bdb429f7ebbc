// Package corpusfile loads and saves the corpus artifact pair: an .npy
// embedding matrix plus a sibling JSONL file of chunk metadata.
package corpusfile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"skynet/src/core/knowledge"
)

// ChunksPath derives the metadata path that sits next to an embeddings
// file: embeddings.npy becomes embeddings_chunks.jsonl.
func ChunksPath(embeddingsPath string) string {
	return strings.TrimSuffix(embeddingsPath, ".npy") + "_chunks.jsonl"
}

// Load reads the embedding matrix and its sibling chunk metadata and
// builds a corpus from the pair.
func Load(embeddingsPath string) (*knowledge.Corpus, error) {
	ef, err := os.Open(embeddingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open embeddings file: %w", err)
	}
	defer ef.Close()

	vectors, err := ReadMatrix(ef)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", knowledge.ErrInvalidCorpus, embeddingsPath, err)
	}

	chunksPath := ChunksPath(embeddingsPath)
	cf, err := os.Open(chunksPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open chunk metadata: %w", err)
	}
	defer cf.Close()

	chunks, err := ReadChunks(cf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", knowledge.ErrInvalidCorpus, chunksPath, err)
	}

	return knowledge.NewCorpus(chunks, vectors)
}

// Save writes the embeddings matrix and chunk metadata as an artifact
// pair under embeddingsPath.
func Save(embeddingsPath string, chunks []knowledge.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors", knowledge.ErrInvalidCorpus, len(chunks), len(vectors))
	}

	ef, err := os.Create(embeddingsPath)
	if err != nil {
		return fmt.Errorf("failed to create embeddings file: %w", err)
	}
	defer ef.Close()
	if err := WriteMatrix(ef, vectors); err != nil {
		return fmt.Errorf("failed to write embeddings: %w", err)
	}

	cf, err := os.Create(ChunksPath(embeddingsPath))
	if err != nil {
		return fmt.Errorf("failed to create chunk metadata: %w", err)
	}
	defer cf.Close()
	if err := WriteChunks(cf, chunks); err != nil {
		return fmt.Errorf("failed to write chunk metadata: %w", err)
	}
	return nil
}

// ReadChunks decodes chunk metadata from JSONL, one object per line.
// Blank lines are skipped.
func ReadChunks(r io.Reader) ([]knowledge.Chunk, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var chunks []knowledge.Chunk
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var c knowledge.Chunk
		if err := json.Unmarshal([]byte(text), &c); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		chunks = append(chunks, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return chunks, nil
}

// WriteChunks encodes chunk metadata as JSONL.
func WriteChunks(w io.Writer, chunks []knowledge.Chunk) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, c := range chunks {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return bw.Flush()
}
