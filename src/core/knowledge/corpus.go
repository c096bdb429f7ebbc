package knowledge

import (
	"fmt"
	"sync"
	"time"
)

// Corpus holds the chunk metadata and the embedding matrix loaded at
// startup. It is immutable once constructed, so concurrent readers need
// no locking.
type Corpus struct {
	chunks   []Chunk
	vectors  [][]float32
	dim      int
	docs     int
	loadedAt time.Time
}

// NewCorpus pairs chunk metadata with embedding vectors. The counts must
// match and every vector must share the same dimension.
func NewCorpus(chunks []Chunk, vectors [][]float32) (*Corpus, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("%w: %d chunks but %d vectors", ErrInvalidCorpus, len(chunks), len(vectors))
	}

	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
		if dim == 0 {
			return nil, fmt.Errorf("%w: vectors have zero dimension", ErrInvalidCorpus)
		}
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d", ErrInvalidCorpus, i, len(v), dim)
		}
	}

	seen := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		seen[c.DocID] = struct{}{}
	}

	return &Corpus{
		chunks:   chunks,
		vectors:  vectors,
		dim:      dim,
		docs:     len(seen),
		loadedAt: time.Now(),
	}, nil
}

// Size returns the number of chunks.
func (c *Corpus) Size() int {
	return len(c.chunks)
}

// Dimension returns the embedding width shared by all vectors.
func (c *Corpus) Dimension() int {
	return c.dim
}

// DocumentCount returns the number of distinct publications.
func (c *Corpus) DocumentCount() int {
	return c.docs
}

// LoadedAt returns the construction time.
func (c *Corpus) LoadedAt() time.Time {
	return c.loadedAt
}

// ChunkAt returns the chunk stored at index i.
func (c *Corpus) ChunkAt(i int) Chunk {
	return c.chunks[i]
}

// VectorAt returns the embedding stored at index i. Callers must not
// modify the returned slice.
func (c *Corpus) VectorAt(i int) []float32 {
	return c.vectors[i]
}

// Handle is the swap-once corpus holder handed to request handlers. The
// corpus loads in the background at startup; until the single Set the
// handle reports not ready.
type Handle struct {
	mu     sync.RWMutex
	corpus *Corpus
}

func NewHandle() *Handle {
	return &Handle{}
}

// Ready reports whether a corpus has been published.
func (h *Handle) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.corpus != nil
}

// Get returns the published corpus or ErrNotReady.
func (h *Handle) Get() (*Corpus, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.corpus == nil {
		return nil, ErrNotReady
	}
	return h.corpus, nil
}

// Set publishes the loaded corpus.
func (h *Handle) Set(c *Corpus) {
	h.mu.Lock()
	h.corpus = c
	h.mu.Unlock()
}
