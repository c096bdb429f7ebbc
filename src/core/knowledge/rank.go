package knowledge

import (
	"math"
	"sort"
)

// Cosine returns the cosine similarity of two vectors in [-1, 1].
// Mismatched lengths or a zero vector score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Rank scores the query vector against every stored vector and returns at
// most k hits ordered by non-increasing score. The scan is exhaustive;
// there is no approximate index. A query whose dimension does not match
// the corpus yields no hits.
func (c *Corpus) Rank(query []float32, k int) []ChunkHit {
	if k <= 0 || len(query) != c.dim {
		return nil
	}

	hits := make([]ChunkHit, len(c.vectors))
	for i, vec := range c.vectors {
		hits[i] = ChunkHit{Index: i, Score: Cosine(query, vec)}
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// RankDocuments folds chunk hits into a role-weighted document ranking.
// Each hit adds weight(section) * score to its document's aggregate, where
// the weight table comes from the role. Documents order by aggregate score
// descending; ties keep first-hit order. A document's Chunks keep the hit
// order they arrived in, so the strongest chunk stays first.
func RankDocuments(c *Corpus, hits []ChunkHit, role Role, topDocs int) []DocumentResult {
	if topDocs <= 0 || len(hits) == 0 {
		return []DocumentResult{}
	}

	weights := role.Weights()
	order := make([]string, 0, len(hits))
	byDoc := make(map[string]*DocumentResult, len(hits))

	for _, hit := range hits {
		meta := c.ChunkAt(hit.Index)
		doc, ok := byDoc[meta.DocID]
		if !ok {
			doc = &DocumentResult{
				DocID: meta.DocID,
				PMCID: meta.PMCID,
				Title: meta.Title,
				URL:   meta.URL,
			}
			byDoc[meta.DocID] = doc
			order = append(order, meta.DocID)
		}
		doc.Score += weights[meta.Section] * hit.Score
		doc.Chunks = append(doc.Chunks, hit)
	}

	ranked := make([]DocumentResult, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, *byDoc[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > topDocs {
		ranked = ranked[:topDocs]
	}
	return ranked
}
