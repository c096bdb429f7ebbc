package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	followupThreshold  = 0.32
	maxFollowupMatches = 12
	evidenceRunes      = 180
	titleRunes         = 160
)

// MatchFollowups embeds the intent text, scores it against every corpus
// vector, and returns the papers whose best chunk clears the relevance
// threshold. The intent's source paper is excluded.
func (s *documentService) MatchFollowups(ctx context.Context, intent string, sourcePMCID string) ([]FollowupMatch, error) {
	intent = strings.TrimSpace(intent)
	if intent == "" {
		return nil, ErrEmptyQuery
	}

	corpus, err := s.corpus.Get()
	if err != nil {
		return nil, err
	}

	vec, err := s.embedder.Embed(ctx, intent)
	if err != nil {
		return nil, fmt.Errorf("failed to embed intent: %w", err)
	}

	order := make([]string, 0)
	best := make(map[string]FollowupMatch)
	for i := 0; i < corpus.Size(); i++ {
		chunk := corpus.ChunkAt(i)
		if chunk.PMCID == sourcePMCID {
			continue
		}
		id := chunk.PMCID
		if id == "" {
			id = chunk.DocID
		}

		score := Cosine(vec, corpus.VectorAt(i))
		cur, ok := best[id]
		if !ok {
			order = append(order, id)
		}
		if !ok || cur.Relevance < score {
			best[id] = FollowupMatch{
				PaperID:   id,
				Title:     Truncate(chunk.Title, titleRunes),
				Relevance: score,
				Evidence:  Truncate(chunk.ChunkText, evidenceRunes),
				Link:      chunk.URL,
			}
		}
	}

	matches := make([]FollowupMatch, 0, len(order))
	for _, id := range order {
		if best[id].Relevance >= followupThreshold {
			matches = append(matches, best[id])
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Relevance > matches[j].Relevance
	})
	if len(matches) > maxFollowupMatches {
		matches = matches[:maxFollowupMatches]
	}

	for i := range matches {
		matches[i].Relevance = math.Round(matches[i].Relevance*1000) / 1000
	}
	return matches, nil
}
