package knowledge

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"skynet/src/log"
)

// SummaryOptions tunes the two-stage summarization pipeline. Zero values
// take the defaults below.
type SummaryOptions struct {
	// MaxChunksPerDoc caps the chunks fed into each per-paper summary.
	MaxChunksPerDoc int
	// DocTokens is the completion budget for a per-paper summary.
	DocTokens int
	// FinalTokens is the completion budget for the consolidated summary.
	FinalTokens int
	// ContextBudget caps the estimated prompt tokens of chunk text per paper.
	ContextBudget int
}

const (
	defaultMaxChunksPerDoc = 3
	defaultDocTokens       = 300
	defaultFinalTokens     = 500
	defaultContextBudget   = 2400
)

type summaryService struct {
	corpus *Handle
	llm    LLMProvider
	opts   SummaryOptions
}

func NewSummaryService(corpus *Handle, llm LLMProvider, opts SummaryOptions) SummaryService {
	if opts.MaxChunksPerDoc <= 0 {
		opts.MaxChunksPerDoc = defaultMaxChunksPerDoc
	}
	if opts.DocTokens <= 0 {
		opts.DocTokens = defaultDocTokens
	}
	if opts.FinalTokens <= 0 {
		opts.FinalTokens = defaultFinalTokens
	}
	if opts.ContextBudget <= 0 {
		opts.ContextBudget = defaultContextBudget
	}
	return &summaryService{
		corpus: corpus,
		llm:    llm,
		opts:   opts,
	}
}

// Summarize runs the two-stage pipeline: one summary per paper from its
// strongest chunks, then a single consolidation tailored to the role. The
// caller's history is attached to the consolidation call only.
func (s *summaryService) Summarize(ctx context.Context, role Role, query string, docs []DocumentResult, history []Turn) (*Summary, error) {
	corpus, err := s.corpus.Get()
	if err != nil {
		return nil, err
	}

	log.Debug("generating summaries", "query", query, "role", string(role), "documents", len(docs))

	system := role.SystemPrompt()
	perDoc := make([]DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		text := s.collectChunkText(corpus, doc)
		prompt, err := renderPrompt(PerDocumentSummaryPromptTmpl, map[string]string{
			"System": system,
			"Text":   text,
		})
		if err != nil {
			return nil, err
		}

		out, err := s.llm.Complete(ctx, CompletionRequest{
			System:    system,
			Prompt:    prompt,
			MaxTokens: s.opts.DocTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to summarize document %s: %w", doc.PMCID, err)
		}

		perDoc = append(perDoc, DocumentSummary{
			PMCID: doc.PMCID,
			Title: doc.Title,
			URL:   doc.URL,
			Score: doc.Score,
			Text:  strings.TrimSpace(out),
		})
	}

	parts := make([]string, len(perDoc))
	for i, d := range perDoc {
		parts[i] = d.Text
	}
	prompt, err := renderPrompt(ConsolidationPromptTmpl, map[string]string{
		"System":    system,
		"Summaries": strings.Join(parts, "\n\n"),
	})
	if err != nil {
		return nil, err
	}

	out, err := s.llm.Complete(ctx, CompletionRequest{
		System:    system,
		History:   history,
		Prompt:    prompt,
		MaxTokens: s.opts.FinalTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to consolidate summaries: %w", err)
	}

	return &Summary{
		Text:      strings.TrimSpace(out),
		Documents: perDoc,
	}, nil
}

// collectChunkText joins a document's strongest chunks as "[section] text"
// blocks, dropping trailing chunks once the estimated token budget is
// spent. At least one chunk is always kept.
func (s *summaryService) collectChunkText(corpus *Corpus, doc DocumentResult) string {
	hits := doc.Chunks
	if len(hits) > s.opts.MaxChunksPerDoc {
		hits = hits[:s.opts.MaxChunksPerDoc]
	}

	parts := make([]string, 0, len(hits))
	used := 0
	for _, hit := range hits {
		chunk := corpus.ChunkAt(hit.Index)
		part := fmt.Sprintf("[%s] %s", chunk.Section, chunk.ChunkText)
		cost := EstimateTokens(part)
		if used+cost > s.opts.ContextBudget && len(parts) > 0 {
			break
		}
		parts = append(parts, part)
		used += cost
	}
	return strings.Join(parts, "\n\n")
}

func renderPrompt(tmpl string, data map[string]string) (string, error) {
	var buf bytes.Buffer
	t := template.Must(template.New("prompt").Parse(tmpl))
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// NoResultsSummary is the canned reply for queries nothing matched.
func NoResultsSummary(query string) string {
	return fmt.Sprintf("I couldn't find relevant information for your query: '%s'. "+
		"Please try rephrasing your question or using different keywords.", query)
}
