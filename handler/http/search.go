package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skynet/src/core/knowledge"
)

const (
	contentChunks = 3
	contentRunes  = 500
)

type searchRequest struct {
	Query    string           `json:"query"`
	Role     string           `json:"role"`
	TopDocs  int              `json:"top_docs"`
	Messages []knowledge.Turn `json:"messages"`
}

type searchResult struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	PMCID   string  `json:"pmcid"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type searchResponse struct {
	Summary string           `json:"summary"`
	Results []searchResult   `json:"results"`
	Count   int              `json:"count"`
	Role    string           `json:"role"`
	Query   string           `json:"query"`
	History []knowledge.Turn `json:"history"`
}

// Search godoc
// @Summary Role-weighted document search with an AI summary
// @Tags search
// @Accept json
// @Produce json
// @Param body body searchRequest true "Search parameters"
// @Success 200 {object} searchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/search [post]
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	roleEcho := req.Role
	if roleEcho == "" {
		roleEcho = string(knowledge.RoleResearcher)
	}
	role := knowledge.NormalizeRole(req.Role)

	docs, err := h.searchService.SearchDocuments(c.Request.Context(), req.Query, role, req.TopDocs)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	userTurns := make([]knowledge.Turn, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == "user" {
			userTurns = append(userTurns, m)
		}
	}

	if len(docs) == 0 {
		canned := knowledge.NoResultsSummary(req.Query)
		sendJSON(c, http.StatusOK, searchResponse{
			Summary: canned,
			Results: []searchResult{},
			Count:   0,
			Role:    roleEcho,
			Query:   req.Query,
			History: append(userTurns, knowledge.Turn{Role: "assistant", Content: canned}),
		})
		return
	}

	summary, err := h.summaryService.Summarize(c.Request.Context(), role, req.Query, docs, req.Messages)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	corpus, err := h.corpus.Get()
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	results := make([]searchResult, 0, len(docs))
	for _, doc := range docs {
		content := knowledge.DocumentContent(corpus, doc, contentChunks)
		results = append(results, searchResult{
			ID:      doc.DocID,
			Title:   doc.Title,
			PMCID:   doc.PMCID,
			URL:     doc.URL,
			Content: knowledge.Preview(content, contentRunes),
			Score:   doc.Score,
		})
	}

	sendJSON(c, http.StatusOK, searchResponse{
		Summary: summary.Text,
		Results: results,
		Count:   len(results),
		Role:    roleEcho,
		Query:   req.Query,
		History: append(userTurns, knowledge.Turn{Role: "assistant", Content: summary.Text}),
	})
}
