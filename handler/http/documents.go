package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type followupRequest struct {
	Intent string `json:"intent"`
	PMCID  string `json:"pmcid"`
}

// Trending godoc
// @Summary Sample distinct publications from the corpus head
// @Tags documents
// @Produce json
// @Param limit query int false "Number of publications" default(8)
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} ErrorResponse
// @Router /api/trending [get]
func (h *Handler) Trending(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	trending, err := h.documentService.Trending(limit)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, gin.H{"trending": trending})
}

// FutureWork godoc
// @Summary Extract follow-up research intents from one paper
// @Tags documents
// @Produce json
// @Param pmcid path string true "PMC identifier"
// @Success 200 {object} knowledge.FutureWorkReport
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/papers/{pmcid}/future-work [get]
func (h *Handler) FutureWork(c *gin.Context) {
	report, err := h.documentService.FutureWork(c.Param("pmcid"))
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, report)
}

// MatchFollowups godoc
// @Summary Match a research intent against other papers in the corpus
// @Tags documents
// @Accept json
// @Produce json
// @Param body body followupRequest true "Intent parameters"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/knowledge-tree/followups [post]
func (h *Handler) MatchFollowups(c *gin.Context) {
	var req followupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	matches, err := h.documentService.MatchFollowups(c.Request.Context(), req.Intent, req.PMCID)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, gin.H{"matches": matches})
}
