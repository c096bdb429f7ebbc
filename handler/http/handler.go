package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skynet/src/core/knowledge"
)

type Handler struct {
	corpus          *knowledge.Handle
	searchService   knowledge.SearchService
	summaryService  knowledge.SummaryService
	documentService knowledge.DocumentService
	systemService   knowledge.SystemService
}

func NewHandler(corpus *knowledge.Handle, searchService knowledge.SearchService, summaryService knowledge.SummaryService, documentService knowledge.DocumentService, systemService knowledge.SystemService) *Handler {
	return &Handler{
		corpus:          corpus,
		searchService:   searchService,
		summaryService:  summaryService,
		documentService: documentService,
		systemService:   systemService,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.CheckHealth)
	r.GET("/debug", h.Describe)
	r.GET("/metrics", MetricsHandler())

	api := r.Group("/api")
	api.POST("/search", h.Search)
	api.GET("/trending", h.Trending)
	api.GET("/papers/:pmcid/future-work", h.FutureWork)
	api.POST("/knowledge-tree/followups", h.MatchFollowups)
}

// Common error response structure
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// sendError maps service errors onto the response envelope. Sentinel and
// provider errors override the status the handler suggested.
func sendError(c *gin.Context, status int, err error) {
	code := codeForStatus(status)
	var remote *knowledge.RemoteError

	switch {
	case errors.Is(err, knowledge.ErrEmptyQuery):
		code = "VALIDATION"
		status = http.StatusBadRequest
	case errors.Is(err, knowledge.ErrNotReady):
		code = "NOT_READY"
		status = http.StatusServiceUnavailable
	case errors.Is(err, knowledge.ErrUnknownDocument):
		code = "NOT_FOUND"
		status = http.StatusNotFound
	case errors.As(err, &remote):
		code = "REMOTE_UNAVAILABLE"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusServiceUnavailable:
		return "NOT_READY"
	default:
		return "INTERNAL"
	}
}

func sendJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
