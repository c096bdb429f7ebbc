package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	httpHdlr "skynet/handler/http"
	"skynet/src/core/knowledge"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubEmbedder returns a fixed query vector.
type stubEmbedder struct {
	vec []float32
	err error
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.vec, nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = e.vec
	}
	return out, nil
}

func (e *stubEmbedder) Dimension() int { return 0 }

// stubLLM replays scripted outputs, optionally failing the nth call.
type stubLLM struct {
	out   []string
	errAt int
	err   error
	calls int
}

func (l *stubLLM) Complete(ctx context.Context, req knowledge.CompletionRequest) (string, error) {
	l.calls++
	if l.errAt != 0 && l.calls == l.errAt {
		return "", l.err
	}
	if l.calls <= len(l.out) {
		return l.out[l.calls-1], nil
	}
	return "ok", nil
}

type env struct {
	router *gin.Engine
	handle *knowledge.Handle
	emb    *stubEmbedder
	llm    *stubLLM
}

// newEnv wires the real services over a stubbed model provider. A nil
// corpus leaves the handle unpublished, as during startup.
func newEnv(t *testing.T, corpus *knowledge.Corpus) *env {
	t.Helper()

	handle := knowledge.NewHandle()
	if corpus != nil {
		handle.Set(corpus)
	}

	emb := &stubEmbedder{vec: []float32{1, 0}}
	llm := &stubLLM{}

	h := httpHdlr.NewHandler(
		handle,
		knowledge.NewSearchService(handle, emb, knowledge.SearchOptions{}),
		knowledge.NewSummaryService(handle, llm, knowledge.SummaryOptions{}),
		knowledge.NewDocumentService(handle, emb),
		knowledge.NewSystemService(handle, knowledge.SystemInfo{
			Provider:     "openai",
			EmbedModel:   "text-embedding-3-small",
			ChatModel:    "gpt-4o-mini",
			APIKeySet:    true,
			ArtifactPath: "models/embeddings.npy",
		}),
	)

	router := gin.New()
	h.RegisterRoutes(router)
	return &env{router: router, handle: handle, emb: emb, llm: llm}
}

func apiCorpus(t *testing.T) *knowledge.Corpus {
	t.Helper()
	chunks := []knowledge.Chunk{
		{ChunkID: "chunk_000000", DocID: "doc_PMC1", PMCID: "PMC1", Section: "methods", Title: "Mice in Orbit", URL: "https://example.org/PMC1", ChunkText: "methods text one"},
		{ChunkID: "chunk_000001", DocID: "doc_PMC1", PMCID: "PMC1", Section: "results", Title: "Mice in Orbit", URL: "https://example.org/PMC1", ChunkText: "results text one"},
		{ChunkID: "chunk_000002", DocID: "doc_PMC2", PMCID: "PMC2", Section: "funding", Title: "Grant Outcomes", URL: "https://example.org/PMC2", ChunkText: "funding text two"},
		{ChunkID: "chunk_000003", DocID: "doc_PMC3", PMCID: "PMC3", Section: "abstract", Title: "Plant Roots", URL: "https://example.org/PMC3", ChunkText: "abstract text three"},
		{ChunkID: "chunk_000004", DocID: "doc_PMC4", PMCID: "PMC4", Section: "conclusion", Title: "Crew Health", URL: "https://example.org/PMC4", ChunkText: "Future work should assess long-term crews."},
	}
	vectors := [][]float32{
		{1, 0},
		{1, 1},
		{0.6, 0.8},
		{0.8, 0.6},
		{0, 1},
	}
	c, err := knowledge.NewCorpus(chunks, vectors)
	if err != nil {
		t.Fatalf("NewCorpus() error = %v", err)
	}
	return c
}

func emptyCorpus(t *testing.T) *knowledge.Corpus {
	t.Helper()
	c, err := knowledge.NewCorpus(nil, nil)
	if err != nil {
		t.Fatalf("NewCorpus() error = %v", err)
	}
	return c
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := newEnv(t, nil)

	w := doRequest(e.router, http.MethodGet, "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /health before load = %d, want 503", w.Code)
	}
	var status knowledge.HealthStatus
	decodeBody(t, w, &status)
	if status.Status != knowledge.StatusLoading || status.Service != knowledge.ServiceName {
		t.Errorf("health body = %+v", status)
	}

	e.handle.Set(apiCorpus(t))

	w = doRequest(e.router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("GET /health after load = %d, want 200", w.Code)
	}
	decodeBody(t, w, &status)
	if status.Status != knowledge.StatusHealthy {
		t.Errorf("health status = %q, want %q", status.Status, knowledge.StatusHealthy)
	}
	if status.ChunksLoaded != 5 || status.Dimension != 2 {
		t.Errorf("health body = %+v, want 5 chunks dim 2", status)
	}
}

func TestDebugEndpoint(t *testing.T) {
	e := newEnv(t, apiCorpus(t))

	w := doRequest(e.router, http.MethodGet, "/debug", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /debug = %d, want 200", w.Code)
	}

	var report knowledge.DebugReport
	decodeBody(t, w, &report)
	if report.Status != knowledge.StatusHealthy {
		t.Errorf("debug status = %q", report.Status)
	}
	if report.Provider != "openai" || report.ChatModel != "gpt-4o-mini" {
		t.Errorf("debug models = %q/%q", report.Provider, report.ChatModel)
	}
	if !report.APIKeySet {
		t.Error("debug openai_key_set = false, want true")
	}
	if report.ChunksLoaded != 5 || report.Documents != 4 {
		t.Errorf("debug corpus = %d chunks %d documents, want 5 and 4", report.ChunksLoaded, report.Documents)
	}
}

func TestDebugEndpointWhileLoading(t *testing.T) {
	e := newEnv(t, nil)

	w := doRequest(e.router, http.MethodGet, "/debug", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /debug = %d, want 200 even while loading", w.Code)
	}
	var report knowledge.DebugReport
	decodeBody(t, w, &report)
	if report.Status != knowledge.StatusLoading {
		t.Errorf("debug status = %q, want %q", report.Status, knowledge.StatusLoading)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	e := newEnv(t, apiCorpus(t))
	w := doRequest(e.router, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Errorf("GET /metrics = %d, want 200", w.Code)
	}
}
