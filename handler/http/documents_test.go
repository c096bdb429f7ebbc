package http_test

import (
	"net/http"
	"testing"

	httpHdlr "skynet/handler/http"
	"skynet/src/core/knowledge"
)

type trendingResponseBody struct {
	Trending []knowledge.DocumentPreview `json:"trending"`
}

func TestTrendingEndpoint(t *testing.T) {
	e := newEnv(t, apiCorpus(t))

	t.Run("explicit limit", func(t *testing.T) {
		w := doRequest(e.router, http.MethodGet, "/api/trending?limit=2", "")
		if w.Code != http.StatusOK {
			t.Fatalf("GET /api/trending = %d", w.Code)
		}
		var resp trendingResponseBody
		decodeBody(t, w, &resp)
		if len(resp.Trending) != 2 {
			t.Errorf("trending has %d entries, want 2", len(resp.Trending))
		}
	})

	t.Run("default limit", func(t *testing.T) {
		w := doRequest(e.router, http.MethodGet, "/api/trending", "")
		var resp trendingResponseBody
		decodeBody(t, w, &resp)
		if len(resp.Trending) != 4 {
			t.Errorf("trending has %d entries, want all 4 documents", len(resp.Trending))
		}
		seen := map[string]bool{}
		for _, d := range resp.Trending {
			if seen[d.ID] {
				t.Errorf("document %s appears twice", d.ID)
			}
			seen[d.ID] = true
		}
	})

	t.Run("unparseable limit falls back", func(t *testing.T) {
		w := doRequest(e.router, http.MethodGet, "/api/trending?limit=abc", "")
		if w.Code != http.StatusOK {
			t.Fatalf("GET /api/trending = %d", w.Code)
		}
		var resp trendingResponseBody
		decodeBody(t, w, &resp)
		if len(resp.Trending) != 4 {
			t.Errorf("trending has %d entries, want the default sample", len(resp.Trending))
		}
	})

	t.Run("not ready", func(t *testing.T) {
		cold := newEnv(t, nil)
		w := doRequest(cold.router, http.MethodGet, "/api/trending", "")
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("GET /api/trending = %d, want 503", w.Code)
		}
	})
}

func TestFutureWorkEndpoint(t *testing.T) {
	e := newEnv(t, apiCorpus(t))

	w := doRequest(e.router, http.MethodGet, "/api/papers/PMC4/future-work", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/papers/PMC4/future-work = %d, body %s", w.Code, w.Body.String())
	}
	var report knowledge.FutureWorkReport
	decodeBody(t, w, &report)
	if report.PMCID != "PMC4" || report.Title != "Crew Health" {
		t.Errorf("report header = %+v", report)
	}
	if len(report.Items) != 1 {
		t.Errorf("report has %d items, want 1", len(report.Items))
	}

	w = doRequest(e.router, http.MethodGet, "/api/papers/PMC99/future-work", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /api/papers/PMC99/future-work = %d, want 404", w.Code)
	}
	var resp httpHdlr.ErrorResponse
	decodeBody(t, w, &resp)
	if resp.Code != "NOT_FOUND" {
		t.Errorf("error code = %q, want NOT_FOUND", resp.Code)
	}
}

func TestFollowupsEndpoint(t *testing.T) {
	e := newEnv(t, apiCorpus(t))

	body := `{"intent": "assess recovery after reloading", "pmcid": "PMC1"}`
	w := doRequest(e.router, http.MethodPost, "/api/knowledge-tree/followups", body)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/knowledge-tree/followups = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Matches []knowledge.FollowupMatch `json:"matches"`
	}
	decodeBody(t, w, &resp)
	if len(resp.Matches) != 2 {
		t.Fatalf("matches = %+v, want 2 papers over the threshold", resp.Matches)
	}
	if resp.Matches[0].PaperID != "PMC3" {
		t.Errorf("matches[0].PaperID = %q, want the best scoring paper", resp.Matches[0].PaperID)
	}
	for _, m := range resp.Matches {
		if m.PaperID == "PMC1" {
			t.Error("source paper leaked into the matches")
		}
	}
}

func TestFollowupsEndpointValidation(t *testing.T) {
	e := newEnv(t, apiCorpus(t))

	w := doRequest(e.router, http.MethodPost, "/api/knowledge-tree/followups", `{"intent": "", "pmcid": "PMC1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST /api/knowledge-tree/followups = %d, want 400", w.Code)
	}
	var resp httpHdlr.ErrorResponse
	decodeBody(t, w, &resp)
	if resp.Code != "VALIDATION" {
		t.Errorf("error code = %q, want VALIDATION", resp.Code)
	}

	w = doRequest(e.router, http.MethodPost, "/api/knowledge-tree/followups", `{"intent":`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body = %d, want 400", w.Code)
	}
}
