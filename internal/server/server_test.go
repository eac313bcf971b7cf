package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rickgao/pricedata/internal/ingest"
	"github.com/rickgao/pricedata/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRunner struct {
	req     ingest.Request
	summary *model.Summary
	err     error
}

func (f *fakeRunner) Run(ctx context.Context, req ingest.Request) (*model.Summary, error) {
	f.req = req
	return f.summary, f.err
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error { return f.err }

func testSummary() *model.Summary {
	return &model.Summary{
		RunID:       uuid.New(),
		Universe:    "core",
		Instruments: 2,
		OK:          1,
		Fail:        1,
		Results: []model.Outcome{
			{Symbol: "AAA", Status: model.StatusOK, Rows: 5, Mode: model.FetchShort},
			{Symbol: "BBB", Status: model.StatusError, Mode: model.FetchShort, Error: "upstream 503"},
		},
	}
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestRunToday(t *testing.T) {
	t.Run("returns summary with universe from query", func(t *testing.T) {
		runner := &fakeRunner{summary: testSummary()}
		s := New(runner, nil, nil, "")

		rec := doRequest(t, s, http.MethodPost, "/ingest/run-today?universe=smallcap")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if runner.req.Universe != "smallcap" || runner.req.Backfill {
			t.Errorf("request = %+v, want universe smallcap without backfill", runner.req)
		}

		var got model.Summary
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if got.OK != 1 || got.Fail != 1 || len(got.Results) != 2 {
			t.Errorf("summary = %+v, want ok:1 fail:1 with 2 results", got)
		}
	})

	t.Run("all instruments failing is still HTTP 200", func(t *testing.T) {
		runner := &fakeRunner{summary: &model.Summary{
			Universe: "core", Instruments: 1, Fail: 1,
			Results: []model.Outcome{{Symbol: "AAA", Status: model.StatusError, Error: "boom"}},
		}}
		s := New(runner, nil, nil, "")

		rec := doRequest(t, s, http.MethodPost, "/ingest/run-today")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 with failure counts in body", rec.Code)
		}
	})

	t.Run("run-fatal error is 500", func(t *testing.T) {
		runner := &fakeRunner{err: errors.New("universe lookup failed")}
		s := New(runner, nil, nil, "")

		rec := doRequest(t, s, http.MethodPost, "/ingest/run-today")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
	})
}

func TestBackfill(t *testing.T) {
	t.Run("passes explicit range through", func(t *testing.T) {
		runner := &fakeRunner{summary: testSummary()}
		s := New(runner, nil, nil, "")

		rec := doRequest(t, s, http.MethodPost, "/ingest/backfill?start=2024-01-01&end=2024-06-30&universe=core")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !runner.req.Backfill {
			t.Error("request not marked backfill")
		}
		if !runner.req.Start.Equal(model.Date(2024, 1, 1)) || !runner.req.End.Equal(model.Date(2024, 6, 30)) {
			t.Errorf("range = %v..%v, want 2024-01-01..2024-06-30", runner.req.Start, runner.req.End)
		}
	})

	t.Run("omitted end is left zero", func(t *testing.T) {
		runner := &fakeRunner{summary: testSummary()}
		s := New(runner, nil, nil, "")

		rec := doRequest(t, s, http.MethodPost, "/ingest/backfill?start=2024-01-01")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !runner.req.End.IsZero() {
			t.Errorf("End = %v, want zero", runner.req.End)
		}
	})

	t.Run("bad input is 400", func(t *testing.T) {
		for name, target := range map[string]string{
			"missing start":      "/ingest/backfill",
			"malformed start":    "/ingest/backfill?start=01/02/2024",
			"malformed end":      "/ingest/backfill?start=2024-01-01&end=yesterday",
			"end precedes start": "/ingest/backfill?start=2024-06-30&end=2024-01-01",
		} {
			t.Run(name, func(t *testing.T) {
				runner := &fakeRunner{summary: testSummary()}
				s := New(runner, nil, nil, "")

				rec := doRequest(t, s, http.MethodPost, target)
				if rec.Code != http.StatusBadRequest {
					t.Fatalf("status = %d, want 400", rec.Code)
				}
				var apiErr apiError
				if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if apiErr.Code != "bad_request" {
					t.Errorf("code = %q, want bad_request", apiErr.Code)
				}
			})
		}
	})
}

func TestHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		s := New(&fakeRunner{}, &fakePinger{}, nil, "")
		rec := doRequest(t, s, http.MethodGet, "/healthz")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("database unreachable", func(t *testing.T) {
		s := New(&fakeRunner{}, &fakePinger{err: errors.New("dial refused")}, nil, "")
		rec := doRequest(t, s, http.MethodGet, "/healthz")
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	s := New(&fakeRunner{}, nil, nil, "/metrics")
	rec := doRequest(t, s, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("empty metrics body")
	}
}
