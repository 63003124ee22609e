package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/llm"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/pipeline"
	"github.com/sells-group/leadscout/internal/store"
)

type stubRunner struct {
	res *pipeline.Result
	err error
	req pipeline.Request
}

func (r *stubRunner) Run(_ context.Context, req pipeline.Request) (*pipeline.Result, error) {
	r.req = req
	if r.err != nil {
		return nil, r.err
	}
	return r.res, nil
}

type stubAnalyst struct {
	analysis *llm.ProductAnalysis
	err      error
}

func (a *stubAnalyst) AnalyzeProduct(_ context.Context, _ string) (*llm.ProductAnalysis, error) {
	return a.analysis, a.err
}

func (a *stubAnalyst) EnrichLeads(_ context.Context, leads []model.RankedLead) error {
	for i := range leads {
		leads[i].Insight = "enriched"
	}
	return nil
}

func (a *stubAnalyst) PersonalizeMessage(_ context.Context, lead model.RankedLead, _ string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	return "Hi " + lead.Name, nil
}

func newTestServer(t *testing.T, runner Runner, analyst Analyst) (*Server, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return New(st, runner, analyst), st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, &stubRunner{}, nil)
	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestFindLeads(t *testing.T) {
	runner := &stubRunner{res: &pipeline.Result{
		Leads: []model.RankedLead{
			{Candidate: model.Candidate{ID: "l1", Name: "Jane Doe", Email: "jane@acme.io"}, QualityScore: 10},
		},
		QueriesIssued: 3,
		PagesFetched:  5,
	}}
	s, st := newTestServer(t, runner, &stubAnalyst{})

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/find-leads",
		map[string]any{"seed": "fleet tracking", "count": 5})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp findLeadsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Leads, 1)
	assert.Equal(t, "Jane Doe", resp.Leads[0].Name)
	assert.Equal(t, "enriched", resp.Leads[0].Insight)
	assert.Equal(t, 5, runner.req.Count)

	// Run and leads were persisted.
	run, err := st.GetRun(context.Background(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, store.RunStatusComplete, run.Status)
	assert.Equal(t, 3, run.Stats.QueriesIssued)

	leads, err := st.ListLeads(context.Background(), resp.RunID)
	require.NoError(t, err)
	require.Len(t, leads, 1)
}

func TestFindLeads_DescriptionDerivesSeed(t *testing.T) {
	runner := &stubRunner{res: &pipeline.Result{}}
	analyst := &stubAnalyst{analysis: &llm.ProductAnalysis{
		Profile:   model.AudienceProfile{Industry: "logistics"},
		SeedTerms: []string{"fleet tracking software"},
	}}
	s, _ := newTestServer(t, runner, analyst)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/find-leads",
		map[string]any{"description": "GPS tracking for small carriers"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fleet tracking software", runner.req.Seed)
	assert.Equal(t, "logistics", runner.req.Profile.Industry)
	assert.Equal(t, defaultLeadCount, runner.req.Count)
}

func TestFindLeads_MissingSeed(t *testing.T) {
	s, _ := newTestServer(t, &stubRunner{}, nil)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/find-leads", map[string]any{"count": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindLeads_RunFailureRecorded(t *testing.T) {
	runner := &stubRunner{err: eris.New("no backends")}
	s, st := newTestServer(t, runner, nil)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/find-leads",
		map[string]any{"seed": "widgets"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	runs, err := st.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, store.RunStatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "no backends")
}

func TestAnalyzeProduct(t *testing.T) {
	analyst := &stubAnalyst{analysis: &llm.ProductAnalysis{
		SeedTerms: []string{"fleet tracking"},
		Summary:   "Fleet ops tooling.",
	}}
	s, _ := newTestServer(t, &stubRunner{}, analyst)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/analyze-product",
		map[string]string{"description": "GPS tracking"})

	require.Equal(t, http.StatusOK, rec.Code)
	var got llm.ProductAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Fleet ops tooling.", got.Summary)
}

func TestAnalyzeProduct_NoAnalyst(t *testing.T) {
	s, _ := newTestServer(t, &stubRunner{}, nil)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/analyze-product",
		map[string]string{"description": "GPS tracking"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPersonalizeMessages(t *testing.T) {
	s, _ := newTestServer(t, &stubRunner{}, &stubAnalyst{})

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/personalize-messages", personalizeRequest{
		Product: "Fleet tracking",
		Leads: []model.RankedLead{
			{Candidate: model.Candidate{ID: "l1", Name: "Jane Doe"}},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Messages []personalizedMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "Hi Jane Doe", resp.Messages[0].Message)
}

func TestRunLeads_NotFound(t *testing.T) {
	s, _ := newTestServer(t, &stubRunner{}, nil)
	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/runs/nope/leads", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
