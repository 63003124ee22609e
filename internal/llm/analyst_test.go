package llm

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
)

type fakeClient struct {
	mu        sync.Mutex
	responses map[string]string // system prompt fragment -> response text
	err       error
	calls     int
}

func (f *fakeClient) Complete(_ context.Context, req Request) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for fragment, text := range f.responses {
		if strings.Contains(req.System, fragment) {
			return &Response{Text: text}, nil
		}
	}
	return &Response{Text: "ok"}, nil
}

func TestAnalyzeProduct(t *testing.T) {
	client := &fakeClient{responses: map[string]string{
		"analyze product descriptions": `Here is the analysis:
{"profile":{"industry":"logistics","role":"operations"},"seed_terms":["fleet tracking software","logistics saas"],"summary":"Fleet ops tooling."}`,
	}}
	a := NewAnalyst(client, "test-model")

	analysis, err := a.AnalyzeProduct(context.Background(), "GPS fleet tracking for small carriers")
	require.NoError(t, err)
	assert.Equal(t, "logistics", analysis.Profile.Industry)
	assert.Equal(t, "operations", analysis.Profile.Role)
	require.Len(t, analysis.SeedTerms, 2)
	assert.Equal(t, "fleet tracking software", analysis.SeedTerms[0])
}

func TestAnalyzeProduct_NoSeedTerms(t *testing.T) {
	client := &fakeClient{responses: map[string]string{
		"analyze product descriptions": `{"profile":{},"seed_terms":[],"summary":""}`,
	}}
	a := NewAnalyst(client, "test-model")

	_, err := a.AnalyzeProduct(context.Background(), "something")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no seed terms")
}

func TestAnalyzeProduct_MalformedJSON(t *testing.T) {
	client := &fakeClient{responses: map[string]string{
		"analyze product descriptions": "I cannot help with that.",
	}}
	a := NewAnalyst(client, "test-model")

	_, err := a.AnalyzeProduct(context.Background(), "something")
	assert.Error(t, err)
}

func TestEnrichLeads(t *testing.T) {
	client := &fakeClient{responses: map[string]string{
		"sales insights": "  Acme is hiring ops leads.  ",
	}}
	a := NewAnalyst(client, "test-model")

	leads := []model.RankedLead{
		{Candidate: model.Candidate{Name: "Jane Doe", Company: "Acme"}},
		{Candidate: model.Candidate{Name: "Bob Smith", Company: "Globex"}},
	}
	require.NoError(t, a.EnrichLeads(context.Background(), leads))

	assert.Equal(t, "Acme is hiring ops leads.", leads[0].Insight)
	assert.Equal(t, "Acme is hiring ops leads.", leads[1].Insight)
	assert.Equal(t, 2, client.calls)
}

func TestEnrichLeads_FailuresAreNotFatal(t *testing.T) {
	client := &fakeClient{err: eris.New("rate limited")}
	a := NewAnalyst(client, "test-model")

	leads := []model.RankedLead{{Candidate: model.Candidate{Name: "Jane Doe"}}}
	require.NoError(t, a.EnrichLeads(context.Background(), leads))
	assert.Empty(t, leads[0].Insight)
}

func TestPersonalizeMessage(t *testing.T) {
	client := &fakeClient{responses: map[string]string{
		"outreach messages": "Hi Jane, saw your team page.",
	}}
	a := NewAnalyst(client, "test-model")

	msg, err := a.PersonalizeMessage(context.Background(),
		model.RankedLead{Candidate: model.Candidate{Name: "Jane Doe"}}, "Fleet tracking")
	require.NoError(t, err)
	assert.Equal(t, "Hi Jane, saw your team page.", msg)
}

func TestJSONBody(t *testing.T) {
	assert.Equal(t, `{"a":1}`, jsonBody("prose {\"a\":1} trailing"))
	assert.Equal(t, "no json here", jsonBody("no json here"))
}
