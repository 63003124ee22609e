package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadscout/internal/model"
)

// enrichConcurrency bounds parallel enrichment requests.
const enrichConcurrency = 4

// ProductAnalysis is the structured result of analyzing a product
// description: who to look for and what to search with.
type ProductAnalysis struct {
	Profile   model.AudienceProfile `json:"profile"`
	SeedTerms []string              `json:"seed_terms"`
	Summary   string                `json:"summary"`
}

// Analyst runs the language tasks over a Client.
type Analyst struct {
	client Client
	model  string
}

// NewAnalyst creates an Analyst.
func NewAnalyst(client Client, model string) *Analyst {
	return &Analyst{client: client, model: model}
}

const analyzeSystem = `You analyze product descriptions for B2B lead discovery.
Respond with only a JSON object:
{"profile":{"industry":"","role":"","company_size_hint":""},"seed_terms":[],"summary":""}
seed_terms are 3-5 short search phrases likely to surface buyer companies.`

// AnalyzeProduct derives a target audience profile and seed search terms
// from a free-text product description.
func (a *Analyst) AnalyzeProduct(ctx context.Context, description string) (*ProductAnalysis, error) {
	resp, err := a.client.Complete(ctx, Request{
		System:    analyzeSystem,
		Prompt:    description,
		MaxTokens: 1024,
	})
	if err != nil {
		return nil, eris.Wrap(err, "llm: analyze product")
	}
	resp.Usage.Log(a.model, "analyze")

	var analysis ProductAnalysis
	if err := json.Unmarshal([]byte(jsonBody(resp.Text)), &analysis); err != nil {
		return nil, eris.Wrap(err, "llm: parse product analysis")
	}
	if len(analysis.SeedTerms) == 0 {
		return nil, eris.New("llm: product analysis returned no seed terms")
	}
	return &analysis, nil
}

const enrichSystem = `You write one-sentence sales insights for discovered leads.
Given a contact and their company, respond with a single plain sentence on why
they may be worth reaching out to. No preamble.`

// EnrichLeads fills each lead's Insight in place. Enrichment is best effort;
// a failed request leaves that lead's insight empty and the rest proceed.
func (a *Analyst) EnrichLeads(ctx context.Context, leads []model.RankedLead) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)

	for i := range leads {
		g.Go(func() error {
			lead := &leads[i]
			resp, err := a.client.Complete(ctx, Request{
				System:      enrichSystem,
				Prompt:      leadSummary(lead),
				MaxTokens:   256,
				CacheSystem: true,
			})
			if err != nil {
				zap.L().Warn("llm: enrich lead failed",
					zap.String("lead", lead.Name), zap.Error(err))
				return nil
			}
			resp.Usage.Log(a.model, "enrich")
			lead.Insight = strings.TrimSpace(resp.Text)
			return nil
		})
	}
	return g.Wait()
}

const personalizeSystem = `You write short B2B outreach messages.
Given a product summary and a lead, respond with a 3-4 sentence message
addressed to the lead by name. Plain text, no subject line, no signature.`

// PersonalizeMessage drafts an outreach message for one lead.
func (a *Analyst) PersonalizeMessage(ctx context.Context, lead model.RankedLead, product string) (string, error) {
	resp, err := a.client.Complete(ctx, Request{
		System:      personalizeSystem,
		Prompt:      fmt.Sprintf("Product: %s\n\nLead:\n%s", product, leadSummary(&lead)),
		MaxTokens:   512,
		CacheSystem: true,
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: personalize message")
	}
	resp.Usage.Log(a.model, "personalize")
	return strings.TrimSpace(resp.Text), nil
}

func leadSummary(lead *model.RankedLead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", lead.Name)
	if lead.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", lead.Title)
	}
	if lead.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", lead.Company)
	}
	if lead.WebsiteURL != "" {
		fmt.Fprintf(&b, "Website: %s\n", lead.WebsiteURL)
	}
	return b.String()
}

// jsonBody trims any prose around the first top-level JSON object in text.
func jsonBody(text string) string {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return text
	}
	return text[start : end+1]
}
