// Package model defines the core types flowing through the lead discovery
// pipeline. Every type here is created, transformed, and discarded within a
// single discovery run; nothing is shared across runs.
package model

import "time"

// AudienceProfile describes the target audience a discovery run is aimed at.
// It is produced by the LLM analysis step (or supplied directly) and consumed
// read-only by query expansion.
type AudienceProfile struct {
	Industry        string `json:"industry"`
	Role            string `json:"role"`
	CompanySizeHint string `json:"company_size_hint,omitempty"`
}

// QueryKind records how a search query was derived from the seed term.
type QueryKind string

const (
	QueryBase     QueryKind = "base"
	QueryIndustry QueryKind = "industry"
	QueryRole     QueryKind = "role"
	QueryTitle    QueryKind = "title"
	QueryBusiness QueryKind = "business"
	QueryContact  QueryKind = "contact"
)

// SearchQuery is an immutable search string plus its provenance.
type SearchQuery struct {
	Text string    `json:"text"`
	Kind QueryKind `json:"kind"`
}

// SearchResult is a candidate URL produced by a search backend. It is
// consumed exactly once by the page fetcher.
type SearchResult struct {
	URL            string `json:"url"`
	SourceQuery    string `json:"source_query"`
	DomainPriority bool   `json:"domain_priority"`
}

// FetchedPage holds raw page content between fetch and extraction. Pages are
// never persisted; they are discarded once extraction has run.
type FetchedPage struct {
	URL       string
	Body      []byte
	FetchedAt time.Time
}

// Source markers distinguish scraped records from synthesized fallback data.
const (
	SourceFallback = "fallback"
)

// Candidate is a contact record assembled from scraped page content. All
// fields except ID are best-effort; a candidate with no email, phone, or
// profile link is invalid and never leaves the validator.
type Candidate struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Title       string `json:"title,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Company     string `json:"company,omitempty"`
	LinkedInURL string `json:"linkedin,omitempty"`
	WebsiteURL  string `json:"website,omitempty"`
	SourceURL   string `json:"source,omitempty"`
}

// HasContactPoint reports whether the candidate carries at least one of
// email, phone, or profile link.
func (c Candidate) HasContactPoint() bool {
	return c.Email != "" || c.Phone != "" || c.LinkedInURL != ""
}

// RankedLead is a validated candidate with its quality score. Insight is
// attached by the enrichment collaborator, not computed by the pipeline.
type RankedLead struct {
	Candidate
	QualityScore int    `json:"quality_score"`
	Insight      string `json:"insight,omitempty"`
}

// IsFallback reports whether this lead was synthesized rather than scraped.
func (l RankedLead) IsFallback() bool {
	return l.SourceURL == SourceFallback
}
