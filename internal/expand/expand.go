// Package expand turns a seed search term and an audience profile into a
// deduplicated set of search queries. Expansion is a pure function of its
// inputs; ordering of the returned set carries no meaning.
package expand

import (
	"strings"

	"github.com/sells-group/leadscout/internal/catalog"
	"github.com/sells-group/leadscout/internal/model"
)

// Expander builds query sets from the catalog's suffix and title lists.
type Expander struct {
	cat *catalog.Catalog
}

// New creates an Expander backed by the given catalog.
func New(cat *catalog.Catalog) *Expander {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Expander{cat: cat}
}

// Expand returns the deduplicated query set for a seed term and profile.
// The seed itself is always present. Empty profile fields contribute
// nothing. Duplicate texts are dropped regardless of provenance; the first
// derivation wins the tag.
func (e *Expander) Expand(seed string, profile model.AudienceProfile) []model.SearchQuery {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return nil
	}

	var queries []model.SearchQuery
	seen := make(map[string]bool)
	add := func(kind model.QueryKind, parts ...string) {
		text := joinNonEmpty(parts)
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		queries = append(queries, model.SearchQuery{Text: text, Kind: kind})
	}

	add(model.QueryBase, seed)

	industry := strings.TrimSpace(profile.Industry)
	if industry != "" {
		add(model.QueryIndustry, seed, industry)
		add(model.QueryIndustry, industry, "companies", seed)
	}

	role := strings.TrimSpace(profile.Role)
	if role != "" {
		add(model.QueryRole, seed, role)
		for _, title := range e.cat.ExecutiveTitles {
			add(model.QueryTitle, title, industry, seed)
		}
	}

	for _, suffix := range e.cat.BusinessSuffixes {
		add(model.QueryBusiness, seed, suffix)
	}
	for _, suffix := range e.cat.ContactSuffixes {
		add(model.QueryContact, seed, suffix)
	}

	return queries
}

func joinNonEmpty(parts []string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
