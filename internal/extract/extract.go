// Package extract parses fetched pages into candidate contact records.
//
// Extraction is a pipeline of independent, best-effort heuristics — company
// name, emails, phones, profile links, person blocks — each a pure function
// of the parsed document. A heuristic that finds nothing contributes zero
// candidates; none of them can fail the page.
package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/catalog"
	"github.com/sells-group/leadscout/internal/model"
)

// maxEmailOnlyCandidates caps how many candidates are synthesized from bare
// emails when no person blocks were found on a page.
const maxEmailOnlyCandidates = 3

// Document is a parsed page plus its visible text, shared read-only by all
// heuristics.
type Document struct {
	URL  string
	doc  *goquery.Document
	text string
}

// Parse builds a Document from a fetched page. Script, style, and noscript
// subtrees are dropped before the visible text is captured.
func Parse(page *model.FetchedPage) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, eris.Wrapf(err, "extract: parse %s", page.URL)
	}
	doc.Find("script, style, noscript").Remove()
	return &Document{
		URL:  page.URL,
		doc:  doc,
		text: doc.Text(),
	}, nil
}

// Extractor assembles candidates from a page using the catalog vocabularies.
type Extractor struct {
	cat    *catalog.Catalog
	emails *EmailValidator
}

// New creates an Extractor.
func New(cat *catalog.Catalog) *Extractor {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Extractor{cat: cat, emails: NewEmailValidator(cat)}
}

// Extract runs every heuristic over the page and returns the surviving
// candidates. Candidates without an email, phone, or profile link are
// discarded here and never reach the ranker.
func (e *Extractor) Extract(page *model.FetchedPage) []model.Candidate {
	d, err := Parse(page)
	if err != nil {
		zap.L().Debug("extract: unparseable page", zap.String("url", page.URL), zap.Error(err))
		return nil
	}

	company := CompanyName(d)
	emails := e.Emails(d)
	phones := Phones(d)
	profiles := Profiles(d)

	people := e.People(d, company, profiles)

	// No structural hits: one candidate per discovered email, name guessed
	// from the local part.
	if len(people) == 0 && len(emails) > 0 {
		for i, email := range emails {
			if i >= maxEmailOnlyCandidates {
				break
			}
			c := model.Candidate{
				ID:         uuid.New().String(),
				Name:       nameFromEmail(email, company),
				Email:      email,
				Company:    company,
				WebsiteURL: d.URL,
				SourceURL:  d.URL,
			}
			if len(phones) > 0 {
				c.Phone = phones[0]
			}
			people = append(people, c)
		}
	}

	// Still nothing but the page told us who it belongs to: emit a single
	// generic company contact.
	if len(people) == 0 && company != "" {
		c := model.Candidate{
			ID:         uuid.New().String(),
			Name:       company + " Contact",
			Company:    company,
			WebsiteURL: d.URL,
			SourceURL:  d.URL,
		}
		if len(emails) > 0 {
			c.Email = emails[0]
		}
		if len(phones) > 0 {
			c.Phone = phones[0]
		}
		people = append(people, c)
	}

	kept := people[:0]
	for _, c := range people {
		if c.HasContactPoint() {
			kept = append(kept, c)
		}
	}

	zap.L().Debug("extract: page processed",
		zap.String("url", d.URL),
		zap.Int("emails", len(emails)),
		zap.Int("phones", len(phones)),
		zap.Int("profiles", len(profiles)),
		zap.Int("candidates", len(kept)),
	)
	return kept
}

// nameFromEmail guesses a display name from an address local part:
// "jane.doe@acme.io" -> "Jane Doe". Generic prefixes are stripped first.
func nameFromEmail(email, company string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return company + " Contact"
	}

	for _, prefix := range []string{"info", "contact", "sales", "support", "admin", "help", "team"} {
		local = strings.TrimPrefix(local, prefix)
	}

	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	if len(parts) == 0 {
		return company + " Contact"
	}

	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
