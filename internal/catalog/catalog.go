// Package catalog holds the heuristic vocabularies the pipeline matches
// against: executive titles, team-section terms, generic mailbox prefixes,
// personal mail domains, and the business-domain priority allowlist.
// Defaults are baked in; a YAML file can override any list wholesale.
package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Catalog is the full set of matching vocabularies.
type Catalog struct {
	// ExecutiveTitles are matched case-insensitively in person blocks and
	// drive title-augmented query expansion.
	ExecutiveTitles []string `yaml:"executive_titles"`

	// TeamSectionTerms identify containers likely to hold person cards.
	TeamSectionTerms []string `yaml:"team_section_terms"`

	// GenericPrefixes are mailbox local-part prefixes rejected by the email
	// validator (role accounts, not people).
	GenericPrefixes []string `yaml:"generic_prefixes"`

	// PersonalDomains are consumer mail providers rejected by the validator.
	PersonalDomains []string `yaml:"personal_domains"`

	// PriorityDomains are domain/path fragments that mark a search result as
	// business-relevant; matching links are returned ahead of generic ones.
	PriorityDomains []string `yaml:"priority_domains"`

	// BusinessSuffixes and ContactSuffixes are appended to the seed during
	// query expansion.
	BusinessSuffixes []string `yaml:"business_suffixes"`
	ContactSuffixes  []string `yaml:"contact_suffixes"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		ExecutiveTitles: []string{
			"CEO", "CTO", "CFO", "COO", "CMO", "CRO", "CSO",
			"Chief Executive Officer", "Chief Technology Officer",
			"Chief Financial Officer", "Chief Operating Officer",
			"VP of", "Vice President", "Director of", "Head of",
			"Founder", "Co-founder", "President", "Partner",
		},
		TeamSectionTerms: []string{
			"team", "about us", "leadership", "management",
			"our people", "executives", "staff", "founders",
		},
		GenericPrefixes: []string{
			"info", "contact", "hello", "admin", "support",
			"sales", "marketing", "help", "team", "no-reply",
		},
		PersonalDomains: []string{
			"gmail.com", "yahoo.com", "hotmail.com",
			"outlook.com", "aol.com", "icloud.com",
		},
		PriorityDomains: []string{
			"linkedin.com/company", "crunchbase.com/organization",
			".io", ".ai", ".co", ".tech", ".app", ".inc",
			".solutions", ".agency", ".studio", ".consulting",
		},
		BusinessSuffixes: []string{"business", "company", "enterprise", "firm"},
		ContactSuffixes:  []string{"team contact", "leadership team", "management team"},
	}
}

// Load reads a catalog YAML file and overlays it on the defaults. Only
// non-empty lists in the file replace their default counterpart.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}

	var override Catalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, eris.Wrapf(err, "catalog: parse %s", path)
	}

	c := Default()
	if len(override.ExecutiveTitles) > 0 {
		c.ExecutiveTitles = override.ExecutiveTitles
	}
	if len(override.TeamSectionTerms) > 0 {
		c.TeamSectionTerms = override.TeamSectionTerms
	}
	if len(override.GenericPrefixes) > 0 {
		c.GenericPrefixes = override.GenericPrefixes
	}
	if len(override.PersonalDomains) > 0 {
		c.PersonalDomains = override.PersonalDomains
	}
	if len(override.PriorityDomains) > 0 {
		c.PriorityDomains = override.PriorityDomains
	}
	if len(override.BusinessSuffixes) > 0 {
		c.BusinessSuffixes = override.BusinessSuffixes
	}
	if len(override.ContactSuffixes) > 0 {
		c.ContactSuffixes = override.ContactSuffixes
	}
	return c, nil
}
