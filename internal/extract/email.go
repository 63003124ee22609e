package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/leadscout/internal/catalog"
)

var (
	emailRe      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	emailExactRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// EmailValidator applies the business-mailbox rule: well-formed, not a
// generic role account, not on a personal mail provider.
type EmailValidator struct {
	genericPrefixes []string
	personalDomains map[string]bool
}

// NewEmailValidator builds a validator from the catalog lists.
func NewEmailValidator(cat *catalog.Catalog) *EmailValidator {
	if cat == nil {
		cat = catalog.Default()
	}
	personal := make(map[string]bool, len(cat.PersonalDomains))
	for _, d := range cat.PersonalDomains {
		personal[strings.ToLower(d)] = true
	}
	return &EmailValidator{
		genericPrefixes: cat.GenericPrefixes,
		personalDomains: personal,
	}
}

// Valid reports whether email is a usable business contact address.
func (v *EmailValidator) Valid(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailExactRe.MatchString(email) {
		return false
	}

	local, domain, _ := strings.Cut(email, "@")
	for _, prefix := range v.genericPrefixes {
		if strings.HasPrefix(local, prefix) {
			return false
		}
	}

	return !v.personalDomains[domain]
}

// Emails collects valid addresses from mailto links and visible text, in
// first-seen order.
func (e *Extractor) Emails(d *Document) []string {
	var emails []string
	seen := make(map[string]bool)
	add := func(raw string) {
		email := strings.ToLower(strings.TrimSpace(raw))
		if email == "" || seen[email] || !e.emails.Valid(email) {
			return
		}
		seen[email] = true
		emails = append(emails, email)
	}

	d.doc.Find(`a[href^="mailto:"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		addr := strings.TrimPrefix(href, "mailto:")
		if q := strings.IndexByte(addr, '?'); q >= 0 {
			addr = addr[:q]
		}
		add(addr)
	})

	for _, m := range emailRe.FindAllString(d.text, -1) {
		add(m)
	}

	return emails
}
