package extract

import (
	"net/url"
	"strings"
)

// titleSeparators split a page title into segments; the first segment is
// usually the site or company name.
var titleSeparators = []string{"|", " - ", "."}

// boilerplatePrefixes are stripped from inferred names.
var boilerplatePrefixes = []string{"Home -", "Home |", "Homepage -", "Homepage |", "Welcome to"}

// CompanyName infers the owning company of a page: site metadata first, then
// the title's leading segment, then the URL's domain label.
func CompanyName(d *Document) string {
	if name := metaSiteName(d); name != "" {
		return name
	}

	if title := strings.TrimSpace(d.doc.Find("title").First().Text()); title != "" {
		if name := nameFromTitle(title); name != "" && len(name) <= 50 {
			return name
		}
	}

	return domainLabel(d.URL)
}

func metaSiteName(d *Document) string {
	content, ok := d.doc.Find(`meta[property="og:site_name"]`).First().Attr("content")
	if !ok {
		return ""
	}
	return strings.TrimSpace(content)
}

func nameFromTitle(title string) string {
	segment := title
	for _, sep := range titleSeparators {
		if before, _, found := strings.Cut(segment, sep); found {
			segment = before
		}
	}
	segment = strings.TrimSpace(segment)

	for _, prefix := range boilerplatePrefixes {
		segment = strings.TrimSpace(strings.TrimPrefix(segment, prefix))
	}
	return segment
}

// domainLabel returns the registrable label of the page URL, capitalized:
// "https://www.acme.io/team" -> "Acme".
func domainLabel(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	label, _, _ := strings.Cut(host, ".")
	return capitalize(label)
}
