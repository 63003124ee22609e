package search

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/fetch"
	"github.com/sells-group/leadscout/internal/resilience"
)

// EngineBackend scrapes a public search engine's result page for outbound
// links. Requests carry randomized headers so the client fingerprint varies
// call to call.
type EngineBackend struct {
	name       string
	queryURL   string   // prefix the escaped query is appended to
	ownDomains []string // links back into the engine itself are dropped
	redirect   string   // result-link redirect prefix ("/url?q=" on Google)
	client     *http.Client
	maxBody    int64
}

// NewGoogleBackend returns a backend scraping Google result pages.
func NewGoogleBackend(client *http.Client) *EngineBackend {
	return &EngineBackend{
		name:       "google",
		queryURL:   "https://www.google.com/search?q=",
		ownDomains: []string{"google.com", "google."},
		redirect:   "/url?q=",
		client:     client,
		maxBody:    1 << 20,
	}
}

// NewBingBackend returns a backend scraping Bing result pages.
func NewBingBackend(client *http.Client) *EngineBackend {
	return &EngineBackend{
		name:       "bing",
		queryURL:   "https://www.bing.com/search?q=",
		ownDomains: []string{"bing.com", "microsoft.com"},
		client:     client,
		maxBody:    1 << 20,
	}
}

func (b *EngineBackend) Name() string { return b.name }

// Search fetches the result page and extracts outbound links, excluding
// links pointing back at the engine's own domains. Order follows document
// order; duplicates are dropped.
func (b *EngineBackend) Search(ctx context.Context, query string) ([]string, error) {
	reqURL := b.queryURL + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: create request", b.name)
	}
	req.Header = fetch.RandomHeaders()

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: request", b.name)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, b.maxBody))
	if err != nil {
		return nil, eris.Wrapf(err, "%s: read body", b.name)
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("%s: status %d", b.name, resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	return b.extractLinks(body)
}

func (b *EngineBackend) extractLinks(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrapf(err, "%s: parse result page", b.name)
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		link := b.resolveLink(href)
		if link == "" || seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	})
	return links, nil
}

// resolveLink normalizes one anchor href into an outbound result URL, or ""
// when the href is internal navigation or a link back into the engine.
func (b *EngineBackend) resolveLink(href string) string {
	if b.redirect != "" {
		// Engines wrapping results in a redirect: /url?q=<target>&sa=...
		i := strings.Index(href, b.redirect)
		if i < 0 {
			return ""
		}
		target := href[i+len(b.redirect):]
		if j := strings.IndexByte(target, '&'); j >= 0 {
			target = target[:j]
		}
		if decoded, err := url.QueryUnescape(target); err == nil {
			target = decoded
		}
		if !strings.HasPrefix(target, "http") || b.isOwnDomain(target) {
			return ""
		}
		return target
	}

	if !strings.HasPrefix(href, "http") || b.isOwnDomain(href) {
		return ""
	}
	return href
}

func (b *EngineBackend) isOwnDomain(link string) bool {
	for _, d := range b.ownDomains {
		if strings.Contains(link, d) {
			return true
		}
	}
	return false
}
