package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/resilience"
)

// APIBackend queries a hosted JSON search API instead of scraping result
// pages. It needs a bearer key; the factory refuses to build it without one.
type APIBackend struct {
	key     string
	baseURL string
	client  *http.Client
}

// NewAPIBackend creates an API search backend.
func NewAPIBackend(key, baseURL string, client *http.Client) (*APIBackend, error) {
	if key == "" {
		return nil, eris.New("search: api backend requires an api key")
	}
	if baseURL == "" {
		baseURL = "https://s.jina.ai"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &APIBackend{key: key, baseURL: baseURL, client: client}, nil
}

func (b *APIBackend) Name() string { return "api" }

type apiSearchResponse struct {
	Code int `json:"code"`
	Data []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"data"`
}

// Search issues the API request and returns result URLs in response order.
func (b *APIBackend) Search(ctx context.Context, query string) ([]string, error) {
	reqURL := b.baseURL + "/" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "api: create request")
	}
	req.Header.Set("Authorization", "Bearer "+b.key)
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "api: request")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "api: read body")
	}

	// The API answers 422 for queries with no results.
	if resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("api: status %d: %s", resp.StatusCode, string(body))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var parsed apiSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrap(err, "api: unmarshal response")
	}

	urls := make([]string, 0, len(parsed.Data))
	for _, d := range parsed.Data {
		if d.URL != "" {
			urls = append(urls, d.URL)
		}
	}
	return urls, nil
}
