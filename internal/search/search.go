// Package search issues queries against a rotating set of search backends
// and turns result pages into prioritized candidate URLs.
package search

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadscout/internal/catalog"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/resilience"
)

// Backend is one retrieval strategy: it resolves a query string into raw
// outbound result URLs, in the order the backend returned them.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string) ([]string, error)
}

// Client rotates across backends, retries transient failures, and applies
// domain prioritization and the result cap. A query whose backend exhausts
// its retries yields an empty result list, never an error: the orchestrator
// moves on to other queries.
type Client struct {
	backends   []Backend
	breakers   []*resilience.Breaker
	limiter    *rate.Limiter
	retryCfg   resilience.RetryConfig
	cat        *catalog.Catalog
	maxResults int
}

// NewClient creates a rotating search client. The limiter is shared with the
// page fetcher so all outbound requests draw from one budget.
func NewClient(backends []Backend, limiter *rate.Limiter, retryCfg resilience.RetryConfig, cat *catalog.Catalog, maxResults int) *Client {
	if cat == nil {
		cat = catalog.Default()
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	breakers := make([]*resilience.Breaker, len(backends))
	for i := range backends {
		breakers[i] = resilience.NewBreaker(0, 0)
	}
	return &Client{
		backends:   backends,
		breakers:   breakers,
		limiter:    limiter,
		retryCfg:   retryCfg,
		cat:        cat,
		maxResults: maxResults,
	}
}

// Backends returns the number of configured backends.
func (c *Client) Backends() int { return len(c.backends) }

// Search resolves one query using the backend at backendIndex (mod the
// rotation size). Transport failures are retried with linear backoff and
// then downgraded to an empty result list.
func (c *Client) Search(ctx context.Context, query model.SearchQuery, backendIndex int) []model.SearchResult {
	if len(c.backends) == 0 {
		return nil
	}
	idx := backendIndex % len(c.backends)
	backend := c.backends[idx]
	breaker := c.breakers[idx]

	log := zap.L().With(
		zap.String("backend", backend.Name()),
		zap.String("query", query.Text),
	)

	if !breaker.Allow() {
		log.Debug("search: backend circuit open, skipping query")
		return nil
	}

	cfg := c.retryCfg
	cfg.OnRetry = resilience.RetryLogger(backend.Name(), "search")

	urls, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) ([]string, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		return backend.Search(ctx, query.Text)
	})
	breaker.Record(err)
	if err != nil {
		log.Warn("search: all attempts failed", zap.Error(err))
		return nil
	}

	prioritized := Prioritize(urls, c.cat.PriorityDomains, c.maxResults)

	results := make([]model.SearchResult, 0, len(prioritized))
	for _, p := range prioritized {
		results = append(results, model.SearchResult{
			URL:            p.URL,
			SourceQuery:    query.Text,
			DomainPriority: p.Priority,
		})
	}

	log.Info("search: query complete", zap.Int("results", len(results)))
	return results
}
