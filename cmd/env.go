package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/catalog"
	"github.com/sells-group/leadscout/internal/expand"
	"github.com/sells-group/leadscout/internal/extract"
	"github.com/sells-group/leadscout/internal/fetch"
	"github.com/sells-group/leadscout/internal/llm"
	"github.com/sells-group/leadscout/internal/pipeline"
	"github.com/sells-group/leadscout/internal/resilience"
	"github.com/sells-group/leadscout/internal/search"
	"github.com/sells-group/leadscout/internal/store"
)

func initCatalog() (*catalog.Catalog, error) {
	if cfg.Scrape.CatalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(cfg.Scrape.CatalogPath)
	if err != nil {
		return nil, eris.Wrap(err, "load catalog")
	}
	return cat, nil
}

// initPipeline wires the full discovery stack from config. enableFallback
// ORs with the config setting so the flag can only opt in, never out.
func initPipeline(enableFallback bool) (*pipeline.Pipeline, error) {
	cat, err := initCatalog()
	if err != nil {
		return nil, err
	}

	httpClient := fetch.NewHTTPClient(cfg.Scrape)

	backends, errs := search.Build(cfg.Search, httpClient)
	for _, berr := range errs {
		zap.L().Warn("search backend skipped", zap.Error(berr))
	}
	if len(backends) == 0 {
		return nil, eris.New("no usable search backends configured")
	}

	// One limiter for search and fetch: every outbound request draws from
	// the same pacing budget.
	limiter := fetch.NewLimiter(cfg.Scrape)

	searchRetry := resilience.RetryConfig{
		MaxAttempts: cfg.Scrape.MaxRetries,
		OnRetry:     resilience.RetryLogger("search", "query"),
	}
	searcher := search.NewClient(backends, limiter, searchRetry, cat, cfg.Search.MaxResults)

	fetchRetry := resilience.RetryConfig{
		MaxAttempts: cfg.Scrape.MaxRetries,
		OnRetry:     resilience.RetryLogger("fetch", "page"),
	}
	fetcher := fetch.NewFetcher(httpClient, limiter, fetchRetry, cfg.Scrape.MaxBodyKB)

	return pipeline.New(expand.New(cat), searcher, fetcher, extract.New(cat), pipeline.Options{
		MaxQueries:     cfg.Pipeline.MaxQueries,
		MaxConcurrent:  cfg.Scrape.MaxConcurrent,
		EnableFallback: enableFallback || cfg.Pipeline.EnableFallback,
		ShuffleSeed:    uint64(time.Now().UnixNano()),
	}), nil
}

func initStore(ctx context.Context) (*store.SQLiteStore, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// initAnalyst returns nil when no API key is configured; callers treat the
// language features as optional.
func initAnalyst() *llm.Analyst {
	if cfg.Anthropic.Key == "" {
		return nil
	}
	return llm.NewAnalyst(llm.NewClient(cfg.Anthropic.Key, cfg.Anthropic.Model), cfg.Anthropic.Model)
}
