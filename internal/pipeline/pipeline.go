// Package pipeline orchestrates a discovery run: query expansion, backend
// search, page fetching, contact extraction, and ranking, under a single
// lead-count budget.
package pipeline

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadscout/internal/expand"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/rank"
)

// Searcher issues one query against the backend rotation.
type Searcher interface {
	Search(ctx context.Context, query model.SearchQuery, backendIndex int) []model.SearchResult
}

// PageFetcher retrieves one page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*model.FetchedPage, error)
}

// Extractor turns a fetched page into candidates.
type Extractor interface {
	Extract(page *model.FetchedPage) []model.Candidate
}

// Options tune a Pipeline. Zero values get sensible defaults.
type Options struct {
	MaxQueries     int
	MaxConcurrent  int
	EnableFallback bool

	// ShuffleSeed randomizes query order so repeated runs do not hammer the
	// same URLs first. Zero keeps expansion order, which tests rely on.
	ShuffleSeed uint64
}

// Request describes one discovery run.
type Request struct {
	Seed    string
	Profile model.AudienceProfile
	Count   int
}

// Result is the outcome of a run.
type Result struct {
	Leads         []model.RankedLead
	QueriesIssued int
	PagesFetched  int
	UsedFallback  bool
}

// Pipeline wires the discovery stages together.
type Pipeline struct {
	expander  *expand.Expander
	searcher  Searcher
	fetcher   PageFetcher
	extractor Extractor
	opts      Options
}

// New creates a Pipeline.
func New(expander *expand.Expander, searcher Searcher, fetcher PageFetcher, extractor Extractor, opts Options) *Pipeline {
	if opts.MaxQueries <= 0 {
		opts.MaxQueries = 30
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 5
	}
	return &Pipeline{
		expander:  expander,
		searcher:  searcher,
		fetcher:   fetcher,
		extractor: extractor,
		opts:      opts,
	}
}

// Run executes a discovery run and returns at most req.Count ranked leads.
// Queries stop as soon as enough candidates have accumulated; a URL is
// fetched at most once per run no matter how many queries surface it.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Count <= 0 {
		return nil, eris.New("pipeline: lead count must be positive")
	}

	queries := p.expander.Expand(req.Seed, req.Profile)
	if len(queries) == 0 {
		return nil, eris.New("pipeline: empty seed term")
	}
	if p.opts.ShuffleSeed != 0 {
		rng := rand.New(rand.NewPCG(p.opts.ShuffleSeed, 0))
		rng.Shuffle(len(queries), func(i, j int) {
			queries[i], queries[j] = queries[j], queries[i]
		})
	}
	if len(queries) > p.opts.MaxQueries {
		queries = queries[:p.opts.MaxQueries]
	}

	res := &Result{}
	var (
		mu         sync.Mutex
		candidates []model.Candidate
	)
	processed := make(map[string]bool)

	for qi, query := range queries {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "pipeline: run canceled")
		}
		mu.Lock()
		collected := len(candidates)
		mu.Unlock()
		if collected >= req.Count {
			break
		}

		results := p.searcher.Search(ctx, query, qi)
		res.QueriesIssued++

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.opts.MaxConcurrent)
		for _, result := range results {
			if processed[result.URL] {
				continue
			}
			processed[result.URL] = true

			g.Go(func() error {
				page, err := p.fetcher.Fetch(gctx, result.URL)
				if err != nil {
					zap.L().Debug("pipeline: fetch failed",
						zap.String("url", result.URL), zap.Error(err))
					return nil
				}
				found := p.extractor.Extract(page)

				mu.Lock()
				res.PagesFetched++
				candidates = append(candidates, found...)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, eris.Wrap(err, "pipeline: fetch workers")
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: run canceled")
	}

	res.Leads = rank.Rank(candidates, req.Count)

	if len(res.Leads) == 0 && p.opts.EnableFallback {
		res.Leads = SynthesizeLeads(req.Seed, req.Count)
		res.UsedFallback = true
		zap.L().Warn("pipeline: no leads discovered, using synthesized fallback",
			zap.String("seed", req.Seed), zap.Int("count", req.Count))
	}

	zap.L().Info("pipeline: run complete",
		zap.String("seed", req.Seed),
		zap.Int("queries_issued", res.QueriesIssued),
		zap.Int("pages_fetched", res.PagesFetched),
		zap.Int("leads", len(res.Leads)),
		zap.Bool("fallback", res.UsedFallback),
	)
	return res, nil
}
