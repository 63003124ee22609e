// Package fetch retrieves candidate pages with retry, rate limiting, and
// fingerprint rotation.
package fetch

import (
	"context"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadscout/internal/config"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/resilience"
)

// NewHTTPClient builds the shared outbound HTTP client. When the proxy pool
// is enabled, each request is routed through a proxy drawn at random.
func NewHTTPClient(cfg config.ScrapeConfig) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.Timeout(),
		}).DialContext,
		TLSHandshakeTimeout: cfg.Timeout(),
		MaxIdleConnsPerHost: 10,
	}

	if cfg.UseProxies && len(cfg.ProxyList) > 0 {
		proxies := make([]*url.URL, 0, len(cfg.ProxyList))
		for _, p := range cfg.ProxyList {
			u, err := url.Parse(p)
			if err != nil {
				zap.L().Warn("fetch: skipping unparseable proxy", zap.String("proxy", p), zap.Error(err))
				continue
			}
			proxies = append(proxies, u)
		}
		if len(proxies) > 0 {
			transport.Proxy = func(*http.Request) (*url.URL, error) {
				return proxies[rand.IntN(len(proxies))], nil
			}
		}
	}

	return &http.Client{
		Timeout:   cfg.Timeout(),
		Transport: transport,
	}
}

// NewLimiter builds the token bucket shared by search and fetch: one token
// per configured request delay, no burst beyond a single request.
func NewLimiter(cfg config.ScrapeConfig) *rate.Limiter {
	delay := cfg.RequestDelay()
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// Fetcher retrieves a single URL's content. A fetch that exhausts its
// retries returns an error the caller treats as a skip, never as a
// pipeline failure.
type Fetcher struct {
	client   *http.Client
	limiter  *rate.Limiter
	retryCfg resilience.RetryConfig
	maxBody  int64
	nowFunc  func() time.Time
}

// NewFetcher creates a Fetcher sharing the given client and limiter.
func NewFetcher(client *http.Client, limiter *rate.Limiter, retryCfg resilience.RetryConfig, maxBodyKB int) *Fetcher {
	if maxBodyKB <= 0 {
		maxBodyKB = 512
	}
	return &Fetcher{
		client:   client,
		limiter:  limiter,
		retryCfg: retryCfg,
		maxBody:  int64(maxBodyKB) * 1024,
		nowFunc:  time.Now,
	}
}

// Fetch retrieves targetURL, waiting on the shared limiter before every
// attempt and retrying transient failures with linear backoff.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (*model.FetchedPage, error) {
	cfg := f.retryCfg
	cfg.OnRetry = resilience.RetryLogger("fetch", targetURL)

	body, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) ([]byte, error) {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		return f.fetchOnce(ctx, targetURL)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: %s", targetURL)
	}

	return &model.FetchedPage{
		URL:       targetURL,
		Body:      body,
		FetchedAt: f.nowFunc(),
	}, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, targetURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header = RandomHeaders()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, eris.Wrap(err, "read body")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	return body, nil
}
