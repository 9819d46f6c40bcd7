package upstream

import (
	"bikeprice/internal/models"
	"bikeprice/internal/providers"
	"bikeprice/internal/structures"
	"context"
	"fmt"
	json "github.com/goccy/go-json"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	snippetLimit = 200
	maxBodySize  = 8 << 20 // 8 MB
)

// ClientInterface fetches one pricing kind for one city and returns the
// decoded JSON value. Errors are *models.Error of kind transport or shape.
type ClientInterface interface {
	Fetch(ctx context.Context, city models.City, kind models.Kind) (any, error)
}

type Client struct {
	http      *http.Client
	userAgent string
	retry     RetryConfig
	limiter   *rate.Limiter
	sem       *semaphore.Weighted
	breakers  *breakers
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
}

func NewClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) ClientInterface {
	return newClient(conf.Upstream, &http.Client{Timeout: conf.Upstream.Timeout}, logger, metrics)
}

func newClient(conf structures.UpstreamConfig, httpClient *http.Client, logger providers.Logger, metrics providers.MetricsProviderInterface) *Client {
	limit := rate.Inf
	burst := 1
	if conf.RatePerSecond > 0 {
		limit = rate.Limit(conf.RatePerSecond)
		burst = max(int(conf.RatePerSecond), 1)
	}
	return &Client{
		http:      httpClient,
		userAgent: conf.UserAgent,
		retry: RetryConfig{
			MaxAttempts:    conf.MaxAttempts,
			InitialBackoff: conf.InitialBackoff,
			MaxBackoff:     conf.MaxBackoff,
		},
		limiter:  rate.NewLimiter(limit, burst),
		sem:      semaphore.NewWeighted(int64(max(conf.MaxConcurrent, 1))),
		breakers: newBreakers(BreakerConfig{Failures: conf.BreakerFailures, Timeout: conf.BreakerTimeout}, logger),
		logger:   logger,
		metrics:  metrics,
	}
}

func (c *Client) Fetch(ctx context.Context, city models.City, kind models.Kind) (any, error) {
	target := city.URL(kind)
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return nil, models.TransportError(0, "", fmt.Errorf("invalid url %q", target))
	}

	start := time.Now()
	body, attempts, err := c.retry.do(ctx, func(ctx context.Context) ([]byte, error) {
		return c.breakers.execute(u.Host, func() ([]byte, error) {
			return c.get(ctx, target, kind)
		})
	})
	c.metrics.ObserveUpstreamDuration(kind.String(), time.Since(start))

	if err != nil {
		c.metrics.IncUpstreamRequests(kind.String(), "transport_error")
		c.logger.Warnf(providers.TypeUpstream, "FETCH [%s] %s %s failed after %d attempt(s): %s", kind, city.Name, target, attempts, err)
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		c.metrics.IncUpstreamRequests(kind.String(), "shape_error")
		c.logger.Warnf(providers.TypeUpstream, "FETCH [%s] %s returned invalid JSON: %s", kind, city.Name, snippet(body))
		return nil, models.ShapeError("invalid JSON from %s: %v", target, err)
	}

	c.metrics.IncUpstreamRequests(kind.String(), "ok")
	c.logger.Debugf(providers.TypeUpstream, "FETCH [%s] %s %s -> 200 (%d attempt(s))", kind, city.Name, target, attempts)
	return payload, nil
}

// get performs a single GET, holding a global concurrency slot and a rate
// token for the duration of the call.
func (c *Client) get(ctx context.Context, target string, kind models.Kind) ([]byte, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, models.TransportError(0, "", err)
	}
	defer c.sem.Release(1)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, models.TransportError(0, "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, models.TransportError(0, "", err)
	}
	req.Header.Set("Accept", kind.AcceptVersion())
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, models.TransportError(0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		head, _ := io.ReadAll(io.LimitReader(resp.Body, snippetLimit))
		return nil, models.TransportError(resp.StatusCode, snippet(head), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, models.TransportError(0, "", err)
	}
	return body, nil
}

func snippet(b []byte) string {
	if len(b) > snippetLimit {
		b = b[:snippetLimit]
	}
	return string(b)
}
