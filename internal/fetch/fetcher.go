// Package fetch is the shared HTTP transport for every EDGAR endpoint.
// All requests carry the configured User-Agent, pass through the per-host
// rate limiter and, optionally, a robots.txt check.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/ppiankov/edgarscan/internal/util"
	"github.com/ppiankov/edgarscan/internal/worker"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrDisallowed is returned when robots.txt forbids the URL
var ErrDisallowed = eris.New("disallowed by robots.txt")

// fetchSleepFunc is the sleep function used between retries (injectable for tests)
var fetchSleepFunc = time.Sleep

// StatusError is returned for any response other than 200 OK
type StatusError struct {
	Code   int
	Status string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

// Fetcher performs rate-limited HTTP requests
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	maxRetries int
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
	logger     *zap.Logger
}

// Option customises a Fetcher
type Option func(*Fetcher)

// WithLimiter shares a rate limiter between fetchers
func WithLimiter(l *worker.Limiter) Option {
	return func(f *Fetcher) { f.limiter = l }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// WithHTTPClient replaces the underlying client
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.httpClient = c }
}

// NewFetcher creates a new Fetcher from the HTTP and rate limiting settings
func NewFetcher(httpCfg model.HTTPConfig, rateCfg model.RateLimitingConfig, opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{
			Timeout: httpCfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:  httpCfg.UserAgent,
		maxBytes:   httpCfg.MaxBodyBytes,
		maxRetries: httpCfg.MaxRetries,
		limiter:    worker.NewLimiter(rateCfg.RequestsPerSecond, rateCfg.BurstSize),
		logger:     zap.NewNop(),
	}
	if f.maxBytes <= 0 {
		f.maxBytes = 50_000_000
	}
	if httpCfg.RespectRobots {
		f.robots = util.NewRobotsChecker(httpCfg.UserAgent, httpCfg.Timeout)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Result contains a fetched body and response metadata
type Result struct {
	Body        []byte
	StatusCode  int
	ContentType string
	FinalURL    string
}

// Text returns the body as a string
func (r *Result) Text() string {
	return string(r.Body)
}

// Get retrieves rawURL once
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Result, error) {
	return f.do(ctx, http.MethodGet, rawURL, nil, "")
}

// PostJSON posts payload as JSON once
func (f *Fetcher) PostJSON(ctx context.Context, rawURL string, payload any) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "marshal request")
	}
	return f.do(ctx, http.MethodPost, rawURL, body, "application/json")
}

// GetJSON retrieves rawURL and decodes the body into v
func (f *Fetcher) GetJSON(ctx context.Context, rawURL string, v any) error {
	res, err := f.GetWithRetry(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(res.Body, v); err != nil {
		return eris.Wrapf(err, "decode %s", rawURL)
	}
	return nil
}

// GetWithRetry retrieves rawURL, retrying 429, 5xx and network errors
// with exponential backoff
func (f *Fetcher) GetWithRetry(ctx context.Context, rawURL string) (*Result, error) {
	attempts := f.maxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			f.logger.Debug("retrying request",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			fetchSleepFunc(backoff)
		}

		res, err := f.Get(ctx, rawURL)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (f *Fetcher) do(ctx context.Context, method, rawURL string, body []byte, contentType string) (*Result, error) {
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, eris.Wrap(ErrDisallowed, rawURL)
		}
		if parsed, perr := url.Parse(rawURL); perr == nil {
			f.limiter.SlowHost(parsed.Host, delay)
		}
	}

	if !f.limiter.Allow(rawURL) {
		f.logger.Debug("rate limited, waiting", zap.String("url", rawURL))
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, eris.Wrap(err, "rate limit")
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json,text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "identity")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, URL: rawURL}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, eris.Wrap(err, "read body")
	}

	return &Result{
		Body:        data,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// isRetryableFetchError reports whether a request may succeed if repeated
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// StatusCode extracts the HTTP status from an error, or 0
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return 0
}
