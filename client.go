// Package edbo is a client for Ukraine's EDBO Opendata Registry API
// (https://registry.edbo.gov.ua), the public interface over the state
// education database. It covers the university and secondary-institution
// lookups the registry exposes as JSON.
package edbo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/edbo-tools/edbo-go/internal/cache"
	"github.com/edbo-tools/edbo-go/internal/log"
	"github.com/edbo-tools/edbo-go/internal/telemetry"
)

// DefaultBaseURL is the production registry endpoint.
const DefaultBaseURL = "https://registry.edbo.gov.ua"

const (
	universitiesEndpoint = "/api/universities"
	universityEndpoint   = "/api/university"
	institutionsEndpoint = "/api/institutions"
	schoolEndpoint       = "/api/school"
)

const (
	defaultTimeout        = 15 * time.Second
	defaultRetries        = 2
	defaultBackoff        = 200 * time.Millisecond
	defaultMaxBackoff     = 2 * time.Second
	defaultRateLimit      = 5
	defaultRateLimitBurst = 10
	defaultUserAgent      = "edbo-go"

	errorBodyLimit = 256
)

// Client talks to the EDBO Opendata Registry API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	maxBackoff time.Duration
	userAgent  string

	cache    cache.Cache
	cacheTTL time.Duration

	logger zerolog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// Options configures the client behavior. The zero value selects the
// production registry with conservative retry and rate-limit defaults.
type Options struct {
	// BaseURL overrides the registry endpoint (useful for tests and mirrors).
	BaseURL string

	Timeout               time.Duration
	ResponseHeaderTimeout time.Duration

	// MaxRetries caps retry attempts after the first request. Zero selects
	// the default; a negative value disables retries entirely.
	MaxRetries int

	Backoff    time.Duration
	MaxBackoff time.Duration
	UserAgent  string

	// RateLimit caps outgoing requests per second; the registry is a shared
	// government service and throttles aggressive clients.
	RateLimit      rate.Limit
	RateLimitBurst int

	// CacheTTL enables response caching when positive. Responses are cached
	// by full request URL. With RedisAddr unset an in-process cache is used.
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Logger overrides the module's global logger.
	Logger *zerolog.Logger
}

// New creates a client for the production registry with default options.
func New() *Client {
	c, _ := NewWithOptions(Options{})
	return c
}

// NewWithOptions creates a client with explicit options. It fails only when
// a Redis cache is requested and unreachable.
func NewWithOptions(opts Options) (*Client, error) {
	opts = normalizeOptions(opts)

	logger := log.WithComponent("client")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	transport := &http.Transport{
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: opts.ResponseHeaderTimeout,
		TLSHandshakeTimeout:   5 * time.Second,
	}

	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		limiter:    rate.NewLimiter(opts.RateLimit, opts.RateLimitBurst),
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		maxBackoff: opts.MaxBackoff,
		userAgent:  opts.UserAgent,
		cache:      cache.NewNoOp(),
		cacheTTL:   opts.CacheTTL,
		logger:     logger,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- jitter only
	}

	if opts.CacheTTL > 0 {
		if opts.RedisAddr != "" {
			rc, err := cache.NewRedis(cache.RedisConfig{
				Addr:     opts.RedisAddr,
				Password: opts.RedisPassword,
				DB:       opts.RedisDB,
			}, logger)
			if err != nil {
				return nil, err
			}
			c.cache = rc
		} else {
			c.cache = cache.NewMemory(opts.CacheTTL)
		}
	}

	return c, nil
}

func normalizeOptions(opts Options) Options {
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.ResponseHeaderTimeout <= 0 {
		opts.ResponseHeaderTimeout = opts.Timeout
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultRetries
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = rate.Limit(defaultRateLimit)
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = defaultRateLimitBurst
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = defaultUserAgent
	}
	return opts
}

// CacheStats returns the response cache counters. All zeros when caching
// is disabled.
func (c *Client) CacheStats() cache.Stats {
	return c.cache.Stats()
}

// Universities lists universities matching the region and category filters.
// Both filters are required; validation happens before any network I/O.
func (c *Client) Universities(ctx context.Context, p SearchParams) ([]UniversityBrief, error) {
	body, err := c.UniversitiesRaw(ctx, p)
	if err != nil {
		return nil, err
	}
	var out []UniversityBrief
	if err := c.decode("universities", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UniversitiesRaw returns the /api/universities response body exactly as
// the registry served it. Parameters are validated the same way as
// Universities.
func (c *Client) UniversitiesRaw(ctx context.Context, p SearchParams) ([]byte, error) {
	if err := p.validateUniversityList(); err != nil {
		return nil, err
	}
	attrs := telemetry.RegistryAttributes("universities", int(p.Region), int(p.UniversityCategory), 0)
	return c.getRaw(ctx, universitiesEndpoint, "universities", listQuery(p.UniversityCategory.String(), p.Region.String()), attrs)
}

// UniversityByID retrieves the full record of one university.
func (c *Client) UniversityByID(ctx context.Context, id int) (*University, error) {
	body, err := c.UniversityRaw(ctx, id)
	if err != nil {
		return nil, err
	}
	var out University
	if err := c.decode("university", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UniversityRaw returns the /api/university response body exactly as the
// registry served it.
func (c *Client) UniversityRaw(ctx context.Context, id int) ([]byte, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	attrs := telemetry.RegistryAttributes("university", 0, 0, id)
	return c.getRaw(ctx, universityEndpoint, "university", idQuery(id), attrs)
}

// Institutions lists secondary-education institutions matching the region
// and category filters. Both filters are required.
func (c *Client) Institutions(ctx context.Context, p SearchParams) ([]Institution, error) {
	body, err := c.InstitutionsRaw(ctx, p)
	if err != nil {
		return nil, err
	}
	var out []Institution
	if err := c.decode("institutions", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InstitutionsRaw returns the /api/institutions response body exactly as
// the registry served it.
func (c *Client) InstitutionsRaw(ctx context.Context, p SearchParams) ([]byte, error) {
	if err := p.validateInstitutionList(); err != nil {
		return nil, err
	}
	attrs := telemetry.RegistryAttributes("institutions", int(p.Region), int(p.InstitutionCategory), 0)
	return c.getRaw(ctx, institutionsEndpoint, "institutions", listQuery(p.InstitutionCategory.String(), p.Region.String()), attrs)
}

// SchoolByID retrieves the full record of one secondary-education
// institution.
func (c *Client) SchoolByID(ctx context.Context, id int) (*Institution, error) {
	body, err := c.SchoolRaw(ctx, id)
	if err != nil {
		return nil, err
	}
	var out Institution
	if err := c.decode("school", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SchoolRaw returns the /api/school response body exactly as the registry
// served it.
func (c *Client) SchoolRaw(ctx context.Context, id int) ([]byte, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	attrs := telemetry.RegistryAttributes("school", 0, 0, id)
	return c.getRaw(ctx, schoolEndpoint, "school", idQuery(id), attrs)
}

func listQuery(ut, lc string) url.Values {
	q := url.Values{}
	q.Set("ut", ut)
	q.Set("lc", lc)
	q.Set("exp", "json")
	return q
}

func idQuery(id int) url.Values {
	q := url.Values{}
	q.Set("id", strconv.Itoa(id))
	q.Set("exp", "json")
	return q
}

// getRaw fetches the endpoint (through the cache when enabled) and returns
// the response body untouched. Raw bodies are what the cache stores, so
// typed and raw operations share entries.
func (c *Client) getRaw(ctx context.Context, path, operation string, params url.Values, attrs []attribute.KeyValue) ([]byte, error) {
	rawURL := c.baseURL + path + "?" + params.Encode()

	if c.cacheTTL > 0 {
		if body, ok := c.cache.Get(rawURL); ok {
			observeCache(operation, "hit")
			return body, nil
		}
		observeCache(operation, "miss")
	}

	body, err := c.doGet(ctx, rawURL, operation, attrs)
	if err != nil {
		return nil, err
	}

	if c.cacheTTL > 0 {
		c.cache.Set(rawURL, body, c.cacheTTL)
	}
	return body, nil
}

func (c *Client) decode(operation string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		c.logger.Error().Err(err).
			Str("event", "edbo.decode").
			Str("operation", operation).
			Msg("failed to decode registry response")
		return &APIError{
			Sentinel:  ErrBadResponse,
			Operation: operation,
			Err:       err,
		}
	}
	return nil
}

// doGet performs the GET with rate limiting, retries and per-attempt spans.
// It returns the response body on any status < 500; non-2xx statuses are
// mapped to sentinel errors.
func (c *Client) doGet(ctx context.Context, rawURL, operation string, attrs []attribute.KeyValue) ([]byte, error) {
	tracer := telemetry.Tracer("edbo.client")
	route, urlLabel := traceLabels(rawURL)
	ctx, span := tracer.Start(ctx, "edbo.registry.request", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String(telemetry.HTTPMethodKey, http.MethodGet),
		attribute.String(telemetry.HTTPRouteKey, route),
		attribute.String(telemetry.HTTPURLKey, urlLabel),
	)
	span.SetAttributes(attrs...)
	defer span.End()

	maxAttempts := c.maxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attemptCtx, attemptSpan := tracer.Start(ctx, "edbo.registry.request.attempt", trace.WithSpanKind(trace.SpanKindClient))
		attemptSpan.SetAttributes(
			attribute.Int("attempt", attempt),
			attribute.Bool("retry", attempt > 1),
		)

		if c.limiter != nil {
			if err := c.limiter.Wait(attemptCtx); err != nil {
				endSpanError(attemptSpan, err)
				endSpanError(span, err)
				return nil, c.wrapTransport(operation, err)
			}
		}

		req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
		if err != nil {
			endSpanError(attemptSpan, err)
			endSpanError(span, err)
			return nil, c.wrapTransport(operation, err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		otel.GetTextMapPropagator().Inject(attemptCtx, propagation.HeaderCarrier(req.Header))

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		status := 0
		if resp != nil {
			status = resp.StatusCode
		}

		retry := (err != nil || status >= http.StatusInternalServerError) && attempt < maxAttempts
		observeAttempt(operation, status, duration, err, retry)

		attemptSpan.SetAttributes(telemetry.HTTPAttributes(http.MethodGet, route, urlLabel, status)...)
		if err != nil {
			attemptSpan.RecordError(err)
			attemptSpan.SetStatus(codes.Error, err.Error())
		} else if status >= http.StatusBadRequest {
			attemptSpan.SetStatus(codes.Error, http.StatusText(status))
		} else {
			attemptSpan.SetStatus(codes.Ok, "")
		}
		attemptSpan.End()

		if err == nil && status < http.StatusInternalServerError {
			body, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				endSpanError(span, readErr)
				return nil, c.wrapTransport(operation, readErr)
			}

			span.SetAttributes(telemetry.HTTPAttributes(http.MethodGet, route, urlLabel, status)...)
			if status == http.StatusOK {
				span.SetStatus(codes.Ok, "")
				return body, nil
			}
			span.SetStatus(codes.Error, http.StatusText(status))
			return nil, c.statusError(operation, status, body)
		}

		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("registry returned status %d", status)
		}

		if !retry {
			if err == nil {
				span.SetAttributes(telemetry.HTTPAttributes(http.MethodGet, route, urlLabel, status)...)
				span.SetStatus(codes.Error, http.StatusText(status))
				return nil, c.statusError(operation, status, nil)
			}
			break
		}

		wait := c.backoffFor(attempt - 1)
		c.logger.Debug().
			Str("operation", operation).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("retrying registry request")
		if err := sleepWithContext(ctx, wait); err != nil {
			endSpanError(span, err)
			return nil, c.wrapTransport(operation, err)
		}
	}

	endSpanError(span, lastErr)
	return nil, c.wrapTransport(operation, lastErr)
}

// statusError maps a non-200 registry status to a sentinel error.
func (c *Client) statusError(operation string, status int, body []byte) error {
	var sentinel error
	switch {
	case status == http.StatusNotFound:
		sentinel = ErrNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		sentinel = ErrForbidden
	case status == http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	case status >= http.StatusInternalServerError:
		sentinel = ErrUpstream
	default:
		sentinel = ErrBadResponse
	}

	snippet := strings.TrimSpace(string(body))
	if len(snippet) > errorBodyLimit {
		snippet = snippet[:errorBodyLimit]
	}

	c.logger.Warn().
		Str("operation", operation).
		Int("status", status).
		Msg("registry request failed")

	return &APIError{
		Sentinel:  sentinel,
		Operation: operation,
		Status:    status,
		Body:      snippet,
	}
}

// wrapTransport maps a transport-level failure to a sentinel error.
func (c *Client) wrapTransport(operation string, err error) error {
	if err == nil {
		err = fmt.Errorf("request failed")
	}

	sentinel := ErrUnavailable
	if isTimeout(err) {
		sentinel = ErrTimeout
	}

	return &APIError{
		Sentinel:  sentinel,
		Operation: operation,
		Err:       err,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}

func (c *Client) backoffFor(attempt int) time.Duration {
	wait := c.backoff * time.Duration(1<<attempt)
	if wait > c.maxBackoff {
		wait = c.maxBackoff
	}
	jitter := time.Duration(c.randInt63n(int64(wait/5 + 1)))
	return wait + jitter
}

func (c *Client) randInt63n(n int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rnd.Int63n(n)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func endSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	kind := "transport"
	if isTimeout(err) {
		kind = "timeout"
	}
	span.RecordError(err)
	span.SetAttributes(telemetry.ErrorAttributes(err, kind)...)
	span.SetStatus(codes.Error, err.Error())
}

func traceLabels(rawURL string) (string, string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, rawURL
	}
	route := u.Path
	if route == "" {
		route = "/"
	}
	urlLabel := route
	if u.RawQuery != "" {
		urlLabel += "?"
	}
	return route, urlLabel
}
