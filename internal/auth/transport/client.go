package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"

	"authsession/internal/auth/models"
	"authsession/internal/platform/config"
	"authsession/internal/platform/metrics"
	"authsession/internal/platform/tracer"
	apierrors "authsession/pkg/api-errors"
	httpErrors "authsession/pkg/http-errors"
)

const (
	headerRequestID = "X-Request-ID"
	maxResponseSize = 4 << 20

	// DefaultUserAgent identifies the session core to the backend.
	DefaultUserAgent = "authsession/1.0"
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements Transport over HTTP.
type Client struct {
	endpoint   string
	restBase   string
	userAgent  string
	timeout    time.Duration
	httpClient HTTPDoer
	tokens     TokenStore
	cache      *queryCache
	tracer     tracer.Tracer
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTokenStore replaces the in-memory token store.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) {
		c.tokens = store
	}
}

// WithUserAgent sets the User-Agent sent with every request. The backend
// labels sessions with it.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the configured backend. The default HTTP client
// keeps a cookie jar so session cookies set by the backend are sent back.
func New(cfg config.Client, opts ...Option) *Client {
	c := &Client{
		endpoint:  cfg.GraphQLEndpoint,
		restBase:  strings.TrimRight(cfg.RESTBaseURL, "/"),
		userAgent: DefaultUserAgent,
		timeout:   cfg.RequestTimeout,
		tokens:    NewMemoryTokenStore(),
		cache:     newQueryCache(cfg.CacheSize, cfg.CacheTTL),
		tracer:    tracer.NewNoop(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		jar, _ := cookiejar.New(nil)
		c.httpClient = &http.Client{Timeout: cfg.RequestTimeout, Jar: jar}
	}
	return c
}

// withTimeout bounds one request by the configured timeout, whatever HTTP
// client is in use.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

type graphQLRequest struct {
	Query         string    `json:"query"`
	OperationName string    `json:"operationName"`
	Variables     Variables `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors apierrors.GraphQLErrors    `json:"errors"`
}

// Query runs a read under the given fetch policy.
func (c *Client) Query(ctx context.Context, op Operation, vars Variables, policy FetchPolicy) (json.RawMessage, error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanGraphQLQuery,
		tracer.String(tracer.AttrOperation, op.Name),
		tracer.String(tracer.AttrFetchPolicy, policy.String()),
	)

	if policy != CacheFirst {
		raw, err := c.execute(ctx, span, op, vars)
		span.End(err)
		return raw, err
	}

	key := cacheKey(op, vars)
	if raw, ok := c.cache.get(key); ok {
		c.metrics.IncrementCacheHit()
		span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, true))
		span.End(nil)
		return raw, nil
	}
	c.metrics.IncrementCacheMiss()
	span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, false))

	// The fetch is shared by every caller waiting on key, so it must not
	// stop when the first of them gives up.
	shared := context.WithoutCancel(ctx)
	raw, _, err := c.cache.load(ctx, key, func() (json.RawMessage, error) {
		return c.execute(shared, span, op, vars)
	})
	span.End(err)
	return raw, err
}

// Mutate runs a write and purges the query cache when it succeeds.
func (c *Client) Mutate(ctx context.Context, op Operation, vars Variables) (json.RawMessage, error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanGraphQLMutation, tracer.String(tracer.AttrOperation, op.Name))
	raw, err := c.execute(ctx, span, op, vars)
	if err == nil {
		c.cache.purge()
	}
	span.End(err)
	return raw, err
}

func (c *Client) execute(ctx context.Context, span tracer.Span, op Operation, vars Variables) (json.RawMessage, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	body, err := json.Marshal(graphQLRequest{Query: op.Document, OperationName: op.Name, Variables: vars})
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.CodeBadUserInput, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	requestID := c.authorize(req)
	span.SetAttributes(tracer.String(tracer.AttrRequestID, requestID))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "graphql request failed",
			"operation", op.Name,
			"request_id", requestID,
			"error", err,
		)
		return nil, err
	}
	defer resp.Body.Close()
	span.SetAttributes(tracer.Int64(tracer.AttrStatusCode, int64(resp.StatusCode)))

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "graphql request completed",
		"operation", op.Name,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	var decoded graphQLResponse
	decodeErr := json.Unmarshal(respBody, &decoded)

	// GraphQL servers report protocol errors with 200 or 4xx; prefer the error
	// list over the status whenever the body carries one.
	if decodeErr == nil && len(decoded.Errors) > 0 {
		return nil, decoded.Errors
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpErrors.StatusError{StatusCode: resp.StatusCode, Body: respBody}
	}
	if decodeErr != nil {
		return nil, apierrors.Wrap(decodeErr, apierrors.CodeInternal, "the server returned a malformed response")
	}

	raw, ok := decoded.Data[op.Name]
	if !ok {
		return nil, apierrors.New(apierrors.CodeInternal, fmt.Sprintf("response is missing %q", op.Name))
	}
	return raw, nil
}

// authorize stamps the request id and bearer token, returning the request id.
func (c *Client) authorize(req *http.Request) string {
	requestID := uuid.NewString()
	req.Header.Set(headerRequestID, requestID)
	req.Header.Set("User-Agent", c.userAgent)
	if tokens, err := c.tokens.Load(); err == nil && tokens.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	}
	return requestID
}

// Credentials returns the stored tokens. A store that fails to load reads as signed out.
func (c *Client) Credentials() models.AuthTokens {
	tokens, err := c.tokens.Load()
	if err != nil {
		c.logger.Warn("failed to load stored credentials", "error", err)
		return models.AuthTokens{}
	}
	return tokens
}

func (c *Client) StoreCredentials(tokens models.AuthTokens) error {
	return c.tokens.Save(tokens)
}

// Reset forgets credentials and cached reads.
func (c *Client) Reset() error {
	c.cache.purge()
	return c.tokens.Clear()
}

// ClearCache drops every cached read.
func (c *Client) ClearCache() {
	c.cache.purge()
}

var _ Transport = (*Client)(nil)
