// Package gateway wraps outbound calls to the condominium REST API. It
// attaches the session token, serializes JSON bodies, turns non-success
// statuses into typed errors and consults the response cache for reads.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/hvigueras/edificio-admin/internal/client/cache"
	"github.com/hvigueras/edificio-admin/middleware"
)

// TokenHeader is the single canonical auth header. Every request uses it;
// no per-module header schemes.
const TokenHeader = "x-token"

// TokenSource yields the current session token. The session store
// implements it; tests use a literal.
type TokenSource interface {
	Token() (string, bool)
}

// TokenFunc adapts a function to the TokenSource interface.
type TokenFunc func() (string, bool)

func (f TokenFunc) Token() (string, bool) { return f() }

// Request describes one API call.
type Request struct {
	Method string
	Path   string // relative to the base URL, e.g. "/cuotas"
	Body   any

	// Entity tags the cache entries this request reads or, for mutations,
	// should invalidate. Derived from the first path segment when empty.
	Entity string

	// SkipCache disables the cache for this call even when it is a GET.
	SkipCache bool

	// InvalidateCache removes the exact cache key before the call.
	InvalidateCache bool
}

// Response is a decoded API response.
type Response struct {
	StatusCode int
	Body       []byte

	// Cached reports whether the payload came from the response cache
	// rather than the network.
	Cached bool
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// APIError is a non-2xx response, carrying the server-provided message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Config holds gateway configuration.
type Config struct {
	BaseURL    string
	Tokens     TokenSource
	Cache      *cache.Cache
	HTTPClient *http.Client
}

// Client is the HTTP request gateway.
type Client struct {
	baseURL    string
	tokens     TokenSource
	cache      *cache.Cache
	httpClient *http.Client
}

// New creates a gateway client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("Cache is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		tokens:     cfg.Tokens,
		cache:      cfg.Cache,
		httpClient: httpClient,
	}, nil
}

// Do executes one request. GETs are served from the cache when a fresh
// entry exists; successful GET payloads are cached on the way out. Errors
// are logged and returned, never swallowed.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	ctx, span := middleware.StartSpan(ctx, "gateway.request", trace.WithAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.path", req.Path),
	))
	defer span.End()

	if req.Method == "" {
		req.Method = http.MethodGet
	}
	if req.Entity == "" {
		req.Entity = entityFromPath(req.Path)
	}

	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal body for %s %s: %w", req.Method, req.Path, err)
		}
	}

	key := cache.Key{
		Entity: req.Entity,
		Method: req.Method,
		Path:   req.Path,
		Body:   string(bodyBytes),
	}

	if req.InvalidateCache {
		c.cache.Delete(key)
	}

	cacheable := req.Method == http.MethodGet && !req.SkipCache
	if cacheable {
		if payload, ok := c.cache.Get(key); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &Response{StatusCode: http.StatusOK, Body: payload, Cached: true}, nil
		}
		span.SetAttributes(attribute.Bool("cache.hit", false))
	}

	var reader io.Reader
	if bodyBytes != nil {
		reader = bytes.NewReader(bodyBytes)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request %s %s: %w", req.Method, req.Path, err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if bodyBytes != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			httpReq.Header.Set(TokenHeader, token)
		}
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		log.Error().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("Request failed")
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer httpResp.Body.Close()

	payload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("read response %s %s: %w", req.Method, req.Path, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", httpResp.StatusCode))

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		apiErr := &APIError{
			Status:  httpResp.StatusCode,
			Message: mensajeDeError(payload, httpResp.StatusCode),
		}
		span.RecordError(apiErr)
		log.Error().
			Int("status", httpResp.StatusCode).
			Str("method", req.Method).
			Str("path", req.Path).
			Str("msg", apiErr.Message).
			Msg("API error")
		return nil, apiErr
	}

	if cacheable {
		c.cache.Set(key, payload)
	}
	return &Response{StatusCode: httpResp.StatusCode, Body: payload}, nil
}

// Get performs a cached GET and unmarshals the payload into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.JSON(out)
}

// Mutate performs a write, invalidates every cached read for the entity
// and unmarshals the payload into out when non-nil.
func (c *Client) Mutate(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.Do(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		return err
	}
	c.cache.Invalidate(entityFromPath(path))
	if out == nil {
		return nil
	}
	return resp.JSON(out)
}

// Invalidate purges every cached read for the given entity tag.
func (c *Client) Invalidate(entity string) {
	c.cache.Invalidate(entity)
}

// Batch executes the requests concurrently, failing fast: the first error
// cancels the rest and is returned. Results are positional.
func (c *Client) Batch(ctx context.Context, reqs []Request) ([]*Response, error) {
	results := make([]*Response, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			resp, err := c.Do(ctx, req)
			if err != nil {
				return err
			}
			results[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// mensajeDeError pulls the server message out of an error payload, falling
// back to a generic message with the status code.
func mensajeDeError(payload []byte, status int) string {
	for _, campo := range []string{"msg", "message", "error"} {
		if v := gjson.GetBytes(payload, campo); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return fmt.Sprintf("error %d del servidor", status)
}

// entityFromPath derives the cache entity tag from the first path segment:
// "/cuotas/3/pagar" -> "cuotas".
func entityFromPath(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(path, "/?"); i >= 0 {
		path = path[:i]
	}
	return path
}
