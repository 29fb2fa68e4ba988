// Package catalogapi is the HTTP client for the remote Catalog API.
//
// The API is a plain JSON-over-GET backend with loosely standardized response
// envelopes; see parseEnvelope for the accepted shapes. All decoding funnels
// through the catalog package so wire-format quirks never leak past this
// boundary.
package catalogapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/optika-storefront/internal/domain/catalog"
)

// maxResponseBytes caps how much of an upstream response is read.
const maxResponseBytes = 10 << 20

// defaultListLimit matches the page size the original storefront requested.
const defaultListLimit = 10

// TokenSource supplies an optional bearer token attached to every request.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource returning a fixed token. The empty string
// disables the Authorization header.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// legacyTokenEnvKeys are checked in order by EnvToken. They mirror the
// storage keys older storefront deployments used.
var legacyTokenEnvKeys = []string{"ADMIN_TOKEN", "AUTH_TOKEN", "TOKEN"}

// EnvToken returns the first non-empty token found under the legacy
// environment key names, or the empty string.
func EnvToken() string {
	for _, key := range legacyTokenEnvKeys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// Client talks to one Catalog API base URL.
type Client struct {
	base   *url.URL
	http   *http.Client
	tokens TokenSource
	limit  int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, including its timeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTransport replaces the transport on the client's own http.Client,
// keeping its timeout. Used to install the instrumented round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

// WithTokenSource sets the bearer token source.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithListLimit overrides the default limit for the convenience list calls.
func WithListLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limit = n
		}
	}
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("catalog api url %q must be absolute", baseURL)
	}

	c := &Client{
		base:  u,
		http:  &http.Client{Timeout: 10 * time.Second},
		limit: defaultListLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.base.String() }

// get performs one GET, normalizes the envelope, and unmarshals the payload
// into out when out is non-nil. The returned pagination is zero unless the
// endpoint provided one.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) (catalog.Pagination, error) {
	env, pg, err := c.do(ctx, path, params)
	if err != nil {
		return pg, err
	}
	if out != nil {
		if err := json.Unmarshal(env.data, out); err != nil {
			return pg, errors.Wrapf(err, "decode %s payload", path)
		}
	}
	return pg, nil
}

// do performs one GET and normalizes the response envelope without decoding
// the payload.
func (c *Client) do(ctx context.Context, path string, params url.Values) (envelope, catalog.Pagination, error) {
	var pg catalog.Pagination

	u := c.base.JoinPath(path)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return envelope{}, pg, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return envelope{}, pg, errors.Wrapf(err, "GET %s", path)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return envelope{}, pg, errors.Wrapf(err, "read %s response", path)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return envelope{}, pg, catalog.ErrNotFound
	case resp.StatusCode >= 400:
		return envelope{}, pg, &UpstreamError{Message: "catalog api: " + resp.Status}
	}

	env, err := parseEnvelope(body)
	if err != nil {
		return envelope{}, pg, err
	}
	if env.pagination != nil {
		// Pagination is best effort; a bad block does not fail the fetch.
		_ = json.Unmarshal(env.pagination, &pg)
	}
	return env, pg, nil
}

// decodeOne unmarshals a single-entity payload into out, tolerating the
// variant where the API wraps the entity in a one-element array.
func decodeOne(env envelope, out any) error {
	if !env.isArray() {
		return json.Unmarshal(env.data, out)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(env.data, &items); err != nil {
		return err
	}
	if len(items) == 0 {
		return catalog.ErrNotFound
	}
	return json.Unmarshal(items[0], out)
}
