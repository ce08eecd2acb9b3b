// Package index is a client for a package index's XML-RPC API, covering
// the search, package_releases and release_data methods. Responses are
// cached through a pluggable backend and transient failures are retried
// with backoff.
package index

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pysearch/pysearch/pkg/cache"
	"github.com/pysearch/pysearch/pkg/httputil"
	"github.com/pysearch/pysearch/pkg/search"
)

// DefaultURL is the default index endpoint.
const DefaultURL = "https://pypi.org/pypi"

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package or release doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection
	// errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Client provides access to the index's XML-RPC API.
// It handles request caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http    *http.Client
	url     string
	cache   cache.Cache
	ttl     time.Duration
	refresh bool
}

// NewClient creates an index client for the given endpoint URL.
//
// Parameters:
//   - url: XML-RPC endpoint; "" uses [DefaultURL]
//   - backend: cache backend (use cache.NewNullCache() for no caching)
//   - ttl: how long responses are cached
//   - refresh: bypass the cache and always hit the index
func NewClient(url string, backend cache.Cache, ttl time.Duration, refresh bool) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		url:     url,
		cache:   backend,
		ttl:     ttl,
		refresh: refresh,
	}
}

// Search queries the index for packages whose name or summary contains
// any of the terms ("or" combination). The result is a flat list of
// per-version hits; callers typically fold it with [search.Aggregate].
func (c *Client) Search(ctx context.Context, terms []string) ([]search.Hit, error) {
	var hits []search.Hit
	err := c.cached(ctx, c.key("search", terms), &hits, func() error {
		res, err := c.call(ctx, "search", []any{
			map[string]any{"name": terms, "summary": terms},
			"or",
		})
		if err != nil {
			return err
		}
		hits = decodeHits(res.values())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hits, nil
}

// LatestRelease returns the most recent release version of a package,
// or [ErrNotFound] when the index knows no releases for it.
func (c *Client) LatestRelease(ctx context.Context, name string) (string, error) {
	var releases []string
	err := c.cached(ctx, c.key("releases", name), &releases, func() error {
		res, err := c.call(ctx, "package_releases", []any{name})
		if err != nil {
			return err
		}
		releases = releases[:0]
		for _, v := range res.values() {
			releases = append(releases, v.scalar())
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if len(releases) == 0 {
		return "", fmt.Errorf("%w: no releases for %s", ErrNotFound, name)
	}
	return releases[0], nil
}

// ReleaseData fetches the hit record for one name/version pair.
// ok is false when the index has no data for the pair; that is not an
// error, the entry simply contributes nothing.
func (c *Client) ReleaseData(ctx context.Context, name, version string) (search.Hit, bool, error) {
	type result struct {
		Hit search.Hit `json:"hit"`
		OK  bool       `json:"ok"`
	}
	var r result
	err := c.cached(ctx, c.key("release_data", name, version), &r, func() error {
		res, err := c.call(ctx, "release_data", []any{name, version})
		if err != nil {
			return err
		}
		if res.empty() {
			r = result{}
			return nil
		}
		r = result{Hit: decodeHit(res), OK: true}
		return nil
	})
	if err != nil {
		return search.Hit{}, false, err
	}
	return r.Hit, r.OK, nil
}

// cached retrieves a value from cache or executes fetch and caches the
// result. With refresh set, the cache is bypassed and fetch always runs.
func (c *Client) cached(ctx context.Context, key string, v any, fetch func() error) error {
	if !c.refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			if json.Unmarshal(data, v) == nil {
				return nil
			}
		}
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}
	return nil
}

// key builds a namespaced cache key from the endpoint and call shape.
func (c *Client) key(parts ...any) string {
	data, _ := json.Marshal(append([]any{c.url}, parts...))
	return "index:" + cache.Hash(data)
}

// call performs one XML-RPC round trip.
func (c *Client) call(ctx context.Context, method string, params []any) (value, error) {
	body, err := encodeCall(method, params)
	if err != nil {
		return value{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return value{}, err
	}
	req.Header.Set("Content-Type", "text/xml")
	req.Header.Set("Accept", "text/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return value{}, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return value{}, err
	}
	return decodeResponse(resp.Body)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// decodeHits maps an array of hit structs into the flat hit list.
// Records without a name are dropped; a missing or nil score is zero.
func decodeHits(values []value) []search.Hit {
	var hits []search.Hit
	for _, v := range values {
		hit := decodeHit(v)
		if hit.Name == "" {
			continue
		}
		hits = append(hits, hit)
	}
	return hits
}

func decodeHit(v value) search.Hit {
	var hit search.Hit
	if m, ok := v.member("name"); ok {
		hit.Name = m.scalar()
	}
	if m, ok := v.member("summary"); ok {
		hit.Summary = m.scalar()
	}
	if m, ok := v.member("version"); ok {
		hit.Version = m.scalar()
	}
	if m, ok := v.member("_pypi_ordering"); ok {
		if n, ok := m.number(); ok {
			hit.Score = n
		}
	}
	return hit
}
