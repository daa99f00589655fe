package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Gateway defines the catalog operations the rest of dex depends on.
// This interface is implemented by *Client and can be replaced in tests.
type Gateway interface {
	ListPage(ctx context.Context, limit, offset int) ([]Record, error)
	GetByID(ctx context.Context, id int) (Record, error)
	GetManyByIDs(ctx context.Context, ids []int) []Record
	GetDescription(ctx context.Context, id int) (string, error)
	Search(ctx context.Context, term string) []Record
}

// Ensure Client implements Gateway at compile time.
var _ Gateway = (*Client)(nil)

// ErrNotFound is matched by errors for resources the catalog does not know.
var ErrNotFound = errors.New("not found")

// StatusError reports a non-2xx response from the catalog.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// Client talks to the PokeAPI HTTP catalog.
type Client struct {
	baseURL     *url.URL
	http        *http.Client
	userAgent   string
	logger      *log.Logger
	concurrency int
}

const (
	DefaultBaseURL     = "https://pokeapi.co/api/v2"
	defaultUserAgent   = "dex/0.1"
	defaultConcurrency = 8
	requestTimeout     = 10 * time.Second

	// SearchTypeLimit caps how many members a by-type search returns.
	SearchTypeLimit = 20
)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets where dropped lookups are reported.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithConcurrency bounds the number of in-flight detail fetches.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client rooted at baseURL, e.g. https://pokeapi.co/api/v2.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent:   defaultUserAgent,
		logger:      log.New(io.Discard, "", 0),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListPage fetches one index page and the full record behind every entry.
// Detail fetches run concurrently; the first failure fails the whole page.
func (c *Client) ListPage(ctx context.Context, limit, offset int) ([]Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	if offset < 0 {
		return nil, fmt.Errorf("offset must not be negative")
	}
	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	values.Set("offset", strconv.Itoa(offset))

	var page indexPage
	if err := c.get(ctx, c.relative("pokemon", values), &page); err != nil {
		return nil, fmt.Errorf("fetch index: %w", err)
	}

	records := make([]Record, len(page.Results))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, ref := range page.Results {
		i, ref := i, ref
		g.Go(func() error {
			target, err := c.resolve(ref.URL)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", ref.Name, err)
			}
			rec, err := c.fetchRecord(gctx, target)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", ref.Name, err)
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// GetByID fetches a single record.
func (c *Client) GetByID(ctx context.Context, id int) (Record, error) {
	if c == nil {
		return Record{}, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return Record{}, fmt.Errorf("fetch pokemon %d: invalid id", id)
	}
	rec, err := c.fetchRecord(ctx, c.relative("pokemon/"+strconv.Itoa(id), nil))
	if err != nil {
		return Record{}, fmt.Errorf("fetch pokemon %d: %w", id, err)
	}
	return rec, nil
}

// GetManyByIDs fetches every id concurrently. Failed lookups are logged and
// dropped, so the result may be shorter than ids and arrives in completion
// order.
func (c *Client) GetManyByIDs(ctx context.Context, ids []int) []Record {
	if c == nil || len(ids) == 0 {
		return []Record{}
	}
	var (
		mu      sync.Mutex
		records = make([]Record, 0, len(ids))
	)
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			rec, err := c.GetByID(ctx, id)
			if err != nil {
				c.logger.Printf("dropping pokemon %d: %v", id, err)
				return nil
			}
			mu.Lock()
			records = append(records, rec)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return records
}

// GetDescription returns the first English flavor text for a species.
func (c *Client) GetDescription(ctx context.Context, id int) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return "", fmt.Errorf("fetch species %d: invalid id", id)
	}
	var species speciesPayload
	if err := c.get(ctx, c.relative("pokemon-species/"+strconv.Itoa(id), nil), &species); err != nil {
		return "", fmt.Errorf("fetch species %d: %w", id, err)
	}
	return species.englishFlavorText(), nil
}

// Search looks the term up as an exact name, then as a type. Misses and
// failures fall through to the next strategy; a complete miss returns an
// empty slice. Search never returns an error.
func (c *Client) Search(ctx context.Context, term string) []Record {
	normalized := NormalizeQuery(term)
	if c == nil || normalized == "" {
		return nil
	}
	escaped := url.PathEscape(normalized)

	rec, err := c.fetchRecord(ctx, c.relative("pokemon/"+escaped, nil))
	if err == nil {
		return []Record{rec}
	}
	c.logger.Printf("search %q: no name match: %v", normalized, err)

	var byType typePayload
	if err := c.get(ctx, c.relative("type/"+escaped, nil), &byType); err != nil {
		c.logger.Printf("search %q: no type match: %v", normalized, err)
		return []Record{}
	}

	members := byType.Pokemon
	if len(members) > SearchTypeLimit {
		members = members[:SearchTypeLimit]
	}
	var (
		mu      sync.Mutex
		records = make([]Record, 0, len(members))
	)
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for _, m := range members {
		m := m
		g.Go(func() error {
			target, err := c.resolve(m.Pokemon.URL)
			if err == nil {
				var rec Record
				if rec, err = c.fetchRecord(ctx, target); err == nil {
					mu.Lock()
					records = append(records, rec)
					mu.Unlock()
					return nil
				}
			}
			c.logger.Printf("search %q: dropping %s: %v", normalized, m.Pokemon.Name, err)
			return nil
		})
	}
	_ = g.Wait()
	return records
}

// NormalizeQuery trims and lower-cases a user query.
func NormalizeQuery(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func (c *Client) fetchRecord(ctx context.Context, target *url.URL) (Record, error) {
	var raw json.RawMessage
	if err := c.get(ctx, target, &raw); err != nil {
		return Record{}, err
	}
	rec, err := decodeRecord(raw)
	if err != nil {
		return Record{}, fmt.Errorf("decode response: %w", err)
	}
	return rec, nil
}

// relative builds an absolute URL below the base path.
func (c *Client) relative(path string, values url.Values) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if values != nil {
		u.RawQuery = values.Encode()
	}
	return &u
}

// resolve turns a resource URL from a payload into an absolute URL.
func (c *Client) resolve(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty resource url")
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse resource url %q: %w", raw, err)
	}
	return c.baseURL.ResolveReference(ref), nil
}

func (c *Client) get(ctx context.Context, target *url.URL, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &StatusError{Path: target.Path, Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base_url %q: %w", raw, err)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
