// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog queries the upstream book catalog (Rakuten Books search
// API) and normalizes its records into types.CatalogEntry values.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/bookshelf/internal/httputil"
	"github.com/pdiddy/bookshelf/pkg/types"
)

// DefaultBaseURL is the Rakuten Books book search endpoint.
const DefaultBaseURL = "https://app.rakuten.co.jp/services/api/BooksBook/Search/20170404"

// PageSize is the number of records requested per page. A page shorter
// than this is the last one for its query.
const PageSize = 30

// laneBurst lets the title and author requests of one page leave together;
// the sustained rate stays at RequestsPerSecond.
const laneBurst = 2

// Field selects which catalog field a query is scoped to.
type Field string

const (
	FieldTitle      Field = "title"
	FieldAuthor     Field = "author"
	FieldIdentifier Field = "isbn"
)

// Client issues field-scoped queries against the catalog. It holds no
// per-query state; the rate limiter is shared by all calls and is safe for
// concurrent use.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	applicationID string
	userAgent     string
	maxRetries    int
	limiter       *rate.Limiter
	logger        *zap.Logger
}

// NewClient builds a client from cfg. A nil logger discards log output.
func NewClient(cfg types.CatalogConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "bookshelf"
	}

	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       baseURL,
		applicationID: cfg.ApplicationID,
		userAgent:     userAgent,
		maxRetries:    cfg.MaxRetries,
		limiter:       rate.NewLimiter(rate.Limit(rps), laneBurst),
		logger:        logger.Named("catalog"),
	}
}

// SearchByTitle returns one page (1-based) of entries whose title matches text.
func (c *Client) SearchByTitle(ctx context.Context, text string, page int) ([]types.CatalogEntry, error) {
	return c.query(ctx, FieldTitle, text, page)
}

// SearchByAuthor returns one page (1-based) of entries whose author matches text.
func (c *Client) SearchByAuthor(ctx context.Context, text string, page int) ([]types.CatalogEntry, error) {
	return c.query(ctx, FieldAuthor, text, page)
}

// SearchByIdentifier returns the entries matching an ISBN or JAN code.
func (c *Client) SearchByIdentifier(ctx context.Context, code string) ([]types.CatalogEntry, error) {
	return c.query(ctx, FieldIdentifier, code, 1)
}

// query issues exactly one request. Whitespace-only text returns no
// entries without touching the network.
func (c *Client) query(ctx context.Context, field Field, text string, page int) ([]types.CatalogEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{
		string(field):   {text},
		"page":          {strconv.Itoa(page)},
		"hits":          {strconv.Itoa(PageSize)},
		"sort":          {"standard"},
		"format":        {"json"},
		"formatVersion": {"2"},
	}
	if c.applicationID != "" {
		params.Set("applicationId", c.applicationID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Err: err}
	}

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries, c.logger)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("catalog query",
		zap.String("field", string(field)),
		zap.String("text", text),
		zap.Int("page", page),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if sr.Items == nil {
		return nil, &DecodeError{Err: errors.New(`response has no "Items" array`)}
	}

	entries := make([]types.CatalogEntry, 0, len(*sr.Items))
	for i, raw := range *sr.Items {
		entry, ok := Normalize(raw)
		if !ok {
			c.logger.Debug("skipping record without title", zap.Int("index", i), zap.String("isbn", raw.ISBN))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// statusError builds an HTTPStatusError, keeping the upstream error
// description when the body has one.
func statusError(resp *http.Response) error {
	herr := &HTTPStatusError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return herr
	}
	var er errorResponse
	if json.Unmarshal(body, &er) == nil {
		herr.Detail = firstNonEmpty(er.Description, er.Error)
	}
	return herr
}

// Catalog API JSON structures (formatVersion=2).
type searchResponse struct {
	Count     int          `json:"count"`
	Page      int          `json:"page"`
	PageCount int          `json:"pageCount"`
	Hits      int          `json:"hits"`
	Items     *[]RawRecord `json:"Items"`
}

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}
