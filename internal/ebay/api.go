package ebay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/donaldgifford/ebay-watcher/internal/metrics"
	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

const (
	defaultBuyingURL = "https://api.ebay.com/buying/v1/my_ebay"
	defaultSearchURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"
)

// APIClient implements Client against the eBay HTTP APIs.
type APIClient struct {
	tokens      TokenProvider
	buyingURL   string
	searchURL   string
	site        string
	client      *http.Client
	rateLimiter *RateLimiter
}

// APIOption configures the APIClient.
type APIOption func(*APIClient)

// WithBuyingURL overrides the default buying endpoint.
func WithBuyingURL(u string) APIOption {
	return func(c *APIClient) {
		c.buyingURL = u
	}
}

// WithSearchURL overrides the default search endpoint.
func WithSearchURL(u string) APIOption {
	return func(c *APIClient) {
		c.searchURL = u
	}
}

// WithSite sets the eBay global ID sent with every request.
func WithSite(site string) APIOption {
	return func(c *APIClient) {
		c.site = domain.SiteID(site)
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) APIOption {
	return func(c *APIClient) {
		c.client = hc
	}
}

// WithRateLimiter injects a rate limiter that controls per-second and daily
// API call limits. When set, every Fetch() call goes through Wait() first.
func WithRateLimiter(r *RateLimiter) APIOption {
	return func(c *APIClient) {
		c.rateLimiter = r
	}
}

// NewAPIClient creates a new eBay API client.
func NewAPIClient(tokens TokenProvider, opts ...APIOption) *APIClient {
	c := &APIClient{
		tokens:    tokens,
		buyingURL: defaultBuyingURL,
		searchURL: defaultSearchURL,
		site:      domain.DefaultSite,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch implements Client. The request kind selects between the combined
// buying endpoint (bids, watchlist, purchases) and the search endpoint.
func (c *APIClient) Fetch(ctx context.Context, req Request) ([]domain.Item, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.EbayDailyLimitHits.Inc()
			}
			return nil, fmt.Errorf("rate limit: %w: %w", ErrUnavailable, err)
		}
		metrics.EbayAPICallsTotal.Inc()
		metrics.EbayDailyUsage.Set(float64(c.rateLimiter.DailyCount()))
	}

	if req.Kind == domain.SourceSearch {
		if req.Search == nil {
			return nil, fmt.Errorf("search request missing definition")
		}
		return c.search(ctx, req.Search)
	}
	return c.fetchBuying(ctx, req.Kind)
}

func (c *APIClient) fetchBuying(ctx context.Context, kind domain.SourceKind) ([]domain.Item, error) {
	body, err := c.get(ctx, c.buyingURL)
	if err != nil {
		return nil, err
	}

	var resp buyingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing buying response: %w", err)
	}

	switch kind {
	case domain.SourceBids:
		return toItems(resp.Bids), nil
	case domain.SourceWatchlist:
		return toItems(resp.Watchlist), nil
	case domain.SourcePurchases:
		return toItems(resp.Purchases), nil
	default:
		return nil, fmt.Errorf("unknown buying category %q", kind)
	}
}

func (c *APIClient) search(ctx context.Context, def *domain.SearchDefinition) ([]domain.Item, error) {
	body, err := c.get(ctx, c.buildSearchURL(def))
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	return toItems(resp.Items), nil
}

// get performs an authenticated GET and maps failures onto the typed
// upstream errors.
func (c *APIClient) get(ctx context.Context, u string) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting auth token: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.site)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %w", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	return body, nil
}

// statusError maps an HTTP status to the upstream error taxonomy.
func statusError(status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w (status %d): %s", ErrRejected, status, truncate(body))
	default:
		return fmt.Errorf("%w (status %d): %s", ErrUnavailable, status, truncate(body))
	}
}

func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

func (c *APIClient) buildSearchURL(def *domain.SearchDefinition) string {
	params := url.Values{}
	params.Set("q", def.SearchQuery)
	params.Set("site", domain.SiteID(def.Site))
	params.Set("listingType", def.ListingType.Wire())

	if def.CategoryID != "" {
		params.Set("category_ids", def.CategoryID)
	}
	if def.MinPrice != nil {
		params.Set("minPrice", strconv.FormatFloat(*def.MinPrice, 'f', -1, 64))
	}
	if def.MaxPrice != nil {
		params.Set("maxPrice", strconv.FormatFloat(*def.MaxPrice, 'f', -1, 64))
	}

	return c.searchURL + "?" + params.Encode()
}
