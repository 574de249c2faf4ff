package client

import (
	"context"
	"fmt"

	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

// searchRequest contains only the fields the API accepts for create/update.
type searchRequest struct {
	SearchQuery    string   `json:"search_query"`
	Site           string   `json:"site,omitempty"`
	CategoryID     string   `json:"category_id,omitempty"`
	MinPrice       *float64 `json:"min_price,omitempty"`
	MaxPrice       *float64 `json:"max_price,omitempty"`
	ListingType    string   `json:"listing_type,omitempty"`
	UpdateInterval int      `json:"update_interval,omitempty"`
}

func toSearchRequest(def domain.SearchDefinition) searchRequest {
	return searchRequest{
		SearchQuery:    def.SearchQuery,
		Site:           def.Site,
		CategoryID:     def.CategoryID,
		MinPrice:       def.MinPrice,
		MaxPrice:       def.MaxPrice,
		ListingType:    string(def.ListingType),
		UpdateInterval: def.UpdateInterval,
	}
}

// ListSearches returns the account's saved searches.
func (c *Client) ListSearches(ctx context.Context, account string) ([]domain.SearchDefinition, error) {
	var out struct {
		Searches []domain.SearchDefinition `json:"searches"`
	}
	path := fmt.Sprintf("/api/v1/accounts/%s/searches", account)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Searches, nil
}

// GetSearch returns a single saved search by ID.
func (c *Client) GetSearch(ctx context.Context, account, searchID string) (*domain.SearchDefinition, error) {
	var def domain.SearchDefinition
	path := fmt.Sprintf("/api/v1/accounts/%s/searches/%s", account, searchID)
	if err := c.get(ctx, path, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

// CreateSearch creates a new saved search and returns it with its
// generated ID.
func (c *Client) CreateSearch(ctx context.Context, account string, def domain.SearchDefinition) (*domain.SearchDefinition, error) {
	var created domain.SearchDefinition
	path := fmt.Sprintf("/api/v1/accounts/%s/searches", account)
	if err := c.post(ctx, path, toSearchRequest(def), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSearch updates an existing saved search.
func (c *Client) UpdateSearch(ctx context.Context, account, searchID string, def domain.SearchDefinition) (*domain.SearchDefinition, error) {
	var updated domain.SearchDefinition
	path := fmt.Sprintf("/api/v1/accounts/%s/searches/%s", account, searchID)
	if err := c.put(ctx, path, toSearchRequest(def), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSearch deletes a saved search by ID.
func (c *Client) DeleteSearch(ctx context.Context, account, searchID string) error {
	path := fmt.Sprintf("/api/v1/accounts/%s/searches/%s", account, searchID)
	return c.del(ctx, path)
}
