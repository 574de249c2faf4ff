package client

import (
	"context"
	"fmt"
)

// RefreshAll triggers an immediate poll on every coordinator.
func (c *Client) RefreshAll(ctx context.Context) error {
	return c.post(ctx, "/api/v1/refresh", nil, nil)
}

// RefreshAccount triggers an immediate poll on every coordinator belonging
// to the account.
func (c *Client) RefreshAccount(ctx context.Context, account string) error {
	return c.post(ctx, fmt.Sprintf("/api/v1/accounts/%s/refresh", account), nil, nil)
}

// RefreshSource triggers an immediate poll on one data source: bids,
// watchlist, purchases, or search:<id>.
func (c *Client) RefreshSource(ctx context.Context, account, source string) error {
	return c.post(ctx, fmt.Sprintf("/api/v1/accounts/%s/refresh/%s", account, source), nil, nil)
}
