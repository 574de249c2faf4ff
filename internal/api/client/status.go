package client

import (
	"context"
	"fmt"
	"time"

	"github.com/donaldgifford/ebay-watcher/internal/monitor"
)

// StatusReport is the decoded /api/v1/status response.
type StatusReport struct {
	Accounts     []string                    `json:"accounts"`
	Coordinators []monitor.CoordinatorStatus `json:"coordinators"`
	Degraded     int                         `json:"degraded"`
}

// Status returns every coordinator's poll health.
func (c *Client) Status(ctx context.Context) (*StatusReport, error) {
	var out StatusReport
	if err := c.get(ctx, "/api/v1/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QuotaReport is the decoded /api/v1/quota response.
type QuotaReport struct {
	DailyLimit int64     `json:"daily_limit"`
	DailyUsed  int64     `json:"daily_used"`
	Remaining  int64     `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
}

// Quota returns the current eBay API quota usage.
func (c *Client) Quota(ctx context.Context) (*QuotaReport, error) {
	var out QuotaReport
	if err := c.get(ctx, "/api/v1/quota", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SnapshotSummary describes one data source's snapshot without its items.
type SnapshotSummary struct {
	Source     string    `json:"source"`
	ItemCount  int       `json:"item_count"`
	CapturedAt time.Time `json:"captured_at"`
}

// ListSnapshots returns the account's snapshot summaries.
func (c *Client) ListSnapshots(ctx context.Context, account string) ([]SnapshotSummary, error) {
	var out struct {
		Snapshots []SnapshotSummary `json:"snapshots"`
	}
	path := fmt.Sprintf("/api/v1/accounts/%s/snapshots", account)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Snapshots, nil
}
