package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/ebay-watcher/internal/monitor"
	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

// SnapshotsHandler exposes the latest polled state.
type SnapshotsHandler struct {
	snapshots *monitor.SnapshotStore
}

// NewSnapshotsHandler creates a new SnapshotsHandler.
func NewSnapshotsHandler(s *monitor.SnapshotStore) *SnapshotsHandler {
	return &SnapshotsHandler{snapshots: s}
}

// SnapshotSummary describes one data source's snapshot without its items.
type SnapshotSummary struct {
	Source     string    `json:"source" example:"bids" doc:"Source key, e.g. bids or search:<id>"`
	ItemCount  int       `json:"item_count" doc:"Number of items in the snapshot"`
	CapturedAt time.Time `json:"captured_at" doc:"When the snapshot was taken"`
}

// ListSnapshotsInput identifies the account.
type ListSnapshotsInput struct {
	Account string `path:"account" doc:"Account name"`
}

// ListSnapshotsOutput is the response body for the snapshot list endpoint.
type ListSnapshotsOutput struct {
	Body struct {
		Snapshots []SnapshotSummary `json:"snapshots"`
	}
}

// List summarizes the account's snapshots.
func (h *SnapshotsHandler) List(_ context.Context, input *ListSnapshotsInput) (*ListSnapshotsOutput, error) {
	out := &ListSnapshotsOutput{}
	out.Body.Snapshots = []SnapshotSummary{}
	for _, snap := range h.snapshots.List(input.Account) {
		out.Body.Snapshots = append(out.Body.Snapshots, SnapshotSummary{
			Source:     snap.Source.String(),
			ItemCount:  len(snap.Items),
			CapturedAt: snap.CapturedAt,
		})
	}
	return out, nil
}

// GetSnapshotInput identifies one data source.
type GetSnapshotInput struct {
	Account string `path:"account" doc:"Account name"`
	Source  string `path:"source" doc:"bids, watchlist, purchases, or search:<id>"`
}

// GetSnapshotOutput is the response body for one snapshot.
type GetSnapshotOutput struct {
	Body struct {
		Source     string        `json:"source"`
		Items      []domain.Item `json:"items" doc:"Items sorted by item ID"`
		ItemCount  int           `json:"item_count"`
		CapturedAt time.Time     `json:"captured_at"`
	}
}

// Get returns the full snapshot for one data source. The snapshot may be
// stale if the upstream is failing; staleness shows in captured_at.
func (h *SnapshotsHandler) Get(_ context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error) {
	src, err := parseSource(input.Source)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	snap, ok := h.snapshots.Get(input.Account, src)
	if !ok {
		return nil, huma.Error404NotFound("no snapshot for " + input.Source)
	}

	items := make([]domain.Item, 0, len(snap.Items))
	for _, item := range snap.Items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemID < items[j].ItemID })

	out := &GetSnapshotOutput{}
	out.Body.Source = snap.Source.String()
	out.Body.Items = items
	out.Body.ItemCount = len(items)
	out.Body.CapturedAt = snap.CapturedAt
	return out, nil
}

// RegisterSnapshotsRoutes registers snapshot endpoints with the Huma API.
func RegisterSnapshotsRoutes(api huma.API, h *SnapshotsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-snapshots",
		Method:      http.MethodGet,
		Path:        "/api/v1/accounts/{account}/snapshots",
		Summary:     "List snapshot summaries",
		Tags:        []string{"snapshots"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-snapshot",
		Method:      http.MethodGet,
		Path:        "/api/v1/accounts/{account}/snapshots/{source}",
		Summary:     "Get one snapshot",
		Description: "Returns the last-known-good item list for one data source.",
		Tags:        []string{"snapshots"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.Get)
}
