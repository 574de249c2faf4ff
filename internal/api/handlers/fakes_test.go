package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ebay-watcher/internal/ebay"
	"github.com/donaldgifford/ebay-watcher/internal/monitor"
	"github.com/donaldgifford/ebay-watcher/internal/publish"
	"github.com/donaldgifford/ebay-watcher/internal/searchstore"
	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClient returns an empty item list for every fetch.
type fakeClient struct{}

func (fakeClient) Fetch(context.Context, ebay.Request) ([]domain.Item, error) {
	return nil, nil
}

// newTestRegistry builds a registry with one account "alice" backed by an
// in-memory search store. Intervals are long enough that only the first
// tick of each coordinator fires during a test.
func newTestRegistry(t *testing.T) (*monitor.Registry, *monitor.SnapshotStore) {
	t.Helper()

	store, err := searchstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	snaps := monitor.NewSnapshotStore()
	reg := monitor.NewRegistry(monitor.RegistryConfig{
		Store:     store,
		Publisher: publish.NewNoopPublisher(publish.WithNoopLogger(quietLogger())),
		Snapshots: snaps,
		Logger:    quietLogger(),
		Intervals: monitor.Intervals{
			Bids:      time.Hour,
			Watchlist: time.Hour,
			Purchases: time.Hour,
		},
		InitialBackoff: time.Hour,
		MaxBackoff:     time.Hour,
	})
	t.Cleanup(reg.StopAll)

	require.NoError(t, reg.AddAccount(t.Context(), "alice", fakeClient{}))
	return reg, snaps
}
