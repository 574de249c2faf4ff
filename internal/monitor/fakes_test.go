package monitor

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/donaldgifford/ebay-watcher/internal/ebay"
	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClient serves canned items or a canned error, tracks call counts, and
// detects overlapping fetches. When gate is set, Fetch blocks until the gate
// channel is closed.
type fakeClient struct {
	mu    sync.Mutex
	items []domain.Item
	err   error
	gate  chan struct{}

	calls       atomic.Int64
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeClient) setResponse(items []domain.Item, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
	f.err = err
}

func (f *fakeClient) setGate(gate chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = gate
}

func (f *fakeClient) Fetch(ctx context.Context, _ ebay.Request) ([]domain.Item, error) {
	n := f.inFlight.Add(1)
	for {
		peak := f.maxInFlight.Load()
		if n <= peak || f.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}
	defer f.inFlight.Add(-1)

	f.calls.Add(1)

	f.mu.Lock()
	items, err, gate := f.items, f.err, f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	out := make([]domain.Item, len(items))
	copy(out, items)
	return out, nil
}

// fakePublisher records everything published.
type fakePublisher struct {
	mu        sync.Mutex
	events    []domain.Event
	snapshots []*domain.Snapshot
}

func (f *fakePublisher) PublishEvent(_ context.Context, evt domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return nil
}

func (f *fakePublisher) PublishSnapshot(_ context.Context, snap *domain.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots = append(f.snapshots, snap)
	return nil
}

func (f *fakePublisher) eventList() []domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Event, len(f.events))
	copy(out, f.events)
	return out
}

func (f *fakePublisher) snapshotCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.snapshots)
}
