package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ebay-watcher/internal/ebay"
	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

func TestNewScheduler_RegistersEntries(t *testing.T) {
	t.Parallel()

	reg, _, _, _ := newTestRegistry(t)

	s, err := NewScheduler(reg, time.Hour, time.Minute, quietLogger())
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 2)

	// Zero refresh interval disables the safety-net job.
	s, err = NewScheduler(reg, 0, time.Minute, quietLogger())
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 1)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	reg, _, _, _ := newTestRegistry(t)

	s, err := NewScheduler(reg, time.Hour, time.Hour, quietLogger())
	require.NoError(t, err)

	s.Start()
	ctx := s.Stop()

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_RefreshAllJob(t *testing.T) {
	t.Parallel()

	reg, _, client, _ := newTestRegistry(t)
	client.setResponse(nil, nil)
	require.NoError(t, reg.AddAccount(context.Background(), "alice", client))

	require.Eventually(t, func() bool {
		return client.calls.Load() == 3
	}, 2*time.Second, 10*time.Millisecond)

	s, err := NewScheduler(reg, time.Hour, time.Hour, quietLogger())
	require.NoError(t, err)

	s.runRefreshAll()

	require.Eventually(t, func() bool {
		return client.calls.Load() == 6
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_HealthSweep(t *testing.T) {
	t.Parallel()

	reg, _, client, _ := newTestRegistry(t)
	client.setResponse(nil, ebay.ErrUnavailable)
	require.NoError(t, reg.AddAccount(context.Background(), "alice", client))

	require.Eventually(t, func() bool {
		for _, st := range reg.Statuses() {
			if st.Source.Kind == domain.SourceBids && st.Degraded {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	s, err := NewScheduler(reg, 0, time.Hour, quietLogger())
	require.NoError(t, err)

	// The sweep only logs; it must not disturb coordinator state.
	s.runHealthSweep()

	degraded := 0
	for _, st := range reg.Statuses() {
		if st.Degraded {
			degraded++
		}
	}
	assert.GreaterOrEqual(t, degraded, 1)
}
