package monitor

import (
	"sort"
	"sync"

	"github.com/donaldgifford/ebay-watcher/internal/metrics"
	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

// SnapshotStore holds the last-known-good snapshot per (account, source).
// Each entry is written only by its own coordinator's tick; reads come from
// the API layer. Entries are replaced wholesale, never merged.
type SnapshotStore struct {
	mu    sync.RWMutex
	snaps map[string]*domain.Snapshot
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snaps: make(map[string]*domain.Snapshot)}
}

func snapshotKey(account string, src domain.Source) string {
	return account + "/" + src.String()
}

// Get returns the current snapshot for one data source, if any.
func (s *SnapshotStore) Get(account string, src domain.Source) (*domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snaps[snapshotKey(account, src)]
	return snap, ok
}

// Set replaces the snapshot for its (account, source).
func (s *SnapshotStore) Set(snap *domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snaps[snapshotKey(snap.Account, snap.Source)] = snap
	metrics.SnapshotItems.WithLabelValues(snap.Account, snap.Source.String()).
		Set(float64(len(snap.Items)))
}

// Delete drops the snapshot for one data source.
func (s *SnapshotStore) Delete(account string, src domain.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snaps, snapshotKey(account, src))
	metrics.SnapshotItems.DeleteLabelValues(account, src.String())
}

// DeleteAccount drops every snapshot belonging to the account.
func (s *SnapshotStore) DeleteAccount(account string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, snap := range s.snaps {
		if snap.Account == account {
			delete(s.snaps, key)
			metrics.SnapshotItems.DeleteLabelValues(account, snap.Source.String())
		}
	}
}

// List returns the account's snapshots ordered by source key.
func (s *SnapshotStore) List(account string) []*domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Snapshot
	for _, snap := range s.snaps {
		if snap.Account == account {
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Source.String() < out[j].Source.String()
	})
	return out
}
