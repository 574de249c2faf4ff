package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }

func snapOf(account string, src domain.Source, items ...domain.Item) *domain.Snapshot {
	return domain.NewSnapshot(account, src, items, time.Now())
}

func eventTypes(events []domain.Event) []domain.EventType {
	if len(events) == 0 {
		return nil
	}
	out := make([]domain.EventType, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func TestDetect_FirstPollSuppressesNewResults(t *testing.T) {
	t.Parallel()

	src := domain.SearchSource("s1")
	cur := snapOf("alice", src,
		domain.Item{ItemID: "1", Title: "a"},
		domain.Item{ItemID: "2", Title: "b"},
		domain.Item{ItemID: "3", Title: "c"},
	)

	events, _ := Detect(DiffInput{
		Kind:     domain.SourceSearch,
		Account:  "alice",
		SearchID: "s1",
		Previous: nil,
		Current:  cur,
		Now:      time.Now(),
	})

	assert.Empty(t, events)
}

func TestDetect_NewSearchResult(t *testing.T) {
	t.Parallel()

	src := domain.SearchSource("s1")
	prev := snapOf("alice", src, domain.Item{ItemID: "1", Title: "a"})
	cur := snapOf("alice", src,
		domain.Item{ItemID: "1", Title: "a"},
		domain.Item{ItemID: "2", Title: "b"},
	)

	events, _ := Detect(DiffInput{
		Kind:        domain.SourceSearch,
		Account:     "alice",
		SearchID:    "s1",
		SearchQuery: "vintage camera",
		Previous:    prev,
		Current:     cur,
		Now:         time.Now(),
	})

	require.Len(t, events, 1)
	assert.Equal(t, domain.EventNewSearchResult, events[0].Type)
	assert.Equal(t, "2", events[0].Item.ItemID)
	assert.Equal(t, "alice", events[0].Account)
	assert.Equal(t, "s1", events[0].SearchID)
	assert.Equal(t, "vintage camera", events[0].SearchQuery)
}

func TestDetect_BecameHighBidder(t *testing.T) {
	t.Parallel()

	src := domain.Source{Kind: domain.SourceBids}
	prev := snapOf("alice", src, domain.Item{ItemID: "1", Title: "a", IsHighBidder: boolPtr(false)})
	cur := snapOf("alice", src, domain.Item{ItemID: "1", Title: "a", IsHighBidder: boolPtr(true)})

	events, _ := Detect(DiffInput{
		Kind:     domain.SourceBids,
		Account:  "alice",
		Previous: prev,
		Current:  cur,
		Now:      time.Now(),
	})

	// Exactly one became_high_bidder, no outbid.
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventBecameHighBidder, events[0].Type)
}

func TestDetect_Outbid(t *testing.T) {
	t.Parallel()

	src := domain.Source{Kind: domain.SourceBids}
	prev := snapOf("alice", src, domain.Item{ItemID: "1", Title: "a", IsHighBidder: boolPtr(true)})
	cur := snapOf("alice", src, domain.Item{ItemID: "1", Title: "a", IsHighBidder: boolPtr(false)})

	events, _ := Detect(DiffInput{
		Kind:     domain.SourceBids,
		Account:  "alice",
		Previous: prev,
		Current:  cur,
		Now:      time.Now(),
	})

	require.Len(t, events, 1)
	assert.Equal(t, domain.EventOutbid, events[0].Type)
}

func TestDetect_SelfDiffYieldsNothing(t *testing.T) {
	t.Parallel()

	src := domain.Source{Kind: domain.SourceBids}
	snap := snapOf("alice", src,
		domain.Item{ItemID: "1", Title: "a", IsHighBidder: boolPtr(true)},
		domain.Item{ItemID: "2", Title: "b", IsHighBidder: boolPtr(false)},
	)

	events, _ := Detect(DiffInput{
		Kind:     domain.SourceBids,
		Account:  "alice",
		Previous: snap,
		Current:  snap,
		Now:      time.Now(),
	})

	assert.Empty(t, events)
}

func TestDetect_Idempotent(t *testing.T) {
	t.Parallel()

	now := time.Now()
	src := domain.Source{Kind: domain.SourceBids}
	prev := snapOf("alice", src,
		domain.Item{ItemID: "1", Title: "a", IsHighBidder: boolPtr(false)},
	)
	cur := snapOf("alice", src,
		domain.Item{ItemID: "1", Title: "a", IsHighBidder: boolPtr(true),
			EndTime: timePtr(now.Add(10 * time.Minute))},
	)

	in := DiffInput{
		Kind:     domain.SourceBids,
		Account:  "alice",
		Previous: prev,
		Current:  cur,
		Now:      now,
	}

	first, firstFlagged := Detect(in)
	second, secondFlagged := Detect(in)

	assert.Equal(t, first, second)
	assert.Equal(t, firstFlagged, secondFlagged)
}

func TestDetect_EndingSoon(t *testing.T) {
	t.Parallel()

	now := time.Now()
	src := domain.Source{Kind: domain.SourceBids}
	cur := snapOf("alice", src,
		domain.Item{ItemID: "1", Title: "a", EndTime: timePtr(now.Add(10 * time.Minute))},
	)

	events, flagged := Detect(DiffInput{
		Kind:    domain.SourceBids,
		Account: "alice",
		Current: cur,
		Now:     now,
	})

	require.Len(t, events, 1)
	assert.Equal(t, domain.EventAuctionEndingSoon, events[0].Type)
	assert.Equal(t, 10, events[0].MinutesRemaining)
	assert.Contains(t, flagged, "1")

	// Already flagged: suppressed until the refire interval elapses.
	events, flagged = Detect(DiffInput{
		Kind:              domain.SourceBids,
		Account:           "alice",
		Previous:          cur,
		Current:           cur,
		Now:               now.Add(time.Minute),
		EndingSoonFlagged: flagged,
	})
	assert.Empty(t, events)
	assert.Contains(t, flagged, "1")

	// Refire interval elapsed and the auction is still inside the window.
	cur2 := snapOf("alice", src,
		domain.Item{ItemID: "1", Title: "a", EndTime: timePtr(now.Add(21 * time.Minute))},
	)
	events, _ = Detect(DiffInput{
		Kind:              domain.SourceBids,
		Account:           "alice",
		Previous:          cur,
		Current:           cur2,
		Now:               now.Add(10 * time.Minute),
		EndingSoonFlagged: flagged,
	})
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventAuctionEndingSoon, events[0].Type)
}

func TestDetect_EndingSoonBounds(t *testing.T) {
	t.Parallel()

	now := time.Now()
	src := domain.Source{Kind: domain.SourceBids}
	cur := snapOf("alice", src,
		domain.Item{ItemID: "ended", Title: "a", EndTime: timePtr(now.Add(-time.Minute))},
		domain.Item{ItemID: "far", Title: "b", EndTime: timePtr(now.Add(time.Hour))},
	)

	events, flagged := Detect(DiffInput{
		Kind:    domain.SourceBids,
		Account: "alice",
		Current: cur,
		Now:     now,
	})

	assert.Empty(t, events)
	assert.Empty(t, flagged)
}

func TestDetect_AuctionResolution(t *testing.T) {
	t.Parallel()

	now := time.Now()
	src := domain.Source{Kind: domain.SourceBids}
	prev := snapOf("alice", src,
		domain.Item{ItemID: "won", Title: "a", IsHighBidder: boolPtr(true),
			EndTime: timePtr(now.Add(-time.Hour))},
		domain.Item{ItemID: "lost", Title: "b", IsHighBidder: boolPtr(false),
			EndTime: timePtr(now.Add(-time.Hour))},
		domain.Item{ItemID: "pending", Title: "c", IsHighBidder: boolPtr(true),
			EndTime: timePtr(now.Add(time.Hour))},
	)
	cur := snapOf("alice", src)

	events, _ := Detect(DiffInput{
		Kind:     domain.SourceBids,
		Account:  "alice",
		Previous: prev,
		Current:  cur,
		Now:      now,
	})

	require.Len(t, events, 2)
	byID := map[string]domain.EventType{}
	for _, e := range events {
		byID[e.Item.ItemID] = e.Type
	}
	assert.Equal(t, domain.EventAuctionLost, byID["lost"])
	assert.Equal(t, domain.EventAuctionWon, byID["won"])
}

func TestDetect_ShippingTransitions(t *testing.T) {
	t.Parallel()

	src := domain.Source{Kind: domain.SourcePurchases}

	tests := []struct {
		name string
		prev domain.ShippingStatus
		cur  domain.ShippingStatus
		want []domain.EventType
	}{
		{"pending to shipped", domain.ShippingPending, domain.ShippingShipped,
			[]domain.EventType{domain.EventItemShipped}},
		{"shipped to delivered", domain.ShippingShipped, domain.ShippingDelivered,
			[]domain.EventType{domain.EventItemDelivered}},
		{"pending straight to delivered", domain.ShippingPending, domain.ShippingDelivered,
			[]domain.EventType{domain.EventItemDelivered}},
		{"no change", domain.ShippingShipped, domain.ShippingShipped, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			prev := snapOf("alice", src,
				domain.Item{ItemID: "1", Title: "a", ShippingStatus: tc.prev})
			cur := snapOf("alice", src,
				domain.Item{ItemID: "1", Title: "a", ShippingStatus: tc.cur})

			events, _ := Detect(DiffInput{
				Kind:     domain.SourcePurchases,
				Account:  "alice",
				Previous: prev,
				Current:  cur,
				Now:      time.Now(),
			})

			assert.Equal(t, tc.want, eventTypes(events))
		})
	}
}

func TestDetect_EndToEndOrdering(t *testing.T) {
	t.Parallel()

	src := domain.SearchSource("s1")
	prev := snapOf("alice", src,
		domain.Item{ItemID: "1", Title: "a", IsHighBidder: boolPtr(false)})
	cur := snapOf("alice", src,
		domain.Item{ItemID: "1", Title: "a", IsHighBidder: boolPtr(true)},
		domain.Item{ItemID: "2", Title: "b"},
	)

	events, _ := Detect(DiffInput{
		Kind:     domain.SourceSearch,
		Account:  "alice",
		SearchID: "s1",
		Previous: prev,
		Current:  cur,
		Now:      time.Now(),
	})

	require.Len(t, events, 2)
	assert.Equal(t, domain.EventBecameHighBidder, events[0].Type)
	assert.Equal(t, "1", events[0].Item.ItemID)
	assert.Equal(t, domain.EventNewSearchResult, events[1].Type)
	assert.Equal(t, "2", events[1].Item.ItemID)
}

func TestWatchlistPriceDrops(t *testing.T) {
	t.Parallel()

	src := domain.Source{Kind: domain.SourceWatchlist}
	prev := snapOf("alice", src,
		domain.Item{ItemID: "1", Title: "a",
			CurrentPrice: &domain.Price{Value: 50, Currency: "GBP"}},
		domain.Item{ItemID: "2", Title: "b",
			CurrentPrice: &domain.Price{Value: 20, Currency: "GBP"}},
		domain.Item{ItemID: "3", Title: "c"},
	)
	cur := snapOf("alice", src,
		domain.Item{ItemID: "1", Title: "a",
			CurrentPrice: &domain.Price{Value: 40, Currency: "GBP"}},
		domain.Item{ItemID: "2", Title: "b",
			CurrentPrice: &domain.Price{Value: 25, Currency: "GBP"}},
		domain.Item{ItemID: "3", Title: "c",
			CurrentPrice: &domain.Price{Value: 5, Currency: "GBP"}},
	)

	dropped := WatchlistPriceDrops(prev, cur)

	// Only item 1 dropped; item 3's previous price was unknown, not zero.
	require.Len(t, dropped, 1)
	assert.Equal(t, "1", dropped[0].ItemID)

	assert.Nil(t, WatchlistPriceDrops(nil, cur))
}
