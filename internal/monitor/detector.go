package monitor

import (
	"sort"
	"time"

	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

// Ending-soon window parameters. An auction closing within the window is
// flagged; a flagged item is not re-announced until the refire interval has
// elapsed.
const (
	endingSoonWindow = 15 * time.Minute
	endingSoonRefire = 10 * time.Minute
)

// DiffInput carries everything Detect needs. Previous is nil on the very
// first poll. EndingSoonFlagged maps item IDs to the time they were last
// announced as ending soon.
type DiffInput struct {
	Kind        domain.SourceKind
	Account     string
	SearchID    string
	SearchQuery string

	Previous *domain.Snapshot
	Current  *domain.Snapshot

	Now               time.Time
	EndingSoonFlagged map[string]time.Time
}

// Detect derives semantic events from two successive snapshots. It is pure
// and deterministic: the same input always yields the same events and the
// same updated ending-soon flag set. Items are visited in sorted ID order;
// all applicable events for one item appear together, in rule precedence
// order.
func Detect(in DiffInput) ([]domain.Event, map[string]time.Time) {
	var events []domain.Event
	flagged := make(map[string]time.Time, len(in.EndingSoonFlagged))

	for _, id := range sortedIDs(in.Current) {
		item := in.Current.Items[id]

		var prev *domain.Item
		if in.Previous != nil {
			if p, ok := in.Previous.Items[id]; ok {
				prev = &p
			}
		}

		// New search result. Suppressed on the very first poll so a fresh
		// search does not announce its entire result set.
		if in.Kind == domain.SourceSearch && in.Previous != nil && prev == nil {
			events = append(events, in.event(domain.EventNewSearchResult, item))
		}

		// High-bidder flips, for any source whose items carry the flag.
		if prev != nil {
			was, is := prev.HighBidder(), item.HighBidder()
			switch {
			case !was && is:
				events = append(events, in.event(domain.EventBecameHighBidder, item))
			case was && !is:
				events = append(events, in.event(domain.EventOutbid, item))
			}
		}

		// Ending soon.
		if item.EndTime != nil {
			remaining := item.EndTime.Sub(in.Now)
			if remaining > 0 && remaining <= endingSoonWindow {
				last, seen := in.EndingSoonFlagged[id]
				if !seen || in.Now.Sub(last) >= endingSoonRefire {
					evt := in.event(domain.EventAuctionEndingSoon, item)
					evt.MinutesRemaining = int(remaining / time.Minute)
					events = append(events, evt)
					flagged[id] = in.Now
				} else {
					flagged[id] = last
				}
			}
		}

		// Shipping transitions (purchases only).
		if in.Kind == domain.SourcePurchases && prev != nil {
			switch {
			case item.ShippingStatus == domain.ShippingDelivered &&
				prev.ShippingStatus != domain.ShippingDelivered:
				events = append(events, in.event(domain.EventItemDelivered, item))
			case item.ShippingStatus == domain.ShippingShipped &&
				prev.ShippingStatus != domain.ShippingShipped:
				events = append(events, in.event(domain.EventItemShipped, item))
			}
		}
	}

	// Auction resolution: bid items that disappeared after their end time.
	if in.Kind == domain.SourceBids && in.Previous != nil {
		for _, id := range sortedIDs(in.Previous) {
			if _, ok := in.Current.Items[id]; ok {
				continue
			}
			item := in.Previous.Items[id]
			if item.EndTime != nil && item.EndTime.After(in.Now) {
				continue
			}
			if item.HighBidder() {
				events = append(events, in.event(domain.EventAuctionWon, item))
			} else {
				events = append(events, in.event(domain.EventAuctionLost, item))
			}
		}
	}

	return events, flagged
}

func (in DiffInput) event(t domain.EventType, item domain.Item) domain.Event {
	return domain.Event{
		Type:        t,
		Account:     in.Account,
		SearchID:    in.SearchID,
		SearchQuery: in.SearchQuery,
		Item:        item,
	}
}

func sortedIDs(snap *domain.Snapshot) []string {
	ids := make([]string, 0, len(snap.Items))
	for id := range snap.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WatchlistPriceDrops returns the watchlist items whose price decreased
// between two snapshots. Downstream consumers read the updated snapshot for
// details; this feeds the informational counter and log line only.
func WatchlistPriceDrops(previous, current *domain.Snapshot) []domain.Item {
	if previous == nil || current == nil {
		return nil
	}

	var dropped []domain.Item
	for _, id := range sortedIDs(current) {
		item := current.Items[id]
		prev, ok := previous.Items[id]
		if !ok || prev.CurrentPrice == nil || item.CurrentPrice == nil {
			continue
		}
		if item.CurrentPrice.Value < prev.CurrentPrice.Value {
			dropped = append(dropped, item)
		}
	}
	return dropped
}
