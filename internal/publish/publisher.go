// Package publish is the outbound boundary for detected events and snapshot
// updates. Coordinators publish through the Publisher interface; the concrete
// backend (NATS or a no-op for local runs) is chosen at startup.
package publish

import (
	"context"
	"strings"

	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

// Subject prefixes for the NATS backend. Consumers subscribe with wildcards,
// e.g. "ebay.event.>" for all events.
const (
	eventSubjectPrefix    = "ebay.event."
	snapshotSubjectPrefix = "ebay.snapshot."
)

// Publisher delivers events and snapshots to downstream consumers.
type Publisher interface {
	// PublishEvent emits one detected transition.
	PublishEvent(ctx context.Context, evt domain.Event) error

	// PublishSnapshot replaces the downstream view of one data source.
	PublishSnapshot(ctx context.Context, snap *domain.Snapshot) error
}

// EventSubject returns the NATS subject for an event, keyed by event type.
func EventSubject(t domain.EventType) string {
	return eventSubjectPrefix + string(t)
}

// SnapshotSubject returns the NATS subject for a snapshot, keyed by account
// and source. Source keys like "search:<id>" become dotted subject tokens.
func SnapshotSubject(account string, src domain.Source) string {
	key := strings.ReplaceAll(src.String(), ":", ".")
	return snapshotSubjectPrefix + sanitizeToken(account) + "." + key
}

// sanitizeToken strips characters that carry meaning in NATS subjects.
func sanitizeToken(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ':
			return '_'
		}
		return r
	}, s)
}
