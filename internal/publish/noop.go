package publish

import (
	"context"
	"log/slog"

	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

// NoopPublisher logs events and snapshots instead of delivering them. Used
// when no broker is configured, so the poll engine still runs end to end.
type NoopPublisher struct {
	logger *slog.Logger
}

// NoopOption configures the NoopPublisher.
type NoopOption func(*NoopPublisher)

// WithNoopLogger sets the logger.
func WithNoopLogger(l *slog.Logger) NoopOption {
	return func(p *NoopPublisher) {
		p.logger = l
	}
}

// NewNoopPublisher creates a logging-only publisher.
func NewNoopPublisher(opts ...NoopOption) *NoopPublisher {
	p := &NoopPublisher{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishEvent implements Publisher.
func (p *NoopPublisher) PublishEvent(_ context.Context, evt domain.Event) error {
	p.logger.Info("event",
		"type", string(evt.Type),
		"account", evt.Account,
		"item_id", evt.Item.ItemID,
		"title", evt.Item.Title)
	return nil
}

// PublishSnapshot implements Publisher.
func (p *NoopPublisher) PublishSnapshot(_ context.Context, snap *domain.Snapshot) error {
	p.logger.Debug("snapshot",
		"account", snap.Account,
		"source", snap.Source.String(),
		"items", len(snap.Items))
	return nil
}
