package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

const (
	natsConnectWait   = 5 * time.Second
	natsReconnectWait = 2 * time.Second
)

// NATSPublisher delivers events and snapshots over a NATS connection.
type NATSPublisher struct {
	nc     *nats.Conn
	logger *slog.Logger
}

// NATSOption configures the NATSPublisher.
type NATSOption func(*NATSPublisher)

// WithNATSLogger sets the logger.
func WithNATSLogger(l *slog.Logger) NATSOption {
	return func(p *NATSPublisher) {
		p.logger = l
	}
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string, opts ...NATSOption) (*NATSPublisher, error) {
	p := &NATSPublisher{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}

	nc, err := nats.Connect(url,
		nats.Name("ebay-watcher"),
		nats.Timeout(natsConnectWait),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(natsReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			p.logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			p.logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	p.nc = nc
	p.logger.Info("connected to NATS", "url", nc.ConnectedUrl())
	return p, nil
}

// PublishEvent implements Publisher.
func (p *NATSPublisher) PublishEvent(_ context.Context, evt domain.Event) error {
	subject := EventSubject(evt.Type)

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshaling event for %s: %w", subject, err)
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}

	p.logger.Debug("published event",
		"subject", subject,
		"account", evt.Account,
		"item_id", evt.Item.ItemID)
	return nil
}

// PublishSnapshot implements Publisher.
func (p *NATSPublisher) PublishSnapshot(_ context.Context, snap *domain.Snapshot) error {
	subject := SnapshotSubject(snap.Account, snap.Source)

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot for %s: %w", subject, err)
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}

// Close drains buffered messages and closes the connection.
func (p *NATSPublisher) Close() {
	if p.nc == nil || p.nc.IsClosed() {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.logger.Error("draining NATS connection", "error", err)
		p.nc.Close()
	}
}
