// Package monitor is the polling and change-detection engine: per-source
// poll coordinators, the snapshot store, the change detector, and the
// registry that manages coordinator lifecycles across accounts.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/donaldgifford/ebay-watcher/internal/ebay"
	"github.com/donaldgifford/ebay-watcher/internal/metrics"
	"github.com/donaldgifford/ebay-watcher/internal/publish"
	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

// Coordinator drives the poll cycle for one data source: fetch, diff,
// publish. Each coordinator schedules itself independently; two ticks of the
// same coordinator never overlap.
type Coordinator struct {
	account string
	source  domain.Source
	search  *domain.SearchDefinition

	client    ebay.Client
	publisher publish.Publisher
	snapshots *SnapshotStore
	logger    *slog.Logger

	interval       time.Duration
	initialBackoff time.Duration
	maxBackoff     time.Duration
	fetchTimeout   time.Duration

	trigger chan struct{}
	stop    chan struct{}
	done    chan struct{}

	stopOnce sync.Once

	mu          sync.Mutex
	failures    int
	lastSuccess time.Time
	lastErr     error
	flagged     map[string]time.Time
}

// CoordinatorConfig carries everything a coordinator needs. Search is set
// only for search sources.
type CoordinatorConfig struct {
	Account string
	Source  domain.Source
	Search  *domain.SearchDefinition

	Client    ebay.Client
	Publisher publish.Publisher
	Snapshots *SnapshotStore
	Logger    *slog.Logger

	Interval       time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	FetchTimeout   time.Duration
}

// Backoff and fetch defaults, applied when the config leaves them zero.
const (
	DefaultInitialBackoff = 30 * time.Second
	DefaultMaxBackoff     = 15 * time.Minute
	DefaultFetchTimeout   = 30 * time.Second
)

// NewCoordinator creates a coordinator. Call Start to begin polling.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	c := &Coordinator{
		account:        cfg.Account,
		source:         cfg.Source,
		search:         cfg.Search,
		client:         cfg.Client,
		publisher:      cfg.Publisher,
		snapshots:      cfg.Snapshots,
		logger:         cfg.Logger,
		interval:       cfg.Interval,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		fetchTimeout:   cfg.FetchTimeout,
		trigger:        make(chan struct{}, 1),
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
		flagged:        make(map[string]time.Time),
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.initialBackoff <= 0 {
		c.initialBackoff = DefaultInitialBackoff
	}
	if c.maxBackoff <= 0 {
		c.maxBackoff = DefaultMaxBackoff
	}
	if c.fetchTimeout <= 0 {
		c.fetchTimeout = DefaultFetchTimeout
	}
	c.logger = c.logger.With("account", c.account, "source", c.source.String())
	return c
}

// Start begins the poll loop. The first tick fires immediately; subsequent
// ticks fire at the configured interval measured from the end of the
// previous attempt.
func (c *Coordinator) Start() {
	metrics.CoordinatorsActive.Inc()
	go c.run()
}

// Stop cancels future ticks. An in-flight tick is allowed to complete and
// publish its result. Safe to call more than once.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Done is closed when the poll loop has fully exited.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// TriggerNow requests an out-of-band tick without waiting for it. A trigger
// arriving while a tick is in flight is satisfied by that tick rather than
// issuing a second fetch.
func (c *Coordinator) TriggerNow() {
	select {
	case c.trigger <- struct{}{}:
	default:
	}
}

// SeedFlagged carries ending-soon announcement state over from a replaced
// coordinator so restarts do not re-announce the same auctions.
func (c *Coordinator) SeedFlagged(flagged map[string]time.Time) {
	if flagged == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flagged = flagged
}

// CoordinatorStatus is a point-in-time view for the status API.
type CoordinatorStatus struct {
	Account             string        `json:"account"`
	Source              domain.Source `json:"source"`
	Interval            time.Duration `json:"-"`
	IntervalSeconds     int           `json:"interval_seconds"`
	ConsecutiveFailures int           `json:"consecutive_failures"`
	LastSuccess         *time.Time    `json:"last_success,omitempty"`
	LastError           string        `json:"last_error,omitempty"`
	Degraded            bool          `json:"degraded"`
}

// Status reports the coordinator's health.
func (c *Coordinator) Status() CoordinatorStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := CoordinatorStatus{
		Account:             c.account,
		Source:              c.source,
		Interval:            c.interval,
		IntervalSeconds:     int(c.interval / time.Second),
		ConsecutiveFailures: c.failures,
		Degraded:            c.failures > 0,
	}
	if !c.lastSuccess.IsZero() {
		ts := c.lastSuccess
		st.LastSuccess = &ts
	}
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	return st
}

func (c *Coordinator) run() {
	defer func() {
		metrics.CoordinatorsActive.Dec()
		c.clearDegraded()
		close(c.done)
	}()

	for {
		c.poll()

		// A trigger that arrived mid-poll is satisfied by the poll that
		// just finished.
		select {
		case <-c.trigger:
		default:
		}

		select {
		case <-c.stop:
			return
		default:
		}

		timer := time.NewTimer(c.nextDelay())
		select {
		case <-c.stop:
			timer.Stop()
			return
		case <-c.trigger:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// poll performs one fetch → diff → publish cycle. The fetch uses its own
// timeout context, detached from Stop, so cancellation never aborts an
// attempt already in flight.
func (c *Coordinator) poll() {
	kind := string(c.source.Kind)
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
	items, err := c.client.Fetch(ctx, c.request())
	cancel()

	metrics.PollsTotal.WithLabelValues(kind).Inc()
	metrics.PollDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if err != nil {
		c.recordFailure(err)
		metrics.PollErrorsTotal.WithLabelValues(kind).Inc()

		if errors.Is(err, ebay.ErrRejected) {
			c.logger.Error("poll rejected, check credentials", "error", err)
		} else {
			c.logger.Warn("poll failed", "error", err, "failures", c.failureCount())
		}
		return
	}

	now := time.Now()
	previous, _ := c.snapshots.Get(c.account, c.source)
	current := domain.NewSnapshot(c.account, c.source, items, now)

	events, flagged := Detect(DiffInput{
		Kind:              c.source.Kind,
		Account:           c.account,
		SearchID:          c.searchID(),
		SearchQuery:       c.searchQuery(),
		Previous:          previous,
		Current:           current,
		Now:               now,
		EndingSoonFlagged: c.flaggedCopy(),
	})

	pctx := context.Background()
	for _, evt := range events {
		if err := c.publisher.PublishEvent(pctx, evt); err != nil {
			metrics.PublishFailuresTotal.Inc()
			c.logger.Error("publishing event", "type", string(evt.Type), "error", err)
			continue
		}
		metrics.EventsEmittedTotal.WithLabelValues(string(evt.Type)).Inc()
	}

	if c.source.Kind == domain.SourceWatchlist {
		for _, item := range WatchlistPriceDrops(previous, current) {
			metrics.WatchlistPriceDropsTotal.Inc()
			c.logger.Info("watchlist price drop",
				"item_id", item.ItemID,
				"title", item.Title,
				"price", item.CurrentPrice.Value)
		}
	}

	c.snapshots.Set(current)
	if err := c.publisher.PublishSnapshot(pctx, current); err != nil {
		metrics.PublishFailuresTotal.Inc()
		c.logger.Error("publishing snapshot", "error", err)
	}

	c.recordSuccess(now, flagged)
	c.logger.Debug("poll complete", "items", len(items), "events", len(events))
}

func (c *Coordinator) request() ebay.Request {
	return ebay.Request{Kind: c.source.Kind, Search: c.search}
}

func (c *Coordinator) searchID() string {
	if c.search == nil {
		return ""
	}
	return c.search.SearchID
}

func (c *Coordinator) searchQuery() string {
	if c.search == nil {
		return ""
	}
	return c.search.SearchQuery
}

func (c *Coordinator) flaggedCopy() map[string]time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]time.Time, len(c.flagged))
	for id, ts := range c.flagged {
		out[id] = ts
	}
	return out
}

func (c *Coordinator) failureCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures
}

func (c *Coordinator) recordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failures++
	c.lastErr = err
	if c.failures == 1 {
		metrics.CoordinatorsDegraded.Inc()
	}
}

func (c *Coordinator) recordSuccess(now time.Time, flagged map[string]time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failures > 0 {
		metrics.CoordinatorsDegraded.Dec()
	}
	c.failures = 0
	c.lastErr = nil
	c.lastSuccess = now
	c.flagged = flagged
}

func (c *Coordinator) clearDegraded() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failures > 0 {
		metrics.CoordinatorsDegraded.Dec()
		c.failures = 0
	}
}

// nextDelay returns the wait before the next tick: the configured interval
// after a success, or exponential backoff capped at maxBackoff after
// consecutive failures.
func (c *Coordinator) nextDelay() time.Duration {
	failures := c.failureCount()
	if failures == 0 {
		return c.interval
	}

	delay := c.initialBackoff
	for i := 1; i < failures; i++ {
		delay *= 2
		if delay >= c.maxBackoff {
			return c.maxBackoff
		}
	}
	if delay > c.maxBackoff {
		return c.maxBackoff
	}
	return delay
}
