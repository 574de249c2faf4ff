package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/donaldgifford/ebay-watcher/internal/ebay"
	"github.com/donaldgifford/ebay-watcher/internal/publish"
	"github.com/donaldgifford/ebay-watcher/internal/searchstore"
	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

// Default poll intervals per source kind.
const (
	DefaultBidsInterval      = 5 * time.Minute
	DefaultWatchlistInterval = 10 * time.Minute
	DefaultPurchasesInterval = 30 * time.Minute
	DefaultSearchInterval    = 15 // minutes, SearchDefinition.UpdateInterval
)

// Intervals configures per-kind poll intervals. Zero fields fall back to the
// defaults above.
type Intervals struct {
	Bids      time.Duration
	Watchlist time.Duration
	Purchases time.Duration
}

func (iv Intervals) forKind(kind domain.SourceKind) time.Duration {
	switch kind {
	case domain.SourceBids:
		if iv.Bids > 0 {
			return iv.Bids
		}
		return DefaultBidsInterval
	case domain.SourceWatchlist:
		if iv.Watchlist > 0 {
			return iv.Watchlist
		}
		return DefaultWatchlistInterval
	case domain.SourcePurchases:
		if iv.Purchases > 0 {
			return iv.Purchases
		}
		return DefaultPurchasesInterval
	}
	return DefaultBidsInterval
}

// Registry owns every coordinator for every configured account. Mutation and
// enumeration hold a coarse lock; the lock is never held across a fetch.
type Registry struct {
	store     searchstore.Store
	publisher publish.Publisher
	snapshots *SnapshotStore
	logger    *slog.Logger

	intervals      Intervals
	initialBackoff time.Duration
	maxBackoff     time.Duration
	fetchTimeout   time.Duration

	mu       sync.Mutex
	accounts map[string]*accountEntry
}

type accountEntry struct {
	client   ebay.Client
	fixed    map[domain.SourceKind]*Coordinator
	searches map[string]*Coordinator
	defs     map[string]domain.SearchDefinition
}

// RegistryConfig carries the registry's collaborators and tuning.
type RegistryConfig struct {
	Store     searchstore.Store
	Publisher publish.Publisher
	Snapshots *SnapshotStore
	Logger    *slog.Logger

	Intervals      Intervals
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	FetchTimeout   time.Duration
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		store:          cfg.Store,
		publisher:      cfg.Publisher,
		snapshots:      cfg.Snapshots,
		logger:         logger,
		intervals:      cfg.Intervals,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		fetchTimeout:   cfg.FetchTimeout,
	}
}

// Snapshots exposes the shared snapshot store for read-only consumers.
func (r *Registry) Snapshots() *SnapshotStore {
	return r.snapshots
}

// AddAccount creates and starts the three fixed coordinators for the
// account, then recreates one search coordinator per persisted definition.
func (r *Registry) AddAccount(ctx context.Context, account string, client ebay.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.accounts == nil {
		r.accounts = make(map[string]*accountEntry)
	}
	if _, exists := r.accounts[account]; exists {
		return fmt.Errorf("account %q already registered", account)
	}

	entry := &accountEntry{
		client:   client,
		fixed:    make(map[domain.SourceKind]*Coordinator),
		searches: make(map[string]*Coordinator),
		defs:     make(map[string]domain.SearchDefinition),
	}

	for _, kind := range domain.FixedSourceKinds {
		coord := r.newCoordinator(account, client, domain.Source{Kind: kind}, nil)
		entry.fixed[kind] = coord
		coord.Start()
	}

	defs, err := r.store.List(ctx, account)
	if err != nil {
		return fmt.Errorf("loading search definitions for %q: %w", account, err)
	}
	for _, def := range defs {
		def := def
		coord := r.newCoordinator(account, client, domain.SearchSource(def.SearchID), &def)
		entry.searches[def.SearchID] = coord
		entry.defs[def.SearchID] = def
		coord.Start()
	}

	r.accounts[account] = entry
	r.logger.Info("account added", "account", account, "searches", len(defs))
	return nil
}

// RemoveAccount stops and discards every coordinator belonging to the
// account, drops its snapshots, and deletes its persisted definitions.
// In-flight ticks complete on their own.
func (r *Registry) RemoveAccount(ctx context.Context, account string) error {
	r.mu.Lock()
	entry, ok := r.accounts[account]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrAccountNotFound, account)
	}
	delete(r.accounts, account)
	r.mu.Unlock()

	for _, coord := range entry.fixed {
		coord.Stop()
	}
	for _, coord := range entry.searches {
		coord.Stop()
	}

	r.snapshots.DeleteAccount(account)
	if err := r.store.DeleteAccount(ctx, account); err != nil {
		return fmt.Errorf("deleting search definitions for %q: %w", account, err)
	}

	r.logger.Info("account removed", "account", account)
	return nil
}

// CreateSearch validates the definition, persists it, and starts its
// coordinator. The generated search ID is returned on the definition. A
// validation failure persists nothing and creates nothing.
func (r *Registry) CreateSearch(ctx context.Context, account string, def domain.SearchDefinition) (domain.SearchDefinition, error) {
	applySearchDefaults(&def)
	if err := validateSearch(def); err != nil {
		return domain.SearchDefinition{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.accounts[account]
	if !ok {
		return domain.SearchDefinition{}, fmt.Errorf("%w: %q", ErrAccountNotFound, account)
	}

	def.SearchID = uuid.NewString()
	if err := r.store.Put(ctx, account, def); err != nil {
		return domain.SearchDefinition{}, fmt.Errorf("persisting search definition: %w", err)
	}

	defCopy := def
	coord := r.newCoordinator(account, entry.client, domain.SearchSource(def.SearchID), &defCopy)
	entry.searches[def.SearchID] = coord
	entry.defs[def.SearchID] = def
	coord.Start()

	r.logger.Info("search created",
		"account", account,
		"search_id", def.SearchID,
		"query", def.SearchQuery)
	return def, nil
}

// UpdateSearch validates and persists the change, then restarts the
// coordinator. The snapshot is preserved for change-detection continuity
// unless the query text changed, in which case it is dropped: a changed
// query has no meaningful previous state.
func (r *Registry) UpdateSearch(ctx context.Context, account, searchID string, def domain.SearchDefinition) (domain.SearchDefinition, error) {
	def.SearchID = searchID
	applySearchDefaults(&def)
	if err := validateSearch(def); err != nil {
		return domain.SearchDefinition{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.accounts[account]
	if !ok {
		return domain.SearchDefinition{}, fmt.Errorf("%w: %q", ErrAccountNotFound, account)
	}
	old, ok := entry.defs[searchID]
	if !ok {
		return domain.SearchDefinition{}, fmt.Errorf("%w: %q", ErrSearchNotFound, searchID)
	}

	if err := r.store.Put(ctx, account, def); err != nil {
		return domain.SearchDefinition{}, fmt.Errorf("persisting search definition: %w", err)
	}

	oldCoord := entry.searches[searchID]
	oldCoord.Stop()

	src := domain.SearchSource(searchID)
	queryChanged := old.SearchQuery != def.SearchQuery
	if queryChanged {
		r.snapshots.Delete(account, src)
	}

	defCopy := def
	coord := r.newCoordinator(account, entry.client, src, &defCopy)
	if !queryChanged {
		coord.SeedFlagged(oldCoord.flaggedCopy())
	}
	entry.searches[searchID] = coord
	entry.defs[searchID] = def
	coord.Start()

	r.logger.Info("search updated",
		"account", account,
		"search_id", searchID,
		"query_changed", queryChanged)
	return def, nil
}

// DeleteSearch stops the coordinator, deletes the persisted definition, and
// drops the snapshot.
func (r *Registry) DeleteSearch(ctx context.Context, account, searchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.accounts[account]
	if !ok {
		return fmt.Errorf("%w: %q", ErrAccountNotFound, account)
	}
	coord, ok := entry.searches[searchID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSearchNotFound, searchID)
	}

	coord.Stop()
	delete(entry.searches, searchID)
	delete(entry.defs, searchID)
	r.snapshots.Delete(account, domain.SearchSource(searchID))

	if err := r.store.Delete(ctx, account, searchID); err != nil {
		return fmt.Errorf("deleting search definition: %w", err)
	}

	r.logger.Info("search deleted", "account", account, "search_id", searchID)
	return nil
}

// GetSearch returns one persisted definition.
func (r *Registry) GetSearch(account, searchID string) (domain.SearchDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.accounts[account]
	if !ok {
		return domain.SearchDefinition{}, fmt.Errorf("%w: %q", ErrAccountNotFound, account)
	}
	def, ok := entry.defs[searchID]
	if !ok {
		return domain.SearchDefinition{}, fmt.Errorf("%w: %q", ErrSearchNotFound, searchID)
	}
	return def, nil
}

// ListSearches returns the account's definitions ordered by search ID.
func (r *Registry) ListSearches(account string) ([]domain.SearchDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.accounts[account]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, account)
	}

	defs := make([]domain.SearchDefinition, 0, len(entry.defs))
	for _, def := range entry.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].SearchID < defs[j].SearchID })
	return defs, nil
}

// Accounts returns the registered account names, sorted.
func (r *Registry) Accounts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.accounts))
	for name := range r.accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RefreshSource triggers an immediate tick on one coordinator: a fixed kind
// or, when kind is search, the coordinator for searchID. Fire-and-continue.
func (r *Registry) RefreshSource(account string, kind domain.SourceKind, searchID string) error {
	r.mu.Lock()
	entry, ok := r.accounts[account]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrAccountNotFound, account)
	}

	var coord *Coordinator
	if kind == domain.SourceSearch {
		coord, ok = entry.searches[searchID]
		if !ok {
			r.mu.Unlock()
			return fmt.Errorf("%w: %q", ErrSearchNotFound, searchID)
		}
	} else {
		coord, ok = entry.fixed[kind]
		if !ok {
			r.mu.Unlock()
			return fmt.Errorf("unknown source kind %q", kind)
		}
	}
	r.mu.Unlock()

	coord.TriggerNow()
	return nil
}

// RefreshAccount triggers an immediate tick on every coordinator belonging
// to the account. Triggers are independent; one coordinator's failure does
// not block the others.
func (r *Registry) RefreshAccount(account string) error {
	r.mu.Lock()
	entry, ok := r.accounts[account]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrAccountNotFound, account)
	}
	coords := entry.allCoordinators()
	r.mu.Unlock()

	for _, coord := range coords {
		coord.TriggerNow()
	}
	return nil
}

// RefreshAll triggers immediate ticks across every account's every
// coordinator.
func (r *Registry) RefreshAll() {
	r.mu.Lock()
	var coords []*Coordinator
	for _, entry := range r.accounts {
		coords = append(coords, entry.allCoordinators()...)
	}
	r.mu.Unlock()

	for _, coord := range coords {
		coord.TriggerNow()
	}
}

// Statuses reports every coordinator's health, ordered by account then
// source key.
func (r *Registry) Statuses() []CoordinatorStatus {
	r.mu.Lock()
	var coords []*Coordinator
	for _, entry := range r.accounts {
		coords = append(coords, entry.allCoordinators()...)
	}
	r.mu.Unlock()

	statuses := make([]CoordinatorStatus, 0, len(coords))
	for _, coord := range coords {
		statuses = append(statuses, coord.Status())
	}
	sort.Slice(statuses, func(i, j int) bool {
		if statuses[i].Account != statuses[j].Account {
			return statuses[i].Account < statuses[j].Account
		}
		return statuses[i].Source.String() < statuses[j].Source.String()
	})
	return statuses
}

// StopAll stops every coordinator and waits for their loops to exit.
func (r *Registry) StopAll() {
	r.mu.Lock()
	var coords []*Coordinator
	for _, entry := range r.accounts {
		coords = append(coords, entry.allCoordinators()...)
	}
	r.accounts = nil
	r.mu.Unlock()

	for _, coord := range coords {
		coord.Stop()
	}
	for _, coord := range coords {
		<-coord.Done()
	}
}

func (e *accountEntry) allCoordinators() []*Coordinator {
	coords := make([]*Coordinator, 0, len(e.fixed)+len(e.searches))
	for _, kind := range domain.FixedSourceKinds {
		if coord, ok := e.fixed[kind]; ok {
			coords = append(coords, coord)
		}
	}
	ids := make([]string, 0, len(e.searches))
	for id := range e.searches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		coords = append(coords, e.searches[id])
	}
	return coords
}

func (r *Registry) newCoordinator(account string, client ebay.Client, src domain.Source, def *domain.SearchDefinition) *Coordinator {
	interval := r.intervals.forKind(src.Kind)
	if def != nil {
		interval = def.Interval()
	}
	return NewCoordinator(CoordinatorConfig{
		Account:        account,
		Source:         src,
		Search:         def,
		Client:         client,
		Publisher:      r.publisher,
		Snapshots:      r.snapshots,
		Logger:         r.logger,
		Interval:       interval,
		InitialBackoff: r.initialBackoff,
		MaxBackoff:     r.maxBackoff,
		FetchTimeout:   r.fetchTimeout,
	})
}

func applySearchDefaults(def *domain.SearchDefinition) {
	if def.UpdateInterval == 0 {
		def.UpdateInterval = DefaultSearchInterval
	}
	if def.ListingType == "" {
		def.ListingType = domain.ListingBoth
	}
}

func validateSearch(def domain.SearchDefinition) error {
	if def.SearchQuery == "" {
		return &ValidationError{Field: "search_query", Reason: "must not be empty"}
	}
	if def.UpdateInterval <= 0 {
		return &ValidationError{Field: "update_interval", Reason: "must be greater than zero"}
	}
	if !def.ListingType.Valid() {
		return &ValidationError{Field: "listing_type", Reason: "must be auction, buy_it_now, or both"}
	}
	if def.MinPrice != nil && *def.MinPrice < 0 {
		return &ValidationError{Field: "min_price", Reason: "must not be negative"}
	}
	if def.MinPrice != nil && def.MaxPrice != nil && *def.MinPrice > *def.MaxPrice {
		return &ValidationError{Field: "min_price", Reason: "must not exceed max_price"}
	}
	return nil
}
