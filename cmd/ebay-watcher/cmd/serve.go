package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/ebay-watcher/internal/api"
	"github.com/donaldgifford/ebay-watcher/internal/config"
	"github.com/donaldgifford/ebay-watcher/internal/ebay"
	"github.com/donaldgifford/ebay-watcher/internal/monitor"
	"github.com/donaldgifford/ebay-watcher/internal/publish"
	"github.com/donaldgifford/ebay-watcher/internal/searchstore"
	"github.com/donaldgifford/ebay-watcher/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the poll coordinators and API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	store, err := searchstore.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening search store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("closing search store", "error", err)
		}
	}()

	var (
		pub     publish.Publisher
		natsPub *publish.NATSPublisher
	)
	if cfg.NATS.Enabled {
		natsPub, err = publish.NewNATSPublisher(cfg.NATS.URL, publish.WithNATSLogger(log))
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer natsPub.Close()
		pub = natsPub
		log.Info("publishing to NATS", "url", cfg.NATS.URL)
	} else {
		pub = publish.NewNoopPublisher(publish.WithNoopLogger(log))
		log.Info("NATS disabled, events will be logged only")
	}

	// One rate limiter shared by every account; the daily quota is
	// application-wide, not per-account.
	rl := ebay.NewRateLimiter(
		cfg.Ebay.RateLimit.PerSecond,
		cfg.Ebay.RateLimit.Burst,
		cfg.Ebay.RateLimit.DailyLimit,
	)

	snaps := monitor.NewSnapshotStore()
	registry := monitor.NewRegistry(monitor.RegistryConfig{
		Store:     store,
		Publisher: pub,
		Snapshots: snaps,
		Logger:    log,
		Intervals: monitor.Intervals{
			Bids:      cfg.Polling.BidsInterval,
			Watchlist: cfg.Polling.WatchlistInterval,
			Purchases: cfg.Polling.PurchasesInterval,
		},
		InitialBackoff: cfg.Polling.InitialBackoff,
		MaxBackoff:     cfg.Polling.MaxBackoff,
		FetchTimeout:   cfg.Polling.FetchTimeout,
	})

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, acct := range cfg.Accounts {
		site := acct.Site
		if site == "" {
			site = cfg.Ebay.Site
		}

		opts := []ebay.APIOption{
			ebay.WithSite(site),
			ebay.WithRateLimiter(rl),
		}
		if cfg.Ebay.BuyingURL != "" {
			opts = append(opts, ebay.WithBuyingURL(cfg.Ebay.BuyingURL))
		}
		if cfg.Ebay.SearchURL != "" {
			opts = append(opts, ebay.WithSearchURL(cfg.Ebay.SearchURL))
		}

		client := ebay.NewAPIClient(ebay.NewStaticTokenProvider(acct.Token), opts...)
		if err := registry.AddAccount(startCtx, acct.Name, client); err != nil {
			registry.StopAll()
			return fmt.Errorf("adding account %q: %w", acct.Name, err)
		}
	}

	scheduler, err := monitor.NewScheduler(
		registry,
		cfg.Maintenance.RefreshInterval,
		cfg.Maintenance.SweepInterval,
		log,
	)
	if err != nil {
		registry.StopAll()
		return fmt.Errorf("creating scheduler: %w", err)
	}
	scheduler.Start()

	e := api.NewRouter(api.RouterConfig{
		Registry:    registry,
		Snapshots:   snaps,
		RateLimiter: rl,
		Store:       store,
		Logger:      log,
		Version:     Version,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr, "accounts", len(cfg.Accounts))

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutting down server", "error", err)
	}

	// Let any in-progress maintenance jobs finish, then stop the
	// coordinators. In-flight polls complete before StopAll returns.
	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
	}
	registry.StopAll()

	log.Info("stopped")
	return nil
}
