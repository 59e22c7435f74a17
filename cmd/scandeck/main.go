// cmd/scandeck/main.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mfreeman451/scandeck/pkg/api"
	"github.com/mfreeman451/scandeck/pkg/backend"
	"github.com/mfreeman451/scandeck/pkg/config"
	"github.com/mfreeman451/scandeck/pkg/history"
	"github.com/mfreeman451/scandeck/pkg/inventory"
	"github.com/mfreeman451/scandeck/pkg/orchestrator"
	"github.com/mfreeman451/scandeck/pkg/poller"
)

func main() {
	configPath := flag.String("config", "/etc/scandeck/scandeck.json", "Config file path.")
	debug := flag.Bool("debug", false, "Show debug messages.")
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
		log.Info("Debug mode enabled")
	}

	var cfg config.Config
	if err := config.LoadAndValidate(*configPath, &cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client := backend.NewClient(cfg.BackendURL)
	store := inventory.NewStore(client)
	clock := poller.NewClock()

	discovery := poller.New(poller.Config{
		Interval:    time.Duration(cfg.PollInterval),
		MaxAttempts: cfg.MaxAttempts,
	}, clock, store.Refresh)

	var (
		hist     *history.Store
		recorder orchestrator.Recorder
	)

	if cfg.HistoryDB != "" {
		var err error

		hist, err = history.New(cfg.HistoryDB)
		if err != nil {
			log.Fatalf("Failed to open history database: %v", err)
		}
		defer func() {
			if err := hist.Close(); err != nil {
				log.Errorf("Failed to close history database: %v", err)
			}
		}()

		recorder = hist
	}

	orch := orchestrator.New(orchestrator.Config{
		Detailed: poller.Config{
			Interval:    time.Duration(cfg.DetailedPollInterval),
			MaxAttempts: cfg.DetailedMaxAttempts,
		},
		BulkConcurrency: cfg.BulkConcurrency,
		BulkRate:        cfg.BulkRate,
		RefreshDelay:    time.Duration(cfg.RefreshDelay),
	}, client, store, discovery, clock, recorder)
	defer orch.Close()

	metrics := api.NewMetrics()
	srv := api.NewServer(store, orch, client, hist, metrics)
	discovery.SetOnUpdate(srv.OnPollerUpdate)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		log.Warnf("Scanner backend at %s is not reachable yet: %v", cfg.BackendURL, err)
	} else if err := store.Refresh(ctx); err != nil {
		log.Warnf("Initial inventory fetch failed: %v", err)
	} else {
		metrics.SetStats(store.Stats())
		log.Infof("Inventory loaded: %d device(s)", store.Stats().Total)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info("Shutting down")
		orch.Close()

		if err := srv.Stop(context.Background()); err != nil {
			log.Errorf("Server shutdown error: %v", err)
		}

		cancel()
	}()

	if err := srv.Start(cfg.ListenAddr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
