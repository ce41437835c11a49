// Command feedsim drives the feed engine headless against a running SongBid
// API and logs what a viewer would see.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"songbid/internal/feedclient"
	"songbid/internal/platform/config"
	"songbid/internal/platform/logger"
)

func main() {
	_ = config.Load()
	cfg := config.SimulatorFromEnv()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := feedclient.New(cfg.FeedAPIURL, nil)
	log.Info("feed simulator starting",
		slog.String("api", cfg.FeedAPIURL),
		slog.Int("steps", cfg.Steps),
		slog.Duration("preload_delay", cfg.PreloadDelay),
		slog.Bool("muted", cfg.Muted),
	)

	rep, err := simulate(ctx, client, options{
		Steps:        cfg.Steps,
		PreloadDelay: cfg.PreloadDelay,
		Muted:        cfg.Muted,
		Uploader:     client,
	}, log)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("simulation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("feed simulator finished",
		slog.Int("steps", rep.Steps),
		slog.Int("records", rep.Records),
		slog.Int("bids_opened", rep.BidsOpened),
		slog.Bool("no_more_pages", rep.NoMorePages),
	)
}
