package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"songbid/internal/catalog"
	"songbid/internal/platform/config"
	"songbid/internal/platform/logger"
	"songbid/internal/platform/metrics"
	"songbid/internal/vimeo"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()
	cfg := config.ServerFromEnv()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	var ticketer catalog.Ticketer
	if cfg.Vimeo.Configured() {
		vc, err := vimeo.New(vimeo.Config{
			AccessToken:  cfg.Vimeo.AccessToken,
			ClientID:     cfg.Vimeo.ClientID,
			ClientSecret: cfg.Vimeo.ClientSecret,
			BaseURL:      cfg.Vimeo.APIURL,
		})
		if err != nil {
			log.Error("vimeo client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		ticketer = vc
	}

	repo := catalog.NewInMemoryRepository(cfg.SampleVideosEnabled)
	svc := catalog.NewService(repo, catalog.Options{
		PageSize:       cfg.PageSize,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Vimeo:          ticketer,
	})
	met := metrics.New()
	h := catalog.NewHandler(svc, log, met)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Method(http.MethodGet, "/metrics", met.Handler(func() { met.SetStoredVideos(repo.UploadCount()) }))
	h.Routes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting",
			slog.String("port", cfg.Port),
			slog.Int("page_size", cfg.PageSize),
			slog.Bool("sample_videos", cfg.SampleVideosEnabled),
			slog.Bool("vimeo", ticketer != nil),
			slog.String("log_level", cfg.LogLevel),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, draining connections")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped")
}
