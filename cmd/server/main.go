package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facussc24/2026-sub001/internal/config"
	"github.com/facussc24/2026-sub001/internal/export"
	"github.com/facussc24/2026-sub001/internal/repository"
	"github.com/facussc24/2026-sub001/internal/router"
	"github.com/facussc24/2026-sub001/internal/structure"
	"github.com/facussc24/2026-sub001/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev: pretty, prod: JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open catalog store")
	}
	defer backend.Close()

	deps := router.Deps{
		Store:   backend.Store,
		Redis:   backend.Redis,
		Breaker: backend.Breaker,
		IDs:     structure.DefaultGenerator(),
	}

	// Async exports need redis for the queue. Worker handlers are wired
	// here (composition root) so the pool reuses the request services.
	var dispatcher *worker.Dispatcher
	if backend.Redis != nil {
		dispatcher = worker.NewDispatcher(backend.Redis)
		deps.Queue = dispatcher
	} else {
		log.Warn().Msg("REDIS_URL vacio: exportaciones asincronas deshabilitadas")
	}
	svcs := router.NewServices(deps)

	if dispatcher != nil {
		sink, err := newSink(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init export sink")
		}
		pool := worker.NewPool(backend.Redis, map[string]worker.Handler{
			worker.JobExportacion: worker.NewExportWorker(svcs.Exportacion, sink, dispatcher),
		})
		pool.Start(ctx, cfg.WorkerPoolSize)
		worker.StartRetryCron(ctx, worker.RetryCronConfig{RDB: backend.Redis, CB: backend.Breaker})
	}

	r := router.New(cfg, deps, svcs)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("product structure engine listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

func newSink(ctx context.Context, cfg *config.Config) (export.Sink, error) {
	if cfg.ExportSink != "minio" {
		return export.LocalSink{Dir: cfg.ExportDir}, nil
	}
	sink, err := export.NewMinioSink(export.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	if err := sink.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return sink, nil
}
