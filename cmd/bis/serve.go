package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yangwenmai/bis/internal/api"
	"github.com/yangwenmai/bis/internal/notify"
	"github.com/yangwenmai/bis/internal/seed"
	"github.com/yangwenmai/bis/internal/session"
	"github.com/yangwenmai/bis/internal/store"
	"github.com/yangwenmai/bis/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the review API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	assets, err := seed.Load(cfg.SeedPath)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	hub := notify.NewHub(cfg.CORSOrigin, logger)
	sinks := []notify.Sink{hub}
	apiOpts := []api.Option{
		api.WithHub(hub),
		api.WithLogger(logger),
		api.WithCORSOrigin(cfg.CORSOrigin),
	}

	if cfg.JournalEnabled() {
		journal, closeDB, err := store.OpenJournal(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer closeDB()
		sinks = append(sinks, &notify.JournalSink{Recorder: journal})
		apiOpts = append(apiOpts, api.WithJournal(journal))
		logger.Info("decision journal enabled", zap.String("path", cfg.DBPath))
	} else {
		logger.Info("decision journal disabled")
	}

	// The dispatcher outlives the HTTP server so in-flight actions still
	// get their notifications flushed.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatcher := notify.NewDispatcher(cfg.NotifyQueueSize, logger, sinks...)
	dispatchDone := make(chan struct{})
	go func() {
		dispatcher.Run(dispatchCtx)
		close(dispatchDone)
	}()
	defer func() {
		stopDispatch()
		<-dispatchDone
	}()

	reg, err := session.NewRegistry(assets, dispatcher,
		session.WithTTL(cfg.SessionTTL),
		session.WithKeepAlive(func(id string) bool { return hub.Count(id) > 0 }),
		session.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("init sessions: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SessionTTL > 0 {
		go worker.New(reg, hub, cfg.PruneInterval, logger).Start(ctx)
	}

	srv := api.New(reg, apiOpts...)
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bis server listening",
			zap.String("addr", "http://localhost"+cfg.Addr()),
			zap.Int("seed_assets", len(assets)))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
	return nil
}
