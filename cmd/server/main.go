package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/buzzwire/trivia-backend/internal/config"
	"github.com/buzzwire/trivia-backend/internal/httpapi"
	"github.com/buzzwire/trivia-backend/internal/journal"
	"github.com/buzzwire/trivia-backend/internal/match"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg.Dev)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// Replay the journal before serving anything: persisted truth and
	// displayed state must agree, so a broken journal refuses startup.
	jnl, g, err := journal.Open(cfg.JournalPath, logger.Named("journal"))
	if err != nil {
		return err
	}
	defer jnl.Close()
	logger.Info("journal replayed",
		zap.String("path", cfg.JournalPath),
		zap.String("phase", string(g.State().Phase.Kind)),
		zap.Int("contestants", len(g.State().Contestants)))

	m := match.New(ctx, logger.Named("match"), g, jnl)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.SetupRoutes(m, logger.Named("http")),
	}

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return srv.Shutdown(context.Background())
	})

	return group.Wait()
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
