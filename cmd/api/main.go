package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coown-backend/bootstrap"
	"coown-backend/internal/config"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	bootstrap.ConfigureLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Warn().Err(err).Msg("close resources")
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	if rt.Writer != nil {
		g.Go(func() error { return rt.Writer.Run(gctx) })
	}
	g.Go(func() error {
		log.Info().Msgf("Server running at http://localhost:%s", cfg.Port)
		log.Info().Msgf("Health check: http://localhost:%s/health/json", cfg.Port)
		return rt.App.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		return rt.App.ShutdownWithTimeout(shutdownTimeout)
	})

	err = g.Wait()
	// Requests drained during shutdown may have submitted after the writer stopped.
	if rt.Writer != nil {
		rt.Writer.Flush()
	}
	return err
}
