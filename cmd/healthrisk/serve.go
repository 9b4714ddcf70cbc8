package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/crimson-sun/healthrisk/internal/artifact"
	"github.com/crimson-sun/healthrisk/internal/config"
	"github.com/crimson-sun/healthrisk/internal/engine"
	"github.com/crimson-sun/healthrisk/internal/server"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP prediction server (SIGHUP reloads artifacts)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, logger)
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	store, release, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	eng, err := loadEngine(ctx, cfg, store)
	if err != nil {
		return err
	}
	holder := engine.NewHolder(eng, engine.WithHolderLogger(logger))
	defer holder.Close()

	srv := server.New(holder, logger, server.Options{CORSOrigins: cfg.CORSOrigins})
	if sum, ok := holder.Summary(); ok {
		srv.Metrics().SetLoadedAt(sum.LoadedAt)
		logger.Info().Str("source", sum.Source).Str("format", string(sum.Format)).Msg("artifacts loaded")
	}

	errCh := make(chan error, 1)
	addr := fmt.Sprintf(":%d", cfg.Port)
	go func() {
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		errCh <- srv.Start(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				reload(ctx, cfg, store, holder, srv.Metrics(), logger)
				continue
			}
			logger.Info().Str("signal", sig.String()).Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return <-errCh
		}
	}
}

// reload swaps in a freshly loaded bundle. A failed load keeps the current
// artifacts serving.
func reload(ctx context.Context, cfg *config.Config, store artifact.Store, holder *engine.Holder, m *server.Metrics, logger zerolog.Logger) {
	start := time.Now()
	next, err := loadEngine(ctx, cfg, store)
	if err != nil {
		m.ObserveReload(err, time.Time{})
		logger.Error().Err(err).Msg("artifact reload failed, keeping current artifacts")
		return
	}
	holder.Replace(next, cfg.ReloadGrace)

	sum, _ := next.Summary()
	m.ObserveReload(nil, sum.LoadedAt)
	logger.Info().Str("source", sum.Source).Dur("took", time.Since(start)).Msg("artifacts reloaded")
}
