package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/crimson-sun/healthrisk/internal/artifact"
	"github.com/crimson-sun/healthrisk/internal/config"
	"github.com/crimson-sun/healthrisk/internal/engine"
	"github.com/crimson-sun/healthrisk/internal/logging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "healthrisk",
		Short:         "Health profile risk-reduction and outcome-score inference",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(predictCmd())
	rootCmd.AddCommand(artifactsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "healthrisk:", err)
		os.Exit(1)
	}
}

// setup loads configuration and the process logger.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logger := logging.Init(logging.ParseLevel(cfg.LogLevel), cfg.IsDev())
	return cfg, logger, nil
}

// openStore returns the configured artifact store and a function releasing it.
func openStore(ctx context.Context, cfg *config.Config) (artifact.Store, func(), error) {
	switch cfg.ArtifactStore {
	case config.StorePostgres:
		pool, err := artifact.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return nil, nil, err
		}
		return artifact.NewPGStore(pool), pool.Close, nil
	case config.StoreHTTP:
		hs, err := artifact.NewHTTPStore(cfg.ArtifactURL, artifact.WithBearerToken(cfg.ArtifactToken))
		if err != nil {
			return nil, nil, err
		}
		return hs, func() {}, nil
	}
	ds, err := artifact.NewDirStore(cfg.ArtifactDir)
	if err != nil {
		return nil, nil, err
	}
	return ds, func() {}, nil
}

// runtimeLibrary resolves the ONNX Runtime path against the store, so a
// relative artifact directory does not depend on the working directory.
func runtimeLibrary(cfg *config.Config, store artifact.Store) string {
	if cfg.ORTLib == "" {
		if ds, ok := store.(*artifact.DirStore); ok {
			return filepath.Join(ds.Dir(), "libonnxruntime.so")
		}
	}
	return cfg.RuntimeLibrary()
}

// loadEngine loads a bundle from store and builds an engine over it.
func loadEngine(ctx context.Context, cfg *config.Config, store artifact.Store) (*engine.Engine, error) {
	b, err := artifact.Load(ctx, store, artifact.Options{
		Format:         artifact.Format(cfg.ModelFormat),
		RuntimeLibrary: runtimeLibrary(cfg, store),
	})
	if err != nil {
		return nil, err
	}
	eng, err := engine.FromBundle(b)
	if err != nil {
		b.Close()
		return nil, err
	}
	return eng, nil
}
