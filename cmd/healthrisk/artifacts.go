package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/healthrisk/internal/artifact"
)

func artifactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Inspect and publish fitted artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showArtifacts(cmd.Context())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Load the configured artifacts and print their summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showArtifacts(cmd.Context())
		},
	})

	pushCmd := &cobra.Command{
		Use:   "push",
		Short: "Validate artifacts in a directory and upload them to the PostgreSQL registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			return pushArtifacts(cmd.Context(), dir)
		},
	}
	pushCmd.Flags().String("dir", "", "artifact directory to upload (default HEALTHRISK_ARTIFACT_DIR)")
	cmd.AddCommand(pushCmd)

	return cmd
}

func showArtifacts(ctx context.Context) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}
	store, release, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	eng, err := loadEngine(ctx, cfg, store)
	if err != nil {
		return err
	}
	defer eng.Close()

	sum, _ := eng.Summary()
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}

func pushArtifacts(ctx context.Context, dir string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("push: HEALTHRISK_DATABASE_URL is not set")
	}
	if dir == "" {
		dir = cfg.ArtifactDir
	}

	src, err := artifact.NewDirStore(dir)
	if err != nil {
		return err
	}
	format := artifact.Format(cfg.ModelFormat)

	// Refuse to publish a set the server could not load.
	b, err := artifact.Load(ctx, src, artifact.Options{Format: format, RuntimeLibrary: runtimeLibrary(cfg, src)})
	if err != nil {
		return err
	}
	b.Close()

	pool, err := artifact.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	dst := artifact.NewPGStore(pool)
	if err := dst.EnsureSchema(ctx); err != nil {
		return err
	}
	for _, name := range artifact.Names(format) {
		body, err := src.Read(ctx, name)
		if err != nil {
			return err
		}
		if err := dst.Put(ctx, name, body); err != nil {
			return err
		}
		logger.Info().Str("name", name).Int("bytes", len(body)).Msg("artifact pushed")
	}
	fmt.Fprintf(os.Stderr, "pushed %d artifacts from %s to %s\n", len(artifact.Names(format)), src.Dir(), dst.Describe())
	return nil
}
