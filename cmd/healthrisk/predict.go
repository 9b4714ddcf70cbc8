package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/healthrisk/internal/output"
	"github.com/crimson-sun/healthrisk/internal/output/file"
	"github.com/crimson-sun/healthrisk/internal/output/stdout"
	"github.com/crimson-sun/healthrisk/internal/pipeline"
	"github.com/crimson-sun/healthrisk/internal/source"
)

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict from NDJSON profiles, one JSON object per line",
		Long: `Reads health profiles as newline-delimited JSON and writes one result per
profile. A profile that fails produces an error record and the run goes on;
the command exits non-zero if any profile failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			outPath, _ := cmd.Flags().GetString("output")
			formatName, _ := cmd.Flags().GetString("format")
			flushEvery, _ := cmd.Flags().GetInt("flush-every")

			format, err := output.ParseFormat(formatName)
			if err != nil {
				return err
			}
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

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

			in, err := source.Open(input)
			if err != nil {
				return err
			}
			defer in.Close()

			var out output.Output = stdout.New(format)
			if outPath != "" {
				if out, err = file.New(outPath, format, file.WithTruncate(), file.WithFlushEvery(flushEvery)); err != nil {
					return err
				}
			}

			p := pipeline.New(source.NewNDJSON(in), eng, out, pipeline.WithLogger(logger))
			stats, runErr := p.Run(ctx)
			if err := p.Close(); err != nil && runErr == nil {
				runErr = err
			}
			logger.Info().Int("processed", stats.Processed).Int("failed", stats.Failed).Msg("predict finished")

			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}
			if stats.Failed > 0 {
				return fmt.Errorf("%d of %d profiles failed", stats.Failed, stats.Processed)
			}
			return nil
		},
	}
	cmd.Flags().StringP("input", "i", "-", "NDJSON input file (- for stdin)")
	cmd.Flags().StringP("output", "o", "", "write results to this file instead of stdout")
	cmd.Flags().Int("flush-every", 0, "with --output, flush after this many records (0: only when the buffer fills)")
	cmd.Flags().StringP("format", "f", string(output.FormatText), "output format: text or json")
	return cmd
}
