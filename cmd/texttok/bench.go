package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/example/go-texttok/internal/bench"
	"github.com/example/go-texttok/internal/tokenizer"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		runs    int
		format  string
		maxMean time.Duration
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time repeated tokenizer fits on the corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if runs < 1 {
				return fmt.Errorf("--runs must be >= 1")
			}

			if format != "table" && format != "json" {
				return fmt.Errorf("unknown format %q (want table|json)", format)
			}

			texts, err := loadCorpus(cfg)
			if err != nil {
				return err
			}

			opts, err := tokenizerOptions(cfg)
			if err != nil {
				return err
			}

			results := make([]bench.RunResult, 0, runs)
			durations := make([]time.Duration, 0, runs)

			for i := 0; i < runs; i++ {
				start := time.Now()
				tok, err := tokenizer.New(texts, opts)
				elapsed := time.Since(start)
				if err != nil {
					return fmt.Errorf("run %d: %w", i+1, err)
				}

				tokens := bench.CountTokens(tok.Tokens())
				results = append(results, bench.RunResult{
					Index:      i,
					Cold:       i == 0,
					Duration:   elapsed,
					Texts:      len(texts),
					Tokens:     tokens,
					Throughput: bench.CalcThroughput(tokens, elapsed),
				})
				durations = append(durations, elapsed)

				slog.Debug("bench run", slog.Int("run", i+1), slog.Duration("duration", elapsed))
			}

			stats := bench.ComputeStats(durations)

			if format == "json" {
				bench.FormatJSON(results, stats, cmd.OutOrStdout())
			} else {
				bench.FormatTable(results, stats, cmd.OutOrStdout())
			}

			if err := bench.CheckMeanThreshold(stats.Mean, maxMean); err != nil {
				_, _ = fmt.Fprintln(os.Stderr, "FAIL:", err)
				return err
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&runs, "runs", 5, "Number of fit runs")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().DurationVar(&maxMean, "max-mean", 0, "Exit non-zero if the mean fit time exceeds this value (0 = disabled)")

	return cmd
}
