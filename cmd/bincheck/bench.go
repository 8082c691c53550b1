package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tensorplex-labs/bincount/internal/benchmark"
	"github.com/tensorplex-labs/bincount/internal/config"
	"github.com/tensorplex-labs/bincount/internal/equivalence"
)

func newBenchCmd(cfg *config.AppConfig) *cobra.Command {
	var (
		seed       uint64
		bins       int
		samples    []int
		channels   []int
		repeats    int
		concurrent bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time the bincount implementations on the check grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			candidates := equivalence.DefaultCandidates()
			if concurrent {
				candidates = append(candidates, equivalence.ConcurrentCandidate())
			}

			timings, err := benchmark.NewRunner(
				benchmark.WithSeed(seed),
				benchmark.WithBins(bins),
				benchmark.WithRepeats(repeats),
				benchmark.WithSampleSizes(samples...),
				benchmark.WithChannelCounts(channels...),
				benchmark.WithCandidates(candidates...),
			).Run(ctx)
			if err != nil {
				log.Error().Stack().Err(err).Msg("benchmark did not complete")
				return err
			}

			if asJSON {
				out, err := sonic.ConfigStd.MarshalIndent(timings, "", "  ")
				if err != nil {
					return errors.Wrap(err, "encode timings")
				}
				out = append(out, '\n')
				if _, err := os.Stdout.Write(out); err != nil {
					return errors.Wrap(err, "write timings")
				}
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", cfg.Seed, "generator seed, 0 derives one from the clock")
	cmd.Flags().IntVar(&bins, "bins", cfg.Bins, "number of bins indices are drawn from")
	cmd.Flags().IntSliceVar(&samples, "samples", cfg.SampleSizes, "sample counts N")
	cmd.Flags().IntSliceVar(&channels, "channels", cfg.ChannelCounts, "weight channel counts Nw")
	cmd.Flags().IntVar(&repeats, "repeats", cfg.Repeats, "timed runs per candidate and combination")
	cmd.Flags().BoolVar(&concurrent, "concurrent", false, "also time the concurrent candidate")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print timings as JSON")

	return cmd
}
