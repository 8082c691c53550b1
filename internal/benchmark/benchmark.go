// Package benchmark times bincount candidates on the check grid. It never
// compares results; correctness lives in package equivalence.
package benchmark

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/bincount/internal/equivalence"
)

const DefaultRepeats = 5

type Timing struct {
	equivalence.Combination
	Candidate string        `json:"candidate"`
	Repeats   int           `json:"repeats"`
	Mean      time.Duration `json:"mean_ns"`
	Min       time.Duration `json:"min_ns"`
}

type Runner struct {
	Seed          uint64
	Repeats       int
	SampleSizes   []int
	ChannelCounts []int
	Bins          int
	Candidates    []equivalence.Candidate
}

type RunnerOption func(*Runner)

// WithSeed fixes the input generator seed. Zero picks a seed from the clock.
func WithSeed(seed uint64) RunnerOption {
	return func(r *Runner) {
		r.Seed = seed
	}
}

func WithRepeats(repeats int) RunnerOption {
	return func(r *Runner) {
		r.Repeats = repeats
	}
}

func WithBins(bins int) RunnerOption {
	return func(r *Runner) {
		r.Bins = bins
	}
}

func WithSampleSizes(sizes ...int) RunnerOption {
	return func(r *Runner) {
		r.SampleSizes = sizes
	}
}

func WithChannelCounts(counts ...int) RunnerOption {
	return func(r *Runner) {
		r.ChannelCounts = counts
	}
}

func WithCandidates(candidates ...equivalence.Candidate) RunnerOption {
	return func(r *Runner) {
		r.Candidates = candidates
	}
}

func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		Seed:          1,
		Repeats:       DefaultRepeats,
		SampleSizes:   equivalence.DefaultSampleSizes(),
		ChannelCounts: equivalence.DefaultChannelCounts(),
		Bins:          equivalence.DefaultBins,
		Candidates:    equivalence.DefaultCandidates(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run times every candidate Repeats times on each combination, reusing one
// generated input per combination.
func (r *Runner) Run(ctx context.Context) ([]Timing, error) {
	if r.Repeats <= 0 {
		return nil, errors.Errorf("repeats must be positive, got %d", r.Repeats)
	}
	if err := equivalence.ValidateGrid(r.SampleSizes, r.ChannelCounts, r.Bins); err != nil {
		return nil, err
	}

	seed := r.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Info().Uint64("seed", seed).Int("bins", r.Bins).Int("repeats", r.Repeats).Msg("starting benchmark")

	rng := rand.New(rand.NewPCG(seed, seed))
	combos := equivalence.NewHarness(
		equivalence.WithSampleSizes(r.SampleSizes...),
		equivalence.WithChannelCounts(r.ChannelCounts...),
	).Combinations()

	timings := make([]Timing, 0, len(combos)*len(r.Candidates))
	for _, combo := range combos {
		inputs := equivalence.GenerateInputs(rng, combo, r.Bins)

		for _, c := range r.Candidates {
			if err := ctx.Err(); err != nil {
				return timings, errors.Wrap(err, "benchmark interrupted")
			}

			var total, fastest time.Duration
			for i := range r.Repeats {
				startTime := time.Now()
				if _, err := c.Fn(inputs.X, inputs.Weights, r.Bins); err != nil {
					return timings, errors.Wrapf(err, "%s on N=%d Nw=%d", c.Name, combo.Samples, combo.Channels)
				}
				elapsed := time.Since(startTime)

				total += elapsed
				if i == 0 || elapsed < fastest {
					fastest = elapsed
				}
			}

			timing := Timing{
				Combination: combo,
				Candidate:   c.Name,
				Repeats:     r.Repeats,
				Mean:        total / time.Duration(r.Repeats),
				Min:         fastest,
			}
			timings = append(timings, timing)

			log.Info().
				Str("candidate", c.Name).
				Int("samples", combo.Samples).
				Int("channels", combo.Channels).
				Dur("mean", timing.Mean).
				Dur("min", timing.Min).
				Msg("benchmarked candidate")
		}
	}

	return timings, nil
}
