package equivalence

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/bincount/internal/utils/logger"
)

var (
	ErrTooFewCandidates = errors.New("at least two candidates are required")
	ErrInvalidGrid      = errors.New("sample sizes, channel counts and bins must be positive")
)

// streamSalt decorrelates the two PCG words derived from a single seed.
const streamSalt = 0x9e3779b97f4a7c15

type Harness struct {
	Seed          uint64
	SampleSizes   []int
	ChannelCounts []int
	Bins          int
	Candidates    []Candidate

	onReference func(Combination, *mat.Dense)
}

type HarnessOption func(*Harness)

// WithSeed fixes the generator seed. Zero picks a seed from the clock.
func WithSeed(seed uint64) HarnessOption {
	return func(h *Harness) {
		h.Seed = seed
	}
}

func WithSampleSizes(sizes ...int) HarnessOption {
	return func(h *Harness) {
		h.SampleSizes = sizes
	}
}

func WithChannelCounts(counts ...int) HarnessOption {
	return func(h *Harness) {
		h.ChannelCounts = counts
	}
}

func WithBins(bins int) HarnessOption {
	return func(h *Harness) {
		h.Bins = bins
	}
}

// WithCandidates replaces the compared implementations. The first one is
// the reference the others are checked against.
func WithCandidates(candidates ...Candidate) HarnessOption {
	return func(h *Harness) {
		h.Candidates = candidates
	}
}

// WithReferenceHook registers fn to receive the reference result of every
// combination that passed.
func WithReferenceHook(fn func(Combination, *mat.Dense)) HarnessOption {
	return func(h *Harness) {
		h.onReference = fn
	}
}

func NewHarness(opts ...HarnessOption) *Harness {
	h := &Harness{
		SampleSizes:   DefaultSampleSizes(),
		ChannelCounts: DefaultChannelCounts(),
		Bins:          DefaultBins,
		Candidates:    DefaultCandidates(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Combinations lists the grid in run order: samples outer, channels inner.
func (h *Harness) Combinations() []Combination {
	combos := make([]Combination, 0, len(h.SampleSizes)*len(h.ChannelCounts))
	for _, n := range h.SampleSizes {
		for _, nw := range h.ChannelCounts {
			combos = append(combos, Combination{Samples: n, Channels: nw})
		}
	}
	return combos
}

// Run checks every combination in order and stops at the first mismatch,
// returning the partial report together with a *MismatchError.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	if len(h.Candidates) < 2 {
		return nil, errors.Wrapf(ErrTooFewCandidates, "got %d", len(h.Candidates))
	}
	if err := ValidateGrid(h.SampleSizes, h.ChannelCounts, h.Bins); err != nil {
		return nil, err
	}

	seed := h.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^streamSalt))

	names := make([]string, len(h.Candidates))
	for i, c := range h.Candidates {
		names[i] = c.Name
	}

	report := &Report{Seed: seed, Bins: h.Bins, Passed: true}
	log.Info().Uint64("seed", seed).Strs("candidates", names).Int("bins", h.Bins).Msg("starting equivalence check")

	for _, combo := range h.Combinations() {
		if err := ctx.Err(); err != nil {
			report.Passed = false
			return report, errors.Wrap(err, "equivalence check interrupted")
		}

		startTime := time.Now()
		reference, err := h.checkCombination(rng, seed, combo)
		result := CombinationResult{
			Combination: combo,
			Candidates:  names,
			Elapsed:     time.Since(startTime),
			Passed:      err == nil,
		}
		report.Results = append(report.Results, result)

		if err != nil {
			report.Passed = false
			log.Error().Err(err).Int("samples", combo.Samples).Int("channels", combo.Channels).Msg("equivalence check failed")
			return report, err
		}

		logger.Sugar().Debugw("combination passed", "samples", combo.Samples, "channels", combo.Channels, "elapsed", result.Elapsed)
		if h.onReference != nil {
			h.onReference(combo, reference)
		}
	}

	log.Info().Int("combinations", len(report.Results)).Msg("all candidates agree")
	return report, nil
}

func (h *Harness) checkCombination(rng *rand.Rand, seed uint64, combo Combination) (*mat.Dense, error) {
	inputs := GenerateInputs(rng, combo, h.Bins)

	reference := h.Candidates[0]
	want, err := reference.Fn(inputs.X, inputs.Weights, h.Bins)
	if err != nil {
		return nil, errors.Wrapf(err, "%s on N=%d Nw=%d", reference.Name, combo.Samples, combo.Channels)
	}

	for _, candidate := range h.Candidates[1:] {
		got, err := candidate.Fn(inputs.X, inputs.Weights, h.Bins)
		if err != nil {
			return nil, errors.Wrapf(err, "%s on N=%d Nw=%d", candidate.Name, combo.Samples, combo.Channels)
		}

		if mismatch := compare(want, got); mismatch != nil {
			mismatch.Combination = combo
			mismatch.Seed = seed
			mismatch.Reference = reference.Name
			mismatch.Candidate = candidate.Name
			return nil, mismatch
		}
	}

	return want, nil
}

// ValidateGrid rejects grids that cannot be turned into inputs: every sample
// size, channel count and the bin count must be positive.
func ValidateGrid(sampleSizes, channelCounts []int, bins int) error {
	if bins <= 0 || len(sampleSizes) == 0 || len(channelCounts) == 0 {
		return errors.Wrapf(ErrInvalidGrid, "bins=%d sizes=%v channels=%v", bins, sampleSizes, channelCounts)
	}
	for _, n := range sampleSizes {
		if n <= 0 {
			return errors.Wrapf(ErrInvalidGrid, "sample size %d", n)
		}
	}
	for _, nw := range channelCounts {
		if nw <= 0 {
			return errors.Wrapf(ErrInvalidGrid, "channel count %d", nw)
		}
	}
	return nil
}

// compare reports the first element where got differs from want, using
// exact float equality.
func compare(want, got *mat.Dense) *MismatchError {
	wr, wc := dims(want)
	gr, gc := dims(got)
	if wr != gr || wc != gc {
		return &MismatchError{
			ReferenceShape: [2]int{wr, wc},
			CandidateShape: [2]int{gr, gc},
		}
	}

	for r := range wr {
		for c := range wc {
			if w, g := want.At(r, c), got.At(r, c); w != g {
				return &MismatchError{
					ReferenceShape: [2]int{wr, wc},
					CandidateShape: [2]int{gr, gc},
					Channel:        r,
					Bin:            c,
					Want:           w,
					Got:            g,
				}
			}
		}
	}

	return nil
}

func dims(m *mat.Dense) (r, c int) {
	if m == nil {
		return 0, 0
	}
	return m.Dims()
}
