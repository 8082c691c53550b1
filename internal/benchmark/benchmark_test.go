package benchmark

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/bincount/internal/binning"
	"github.com/tensorplex-labs/bincount/internal/equivalence"
)

func TestRunnerTimesEveryCandidate(t *testing.T) {
	r := NewRunner(WithRepeats(2), WithSampleSizes(1_000), WithChannelCounts(1, 5))

	timings, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, timings, 4)

	assert.Equal(t, "bincount1", timings[0].Candidate)
	assert.Equal(t, "bincount2", timings[1].Candidate)
	assert.Equal(t, equivalence.Combination{Samples: 1_000, Channels: 5}, timings[3].Combination)
	for _, timing := range timings {
		assert.Equal(t, 2, timing.Repeats)
		assert.LessOrEqual(t, timing.Min, timing.Mean)
	}
}

func TestRunnerDoesNotCompareResults(t *testing.T) {
	zeros := equivalence.Candidate{
		Name: "zeros",
		Fn: func(x []int, weights *mat.Dense, minLength int) (*mat.Dense, error) {
			rows, _ := weights.Dims()
			return mat.NewDense(rows, minLength, nil), nil
		},
	}
	r := NewRunner(WithRepeats(1), WithSampleSizes(100), WithChannelCounts(1),
		WithCandidates(equivalence.Candidate{Name: "bincount1", Fn: binning.BincountPerChannel}, zeros))

	timings, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, timings, 2)
}

func TestRunnerErrors(t *testing.T) {
	_, err := NewRunner(WithRepeats(0)).Run(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewRunner(WithSampleSizes(10), WithChannelCounts(1)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerRejectsInvalidGrid(t *testing.T) {
	tests := []struct {
		name string
		opts []RunnerOption
	}{
		{"zero channels", []RunnerOption{WithSampleSizes(10), WithChannelCounts(0)}},
		{"negative samples", []RunnerOption{WithSampleSizes(-1), WithChannelCounts(1)}},
		{"no sample sizes", []RunnerOption{WithSampleSizes(), WithChannelCounts(1)}},
		{"zero bins", []RunnerOption{WithSampleSizes(10), WithChannelCounts(1), WithBins(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var timings []Timing
			var err error
			require.NotPanics(t, func() {
				timings, err = NewRunner(tt.opts...).Run(context.Background())
			})
			assert.ErrorIs(t, err, equivalence.ErrInvalidGrid)
			assert.Empty(t, timings)
		})
	}
}

func TestRunnerHonoursBinsAndSeed(t *testing.T) {
	var seenLengths []int
	var seenSums []float64
	recording := equivalence.Candidate{
		Name: "recording",
		Fn: func(x []int, weights *mat.Dense, minLength int) (*mat.Dense, error) {
			seenLengths = append(seenLengths, minLength)
			binned, err := binning.BincountPerChannel(x, weights, minLength)
			if err == nil {
				seenSums = append(seenSums, mat.Sum(binned))
			}
			return binned, err
		},
	}

	run := func(seed uint64) {
		_, err := NewRunner(
			WithSeed(seed),
			WithBins(7),
			WithRepeats(1),
			WithSampleSizes(500),
			WithChannelCounts(2),
			WithCandidates(recording),
		).Run(context.Background())
		require.NoError(t, err)
	}

	run(99)
	run(99)
	run(100)

	assert.Equal(t, []int{7, 7, 7}, seenLengths)
	require.Len(t, seenSums, 3)
	assert.Equal(t, seenSums[0], seenSums[1])
	assert.NotEqual(t, seenSums[0], seenSums[2])
}
