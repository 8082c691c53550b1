package binning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestHistogramDDCountsLastEdgeInLastBin(t *testing.T) {
	sample := mat.NewDense(5, 1, []float64{0, 1, 2, 3, 4})

	h, err := HistogramDD(sample, []int{4}, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{4}, h.Shape)
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, h.Edges[0])
	assert.Equal(t, []float64{1, 1, 1, 2}, mat.Row(nil, 0, h.Counts))
}

func TestHistogramDDWeightedChannels(t *testing.T) {
	sample := mat.NewDense(4, 2, []float64{
		0, 0,
		1, 1,
		1, 0,
		0, 1,
	})
	weights := mat.NewDense(2, 4, []float64{
		1, 2, 3, 4,
		10, 20, 30, 40,
	})

	h, err := HistogramDD(sample, []int{2, 2}, weights)
	require.NoError(t, err)

	rows, cols := h.Counts.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 4, cols)

	assert.Equal(t, []float64{1, 4, 3, 2}, mat.Row(nil, 0, h.Counts))
	assert.Equal(t, []float64{10, 40, 30, 20}, mat.Row(nil, 1, h.Counts))
	assert.Equal(t, 3.0, h.At(0, 1, 0))
	assert.Equal(t, 40.0, h.At(1, 0, 1))
}

func TestHistogramDDRangeDropsOutsideSamples(t *testing.T) {
	sample := mat.NewDense(3, 1, []float64{-1, 0.5, 2})
	weights := mat.NewDense(1, 3, []float64{7, 8, 9})

	h, err := HistogramDD(sample, []int{2}, weights, WithRange([2]float64{0, 1}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 8}, mat.Row(nil, 0, h.Counts))

	h, err = HistogramDD(sample, []int{2}, weights, WithRange([2]float64{5, 6}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, mat.Row(nil, 0, h.Counts))
}

func TestHistogramDDDegenerateRange(t *testing.T) {
	sample := mat.NewDense(3, 1, []float64{3, 3, 3})

	h, err := HistogramDD(sample, []int{1}, nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{2.5, 3.5}, h.Edges[0])
	assert.Equal(t, 3.0, h.At(0, 0))
}

func TestHistogramDDDensity(t *testing.T) {
	sample := mat.NewDense(5, 1, []float64{0, 1, 2, 3, 4})

	h, err := HistogramDD(sample, []int{4}, nil, WithDensity())
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.2, 0.2, 0.2, 0.4}, mat.Row(nil, 0, h.Counts), 1e-12)

	// bin width 0.5 doubles the density
	h, err = HistogramDD(sample, []int{8}, nil, WithDensity())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mat.Sum(h.Counts)*0.5, 1e-12)
}

func TestHistogramDDErrors(t *testing.T) {
	sample := mat.NewDense(2, 2, []float64{0, 1, 2, 3})

	_, err := HistogramDD(nil, []int{2}, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = HistogramDD(sample, []int{2}, nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = HistogramDD(sample, []int{2, 0}, nil)
	assert.ErrorIs(t, err, ErrInvalidBins)

	_, err = HistogramDD(sample, []int{2, 2}, mat.NewDense(1, 3, nil))
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = HistogramDD(sample, []int{2, 2}, nil, WithRange([2]float64{0, 1}))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = HistogramDD(sample, []int{2, 2}, nil, WithRange([2]float64{1, 0}, [2]float64{0, 1}))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = HistogramDD(sample, []int{2, 2}, nil, WithRange([2]float64{0, math.NaN()}, [2]float64{0, 1}))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestHistogramDDRejectsNonFiniteSample(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		sample := mat.NewDense(3, 1, []float64{1, bad, 2})

		h, err := HistogramDD(sample, []int{2}, nil)
		assert.ErrorIs(t, err, ErrInvalidRange, "value %v", bad)
		assert.Nil(t, h)
	}

	// an explicit range drops non-finite values instead
	sample := mat.NewDense(3, 1, []float64{1, math.NaN(), 2})
	h, err := HistogramDD(sample, []int{2}, nil, WithRange([2]float64{1, 2}))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, mat.Row(nil, 0, h.Counts))
}
