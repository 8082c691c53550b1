package binning

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type histogramConfig struct {
	ranges  [][2]float64
	density bool
}

type HistogramOption func(*histogramConfig)

// WithRange fixes the lower and upper edge of every dimension instead of
// taking them from the sample. Samples outside the range are dropped.
func WithRange(ranges ...[2]float64) HistogramOption {
	return func(c *histogramConfig) {
		c.ranges = ranges
	}
}

// WithDensity scales each channel so that it integrates to one over the
// histogram volume.
func WithDensity() HistogramOption {
	return func(c *histogramConfig) {
		c.density = true
	}
}

// HistogramDD bins an (N x D) sample into a D-dimensional grid of evenly
// spaced bins, accumulating every row of the (channels x N) weights
// separately. A nil weights matrix counts samples.
func HistogramDD(sample *mat.Dense, bins []int, weights *mat.Dense, opts ...HistogramOption) (*Histogram, error) {
	cfg := &histogramConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if sample == nil || sample.IsEmpty() {
		return nil, errors.Wrap(ErrEmptyInput, "sample has no rows")
	}

	n, dims := sample.Dims()
	if len(bins) != dims {
		return nil, errors.Wrapf(ErrLengthMismatch, "len(bins)=%d, sample has %d dimensions", len(bins), dims)
	}
	if cfg.ranges != nil && len(cfg.ranges) != dims {
		return nil, errors.Wrapf(ErrInvalidRange, "len(ranges)=%d, sample has %d dimensions", len(cfg.ranges), dims)
	}

	if weights == nil {
		ones := make([]float64, n)
		floats.AddConst(1, ones)
		weights = mat.NewDense(1, n, ones)
	}
	channels, samples := weights.Dims()
	if samples != n {
		return nil, errors.Wrapf(ErrLengthMismatch, "weights are %dx%d, sample has %d rows", channels, samples, n)
	}

	total := 1
	edges := make([][]float64, dims)
	for d, b := range bins {
		if b <= 0 {
			return nil, errors.Wrapf(ErrInvalidBins, "dimension %d has %d bins", d, b)
		}
		total *= b

		lo, hi, err := dimensionRange(sample, d, cfg.ranges)
		if err != nil {
			return nil, err
		}
		edges[d] = floats.Span(make([]float64, b+1), lo, hi)
	}

	flatIdx := make([]int, 0, n)
	kept := make([]int, 0, n)
	for i := range n {
		idx := 0
		inside := true
		for d := range dims {
			j := binOf(edges[d], sample.At(i, d))
			if j < 0 {
				inside = false
				break
			}
			idx = idx*bins[d] + j
		}
		if inside {
			flatIdx = append(flatIdx, idx)
			kept = append(kept, i)
		}
	}

	var counts *mat.Dense
	switch {
	case len(kept) == 0:
		counts = mat.NewDense(channels, total, nil)
	case len(kept) == n:
		var err error
		counts, err = BincountFlattened(flatIdx, weights, total)
		if err != nil {
			return nil, err
		}
	default:
		keptWeights := mat.NewDense(channels, len(kept), nil)
		for c := range channels {
			for k, i := range kept {
				keptWeights.Set(c, k, weights.At(c, i))
			}
		}
		var err error
		counts, err = BincountFlattened(flatIdx, keptWeights, total)
		if err != nil {
			return nil, err
		}
	}

	if cfg.density {
		volume := 1.0
		for _, e := range edges {
			volume *= e[1] - e[0]
		}
		NormalizeChannels(counts)
		counts.Scale(1/volume, counts)
	}

	return &Histogram{
		Counts: counts,
		Edges:  edges,
		Shape:  append([]int(nil), bins...),
	}, nil
}

// At returns the value of channel at the multi-dimensional bin idx.
func (h *Histogram) At(channel int, idx ...int) float64 {
	flat := 0
	for d, j := range idx {
		flat = flat*h.Shape[d] + j
	}
	return h.Counts.At(channel, flat)
}

func dimensionRange(sample *mat.Dense, d int, ranges [][2]float64) (lo, hi float64, err error) {
	if ranges != nil {
		lo, hi = ranges[d][0], ranges[d][1]
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || lo > hi {
			return 0, 0, errors.Wrapf(ErrInvalidRange, "dimension %d: [%v, %v]", d, lo, hi)
		}
	} else {
		col := mat.Col(nil, d, sample)
		if floats.HasNaN(col) {
			return 0, 0, errors.Wrapf(ErrInvalidRange, "dimension %d contains NaN", d)
		}
		lo, hi = floats.Min(col), floats.Max(col)
		if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return 0, 0, errors.Wrapf(ErrInvalidRange, "dimension %d: [%v, %v] is not finite", d, lo, hi)
		}
	}

	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	return lo, hi, nil
}

// binOf returns j with edges[j] <= v < edges[j+1], placing v equal to the
// last edge in the last bin, or -1 when v lies outside the edges.
func binOf(edges []float64, v float64) int {
	last := len(edges) - 1
	if math.IsNaN(v) || v < edges[0] || v > edges[last] {
		return -1
	}
	if v == edges[last] {
		return last - 1
	}

	return sort.Search(len(edges), func(k int) bool { return edges[k] > v }) - 1
}
