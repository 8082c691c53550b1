package binning

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Bincount sums w into the bins named by x. A nil w counts occurrences.
// The result has length max(max(x)+1, minLength).
func Bincount(x []int, w []float64, minLength int) ([]float64, error) {
	if w != nil && len(w) != len(x) {
		return nil, errors.Wrapf(ErrLengthMismatch, "len(x)=%d len(w)=%d", len(x), len(w))
	}

	length, err := outputLength(x, minLength)
	if err != nil {
		return nil, err
	}

	result := make([]float64, length)
	accumulate(result, x, w)

	return result, nil
}

// BincountPerChannel runs a one-dimensional bincount for every weight row.
func BincountPerChannel(x []int, weights *mat.Dense, minLength int) (*mat.Dense, error) {
	channels, length, err := checkInputs(x, weights, minLength)
	if err != nil {
		return nil, err
	}

	binned := mat.NewDense(channels, length, nil)

	for rowIdx := range channels {
		rowWeights := mat.Row(nil, rowIdx, weights)

		rowBinned, err := Bincount(x, rowWeights, length)
		if err != nil {
			return nil, errors.Wrapf(err, "channel %d", rowIdx)
		}

		binned.SetRow(rowIdx, rowBinned)
	}

	return binned, nil
}

// BincountFlattened walks the weight storage once, shifting channel c's
// indices by c*length into a single flat accumulator.
func BincountFlattened(x []int, weights *mat.Dense, minLength int) (*mat.Dense, error) {
	channels, length, err := checkInputs(x, weights, minLength)
	if err != nil {
		return nil, err
	}

	raw := weights.RawMatrix()
	flat := make([]float64, channels*length)

	for c := range channels {
		offset := c * length
		row := raw.Data[c*raw.Stride : c*raw.Stride+raw.Cols]
		for i, bin := range x {
			flat[offset+bin] += row[i]
		}
	}

	return mat.NewDense(channels, length, flat), nil
}

// BincountConcurrent bins each channel on its own goroutine, bounded by
// GOMAXPROCS. Rows write to disjoint parts of the output.
func BincountConcurrent(x []int, weights *mat.Dense, minLength int) (*mat.Dense, error) {
	channels, length, err := checkInputs(x, weights, minLength)
	if err != nil {
		return nil, err
	}

	raw := weights.RawMatrix()
	flat := make([]float64, channels*length)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for c := range channels {
		g.Go(func() error {
			row := raw.Data[c*raw.Stride : c*raw.Stride+raw.Cols]
			accumulate(flat[c*length:(c+1)*length], x, row)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mat.NewDense(channels, length, flat), nil
}

func accumulate(dst []float64, x []int, w []float64) {
	if w == nil {
		for _, bin := range x {
			dst[bin]++
		}
		return
	}

	for i, bin := range x {
		dst[bin] += w[i]
	}
}

func outputLength(x []int, minLength int) (int, error) {
	if minLength < 0 {
		return 0, errors.Wrapf(ErrNegativeMinLength, "minLength=%d", minLength)
	}

	length := minLength
	for i, bin := range x {
		if bin < 0 {
			return 0, errors.Wrapf(ErrNegativeIndex, "x[%d]=%d", i, bin)
		}
		if bin+1 > length {
			length = bin + 1
		}
	}

	if length == 0 {
		return 0, errors.Wrap(ErrEmptyInput, "no samples and minLength is 0")
	}

	return length, nil
}

func checkInputs(x []int, weights *mat.Dense, minLength int) (channels, length int, err error) {
	if weights == nil || weights.IsEmpty() {
		return 0, 0, errors.Wrap(ErrEmptyInput, "weight matrix has no channels")
	}

	channels, samples := weights.Dims()
	if samples != len(x) {
		return 0, 0, errors.Wrapf(ErrLengthMismatch, "weights are %dx%d, len(x)=%d", channels, samples, len(x))
	}

	length, err = outputLength(x, minLength)
	if err != nil {
		return 0, 0, err
	}

	return channels, length, nil
}
