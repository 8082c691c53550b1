// Package binning accumulates weighted samples into integer-indexed bins.
package binning

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNegativeIndex     = errors.New("bin index must be non-negative")
	ErrLengthMismatch    = errors.New("weights and bin indices differ in length")
	ErrEmptyInput        = errors.New("binning input is empty")
	ErrNegativeMinLength = errors.New("minLength must be non-negative")
	ErrInvalidBins       = errors.New("bin count must be positive")
	ErrInvalidRange      = errors.New("histogram range is invalid")
)

// Bincounter maps bin indices and a (channels x samples) weight matrix to a
// (channels x bins) matrix of per-bin weighted sums.
type Bincounter func(x []int, weights *mat.Dense, minLength int) (*mat.Dense, error)

// Histogram is the result of HistogramDD. Counts holds one row per weight
// channel with the multi-dimensional bins flattened row-major.
type Histogram struct {
	Counts *mat.Dense  // 2D: channels x prod(Shape)
	Edges  [][]float64 // per dimension, Shape[d]+1 edges
	Shape  []int       // bins per dimension
}
