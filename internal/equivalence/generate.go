package equivalence

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

type Inputs struct {
	X       []int      // 1D: bin index per sample, in [0, bins)
	Weights *mat.Dense // 2D: channels x samples, uniform in [0, 1)
}

// GenerateInputs draws fresh inputs for one combination from rng.
func GenerateInputs(rng *rand.Rand, c Combination, bins int) Inputs {
	x := make([]int, c.Samples)
	for i := range x {
		x[i] = rng.IntN(bins)
	}

	uniform := distuv.Uniform{Min: 0, Max: 1, Src: rng}
	data := make([]float64, c.Channels*c.Samples)
	for i := range data {
		data[i] = uniform.Rand()
	}

	return Inputs{
		X:       x,
		Weights: mat.NewDense(c.Channels, c.Samples, data),
	}
}
