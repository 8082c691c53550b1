package binning

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func L1Normalize(arr []float64) []float64 {
	result := make([]float64, len(arr))
	copy(result, arr)

	sum := floats.Sum(result)
	if sum > 0 {
		floats.Scale(1.0/sum, result)
	}

	return result
}

// NormalizeChannels L1-normalizes every row of binned in place. Rows that sum
// to zero are left untouched.
func NormalizeChannels(binned *mat.Dense) {
	rows, _ := binned.Dims()

	for rowIdx := range rows {
		rowSums := mat.Row(nil, rowIdx, binned)
		binned.SetRow(rowIdx, L1Normalize(rowSums))
	}
}
