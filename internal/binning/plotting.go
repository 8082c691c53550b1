package binning

import (
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/floats"
)

func PlotBinsTerminal(w io.Writer, sums []float64, title string) {
	if len(sums) == 0 {
		fmt.Fprintf(w, "\n%s: no bins\n", title)
		return
	}

	// Find min and max for scaling
	minSum := floats.Min(sums)
	maxSum := floats.Max(sums)

	fmt.Fprintf(w, "\n%s (Terminal Plot - Bin Order):\n", title)
	fmt.Fprintln(w, "Bin      | Sum          | Bar Chart")
	fmt.Fprintln(w, "---------|--------------|"+strings.Repeat("-", 50))

	maxBarWidth := 50
	for bin, sum := range sums {
		var barWidth int
		if maxSum != minSum {
			barWidth = int((sum - minSum) / (maxSum - minSum) * float64(maxBarWidth))
		} else {
			barWidth = maxBarWidth / 2
		}

		bar := strings.Repeat("█", barWidth)
		if barWidth == 0 {
			bar = "▏"
		}

		fmt.Fprintf(w, "%8d | %12.4f | %s\n", bin, sum, bar)
	}

	fmt.Fprintf(w, "\nScale: Min=%.6f, Max=%.6f\n", minSum, maxSum)
	fmt.Fprintf(w, "Bar width represents relative sum (0 to %d chars)\n", maxBarWidth)
}
