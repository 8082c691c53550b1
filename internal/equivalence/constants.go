package equivalence

import "github.com/tensorplex-labs/bincount/internal/binning"

const DefaultBins = 100

func DefaultSampleSizes() []int {
	return []int{1_000_000, 10_000_000}
}

func DefaultChannelCounts() []int {
	return []int{1, 5, 10, 20, 40}
}

// DefaultCandidates returns bincount1 and bincount2, reference first.
func DefaultCandidates() []Candidate {
	return []Candidate{
		{Name: "bincount1", Fn: binning.BincountPerChannel},
		{Name: "bincount2", Fn: binning.BincountFlattened},
	}
}

func ConcurrentCandidate() Candidate {
	return Candidate{Name: "bincount_concurrent", Fn: binning.BincountConcurrent}
}
