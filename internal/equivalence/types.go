// Package equivalence checks that alternative bincount implementations agree
// exactly on identical random input.
package equivalence

import (
	"fmt"
	"time"

	"github.com/tensorplex-labs/bincount/internal/binning"
)

// Combination is one (samples, channels) point of the check grid.
type Combination struct {
	Samples  int `json:"samples"`  // N: length of the bin-index array
	Channels int `json:"channels"` // Nw: rows of the weight matrix
}

type Candidate struct {
	Name string
	Fn   binning.Bincounter
}

type CombinationResult struct {
	Combination
	Candidates []string      `json:"candidates"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Passed     bool          `json:"passed"`
}

// Report summarises a harness run. Seed replays the exact inputs.
type Report struct {
	Seed    uint64              `json:"seed"`
	Bins    int                 `json:"bins"`
	Results []CombinationResult `json:"results"`
	Passed  bool                `json:"passed"`
}

// MismatchError is returned by Run for the first combination on which a
// candidate disagrees with the reference.
type MismatchError struct {
	Combination
	Seed      uint64
	Reference string
	Candidate string

	// set when shapes differ
	ReferenceShape [2]int
	CandidateShape [2]int

	Channel int
	Bin     int
	Want    float64
	Got     float64
}

func (e *MismatchError) Error() string {
	if e.ReferenceShape != e.CandidateShape {
		return fmt.Sprintf("N=%d Nw=%d seed=%d: %s shape %v differs from %s shape %v",
			e.Samples, e.Channels, e.Seed, e.Candidate, e.CandidateShape, e.Reference, e.ReferenceShape)
	}
	return fmt.Sprintf("N=%d Nw=%d seed=%d: %s[%d][%d]=%v differs from %s[%d][%d]=%v",
		e.Samples, e.Channels, e.Seed, e.Candidate, e.Channel, e.Bin, e.Got, e.Reference, e.Channel, e.Bin, e.Want)
}
