// Package search enumerates a mapping space, pruning the parts that the
// feedback of the cost model shows to be infeasible.
package search

import (
	"fmt"

	"github.com/MainEpicenter/timeloop/mapspace"
)

// Status is the outcome of evaluating a mapping.
type Status int

// The statuses a driver reports.
const (
	Success Status = iota
	MappingConstructionFailure
	EvalFailure
)

func (s Status) String() string {
	switch s {
	case Success:
		return "Success"
	case MappingConstructionFailure:
		return "MappingConstructionFailure"
	case EvalFailure:
		return "EvalFailure"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// An Algorithm proposes mapping IDs and learns from their evaluation. Next
// and Report must be called alternately.
type Algorithm interface {
	// Next returns the next mapping to evaluate, or false if the search is
	// over.
	Next() (mapspace.ID, bool)

	// Report gives the outcome of the mapping last returned by Next. The cost
	// is only meaningful on Success.
	Report(status Status, cost float64)
}

// Stats counts the mappings an algorithm has visited.
type Stats struct {
	Visited              uint64
	Valid                uint64
	ConstructionFailures uint64
	EvalFailures         uint64
}
