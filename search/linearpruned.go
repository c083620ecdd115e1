package search

import (
	"log"

	"github.com/MainEpicenter/timeloop/hooking"
	"github.com/MainEpicenter/timeloop/mapspace"
)

// HookPosBranchDone is invoked when the search leaves an index
// factorization. The item is a BranchRecord.
var HookPosBranchDone = &hooking.HookPos{Name: "BranchDone"}

// A BranchRecord is the best cost found under one index factorization. A
// BestCost of 0 means no mapping of the branch was valid.
type BranchRecord struct {
	SearchID      string
	Factorization uint64
	BestCost      float64
}

type state int

const (
	stateReady state = iota
	stateWaitingForStatus
	stateTerminated
)

// The odometer order, fastest first.
var incrementOrder = [mapspace.NumDimensions]mapspace.Dimension{
	mapspace.DatatypeBypass,
	mapspace.Spatial,
	mapspace.LoopPermutation,
	mapspace.IndexFactorization,
}

// LinearPruned visits the mapping space in order, varying the datatype
// bypass fastest. If every bypass choice of a (factorization, permutation,
// spatial) combination fails evaluation, the rest of the permutations and
// spatial choices of the factorization are skipped.
type LinearPruned struct {
	hooking.HookableBase

	id    string
	space mapspace.MapSpace
	state state

	cursor        mapspace.ID
	evalFailures  uint64
	bestCost      float64
	branchVisited bool

	stats Stats
}

// NewLinearPruned creates a search over a space. The id distinguishes
// searches that run concurrently over different parts of a space.
func NewLinearPruned(id string, space mapspace.MapSpace) *LinearPruned {
	s := &LinearPruned{
		id:    id,
		space: space,
	}

	if space.Size(mapspace.IndexFactorization) == 0 {
		s.state = stateTerminated
		return s
	}

	space.InitPruned(0)

	if s.branchIsEmpty() && !s.nextFactorization() {
		s.state = stateTerminated
	}

	return s
}

// Name returns the id of the search.
func (s *LinearPruned) Name() string {
	return s.id
}

// Stats returns the counts of mappings visited so far.
func (s *LinearPruned) Stats() Stats {
	return s.stats
}

// Terminated tells if the space is exhausted.
func (s *LinearPruned) Terminated() bool {
	return s.state == stateTerminated
}

// Cursor returns the position of the search.
func (s *LinearPruned) Cursor() mapspace.ID {
	return s.cursor
}

// Next returns the ID under the cursor.
func (s *LinearPruned) Next() (mapspace.ID, bool) {
	switch s.state {
	case stateTerminated:
		return mapspace.ID{}, false
	case stateWaitingForStatus:
		log.Panicf("search %s: Next called before the previous mapping "+
			"was reported", s.id)
	}

	s.state = stateWaitingForStatus

	return s.cursor, true
}

// Report records the outcome of the last mapping and moves the cursor.
func (s *LinearPruned) Report(status Status, cost float64) {
	if s.state != stateWaitingForStatus {
		log.Panicf("search %s: Report called without a pending mapping", s.id)
	}

	s.stats.Visited++
	s.branchVisited = true

	switch status {
	case Success:
		s.stats.Valid++
		if s.bestCost == 0 || cost < s.bestCost {
			s.bestCost = cost
		}
	case MappingConstructionFailure:
		s.stats.ConstructionFailures++
	case EvalFailure:
		s.stats.EvalFailures++
		s.evalFailures++
	default:
		log.Panicf("search %s: unknown status %d", s.id, status)
	}

	s.pruneIfAllBypassesFailed()

	if s.advance() {
		s.state = stateReady
	} else {
		s.state = stateTerminated
	}
}

// pruneIfAllBypassesFailed moves the spatial and permutation cursors to
// their last values so that the next increment leaves the factorization.
// The check is tied to DatatypeBypass being the fastest dimension.
func (s *LinearPruned) pruneIfAllBypassesFailed() {
	dbSize := s.space.Size(mapspace.DatatypeBypass)
	if s.cursor[mapspace.DatatypeBypass] != dbSize-1 {
		return
	}

	if s.evalFailures == dbSize {
		s.cursor[mapspace.Spatial] = s.space.Size(mapspace.Spatial) - 1
		s.cursor[mapspace.LoopPermutation] =
			s.space.Size(mapspace.LoopPermutation) - 1
	}

	s.evalFailures = 0
}

func (s *LinearPruned) advance() bool {
	for _, d := range incrementOrder {
		if d == mapspace.IndexFactorization {
			return s.nextFactorization()
		}

		s.cursor[d]++
		if s.cursor[d] < s.space.Size(d) {
			return true
		}

		s.cursor[d] = 0
	}

	return false
}

// nextFactorization moves to the next index factorization that has mappings.
func (s *LinearPruned) nextFactorization() bool {
	s.endBranch()

	for {
		s.cursor[mapspace.IndexFactorization]++
		if s.cursor[mapspace.IndexFactorization] >=
			s.space.Size(mapspace.IndexFactorization) {
			return false
		}

		s.space.InitPruned(s.cursor[mapspace.IndexFactorization])

		if !s.branchIsEmpty() {
			return true
		}
	}
}

func (s *LinearPruned) branchIsEmpty() bool {
	for _, d := range incrementOrder[:mapspace.NumDimensions-1] {
		if s.space.Size(d) == 0 {
			return true
		}
	}

	return false
}

func (s *LinearPruned) endBranch() {
	if s.branchVisited && s.NumHooks() > 0 {
		s.InvokeHook(hooking.HookCtx{
			Domain: s,
			Pos:    HookPosBranchDone,
			Item: BranchRecord{
				SearchID:      s.id,
				Factorization: s.cursor[mapspace.IndexFactorization],
				BestCost:      s.bestCost,
			},
		})
	}

	s.bestCost = 0
	s.evalFailures = 0
	s.branchVisited = false
}
