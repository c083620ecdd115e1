package model

import (
	"io"

	"github.com/MainEpicenter/timeloop/analysis"
	"github.com/MainEpicenter/timeloop/problem"
	"github.com/MainEpicenter/timeloop/tiling"
)

// A Level is one stage of the hardware hierarchy. Energy is in pJ and area in
// um^2.
type Level interface {
	Name() string
	Energy() float64
	Area() float64
	AreaPerInstance() float64
	Cycles() uint64
	Report(w io.Writer)

	// Reset discards the results of the last evaluation.
	Reset()
}

// A StorageLevel is a level that holds tiles of data.
type StorageLevel interface {
	Level

	// PreEvaluationCheck tells if the given per-instance working sets of the
	// kept data types fit into the level.
	PreEvaluationCheck(
		workingSetSizes [problem.NumDataTypes]uint64,
		keep tiling.CompoundMask,
	) bool

	// Evaluate computes the statistics of the level when holding the tiles.
	// The inner tile area is the area the level sends data to.
	Evaluate(
		tile tiling.CompoundTile,
		keep tiling.CompoundMask,
		innerTileArea float64,
		computeCycles uint64,
	) bool

	// MaxFanout returns the largest fanout of the level.
	MaxFanout() uint64

	// DistributedMulticastSupported tells if the level can send a word to
	// several children at the cost of one read.
	DistributedMulticastSupported() bool
}

// An ArithmeticLevel is the level that performs the computation.
type ArithmeticLevel interface {
	Level

	Evaluate(a analysis.NestAnalysis, workload *problem.Workload) bool
	IdealCycles() uint64
	MACCs() uint64
}
