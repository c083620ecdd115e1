// Package analysis computes the working sets and access counts of a tiled
// loop nest.
package analysis

import (
	"github.com/MainEpicenter/timeloop/mapping"
	"github.com/MainEpicenter/timeloop/problem"
	"github.com/MainEpicenter/timeloop/tiling"
)

// BodyInfo summarizes the innermost loop body.
type BodyInfo struct {
	// Accesses is the number of temporal iterations each arithmetic unit
	// executes.
	Accesses uint64

	// UtilizedInstances is the number of arithmetic units the nest occupies.
	UtilizedInstances uint64
}

// NestAnalysis is what the cost model needs to know about a loop nest.
type NestAnalysis interface {
	// WorkingSetSizes returns the per-instance tile size of every data type at
	// every storage level, innermost level first.
	WorkingSetSizes() [][problem.NumDataTypes]uint64

	// WorkingSets returns the full tile hierarchy with access counts.
	WorkingSets() tiling.CompoundTileNest

	// BodyInfo returns the loop body summary.
	BodyInfo() BodyInfo
}

// Analysis is a NestAnalysis of a perfectly nested loop.
type Analysis struct {
	workload *problem.Workload
	nest     *mapping.Nest

	sizes       [][problem.NumDataTypes]uint64
	workingSets *tiling.CompoundTileNest
	bodyInfo    *BodyInfo
}

// New creates an Analysis. Results are computed lazily and cached.
func New(workload *problem.Workload, nest *mapping.Nest) *Analysis {
	return &Analysis{
		workload: workload,
		nest:     nest,
	}
}

// WorkingSetSizes returns the per-instance tile sizes.
func (a *Analysis) WorkingSetSizes() [][problem.NumDataTypes]uint64 {
	if a.sizes != nil {
		return a.sizes
	}

	numLevels := a.nest.NumStorageLevels()
	a.sizes = make([][problem.NumDataTypes]uint64, numLevels)

	for l := 0; l < numLevels; l++ {
		extents := a.extents(a.nest.StorageBoundaries[l])
		for dt := problem.DataType(0); dt < problem.NumDataTypes; dt++ {
			a.sizes[l][dt] = a.workload.TileSize(dt, extents)
		}
	}

	return a.sizes
}

// BodyInfo returns the loop body summary.
func (a *Analysis) BodyInfo() BodyInfo {
	if a.bodyInfo != nil {
		return *a.bodyInfo
	}

	info := BodyInfo{Accesses: 1, UtilizedInstances: 1}
	for _, loop := range a.nest.Loops {
		if loop.Spatial {
			info.UtilizedInstances *= uint64(loop.Bound)
		} else {
			info.Accesses *= uint64(loop.Bound)
		}
	}

	a.bodyInfo = &info

	return info
}

// WorkingSets returns the tile hierarchy of every data type.
func (a *Analysis) WorkingSets() tiling.CompoundTileNest {
	if a.workingSets != nil {
		return *a.workingSets
	}

	sizes := a.WorkingSetSizes()
	body := a.BodyInfo()
	numLevels := a.nest.NumStorageLevels()

	var nest tiling.CompoundTileNest

	for dt := problem.DataType(0); dt < problem.NumDataTypes; dt++ {
		tiles := make(tiling.TileNest, numLevels)

		for l := 0; l < numLevels; l++ {
			boundary := a.nest.StorageBoundaries[l]
			instances := a.outerSpatialProduct(boundary)

			t := tiling.TileInfo{
				Size:      sizes[l][dt],
				Instances: instances,
				ReadWrite: a.workload.ReadWrite[dt],
			}
			t.Fanout, t.Multicast = a.distribution(dt, l)

			if l < numLevels-1 {
				t.Fills = t.Size * a.refills(dt, boundary) * instances
			}

			tiles[l] = t
		}

		tiles[0].ChildDemand = body.Accesses * body.UtilizedInstances
		nest[dt] = tiles
	}

	a.workingSets = &nest

	return nest
}

// extents returns the product of the loop bounds of every dimension over the
// loops up to and including the boundary.
func (a *Analysis) extents(boundary int) []int {
	extents := make([]int, a.workload.NumDimensions())
	for i := range extents {
		extents[i] = 1
	}

	for i := 0; i <= boundary; i++ {
		loop := a.nest.Loops[i]
		extents[loop.Dimension] *= loop.Bound
	}

	return extents
}

func (a *Analysis) outerSpatialProduct(boundary int) uint64 {
	product := uint64(1)

	for i := boundary + 1; i < len(a.nest.Loops); i++ {
		if a.nest.Loops[i].Spatial {
			product *= uint64(a.nest.Loops[i].Bound)
		}
	}

	return product
}

// refills counts how many times the tile below the boundary is brought in.
// The innermost run of enclosing temporal loops that are irrelevant to the
// data type reuses the tile.
func (a *Analysis) refills(dt problem.DataType, boundary int) uint64 {
	refills := uint64(1)
	reusing := true

	for i := boundary + 1; i < len(a.nest.Loops); i++ {
		loop := a.nest.Loops[i]
		if loop.Spatial {
			continue
		}

		if reusing && !a.workload.IsRelevant(dt, loop.Dimension) {
			continue
		}

		reusing = false
		refills *= uint64(loop.Bound)
	}

	return refills
}

func (a *Analysis) distribution(
	dt problem.DataType,
	level int,
) (fanout, multicast uint64) {
	fanout, multicast = 1, 1

	for _, loop := range a.nest.LevelLoops(level) {
		if !loop.Spatial {
			continue
		}

		fanout *= uint64(loop.Bound)
		if !a.workload.IsRelevant(dt, loop.Dimension) {
			multicast *= uint64(loop.Bound)
		}
	}

	return fanout, multicast
}
