// Package tiling reshapes the working-set tiles produced by a loop-nest
// analysis into one tile per storage level.
package tiling

import (
	"log"

	"github.com/MainEpicenter/timeloop/problem"
)

// TileInfo describes the tile of one data type at one level. Sizes are per
// instance, access counts are totals over all the active instances.
type TileInfo struct {
	// Size is the number of words held by one instance.
	Size uint64

	// Fills is the number of words written into the level from outside.
	Fills uint64

	// Reads is the number of words read out of the level to serve the inner
	// levels or the arithmetic units.
	Reads uint64

	// ChildDemand is the number of words the inner side requests. Only the
	// innermost raw tile carries it.
	ChildDemand uint64

	// Fanout is the number of children a single instance sends data to.
	Fanout uint64

	// Multicast is the number of children that receive the same word.
	Multicast uint64

	// Instances is the number of active instances.
	Instances uint64

	// ReadWrite marks tiles that are updated by the inner side.
	ReadWrite bool

	// Kept is set on collapsed tiles of levels that store the data type.
	Kept bool
}

// A TileNest is a list of tiles from the innermost level outwards.
type TileNest []TileInfo

// A CompoundTileNest holds one TileNest per data type.
type CompoundTileNest [problem.NumDataTypes]TileNest

// A CompoundTile holds the tiles of every data type at one level.
type CompoundTile [problem.NumDataTypes]TileInfo

// CollapseTiles maps the raw working sets of the analysis onto numLevels
// storage levels. A level that bypasses a data type holds nothing of it; the
// demand of the inner side passes through to the next level that keeps the
// data type. Where distributed multicast is supported, the demand is divided
// by the multicast factor of the spatial loops it crosses.
func CollapseTiles(
	tiles CompoundTileNest,
	numLevels int,
	keep CompoundMaskNest,
	distributionSupported CompoundMaskNest,
) CompoundTileNest {
	var collapsed CompoundTileNest

	for dt := range tiles {
		raw := tiles[dt]
		if len(raw) != numLevels {
			log.Panicf("%s has %d tiles, expected %d",
				problem.DataType(dt), len(raw), numLevels)
		}

		collapsed[dt] = collapseDataType(
			raw, keep[dt], distributionSupported[dt])
	}

	return collapsed
}

func collapseDataType(raw TileNest, keep, multicast Mask) TileNest {
	out := make(TileNest, len(raw))

	demand := raw[0].ChildDemand
	discount := uint64(1)

	for l, t := range raw {
		if multicast.Test(l) && t.Multicast > 1 {
			discount *= t.Multicast
		}

		out[l] = TileInfo{
			Fanout:    t.Fanout,
			Multicast: t.Multicast,
			Instances: t.Instances,
			ReadWrite: t.ReadWrite,
		}

		if !keep.Test(l) {
			continue
		}

		out[l].Kept = true
		out[l].Size = t.Size
		out[l].Fills = t.Fills
		out[l].Reads = ceilDiv(demand, discount)

		demand = t.Fills
		discount = 1
	}

	return out
}

// TransposeTiles converts a data-type-major tile nest into level-major
// compound tiles.
func TransposeTiles(nest CompoundTileNest) []CompoundTile {
	numLevels := len(nest[0])
	tiles := make([]CompoundTile, numLevels)

	for dt := range nest {
		if len(nest[dt]) != numLevels {
			log.Panicf("tile nests of different depth")
		}

		for l := 0; l < numLevels; l++ {
			tiles[l][dt] = nest[dt][l]
		}
	}

	return tiles
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}
