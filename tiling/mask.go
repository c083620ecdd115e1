package tiling

import (
	"log"
	"strings"

	"github.com/MainEpicenter/timeloop/problem"
)

// MaxTilingLevels is the number of levels a Mask can describe.
const MaxTilingLevels = 64

// A Mask is a set of tiling levels.
type Mask uint64

// Set adds a level to the mask.
func (m *Mask) Set(level int) {
	mustBeValidLevel(level)
	*m |= 1 << uint(level)
}

// Reset removes a level from the mask.
func (m *Mask) Reset(level int) {
	mustBeValidLevel(level)
	*m &^= 1 << uint(level)
}

// Test returns true if the level is in the mask.
func (m Mask) Test(level int) bool {
	mustBeValidLevel(level)
	return m&(1<<uint(level)) != 0
}

// Format prints the mask as a string of 0 and 1 from level 0 upwards.
func (m Mask) Format(numLevels int) string {
	var sb strings.Builder

	for l := 0; l < numLevels; l++ {
		if m.Test(l) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

func mustBeValidLevel(level int) {
	if level < 0 || level >= MaxTilingLevels {
		log.Panicf("tiling level %d out of range", level)
	}
}

// A CompoundMaskNest holds one level mask per data type.
type CompoundMaskNest [problem.NumDataTypes]Mask

// A CompoundMask tells, for one level, which data types are selected.
type CompoundMask [problem.NumDataTypes]bool

// Any returns true if any data type is selected.
func (m CompoundMask) Any() bool {
	for _, b := range m {
		if b {
			return true
		}
	}

	return false
}

// TransposeMasks converts a data-type-major mask nest into level-major masks.
func TransposeMasks(nest CompoundMaskNest, numLevels int) []CompoundMask {
	masks := make([]CompoundMask, numLevels)

	for l := 0; l < numLevels; l++ {
		for dt := range nest {
			masks[l][dt] = nest[dt].Test(l)
		}
	}

	return masks
}
