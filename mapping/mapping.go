// Package mapping represents a concrete mapping of a workload onto the
// storage hierarchy: a tiled loop nest plus the datatype bypass decisions.
package mapping

import (
	"fmt"
	"io"
	"strings"

	"github.com/MainEpicenter/timeloop/problem"
	"github.com/MainEpicenter/timeloop/tiling"
)

// Axis is the mesh axis a spatial loop is distributed along.
type Axis int

// The mesh axes.
const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "Y"
	}

	return "X"
}

// A Loop iterates over one dimension of the workload.
type Loop struct {
	Dimension int
	Bound     int
	Spatial   bool
	Axis      Axis
}

// A Nest is a list of loops from the innermost outwards. The loops of storage
// level l are those with index in (StorageBoundaries[l-1],
// StorageBoundaries[l]]. A level without loops repeats the previous boundary.
type Nest struct {
	Loops             []Loop
	StorageBoundaries []int
}

// NumStorageLevels returns the number of storage levels of the nest.
func (n *Nest) NumStorageLevels() int {
	return len(n.StorageBoundaries)
}

// LevelLoops returns the loops of a storage level, innermost first.
func (n *Nest) LevelLoops(level int) []Loop {
	start := 0
	if level > 0 {
		start = n.StorageBoundaries[level-1] + 1
	}

	end := n.StorageBoundaries[level] + 1

	return n.Loops[start:end]
}

// AddLevel appends the loops of the next storage level.
func (n *Nest) AddLevel(loops ...Loop) {
	n.Loops = append(n.Loops, loops...)
	n.StorageBoundaries = append(n.StorageBoundaries, len(n.Loops)-1)
}

// A Mapping is a loop nest with bypass decisions. A set bit in the mask of a
// data type means the data type is kept at that storage level.
type Mapping struct {
	ID                 string
	Nest               Nest
	DatatypeBypassNest tiling.CompoundMaskNest
}

// Keeps returns true if the level stores the data type.
func (m *Mapping) Keeps(dt problem.DataType, level int) bool {
	return m.DatatypeBypassNest[dt].Test(level)
}

// PrettyPrint writes the loop nest from the outermost level inwards.
func (m *Mapping) PrettyPrint(
	w io.Writer,
	levelNames []string,
	workload *problem.Workload,
) {
	indent := 0

	for l := m.Nest.NumStorageLevels() - 1; l >= 0; l-- {
		fmt.Fprintf(w, "%s%s [ %s]\n",
			strings.Repeat("|  ", indent), levelName(levelNames, l),
			m.keptDataTypes(l))

		loops := m.Nest.LevelLoops(l)
		for i := len(loops) - 1; i >= 0; i-- {
			loop := loops[i]

			kind := "for"
			if loop.Spatial {
				kind = "par-for-" + loop.Axis.String()
			}

			fmt.Fprintf(w, "%s%s %s in [0:%d)\n",
				strings.Repeat("|  ", indent), kind,
				dimensionName(workload, loop.Dimension), loop.Bound)
			indent++
		}
	}
}

func (m *Mapping) keptDataTypes(level int) string {
	var sb strings.Builder

	for _, dt := range problem.AllDataTypes() {
		if m.Keeps(dt, level) {
			sb.WriteString(dt.String())
			sb.WriteByte(' ')
		}
	}

	return sb.String()
}

func levelName(names []string, l int) string {
	if l < len(names) {
		return names[l]
	}

	return fmt.Sprintf("Level%d", l)
}

func dimensionName(workload *problem.Workload, d int) string {
	if workload != nil && d < len(workload.Dimensions) {
		return workload.Dimensions[d]
	}

	return fmt.Sprintf("D%d", d)
}
