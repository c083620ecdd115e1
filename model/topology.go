package model

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/MainEpicenter/timeloop/analysis"
	"github.com/MainEpicenter/timeloop/mapping"
	"github.com/MainEpicenter/timeloop/problem"
	"github.com/MainEpicenter/timeloop/tiling"
)

// A Topology is a hierarchy of levels that can be evaluated against a
// mapping. Level 0 is the arithmetic level. The storage levels follow,
// innermost first.
type Topology struct {
	specs  Specs
	levels []Level

	isSpecced   bool
	isEvaluated bool
}

// Spec discards the current levels and builds new ones from the
// specifications.
func (t *Topology) Spec(specs Specs) error {
	t.levels = nil
	t.isSpecced = false
	t.isEvaluated = false

	specs = specs.Clone()

	levels := make([]Level, 0, specs.NumLevels())
	for i := 0; i < specs.NumLevels(); i++ {
		switch s := specs.Level(i).(type) {
		case *ArithmeticSpecs:
			levels = append(levels, NewArithmeticUnits(*s))
		case *BufferSpecs:
			levels = append(levels, NewBufferLevel(*s))
		default:
			return fmt.Errorf("%w: level %d (%s)",
				ErrUnknownLevelKind, i, specs.Level(i).LevelName())
		}
	}

	t.specs = specs
	t.levels = levels
	t.isSpecced = true

	return nil
}

// WithLevels replaces the concrete levels built by Spec. The number of
// levels must not change.
func (t *Topology) WithLevels(levels []Level) {
	t.mustBeSpecced()

	if len(levels) != len(t.levels) {
		log.Panicf("expected %d levels, got %d", len(t.levels), len(levels))
	}

	t.levels = levels
	t.isEvaluated = false
}

// Specs returns the specifications the topology is built from.
func (t *Topology) Specs() Specs {
	return t.specs
}

// IsSpecced returns true after a successful Spec.
func (t *Topology) IsSpecced() bool {
	return t.isSpecced
}

// IsEvaluated returns true after a successful Evaluate.
func (t *Topology) IsEvaluated() bool {
	return t.isEvaluated
}

// NumLevels returns the number of levels, including the arithmetic level.
func (t *Topology) NumLevels() int {
	return len(t.levels)
}

// NumStorageLevels returns the number of storage levels.
func (t *Topology) NumStorageLevels() int {
	return t.specs.NumStorageLevels()
}

// Level returns a level by its index.
func (t *Topology) Level(id int) Level {
	return t.levels[id]
}

// StorageLevel returns a storage level, 0 being the innermost one.
func (t *Topology) StorageLevel(storageLevelID int) StorageLevel {
	l := t.levels[t.specs.StorageMap(storageLevelID)]

	s, ok := l.(StorageLevel)
	if !ok {
		log.Panicf("level %s is not a storage level", l.Name())
	}

	return s
}

// ArithmeticLevel returns the arithmetic level.
func (t *Topology) ArithmeticLevel() ArithmeticLevel {
	l := t.levels[t.specs.ArithmeticMap()]

	a, ok := l.(ArithmeticLevel)
	if !ok {
		log.Panicf("level %s is not an arithmetic level", l.Name())
	}

	return a
}

// PreEvaluationCheck quickly rejects mappings whose working sets do not fit
// into the storage levels.
func (t *Topology) PreEvaluationCheck(
	m *mapping.Mapping,
	a analysis.NestAnalysis,
) bool {
	t.mustBeSpecced()

	numStorage := t.NumStorageLevels()
	keep := tiling.TransposeMasks(m.DatatypeBypassNest, numStorage)
	sizes := a.WorkingSetSizes()

	if len(sizes) != numStorage {
		return false
	}

	for i := 0; i < numStorage; i++ {
		if !t.StorageLevel(i).PreEvaluationCheck(sizes[i], keep[i]) {
			return false
		}
	}

	return true
}

// Evaluate computes the cost of running the workload with the mapping. It
// returns false if any level cannot hold its tiles or the arithmetic level
// cannot run the loop body. After a failure no level holds results.
func (t *Topology) Evaluate(
	m *mapping.Mapping,
	a analysis.NestAnalysis,
	workload *problem.Workload,
) bool {
	t.mustBeSpecced()
	t.isEvaluated = false

	if !t.evaluateLevels(m, a, workload) {
		for _, l := range t.levels {
			l.Reset()
		}

		return false
	}

	t.isEvaluated = true

	return true
}

func (t *Topology) evaluateLevels(
	m *mapping.Mapping,
	a analysis.NestAnalysis,
	workload *problem.Workload,
) bool {

	numStorage := t.NumStorageLevels()

	tiles := a.WorkingSets()
	computeCycles := a.BodyInfo().Accesses

	for _, nest := range tiles {
		if len(nest) != numStorage {
			return false
		}
	}

	var multicast tiling.CompoundMaskNest
	for i := 0; i < numStorage; i++ {
		if !t.StorageLevel(i).DistributedMulticastSupported() {
			continue
		}

		for dt := range multicast {
			multicast[dt].Set(i)
		}
	}

	collapsed := tiling.CollapseTiles(
		tiles, numStorage, m.DatatypeBypassNest, multicast)
	levelTiles := tiling.TransposeTiles(collapsed)
	keep := tiling.TransposeMasks(m.DatatypeBypassNest, numStorage)

	innerTileArea := t.ArithmeticLevel().AreaPerInstance()

	for i := 0; i < numStorage; i++ {
		level := t.StorageLevel(i)

		ok := level.Evaluate(levelTiles[i], keep[i], innerTileArea, computeCycles)
		if !ok {
			return false
		}

		innerTileArea = level.AreaPerInstance() +
			innerTileArea*float64(level.MaxFanout())
	}

	return t.ArithmeticLevel().Evaluate(a, workload)
}

// Energy returns the total energy of all the levels, in pJ.
func (t *Topology) Energy() float64 {
	t.mustBeEvaluated()

	energy := 0.0
	for _, l := range t.levels {
		e := l.Energy()
		if e < 0 {
			log.Panicf("level %s has negative energy %f", l.Name(), e)
		}

		energy += e
	}

	return energy
}

// Area returns the total area of all the levels, in um^2.
func (t *Topology) Area() float64 {
	t.mustBeEvaluated()

	area := 0.0
	for _, l := range t.levels {
		a := l.Area()
		if a < 0 {
			log.Panicf("level %s has negative area %f", l.Name(), a)
		}

		area += a
	}

	return area
}

// Cycles returns the cycles of the slowest level.
func (t *Topology) Cycles() uint64 {
	t.mustBeEvaluated()

	cycles := uint64(0)
	for _, l := range t.levels {
		cycles = max(cycles, l.Cycles())
	}

	return cycles
}

// Utilization returns the fraction of the arithmetic throughput in use.
func (t *Topology) Utilization() float64 {
	t.mustBeEvaluated()

	cycles := t.Cycles()
	if cycles == 0 {
		return 0
	}

	return float64(t.ArithmeticLevel().IdealCycles()) / float64(cycles)
}

// MACCs returns the number of operations performed.
func (t *Topology) MACCs() uint64 {
	t.mustBeEvaluated()

	return t.ArithmeticLevel().MACCs()
}

// Report prints every level, followed by the totals if the topology is
// evaluated.
func (t *Topology) Report(w io.Writer) {
	for i, l := range t.levels {
		fmt.Fprintf(w, "Level %d\n-------\n", i)
		l.Report(w)
		fmt.Fprintln(w)
	}

	if !t.isEvaluated {
		return
	}

	fmt.Fprintf(w, "Total topology energy: %.2f pJ\n", t.Energy())
	fmt.Fprintf(w, "Total topology area: %.2f um^2\n", t.Area())
	fmt.Fprintf(w, "Max topology cycles: %d\n", t.Cycles())
	fmt.Fprintf(w, "Utilization: %.2f\n", t.Utilization())

	if maccs := t.MACCs(); maccs > 0 {
		fmt.Fprintf(w, "pJ/MACC: %.3f\n", t.Energy()/float64(maccs))
	}
}

func (t *Topology) String() string {
	var sb strings.Builder
	t.Report(&sb)

	return sb.String()
}

func (t *Topology) mustBeSpecced() {
	if !t.isSpecced {
		log.Panic("topology is not specced")
	}
}

func (t *Topology) mustBeEvaluated() {
	if !t.isEvaluated {
		log.Panic("topology is not evaluated")
	}
}
