package mapspace

import (
	"fmt"
	"log"

	"github.com/MainEpicenter/timeloop/mapping"
	"github.com/MainEpicenter/timeloop/model"
	"github.com/MainEpicenter/timeloop/problem"
)

// Builder can build TiledSpaces.
type Builder struct {
	specs    *model.Specs
	workload *problem.Workload
}

// MakeBuilder returns a Builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithSpecs sets the validated specifications of the storage hierarchy.
func (b Builder) WithSpecs(specs model.Specs) Builder {
	b.specs = &specs
	return b
}

// WithWorkload sets the workload to map.
func (b Builder) WithWorkload(w *problem.Workload) Builder {
	b.workload = w
	return b
}

// Build creates the mapping space and prunes it for the first index
// factorization. It returns ErrSpaceTooLarge if the size of a dimension may
// not fit in 64 bits.
func (b Builder) Build() (*TiledSpace, error) {
	if b.specs == nil || b.workload == nil {
		log.Panic("a mapping space needs specs and a workload")
	}

	t, err := newTables(b.specs.Clone(), b.workload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.workload.Name, err)
	}

	s := &TiledSpace{t: t, count: t.ifSize}
	s.InitPruned(0)

	return s, nil
}

type slot struct {
	level   int
	spatial bool
}

// tables hold what every partition of a space shares. They are never written
// after construction.
type tables struct {
	numLevels int

	slots        []slot
	temporalSlot []int
	spatialSlot  []int

	fanout  []uint64
	fanoutX []uint64
	fanoutY []uint64

	factorizations [][][]int
	ifSize         uint64
	dbSize         uint64
}

func newTables(specs model.Specs, workload *problem.Workload) (*tables, error) {
	numLevels := specs.NumStorageLevels()

	t := &tables{
		numLevels:    numLevels,
		temporalSlot: make([]int, numLevels),
		spatialSlot:  make([]int, numLevels),
		fanout:       make([]uint64, numLevels),
		fanoutX:      make([]uint64, numLevels),
		fanoutY:      make([]uint64, numLevels),
	}

	for l := 0; l < numLevels; l++ {
		b := specs.StorageLevel(l)
		first, _ := b.Slots()

		t.fanout[l] = b.Fanout(first).GetOr(1)
		t.fanoutX[l] = b.FanoutX(first).GetOr(t.fanout[l])
		t.fanoutY[l] = b.FanoutY(first).GetOr(1)

		t.temporalSlot[l] = len(t.slots)
		t.slots = append(t.slots, slot{level: l})

		t.spatialSlot[l] = -1
		if t.fanout[l] > 1 {
			t.spatialSlot[l] = len(t.slots)
			t.slots = append(t.slots, slot{level: l, spatial: true})
		}
	}

	t.ifSize = 1
	t.factorizations = make([][][]int, workload.NumDimensions())
	for d, bound := range workload.Bounds {
		t.factorizations[d] = orderedFactorizations(bound, len(t.slots))

		var ok bool
		t.ifSize, ok = mulUint64(t.ifSize, uint64(len(t.factorizations[d])))
		if !ok {
			return nil, fmt.Errorf("%w: index factorizations", ErrSpaceTooLarge)
		}
	}

	dbBits := int(problem.NumDataTypes) * (numLevels - 1)
	if dbBits >= 64 {
		return nil, fmt.Errorf("%w: %d datatype bypass bits",
			ErrSpaceTooLarge, dbBits)
	}

	t.dbSize = 1 << uint(dbBits)

	err := t.checkBranchSizes(workload.Bounds)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// checkBranchSizes bounds the loop permutation and spatial sizes over every
// branch. A dimension with k prime factors has a factor above 1 in at most k
// slots, so at most k levels order it. The product of the permutation counts
// is largest when the dimensions crowd into as few levels as possible.
func (t *tables) checkBranchSizes(bounds []int) error {
	numSpatialSlots := 0
	for _, slot := range t.spatialSlot {
		if slot >= 0 {
			numSpatialSlots++
		}
	}

	temporalLevels := make([]int, len(bounds))
	spatialLoops := 0
	for d, bound := range bounds {
		k := primeFactorCount(bound)
		temporalLevels[d] = min(k, t.numLevels)
		spatialLoops += min(k, numSpatialSlots)
	}

	if spatialLoops >= 64 {
		return fmt.Errorf("%w: up to %d spatial loops",
			ErrSpaceTooLarge, spatialLoops)
	}

	lpSize := uint64(1)
	for l := 1; l <= t.numLevels; l++ {
		dims := 0
		for _, n := range temporalLevels {
			if n >= l {
				dims++
			}
		}

		f, ok := checkedFactorial(dims)
		if ok {
			lpSize, ok = mulUint64(lpSize, f)
		}

		if !ok {
			return fmt.Errorf("%w: loop permutations", ErrSpaceTooLarge)
		}
	}

	return nil
}

type spatialFactor struct {
	level     int
	dimension int
	factor    int
}

// A branch is the part of the space under one index factorization.
type branch struct {
	ifIndex  uint64
	factors  [][]int
	temporal [][]int
	spatial  []spatialFactor
	lpRadix  []uint64
	lpSize   uint64
	sSize    uint64
	feasible bool
}

func (t *tables) branch(ifIndex uint64) *branch {
	b := &branch{
		ifIndex:  ifIndex,
		factors:  make([][]int, len(t.factorizations)),
		temporal: make([][]int, t.numLevels),
		lpRadix:  make([]uint64, t.numLevels),
		lpSize:   1,
		sSize:    1,
		feasible: true,
	}

	idx := ifIndex
	for d, choices := range t.factorizations {
		n := uint64(len(choices))
		b.factors[d] = choices[idx%n]
		idx /= n
	}

	for l := 0; l < t.numLevels; l++ {
		for d := range b.factors {
			if b.factors[d][t.temporalSlot[l]] > 1 {
				b.temporal[l] = append(b.temporal[l], d)
			}
		}

		b.lpRadix[l] = factorial(len(b.temporal[l]))
		b.lpSize *= b.lpRadix[l]

		if t.spatialSlot[l] < 0 {
			continue
		}

		product := uint64(1)
		for d := range b.factors {
			f := b.factors[d][t.spatialSlot[l]]
			if f > 1 {
				b.spatial = append(b.spatial, spatialFactor{l, d, f})
				product *= uint64(f)
			}
		}

		if product > t.fanout[l] {
			b.feasible = false
		}
	}

	b.sSize = 1 << uint(len(b.spatial))

	if !b.feasible {
		b.lpSize = 1
		b.sSize = 1
	}

	return b
}

// A TiledSpace enumerates tilings of every workload dimension over the
// storage levels, the loop orders within each level, the mesh axes of the
// spatial loops, and the data types each level bypasses.
//
// An index factorization assigns each dimension one temporal factor per
// storage level and one spatial factor per storage level with a fanout. A
// set bit l*NumDataTypes+dt of the datatype bypass value makes storage level
// l bypass dt. The outermost level keeps everything.
type TiledSpace struct {
	t       *tables
	offset  uint64
	count   uint64
	current *branch
}

// Size returns the number of values of a dimension.
func (s *TiledSpace) Size(d Dimension) uint64 {
	switch d {
	case IndexFactorization:
		return s.count
	case LoopPermutation:
		return s.current.lpSize
	case Spatial:
		return s.current.sSize
	case DatatypeBypass:
		return s.t.dbSize
	default:
		log.Panicf("unknown mapspace dimension %d", d)
	}

	return 0
}

// AllSizes returns the sizes of every dimension.
func (s *TiledSpace) AllSizes() [NumDimensions]uint64 {
	var sizes [NumDimensions]uint64
	for d := Dimension(0); d < NumDimensions; d++ {
		sizes[d] = s.Size(d)
	}

	return sizes
}

// InitPruned restricts the inner dimensions to an index factorization of
// this space.
func (s *TiledSpace) InitPruned(ifIndex uint64) {
	if ifIndex >= s.count {
		log.Panicf("index factorization %d out of range [0, %d)",
			ifIndex, s.count)
	}

	s.current = s.t.branch(s.offset + ifIndex)
}

// Offset returns the global index of the first index factorization of this
// space.
func (s *TiledSpace) Offset() uint64 {
	return s.offset
}

// Split partitions the index factorizations into at most n contiguous
// ranges.
func (s *TiledSpace) Split(n int) []MapSpace {
	if n < 1 {
		n = 1
	}

	chunk := (s.count + uint64(n) - 1) / uint64(n)

	spaces := make([]MapSpace, 0, n)
	for start := uint64(0); start < s.count; start += chunk {
		part := &TiledSpace{
			t:      s.t,
			offset: s.offset + start,
			count:  min(chunk, s.count-start),
		}
		part.InitPruned(0)

		spaces = append(spaces, part)
	}

	return spaces
}

// ConstructMapping decodes an ID whose index factorization is relative to
// this space.
func (s *TiledSpace) ConstructMapping(id ID) (*mapping.Mapping, error) {
	if id[IndexFactorization] >= s.count {
		return nil, fmt.Errorf("%w: %s out of range",
			ErrMappingConstruction, id)
	}

	global := id
	global[IndexFactorization] += s.offset

	b := s.current
	if b == nil || b.ifIndex != global[IndexFactorization] {
		b = s.t.branch(global[IndexFactorization])
	}

	if !b.feasible {
		return nil, fmt.Errorf("%w: %s: spatial factors exceed the fanout",
			ErrMappingConstruction, global)
	}

	if id[LoopPermutation] >= b.lpSize ||
		id[Spatial] >= b.sSize ||
		id[DatatypeBypass] >= s.t.dbSize {
		return nil, fmt.Errorf("%w: %s out of range",
			ErrMappingConstruction, global)
	}

	axes, err := s.assignAxes(b, id[Spatial])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s",
			ErrMappingConstruction, global, err.Error())
	}

	m := &mapping.Mapping{ID: global.String()}
	s.buildNest(m, b, axes, id[LoopPermutation])
	s.buildBypass(m, id[DatatypeBypass])

	return m, nil
}

func (s *TiledSpace) assignAxes(b *branch, value uint64) ([]mapping.Axis, error) {
	axes := make([]mapping.Axis, len(b.spatial))
	x := make([]uint64, s.t.numLevels)
	y := make([]uint64, s.t.numLevels)

	for l := range x {
		x[l], y[l] = 1, 1
	}

	for i, sf := range b.spatial {
		if value&(1<<uint(i)) != 0 {
			axes[i] = mapping.AxisY
			y[sf.level] *= uint64(sf.factor)
		} else {
			axes[i] = mapping.AxisX
			x[sf.level] *= uint64(sf.factor)
		}
	}

	for l := range x {
		if x[l] > s.t.fanoutX[l] {
			return nil, fmt.Errorf("level %d uses %d of fanoutX %d",
				l, x[l], s.t.fanoutX[l])
		}

		if y[l] > s.t.fanoutY[l] {
			return nil, fmt.Errorf("level %d uses %d of fanoutY %d",
				l, y[l], s.t.fanoutY[l])
		}
	}

	return axes, nil
}

func (s *TiledSpace) buildNest(
	m *mapping.Mapping,
	b *branch,
	axes []mapping.Axis,
	lp uint64,
) {
	next := 0

	for l := 0; l < s.t.numLevels; l++ {
		var loops []mapping.Loop

		for ; next < len(b.spatial) && b.spatial[next].level == l; next++ {
			sf := b.spatial[next]
			loops = append(loops, mapping.Loop{
				Dimension: sf.dimension,
				Bound:     sf.factor,
				Spatial:   true,
				Axis:      axes[next],
			})
		}

		digit := lp % b.lpRadix[l]
		lp /= b.lpRadix[l]

		for _, d := range nthPermutation(b.temporal[l], digit) {
			loops = append(loops, mapping.Loop{
				Dimension: d,
				Bound:     b.factors[d][s.t.temporalSlot[l]],
			})
		}

		m.Nest.AddLevel(loops...)
	}
}

func (s *TiledSpace) buildBypass(m *mapping.Mapping, db uint64) {
	numDataTypes := int(problem.NumDataTypes)

	for dt := 0; dt < numDataTypes; dt++ {
		for l := 0; l < s.t.numLevels; l++ {
			bit := uint(l*numDataTypes + dt)
			if l < s.t.numLevels-1 && db&(1<<bit) != 0 {
				continue
			}

			m.DatatypeBypassNest[dt].Set(l)
		}
	}
}
