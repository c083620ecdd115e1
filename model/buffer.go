package model

import (
	"fmt"
	"io"
	"math"

	"github.com/MainEpicenter/timeloop/problem"
	"github.com/MainEpicenter/timeloop/tiling"
)

type bufferStats struct {
	utilizedCapacity  uint64
	utilizedInstances uint64
	fanout            uint64
	reads             uint64
	fills             uint64
	updates           uint64
	accessEnergy      float64
	wireEnergy        float64
}

// BufferLevel is a storage level built from SRAM or DRAM arrays. A level
// without a size has unbounded capacity and no area.
type BufferLevel struct {
	specs BufferSpecs

	isEvaluated bool
	stats       [problem.NumDataTypes]bufferStats
	cycles      uint64
}

// NewBufferLevel creates a storage level.
func NewBufferLevel(specs BufferSpecs) *BufferLevel {
	return &BufferLevel{specs: specs}
}

// Name returns the name of the level.
func (b *BufferLevel) Name() string {
	return b.specs.Name
}

// PreEvaluationCheck checks the capacity against the working sets.
func (b *BufferLevel) PreEvaluationCheck(
	workingSetSizes [problem.NumDataTypes]uint64,
	keep tiling.CompoundMask,
) bool {
	return b.fits(workingSetSizes, keep)
}

func (b *BufferLevel) fits(
	sizes [problem.NumDataTypes]uint64,
	keep tiling.CompoundMask,
) bool {
	if b.specs.SharingType == Shared {
		capacity := b.specs.Size(SharedSlot)
		if !capacity.IsSpecified() {
			return true
		}

		total := uint64(0)
		for dt, size := range sizes {
			if keep[dt] {
				total += size
			}
		}

		return total <= capacity.Get()
	}

	for dt, size := range sizes {
		capacity := b.specs.Size(problem.DataType(dt))
		if keep[dt] && capacity.IsSpecified() && size > capacity.Get() {
			return false
		}
	}

	return true
}

// Evaluate computes the accesses, energy and cycles of the level.
func (b *BufferLevel) Evaluate(
	tile tiling.CompoundTile,
	keep tiling.CompoundMask,
	innerTileArea float64,
	computeCycles uint64,
) bool {
	b.Reset()

	var sizes [problem.NumDataTypes]uint64
	for dt := range tile {
		sizes[dt] = tile[dt].Size
	}

	if !b.fits(sizes, keep) {
		return false
	}

	for dt := range tile {
		if !keep[dt] {
			continue
		}

		slot := b.specs.SlotOf(problem.DataType(dt))
		if tile[dt].Fanout > b.specs.Fanout(slot).GetOr(1) ||
			tile[dt].Instances > b.specs.Instances(slot).Get() {
			return false
		}

		b.stats[dt] = b.dataTypeStats(tile[dt], innerTileArea)
	}

	b.cycles = b.computeCycles(computeCycles)
	b.isEvaluated = true

	return true
}

func (b *BufferLevel) dataTypeStats(
	t tiling.TileInfo,
	innerTileArea float64,
) bufferStats {
	s := bufferStats{
		utilizedCapacity:  t.Size,
		utilizedInstances: t.Instances,
		fanout:            t.Fanout,
		reads:             t.Reads,
		fills:             t.Fills,
	}

	if t.ReadWrite {
		s.updates = t.Reads
	}

	s.accessEnergy = float64(s.reads)*b.specs.ReadEnergy +
		float64(s.fills+s.updates)*b.specs.WriteEnergy

	// Wire length to the children grows with the side of the area reached.
	hopMM := math.Sqrt(innerTileArea) / 1000
	s.wireEnergy = float64(s.reads+s.updates) *
		float64(b.specs.WordBits) * b.specs.WireEnergy * hopMM

	return s
}

func (b *BufferLevel) computeCycles(computeCycles uint64) uint64 {
	cycles := computeCycles

	readBW := b.specs.ReadBandwidth
	writeBW := b.specs.WriteBandwidth

	for _, s := range b.stats {
		if s.utilizedInstances == 0 {
			continue
		}

		instances := float64(s.utilizedInstances)

		if readBW.IsSpecified() && readBW.Get() > 0 {
			c := uint64(math.Ceil(float64(s.reads) / instances / readBW.Get()))
			cycles = max(cycles, c)
		}

		if writeBW.IsSpecified() && writeBW.Get() > 0 {
			c := uint64(math.Ceil(
				float64(s.fills+s.updates) / instances / writeBW.Get()))
			cycles = max(cycles, c)
		}
	}

	return cycles
}

// Reset clears the results of the last evaluation.
func (b *BufferLevel) Reset() {
	b.isEvaluated = false
	b.stats = [problem.NumDataTypes]bufferStats{}
	b.cycles = 0
}

// Energy returns the access and wire energy of the level.
func (b *BufferLevel) Energy() float64 {
	energy := 0.0
	for _, s := range b.stats {
		energy += s.accessEnergy + s.wireEnergy
	}

	return energy
}

// AreaPerInstance returns the storage area of one instance.
func (b *BufferLevel) AreaPerInstance() float64 {
	area := 0.0

	first, last := b.specs.Slots()
	for slot := first; slot <= last; slot++ {
		size := b.specs.Size(slot)
		if !size.IsSpecified() {
			continue
		}

		area += float64(size.Get()) * float64(b.specs.WordBits) *
			b.specs.AreaPerBit
	}

	return area
}

// Area returns the storage area of all the instances.
func (b *BufferLevel) Area() float64 {
	slot, _ := b.specs.Slots()
	return float64(b.specs.Instances(slot).Get()) * b.AreaPerInstance()
}

// Cycles returns the cycles the level needs to serve its accesses.
func (b *BufferLevel) Cycles() uint64 {
	return b.cycles
}

// MaxFanout returns the largest fanout over the slots in use.
func (b *BufferLevel) MaxFanout() uint64 {
	fanout := uint64(1)

	first, last := b.specs.Slots()
	for slot := first; slot <= last; slot++ {
		fanout = max(fanout, b.specs.Fanout(slot).GetOr(1))
	}

	return fanout
}

// DistributedMulticastSupported tells if the network of the level multicasts.
func (b *BufferLevel) DistributedMulticastSupported() bool {
	return b.specs.MulticastSupported
}

// Report prints the level.
func (b *BufferLevel) Report(w io.Writer) {
	slot, _ := b.specs.Slots()

	fmt.Fprintf(w, "=== %s ===\n", b.specs.Name)
	fmt.Fprintf(w, "    Sharing            : %s\n", b.specs.SharingType)
	fmt.Fprintf(w, "    Instances          : %d (%dx%d)\n",
		b.specs.Instances(slot).Get(),
		b.specs.MeshX(slot).GetOr(0), b.specs.MeshY(slot).GetOr(0))
	fmt.Fprintf(w, "    Fanout             : %d (%dx%d)\n",
		b.specs.Fanout(slot).GetOr(0),
		b.specs.FanoutX(slot).GetOr(0), b.specs.FanoutY(slot).GetOr(0))

	if size := b.specs.Size(slot); size.IsSpecified() {
		fmt.Fprintf(w, "    Size               : %d words\n", size.Get())
	} else {
		fmt.Fprintf(w, "    Size               : unbounded\n")
	}

	if !b.isEvaluated {
		return
	}

	for _, dt := range problem.AllDataTypes() {
		s := b.stats[dt]
		if s.utilizedInstances == 0 {
			continue
		}

		fmt.Fprintf(w, "  %s:\n", dt)
		fmt.Fprintf(w, "    Utilized capacity  : %d\n", s.utilizedCapacity)
		fmt.Fprintf(w, "    Utilized instances : %d\n", s.utilizedInstances)
		fmt.Fprintf(w, "    Fanout (used)      : %d\n", s.fanout)
		fmt.Fprintf(w, "    Reads              : %d\n", s.reads)
		fmt.Fprintf(w, "    Fills              : %d\n", s.fills)
		fmt.Fprintf(w, "    Updates            : %d\n", s.updates)
		fmt.Fprintf(w, "    Access energy      : %.2f pJ\n", s.accessEnergy)
		fmt.Fprintf(w, "    Wire energy        : %.2f pJ\n", s.wireEnergy)
	}

	fmt.Fprintf(w, "    Cycles             : %d\n", b.cycles)
	fmt.Fprintf(w, "    Energy (total)     : %.2f pJ\n", b.Energy())
	fmt.Fprintf(w, "    Area (total)       : %.2f um^2\n", b.Area())
}
