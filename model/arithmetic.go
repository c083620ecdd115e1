package model

import (
	"fmt"
	"io"

	"github.com/MainEpicenter/timeloop/analysis"
	"github.com/MainEpicenter/timeloop/problem"
)

// ArithmeticUnits is an array of multiply-accumulate units.
type ArithmeticUnits struct {
	specs ArithmeticSpecs

	isEvaluated       bool
	maccs             uint64
	utilizedInstances uint64
	cycles            uint64
	idealCycles       uint64
	energy            float64
}

// NewArithmeticUnits creates an arithmetic level.
func NewArithmeticUnits(specs ArithmeticSpecs) *ArithmeticUnits {
	return &ArithmeticUnits{specs: specs}
}

// Name returns the name of the level.
func (u *ArithmeticUnits) Name() string {
	return u.specs.Name
}

// Evaluate runs the loop body on the units. It fails if the mapping occupies
// more units than available or does not cover the whole workload.
func (u *ArithmeticUnits) Evaluate(
	a analysis.NestAnalysis,
	workload *problem.Workload,
) bool {
	u.Reset()

	body := a.BodyInfo()
	instances := u.specs.Instances.Get()

	if body.UtilizedInstances > instances {
		return false
	}

	maccs := body.Accesses * body.UtilizedInstances
	if maccs != workload.MACCs() {
		return false
	}

	u.maccs = maccs
	u.utilizedInstances = body.UtilizedInstances
	u.cycles = body.Accesses
	u.idealCycles = (maccs + instances - 1) / instances
	u.energy = float64(maccs) * u.specs.EnergyPerOp
	u.isEvaluated = true

	return true
}

// Reset clears the results of the last evaluation.
func (u *ArithmeticUnits) Reset() {
	*u = ArithmeticUnits{specs: u.specs}
}

// Energy returns the energy of all the operations.
func (u *ArithmeticUnits) Energy() float64 {
	return u.energy
}

// Area returns the area of all the units.
func (u *ArithmeticUnits) Area() float64 {
	return float64(u.specs.Instances.Get()) * u.specs.AreaPerUnit
}

// AreaPerInstance returns the area of one unit.
func (u *ArithmeticUnits) AreaPerInstance() float64 {
	return u.specs.AreaPerUnit
}

// Cycles returns the number of cycles each utilized unit is busy.
func (u *ArithmeticUnits) Cycles() uint64 {
	return u.cycles
}

// IdealCycles returns the cycles if every unit were utilized.
func (u *ArithmeticUnits) IdealCycles() uint64 {
	return u.idealCycles
}

// MACCs returns the number of operations.
func (u *ArithmeticUnits) MACCs() uint64 {
	return u.maccs
}

// Report prints the level.
func (u *ArithmeticUnits) Report(w io.Writer) {
	fmt.Fprintf(w, "=== %s ===\n", u.specs.Name)
	fmt.Fprintf(w, "    Instances          : %d (%dx%d)\n",
		u.specs.Instances.Get(), u.specs.MeshX.GetOr(0), u.specs.MeshY.GetOr(0))
	fmt.Fprintf(w, "    Word bits          : %d\n", u.specs.WordBits)

	if !u.isEvaluated {
		return
	}

	fmt.Fprintf(w, "    MACCs              : %d\n", u.maccs)
	fmt.Fprintf(w, "    Utilized instances : %d\n", u.utilizedInstances)
	fmt.Fprintf(w, "    Cycles             : %d\n", u.cycles)
	fmt.Fprintf(w, "    Energy (total)     : %.2f pJ\n", u.energy)
	fmt.Fprintf(w, "    Area (total)       : %.2f um^2\n", u.Area())
}
