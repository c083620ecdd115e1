package model

import (
	"errors"
	"fmt"

	"github.com/MainEpicenter/timeloop/problem"
)

// ErrUnknownLevelKind is returned when a level is neither an arithmetic level
// nor a buffer.
var ErrUnknownLevelKind = errors.New("unknown level kind")

// A StructuralError reports an interconnect between two adjacent levels that
// cannot be built.
type StructuralError struct {
	Inner      string
	Outer      string
	Attribute  string
	InnerValue uint64
	OuterValue uint64
	Reason     string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf(
		"inconsistent topology between %s (inner) and %s (outer): "+
			"%s %s (inner %d, outer %d)",
		e.Inner, e.Outer, e.Attribute, e.Reason, e.InnerValue, e.OuterValue)
}

// Validate checks the interconnect between adjacent levels and infers the
// fanouts that are not specified. Fanouts that are specified must agree with
// the ones inferred from the instance counts and mesh sizes. Validate is
// idempotent, and specs is left untouched when an error is returned.
func Validate(specs *Specs) error {
	inferred := specs.Clone()

	err := inferFanouts(&inferred)
	if err != nil {
		return err
	}

	*specs = inferred

	return nil
}

func inferFanouts(specs *Specs) error {
	if specs.NumLevels() == 0 || specs.ArithmeticMap() != 0 {
		return ErrArithmeticPosition
	}

	arithmetic, ok := specs.Level(0).(*ArithmeticSpecs)
	if !ok {
		return ErrArithmeticPosition
	}

	if specs.NumStorageLevels() == 0 {
		return &StructuralError{
			Inner:  arithmetic.Name,
			Reason: "has no storage level above it",
		}
	}

	buffers := make([]*BufferSpecs, specs.NumStorageLevels())
	for i := range buffers {
		level := specs.Level(specs.StorageMap(i))

		b, ok := level.(*BufferSpecs)
		if !ok {
			return fmt.Errorf("%w: %s is a %s",
				ErrUnknownLevelKind, level.LevelName(), level.Kind())
		}

		buffers[i] = b
	}

	err := validateComputeInterconnect(arithmetic, buffers[0])
	if err != nil {
		return err
	}

	for i := 0; i < len(buffers)-1; i++ {
		err = validateStorageInterconnect(buffers[i], buffers[i+1])
		if err != nil {
			return err
		}
	}

	return nil
}

func validateComputeInterconnect(
	arithmetic *ArithmeticSpecs,
	inner *BufferSpecs,
) error {
	slot, _ := inner.Slots()
	innerInstances := inner.Instances(slot).Get()
	computeInstances := arithmetic.Instances.Get()

	structErr := func(attr, reason string, innerV, outerV uint64) error {
		return &StructuralError{
			Inner:      arithmetic.Name,
			Outer:      inner.Name,
			Attribute:  attr,
			Reason:     reason,
			InnerValue: innerV,
			OuterValue: outerV,
		}
	}

	if innerInstances == computeInstances {
		for _, f := range []struct {
			name string
			attr func(problem.DataType) *Attribute[uint64]
		}{
			{"fanout", inner.Fanout},
			{"fanoutX", inner.FanoutX},
			{"fanoutY", inner.FanoutY},
		} {
			conflict, ok := setOrMatch(inner, f.attr, 1)
			if !ok {
				return structErr(f.name, "must be 1 between equal instance counts",
					computeInstances, conflict)
			}
		}

		return nil
	}

	if computeInstances%innerInstances != 0 {
		return structErr("instances", "do not divide",
			computeInstances, innerInstances)
	}

	if !arithmetic.MeshX.IsSpecified() || !arithmetic.MeshY.IsSpecified() {
		return structErr("meshX", "must be specified on the arithmetic level",
			computeInstances, innerInstances)
	}

	fanout := computeInstances / innerInstances
	conflict, ok := setOrMatch(inner, inner.Fanout, fanout)
	if !ok {
		return structErr("fanout", "mismatches the instance ratio",
			fanout, conflict)
	}

	fanoutX, err := meshRatio(arithmetic.MeshX.Get(), inner.MeshX(slot).Get())
	if err != nil {
		return structErr("meshX", err.Error(),
			arithmetic.MeshX.Get(), inner.MeshX(slot).Get())
	}

	conflict, ok = setOrMatch(inner, inner.FanoutX, fanoutX)
	if !ok {
		return structErr("fanoutX", "mismatches the mesh ratio",
			fanoutX, conflict)
	}

	fanoutY, err := meshRatio(arithmetic.MeshY.Get(), inner.MeshY(slot).Get())
	if err != nil {
		return structErr("meshY", err.Error(),
			arithmetic.MeshY.Get(), inner.MeshY(slot).Get())
	}

	conflict, ok = setOrMatch(inner, inner.FanoutY, fanoutY)
	if !ok {
		return structErr("fanoutY", "mismatches the mesh ratio",
			fanoutY, conflict)
	}

	return fanoutMustBeProduct(arithmetic.Name, inner)
}

func validateStorageInterconnect(inner, outer *BufferSpecs) error {
	innerSlot, _ := inner.Slots()
	outerSlot, _ := outer.Slots()

	structErr := func(attr, reason string, innerV, outerV uint64) error {
		return &StructuralError{
			Inner:      inner.Name,
			Outer:      outer.Name,
			Attribute:  attr,
			Reason:     reason,
			InnerValue: innerV,
			OuterValue: outerV,
		}
	}

	for _, r := range []struct {
		name       string
		fanoutName string
		inner      func(problem.DataType) *Attribute[uint64]
		outer      func(problem.DataType) *Attribute[uint64]
		fanout     func(problem.DataType) *Attribute[uint64]
	}{
		{"instances", "fanout", inner.Instances, outer.Instances, outer.Fanout},
		{"meshX", "fanoutX", inner.MeshX, outer.MeshX, outer.FanoutX},
		{"meshY", "fanoutY", inner.MeshY, outer.MeshY, outer.FanoutY},
	} {
		innerV := r.inner(innerSlot).Get()
		outerV := r.outer(outerSlot).Get()

		fanout, err := meshRatio(innerV, outerV)
		if err != nil {
			return structErr(r.name, err.Error(), innerV, outerV)
		}

		conflict, ok := setOrMatch(outer, r.fanout, fanout)
		if !ok {
			return structErr(r.fanoutName, "mismatches the derived value",
				fanout, conflict)
		}
	}

	return fanoutMustBeProduct(inner.Name, outer)
}

func meshRatio(inner, outer uint64) (uint64, error) {
	if outer == 0 || inner%outer != 0 {
		return 0, errors.New("do not divide")
	}

	return inner / outer, nil
}

// setOrMatch assigns the value to every slot of the buffer where the
// attribute is unspecified. If a specified slot disagrees, nothing is
// assigned and the conflicting value is returned.
func setOrMatch(
	b *BufferSpecs,
	attr func(problem.DataType) *Attribute[uint64],
	value uint64,
) (conflict uint64, ok bool) {
	first, last := b.Slots()

	for slot := first; slot <= last; slot++ {
		a := attr(slot)
		if a.IsSpecified() && a.Get() != value {
			return a.Get(), false
		}
	}

	for slot := first; slot <= last; slot++ {
		attr(slot).Set(value)
	}

	return value, true
}

func fanoutMustBeProduct(innerName string, b *BufferSpecs) error {
	slot, _ := b.Slots()
	fanout := b.Fanout(slot).Get()
	fanoutX := b.FanoutX(slot).Get()
	fanoutY := b.FanoutY(slot).Get()

	if fanout != fanoutX*fanoutY {
		return &StructuralError{
			Inner:      innerName,
			Outer:      b.Name,
			Attribute:  "fanout",
			Reason:     fmt.Sprintf("is not fanoutX*fanoutY (%d*%d)", fanoutX, fanoutY),
			InnerValue: fanoutX * fanoutY,
			OuterValue: fanout,
		}
	}

	return nil
}
