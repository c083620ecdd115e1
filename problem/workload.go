// Package problem describes the tensor computation that is mapped onto the
// hardware.
package problem

import (
	"errors"
	"fmt"
)

// DataType identifies one of the tensors of a workload.
type DataType int

// The data types of a workload. Outputs are read-modify-written.
const (
	Weights DataType = iota
	Inputs
	Outputs
	NumDataTypes
)

var dataTypeNames = [NumDataTypes]string{"Weights", "Inputs", "Outputs"}

func (dt DataType) String() string {
	if dt < 0 || dt >= NumDataTypes {
		return fmt.Sprintf("DataType(%d)", int(dt))
	}

	return dataTypeNames[dt]
}

// AllDataTypes lists every data type in index order.
func AllDataTypes() []DataType {
	return []DataType{Weights, Inputs, Outputs}
}

// A Rank is a list of dimension indices whose extents are summed to get the
// extent of one coordinate of a data space. A rank with more than one
// dimension models a sliding window, e.g. P+R-1.
type Rank []int

// A Projection maps the iteration space onto a data space, one Rank per
// coordinate of the data space.
type Projection []Rank

// ErrInvalidWorkload is returned when a workload description is not
// self-consistent.
var ErrInvalidWorkload = errors.New("invalid workload")

// A Workload is a perfectly nested loop computation over a set of named
// dimensions.
type Workload struct {
	Name        string
	Dimensions  []string
	Bounds      []int
	Projections [NumDataTypes]Projection
	ReadWrite   [NumDataTypes]bool
}

// NumDimensions returns the number of iteration dimensions.
func (w *Workload) NumDimensions() int {
	return len(w.Dimensions)
}

// DimensionIndex returns the index of the dimension with the given name.
func (w *Workload) DimensionIndex(name string) (int, bool) {
	for i, d := range w.Dimensions {
		if d == name {
			return i, true
		}
	}

	return 0, false
}

// Validate checks that the workload is well formed.
func (w *Workload) Validate() error {
	if len(w.Dimensions) == 0 {
		return fmt.Errorf("%w: %s has no dimensions", ErrInvalidWorkload, w.Name)
	}

	if len(w.Bounds) != len(w.Dimensions) {
		return fmt.Errorf("%w: %s has %d dimensions but %d bounds",
			ErrInvalidWorkload, w.Name, len(w.Dimensions), len(w.Bounds))
	}

	for i, b := range w.Bounds {
		if b <= 0 {
			return fmt.Errorf("%w: %s dimension %s has bound %d",
				ErrInvalidWorkload, w.Name, w.Dimensions[i], b)
		}
	}

	for dt := DataType(0); dt < NumDataTypes; dt++ {
		if len(w.Projections[dt]) == 0 {
			return fmt.Errorf("%w: %s has no projection for %s",
				ErrInvalidWorkload, w.Name, dt)
		}

		for _, rank := range w.Projections[dt] {
			if len(rank) == 0 {
				return fmt.Errorf("%w: %s has an empty rank in %s",
					ErrInvalidWorkload, w.Name, dt)
			}

			for _, d := range rank {
				if d < 0 || d >= len(w.Dimensions) {
					return fmt.Errorf("%w: %s projects %s on unknown dimension %d",
						ErrInvalidWorkload, w.Name, dt, d)
				}
			}
		}
	}

	return nil
}

// MACCs returns the number of multiply-accumulate operations, which is the
// size of the iteration space.
func (w *Workload) MACCs() uint64 {
	total := uint64(1)
	for _, b := range w.Bounds {
		total *= uint64(b)
	}

	return total
}

// IsRelevant returns true if iterating over the dimension changes the
// coordinates touched in the data space of the given data type.
func (w *Workload) IsRelevant(dt DataType, dim int) bool {
	for _, rank := range w.Projections[dt] {
		for _, d := range rank {
			if d == dim {
				return true
			}
		}
	}

	return false
}

// TileSize returns the number of elements of a data type touched by an
// iteration sub-space with the given per-dimension extents.
func (w *Workload) TileSize(dt DataType, extents []int) uint64 {
	size := uint64(1)

	for _, rank := range w.Projections[dt] {
		extent := 0
		for _, d := range rank {
			extent += extents[d]
		}

		extent -= len(rank) - 1
		size *= uint64(extent)
	}

	return size
}

// DataSpaceSize returns the size of the whole data space of a data type.
func (w *Workload) DataSpaceSize(dt DataType) uint64 {
	return w.TileSize(dt, w.Bounds)
}

// NewGEMM creates the workload of Z[m][n] += A[m][k] * B[k][n]. The weights
// are B, the inputs are A.
func NewGEMM(name string, m, n, k int) *Workload {
	const (
		dimM = iota
		dimN
		dimK
	)

	w := &Workload{
		Name:       name,
		Dimensions: []string{"M", "N", "K"},
		Bounds:     []int{m, n, k},
	}

	w.Projections[Weights] = Projection{{dimK}, {dimN}}
	w.Projections[Inputs] = Projection{{dimM}, {dimK}}
	w.Projections[Outputs] = Projection{{dimM}, {dimN}}
	w.ReadWrite[Outputs] = true

	return w
}

// NewConv creates the workload of a 2D convolution layer with unit stride and
// dilation. The dimensions are R, S (filter), P, Q (output), C (input
// channels), K (output channels) and N (batch).
func NewConv(name string, r, s, p, q, c, k, n int) *Workload {
	const (
		dimR = iota
		dimS
		dimP
		dimQ
		dimC
		dimK
		dimN
	)

	w := &Workload{
		Name:       name,
		Dimensions: []string{"R", "S", "P", "Q", "C", "K", "N"},
		Bounds:     []int{r, s, p, q, c, k, n},
	}

	w.Projections[Weights] = Projection{{dimR}, {dimS}, {dimC}, {dimK}}
	w.Projections[Inputs] = Projection{
		{dimR, dimP}, {dimS, dimQ}, {dimC}, {dimN},
	}
	w.Projections[Outputs] = Projection{{dimP}, {dimQ}, {dimK}, {dimN}}
	w.ReadWrite[Outputs] = true

	return w
}
