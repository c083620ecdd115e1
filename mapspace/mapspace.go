// Package mapspace defines the space of legal mappings of a workload onto a
// storage hierarchy and decodes mapping identifiers into mappings.
package mapspace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/MainEpicenter/timeloop/mapping"
)

// Dimension is one of the axes of the mapping space.
type Dimension int

// The dimensions of the mapping space. The search engine varies
// DatatypeBypass fastest and IndexFactorization slowest.
const (
	IndexFactorization Dimension = iota
	LoopPermutation
	Spatial
	DatatypeBypass
	NumDimensions
)

var dimensionNames = [NumDimensions]string{"IF", "LP", "S", "DB"}

func (d Dimension) String() string {
	if d < 0 || d >= NumDimensions {
		return fmt.Sprintf("Dimension(%d)", int(d))
	}

	return dimensionNames[d]
}

// An ID selects one value per dimension of the mapping space.
type ID [NumDimensions]uint64

// String prints the values as IF,LP,S,DB.
func (id ID) String() string {
	parts := make([]string, NumDimensions)
	for d, v := range id {
		parts[d] = strconv.FormatUint(v, 10)
	}

	return strings.Join(parts, ",")
}

// ParseID parses an ID printed by String.
func ParseID(s string) (ID, error) {
	var id ID

	parts := strings.Split(s, ",")
	if len(parts) != int(NumDimensions) {
		return id, fmt.Errorf("mapping id %q must have %d values", s,
			NumDimensions)
	}

	for d, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return id, fmt.Errorf("mapping id %q: %s: %w", s, Dimension(d), err)
		}

		id[d] = v
	}

	return id, nil
}

// ErrMappingConstruction is returned when an ID does not decode into a legal
// mapping.
var ErrMappingConstruction = errors.New("cannot construct mapping")

// ErrSpaceTooLarge is returned when a dimension of a mapping space may have
// more than 2^64 values.
var ErrSpaceTooLarge = errors.New("mapping space does not fit in 64 bits")

// A MapSpace is a discrete space of mappings. The sizes of the inner
// dimensions depend on the index factorization the space is pruned for.
type MapSpace interface {
	// Size returns the number of values of a dimension.
	Size(d Dimension) uint64

	// AllSizes returns the sizes of every dimension.
	AllSizes() [NumDimensions]uint64

	// InitPruned restricts the inner dimensions to the ones of an index
	// factorization.
	InitPruned(ifIndex uint64)

	// ConstructMapping decodes an ID.
	ConstructMapping(id ID) (*mapping.Mapping, error)

	// Split partitions the space along the index factorization dimension
	// into at most n disjoint spaces.
	Split(n int) []MapSpace
}
