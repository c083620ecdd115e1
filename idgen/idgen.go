// Package idgen generates identifiers for search workers, mappings and
// recording sessions.
package idgen

import (
	"log"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

var (
	generatorMutex        sync.Mutex
	generatorInstantiated bool
	generator             Generator
)

// Generator can generate IDs.
type Generator interface {
	// Generate an ID.
	Generate() string
}

// UseSequential configures the package to generate sequential IDs. Searches
// that use sequential IDs are reproducible. Selecting the generator in use
// again is a no-op.
func UseSequential() {
	use(&sequentialGenerator{})
}

// UseParallel configures the package to generate globally unique IDs that do
// not depend on the order of generation.
func UseParallel() {
	use(parallelGenerator{})
}

func use(g Generator) {
	generatorMutex.Lock()
	defer generatorMutex.Unlock()

	if generatorInstantiated {
		if reflect.TypeOf(generator) == reflect.TypeOf(g) {
			return
		}

		log.Panic("cannot change id generator type after using it")
	}

	generator = g
	generatorInstantiated = true
}

// Get returns the ID generator in use. Sequential IDs are used unless
// configured otherwise before the first call.
func Get() Generator {
	generatorMutex.Lock()
	defer generatorMutex.Unlock()

	if !generatorInstantiated {
		generator = &sequentialGenerator{}
		generatorInstantiated = true
	}

	return generator
}

// NewSequential returns a generator that is independent of the package-level
// one.
func NewSequential() Generator {
	return &sequentialGenerator{}
}

type sequentialGenerator struct {
	nextID uint64
}

func (g *sequentialGenerator) Generate() string {
	id := atomic.AddUint64(&g.nextID, 1)
	return strconv.FormatUint(id, 10)
}

type parallelGenerator struct{}

func (parallelGenerator) Generate() string {
	return xid.New().String()
}
