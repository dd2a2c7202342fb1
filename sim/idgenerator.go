package sim

import (
	"strconv"
	"sync"
	"sync/atomic"
)

// IDGenerator can generate IDs
type IDGenerator interface {
	// Generate an ID
	Generate() string
}

var (
	idGeneratorOnce sync.Once
	idGenerator     IDGenerator
)

// GetIDGenerator returns the generator that names requests and progress bars
// across the process. IDs count up from 1.
func GetIDGenerator() IDGenerator {
	idGeneratorOnce.Do(func() {
		idGenerator = NewSequentialIDGenerator()
	})

	return idGenerator
}

// NewSequentialIDGenerator returns a standalone generator that counts from 1.
func NewSequentialIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

type sequentialIDGenerator struct {
	nextID atomic.Uint64
}

func (g *sequentialIDGenerator) Generate() string {
	return strconv.FormatUint(g.nextID.Add(1), 10)
}
