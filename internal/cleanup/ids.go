package cleanup

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator hands out task identifiers. Ids must be unique per plan.
type IDGenerator interface {
	NextID() string
}

// UUIDGenerator produces random version 4 UUIDs. It is safe for concurrent use.
type UUIDGenerator struct{}

// NextID returns a new random UUID string.
func (UUIDGenerator) NextID() string {
	return uuid.NewString()
}

// SequentialGenerator produces "<prefix>-1", "<prefix>-2", ...
// It is safe for concurrent use.
type SequentialGenerator struct {
	prefix string
	mu     sync.Mutex
	next   int
}

// NewSequentialGenerator returns a generator starting at 1.
// An empty prefix defaults to "task".
func NewSequentialGenerator(prefix string) *SequentialGenerator {
	if prefix == "" {
		prefix = "task"
	}
	return &SequentialGenerator{prefix: prefix}
}

// NextID returns the next id in sequence.
func (g *SequentialGenerator) NextID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next)
}
