// Package ids provides the identifier generators injected into the store.
package ids

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator returns a new identifier carrying the given prefix ("r", "h", "de").
type Generator interface {
	NewID(prefix string) string
}

// UUID generates "<prefix>-<uuid v4>" identifiers.
type UUID struct{}

func (UUID) NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Sequence generates "<prefix>-<n>" identifiers from one monotonic counter
// shared by all prefixes. Safe for concurrent use.
type Sequence struct {
	n atomic.Uint64
}

// NewSequence returns a Sequence whose first id ends in 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) NewID(prefix string) string {
	return prefix + "-" + strconv.FormatUint(s.n.Add(1), 10)
}
