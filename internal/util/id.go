// Package util provides identifier and time helpers shared by the store,
// persistence and presentation layers.
package util

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator hands out time-based identifiers that are strictly increasing,
// even when called several times within the same millisecond.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDGenerator creates a generator reading the given clock. A nil clock
// uses wall time.
func NewIDGenerator(clock Clock) *IDGenerator {
	now := time.Now
	if clock != nil {
		now = clock.Now
	}
	return &IDGenerator{now: now}
}

// stamp returns the next unique millisecond stamp.
func (g *IDGenerator) stamp() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return ms
}

// Next returns prefix followed by the full millisecond stamp, e.g. MOV1718000000000.
func (g *IDGenerator) Next(prefix string) string {
	return prefix + strconv.FormatInt(g.stamp(), 10)
}

// NextFragment returns prefix followed by the last digits of the stamp.
// Fragments are unique for 10^digits consecutive milliseconds.
func (g *IDGenerator) NextFragment(prefix string, digits int) string {
	s := strconv.FormatInt(g.stamp(), 10)
	if digits > 0 && len(s) > digits {
		s = s[len(s)-digits:]
	}
	return prefix + s
}

// NewRevision generates a UUIDv7, used to tag each persisted document.
func NewRevision() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// ParseID validates and normalizes a UUID string.
func ParseID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid ID format: %w", err)
	}
	return id.String(), nil
}
