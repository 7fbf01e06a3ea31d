package dashboard

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// UUIDGenerator issues random (v4) UUIDs.
type UUIDGenerator struct{}

// NewID returns a new UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator issues prefix-1, prefix-2, ... and is safe for concurrent use.
type SequenceGenerator struct {
	Prefix string
	next   atomic.Int64
}

// NewID returns the next identifier in the sequence.
func (g *SequenceGenerator) NewID() string {
	n := g.next.Add(1)
	prefix := g.Prefix
	if prefix == "" {
		prefix = "widget"
	}
	return prefix + "-" + strconv.FormatInt(n, 10)
}
