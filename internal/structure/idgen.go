package structure

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/google/uuid"
)

// IDGenerator produces node ids. Uniqueness never rests on the clock alone:
// each id combines the millisecond timestamp with a process-wide counter that
// increases on every call, plus a random per-generator tag so two processes
// started in the same millisecond do not collide either.
type IDGenerator struct {
	now func() time.Time
	seq atomic.Uint64
	tag string
}

// NewIDGenerator returns a generator using the wall clock.
func NewIDGenerator() *IDGenerator {
	return NewIDGeneratorWithClock(time.Now)
}

// NewIDGeneratorWithClock returns a generator reading time from now.
func NewIDGeneratorWithClock(now func() time.Time) *IDGenerator {
	tag := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return &IDGenerator{now: now, tag: tag}
}

// Next returns a fresh id, e.g. "n-lq2k3x9a-1f-3fa9c1". Safe for concurrent use.
func (g *IDGenerator) Next() string {
	n := g.seq.Add(1)
	var b strings.Builder
	b.Grow(28)
	b.WriteString("n-")
	b.WriteString(strconv.FormatInt(g.now().UnixMilli(), 36))
	b.WriteByte('-')
	b.WriteString(strconv.FormatUint(n, 36))
	b.WriteByte('-')
	b.WriteString(g.tag)
	return b.String()
}

var defaultGenerator = NewIDGenerator()

// DefaultGenerator is the process-wide generator.
func DefaultGenerator() *IDGenerator { return defaultGenerator }

// RegenerateIDs assigns a fresh id to every node of the subtree, in place.
func RegenerateIDs(root *model.Node, gen *IDGenerator) {
	root.Walk(func(n *model.Node, _ int) bool {
		n.ID = gen.Next()
		return true
	})
}

// CloneStructure deep-copies src for a new product: every node id is
// regenerated and the root is repointed at newBusinessID.
func CloneStructure(src *model.Node, newBusinessID string, gen *IDGenerator) *model.Node {
	cp := src.Clone()
	RegenerateIDs(cp, gen)
	cp.Reference = newBusinessID
	return cp
}
