package structure

import (
	"sync"
	"testing"
	"time"

	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGeneratorUniqueWithinSameMillisecond(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	gen := NewIDGeneratorWithClock(func() time.Time { return frozen })

	seen := make(map[string]bool)
	for i := 0; i < 10_000; i++ {
		id := gen.Next()
		require.False(t, seen[id], "collision on %s", id)
		seen[id] = true
	}
}

func TestIDGeneratorConcurrent(t *testing.T) {
	gen := NewIDGenerator()
	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				id := gen.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 8*500)
}

func TestBackToBackClonesNeverCollide(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	gen := NewIDGeneratorWithClock(func() time.Time { return frozen })
	src := sampleProduct().Structure

	first := CloneStructure(src, "P-200", gen)
	second := CloneStructure(src, "P-300", gen)

	ids := make(map[string]bool)
	for _, root := range []*model.Node{first, second} {
		root.Walk(func(n *model.Node, _ int) bool {
			assert.False(t, ids[n.ID], "duplicate id %s", n.ID)
			ids[n.ID] = true
			return true
		})
	}
	assert.Len(t, ids, 12)
	assert.Equal(t, "P-200", first.Reference)
	assert.Equal(t, "P-300", second.Reference)
	assert.Equal(t, "P-100", src.Reference, "source untouched")
	assert.Equal(t, "root", src.ID)
}

func TestRegenerateIDsInPlace(t *testing.T) {
	p := sampleProduct()
	RegenerateIDs(p.Structure, NewIDGenerator())
	p.Structure.Walk(func(n *model.Node, _ int) bool {
		assert.Contains(t, n.ID, "n-")
		return true
	})
	assert.NoError(t, Validate(p.Structure, "P-100"))
}
