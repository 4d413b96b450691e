package catalog

import (
	"context"
	"testing"

	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedStoreWithoutRedisPassesThrough(t *testing.T) {
	ctx := context.Background()
	mem := NewMemStore()
	s := NewCachedStore(mem, nil, 0)

	c := &model.Component{Code: "RM-1", Kind: model.KindRawMaterial, Description: "Chapa"}
	require.NoError(t, s.Write(ctx, model.CollInsumos, "RM-1", c, true))

	var got model.Component
	require.NoError(t, s.Get(ctx, model.CollInsumos, "RM-1", &got))
	assert.Equal(t, "Chapa", got.Description)

	require.NoError(t, s.Delete(ctx, model.CollInsumos, "RM-1"))
	assert.ErrorIs(t, s.Get(ctx, model.CollInsumos, "RM-1", &got), model.ErrNotFound)
	assert.NoError(t, s.Ping(ctx))
}

func TestFreshReadMarksContext(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsFreshRead(ctx))
	assert.True(t, IsFreshRead(FreshRead(ctx)))
}
