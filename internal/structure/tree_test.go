package structure

import (
	"testing"

	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedsEmptyStructure(t *testing.T) {
	p := &model.Product{BusinessID: "P-1"}
	tree, err := Load(p)
	require.NoError(t, err)

	require.NotNil(t, p.Structure)
	assert.Equal(t, model.KindProduct, p.Structure.Kind)
	assert.Equal(t, "P-1", p.Structure.Reference)
	assert.NotEmpty(t, p.Structure.ID)
	assert.Equal(t, 1, tree.Len())
	assert.Empty(t, tree.Reindex())
}

func TestValidateRejectsBrokenTrees(t *testing.T) {
	cases := map[string]*model.Node{
		"root is not a product":           node("r", model.KindSemiFinished, "P-1"),
		"root references another product": node("r", model.KindProduct, "P-2"),
		"product below root": node("r", model.KindProduct, "P-1",
			node("x", model.KindProduct, "P-9")),
		"raw material with children": node("r", model.KindProduct, "P-1",
			node("x", model.KindRawMaterial, "RM-1", node("y", model.KindRawMaterial, "RM-2"))),
		"duplicate ids": node("r", model.KindProduct, "P-1",
			node("x", model.KindSemiFinished, "SF-1"), node("x", model.KindRawMaterial, "RM-1")),
		"unknown kind": node("r", model.KindProduct, "P-1", node("x", model.NodeKind("pieza"), "X")),
		"missing id":   node("r", model.KindProduct, "P-1", node("", model.KindRawMaterial, "RM-1")),
	}
	for name, root := range cases {
		t.Run(name, func(t *testing.T) {
			err := Validate(root, "P-1")
			assert.ErrorIs(t, err, model.ErrInvalidStructuralOperation)
		})
	}
}

func TestFindReturnsParentAndIndex(t *testing.T) {
	tree := loadSample(t)

	n, parent, idx, ok := tree.Find("a21")
	require.True(t, ok)
	assert.Equal(t, "RM-2", n.Reference)
	assert.Equal(t, "a2", parent.ID)
	assert.Equal(t, 0, idx)

	root, parent, idx, ok := tree.Find("root")
	require.True(t, ok)
	assert.Nil(t, parent)
	assert.Equal(t, -1, idx)
	assert.Equal(t, "P-100", root.Reference)

	_, ok = tree.Node("nope")
	assert.False(t, ok)
}

func TestComponentIDsDeduplicatesInTraversalOrder(t *testing.T) {
	tree := loadSample(t)
	assert.Equal(t, []string{"SF-1", "RM-1", "SF-2", "RM-2"}, tree.Product().ComponentIDs)

	keys := ComponentKeys(tree.Root())
	assert.Equal(t, []model.Key{
		{Kind: model.KindSemiFinished, Reference: "SF-1"},
		{Kind: model.KindRawMaterial, Reference: "RM-1"},
		{Kind: model.KindSemiFinished, Reference: "SF-2"},
		{Kind: model.KindRawMaterial, Reference: "RM-2"},
	}, keys)
}
