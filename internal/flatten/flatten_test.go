package flatten

import (
	"testing"

	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func n(id string, kind model.NodeKind, ref string, children ...*model.Node) *model.Node {
	return &model.Node{ID: id, Kind: kind, Reference: ref, Children: children}
}

// chain: product(L0) → semi(L1) → semi(L2) → semi(L3) → insumo(L4)
func chain() *model.Node {
	return n("p", model.KindProduct, "P-1",
		n("s1", model.KindSemiFinished, "SF-1",
			n("s2", model.KindSemiFinished, "SF-2",
				n("s3", model.KindSemiFinished, "SF-3",
					n("i4", model.KindRawMaterial, "RM-4")))))
}

func catalog() Lookup {
	return Items(map[model.Key]*model.Component{
		{Kind: model.KindSemiFinished, Reference: "SF-1"}: {Code: "SF-1", Description: "Chasis soldado", Material: "Acero"},
		{Kind: model.KindSemiFinished, Reference: "SF-2"}: {Code: "SF-2", Description: "Soporte"},
		{Kind: model.KindSemiFinished, Reference: "SF-3"}: {Code: "SF-3", Description: "Bracket"},
		{Kind: model.KindRawMaterial, Reference: "RM-4"}:  {Code: "RM-4", Description: "Chapa 2mm", Material: "Aluminio 6061"},
		{Kind: model.KindRawMaterial, Reference: "RM-5"}:  {Code: "RM-5", Description: "Tornillo M6", Material: "Acero inoxidable"},
	})
}

func ids(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Node.ID
	}
	return out
}

func TestNoFilterEmitsEveryNodeAtItsDepth(t *testing.T) {
	rows := Flatten(chain(), catalog(), Filter{})
	require.Len(t, rows, 5)
	for i, r := range rows {
		assert.Equal(t, i, r.OriginalLevel)
		assert.Equal(t, r.OriginalLevel, r.VisualLevel)
	}
	assert.Nil(t, rows[0].Item)
	assert.Equal(t, "Chasis soldado", rows[1].Item.Description)
}

func TestLevelFilterZeroFour(t *testing.T) {
	rows := Flatten(chain(), catalog(), Filter{Levels: OnlyLevels(0, 4)})
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"p", "i4"}, ids(rows))
	assert.Equal(t, 0, rows[0].VisualLevel)
	assert.Equal(t, 1, rows[1].VisualLevel)
	assert.Equal(t, 4, rows[1].OriginalLevel)
}

func TestLevelFilterZeroTwo(t *testing.T) {
	rows := Flatten(chain(), catalog(), Filter{Levels: OnlyLevels(0, 2)})
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"p", "s2"}, ids(rows))
	assert.Equal(t, []int{0, 1}, []int{rows[0].VisualLevel, rows[1].VisualLevel})
	assert.Equal(t, []int{0, 2}, []int{rows[0].OriginalLevel, rows[1].OriginalLevel})
}

func TestVisualLevelsContiguousAlongKeptChain(t *testing.T) {
	for _, levels := range []Levels{OnlyLevels(0, 2), OnlyLevels(0, 4), OnlyLevels(1, 3, 4)} {
		rows := Flatten(chain(), catalog(), Filter{Levels: levels})
		for i, r := range rows {
			assert.Equal(t, i, r.VisualLevel, "levels %v", levels.Sorted())
			assert.True(t, levels.Has(r.OriginalLevel))
		}
	}
}

func TestEmptyLevelSetVersusNoLevelSet(t *testing.T) {
	root := n("p", model.KindProduct, "P-1",
		n("a", model.KindSemiFinished, "SF-1",
			n("b", model.KindRawMaterial, "RM-4")),
		n("c", model.KindRawMaterial, "RM-5"))

	assert.Empty(t, Flatten(root, catalog(), Filter{Levels: OnlyLevels()}))
	assert.Empty(t, Flatten(root, catalog(), Filter{Levels: Levels{}, Material: "acero"}))
	assert.Len(t, Flatten(root, catalog(), Filter{Levels: nil}), 4)
}

func TestMaterialFilterKeepsAncestorChain(t *testing.T) {
	root := n("p", model.KindProduct, "P-1",
		n("a", model.KindSemiFinished, "SF-2",
			n("a1", model.KindRawMaterial, "RM-4"),
			n("a2", model.KindRawMaterial, "RM-5")),
		n("b", model.KindSemiFinished, "SF-3",
			n("b1", model.KindRawMaterial, "RM-4")))

	rows := Flatten(root, catalog(), Filter{Material: "ACERO"})
	assert.Equal(t, []string{"p", "a", "a2"}, ids(rows))
	assert.Equal(t, []int{0, 1, 2}, []int{rows[0].VisualLevel, rows[1].VisualLevel, rows[2].VisualLevel})
}

func TestCombinedFilterRisesThroughRemovedAncestors(t *testing.T) {
	root := n("p", model.KindProduct, "P-1",
		n("a", model.KindSemiFinished, "SF-2",
			n("a1", model.KindSemiFinished, "SF-3",
				n("a11", model.KindRawMaterial, "RM-5"),
				n("a12", model.KindRawMaterial, "RM-4"))))

	rows := Flatten(root, catalog(), Filter{Levels: OnlyLevels(0, 3), Material: "inox"})
	require.Equal(t, []string{"p", "a11"}, ids(rows))
	assert.Equal(t, 1, rows[1].VisualLevel)
	assert.Equal(t, 3, rows[1].OriginalLevel)
}

func TestLevelFilterWithoutRootYieldsForest(t *testing.T) {
	root := n("p", model.KindProduct, "P-1",
		n("a", model.KindSemiFinished, "SF-1"),
		n("b", model.KindSemiFinished, "SF-2"))

	rows := Flatten(root, catalog(), Filter{Levels: OnlyLevels(1)})
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].VisualLevel)
	assert.False(t, rows[0].IsLast)
	assert.True(t, rows[1].IsLast)
}

func TestConnectorFlags(t *testing.T) {
	root := n("p", model.KindProduct, "P-1",
		n("a", model.KindSemiFinished, "SF-1",
			n("a1", model.KindRawMaterial, "RM-4")),
		n("b", model.KindSemiFinished, "SF-2",
			n("b1", model.KindRawMaterial, "RM-5")))

	rows := Flatten(root, catalog(), Filter{})
	prefixes := make([]string, len(rows))
	for i, r := range rows {
		prefixes[i] = r.Prefix()
	}
	assert.Equal(t, []string{
		"",
		"├─ ",
		"│  └─ ",
		"└─ ",
		"   └─ ",
	}, prefixes)
	assert.Equal(t, []bool{true}, rows[2].AncestorNotLast)
	assert.Equal(t, []bool{false}, rows[4].AncestorNotLast)
}

func TestParseLevels(t *testing.T) {
	l, err := ParseLevels("", false)
	require.NoError(t, err)
	assert.Nil(t, l)

	l, err = ParseLevels("", true)
	require.NoError(t, err)
	assert.NotNil(t, l)
	assert.Empty(t, l)

	l, err = ParseLevels("4, 0,2", true)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4}, l.Sorted())

	_, err = ParseLevels("1,x", true)
	assert.Error(t, err)
}
