package structure

import (
	"encoding/json"
	"testing"

	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func node(id string, kind model.NodeKind, ref string, children ...*model.Node) *model.Node {
	return &model.Node{ID: id, Kind: kind, Reference: ref, Quantity: decimal.NewFromInt(1), Children: children}
}

// sampleProduct builds:
//
//	P-100 (root)
//	├─ SF-1 (semi)
//	│  ├─ RM-1 (insumo)
//	│  └─ SF-2 (semi)
//	│     └─ RM-2 (insumo)
//	└─ RM-1 (insumo, repeated reference)
func sampleProduct() *model.Product {
	root := node("root", model.KindProduct, "P-100",
		node("a", model.KindSemiFinished, "SF-1",
			node("a1", model.KindRawMaterial, "RM-1"),
			node("a2", model.KindSemiFinished, "SF-2",
				node("a21", model.KindRawMaterial, "RM-2"),
			),
		),
		node("b", model.KindRawMaterial, "RM-1"),
	)
	return &model.Product{StorageID: "P-100", BusinessID: "P-100", Structure: root}
}

func loadSample(t *testing.T) *Tree {
	t.Helper()
	tree, err := Load(sampleProduct())
	require.NoError(t, err)
	tree.Reindex()
	return tree
}

func snapshot(t *testing.T, n *model.Node) string {
	t.Helper()
	b, err := json.Marshal(n)
	require.NoError(t, err)
	return string(b)
}

func childIDs(n *model.Node) []string {
	ids := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		ids = append(ids, c.ID)
	}
	return ids
}
