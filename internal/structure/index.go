package structure

import "github.com/facussc24/2026-sub001/internal/model"

// ComponentIDs flattens a structure into the reverse index stored on the
// product: the references of every non-product node, deduplicated, in
// depth-first pre-order of first appearance.
func ComponentIDs(root *model.Node) []string {
	ids := []string{}
	seen := make(map[string]bool)
	root.Walk(func(n *model.Node, _ int) bool {
		if n.Kind != model.KindProduct && !seen[n.Reference] {
			seen[n.Reference] = true
			ids = append(ids, n.Reference)
		}
		return true
	})
	return ids
}

// ComponentKeys returns the distinct (kind, reference) pairs of every
// non-product node. The kind selects the catalog collection of the record.
func ComponentKeys(root *model.Node) []model.Key {
	var keys []model.Key
	seen := make(map[model.Key]bool)
	root.Walk(func(n *model.Node, _ int) bool {
		if n.Kind == model.KindProduct {
			return true
		}
		k := model.Key{Kind: n.Kind, Reference: n.Reference}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
		return true
	})
	return keys
}

// SameIndex reports whether two reverse indexes hold exactly the same
// references in the same order.
func SameIndex(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
