// Package flatten turns a product structure into the ordered, level
// annotated rows used by the structure table and by every export format.
package flatten

import (
	"strings"

	"github.com/facussc24/2026-sub001/internal/model"
)

// Lookup resolves the catalog record behind a node. It returns nil when the
// record is unknown (the row is still emitted, without item data).
type Lookup func(key model.Key) *model.Component

// Items adapts a map to a Lookup.
func Items(m map[model.Key]*model.Component) Lookup {
	return func(k model.Key) *model.Component { return m[k] }
}

// Row is one emitted line of the flattened structure.
//
// OriginalLevel is the node's depth in the unfiltered tree and is what the
// "Nivel" column shows. VisualLevel is the indentation after filtered-out
// ancestors stop counting. They coincide only when no filter is active.
type Row struct {
	Node          *model.Node
	Item          *model.Component
	OriginalLevel int
	VisualLevel   int
	IsLast        bool
	// AncestorNotLast[i] is true when the emitted ancestor at visual level
	// i+1 has a later emitted sibling (a "│" continues in that column).
	AncestorNotLast []bool
}

// Prefix renders the tree connectors for the row, e.g. "│  ├─ ".
func (r Row) Prefix() string {
	if r.VisualLevel == 0 {
		return ""
	}
	var b strings.Builder
	for _, open := range r.AncestorNotLast {
		if open {
			b.WriteString("│  ")
		} else {
			b.WriteString("   ")
		}
	}
	if r.IsLast {
		b.WriteString("└─ ")
	} else {
		b.WriteString("├─ ")
	}
	return b.String()
}

// visual is a node of the emitted tree: an emitted node and the emitted
// nodes whose nearest emitted ancestor it is.
type visual struct {
	node     *model.Node
	item     *model.Component
	level    int
	children []*visual
}

// Flatten emits the rows of root under f in depth-first order.
//
// With no active criteria every node is emitted at its own depth. With
// criteria, a node is emitted when its original level is selected and it
// either matches the material itself or has a descendant that satisfies both
// criteria; nodes that are not emitted are still traversed, and their
// emitted descendants take their place one visual level up.
func Flatten(root *model.Node, items Lookup, f Filter) []Row {
	if root == nil {
		return nil
	}
	if f.Levels != nil && len(f.Levels) == 0 {
		return []Row{}
	}
	if items == nil {
		items = func(model.Key) *model.Component { return nil }
	}

	levels := originalLevels(root)

	var forest []*visual
	if !f.Active() {
		forest = []*visual{emitAll(root, items, levels)}
	} else {
		forest, _ = emitFiltered(root, items, levels, f)
	}

	rows := make([]Row, 0, len(levels))
	for i, v := range forest {
		rows = appendRows(rows, v, 0, i == len(forest)-1, nil)
	}
	return rows
}

// originalLevels is the first pass: the depth of every node in the
// unfiltered tree, root = 0.
func originalLevels(root *model.Node) map[*model.Node]int {
	levels := make(map[*model.Node]int)
	root.Walk(func(n *model.Node, depth int) bool {
		levels[n] = depth
		return true
	})
	return levels
}

func emitAll(n *model.Node, items Lookup, levels map[*model.Node]int) *visual {
	v := &visual{node: n, item: itemOf(n, items), level: levels[n]}
	for _, c := range n.Children {
		v.children = append(v.children, emitAll(c, items, levels))
	}
	return v
}

// emitFiltered returns the emitted forest of n's subtree and whether any
// node in it satisfies both criteria by itself.
func emitFiltered(n *model.Node, items Lookup, levels map[*model.Node]int, f Filter) ([]*visual, bool) {
	var below []*visual
	descendantMatch := false
	for _, c := range n.Children {
		vs, m := emitFiltered(c, items, levels, f)
		below = append(below, vs...)
		descendantMatch = descendantMatch || m
	}

	item := itemOf(n, items)
	level := levels[n]
	levelOK := f.Levels.Has(level)
	materialOK := matchesMaterial(item, f.needle())
	selfMatch := levelOK && materialOK

	if levelOK && (materialOK || descendantMatch) {
		return []*visual{{node: n, item: item, level: level, children: below}}, selfMatch || descendantMatch
	}
	return below, selfMatch || descendantMatch
}

func matchesMaterial(item *model.Component, needle string) bool {
	if needle == "" {
		return true
	}
	if item == nil {
		return false
	}
	return strings.Contains(strings.ToLower(item.Material), needle) ||
		strings.Contains(strings.ToLower(item.Description), needle)
}

func itemOf(n *model.Node, items Lookup) *model.Component {
	if n.Kind == model.KindProduct {
		return nil
	}
	return items(model.Key{Kind: n.Kind, Reference: n.Reference})
}

func appendRows(rows []Row, v *visual, depth int, last bool, ancestors []bool) []Row {
	flags := make([]bool, len(ancestors))
	copy(flags, ancestors)
	rows = append(rows, Row{
		Node:            v.node,
		Item:            v.item,
		OriginalLevel:   v.level,
		VisualLevel:     depth,
		IsLast:          last,
		AncestorNotLast: flags,
	})

	var childAncestors []bool
	if depth > 0 {
		childAncestors = append(flags, !last)
	}
	for i, c := range v.children {
		rows = appendRows(rows, c, depth+1, i == len(v.children)-1, childAncestors)
	}
	return rows
}
