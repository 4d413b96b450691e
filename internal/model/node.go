package model

import "github.com/shopspring/decimal"

// NodeKind is the closed set of node variants inside a product structure.
type NodeKind string

const (
	KindProduct      NodeKind = "producto"
	KindSemiFinished NodeKind = "semiterminado"
	KindRawMaterial  NodeKind = "insumo"
)

// Valid reports whether k is one of the known kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case KindProduct, KindSemiFinished, KindRawMaterial:
		return true
	}
	return false
}

// IsLeaf reports whether nodes of this kind must never have children.
func (k NodeKind) IsLeaf() bool { return k == KindRawMaterial }

// Collection returns the catalog collection holding records of this kind.
func (k NodeKind) Collection() Collection {
	switch k {
	case KindProduct:
		return CollProductos
	case KindSemiFinished:
		return CollSemiterminados
	case KindRawMaterial:
		return CollInsumos
	}
	return ""
}

// Label is the display name used in exports.
func (k NodeKind) Label() string {
	switch k {
	case KindProduct:
		return "Producto"
	case KindSemiFinished:
		return "Semiterminado"
	case KindRawMaterial:
		return "Insumo"
	}
	return string(k)
}

// Node is one element of a product structure. It only references catalog
// records by business key; it never embeds them.
type Node struct {
	ID        string          `json:"id" bson:"id"`
	Kind      NodeKind        `json:"tipo" bson:"tipo"`
	Reference string          `json:"referencia" bson:"referencia"`
	Quantity  decimal.Decimal `json:"cantidad" bson:"cantidad"`
	Comment   string          `json:"comentario,omitempty" bson:"comentario,omitempty"`
	Children  []*Node         `json:"hijos,omitempty" bson:"hijos,omitempty"`
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	cp.Children = nil
	if len(n.Children) > 0 {
		cp.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = c.Clone()
		}
	}
	return &cp
}

// Walk visits the subtree depth-first in pre-order. depth is 0 for n.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(0, fn)
}

func (n *Node) walk(depth int, fn func(*Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(depth+1, fn)
	}
}
