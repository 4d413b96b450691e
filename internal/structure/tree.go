// Package structure holds the in-memory product structure model: a single
// rooted tree of model.Node values, its invariants, and the mutation
// primitives used by every structural operation.
//
// Nothing in this package performs I/O. A Tree wraps the Structure of a
// model.Product in place, so mutations are visible on the product; callers
// persist the product (with Reindex applied) through the catalog store.
package structure

import (
	"fmt"

	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/shopspring/decimal"
)

// Tree is a validated product structure.
type Tree struct {
	product *model.Product
	gen     *IDGenerator
}

// Load wraps p.Structure, seeding a single root node when the product has no
// structure yet, and validates every invariant.
func Load(p *model.Product) (*Tree, error) {
	return LoadWith(p, DefaultGenerator())
}

// LoadWith is Load with an explicit id generator for seeded and inserted nodes.
func LoadWith(p *model.Product, gen *IDGenerator) (*Tree, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: producto nulo", model.ErrInvalidStructuralOperation)
	}
	if p.Structure == nil {
		p.Structure = Seed(p.BusinessID, gen)
	}
	if err := Validate(p.Structure, p.BusinessID); err != nil {
		return nil, err
	}
	return &Tree{product: p, gen: gen}, nil
}

// Seed returns the single-node structure of a freshly created product.
func Seed(businessID string, gen *IDGenerator) *model.Node {
	return &model.Node{
		ID:        gen.Next(),
		Kind:      model.KindProduct,
		Reference: businessID,
		Quantity:  decimal.NewFromInt(1),
	}
}

// Validate checks the structural invariants of a persisted tree:
//   - the root is a producto node referencing businessID
//   - producto nodes appear only at the root
//   - insumo nodes have no children
//   - every node has an id and a reference, and ids are unique in the tree
func Validate(root *model.Node, businessID string) error {
	if root == nil {
		return invalid("la estructura no tiene raiz")
	}
	if root.Kind != model.KindProduct {
		return invalid("la raiz debe ser de tipo producto, es %q", root.Kind)
	}
	if root.Reference != businessID {
		return invalid("la raiz referencia %q en lugar de %q", root.Reference, businessID)
	}

	seen := make(map[string]bool)
	var err error
	root.Walk(func(n *model.Node, depth int) bool {
		if err != nil {
			return false
		}
		switch {
		case n == nil:
			err = invalid("nodo nulo en la estructura")
		case n.ID == "":
			err = invalid("nodo sin id (referencia %q)", n.Reference)
		case seen[n.ID]:
			err = invalid("id de nodo duplicado %q", n.ID)
		case !n.Kind.Valid():
			err = invalid("nodo %q con tipo desconocido %q", n.ID, n.Kind)
		case n.Kind == model.KindProduct && depth > 0:
			err = invalid("nodo %q de tipo producto fuera de la raiz", n.ID)
		case n.Kind.IsLeaf() && len(n.Children) > 0:
			err = invalid("el insumo %q no puede tener hijos", n.ID)
		case n.Reference == "":
			err = invalid("nodo %q sin referencia", n.ID)
		}
		if err != nil {
			return false
		}
		seen[n.ID] = true
		return true
	})
	return err
}

// Root returns the root node.
func (t *Tree) Root() *model.Node { return t.product.Structure }

// Product returns the product the tree belongs to.
func (t *Tree) Product() *model.Product { return t.product }

// Find locates a node by id with a depth-first search. parent is nil and
// index is -1 for the root.
func (t *Tree) Find(id string) (node, parent *model.Node, index int, ok bool) {
	root := t.Root()
	if root.ID == id {
		return root, nil, -1, true
	}
	return find(root, id)
}

func find(parent *model.Node, id string) (*model.Node, *model.Node, int, bool) {
	for i, c := range parent.Children {
		if c.ID == id {
			return c, parent, i, true
		}
		if n, p, idx, ok := find(c, id); ok {
			return n, p, idx, true
		}
	}
	return nil, nil, -1, false
}

// Node returns the node with the given id.
func (t *Tree) Node(id string) (*model.Node, bool) {
	n, _, _, ok := t.Find(id)
	return n, ok
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	count := 0
	t.Root().Walk(func(*model.Node, int) bool {
		count++
		return true
	})
	return count
}

// Reindex recomputes the product's reverse index from its structure. Every
// caller that persists a structural change must call it first.
func (t *Tree) Reindex() []string {
	t.product.ComponentIDs = ComponentIDs(t.Root())
	return t.product.ComponentIDs
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrInvalidStructuralOperation, fmt.Sprintf(format, args...))
}
