package structure

import (
	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/shopspring/decimal"
)

// NodePatch carries the editable fields of a node. Nil fields are unchanged.
type NodePatch struct {
	Quantity *decimal.Decimal
	Comment  *string
}

// Update applies patch to the node. Quantity is meaningless on the product
// root and is ignored there.
func (t *Tree) Update(id string, patch NodePatch) error {
	n, ok := t.Node(id)
	if !ok {
		return invalid("nodo %q no existe", id)
	}
	if patch.Quantity != nil && n.Kind != model.KindProduct {
		if patch.Quantity.IsNegative() {
			return invalid("cantidad negativa para el nodo %q", id)
		}
		n.Quantity = *patch.Quantity
	}
	if patch.Comment != nil {
		n.Comment = *patch.Comment
	}
	return nil
}

// InsertChild adds child under parentID at index (out-of-range index
// appends). A child without id gets one from the tree generator; ids of a
// child subtree must not collide with ids already in the tree.
func (t *Tree) InsertChild(parentID string, child *model.Node, index int) error {
	parent, ok := t.Node(parentID)
	if !ok {
		return invalid("nodo padre %q no existe", parentID)
	}
	if err := canHoldChildren(parent); err != nil {
		return err
	}
	if child == nil {
		return invalid("nodo nulo")
	}
	if child.ID == "" {
		child.ID = t.gen.Next()
	}

	var err error
	seen := make(map[string]bool)
	child.Walk(func(n *model.Node, _ int) bool {
		switch {
		case n.Kind == model.KindProduct:
			err = invalid("un producto solo puede ser raiz de su estructura")
		case !n.Kind.Valid():
			err = invalid("tipo de nodo desconocido %q", n.Kind)
		case n.Kind.IsLeaf() && len(n.Children) > 0:
			err = invalid("el insumo %q no puede tener hijos", n.Reference)
		case n.Reference == "":
			err = invalid("nodo sin referencia")
		case n.Quantity.IsNegative():
			err = invalid("cantidad negativa en %q", n.Reference)
		case n.ID == "":
			n.ID = t.gen.Next()
		}
		if err == nil {
			if _, exists := t.Node(n.ID); exists || seen[n.ID] {
				err = invalid("id de nodo duplicado %q", n.ID)
			}
			seen[n.ID] = true
		}
		return err == nil
	})
	if err != nil {
		return err
	}

	parent.Children = insertAt(parent.Children, index, child)
	return nil
}

// Remove detaches the subtree rooted at id and returns it. The root cannot
// be removed.
func (t *Tree) Remove(id string) (*model.Node, error) {
	n, parent, idx, ok := t.Find(id)
	if !ok {
		return nil, invalid("nodo %q no existe", id)
	}
	if parent == nil {
		return nil, invalid("la raiz del producto no se puede eliminar")
	}
	parent.Children = removeAt(parent.Children, idx)
	return n, nil
}

// Move re-parents the node id under newParentID at index. The node is first
// detached (its parent and position are remembered), the destination is
// validated, and only then is it inserted. Any failure puts the node back at
// the exact parent and index it came from before the error is returned.
//
// index is interpreted against the destination's children after the node
// has been detached, so moves within the same parent behave like a list
// reorder. An out-of-range index appends.
func (t *Tree) Move(id, newParentID string, index int) error {
	n, oldParent, oldIdx, ok := t.Find(id)
	if !ok {
		return invalid("nodo %q no existe", id)
	}
	if oldParent == nil {
		return invalid("la raiz del producto no se puede mover")
	}

	oldParent.Children = removeAt(oldParent.Children, oldIdx)

	target, err := t.moveTarget(n, newParentID)
	if err != nil {
		oldParent.Children = insertAt(oldParent.Children, oldIdx, n)
		return err
	}
	target.Children = insertAt(target.Children, index, n)
	return nil
}

// moveTarget resolves and validates the destination of a detached node.
func (t *Tree) moveTarget(n *model.Node, newParentID string) (*model.Node, error) {
	if newParentID == "" {
		return nil, invalid("no se puede mover un nodo al nivel raiz")
	}
	if newParentID == n.ID {
		return nil, invalid("un nodo no puede ser su propio padre")
	}
	if _, _, _, inside := find(n, newParentID); inside {
		return nil, invalid("no se puede mover un nodo dentro de su propia rama")
	}
	target, ok := t.Node(newParentID)
	if !ok {
		return nil, invalid("nodo destino %q no existe", newParentID)
	}
	if err := canHoldChildren(target); err != nil {
		return nil, err
	}
	return target, nil
}

func canHoldChildren(n *model.Node) error {
	switch n.Kind {
	case model.KindProduct, model.KindSemiFinished:
		return nil
	case model.KindRawMaterial:
		return invalid("un insumo (%s) no puede tener hijos", n.Reference)
	}
	return invalid("tipo de nodo desconocido %q", n.Kind)
}

func insertAt(s []*model.Node, i int, n *model.Node) []*model.Node {
	if i < 0 || i >= len(s) {
		return append(s, n)
	}
	s = append(s, nil)
	copy(s[i+1:], s[i:])
	s[i] = n
	return s
}

func removeAt(s []*model.Node, i int) []*model.Node {
	copy(s[i:], s[i+1:])
	s[len(s)-1] = nil
	return s[:len(s)-1]
}
