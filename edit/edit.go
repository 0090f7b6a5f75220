// Package edit implements the functional edit API: with, less, insert,
// splice, and swap, plus their identity-addressed companions (spec §4.H).
// Every operation returns a new root sharing untouched structure with the
// old one and carrying a transform back-reference to it; no slot of any
// previously published node is mutated.
package edit

import (
	"fmt"

	"ptree/core/path"
	"ptree/core/terr"
	"ptree/core/tree"
)

// childAt resolves a single path element against node and requires the
// result to be a node (used while descending toward a target).
func childAt(node *tree.Node, e path.Elem) (*tree.Node, error) {
	v, err := tree.Lookup(node, path.Path{e})
	if err != nil {
		return nil, err
	}
	child, ok := v.(*tree.Node)
	if !ok {
		return nil, fmt.Errorf("%w: element %s does not lead to a node", terr.ErrInvalidPath, e)
	}
	return child, nil
}

// overwriteChild rebuilds node with its slot at e set to newChild,
// preserving node's serial number (spec §4.C copy semantics).
func overwriteChild(node *tree.Node, e path.Elem, newChild interface{}) (*tree.Node, error) {
	return setSlotOverwrite(node, e, newChild)
}

// setSlotOverwrite replaces the value currently occupying slot e on node
// with value, without changing the slot's length.
func setSlotOverwrite(node *tree.Node, e path.Elem, value interface{}) (*tree.Node, error) {
	switch e.Kind {
	case path.Index:
		slot, ok := node.Class().SingleChildSlot()
		if !ok {
			return nil, fmt.Errorf("%w: bare index requires exactly one child slot on class %q", terr.ErrInvalidPath, node.Class().Name)
		}
		return overwriteListElem(node, slot, e.Idx, value)
	case path.Slot:
		desc, ok := node.Class().Slot(e.Slot)
		if !ok || desc.Kind != tree.ScalarSlot {
			return nil, fmt.Errorf("%w: no scalar slot %q on class %q", terr.ErrInvalidPath, e.Slot, node.Class().Name)
		}
		return node.Copy(tree.WithScalar(e.Slot, value)), nil
	case path.SlotAt:
		desc, ok := node.Class().Slot(e.Slot)
		if !ok || desc.Kind != tree.ListSlot {
			return nil, fmt.Errorf("%w: no list slot %q on class %q", terr.ErrInvalidPath, e.Slot, node.Class().Name)
		}
		return overwriteListElem(node, e.Slot, e.Idx, value)
	default:
		return nil, fmt.Errorf("%w: %s is not a valid edit target", terr.ErrInvalidPath, e)
	}
}

func overwriteListElem(node *tree.Node, slot string, idx int, value interface{}) (*tree.Node, error) {
	list := node.List(slot)
	if idx < 0 || idx >= len(list) {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d) in slot %q", terr.ErrInvalidPath, idx, len(list), slot)
	}
	nl := append([]interface{}(nil), list...)
	nl[idx] = value
	return node.Copy(tree.WithList(slot, nl)), nil
}

// removeListAt drops the element addressed by e from node's list slot.
func removeListAt(node *tree.Node, e path.Elem) (*tree.Node, error) {
	slot, idx, err := listTarget(node, e)
	if err != nil {
		return nil, err
	}
	list := node.List(slot)
	if idx < 0 || idx >= len(list) {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d) in slot %q", terr.ErrInvalidPath, idx, len(list), slot)
	}
	nl := make([]interface{}, 0, len(list)-1)
	nl = append(nl, list[:idx]...)
	nl = append(nl, list[idx+1:]...)
	return node.Copy(tree.WithList(slot, nl)), nil
}

// spliceListAt inserts values (zero or more) into node's list slot at the
// position addressed by e. e.Idx == len(list) is a legal "insert at the
// end" position.
func spliceListAt(node *tree.Node, e path.Elem, values []interface{}) (*tree.Node, error) {
	slot, idx, err := listTarget(node, e)
	if err != nil {
		return nil, err
	}
	list := node.List(slot)
	if idx < 0 || idx > len(list) {
		return nil, fmt.Errorf("%w: insertion index %d out of range [0,%d] in slot %q", terr.ErrInvalidPath, idx, len(list), slot)
	}
	nl := make([]interface{}, 0, len(list)+len(values))
	nl = append(nl, list[:idx]...)
	nl = append(nl, values...)
	nl = append(nl, list[idx:]...)
	return node.Copy(tree.WithList(slot, nl)), nil
}

// listTarget resolves e to a (slot, index) pair on node, requiring a list
// slot (Index requires node to have exactly one, which must be a list).
func listTarget(node *tree.Node, e path.Elem) (string, int, error) {
	switch e.Kind {
	case path.Index:
		slot, ok := node.Class().SingleChildSlot()
		if !ok {
			return "", 0, fmt.Errorf("%w: bare index requires exactly one child slot on class %q", terr.ErrInvalidPath, node.Class().Name)
		}
		return slot, e.Idx, nil
	case path.SlotAt:
		desc, ok := node.Class().Slot(e.Slot)
		if !ok || desc.Kind != tree.ListSlot {
			return "", 0, fmt.Errorf("%w: no list slot %q on class %q", terr.ErrInvalidPath, e.Slot, node.Class().Name)
		}
		return e.Slot, e.Idx, nil
	default:
		return "", 0, fmt.Errorf("%w: %s does not address a list position", terr.ErrInvalidPath, e)
	}
}

// rebuild is the shared recursive engine behind with/less/splice/insert:
// it walks node down to the parent of the element addressed by the last
// element of p, calls fn on that parent and the last element, and
// rebuilds every visited ancestor via copy so untouched siblings and
// subtrees keep their identity (spec §4.H).
func rebuild(node *tree.Node, p path.Path, fn func(parent *tree.Node, last path.Elem) (*tree.Node, error)) (*tree.Node, error) {
	if len(p) == 1 {
		return fn(node, p[0])
	}
	child, err := childAt(node, p[0])
	if err != nil {
		return nil, err
	}
	newChild, err := rebuild(child, p[1:], fn)
	if err != nil {
		return nil, err
	}
	return overwriteChild(node, p[0], newChild)
}

// With replaces the node (or leaf) at path with value, returning the new
// root. The empty path replaces the whole tree; value must then be a
// *tree.Node.
func With(root *tree.Node, p path.Path, value interface{}) (*tree.Node, error) {
	if len(p) == 0 {
		nv, ok := value.(*tree.Node)
		if !ok {
			return nil, fmt.Errorf("%w: replacing the empty path requires a node value", terr.ErrInvalidPath)
		}
		return nv.Copy(tree.WithBackref(root)), nil
	}
	newRoot, err := rebuild(root, p, func(parent *tree.Node, last path.Elem) (*tree.Node, error) {
		return setSlotOverwrite(parent, last, value)
	})
	if err != nil {
		return nil, err
	}
	return newRoot.Copy(tree.WithBackref(root)), nil
}

// WithNode is With, addressing the target by identity instead of path.
func WithNode(root *tree.Node, target *tree.Node, value interface{}) (*tree.Node, error) {
	p, err := tree.PathOfNode(root, target)
	if err != nil {
		return nil, err
	}
	return With(root, p, value)
}

// Less deletes the node at path, returning the new root. Deleting the
// empty path is a caller error (spec §4.H).
func Less(root *tree.Node, p path.Path) (*tree.Node, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: cannot delete the empty path", terr.ErrInvalidPath)
	}
	newRoot, err := rebuild(root, p, removeListAt)
	if err != nil {
		return nil, err
	}
	return newRoot.Copy(tree.WithBackref(root)), nil
}

// LessNode is Less, addressing the target by identity instead of path.
func LessNode(root *tree.Node, target *tree.Node) (*tree.Node, error) {
	p, err := tree.PathOfNode(root, target)
	if err != nil {
		return nil, err
	}
	return Less(root, p)
}

// Splice inserts values (which may be empty, making Splice a structural
// no-op — spec §8 property 8) at path, returning the new root.
func Splice(root *tree.Node, p path.Path, values []interface{}) (*tree.Node, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: splice requires a non-empty path", terr.ErrInvalidPath)
	}
	newRoot, err := rebuild(root, p, func(parent *tree.Node, last path.Elem) (*tree.Node, error) {
		return spliceListAt(parent, last, values)
	})
	if err != nil {
		return nil, err
	}
	return newRoot.Copy(tree.WithBackref(root)), nil
}

// Insert is Splice with a single value (spec §4.H).
func Insert(root *tree.Node, p path.Path, value interface{}) (*tree.Node, error) {
	return Splice(root, p, []interface{}{value})
}

// Swap exchanges the subtrees at loc1 and loc2. It is implemented as two
// Withs and is commutative in its arguments (spec §4.H). loc1 and loc2
// must not be prefixes of one another. The result's transform
// back-reference chain has two hops (to the intermediate tree, which
// itself points at root); Finger translation walks multi-hop chains
// transparently, so this does not need to be collapsed into one hop.
func Swap(root *tree.Node, loc1, loc2 path.Path) (*tree.Node, error) {
	v1, err := tree.Lookup(root, loc1)
	if err != nil {
		return nil, err
	}
	v2, err := tree.Lookup(root, loc2)
	if err != nil {
		return nil, err
	}
	mid, err := With(root, loc1, v2)
	if err != nil {
		return nil, err
	}
	return With(mid, loc2, v1)
}
