package tree

import (
	"fmt"

	"ptree/core/path"
	"ptree/core/terr"
)

// step resolves a single path element against node, returning the child
// value (possibly a non-node leaf) it designates.
func step(node *Node, e path.Elem) (interface{}, error) {
	switch e.Kind {
	case path.Index:
		slot, ok := node.class.SingleChildSlot()
		if !ok {
			return nil, fmt.Errorf("%w: bare index %d requires exactly one child slot, class %q declares %d",
				terr.ErrInvalidPath, e.Idx, node.class.Name, len(node.class.Slots))
		}
		desc, _ := node.class.Slot(slot)
		return indexInto(node, desc, slot, e.Idx)
	case path.Slot:
		desc, ok := node.class.Slot(e.Slot)
		if !ok || desc.Kind != ScalarSlot {
			return nil, fmt.Errorf("%w: no scalar slot %q on class %q", terr.ErrInvalidPath, e.Slot, node.class.Name)
		}
		v, ok := node.scalars[e.Slot]
		if !ok || v == nil {
			return nil, fmt.Errorf("%w: scalar slot %q unset on class %q", terr.ErrInvalidPath, e.Slot, node.class.Name)
		}
		return v, nil
	case path.SlotAt:
		desc, ok := node.class.Slot(e.Slot)
		if !ok || desc.Kind != ListSlot {
			return nil, fmt.Errorf("%w: no list slot %q on class %q", terr.ErrInvalidPath, e.Slot, node.class.Name)
		}
		return indexInto(node, desc, e.Slot, e.Idx)
	default:
		return nil, fmt.Errorf("%w: path element %s is not valid outside a transform pattern", terr.ErrInvalidPath, e)
	}
}

func indexInto(node *Node, desc SlotDesc, slot string, idx int) (interface{}, error) {
	list := node.lists[slot]
	if idx < 0 || idx >= len(list) {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d) in slot %q of class %q",
			terr.ErrInvalidPath, idx, len(list), slot, node.class.Name)
	}
	return list[idx], nil
}

// Lookup walks p from root and returns whatever value it designates: a
// *Node, or a non-node leaf if the path terminates on one. The empty path
// returns root itself (spec §8: "Empty path lookups return the root").
func Lookup(root *Node, p path.Path) (interface{}, error) {
	var cur interface{} = root
	for i, e := range p {
		node, ok := cur.(*Node)
		if !ok {
			return nil, fmt.Errorf("%w: path element %d (%s) indexes into a non-node value", terr.ErrInvalidPath, i, e)
		}
		v, err := step(node, e)
		if err != nil {
			return nil, err
		}
		cur = v
	}
	return cur, nil
}

// LookupNode is Lookup, but additionally requires the resolved value to be
// a *Node.
func LookupNode(root *Node, p path.Path) (*Node, error) {
	v, err := Lookup(root, p)
	if err != nil {
		return nil, err
	}
	n, ok := v.(*Node)
	if !ok {
		return nil, fmt.Errorf("%w: path %s resolves to a non-node leaf", terr.ErrInvalidPath, p)
	}
	return n, nil
}

// PathOfNode performs an identity-based search for target under root and
// returns the path to it, preorder-first if target occurs more than once
// (which acyclicity and identity uniqueness make impossible within a
// single valid tree). Fails with terr.ErrNodeNotFound when target does not
// occur under root (spec §4.H, §9 open question).
func PathOfNode(root *Node, target *Node) (path.Path, error) {
	var found path.Path
	ok := false
	WalkRPaths(root, func(n *Node, rpath path.Path) bool {
		if ok {
			return false
		}
		if n.Serial() == target.Serial() {
			found = reversePath(rpath)
			ok = true
			return false
		}
		return true
	})
	if !ok {
		return nil, fmt.Errorf("%w: serial %d under class %q root", terr.ErrNodeNotFound, target.Serial(), root.class.Name)
	}
	return found, nil
}

func reversePath(rpath path.Path) path.Path {
	out := make(path.Path, len(rpath))
	for i, e := range rpath {
		out[len(rpath)-1-i] = e
	}
	return out
}
