package tree

import "ptree/core/path"

// Visitor is called on every node encountered by Walk, preorder. Returning
// false prunes that node's subtree from the walk (spec §4.D).
type Visitor func(n *Node) bool

// Walk performs a preorder, left-to-right traversal of root, calling visit
// on every *Node reached; non-node leaves encountered via Children are
// passed through without recursion (spec §4.D).
func Walk(root *Node, visit Visitor) {
	if !visit(root) {
		return
	}
	for _, c := range root.Children() {
		if child, ok := c.(*Node); ok {
			Walk(child, visit)
		}
	}
}

// RVisitor is called on every node encountered by WalkRPaths, together
// with the reverse path of elements from root to that node (innermost
// element first), which is cheap to build by prepending during descent;
// callers reverse it when they need the forward path (spec §4.D).
type RVisitor func(n *Node, rpath path.Path) bool

// WalkRPaths is Walk, additionally threading the reverse path to each
// node.
func WalkRPaths(root *Node, visit RVisitor) {
	walkRPaths(root, nil, visit)
}

func walkRPaths(n *Node, rpath path.Path, visit RVisitor) {
	if !visit(n, rpath) {
		return
	}
	single, isSingle := n.class.SingleChildSlot()
	for _, s := range n.class.Slots {
		switch s.Kind {
		case ScalarSlot:
			v, ok := n.scalars[s.Name]
			if !ok || v == nil {
				continue
			}
			if child, ok := v.(*Node); ok {
				walkRPaths(child, prepend(rpath, path.Named(s.Name)), visit)
			}
		case ListSlot:
			for i, v := range n.lists[s.Name] {
				child, ok := v.(*Node)
				if !ok {
					continue
				}
				var elem path.Elem
				if isSingle && single == s.Name {
					elem = path.Int(i)
				} else {
					elem = path.At(s.Name, i)
				}
				walkRPaths(child, prepend(rpath, elem), visit)
			}
		}
	}
}

// prepend returns a new reverse path with e as its new head, without
// aliasing rpath's backing array.
func prepend(rpath path.Path, e path.Elem) path.Path {
	out := make(path.Path, len(rpath)+1)
	out[0] = e
	copy(out[1:], rpath)
	return out
}
