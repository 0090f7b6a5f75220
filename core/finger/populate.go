package finger

import (
	"ptree/core/path"
	"ptree/core/tree"
)

// PopulateFingers performs a single pass setting every node reachable from
// root's finger slot to a finger anchored at root (spec §6). It is
// idempotent: nodes that already carry a finger (from an earlier call,
// possibly via a shared subtree published under a different root first)
// are left untouched, per tree.Node.SetFingerOnce.
func PopulateFingers(root *tree.Node) {
	tree.WalkRPaths(root, func(n *tree.Node, rpath path.Path) bool {
		n.SetFingerOnce(New(root, reversePath(rpath)))
		return true
	})
}

func reversePath(rpath path.Path) path.Path {
	out := make(path.Path, len(rpath))
	for i, e := range rpath {
		out[len(rpath)-1-i] = e
	}
	return out
}
