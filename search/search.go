// Package search implements the read-only search and reduction API lifted
// over the tree's preorder data sequence: find, count, position, reduce
// (spec §4.I). The mutating half of §4.I — map_tree, remove*, substitute*,
// subst* — lives in mutate.go of this same package.
package search

import (
	"ptree/core/path"
	"ptree/core/tree"
)

// Predicate tests a node's data value.
type Predicate func(data interface{}) bool

// Reduce left-folds fn over the preorder sequence of root's node data,
// starting from init.
func Reduce(root *tree.Node, fn func(acc, data interface{}) interface{}, init interface{}) interface{} {
	acc := init
	tree.Walk(root, func(n *tree.Node) bool {
		acc = fn(acc, n.Data())
		return true
	})
	return acc
}

// Find returns the data of the first node in preorder whose data equals
// target, and whether one was found.
func Find(root *tree.Node, target interface{}) (interface{}, bool) {
	return FindIf(root, func(d interface{}) bool { return d == target })
}

// FindIf returns the data of the first node in preorder satisfying pred.
func FindIf(root *tree.Node, pred Predicate) (interface{}, bool) {
	var found interface{}
	ok := false
	tree.Walk(root, func(n *tree.Node) bool {
		if ok {
			return false
		}
		if pred(n.Data()) {
			found, ok = n.Data(), true
			return false
		}
		return true
	})
	return found, ok
}

// FindIfNot returns the data of the first node in preorder whose data does
// not satisfy pred.
func FindIfNot(root *tree.Node, pred Predicate) (interface{}, bool) {
	return FindIf(root, func(d interface{}) bool { return !pred(d) })
}

// Count returns the number of nodes whose data equals target.
func Count(root *tree.Node, target interface{}) int {
	return CountIf(root, func(d interface{}) bool { return d == target })
}

// CountIf returns the number of nodes whose data satisfies pred.
func CountIf(root *tree.Node, pred Predicate) int {
	n := 0
	tree.Walk(root, func(node *tree.Node) bool {
		if pred(node.Data()) {
			n++
		}
		return true
	})
	return n
}

// CountIfNot returns the number of nodes whose data does not satisfy pred.
func CountIfNot(root *tree.Node, pred Predicate) int {
	return CountIf(root, func(d interface{}) bool { return !pred(d) })
}

// Position returns the path of the first node in preorder whose data
// equals target (spec §4.I). It never mutates root.
func Position(root *tree.Node, target interface{}) (path.Path, bool) {
	return PositionIf(root, func(d interface{}) bool { return d == target })
}

// PositionIf returns the path of the first node in preorder whose data
// satisfies pred.
func PositionIf(root *tree.Node, pred Predicate) (path.Path, bool) {
	var found path.Path
	ok := false
	tree.WalkRPaths(root, func(n *tree.Node, rpath path.Path) bool {
		if ok {
			return false
		}
		if pred(n.Data()) {
			found, ok = reverse(rpath), true
			return false
		}
		return true
	})
	return found, ok
}

func reverse(rpath path.Path) path.Path {
	out := make(path.Path, len(rpath))
	for i, e := range rpath {
		out[len(rpath)-1-i] = e
	}
	return out
}
