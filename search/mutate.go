package search

import "ptree/core/tree"

// dataOf returns v's data() view: a node's declared data slot, or v itself
// when v is not a node (spec §4.C).
func dataOf(v interface{}) interface{} {
	if n, ok := v.(*tree.Node); ok {
		return n.Data()
	}
	return v
}

// rebuildSlots is the shared recursive engine behind MapTree and the
// remove*/substitute* families below: it applies step to every node and
// leaf reachable from v in preorder, rebuilding each visited ancestor via
// Copy only when something beneath it actually changed, so untouched
// subtrees keep their exact identity (spec §8 worked scenario 2).
//
// step returns (replacement, recurse): recurse false means replacement is
// final and its subtree (if it has one) is not visited; recurse true
// means rebuildSlots descends into replacement's children, if any, and
// returns replacement itself when none of them changed.
func rebuildSlots(v interface{}, step func(interface{}) (interface{}, bool)) interface{} {
	replacement, recurse := step(v)
	if !recurse {
		return replacement
	}
	node, ok := replacement.(*tree.Node)
	if !ok {
		return replacement
	}

	changed := false
	newScalars := map[string]interface{}{}
	newLists := map[string][]interface{}{}

	for _, s := range node.Class().Slots {
		switch s.Kind {
		case tree.ScalarSlot:
			old := node.Scalar(s.Name)
			if old == nil {
				continue
			}
			nv := rebuildSlots(old, step)
			newScalars[s.Name] = nv
			if nv != old {
				changed = true
			}
		case tree.ListSlot:
			oldList := node.List(s.Name)
			nl := make([]interface{}, len(oldList))
			for i, ov := range oldList {
				nv := rebuildSlots(ov, step)
				nl[i] = nv
				if nv != ov {
					changed = true
				}
			}
			newLists[s.Name] = nl
		}
	}

	if !changed {
		return replacement
	}
	opts := make([]tree.Option, 0, len(newScalars)+len(newLists))
	for k, val := range newScalars {
		opts = append(opts, tree.WithScalar(k, val))
	}
	for k, val := range newLists {
		opts = append(opts, tree.WithList(k, val))
	}
	return node.Copy(opts...)
}

// MapTree rewrites root preorder: fn is called on each node before
// recursion; its second return value suppresses descent into the
// (possibly replaced) value (spec §4.I).
func MapTree(root *tree.Node, fn func(n interface{}) (replacement interface{}, stop bool)) *tree.Node {
	out := rebuildSlots(root, func(v interface{}) (interface{}, bool) {
		replacement, stop := fn(v)
		return replacement, !stop
	})
	return out.(*tree.Node)
}

// dropMarker is returned internally by removeRebuild to signal "drop this
// element"; it can never collide with real tree content since its type is
// unexported.
type dropMarker struct{}

var dropped = dropMarker{}

// RemoveIf drops every node whose data satisfies pred, rebuilding
// ancestors. If the root itself is removed, it returns (nil, false) (spec
// §4.I: "if the root itself is removed, returns an empty/absent value").
func RemoveIf(root *tree.Node, pred Predicate) (*tree.Node, bool) {
	out := removeRebuild(root, pred)
	if out == dropped {
		return nil, false
	}
	return out.(*tree.Node), true
}

// Remove drops every node whose data equals target.
func Remove(root *tree.Node, target interface{}) (*tree.Node, bool) {
	return RemoveIf(root, func(d interface{}) bool { return d == target })
}

// RemoveIfNot drops every node whose data does not satisfy pred.
func RemoveIfNot(root *tree.Node, pred Predicate) (*tree.Node, bool) {
	return RemoveIf(root, func(d interface{}) bool { return !pred(d) })
}

func removeRebuild(v interface{}, pred Predicate) interface{} {
	if pred(dataOf(v)) {
		return dropped
	}
	node, ok := v.(*tree.Node)
	if !ok {
		return v
	}

	changed := false
	newScalars := map[string]interface{}{}
	newLists := map[string][]interface{}{}

	for _, s := range node.Class().Slots {
		switch s.Kind {
		case tree.ScalarSlot:
			old := node.Scalar(s.Name)
			if old == nil {
				continue
			}
			nv := removeRebuild(old, pred)
			if nv == dropped {
				newScalars[s.Name] = nil
				changed = true
				continue
			}
			newScalars[s.Name] = nv
			if nv != old {
				changed = true
			}
		case tree.ListSlot:
			oldList := node.List(s.Name)
			var nl []interface{}
			for _, ov := range oldList {
				nv := removeRebuild(ov, pred)
				if nv == dropped {
					changed = true
					continue
				}
				nl = append(nl, nv)
				if nv != ov {
					changed = true
				}
			}
			newLists[s.Name] = nl
		}
	}

	if !changed {
		return v
	}
	opts := make([]tree.Option, 0, len(newScalars)+len(newLists))
	for k, val := range newScalars {
		opts = append(opts, tree.WithScalar(k, val))
	}
	for k, val := range newLists {
		opts = append(opts, tree.WithList(k, val))
	}
	return node.Copy(opts...)
}

// SubstituteWith replaces every value for which fn reports a substitution
// (a non-nil value, or force=true) with that value, without recursing
// into the replacement. Values for which fn declines are recursed into
// when they are nodes, and left untouched otherwise (spec §4.I).
func SubstituteWith(root *tree.Node, fn func(v interface{}) (value interface{}, force bool)) *tree.Node {
	out := SubstWith(root, fn)
	return out.(*tree.Node)
}

// SubstWith is SubstituteWith generalized to an arbitrary (possibly
// non-node) input, matching the spec's subst_with alias (spec §4.I).
func SubstWith(v interface{}, fn func(v interface{}) (value interface{}, force bool)) interface{} {
	return rebuildSlots(v, func(cur interface{}) (interface{}, bool) {
		value, force := fn(cur)
		if force || value != nil {
			return value, false
		}
		return cur, true
	})
}

// Substitute replaces every node/leaf whose data equals old with newVal.
func Substitute(root *tree.Node, old, newVal interface{}) *tree.Node {
	return SubstituteIf(root, func(d interface{}) bool { return d == old }, newVal)
}

// SubstituteIf replaces every node/leaf whose data satisfies pred with
// newVal.
func SubstituteIf(root *tree.Node, pred Predicate, newVal interface{}) *tree.Node {
	return SubstituteWith(root, func(v interface{}) (interface{}, bool) {
		if pred(dataOf(v)) {
			return newVal, true
		}
		return nil, false
	})
}

// SubstituteIfNot replaces every node/leaf whose data does not satisfy
// pred with newVal.
func SubstituteIfNot(root *tree.Node, pred Predicate, newVal interface{}) *tree.Node {
	return SubstituteIf(root, func(d interface{}) bool { return !pred(d) }, newVal)
}

// Subst is Substitute generalized to an arbitrary (possibly non-node)
// input (spec §4.I: "subst ... aliases that also cover plain ... inputs").
func Subst(v interface{}, old, newVal interface{}) interface{} {
	return SubstIf(v, func(d interface{}) bool { return d == old }, newVal)
}

// SubstIf is SubstituteIf generalized to an arbitrary input.
func SubstIf(v interface{}, pred Predicate, newVal interface{}) interface{} {
	return SubstWith(v, func(cur interface{}) (interface{}, bool) {
		if pred(dataOf(cur)) {
			return newVal, true
		}
		return nil, false
	})
}

// SubstIfNot is SubstituteIfNot generalized to an arbitrary input.
func SubstIfNot(v interface{}, pred Predicate, newVal interface{}) interface{} {
	return SubstIf(v, func(d interface{}) bool { return !pred(d) }, newVal)
}
