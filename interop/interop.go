// Package interop implements the external interop surface an ordered-
// sequence/immutable-map library would sit on top of: polymorphic lookup,
// list/alist conversion, and size (spec §6).
package interop

import (
	"fmt"

	"ptree/core/finger"
	"ptree/core/path"
	"ptree/core/terr"
	"ptree/core/tree"
)

// Lookup dispatches on the dynamic type of key (spec §6):
//   - nil or an empty path.Path: returns container itself.
//   - path.Path: recursive descent, as tree.Lookup.
//   - path.Elem (a bare (slot, index) or scalar-slot path tip): a single
//     element lookup.
//   - int: children(container)[key].
//   - *finger.Finger: resolves the finger and returns its cached target
//     alongside any residue it carries.
//
// The returned path.Path is only ever non-nil for the *finger.Finger case.
func Lookup(container *tree.Node, key interface{}) (interface{}, path.Path, error) {
	switch k := key.(type) {
	case nil:
		return container, nil, nil
	case path.Path:
		v, err := tree.Lookup(container, k)
		return v, nil, err
	case path.Elem:
		v, err := tree.Lookup(container, path.Path{k})
		return v, nil, err
	case int:
		children := container.Children()
		if k < 0 || k >= len(children) {
			return nil, nil, fmt.Errorf("%w: index %d out of range [0,%d)", terr.ErrInvalidPath, k, len(children))
		}
		return children[k], nil, nil
	case *finger.Finger:
		v, err := k.Resolve()
		return v, k.Residue(), err
	default:
		return nil, nil, fmt.Errorf("%w: unsupported lookup key type %T", terr.ErrInvalidPath, key)
	}
}

// ValueFn maps a node to the value ConvertList/ConvertAlist place at its
// position; the default is (*tree.Node).Data.
type ValueFn func(*tree.Node) interface{}

// ConvertList returns container's nested-list representation:
// (value, child1, child2, ...) recursively, using valueFn (or Data if nil)
// for each node's own value (spec §6).
func ConvertList(container *tree.Node, valueFn ValueFn) interface{} {
	if valueFn == nil {
		valueFn = (*tree.Node).Data
	}
	return convertList(container, valueFn)
}

func convertList(v interface{}, valueFn ValueFn) interface{} {
	node, ok := v.(*tree.Node)
	if !ok {
		return v
	}
	out := make([]interface{}, 0, 1+len(node.Children()))
	out = append(out, valueFn(node))
	for _, c := range node.Children() {
		out = append(out, convertList(c, valueFn))
	}
	return out
}

// SlotValue is one entry of a ConvertAlist node representation.
type SlotValue struct {
	Slot  string
	Value interface{}
}

// ConvertAlist returns container's representation as nested lists of
// (slot_name, value) pairs, covering every declared child slot (spec §6).
// Non-node leaves are returned unchanged.
func ConvertAlist(container *tree.Node) interface{} {
	return convertAlist(container)
}

func convertAlist(v interface{}) interface{} {
	node, ok := v.(*tree.Node)
	if !ok {
		return v
	}
	var out []SlotValue
	for _, s := range node.Class().Slots {
		switch s.Kind {
		case tree.ScalarSlot:
			val := node.Scalar(s.Name)
			if val == nil {
				continue
			}
			out = append(out, SlotValue{Slot: s.Name, Value: convertAlist(val)})
		case tree.ListSlot:
			for _, c := range node.List(s.Name) {
				out = append(out, SlotValue{Slot: s.Name, Value: convertAlist(c)})
			}
		}
	}
	return out
}

// ConvertFinger returns f's cached target's list representation, or the
// cached non-node leaf value if f resolved to a leaf (spec §4.E convert).
func ConvertFinger(f *finger.Finger) (interface{}, error) {
	v, err := f.Resolve()
	if err != nil {
		return nil, err
	}
	if node, ok := v.(*tree.Node); ok {
		return ConvertList(node, nil), nil
	}
	return v, nil
}

// Size returns 1 + the sum of the sizes of container's children, where a
// non-node leaf child counts as 1 (spec §6).
func Size(container *tree.Node) int { return tree.Size(container) }
