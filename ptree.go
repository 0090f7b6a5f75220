// Package ptree re-exports the external interface of the persistent
// labeled tree library (spec §6) so callers need not know the internal
// core/... package layout, the same shape as the teacher repository this
// module is adapted from sits a thin top-level package over its
// core/... tree.
package ptree

import (
	"ptree/core/finger"
	"ptree/core/ident"
	"ptree/core/path"
	"ptree/core/terr"
	"ptree/core/transform"
	"ptree/core/tree"
	"ptree/edit"
	"ptree/interop"
	"ptree/search"
)

// Core data types.
type (
	// Serial is a node's stable, process-unique identity.
	Serial = ident.Serial
	// Class is a node variant's child-slot descriptor table.
	Class = tree.Class
	// SlotDesc declares one child slot of a Class.
	SlotDesc = tree.SlotDesc
	// Node is a persistent tree node.
	Node = tree.Node
	// Option configures a Node at construction or copy time.
	Option = tree.Option
	// Path locates a descendant node from a root.
	Path = path.Path
	// Elem is one element of a Path.
	Elem = path.Elem
	// Finger is a bound (root, path) reference with cached resolution.
	Finger = finger.Finger
	// Transform is a compact path-rewrite table (spec §4.F).
	Transform = transform.Transform
	// TransformChain composes a sequence of Transforms.
	TransformChain = transform.Chain
	// Predicate tests a node's data value.
	Predicate = search.Predicate
)

// Slot kinds.
const (
	ScalarSlot = tree.ScalarSlot
	ListSlot   = tree.ListSlot
)

// Error kinds (spec §7). Compare with errors.Is.
var (
	ErrInvalidPath           = terr.ErrInvalidPath
	ErrNodeNotFound          = terr.ErrNodeNotFound
	ErrInvalidTransformApply = terr.ErrInvalidTransformApply
	ErrIdentityCollision     = terr.ErrIdentityCollision
)

// Path element constructors.
func PathInt(i int) Elem                     { return path.Int(i) }
func PathNamed(slot string) Elem             { return path.Named(slot) }
func PathAt(slot string, idx int) Elem       { return path.At(slot, idx) }
func PathRange(slot string, lo, hi int) Elem { return path.Range(slot, lo, hi) }

// NewNode constructs a fresh node of the given class (spec §6
// make_node).
func NewNode(class *Class, opts ...Option) *Node { return tree.New(class, opts...) }

// Children returns the ordered concatenation of node's child-slot
// contents.
func Children(node *Node) []interface{} { return node.Children() }

// Data returns node's declared data slot value, or node itself when none
// is declared.
func Data(node *Node) interface{} { return node.Data() }

// Copy returns a copy of node with overrides applied, preserving its
// serial number unless overridden.
func Copy(node *Node, opts ...Option) *Node { return node.Copy(opts...) }

// Size returns 1 + the sum of the sizes of node's children, where a
// non-node leaf child counts as 1.
func Size(node *Node) int { return tree.Size(node) }

// Functional edit API (spec §4.H).
func With(root *Node, p Path, value interface{}) (*Node, error) { return edit.With(root, p, value) }
func WithNode(root, target *Node, value interface{}) (*Node, error) {
	return edit.WithNode(root, target, value)
}
func Less(root *Node, p Path) (*Node, error)    { return edit.Less(root, p) }
func LessNode(root, target *Node) (*Node, error) { return edit.LessNode(root, target) }
func Insert(root *Node, p Path, value interface{}) (*Node, error) {
	return edit.Insert(root, p, value)
}
func Splice(root *Node, p Path, values []interface{}) (*Node, error) {
	return edit.Splice(root, p, values)
}
func Swap(root *Node, loc1, loc2 Path) (*Node, error) { return edit.Swap(root, loc1, loc2) }

// Search/reduction API (spec §4.I).
func Reduce(root *Node, fn func(acc, data interface{}) interface{}, init interface{}) interface{} {
	return search.Reduce(root, fn, init)
}
func Find(root *Node, target interface{}) (interface{}, bool)    { return search.Find(root, target) }
func FindIf(root *Node, pred Predicate) (interface{}, bool)      { return search.FindIf(root, pred) }
func FindIfNot(root *Node, pred Predicate) (interface{}, bool)   { return search.FindIfNot(root, pred) }
func Count(root *Node, target interface{}) int                   { return search.Count(root, target) }
func CountIf(root *Node, pred Predicate) int                     { return search.CountIf(root, pred) }
func CountIfNot(root *Node, pred Predicate) int                  { return search.CountIfNot(root, pred) }
func Position(root *Node, target interface{}) (Path, bool)       { return search.Position(root, target) }
func PositionIf(root *Node, pred Predicate) (Path, bool)         { return search.PositionIf(root, pred) }
func MapTree(root *Node, fn func(interface{}) (interface{}, bool)) *Node {
	return search.MapTree(root, fn)
}
func RemoveNode(root *Node, target interface{}) (*Node, bool) { return search.Remove(root, target) }
func RemoveIf(root *Node, pred Predicate) (*Node, bool)       { return search.RemoveIf(root, pred) }
func RemoveIfNot(root *Node, pred Predicate) (*Node, bool)    { return search.RemoveIfNot(root, pred) }
func Substitute(root *Node, old, newVal interface{}) *Node    { return search.Substitute(root, old, newVal) }
func SubstituteIf(root *Node, pred Predicate, newVal interface{}) *Node {
	return search.SubstituteIf(root, pred, newVal)
}
func SubstituteIfNot(root *Node, pred Predicate, newVal interface{}) *Node {
	return search.SubstituteIfNot(root, pred, newVal)
}
func SubstituteWith(root *Node, fn func(interface{}) (interface{}, bool)) *Node {
	return search.SubstituteWith(root, fn)
}

// Finger construction, resolution, and translation (spec §4.E).
func NewFinger(root *Node, p Path) *Finger { return finger.New(root, p) }
func TransformFinger(f *Finger, target *Node) (*Finger, error) {
	return finger.Transform(f, target)
}
func FingersEqual(f, g *Finger) (bool, error) { return finger.Equal(f, g) }
func PopulateFingers(root *Node)              { finger.PopulateFingers(root) }

// Transform derivation and application (spec §4.F, §4.G).
func DeriveTransform(from, to *Node) *Transform { return transform.Derive(from, to) }
func ComposeTransforms(steps ...*Transform) *TransformChain {
	return transform.Compose(steps...)
}

// Interop surface (spec §6).
func Lookup(container *Node, key interface{}) (interface{}, Path, error) {
	return interop.Lookup(container, key)
}
func ConvertList(container *Node, valueFn interop.ValueFn) interface{} {
	return interop.ConvertList(container, valueFn)
}
func ConvertAlist(container *Node) interface{} { return interop.ConvertAlist(container) }
func ConvertFinger(f *Finger) (interface{}, error) { return interop.ConvertFinger(f) }

// Validation predicates (spec §7). Advisory: callers may precheck
// non-trivial combinations before committing an edit; the edit API does
// not call these itself.
func NodeValid(root *Node) error                      { return tree.NodeValid(root) }
func NodesDisjoint(a, b *Node) error                  { return tree.NodesDisjoint(a, b) }
func NodeCanImplant(root, replaced, candidate *Node) error {
	return tree.NodeCanImplant(root, replaced, candidate)
}
