// Package tree implements the persistent, identity-stable node model:
// class-declared child slots, construction, copy-with-overrides, and the
// generic children()/data() views every other package builds on (spec §3,
// §4.C).
package tree

import (
	"sync"

	"ptree/core/ident"
	"ptree/core/path"
)

// SlotKind says whether a child slot holds a single value or an ordered
// list of values.
type SlotKind int

const (
	// ScalarSlot holds at most one child, addressed by its slot name.
	ScalarSlot SlotKind = iota
	// ListSlot holds an ordered list of children, addressed by
	// (slot name, index).
	ListSlot
)

// SlotDesc is one entry of a Class's child-slot declaration.
type SlotDesc struct {
	Name string
	Kind SlotKind
}

// Class is the class-level descriptor shared by every node of one
// variant: its ordered child-slot layout and the name of its data slot
// (spec §9: "a per-variant constant descriptor table"). A Class is
// immutable once built and is safe to share across goroutines and across
// every node instance of that variant.
type Class struct {
	// Name identifies the variant for diagnostics (e.g. "BinaryExpr").
	Name string
	// Slots is the ordered child-slot declaration. children() walks
	// slots in this order.
	Slots []SlotDesc
	// DataSlot is the attribute data(node) resolves to. Three shapes:
	// "" (data(node) is the node itself), "@payload" (data(node) is the
	// node's free-standing Payload value), or a name matching one of
	// Slots (data(node) is that scalar slot's current value).
	DataSlot string
}

// Slot looks up a slot descriptor by name.
func (c *Class) Slot(name string) (SlotDesc, bool) {
	for _, s := range c.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return SlotDesc{}, false
}

// SingleChildSlot returns the sole slot name when the class declares
// exactly one child slot and it is a list slot, which is what makes a
// bare integer path element legal against nodes of this class: it indexes
// into that one child-list (spec §3).
func (c *Class) SingleChildSlot() (string, bool) {
	if len(c.Slots) != 1 || c.Slots[0].Kind != ListSlot {
		return "", false
	}
	return c.Slots[0].Name, true
}

// PayloadDataSlot is the DataSlot sentinel naming the free-standing
// Payload field rather than a child slot.
const PayloadDataSlot = "@payload"

// Node is a single persistent tree node. Node values are never mutated
// after construction except for the two idempotent caches described in
// spec §5: the lazily-materialized transform back-reference and the
// once-only finger slot.
type Node struct {
	class  *Class
	serial ident.Serial

	payload interface{}
	scalars map[string]interface{}
	lists   map[string][]interface{}

	mu      sync.Mutex
	backref interface{} // nil | *Node (predecessor) | materialized transform
	finger  interface{} // nil | *finger.Finger, set at most once
}

// Class returns n's variant descriptor.
func (n *Node) Class() *Class { return n.class }

// Serial returns n's stable identity.
func (n *Node) Serial() ident.Serial { return n.serial }

// Option configures a Node at construction or copy time.
type Option func(*Node)

// WithSerial pins the node's identity instead of preserving the source's
// (Copy) or allocating a fresh one (New).
func WithSerial(s ident.Serial) Option { return func(n *Node) { n.serial = s } }

// WithPayload overrides the free-standing payload value.
func WithPayload(v interface{}) Option { return func(n *Node) { n.payload = v } }

// WithScalar overrides a single scalar child slot.
func WithScalar(slot string, v interface{}) Option {
	return func(n *Node) {
		if n.scalars == nil {
			n.scalars = map[string]interface{}{}
		}
		n.scalars[slot] = v
	}
}

// WithList overrides a single list child slot. The slice is copied so the
// caller's backing array cannot alias mutable state into the tree.
func WithList(slot string, v []interface{}) Option {
	cp := append([]interface{}(nil), v...)
	return func(n *Node) {
		if n.lists == nil {
			n.lists = map[string][]interface{}{}
		}
		n.lists[slot] = cp
	}
}

// WithBackref sets the transform back-reference: either a *Node
// (predecessor, to be lazily materialized into a transform) or an opaque
// already-materialized transform value. Passing nil clears it.
func WithBackref(v interface{}) Option { return func(n *Node) { n.backref = v } }

// New constructs a fresh node of the given class. A fresh serial number is
// allocated unless WithSerial is supplied (spec §4.C, construction path 1).
func New(class *Class, opts ...Option) *Node {
	n := &Node{
		class:   class,
		serial:  ident.Next(),
		scalars: map[string]interface{}{},
		lists:   map[string][]interface{}{},
	}
	for _, s := range class.Slots {
		if s.Kind == ListSlot {
			if _, ok := n.lists[s.Name]; !ok {
				n.lists[s.Name] = nil
			}
		}
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Copy returns a new node of the same variant whose slots come from n,
// with overrides applied. Unless WithSerial is given, the copy preserves
// n's serial number — the mechanism by which structural sharing of
// identity survives an edit (spec §4.C). Unless WithBackref is given, the
// copy preserves n's current back-reference value unchanged.
func (n *Node) Copy(opts ...Option) *Node {
	cp := &Node{
		class:   n.class,
		serial:  n.serial,
		payload: n.payload,
		scalars: make(map[string]interface{}, len(n.scalars)),
		lists:   make(map[string][]interface{}, len(n.lists)),
		backref: n.currentBackref(),
	}
	for k, v := range n.scalars {
		cp.scalars[k] = v
	}
	for k, v := range n.lists {
		cp.lists[k] = append([]interface{}(nil), v...)
	}
	for _, o := range opts {
		o(cp)
	}
	return cp
}

func (n *Node) currentBackref() interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.backref
}

// Scalar returns the current value of a scalar child slot (nil if unset
// or absent).
func (n *Node) Scalar(slot string) interface{} { return n.scalars[slot] }

// List returns the current value of a list child slot (nil if absent).
// The returned slice must not be mutated by the caller.
func (n *Node) List(slot string) []interface{} { return n.lists[slot] }

// Children returns the ordered concatenation of all child-slot contents,
// the only generic view a traversal may assume (spec §4.C).
func (n *Node) Children() []interface{} {
	var out []interface{}
	for _, s := range n.class.Slots {
		switch s.Kind {
		case ScalarSlot:
			if v, ok := n.scalars[s.Name]; ok && v != nil {
				out = append(out, v)
			}
		case ListSlot:
			out = append(out, n.lists[s.Name]...)
		}
	}
	return out
}

// Data returns the declared data slot's value, or n itself when the class
// declares none (spec §4.C).
func (n *Node) Data() interface{} {
	switch n.class.DataSlot {
	case "":
		return n
	case PayloadDataSlot:
		return n.payload
	default:
		return n.scalars[n.class.DataSlot]
	}
}

// Payload returns the node's free-standing payload value, independent of
// whichever slot (if any) the class designates as the data slot.
func (n *Node) Payload() interface{} { return n.payload }

// Backref returns the current raw transform back-reference: nil, a
// predecessor *Node awaiting materialization, or an already-materialized
// value. Use ResolveBackref to trigger and cache materialization.
func (n *Node) Backref() interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.backref
}

// ResolveBackref returns the materialized transform for n's back-reference,
// calling materialize at most once per node even under concurrent access:
// if the back-reference is still a predecessor *Node, materialize is
// invoked and its result is cached in place of the node reference (spec
// §3: "Lazy: first observation of a node-valued back-reference triggers
// derivation ... and caches it"). If the back-reference is nil or already
// materialized, it is returned as-is.
func (n *Node) ResolveBackref(materialize func(predecessor *Node) interface{}) interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	if prev, ok := n.backref.(*Node); ok {
		n.backref = materialize(prev)
	}
	return n.backref
}

// Finger returns the finger previously published by SetFingerOnce, or nil.
func (n *Node) Finger() interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.finger
}

// SetFingerOnce publishes f as n's finger the first time it is called;
// later calls are no-ops, matching populate_fingers' idempotence
// requirement (spec §6). It reports whether it actually set the value.
func (n *Node) SetFingerOnce(f interface{}) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.finger != nil {
		return false
	}
	n.finger = f
	return true
}

// Size returns 1 + the sum of the sizes of n's children, where a non-node
// leaf child counts as 1 (spec §6).
func Size(n *Node) int {
	total := 1
	for _, c := range n.Children() {
		if child, ok := c.(*Node); ok {
			total += Size(child)
		} else {
			total++
		}
	}
	return total
}

// PathValid reports whether p is valid at root: repeatedly indexing lands
// on real children without overshoot (spec §3).
func PathValid(root *Node, p path.Path) bool {
	_, err := Lookup(root, p)
	return err == nil
}
