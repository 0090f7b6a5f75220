// Package path implements the path model used to locate a descendant node
// from a root: representation, structural equality, prefix tests, and the
// lexicographic ordering used by the search API's position/position_if
// operations (spec §3, §4.B).
package path

import "fmt"

// Kind distinguishes the four shapes a path element can take.
type Kind int

const (
	// Index addresses the n'th element of a node's single child-list
	// slot; only legal when the node declares exactly one child slot.
	Index Kind = iota
	// Slot addresses a named scalar child slot.
	Slot
	// SlotAt addresses the n'th element of a named multi-child slot.
	SlotAt
	// SlotRange denotes an inclusive index range within a named
	// multi-child slot. It only ever appears inside a path-transform's
	// input pattern (spec §3); it is never a valid path element on its
	// own and Valid-style checks reject it.
	SlotRange
)

// Elem is one step of a Path. Exactly the fields relevant to Kind are
// meaningful; the zero Elem is Index(0).
type Elem struct {
	Kind Kind
	Slot string
	Idx  int
	Lo   int
	Hi   int
}

// Int builds a bare integer path element.
func Int(i int) Elem { return Elem{Kind: Index, Idx: i} }

// Named builds a named scalar-slot path element.
func Named(slot string) Elem { return Elem{Kind: Slot, Slot: slot} }

// At builds a (slot, index) path element.
func At(slot string, idx int) Elem { return Elem{Kind: SlotAt, Slot: slot, Idx: idx} }

// Range builds a (slot, [lo, hi]) transform-pattern element. lo and hi are
// inclusive bounds.
func Range(slot string, lo, hi int) Elem { return Elem{Kind: SlotRange, Slot: slot, Lo: lo, Hi: hi} }

// String renders an element for diagnostics.
func (e Elem) String() string {
	switch e.Kind {
	case Index:
		return fmt.Sprintf("%d", e.Idx)
	case Slot:
		return e.Slot
	case SlotAt:
		return fmt.Sprintf("(%s %d)", e.Slot, e.Idx)
	case SlotRange:
		return fmt.Sprintf("(%s [%d %d])", e.Slot, e.Lo, e.Hi)
	default:
		return "<bad-elem>"
	}
}

// Contains reports whether a range element's bounds contain idx, i.e. the
// range element matches the concrete element At(e.Slot, idx).
func (e Elem) Contains(idx int) bool {
	return e.Kind == SlotRange && idx >= e.Lo && idx <= e.Hi
}

// Equal reports structural equality between two concrete (non-range)
// elements.
func (e Elem) Equal(o Elem) bool {
	if e.Kind != o.Kind {
		return false
	}
	switch e.Kind {
	case Index:
		return e.Idx == o.Idx
	case Slot:
		return e.Slot == o.Slot
	case SlotAt:
		return e.Slot == o.Slot && e.Idx == o.Idx
	case SlotRange:
		return e.Slot == o.Slot && e.Lo == o.Lo && e.Hi == o.Hi
	default:
		return false
	}
}

// Path is an ordered sequence of Elem, locating a descendant from a root.
type Path []Elem

// Clone returns an independent copy of p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// String renders a path for diagnostics, e.g. "[1 body (args 0)]".
func (p Path) String() string {
	s := "["
	for i, e := range p {
		if i > 0 {
			s += " "
		}
		s += e.String()
	}
	return s + "]"
}

// Equal reports whether p and o have the same elements in the same order.
func Equal(p, o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if !p[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// IsPrefix reports whether p is a prefix of o (p == o counts as a prefix).
func IsPrefix(p, o Path) bool {
	if len(p) > len(o) {
		return false
	}
	for i := range p {
		if !p[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Suffix returns the elements of o past the length of its prefix p. It
// does not verify that p is actually a prefix of o; callers that need that
// guarantee should check IsPrefix first.
func Suffix(p, o Path) Path {
	if len(p) >= len(o) {
		return nil
	}
	return o[len(p):].Clone()
}

// Append returns a new path with extra appended after p, without aliasing
// p's backing array.
func Append(p Path, extra ...Elem) Path {
	out := make(Path, 0, len(p)+len(extra))
	out = append(out, p...)
	out = append(out, extra...)
	return out
}

// category groups element kinds for ordering purposes: named elements
// (Slot, SlotAt, SlotRange) sort together ahead of bare Index elements, so
// that "symbols precede numbers" as spec §4.B requires, with SlotAt/SlotRange
// treated as named since their leading component is a slot symbol.
func category(k Kind) int {
	if k == Index {
		return 1
	}
	return 0
}

// elemLess is the total order over individual elements used by Less: named
// elements compare by slot name then index/range bounds; Index elements
// compare numerically; named elements always precede Index elements.
func elemLess(a, b Elem) bool {
	ca, cb := category(a.Kind), category(b.Kind)
	if ca != cb {
		return ca < cb
	}
	if ca == 1 {
		return a.Idx < b.Idx
	}
	if a.Slot != b.Slot {
		return a.Slot < b.Slot
	}
	if a.Kind == Slot && b.Kind == Slot {
		return false
	}
	aIdx, bIdx := a.Idx, b.Idx
	if a.Kind == SlotRange {
		aIdx = a.Lo
	}
	if b.Kind == SlotRange {
		bIdx = b.Lo
	}
	return aIdx < bIdx
}

// Less implements the lexicographic path order from spec §4.B: compare
// element-wise; when all compared elements are equal, the shorter path
// precedes the longer one.
func Less(p, o Path) bool {
	n := len(p)
	if len(o) < n {
		n = len(o)
	}
	for i := 0; i < n; i++ {
		if p[i].Equal(o[i]) {
			continue
		}
		return elemLess(p[i], o[i])
	}
	return len(p) < len(o)
}
