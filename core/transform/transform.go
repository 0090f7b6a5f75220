// Package transform implements the path-transform record (spec §4.F): a
// segment-rewrite table mapping old-tree paths to new-tree paths, with
// LIVE/DEAD entry status, first-match-wins application, and composition
// across a chain of edits.
package transform

import (
	"sort"

	"ptree/core/path"
	"ptree/core/tree"
)

// Status controls what Apply does with a matched entry's unmatched tail.
type Status int

const (
	// Live means a matching path's unmatched tail is appended to the
	// entry's output prefix.
	Live Status = iota
	// Dead means the tail is cut and returned as residue.
	Dead
)

// Entry is one rewrite rule: Pattern may contain path.SlotRange elements
// (only legal in a Pattern, never in Output); Output is the replacement
// prefix.
type Entry struct {
	Pattern path.Path
	Output  path.Path
	Status  Status
}

// Transform is a path-rewrite table anchored at FromRoot (spec §3).
// Entries are kept sorted in non-increasing order of Pattern length so
// that Apply's linear scan implements first-match-wins over the
// longest-matching entry (spec §9 permits either linear scan or a trie;
// this module uses linear scan, as the sizes involved — one entry per
// structurally-changed path — are always small).
type Transform struct {
	FromRoot *tree.Node
	Entries  []Entry
}

// New builds a Transform from an unsorted entry list, sorting a copy into
// the order Apply requires.
func New(fromRoot *tree.Node, entries []Entry) *Transform {
	cp := append([]Entry(nil), entries...)
	sort.SliceStable(cp, func(i, j int) bool { return len(cp[i].Pattern) > len(cp[j].Pattern) })
	return &Transform{FromRoot: fromRoot, Entries: cp}
}

// matchPrefix reports whether pattern prefix-matches p: pattern must be no
// longer than p, and each pattern element either equals the corresponding
// element of p or is a range element containing it.
func matchPrefix(pattern, p path.Path) bool {
	if len(pattern) > len(p) {
		return false
	}
	for i, pe := range pattern {
		if pe.Kind == path.SlotRange {
			if p[i].Kind != path.SlotAt || p[i].Slot != pe.Slot || !pe.Contains(p[i].Idx) {
				return false
			}
			continue
		}
		if !pe.Equal(p[i]) {
			return false
		}
	}
	return true
}

// shiftedPrefix builds the output of a matched entry: Output verbatim,
// except at positions where Pattern held a range element, where the
// corresponding Output element's index is shifted by the offset of the
// matched concrete index within the range's lower bound (spec §4.F step
// 3). Positions in Output beyond len(Pattern) are overflow and are kept
// verbatim ("spliced before the tail").
func shiftedPrefix(e Entry, p path.Path) path.Path {
	out := make(path.Path, len(e.Output))
	for i, oe := range e.Output {
		if i < len(e.Pattern) && e.Pattern[i].Kind == path.SlotRange && (oe.Kind == path.Index || oe.Kind == path.SlotAt) {
			shift := p[i].Idx - e.Pattern[i].Lo
			oe.Idx += shift
		}
		out[i] = oe
	}
	return out
}

// Apply translates p through t: spec §4.F. No match is identity (p
// unchanged, residue nil).
func (t *Transform) Apply(p path.Path) (newPath path.Path, residue path.Path) {
	for _, e := range t.Entries {
		if !matchPrefix(e.Pattern, p) {
			continue
		}
		prefix := shiftedPrefix(e, p)
		tail := p[len(e.Pattern):]
		if len(tail) == 0 {
			return prefix, nil
		}
		if e.Status == Dead {
			return prefix, tail.Clone()
		}
		return path.Append(prefix, tail...), nil
	}
	return p.Clone(), nil
}

// Chain composes a sequence of transforms so that
// Chain{t1,t2}.Apply(p) == t2.Apply(t1.Apply(p)) modulo residue handling
// across steps (spec §4.F "Compose"). A Chain is built stepwise rather
// than materialized into one Transform, which the spec explicitly allows
// ("implementations may either materialize the composition ... or
// re-apply stepwise along the chain; the observable contract is the
// same").
type Chain struct {
	Steps []*Transform
}

// Compose returns a Chain applying steps in order, first to last.
func Compose(steps ...*Transform) *Chain {
	return &Chain{Steps: append([]*Transform(nil), steps...)}
}

// Apply runs p through every step of the chain in order. If an
// intermediate step returns a non-empty residue, the live prefix keeps
// being translated through the remaining steps (the ancestor it
// identifies may move further) while the residue value itself is
// overwritten only if a later step also goes Dead — see DESIGN.md for the
// rationale (the spec leaves multi-step residue composition as an
// implementer decision).
func (c *Chain) Apply(p path.Path) (path.Path, path.Path) {
	cur := p
	var residue path.Path
	for _, t := range c.Steps {
		next, r := t.Apply(cur)
		cur = next
		if len(r) > 0 {
			residue = r
		}
	}
	return cur, residue
}

// MaterializeBackref resolves n's transform back-reference (spec §3): if
// n's back-reference is a predecessor node awaiting materialization, it is
// derived via Derive(predecessor, n) and cached on n; if it is already a
// materialized *Transform, that value is returned unchanged; if there is
// no back-reference at all, ok is false.
func MaterializeBackref(n *tree.Node) (t *Transform, ok bool) {
	raw := n.ResolveBackref(func(predecessor *tree.Node) interface{} {
		return Derive(predecessor, n)
	})
	t, ok = raw.(*Transform)
	return t, ok
}

// Identity returns the no-op transform anchored at root: every path is
// returned unchanged (spec §8 property 9: path_transform_of(t, t) is the
// identity transform).
func Identity(root *tree.Node) *Transform {
	return &Transform{FromRoot: root}
}
