package transform

import (
	"sort"

	"ptree/core/ident"
	"ptree/core/path"
	"ptree/core/tree"
)

// diffEntry is a raw (from_path, to_path) correspondence discovered by
// Derive before compression.
type diffEntry struct {
	fromNode *tree.Node
	fromPath path.Path
	toNode   *tree.Node
	toPath   path.Path
}

// Derive synthesizes a compact Transform mapping paths valid at from to
// paths valid at to, by diffing two trees that share serial numbers (spec
// §4.G). Surviving identities produce LIVE entries; a node whose serial is
// reachable in from but nowhere in to — an edit that dropped its subtree —
// produces a DEAD entry at its nearest surviving ancestor (spec §4.G step
// 7). Derivation is correct for every path that lands on a preserved
// identity; it is not guaranteed optimal on arbitrary tree pairs, exactly
// as the spec's notes call out.
func Derive(from, to *tree.Node) *Transform {
	bySerial := map[ident.Serial]*survivorSlot{}

	tree.WalkRPaths(from, func(n *tree.Node, rpath path.Path) bool {
		bySerial[n.Serial()] = &survivorSlot{fromNode: n, fromPath: reverse(rpath)}
		return true
	})

	tree.WalkRPaths(to, func(n *tree.Node, rpath path.Path) bool {
		s, ok := bySerial[n.Serial()]
		if !ok {
			return true
		}
		s.toNode = n
		s.toPath = reverse(rpath)
		s.filled = true
		// The whole subtree is shared (same object) and needs no
		// further remapping beneath it.
		return n != s.fromNode
	})

	var entries []diffEntry
	for _, s := range bySerial {
		if s.filled {
			entries = append(entries, diffEntry{s.fromNode, s.fromPath, s.toNode, s.toPath})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return path.Less(entries[i].fromPath, entries[j].fromPath) })

	compressed := compress(entries)
	compressed = append(compressed, deadEntries(bySerial)...)

	sort.SliceStable(compressed, func(i, j int) bool { return len(compressed[i].Pattern) > len(compressed[j].Pattern) })

	return &Transform{FromRoot: from, Entries: compressed}
}

// survivorSlot is Derive's per-serial bookkeeping: the from-side node and
// path, and, once the walk of to reaches the same serial (filled), the
// to-side node and path. Nodes beneath a shared subtree are not visited by
// that walk and stay unfilled even though they are still present in to.
type survivorSlot struct {
	fromNode *tree.Node
	fromPath path.Path
	toNode   *tree.Node
	toPath   path.Path
	filled   bool
}

// deadEntries implements spec §4.G step 7: an edit that drops a subtree
// (the dropped node's serial never reappears anywhere in to) is tagged DEAD
// rather than silently omitted. For every node that survived the edit, its
// immediate slot values are compared old-vs-new; a child whose serial
// vanished entirely is the root of a dropped subtree and gets one DEAD
// entry, interpolated to the position its surviving neighbors now occupy.
// Only the topmost dropped node in a slot is considered, since its
// descendants (if any) never surface as separate survivors to begin with —
// the single entry covers the whole dropped range via Apply's residue cut.
func deadEntries(bySerial map[ident.Serial]*survivorSlot) []Entry {
	var out []Entry
	for _, s := range bySerial {
		if !s.filled {
			continue
		}
		out = append(out, deadEntriesForSlot(s, bySerial)...)
	}
	return out
}

func deadEntriesForSlot(s *survivorSlot, bySerial map[ident.Serial]*survivorSlot) []Entry {
	var out []Entry
	class := s.fromNode.Class()
	single, isSingle := class.SingleChildSlot()

	for _, sd := range class.Slots {
		switch sd.Kind {
		case tree.ScalarSlot:
			child, ok := s.fromNode.Scalar(sd.Name).(*tree.Node)
			if !ok {
				continue
			}
			if rec, exists := bySerial[child.Serial()]; exists && rec.filled {
				continue
			}
			if nc, ok := s.toNode.Scalar(sd.Name).(*tree.Node); ok && nc.Serial() == child.Serial() {
				// Still in place, beneath a shared subtree the walk of to
				// pruned, so it was never marked filled.
				continue
			}
			out = append(out, Entry{
				Pattern: path.Append(s.fromPath, path.Named(sd.Name)),
				Output:  path.Append(s.toPath, path.Named(sd.Name)),
				Status:  Dead,
			})

		case tree.ListSlot:
			oldList := s.fromNode.List(sd.Name)
			newList := s.toNode.List(sd.Name)
			newIdxBySerial := map[ident.Serial]int{}
			for j, w := range newList {
				if wn, ok := w.(*tree.Node); ok {
					newIdxBySerial[wn.Serial()] = j
				}
			}

			elemFor := func(idx int) path.Elem {
				if isSingle && single == sd.Name {
					return path.Int(idx)
				}
				return path.At(sd.Name, idx)
			}

			prevOld, prevNew := -1, -1
			for i, v := range oldList {
				node, ok := v.(*tree.Node)
				if !ok {
					continue
				}
				if j, ok := newIdxBySerial[node.Serial()]; ok {
					prevOld, prevNew = i, j
					continue
				}
				if rec, exists := bySerial[node.Serial()]; exists && rec.filled {
					// Survived, but moved somewhere else entirely (e.g.
					// Swap); its own entry is recorded at its new location,
					// not here.
					continue
				}
				outIdx := prevNew + (i - prevOld)
				out = append(out, Entry{
					Pattern: path.Append(s.fromPath, elemFor(i)),
					Output:  path.Append(s.toPath, elemFor(outIdx)),
					Status:  Dead,
				})
			}
		}
	}
	return out
}

// compress applies the prefix-subsumption pass of spec §4.G step 5: an
// entry (old, new) is discarded when it is derivable from the current
// stack top by suffix extension.
func compress(entries []diffEntry) []Entry {
	var stack []Entry
	for _, e := range entries {
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if path.IsPrefix(top.Pattern, e.fromPath) {
				suffix := path.Suffix(top.Pattern, e.fromPath)
				derived := path.Append(top.Output, suffix...)
				if path.Equal(derived, e.toPath) {
					continue
				}
			}
		}
		stack = append(stack, Entry{Pattern: e.fromPath, Output: e.toPath, Status: Live})
	}
	return stack
}

func reverse(rpath path.Path) path.Path {
	out := make(path.Path, len(rpath))
	for i, e := range rpath {
		out[len(rpath)-1-i] = e
	}
	return out
}
