package tree

import (
	"fmt"

	"go.uber.org/multierr"

	"ptree/core/ident"
	"ptree/core/terr"
)

// collectSerials walks root and returns every serial reached, along with
// every ancestor-walk cycle it finds expressed as a list of diagnostic
// errors. It is the shared core of NodeValid and NodesDisjoint.
func collectSerials(root *Node) (map[ident.Serial]bool, []error) {
	seen := map[ident.Serial]bool{}
	var errs []error
	var walk func(n *Node, ancestors map[ident.Serial]bool)
	walk = func(n *Node, ancestors map[ident.Serial]bool) {
		if ancestors[n.Serial()] {
			errs = append(errs, fmt.Errorf("%w: serial %d revisited on a single root-to-leaf walk (cycle)", terr.ErrIdentityCollision, n.Serial()))
			return
		}
		if seen[n.Serial()] {
			errs = append(errs, fmt.Errorf("%w: serial %d appears more than once under this root", terr.ErrIdentityCollision, n.Serial()))
		}
		seen[n.Serial()] = true

		nextAncestors := make(map[ident.Serial]bool, len(ancestors)+1)
		for k := range ancestors {
			nextAncestors[k] = true
		}
		nextAncestors[n.Serial()] = true

		for _, c := range n.Children() {
			if child, ok := c.(*Node); ok {
				walk(child, nextAncestors)
			}
		}
	}
	walk(root, map[ident.Serial]bool{})
	return seen, errs
}

// NodeValid checks the identity-uniqueness and acyclicity invariants of
// spec §3 for every node reachable from root. It returns a single
// aggregated error (via go.uber.org/multierr) describing every violation
// found, or nil if root is valid. This and its siblings below are
// advisory precondition checks for callers, not self-enforced by the edit
// API (spec §7).
func NodeValid(root *Node) error {
	_, errs := collectSerials(root)
	var agg error
	for _, e := range errs {
		agg = multierr.Append(agg, e)
	}
	return agg
}

// NodesDisjoint reports whether a and b share no serial numbers, which is
// the precondition for safely implanting b's subtree somewhere under a
// without creating a duplicate identity.
func NodesDisjoint(a, b *Node) error {
	aSerials, errs := collectSerials(a)
	var agg error
	for _, e := range errs {
		agg = multierr.Append(agg, e)
	}
	bSerials, errs := collectSerials(b)
	for _, e := range errs {
		agg = multierr.Append(agg, e)
	}
	for s := range bSerials {
		if aSerials[s] {
			agg = multierr.Append(agg, fmt.Errorf("%w: serial %d present in both trees", terr.ErrIdentityCollision, s))
		}
	}
	return agg
}

// NodeCanImplant checks whether candidate can be spliced into root at the
// node currently occupying replaced's identity, i.e. candidate must be
// disjoint from root except for sharing no identity with anything other
// than replaced itself (replaced may be nil when implanting into a
// previously-empty slot).
func NodeCanImplant(root *Node, replaced *Node, candidate *Node) error {
	rootSerials, errs := collectSerials(root)
	var agg error
	for _, e := range errs {
		agg = multierr.Append(agg, e)
	}
	candSerials, errs := collectSerials(candidate)
	for _, e := range errs {
		agg = multierr.Append(agg, e)
	}
	for s := range candSerials {
		if !rootSerials[s] {
			continue
		}
		if replaced != nil && s == replaced.Serial() {
			continue
		}
		agg = multierr.Append(agg, fmt.Errorf("%w: candidate serial %d already present elsewhere in root", terr.ErrIdentityCollision, s))
	}
	return agg
}
