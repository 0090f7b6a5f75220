// Package finger implements the bound (root, path) reference with lazy
// cached target resolution, and its translation across a chain of edits
// via the transform back-pointers each edit publishes (spec §4.E).
package finger

import (
	"fmt"
	"sync"

	"ptree/core/path"
	"ptree/core/terr"
	"ptree/core/transform"
	"ptree/core/tree"
)

// Finger is an immutable (once resolved) (root, path, residue) triple with
// a resolution cache (spec §3).
type Finger struct {
	root    *tree.Node
	path    path.Path
	residue path.Path

	once     sync.Once
	resolved interface{}
	err      error
}

// New builds a finger with no residue.
func New(root *tree.Node, p path.Path) *Finger {
	return &Finger{root: root, path: p.Clone()}
}

// NewWithResidue builds a finger carrying a pre-existing residue, e.g. one
// produced by a prior transform translation.
func NewWithResidue(root *tree.Node, p, residue path.Path) *Finger {
	return &Finger{root: root, path: p.Clone(), residue: residue.Clone()}
}

// Root returns the node this finger is relative to.
func (f *Finger) Root() *tree.Node { return f.root }

// Path returns the path, valid at Root, this finger denotes.
func (f *Finger) Path() path.Path { return f.path.Clone() }

// Residue returns the untranslated remainder accumulated by a prior lossy
// transform application, or nil if none.
func (f *Finger) Residue() path.Path { return f.residue.Clone() }

// Resolve walks Path from Root, caching the result (spec §4.E). The
// result is either a *tree.Node or a non-node leaf value.
func (f *Finger) Resolve() (interface{}, error) {
	f.once.Do(func() {
		f.resolved, f.err = tree.Lookup(f.root, f.path)
	})
	return f.resolved, f.err
}

// Transform translates f into an equivalent finger relative to target, by
// walking the chain of transform back-pointers from target down to f's
// own root and applying each step's transform in order (spec §4.F
// "Chained transform application"). It fails with
// terr.ErrInvalidTransformApply when no such chain exists.
func Transform(f *Finger, target *tree.Node) (*Finger, error) {
	if target == f.root {
		return f, nil
	}

	var steps []*transform.Transform
	cur := target
	for cur != f.root {
		t, ok := transform.MaterializeBackref(cur)
		if !ok {
			return nil, fmt.Errorf("%w: from root to target root", terr.ErrInvalidTransformApply)
		}
		steps = append(steps, t)
		if t.FromRoot == nil {
			return nil, fmt.Errorf("%w: from root to target root", terr.ErrInvalidTransformApply)
		}
		cur = t.FromRoot
	}
	// steps were collected target-to-root; reverse to root-to-target
	// order before composing, since Chain.Apply runs its steps first
	// to last.
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	chain := transform.Compose(steps...)
	newPath, residue := chain.Apply(f.path)
	if len(residue) == 0 {
		residue = f.residue
	}
	return NewWithResidue(target, newPath, residue), nil
}

// Equal reports whether two fingers, possibly relative to different
// roots, resolve to the same node identity once translated to a common
// root. It translates g to f's root (falling back to translating f to
// g's root on failure) and compares resolved serials (spec §8 property
// 12).
func Equal(f, g *Finger) (bool, error) {
	g2, err := Transform(g, f.root)
	if err != nil {
		f2, err2 := Transform(f, g.root)
		if err2 != nil {
			return false, err
		}
		f, g = f2, g
	} else {
		g = g2
	}
	fv, err := f.Resolve()
	if err != nil {
		return false, err
	}
	gv, err := g.Resolve()
	if err != nil {
		return false, err
	}
	fn, fok := fv.(*tree.Node)
	gn, gok := gv.(*tree.Node)
	if fok != gok {
		return false, nil
	}
	if !fok {
		return fv == gv, nil
	}
	return fn.Serial() == gn.Serial(), nil
}
