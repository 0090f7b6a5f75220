package transform_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptree/core/path"
	"ptree/core/transform"
	"ptree/core/tree"
	"ptree/edit"
)

var nodeClass = &tree.Class{
	Name:     "node",
	Slots:    []tree.SlotDesc{{Name: "kids", Kind: tree.ListSlot}},
	DataSlot: tree.PayloadDataSlot,
}

func leaf(label string) *tree.Node {
	return tree.New(nodeClass, tree.WithPayload(label))
}

func branch(label string, kids ...*tree.Node) *tree.Node {
	vals := make([]interface{}, len(kids))
	for i, k := range kids {
		vals[i] = k
	}
	return tree.New(nodeClass, tree.WithPayload(label), tree.WithList("kids", vals))
}

func TestDeriveOfUnchangedTreeBehavesAsIdentity(t *testing.T) {
	r := branch("root", leaf("a"), leaf("b"))
	tr := transform.Derive(r, r)
	for _, p := range []path.Path{
		nil,
		{path.Int(0)},
		{path.Int(1)},
	} {
		newPath, residue := tr.Apply(p)
		assert.True(t, path.Equal(p, newPath), "path %v should be unchanged", p)
		assert.Nil(t, residue)
	}
}

func TestDeriveTranslatesPathAcrossAWith(t *testing.T) {
	r1 := branch("root", leaf("a"), leaf("b"))
	r2, err := edit.With(r1, path.Path{path.Int(0)}, leaf("a-renamed"))
	require.NoError(t, err)

	tr := transform.Derive(r1, r2)
	// the untouched sibling at index 1 keeps its path unchanged.
	p, _ := tr.Apply(path.Path{path.Int(1)})
	assert.True(t, path.Equal(path.Path{path.Int(1)}, p))
}

func TestDeriveCompressesSharedSubtreeIntoOneEntry(t *testing.T) {
	shared := branch("shared", leaf("x"), leaf("y"))
	r1 := branch("root", shared, leaf("other"))
	// Insert a new sibling before `shared`, shifting its index from 0 to
	// 1 but sharing the exact same subtree object, so every path beneath
	// it should compress into the single entry for `shared` itself.
	r2, err := edit.Insert(r1, path.Path{path.Int(0)}, leaf("new-first"))
	require.NoError(t, err)

	tr := transform.Derive(r1, r2)

	xPath, _ := tr.Apply(path.Path{path.Int(0), path.Int(0)})
	assert.True(t, path.Equal(path.Path{path.Int(1), path.Int(0)}, xPath))
	yPath, _ := tr.Apply(path.Path{path.Int(0), path.Int(1)})
	assert.True(t, path.Equal(path.Path{path.Int(1), path.Int(1)}, yPath))
}

func TestMaterializeBackrefCachesDerivation(t *testing.T) {
	r1 := branch("root", leaf("a"))
	r2, err := edit.With(r1, path.Path{path.Int(0)}, leaf("a2"))
	require.NoError(t, err)

	tr1, ok := transform.MaterializeBackref(r2)
	require.True(t, ok)
	tr2, ok := transform.MaterializeBackref(r2)
	require.True(t, ok)
	assert.Same(t, tr1, tr2, "materialization caches its result on the node")
}

func TestMaterializeBackrefFalseWhenNoBackref(t *testing.T) {
	r := branch("root", leaf("a"))
	_, ok := transform.MaterializeBackref(r)
	assert.False(t, ok)
}

// TestDeriveTagsDroppedSubtreeDead reproduces spec §8 scenario 6: replacing
// a subtree with an unrelated leaf drops every serial beneath the
// replaced node, and a finger that used to reach into that subtree must
// come back with the replaced node's new path and the rest of its old
// path as residue, not silently resolved as if nothing happened.
func TestDeriveTagsDroppedSubtreeDead(t *testing.T) {
	dropped := branch("c", leaf("d"), leaf("e"))
	r1 := branch("root", leaf("b"), dropped)
	r2, err := edit.With(r1, path.Path{path.Int(1)}, leaf("g"))
	require.NoError(t, err)

	tr := transform.Derive(r1, r2)

	newPath, residue := tr.Apply(path.Path{path.Int(1), path.Int(0)})
	assert.True(t, path.Equal(path.Path{path.Int(1)}, newPath))
	assert.True(t, path.Equal(path.Path{path.Int(0)}, residue))
}

// TestDeriveEntryShapeAfterInsert pins down the exact compressed entry
// table an insert produces, rather than just spot-checking a couple of
// translated paths: go-cmp reports the full structural diff on mismatch,
// which is more useful here than a sequence of individual assert.True
// calls once the entry table has more than one surviving rule.
func TestDeriveEntryShapeAfterInsert(t *testing.T) {
	r1 := branch("root", leaf("a"), leaf("b"))
	r2, err := edit.Insert(r1, path.Path{path.Int(0)}, leaf("new-first"))
	require.NoError(t, err)

	tr := transform.Derive(r1, r2)

	want := []transform.Entry{
		{Pattern: path.Path{path.Int(0)}, Output: path.Path{path.Int(1)}, Status: transform.Live},
		{Pattern: path.Path{path.Int(1)}, Output: path.Path{path.Int(2)}, Status: transform.Live},
		{Pattern: path.Path{}, Output: path.Path{}, Status: transform.Live},
	}
	if diff := cmp.Diff(want, tr.Entries); diff != "" {
		t.Fatalf("unexpected entry table (-want +got):\n%s", diff)
	}
}
