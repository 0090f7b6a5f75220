package finger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptree/core/finger"
	"ptree/core/path"
	"ptree/core/terr"
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

func TestResolveCachesAfterFirstCall(t *testing.T) {
	r := branch("root", leaf("a"), leaf("b"))
	f := finger.New(r, path.Path{path.Int(1)})

	v1, err := f.Resolve()
	require.NoError(t, err)
	v2, err := f.Resolve()
	require.NoError(t, err)
	assert.Same(t, v1, v2)
	assert.Equal(t, "b", v1.(*tree.Node).Payload())
}

func TestResolveErrorIsAlsoCached(t *testing.T) {
	r := branch("root", leaf("a"))
	f := finger.New(r, path.Path{path.Int(9)})
	_, err1 := f.Resolve()
	_, err2 := f.Resolve()
	require.Error(t, err1)
	assert.Same(t, err1, err2)
	assert.True(t, errors.Is(err1, terr.ErrInvalidPath))
}

func TestTransformToSameRootIsNoOp(t *testing.T) {
	r := branch("root", leaf("a"))
	f := finger.New(r, path.Path{path.Int(0)})
	g, err := finger.Transform(f, r)
	require.NoError(t, err)
	assert.Same(t, f, g)
}

func TestTransformFollowsSingleHopBackref(t *testing.T) {
	r1 := branch("root", leaf("a"), leaf("b"))
	r2, err := edit.With(r1, path.Path{path.Int(0)}, leaf("a-renamed"))
	require.NoError(t, err)

	f1 := finger.New(r1, path.Path{path.Int(1)})
	f2, err := finger.Transform(f1, r2)
	require.NoError(t, err)

	v, err := f2.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "b", v.(*tree.Node).Payload())
}

func TestTransformFollowsMultiHopBackrefChain(t *testing.T) {
	r1 := branch("root", leaf("a"), leaf("b"), leaf("c"))
	r2, err := edit.With(r1, path.Path{path.Int(0)}, leaf("a2"))
	require.NoError(t, err)
	r3, err := edit.Insert(r2, path.Path{path.Int(0)}, leaf("new-first"))
	require.NoError(t, err)

	f1 := finger.New(r1, path.Path{path.Int(2)})
	f3, err := finger.Transform(f1, r3)
	require.NoError(t, err)

	v, err := f3.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "c", v.(*tree.Node).Payload())
}

func TestTransformFailsWithNoChainToTarget(t *testing.T) {
	r1 := branch("root", leaf("a"))
	unrelated := branch("other-root", leaf("z"))
	f := finger.New(r1, path.Path{path.Int(0)})
	_, err := finger.Transform(f, unrelated)
	assert.True(t, errors.Is(err, terr.ErrInvalidTransformApply))
}

func TestPopulateFingersIsIdempotentAndAnchoredAtRoot(t *testing.T) {
	r := branch("root", leaf("a"), branch("b", leaf("c")))
	finger.PopulateFingers(r)

	var c *tree.Node
	tree.Walk(r, func(n *tree.Node) bool {
		if n.Payload() == "c" {
			c = n
		}
		return true
	})
	require.NotNil(t, c)

	f1 := c.Finger()
	finger.PopulateFingers(r) // second pass must not overwrite
	f2 := c.Finger()
	assert.Same(t, f1, f2)

	v, err := f1.(*finger.Finger).Resolve()
	require.NoError(t, err)
	assert.Same(t, c, v)
}

func TestTransformCarriesResidueAcrossADroppedSubtree(t *testing.T) {
	r1 := branch("root", leaf("b"), branch("c", leaf("d"), leaf("e")))
	r2, err := edit.With(r1, path.Path{path.Int(1)}, leaf("g"))
	require.NoError(t, err)

	f1 := finger.New(r1, path.Path{path.Int(1), path.Int(0)})
	f2, err := finger.Transform(f1, r2)
	require.NoError(t, err)

	assert.True(t, path.Equal(path.Path{path.Int(1)}, f2.Path()))
	assert.True(t, path.Equal(path.Path{path.Int(0)}, f2.Residue()))
}

func TestFingersEqualAcrossTranslation(t *testing.T) {
	r1 := branch("root", leaf("a"), leaf("b"))
	r2, err := edit.Insert(r1, path.Path{path.Int(0)}, leaf("new-first"))
	require.NoError(t, err)

	f1 := finger.New(r1, path.Path{path.Int(1)}) // "b" in r1
	f2 := finger.New(r2, path.Path{path.Int(2)}) // "b" shifted to index 2 in r2

	eq, err := finger.Equal(f1, f2)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestFingersNotEqualForDifferentNodes(t *testing.T) {
	r := branch("root", leaf("a"), leaf("b"))
	f1 := finger.New(r, path.Path{path.Int(0)})
	f2 := finger.New(r, path.Path{path.Int(1)})
	eq, err := finger.Equal(f1, f2)
	require.NoError(t, err)
	assert.False(t, eq)
}
