package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptree/core/tree"
	"ptree/search"
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

func TestReduceFoldsPreorderData(t *testing.T) {
	tr := branch("root", leaf("a"), branch("b", leaf("c")))
	var got []interface{}
	out := search.Reduce(tr, func(acc, data interface{}) interface{} {
		return append(acc.([]interface{}), data)
	}, []interface{}{})
	got = out.([]interface{})
	assert.Equal(t, []interface{}{"root", "a", "b", "c"}, got)
}

func TestFindReturnsFirstPreorderMatch(t *testing.T) {
	tr := branch("root", leaf("a"), branch("b", leaf("a")))
	v, ok := search.Find(tr, "a")
	require.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestFindIfNotFoundReturnsFalse(t *testing.T) {
	tr := branch("root", leaf("a"))
	_, ok := search.Find(tr, "z")
	assert.False(t, ok)
}

func TestCountIf(t *testing.T) {
	tr := branch("root", leaf("a"), leaf("a"), leaf("b"))
	assert.Equal(t, 2, search.Count(tr, "a"))
	assert.Equal(t, 1, search.Count(tr, "b"))
	assert.Equal(t, 4, search.CountIf(tr, func(interface{}) bool { return true }))
}

func TestPositionReturnsPathToFirstMatch(t *testing.T) {
	tr := branch("root", leaf("a"), branch("b", leaf("c")))
	p, ok := search.Position(tr, "c")
	require.True(t, ok)
	v, err := tree.Lookup(tr, p)
	require.NoError(t, err)
	assert.Equal(t, "c", v.(*tree.Node).Payload())
}

func TestPositionIfNotFound(t *testing.T) {
	tr := branch("root", leaf("a"))
	_, ok := search.PositionIf(tr, func(d interface{}) bool { return d == "nowhere" })
	assert.False(t, ok)
}

func TestPositionOfRootIsEmptyPath(t *testing.T) {
	tr := branch("root", leaf("a"))
	p, ok := search.Position(tr, "root")
	require.True(t, ok)
	assert.Empty(t, p)
}
