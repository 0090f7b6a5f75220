package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptree/core/ident"
	"ptree/core/path"
)

// nodeClass is the fixture class used throughout this package's tests: a
// single list child-slot (so bare integer paths are legal) and a
// free-standing payload used as the label, matching the "#1:a, children
// ..." notation of the worked examples this module's tests are based on.
var nodeClass = &Class{
	Name:     "node",
	Slots:    []SlotDesc{{Name: "kids", Kind: ListSlot}},
	DataSlot: PayloadDataSlot,
}

func leaf(label string) *Node {
	return New(nodeClass, WithPayload(label))
}

func branch(label string, kids ...*Node) *Node {
	vals := make([]interface{}, len(kids))
	for i, k := range kids {
		vals[i] = k
	}
	return New(nodeClass, WithPayload(label), WithList("kids", vals))
}

func TestNewAllocatesFreshSerial(t *testing.T) {
	a := leaf("a")
	b := leaf("b")
	assert.NotEqual(t, a.Serial(), b.Serial())
	assert.NotEqual(t, ident.Zero, a.Serial())
}

func TestWithSerialPinsIdentity(t *testing.T) {
	n := New(nodeClass, WithSerial(ident.Serial(42)))
	assert.Equal(t, ident.Serial(42), n.Serial())
}

func TestCopyPreservesSerialByDefault(t *testing.T) {
	orig := leaf("a")
	cp := orig.Copy(WithPayload("a-renamed"))
	assert.Equal(t, orig.Serial(), cp.Serial())
	assert.Equal(t, "a-renamed", cp.Payload())
	assert.Equal(t, "a", orig.Payload(), "copy must not mutate the source")
}

func TestCopyCanOverrideSerial(t *testing.T) {
	orig := leaf("a")
	cp := orig.Copy(WithSerial(ident.Serial(999)))
	assert.Equal(t, ident.Serial(999), cp.Serial())
}

func TestChildrenOrderingConcatenatesSlotsInDeclarationOrder(t *testing.T) {
	class := &Class{
		Name: "mixed",
		Slots: []SlotDesc{
			{Name: "head", Kind: ScalarSlot},
			{Name: "tail", Kind: ListSlot},
		},
	}
	head := leaf("h")
	t0, t1 := leaf("t0"), leaf("t1")
	n := New(class, WithScalar("head", head), WithList("tail", []interface{}{t0, t1}))
	require.Equal(t, []interface{}{head, t0, t1}, n.Children())
}

func TestChildrenSkipsUnsetScalarSlot(t *testing.T) {
	class := &Class{
		Name:  "maybeHead",
		Slots: []SlotDesc{{Name: "head", Kind: ScalarSlot}, {Name: "tail", Kind: ListSlot}},
	}
	t0 := leaf("t0")
	n := New(class, WithList("tail", []interface{}{t0}))
	assert.Equal(t, []interface{}{t0}, n.Children())
}

func TestDataConventions(t *testing.T) {
	t.Run("empty DataSlot returns the node itself", func(t *testing.T) {
		class := &Class{Name: "self", Slots: nil}
		n := New(class)
		assert.Same(t, n, n.Data())
	})
	t.Run("@payload DataSlot returns the payload", func(t *testing.T) {
		n := leaf("a")
		assert.Equal(t, "a", n.Data())
	})
	t.Run("named DataSlot returns that scalar slot's value", func(t *testing.T) {
		class := &Class{
			Name:     "labeled",
			Slots:    []SlotDesc{{Name: "label", Kind: ScalarSlot}, {Name: "kids", Kind: ListSlot}},
			DataSlot: "label",
		}
		n := New(class, WithScalar("label", "a"))
		assert.Equal(t, "a", n.Data())
	})
}

func TestSingleChildSlotRequiresListKind(t *testing.T) {
	listOnly := &Class{Name: "list", Slots: []SlotDesc{{Name: "kids", Kind: ListSlot}}}
	slot, ok := listOnly.SingleChildSlot()
	require.True(t, ok)
	assert.Equal(t, "kids", slot)

	scalarOnly := &Class{Name: "scalar", Slots: []SlotDesc{{Name: "head", Kind: ScalarSlot}}}
	_, ok = scalarOnly.SingleChildSlot()
	assert.False(t, ok, "a bare integer path must not be legal against a single scalar slot")

	multi := &Class{Name: "multi", Slots: []SlotDesc{{Name: "a", Kind: ListSlot}, {Name: "b", Kind: ListSlot}}}
	_, ok = multi.SingleChildSlot()
	assert.False(t, ok)
}

func TestSize(t *testing.T) {
	tr := branch("root", leaf("a"), branch("b", leaf("c"), leaf("d")))
	assert.Equal(t, 5, Size(tr))
	assert.Equal(t, 1, Size(leaf("solo")))
}

func TestBackrefAndResolveBackrefMaterializeOnce(t *testing.T) {
	predecessor := leaf("old")
	n := predecessor.Copy(WithPayload("new"), WithBackref(predecessor))

	calls := 0
	materialize := func(p *Node) interface{} {
		calls++
		return "materialized:" + p.Payload().(string)
	}
	first := n.ResolveBackref(materialize)
	second := n.ResolveBackref(materialize)
	assert.Equal(t, "materialized:old", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "materialize must run at most once")
}

func TestResolveBackrefLeavesNilUntouched(t *testing.T) {
	n := leaf("a")
	out := n.ResolveBackref(func(*Node) interface{} { t.Fatal("must not be called"); return nil })
	assert.Nil(t, out)
}

func TestSetFingerOnceIsIdempotent(t *testing.T) {
	n := leaf("a")
	assert.True(t, n.SetFingerOnce("first"))
	assert.False(t, n.SetFingerOnce("second"))
	assert.Equal(t, "first", n.Finger())
}

func TestPathValid(t *testing.T) {
	tr := branch("root", leaf("a"), leaf("b"))
	assert.True(t, PathValid(tr, nil))
	assert.True(t, PathValid(tr, path.Path{path.Int(0)}))
	assert.False(t, PathValid(tr, path.Path{path.Int(5)}))
}
