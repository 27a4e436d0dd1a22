package bundler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplacementStore_OverlapRejected(t *testing.T) {
	s := newReplacementStore(100)
	require.Equal(t, 0, s.Replace(10, 20, Literal("a")))
	// overlaps [10,20)
	assert.Equal(t, -1, s.Replace(15, 25, Literal("b")))
	// touches but does not overlap (half-open)
	assert.NotEqual(t, -1, s.Replace(20, 30, Literal("c")))
	assert.Equal(t, 2, s.Len())
}

func TestReplacementStore_OrderedInvariant(t *testing.T) {
	s := newReplacementStore(100)
	s.Replace(50, 60, Literal("c"))
	s.Replace(10, 20, Literal("a"))
	s.Replace(30, 40, Literal("b"))
	list := s.List()
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.LessOrEqual(t, list[i-1].EndIndex, list[i].StartIndex)
	}
	assert.Equal(t, 10, list[0].StartIndex)
	assert.Equal(t, 30, list[1].StartIndex)
	assert.Equal(t, 50, list[2].StartIndex)
}

func TestReplacementStore_InsertAtCoexistsWithEnclosingDeletion(t *testing.T) {
	// Mirrors the #include Open Question: a zero-width insertion anchored
	// at the exact start of a wider range that's being deleted must not be
	// rejected as an overlap, regardless of call order.
	s := newReplacementStore(100)
	require.NotEqual(t, -1, s.InsertAt(10, Literal("included")))
	require.NotEqual(t, -1, s.Replace(10, 40, Literal("")))

	// The non-overlap check is symmetric, so the insertion survives
	// regardless of which edit was registered first.
	s2 := newReplacementStore(100)
	require.NotEqual(t, -1, s2.Replace(10, 40, Literal("")))
	require.NotEqual(t, -1, s2.InsertAt(10, Literal("included")))
}

func TestReplacementStore_HiddenRegionNesting(t *testing.T) {
	s := newReplacementStore(100)
	s.BeginHiddenRegion(10)
	s.BeginHiddenRegion(20) // nested: depth 2, no new entry
	assert.Equal(t, 1, s.Len())
	s.EndHiddenRegion(30) // depth back to 1, region still open
	assert.Equal(t, 1, s.Len())
	s.EndHiddenRegion(40) // depth 0, region closes at 40
	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, 10, list[0].StartIndex)
	assert.Equal(t, 40, list[0].EndIndex)
}

func TestReplacementStore_BeginHiddenRegionDoesNotExceedContentLen(t *testing.T) {
	// A region opened and never closed (e.g. an unbalanced #if) must hide
	// through end of content without the sentinel end exceeding contentLen,
	// which Replace rejects as out of range.
	s := newReplacementStore(50)
	assert.NotPanics(t, func() { s.BeginHiddenRegion(5) })
	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, 50, list[0].EndIndex)
}

func TestReplacementData_ResolvePanicsOnModule(t *testing.T) {
	data := InlineModule(&Module{})
	assert.Panics(t, func() { data.Resolve(nil) })
}

func TestReplacementData_Deferred(t *testing.T) {
	m := &Module{}
	data := Deferred(func(emitting *Module) string {
		if emitting == m {
			return "matched"
		}
		return "no"
	})
	assert.Equal(t, "matched", data.Resolve(m))
}
