package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestFilter_PreservesOrder(t *testing.T) {
	got := Filter([]int{5, 2, 8, 3, 6}, func(v int) bool { return v%2 == 0 })
	assert.Equal(t, []int{2, 8, 6}, got)
	assert.Equal(t, []int{1, 2}, Filter([]int{1, 2}, nil))
}

func TestPaginate_NeverLeavesValidRange(t *testing.T) {
	for _, count := range []int{0, 1, 5, 6, 7, 12, 13, 40} {
		items := ints(count)
		last := TotalPages(count, 6)
		for _, requested := range []int{-3, 0, 1, 2, last, last + 1, 99} {
			p := Paginate(items, requested, 6)
			assert.GreaterOrEqual(t, p.Number, 1)
			assert.LessOrEqual(t, p.Number, last)
			assert.LessOrEqual(t, len(p.Items), 6)
			assert.Equal(t, count, p.TotalItems)
		}
	}
}

func TestPaginate_Slices(t *testing.T) {
	p := Paginate(ints(13), 3, 6)
	assert.Equal(t, []int{13}, p.Items)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())

	p = Paginate(ints(13), 1, 6)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, p.Items)
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())

	empty := Paginate([]int{}, 4, 6)
	assert.Equal(t, 1, empty.Number)
	assert.Empty(t, empty.Items)
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "[1]", FormatStrip(Strip(1, 1)))
	assert.Equal(t, "[1] 2 3", FormatStrip(Strip(1, 3)))
	assert.Equal(t, "[1] 2 … 10", FormatStrip(Strip(1, 10)))
	assert.Equal(t, "1 … 4 [5] 6 … 10", FormatStrip(Strip(5, 10)))
	assert.Equal(t, "1 2 [3] 4 … 10", FormatStrip(Strip(3, 10)))
	assert.Equal(t, "1 … 9 [10]", FormatStrip(Strip(10, 10)))
	assert.Equal(t, "1 … 9 [10]", FormatStrip(Strip(42, 10)))
}

func TestView_PredicateAndClearResetPage(t *testing.T) {
	v := NewView(ints(30), 6)
	v.Goto(4)
	require.Equal(t, 4, v.Current().Number)

	v.SetPredicate(func(n int) bool { return n > 10 })
	assert.Equal(t, 1, v.Current().Number)
	assert.Equal(t, 20, v.Current().TotalItems)

	v.Goto(4)
	assert.Equal(t, 4, v.Current().Number)
	v.Goto(50)
	assert.Equal(t, 4, v.Current().Number)

	v.Clear()
	assert.Equal(t, 1, v.Current().Number)
	assert.Equal(t, 30, v.Current().TotalItems)
}

func TestView_SetItemsReclamps(t *testing.T) {
	v := NewView(ints(30), 6)
	v.Goto(5)
	v.SetItems(ints(7))
	assert.Equal(t, 2, v.Current().Number)
	assert.Equal(t, "1 [2]", FormatStrip(v.Strip()))
}
