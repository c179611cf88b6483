package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParseNumber(t *testing.T) {
	cases := map[string]int{
		"":    1,
		"1":   1,
		"3":   3,
		"0":   1,
		"-4":  1,
		"abc": 1,
		"2.5": 1,
	}
	for raw, want := range cases {
		assert.Equalf(t, want, ParseNumber(raw), "raw %q", raw)
	}
}

func TestNewClampsToValidPages(t *testing.T) {
	tests := []struct {
		total     int64
		requested int
		number    int
		numPages  int
		offset    int
	}{
		{total: 0, requested: 1, number: 1, numPages: 1, offset: 0},
		{total: 0, requested: 5, number: 1, numPages: 1, offset: 0},
		{total: 5, requested: 1, number: 1, numPages: 3, offset: 0},
		{total: 5, requested: 3, number: 3, numPages: 3, offset: 4},
		{total: 5, requested: 4, number: 3, numPages: 3, offset: 4},
		{total: 5, requested: 1000, number: 3, numPages: 3, offset: 4},
		{total: 4, requested: 2, number: 2, numPages: 2, offset: 2},
		{total: 4, requested: 0, number: 1, numPages: 2, offset: 0},
		{total: 4, requested: -1, number: 1, numPages: 2, offset: 0},
	}

	for _, tt := range tests {
		p := New[string](tt.total, 2, tt.requested)
		assert.Equal(t, tt.number, p.Number, "total=%d requested=%d", tt.total, tt.requested)
		assert.Equal(t, tt.numPages, p.NumPages)
		assert.Equal(t, tt.offset, p.Offset())
	}
}

func TestNavigation(t *testing.T) {
	p := New[int](5, 2, 2)
	assert.True(t, p.HasPrevious())
	assert.True(t, p.HasNext())
	assert.True(t, p.HasOtherPages())
	assert.Equal(t, 1, p.PreviousNumber())
	assert.Equal(t, 3, p.NextNumber())
	assert.Equal(t, []int{1, 2, 3}, p.Pages())

	single := New[int](1, 2, 1)
	assert.False(t, single.HasOtherPages())
	assert.Equal(t, 1, single.NextNumber())
	assert.Equal(t, 1, single.PreviousNumber())
}
