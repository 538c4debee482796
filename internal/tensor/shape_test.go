package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 1, Shape{}.NumElements(), "scalar")
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
	assert.Equal(t, 0, Shape{2, 0, 4}.NumElements())
}

func TestShape_Validate(t *testing.T) {
	require.NoError(t, Shape{}.Validate())
	require.NoError(t, Shape{1, 2}.Validate())
	require.Error(t, Shape{2, -1}.Validate())
}

func TestShape_ComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Empty(t, Shape{}.ComputeStrides())
}

func TestShape_CloneIsIndependent(t *testing.T) {
	s := Shape{2, 3}
	c := s.Clone()
	c[0] = 7
	assert.Equal(t, Shape{2, 3}, s)
	assert.True(t, s.Equal(Shape{2, 3}))
	assert.False(t, s.Equal(c))
}

func TestVectorize(t *testing.T) {
	s := Shape{4, 5}
	v := Vectorize(s)
	assert.Equal(t, []int{4, 5}, v)
	v[0] = 0
	assert.Equal(t, 4, s[0], "Vectorize copies")
}

func TestNormalizeAxis(t *testing.T) {
	for _, tc := range []struct {
		axis, rank, want int
		ok               bool
	}{
		{0, 3, 0, true},
		{2, 3, 2, true},
		{-1, 3, 2, true},
		{-3, 3, 0, true},
		{3, 3, 0, false},
		{-4, 3, 0, false},
		{0, 0, 0, false},
	} {
		got, ok := NormalizeAxis(tc.axis, tc.rank)
		assert.Equal(t, tc.ok, ok, "axis %d rank %d", tc.axis, tc.rank)
		if tc.ok {
			assert.Equal(t, tc.want, got, "axis %d rank %d", tc.axis, tc.rank)
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	for _, tc := range []struct {
		a, b, want Shape
		broadcast  bool
	}{
		{Shape{3, 5}, Shape{3, 5}, Shape{3, 5}, false},
		{Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, true},
		{Shape{2, 3}, Shape{3}, Shape{2, 3}, true},
		{Shape{2, 1}, Shape{1, 2}, Shape{2, 2}, true},
		{Shape{}, Shape{4}, Shape{4}, true},
	} {
		got, broadcast, err := BroadcastShapes(tc.a, tc.b)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%v vs %v", tc.a, tc.b)
		assert.Equal(t, tc.broadcast, broadcast, "%v vs %v", tc.a, tc.b)
	}

	_, _, err := BroadcastShapes(Shape{3, 4}, Shape{3, 5})
	require.Error(t, err)
}
