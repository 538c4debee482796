package composite_test

import (
	"fmt"
	"testing"

	"github.com/born-ml/primgrad/internal/backend/cpu"
	"github.com/born-ml/primgrad/internal/composite"
	"github.com/born-ml/primgrad/internal/tensor"
	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceDims(t *testing.T) {
	for _, tc := range []struct {
		larger, smaller tensor.Shape
		want            []int
	}{
		{tensor.Shape{2, 3}, tensor.Shape{2, 3}, []int{}},
		{tensor.Shape{}, tensor.Shape{}, []int{}},
		{tensor.Shape{2, 3}, tensor.Shape{3}, []int{0}},
		{tensor.Shape{2, 3}, tensor.Shape{}, []int{0, 1}},
		{tensor.Shape{2, 3, 4}, tensor.Shape{3, 1}, []int{0, 2}},
		{tensor.Shape{2, 3, 3, 4}, tensor.Shape{2, 3, 1, 1}, []int{2, 3}},
		{tensor.Shape{2, 2}, tensor.Shape{2, 1}, []int{1}},
		{tensor.Shape{2, 2}, tensor.Shape{1, 2}, []int{0}},
		{tensor.Shape{1, 4}, tensor.Shape{1, 1}, []int{1}},
	} {
		got := composite.ReduceDims(tc.larger, tc.smaller)
		assert.NotNil(t, got)
		assert.Equal(t, tc.want, got, "ReduceDims(%v, %v)", tc.larger, tc.smaller)
	}
}

func TestReduceDims_InvalidArgument(t *testing.T) {
	for _, tc := range [][2]tensor.Shape{
		{{3}, {2, 3}},
		{{2, 3}, {4}},
		{{2, 3}, {2, 2}},
	} {
		err := exceptions.TryCatch[error](func() { composite.ReduceDims(tc[0], tc[1]) })
		require.Error(t, err, "ReduceDims(%v, %v)", tc[0], tc[1])
		assert.Contains(t, err.Error(), "invalid argument")
	}
}

// Reducing ones(A) to B gives product(A)/product(B) everywhere.
func TestReduceTo_Ones(t *testing.T) {
	b := cpu.New()
	for _, tc := range [][2]tensor.Shape{
		{{2, 3}, {3}},
		{{2, 3}, {2, 3}},
		{{2, 3, 4}, {3, 1}},
		{{2, 3, 4}, {}},
		{{4, 1, 5}, {1, 1, 5}},
		{{2, 3, 3, 4}, {3, 1, 4}},
	} {
		larger, smaller := tc[0], tc[1]
		t.Run(fmt.Sprintf("%v->%v", larger, smaller), func(t *testing.T) {
			ones := b.Full(larger, 1, tensor.Float64)
			got := composite.ReduceTo[float64](b, ones, smaller)
			require.Equal(t, smaller, got.Shape())
			want := float64(larger.NumElements() / smaller.NumElements())
			for _, v := range got.Float64s() {
				assert.Equal(t, want, v)
			}
		})
	}
}

func TestReduceTo_SameShapeSharesStorage(t *testing.T) {
	b := cpu.New()
	grad := b.Full(tensor.Shape{2, 2}, 3, tensor.Float32)
	b.ResetStats()
	got := composite.ReduceTo[float32](b, grad, tensor.Shape{2, 2})
	assert.True(t, got.SharesStorage(grad))
	assert.Equal(t, cpu.Stats{}, b.Stats())
}
