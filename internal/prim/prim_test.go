package prim

import (
	"testing"

	"github.com/born-ml/primgrad/internal/backend/cpu"
	"github.com/born-ml/primgrad/internal/tensor"
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestPrimitives_Delegate(t *testing.T) {
	b := cpu.New()
	x := must.M1(tensor.FromFloat64s([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.Float32))

	assert.Equal(t, []float64{1, 4, 9, 16}, Pow[float32](b, x, 2).Float64s())
	assert.Equal(t, []float64{0, -1, -2, -3}, Scale[float32](b, x, -1, 1, true).Float64s())
	assert.Equal(t, []float64{1, 4, 9, 16}, Multiply[float32](b, x, x).Float64s())
	assert.Equal(t, []float64{1, 1, 1, 1}, Divide[float32](b, x, x).Float64s())
	assert.Equal(t, []float64{3, 7}, Sum[float32](b, x, []int{1}, tensor.Float32, false).Float64s())
	assert.Equal(t, tensor.Shape{4}, Reshape[float32](b, x, []int{4}).Shape())
	assert.Equal(t, tensor.Shape{2, 1, 2}, Unsqueeze[float32](b, x, []int{1}).Shape())
	assert.Equal(t, tensor.Shape{3, 2, 2}, Expand[float32](b, x, []int{3, 2, 2}).Shape())

	ones := Full[float16.Float16](b, []int{3}, 1)
	assert.Equal(t, tensor.Float16, ones.DType())
	assert.Equal(t, []float64{1, 1, 1}, ones.Float64s())
}

func TestPrimitives_DTypeMismatch(t *testing.T) {
	b := cpu.New()
	x := must.M1(tensor.FromFloat64s([]float64{1, 2}, tensor.Shape{2}, tensor.Float32))

	err := exceptions.TryCatch[error](func() { Pow[float64](b, x, 2) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prim.Pow")
	assert.Contains(t, err.Error(), "float64")

	err = exceptions.TryCatch[error](func() { Multiply[float32](b, x, tensor.Undefined()) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined")
}

func TestByPass_SharesStorage(t *testing.T) {
	x := must.M1(tensor.FromFloat64s([]float64{1, 2}, tensor.Shape{2}, tensor.Float64))
	out := tensor.Undefined()

	ByPass[float64](x, out)
	assert.True(t, x.IsDefined(), "source keeps its storage")
	assert.True(t, out.SharesStorage(x))
	assert.Equal(t, x.Shape(), out.Shape())
	assert.Equal(t, []float64{1, 2}, out.Float64s())
}
