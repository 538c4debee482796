package cpu

import (
	"math"
	"testing"

	"github.com/born-ml/primgrad/internal/parallel"
	"github.com/born-ml/primgrad/internal/tensor"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iota64(shape ...int) *tensor.RawTensor {
	s := tensor.Shape(shape)
	values := make([]float64, s.NumElements())
	for i := range values {
		values[i] = float64(i + 1)
	}
	return must.M1(tensor.FromFloat64s(values, s, tensor.Float64))
}

func values(dtype tensor.DataType, v []float64, shape ...int) *tensor.RawTensor {
	return must.M1(tensor.FromFloat64s(v, tensor.Shape(shape), dtype))
}

func TestBackend_Metadata(t *testing.T) {
	backend := New()
	assert.Equal(t, "CPU", backend.Name())
	assert.Equal(t, tensor.CPU, backend.Device())
	var _ tensor.Backend = backend
}

func TestBinary_Broadcast(t *testing.T) {
	backend := New()
	x := iota64(2, 3)                                     // [[1 2 3] [4 5 6]]
	y := values(tensor.Float64, []float64{10, 20, 30}, 3) // [10 20 30]

	sum := backend.Add(x, y)
	assert.Equal(t, tensor.Shape{2, 3}, sum.Shape())
	assert.Equal(t, []float64{11, 22, 33, 14, 25, 36}, sum.Float64s())

	diff := backend.Sub(x, y)
	assert.Equal(t, []float64{-9, -18, -27, -6, -15, -24}, diff.Float64s())

	col := values(tensor.Float64, []float64{2, 3}, 2, 1)
	assert.Equal(t, []float64{2, 4, 6, 12, 15, 18}, backend.Mul(x, col).Float64s())
	assert.Equal(t, []float64{0.5, 1, 1.5, 4.0 / 3, 5.0 / 3, 2}, backend.Div(x, col).Float64s())

	// Mutual broadcast: [2,1] op [1,2] -> [2,2].
	row := values(tensor.Float64, []float64{10, 20}, 1, 2)
	outer := backend.Add(col, row)
	assert.Equal(t, tensor.Shape{2, 2}, outer.Shape())
	assert.Equal(t, []float64{12, 22, 13, 23}, outer.Float64s())

	// Inputs are never written.
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, x.Float64s())
}

func TestBinary_Errors(t *testing.T) {
	backend := New()
	assert.Panics(t, func() { backend.Add(iota64(3, 4), iota64(3, 5)) })
	assert.Panics(t, func() {
		backend.Mul(iota64(2), values(tensor.Float32, []float64{1, 2}, 2))
	})
}

func TestDiv_IEEE(t *testing.T) {
	backend := New()
	x := values(tensor.Float64, []float64{1, -1, 0}, 3)
	zero := values(tensor.Float64, []float64{0}, 1)
	got := backend.Div(x, zero).Float64s()
	assert.True(t, math.IsInf(got[0], 1))
	assert.True(t, math.IsInf(got[1], -1))
	assert.True(t, math.IsNaN(got[2]))
}

func TestUnaryMath(t *testing.T) {
	backend := New()
	x := values(tensor.Float64, []float64{-2, 0.5, 4}, 3)

	assert.Equal(t, []float64{4, 0.25, 16}, backend.Pow(x, 2).Float64s())
	assert.InDeltaSlice(t, []float64{-8, 0.125, 64}, backend.Pow(x, 3).Float64s(), 1e-12)
	assert.Equal(t, []float64{3, 0.5, -3}, backend.Scale(x, -1, 1, true).Float64s(), "1 - x")
	assert.Equal(t, []float64{1, -1.5, -5}, backend.Scale(x, -1, 1, false).Float64s(), "-(x + 1)")
	assert.InDeltaSlice(t, []float64{math.Tanh(-2), math.Tanh(0.5), math.Tanh(4)}, backend.Tanh(x).Float64s(), 1e-15)

	roots := backend.Sqrt(x).Float64s()
	assert.True(t, math.IsNaN(roots[0]))
	assert.InDeltaSlice(t, []float64{math.Sqrt(0.5), 2}, roots[1:], 1e-15)
}

func TestSum(t *testing.T) {
	backend := New()
	x := iota64(2, 3, 4)

	all := backend.Sum(x, nil, tensor.Float64, false)
	assert.Equal(t, tensor.Shape{}, all.Shape())
	assert.Equal(t, []float64{300}, all.Float64s())

	allKept := backend.Sum(x, nil, tensor.Float64, true)
	assert.Equal(t, tensor.Shape{1, 1, 1}, allKept.Shape())

	last := backend.Sum(x, []int{-1}, tensor.Float64, true)
	assert.Equal(t, tensor.Shape{2, 3, 1}, last.Shape())
	assert.Equal(t, []float64{10, 26, 42, 58, 74, 90}, last.Float64s())

	outer := backend.Sum(x, []int{2, 0}, tensor.Float64, false)
	assert.Equal(t, tensor.Shape{3}, outer.Shape())
	assert.Equal(t, []float64{68, 100, 132}, outer.Float64s())

	// The result takes the requested dtype.
	asFloat32 := backend.Sum(x, []int{0, 1}, tensor.Float32, false)
	assert.Equal(t, tensor.Float32, asFloat32.DType())
	assert.Equal(t, []float64{66, 72, 78, 84}, asFloat32.Float64s())

	assert.Panics(t, func() { backend.Sum(x, []int{3}, tensor.Float64, false) })
	assert.Panics(t, func() { backend.Sum(x, []int{1, -2}, tensor.Float64, false) })
}

func TestReshapeAndUnsqueeze_AreViews(t *testing.T) {
	backend := New()
	x := iota64(2, 3)

	backend.ResetStats()
	r := backend.Reshape(x, tensor.Shape{3, 2})
	assert.Equal(t, tensor.Shape{3, 2}, r.Shape())
	assert.True(t, r.SharesStorage(x))

	u := backend.Unsqueeze(x, 0, 3)
	assert.Equal(t, tensor.Shape{1, 2, 3, 1}, u.Shape())
	assert.True(t, u.SharesStorage(x))
	assert.Equal(t, tensor.Shape{2, 1, 3}, backend.Unsqueeze(x, 1).Shape())
	assert.Equal(t, tensor.Shape{2, 3, 1}, backend.Unsqueeze(x, -1).Shape())
	assert.Equal(t, Stats{}, backend.Stats(), "views allocate nothing")

	assert.Panics(t, func() { backend.Reshape(x, tensor.Shape{4}) })
	assert.Panics(t, func() { backend.Unsqueeze(x, 4) })
}

func TestExpand(t *testing.T) {
	backend := New()
	col := values(tensor.Float64, []float64{1, 2}, 2, 1)

	got := backend.Expand(col, tensor.Shape{3, 2, 3})
	assert.Equal(t, tensor.Shape{3, 2, 3}, got.Shape())
	want := make([]float64, 0, 18)
	for range 3 {
		want = append(want, 1, 1, 1, 2, 2, 2)
	}
	assert.Equal(t, want, got.Float64s())

	half := values(tensor.Float16, []float64{0.5}, 1)
	assert.Equal(t, []float64{0.5, 0.5}, backend.Expand(half, tensor.Shape{2}).Float64s())

	assert.Panics(t, func() { backend.Expand(col, tensor.Shape{2}) })
	assert.Panics(t, func() { backend.Expand(col, tensor.Shape{3, 3}) })
}

func TestFull(t *testing.T) {
	backend := New()
	f := backend.Full(tensor.Shape{2, 2}, 0.5, tensor.Float32)
	assert.Equal(t, tensor.Float32, f.DType())
	assert.Equal(t, []float32{0.5, 0.5, 0.5, 0.5}, f.AsFloat32())

	scalar := backend.Full(tensor.Shape{}, 3, tensor.Float64)
	assert.Equal(t, []float64{3}, scalar.Float64s())
}

func TestFloat16Arithmetic(t *testing.T) {
	backend := New()
	x := values(tensor.Float16, []float64{1, 2, 4}, 3)
	y := values(tensor.Float16, []float64{0.5}, 1)
	got := backend.Mul(x, y)
	require.Equal(t, tensor.Float16, got.DType())
	assert.Equal(t, []float64{0.5, 1, 2}, got.Float64s())
	assert.Equal(t, []float64{7}, backend.Sum(x, nil, tensor.Float16, false).Float64s())
}

func TestStats(t *testing.T) {
	backend := New()
	x := iota64(2, 3)
	backend.ResetStats()

	backend.Add(x, x)
	backend.Full(tensor.Shape{4}, 1, tensor.Float32)
	assert.Equal(t, Stats{Tensors: 2, Bytes: 6*8 + 4*4}, backend.Stats())

	backend.ResetStats()
	assert.Equal(t, Stats{}, backend.Stats())
}

func TestParallelKernels_MatchSequential(t *testing.T) {
	x := iota64(64, 33)
	y := iota64(33)
	col := iota64(64, 1)

	run := func(cfg parallel.Config) [][]float64 {
		backend := New()
		backend.SetParallel(cfg)
		return [][]float64{
			backend.Add(x, y).Float64s(),
			backend.Div(col, y).Float64s(),
			backend.Tanh(x).Float64s(),
			backend.Expand(col, tensor.Shape{3, 64, 33}).Float64s(),
		}
	}
	sequential := run(parallel.Sequential())
	chunked := run(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 7})
	assert.Equal(t, sequential, chunked)
}
