package cpu

import (
	"github.com/born-ml/primgrad/internal/tensor"
	"github.com/gomlx/exceptions"
)

// Sum sums tensor elements over the given axes and stores the result as dtype.
//
// Parameters:
//   - axes: dimensions to reduce (negative indexing allowed); empty means all axes
//   - dtype: data type of the result
//   - keepDim: if true, keep the reduced dimensions with size 1; if false, remove them
//
// Example:
//
//	x := ...                                            // shape: [2, 3, 4]
//	y := backend.Sum(x, []int{-1}, x.DType(), true)     // shape: [2, 3, 1]
//	z := backend.Sum(x, []int{0, 2}, x.DType(), false)  // shape: [3]
//	s := backend.Sum(x, nil, x.DType(), false)          // shape: []
func (cpu *CPUBackend) Sum(x *tensor.RawTensor, axes []int, dtype tensor.DataType, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	rank := len(shape)

	reduced := make([]bool, rank)
	if len(axes) == 0 {
		for i := range reduced {
			reduced[i] = true
		}
	}
	for _, axis := range axes {
		dim, ok := tensor.NormalizeAxis(axis, rank)
		if !ok {
			exceptions.Panicf("sum: axis %d out of range for %dD tensor", axis, rank)
		}
		if reduced[dim] {
			exceptions.Panicf("sum: axis %d given more than once in %v", dim, axes)
		}
		reduced[dim] = true
	}

	// kept has the reduced axes at size 1: its flat layout is the same as the
	// output's whether or not keepDim is set.
	kept := shape.Clone()
	outShape := make(tensor.Shape, 0, rank)
	for i, dim := range shape {
		if reduced[i] {
			kept[i] = 1
			if keepDim {
				outShape = append(outShape, 1)
			}
			continue
		}
		outShape = append(outShape, dim)
	}

	acc := make([]float64, kept.NumElements())
	inStrides := shape.ComputeStrides()
	keptStrides := kept.ComputeStrides()
	for i, v := range x.Float64s() {
		idx := 0
		rem := i
		for d := 0; d < rank; d++ {
			coord := rem / inStrides[d]
			rem %= inStrides[d]
			if !reduced[d] {
				idx += coord * keptStrides[d]
			}
		}
		acc[idx] += v
	}

	result := cpu.newResult("sum", outShape, dtype)
	storeFloat64s("sum", result, acc)
	return result
}
