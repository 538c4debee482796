package cpu

import (
	"github.com/born-ml/primgrad/internal/parallel"
	"github.com/born-ml/primgrad/internal/tensor"
	"github.com/gomlx/exceptions"
)

// Expand broadcasts the tensor to a new shape.
func (cpu *CPUBackend) Expand(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	xShape := x.Shape()

	// newShape must have >= dimensions
	if len(newShape) < len(xShape) {
		exceptions.Panicf("expand: new shape %v has fewer dimensions than input shape %v",
			newShape, xShape)
	}

	// Align shapes from the right: each input dimension must equal the new one or be 1.
	offset := len(newShape) - len(xShape)
	for i, xDim := range xShape {
		newDim := newShape[offset+i]
		if xDim != 1 && xDim != newDim {
			exceptions.Panicf("expand: cannot expand dimension %d from %d to %d (%v -> %v)",
				i, xDim, newDim, xShape, newShape)
		}
	}

	result := cpu.newResult("expand", newShape, x.DType())

	switch x.DType() {
	case tensor.Float32:
		expandKernel(cpu.parallel, result.AsFloat32(), x.AsFloat32(), xShape, newShape)
	case tensor.Float64:
		expandKernel(cpu.parallel, result.AsFloat64(), x.AsFloat64(), xShape, newShape)
	case tensor.Float16:
		expandKernel(cpu.parallel, result.AsFloat16(), x.AsFloat16(), xShape, newShape)
	default:
		exceptions.Panicf("expand: unsupported dtype %v", x.DType())
	}

	return result
}

// expandKernel copies src into dst, repeating along broadcast dimensions.
// It only moves elements, so it works for any element type.
func expandKernel[T any](cfg parallel.Config, dst, src []T, srcShape, dstShape tensor.Shape) {
	dstStrides := dstShape.ComputeStrides()
	srcStrides := computeBroadcastStridesForShape(srcShape, dstShape)
	parallel.Ranges(len(dst), cfg, func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = src[computeFlatIndex(i, dstStrides, srcStrides)]
		}
	})
}

// Unsqueeze inserts dimensions of size 1, one axis at a time.
//
// Each axis is interpreted against the rank at the moment it is inserted, and
// negative values count from the end of that rank plus one. Passing the axes
// in ascending order therefore places them at exactly those positions of the
// final shape.
//
// Example:
//
//	x := ...                         // shape: [2, 3]
//	y := backend.Unsqueeze(x, 1)     // shape: [2, 1, 3]
//	z := backend.Unsqueeze(x, 0, 3)  // shape: [1, 2, 3, 1]
func (cpu *CPUBackend) Unsqueeze(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	newShape := x.Shape().Clone()
	for _, axis := range axes {
		rank := len(newShape)
		dim := axis
		if dim < 0 {
			dim += rank + 1
		}
		if dim < 0 || dim > rank {
			exceptions.Panicf("unsqueeze: axis %d out of range for %dD tensor (valid: [%d, %d])",
				axis, rank, -rank-1, rank)
		}
		newShape = append(newShape, 0)
		copy(newShape[dim+1:], newShape[dim:])
		newShape[dim] = 1
	}

	return cpu.Reshape(x, newShape)
}

// Full creates a tensor of the given shape with every element set to value.
func (cpu *CPUBackend) Full(shape tensor.Shape, value float64, dtype tensor.DataType) *tensor.RawTensor {
	result := cpu.newResult("full", shape, dtype)
	values := make([]float64, result.NumElements())
	for i := range values {
		values[i] = value
	}
	storeFloat64s("full", result, values)
	return result
}
