package composite

import (
	"github.com/born-ml/primgrad/internal/prim"
	"github.com/born-ml/primgrad/internal/tensor"
	"github.com/gomlx/exceptions"
)

// ReduceDims returns the axes of larger that must be summed to collapse it
// down to smaller, where smaller was broadcast to larger in the forward pass.
//
// The shapes are right-aligned: every leading axis larger has in excess is
// reduced, and so is every aligned axis where smaller is 1 and larger is not.
// The axes are in larger's index space, in ascending order. Equal shapes give
// an empty result.
//
// Example:
//
//	ReduceDims([2, 3, 4], [3, 1]) -> [0, 2]
//
// Shapes that are not broadcast-compatible in that direction are a programming
// error and panic.
func ReduceDims(larger, smaller tensor.Shape) []int {
	offset := len(larger) - len(smaller)
	if offset < 0 {
		exceptions.Panicf("ReduceDims: invalid argument: %v has more axes than the broadcast shape %v",
			smaller, larger)
	}

	dims := make([]int, 0, len(larger))
	for i := 0; i < offset; i++ {
		dims = append(dims, i)
	}
	for i, dim := range smaller {
		big := larger[offset+i]
		switch {
		case dim == big:
		case dim == 1:
			dims = append(dims, offset+i)
		default:
			exceptions.Panicf("ReduceDims: invalid argument: %v does not broadcast to %v (axis %d: %d vs %d)",
				smaller, larger, offset+i, dim, big)
		}
	}
	return dims
}

// ReduceTo sums grad along the broadcast axes and reshapes the result to
// exactly shape. The summation drops the reduced axes, the reshape puts back
// the ones shape keeps with size 1.
//
// When grad already has the target shape the result shares grad's storage and
// nothing is computed. Otherwise the result exclusively owns its storage.
func ReduceTo[T tensor.Element](b tensor.Backend, grad *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	if grad.Shape().Equal(shape) {
		return grad.Clone()
	}
	dims := ReduceDims(grad.Shape(), shape)
	if len(dims) == 0 {
		return prim.Reshape[T](b, grad, tensor.Vectorize(shape))
	}
	reduced := prim.Sum[T](b, grad, dims, tensor.DataTypeOf[T](), false)
	result := prim.Reshape[T](b, reduced, tensor.Vectorize(shape))
	reduced.Release()
	return result
}

// setReduced binds grad into out, reducing it to shape first if it was
// broadcast. owned tells whether grad was created by the calling rule (its
// storage can be moved) or is one of the rule's inputs (it must be shared).
func setReduced[T tensor.Element](b tensor.Backend, grad *tensor.RawTensor, shape tensor.Shape, out *tensor.RawTensor, owned bool) {
	switch {
	case !grad.Shape().Equal(shape):
		out.SetImpl(ReduceTo[T](b, grad, shape))
	case owned:
		out.SetImpl(grad)
	default:
		prim.ByPass[T](grad, out)
	}
}
