// Package ops records differentiable forward operations and runs their
// composite backward rules.
//
// Each operation implements the Operation interface:
//   - Forward pass: computed by the backend, recorded with its inputs and output
//   - Backward pass: delegated to the matching rule in package composite
//
// Supported operations:
//   - AddOp, SubOp, MulOp, DivOp: element-wise binary ops with broadcasting
//   - TanhOp, SqrtOp: element-wise unary ops
//   - SumOp: reduction sum over axes
package ops

import (
	"github.com/born-ml/primgrad/internal/tensor"
	"github.com/gomlx/exceptions"
	"github.com/x448/float16"
)

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// requested has one entry per input; gradients are only computed for
	// inputs whose entry is true, the others are returned as nil.
	//
	// Example for AddOp:
	//   inputs: [a, b], requested: [true, false]
	//   returns: [dL/d(a+b) reduced to a's shape, nil]
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend, requested []bool) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}

// newSlots returns one output slot per requested input and nil for the rest.
func newSlots(requested []bool, n int) []*tensor.RawTensor {
	slots := make([]*tensor.RawTensor, n)
	for i := range slots {
		if i < len(requested) && requested[i] {
			slots[i] = tensor.Undefined()
		}
	}
	return slots
}

// instantiate picks the rule instantiation for dtype.
func instantiate[F any](dtype tensor.DataType, f32, f64, f16 F) F {
	switch dtype {
	case tensor.Float32:
		return f32
	case tensor.Float64:
		return f64
	case tensor.Float16:
		return f16
	default:
		exceptions.Panicf("no backward rule for dtype %s", dtype)
		panic("unreachable")
	}
}

// half is the element type tag for float16 tensors.
type half = float16.Float16
