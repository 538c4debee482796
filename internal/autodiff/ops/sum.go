package ops

import (
	"github.com/born-ml/primgrad/internal/composite"
	"github.com/born-ml/primgrad/internal/tensor"
)

// SumOp represents a reduction sum over axes: output = sum(x, axes, keepDim).
//
// Backward:
//
//	grad_x = expand(unsqueeze(grad_y, axes), x.shape)
//
// The unsqueeze is skipped when keepDim kept the reduced axes.
type SumOp struct {
	input   *tensor.RawTensor
	output  *tensor.RawTensor
	axes    []int // axes reduced; empty means all
	keepDim bool
}

// NewSumOp creates a new SumOp.
func NewSumOp(x, output *tensor.RawTensor, axes []int, keepDim bool) *SumOp {
	return &SumOp{
		input:   x,
		output:  output,
		axes:    append([]int(nil), axes...),
		keepDim: keepDim,
	}
}

// Inputs returns the input tensors [x].
func (op *SumOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *SumOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward broadcasts the output gradient back to the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend, requested []bool) []*tensor.RawTensor {
	grads := newSlots(requested, 1)
	rule := instantiate(outputGrad.DType(),
		composite.SumGrad[float32], composite.SumGrad[float64], composite.SumGrad[half])
	rule(backend, op.input, outputGrad, op.axes, op.keepDim, len(op.axes) == 0, grads[0])
	return grads
}
