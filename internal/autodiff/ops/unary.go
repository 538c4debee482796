package ops

import (
	"github.com/born-ml/primgrad/internal/composite"
	"github.com/born-ml/primgrad/internal/tensor"
)

// TanhOp represents the hyperbolic tangent activation: output = tanh(x).
type TanhOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewTanhOp creates a new tanh operation.
func NewTanhOp(input, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{
		input:  input,
		output: output,
	}
}

// Inputs returns the input tensors.
func (op *TanhOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *TanhOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward computes the gradient for tanh from the recorded output:
// grad_input = grad_output * (1 - output²).
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend, requested []bool) []*tensor.RawTensor {
	grads := newSlots(requested, 1)
	rule := instantiate(outputGrad.DType(),
		composite.TanhGrad[float32], composite.TanhGrad[float64], composite.TanhGrad[half])
	rule(backend, op.output, outputGrad, grads[0])
	return grads
}

// SqrtOp represents the square root: output = sqrt(x).
type SqrtOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSqrtOp creates a new SqrtOp.
func NewSqrtOp(input, output *tensor.RawTensor) *SqrtOp {
	return &SqrtOp{
		input:  input,
		output: output,
	}
}

// Inputs returns the input tensors.
func (op *SqrtOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *SqrtOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward computes grad_input = grad_output * 0.5 / output.
func (op *SqrtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend, requested []bool) []*tensor.RawTensor {
	grads := newSlots(requested, 1)
	rule := instantiate(outputGrad.DType(),
		composite.SqrtGrad[float32], composite.SqrtGrad[float64], composite.SqrtGrad[half])
	rule(backend, op.output, outputGrad, grads[0])
	return grads
}
