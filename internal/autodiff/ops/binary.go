package ops

import (
	"github.com/born-ml/primgrad/internal/composite"
	"github.com/born-ml/primgrad/internal/tensor"
)

// binaryOp holds what every element-wise binary operation records.
type binaryOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor
}

// Inputs returns the input tensors [a, b].
func (op *binaryOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor.
func (op *binaryOp) Output() *tensor.RawTensor {
	return op.output
}

// AddOp represents an element-wise addition: output = a + b.
//
// Backward: grad_a = grad_b = outputGrad, each summed over the axes along
// which its input was broadcast.
type AddOp struct{ binaryOp }

// NewAddOp creates a new AddOp.
func NewAddOp(a, b, output *tensor.RawTensor) *AddOp {
	return &AddOp{binaryOp{inputs: []*tensor.RawTensor{a, b}, output: output}}
}

// Backward computes input gradients for addition.
func (op *AddOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend, requested []bool) []*tensor.RawTensor {
	grads := newSlots(requested, 2)
	rule := instantiate(outputGrad.DType(),
		composite.AddGrad[float32], composite.AddGrad[float64], composite.AddGrad[half])
	rule(backend, op.inputs[0], op.inputs[1], outputGrad, composite.DefaultAxis, grads[0], grads[1])
	return grads
}

// SubOp represents an element-wise subtraction: output = a - b.
//
// Backward: grad_a = outputGrad, grad_b = -outputGrad, reduced like AddOp.
type SubOp struct{ binaryOp }

// NewSubOp creates a new SubOp.
func NewSubOp(a, b, output *tensor.RawTensor) *SubOp {
	return &SubOp{binaryOp{inputs: []*tensor.RawTensor{a, b}, output: output}}
}

// Backward computes input gradients for subtraction.
func (op *SubOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend, requested []bool) []*tensor.RawTensor {
	grads := newSlots(requested, 2)
	rule := instantiate(outputGrad.DType(),
		composite.SubtractGrad[float32], composite.SubtractGrad[float64], composite.SubtractGrad[half])
	rule(backend, op.inputs[0], op.inputs[1], outputGrad, composite.DefaultAxis, grads[0], grads[1])
	return grads
}

// MulOp represents an element-wise multiplication: output = a * b.
//
// Backward: grad_a = outputGrad * b, grad_b = outputGrad * a.
type MulOp struct{ binaryOp }

// NewMulOp creates a new MulOp.
func NewMulOp(a, b, output *tensor.RawTensor) *MulOp {
	return &MulOp{binaryOp{inputs: []*tensor.RawTensor{a, b}, output: output}}
}

// Backward computes input gradients for multiplication.
func (op *MulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend, requested []bool) []*tensor.RawTensor {
	grads := newSlots(requested, 2)
	rule := instantiate(outputGrad.DType(),
		composite.MultiplyGrad[float32], composite.MultiplyGrad[float64], composite.MultiplyGrad[half])
	rule(backend, op.inputs[0], op.inputs[1], outputGrad, composite.DefaultAxis, grads[0], grads[1])
	return grads
}

// DivOp represents an element-wise division: output = a / b.
//
// Backward pass:
//   - d(a/b)/da = 1/b, so grad_a = outputGrad / b
//   - d(a/b)/db = -a/b², so grad_b = -outputGrad * a / b²
type DivOp struct{ binaryOp }

// NewDivOp creates a new DivOp.
func NewDivOp(a, b, output *tensor.RawTensor) *DivOp {
	return &DivOp{binaryOp{inputs: []*tensor.RawTensor{a, b}, output: output}}
}

// Backward computes input gradients for division.
func (op *DivOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend, requested []bool) []*tensor.RawTensor {
	grads := newSlots(requested, 2)
	rule := instantiate(outputGrad.DType(),
		composite.DivideGrad[float32], composite.DivideGrad[float64], composite.DivideGrad[half])
	rule(backend, op.inputs[0], op.inputs[1], op.output, outputGrad, composite.DefaultAxis, grads[0], grads[1])
	return grads
}
