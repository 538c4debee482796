// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation and adds gradient tracking
// through a GradientTape. The backward pass of every recorded operation is a
// composite rule from package composite, so gradients are themselves computed
// with the wrapped backend's primitives.
//
// Architecture:
//   - Decorator pattern: AutodiffBackend[B] wraps any Backend implementation
//   - GradientTape: records operations on watched tensors during the forward pass
//   - Operation interface: each op (Add, Div, Sum, ...) delegates its backward pass
//   - Reverse-mode AD: gradients are requested only for watched inputs
//
// Usage:
//
//	b := autodiff.New(cpu.New())
//	b.Tape().Watch(x)
//	b.Tape().StartRecording()
//	y := b.Tanh(b.Add(x, bias))
//	grads := autodiff.Backward(y, b)
//	dx := grads[x]
package autodiff

import (
	"github.com/born-ml/primgrad/internal/autodiff/ops"
	"github.com/born-ml/primgrad/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a GradientTape.
//
// Type parameter B must satisfy the tensor.Backend interface.
type AutodiffBackend[B tensor.Backend] struct {
	inner B             // Wrapped backend
	tape  *GradientTape // Records operations for backpropagation
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
// Useful for:
//   - Watching the tensors whose gradients are wanted
//   - Starting/stopping recording
//   - Clearing tape between iterations
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Add(a, c)
	b.tape.Record(ops.NewAddOp(a, c, result))
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sub(a, c)
	b.tape.Record(ops.NewSubOp(a, c, result))
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(a, c)
	b.tape.Record(ops.NewMulOp(a, c, result))
	return result
}

// Div performs element-wise division and records the operation.
func (b *AutodiffBackend[B]) Div(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Div(a, c)
	b.tape.Record(ops.NewDivOp(a, c, result))
	return result
}

// Tanh applies hyperbolic tangent and records the operation.
func (b *AutodiffBackend[B]) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Tanh(x)
	b.tape.Record(ops.NewTanhOp(x, result))
	return result
}

// Sqrt computes the element-wise square root and records the operation.
func (b *AutodiffBackend[B]) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sqrt(x)
	b.tape.Record(ops.NewSqrtOp(x, result))
	return result
}

// Sum reduces x over axes and records the operation.
func (b *AutodiffBackend[B]) Sum(x *tensor.RawTensor, axes []int, dtype tensor.DataType, keepDim bool) *tensor.RawTensor {
	result := b.inner.Sum(x, axes, dtype, keepDim)
	b.tape.Record(ops.NewSumOp(x, result, axes, keepDim))
	return result
}

// Pow is not differentiated: it is delegated without recording.
func (b *AutodiffBackend[B]) Pow(x *tensor.RawTensor, exponent float64) *tensor.RawTensor {
	return b.inner.Pow(x, exponent)
}

// Scale is not differentiated: it is delegated without recording.
func (b *AutodiffBackend[B]) Scale(x *tensor.RawTensor, scale, bias float64, biasAfterScale bool) *tensor.RawTensor {
	return b.inner.Scale(x, scale, bias, biasAfterScale)
}

// Reshape is not differentiated: it is delegated without recording.
func (b *AutodiffBackend[B]) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	return b.inner.Reshape(x, newShape)
}

// Unsqueeze is not differentiated: it is delegated without recording.
func (b *AutodiffBackend[B]) Unsqueeze(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	return b.inner.Unsqueeze(x, axes...)
}

// Expand is not differentiated: it is delegated without recording.
func (b *AutodiffBackend[B]) Expand(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	return b.inner.Expand(x, shape)
}

// Full creates a constant tensor.
func (b *AutodiffBackend[B]) Full(shape tensor.Shape, value float64, dtype tensor.DataType) *tensor.RawTensor {
	return b.inner.Full(shape, value, dtype)
}
