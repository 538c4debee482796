package cpu

import (
	"github.com/born-ml/primgrad/internal/tensor"
	"github.com/gomlx/exceptions"
)

// binary validates operands, allocates the broadcast result and fills it.
func (cpu *CPUBackend) binary(op string, a, b *tensor.RawTensor, fn func(x, y float64) float64) *tensor.RawTensor {
	if a.DType() != b.DType() {
		exceptions.Panicf("%s: dtype mismatch: %s vs %s", op, a.DType(), b.DType())
	}
	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		exceptions.Panicf("%s: %v", op, err)
	}

	result := cpu.newResult(op, outShape, a.DType())
	mapBinary(cpu.parallel, op, result, a, b, fn)
	return result
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
// Division by zero follows IEEE semantics (±Inf or NaN).
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b, func(x, y float64) float64 { return x / y })
}
