package cpu

import (
	"math"

	"github.com/born-ml/primgrad/internal/tensor"
)

func (cpu *CPUBackend) unary(op string, x *tensor.RawTensor, fn func(float64) float64) *tensor.RawTensor {
	result := cpu.newResult(op, x.Shape(), x.DType())
	mapUnary(cpu.parallel, op, result, x, fn)
	return result
}

// Pow computes element-wise x^exponent.
func (cpu *CPUBackend) Pow(x *tensor.RawTensor, exponent float64) *tensor.RawTensor {
	if exponent == 2 {
		return cpu.unary("pow", x, func(v float64) float64 { return v * v })
	}
	return cpu.unary("pow", x, func(v float64) float64 { return math.Pow(v, exponent) })
}

// Scale computes scale*x + bias if biasAfterScale, otherwise scale*(x + bias).
//
// Example:
//
//	y := backend.Scale(x, -1, 1, true)  // 1 - x
//	z := backend.Scale(x, -1, 0, true)  // -x
func (cpu *CPUBackend) Scale(x *tensor.RawTensor, scale, bias float64, biasAfterScale bool) *tensor.RawTensor {
	if biasAfterScale {
		return cpu.unary("scale", x, func(v float64) float64 { return scale*v + bias })
	}
	return cpu.unary("scale", x, func(v float64) float64 { return scale * (v + bias) })
}

// Tanh computes element-wise hyperbolic tangent.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("tanh", x, math.Tanh)
}

// Sqrt computes element-wise square root. Negative inputs yield NaN.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("sqrt", x, math.Sqrt)
}
