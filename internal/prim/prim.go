// Package prim is the fixed vocabulary of primitive tensor operations that the
// composite gradient rules are built from.
//
// Every function is instantiated with the element type T of the rule that calls
// it and checks that its operands carry that dtype. The arithmetic itself is
// delegated to a tensor.Backend.
package prim

import (
	"github.com/born-ml/primgrad/internal/tensor"
	"github.com/gomlx/exceptions"
)

func checkDType[T tensor.Element](op string, ts ...*tensor.RawTensor) {
	want := tensor.DataTypeOf[T]()
	for i, t := range ts {
		if !t.IsDefined() {
			exceptions.Panicf("prim.%s: operand #%d is undefined", op, i)
		}
		if t.DType() != want {
			exceptions.Panicf("prim.%s: operand #%d has dtype %s, rule instantiated for %s", op, i, t.DType(), want)
		}
	}
}

// Pow returns x^exponent element-wise.
func Pow[T tensor.Element](b tensor.Backend, x *tensor.RawTensor, exponent float64) *tensor.RawTensor {
	checkDType[T]("Pow", x)
	return b.Pow(x, exponent)
}

// Scale returns scale*x + bias if biasAfterScale, otherwise scale*(x + bias).
func Scale[T tensor.Element](b tensor.Backend, x *tensor.RawTensor, scale, bias float64, biasAfterScale bool) *tensor.RawTensor {
	checkDType[T]("Scale", x)
	return b.Scale(x, scale, bias, biasAfterScale)
}

// Multiply returns x*y with broadcasting.
func Multiply[T tensor.Element](b tensor.Backend, x, y *tensor.RawTensor) *tensor.RawTensor {
	checkDType[T]("Multiply", x, y)
	return b.Mul(x, y)
}

// Divide returns x/y with broadcasting.
func Divide[T tensor.Element](b tensor.Backend, x, y *tensor.RawTensor) *tensor.RawTensor {
	checkDType[T]("Divide", x, y)
	return b.Div(x, y)
}

// Sum reduces x over axes and returns the result as dtype. An empty axes list
// reduces every axis.
func Sum[T tensor.Element](b tensor.Backend, x *tensor.RawTensor, axes []int, dtype tensor.DataType, keepDim bool) *tensor.RawTensor {
	checkDType[T]("Sum", x)
	return b.Sum(x, axes, dtype, keepDim)
}

// Reshape returns x viewed with shape.
func Reshape[T tensor.Element](b tensor.Backend, x *tensor.RawTensor, shape []int) *tensor.RawTensor {
	checkDType[T]("Reshape", x)
	return b.Reshape(x, tensor.Shape(shape))
}

// Unsqueeze inserts size-1 axes into x, in order.
func Unsqueeze[T tensor.Element](b tensor.Backend, x *tensor.RawTensor, axes []int) *tensor.RawTensor {
	checkDType[T]("Unsqueeze", x)
	return b.Unsqueeze(x, axes...)
}

// Expand broadcasts x to shape.
func Expand[T tensor.Element](b tensor.Backend, x *tensor.RawTensor, shape []int) *tensor.RawTensor {
	checkDType[T]("Expand", x)
	return b.Expand(x, tensor.Shape(shape))
}

// Full returns a tensor of element type T filled with value.
func Full[T tensor.Element](b tensor.Backend, shape []int, value float64) *tensor.RawTensor {
	return b.Full(tensor.Shape(shape), value, tensor.DataTypeOf[T]())
}

// ByPass binds x into out without computing anything. x keeps its storage:
// both handles share the same read-only buffer afterwards.
func ByPass[T tensor.Element](x, out *tensor.RawTensor) {
	checkDType[T]("ByPass", x)
	out.SetImpl(x.Clone())
}
