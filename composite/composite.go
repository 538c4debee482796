// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package composite exposes the backward rules of the elementwise and
// reduction operations, built from backend primitives.
//
// Every rule takes the forward tensors it needs, the upstream gradient and one
// output slot per input. A nil slot skips that gradient entirely; a non-nil
// slot (usually tensor.Undefined()) receives the result.
//
// Example:
//
//	backend := cpu.New()
//	dx, dy := tensor.Undefined(), tensor.Undefined()
//	composite.AddGrad[float32](backend, x, y, outGrad, composite.DefaultAxis, dx, dy)
//
// Rules must be instantiated with the element type of their tensors; a
// mismatch panics.
package composite

import (
	"github.com/born-ml/primgrad/internal/composite"
	"github.com/born-ml/primgrad/tensor"
)

// DefaultAxis is the elementwise broadcast axis: trailing alignment.
const DefaultAxis = composite.DefaultAxis

// ReduceDims returns the axes of larger to sum to collapse it down to smaller.
func ReduceDims(larger, smaller tensor.Shape) []int {
	return composite.ReduceDims(larger, smaller)
}

// ReduceTo sums grad down to shape along its broadcast axes.
func ReduceTo[T tensor.Element](b tensor.Backend, grad *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	return composite.ReduceTo[T](b, grad, shape)
}

// TanhGrad computes dx for out = tanh(x).
func TanhGrad[T tensor.Element](b tensor.Backend, out, outGrad, dx *tensor.RawTensor) {
	composite.TanhGrad[T](b, out, outGrad, dx)
}

// AddGrad computes dx and dy for out = x + y.
func AddGrad[T tensor.Element](b tensor.Backend, x, y, outGrad *tensor.RawTensor, axis int, dx, dy *tensor.RawTensor) {
	composite.AddGrad[T](b, x, y, outGrad, axis, dx, dy)
}

// SubtractGrad computes dx and dy for out = x - y.
func SubtractGrad[T tensor.Element](b tensor.Backend, x, y, outGrad *tensor.RawTensor, axis int, dx, dy *tensor.RawTensor) {
	composite.SubtractGrad[T](b, x, y, outGrad, axis, dx, dy)
}

// MultiplyGrad computes dx and dy for out = x * y.
func MultiplyGrad[T tensor.Element](b tensor.Backend, x, y, outGrad *tensor.RawTensor, axis int, dx, dy *tensor.RawTensor) {
	composite.MultiplyGrad[T](b, x, y, outGrad, axis, dx, dy)
}

// DivideGrad computes dx and dy for out = x / y.
func DivideGrad[T tensor.Element](b tensor.Backend, x, y, out, outGrad *tensor.RawTensor, axis int, dx, dy *tensor.RawTensor) {
	composite.DivideGrad[T](b, x, y, out, outGrad, axis, dx, dy)
}

// SqrtGrad computes dx for out = sqrt(x).
func SqrtGrad[T tensor.Element](b tensor.Backend, out, outGrad, dx *tensor.RawTensor) {
	composite.SqrtGrad[T](b, out, outGrad, dx)
}

// SumGrad computes dx for out = sum(x, axes, keepDim). reduceAll is accepted
// for call-site compatibility; whether every axis was reduced is derived from
// axes and x's rank.
func SumGrad[T tensor.Element](b tensor.Backend, x, outGrad *tensor.RawTensor, axes []int, keepDim, reduceAll bool, dx *tensor.RawTensor) {
	composite.SumGrad[T](b, x, outGrad, axes, keepDim, reduceAll, dx)
}
