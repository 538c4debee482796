// Package composite implements backward rules as compositions of the primitive
// operations in package prim.
//
// Each rule receives the forward tensors it needs, the upstream gradient and one
// output slot per input gradient. A nil slot means the gradient was not
// requested: the rule skips that branch entirely, allocating and computing
// nothing for it. Results are bound into the slots with SetImpl, so the caller's
// handles own them afterwards. Rules never modify their input tensors.
//
// Rules are generic over the element type T and must be instantiated with the
// dtype of the tensors they receive, e.g. TanhGrad[float32].
package composite

import (
	"slices"

	"github.com/born-ml/primgrad/internal/prim"
	"github.com/born-ml/primgrad/internal/tensor"
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"
)

// DefaultAxis is the only supported value of the elementwise broadcast axis:
// operands are aligned on their trailing dimensions.
const DefaultAxis = -1

func checkAxis(rule string, axis int) {
	if axis != DefaultAxis {
		exceptions.Panicf("%s: elementwise axis %d not supported, only trailing alignment (%d)", rule, axis, DefaultAxis)
	}
}

// TanhGrad computes dx = outGrad * (1 - out²) for out = tanh(x).
func TanhGrad[T tensor.Element](b tensor.Backend, out, outGrad *tensor.RawTensor, dx *tensor.RawTensor) {
	if dx == nil {
		return
	}
	tmp := prim.Pow[T](b, out, 2)
	tmp = prim.Scale[T](b, tmp, -1, 1, true)
	dx.SetImpl(prim.Multiply[T](b, outGrad, tmp))
}

// AddGrad computes the gradients of out = x + y.
//
// Both gradients are outGrad itself, summed down to the input's shape when that
// input was broadcast.
func AddGrad[T tensor.Element](b tensor.Backend, x, y, outGrad *tensor.RawTensor, axis int, dx, dy *tensor.RawTensor) {
	checkAxis("AddGrad", axis)
	if dy != nil {
		setReduced[T](b, outGrad, y.Shape(), dy, false)
	}
	if dx != nil {
		setReduced[T](b, outGrad, x.Shape(), dx, false)
	}
}

// SubtractGrad computes the gradients of out = x - y: dx = outGrad, dy = -outGrad,
// each summed down to its input's shape.
func SubtractGrad[T tensor.Element](b tensor.Backend, x, y, outGrad *tensor.RawTensor, axis int, dx, dy *tensor.RawTensor) {
	checkAxis("SubtractGrad", axis)
	if dy != nil {
		negGrad := prim.Scale[T](b, outGrad, -1, 0, true)
		setReduced[T](b, negGrad, y.Shape(), dy, true)
	}
	if dx != nil {
		setReduced[T](b, outGrad, x.Shape(), dx, false)
	}
}

// MultiplyGrad computes the gradients of out = x * y: dx = outGrad * y and
// dy = outGrad * x, each summed down to its input's shape.
func MultiplyGrad[T tensor.Element](b tensor.Backend, x, y, outGrad *tensor.RawTensor, axis int, dx, dy *tensor.RawTensor) {
	checkAxis("MultiplyGrad", axis)
	if dy != nil {
		dyRes := prim.Multiply[T](b, outGrad, x)
		setReduced[T](b, dyRes, y.Shape(), dy, true)
	}
	if dx != nil {
		dxRes := prim.Multiply[T](b, outGrad, y)
		setReduced[T](b, dxRes, x.Shape(), dx, true)
	}
}

// DivideGrad computes the gradients of out = x / y:
//
//	dx = (1 / y) * outGrad
//	dy = -(x / y²) * outGrad
//
// each summed down to its input's shape. out is not read; it is part of the
// signature so every binary rule can be driven from the same forward record.
func DivideGrad[T tensor.Element](b tensor.Backend, x, y, out, outGrad *tensor.RawTensor, axis int, dx, dy *tensor.RawTensor) {
	checkAxis("DivideGrad", axis)
	if dy != nil {
		tmp := prim.Pow[T](b, y, 2)
		tmp = prim.Divide[T](b, x, tmp)
		tmp = prim.Scale[T](b, tmp, -1, 0, true)
		dyRes := prim.Multiply[T](b, tmp, outGrad)
		setReduced[T](b, dyRes, y.Shape(), dy, true)
	}
	if dx != nil {
		ones := prim.Full[T](b, tensor.Vectorize(y.Shape()), 1)
		tmp := prim.Divide[T](b, ones, y)
		dxRes := prim.Multiply[T](b, tmp, outGrad)
		setReduced[T](b, dxRes, x.Shape(), dx, true)
	}
}

// SqrtGrad computes dx = outGrad * 0.5 / out for out = sqrt(x).
func SqrtGrad[T tensor.Element](b tensor.Backend, out, outGrad *tensor.RawTensor, dx *tensor.RawTensor) {
	if dx == nil {
		return
	}
	half := prim.Full[T](b, tensor.Vectorize(out.Shape()), 0.5)
	tmp := prim.Divide[T](b, half, out)
	dx.SetImpl(prim.Multiply[T](b, outGrad, tmp))
}

// SumGrad computes the gradient of out = sum(x, axes, keepDim): outGrad
// broadcast back to x's shape.
//
// With keepDim the reduced axes are still present with size 1 and outGrad is
// expanded directly. Otherwise they are first put back with Unsqueeze at the
// same positions. Whether every axis was reduced is derived from axes and x's
// rank (no axes, or as many axes as x has dimensions); reduceAll is not trusted.
func SumGrad[T tensor.Element](b tensor.Backend, x, outGrad *tensor.RawTensor, axes []int, keepDim, reduceAll bool, dx *tensor.RawTensor) {
	if dx == nil {
		return
	}
	xShape := x.Shape()
	rank := xShape.Rank()
	allReduced := len(axes) == 0 || len(axes) == rank
	if reduceAll != allReduced && klog.V(2).Enabled() {
		klog.Infof("SumGrad: reduceAll=%v disagrees with axes=%v on rank %d, using %v",
			reduceAll, axes, rank, allReduced)
	}

	if rank == 0 {
		dx.SetImpl(prim.Reshape[T](b, outGrad, nil))
		return
	}

	// Intermediate views of outGrad are released once the expansion owns a copy.
	var views []*tensor.RawTensor
	defer func() {
		for _, v := range views {
			v.Release()
		}
	}()
	grad := outGrad
	if !keepDim {
		var unsqueezeAxes []int
		if allReduced {
			if grad.Shape().Rank() == 0 {
				grad = prim.Reshape[T](b, grad, []int{1})
				views = append(views, grad)
			}
			for i := 1; i < rank; i++ {
				unsqueezeAxes = append(unsqueezeAxes, i)
			}
		} else {
			unsqueezeAxes = normalizeAxes("SumGrad", axes, rank)
		}
		grad = prim.Unsqueeze[T](b, grad, unsqueezeAxes)
		views = append(views, grad)
	}
	dx.SetImpl(prim.Expand[T](b, grad, tensor.Vectorize(xShape)))
}

// normalizeAxes maps axes into [0, rank) and sorts them ascending.
func normalizeAxes(rule string, axes []int, rank int) []int {
	normalized := make([]int, len(axes))
	for i, axis := range axes {
		dim, ok := tensor.NormalizeAxis(axis, rank)
		if !ok {
			exceptions.Panicf("%s: axis %d out of range for rank %d", rule, axis, rank)
		}
		normalized[i] = dim
	}
	slices.Sort(normalized)
	return normalized
}
