package cpu

import (
	"github.com/born-ml/primgrad/internal/parallel"
	"github.com/born-ml/primgrad/internal/tensor"
	"github.com/gomlx/exceptions"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"
)

func unaryKernel[T constraints.Float](cfg parallel.Config, dst, src []T, fn func(float64) float64) {
	parallel.Ranges(len(dst), cfg, func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = T(fn(float64(src[i])))
		}
	})
}

func binaryKernel[T constraints.Float](cfg parallel.Config, dst, a, b []T, fn func(x, y float64) float64) {
	parallel.Ranges(len(dst), cfg, func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = T(fn(float64(a[i]), float64(b[i])))
		}
	})
}

func binaryBroadcastKernel[T constraints.Float](cfg parallel.Config, dst, a, b []T, aShape, bShape, outShape tensor.Shape,
	fn func(x, y float64) float64) {
	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	parallel.Ranges(len(dst), cfg, func(start, end int) {
		for i := start; i < end; i++ {
			aIdx := computeFlatIndex(i, outStrides, aStrides)
			bIdx := computeFlatIndex(i, outStrides, bStrides)
			dst[i] = T(fn(float64(a[aIdx]), float64(b[bIdx])))
		}
	})
}

func decodeHalf(src []float16.Float16) []float32 {
	out := make([]float32, len(src))
	for i, v := range src {
		out[i] = v.Float32()
	}
	return out
}

func encodeHalf(dst []float16.Float16, src []float32) {
	for i, v := range src {
		dst[i] = float16.Fromfloat32(v)
	}
}

// mapUnary applies fn element-wise from x into result (same shape and dtype).
func mapUnary(cfg parallel.Config, op string, result, x *tensor.RawTensor, fn func(float64) float64) {
	switch x.DType() {
	case tensor.Float32:
		unaryKernel(cfg, result.AsFloat32(), x.AsFloat32(), fn)
	case tensor.Float64:
		unaryKernel(cfg, result.AsFloat64(), x.AsFloat64(), fn)
	case tensor.Float16:
		dst := make([]float32, x.NumElements())
		unaryKernel(cfg, dst, decodeHalf(x.AsFloat16()), fn)
		encodeHalf(result.AsFloat16(), dst)
	default:
		exceptions.Panicf("%s: unsupported dtype %s", op, x.DType())
	}
}

// mapBinary applies fn element-wise over a and b, broadcasting when their
// shapes differ from the result's.
func mapBinary(cfg parallel.Config, op string, result, a, b *tensor.RawTensor, fn func(x, y float64) float64) {
	outShape := result.Shape()
	broadcast := !a.Shape().Equal(outShape) || !b.Shape().Equal(outShape)

	switch a.DType() {
	case tensor.Float32:
		if broadcast {
			binaryBroadcastKernel(cfg, result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, fn)
		} else {
			binaryKernel(cfg, result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), fn)
		}
	case tensor.Float64:
		if broadcast {
			binaryBroadcastKernel(cfg, result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, fn)
		} else {
			binaryKernel(cfg, result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), fn)
		}
	case tensor.Float16:
		dst := make([]float32, result.NumElements())
		aData, bData := decodeHalf(a.AsFloat16()), decodeHalf(b.AsFloat16())
		if broadcast {
			binaryBroadcastKernel(cfg, dst, aData, bData, a.Shape(), b.Shape(), outShape, fn)
		} else {
			binaryKernel(cfg, dst, aData, bData, fn)
		}
		encodeHalf(result.AsFloat16(), dst)
	default:
		exceptions.Panicf("%s: unsupported dtype %s", op, a.DType())
	}
}

// storeFloat64s writes values into t, converting to t's dtype.
func storeFloat64s(op string, t *tensor.RawTensor, values []float64) {
	switch t.DType() {
	case tensor.Float32:
		dst := t.AsFloat32()
		for i, v := range values {
			dst[i] = float32(v)
		}
	case tensor.Float64:
		copy(t.AsFloat64(), values)
	case tensor.Float16:
		dst := t.AsFloat16()
		for i, v := range values {
			dst[i] = float16.Fromfloat32(float32(v))
		}
	default:
		exceptions.Panicf("%s: unsupported dtype %s", op, t.DType())
	}
}
