// Package gradcheck verifies composite backward rules against central finite
// differences.
//
// For a forward function f, an input x and an upstream gradient g, the
// numerical vector-Jacobian product is
//
//	dL/dx[i] ≈ (L(x + ε·eᵢ) - L(x - ε·eᵢ)) / 2ε   with   L(x) = Σ f(x)·g
//
// which is what a backward rule must produce for x.
package gradcheck

import (
	"math"

	"github.com/born-ml/primgrad/internal/tensor"
	"github.com/gomlx/exceptions"
	"golang.org/x/exp/constraints"
)

// Config controls the finite-difference check.
type Config struct {
	// Epsilon is the perturbation applied to each input element.
	Epsilon float64

	// Tolerance is the largest accepted absolute difference between the
	// analytic and the numerical gradient.
	Tolerance float64

	// Seed makes the sampled inputs reproducible.
	Seed uint64
}

// DefaultConfig returns a configuration suitable for float64 inputs.
func DefaultConfig() Config {
	return Config{
		Epsilon:   1e-5,
		Tolerance: 1e-4,
		Seed:      42,
	}
}

// Numerical returns the central-difference gradient of Σ f(x)·upstream with
// respect to x, with x's shape and dtype. f must not modify its argument.
func Numerical(f func(x *tensor.RawTensor) *tensor.RawTensor, x, upstream *tensor.RawTensor, eps float64) *tensor.RawTensor {
	base := x.Float64s()
	weights := upstream.Float64s()
	grad := make([]float64, len(base))

	perturbed := make([]float64, len(base))
	objective := func() float64 {
		in, err := tensor.FromFloat64s(perturbed, x.Shape(), x.DType())
		if err != nil {
			exceptions.Panicf("gradcheck: %v", err)
		}
		out := f(in).Float64s()
		if len(out) != len(weights) {
			exceptions.Panicf("gradcheck: forward produced %d elements, upstream gradient has %d", len(out), len(weights))
		}
		var sum float64
		for i, v := range out {
			sum += v * weights[i]
		}
		return sum
	}

	for i := range base {
		copy(perturbed, base)
		perturbed[i] = base[i] + eps
		plus := objective()
		perturbed[i] = base[i] - eps
		minus := objective()
		grad[i] = (plus - minus) / (2 * eps)
	}

	result, err := tensor.FromFloat64s(grad, x.Shape(), x.DType())
	if err != nil {
		exceptions.Panicf("gradcheck: %v", err)
	}
	return result
}

// MaxAbsDiff returns the largest absolute element-wise difference between a
// and b. A NaN difference, or slices of different lengths, yield +Inf.
func MaxAbsDiff[F constraints.Float](a, b []F) F {
	if len(a) != len(b) {
		return F(math.Inf(1))
	}
	var maxDiff F
	for i := range a {
		diff := a[i] - b[i]
		if diff < 0 {
			diff = -diff
		}
		if diff != diff {
			return F(math.Inf(1))
		}
		maxDiff = max(maxDiff, diff)
	}
	return maxDiff
}
