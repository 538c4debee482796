// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation on top of
// the composite gradient rules.
//
// Example:
//
//	import (
//	    "github.com/born-ml/primgrad/autodiff"
//	    "github.com/born-ml/primgrad/backend/cpu"
//	    "github.com/born-ml/primgrad/tensor"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    x, _ := tensor.FromFloat64s([]float64{1, 4}, tensor.Shape{2}, tensor.Float64)
//	    backend.Tape().Watch(x)
//	    backend.Tape().StartRecording()
//	    y := backend.Sqrt(x)
//	    grads := autodiff.Backward(y, backend)
//	    fmt.Println(grads[x].Float64s()) // [0.5 0.25]
//	}
package autodiff

import (
	"github.com/born-ml/primgrad/internal/autodiff"
	"github.com/born-ml/primgrad/internal/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable interface for backends that support backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes the gradients of sum(output) for every watched tensor.
func Backward(output *tensor.RawTensor, backend BackwardCapable) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(output, backend)
}
