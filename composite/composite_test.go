// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package composite_test

import (
	"testing"

	"github.com/born-ml/primgrad/autodiff"
	"github.com/born-ml/primgrad/backend/cpu"
	"github.com/born-ml/primgrad/composite"
	"github.com/born-ml/primgrad/tensor"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
)

func TestPublicAPI_SumOfSquaresRoot(t *testing.T) {
	backend := cpu.New()
	x := must.M1(tensor.FromFloat64s([]float64{3, 4}, tensor.Shape{2}, tensor.Float32))

	// y = sqrt(sum(x*x)) = 5, dy/dx = x / y.
	sq := backend.Mul(x, x)
	s := backend.Sum(sq, nil, tensor.Float32, false)
	y := backend.Sqrt(s)

	ds := tensor.Undefined()
	composite.SqrtGrad[float32](backend, y, backend.Full(tensor.Shape{}, 1, tensor.Float32), ds)
	dsq := tensor.Undefined()
	composite.SumGrad[float32](backend, sq, ds, nil, false, true, dsq)
	dx1, dx2 := tensor.Undefined(), tensor.Undefined()
	composite.MultiplyGrad[float32](backend, x, x, dsq, composite.DefaultAxis, dx1, dx2)
	dx := backend.Add(dx1, dx2)

	assert.InDeltaSlice(t, []float64{0.6, 0.8}, dx.Float64s(), 1e-6)
	assert.Equal(t, []int{0}, composite.ReduceDims(tensor.Shape{2, 3}, tensor.Shape{3}))
}

func TestPublicAPI_Autodiff(t *testing.T) {
	backend := autodiff.New(cpu.New())
	x := must.M1(tensor.FromFloat64s([]float64{1, 4}, tensor.Shape{2}, tensor.Float64))
	backend.Tape().Watch(x)
	backend.Tape().StartRecording()
	y := backend.Sqrt(x)
	grads := autodiff.Backward(y, backend)
	assert.Equal(t, []float64{0.5, 0.25}, grads[x].Float64s())
}
