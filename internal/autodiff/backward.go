package autodiff

import (
	"github.com/born-ml/primgrad/internal/tensor"
	"github.com/gomlx/exceptions"
)

// BackwardCapable is an interface for backends that support backward pass.
// AutodiffBackend implements this interface.
type BackwardCapable interface {
	tensor.Backend
	// GetTape returns the gradient tape for backward computation.
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable interface).
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward computes the gradients of sum(output) with respect to every watched
// tensor, seeding the backward pass with ones shaped like output.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().Watch(x)
//	backend.Tape().StartRecording()
//	y := backend.Mul(x, x) // y = x²
//	gradients := autodiff.Backward(y, backend)
//	grad := gradients[x] // 2x
func Backward(output *tensor.RawTensor, backend BackwardCapable) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		exceptions.Panicf("backward: no operations recorded (did you forget to Watch an input or call Tape().StartRecording()?)")
	}
	outputGrad := backend.Full(output.Shape(), 1, output.DType())
	return tape.Backward(outputGrad, backend)
}
