package autodiff

import (
	"github.com/born-ml/primgrad/internal/autodiff/ops"
	"github.com/born-ml/primgrad/internal/tensor"
	"k8s.io/klog/v2"
)

// GradientTape records operations during the forward pass and computes
// gradients during the backward pass using reverse-mode automatic differentiation.
//
// Only operations that depend on a watched tensor are recorded, and during the
// backward pass gradients are only requested for inputs that depend on one.
//
// Usage:
//
//	tape := NewGradientTape()
//	tape.Watch(x)
//	tape.StartRecording()
//	// ... perform operations ...
//	gradients := tape.Backward(outputGrad, backend)
type GradientTape struct {
	operations []ops.Operation             // Recorded operations (in execution order)
	tracked    map[*tensor.RawTensor]bool // Watched tensors and everything derived from them
	recording  bool                       // Whether tape is currently recording
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64), // Pre-allocate for common case
		tracked:    make(map[*tensor.RawTensor]bool),
	}
}

// Watch marks t as a tensor whose gradient is wanted.
func (t *GradientTape) Watch(tensors ...*tensor.RawTensor) {
	for _, x := range tensors {
		t.tracked[x] = true
	}
}

// IsWatched reports whether x is watched or was computed from a watched tensor
// by a recorded operation.
func (t *GradientTape) IsWatched(x *tensor.RawTensor) bool {
	return t.tracked[x]
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record adds an operation to the tape.
// Only records if the tape is recording and one of the inputs is watched.
func (t *GradientTape) Record(op ops.Operation) {
	if !t.recording {
		return
	}
	for _, input := range op.Inputs() {
		if t.tracked[input] {
			t.tracked[op.Output()] = true
			t.operations = append(t.operations, op)
			return
		}
	}
}

// Clear resets the tape, removing all recorded operations and watched tensors.
// Recording state is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
	clear(t.tracked)
}

// Backward computes gradients by walking the tape in reverse.
//
// Algorithm:
//  1. Start with the output gradient for the last recorded operation
//  2. Walk operations in reverse order
//  3. For each operation with a gradient, run its backward rule, requesting
//     only the inputs that are watched or derived from a watched tensor
//  4. Accumulate gradients when the same tensor is used multiple times
//
// Returns a map from RawTensor to its accumulated gradient.
func (t *GradientTape) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) map[*tensor.RawTensor]*tensor.RawTensor {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)
	if len(t.operations) == 0 {
		return grads
	}

	// Stop recording during backward pass to prevent recording gradient operations
	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
	}()

	lastOp := t.operations[len(t.operations)-1]
	grads[lastOp.Output()] = outputGrad

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		opOutputGrad, hasGrad := grads[op.Output()]
		if !hasGrad {
			continue
		}
		requested := t.requestMask(op)
		if klog.V(2).Enabled() {
			klog.Infof("tape: backward of %T, requested=%v", op, requested)
		}
		inputGrads := op.Backward(opOutputGrad, backend, requested)
		t.accumulateGrads(op, inputGrads, grads, backend)
	}

	return grads
}

// requestMask tells which inputs of op need a gradient.
func (t *GradientTape) requestMask(op ops.Operation) []bool {
	inputs := op.Inputs()
	mask := make([]bool, len(inputs))
	for j, input := range inputs {
		mask[j] = t.tracked[input]
	}
	return mask
}

// accumulateGrads accumulates gradients for each input tensor.
func (t *GradientTape) accumulateGrads(
	op ops.Operation,
	inputGrads []*tensor.RawTensor,
	grads map[*tensor.RawTensor]*tensor.RawTensor,
	backend tensor.Backend,
) {
	for j, input := range op.Inputs() {
		if j >= len(inputGrads) {
			break
		}
		inputGrad := inputGrads[j]
		if inputGrad == nil {
			continue
		}
		if existing, ok := grads[input]; ok {
			grads[input] = backend.Add(existing, inputGrad)
		} else {
			grads[input] = inputGrad
		}
	}
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}
