// Package cpu implements the primitive tensor operations in pure Go.
//
// Every operation allocates a fresh result; inputs are only read. Element types
// float32 and float64 are computed natively, float16 is widened to float32 for
// the arithmetic and narrowed back on store.
package cpu

import (
	"sync/atomic"

	"github.com/born-ml/primgrad/internal/parallel"
	"github.com/born-ml/primgrad/internal/tensor"
	"github.com/gomlx/exceptions"
)

// Stats counts the tensors allocated by a backend.
type Stats struct {
	Tensors int64 // number of result tensors allocated
	Bytes   int64 // total bytes allocated for them
}

// CPUBackend implements tensor.Backend on the CPU.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config

	allocTensors atomic.Int64
	allocBytes   atomic.Int64
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: parallel.DefaultConfig(),
	}
}

// SetParallel sets how element-wise kernels are split across goroutines.
// Results do not depend on it.
func (cpu *CPUBackend) SetParallel(cfg parallel.Config) {
	cpu.parallel = cfg
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Stats returns the allocation counters accumulated since creation or the last ResetStats.
func (cpu *CPUBackend) Stats() Stats {
	return Stats{
		Tensors: cpu.allocTensors.Load(),
		Bytes:   cpu.allocBytes.Load(),
	}
}

// ResetStats zeroes the allocation counters.
func (cpu *CPUBackend) ResetStats() {
	cpu.allocTensors.Store(0)
	cpu.allocBytes.Store(0)
}

// newResult allocates a result tensor and accounts for it.
func (cpu *CPUBackend) newResult(op string, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		exceptions.Panicf("%s: failed to create result tensor: %v", op, err)
	}
	cpu.allocTensors.Add(1)
	cpu.allocBytes.Add(int64(result.ByteSize()))
	return result
}

// Reshape returns a view of x with a new shape. No data is copied: the result
// shares storage with x.
func (cpu *CPUBackend) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		exceptions.Panicf("reshape: invalid shape: %v", err)
	}

	if x.NumElements() != newShape.NumElements() {
		exceptions.Panicf("reshape: incompatible shapes: %v -> %v (different number of elements)",
			x.Shape(), newShape)
	}

	view, err := x.View(newShape)
	if err != nil {
		exceptions.Panicf("reshape: %v", err)
	}
	return view
}
