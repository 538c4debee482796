package tensor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

// tensorBuffer is a reference-counted storage buffer shared between handles.
// Handles never write into a buffer that another handle can observe, so sharing
// is always safe.
type tensorBuffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
}

// newTensorBuffer creates a new reference-counted buffer with refCount = 1.
func newTensorBuffer(size int) *tensorBuffer {
	buf := &tensorBuffer{
		data: make([]byte, size),
	}
	buf.refCount.Store(1)
	return buf
}

// addRef increments the reference count (for Clone operations).
func (tb *tensorBuffer) addRef() {
	tb.refCount.Add(1)
}

// release decrements the reference count and deallocates if it reaches 0.
func (tb *tensorBuffer) release() {
	if tb.refCount.Add(-1) == 0 {
		tb.mu.Lock()
		defer tb.mu.Unlock()
		tb.data = nil
	}
}

// RawTensor is an opaque handle to an n-dimensional array.
//
// A RawTensor with no storage is "undefined": it is what callers hand to a
// gradient rule as an output slot. Storage is bound into a handle with SetImpl.
type RawTensor struct {
	buffer *tensorBuffer // Shared reference-counted buffer, nil when undefined
	shape  Shape         // Tensor dimensions
	stride []int         // Memory strides (row-major)
	dtype  DataType      // Runtime type information
	device Device        // Compute device
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid shape %v", shape)
	}

	byteSize := shape.NumElements() * dtype.Size()

	return &RawTensor{
		buffer: newTensorBuffer(byteSize),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// Undefined returns an empty handle with no storage, to be used as an output slot.
func Undefined() *RawTensor {
	return &RawTensor{}
}

// FromFloat64s creates a tensor of the given dtype holding values, converted
// element by element.
func FromFloat64s(values []float64, shape Shape, dtype DataType) (*RawTensor, error) {
	if len(values) != shape.NumElements() {
		return nil, errors.Errorf("FromFloat64s: %d values do not fill shape %v (%d elements)",
			len(values), shape, shape.NumElements())
	}
	t, err := NewRaw(shape, dtype, CPU)
	if err != nil {
		return nil, errors.WithMessage(err, "FromFloat64s")
	}
	switch dtype {
	case Float32:
		dst := t.AsFloat32()
		for i, v := range values {
			dst[i] = float32(v)
		}
	case Float64:
		copy(t.AsFloat64(), values)
	case Float16:
		dst := t.AsFloat16()
		for i, v := range values {
			dst[i] = float16.Fromfloat32(float32(v))
		}
	default:
		return nil, errors.Errorf("FromFloat64s: unsupported dtype %s", dtype)
	}
	return t, nil
}

// IsDefined reports whether the handle holds storage.
func (r *RawTensor) IsDefined() bool {
	return r != nil && r.buffer != nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	r.mustBeDefined()
	return r.buffer.data
}

func (r *RawTensor) mustBeDefined() {
	if !r.IsDefined() {
		exceptions.Panicf("tensor is undefined (no storage bound)")
	}
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	r.mustBeDefined()
	if r.dtype != Float32 {
		exceptions.Panicf("tensor dtype is %s, not float32", r.dtype)
	}
	data := r.buffer.data
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	r.mustBeDefined()
	if r.dtype != Float64 {
		exceptions.Panicf("tensor dtype is %s, not float64", r.dtype)
	}
	data := r.buffer.data
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsFloat16 interprets the data as []float16.Float16.
// Panics if the tensor's dtype is not Float16.
func (r *RawTensor) AsFloat16() []float16.Float16 {
	r.mustBeDefined()
	if r.dtype != Float16 {
		exceptions.Panicf("tensor dtype is %s, not float16", r.dtype)
	}
	data := r.buffer.data
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*float16.Float16)(unsafe.Pointer(&data[0])), r.NumElements())
}

// Float64s returns a copy of the elements converted to float64.
func (r *RawTensor) Float64s() []float64 {
	out := make([]float64, r.NumElements())
	switch r.dtype {
	case Float32:
		for i, v := range r.AsFloat32() {
			out[i] = float64(v)
		}
	case Float64:
		copy(out, r.AsFloat64())
	case Float16:
		for i, v := range r.AsFloat16() {
			out[i] = float64(v.Float32())
		}
	default:
		exceptions.Panicf("Float64s: unsupported dtype %s", r.dtype)
	}
	return out
}

// Clone creates a shallow copy of the RawTensor (shares buffer with reference counting).
func (r *RawTensor) Clone() *RawTensor {
	r.mustBeDefined()
	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
	}
}

// View returns a new handle sharing r's storage with a different shape of the
// same number of elements.
func (r *RawTensor) View(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid view shape %v", shape)
	}
	if shape.NumElements() != r.NumElements() {
		return nil, errors.Errorf("cannot view %v as %v: element counts differ", r.shape, shape)
	}
	v := r.Clone()
	v.shape = shape.Clone()
	v.stride = shape.ComputeStrides()
	return v, nil
}

// SetImpl moves src's storage, shape and dtype into r. Afterwards src is
// undefined and r exclusively owns what src owned. Storage previously bound
// to r is released.
func (r *RawTensor) SetImpl(src *RawTensor) {
	src.mustBeDefined()
	if r == src {
		return
	}
	if r.buffer != nil {
		r.buffer.release()
	}
	r.buffer = src.buffer
	r.shape = src.shape
	r.stride = src.stride
	r.dtype = src.dtype
	r.device = src.device
	*src = RawTensor{}
}

// SharesStorage reports whether r and other are bound to the same buffer.
func (r *RawTensor) SharesStorage(other *RawTensor) bool {
	return r.IsDefined() && other.IsDefined() && r.buffer == other.buffer
}

// Release decrements the reference count and deallocates if it reaches 0.
// The handle becomes undefined.
func (r *RawTensor) Release() {
	if r.buffer == nil {
		return
	}
	r.buffer.release()
	r.buffer = nil
}

// IsUnique returns true if this tensor is the only reference to the buffer.
func (r *RawTensor) IsUnique() bool {
	return r.IsDefined() && r.buffer.refCount.Load() == 1
}

// String returns a short description: dtype and shape.
func (r *RawTensor) String() string {
	if !r.IsDefined() {
		return "RawTensor(undefined)"
	}
	return fmt.Sprintf("RawTensor(%s%v)", r.dtype, []int(r.shape))
}
