// Package tensor provides the tensor handle, shape utilities and the primitive
// backend interface used by the composite gradient rules.
package tensor

import (
	"github.com/gomlx/exceptions"
	"github.com/x448/float16"
)

// Element is the set of element types a gradient rule can be instantiated for.
// It plays the role of the kernel type tag: rules are written once and
// instantiated per element type by the caller.
type Element interface {
	float32 | float64 | float16.Float16
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
	Float16
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	case Float16:
		return 2
	}
	exceptions.Panicf("unknown data type %d", int(dt))
	return 0
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Float16:
		return "float16"
	default:
		return "unknown"
	}
}

// DataTypeOf returns the runtime DataType for the element type T.
func DataTypeOf[T Element]() DataType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case float16.Float16:
		return Float16
	}
	exceptions.Panicf("unsupported element type %T", zero)
	return 0
}
