// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/primgrad/internal/tensor"

// Element is the set of element types gradient rules are instantiated for.
type Element = tensor.Element

// DataType represents the runtime element type of a tensor.
type DataType = tensor.DataType

// Supported data types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Float16 = tensor.Float16
)

// Device represents a compute device.
type Device = tensor.Device

// Available devices.
const (
	CPU = tensor.CPU
)

// Shape represents the dimensions of a tensor.
//
// Example:
//
//	shape := tensor.Shape{2, 3, 4}  // 3D tensor: 2×3×4
//	numElements := shape.NumElements()  // 24
type Shape = tensor.Shape

// DataTypeOf returns the DataType of the element type T.
func DataTypeOf[T Element]() DataType {
	return tensor.DataTypeOf[T]()
}

// BroadcastShapes computes the result shape for broadcasting two shapes.
// Returns the broadcast shape, whether broadcasting is needed, and an error if incompatible.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
