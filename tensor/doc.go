// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the tensor handle, shapes and the primitive backend
// interface that the composite gradient rules are written against.
//
// # Overview
//
// A RawTensor is a reference-counted, untyped n-dimensional array. An
// undefined RawTensor (see Undefined) has no storage and is used as an output
// slot: gradient rules bind their results into slots instead of returning them.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/primgrad/backend/cpu"
//	    "github.com/born-ml/primgrad/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x, _ := tensor.FromFloat64s([]float64{1, 2, 3}, tensor.Shape{3}, tensor.Float32)
//	    y := backend.Tanh(x)
//	    fmt.Println(y.Float64s())
//	}
//
// # Element Types
//
// Float32, Float64 and Float16 are supported. Generic code uses the Element
// constraint and DataTypeOf to map an element type to its runtime DataType.
package tensor
