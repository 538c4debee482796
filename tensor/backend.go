// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/primgrad/internal/tensor"

// Backend defines the primitive operations every compute backend implements.
//
// Implementations:
//   - backend/cpu: pure Go
//
// Decorator backends for additional functionality:
//   - autodiff: records differentiable operations on a gradient tape
//
// Example:
//
//	import (
//	    "github.com/born-ml/primgrad/tensor"
//	    "github.com/born-ml/primgrad/backend/cpu"
//	)
//
//	backend := cpu.New()
//	ones := backend.Full(tensor.Shape{2, 3}, 1, tensor.Float32)
//	total := backend.Sum(ones, nil, tensor.Float32, false) // 6
type Backend = tensor.Backend
