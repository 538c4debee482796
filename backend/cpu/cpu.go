// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend implementing every primitive the
// composite gradient rules use.
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
//	    x := backend.Full(tensor.Shape{2, 3}, 0.5, tensor.Float64)
//	    y := backend.Sum(x, []int{1}, tensor.Float64, false) // [1.5 1.5]
//	}
//
// The backend counts the tensors it allocates (see Stats), which makes it easy
// to observe that a gradient rule skipped an unrequested branch.
package cpu

import (
	internalcpu "github.com/born-ml/primgrad/internal/backend/cpu"
	"github.com/born-ml/primgrad/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Stats counts the tensors allocated by a Backend.
type Stats = internalcpu.Stats

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
func New() *Backend {
	return internalcpu.New()
}
