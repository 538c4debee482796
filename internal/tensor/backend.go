package tensor

// Backend is the closed vocabulary of primitive tensor operations that the
// composite gradient rules are written against. Backends handle the actual
// computation; they must never write into their input tensors.
//
// Implementations:
//   - CPU: pure Go (internal/backend/cpu)
//   - Autodiff: decorator that records forward ops on a tape (internal/autodiff)
//
// Contract violations (incompatible shapes, mismatched dtypes, bad axes) panic.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Element-wise unary operations.
	Pow(x *RawTensor, exponent float64) *RawTensor
	// Scale computes scale*x + bias when biasAfterScale, scale*(x + bias) otherwise.
	Scale(x *RawTensor, scale, bias float64, biasAfterScale bool) *RawTensor
	Tanh(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor

	// Sum reduces x over axes (all axes when empty) and casts the result to dtype.
	Sum(x *RawTensor, axes []int, dtype DataType, keepDim bool) *RawTensor

	// Shape operations.
	Reshape(x *RawTensor, newShape Shape) *RawTensor
	// Unsqueeze inserts size-1 axes one at a time, in the order given; each axis
	// is interpreted against the rank at the time of its insertion.
	Unsqueeze(x *RawTensor, axes ...int) *RawTensor
	Expand(x *RawTensor, shape Shape) *RawTensor // broadcast to shape

	// Creation.
	Full(shape Shape, value float64, dtype DataType) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
