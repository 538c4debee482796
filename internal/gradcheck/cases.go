package gradcheck

import (
	"github.com/born-ml/primgrad/internal/composite"
	"github.com/born-ml/primgrad/internal/tensor"
)

// Case is one forward operation checked against its backward rule.
type Case struct {
	Name string

	// Inputs are the shapes of the forward inputs, sampled uniformly in [Low, High).
	Inputs    []tensor.Shape
	Low, High float64

	// Forward computes the operation's output.
	Forward func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor

	// Backward runs the rule under test, writing one gradient per input into grads.
	Backward func(b tensor.Backend, in []*tensor.RawTensor, out, outGrad *tensor.RawTensor, grads []*tensor.RawTensor)
}

func binaryCase(name string, x, y tensor.Shape, low, high float64,
	forward func(b tensor.Backend, x, y *tensor.RawTensor) *tensor.RawTensor,
	backward func(b tensor.Backend, x, y, out, outGrad *tensor.RawTensor, dx, dy *tensor.RawTensor)) Case {
	return Case{
		Name:   name,
		Inputs: []tensor.Shape{x, y},
		Low:    low,
		High:   high,
		Forward: func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return forward(b, in[0], in[1])
		},
		Backward: func(b tensor.Backend, in []*tensor.RawTensor, out, outGrad *tensor.RawTensor, grads []*tensor.RawTensor) {
			backward(b, in[0], in[1], out, outGrad, grads[0], grads[1])
		},
	}
}

func sumCase(name string, x tensor.Shape, axes []int, keepDim bool) Case {
	return Case{
		Name:   name,
		Inputs: []tensor.Shape{x},
		Low:    -1,
		High:   1,
		Forward: func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return b.Sum(in[0], axes, in[0].DType(), keepDim)
		},
		Backward: func(b tensor.Backend, in []*tensor.RawTensor, _, outGrad *tensor.RawTensor, grads []*tensor.RawTensor) {
			composite.SumGrad[float64](b, in[0], outGrad, axes, keepDim, false, grads[0])
		},
	}
}

func tanhCase(name string, x tensor.Shape) Case {
	return Case{
		Name:   name,
		Inputs: []tensor.Shape{x},
		Low:    -2,
		High:   2,
		Forward: func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return b.Tanh(in[0])
		},
		Backward: func(b tensor.Backend, _ []*tensor.RawTensor, out, outGrad *tensor.RawTensor, grads []*tensor.RawTensor) {
			composite.TanhGrad[float64](b, out, outGrad, grads[0])
		},
	}
}

// Cases returns the built-in suite: every composite rule over scalar, batched
// and broadcast shapes. Inputs are float64.
func Cases() []Case {
	return []Case{
		tanhCase("tanh/scalar", tensor.Shape{}),
		tanhCase("tanh/batched", tensor.Shape{4, 5}),
		binaryCase("add/same-shape", tensor.Shape{2, 3, 4}, tensor.Shape{2, 3, 4}, -1, 1,
			func(b tensor.Backend, x, y *tensor.RawTensor) *tensor.RawTensor { return b.Add(x, y) },
			func(b tensor.Backend, x, y, _, g *tensor.RawTensor, dx, dy *tensor.RawTensor) {
				composite.AddGrad[float64](b, x, y, g, composite.DefaultAxis, dx, dy)
			}),
		binaryCase("add/broadcast", tensor.Shape{2, 3, 3, 4}, tensor.Shape{3, 1, 4}, -1, 1,
			func(b tensor.Backend, x, y *tensor.RawTensor) *tensor.RawTensor { return b.Add(x, y) },
			func(b tensor.Backend, x, y, _, g *tensor.RawTensor, dx, dy *tensor.RawTensor) {
				composite.AddGrad[float64](b, x, y, g, composite.DefaultAxis, dx, dy)
			}),
		binaryCase("subtract/broadcast", tensor.Shape{2, 3}, tensor.Shape{3}, -1, 1,
			func(b tensor.Backend, x, y *tensor.RawTensor) *tensor.RawTensor { return b.Sub(x, y) },
			func(b tensor.Backend, x, y, _, g *tensor.RawTensor, dx, dy *tensor.RawTensor) {
				composite.SubtractGrad[float64](b, x, y, g, composite.DefaultAxis, dx, dy)
			}),
		binaryCase("subtract/mutual-broadcast", tensor.Shape{2, 1}, tensor.Shape{1, 2}, -1, 1,
			func(b tensor.Backend, x, y *tensor.RawTensor) *tensor.RawTensor { return b.Sub(x, y) },
			func(b tensor.Backend, x, y, _, g *tensor.RawTensor, dx, dy *tensor.RawTensor) {
				composite.SubtractGrad[float64](b, x, y, g, composite.DefaultAxis, dx, dy)
			}),
		binaryCase("multiply/broadcast", tensor.Shape{2, 3, 1, 4}, tensor.Shape{3, 4}, -1, 1,
			func(b tensor.Backend, x, y *tensor.RawTensor) *tensor.RawTensor { return b.Mul(x, y) },
			func(b tensor.Backend, x, y, _, g *tensor.RawTensor, dx, dy *tensor.RawTensor) {
				composite.MultiplyGrad[float64](b, x, y, g, composite.DefaultAxis, dx, dy)
			}),
		binaryCase("divide/broadcast", tensor.Shape{2, 3, 3, 4}, tensor.Shape{2, 3, 1, 1}, 0.5, 2,
			func(b tensor.Backend, x, y *tensor.RawTensor) *tensor.RawTensor { return b.Div(x, y) },
			func(b tensor.Backend, x, y, out, g *tensor.RawTensor, dx, dy *tensor.RawTensor) {
				composite.DivideGrad[float64](b, x, y, out, g, composite.DefaultAxis, dx, dy)
			}),
		{
			Name:   "sqrt/batched",
			Inputs: []tensor.Shape{{3, 4}},
			Low:    0.5,
			High:   2,
			Forward: func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
				return b.Sqrt(in[0])
			},
			Backward: func(b tensor.Backend, _ []*tensor.RawTensor, out, outGrad *tensor.RawTensor, grads []*tensor.RawTensor) {
				composite.SqrtGrad[float64](b, out, outGrad, grads[0])
			},
		},
		sumCase("sum/axis", tensor.Shape{2, 3}, []int{1}, false),
		sumCase("sum/keepdim", tensor.Shape{2, 3, 4}, []int{0, 2}, true),
		sumCase("sum/negative-axes", tensor.Shape{2, 3, 4}, []int{-1, 0}, false),
		sumCase("sum/all", tensor.Shape{2, 3, 4}, nil, false),
		sumCase("sum/all-listed", tensor.Shape{2, 3}, []int{0, 1}, false),
	}
}
