package gradcheck

import (
	"context"
	"math/rand/v2"
	"regexp"

	"github.com/born-ml/primgrad/internal/backend/cpu"
	"github.com/born-ml/primgrad/internal/tensor"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// Result is the outcome of checking one Case.
type Result struct {
	Name   string
	MaxErr float64
	Passed bool

	// Stats are the allocations made by the backward rule alone.
	Stats cpu.Stats

	// Err is set when the case could not be evaluated, e.g. the rule panicked
	// or produced a gradient of the wrong shape.
	Err error
}

func uniform(rng *rand.Rand, shape tensor.Shape, low, high float64) *tensor.RawTensor {
	values := make([]float64, shape.NumElements())
	for i := range values {
		values[i] = low + (high-low)*rng.Float64()
	}
	t, err := tensor.FromFloat64s(values, shape, tensor.Float64)
	if err != nil {
		exceptions.Panicf("gradcheck: %v", err)
	}
	return t
}

// Run checks c on a fresh CPU backend.
func (c Case) Run(cfg Config, rng *rand.Rand) Result {
	result := Result{Name: c.Name}
	result.Err = exceptions.TryCatch[error](func() {
		b := cpu.New()
		inputs := make([]*tensor.RawTensor, len(c.Inputs))
		for i, shape := range c.Inputs {
			inputs[i] = uniform(rng, shape, c.Low, c.High)
		}
		out := c.Forward(b, inputs)
		outGrad := uniform(rng, out.Shape(), -1, 1)

		grads := make([]*tensor.RawTensor, len(inputs))
		for i := range grads {
			grads[i] = tensor.Undefined()
		}
		b.ResetStats()
		c.Backward(b, inputs, out, outGrad, grads)
		result.Stats = b.Stats()

		for i, input := range inputs {
			grad := grads[i]
			if !grad.IsDefined() {
				exceptions.Panicf("gradient #%d was not produced", i)
			}
			if !grad.Shape().Equal(input.Shape()) {
				exceptions.Panicf("gradient #%d has shape %v, input has %v", i, grad.Shape(), input.Shape())
			}
			forward := func(x *tensor.RawTensor) *tensor.RawTensor {
				in := append([]*tensor.RawTensor(nil), inputs...)
				in[i] = x
				return c.Forward(b, in)
			}
			numerical := Numerical(forward, input, outGrad, cfg.Epsilon)
			result.MaxErr = max(result.MaxErr, MaxAbsDiff(grad.Float64s(), numerical.Float64s()))
		}
	})
	if result.Err != nil {
		result.Err = errors.WithMessagef(result.Err, "case %q", c.Name)
		return result
	}
	result.Passed = result.MaxErr <= cfg.Tolerance
	return result
}

// RunAll checks every case whose name matches filter (all cases when filter is
// nil) concurrently, one backend per case. Results keep the order of Cases().
// The returned error is only set when ctx is cancelled.
func RunAll(ctx context.Context, cfg Config, filter *regexp.Regexp) ([]Result, error) {
	// Each case seeds its generator with its position in Cases(), so filtering
	// does not change the sampled inputs.
	var selected []Case
	var streams []uint64
	for i, c := range Cases() {
		if filter == nil || filter.MatchString(c.Name) {
			selected = append(selected, c)
			streams = append(streams, uint64(i))
		}
	}

	results := make([]Result, len(selected))
	g, ctx := errgroup.WithContext(ctx)
	for i, c := range selected {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(cfg.Seed, streams[i]))
			results[i] = c.Run(cfg, rng)
			if klog.V(1).Enabled() {
				klog.Infof("gradcheck %s: max error %.3g, passed=%v", c.Name, results[i].MaxErr, results[i].Passed)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "gradcheck interrupted")
	}
	return results, nil
}
