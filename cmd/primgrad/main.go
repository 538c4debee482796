// Package main provides the primgrad CLI: it inspects broadcast reductions and
// checks the composite gradient rules against finite differences.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"regexp"

	"github.com/born-ml/primgrad/internal/composite"
	"github.com/born-ml/primgrad/internal/gradcheck"
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"
)

const version = "v0.1.0"

func usage() {
	out := flag.CommandLine.Output()
	_, _ = fmt.Fprintf(out, "primgrad %s - composite backward rules\n\n", version)
	_, _ = fmt.Fprintln(out, "Commands:")
	_, _ = fmt.Fprintln(out, "  version        Show version")
	_, _ = fmt.Fprintln(out, "  reduce-dims    Print the axes summed to reduce a broadcast gradient")
	_, _ = fmt.Fprintln(out, "  check          Check every gradient rule against finite differences")
	_, _ = fmt.Fprintln(out, "\nGlobal flags:")
	flag.PrintDefaults()
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "version":
		fmt.Printf("primgrad %s\n", version)
	case "reduce-dims":
		runReduceDims(args[1:])
	case "check":
		if !runCheck(args[1:]) {
			os.Exit(1)
		}
	default:
		klog.Errorf("Unknown command %q. See 'primgrad -help'.", args[0])
		os.Exit(2)
	}
}

func runReduceDims(args []string) {
	fs := flag.NewFlagSet("reduce-dims", flag.ExitOnError)
	larger := fs.String("larger", "", "Shape the gradient was broadcast to, e.g. \"2,3,4\". Empty for a scalar.")
	smaller := fs.String("smaller", "", "Original shape of the input, e.g. \"3,1\". Empty for a scalar.")
	_ = fs.Parse(args)

	largerShape, err := parseShape(*larger)
	if err != nil {
		klog.Exitf("-larger: %+v", err)
	}
	smallerShape, err := parseShape(*smaller)
	if err != nil {
		klog.Exitf("-smaller: %+v", err)
	}

	var dims []int
	err = exceptions.TryCatch[error](func() {
		dims = composite.ReduceDims(largerShape, smallerShape)
	})
	if err != nil {
		klog.Exitf("%v", err)
	}
	fmt.Println(formatAxes(dims))
}

func runCheck(args []string) bool {
	defaults := gradcheck.DefaultConfig()
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	eps := fs.Float64("eps", defaults.Epsilon, "Finite-difference step.")
	tol := fs.Float64("tol", defaults.Tolerance, "Largest accepted absolute gradient error.")
	seed := fs.Uint64("seed", defaults.Seed, "Seed for the sampled inputs.")
	run := fs.String("run", "", "Only check cases whose name matches this regular expression.")
	_ = fs.Parse(args)

	var filter *regexp.Regexp
	if *run != "" {
		var err error
		filter, err = regexp.Compile(*run)
		if err != nil {
			klog.Exitf("-run: %v", err)
		}
	}

	cfg := gradcheck.Config{Epsilon: *eps, Tolerance: *tol, Seed: *seed}
	results, err := gradcheck.RunAll(context.Background(), cfg, filter)
	if err != nil {
		klog.Exitf("%+v", err)
	}
	if len(results) == 0 {
		klog.Errorf("No case matches -run=%q", *run)
		return false
	}
	fmt.Println(resultsTable(results, cfg))
	passed := true
	for _, r := range results {
		if r.Err != nil {
			klog.Errorf("%v", r.Err)
		}
		passed = passed && r.Passed
	}
	return passed
}
