// Command coalrate loads a curve definition, builds the rate function and
// prints its breakpoints, evaluator values, regularizer and moment matrices.
//
//	coalrate -model curve.yaml -at 0.5,1,2 -n 4 [-dual] [-v]
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/katalvlaran/coalrate/dual"
	"github.com/katalvlaran/coalrate/matrix"
	"github.com/katalvlaran/coalrate/model"
	"github.com/katalvlaran/coalrate/rate"
	"github.com/sgostarter/i/l"
	"github.com/spf13/cast"
	"gonum.org/v1/gonum/mat"
)

func main() {
	path := flag.String("model", "", "YAML model file (required)")
	useDual := flag.Bool("dual", false, "Track gradients and print them next to every value")
	at := flag.String("at", "", "Comma-separated times at which to print R and R^-1 of R")
	n := flag.Int("n", 2, "Sample size for the moment matrices (0 skips them)")
	verbose := flag.Bool("v", false, "Log construction details to the console")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "-model is required")
		os.Exit(2)
	}
	times, err := parseTimes(*at)
	if err != nil {
		fmt.Fprintf(os.Stderr, "-at: %v\n", err)
		os.Exit(2)
	}
	m, err := model.Load(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load model: %v\n", err)
		os.Exit(2)
	}
	opts, err := m.Options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "model options: %v\n", err)
		os.Exit(2)
	}
	var logger l.Wrapper = l.NewNopLoggerWrapper()
	if *verbose {
		logger = l.NewConsoleLoggerWrapper()
	}
	opts = append(opts, rate.WithLogger(logger))

	if *useDual {
		err = run[dual.Dual](m.Table(), opts, times, *n, *verbose)
	} else {
		err = run[dual.Float](m.Table(), opts, times, *n, *verbose)
	}
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Error("run failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// parseTimes splits a comma-separated list; "inf" is accepted.
func parseTimes(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := cast.ToFloat64E(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}

func run[T dual.Number[T]](params [][]float64, opts []rate.Option, times []float64, n int, verbose bool) error {
	c, err := rate.New[T](params, opts...)
	if err != nil {
		return err
	}
	if verbose {
		c.Dump()
	}

	fmt.Print(c)
	fmt.Printf("hidden state indices: %v\n", c.HiddenStateIndices())
	for _, x := range times {
		r := c.R().Eval(x)
		back := c.Rinv().At(r)
		fmt.Printf("t=%g eta=%s R=%s Rinv(R)=%g\n", x, format(c, c.Eta().Eval(x)), format(c, r), back.Value())
	}
	fmt.Printf("regularizer=%s\n", format(c, c.Regularizer()))

	if n <= 0 {
		return nil
	}
	below, err := c.BelowMatrix(n)
	if err != nil {
		return err
	}
	if err = printMatrix("below", below); err != nil {
		return err
	}
	above, err := c.AboveMatrices(n)
	if err != nil {
		return err
	}
	for h, a := range above {
		if err = printMatrix(fmt.Sprintf("above[%d]", h), a); err != nil {
			return err
		}
	}

	return nil
}

// format prints the value, followed by the gradient when one is tracked.
func format[T dual.Number[T]](c *rate.Curve[T], x T) string {
	if c.NumDerivatives() == 0 {
		return fmt.Sprintf("%g", x.Value())
	}

	return fmt.Sprintf("%g%v", x.Value(), c.Gradient(x))
}

func printMatrix[T matrix.Valuer](name string, m *matrix.Dense[T]) error {
	g, err := matrix.ToGonum(m)
	if err != nil {
		return err
	}
	fmt.Printf("%s =\n%.6g\n", name, mat.Formatted(g, mat.Squeeze()))

	return nil
}
