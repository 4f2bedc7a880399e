package interp

import (
	"fmt"
	"math"
	"sort"
)

// Descriptive statistics backing the summary builtins. Every reduction
// assumes a non-empty input; the builtin wrapper enforces that.

func mean(x []float64) float64 {
	s := 0.0
	for _, f := range x {
		s += f
	}
	return s / float64(len(x))
}

func median(x []float64) float64 {
	s := make([]float64, len(x))
	copy(s, x)
	sortFloats(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// variance is the sample variance with the n-1 denominator.
func variance(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	m := mean(x)
	s := 0.0
	for _, f := range x {
		d := f - m
		s += d * d
	}
	return s / float64(len(x)-1)
}

func stddev(x []float64) float64 {
	return math.Sqrt(variance(x))
}

func minimum(x []float64) float64 {
	m := x[0]
	for _, f := range x[1:] {
		if f < m {
			m = f
		}
	}
	return m
}

func maximum(x []float64) float64 {
	m := x[0]
	for _, f := range x[1:] {
		if f > m {
			m = f
		}
	}
	return m
}

// quantile interpolates linearly between order statistics, matching the
// common type-7 definition.
func quantile(x []float64, p float64) float64 {
	s := make([]float64, len(x))
	copy(s, x)
	sortFloats(s)
	if len(s) == 1 {
		return s[0]
	}
	h := p * float64(len(s)-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return s[lo]
	}
	return s[lo] + (h-float64(lo))*(s[hi]-s[lo])
}

// correlation is the Pearson product-moment coefficient.
func correlation(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("incompatible dimensions: %d and %d", len(x), len(y))
	}
	if len(x) < 2 {
		return 0, fmt.Errorf("need at least two observations")
	}
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, fmt.Errorf("the standard deviation is zero")
	}
	return sxy / math.Sqrt(sxx*syy), nil
}

func sortFloats(x []float64) {
	sort.Float64s(x)
}

func reverseFloats(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}

func rangeFn(ctx *Context) (Value, error) {
	x, err := ctx.Vector("x")
	if err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("cannot summarize an empty vector")
	}
	return Numeric{minimum(x), maximum(x)}, nil
}

func quantileFn(ctx *Context) (Value, error) {
	x, err := ctx.Vector("x")
	if err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("cannot summarize an empty vector")
	}
	probs, err := ctx.Vector("probs")
	if err != nil {
		return nil, err
	}
	out := make(Numeric, len(probs))
	for i, p := range probs {
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("probs outside [0,1]")
		}
		out[i] = quantile(x, p)
	}
	return out, nil
}

func corFn(ctx *Context) (Value, error) {
	x, err := ctx.Vector("x")
	if err != nil {
		return nil, err
	}
	y, err := ctx.Vector("y")
	if err != nil {
		return nil, err
	}
	r, err := correlation(x, y)
	if err != nil {
		return nil, err
	}
	return Number(r), nil
}
