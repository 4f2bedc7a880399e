package interp

import (
	"fmt"
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// plotOptions are the graphical options accepted through the dots of
// hist() and plot(). Unknown option names are an error.
type plotOptions struct {
	Main string `mapstructure:"main"`
	Xlab string `mapstructure:"xlab"`
	Ylab string `mapstructure:"ylab"`
	Pch  string `mapstructure:"pch"`
}

// decodePlotOptions collects the named dots arguments into a plotOptions,
// coercing each to its scalar form first.
func decodePlotOptions(dots Dots, opts *plotOptions) error {
	raw := make(map[string]interface{}, len(dots))
	for _, arg := range dots {
		if arg.Name == "" {
			return fmt.Errorf("unexpected unnamed graphical argument")
		}
		switch v := arg.Value.(type) {
		case Character:
			if len(v) == 1 {
				raw[arg.Name] = v[0]
				continue
			}
		case Numeric:
			if len(v) == 1 {
				raw[arg.Name] = v[0]
				continue
			}
		}
		return fmt.Errorf("graphical argument %q must be a single value", arg.Name)
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           opts,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("invalid graphical argument: %v", err)
	}
	return nil
}

const (
	histBarWidth = 50
	plotRows     = 16
	plotCols     = 60
)

// histFn renders a horizontal text histogram: one row per bin, bar length
// proportional to the bin count.
func histFn(ctx *Context) (Value, error) {
	x, err := ctx.Vector("x")
	if err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("invalid number of observations")
	}
	breaks, err := ctx.Number("breaks")
	if err != nil {
		return nil, err
	}
	if breaks < 1 {
		return nil, fmt.Errorf("invalid number of breaks")
	}
	main, err := ctx.String("main")
	if err != nil {
		return nil, err
	}
	opts := plotOptions{Main: "Histogram"}
	if main != "" {
		opts.Main = main
	}
	if err := decodePlotOptions(ctx.Dots(), &opts); err != nil {
		return nil, err
	}

	nbins := int(breaks)
	lo, hi := minimum(x), maximum(x)
	width := (hi - lo) / float64(nbins)
	if width == 0 {
		width = 1
	}
	counts := make([]int, nbins)
	for _, f := range x {
		bin := int((f - lo) / width)
		if bin >= nbins {
			bin = nbins - 1
		}
		counts[bin]++
	}
	peak := 0
	for _, c := range counts {
		if c > peak {
			peak = c
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", opts.Main)
	for i, c := range counts {
		blo := lo + float64(i)*width
		bhi := blo + width
		bar := 0
		if peak > 0 {
			bar = c * histBarWidth / peak
		}
		fmt.Fprintf(&b, "[%8.3g, %8.3g) %s %d\n", blo, bhi, strings.Repeat("*", bar), c)
	}
	fmt.Fprint(ctx.ev.out, b.String())
	return Null{}, nil
}

// plotFn renders a character-grid scatter plot of y against x. With a
// single argument the values plot against their index.
func plotFn(ctx *Context) (Value, error) {
	x, err := ctx.Vector("x")
	if err != nil {
		return nil, err
	}
	var y Numeric
	if ctx.Arg("y").Type() == NullType {
		y = x
		x = make(Numeric, len(y))
		for i := range x {
			x[i] = float64(i + 1)
		}
	} else {
		y, err = ctx.Vector("y")
		if err != nil {
			return nil, err
		}
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("incompatible lengths: %d and %d", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("nothing to plot")
	}
	opts := plotOptions{Xlab: "x", Ylab: "y", Pch: "*"}
	if err := decodePlotOptions(ctx.Dots(), &opts); err != nil {
		return nil, err
	}
	if opts.Pch == "" {
		opts.Pch = "*"
	}

	xlo, xhi := minimum(x), maximum(x)
	ylo, yhi := minimum(y), maximum(y)
	grid := make([][]byte, plotRows)
	for i := range grid {
		grid[i] = []byte(strings.Repeat(" ", plotCols))
	}
	for i := range x {
		col := scaleTo(x[i], xlo, xhi, plotCols)
		row := plotRows - 1 - scaleTo(y[i], ylo, yhi, plotRows)
		grid[row][col] = opts.Pch[0]
	}

	var b strings.Builder
	if opts.Main != "" {
		fmt.Fprintf(&b, "%s\n", opts.Main)
	}
	fmt.Fprintf(&b, "%s\n", opts.Ylab)
	for _, row := range grid {
		fmt.Fprintf(&b, "|%s\n", row)
	}
	fmt.Fprintf(&b, "+%s\n", strings.Repeat("-", plotCols))
	fmt.Fprintf(&b, " %s\n", opts.Xlab)
	fmt.Fprint(ctx.ev.out, b.String())
	return Null{}, nil
}

func scaleTo(v, lo, hi float64, n int) int {
	if hi == lo {
		return 0
	}
	i := int(math.Floor((v - lo) / (hi - lo) * float64(n)))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
