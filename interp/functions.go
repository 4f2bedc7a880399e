package interp

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/reckonlang/reckon/ast"
)

// BuiltinFunc is the Go implementation of a builtin function.
type BuiltinFunc func(ctx *Context) (Value, error)

// param describes one declared parameter of a builtin.
// A nil default marks the parameter required.
type param struct {
	name string
	def  Value
}

func req(name string) param {
	return param{name: name}
}

func opt(name string, def Value) param {
	return param{name: name, def: def}
}

func dots() param {
	return param{name: ast.DotsName}
}

// Builtin is a callable provided by the base library. Builtins go through
// the same argument matching as user-defined functions.
type Builtin struct {
	name   string
	params []param
	fn     BuiltinFunc
}

func (*Builtin) Type() ValueType { return FunctionType }
func (*Builtin) Len() int        { return 1 }

func (b *Builtin) paramNames() []string {
	names := make([]string, len(b.params))
	for i, p := range b.params {
		names[i] = p.name
	}
	return names
}

// Context carries what a builtin needs: the evaluator, the calling scope
// and the bound arguments.
type Context struct {
	ev    *Evaluator
	scope *Scope
	args  map[string]Value
	dots  Dots
}

// Arg returns the bound value of a declared parameter.
func (c *Context) Arg(name string) Value {
	return c.args[name]
}

// Dots returns the collected variadic arguments.
func (c *Context) Dots() Dots {
	return c.dots
}

// Number returns a declared parameter as a single number.
func (c *Context) Number(name string) (float64, error) {
	f, err := scalarNumber(c.args[name])
	if err != nil {
		return 0, errors.Wrapf(err, "argument %q", name)
	}
	return f, nil
}

// String returns a declared parameter as a single string.
func (c *Context) String(name string) (string, error) {
	s, err := scalarString(c.args[name])
	if err != nil {
		return "", errors.Wrapf(err, "argument %q", name)
	}
	return s, nil
}

// Bool returns a declared parameter as a single logical.
func (c *Context) Bool(name string) (bool, error) {
	l, ok := c.args[name].(Logical)
	if !ok || len(l) != 1 {
		return false, fmt.Errorf("argument %q must be a single TRUE or FALSE", name)
	}
	return l[0], nil
}

// Vector returns a declared parameter as a numeric vector.
func (c *Context) Vector(name string) (Numeric, error) {
	n, ok := asNumeric(c.args[name])
	if !ok {
		return nil, fmt.Errorf("argument %q must be numeric, got %s", name, c.args[name].Type())
	}
	return n, nil
}

// callBuiltin matches arguments against the builtin's declared parameters,
// applies defaults, then invokes the Go implementation.
func (e *Evaluator) callBuiltin(bf *Builtin, callText string, args []Arg, literals []string, scope *Scope) (Value, error) {
	formals := make([]formal, len(bf.params))
	for i, p := range bf.params {
		formals[i] = formal{name: p.name, hasDefault: p.def != nil}
	}
	b, err := matchArgs(bf.name, formals, args, literals)
	if err != nil {
		return nil, e.conditionOf(callText, err)
	}
	for _, p := range bf.params {
		if p.name == ast.DotsName {
			continue
		}
		if _, bound := b.values[p.name]; bound {
			continue
		}
		if p.def == nil {
			return nil, e.conditionOf(callText, fmt.Errorf("argument %q is missing, with no default", p.name))
		}
		b.values[p.name] = p.def
	}
	ctx := &Context{
		ev:    e,
		scope: scope,
		args:  b.values,
		dots:  b.dots,
	}
	v, err := bf.fn(ctx)
	if err != nil {
		// Conditions raised directly, by stop() or stopifnot(), report the
		// enclosing call, so leave them for the caller's boundary to fill.
		if ce, ok := err.(*ConditionError); ok {
			return nil, ce
		}
		return nil, e.conditionOf(callText, err)
	}
	return v, nil
}

// Funcs is the lookup table for builtin functions.
type Funcs map[string]*Builtin

var builtinFuncs Funcs

// LookupBuiltin returns the named builtin, or nil.
func LookupBuiltin(name string) *Builtin {
	return builtinFuncs[name]
}

// BuiltinNames lists every registered builtin.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinFuncs))
	for name := range builtinFuncs {
		names = append(names, name)
	}
	return names
}

func register(name string, fn BuiltinFunc, params ...param) {
	builtinFuncs[name] = &Builtin{name: name, params: params, fn: fn}
}

func init() {
	builtinFuncs = make(Funcs)

	// Vector construction
	register("c", concat, dots())
	register("seq", seq, req("from"), req("to"), opt("by", Null{}))
	register("rep", rep, req("x"), req("times"))
	register("length", length, req("x"))

	// Math functions, elementwise over numeric vectors
	register("abs", newNumeric1(math.Abs), req("x"))
	register("sqrt", newNumeric1(math.Sqrt), req("x"))
	register("exp", newNumeric1(math.Exp), req("x"))
	register("floor", newNumeric1(math.Floor), req("x"))
	register("ceiling", newNumeric1(math.Ceil), req("x"))
	register("log", logFn, req("x"), opt("base", Number(math.E)))
	register("round", round, req("x"), opt("digits", Number(0)))

	// Summary statistics
	register("sum", newSummary(func(x []float64) float64 {
		s := 0.0
		for _, f := range x {
			s += f
		}
		return s
	}), req("x"))
	register("mean", newSummary(mean), req("x"))
	register("median", newSummary(median), req("x"))
	register("var", newSummary(variance), req("x"))
	register("sd", newSummary(stddev), req("x"))
	register("min", newSummary(minimum), req("x"))
	register("max", newSummary(maximum), req("x"))
	register("range", rangeFn, req("x"))
	register("quantile", quantileFn, req("x"), opt("probs", Numeric{0, 0.25, 0.5, 0.75, 1}))
	register("cor", corFn, req("x"), req("y"))

	// Vector transforms
	register("sort", sortFn, req("x"), opt("decreasing", Bool(false)))
	register("rev", revFn, req("x"))
	register("head", headFn, req("x"), opt("n", Number(6)))
	register("tail", tailFn, req("x"), opt("n", Number(6)))

	// Predicates
	register("any", anyFn, req("x"))
	register("all", allFn, req("x"))
	register("is.null", isType(NullType), req("x"))
	register("is.numeric", isType(NumericType), req("x"))
	register("is.logical", isType(LogicalType), req("x"))
	register("is.character", isType(CharacterType), req("x"))
	register("is.function", isType(FunctionType), req("x"))

	// Coercions
	register("as.numeric", asNumericFn, req("x"))
	register("as.character", asCharacterFn, req("x"))
	register("as.logical", asLogicalFn, req("x"))

	// Strings and output
	register("paste", paste, dots(), opt("sep", Str(" ")))
	register("toupper", newCharacter1(strings.ToUpper), req("x"))
	register("tolower", newCharacter1(strings.ToLower), req("x"))
	register("print", printFn, req("x"))
	register("cat", catFn, dots(), opt("sep", Str(" ")))
	register("pretty", prettyFn, req("x"))

	// Session management
	register("ls", lsFn)
	register("rm", rmFn, req("x"))
	register("exists", existsFn, req("x"))
	register("Sys.time", sysTime)
	register("source", sourceFn, req("file"))

	// Conditions
	register("stop", stopFn, dots())
	register("stopifnot", stopifnotFn, dots())

	// Text plotting stand-ins
	register("hist", histFn, req("x"), opt("breaks", Number(10)), opt("main", Str("")), dots())
	register("plot", plotFn, req("x"), opt("y", Null{}), dots())
}

// newNumeric1 lifts a scalar function over numeric vectors elementwise.
func newNumeric1(f func(float64) float64) BuiltinFunc {
	return func(ctx *Context) (Value, error) {
		x, err := ctx.Vector("x")
		if err != nil {
			return nil, err
		}
		out := make(Numeric, len(x))
		for i, v := range x {
			out[i] = f(v)
		}
		return out, nil
	}
}

// newCharacter1 lifts a string function over character vectors elementwise.
func newCharacter1(f func(string) string) BuiltinFunc {
	return func(ctx *Context) (Value, error) {
		x, ok := asCharacter(ctx.Arg("x"))
		if !ok {
			return nil, fmt.Errorf("argument %q must be a vector", "x")
		}
		out := make(Character, len(x))
		for i, s := range x {
			out[i] = f(s)
		}
		return out, nil
	}
}

// newSummary lifts a vector reduction into a builtin rejecting empty input.
func newSummary(f func(x []float64) float64) BuiltinFunc {
	return func(ctx *Context) (Value, error) {
		x, err := ctx.Vector("x")
		if err != nil {
			return nil, err
		}
		if len(x) == 0 {
			return nil, fmt.Errorf("cannot summarize an empty vector")
		}
		return Number(f(x)), nil
	}
}

func concat(ctx *Context) (Value, error) {
	// Concatenation promotes to the most general element type present:
	// logical < numeric < character.
	out := ValueType(LogicalType)
	total := 0
	for _, arg := range ctx.Dots() {
		switch arg.Value.Type() {
		case NullType:
			continue
		case CharacterType:
			out = CharacterType
		case NumericType:
			if out != CharacterType {
				out = NumericType
			}
		case LogicalType:
		default:
			return nil, fmt.Errorf("cannot combine a value of type %s", arg.Value.Type())
		}
		total += arg.Value.Len()
	}
	switch out {
	case CharacterType:
		combined := make(Character, 0, total)
		for _, arg := range ctx.Dots() {
			if arg.Value.Type() == NullType {
				continue
			}
			c, _ := asCharacter(arg.Value)
			combined = append(combined, c...)
		}
		return combined, nil
	case NumericType:
		combined := make(Numeric, 0, total)
		for _, arg := range ctx.Dots() {
			if arg.Value.Type() == NullType {
				continue
			}
			n, _ := asNumeric(arg.Value)
			combined = append(combined, n...)
		}
		return combined, nil
	default:
		combined := make(Logical, 0, total)
		for _, arg := range ctx.Dots() {
			if arg.Value.Type() == NullType {
				continue
			}
			l, _ := asLogical(arg.Value)
			combined = append(combined, l...)
		}
		if len(combined) == 0 {
			return Null{}, nil
		}
		return combined, nil
	}
}

func seq(ctx *Context) (Value, error) {
	from, err := ctx.Number("from")
	if err != nil {
		return nil, err
	}
	to, err := ctx.Number("to")
	if err != nil {
		return nil, err
	}
	by := 1.0
	if ctx.Arg("by").Type() != NullType {
		by, err = ctx.Number("by")
		if err != nil {
			return nil, err
		}
	} else if to < from {
		by = -1.0
	}
	if by == 0 {
		return nil, fmt.Errorf("invalid %q argument, cannot be zero", "by")
	}
	if (to-from)*by < 0 {
		return nil, fmt.Errorf("wrong sign in %q argument", "by")
	}
	n := int(math.Floor((to-from)/by)) + 1
	out := make(Numeric, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, from+float64(i)*by)
	}
	return out, nil
}

func rep(ctx *Context) (Value, error) {
	times, err := ctx.Number("times")
	if err != nil {
		return nil, err
	}
	if times < 0 || times != math.Trunc(times) {
		return nil, fmt.Errorf("invalid %q argument, expected a non-negative whole number", "times")
	}
	k := int(times)
	switch x := ctx.Arg("x").(type) {
	case Numeric:
		out := make(Numeric, 0, len(x)*k)
		for i := 0; i < k; i++ {
			out = append(out, x...)
		}
		return out, nil
	case Logical:
		out := make(Logical, 0, len(x)*k)
		for i := 0; i < k; i++ {
			out = append(out, x...)
		}
		return out, nil
	case Character:
		out := make(Character, 0, len(x)*k)
		for i := 0; i < k; i++ {
			out = append(out, x...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot replicate a value of type %s", ctx.Arg("x").Type())
	}
}

func length(ctx *Context) (Value, error) {
	return Number(float64(ctx.Arg("x").Len())), nil
}

func logFn(ctx *Context) (Value, error) {
	x, err := ctx.Vector("x")
	if err != nil {
		return nil, err
	}
	base, err := ctx.Number("base")
	if err != nil {
		return nil, err
	}
	out := make(Numeric, len(x))
	div := math.Log(base)
	for i, v := range x {
		out[i] = math.Log(v) / div
	}
	return out, nil
}

func round(ctx *Context) (Value, error) {
	x, err := ctx.Vector("x")
	if err != nil {
		return nil, err
	}
	digits, err := ctx.Number("digits")
	if err != nil {
		return nil, err
	}
	scale := math.Pow(10, digits)
	out := make(Numeric, len(x))
	for i, v := range x {
		out[i] = math.Round(v*scale) / scale
	}
	return out, nil
}

func sortFn(ctx *Context) (Value, error) {
	x, err := ctx.Vector("x")
	if err != nil {
		return nil, err
	}
	decreasing, err := ctx.Bool("decreasing")
	if err != nil {
		return nil, err
	}
	out := make(Numeric, len(x))
	copy(out, x)
	sortFloats(out)
	if decreasing {
		reverseFloats(out)
	}
	return out, nil
}

func revFn(ctx *Context) (Value, error) {
	switch x := ctx.Arg("x").(type) {
	case Numeric:
		out := make(Numeric, len(x))
		for i, v := range x {
			out[len(x)-1-i] = v
		}
		return out, nil
	case Logical:
		out := make(Logical, len(x))
		for i, v := range x {
			out[len(x)-1-i] = v
		}
		return out, nil
	case Character:
		out := make(Character, len(x))
		for i, v := range x {
			out[len(x)-1-i] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot reverse a value of type %s", ctx.Arg("x").Type())
	}
}

func headFn(ctx *Context) (Value, error) {
	return slice(ctx, true)
}

func tailFn(ctx *Context) (Value, error) {
	return slice(ctx, false)
}

func slice(ctx *Context, fromFront bool) (Value, error) {
	n, err := ctx.Number("n")
	if err != nil {
		return nil, err
	}
	k := int(n)
	total := ctx.Arg("x").Len()
	if k > total {
		k = total
	}
	if k < 0 {
		k = 0
	}
	indices := make(Numeric, k)
	for i := 0; i < k; i++ {
		if fromFront {
			indices[i] = float64(i + 1)
		} else {
			indices[i] = float64(total - k + i + 1)
		}
	}
	return indexVector(ctx.Arg("x"), indices)
}

func anyFn(ctx *Context) (Value, error) {
	l, ok := asLogical(ctx.Arg("x"))
	if !ok {
		return nil, fmt.Errorf("argument %q must be logical", "x")
	}
	for _, b := range l {
		if b {
			return Bool(true), nil
		}
	}
	return Bool(false), nil
}

func allFn(ctx *Context) (Value, error) {
	l, ok := asLogical(ctx.Arg("x"))
	if !ok {
		return nil, fmt.Errorf("argument %q must be logical", "x")
	}
	for _, b := range l {
		if !b {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

func isType(t ValueType) BuiltinFunc {
	return func(ctx *Context) (Value, error) {
		return Bool(ctx.Arg("x").Type() == t), nil
	}
}

func asNumericFn(ctx *Context) (Value, error) {
	if n, ok := asNumeric(ctx.Arg("x")); ok {
		return n, nil
	}
	return nil, fmt.Errorf("cannot coerce type %s to numeric", ctx.Arg("x").Type())
}

func asCharacterFn(ctx *Context) (Value, error) {
	if c, ok := asCharacter(ctx.Arg("x")); ok {
		return c, nil
	}
	return nil, fmt.Errorf("cannot coerce type %s to character", ctx.Arg("x").Type())
}

func asLogicalFn(ctx *Context) (Value, error) {
	if l, ok := asLogical(ctx.Arg("x")); ok {
		return l, nil
	}
	return nil, fmt.Errorf("cannot coerce type %s to logical", ctx.Arg("x").Type())
}

func paste(ctx *Context) (Value, error) {
	sep, err := ctx.String("sep")
	if err != nil {
		return nil, err
	}
	parts := make([]Character, 0, len(ctx.Dots()))
	max := 0
	for _, arg := range ctx.Dots() {
		c, ok := asCharacter(arg.Value)
		if !ok {
			return nil, fmt.Errorf("cannot paste a value of type %s", arg.Value.Type())
		}
		if len(c) == 0 {
			continue
		}
		parts = append(parts, c)
		if len(c) > max {
			max = len(c)
		}
	}
	if max == 0 {
		return Str(""), nil
	}
	out := make(Character, max)
	for i := 0; i < max; i++ {
		elems := make([]string, len(parts))
		for j, part := range parts {
			elems[j] = part[i%len(part)]
		}
		out[i] = strings.Join(elems, sep)
	}
	return out, nil
}

func printFn(ctx *Context) (Value, error) {
	fmt.Fprintln(ctx.ev.out, FormatValue(ctx.Arg("x")))
	return Null{}, nil
}

func catFn(ctx *Context) (Value, error) {
	sep, err := ctx.String("sep")
	if err != nil {
		return nil, err
	}
	first := true
	for _, arg := range ctx.Dots() {
		c, ok := asCharacter(arg.Value)
		if !ok {
			return nil, fmt.Errorf("cannot cat a value of type %s", arg.Value.Type())
		}
		for _, s := range c {
			if !first {
				fmt.Fprint(ctx.ev.out, sep)
			}
			fmt.Fprint(ctx.ev.out, s)
			first = false
		}
	}
	return Null{}, nil
}

// prettyFn formats numbers with grouped thousands, standing in for the
// usual pretty-printing helpers when reporting large totals.
func prettyFn(ctx *Context) (Value, error) {
	x, err := ctx.Vector("x")
	if err != nil {
		return nil, err
	}
	out := make(Character, len(x))
	for i, v := range x {
		out[i] = humanize.Commaf(v)
	}
	return out, nil
}

func lsFn(ctx *Context) (Value, error) {
	return Character(ctx.scope.LocalNames()), nil
}

func rmFn(ctx *Context) (Value, error) {
	name, err := ctx.String("x")
	if err != nil {
		return nil, err
	}
	if !ctx.scope.Remove(name) {
		return nil, fmt.Errorf("object %q not found", name)
	}
	return Null{}, nil
}

func existsFn(ctx *Context) (Value, error) {
	name, err := ctx.String("x")
	if err != nil {
		return nil, err
	}
	return Bool(ctx.scope.Has(name) || LookupBuiltin(name) != nil), nil
}

func sysTime(ctx *Context) (Value, error) {
	now := ctx.ev.clock.Now()
	return Number(float64(now.UnixNano()) / 1e9), nil
}

// sourceFn parses and evaluates a script file in the global scope, the way
// a session loads a file of function definitions before using them.
func sourceFn(ctx *Context) (Value, error) {
	path, err := ctx.String("file")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open file %q", path)
	}
	prog, err := ast.Parse(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "error sourcing %q", path)
	}
	if _, err := ctx.ev.EvalProgram(prog, ctx.ev.global); err != nil {
		return nil, errors.Wrapf(err, "error sourcing %q", path)
	}
	return Null{}, nil
}

func stopFn(ctx *Context) (Value, error) {
	var b strings.Builder
	for _, arg := range ctx.Dots() {
		c, ok := asCharacter(arg.Value)
		if !ok {
			return nil, fmt.Errorf("invalid argument of type %s to stop", arg.Value.Type())
		}
		for _, s := range c {
			b.WriteString(s)
		}
	}
	msg := b.String()
	if msg == "" {
		msg = "stopped"
	}
	return nil, &ConditionError{Message: msg}
}

func stopifnotFn(ctx *Context) (Value, error) {
	for i, arg := range ctx.Dots() {
		l, ok := arg.Value.(Logical)
		if !ok || len(l) == 0 {
			return nil, &ConditionError{Message: fmt.Sprintf("argument %d is not a logical vector", i+1)}
		}
		for _, b := range l {
			if !b {
				label := arg.Name
				if label == "" {
					label = fmt.Sprintf("argument %d", i+1)
				}
				return nil, &ConditionError{Message: fmt.Sprintf("%s is not all TRUE", label)}
			}
		}
	}
	return Null{}, nil
}
