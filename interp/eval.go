package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/benbjohnson/clock"
	"github.com/reckonlang/reckon/ast"
)

// Evaluator executes parsed programs against a scope tree.
// Execution is synchronous call-and-return; there is no shared state
// beyond the scopes handed in.
type Evaluator struct {
	global *Scope
	out    io.Writer
	clock  clock.Clock
}

func NewEvaluator() *Evaluator {
	return &Evaluator{
		global: NewScope(),
		out:    os.Stdout,
		clock:  clock.New(),
	}
}

// Global returns the root scope of the evaluator.
func (e *Evaluator) Global() *Scope {
	return e.global
}

// SetOutput redirects where print, cat and the text plots write.
func (e *Evaluator) SetOutput(w io.Writer) {
	e.out = w
}

// SetClock replaces the wall clock, letting tests fix Sys.time().
func (e *Evaluator) SetClock(c clock.Clock) {
	e.clock = c
}

// EvalProgram evaluates every statement of a program in the given scope and
// returns the value of the last one.
func (e *Evaluator) EvalProgram(prog *ast.ProgramNode, scope *Scope) (Value, error) {
	if scope == nil {
		scope = e.global
	}
	var last Value = Null{}
	for _, n := range prog.Nodes {
		if _, isComment := n.(*ast.CommentNode); isComment {
			continue
		}
		v, err := e.eval(n, scope)
		if err != nil {
			if rv, ok := err.(returnValue); ok {
				// return() at top level is an error, not a value
				_ = rv
				return nil, &ConditionError{Message: "no function to return from"}
			}
			return nil, err
		}
		last = v
	}
	return last, nil
}

// eval evaluates a single node within a scope.
func (e *Evaluator) eval(n ast.Node, scope *Scope) (Value, error) {
	switch node := n.(type) {
	case *ast.NumberNode:
		return Number(node.Float64), nil
	case *ast.StringNode:
		return Str(node.Literal), nil
	case *ast.BoolNode:
		return Bool(node.Bool), nil
	case *ast.NullNode:
		return Null{}, nil
	case *ast.CommentNode:
		return Null{}, nil
	case *ast.IdentifierNode:
		return e.evalIdentifier(node, scope)
	case *ast.UnaryNode:
		return e.evalUnary(node, scope)
	case *ast.BinaryNode:
		return e.evalBinary(node, scope)
	case *ast.IndexNode:
		return e.evalIndex(node, scope)
	case *ast.AssignNode:
		return e.evalAssign(node, scope)
	case *ast.IfNode:
		return e.evalIf(node, scope)
	case *ast.BlockNode:
		var last Value = Null{}
		for _, stmt := range node.Nodes {
			if _, isComment := stmt.(*ast.CommentNode); isComment {
				continue
			}
			v, err := e.eval(stmt, scope)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil
	case *ast.FunctionDefNode:
		return &Closure{Def: node, Env: scope}, nil
	case *ast.CallNode:
		return e.call(node, scope)
	case *ast.ProgramNode:
		return e.EvalProgram(node, scope)
	default:
		return nil, fmt.Errorf("unexpected node %T", n)
	}
}

func (e *Evaluator) evalIdentifier(node *ast.IdentifierNode, scope *Scope) (Value, error) {
	if node.IsDots() {
		return nil, fmt.Errorf("%q used in an incorrect context", ast.DotsName)
	}
	if scope.Has(node.Ident) {
		return scope.Get(node.Ident)
	}
	if bf := LookupBuiltin(node.Ident); bf != nil {
		return bf, nil
	}
	return nil, fmt.Errorf("object %q not found", node.Ident)
}

func (e *Evaluator) evalUnary(node *ast.UnaryNode, scope *Scope) (Value, error) {
	v, err := e.eval(node.Node, scope)
	if err != nil {
		return nil, err
	}
	switch node.Operator {
	case ast.TokenMinus:
		n, ok := asNumeric(v)
		if !ok {
			return nil, fmt.Errorf("invalid argument of type %s to unary minus", v.Type())
		}
		out := make(Numeric, len(n))
		for i, f := range n {
			out[i] = -f
		}
		return out, nil
	case ast.TokenNot:
		l, ok := asLogical(v)
		if !ok {
			return nil, fmt.Errorf("invalid argument of type %s to %q", v.Type(), "!")
		}
		out := make(Logical, len(l))
		for i, b := range l {
			out[i] = !b
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown unary operator %v", node.Operator)
	}
}

func (e *Evaluator) evalBinary(node *ast.BinaryNode, scope *Scope) (Value, error) {
	// && and || work on single logicals and short-circuit.
	if node.Operator == ast.TokenAndAnd || node.Operator == ast.TokenOrOr {
		left, err := e.eval(node.Left, scope)
		if err != nil {
			return nil, err
		}
		lb, err := condTruth(left)
		if err != nil {
			return nil, err
		}
		if node.Operator == ast.TokenAndAnd && !lb {
			return Bool(false), nil
		}
		if node.Operator == ast.TokenOrOr && lb {
			return Bool(true), nil
		}
		right, err := e.eval(node.Right, scope)
		if err != nil {
			return nil, err
		}
		rb, err := condTruth(right)
		if err != nil {
			return nil, err
		}
		return Bool(rb), nil
	}

	left, err := e.eval(node.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(node.Right, scope)
	if err != nil {
		return nil, err
	}
	return binaryOp(node.Operator, left, right)
}

func (e *Evaluator) evalIndex(node *ast.IndexNode, scope *Scope) (Value, error) {
	target, err := e.eval(node.Target, scope)
	if err != nil {
		return nil, err
	}
	index, err := e.eval(node.Index, scope)
	if err != nil {
		return nil, err
	}
	return indexVector(target, index)
}

func (e *Evaluator) evalAssign(node *ast.AssignNode, scope *Scope) (Value, error) {
	v, err := e.eval(node.Right, scope)
	if err != nil {
		return nil, err
	}
	// Remember the first name a function is bound to for error reports.
	if fn, ok := v.(*Closure); ok && fn.Name == "" {
		fn.Name = node.Left.Ident
	}
	scope.Set(node.Left.Ident, v)
	return v, nil
}

func (e *Evaluator) evalIf(node *ast.IfNode, scope *Scope) (Value, error) {
	cond, err := e.eval(node.Cond, scope)
	if err != nil {
		return nil, err
	}
	b, err := condTruth(cond)
	if err != nil {
		return nil, err
	}
	if b {
		return e.eval(node.Then, scope)
	}
	if node.Else != nil {
		return e.eval(node.Else, scope)
	}
	return Null{}, nil
}

// condTruth reduces a condition value to a single bool.
// The value must have length exactly 1 and be logical or numeric.
func condTruth(v Value) (bool, error) {
	l, ok := asLogical(v)
	if !ok {
		return false, fmt.Errorf("argument of type %s is not interpretable as logical", v.Type())
	}
	if len(l) != 1 {
		return false, fmt.Errorf("the condition has length %d, expected a single TRUE or FALSE", len(l))
	}
	return l[0], nil
}

// call evaluates a function call: resolve the callee, evaluate and splice
// the arguments, then dispatch on closure or builtin.
func (e *Evaluator) call(node *ast.CallNode, scope *Scope) (Value, error) {
	// return() is call syntax but is control flow, not a function.
	if node.Func == "return" {
		return e.evalReturn(node, scope)
	}

	callee, err := e.getFunction(node.Func, scope)
	if err != nil {
		return nil, err
	}

	args, literals, err := e.evalArgs(node, scope)
	if err != nil {
		return nil, err
	}

	callText := ast.Format(node)
	switch fn := callee.(type) {
	case *Closure:
		return e.callClosure(fn, callText, args, literals)
	case *Builtin:
		return e.callBuiltin(fn, callText, args, literals, scope)
	default:
		return nil, fmt.Errorf("could not find function %q", node.Func)
	}
}

func (e *Evaluator) evalReturn(node *ast.CallNode, scope *Scope) (Value, error) {
	switch len(node.Args) {
	case 0:
		return nil, returnValue{value: Null{}}
	case 1:
		v, err := e.eval(node.Args[0].Value, scope)
		if err != nil {
			return nil, err
		}
		return nil, returnValue{value: v}
	default:
		return nil, fmt.Errorf("multi-argument returns are not permitted")
	}
}

// getFunction resolves a name to a callable value. Bindings that are not
// functions are skipped, so a vector named 'c' does not shadow the builtin.
func (e *Evaluator) getFunction(name string, scope *Scope) (Value, error) {
	for sc := scope; sc != nil; sc = sc.parent {
		v, ok := sc.variables[name]
		if !ok {
			continue
		}
		switch v.(type) {
		case *Closure, *Builtin:
			return v, nil
		}
	}
	if bf := LookupBuiltin(name); bf != nil {
		return bf, nil
	}
	return nil, fmt.Errorf("could not find function %q", name)
}

// evalArgs evaluates the call's arguments in order, splicing the caller's
// collected dots wherever the bare dots name appears.
func (e *Evaluator) evalArgs(node *ast.CallNode, scope *Scope) ([]Arg, []string, error) {
	args := make([]Arg, 0, len(node.Args))
	literals := make([]string, 0, len(node.Args))
	for i, argNode := range node.Args {
		if ident, ok := argNode.Value.(*ast.IdentifierNode); ok && ident.IsDots() {
			if argNode.Name != "" {
				return nil, nil, fmt.Errorf("%q cannot be a named argument", ast.DotsName)
			}
			dv, err := scope.Get(ast.DotsName)
			if err != nil {
				return nil, nil, fmt.Errorf("%q used in a function without a %s parameter", ast.DotsName, ast.DotsName)
			}
			dots, ok := dv.(Dots)
			if !ok {
				return nil, nil, fmt.Errorf("%q used in an incorrect context", ast.DotsName)
			}
			for _, d := range dots {
				args = append(args, d)
				literals = append(literals, ast.DotsName)
			}
			continue
		}
		v, err := e.eval(argNode.Value, scope)
		if err != nil {
			// Conditions and early returns already carry their context.
			switch err.(type) {
			case *ConditionError, returnValue:
				return nil, nil, err
			}
			return nil, nil, fmt.Errorf("failed to evaluate argument %d of %q: %v", i+1, node.Func, err)
		}
		args = append(args, Arg{Name: argNode.Name, Value: v})
		literals = append(literals, ast.Format(argNode.Value))
	}
	return args, literals, nil
}

// callClosure binds arguments into a fresh scope under the closure's
// defining environment, applies defaults, then evaluates the body.
func (e *Evaluator) callClosure(fn *Closure, callText string, args []Arg, literals []string) (Value, error) {
	fname := fn.Name
	if fname == "" {
		fname = "function"
	}
	formals := make([]formal, len(fn.Def.Params))
	hasDots := false
	for i, p := range fn.Def.Params {
		formals[i] = formal{name: p.Name, hasDefault: p.Default != nil}
		if p.IsDots() {
			hasDots = true
		}
	}

	b, err := matchArgs(fname, formals, args, literals)
	if err != nil {
		return nil, e.conditionOf(callText, err)
	}

	env := fn.Env.Child()
	for name, v := range b.values {
		env.Set(name, v)
	}
	if hasDots {
		env.Set(ast.DotsName, b.dots)
	}
	// Every unbound parameter starts as a missing marker, so a default that
	// reads a parameter declared after it reports that parameter as missing
	// rather than not found.
	for _, p := range fn.Def.Params {
		if p.IsDots() {
			continue
		}
		if _, bound := b.values[p.Name]; !bound {
			env.Set(p.Name, missing{name: p.Name})
		}
	}
	// Defaults evaluate left to right in the call scope, so a default may
	// reference parameters declared before it.
	for _, p := range fn.Def.Params {
		if p.IsDots() || p.Default == nil {
			continue
		}
		if _, bound := b.values[p.Name]; bound {
			continue
		}
		dv, err := e.eval(p.Default, env)
		if err != nil {
			return nil, e.conditionOf(callText, err)
		}
		env.Set(p.Name, dv)
	}

	v, err := e.eval(fn.Def.Body, env)
	if err != nil {
		if rv, ok := err.(returnValue); ok {
			return rv.value, nil
		}
		return nil, e.conditionOf(callText, err)
	}
	return v, nil
}

// conditionOf attaches the innermost call in progress to an error.
// A condition already carrying its call is passed through untouched.
func (e *Evaluator) conditionOf(callText string, err error) error {
	if ce, ok := err.(*ConditionError); ok {
		if ce.Call == "" {
			ce.Call = callText
		}
		return ce
	}
	return &ConditionError{Call: callText, Message: err.Error(), Err: err}
}
