package interp

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reckonlang/reckon/ast"
)

// run evaluates a script in a fresh global scope.
func run(t *testing.T, script string) (Value, error) {
	t.Helper()
	prog, err := ast.Parse(script)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	e := NewEvaluator()
	return e.EvalProgram(prog, nil)
}

func mustRun(t *testing.T, script string) Value {
	t.Helper()
	v, err := run(t, script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return v
}

func TestEvalExpressions(t *testing.T) {

	type testCase struct {
		script string
		exp    Value
	}

	cases := []testCase{
		{script: "1 + 2", exp: Number(3)},
		{script: "2 ^ 3 ^ 2", exp: Number(512)},
		{script: "-2 ^ 2", exp: Number(-4)},
		{script: "7 %% 3", exp: Number(1)},
		// modulo follows the divisor's sign
		{script: "-7 %% 3", exp: Number(2)},
		{script: "7 %% -3", exp: Number(-2)},
		{script: "10 / 4", exp: Number(2.5)},
		{script: "1 < 2", exp: Bool(true)},
		{script: `"apple" == "apple"`, exp: Bool(true)},
		{script: `"apple" < "banana"`, exp: Bool(true)},
		{script: "!TRUE", exp: Bool(false)},
		{script: "TRUE & FALSE", exp: Bool(false)},
		{script: "TRUE && FALSE", exp: Bool(false)},
		{script: "FALSE || TRUE", exp: Bool(true)},
		{script: "TRUE + TRUE", exp: Number(2)},
		// vector arithmetic recycles the shorter operand
		{script: "c(1, 2, 3, 4) + c(10, 20)", exp: Numeric{11, 22, 13, 24}},
		{script: "c(1, 2, 3) * 2", exp: Numeric{2, 4, 6}},
		{script: "c(1, 2, 3) > 2", exp: Logical{false, false, true}},
		// subscripts
		{script: "c(10, 20, 30)[2]", exp: Number(20)},
		{script: "c(10, 20, 30)[c(1, 3)]", exp: Numeric{10, 30}},
		{script: "c(10, 20, 30)[-2]", exp: Numeric{10, 30}},
		{script: "c(10, 20, 30)[c(TRUE, FALSE, TRUE)]", exp: Numeric{10, 30}},
		{script: "x <- c(5, 1, 9)\nx[x > 4]", exp: Numeric{5, 9}},
		// conditionals are expressions
		{script: "if (1 > 2) \"yes\" else \"no\"", exp: Str("no")},
		{script: "if (FALSE) 1", exp: Null{}},
		// assignment yields the assigned value, and = works like the arrow
		{script: "x = 3\nx + 1", exp: Number(4)},
	}

	for _, tc := range cases {
		got := mustRun(t, tc.script)
		if diff := cmp.Diff(tc.exp, got); diff != "" {
			t.Errorf("unexpected result for %q: %s", tc.script, diff)
		}
	}
}

func TestEvalErrors(t *testing.T) {

	type testCase struct {
		script string
		err    string
	}

	cases := []testCase{
		{
			script: "c(1, 2, 3) + c(1, 2)",
			err:    "longer object length is not a multiple of shorter object length",
		},
		{
			script: "if (c(TRUE, TRUE)) 1",
			err:    "the condition has length 2, expected a single TRUE or FALSE",
		},
		{
			script: `if ("yes") 1`,
			err:    "argument of type character is not interpretable as logical",
		},
		{
			script: "c(1, 2)[5]",
			err:    "subscript out of bounds",
		},
		{
			script: "c(1, 2, 3)[c(-1, 2)]",
			err:    "cannot mix positive and negative subscripts",
		},
		{
			script: "nope()",
			err:    `could not find function "nope"`,
		},
		{
			script: "return(1)",
			err:    "Error: no function to return from",
		},
		{
			script: `1 + "two"`,
			err:    "non-numeric argument to binary operator +",
		},
	}

	for _, tc := range cases {
		_, err := run(t, tc.script)
		if err == nil {
			t.Errorf("expected error for %q", tc.script)
			continue
		}
		if !strings.Contains(err.Error(), tc.err) {
			t.Errorf("unexpected error for %q: \ngot %s \nexp %s", tc.script, err.Error(), tc.err)
		}
	}
}

func TestEvalFunctions(t *testing.T) {

	type testCase struct {
		name   string
		script string
		exp    Value
	}

	cases := []testCase{
		{
			name:   "positional call",
			script: "add <- function(x, y) x + y\nadd(2, 3)",
			exp:    Number(5),
		},
		{
			name:   "named arguments in any order",
			script: "div <- function(num, den) num / den\ndiv(den = 2, num = 10)",
			exp:    Number(5),
		},
		{
			name:   "defaults apply when omitted",
			script: "pow <- function(x, n = 2) x ^ n\npow(3)",
			exp:    Number(9),
		},
		{
			name:   "supplied arguments beat defaults",
			script: "pow <- function(x, n = 2) x ^ n\npow(3, 3)",
			exp:    Number(27),
		},
		{
			name:   "defaults may reference earlier parameters",
			script: "f <- function(x, y = x * 2) x + y\nf(3)",
			exp:    Number(9),
		},
		{
			name:   "block body returns its last statement",
			script: "f <- function(x) {\n  y <- x + 1\n  y * 2\n}\nf(3)",
			exp:    Number(8),
		},
		{
			name:   "early return skips the rest",
			script: "sign.word <- function(x) {\n  if (x > 0) {\n    return(\"pos\")\n  }\n  \"nonpos\"\n}\nsign.word(2)",
			exp:    Str("pos"),
		},
		{
			name:   "early return not taken",
			script: "sign.word <- function(x) {\n  if (x > 0) {\n    return(\"pos\")\n  }\n  \"nonpos\"\n}\nsign.word(-2)",
			exp:    Str("nonpos"),
		},
		{
			name:   "dots forward positionally",
			script: "wrap <- function(...) c(...)\nwrap(1, 2, 3)",
			exp:    Numeric{1, 2, 3},
		},
		{
			name:   "dots forward names too",
			script: "sub <- function(a, b) a - b\nwrap <- function(...) sub(...)\nwrap(b = 1, a = 5)",
			exp:    Number(4),
		},
		{
			name:   "dots plus own arguments",
			script: "scale.sum <- function(k, ...) k * sum(c(...))\nscale.sum(10, 1, 2, 3)",
			exp:    Number(60),
		},
		{
			name:   "lexical scoping, not dynamic",
			script: "base <- 10\nadd.base <- function(x) x + base\nshadow <- function() {\n  base <- 0\n  add.base(1)\n}\nshadow()",
			exp:    Number(11),
		},
		{
			name:   "assignment inside a body stays local",
			script: "x <- 1\nbump <- function() {\n  x <- 99\n  x\n}\nbump()\nx",
			exp:    Number(1),
		},
		{
			name:   "a data binding does not shadow a function",
			script: "c <- c(5, 6)\nc(c[1], 7)",
			exp:    Numeric{5, 7},
		},
		{
			name:   "anonymous function called through a name",
			script: "apply.twice <- function(f, x) f(f(x))\nhalve <- function(x) x / 2\napply.twice(halve, 20)",
			exp:    Number(5),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mustRun(t, tc.script)
			if diff := cmp.Diff(tc.exp, got); diff != "" {
				t.Errorf("unexpected result: %s", diff)
			}
		})
	}
}

func TestEvalCallErrors(t *testing.T) {

	type testCase struct {
		name   string
		script string
		err    string
	}

	cases := []testCase{
		{
			name:   "missing argument read",
			script: "f <- function(x) x\nf()",
			err:    `Error in f(): argument "x" is missing, with no default`,
		},
		{
			name:   "missing argument unread is fine until used",
			script: "f <- function(x, y) x\nf(1)",
			err:    "",
		},
		{
			name:   "default reading a later unbound parameter",
			script: "f <- function(x = y, y) x\nf()",
			err:    `Error in f(): argument "y" is missing, with no default`,
		},
		{
			name:   "unused argument",
			script: "f <- function(x) x\nf(1, 2)",
			err:    `Error in f(1, 2): unused argument (2) in call to "f"`,
		},
		{
			name:   "duplicate named argument",
			script: "f <- function(x) x\nf(x = 1, x = 2)",
			err:    `Error in f(x = 1, x = 2): formal argument "x" of "f" matched by multiple actual arguments`,
		},
		{
			name:   "stop reports the enclosing call",
			script: "check <- function(x) {\n  if (x < 0) {\n    stop(\"negative input\")\n  }\n  x\n}\ncheck(-1)",
			err:    "Error in check(-1): negative input",
		},
		{
			name:   "stop concatenates its arguments",
			script: "f <- function(x) stop(\"bad \", x)\nf(\"thing\")",
			err:    `Error in f("thing"): bad thing`,
		},
		{
			name:   "stop at top level has no call",
			script: `stop("plain")`,
			err:    "Error: plain",
		},
		{
			name:   "runtime errors carry the innermost call",
			script: "f <- function(x) x + \"nope\"\ng <- function(x) f(x)\ng(1)",
			err:    `Error in f(x): non-numeric argument to binary operator +`,
		},
		{
			name:   "dots in a function without dots",
			script: "f <- function(x) x\ng <- function(y) f(...)\ng(1)",
			err:    `Error in g(1): "..." used in a function without a ... parameter`,
		},
		{
			name:   "stopifnot names the failing argument",
			script: "f <- function(x) {\n  stopifnot(x.positive = x > 0)\n  sqrt(x)\n}\nf(-4)",
			err:    "Error in f(-4): x.positive is not all TRUE",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, tc.script)
			if tc.err == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %q, got none", tc.err)
			}
			if got := err.Error(); got != tc.err {
				t.Errorf("unexpected error: \ngot %s \nexp %s", got, tc.err)
			}
		})
	}
}

func TestEvalConditionError(t *testing.T) {
	_, err := run(t, "f <- function() stop(\"boom\")\nf()")
	if err == nil {
		t.Fatal("expected an error")
	}
	ce, ok := err.(*ConditionError)
	if !ok {
		t.Fatalf("expected a *ConditionError, got %T", err)
	}
	if got, exp := ce.Call, "f()"; got != exp {
		t.Errorf("unexpected call: got %q exp %q", got, exp)
	}
	if got, exp := ce.Message, "boom"; got != exp {
		t.Errorf("unexpected message: got %q exp %q", got, exp)
	}
}

func TestScope(t *testing.T) {
	parent := NewScope()
	parent.Set("x", Number(1))
	child := parent.Child()
	child.Set("y", Number(2))

	if !child.Has("x") || !child.Has("y") {
		t.Error("expected both names visible from the child")
	}
	if parent.Has("y") {
		t.Error("expected y to stay local to the child")
	}

	v, err := child.Get("x")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Number(1), v); diff != "" {
		t.Errorf("unexpected value: %s", diff)
	}

	if got, exp := child.Names(), []string{"x", "y"}; !cmp.Equal(got, exp) {
		t.Errorf("unexpected names: got %v exp %v", got, exp)
	}
	if got, exp := child.LocalNames(), []string{"y"}; !cmp.Equal(got, exp) {
		t.Errorf("unexpected local names: got %v exp %v", got, exp)
	}

	if !child.Remove("x") {
		t.Error("expected to remove x through the chain")
	}
	if parent.Has("x") {
		t.Error("expected x gone from the parent")
	}
}
