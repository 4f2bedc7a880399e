package ast

import (
	"testing"
)

func TestFormat(t *testing.T) {

	type testCase struct {
		script string
		exp    string // expected formatted output, empty when identical to script
	}

	test := func(tc testCase) {
		prog, err := Parse(tc.script)
		if err != nil {
			t.Fatalf("unexpected parse error for %q: %v", tc.script, err)
		}
		exp := tc.exp
		if exp == "" {
			exp = tc.script
		}
		if got := Format(prog); got != exp {
			t.Errorf("unexpected format:\ngot:\n%s\nexp:\n%s", got, exp)
		}
	}

	cases := []testCase{
		{
			script: "x <- 3\n",
		},
		{
			script: "x <- 1 + 2 * 3\n",
		},
		{
			script: "y <- (1 + 2) * 3\n",
		},
		{
			script: "ready <- !done\n",
		},
		{
			script: "half <- x[x < median(x)]\n",
		},
		{
			script: "f <- function(x, y = 2, ...) {\n  x + y\n}\n",
		},
		{
			script: "square <- function(x) x * x\n",
		},
		{
			script: "if (x > 1) {\n  y <- 2\n} else {\n  y <- 3\n}\n",
		},
		{
			script: "msg <- \"line one\\nline two\"\n",
		},
		{
			// assignment with = renders as the arrow
			script: "x = 3",
			exp:    "x <- 3\n",
		},
		{
			// single quoted strings render double quoted
			script: "s <- 'hi'",
			exp:    "s <- \"hi\"\n",
		},
		{
			// calls split across lines keep one argument per line
			script: "total <- sum(\n  1,\n  2\n)\n",
		},
		{
			// statement separators normalize to newlines
			script: "a <- 1; b <- 2",
			exp:    "a <- 1\nb <- 2\n",
		},
	}

	for _, tc := range cases {
		test(tc)
	}
}

func TestNodeEqual(t *testing.T) {
	a, err := Parse("f <- function(x, y = 2) x + y")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse("f <- function(x,y=2) x+y")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("expected trees to be equal modulo whitespace and comments")
	}

	c, err := Parse("f <- function(x, y) x + y")
	if err != nil {
		t.Fatal(err)
	}
	if a.Equal(c) {
		t.Error("expected trees with different defaults to differ")
	}
}
