package ast

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
)

func TestParserLookAhead(t *testing.T) {
	assert := assert.New(t)

	p := &parser{}
	p.lex = lex("0 1 2 3")

	assert.Equal(token{TokenNumber, 0, "0"}, p.next())
	assert.Equal(token{TokenNumber, 2, "1"}, p.peek())
	assert.Equal(token{TokenNumber, 2, "1"}, p.next())
	p.backup()
	assert.Equal(token{TokenNumber, 2, "1"}, p.next())
	assert.Equal(token{TokenNumber, 4, "2"}, p.peek())
	p.backup()
	assert.Equal(token{TokenNumber, 2, "1"}, p.next())
	assert.Equal(token{TokenNumber, 4, "2"}, p.next())
	assert.Equal(token{TokenNumber, 6, "3"}, p.next())
}

func TestParseErrors(t *testing.T) {
	assert := assert.New(t)

	type testCase struct {
		Text  string
		Error string
	}

	test := func(tc testCase) {
		_, err := Parse(tc.Text)
		if assert.NotNil(err) {
			if e, g := tc.Error, err.Error(); g != e {
				t.Errorf("unexpected error: \ngot %s \nexp %s", g, e)
			}
		}
	}

	const expOperand = `"number","string","identifier","function","TRUE","FALSE","NULL","(","-","!"`

	cases := []testCase{
		{
			Text:  "f(",
			Error: `parser: unexpected EOF line 1 char 3 in "f(". expected: ` + expOperand,
		},
		{
			Text:  "x <- ",
			Error: `parser: unexpected EOF line 1 char 6 in "x <- ". expected: ` + expOperand,
		},
		{
			Text:  "if (x) { y",
			Error: `parser: unexpected EOF line 1 char 11 in "if (x) { y". expected: ` + expOperand,
		},
		{
			Text:  "f(x, y = )",
			Error: `parser: unexpected ) line 1 char 10 in "f(x, y = )". expected: ` + expOperand,
		},
		{
			Text:  "3 <- 4",
			Error: `parser: invalid assignment target line 1 char 1, expected a name`,
		},
		{
			Text:  "function(... = 1) 2",
			Error: `parser: parameter ... cannot have a default line 1`,
		},
	}

	for _, tc := range cases {
		test(tc)
	}
}

func TestParseIncomplete(t *testing.T) {
	incomplete := []string{
		"f <- function(x) {",
		"x <- ",
		"c(1, 2,",
		`msg <- "half`,
	}
	for _, in := range incomplete {
		_, err := Parse(in)
		if err == nil {
			t.Errorf("expected error for %q", in)
			continue
		}
		if !IsIncompleteErr(err) {
			t.Errorf("expected incomplete-input error for %q, got %v", in, err)
		}
	}

	if _, err := Parse("f(x y)"); err == nil || IsIncompleteErr(err) {
		t.Errorf("expected a non-continuable error, got %v", err)
	}
}

func TestParseStatements(t *testing.T) {

	type testCase struct {
		script string
		exp    Node
	}

	test := func(tc testCase) {
		prog, err := Parse(tc.script)
		if err != nil {
			t.Fatalf("unexpected parse error for %q: %v", tc.script, err)
		}
		if len(prog.Nodes) != 1 {
			t.Fatalf("expected a single statement for %q, got %d", tc.script, len(prog.Nodes))
		}
		if !prog.Nodes[0].Equal(tc.exp) {
			t.Errorf("unexpected tree for %q:\ngot %s\nexp %s", tc.script, spew.Sdump(prog.Nodes[0]), spew.Sdump(tc.exp))
		}
	}

	cases := []testCase{
		{
			script: "x <- 3",
			exp: &AssignNode{
				Left:  &IdentifierNode{Ident: "x"},
				Right: &NumberNode{Float64: 3},
			},
		},
		{
			script: "x = 3",
			exp: &AssignNode{
				Left:  &IdentifierNode{Ident: "x"},
				Right: &NumberNode{Float64: 3},
			},
		},
		{
			script: "1 + 2 * 3",
			exp: &BinaryNode{
				Operator: TokenPlus,
				Left:     &NumberNode{Float64: 1},
				Right: &BinaryNode{
					Operator: TokenMult,
					Left:     &NumberNode{Float64: 2},
					Right:    &NumberNode{Float64: 3},
				},
			},
		},
		{
			// exponentiation groups to the right
			script: "2 ^ 3 ^ 2",
			exp: &BinaryNode{
				Operator: TokenPow,
				Left:     &NumberNode{Float64: 2},
				Right: &BinaryNode{
					Operator: TokenPow,
					Left:     &NumberNode{Float64: 3},
					Right:    &NumberNode{Float64: 2},
				},
			},
		},
		{
			// unary minus binds looser than exponentiation
			script: "-x ^ 2",
			exp: &UnaryNode{
				Operator: TokenMinus,
				Node: &BinaryNode{
					Operator: TokenPow,
					Left:     &IdentifierNode{Ident: "x"},
					Right:    &NumberNode{Float64: 2},
				},
			},
		},
		{
			script: "x[c(1, 2)]",
			exp: &IndexNode{
				Target: &IdentifierNode{Ident: "x"},
				Index: &CallNode{
					Func: "c",
					Args: []*ArgNode{
						{Value: &NumberNode{Float64: 1}},
						{Value: &NumberNode{Float64: 2}},
					},
				},
			},
		},
		{
			script: "total <- sum(x, trim = 0.1)",
			exp: &AssignNode{
				Left: &IdentifierNode{Ident: "total"},
				Right: &CallNode{
					Func: "sum",
					Args: []*ArgNode{
						{Value: &IdentifierNode{Ident: "x"}},
						{Name: "trim", Value: &NumberNode{Float64: 0.1}},
					},
				},
			},
		},
		{
			script: "f(...)",
			exp: &CallNode{
				Func: "f",
				Args: []*ArgNode{
					{Value: &IdentifierNode{Ident: DotsName}},
				},
			},
		},
		{
			script: "f <- function(x, y = 2, ...) {\n  x + y\n}",
			exp: &AssignNode{
				Left: &IdentifierNode{Ident: "f"},
				Right: &FunctionDefNode{
					Params: []*ParamNode{
						{Name: "x"},
						{Name: "y", Default: &NumberNode{Float64: 2}},
						{Name: DotsName},
					},
					Body: &BlockNode{
						Nodes: []Node{
							&BinaryNode{
								Operator: TokenPlus,
								Left:     &IdentifierNode{Ident: "x"},
								Right:    &IdentifierNode{Ident: "y"},
							},
						},
					},
				},
			},
		},
		{
			// a single-expression body needs no braces
			script: "square <- function(x) x * x",
			exp: &AssignNode{
				Left: &IdentifierNode{Ident: "square"},
				Right: &FunctionDefNode{
					Params: []*ParamNode{{Name: "x"}},
					Body: &BinaryNode{
						Operator: TokenMult,
						Left:     &IdentifierNode{Ident: "x"},
						Right:    &IdentifierNode{Ident: "x"},
					},
				},
			},
		},
		{
			script: "if (x > 1) {\n  y <- 2\n} else {\n  y <- 3\n}",
			exp: &IfNode{
				Cond: &BinaryNode{
					Operator: TokenGreater,
					Left:     &IdentifierNode{Ident: "x"},
					Right:    &NumberNode{Float64: 1},
				},
				Then: &BlockNode{
					Nodes: []Node{
						&AssignNode{
							Left:  &IdentifierNode{Ident: "y"},
							Right: &NumberNode{Float64: 2},
						},
					},
				},
				Else: &BlockNode{
					Nodes: []Node{
						&AssignNode{
							Left:  &IdentifierNode{Ident: "y"},
							Right: &NumberNode{Float64: 3},
						},
					},
				},
			},
		},
		{
			// a bare statement branch gets a synthetic block
			script: "if (ok) yes() else no()",
			exp: &IfNode{
				Cond: &IdentifierNode{Ident: "ok"},
				Then: &BlockNode{
					Nodes: []Node{&CallNode{Func: "yes"}},
				},
				Else: &BlockNode{
					Nodes: []Node{&CallNode{Func: "no"}},
				},
			},
		},
		{
			// else-if chains nest in the alternative
			script: "if (a) {\n  1\n} else if (b) {\n  2\n} else {\n  3\n}",
			exp: &IfNode{
				Cond: &IdentifierNode{Ident: "a"},
				Then: &BlockNode{Nodes: []Node{&NumberNode{Float64: 1}}},
				Else: &IfNode{
					Cond: &IdentifierNode{Ident: "b"},
					Then: &BlockNode{Nodes: []Node{&NumberNode{Float64: 2}}},
					Else: &BlockNode{Nodes: []Node{&NumberNode{Float64: 3}}},
				},
			},
		},
		{
			// an operator at end of line continues the expression
			script: "total <- 1 +\n  2",
			exp: &AssignNode{
				Left: &IdentifierNode{Ident: "total"},
				Right: &BinaryNode{
					Operator: TokenPlus,
					Left:     &NumberNode{Float64: 1},
					Right:    &NumberNode{Float64: 2},
				},
			},
		},
		{
			script: "(1 + 2) * 3",
			exp: &BinaryNode{
				Operator: TokenMult,
				Left: &BinaryNode{
					Operator: TokenPlus,
					Left:     &NumberNode{Float64: 1},
					Right:    &NumberNode{Float64: 2},
				},
				Right: &NumberNode{Float64: 3},
			},
		},
	}

	for _, tc := range cases {
		test(tc)
	}
}

func TestParseComments(t *testing.T) {
	prog, err := Parse("# adds one\nadd.one <- function(x) x + 1")
	if err != nil {
		t.Fatal(err)
	}
	if len(prog.Nodes) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Nodes))
	}
	asgn, ok := prog.Nodes[0].(*AssignNode)
	if !ok {
		t.Fatalf("expected an assignment, got %T", prog.Nodes[0])
	}
	if asgn.Comment == nil {
		t.Fatal("expected the comment to attach to the statement")
	}
	if got, exp := asgn.Comment.CommentString(), "adds one"; got != exp {
		t.Errorf("unexpected comment: got %q exp %q", got, exp)
	}
}

func TestParseMultipleStatements(t *testing.T) {
	prog, err := Parse("x <- 1\ny <- 2; z <- 3\n\n\nw <- 4")
	if err != nil {
		t.Fatal(err)
	}
	if got, exp := len(prog.Nodes), 4; got != exp {
		t.Fatalf("unexpected statement count: got %d exp %d", got, exp)
	}
}
