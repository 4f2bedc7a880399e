package ast

import (
	"testing"
)

func TestLexer(t *testing.T) {

	type testCase struct {
		in     string
		tokens []token
	}

	test := func(tc testCase) {
		l := lex(tc.in)
		i := 0
		var tok token
		var ok bool
		for tok, ok = l.nextToken(); ok; tok, ok = l.nextToken() {
			if i >= len(tc.tokens) {
				t.Fatalf("unexpected extra token %v", tok)
			}
			if tok != tc.tokens[i] {
				t.Errorf("unexpected token: got %v exp %v i: %d in %s", tok, tc.tokens[i], i, tc.in)
			}
			i++
		}

		if i != len(tc.tokens) {
			t.Error("missing tokens", tc.tokens[i:])
		}
	}

	cases := []testCase{
		//Symbols + Operators
		{
			in: "!",
			tokens: []token{
				token{TokenNot, 0, "!"},
				token{TokenEOF, 1, ""},
			},
		},
		{
			in: "a + b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenPlus, 2, "+"},
				token{TokenIdent, 4, "b"},
				token{TokenEOF, 5, ""},
			},
		},
		{
			in: "a - b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenMinus, 2, "-"},
				token{TokenIdent, 4, "b"},
				token{TokenEOF, 5, ""},
			},
		},
		{
			in: "a * b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenMult, 2, "*"},
				token{TokenIdent, 4, "b"},
				token{TokenEOF, 5, ""},
			},
		},
		{
			in: "a / b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenDiv, 2, "/"},
				token{TokenIdent, 4, "b"},
				token{TokenEOF, 5, ""},
			},
		},
		{
			in: "a ^ b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenPow, 2, "^"},
				token{TokenIdent, 4, "b"},
				token{TokenEOF, 5, ""},
			},
		},
		{
			in: "a %% b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenMod, 2, "%%"},
				token{TokenIdent, 5, "b"},
				token{TokenEOF, 6, ""},
			},
		},
		{
			in: "x <- 3",
			tokens: []token{
				token{TokenIdent, 0, "x"},
				token{TokenAsgn, 2, "<-"},
				token{TokenNumber, 5, "3"},
				token{TokenEOF, 6, ""},
			},
		},
		{
			in: "a = b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenEq, 2, "="},
				token{TokenIdent, 4, "b"},
				token{TokenEOF, 5, ""},
			},
		},
		{
			in: "a == b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenEqual, 2, "=="},
				token{TokenIdent, 5, "b"},
				token{TokenEOF, 6, ""},
			},
		},
		{
			in: "a != b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenNotEqual, 2, "!="},
				token{TokenIdent, 5, "b"},
				token{TokenEOF, 6, ""},
			},
		},
		{
			in: "a < b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenLess, 2, "<"},
				token{TokenIdent, 4, "b"},
				token{TokenEOF, 5, ""},
			},
		},
		{
			in: "a <= b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenLessEqual, 2, "<="},
				token{TokenIdent, 5, "b"},
				token{TokenEOF, 6, ""},
			},
		},
		{
			in: "a > b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenGreater, 2, ">"},
				token{TokenIdent, 4, "b"},
				token{TokenEOF, 5, ""},
			},
		},
		{
			in: "a >= b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenGreaterEqual, 2, ">="},
				token{TokenIdent, 5, "b"},
				token{TokenEOF, 6, ""},
			},
		},
		{
			in: "a & b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenAnd, 2, "&"},
				token{TokenIdent, 4, "b"},
				token{TokenEOF, 5, ""},
			},
		},
		{
			in: "a && b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenAndAnd, 2, "&&"},
				token{TokenIdent, 5, "b"},
				token{TokenEOF, 6, ""},
			},
		},
		{
			in: "a | b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenOr, 2, "|"},
				token{TokenIdent, 4, "b"},
				token{TokenEOF, 5, ""},
			},
		},
		{
			in: "a || b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenOrOr, 2, "||"},
				token{TokenIdent, 5, "b"},
				token{TokenEOF, 6, ""},
			},
		},
		{
			in: ";",
			tokens: []token{
				token{TokenSemicolon, 0, ";"},
				token{TokenEOF, 1, ""},
			},
		},
		//Identifiers, dots are name characters
		{
			in: "price.per.cup",
			tokens: []token{
				token{TokenIdent, 0, "price.per.cup"},
				token{TokenEOF, 13, ""},
			},
		},
		{
			in: "...",
			tokens: []token{
				token{TokenIdent, 0, "..."},
				token{TokenEOF, 3, ""},
			},
		},
		{
			in: "my_var",
			tokens: []token{
				token{TokenIdent, 0, "my_var"},
				token{TokenEOF, 6, ""},
			},
		},
		//Keywords
		{
			in: "TRUE FALSE NULL",
			tokens: []token{
				token{TokenTrue, 0, "TRUE"},
				token{TokenFalse, 5, "FALSE"},
				token{TokenNull, 11, "NULL"},
				token{TokenEOF, 15, ""},
			},
		},
		{
			in: "function(x) x",
			tokens: []token{
				token{TokenFunction, 0, "function"},
				token{TokenLParen, 8, "("},
				token{TokenIdent, 9, "x"},
				token{TokenRParen, 10, ")"},
				token{TokenIdent, 12, "x"},
				token{TokenEOF, 13, ""},
			},
		},
		{
			in: "if (x) y else z",
			tokens: []token{
				token{TokenIf, 0, "if"},
				token{TokenLParen, 3, "("},
				token{TokenIdent, 4, "x"},
				token{TokenRParen, 5, ")"},
				token{TokenIdent, 7, "y"},
				token{TokenElse, 9, "else"},
				token{TokenIdent, 14, "z"},
				token{TokenEOF, 15, ""},
			},
		},
		//Numbers
		{
			in: "42",
			tokens: []token{
				token{TokenNumber, 0, "42"},
				token{TokenEOF, 2, ""},
			},
		},
		{
			in: "3.14",
			tokens: []token{
				token{TokenNumber, 0, "3.14"},
				token{TokenEOF, 4, ""},
			},
		},
		{
			in: "1.5e3",
			tokens: []token{
				token{TokenNumber, 0, "1.5e3"},
				token{TokenEOF, 5, ""},
			},
		},
		{
			in: "1e-2",
			tokens: []token{
				token{TokenNumber, 0, "1e-2"},
				token{TokenEOF, 4, ""},
			},
		},
		{
			in: ".5",
			tokens: []token{
				token{TokenNumber, 0, ".5"},
				token{TokenEOF, 2, ""},
			},
		},
		//Strings
		{
			in: `"hi"`,
			tokens: []token{
				token{TokenString, 0, `"hi"`},
				token{TokenEOF, 4, ""},
			},
		},
		{
			in: `'hi'`,
			tokens: []token{
				token{TokenString, 0, `'hi'`},
				token{TokenEOF, 4, ""},
			},
		},
		{
			in: `"say \"hi\""`,
			tokens: []token{
				token{TokenString, 0, `"say \"hi\""`},
				token{TokenEOF, 12, ""},
			},
		},
		{
			in: `"unterminated`,
			tokens: []token{
				token{TokenError, 0, "unterminated string"},
			},
		},
		//Newlines are statement breaks outside parens only
		{
			in: "a\nb",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenNewline, 1, "\n"},
				token{TokenIdent, 2, "b"},
				token{TokenEOF, 3, ""},
			},
		},
		{
			in: "f(x,\n  y)",
			tokens: []token{
				token{TokenIdent, 0, "f"},
				token{TokenLParen, 1, "("},
				token{TokenIdent, 2, "x"},
				token{TokenComma, 3, ","},
				token{TokenIdent, 7, "y"},
				token{TokenRParen, 8, ")"},
				token{TokenEOF, 9, ""},
			},
		},
		{
			in: "x[2]",
			tokens: []token{
				token{TokenIdent, 0, "x"},
				token{TokenLSBracket, 1, "["},
				token{TokenNumber, 2, "2"},
				token{TokenRSBracket, 3, "]"},
				token{TokenEOF, 4, ""},
			},
		},
		//Comments
		{
			in: "# note\nx",
			tokens: []token{
				token{TokenComment, 0, "# note"},
				token{TokenNewline, 6, "\n"},
				token{TokenIdent, 7, "x"},
				token{TokenEOF, 8, ""},
			},
		},
		//Errors
		{
			in: "a @ b",
			tokens: []token{
				token{TokenIdent, 0, "a"},
				token{TokenError, 2, `unknown state, last char: '@'`},
			},
		},
	}

	for _, tc := range cases {
		test(tc)
	}
}
