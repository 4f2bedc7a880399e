package ast

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType int

type stateFn func(*lexer) stateFn

const eof = -1

const (
	TokenError TokenType = iota
	TokenEOF
	TokenNewline
	TokenSemicolon
	TokenComment
	TokenIdent
	TokenNumber
	TokenString
	TokenTrue
	TokenFalse
	TokenNull
	TokenFunction
	TokenIf
	TokenElse
	TokenAsgn
	TokenEq
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLSBracket
	TokenRSBracket
	TokenComma

	// begin operator tokens
	begin_tok_operator

	//begin mathematical operators
	begin_tok_operator_math

	TokenPlus
	TokenMinus
	TokenMult
	TokenDiv
	TokenPow
	TokenMod

	//end mathematical operators
	end_tok_operator_math

	// begin logical operators
	begin_tok_operator_logic

	TokenAnd
	TokenOr
	TokenAndAnd
	TokenOrOr

	// end logical operators
	end_tok_operator_logic

	// begin comparison operators
	begin_tok_operator_comp

	TokenEqual
	TokenNotEqual
	TokenLess
	TokenGreater
	TokenLessEqual
	TokenGreaterEqual

	//end comparison operators
	end_tok_operator_comp

	//end operator tokens
	end_tok_operator

	TokenNot
)

var operatorStr = [...]string{
	TokenNot:          "!",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenMult:         "*",
	TokenDiv:          "/",
	TokenPow:          "^",
	TokenMod:          "%%",
	TokenEqual:        "==",
	TokenNotEqual:     "!=",
	TokenLess:         "<",
	TokenGreater:      ">",
	TokenLessEqual:    "<=",
	TokenGreaterEqual: ">=",
	TokenAnd:          "&",
	TokenOr:           "|",
	TokenAndAnd:       "&&",
	TokenOrOr:         "||",
}

const (
	KW_Function = "function"
	KW_If       = "if"
	KW_Else     = "else"
	KW_True     = "TRUE"
	KW_False    = "FALSE"
	KW_Null     = "NULL"
)

var keywords = map[string]TokenType{
	KW_Function: TokenFunction,
	KW_If:       TokenIf,
	KW_Else:     TokenElse,
	KW_True:     TokenTrue,
	KW_False:    TokenFalse,
	KW_Null:     TokenNull,
}

//String representation of a TokenType
func (t TokenType) String() string {
	switch {
	case t == TokenError:
		return "ERR"
	case t == TokenEOF:
		return "EOF"
	case t == TokenNewline:
		return "newline"
	case t == TokenSemicolon:
		return ";"
	case t == TokenComment:
		return "#"
	case t == TokenIdent:
		return "identifier"
	case t == TokenNumber:
		return "number"
	case t == TokenString:
		return "string"
	case t == TokenTrue:
		return KW_True
	case t == TokenFalse:
		return KW_False
	case t == TokenNull:
		return KW_Null
	case t == TokenFunction:
		return KW_Function
	case t == TokenIf:
		return KW_If
	case t == TokenElse:
		return KW_Else
	case t == TokenAsgn:
		return "<-"
	case t == TokenEq:
		return "="
	case t == TokenLParen:
		return "("
	case t == TokenRParen:
		return ")"
	case t == TokenLBrace:
		return "{"
	case t == TokenRBrace:
		return "}"
	case t == TokenLSBracket:
		return "["
	case t == TokenRSBracket:
		return "]"
	case t == TokenComma:
		return ","
	case t == TokenNot:
		return "!"
	case IsExprOperator(t):
		return operatorStr[t]
	}
	return fmt.Sprintf("%d", t)
}

// True if token type is an operator used in mathematical or boolean expressions.
func IsExprOperator(typ TokenType) bool {
	return typ > begin_tok_operator && typ < end_tok_operator
}

// True if token type is an operator used in mathematical expressions.
func IsMathOperator(typ TokenType) bool {
	return typ > begin_tok_operator_math && typ < end_tok_operator_math
}

// True if token type is an operator used in comparisons.
func IsCompOperator(typ TokenType) bool {
	return typ > begin_tok_operator_comp && typ < end_tok_operator_comp
}

func IsLogicalOperator(typ TokenType) bool {
	return typ > begin_tok_operator_logic && typ < end_tok_operator_logic
}

// token represents a token or text string returned from the scanner.
type token struct {
	typ TokenType
	pos int
	val string
}

func (t token) String() string {
	return fmt.Sprintf("{%v pos: %d val: %s}", t.typ, t.pos, t.val)
}

// lexer holds the state of the scanner.
type lexer struct {
	input  string     // the string being scanned.
	start  int        // start position of this token.
	pos    int        // current position in the input.
	width  int        // width of last rune read from input.
	depth  int        // nesting depth of ( ) and [ ], newlines inside are not statement breaks.
	tokens chan token // channel of scanned tokens.
}

func lex(input string) *lexer {
	l := &lexer{
		input:  input,
		tokens: make(chan token),
	}

	go l.run()
	return l
}

// run lexes the input by executing state functions until
// the state is nil.
func (l *lexer) run() {
	for state := lexToken; state != nil; {
		state = state(l)
	}
	close(l.tokens)
}

// emit passes a token back to the client.
func (l *lexer) emit(t TokenType) {
	l.tokens <- token{t, l.start, l.current()}
	l.start = l.pos
}

// nextToken returns the next token from the input.
// The second value is false when there are no more tokens
func (l *lexer) nextToken() (token, bool) {
	tok, closed := <-l.tokens
	return tok, closed
}

// lineNumber reports which line number and start of line position of a given position is on in the input
func (l *lexer) lineNumber(pos int) (int, int) {
	line := 1 + strings.Count(l.input[:pos], "\n")
	i := strings.LastIndex(l.input[:pos], "\n")
	return line, pos - i
}

// next returns the next rune in the input.
func (l *lexer) next() (r rune) {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, l.width =
		utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	return
}

// errorf returns an error token and terminates the scan by passing
// back a nil pointer that will be the next state, terminating l.nextToken.
func (l *lexer) errorf(format string, args ...interface{}) stateFn {
	l.tokens <- token{TokenError, l.start, fmt.Sprintf(format, args...)}
	return nil
}

//Backup the lexer to the previous rune
func (l *lexer) backup() {
	l.pos -= l.width
}

// peek returns but does not consume the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// current returns the text of the pending token.
func (l *lexer) current() string {
	return l.input[l.start:l.pos]
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.start = l.pos
}

func lexToken(l *lexer) stateFn {
	for {
		switch r := l.next(); {
		case r == '#':
			l.backup()
			return lexComment
		case unicode.IsDigit(r):
			l.backup()
			return lexNumber
		case r == '.':
			if unicode.IsDigit(l.peek()) {
				l.backup()
				return lexNumber
			}
			l.backup()
			return lexIdentOrKeyword
		case unicode.IsLetter(r):
			l.backup()
			return lexIdentOrKeyword
		case r == '"', r == '\'':
			l.backup()
			return lexString
		case r == '\n':
			if l.depth > 0 {
				l.ignore()
			} else {
				l.emit(TokenNewline)
			}
		case isSpace(r):
			l.ignore()
		case r == '(':
			l.depth++
			l.emit(TokenLParen)
		case r == ')':
			l.depth--
			l.emit(TokenRParen)
		case r == '{':
			l.emit(TokenLBrace)
		case r == '}':
			l.emit(TokenRBrace)
		case r == '[':
			l.depth++
			l.emit(TokenLSBracket)
		case r == ']':
			l.depth--
			l.emit(TokenRSBracket)
		case r == ',':
			l.emit(TokenComma)
		case r == ';':
			l.emit(TokenSemicolon)
		case isOperatorChar(r):
			l.backup()
			return lexOperator
		case r == eof:
			l.emit(TokenEOF)
			return nil
		default:
			l.errorf("unknown state, last char: %q", r)
			return nil
		}
	}
}

const operatorChars = "+-*/^%<>=!&|"

func isOperatorChar(r rune) bool {
	return strings.IndexRune(operatorChars, r) != -1
}

func lexOperator(l *lexer) stateFn {
	switch r := l.next(); r {
	case '+':
		l.emit(TokenPlus)
	case '-':
		l.emit(TokenMinus)
	case '*':
		l.emit(TokenMult)
	case '/':
		l.emit(TokenDiv)
	case '^':
		l.emit(TokenPow)
	case '%':
		if l.next() != '%' {
			return l.errorf("expected %q", "%%")
		}
		l.emit(TokenMod)
	case '<':
		switch l.peek() {
		case '-':
			l.next()
			l.emit(TokenAsgn)
		case '=':
			l.next()
			l.emit(TokenLessEqual)
		default:
			l.emit(TokenLess)
		}
	case '>':
		if l.peek() == '=' {
			l.next()
			l.emit(TokenGreaterEqual)
		} else {
			l.emit(TokenGreater)
		}
	case '=':
		if l.peek() == '=' {
			l.next()
			l.emit(TokenEqual)
		} else {
			l.emit(TokenEq)
		}
	case '!':
		if l.peek() == '=' {
			l.next()
			l.emit(TokenNotEqual)
		} else {
			l.emit(TokenNot)
		}
	case '&':
		if l.peek() == '&' {
			l.next()
			l.emit(TokenAndAnd)
		} else {
			l.emit(TokenAnd)
		}
	case '|':
		if l.peek() == '|' {
			l.next()
			l.emit(TokenOrOr)
		} else {
			l.emit(TokenOr)
		}
	}
	return lexToken
}

func lexIdentOrKeyword(l *lexer) stateFn {
	for {
		switch r := l.next(); {
		case isValidIdent(r):
			//absorb
		default:
			l.backup()
			if t := keywords[l.current()]; t > 0 {
				l.emit(t)
			} else {
				l.emit(TokenIdent)
			}
			return lexToken
		}
	}
}

// isValidIdent reports whether r may appear in an identifier.
// Dots are names chars, so 'price.per.cup' and '...' are single identifiers.
func isValidIdent(r rune) bool {
	return unicode.IsDigit(r) || unicode.IsLetter(r) || r == '_' || r == '.'
}

// isSpace reports whether r is a space character other than newline.
func isSpace(r rune) bool {
	return r != '\n' && unicode.IsSpace(r)
}

func lexNumber(l *lexer) stateFn {
	foundDecimal := false
	for {
		switch r := l.next(); {
		case r == '.':
			if foundDecimal {
				return l.errorf("multiple decimals in number")
			}
			foundDecimal = true
		case unicode.IsDigit(r):
			//absorb
		case r == 'e' || r == 'E':
			if p := l.peek(); p == '+' || p == '-' {
				l.next()
			}
			if !unicode.IsDigit(l.peek()) {
				return l.errorf("missing exponent in number")
			}
		default:
			l.backup()
			l.emit(TokenNumber)
			return lexToken
		}
	}
}

func lexString(l *lexer) stateFn {
	quote := l.next()
	for {
		switch r := l.next(); r {
		case '\\':
			if p := l.peek(); p == quote || p == '\\' {
				l.next()
			}
		case quote:
			l.emit(TokenString)
			return lexToken
		case eof:
			return l.errorf("unterminated string")
		}
	}
}

func lexComment(l *lexer) stateFn {
	for {
		switch r := l.next(); {
		case r == '\n':
			l.backup()
			l.emit(TokenComment)
			return lexToken
		case r == eof:
			l.emit(TokenComment)
			return lexToken
		}
	}
}
