package ast

import (
	"fmt"
	"runtime"
	"strings"
)

// parser is the representation of a script mid-parse.
type parser struct {
	// the text being parsed
	text string

	lex *lexer
	// two-token lookahead for parser
	token     [2]token
	peekCount int

	// Current comment node.
	// Comments are parsed transparently via the normal next peek operations.
	comments [2]*CommentNode
}

// Parse returns a ProgramNode, created by parsing the script in the
// argument string. If an error is encountered, parsing stops and a nil node
// is returned with the error.
func Parse(text string) (*ProgramNode, error) {
	p := &parser{}
	n, err := p.parse(text)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ParseExpression parses a single expression, rejecting any trailing input.
func ParseExpression(text string) (Node, error) {
	p := &parser{}
	n, err := p.parseExpression(text)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// IsIncompleteErr reports whether a parse error is due to the input ending
// mid-construct, meaning more input could still complete the script.
// Interactive sessions use this to prompt for continuation lines.
func IsIncompleteErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unexpected EOF") ||
		strings.Contains(msg, "unterminated string")
}

func (p *parser) hasNewLine(start, end int) bool {
	return strings.IndexRune(p.text[start:end], '\n') != -1
}

// --------------------
// Parsing methods
//

func (p *parser) nextToken() (t token, comment *CommentNode) {
	// When reading next token create comment node if comment.
	t, _ = p.lex.nextToken()
	var comments []string
	pos := -1
	for t.typ == TokenComment || (t.typ == TokenNewline && len(comments) > 0) {
		if t.typ == TokenComment {
			if pos == -1 {
				pos = t.pos
			}
			comments = append(comments, t.val)
		}
		t, _ = p.lex.nextToken()
	}
	if len(comments) > 0 {
		comment = newComment(p.position(pos), comments)
	}
	return t, comment
}

// next returns the next token.
func (p *parser) next() token {
	if p.peekCount > 0 {
		p.peekCount--
	} else {
		p.token[0], p.comments[0] = p.nextToken()
	}
	return p.token[p.peekCount]
}

// backup backs the input stream up one token.
func (p *parser) backup() {
	p.peekCount++
}

// peek returns but does not consume the next token.
func (p *parser) peek() token {
	if p.peekCount > 0 {
		return p.token[p.peekCount-1]
	}
	p.peekCount = 1
	p.token[1], p.comments[1] = p.token[0], p.comments[0]
	p.token[0], p.comments[0] = p.nextToken()
	return p.token[0]
}

// Consume the current comment node
func (p *parser) consumeComment() *CommentNode {
	c := p.comments[p.peekCount]
	p.comments[p.peekCount] = nil
	return c
}

// skipNewlines consumes any run of newline or semicolon tokens.
func (p *parser) skipNewlines() {
	for {
		if t := p.peek().typ; t != TokenNewline && t != TokenSemicolon {
			return
		}
		p.next()
	}
}

// errorf formats the error and terminates processing.
func (p *parser) errorf(format string, args ...interface{}) {
	format = fmt.Sprintf("parser: %s", format)
	panic(fmt.Errorf(format, args...))
}

// error terminates processing.
func (p *parser) error(err error) {
	p.errorf("%s", err)
}

// expect consumes the next token and guarantees it has the required type.
func (p *parser) expect(expected TokenType) token {
	token := p.next()
	if token.typ != expected {
		p.unexpected(token, expected)
	}
	return token
}

// unexpected complains about the token and terminates processing.
func (p *parser) unexpected(tok token, expected ...TokenType) {
	const bufSize = 10
	start := tok.pos - bufSize
	if start < 0 {
		start = 0
	}
	// Skip any new lines just show a single line
	if i := strings.LastIndexByte(p.text[start:tok.pos], '\n'); i != -1 {
		start = start + i + 1
	}
	stop := tok.pos + bufSize
	if stop > len(p.text) {
		stop = len(p.text)
	}
	// Skip any new lines just show a single line
	if i := strings.IndexByte(p.text[tok.pos:stop], '\n'); i != -1 {
		stop = tok.pos + i
	}
	line, char := p.lex.lineNumber(tok.pos)
	expectedStrs := make([]string, len(expected))
	for i := range expected {
		expectedStrs[i] = fmt.Sprintf("%q", expected[i])
	}
	expectedStr := strings.Join(expectedStrs, ",")
	tokStr := tok.typ.String()
	if tok.typ == TokenError {
		tokStr = tok.val
	}
	p.errorf("unexpected %s line %d char %d in \"%s\". expected: %s", tokStr, line, char, p.text[start:stop], expectedStr)
}

func (p *parser) position(pos int) position {
	line, char := p.lex.lineNumber(pos)
	return position{
		pos:  pos,
		line: line,
		char: char,
	}
}

// recover is the handler that turns panics into returns from the top level of Parse.
func (p *parser) recover(errp *error) {
	e := recover()
	if e != nil {
		if _, ok := e.(runtime.Error); ok {
			panic(e)
		}
		if p != nil {
			p.stopParse()
		}
		*errp = e.(error)
	}
}

// stopParse terminates parsing.
func (p *parser) stopParse() {
	p.lex = nil
}

// parse parses the script string to construct a representation
// of the program for execution.
func (p *parser) parse(text string) (n *ProgramNode, err error) {
	defer p.recover(&err)
	p.lex = lex(text)
	p.text = text

	n = p.program()
	p.expect(TokenEOF)

	p.stopParse()
	return
}

// parseExpression parses exactly one expression.
func (p *parser) parseExpression(text string) (n Node, err error) {
	defer p.recover(&err)
	p.lex = lex(text)
	p.text = text

	p.skipNewlines()
	n = p.expression()
	p.skipNewlines()
	p.expect(TokenEOF)

	p.stopParse()
	return
}

//parse a complete program
func (p *parser) program() *ProgramNode {
	l := newProgram(p.position(0))
	var s Node
	for {
		p.skipNewlines()
		switch p.peek().typ {
		case TokenEOF:
			if c := p.comments[1]; c != nil {
				l.Add(c)
				p.comments[1] = nil
			}
			if c := p.comments[0]; c != nil {
				l.Add(c)
				p.comments[0] = nil
			}
			return l
		default:
			s = p.statement()
			l.Add(s)
		}
	}
}

//parse a statement
func (p *parser) statement() Node {
	if p.peek().typ == TokenIf {
		return p.ifStatement()
	}
	expr := p.expression()
	if t := p.peek().typ; t == TokenAsgn || t == TokenEq {
		p.next()
		c := p.consumeComment()
		lhs, ok := expr.(*IdentifierNode)
		if !ok {
			p.errorf("invalid assignment target line %d char %d, expected a name", expr.Line(), expr.Char())
		}
		// A comment above the statement lands on the name; hoist it so the
		// whole assignment formats below it.
		if c == nil {
			c = lhs.Comment
			lhs.Comment = nil
		}
		p.skipAfterOperator()
		rhs := p.expression()
		return newAssign(p.position(lhs.Position()), lhs, rhs, c)
	}
	return expr
}

//parse a conditional statement
func (p *parser) ifStatement() Node {
	ifTok := p.expect(TokenIf)
	c := p.consumeComment()
	p.expect(TokenLParen)
	cond := p.expression()
	p.expect(TokenRParen)
	p.skipNewlines()
	then := p.branch()
	var els Node
	// An else may sit on the line after the closing brace.
	p.skipNewlines()
	if p.peek().typ == TokenElse {
		p.next()
		p.skipNewlines()
		if p.peek().typ == TokenIf {
			els = p.ifStatement()
		} else {
			els = p.branch()
		}
	}
	return newIf(p.position(ifTok.pos), cond, then, els, c)
}

// branch parses one arm of a conditional: a block, or a single
// statement wrapped in a synthetic block.
func (p *parser) branch() *BlockNode {
	if p.peek().typ == TokenLBrace {
		return p.block()
	}
	b := newBlock(p.position(p.peek().pos), nil)
	b.Add(p.statement())
	return b
}

//parse a block of statements
func (p *parser) block() *BlockNode {
	t := p.expect(TokenLBrace)
	b := newBlock(p.position(t.pos), p.consumeComment())
	for {
		p.skipNewlines()
		if p.peek().typ == TokenRBrace {
			p.next()
			return b
		}
		b.Add(p.statement())
	}
}

//parse an expression
func (p *parser) expression() Node {
	return p.precedence(p.primary(), 0)
}

// Operator Precedence parsing
var precedence = [...]int{
	TokenOrOr:         0,
	TokenOr:           0,
	TokenAndAnd:       1,
	TokenAnd:          1,
	TokenEqual:        2,
	TokenNotEqual:     2,
	TokenGreater:      3,
	TokenGreaterEqual: 3,
	TokenLess:         3,
	TokenLessEqual:    3,
	TokenPlus:         4,
	TokenMinus:        4,
	TokenMult:         5,
	TokenDiv:          5,
	TokenMod:          6,
	TokenPow:          7,
}

// parse the expression considering operator precedence.
// https://en.wikipedia.org/wiki/Operator-precedence_parser#Pseudo-code
func (p *parser) precedence(lhs Node, minP int) Node {
	look := p.peek()
	for IsExprOperator(look.typ) && precedence[look.typ] >= minP {
		op := p.next()
		c := p.consumeComment()
		p.skipAfterOperator()
		rhs := p.primary()
		look = p.peek()
		// left-associative, except exponentiation which groups to the right
		for IsExprOperator(look.typ) &&
			(precedence[look.typ] > precedence[op.typ] ||
				(look.typ == TokenPow && op.typ == TokenPow)) {
			rhs = p.precedence(rhs, precedence[look.typ])
			look = p.peek()
		}

		multiLine := p.hasNewLine(lhs.Position(), rhs.Position())
		lhs = newBinary(p.position(op.pos), op.typ, lhs, rhs, multiLine, c)
	}
	return lhs
}

// skipAfterOperator consumes newlines after a binary operator or an
// assignment arrow, where the expression must continue on the next line.
func (p *parser) skipAfterOperator() {
	for p.peek().typ == TokenNewline {
		p.next()
	}
}

func (p *parser) primary() Node {
	n := p.operand()
	// subscripts bind tighter than any operator
	for p.peek().typ == TokenLSBracket {
		t := p.next()
		c := p.consumeComment()
		index := p.expression()
		p.expect(TokenRSBracket)
		n = newIndex(p.position(t.pos), n, index, c)
	}
	return n
}

func (p *parser) operand() Node {
	switch tok := p.peek(); tok.typ {
	case TokenLParen:
		p.next()
		c := p.consumeComment()
		n := p.expression()
		if b, ok := n.(*BinaryNode); ok {
			b.Parens = true
		}
		if commented, ok := n.(commentedNode); ok && c != nil {
			commented.SetComment(c)
		}
		p.expect(TokenRParen)
		return n
	case TokenNumber:
		return p.number()
	case TokenString:
		return p.string()
	case TokenTrue, TokenFalse:
		return p.boolean()
	case TokenNull:
		t := p.next()
		return newNull(p.position(t.pos), p.consumeComment())
	case TokenFunction:
		return p.functionDef()
	case TokenIdent:
		p.next()
		if p.peek().typ == TokenLParen {
			p.backup()
			return p.call()
		}
		p.backup()
		return p.identifier()
	case TokenMinus, TokenNot:
		p.next()
		c := p.consumeComment()
		operand := p.primary()
		// exponentiation binds tighter than unary minus, so -x^2 is -(x^2)
		if p.peek().typ == TokenPow {
			operand = p.precedence(operand, precedence[TokenPow])
		}
		return newUnary(p.position(tok.pos), tok.typ, operand, c)
	default:
		p.unexpected(
			tok,
			TokenNumber,
			TokenString,
			TokenIdent,
			TokenFunction,
			TokenTrue,
			TokenFalse,
			TokenNull,
			TokenLParen,
			TokenMinus,
			TokenNot,
		)
		return nil
	}
}

//parse an identifier
func (p *parser) identifier() *IdentifierNode {
	ident := p.expect(TokenIdent)
	n := newIdent(p.position(ident.pos), ident.val, p.consumeComment())
	return n
}

//parse a function call
func (p *parser) call() Node {
	ident := p.expect(TokenIdent)
	c := p.consumeComment()
	p.expect(TokenLParen)
	args := p.arguments()
	p.expect(TokenRParen)
	multiLine := false
	if l := len(args); l > 0 {
		multiLine = p.hasNewLine(ident.pos, args[l-1].Position())
	}
	return newCall(p.position(ident.pos), ident.val, args, multiLine, c)
}

//parse a call argument list
func (p *parser) arguments() (args []*ArgNode) {
	for {
		if p.peek().typ == TokenRParen {
			return
		}
		args = append(args, p.argument())
		if p.next().typ != TokenComma {
			p.backup()
			return
		}
	}
}

// argument parses a single call argument, positional or named.
func (p *parser) argument() *ArgNode {
	if t := p.peek(); t.typ == TokenIdent {
		p.next()
		if p.peek().typ == TokenEq {
			p.next()
			value := p.expression()
			return newArg(p.position(t.pos), t.val, value)
		}
		p.backup()
	}
	value := p.expression()
	return newArg(p.position(value.Position()), "", value)
}

//parse a function literal
func (p *parser) functionDef() Node {
	fn := p.expect(TokenFunction)
	c := p.consumeComment()
	p.expect(TokenLParen)
	params := p.parameters()
	p.expect(TokenRParen)
	p.skipNewlines()
	var body Node
	if p.peek().typ == TokenLBrace {
		body = p.block()
	} else {
		body = p.expression()
	}
	return newFunctionDef(p.position(fn.pos), params, body, c)
}

//parse a declared parameter list
func (p *parser) parameters() (params []*ParamNode) {
	for {
		if p.peek().typ == TokenRParen {
			return
		}
		params = append(params, p.parameter())
		if p.next().typ != TokenComma {
			p.backup()
			return
		}
	}
}

func (p *parser) parameter() *ParamNode {
	ident := p.expect(TokenIdent)
	var def Node
	if p.peek().typ == TokenEq {
		if ident.val == DotsName {
			p.errorf("parameter %s cannot have a default line %d", DotsName, p.position(ident.pos).Line())
		}
		p.next()
		def = p.expression()
	}
	return newParam(p.position(ident.pos), ident.val, def)
}

//parse a number literal
func (p *parser) number() Node {
	token := p.expect(TokenNumber)
	num, err := newNumber(p.position(token.pos), token.val, p.consumeComment())
	if err != nil {
		p.error(err)
	}
	return num
}

//parse a string literal
func (p *parser) string() Node {
	token := p.expect(TokenString)
	s := newString(p.position(token.pos), token.val, p.consumeComment())
	return s
}

func (p *parser) boolean() Node {
	n := p.next()
	b, err := newBool(p.position(n.pos), n.val, p.consumeComment())
	if err != nil {
		p.error(err)
	}
	return b
}
