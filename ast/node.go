package ast

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Indent string for formatted scripts
const indentStep = "  "

type Position interface {
	Position() int // byte position of start of node in full original input string
	Line() int
	Char() int
}

type Node interface {
	Position
	String() string
	Format(buf *bytes.Buffer, indent string, onNewLine bool)
	// Report whether two nodes are functionally equal, ignoring position and comments
	Equal(interface{}) bool
}

func Format(n Node) string {
	var buf bytes.Buffer
	n.Format(&buf, "", false)
	return buf.String()
}

// Represents a node that can have a comment associated with it.
type commentedNode interface {
	SetComment(c *CommentNode)
}

func writeIndent(buf *bytes.Buffer, indent string, onNewLine bool) {
	if onNewLine {
		buf.WriteString(indent)
	}
}

type position struct {
	pos  int
	line int
	char int
}

func (p position) Position() int {
	return p.pos
}
func (p position) Line() int {
	return p.line
}
func (p position) Char() int {
	return p.char
}
func (p position) String() string {
	return fmt.Sprintf("%dl%dc%d", p.pos, p.line, p.char)
}

// NumberNode holds a numeric literal.
// All numbers are doubles, matching the language's numeric vectors.
type NumberNode struct {
	position
	Float64 float64
	Literal string
	Comment *CommentNode
}

// create a new number from a text string
func newNumber(p position, text string, c *CommentNode) (*NumberNode, error) {
	if text == "" {
		return nil, errors.New("invalid number literal, empty string")
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("illegal number syntax: %q", text)
	}
	if f < 0 {
		return nil, errors.New("parser should not allow for negative number nodes")
	}
	return &NumberNode{
		position: p,
		Float64:  f,
		Literal:  text,
		Comment:  c,
	}, nil
}

func (n *NumberNode) String() string {
	return fmt.Sprintf("NumberNode@%v{%v}%v", n.position, n.Float64, n.Comment)
}

func (n *NumberNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	if n.Comment != nil {
		n.Comment.Format(buf, indent, onNewLine)
		onNewLine = true
	}
	writeIndent(buf, indent, onNewLine)
	if n.Literal != "" {
		buf.WriteString(n.Literal)
	} else {
		buf.WriteString(strconv.FormatFloat(n.Float64, 'g', -1, 64))
	}
}
func (n *NumberNode) SetComment(c *CommentNode) {
	n.Comment = c
}

func (n *NumberNode) Equal(o interface{}) bool {
	if on, ok := o.(*NumberNode); ok {
		return n.Float64 == on.Float64
	}
	return false
}

// StringNode holds a string literal, unquoted and unescaped.
type StringNode struct {
	position
	Literal string
	Comment *CommentNode
}

func newString(p position, txt string, c *CommentNode) *StringNode {
	// Remove the quotes and process escapes
	quote := txt[0]
	literal := txt[1 : len(txt)-1]
	if strings.IndexByte(literal, '\\') != -1 {
		var b strings.Builder
		for i := 0; i < len(literal); i++ {
			if literal[i] == '\\' && i+1 < len(literal) {
				switch next := literal[i+1]; next {
				case quote, '\\':
					i++
					b.WriteByte(next)
					continue
				case 'n':
					i++
					b.WriteByte('\n')
					continue
				case 't':
					i++
					b.WriteByte('\t')
					continue
				}
			}
			b.WriteByte(literal[i])
		}
		literal = b.String()
	}
	return &StringNode{
		position: p,
		Literal:  literal,
		Comment:  c,
	}
}

func (n *StringNode) String() string {
	return fmt.Sprintf("StringNode@%v{%s}%v", n.position, n.Literal, n.Comment)
}

func (n *StringNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	if n.Comment != nil {
		n.Comment.Format(buf, indent, onNewLine)
		onNewLine = true
	}
	writeIndent(buf, indent, onNewLine)
	buf.WriteByte('"')
	buf.WriteString(strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`).Replace(n.Literal))
	buf.WriteByte('"')
}
func (n *StringNode) SetComment(c *CommentNode) {
	n.Comment = c
}
func (n *StringNode) Equal(o interface{}) bool {
	if on, ok := o.(*StringNode); ok {
		return n.Literal == on.Literal
	}
	return false
}

// BoolNode holds a logical literal.
type BoolNode struct {
	position
	Bool    bool
	Comment *CommentNode
}

func newBool(p position, text string, c *CommentNode) (*BoolNode, error) {
	var b bool
	switch text {
	case KW_True:
		b = true
	case KW_False:
		b = false
	default:
		return nil, fmt.Errorf("invalid logical literal %q", text)
	}
	return &BoolNode{
		position: p,
		Bool:     b,
		Comment:  c,
	}, nil
}

func (n *BoolNode) String() string {
	return fmt.Sprintf("BoolNode@%v{%v}%v", n.position, n.Bool, n.Comment)
}

func (n *BoolNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	if n.Comment != nil {
		n.Comment.Format(buf, indent, onNewLine)
		onNewLine = true
	}
	writeIndent(buf, indent, onNewLine)
	if n.Bool {
		buf.WriteString(KW_True)
	} else {
		buf.WriteString(KW_False)
	}
}
func (n *BoolNode) SetComment(c *CommentNode) {
	n.Comment = c
}
func (n *BoolNode) Equal(o interface{}) bool {
	if on, ok := o.(*BoolNode); ok {
		return n.Bool == on.Bool
	}
	return false
}

// NullNode holds the NULL literal.
type NullNode struct {
	position
	Comment *CommentNode
}

func newNull(p position, c *CommentNode) *NullNode {
	return &NullNode{
		position: p,
		Comment:  c,
	}
}

func (n *NullNode) String() string {
	return fmt.Sprintf("NullNode@%v{}%v", n.position, n.Comment)
}

func (n *NullNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	if n.Comment != nil {
		n.Comment.Format(buf, indent, onNewLine)
		onNewLine = true
	}
	writeIndent(buf, indent, onNewLine)
	buf.WriteString(KW_Null)
}
func (n *NullNode) SetComment(c *CommentNode) {
	n.Comment = c
}
func (n *NullNode) Equal(o interface{}) bool {
	_, ok := o.(*NullNode)
	return ok
}

// IdentifierNode holds a bare name, including the dots name '...'.
type IdentifierNode struct {
	position
	Ident   string
	Comment *CommentNode
}

func newIdent(p position, ident string, c *CommentNode) *IdentifierNode {
	return &IdentifierNode{
		position: p,
		Ident:    ident,
		Comment:  c,
	}
}

// IsDots reports whether the identifier is the variadic dots name.
func (n *IdentifierNode) IsDots() bool {
	return n.Ident == DotsName
}

func (n *IdentifierNode) String() string {
	return fmt.Sprintf("IdentifierNode@%v{%s}%v", n.position, n.Ident, n.Comment)
}

func (n *IdentifierNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	if n.Comment != nil {
		n.Comment.Format(buf, indent, onNewLine)
		onNewLine = true
	}
	writeIndent(buf, indent, onNewLine)
	buf.WriteString(n.Ident)
}
func (n *IdentifierNode) SetComment(c *CommentNode) {
	n.Comment = c
}
func (n *IdentifierNode) Equal(o interface{}) bool {
	if on, ok := o.(*IdentifierNode); ok {
		return n.Ident == on.Ident
	}
	return false
}

// DotsName is the name of the variadic capture parameter.
const DotsName = "..."

// UnaryNode holds one operand and an operator.
type UnaryNode struct {
	position
	Node     Node
	Operator TokenType
	Comment  *CommentNode
}

func newUnary(p position, op TokenType, n Node, c *CommentNode) *UnaryNode {
	return &UnaryNode{
		position: p,
		Node:     n,
		Operator: op,
		Comment:  c,
	}
}

func (n *UnaryNode) String() string {
	return fmt.Sprintf("UnaryNode@%v{%s %s}%v", n.position, n.Operator, n.Node, n.Comment)
}

func (n *UnaryNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	if n.Comment != nil {
		n.Comment.Format(buf, indent, onNewLine)
		onNewLine = true
	}
	writeIndent(buf, indent, onNewLine)
	buf.WriteString(n.Operator.String())
	n.Node.Format(buf, indent, false)
}
func (n *UnaryNode) SetComment(c *CommentNode) {
	n.Comment = c
}
func (n *UnaryNode) Equal(o interface{}) bool {
	if on, ok := o.(*UnaryNode); ok {
		return n.Operator == on.Operator && n.Node.Equal(on.Node)
	}
	return false
}

// BinaryNode holds two operands and an operator.
type BinaryNode struct {
	position
	Left      Node
	Right     Node
	Operator  TokenType
	Comment   *CommentNode
	Parens    bool
	MultiLine bool
}

func newBinary(p position, op TokenType, left, right Node, multiLine bool, c *CommentNode) *BinaryNode {
	return &BinaryNode{
		position:  p,
		Left:      left,
		Right:     right,
		Operator:  op,
		MultiLine: multiLine,
		Comment:   c,
	}
}

func (n *BinaryNode) String() string {
	return fmt.Sprintf("BinaryNode@%v{p:%v %v %v %v}%v", n.position, n.Parens, n.Left, n.Operator, n.Right, n.Comment)
}

func (n *BinaryNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	if n.Comment != nil {
		n.Comment.Format(buf, indent, onNewLine)
		onNewLine = true
	}
	writeIndent(buf, indent, onNewLine)
	if n.Parens {
		buf.WriteByte('(')
	}
	n.Left.Format(buf, indent, false)
	buf.WriteByte(' ')
	buf.WriteString(n.Operator.String())
	if n.MultiLine {
		buf.WriteByte('\n')
		n.Right.Format(buf, indent+indentStep, true)
	} else {
		buf.WriteByte(' ')
		n.Right.Format(buf, indent, false)
	}
	if n.Parens {
		buf.WriteByte(')')
	}
}
func (n *BinaryNode) SetComment(c *CommentNode) {
	n.Comment = c
}
func (n *BinaryNode) Equal(o interface{}) bool {
	if on, ok := o.(*BinaryNode); ok {
		return n.Operator == on.Operator &&
			n.Left.Equal(on.Left) &&
			n.Right.Equal(on.Right)
	}
	return false
}

// IndexNode holds a vector subscript expression x[i].
type IndexNode struct {
	position
	Target  Node
	Index   Node
	Comment *CommentNode
}

func newIndex(p position, target, index Node, c *CommentNode) *IndexNode {
	return &IndexNode{
		position: p,
		Target:   target,
		Index:    index,
		Comment:  c,
	}
}

func (n *IndexNode) String() string {
	return fmt.Sprintf("IndexNode@%v{%v[%v]}%v", n.position, n.Target, n.Index, n.Comment)
}

func (n *IndexNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	if n.Comment != nil {
		n.Comment.Format(buf, indent, onNewLine)
		onNewLine = true
	}
	writeIndent(buf, indent, onNewLine)
	n.Target.Format(buf, indent, false)
	buf.WriteByte('[')
	n.Index.Format(buf, indent, false)
	buf.WriteByte(']')
}
func (n *IndexNode) SetComment(c *CommentNode) {
	n.Comment = c
}
func (n *IndexNode) Equal(o interface{}) bool {
	if on, ok := o.(*IndexNode); ok {
		return n.Target.Equal(on.Target) && n.Index.Equal(on.Index)
	}
	return false
}

// ArgNode holds a single call argument, optionally named.
type ArgNode struct {
	position
	Name  string // empty for positional arguments
	Value Node
}

func newArg(p position, name string, value Node) *ArgNode {
	return &ArgNode{
		position: p,
		Name:     name,
		Value:    value,
	}
}

func (n *ArgNode) String() string {
	return fmt.Sprintf("ArgNode@%v{%s %v}", n.position, n.Name, n.Value)
}

func (n *ArgNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	writeIndent(buf, indent, onNewLine)
	if n.Name != "" {
		buf.WriteString(n.Name)
		buf.WriteString(" = ")
	}
	n.Value.Format(buf, indent, false)
}
func (n *ArgNode) Equal(o interface{}) bool {
	if on, ok := o.(*ArgNode); ok {
		return n.Name == on.Name && n.Value.Equal(on.Value)
	}
	return false
}

// CallNode holds a function call with its arguments.
type CallNode struct {
	position
	Func      string
	Args      []*ArgNode
	Comment   *CommentNode
	MultiLine bool
}

func newCall(p position, ident string, args []*ArgNode, multi bool, c *CommentNode) *CallNode {
	return &CallNode{
		position:  p,
		Func:      ident,
		Args:      args,
		Comment:   c,
		MultiLine: multi,
	}
}

func (n *CallNode) String() string {
	return fmt.Sprintf("CallNode@%v{%s %v}%v", n.position, n.Func, n.Args, n.Comment)
}

func (n *CallNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	if n.Comment != nil {
		n.Comment.Format(buf, indent, onNewLine)
		onNewLine = true
	}
	writeIndent(buf, indent, onNewLine)
	buf.WriteString(n.Func)
	buf.WriteByte('(')
	argIndent := indent + indentStep
	for i, arg := range n.Args {
		if i != 0 {
			buf.WriteByte(',')
			if !n.MultiLine {
				buf.WriteByte(' ')
			}
		}
		if n.MultiLine {
			buf.WriteByte('\n')
		}
		arg.Format(buf, argIndent, n.MultiLine)
	}
	if n.MultiLine && len(n.Args) > 0 {
		buf.WriteByte('\n')
		buf.WriteString(indent)
	}
	buf.WriteByte(')')
}
func (n *CallNode) SetComment(c *CommentNode) {
	n.Comment = c
}
func (n *CallNode) Equal(o interface{}) bool {
	if on, ok := o.(*CallNode); ok {
		if n.Func != on.Func || len(n.Args) != len(on.Args) {
			return false
		}
		for i := range n.Args {
			if !n.Args[i].Equal(on.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// ParamNode holds a single declared parameter with its optional default.
type ParamNode struct {
	position
	Name    string
	Default Node // nil when the parameter has no default
}

func newParam(p position, name string, def Node) *ParamNode {
	return &ParamNode{
		position: p,
		Name:     name,
		Default:  def,
	}
}

// IsDots reports whether the parameter is the variadic capture.
func (n *ParamNode) IsDots() bool {
	return n.Name == DotsName
}

func (n *ParamNode) String() string {
	return fmt.Sprintf("ParamNode@%v{%s %v}", n.position, n.Name, n.Default)
}

func (n *ParamNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	writeIndent(buf, indent, onNewLine)
	buf.WriteString(n.Name)
	if n.Default != nil {
		buf.WriteString(" = ")
		n.Default.Format(buf, indent, false)
	}
}
func (n *ParamNode) Equal(o interface{}) bool {
	if on, ok := o.(*ParamNode); ok {
		if n.Name != on.Name {
			return false
		}
		if (n.Default == nil) != (on.Default == nil) {
			return false
		}
		return n.Default == nil || n.Default.Equal(on.Default)
	}
	return false
}

// FunctionDefNode holds a function literal: its parameter list and body.
type FunctionDefNode struct {
	position
	Params  []*ParamNode
	Body    Node
	Comment *CommentNode
}

func newFunctionDef(p position, params []*ParamNode, body Node, c *CommentNode) *FunctionDefNode {
	return &FunctionDefNode{
		position: p,
		Params:   params,
		Body:     body,
		Comment:  c,
	}
}

func (n *FunctionDefNode) String() string {
	return fmt.Sprintf("FunctionDefNode@%v{%v %v}%v", n.position, n.Params, n.Body, n.Comment)
}

func (n *FunctionDefNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	if n.Comment != nil {
		n.Comment.Format(buf, indent, onNewLine)
		onNewLine = true
	}
	writeIndent(buf, indent, onNewLine)
	buf.WriteString(KW_Function)
	buf.WriteByte('(')
	for i, param := range n.Params {
		if i != 0 {
			buf.WriteString(", ")
		}
		param.Format(buf, indent, false)
	}
	buf.WriteString(") ")
	n.Body.Format(buf, indent, false)
}
func (n *FunctionDefNode) SetComment(c *CommentNode) {
	n.Comment = c
}
func (n *FunctionDefNode) Equal(o interface{}) bool {
	if on, ok := o.(*FunctionDefNode); ok {
		if len(n.Params) != len(on.Params) {
			return false
		}
		for i := range n.Params {
			if !n.Params[i].Equal(on.Params[i]) {
				return false
			}
		}
		return n.Body.Equal(on.Body)
	}
	return false
}

// BlockNode holds a brace-delimited sequence of statements.
type BlockNode struct {
	position
	Nodes   []Node
	Comment *CommentNode
}

func newBlock(p position, c *CommentNode) *BlockNode {
	return &BlockNode{
		position: p,
		Comment:  c,
	}
}

func (n *BlockNode) Add(node Node) {
	n.Nodes = append(n.Nodes, node)
}

func (n *BlockNode) String() string {
	return fmt.Sprintf("BlockNode@%v{%v}%v", n.position, n.Nodes, n.Comment)
}

func (n *BlockNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	if n.Comment != nil {
		n.Comment.Format(buf, indent, onNewLine)
		onNewLine = true
	}
	writeIndent(buf, indent, onNewLine)
	buf.WriteByte('{')
	inner := indent + indentStep
	for _, node := range n.Nodes {
		buf.WriteByte('\n')
		node.Format(buf, inner, true)
	}
	buf.WriteByte('\n')
	buf.WriteString(indent)
	buf.WriteByte('}')
}
func (n *BlockNode) SetComment(c *CommentNode) {
	n.Comment = c
}
func (n *BlockNode) Equal(o interface{}) bool {
	if on, ok := o.(*BlockNode); ok {
		if len(n.Nodes) != len(on.Nodes) {
			return false
		}
		for i := range n.Nodes {
			if !n.Nodes[i].Equal(on.Nodes[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// IfNode holds a conditional branch: condition, consequent and optional alternative.
// Else is nil, a *BlockNode, or another *IfNode for else-if chains.
type IfNode struct {
	position
	Cond    Node
	Then    *BlockNode
	Else    Node
	Comment *CommentNode
}

func newIf(p position, cond Node, then *BlockNode, els Node, c *CommentNode) *IfNode {
	return &IfNode{
		position: p,
		Cond:     cond,
		Then:     then,
		Else:     els,
		Comment:  c,
	}
}

func (n *IfNode) String() string {
	return fmt.Sprintf("IfNode@%v{%v %v %v}%v", n.position, n.Cond, n.Then, n.Else, n.Comment)
}

func (n *IfNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	if n.Comment != nil {
		n.Comment.Format(buf, indent, onNewLine)
		onNewLine = true
	}
	writeIndent(buf, indent, onNewLine)
	buf.WriteString(KW_If)
	buf.WriteString(" (")
	n.Cond.Format(buf, indent, false)
	buf.WriteString(") ")
	n.Then.Format(buf, indent, false)
	if n.Else != nil {
		buf.WriteString(" ")
		buf.WriteString(KW_Else)
		buf.WriteString(" ")
		n.Else.Format(buf, indent, false)
	}
}
func (n *IfNode) SetComment(c *CommentNode) {
	n.Comment = c
}
func (n *IfNode) Equal(o interface{}) bool {
	if on, ok := o.(*IfNode); ok {
		if !n.Cond.Equal(on.Cond) || !n.Then.Equal(on.Then) {
			return false
		}
		if (n.Else == nil) != (on.Else == nil) {
			return false
		}
		return n.Else == nil || n.Else.Equal(on.Else)
	}
	return false
}

// AssignNode holds a binding statement: name <- value.
type AssignNode struct {
	position
	Left    *IdentifierNode
	Right   Node
	Comment *CommentNode
}

func newAssign(p position, left *IdentifierNode, right Node, c *CommentNode) *AssignNode {
	return &AssignNode{
		position: p,
		Left:     left,
		Right:    right,
		Comment:  c,
	}
}

func (n *AssignNode) String() string {
	return fmt.Sprintf("AssignNode@%v{%v %v}%v", n.position, n.Left, n.Right, n.Comment)
}

func (n *AssignNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	if n.Comment != nil {
		n.Comment.Format(buf, indent, onNewLine)
		onNewLine = true
	}
	writeIndent(buf, indent, onNewLine)
	n.Left.Format(buf, indent, false)
	buf.WriteByte(' ')
	buf.WriteString(TokenAsgn.String())
	buf.WriteByte(' ')
	n.Right.Format(buf, indent, false)
}
func (n *AssignNode) SetComment(c *CommentNode) {
	n.Comment = c
}
func (n *AssignNode) Equal(o interface{}) bool {
	if on, ok := o.(*AssignNode); ok {
		return n.Left.Equal(on.Left) &&
			n.Right.Equal(on.Right)
	}
	return false
}

// ProgramNode holds the statements of a complete script.
type ProgramNode struct {
	position
	Nodes []Node
}

func newProgram(p position) *ProgramNode {
	return &ProgramNode{
		position: p,
	}
}

func (n *ProgramNode) Add(node Node) {
	n.Nodes = append(n.Nodes, node)
}

func (n *ProgramNode) String() string {
	return fmt.Sprintf("ProgramNode@%v{%v}", n.position, n.Nodes)
}

func (n *ProgramNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	for i, node := range n.Nodes {
		if i != 0 {
			buf.WriteByte('\n')
		}
		node.Format(buf, indent, true)
		buf.WriteByte('\n')
	}
}

func (n *ProgramNode) Equal(o interface{}) bool {
	if on, ok := o.(*ProgramNode); ok {
		if len(n.Nodes) != len(on.Nodes) {
			return false
		}
		for i := range n.Nodes {
			if !n.Nodes[i].Equal(on.Nodes[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Hold the contents of a comment
type CommentNode struct {
	position
	Comments []string
}

func newComment(p position, commentTokens []string) *CommentNode {
	allLines := make([]string, 0, len(commentTokens))
	for _, commentToken := range commentTokens {
		comment := strings.TrimSpace(commentToken)
		line := strings.TrimPrefix(
			strings.TrimPrefix(
				comment,
				"#",
			),
			" ",
		)
		allLines = append(allLines, line)
	}
	return &CommentNode{
		position: p,
		Comments: allLines,
	}
}

func (n *CommentNode) String() string {
	return fmt.Sprintf("CommentNode@%v{%v}", n.position, n.Comments)
}

func (n *CommentNode) Format(buf *bytes.Buffer, indent string, onNewLine bool) {
	if !onNewLine {
		buf.WriteByte('\n')
	}
	for _, comment := range n.Comments {
		buf.WriteString(indent)
		buf.WriteByte('#')
		if len(comment) > 0 {
			buf.WriteByte(' ')
			buf.WriteString(comment)
		}
		buf.WriteByte('\n')
	}
}

func (n *CommentNode) CommentString() string {
	return strings.Join(n.Comments, "\n")
}

func (n *CommentNode) Equal(o interface{}) bool {
	// We only care about functional equivalence so actual comment contents do not matter.
	_, ok := o.(*CommentNode)
	return ok
}
