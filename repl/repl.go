// Package repl implements the interactive read-eval-print loop.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/reckonlang/reckon"
	"github.com/reckonlang/reckon/ast"
	"github.com/reckonlang/reckon/interp"
)

// Repl drives one interactive session: lines are buffered until they parse
// as a complete program, then evaluated statement by statement with the
// result of the last expression printed.
type Repl struct {
	session *reckon.Session
	config  *Config

	in  *bufio.Scanner
	out io.Writer
}

func New(session *reckon.Session, config *Config, in io.Reader, out io.Writer) *Repl {
	session.SetOutput(out)
	return &Repl{
		session: session,
		config:  config,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run reads input until EOF or a quit request.
func (r *Repl) Run() error {
	if r.config.Banner != "" {
		fmt.Fprintln(r.out, r.config.Banner)
	}

	var pending strings.Builder
	for {
		if pending.Len() == 0 {
			fmt.Fprint(r.out, r.config.Prompt)
		} else {
			fmt.Fprint(r.out, r.config.ContinuePrompt)
		}
		if !r.in.Scan() {
			fmt.Fprintln(r.out)
			return r.in.Err()
		}
		line := r.in.Text()
		if pending.Len() == 0 && strings.TrimSpace(line) == "q()" {
			return nil
		}
		pending.WriteString(line)
		pending.WriteByte('\n')

		prog, err := ast.Parse(pending.String())
		if err != nil {
			if ast.IsIncompleteErr(err) {
				continue
			}
			fmt.Fprintln(r.out, err)
			pending.Reset()
			continue
		}
		pending.Reset()

		r.evalAndPrint(prog)
	}
}

// evalAndPrint evaluates each statement, printing the value of any
// statement that is not an assignment or NULL, mirroring how interactive
// use auto-prints expression results.
func (r *Repl) evalAndPrint(prog *ast.ProgramNode) {
	for _, n := range prog.Nodes {
		stmt := &ast.ProgramNode{}
		stmt.Add(n)
		v, err := r.session.EvalProgram(stmt)
		if err != nil {
			fmt.Fprintln(r.out, err)
			return
		}
		if !visible(n, v) {
			continue
		}
		fmt.Fprintln(r.out, interp.FormatValue(v))
	}
}

func visible(n ast.Node, v interp.Value) bool {
	switch n.(type) {
	case *ast.AssignNode, *ast.CommentNode:
		return false
	}
	if _, isNull := v.(interp.Null); isNull {
		return false
	}
	return true
}
