// Package reckon is the embedding surface of the interpreter: a Session
// parses and evaluates scripts against one persistent global scope.
package reckon

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/reckonlang/reckon/ast"
	"github.com/reckonlang/reckon/interp"
)

// FileExtension is the conventional extension for script files.
const FileExtension = ".rk"

// Session is a single interpreter instance. Definitions accumulate in its
// global scope across Eval calls, the way an interactive workspace does.
// A Session is not safe for concurrent use.
type Session struct {
	// ID distinguishes concurrent sessions in logs.
	ID uuid.UUID

	ev *interp.Evaluator
}

func New() *Session {
	return &Session{
		ID: uuid.New(),
		ev: interp.NewEvaluator(),
	}
}

// Eval parses and evaluates a script, returning the value of its last
// statement.
func (s *Session) Eval(script string) (interp.Value, error) {
	prog, err := ast.Parse(script)
	if err != nil {
		return nil, err
	}
	return s.ev.EvalProgram(prog, nil)
}

// EvalProgram evaluates an already parsed program.
func (s *Session) EvalProgram(prog *ast.ProgramNode) (interp.Value, error) {
	return s.ev.EvalProgram(prog, nil)
}

// EvalFile reads, parses and evaluates a script file.
func (s *Session) EvalFile(path string) (interp.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open file %q", path)
	}
	v, err := s.Eval(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "error sourcing %q", path)
	}
	return v, nil
}

// Scope returns the session's global scope.
func (s *Session) Scope() *interp.Scope {
	return s.ev.Global()
}

// Evaluator returns the underlying evaluator, for callers that need to
// swap its clock or output.
func (s *Session) Evaluator() *interp.Evaluator {
	return s.ev
}

// SetOutput redirects the session's printed output.
func (s *Session) SetOutput(w io.Writer) {
	s.ev.SetOutput(w)
}
