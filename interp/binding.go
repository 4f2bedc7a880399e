package interp

import (
	"fmt"
	"strings"

	"github.com/reckonlang/reckon/ast"
)

// formal is one declared parameter from the binder's point of view.
// The variadic capture is a formal named ast.DotsName.
type formal struct {
	name       string
	hasDefault bool
}

func (f formal) isDots() bool {
	return f.name == ast.DotsName
}

type ErrDuplicateArg struct {
	Func string
	Arg  string
}

func (e ErrDuplicateArg) Error() string {
	return fmt.Sprintf("formal argument %q of %q matched by multiple actual arguments", e.Arg, e.Func)
}

type ErrUnusedArgs struct {
	Func string
	Args []string
}

func (e ErrUnusedArgs) Error() string {
	s := "unused argument (%s) in call to %q"
	if len(e.Args) > 1 {
		s = "unused arguments (%s) in call to %q"
	}
	return fmt.Sprintf(s, strings.Join(e.Args, ", "), e.Func)
}

// bindings is the result of matching call arguments against formals:
// values for the formals that were supplied, the collected dots, and the
// formals left for defaulting.
type bindings struct {
	values map[string]Value
	dots   Dots
	// unbound formals in declaration order, excluding dots
	unbound []formal
}

// matchArgs associates caller-supplied arguments with declared formals.
// Matching happens in two passes: exact name matches first, then remaining
// positional arguments fill remaining formals left to right. Positional
// arguments never match formals declared after the dots. Leftover arguments
// of either kind are collected into the dots when one is declared, and are
// an error otherwise.
//
// literals carries the source form of each argument for error messages and
// may be nil.
func matchArgs(fname string, formals []formal, args []Arg, literals []string) (*bindings, error) {
	dotsIndex := -1
	for i, f := range formals {
		if f.isDots() {
			dotsIndex = i
			break
		}
	}

	b := &bindings{
		values: make(map[string]Value, len(formals)),
	}
	used := make([]bool, len(args))

	// Pass 1: exact name matches.
	for i, arg := range args {
		if arg.Name == "" {
			continue
		}
		for _, f := range formals {
			if f.isDots() || f.name != arg.Name {
				continue
			}
			if _, dup := b.values[f.name]; dup {
				return nil, ErrDuplicateArg{Func: fname, Arg: f.name}
			}
			b.values[f.name] = arg.Value
			used[i] = true
			break
		}
	}

	// Pass 2: positional fill, left to right, stopping at the dots.
	limit := len(formals)
	if dotsIndex != -1 {
		limit = dotsIndex
	}
	fi := 0
	for i, arg := range args {
		if used[i] || arg.Name != "" {
			continue
		}
		for fi < limit {
			if _, bound := b.values[formals[fi].name]; !bound {
				break
			}
			fi++
		}
		if fi >= limit {
			break
		}
		b.values[formals[fi].name] = arg.Value
		used[i] = true
		fi++
	}

	// Leftovers go to the dots, or are an error.
	for i, arg := range args {
		if used[i] {
			continue
		}
		if dotsIndex == -1 {
			return nil, ErrUnusedArgs{Func: fname, Args: unusedLiterals(args, used, literals)}
		}
		b.dots = append(b.dots, arg)
	}

	for i, f := range formals {
		if i == dotsIndex {
			continue
		}
		if _, bound := b.values[f.name]; !bound {
			b.unbound = append(b.unbound, f)
		}
	}
	return b, nil
}

func unusedLiterals(args []Arg, used []bool, literals []string) []string {
	var out []string
	for i, arg := range args {
		if used[i] {
			continue
		}
		lit := ""
		if i < len(literals) {
			lit = literals[i]
		}
		switch {
		case arg.Name != "" && lit != "":
			out = append(out, arg.Name+" = "+lit)
		case arg.Name != "":
			out = append(out, arg.Name)
		case lit != "":
			out = append(out, lit)
		default:
			out = append(out, fmt.Sprintf("argument %d", i+1))
		}
	}
	return out
}
