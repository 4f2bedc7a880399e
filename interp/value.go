package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reckonlang/reckon/ast"
)

// ValueType identifies the kind of a runtime value.
type ValueType int

const (
	InvalidType ValueType = iota
	NullType
	NumericType
	LogicalType
	CharacterType
	FunctionType
)

func (t ValueType) String() string {
	switch t {
	case NullType:
		return "NULL"
	case NumericType:
		return "numeric"
	case LogicalType:
		return "logical"
	case CharacterType:
		return "character"
	case FunctionType:
		return "function"
	}
	return "invalid"
}

// Value is a runtime value: a vector, NULL, or a function.
type Value interface {
	Type() ValueType
	// Len reports the number of elements in a vector, 0 for NULL
	// and 1 for functions.
	Len() int
}

// Null is the empty value.
type Null struct{}

func (Null) Type() ValueType { return NullType }
func (Null) Len() int        { return 0 }

// Numeric is a vector of doubles. All numbers in the language are doubles.
type Numeric []float64

func (Numeric) Type() ValueType { return NumericType }
func (v Numeric) Len() int      { return len(v) }

// Logical is a vector of TRUE/FALSE values.
type Logical []bool

func (Logical) Type() ValueType { return LogicalType }
func (v Logical) Len() int      { return len(v) }

// Character is a vector of strings.
type Character []string

func (Character) Type() ValueType { return CharacterType }
func (v Character) Len() int      { return len(v) }

// Closure is a user-defined function together with its defining environment.
type Closure struct {
	Def *ast.FunctionDefNode
	Env *Scope
	// Name the closure was first assigned to, used in error reports.
	// Empty for anonymous functions.
	Name string
}

func (*Closure) Type() ValueType { return FunctionType }
func (*Closure) Len() int        { return 1 }

// missing marks a parameter that was neither supplied nor defaulted.
// Reading it raises the missing-argument error.
type missing struct {
	name string
}

func (missing) Type() ValueType { return InvalidType }
func (missing) Len() int        { return 0 }

// Arg is a single evaluated call argument, optionally named.
type Arg struct {
	Name  string
	Value Value
}

// Dots is the collected variadic arguments bound to the dots parameter.
type Dots []Arg

func (Dots) Type() ValueType { return InvalidType }
func (v Dots) Len() int      { return len(v) }

// Scalar helpers.

// Number returns a length-1 numeric vector.
func Number(f float64) Numeric { return Numeric{f} }

// Bool returns a length-1 logical vector.
func Bool(b bool) Logical { return Logical{b} }

// Str returns a length-1 character vector.
func Str(s string) Character { return Character{s} }

// asNumeric coerces a value to a numeric vector.
// Logical vectors coerce elementwise, TRUE as 1.
func asNumeric(v Value) (Numeric, bool) {
	switch value := v.(type) {
	case Numeric:
		return value, true
	case Null:
		return Numeric{}, true
	case Logical:
		out := make(Numeric, len(value))
		for i, b := range value {
			if b {
				out[i] = 1
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// asLogical coerces a value to a logical vector.
// Numeric vectors coerce elementwise, non-zero as TRUE.
func asLogical(v Value) (Logical, bool) {
	switch value := v.(type) {
	case Logical:
		return value, true
	case Null:
		return Logical{}, true
	case Numeric:
		out := make(Logical, len(value))
		for i, f := range value {
			out[i] = f != 0
		}
		return out, true
	default:
		return nil, false
	}
}

// asCharacter coerces any vector to its character form.
func asCharacter(v Value) (Character, bool) {
	switch value := v.(type) {
	case Character:
		return value, true
	case Null:
		return Character{}, true
	case Numeric:
		out := make(Character, len(value))
		for i, f := range value {
			out[i] = formatNumber(f)
		}
		return out, true
	case Logical:
		out := make(Character, len(value))
		for i, b := range value {
			out[i] = formatBool(b)
		}
		return out, true
	default:
		return nil, false
	}
}

// scalarNumber extracts the single element of a length-1 numeric vector.
func scalarNumber(v Value) (float64, error) {
	n, ok := asNumeric(v)
	if !ok {
		return 0, fmt.Errorf("expected a number, got %s", v.Type())
	}
	if len(n) != 1 {
		return 0, fmt.Errorf("expected a single number, got length %d", len(n))
	}
	return n[0], nil
}

// scalarString extracts the single element of a length-1 character vector.
func scalarString(v Value) (string, error) {
	c, ok := v.(Character)
	if !ok {
		return "", fmt.Errorf("expected a string, got %s", v.Type())
	}
	if len(c) != 1 {
		return "", fmt.Errorf("expected a single string, got length %d", len(c))
	}
	return c[0], nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return ast.KW_True
	}
	return ast.KW_False
}

// FormatValue renders a value the way the interactive session prints results:
// vectors on one line with a leading element index.
func FormatValue(v Value) string {
	switch value := v.(type) {
	case Null:
		return ast.KW_Null
	case Numeric:
		return formatVector(len(value), func(i int) string { return formatNumber(value[i]) })
	case Logical:
		return formatVector(len(value), func(i int) string { return formatBool(value[i]) })
	case Character:
		return formatVector(len(value), func(i int) string { return strconv.Quote(value[i]) })
	case *Closure:
		return ast.Format(value.Def)
	case *Builtin:
		return fmt.Sprintf("function(%s) .Builtin", strings.Join(value.paramNames(), ", "))
	default:
		return fmt.Sprintf("<%T>", v)
	}
}

func formatVector(n int, elem func(i int) string) string {
	if n == 0 {
		return "(empty vector)"
	}
	var b strings.Builder
	b.WriteString("[1]")
	for i := 0; i < n; i++ {
		b.WriteByte(' ')
		b.WriteString(elem(i))
	}
	return b.String()
}
