package interp

import (
	"fmt"
	"math"

	"github.com/reckonlang/reckon/ast"
)

// binaryOp applies a vectorized binary operator, recycling the shorter
// operand across the longer one.
func binaryOp(op ast.TokenType, left, right Value) (Value, error) {
	switch {
	case ast.IsMathOperator(op):
		return arithOp(op, left, right)
	case ast.IsCompOperator(op):
		return compareOp(op, left, right)
	case ast.IsLogicalOperator(op):
		return logicalOp(op, left, right)
	default:
		return nil, fmt.Errorf("unknown binary operator %v", op)
	}
}

var arithFuncs = map[ast.TokenType]func(a, b float64) float64{
	ast.TokenPlus:  func(a, b float64) float64 { return a + b },
	ast.TokenMinus: func(a, b float64) float64 { return a - b },
	ast.TokenMult:  func(a, b float64) float64 { return a * b },
	ast.TokenDiv:   func(a, b float64) float64 { return a / b },
	ast.TokenPow:   math.Pow,
	ast.TokenMod:   modulo,
}

// modulo follows the divisor's sign, so -7 %% 3 is 2 and 7 %% -3 is -2.
func modulo(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

func arithOp(op ast.TokenType, left, right Value) (Value, error) {
	l, lok := asNumeric(left)
	r, rok := asNumeric(right)
	if !lok || !rok {
		return nil, fmt.Errorf("non-numeric argument to binary operator %v", op)
	}
	n, err := recycleLength(len(l), len(r))
	if err != nil {
		return nil, err
	}
	f := arithFuncs[op]
	out := make(Numeric, n)
	for i := 0; i < n; i++ {
		out[i] = f(l[i%len(l)], r[i%len(r)])
	}
	return out, nil
}

func compareOp(op ast.TokenType, left, right Value) (Value, error) {
	// String comparison when either side is character.
	if left.Type() == CharacterType || right.Type() == CharacterType {
		l, lok := asCharacter(left)
		r, rok := asCharacter(right)
		if !lok || !rok {
			return nil, fmt.Errorf("cannot compare %s with %s", left.Type(), right.Type())
		}
		n, err := recycleLength(len(l), len(r))
		if err != nil {
			return nil, err
		}
		out := make(Logical, n)
		for i := 0; i < n; i++ {
			out[i] = compareStrings(op, l[i%len(l)], r[i%len(r)])
		}
		return out, nil
	}

	l, lok := asNumeric(left)
	r, rok := asNumeric(right)
	if !lok || !rok {
		return nil, fmt.Errorf("cannot compare %s with %s", left.Type(), right.Type())
	}
	n, err := recycleLength(len(l), len(r))
	if err != nil {
		return nil, err
	}
	out := make(Logical, n)
	for i := 0; i < n; i++ {
		out[i] = compareNumbers(op, l[i%len(l)], r[i%len(r)])
	}
	return out, nil
}

func compareNumbers(op ast.TokenType, a, b float64) bool {
	switch op {
	case ast.TokenEqual:
		return a == b
	case ast.TokenNotEqual:
		return a != b
	case ast.TokenLess:
		return a < b
	case ast.TokenGreater:
		return a > b
	case ast.TokenLessEqual:
		return a <= b
	case ast.TokenGreaterEqual:
		return a >= b
	}
	return false
}

func compareStrings(op ast.TokenType, a, b string) bool {
	switch op {
	case ast.TokenEqual:
		return a == b
	case ast.TokenNotEqual:
		return a != b
	case ast.TokenLess:
		return a < b
	case ast.TokenGreater:
		return a > b
	case ast.TokenLessEqual:
		return a <= b
	case ast.TokenGreaterEqual:
		return a >= b
	}
	return false
}

func logicalOp(op ast.TokenType, left, right Value) (Value, error) {
	l, lok := asLogical(left)
	r, rok := asLogical(right)
	if !lok || !rok {
		return nil, fmt.Errorf("invalid argument type to %v", op)
	}
	n, err := recycleLength(len(l), len(r))
	if err != nil {
		return nil, err
	}
	out := make(Logical, n)
	for i := 0; i < n; i++ {
		a, b := l[i%len(l)], r[i%len(r)]
		switch op {
		case ast.TokenAnd:
			out[i] = a && b
		case ast.TokenOr:
			out[i] = a || b
		}
	}
	return out, nil
}

// recycleLength validates that two vector lengths are compatible for
// recycling and returns the result length. The longer length must be a
// whole multiple of the shorter.
func recycleLength(la, lb int) (int, error) {
	if la == 0 || lb == 0 {
		return 0, nil
	}
	n, m := la, lb
	if n < m {
		n, m = m, n
	}
	if n%m != 0 {
		return 0, fmt.Errorf("longer object length is not a multiple of shorter object length")
	}
	return n, nil
}

// indexVector implements the subscript operation x[i]:
// numeric subscripts select (1-based) or exclude (negative),
// logical subscripts select by mask.
func indexVector(target, index Value) (Value, error) {
	switch target.Type() {
	case NumericType, LogicalType, CharacterType:
	default:
		return nil, fmt.Errorf("object of type %s is not subsettable", target.Type())
	}

	var keep []int
	switch idx := index.(type) {
	case Logical:
		if len(idx) > target.Len() {
			return nil, fmt.Errorf("logical subscript is longer than the vector")
		}
		for i := 0; i < target.Len(); i++ {
			if idx[i%len(idx)] {
				keep = append(keep, i)
			}
		}
	case Numeric:
		pos, neg := 0, 0
		for _, f := range idx {
			switch {
			case f > 0:
				pos++
			case f < 0:
				neg++
			}
		}
		if pos > 0 && neg > 0 {
			return nil, fmt.Errorf("cannot mix positive and negative subscripts")
		}
		if neg > 0 {
			excluded := make(map[int]bool, neg)
			for _, f := range idx {
				if f < 0 {
					excluded[int(-f)-1] = true
				}
			}
			for i := 0; i < target.Len(); i++ {
				if !excluded[i] {
					keep = append(keep, i)
				}
			}
		} else {
			for _, f := range idx {
				if f == 0 {
					continue
				}
				i := int(f) - 1
				if i >= target.Len() {
					return nil, fmt.Errorf("subscript out of bounds")
				}
				keep = append(keep, i)
			}
		}
	default:
		return nil, fmt.Errorf("invalid subscript of type %s", index.Type())
	}

	switch v := target.(type) {
	case Numeric:
		out := make(Numeric, len(keep))
		for i, k := range keep {
			out[i] = v[k]
		}
		return out, nil
	case Logical:
		out := make(Logical, len(keep))
		for i, k := range keep {
			out[i] = v[k]
		}
		return out, nil
	case Character:
		out := make(Character, len(keep))
		for i, k := range keep {
			out[i] = v[k]
		}
		return out, nil
	}
	return nil, fmt.Errorf("object of type %s is not subsettable", target.Type())
}
