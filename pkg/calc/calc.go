// Package calc evaluates arithmetic expressions with a small recursive-descent
// parser. Only numbers, + - * /, parentheses and the functions abs, round, min
// and max are accepted.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrNotFinite      = errors.New("result is not a finite number")
)

// SyntaxError reports malformed input at a byte offset of the expression.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
}

// Node is a parsed expression.
type Node interface {
	Eval() (float64, error)
}

// Eval parses and evaluates expr.
func Eval(expr string) (float64, error) {
	node, err := Parse(expr)
	if err != nil {
		return 0, err
	}
	v, err := node.Eval()
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrNotFinite
	}
	return v, nil
}

// Format renders v in its shortest decimal form. Integral values have no
// fractional part.
func Format(v float64) string {
	if v == 0 {
		// Drops the sign of negative zero.
		return "0"
	}
	if math.Abs(v) < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type number float64

func (n number) Eval() (float64, error) {
	return float64(n), nil
}

type unary struct {
	op tokenKind
	x  Node
}

func (u *unary) Eval() (float64, error) {
	v, err := u.x.Eval()
	if err != nil {
		return 0, err
	}
	if u.op == tokMinus {
		return -v, nil
	}
	return v, nil
}

// chain is a left-associative run of operators at one precedence level,
// evaluated iteratively so long sums do not deepen the tree.
type chain struct {
	first Node
	rest  []operand
}

type operand struct {
	op tokenKind
	x  Node
}

func (c *chain) Eval() (float64, error) {
	acc, err := c.first.Eval()
	if err != nil {
		return 0, err
	}
	for _, o := range c.rest {
		r, err := o.x.Eval()
		if err != nil {
			return 0, err
		}
		if acc, err = applyOperator(o.op, acc, r); err != nil {
			return 0, err
		}
	}
	return acc, nil
}

func applyOperator(op tokenKind, l, r float64) (float64, error) {
	switch op {
	case tokPlus:
		return l + r, nil
	case tokMinus:
		return l - r, nil
	case tokStar:
		return l * r, nil
	case tokSlash:
		if r == 0 {
			return 0, ErrDivisionByZero
		}
		return l / r, nil
	}
	return 0, fmt.Errorf("unsupported operator %s", op)
}

type call struct {
	fn   *function
	args []Node
}

func (c *call) Eval() (float64, error) {
	values := make([]float64, len(c.args))
	for i, arg := range c.args {
		v, err := arg.Eval()
		if err != nil {
			return 0, err
		}
		values[i] = v
	}
	return c.fn.apply(values)
}
