package calc

import (
	"errors"
	"math"
)

type function struct {
	name    string
	minArgs int
	// maxArgs < 0 means variadic.
	maxArgs int
	apply   func(args []float64) (float64, error)
}

var functions = map[string]*function{
	"abs": {name: "abs", minArgs: 1, maxArgs: 1, apply: func(args []float64) (float64, error) {
		return math.Abs(args[0]), nil
	}},
	"round": {name: "round", minArgs: 1, maxArgs: 2, apply: round},
	"min": {name: "min", minArgs: 2, maxArgs: -1, apply: func(args []float64) (float64, error) {
		m := args[0]
		for _, v := range args[1:] {
			m = math.Min(m, v)
		}
		return m, nil
	}},
	"max": {name: "max", minArgs: 2, maxArgs: -1, apply: func(args []float64) (float64, error) {
		m := args[0]
		for _, v := range args[1:] {
			m = math.Max(m, v)
		}
		return m, nil
	}},
}

// Functions returns the names callable from an expression.
func Functions() []string {
	return []string{"abs", "round", "min", "max"}
}

// round rounds half to even, optionally to a number of decimal digits.
func round(args []float64) (float64, error) {
	x := args[0]
	if len(args) == 1 {
		return math.RoundToEven(x), nil
	}

	digits := args[1]
	if digits != math.Trunc(digits) {
		return 0, errors.New("round: ndigits must be an integer")
	}
	scale := math.Pow(10, digits)
	if math.IsInf(scale, 0) || scale == 0 || math.IsInf(x*scale, 0) {
		return x, nil
	}
	return math.RoundToEven(x*scale) / scale, nil
}
