package calc

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/vncsmyrnk/webapps/internal/core/domain"
)

// Value is either an arbitrary precision integer or a float64. Integer
// operands stay integers under + - *; true division and any float operand
// produce a float.
type Value struct {
	isFloat bool
	i       *big.Int
	f       float64
}

func IntValue(i int64) Value {
	return Value{i: big.NewInt(i)}
}

func FloatValue(f float64) Value {
	return Value{isFloat: true, f: f}
}

func (v Value) IsFloat() bool {
	return v.isFloat
}

// Float64 converts the value, failing for integers too large for a float.
func (v Value) Float64() (float64, error) {
	if v.isFloat {
		return v.f, nil
	}
	f, _ := new(big.Float).SetInt(v.i).Float64()
	if math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: integer too large to convert to float", domain.ErrInvalidExpression)
	}
	return f, nil
}

func (v Value) String() string {
	if !v.isFloat {
		return v.i.String()
	}
	return formatFloat(v.f)
}

// formatFloat renders the shortest round-tripping representation, switching
// to exponent notation below 1e-4 and from 1e16 upwards.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, expStr, _ := strings.Cut(s, "e")
	exp, _ := strconv.Atoi(expStr)
	if exp < -4 || exp >= 16 {
		sign := "+"
		if exp < 0 {
			sign = "-"
			exp = -exp
		}
		return fmt.Sprintf("%se%s%02d", mant, sign, exp)
	}

	s = strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func add(a, b Value) (Value, error) {
	if !a.isFloat && !b.isFloat {
		return Value{i: new(big.Int).Add(a.i, b.i)}, nil
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Value{}, err
	}
	return FloatValue(x + y), nil
}

func sub(a, b Value) (Value, error) {
	if !a.isFloat && !b.isFloat {
		return Value{i: new(big.Int).Sub(a.i, b.i)}, nil
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Value{}, err
	}
	return FloatValue(x - y), nil
}

func mul(a, b Value) (Value, error) {
	if !a.isFloat && !b.isFloat {
		return Value{i: new(big.Int).Mul(a.i, b.i)}, nil
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Value{}, err
	}
	return FloatValue(x * y), nil
}

func div(a, b Value) (Value, error) {
	if !a.isFloat && !b.isFloat {
		if b.i.Sign() == 0 {
			return Value{}, domain.ErrDivisionByZero
		}
		// Exact rational first so the quotient is correctly rounded even
		// for operands that do not fit a float.
		f, _ := new(big.Rat).SetFrac(a.i, b.i).Float64()
		if math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("%w: integer division result too large for a float", domain.ErrInvalidExpression)
		}
		return FloatValue(f), nil
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Value{}, err
	}
	if y == 0 {
		return Value{}, domain.ErrDivisionByZero
	}
	return FloatValue(x / y), nil
}

func neg(a Value) Value {
	if a.isFloat {
		return FloatValue(-a.f)
	}
	return Value{i: new(big.Int).Neg(a.i)}
}

func floats(a, b Value) (float64, float64, error) {
	x, err := a.Float64()
	if err != nil {
		return 0, 0, err
	}
	y, err := b.Float64()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
