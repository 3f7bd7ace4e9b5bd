package calc

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Number is either an exact integer or a float64, mirroring how the
// evaluator keeps integer arithmetic exact until a division or a float
// operand forces a float.
type Number struct {
	isInt bool
	i     *big.Int
	f     float64
}

func Int(v int64) Number {
	return Number{isInt: true, i: big.NewInt(v)}
}

func Float(v float64) Number {
	return Number{f: v}
}

func parseNumber(lit string) (Number, error) {
	if !strings.Contains(lit, ".") {
		i, ok := new(big.Int).SetString(lit, 10)
		if !ok {
			return Number{}, ErrSyntax
		}
		return Number{isInt: true, i: i}, nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Number{}, ErrSyntax
	}
	return Float(f), nil
}

func (n Number) IsInt() bool { return n.isInt }

// Float64 converts the number to a float64. Integers too large for a
// float64 report ErrOverflow.
func (n Number) Float64() (float64, error) {
	if !n.isInt {
		return n.f, nil
	}
	f, _ := new(big.Float).SetInt(n.i).Float64()
	if math.IsInf(f, 0) {
		return 0, ErrOverflow
	}
	return f, nil
}

func (n Number) isZero() bool {
	if n.isInt {
		return n.i.Sign() == 0
	}
	return n.f == 0
}

// String renders whole values without a decimal point and everything
// else in the shortest decimal form that round-trips.
func (n Number) String() string {
	if n.isInt {
		return n.i.String()
	}
	if n.f == math.Trunc(n.f) && !math.IsInf(n.f, 0) {
		i, _ := new(big.Float).SetFloat64(n.f).Int(nil)
		return i.String()
	}
	return strconv.FormatFloat(n.f, 'f', -1, 64)
}
