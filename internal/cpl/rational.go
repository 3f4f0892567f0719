package cpl

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

var errZeroDenominator = errors.New("rational has zero denominator")

// Rational is an exact fraction used for edit rates, sample rates, and
// durations. The zero value is 0/1. Values are immutable: every operation
// returns a new Rational.
type Rational struct {
	rat big.Rat
}

// NewRational returns the rational num/den. den must be non-zero.
func NewRational(num, den int64) Rational {
	var r Rational
	r.rat.SetFrac64(num, den)
	return r
}

// ParseRationalPair parses the CPL rate form: two whitespace-separated
// integers, e.g. "24 1" or "24000 1001".
func ParseRationalPair(s string) (Rational, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Rational{}, fmt.Errorf("rational %q: expected two integers", s)
	}
	num, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("rational %q: %w", s, err)
	}
	den, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("rational %q: %w", s, err)
	}
	if den == 0 {
		return Rational{}, fmt.Errorf("rational %q: %w", s, errZeroDenominator)
	}
	return NewRational(num, den), nil
}

// ParseRational parses the RegXML fraction form: "num/den" or a bare
// integer, e.g. "48000/1" or "48000".
func ParseRational(s string) (Rational, error) {
	var r Rational
	if _, ok := r.rat.SetString(strings.TrimSpace(s)); !ok {
		return Rational{}, fmt.Errorf("rational %q: malformed fraction", s)
	}
	return r, nil
}

// Add returns r + o.
func (r Rational) Add(o Rational) Rational {
	var out Rational
	out.rat.Add(&r.rat, &o.rat)
	return out
}

// Mul returns r * o.
func (r Rational) Mul(o Rational) Rational {
	var out Rational
	out.rat.Mul(&r.rat, &o.rat)
	return out
}

// Div returns r / o. Dividing by zero is an error, not a panic, so malformed
// edit rates surface as parse failures.
func (r Rational) Div(o Rational) (Rational, error) {
	if o.IsZero() {
		return Rational{}, errZeroDenominator
	}
	var out Rational
	out.rat.Quo(&r.rat, &o.rat)
	return out, nil
}

// IsZero reports whether r equals zero.
func (r Rational) IsZero() bool {
	return r.rat.Sign() == 0
}

// Cmp compares r and o, returning -1, 0, or +1.
func (r Rational) Cmp(o Rational) int {
	return r.rat.Cmp(&o.rat)
}

// Equal reports whether r and o represent the same value.
func (r Rational) Equal(o Rational) bool {
	return r.Cmp(o) == 0
}

// String renders the canonical lowest-terms form: "24" when the denominator
// reduces to one, otherwise "num/den". This form feeds the track fingerprint,
// so it must stay stable.
func (r Rational) String() string {
	return r.rat.RatString()
}

// Timecode renders r, interpreted as seconds, in H:MM:SS.mmm form. The value
// is converted to milliseconds and truncated, not rounded; sub-millisecond
// digits are dropped.
func (r Rational) Timecode() string {
	ms := new(big.Int).Mul(r.rat.Num(), big.NewInt(1000))
	ms.Quo(ms, r.rat.Denom())
	total := ms.Int64()
	if total < 0 {
		total = 0
	}
	hours := total / 3_600_000
	minutes := total / 60_000 % 60
	seconds := total / 1000 % 60
	millis := total % 1000
	return fmt.Sprintf("%d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}
