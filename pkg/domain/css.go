package domain

import (
	"strconv"
	"strings"
)

// lengthUnits is ordered longest first so that suffix matching picks
// "rem" before "em" and "vmax" before "ex".
var lengthUnits = []string{
	"cqmin", "cqmax",
	"rcap", "vmax", "vmin",
	"cqw", "cqh", "cqi", "cqb", "cap", "rch", "rem", "rex", "ric", "rlh",
	"px", "cm", "mm", "in", "pc", "pt", "ch", "em", "ex", "ic", "lh", "vh", "vw", "vb", "vi",
	"Q",
}

// isCSSNumber accepts the decimal <number> grammar only: an optional sign,
// digits with at most one dot, and an optional integer exponent.
func isCSSNumber(value string) bool {
	if !isDecimal(value) {
		return false
	}
	_, err := strconv.ParseFloat(value, 32)
	return err == nil
}

func isDecimal(value string) bool {
	mantissa, exponent, hasExponent := strings.Cut(strings.ToLower(value), "e")
	digits, dots := 0, 0
	for _, c := range trimSign(mantissa) {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	if digits == 0 || dots > 1 {
		return false
	}
	return !hasExponent || isDigits(trimSign(exponent))
}

func trimSign(s string) string {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		return s[1:]
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func validLength(value string) bool {
	for _, unit := range lengthUnits {
		if strings.HasSuffix(value, unit) {
			return isCSSNumber(strings.TrimSuffix(value, unit))
		}
	}
	return isCSSNumber(value)
}

// validPercentage reports validity and whether the value carried a % sign.
// Without the sign only "0" is accepted.
func validPercentage(value string) (valid, signed bool) {
	if !strings.HasSuffix(value, "%") {
		return value == "0", false
	}
	return isCSSNumber(strings.TrimSuffix(value, "%")), true
}

// Length is a validated CSS <length>. The zero value is unassigned.
type Length struct {
	value string
}

// ParseLength validates value as a CSS length such as "12px" or "1.5rem".
func ParseLength(value string) (Length, error) {
	if !validLength(value) {
		return Length{}, &ParseError{Value: value, Type: "Length"}
	}
	return Length{value: value}, nil
}

// MustLength is like ParseLength but panics on invalid input.
func MustLength(value string) Length {
	l, err := ParseLength(value)
	if err != nil {
		panic(err)
	}
	return l
}

// IsAssigned reports whether the length holds a parsed value.
func (l Length) IsAssigned() bool { return l.value != "" }

func (l Length) String() string { return l.value }

// Percentage is a validated CSS <percentage>. The zero value is unassigned.
type Percentage struct {
	value   string
	numeric float64
}

// ParsePercentage validates value as a CSS percentage such as "50%" or "0".
func ParsePercentage(value string) (Percentage, error) {
	valid, signed := validPercentage(value)
	if !valid {
		return Percentage{}, &ParseError{Value: value, Type: "Percentage"}
	}
	p := Percentage{value: value}
	if signed {
		p.numeric, _ = strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
	}
	return p, nil
}

// PercentageOf builds a percentage from a number, e.g. 50 → "50%".
func PercentageOf(n float64) Percentage {
	return Percentage{value: FormatNumber(n) + "%", numeric: n}
}

// MustPercentage is like ParsePercentage but panics on invalid input.
func MustPercentage(value string) Percentage {
	p, err := ParsePercentage(value)
	if err != nil {
		panic(err)
	}
	return p
}

// IsAssigned reports whether the percentage holds a parsed value.
func (p Percentage) IsAssigned() bool { return p.value != "" }

// Numeric returns the value without the % sign.
func (p Percentage) Numeric() float64 { return p.numeric }

// Compare orders percentages by numeric value.
func (p Percentage) Compare(other Percentage) int {
	switch {
	case p.numeric < other.numeric:
		return -1
	case p.numeric > other.numeric:
		return 1
	default:
		return 0
	}
}

func (p Percentage) String() string { return p.value }

// LengthPercentage is a validated CSS <length-percentage>.
// The zero value is unassigned.
type LengthPercentage struct {
	value string
}

// ParseLengthPercentage accepts either a length or a percentage.
func ParseLengthPercentage(value string) (LengthPercentage, error) {
	if validLength(value) {
		return LengthPercentage{value: value}, nil
	}
	if valid, _ := validPercentage(value); valid {
		return LengthPercentage{value: value}, nil
	}
	return LengthPercentage{}, &ParseError{Value: value, Type: "LengthPercentage"}
}

// MustLengthPercentage is like ParseLengthPercentage but panics on invalid input.
func MustLengthPercentage(value string) LengthPercentage {
	lp, err := ParseLengthPercentage(value)
	if err != nil {
		panic(err)
	}
	return lp
}

// IsAssigned reports whether the value holds a parsed value.
func (lp LengthPercentage) IsAssigned() bool { return lp.value != "" }

func (lp LengthPercentage) String() string { return lp.value }

// FormatNumber renders n with at most two decimals and a dot separator,
// independent of any locale: 0.5 → "0.5", 1 → "1", 0.333 → "0.33".
func FormatNumber(n float64) string {
	s := strconv.FormatFloat(n, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
