package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	// DecimalSeparator is the keypad's decimal point key.
	DecimalSeparator = ','
	// ErrorToken replaces the display after a division by zero.
	ErrorToken = "Error"
	// initialDisplay is shown after construction and after Clear.
	initialDisplay = "0"
)

// FormatResult renders the outcome of Equals.
//
// Integral results are printed without a fractional part ("10"), every other
// finite value with exactly two decimals ("10.50"), rounded half up on the
// shortest decimal form of v, so 0.125 prints "0.13". Negative zero prints
// as "0". NaN and infinities use strconv's spelling.
func FormatResult(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if v == math.Trunc(v) {
		if v == 0 {
			return "0"
		}
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return roundHalfUp(v, 2)
}

// roundHalfUp formats v with exactly places decimals, rounding the shortest
// decimal representation of |v| away from zero on a tie.
func roundHalfUp(v float64, places int) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	frac += strings.Repeat("0", places+1)

	digits := []byte(intPart + frac[:places])
	if frac[places] >= '5' {
		digits = incrementDigits(digits)
	}

	cut := len(digits) - places
	out := string(digits[:cut]) + "." + string(digits[cut:])
	if v < 0 {
		out = "-" + out
	}
	return out
}

// incrementDigits adds one to a string of decimal digits.
func incrementDigits(d []byte) []byte {
	for i := len(d) - 1; i >= 0; i-- {
		if d[i] < '9' {
			d[i]++
			return d
		}
		d[i] = '0'
	}
	return append([]byte{'1'}, d...)
}

// hasSeparator reports whether the display already holds a decimal point.
// Results rendered by FormatResult use '.', typed input uses ','.
func hasSeparator(display string) bool {
	return strings.ContainsAny(display, ",.")
}

// parseDisplay reads the display back as a float64. Out of range literals
// saturate to ±Inf instead of failing, like the keypad they model.
func parseDisplay(display string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(display, string(DecimalSeparator), ".", 1), 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v, nil
		}
		return 0, &ParseError{Display: display, Err: err}
	}
	return v, nil
}
