package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoAmount is returned when a value contains no digit sequence at all.
var ErrNoAmount = errors.New("no numeric amount found")

// unitRe matches a decimal number immediately followed by a magnitude word,
// e.g. "40 Million", "1.2 Billion", "500K".
var unitRe = regexp.MustCompile(`(?i)([0-9][0-9.,]*)\s*(million|billion|thousand|[mbk])\b`)

func unitExponent(unit string) int32 {
	switch strings.ToLower(unit) {
	case "billion", "b":
		return 9
	case "million", "m":
		return 6
	case "thousand", "k":
		return 3
	}
	return 0
}

// Amount converts a free-form currency value into whole euros.
//
// Already-numeric values are rounded to the nearest integer. Strings with a
// magnitude word ("€40 Million") multiply the leading decimal number by the
// unit; commas are thousands separators, the dot is the decimal point. Any
// other string is reduced to its digits ("€26,800,624" -> 26800624).
func Amount(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return decimal.NewFromFloat(n).Round(0).IntPart(), nil
	case string:
		return amountFromString(n)
	}
	return 0, fmt.Errorf("unsupported amount type %T", v)
}

func amountFromString(s string) (int64, error) {
	if m := unitRe.FindStringSubmatch(s); m != nil {
		num := strings.ReplaceAll(m[1], ",", "")
		num = strings.TrimSuffix(num, ".")
		if d, err := decimal.NewFromString(num); err == nil {
			return d.Shift(unitExponent(m[2])).Round(0).IntPart(), nil
		}
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0, fmt.Errorf("%w in %q", ErrNoAmount, s)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}
	return n, nil
}
