// Package money turns free-text amounts from manifests into numbers and
// formats numbers back into currency text for documents.
package money

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// leadingNumber matches the longest numeric prefix, mirroring lenient
// float parsing: "14%" yields "14", "12.5.3" yields "12.5".
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)`)

// ParseValue converts raw manifest text into a number. It never fails:
// empty input, the tokens "N/A", "-" and "null", and anything without a
// numeric prefix after cleaning all yield 0.
//
// Cleaning removes letters and currency symbols, then thousands-separator
// commas. Characters such as "%" are kept and simply end the numeric prefix.
func ParseValue(raw any) float64 {
	if raw == nil {
		return 0
	}

	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case float64:
		return finite(v)
	case int:
		return float64(v)
	default:
		s = fmt.Sprint(v)
	}

	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" || s == "-" || strings.EqualFold(s, "null") {
		return 0
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.Is(unicode.Sc, r) || r == ',' {
			return -1
		}
		return r
	}, s)
	cleaned = strings.TrimSpace(cleaned)

	num := leadingNumber.FindString(cleaned)
	if num == "" {
		return 0
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
