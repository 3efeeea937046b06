package costing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseNumber turns a price-like value into a finite float64. Strings may use
// either "," or "." as decimal separator and may carry currency symbols or
// spaces. Anything that cannot be read as a number yields 0.
func ParseNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		return parseNumberString(string(n))
	case decimal.Decimal:
		return finite(n.InexactFloat64())
	case string:
		return parseNumberString(n)
	case *string:
		if n == nil {
			return 0
		}
		return parseNumberString(*n)
	case *float64:
		if n == nil {
			return 0
		}
		return finite(*n)
	case bool:
		return 0
	default:
		return 0
	}
}

func parseNumberString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	prefix := numericPrefix(b.String())
	if prefix == "" {
		return 0
	}

	d, err := decimal.NewFromString(prefix)
	if err != nil {
		f, ferr := strconv.ParseFloat(prefix, 64)
		if ferr != nil {
			return 0
		}
		return finite(f)
	}
	return finite(d.InexactFloat64())
}

// numericPrefix returns the longest leading part of s shaped like -?\d*\.?\d*
// that contains at least one digit.
func numericPrefix(s string) string {
	end := 0
	digits := false
	seenDot := false
	for i, r := range s {
		switch {
		case r == '-' && i == 0:
		case r >= '0' && r <= '9':
			digits = true
		case r == '.' && !seenDot:
			seenDot = true
		default:
			return trimPrefix(s[:end], digits)
		}
		end = i + 1
	}
	return trimPrefix(s[:end], digits)
}

func trimPrefix(s string, digits bool) string {
	if !digits {
		return ""
	}
	s = strings.TrimSuffix(s, ".")
	if strings.HasPrefix(s, "-.") {
		s = "-0" + s[1:]
	} else if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	return s
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
