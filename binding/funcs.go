package binding

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// apply dispatches a bind function call. The library is intentionally small:
// formatting belongs on the label template, business logic stays upstream.
func apply(name string, args []any) (any, error) {
	switch name {
	case "upper":
		s, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		return strings.ToUpper(s), nil
	case "lower":
		s, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		return strings.ToLower(s), nil
	case "trim":
		s, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		return strings.TrimSpace(s), nil
	case "concat":
		if len(args) == 0 {
			return nil, fmt.Errorf("bind: concat expects at least one argument")
		}
		var b strings.Builder
		for _, arg := range args {
			b.WriteString(displayString(arg))
		}
		return b.String(), nil
	case "currency":
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("bind: currency expects amount and optional symbol, got %d arguments", len(args))
		}
		amount, err := toNumber(name, args[0])
		if err != nil {
			return nil, err
		}
		symbol := "$"
		if len(args) == 2 {
			symbol = displayString(args[1])
		}
		return formatCurrency(amount, symbol), nil
	case "unit":
		if len(args) != 2 {
			return nil, fmt.Errorf("bind: unit expects value and suffix, got %d arguments", len(args))
		}
		return displayString(args[0]) + " " + displayString(args[1]), nil
	default:
		return nil, fmt.Errorf("bind: unknown function %q", name)
	}
}

func oneString(name string, args []any) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("bind: %s expects exactly one argument, got %d", name, len(args))
	}
	return displayString(args[0]), nil
}

// toNumber coerces bound values to float64. Records decoded from JSON carry
// float64 already; strings are accepted because upstream systems routinely
// export prices as text.
func toNumber(name string, val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("bind: %s got non-numeric value %q", name, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("bind: %s got non-numeric value %v", name, val)
	}
}

// formatCurrency renders an amount as symbol-prefixed text with two
// decimals and thousands separators, e.g. $1,234.50.
func formatCurrency(amount float64, symbol string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	frac := cents % 100
	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, groupThousands(whole), frac)
}

func groupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
