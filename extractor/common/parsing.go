package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NormalizeAmount parses a statement amount written with "." thousands grouping and
// "," as decimal separator, e.g. "1.234,56" or "-1,50".
func NormalizeAmount(text string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(text), ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")
	if clean == "" || clean == "-" {
		return decimal.Zero, fmt.Errorf("invalid amount %q", text)
	}

	amount, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", text, err)
	}
	return amount, nil
}

// FormatAmount renders an amount the way the statement prints it, with two decimals.
// It is the inverse of NormalizeAmount.
func FormatAmount(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	return sign + grouped.String() + "," + frac
}

// ParseDate parses a date string using a layout. Dates carry no time of day, so they
// are kept in UTC to stay on the same calendar day wherever they are rendered.
func ParseDate(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, time.UTC)
}
