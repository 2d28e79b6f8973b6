package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

// FormatCurrency renders d as US dollars: $1,234.56 or -$500.00.
func FormatCurrency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")
	return sign + "$" + groupThousands(whole) + "." + cents
}

func groupThousands(digits string) string {
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

// FormatSignedCurrency prefixes expenses with a minus sign.
func FormatSignedCurrency(d decimal.Decimal, kind model.TransactionType) string {
	if kind == model.TransactionTypeExpense {
		return FormatCurrency(d.Abs().Neg())
	}
	return FormatCurrency(d.Abs())
}

// FormatDate renders d as "Jan 15, 2024".
func FormatDate(d model.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("Jan 2, 2006")
}

// FormatMonth renders a YYYY-MM month key as "January 2024". Unparseable
// keys are returned unchanged.
func FormatMonth(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.Format("January 2006")
}

// FormatPercent renders p with one decimal and a percent sign.
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}

// ParseAmount parses a user-entered amount such as "1,234.56" or "$20".
// The result must be positive.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", common.ErrInvalidInput)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", common.ErrInvalidInput, s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", common.ErrInvalidInput)
	}
	return d.Round(2), nil
}

// Truncate shortens s to width runes, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
