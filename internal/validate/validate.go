// Package validate checks user input before it reaches the API.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Password reports whether s is long enough to be a password.
func Password(s string) bool {
	return utf8.RuneCountInString(s) >= MinPasswordLength
}

// Amount reports whether d is a usable money amount.
func Amount(d decimal.Decimal) bool {
	return d.IsPositive()
}

// Required reports whether s has any non-whitespace content.
func Required(s string) bool {
	return strings.TrimSpace(s) != ""
}

// MinLength reports whether s has at least n characters.
func MinLength(s string, n int) bool {
	return utf8.RuneCountInString(s) >= n
}

// MaxLength reports whether s has at most n characters.
func MaxLength(s string, n int) bool {
	return utf8.RuneCountInString(s) <= n
}

// HexColor reports whether s is a #RGB or #RRGGBB color.
func HexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}
