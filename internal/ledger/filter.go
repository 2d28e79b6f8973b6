// Package ledger filters, paginates and totals transaction lists on the client.
package ledger

import (
	"strings"

	"github.com/Veraticus/fintrack/internal/model"
)

// Matches reports whether t satisfies every predicate set in f.
func Matches(t model.Transaction, f model.TransactionFilter) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.CategoryID != 0 && t.CategoryID() != f.CategoryID {
		return false
	}
	if f.StartDate != nil && t.Date.Before(f.StartDate.Time) {
		return false
	}
	if f.EndDate != nil && t.Date.After(f.EndDate.Time) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Description), needle) &&
			!strings.Contains(strings.ToLower(t.Category.Name), needle) {
			return false
		}
	}
	return true
}

// Filter returns the transactions matching f, in their original order.
func Filter(txns []model.Transaction, f model.TransactionFilter) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if Matches(t, f) {
			out = append(out, t)
		}
	}
	return out
}
