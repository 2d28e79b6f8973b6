package ledger

import (
	"sort"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

// Summary is income, expense and balance of a transaction list.
type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
	Count   int
}

// Totals sums a transaction list.
func Totals(txns []model.Transaction) Summary {
	s := Summary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range txns {
		switch t.Type {
		case model.TransactionTypeIncome:
			s.Income = s.Income.Add(t.Amount)
		case model.TransactionTypeExpense:
			s.Expense = s.Expense.Add(t.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	s.Count = len(txns)
	return s
}

// CategoryTotal is one category's share of a list.
type CategoryTotal struct {
	Category   model.CategoryRef
	Amount     decimal.Decimal
	Percentage decimal.Decimal
	Count      int
}

// CategoryBreakdown totals transactions of kind per category, largest first.
// Percentage is the share of the overall total for kind.
func CategoryBreakdown(txns []model.Transaction, kind model.TransactionType) []CategoryTotal {
	byID := make(map[int64]*CategoryTotal)
	order := make([]int64, 0)
	total := decimal.Zero

	for _, t := range txns {
		if t.Type != kind {
			continue
		}
		ct, ok := byID[t.CategoryID()]
		if !ok {
			ct = &CategoryTotal{Category: t.Category, Amount: decimal.Zero}
			byID[t.CategoryID()] = ct
			order = append(order, t.CategoryID())
		}
		ct.Amount = ct.Amount.Add(t.Amount)
		ct.Count++
		total = total.Add(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, id := range order {
		ct := *byID[id]
		if total.IsPositive() {
			ct.Percentage = ct.Amount.Div(total).Mul(model.Hundred)
		} else {
			ct.Percentage = decimal.Zero
		}
		out = append(out, ct)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}
