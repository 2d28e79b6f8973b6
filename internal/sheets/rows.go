package sheets

import (
	"fmt"
	"sort"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

// BuildTabs turns a report into per-tab cell values.
func BuildTabs(report *Report) []TabData {
	return []TabData{
		{Title: TabOverview, Rows: overviewRows(report), CurrencyColumns: []int{1, 2, 3}},
		{Title: TabEvolution, Rows: evolutionRows(report.Evolution), CurrencyColumns: []int{1, 2, 3}},
		{Title: TabCategories, Rows: categoryRows(report.Month, report.Categories), CurrencyColumns: []int{1}},
		{Title: TabBudgets, Rows: budgetRows(report.Budgets), CurrencyColumns: []int{2, 3, 4}},
	}
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

func overviewRows(report *Report) [][]any {
	values := [][]any{
		{"Fintrack Report", report.GeneratedAt.Format("Jan 2, 2006 15:04")},
		{},
	}

	if report.MonthSummary != nil {
		ms := report.MonthSummary
		values = append(values,
			[]any{"Month", "Income", "Expense", "Balance"},
			[]any{ms.Month, money(ms.TotalIncome), money(ms.TotalExpense), money(ms.Balance)},
		)
		if ms.Comparison != nil {
			values = append(values, []any{
				"vs previous month",
				percent(ms.Comparison.IncomeChange),
				percent(ms.Comparison.ExpenseChange),
				percent(ms.Comparison.BalanceChange),
			})
		}
		values = append(values, []any{})
	}

	ov := report.Overview
	if ov == nil {
		return values
	}

	values = append(values,
		[]any{"Period", "Income", "Expense", "Balance"},
		[]any{"Current month", money(ov.CurrentMonth.TotalIncome), money(ov.CurrentMonth.TotalExpense), money(ov.CurrentMonth.Balance)},
		[]any{"All time", money(ov.TotalAllTime.Income), money(ov.TotalAllTime.Expense), money(ov.TotalAllTime.Balance)},
		[]any{},
		[]any{"Top Categories", "Amount", "Share"},
	)
	for _, c := range ov.TopCategories {
		values = append(values, []any{c.CategoryName, money(c.Amount), percent(c.Percentage)})
	}

	values = append(values,
		[]any{},
		[]any{"Recent Transactions", "Amount", "Type", "Category", "Date"},
	)
	for _, t := range ov.RecentTransactions {
		values = append(values, []any{t.Description, money(t.Amount), string(t.Type), t.CategoryName, t.Date.String()})
	}

	return values
}

func evolutionRows(points []model.MonthlyEvolution) [][]any {
	values := make([][]any, 0, len(points)+1)
	values = append(values, []any{"Month", "Income", "Expense", "Balance"})
	for _, p := range points {
		values = append(values, []any{p.Month, money(p.Income), money(p.Expense), money(p.Balance)})
	}
	return values
}

func categoryRows(month string, categories []model.CategorySummary) [][]any {
	sorted := make([]model.CategorySummary, len(categories))
	copy(sorted, categories)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalAmount.GreaterThan(sorted[j].TotalAmount)
	})

	values := make([][]any, 0, len(sorted)+2)
	values = append(values,
		[]any{"Category Summary", month},
		[]any{"Category", "Amount", "Share", "Transactions"},
	)
	for _, c := range sorted {
		values = append(values, []any{c.CategoryName, money(c.TotalAmount), percent(c.Percentage), c.TransactionCount})
	}
	return values
}

func budgetRows(progress []model.BudgetProgress) [][]any {
	values := make([][]any, 0, len(progress)+1)
	values = append(values, []any{"Category", "Period", "Budget", "Spent", "Remaining", "Used", "Status", "Window"})
	for _, p := range progress {
		window := p.StartDate.String()
		if p.EndDate != nil {
			window = fmt.Sprintf("%s to %s", window, p.EndDate.String())
		}
		values = append(values, []any{
			p.CategoryName,
			string(p.Period),
			money(p.BudgetAmount),
			money(p.SpentAmount),
			money(p.RemainingAmount),
			percent(p.PercentageUsed),
			string(p.Status),
			window,
		})
	}
	return values
}
