package model

import "github.com/shopspring/decimal"

// MonthComparison is the change against the previous month, in percent.
type MonthComparison struct {
	IncomeChange  decimal.Decimal `json:"incomeChange"`
	ExpenseChange decimal.Decimal `json:"expenseChange"`
	BalanceChange decimal.Decimal `json:"balanceChange"`
}

// MonthSummary totals one month.
type MonthSummary struct {
	Comparison   *MonthComparison `json:"comparisonWithPreviousMonth,omitempty"`
	TotalIncome  decimal.Decimal  `json:"totalIncome"`
	TotalExpense decimal.Decimal  `json:"totalExpense"`
	Balance      decimal.Decimal  `json:"balance"`
	Month        string           `json:"month"`
}

// CategorySummary is one category's share of a month's spending.
type CategorySummary struct {
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Percentage       decimal.Decimal `json:"percentage"`
	CategoryName     string          `json:"categoryName"`
	CategoryColor    string          `json:"categoryColor"`
	CategoryID       int64           `json:"categoryId"`
	TransactionCount int             `json:"transactionCount"`
}

// MonthlyEvolution is one point of the income/expense time series.
type MonthlyEvolution struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
	Month   string          `json:"month"`
}

// Totals is an income/expense/balance triple.
type Totals struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
}

// AllTimeTotals uses the short field names of the overview endpoint.
type AllTimeTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// TopCategory is a category entry in the financial overview.
type TopCategory struct {
	Amount        decimal.Decimal `json:"amount"`
	Percentage    decimal.Decimal `json:"percentage"`
	CategoryName  string          `json:"categoryName"`
	CategoryColor string          `json:"categoryColor"`
}

// RecentTransaction is a flattened transaction in the financial overview.
type RecentTransaction struct {
	Date         Date            `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Type         TransactionType `json:"type"`
	CategoryName string          `json:"categoryName"`
	ID           int64           `json:"id"`
}

// FinancialOverview is the dashboard payload.
type FinancialOverview struct {
	CurrentMonth       Totals              `json:"currentMonth"`
	TotalAllTime       AllTimeTotals       `json:"totalAllTime"`
	TopCategories      []TopCategory       `json:"topCategories"`
	RecentTransactions []RecentTransaction `json:"recentTransactions"`
}
