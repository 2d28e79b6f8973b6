package sheets

import (
	"context"
	"time"

	"github.com/Veraticus/fintrack/internal/model"
)

// Tab titles, in the order they appear in the spreadsheet.
const (
	TabOverview   = "Overview"
	TabEvolution  = "Monthly Evolution"
	TabCategories = "Categories"
	TabBudgets    = "Budgets"
)

// Tabs lists every tab the writer maintains.
var Tabs = []string{TabOverview, TabEvolution, TabCategories, TabBudgets}

// Report is everything one export writes.
type Report struct {
	GeneratedAt  time.Time
	Overview     *model.FinancialOverview
	MonthSummary *model.MonthSummary
	Month        string
	Evolution    []model.MonthlyEvolution
	Categories   []model.CategorySummary
	Budgets      []model.BudgetProgress
}

// ReportWriter persists a Report somewhere.
type ReportWriter interface {
	Write(ctx context.Context, report *Report) error
}

// TabData holds the cell values of one tab.
type TabData struct {
	Title string
	Rows  [][]any
	// CurrencyColumns are zero-based column indexes formatted as money.
	CurrencyColumns []int
}
