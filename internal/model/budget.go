package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is the cadence a budget limit applies to.
type BudgetPeriod string

const (
	// PeriodWeekly resets every week.
	PeriodWeekly BudgetPeriod = "WEEKLY"
	// PeriodMonthly resets every calendar month.
	PeriodMonthly BudgetPeriod = "MONTHLY"
	// PeriodYearly resets every calendar year.
	PeriodYearly BudgetPeriod = "YEARLY"
)

// Valid reports whether p is a known period.
func (p BudgetPeriod) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// BudgetStatus classifies how much of a budget has been used.
type BudgetStatus string

const (
	// StatusOK means less than 80% used.
	StatusOK BudgetStatus = "OK"
	// StatusWarning means at least 80% but less than 100% used.
	StatusWarning BudgetStatus = "WARNING"
	// StatusExceeded means 100% or more used.
	StatusExceeded BudgetStatus = "EXCEEDED"
)

// Budget is a spending limit for one category over a period.
type Budget struct {
	StartDate Date            `json:"startDate"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	EndDate   *Date           `json:"endDate"`
	Amount    decimal.Decimal `json:"amount"`
	Period    BudgetPeriod    `json:"period"`
	Category  CategoryRef     `json:"category"`
	ID        int64           `json:"id"`
}

// CategoryID returns the id of the budgeted category.
func (b Budget) CategoryID() int64 {
	return b.Category.ID
}

// BudgetRequest is the payload for creating or updating a budget.
type BudgetRequest struct {
	StartDate  Date            `json:"startDate" validate:"required"`
	EndDate    *Date           `json:"endDate,omitempty"`
	Amount     decimal.Decimal `json:"amount" validate:"positive"`
	Period     BudgetPeriod    `json:"period" validate:"oneof=WEEKLY MONTHLY YEARLY"`
	CategoryID int64           `json:"categoryId" validate:"gt=0"`
}

// BudgetProgress is spend against a budget's limit.
// PercentageUsed is the raw ratio and may exceed 100.
type BudgetProgress struct {
	StartDate       Date            `json:"startDate"`
	EndDate         *Date           `json:"endDate"`
	BudgetAmount    decimal.Decimal `json:"budgetAmount"`
	SpentAmount     decimal.Decimal `json:"spentAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	PercentageUsed  decimal.Decimal `json:"percentageUsed"`
	CategoryName    string          `json:"categoryName"`
	CategoryColor   string          `json:"categoryColor"`
	Status          BudgetStatus    `json:"status"`
	Period          BudgetPeriod    `json:"period"`
	BudgetID        int64           `json:"budgetId"`
}

// DisplayPercentage clamps PercentageUsed to [0, 100] for progress bars.
func (p BudgetProgress) DisplayPercentage() decimal.Decimal {
	switch {
	case p.PercentageUsed.IsNegative():
		return decimal.Zero
	case p.PercentageUsed.GreaterThan(Hundred):
		return Hundred
	default:
		return p.PercentageUsed
	}
}
