package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tells income and expenses apart.
type TransactionType string

const (
	// TransactionTypeIncome is money coming in.
	TransactionTypeIncome TransactionType = "INCOME"
	// TransactionTypeExpense is money going out.
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// CategoryRef is the category summary embedded in transactions and budgets.
type CategoryRef struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
	ID    int64  `json:"id"`
}

// Transaction is a single income or expense entry owned by the API.
type Transaction struct {
	Date        Date            `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
	Notes       string          `json:"notes,omitempty"`
	Category    CategoryRef     `json:"category"`
	ID          int64           `json:"id"`
	Recurring   bool            `json:"recurring"`
}

// CategoryID returns the id of the category the transaction belongs to.
func (t Transaction) CategoryID() int64 {
	return t.Category.ID
}

// IsExpense reports whether the transaction is an expense.
func (t Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// TransactionRequest is the payload for creating or updating a transaction.
type TransactionRequest struct {
	Date        Date            `json:"date" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"positive"`
	Description string          `json:"description" validate:"notblank,max=255"`
	Type        TransactionType `json:"type" validate:"oneof=INCOME EXPENSE"`
	Notes       string          `json:"notes,omitempty" validate:"max=500"`
	CategoryID  int64           `json:"categoryId" validate:"gt=0"`
	Recurring   bool            `json:"recurring"`
}

// TransactionFilter narrows a transaction listing. Zero values mean "any".
type TransactionFilter struct {
	StartDate  *Date           `json:"startDate,omitempty"`
	EndDate    *Date           `json:"endDate,omitempty"`
	Search     string          `json:"search,omitempty"`
	Type       TransactionType `json:"type,omitempty"`
	CategoryID int64           `json:"categoryId,omitempty"`
}

// IsZero reports whether the filter matches everything.
func (f TransactionFilter) IsZero() bool {
	return f.Search == "" && f.Type == "" && f.CategoryID == 0 && f.StartDate == nil && f.EndDate == nil
}

// PeriodRange is a start/end pair as reported by summary endpoints.
type PeriodRange struct {
	StartDate Date `json:"startDate"`
	EndDate   Date `json:"endDate"`
}

// TransactionSummary aggregates income and expenses over a period.
type TransactionSummary struct {
	Period           PeriodRange     `json:"period"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transactionCount"`
}

// PaginatedTransactions is one server-side page of transactions.
// Page numbers on the wire are 0-indexed.
type PaginatedTransactions struct {
	Content       []Transaction `json:"content"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalElements int           `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
	Last          bool          `json:"last"`
}
