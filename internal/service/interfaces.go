// Package service defines the interfaces shared between fintrack's components.
package service

import (
	"context"

	"github.com/Veraticus/fintrack/internal/model"
)

// TokenStore reads the persisted bearer token.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
}

// SessionStore persists the authenticated session.
type SessionStore interface {
	TokenStore
	SetToken(ctx context.Context, token string) error
	User(ctx context.Context) (*model.User, error)
	SetUser(ctx context.Context, user *model.User) error
	ClearSession(ctx context.Context) error
}

// ThemeStore persists the theme preference.
type ThemeStore interface {
	Theme(ctx context.Context) (model.Theme, error)
	SetTheme(ctx context.Context, theme model.Theme) error
}

// PreferenceStore is everything the local preference database offers.
type PreferenceStore interface {
	SessionStore
	ThemeStore
	RemoveToken(ctx context.Context) error
	RemoveUser(ctx context.Context) error
	ClearAll(ctx context.Context) error
	Close() error
}

// AuthAPI is the subset of the API client the session manager drives.
type AuthAPI interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	CurrentUser(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.User, error)
}

// TransactionAPI lists and mutates transactions.
type TransactionAPI interface {
	ListTransactions(ctx context.Context, filter model.TransactionFilter, page, size int) (*model.PaginatedTransactions, error)
	ListAllTransactions(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (*model.Transaction, error)
	CreateTransaction(ctx context.Context, req model.TransactionRequest) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, req model.TransactionRequest) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	TransactionSummary(ctx context.Context, start, end *model.Date) (*model.TransactionSummary, error)
}

// CategoryAPI lists and mutates categories.
type CategoryAPI interface {
	ListCategories(ctx context.Context, kind model.TransactionType) ([]model.Category, error)
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	CreateCategory(ctx context.Context, req model.CategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, id int64, req model.CategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// BudgetAPI lists and mutates budgets.
type BudgetAPI interface {
	ListBudgets(ctx context.Context, period model.BudgetPeriod) ([]model.Budget, error)
	GetBudget(ctx context.Context, id int64) (*model.Budget, error)
	CreateBudget(ctx context.Context, req model.BudgetRequest) (*model.Budget, error)
	UpdateBudget(ctx context.Context, id int64, req model.BudgetRequest) (*model.Budget, error)
	DeleteBudget(ctx context.Context, id int64) error
	BudgetProgress(ctx context.Context) ([]model.BudgetProgress, error)
}

// ReportAPI reads the server-side reports.
type ReportAPI interface {
	MonthSummary(ctx context.Context) (*model.MonthSummary, error)
	CategorySummary(ctx context.Context, month string) ([]model.CategorySummary, error)
	MonthlyEvolution(ctx context.Context, months int) ([]model.MonthlyEvolution, error)
	FinancialOverview(ctx context.Context) (*model.FinancialOverview, error)
}

// API is the complete fintrack REST surface.
type API interface {
	AuthAPI
	TransactionAPI
	CategoryAPI
	BudgetAPI
	ReportAPI
}
