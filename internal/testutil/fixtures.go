package testutil

import (
	"time"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

// Fixture credentials accepted by FakeAPI.
const (
	TestEmail    = "ana@example.com"
	TestPassword = "correct-horse"
	TestToken    = "test-token"
)

var fixtureTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// TestUser is the account FakeAPI signs in.
func TestUser() model.User {
	return model.User{
		ID:        1,
		Name:      "Ana Souza",
		Email:     TestEmail,
		Role:      model.RoleUser,
		CreatedAt: fixtureTime,
		UpdatedAt: fixtureTime,
	}
}

// Categories returns one income and three expense categories.
func Categories() []model.Category {
	return []model.Category{
		{ID: 1, Name: "Salary", Type: model.TransactionTypeIncome, Color: "#4CAF50", Icon: "💰", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		{ID: 2, Name: "Food", Type: model.TransactionTypeExpense, Color: "#FF5722", Icon: "🍔", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		{ID: 3, Name: "Housing", Type: model.TransactionTypeExpense, Color: "#3F51B5", Icon: "🏠", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		{ID: 4, Name: "Transport", Type: model.TransactionTypeExpense, Color: "#009688", Icon: "🚌", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
	}
}

func categoryRef(id int64) model.CategoryRef {
	for _, c := range Categories() {
		if c.ID == id {
			return c.Ref()
		}
	}
	return model.CategoryRef{ID: id}
}

func fixtureTxn(id int64, desc, amount string, kind model.TransactionType, categoryID int64, date string) model.Transaction {
	return model.Transaction{
		ID:          id,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Type:        kind,
		Category:    categoryRef(categoryID),
		Date:        model.MustParseDate(date),
		CreatedAt:   fixtureTime,
		UpdatedAt:   fixtureTime,
	}
}

// Transactions returns a January 2024 ledger.
func Transactions() []model.Transaction {
	return []model.Transaction{
		fixtureTxn(1, "January salary", "5000.00", model.TransactionTypeIncome, 1, "2024-01-05"),
		fixtureTxn(2, "Supermarket", "500.25", model.TransactionTypeExpense, 2, "2024-01-06"),
		fixtureTxn(3, "Rent", "1500.00", model.TransactionTypeExpense, 3, "2024-01-07"),
		fixtureTxn(4, "Restaurant", "250.25", model.TransactionTypeExpense, 2, "2024-01-15"),
		fixtureTxn(5, "Bus pass", "80.00", model.TransactionTypeExpense, 4, "2024-01-20"),
		fixtureTxn(6, "Freelance", "800.00", model.TransactionTypeIncome, 1, "2024-01-25"),
	}
}

// Budgets returns a monthly food budget and a monthly transport budget.
func Budgets() []model.Budget {
	return []model.Budget{
		{
			ID:        1,
			Amount:    decimal.RequireFromString("1000"),
			Period:    model.PeriodMonthly,
			StartDate: model.MustParseDate("2024-01-01"),
			Category:  categoryRef(2),
			CreatedAt: fixtureTime,
			UpdatedAt: fixtureTime,
		},
		{
			ID:        2,
			Amount:    decimal.RequireFromString("75"),
			Period:    model.PeriodMonthly,
			StartDate: model.MustParseDate("2024-01-01"),
			Category:  categoryRef(4),
			CreatedAt: fixtureTime,
			UpdatedAt: fixtureTime,
		},
	}
}
