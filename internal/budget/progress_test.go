package budget

import (
	"testing"
	"time"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func monthlyBudget(id int64, amount string, categoryID int64) model.Budget {
	return model.Budget{
		ID:        id,
		Amount:    dec(amount),
		Period:    model.PeriodMonthly,
		StartDate: model.MustParseDate("2024-01-01"),
		Category:  model.CategoryRef{ID: categoryID, Name: "Food", Color: "#FF5722"},
	}
}

func expense(id int64, amount string, categoryID int64, date string) model.Transaction {
	return model.Transaction{
		ID:       id,
		Amount:   dec(amount),
		Type:     model.TransactionTypeExpense,
		Category: model.CategoryRef{ID: categoryID},
		Date:     model.MustParseDate(date),
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		pct  string
		want model.BudgetStatus
	}{
		{pct: "0", want: model.StatusOK},
		{pct: "79.99", want: model.StatusOK},
		{pct: "80", want: model.StatusWarning},
		{pct: "99.999", want: model.StatusWarning},
		{pct: "100", want: model.StatusExceeded},
		{pct: "250", want: model.StatusExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.pct, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(dec(tt.pct)))
		})
	}
}

func TestProgress_UnderBudget(t *testing.T) {
	calc := NewCalculator()
	txns := []model.Transaction{
		expense(1, "500.25", 3, "2024-01-05"),
		expense(2, "250.25", 3, "2024-01-31"),
		expense(3, "99", 3, "2024-02-02"), // after the last day
		expense(4, "40", 9, "2024-01-10"), // other category
		{ID: 5, Amount: dec("1000"), Type: model.TransactionTypeIncome, Category: model.CategoryRef{ID: 3}, Date: model.MustParseDate("2024-01-10")},
	}

	p, err := calc.Progress(monthlyBudget(1, "1000", 3), txns)
	require.NoError(t, err)

	assert.True(t, dec("750.50").Equal(p.SpentAmount), p.SpentAmount.String())
	assert.True(t, dec("75.05").Equal(p.PercentageUsed), p.PercentageUsed.String())
	assert.True(t, dec("249.50").Equal(p.RemainingAmount))
	assert.Equal(t, model.StatusOK, p.Status)
	assert.Equal(t, "2024-01-01", p.StartDate.String())
	require.NotNil(t, p.EndDate)
	assert.Equal(t, "2024-02-01", p.EndDate.String())
	assert.Equal(t, "Food", p.CategoryName)
}

func TestProgress_Exceeded(t *testing.T) {
	p, err := NewCalculator().Progress(monthlyBudget(1, "300", 3), []model.Transaction{
		expense(1, "320", 3, "2024-01-20"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusExceeded, p.Status)
	assert.True(t, dec("-20").Equal(p.RemainingAmount))
	assert.Equal(t, "106.67", p.PercentageUsed.StringFixed(2))
	assert.True(t, model.Hundred.Equal(p.DisplayPercentage()))
}

func TestProgress_InvalidAmount(t *testing.T) {
	for _, amount := range []string{"0", "-10"} {
		_, err := NewCalculator().Progress(monthlyBudget(1, amount, 3), nil)
		assert.ErrorIs(t, err, ErrInvalidBudgetAmount)
	}
}

func TestProgress_NoTransactions(t *testing.T) {
	p, err := NewCalculator().Progress(monthlyBudget(1, "100", 3), nil)
	require.NoError(t, err)
	assert.True(t, p.SpentAmount.IsZero())
	assert.True(t, p.PercentageUsed.IsZero())
	assert.Equal(t, model.StatusOK, p.Status)
}

func TestWindow(t *testing.T) {
	end := model.MustParseDate("2024-03-15")

	tests := []struct {
		budget    model.Budget
		name      string
		wantStart string
		wantLast  string
	}{
		{
			name:      "weekly",
			budget:    model.Budget{Period: model.PeriodWeekly, StartDate: model.MustParseDate("2024-01-01")},
			wantStart: "2024-01-01",
			wantLast:  "2024-01-08",
		},
		{
			name:      "monthly clamps short months",
			budget:    model.Budget{Period: model.PeriodMonthly, StartDate: model.MustParseDate("2024-01-31")},
			wantStart: "2024-01-31",
			wantLast:  "2024-02-29",
		},
		{
			name:      "yearly",
			budget:    model.Budget{Period: model.PeriodYearly, StartDate: model.MustParseDate("2024-01-01")},
			wantStart: "2024-01-01",
			wantLast:  "2025-01-01",
		},
		{
			name:      "explicit end date is inclusive",
			budget:    model.Budget{Period: model.PeriodMonthly, StartDate: model.MustParseDate("2024-01-01"), EndDate: &end},
			wantStart: "2024-01-01",
			wantLast:  "2024-03-15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewCalculator().Window(tt.budget)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, model.NewDate(w.Start).String())
			assert.Equal(t, tt.wantLast, w.LastDay().String())
		})
	}
}

func TestWindow_ComputedEndMatchesExplicitEnd(t *testing.T) {
	txns := []model.Transaction{
		expense(1, "5", 1, "2024-01-31"),
		expense(2, "10", 1, "2024-02-01"),
		expense(3, "20", 1, "2024-02-02"),
	}

	open := monthlyBudget(1, "100", 1)
	computed, err := NewCalculator().Progress(open, txns)
	require.NoError(t, err)

	explicit := open
	end := model.MustParseDate("2024-02-01")
	explicit.EndDate = &end
	given, err := NewCalculator().Progress(explicit, txns)
	require.NoError(t, err)

	assert.Equal(t, "15", computed.SpentAmount.String())
	assert.Equal(t, "2024-02-01", computed.EndDate.String())
	assert.True(t, computed.SpentAmount.Equal(given.SpentAmount))
	assert.Equal(t, given.EndDate.String(), computed.EndDate.String())
}

func TestWindow_UnknownPeriod(t *testing.T) {
	_, err := NewCalculator().Window(model.Budget{Period: "DAILY", StartDate: model.MustParseDate("2024-01-01")})
	assert.Error(t, err)
}

func TestWindow_CustomRollover(t *testing.T) {
	calc := NewCalculator(WithRollover(Rollover{WeeklyDays: 14, MonthlyMonths: 3, YearlyYears: 1}))

	w, err := calc.Window(model.Budget{Period: model.PeriodWeekly, StartDate: model.MustParseDate("2024-01-01")})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", w.LastDay().String())

	w, err = calc.Window(model.Budget{Period: model.PeriodMonthly, StartDate: model.MustParseDate("2024-01-01")})
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", w.LastDay().String())
}

func TestWindow_RollForward(t *testing.T) {
	now := time.Date(2024, 4, 10, 15, 0, 0, 0, time.UTC)
	calc := NewCalculator(WithRollForward(true), WithClock(func() time.Time { return now }))

	w, err := calc.Window(model.Budget{Period: model.PeriodMonthly, StartDate: model.MustParseDate("2024-01-01")})
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", model.NewDate(w.Start).String())
	assert.Equal(t, "2024-05-01", w.LastDay().String())

	// Budgets starting in the future stay put.
	w, err = calc.Window(model.Budget{Period: model.PeriodMonthly, StartDate: model.MustParseDate("2024-06-01")})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", model.NewDate(w.Start).String())
}

func TestProgressAll(t *testing.T) {
	budgets := []model.Budget{
		monthlyBudget(1, "1000", 1),
		monthlyBudget(2, "100", 2),
		monthlyBudget(3, "0", 3),
	}
	txns := []model.Transaction{
		expense(1, "100", 1, "2024-01-02"),
		expense(2, "90", 2, "2024-01-02"),
	}

	out, err := NewCalculator().ProgressAll(budgets, txns)
	assert.ErrorIs(t, err, ErrInvalidBudgetAmount)
	require.Len(t, out, 2)
	assert.Equal(t, int64(2), out[0].BudgetID)
	assert.Equal(t, model.StatusWarning, out[0].Status)
	assert.Equal(t, int64(1), out[1].BudgetID)
}
