package budget

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "budget-progress",
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Strict:   true,
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

type progressContext struct {
	err        error
	categories map[string]int64
	budget     model.Budget
	txns       []model.Transaction
	progress   model.BudgetProgress
}

func (pc *progressContext) categoryID(name string) int64 {
	if id, ok := pc.categories[name]; ok {
		return id
	}
	id := int64(len(pc.categories) + 1)
	pc.categories[name] = id
	return id
}

func (pc *progressContext) aBudget(period, amount, category, start string) error {
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	startDate, err := model.ParseDate(start)
	if err != nil {
		return err
	}
	pc.budget = model.Budget{
		ID:        1,
		Amount:    amt,
		Period:    model.BudgetPeriod(period),
		StartDate: startDate,
		Category:  model.CategoryRef{ID: pc.categoryID(category), Name: category},
	}
	return nil
}

func (pc *progressContext) theBudgetEndsOn(end string) error {
	endDate, err := model.ParseDate(end)
	if err != nil {
		return err
	}
	pc.budget.EndDate = &endDate
	return nil
}

func (pc *progressContext) aTransaction(kind, amount, category, date string) error {
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	d, err := model.ParseDate(date)
	if err != nil {
		return err
	}
	pc.txns = append(pc.txns, model.Transaction{
		ID:       int64(len(pc.txns) + 1),
		Amount:   amt,
		Type:     model.TransactionType(kind),
		Category: model.CategoryRef{ID: pc.categoryID(category), Name: category},
		Date:     d,
	})
	return nil
}

func (pc *progressContext) iComputeTheBudgetProgress() error {
	pc.progress, pc.err = NewCalculator().Progress(pc.budget, pc.txns)
	return nil
}

func (pc *progressContext) computed() error {
	if pc.err != nil {
		return fmt.Errorf("progress failed: %w", pc.err)
	}
	return nil
}

func equalDecimal(label string, got decimal.Decimal, want string) error {
	expected, err := decimal.NewFromString(want)
	if err != nil {
		return err
	}
	if !got.Round(2).Equal(expected) {
		return fmt.Errorf("%s: expected %s, got %s", label, want, got.String())
	}
	return nil
}

func (pc *progressContext) theSpentAmountIs(want string) error {
	if err := pc.computed(); err != nil {
		return err
	}
	return equalDecimal("spent", pc.progress.SpentAmount, want)
}

func (pc *progressContext) thePercentageUsedIs(want string) error {
	if err := pc.computed(); err != nil {
		return err
	}
	return equalDecimal("percentage", pc.progress.PercentageUsed, want)
}

func (pc *progressContext) theDisplayPercentageIs(want string) error {
	if err := pc.computed(); err != nil {
		return err
	}
	return equalDecimal("display percentage", pc.progress.DisplayPercentage(), want)
}

func (pc *progressContext) theRemainingAmountIs(want string) error {
	if err := pc.computed(); err != nil {
		return err
	}
	return equalDecimal("remaining", pc.progress.RemainingAmount, want)
}

func (pc *progressContext) theStatusIs(want string) error {
	if err := pc.computed(); err != nil {
		return err
	}
	if string(pc.progress.Status) != want {
		return fmt.Errorf("expected status %s, got %s", want, pc.progress.Status)
	}
	return nil
}

func (pc *progressContext) itFailsWithInvalidAmount() error {
	if !errors.Is(pc.err, ErrInvalidBudgetAmount) {
		return fmt.Errorf("expected ErrInvalidBudgetAmount, got %v", pc.err)
	}
	return nil
}

func initializeScenario(sc *godog.ScenarioContext) {
	pc := &progressContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*pc = progressContext{categories: map[string]int64{}}
		return ctx, nil
	})

	sc.Step(`^a (WEEKLY|MONTHLY|YEARLY) budget of (-?[\d.]+) for category "([^"]*)" starting on (\d{4}-\d{2}-\d{2})$`, pc.aBudget)
	sc.Step(`^the budget ends on (\d{4}-\d{2}-\d{2})$`, pc.theBudgetEndsOn)
	sc.Step(`^an? (EXPENSE|INCOME) of ([\d.]+) in category "([^"]*)" on (\d{4}-\d{2}-\d{2})$`, pc.aTransaction)
	sc.Step(`^I compute the budget progress$`, pc.iComputeTheBudgetProgress)
	sc.Step(`^the spent amount is (-?[\d.]+)$`, pc.theSpentAmountIs)
	sc.Step(`^the percentage used is (-?[\d.]+)$`, pc.thePercentageUsedIs)
	sc.Step(`^the display percentage is (-?[\d.]+)$`, pc.theDisplayPercentageIs)
	sc.Step(`^the remaining amount is (-?[\d.]+)$`, pc.theRemainingAmountIs)
	sc.Step(`^the status is (OK|WARNING|EXCEEDED)$`, pc.theStatusIs)
	sc.Step(`^computing the progress fails with an invalid amount error$`, pc.itFailsWithInvalidAmount)
}
