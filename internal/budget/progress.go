package budget

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

// ErrInvalidBudgetAmount is returned for budgets whose amount is not positive.
var ErrInvalidBudgetAmount = errors.New("budget amount must be greater than zero")

// WarningThreshold is the percentage at which a budget turns WARNING.
var WarningThreshold = decimal.NewFromInt(80)

// maxRollForward bounds how many windows RollForward will skip.
const maxRollForward = 10000

// Calculator derives budget progress from transactions.
type Calculator struct {
	now         func() time.Time
	rollover    Rollover
	rollForward bool
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithRollover overrides the window lengths.
func WithRollover(r Rollover) Option {
	return func(c *Calculator) { c.rollover = r }
}

// WithRollForward moves open-ended budgets to the window containing now.
func WithRollForward(enabled bool) Option {
	return func(c *Calculator) { c.rollForward = enabled }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) { c.now = now }
}

// NewCalculator returns a Calculator with the default rollover.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{rollover: DefaultRollover(), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Window returns the date range a budget covers. Both the start date and
// the end date, explicit or computed from the period, are included.
func (c *Calculator) Window(b model.Budget) (Window, error) {
	start := b.StartDate.Time
	if b.EndDate != nil && !b.EndDate.IsZero() {
		return through(start, b.EndDate.Time), nil
	}

	last, err := c.rollover.PeriodEnd(start, b.Period)
	if err != nil {
		return Window{}, err
	}
	w := through(start, last)

	if !c.rollForward {
		return w, nil
	}

	// Each later window starts where the previous period ended.
	today := model.NewDate(c.now()).Time
	for i := 0; i < maxRollForward && !today.Before(w.End); i++ {
		next := last
		last, err = c.rollover.PeriodEnd(next, b.Period)
		if err != nil {
			return Window{}, err
		}
		w = through(next, last)
	}
	return w, nil
}

// Status classifies a raw percentage.
func Status(percentage decimal.Decimal) model.BudgetStatus {
	switch {
	case percentage.GreaterThanOrEqual(model.Hundred):
		return model.StatusExceeded
	case percentage.GreaterThanOrEqual(WarningThreshold):
		return model.StatusWarning
	default:
		return model.StatusOK
	}
}

// Spent sums the budget category's expenses that fall inside w.
func Spent(categoryID int64, w Window, txns []model.Transaction) decimal.Decimal {
	spent := decimal.Zero
	for _, t := range txns {
		if !t.IsExpense() || t.CategoryID() != categoryID {
			continue
		}
		if w.Contains(t.Date.Time) {
			spent = spent.Add(t.Amount)
		}
	}
	return spent
}

// Progress computes spend against one budget.
func (c *Calculator) Progress(b model.Budget, txns []model.Transaction) (model.BudgetProgress, error) {
	if !b.Amount.IsPositive() {
		return model.BudgetProgress{}, fmt.Errorf("budget %d: %w", b.ID, ErrInvalidBudgetAmount)
	}

	w, err := c.Window(b)
	if err != nil {
		return model.BudgetProgress{}, fmt.Errorf("budget %d: %w", b.ID, err)
	}

	spent := Spent(b.CategoryID(), w, txns)
	percentage := spent.Div(b.Amount).Mul(model.Hundred)
	end := w.LastDay()

	return model.BudgetProgress{
		BudgetID:        b.ID,
		CategoryName:    b.Category.Name,
		CategoryColor:   b.Category.Color,
		BudgetAmount:    b.Amount,
		SpentAmount:     spent,
		RemainingAmount: b.Amount.Sub(spent),
		PercentageUsed:  percentage,
		Status:          Status(percentage),
		Period:          b.Period,
		StartDate:       model.NewDate(w.Start),
		EndDate:         &end,
	}, nil
}

// ProgressAll computes every budget, highest usage first. Budgets that
// cannot be computed are left out and reported in the joined error.
func (c *Calculator) ProgressAll(budgets []model.Budget, txns []model.Transaction) ([]model.BudgetProgress, error) {
	out := make([]model.BudgetProgress, 0, len(budgets))
	var errs []error

	for _, b := range budgets {
		p, err := c.Progress(b, txns)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PercentageUsed.GreaterThan(out[j].PercentageUsed)
	})

	return out, errors.Join(errs...)
}
