// Package budget computes how much of each budget has been spent.
package budget

import (
	"fmt"
	"time"

	"github.com/Veraticus/fintrack/internal/model"
)

// Rollover is how far a budget window extends from its start date for each period.
type Rollover struct {
	WeeklyDays    int
	MonthlyMonths int
	YearlyYears   int
}

// DefaultRollover is one week, one calendar month or one calendar year.
func DefaultRollover() Rollover {
	return Rollover{WeeklyDays: 7, MonthlyMonths: 1, YearlyYears: 1}
}

// PeriodEnd returns the last day of the window that begins at start. The
// window includes that day.
func (r Rollover) PeriodEnd(start time.Time, period model.BudgetPeriod) (time.Time, error) {
	switch period {
	case model.PeriodWeekly:
		return start.AddDate(0, 0, r.WeeklyDays), nil
	case model.PeriodMonthly:
		return addMonths(start, r.MonthlyMonths), nil
	case model.PeriodYearly:
		return addMonths(start, 12*r.YearlyYears), nil
	default:
		return time.Time{}, fmt.Errorf("unknown budget period %q", period)
	}
}

// addMonths adds n calendar months, clamping the day to the target month's
// length so Jan 31 + 1 month is Feb 28 (or 29).
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return first.AddDate(0, 0, d-1)
}

// Window is a half-open date range [Start, End). End is the day after the
// budget's last day.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// through returns the window covering start through last, both included.
func through(start, last time.Time) Window {
	return Window{Start: start, End: last.AddDate(0, 0, 1)}
}

// LastDay returns the final calendar day inside the window.
func (w Window) LastDay() model.Date {
	return model.NewDate(w.End.AddDate(0, 0, -1))
}
