package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Veraticus/fintrack/internal/model"
)

// DefaultEvolutionMonths is how far back MonthlyEvolution looks by default.
const DefaultEvolutionMonths = 12

// MonthSummary returns the current month's totals.
func (c *Client) MonthSummary(ctx context.Context) (*model.MonthSummary, error) {
	var out model.MonthSummary
	if err := c.do(ctx, request{method: http.MethodGet, path: "/reports/month-summary", out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CategorySummary returns per-category spending for month (YYYY-MM), or
// the current month when month is "".
func (c *Client) CategorySummary(ctx context.Context, month string) ([]model.CategorySummary, error) {
	var q url.Values
	if month != "" {
		q = url.Values{"month": {month}}
	}

	var out []model.CategorySummary
	if err := c.do(ctx, request{method: http.MethodGet, path: "/reports/category-summary", query: q, out: &out, auth: true}); err != nil {
		return nil, err
	}
	return out, nil
}

// MonthlyEvolution returns income and expense for the last months.
func (c *Client) MonthlyEvolution(ctx context.Context, months int) ([]model.MonthlyEvolution, error) {
	if months <= 0 {
		months = DefaultEvolutionMonths
	}
	q := url.Values{"months": {strconv.Itoa(months)}}

	var out []model.MonthlyEvolution
	if err := c.do(ctx, request{method: http.MethodGet, path: "/reports/monthly-evolution", query: q, out: &out, auth: true}); err != nil {
		return nil, err
	}
	return out, nil
}

// FinancialOverview returns the dashboard summary.
func (c *Client) FinancialOverview(ctx context.Context) (*model.FinancialOverview, error) {
	var out model.FinancialOverview
	if err := c.do(ctx, request{method: http.MethodGet, path: "/reports/overview", out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}
