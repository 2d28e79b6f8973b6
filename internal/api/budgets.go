package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Veraticus/fintrack/internal/model"
)

// ListBudgets lists budgets, optionally of one period.
func (c *Client) ListBudgets(ctx context.Context, period model.BudgetPeriod) ([]model.Budget, error) {
	var q url.Values
	if period != "" {
		q = url.Values{"period": {string(period)}}
	}

	var out []model.Budget
	if err := c.do(ctx, request{method: http.MethodGet, path: "/budgets", query: q, out: &out, auth: true}); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBudget fetches one budget.
func (c *Client) GetBudget(ctx context.Context, id int64) (*model.Budget, error) {
	var out model.Budget
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/budgets", id), out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBudget adds a budget.
func (c *Client) CreateBudget(ctx context.Context, req model.BudgetRequest) (*model.Budget, error) {
	var out model.Budget
	if err := c.do(ctx, request{method: http.MethodPost, path: "/budgets", body: req, out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBudget replaces a budget.
func (c *Client) UpdateBudget(ctx context.Context, id int64, req model.BudgetRequest) (*model.Budget, error) {
	var out model.Budget
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/budgets", id), body: req, out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBudget removes a budget.
func (c *Client) DeleteBudget(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/budgets", id), auth: true})
}

// BudgetProgress returns the server's progress for every budget.
func (c *Client) BudgetProgress(ctx context.Context) ([]model.BudgetProgress, error) {
	var out []model.BudgetProgress
	if err := c.do(ctx, request{method: http.MethodGet, path: "/budgets/progress", out: &out, auth: true}); err != nil {
		return nil, err
	}
	return out, nil
}
