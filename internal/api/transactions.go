package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Veraticus/fintrack/internal/model"
)

// DefaultSort orders transaction listings newest first.
const DefaultSort = "date,desc"

// ListAllPageSize is the page size ListAllTransactions requests.
const ListAllPageSize = 100

func filterQuery(f model.TransactionFilter) url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.CategoryID != 0 {
		q.Set("categoryId", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.StartDate != nil && !f.StartDate.IsZero() {
		q.Set("startDate", f.StartDate.String())
	}
	if f.EndDate != nil && !f.EndDate.IsZero() {
		q.Set("endDate", f.EndDate.String())
	}
	return q
}

// ListTransactions fetches one 0-indexed server page.
func (c *Client) ListTransactions(ctx context.Context, filter model.TransactionFilter, page, size int) (*model.PaginatedTransactions, error) {
	q := filterQuery(filter)
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sort", DefaultSort)

	var out model.PaginatedTransactions
	if err := c.do(ctx, request{method: http.MethodGet, path: "/transactions", query: q, out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAllTransactions walks every server page.
func (c *Client) ListAllTransactions(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error) {
	var all []model.Transaction
	for page := 0; ; page++ {
		resp, err := c.ListTransactions(ctx, filter, page, ListAllPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Content...)
		if resp.Last || len(resp.Content) == 0 || page+1 >= resp.TotalPages {
			return all, nil
		}
	}
}

// GetTransaction fetches one transaction.
func (c *Client) GetTransaction(ctx context.Context, id int64) (*model.Transaction, error) {
	var out model.Transaction
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/transactions", id), out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTransaction adds a transaction.
func (c *Client) CreateTransaction(ctx context.Context, req model.TransactionRequest) (*model.Transaction, error) {
	var out model.Transaction
	if err := c.do(ctx, request{method: http.MethodPost, path: "/transactions", body: req, out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTransaction replaces a transaction.
func (c *Client) UpdateTransaction(ctx context.Context, id int64, req model.TransactionRequest) (*model.Transaction, error) {
	var out model.Transaction
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/transactions", id), body: req, out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTransaction removes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/transactions", id), auth: true})
}

// TransactionSummary totals a date range. Nil bounds are left to the server.
func (c *Client) TransactionSummary(ctx context.Context, start, end *model.Date) (*model.TransactionSummary, error) {
	q := filterQuery(model.TransactionFilter{StartDate: start, EndDate: end})

	var out model.TransactionSummary
	if err := c.do(ctx, request{method: http.MethodGet, path: "/transactions/summary", query: q, out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}
