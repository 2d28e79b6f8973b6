package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Veraticus/fintrack/internal/model"
)

// ListCategories lists categories, optionally of one type. Results are
// cached until a category is changed or the TTL passes.
func (c *Client) ListCategories(ctx context.Context, kind model.TransactionType) ([]model.Category, error) {
	if cached, ok := c.categories.get(kind); ok {
		slog.Debug("category cache hit", "type", kind)
		return cached, nil
	}

	var q url.Values
	if kind != "" {
		q = url.Values{"type": {string(kind)}}
	}

	var out []model.Category
	if err := c.do(ctx, request{method: http.MethodGet, path: "/categories", query: q, out: &out, auth: true}); err != nil {
		return nil, err
	}
	c.categories.set(kind, out)
	return out, nil
}

// GetCategory fetches one category.
func (c *Client) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	var out model.Category
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/categories", id), out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, req model.CategoryRequest) (*model.Category, error) {
	var out model.Category
	if err := c.do(ctx, request{method: http.MethodPost, path: "/categories", body: req, out: &out, auth: true}); err != nil {
		return nil, err
	}
	c.categories.clear()
	return &out, nil
}

// UpdateCategory replaces a category.
func (c *Client) UpdateCategory(ctx context.Context, id int64, req model.CategoryRequest) (*model.Category, error) {
	var out model.Category
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/categories", id), body: req, out: &out, auth: true}); err != nil {
		return nil, err
	}
	c.categories.clear()
	return &out, nil
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	if err := c.do(ctx, request{method: http.MethodDelete, path: idPath("/categories", id), auth: true}); err != nil {
		return err
	}
	c.categories.clear()
	return nil
}
