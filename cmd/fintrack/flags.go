package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/service"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewUserError(fmt.Sprintf("%q is not a valid id", s), common.ErrInvalidInput)
	}
	return id, nil
}

// parseType accepts income/expense in any case. Empty means any type.
func parseType(s string) (model.TransactionType, error) {
	if s == "" {
		return "", nil
	}
	t := model.TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", common.NewUserError(fmt.Sprintf("unknown type %q, want income or expense", s), common.ErrInvalidInput)
	}
	return t, nil
}

func parsePeriod(s string) (model.BudgetPeriod, error) {
	if s == "" {
		return "", nil
	}
	p := model.BudgetPeriod(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", common.NewUserError(fmt.Sprintf("unknown period %q, want weekly, monthly or yearly", s), common.ErrInvalidInput)
	}
	return p, nil
}

// parseOptionalDate returns nil for an empty string.
func parseOptionalDate(s string) (*model.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("%q is not a date, want YYYY-MM-DD", s), common.ErrInvalidInput)
	}
	return &d, nil
}

// resolveCategory accepts a category id or a case-insensitive name. A name
// is looked up among categories of kind when kind is set.
func resolveCategory(ctx context.Context, categories service.CategoryAPI, value string, kind model.TransactionType) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if id, err := strconv.ParseInt(value, 10, 64); err == nil {
		return id, nil
	}

	list, err := categories.ListCategories(ctx, kind)
	if err != nil {
		return 0, fmt.Errorf("failed to look up category: %w", err)
	}
	for _, c := range list {
		if strings.EqualFold(c.Name, value) {
			return c.ID, nil
		}
	}
	return 0, common.NewUserError(fmt.Sprintf("no category named %q", value), common.ErrNotFound)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
