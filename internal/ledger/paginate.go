package ledger

import (
	"errors"
	"fmt"
)

// ErrInvalidPage is returned for a page or page size below 1.
var ErrInvalidPage = errors.New("invalid page")

// Page is one slice of a list plus the numbers needed to navigate it.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// TotalPages is ceil(n/size), or 0 for an empty list.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate returns the 1-indexed page of items. Pages past the end are empty.
func Paginate[T any](items []T, page, pageSize int) (Page[T], error) {
	if pageSize < 1 {
		return Page[T]{}, fmt.Errorf("%w: page size %d", ErrInvalidPage, pageSize)
	}
	if page < 1 {
		return Page[T]{}, fmt.Errorf("%w: page %d", ErrInvalidPage, page)
	}

	n := len(items)
	start := min((page-1)*pageSize, n)
	end := min(start+pageSize, n)

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: n,
		TotalPages: TotalPages(n, pageSize),
	}, nil
}
