package ledger

// Pager tracks the current page of a list whose length can change.
type Pager struct {
	page       int
	size       int
	totalItems int
}

// NewPager starts on page 1. A size below 1 is treated as 1.
func NewPager(size int) *Pager {
	return &Pager{page: 1, size: max(size, 1)}
}

// Page returns the current 1-indexed page.
func (p *Pager) Page() int { return p.page }

// Size returns the page size.
func (p *Pager) Size() int { return p.size }

// TotalItems returns the length of the list being paged.
func (p *Pager) TotalItems() int { return p.totalItems }

// TotalPages returns the number of pages.
func (p *Pager) TotalPages() int { return TotalPages(p.totalItems, p.size) }

// SetTotal records a new list length, pulling the page back inside range.
func (p *Pager) SetTotal(n int) {
	p.totalItems = max(n, 0)
	if last := p.TotalPages(); p.page > last {
		p.page = max(last, 1)
	}
}

// CanGoNext reports whether a later page exists.
func (p *Pager) CanGoNext() bool { return p.page < p.TotalPages() }

// CanGoPrevious reports whether an earlier page exists.
func (p *Pager) CanGoPrevious() bool { return p.page > 1 }

// Next advances one page if possible.
func (p *Pager) Next() bool {
	if !p.CanGoNext() {
		return false
	}
	p.page++
	return true
}

// Previous goes back one page if possible.
func (p *Pager) Previous() bool {
	if !p.CanGoPrevious() {
		return false
	}
	p.page--
	return true
}

// Reset returns to page 1.
func (p *Pager) Reset() { p.page = 1 }
