package api

import (
	"slices"
	"time"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/dgraph-io/ristretto/v2"
)

// categoryCache holds category lists keyed by type filter. It stores and
// hands out copies, so callers may modify what they get.
type categoryCache struct {
	cache *ristretto.Cache[string, []model.Category]
	ttl   time.Duration
}

func newCategoryCache(ttl time.Duration) (*categoryCache, error) {
	if ttl <= 0 {
		return nil, nil
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, []model.Category]{
		NumCounters:        1000,
		MaxCost:            100,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &categoryCache{cache: cache, ttl: ttl}, nil
}

func categoryKey(kind model.TransactionType) string {
	if kind == "" {
		return "categories:all"
	}
	return "categories:" + string(kind)
}

func (c *categoryCache) get(kind model.TransactionType) ([]model.Category, bool) {
	if c == nil {
		return nil, false
	}
	cached, ok := c.cache.Get(categoryKey(kind))
	if !ok {
		return nil, false
	}
	return slices.Clone(cached), true
}

func (c *categoryCache) set(kind model.TransactionType, categories []model.Category) {
	if c == nil {
		return
	}
	c.cache.SetWithTTL(categoryKey(kind), slices.Clone(categories), 1, c.ttl)
	c.cache.Wait()
}

func (c *categoryCache) clear() {
	if c == nil {
		return
	}
	c.cache.Clear()
}

func (c *categoryCache) close() {
	if c != nil {
		c.cache.Close()
	}
}
