package application

import (
	"strings"
	"sync"
)

// DefaultPageSize matches the server-rendered tables.
const DefaultPageSize = 10

// ListQuery is the client's view parameters over a collection: one free
// text term, any number of categorical filters, and a page cursor.
// Queries are values; the With helpers return modified copies so a
// stored query is never mutated behind a caller's back.
type ListQuery struct {
	Search   string
	Filters  map[string]string
	Page     int
	PageSize int
}

func NewListQuery() ListQuery {
	return ListQuery{
		Filters:  map[string]string{},
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// WithSearch replaces the text term and rewinds to the first page, so a
// narrowed result set is never viewed through a stale page number.
func (q ListQuery) WithSearch(term string) ListQuery {
	q.Search = term
	q.Page = 1
	return q
}

// WithFilter sets one categorical filter and rewinds to the first page.
// An empty value or "all" deactivates the filter.
func (q ListQuery) WithFilter(name, value string) ListQuery {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	filters[name] = value
	q.Filters = filters
	q.Page = 1
	return q
}

func (q ListQuery) WithPage(page int) ListQuery {
	q.Page = page
	return q
}

func (q ListQuery) pageSize() int {
	if q.PageSize > 0 {
		return q.PageSize
	}
	return DefaultPageSize
}

func filterActive(value string) bool {
	return value != "" && value != "all"
}

// Fields describes how query terms read an item: Text lists the fields
// the search term is matched against, Categorical maps filter names to
// the field each one compares with.
type Fields[T any] struct {
	Text        func(item T) []string
	Categorical map[string]func(item T) string
}

// Collection is the authoritative snapshot of a server-side list. Every
// refresh replaces the items wholesale; a failed refresh keeps the
// previous snapshot so the view never degrades to an empty list on a
// transient error.
type Collection[T any] struct {
	mu      sync.RWMutex
	items   []T
	loaded  bool
	lastErr error
}

func (c *Collection[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.loaded = true
	c.lastErr = nil
}

// Fail records a refresh failure without touching the current items.
func (c *Collection[T]) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
}

func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Collection[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Apply derives a view of the collection under the query. It is a pure
// read: applying the same query twice yields the same view, and source
// order is preserved so pagination is stable across refreshes.
func Apply[T any](c *Collection[T], fields Fields[T], q ListQuery) View[T] {
	items := c.Items()
	matched := make([]T, 0, len(items))
	for _, item := range items {
		if matches(item, fields, q) {
			matched = append(matched, item)
		}
	}
	return View[T]{items: matched, query: q}
}

func matches[T any](item T, fields Fields[T], q ListQuery) bool {
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		if fields.Text == nil {
			return false
		}
		found := false
		for _, field := range fields.Text(item) {
			if strings.Contains(strings.ToLower(field), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for name, want := range q.Filters {
		if !filterActive(want) {
			continue
		}
		extract, ok := fields.Categorical[name]
		if !ok {
			continue
		}
		if extract(item) != want {
			return false
		}
	}
	return true
}

// View is one filtered, paginated rendering of a collection. The page
// number is clamped on read, so a query pointing past the end after the
// result set shrank still lands on a valid page.
type View[T any] struct {
	items []T
	query ListQuery
}

func (v View[T]) Total() int {
	return len(v.items)
}

// TotalPages is at least 1. An empty result set still has a single,
// empty page rather than zero pages.
func (v View[T]) TotalPages() int {
	size := v.query.pageSize()
	pages := (len(v.items) + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

func (v View[T]) Page() int {
	page := v.query.Page
	if page < 1 {
		return 1
	}
	if last := v.TotalPages(); page > last {
		return last
	}
	return page
}

func (v View[T]) PageItems() []T {
	size := v.query.pageSize()
	start := (v.Page() - 1) * size
	if start >= len(v.items) {
		return nil
	}
	end := start + size
	if end > len(v.items) {
		end = len(v.items)
	}
	return v.items[start:end]
}

func (v View[T]) HasPrev() bool {
	return v.Page() > 1
}

func (v View[T]) HasNext() bool {
	return v.Page() < v.TotalPages()
}

// Range reports the 1-based positions of the current page within the
// filtered set, for "Showing X-Y of N" footers. Both are 0 when the
// result set is empty.
func (v View[T]) Range() (first, last int) {
	items := v.PageItems()
	if len(items) == 0 {
		return 0, 0
	}
	size := v.query.pageSize()
	first = (v.Page()-1)*size + 1
	return first, first + len(items) - 1
}
