// Package paging implements a generic in-memory collection view: predicate
// filtering in insertion order followed by fixed-size page slicing.
package paging

// DefaultPageSize matches the offer screens.
const DefaultPageSize = 6

// Page is one slice of a filtered collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"page"`
	Size       int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }

// Filter returns the items that satisfy pred, preserving order. A nil pred keeps everything.
func Filter[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred == nil || pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// TotalPages returns ceil(count/size), never less than 1.
func TotalPages(count, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if count <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

// Clamp forces page into [1, TotalPages(count, size)].
func Clamp(page, count, size int) int {
	if page < 1 {
		return 1
	}
	if last := TotalPages(count, size); page > last {
		return last
	}
	return page
}

// Paginate slices items into the requested page after clamping it.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	page = Clamp(page, len(items), size)
	start := (page - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	return Page[T]{
		Items:      items[start:end],
		Number:     page,
		Size:       size,
		TotalItems: len(items),
		TotalPages: TotalPages(len(items), size),
	}
}
