package paging

// View holds a fetched collection plus the current predicate and page.
// Changing the predicate resets to page 1.
type View[T any] struct {
	items []T
	pred  func(T) bool
	page  int
	size  int
}

// NewView wraps items with the given page size.
func NewView[T any](items []T, size int) *View[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &View[T]{items: items, page: 1, size: size}
}

// SetItems replaces the backing collection and re-clamps the page.
func (v *View[T]) SetItems(items []T) {
	v.items = items
	v.page = Clamp(v.page, len(v.filtered()), v.size)
}

// SetPredicate installs pred and returns to page 1.
func (v *View[T]) SetPredicate(pred func(T) bool) {
	v.pred = pred
	v.page = 1
}

// Clear removes the predicate and returns to page 1.
func (v *View[T]) Clear() {
	v.pred = nil
	v.page = 1
}

// Goto moves to page, clamped to the valid range.
func (v *View[T]) Goto(page int) {
	v.page = Clamp(page, len(v.filtered()), v.size)
}

// Current returns the visible page.
func (v *View[T]) Current() Page[T] {
	return Paginate(v.filtered(), v.page, v.size)
}

// Strip returns the page-number strip for the visible page.
func (v *View[T]) Strip() []Link {
	p := v.Current()
	return Strip(p.Number, p.TotalPages)
}

func (v *View[T]) filtered() []T {
	return Filter(v.items, v.pred)
}
