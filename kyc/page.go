package kyc

// Page is one page of a listing plus the total row count behind it.
type Page[T any] struct {
	Items []T
	Total int
}

// Empty reports whether the page carries no rows.
func (p Page[T]) Empty() bool {
	return len(p.Items) == 0
}
