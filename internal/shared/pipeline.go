package shared

import "sort"

// SortDirection selects ascending or descending order.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Comparator orders two values; negative means a before b.
type Comparator[T any] func(a, b T) int

// Predicate reports whether a value belongs to a category.
type Predicate[T any] func(T) bool

// Pipeline is the reusable filter/sort/paginate engine shared by the product,
// requisition and invoice listings. SearchFields designates the fields the
// free-text term matches against; Columns maps sortable column names to
// comparators.
type Pipeline[T any] struct {
	SearchFields func(T) []string
	Columns      map[string]Comparator[T]
}

// Query describes one listing request.
type Query[T any] struct {
	Term       string
	Categories []Predicate[T]
	SortColumn string
	Direction  SortDirection
	Page       int
	PageSize   int
}

// Result carries the filtered and sorted collection plus the requested page.
type Result[T any] struct {
	All        []T
	Page       []T
	Pagination Pagination
}

// Apply filters items by the query's text term AND the OR-combination of its
// category predicates (an empty selection matches everything), sorts by the
// named column and slices the requested page. The input slice is not mutated.
func (p Pipeline[T]) Apply(items []T, q Query[T]) Result[T] {
	filtered := make([]T, 0, len(items))
	term := FoldBR(q.Term)
	for _, item := range items {
		if term != "" && !p.matchesTerm(item, term) {
			continue
		}
		if !matchesAnyCategory(item, q.Categories) {
			continue
		}
		filtered = append(filtered, item)
	}

	if cmp, ok := p.Columns[q.SortColumn]; ok {
		desc := q.Direction == SortDesc
		sort.SliceStable(filtered, func(i, j int) bool {
			c := cmp(filtered[i], filtered[j])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	pg := NewPagination(q.Page, q.PageSize, len(filtered))
	start, end := pg.Slice()
	return Result[T]{All: filtered, Page: filtered[start:end], Pagination: pg}
}

func (p Pipeline[T]) matchesTerm(item T, foldedTerm string) bool {
	if p.SearchFields == nil {
		return true
	}
	for _, field := range p.SearchFields(item) {
		if ContainsFoldBR(field, foldedTerm) {
			return true
		}
	}
	return false
}

func matchesAnyCategory[T any](item T, categories []Predicate[T]) bool {
	if len(categories) == 0 {
		return true
	}
	for _, match := range categories {
		if match != nil && match(item) {
			return true
		}
	}
	return false
}

// StringColumn builds a locale-aware comparator over a text field.
func StringColumn[T any](key func(T) string) Comparator[T] {
	return func(a, b T) int {
		return CompareBR(key(a), key(b))
	}
}

// NumberColumn builds a comparator over a numeric field. Callers coalesce
// missing values to 0 in the key function.
func NumberColumn[T any](key func(T) float64) Comparator[T] {
	return func(a, b T) int {
		va, vb := key(a), key(b)
		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		default:
			return 0
		}
	}
}
