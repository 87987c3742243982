package shared

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type row struct {
	Code string
	Name string
	Qty  float64
}

func testPipeline() Pipeline[row] {
	return Pipeline[row]{
		SearchFields: func(r row) []string { return []string{r.Code, r.Name} },
		Columns: map[string]Comparator[row]{
			"name": StringColumn(func(r row) string { return r.Name }),
			"qty":  NumberColumn(func(r row) float64 { return r.Qty }),
		},
	}
}

func TestPipelineTextAndCategoryFilter(t *testing.T) {
	items := []row{
		{Code: "A1", Name: "Parafuso Sextavado", Qty: 3},
		{Code: "B2", Name: "Porca", Qty: 1},
		{Code: "A3", Name: "parafuso allen", Qty: 7},
	}
	p := testPipeline()

	res := p.Apply(items, Query[row]{Term: "  PARAFUSO "})
	require.Len(t, res.All, 2)

	onlyA := func(r row) bool { return r.Code[0] == 'A' }
	onlyB := func(r row) bool { return r.Code[0] == 'B' }

	res = p.Apply(items, Query[row]{Categories: []Predicate[row]{onlyB}})
	require.Len(t, res.All, 1)
	require.Equal(t, "Porca", res.All[0].Name)

	// Selected categories combine with OR, and AND with the term.
	res = p.Apply(items, Query[row]{Term: "parafuso", Categories: []Predicate[row]{onlyA, onlyB}})
	require.Len(t, res.All, 2)
}

func TestPipelineSortDirections(t *testing.T) {
	items := []row{
		{Name: "ITEM 10", Qty: 2},
		{Name: "ITEM 2", Qty: 5},
		{Name: "item 1", Qty: 0},
	}
	p := testPipeline()

	res := p.Apply(items, Query[row]{SortColumn: "name", Direction: SortAsc})
	require.Equal(t, []string{"item 1", "ITEM 2", "ITEM 10"}, names(res.All))

	res = p.Apply(items, Query[row]{SortColumn: "qty", Direction: SortDesc})
	require.Equal(t, 5.0, res.All[0].Qty)
	require.Equal(t, 0.0, res.All[2].Qty)
}

func TestPipelinePageClamp(t *testing.T) {
	items := make([]row, 37)
	for i := range items {
		items[i] = row{Name: fmt.Sprintf("row %03d", i)}
	}
	p := testPipeline()

	res := p.Apply(items, Query[row]{SortColumn: "name", Page: 10, PageSize: 15})
	require.Equal(t, 3, res.Pagination.TotalPages)
	require.Equal(t, 3, res.Pagination.Page)
	require.Len(t, res.Page, 7)

	res = p.Apply(items, Query[row]{Page: 0, PageSize: 15})
	require.Equal(t, 1, res.Pagination.Page)
	require.Len(t, res.Page, 15)
}

func TestPipelineEmptyCollection(t *testing.T) {
	p := testPipeline()
	res := p.Apply(nil, Query[row]{Page: 3, PageSize: 15})
	require.Empty(t, res.All)
	require.Empty(t, res.Page)
	require.Equal(t, 1, res.Pagination.Page)
	require.Equal(t, 1, res.Pagination.TotalPages)
}

func names(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}
