package stock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuggestedQty(t *testing.T) {
	cases := []struct {
		name    string
		product Product
		want    int
	}{
		{"cap not reached", Product{SalesLast90Days: 20, MinStock: f(5), MaxStock: f(30), CurrentStock: 10}, 15},
		{"capped by maximum", Product{SalesLast90Days: 50, MinStock: f(5), MaxStock: f(20), CurrentStock: 0}, 20},
		{"never negative", Product{SalesLast90Days: 0, MinStock: f(1), CurrentStock: 50}, 0},
		{"no thresholds", Product{SalesLast90Days: 12, CurrentStock: 4}, 8},
		{"rounded", Product{SalesLast90Days: 10.6, CurrentStock: 0}, 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, SuggestedQty(tc.product))
		})
	}
}

func TestSelectionLifecycle(t *testing.T) {
	p := Product{ID: "1", SalesLast90Days: 20, MinStock: f(5), MaxStock: f(30), CurrentStock: 10}
	sel := NewSelection()

	sel.Add(p)
	qty, ok := sel.Quantity("1")
	require.True(t, ok)
	require.Equal(t, 15, qty)

	// Overrides stick until the product leaves the selection.
	sel.SetQuantity("1", 99)
	qty, _ = sel.Quantity("1")
	require.Equal(t, 99, qty)

	// Re-adding while selected keeps the override.
	sel.Add(p)
	qty, _ = sel.Quantity("1")
	require.Equal(t, 99, qty)

	// Eviction discards the override; re-selection recomputes.
	sel.Remove("1")
	require.False(t, sel.Contains("1"))
	sel.Add(p)
	qty, _ = sel.Quantity("1")
	require.Equal(t, 15, qty)
}

func TestSelectionSetQuantityRules(t *testing.T) {
	sel := NewSelection()
	sel.SetQuantity("ghost", 5) // not selected, ignored
	require.False(t, sel.Contains("ghost"))

	sel.Add(Product{ID: "2"})
	sel.SetQuantity("2", -3)
	qty, _ := sel.Quantity("2")
	require.Equal(t, 0, qty)
}

func TestSelectionOrderAndClear(t *testing.T) {
	sel := NewSelection()
	sel.Add(Product{ID: "b"})
	sel.Add(Product{ID: "a"})
	sel.Add(Product{ID: "c"})
	sel.Remove("a")
	require.Equal(t, []string{"b", "c"}, sel.IDs())
	require.Equal(t, 2, sel.Len())

	sel.Clear()
	require.Zero(t, sel.Len())
	require.Empty(t, sel.IDs())
}
