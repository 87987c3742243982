package engine

import (
	"github.com/armazem-erp/armazem-erp/internal/shared"
	"github.com/armazem-erp/armazem-erp/internal/stock"
)

// ReportRow is one line of the reorder report.
type ReportRow struct {
	Product  stock.Product
	Awaiting int
	Qty      int
}

// ToggleSelect adds or removes a product from the reorder selection. Adding
// seeds the quantity from the reposition rule once; later edits stick.
func (e *Engine) ToggleSelect(productID string) error {
	if e.selection.Contains(productID) {
		e.selection.Remove(productID)
		return nil
	}
	for _, p := range e.products {
		if p.ID == productID {
			e.selection.Add(p)
			return nil
		}
	}
	return shared.ErrNotFound
}

// SetReorderQty overrides the quantity of a selected product.
func (e *Engine) SetReorderQty(productID string, qty int) {
	e.selection.SetQuantity(productID, qty)
}

// ClearSelection empties the reorder selection.
func (e *Engine) ClearSelection() { e.selection.Clear() }

// SelectedCount reports how many products are selected.
func (e *Engine) SelectedCount() int { return e.selection.Len() }

// ReportView assembles the reorder report in selection order. Products that
// left the snapshot since being selected are skipped.
func (e *Engine) ReportView() []ReportRow {
	awaiting := e.Awaiting()
	byID := make(map[string]stock.Product, len(e.products))
	for _, p := range e.products {
		byID[p.ID] = p
	}

	rows := make([]ReportRow, 0, e.selection.Len())
	for _, id := range e.selection.IDs() {
		p, ok := byID[id]
		if !ok {
			continue
		}
		qty, _ := e.selection.Quantity(id)
		rows = append(rows, ReportRow{
			Product:  p,
			Awaiting: awaiting[p.Code],
			Qty:      qty,
		})
	}
	return rows
}
