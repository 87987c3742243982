package stock

import "math"

// SuggestedQty computes the reorder estimate for a product: ninety-day sales
// plus the minimum threshold, less what is already on hand, capped so the
// order never pushes stock past the maximum. Never negative.
func SuggestedQty(p Product) int {
	minStock := 0.0
	if p.MinStock != nil {
		minStock = *p.MinStock
	}
	maxStock := 0.0
	if p.MaxStock != nil {
		maxStock = *p.MaxStock
	}
	raw := (p.SalesLast90Days + minStock) - p.CurrentStock
	if maxStock > 0 {
		if cap := maxStock - p.CurrentStock; raw > cap {
			raw = cap
		}
	}
	return int(math.Round(math.Max(0, raw)))
}

// Selection is the working set of products picked for a replenishment
// requisition. Each product's quantity is estimated once when it enters the
// selection and may be overridden afterwards; leaving the selection evicts
// the entry, so re-selecting recomputes from the formula.
type Selection struct {
	order      []string
	quantities map[string]int
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{quantities: make(map[string]int)}
}

// Add puts the product into the selection, computing its suggested quantity.
// Adding an already-selected product keeps the stored quantity.
func (s *Selection) Add(p Product) {
	if _, ok := s.quantities[p.ID]; ok {
		return
	}
	s.quantities[p.ID] = SuggestedQty(p)
	s.order = append(s.order, p.ID)
}

// Remove evicts the product and its quantity override.
func (s *Selection) Remove(productID string) {
	if _, ok := s.quantities[productID]; !ok {
		return
	}
	delete(s.quantities, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// SetQuantity overrides the stored quantity for a selected product. Negative
// values are stored as 0; unselected products are ignored.
func (s *Selection) SetQuantity(productID string, qty int) {
	if _, ok := s.quantities[productID]; !ok {
		return
	}
	if qty < 0 {
		qty = 0
	}
	s.quantities[productID] = qty
}

// Quantity returns the stored quantity for a selected product.
func (s *Selection) Quantity(productID string) (int, bool) {
	qty, ok := s.quantities[productID]
	return qty, ok
}

// Contains reports membership.
func (s *Selection) Contains(productID string) bool {
	_, ok := s.quantities[productID]
	return ok
}

// IDs returns selected product ids in insertion order.
func (s *Selection) IDs() []string {
	return append([]string(nil), s.order...)
}

// Len returns the selection size.
func (s *Selection) Len() int {
	return len(s.quantities)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.order = nil
	s.quantities = make(map[string]int)
}
