package stock

// EffectiveStock is the current stock plus the quantity already requested but
// not yet arrived.
func EffectiveStock(p Product, awaiting int) float64 {
	return p.CurrentStock + float64(awaiting)
}

// Classify buckets a product by stock health. Rules apply in priority order;
// the Low check precedes the negative-stock check, so a product below its
// minimum with negative current stock still classifies as Low.
func Classify(p Product, awaiting int) Status {
	effective := EffectiveStock(p, awaiting)
	switch {
	case p.MinStock != nil && effective <= *p.MinStock:
		return StatusLow
	case p.MaxStock != nil && effective > *p.MaxStock:
		return StatusExcess
	case p.CurrentStock < 0:
		return StatusUndefined
	default:
		return StatusOK
	}
}

// Classified pairs a product with its awaiting quantity and derived status.
type Classified struct {
	Product
	Awaiting  int
	Effective float64
	Status    Status
}

// ClassifyAll joins products with the awaiting-arrival map, keyed by product
// code.
func ClassifyAll(products []Product, awaiting map[string]int) []Classified {
	out := make([]Classified, 0, len(products))
	for _, p := range products {
		qty := awaiting[p.Code]
		out = append(out, Classified{
			Product:   p,
			Awaiting:  qty,
			Effective: EffectiveStock(p, qty),
			Status:    Classify(p, qty),
		})
	}
	return out
}

// StatusCounts tallies classified products per bucket for the diagnosis
// cards.
func StatusCounts(items []Classified) map[Status]int {
	counts := make(map[Status]int, 4)
	for _, item := range items {
		counts[item.Status]++
	}
	return counts
}
