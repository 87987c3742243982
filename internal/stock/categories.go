package stock

// Category is a filter-bar bucket over the product catalog.
type Category string

const (
	CategoryConsumption Category = "consumo"
	CategoryFactory     Category = "fabrica"
	CategoryExternal    Category = "terceiros"
	CategoryOnDemand    Category = "demanda"
	CategoryServices    Category = "servicos"
	CategoryBlankTags   Category = "em_branco"
)

// Tag-group labels as they appear in the catalog source.
const (
	tagConsumption = "Estoque - Consumo"
	tagFactory     = "Estoque - Fábrica"
	tagExternal    = "Estoque - Terceiros"
	tagOnDemand    = "Sob Demanda - Fábrica"
)

// Categories lists every filter bucket in display order.
func Categories() []Category {
	return []Category{
		CategoryConsumption,
		CategoryFactory,
		CategoryExternal,
		CategoryOnDemand,
		CategoryServices,
		CategoryBlankTags,
	}
}

// CategoryPredicate returns the membership test for a category; unknown
// categories match nothing.
func CategoryPredicate(c Category) func(Product) bool {
	switch c {
	case CategoryConsumption:
		return func(p Product) bool { return p.HasTag(tagConsumption) }
	case CategoryFactory:
		return func(p Product) bool { return p.HasTag(tagFactory) }
	case CategoryExternal:
		return func(p Product) bool { return p.HasTag(tagExternal) }
	case CategoryOnDemand:
		return func(p Product) bool { return p.HasTag(tagOnDemand) }
	case CategoryServices:
		return func(p Product) bool { return p.IsService() }
	case CategoryBlankTags:
		return func(p Product) bool { return p.HasBlankTagGroup() }
	default:
		return func(Product) bool { return false }
	}
}

// CategoryCounts tallies catalog membership per category for the filter bar.
func CategoryCounts(products []Product) map[Category]int {
	counts := make(map[Category]int, 6)
	for _, c := range Categories() {
		match := CategoryPredicate(c)
		for _, p := range products {
			if match(p) {
				counts[c]++
			}
		}
	}
	return counts
}
