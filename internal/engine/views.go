package engine

import (
	"time"

	"github.com/armazem-erp/armazem-erp/internal/invoices"
	"github.com/armazem-erp/armazem-erp/internal/orders"
	"github.com/armazem-erp/armazem-erp/internal/shared"
	"github.com/armazem-erp/armazem-erp/internal/stock"
)

// ProductView is one page of the free-search catalog listing.
type ProductView struct {
	Rows           []stock.Product
	Pagination     shared.Pagination
	CategoryCounts map[stock.Category]int
	FilteredCount  int
}

// StockRow joins a classified product with its selection state.
type StockRow struct {
	stock.Classified
	Selected     bool
	ReorderQty   int
	SuggestedQty int
}

// StockView is one page of the reposition diagnosis listing.
type StockView struct {
	Rows          []StockRow
	Pagination    shared.Pagination
	StatusCounts  map[stock.Status]int
	FilteredCount int
	SelectedCount int
}

// RequisitionView is one page of the consolidated purchase orders listing.
type RequisitionView struct {
	Rows          []orders.Requisition
	Pagination    shared.Pagination
	StatusCounts  map[orders.DerivedStatus]int
	FilteredCount int
}

// InvoiceView is one page of the sales invoice conciliation listing with the
// period summary cards alongside.
type InvoiceView struct {
	Rows          []invoices.Invoice
	Pagination    shared.Pagination
	Summary       invoices.Summary
	Monthly       []invoices.MonthlySales
	FilteredCount int
}

func (e *Engine) categoryPredicates() []shared.Predicate[stock.Product] {
	preds := make([]shared.Predicate[stock.Product], 0, len(e.categories))
	for c := range e.categories {
		preds = append(preds, stock.CategoryPredicate(c))
	}
	return preds
}

// ProductSearchView builds the catalog listing over the full snapshot,
// services included.
func (e *Engine) ProductSearchView() ProductView {
	res := productPipeline.Apply(e.products, shared.Query[stock.Product]{
		Term:       e.search,
		Categories: e.categoryPredicates(),
		SortColumn: e.productState.SortColumn,
		Direction:  e.productState.Direction,
		Page:       e.productState.Page,
		PageSize:   e.productState.PageSize,
	})
	e.productState.Page = res.Pagination.Page
	return ProductView{
		Rows:           res.Page,
		Pagination:     res.Pagination,
		CategoryCounts: stock.CategoryCounts(e.products),
		FilteredCount:  len(res.All),
	}
}

// SortProducts reorders the catalog listing, toggling direction on repeat.
func (e *Engine) SortProducts(column string) { e.productState.sortBy(column) }

// SetProductPage moves the catalog listing to the requested page. Out of
// range values are clamped on the next view build.
func (e *Engine) SetProductPage(page int) { e.productState.Page = page }

// StockView builds the diagnosis listing. Service items never enter it, and
// the status cards count the filtered set before the card filter narrows it.
func (e *Engine) StockView() StockView {
	awaiting := e.Awaiting()
	goods := make([]stock.Product, 0, len(e.products))
	for _, p := range e.products {
		if p.IsService() {
			continue
		}
		goods = append(goods, p)
	}
	classified := stock.ClassifyAll(goods, awaiting)

	q := shared.Query[stock.Classified]{
		Term:       e.search,
		SortColumn: e.stockState.SortColumn,
		Direction:  e.stockState.Direction,
		Page:       e.stockState.Page,
		PageSize:   e.stockState.PageSize,
	}
	for c := range e.categories {
		match := stock.CategoryPredicate(c)
		q.Categories = append(q.Categories, func(row stock.Classified) bool {
			return match(row.Product)
		})
	}

	// Card counts reflect the text and category filters but not the card
	// filter itself, so every card stays visible while one is active.
	counted := stockPipeline.Apply(classified, shared.Query[stock.Classified]{
		Term:       q.Term,
		Categories: q.Categories,
	})
	counts := stock.StatusCounts(counted.All)

	pool := classified
	if want := e.stockState.StatusFilter; want != "" {
		pool = make([]stock.Classified, 0, len(classified))
		for _, c := range classified {
			if c.Status == want {
				pool = append(pool, c)
			}
		}
	}

	res := stockPipeline.Apply(pool, q)
	e.stockState.Page = res.Pagination.Page

	rows := make([]StockRow, len(res.Page))
	for i, c := range res.Page {
		qty, _ := e.selection.Quantity(c.ID)
		rows[i] = StockRow{
			Classified:   c,
			Selected:     e.selection.Contains(c.ID),
			ReorderQty:   qty,
			SuggestedQty: stock.SuggestedQty(c.Product),
		}
	}
	return StockView{
		Rows:          rows,
		Pagination:    res.Pagination,
		StatusCounts:  counts,
		FilteredCount: len(res.All),
		SelectedCount: e.selection.Len(),
	}
}

// SortStock reorders the diagnosis listing, toggling direction on repeat.
func (e *Engine) SortStock(column string) { e.stockState.sortBy(column) }

// SetStockPage moves the diagnosis listing to the requested page.
func (e *Engine) SetStockPage(page int) { e.stockState.Page = page }

// SetStockStatusFilter narrows the diagnosis listing to one status card.
// Passing the active status again clears the filter.
func (e *Engine) SetStockStatusFilter(s stock.Status) {
	if e.stockState.StatusFilter == s {
		e.stockState.StatusFilter = ""
	} else {
		e.stockState.StatusFilter = s
	}
	e.stockState.Page = 1
}

// RequisitionView builds the consolidated purchase orders listing across
// both sources.
func (e *Engine) RequisitionView() RequisitionView {
	pool := make([]orders.Requisition, 0, len(e.external)+len(e.factory))
	switch e.requisitionState.Source {
	case orders.SourceExternal:
		pool = append(pool, e.external...)
	case orders.SourceFactory:
		pool = append(pool, e.factory...)
	default:
		pool = append(pool, e.external...)
		pool = append(pool, e.factory...)
	}

	q := shared.Query[orders.Requisition]{
		Term:       e.search,
		SortColumn: e.requisitionState.SortColumn,
		Direction:  e.requisitionState.Direction,
		Page:       e.requisitionState.Page,
		PageSize:   e.requisitionState.PageSize,
	}
	if len(e.requisitionState.StatusFilters) > 0 {
		active := e.requisitionState.StatusFilters
		q.Categories = append(q.Categories, func(r orders.Requisition) bool {
			return active[r.Status]
		})
	}

	// Status cards count the source-scoped pool under the text filter only.
	counted := requisitionPipeline.Apply(pool, shared.Query[orders.Requisition]{Term: e.search})
	counts := map[orders.DerivedStatus]int{}
	for _, r := range counted.All {
		counts[r.Status]++
	}

	res := requisitionPipeline.Apply(pool, q)
	e.requisitionState.Page = res.Pagination.Page
	return RequisitionView{
		Rows:          res.Page,
		Pagination:    res.Pagination,
		StatusCounts:  counts,
		FilteredCount: len(res.All),
	}
}

// SetRequisitionSource narrows the orders listing to one source; empty shows
// both.
func (e *Engine) SetRequisitionSource(s orders.SourceType) {
	e.requisitionState.Source = s
	e.requisitionState.Page = 1
}

// ToggleRequisitionStatus flips one derived status filter.
func (e *Engine) ToggleRequisitionStatus(s orders.DerivedStatus) {
	if e.requisitionState.StatusFilters[s] {
		delete(e.requisitionState.StatusFilters, s)
	} else {
		e.requisitionState.StatusFilters[s] = true
	}
	e.requisitionState.Page = 1
}

// SortRequisitions reorders the orders listing, toggling direction on repeat.
func (e *Engine) SortRequisitions(column string) { e.requisitionState.sortBy(column) }

// SetRequisitionPage moves the orders listing to the requested page.
func (e *Engine) SetRequisitionPage(page int) { e.requisitionState.Page = page }

// InvoiceView builds the conciliation listing with the channel cards and the
// monthly breakdown over the same period filter.
func (e *Engine) InvoiceView() InvoiceView {
	st := e.invoiceState
	pool := invoices.FilterByDate(e.invoiceRows, st.DateFrom, st.DateTo)

	q := shared.Query[invoices.Invoice]{
		Term:       e.search,
		SortColumn: st.SortColumn,
		Direction:  st.Direction,
		Page:       st.Page,
		PageSize:   st.PageSize,
	}
	if st.Channel != "" {
		want := st.Channel
		q.Categories = append(q.Categories, func(inv invoices.Invoice) bool {
			return inv.Channel == want
		})
	}
	switch st.ConferenceFilter {
	case ConferenceChecked:
		q.Categories = append(q.Categories, func(inv invoices.Invoice) bool { return inv.IsChecked() })
	case ConferenceUnchecked:
		q.Categories = append(q.Categories, func(inv invoices.Invoice) bool { return !inv.IsChecked() })
	}

	res := invoicePipeline.Apply(pool, q)
	e.invoiceState.Page = res.Pagination.Page
	return InvoiceView{
		Rows:          res.Page,
		Pagination:    res.Pagination,
		Summary:       invoices.Summarize(e.invoiceRows, st.DateFrom, st.DateTo, st.Channel),
		Monthly:       invoices.MonthlyBreakdown(e.invoiceRows, st.DateFrom, st.DateTo),
		FilteredCount: len(res.All),
	}
}

// SetInvoiceDateRange bounds the conciliation listing; nil bounds are open.
func (e *Engine) SetInvoiceDateRange(from, to *time.Time) {
	e.invoiceState.DateFrom = from
	e.invoiceState.DateTo = to
	e.invoiceState.Page = 1
}

// SetInvoiceChannel narrows the listing to one sales channel; empty shows all.
func (e *Engine) SetInvoiceChannel(c invoices.Channel) {
	e.invoiceState.Channel = c
	e.invoiceState.Page = 1
}

// SetConferenceFilter narrows the listing by review status.
func (e *Engine) SetConferenceFilter(f ConferenceFilter) {
	e.invoiceState.ConferenceFilter = f
	e.invoiceState.Page = 1
}

// SortInvoices reorders the conciliation listing, toggling on repeat.
func (e *Engine) SortInvoices(column string) { e.invoiceState.sortBy(column) }

// SetInvoicePage moves the conciliation listing to the requested page.
func (e *Engine) SetInvoicePage(page int) { e.invoiceState.Page = page }
