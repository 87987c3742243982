package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/armazem-erp/armazem-erp/internal/ingest"
	"github.com/armazem-erp/armazem-erp/internal/invoices"
	"github.com/armazem-erp/armazem-erp/internal/orders"
	"github.com/armazem-erp/armazem-erp/internal/shared"
	"github.com/armazem-erp/armazem-erp/internal/stock"
)

// SnapshotSource yields a full snapshot of the upstream sources.
type SnapshotSource interface {
	Fetch(ctx context.Context, force bool) (ingest.Snapshot, error)
}

// Engine holds one session's snapshot and view state. All module-level state
// of the pages lives here instead, so concurrent sessions do not share
// filters, selections or in-flight conciliations. Engine itself is not safe
// for concurrent use; callers serialize access.
type Engine struct {
	source       SnapshotSource
	conciliation *invoices.Service
	logger       *slog.Logger

	products     []stock.Product
	external     []orders.Requisition
	factory      []orders.Requisition
	invoiceRows  []invoices.Invoice
	refreshedAt  time.Time
	schemaIssues []error

	search     string
	categories map[stock.Category]bool

	productState     ViewState
	stockState       stockViewState
	requisitionState requisitionViewState
	invoiceState     invoiceViewState

	selection *stock.Selection
}

// New builds an engine with the default view state of a fresh session.
func New(source SnapshotSource, conciliation *invoices.Service, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		source:       source,
		conciliation: conciliation,
		logger:       logger,
		categories:   map[stock.Category]bool{},
		productState: ViewState{
			SortColumn: ColDescription,
			Direction:  shared.SortAsc,
			Page:       1,
			PageSize:   shared.DefaultPageSize,
		},
		stockState: stockViewState{
			ViewState: ViewState{
				SortColumn: ColDescription,
				Direction:  shared.SortAsc,
				Page:       1,
				PageSize:   shared.DefaultPageSize,
			},
		},
		requisitionState: requisitionViewState{
			ViewState: ViewState{
				SortColumn: ColOrderDate,
				Direction:  shared.SortDesc,
				Page:       1,
				PageSize:   shared.DefaultPageSize,
			},
			StatusFilters: map[orders.DerivedStatus]bool{},
		},
		invoiceState: invoiceViewState{
			ViewState: ViewState{
				SortColumn: ColIssueDate,
				Direction:  shared.SortDesc,
				Page:       1,
				PageSize:   shared.DefaultPageSize,
			},
			ConferenceFilter: ConferenceAll,
		},
		selection: stock.NewSelection(),
	}
}

// Refresh pulls a fresh snapshot and replaces every collection wholesale.
// A table with missing required headers yields an empty requisition list for
// that source and is reported through SchemaIssues; only transport failures
// abort the refresh and leave the previous snapshot in place.
func (e *Engine) Refresh(ctx context.Context, force bool) error {
	snap, err := e.source.Fetch(ctx, force)
	if err != nil {
		return err
	}

	e.schemaIssues = e.schemaIssues[:0]

	external, err := orders.Normalize(snap.ExternalOrders, orders.SourceExternal)
	if err != nil {
		var schemaErr *orders.SchemaError
		if !errors.As(err, &schemaErr) {
			return err
		}
		e.logger.Warn("order table rejected", "source", schemaErr.Source, "missing", schemaErr.Missing)
		e.schemaIssues = append(e.schemaIssues, err)
	}
	factory, err := orders.Normalize(snap.FactoryOrders, orders.SourceFactory)
	if err != nil {
		var schemaErr *orders.SchemaError
		if !errors.As(err, &schemaErr) {
			return err
		}
		e.logger.Warn("order table rejected", "source", schemaErr.Source, "missing", schemaErr.Missing)
		e.schemaIssues = append(e.schemaIssues, err)
	}

	e.products = snap.Products
	e.external = external
	e.factory = factory
	e.invoiceRows = snap.Invoices
	e.refreshedAt = snap.FetchedAt

	e.logger.Info("snapshot refreshed",
		"products", len(e.products),
		"external_requisitions", len(e.external),
		"factory_requisitions", len(e.factory),
		"invoices", len(e.invoiceRows),
	)
	return nil
}

// RefreshedAt reports when the current snapshot was fetched; zero before the
// first successful refresh.
func (e *Engine) RefreshedAt() time.Time { return e.refreshedAt }

// SchemaIssues lists the per-source schema rejections of the last refresh.
func (e *Engine) SchemaIssues() []error { return e.schemaIssues }

// Awaiting aggregates the pending quantities across both order sources.
func (e *Engine) Awaiting() map[string]int {
	return orders.AwaitingArrival(e.external, e.factory)
}

// SetSearch applies the global search term shared by the product and stock
// views and rewinds them to the first page.
func (e *Engine) SetSearch(term string) {
	e.search = term
	e.productState.Page = 1
	e.stockState.Page = 1
}

// ToggleCategory flips one category filter of the global filter bar.
func (e *Engine) ToggleCategory(c stock.Category) {
	if e.categories[c] {
		delete(e.categories, c)
	} else {
		e.categories[c] = true
	}
	e.productState.Page = 1
	e.stockState.Page = 1
}

// ClearCategories resets the category filter bar.
func (e *Engine) ClearCategories() {
	e.categories = map[stock.Category]bool{}
	e.productState.Page = 1
	e.stockState.Page = 1
}

// Conciliate flips the conference flag of one invoice of the current
// snapshot through the write boundary. The in-memory row only changes after
// the write commits.
func (e *Engine) Conciliate(ctx context.Context, invoiceID string, target invoices.ConciliationFlag, actor string) (invoices.CommitState, error) {
	if e.conciliation == nil {
		return invoices.StateIdle, errors.New("engine: conciliation writer not configured")
	}
	for i := range e.invoiceRows {
		if e.invoiceRows[i].ID == invoiceID {
			return e.conciliation.Conciliate(ctx, &e.invoiceRows[i], target, actor)
		}
	}
	return invoices.StateIdle, shared.ErrNotFound
}
