package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/armazem-erp/armazem-erp/internal/ingest"
	"github.com/armazem-erp/armazem-erp/internal/invoices"
	"github.com/armazem-erp/armazem-erp/internal/orders"
	"github.com/armazem-erp/armazem-erp/internal/shared"
	"github.com/armazem-erp/armazem-erp/internal/stock"
)

type fakeSource struct {
	snap  ingest.Snapshot
	err   error
	calls int
	force []bool
}

func (f *fakeSource) Fetch(_ context.Context, force bool) (ingest.Snapshot, error) {
	f.calls++
	f.force = append(f.force, force)
	if f.err != nil {
		return ingest.Snapshot{}, f.err
	}
	return f.snap, nil
}

type fakeWriter struct {
	committed map[string]invoices.ConciliationFlag
	err       error
}

func (w *fakeWriter) CommitConciliation(_ context.Context, invoiceID string, target invoices.ConciliationFlag) error {
	if w.err != nil {
		return w.err
	}
	if w.committed == nil {
		w.committed = map[string]invoices.ConciliationFlag{}
	}
	w.committed[invoiceID] = target
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func f64(v float64) *float64 { return &v }

func orderTable() orders.RawTable {
	return orders.RawTable{
		{"Requisição", "Situação", "Data Pedido", "Codigo Service", "Quantidade Pedido", "Descrição"},
		{"R1", "OK", "01/03/2024", "X", "2", "Parafuso M4"},
		{"R1", "ok", "02/03/2024", "X", "1", "Parafuso M5"},
		{"R1", "pendente", "01/03/2024", "X", "4", "Porca M4"},
	}
}

func factoryTable() orders.RawTable {
	return orders.RawTable{
		{"Requisição", "Situação", "Data Pedido", "Codigo Service", "Quantidade Pedido", "Descrição"},
		{"R2", "aguardando", "05/03/2024", "X", "3", "Arruela"},
	}
}

func testSnapshot() ingest.Snapshot {
	return ingest.Snapshot{
		Products: []stock.Product{
			{ID: "p1", Code: "X", Description: "Parafuso", CurrentStock: 2, MinStock: f64(10), SalesLast90Days: 20, Tags: []string{"Estoque - Consumo"}},
			{ID: "p2", Code: "Y", Description: "Arruela", CurrentStock: 50, MaxStock: f64(30)},
			{ID: "p3", Code: "700123", Description: "Frete", CurrentStock: 0},
		},
		ExternalOrders: orderTable(),
		FactoryOrders:  factoryTable(),
		Invoices: []invoices.Invoice{
			{ID: "n1", Number: "1001", IssueDate: "10/03/2024", Customer: "Cliente A", Channel: invoices.ChannelBling, Value: decimal.RequireFromString("150.50"), Conciliated: invoices.FlagUnchecked},
			{ID: "n2", Number: "1002", IssueDate: "12/03/2024", Customer: "Cliente B", Channel: invoices.ChannelMercadoLivre, Value: decimal.RequireFromString("99.90"), Conciliated: invoices.FlagChecked},
		},
		FetchedAt: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func newTestEngine(t *testing.T) (*Engine, *fakeSource, *fakeWriter) {
	t.Helper()
	src := &fakeSource{snap: testSnapshot()}
	writer := &fakeWriter{}
	svc := invoices.NewService(writer, nil, testLogger())
	e := New(src, svc, testLogger())
	require.NoError(t, e.Refresh(context.Background(), true))
	return e, src, writer
}

func TestRefreshAggregatesBothSources(t *testing.T) {
	e, src, _ := newTestEngine(t)

	require.Equal(t, 1, src.calls)
	require.True(t, src.force[0])
	require.Empty(t, e.SchemaIssues())

	awaiting := e.Awaiting()
	require.Equal(t, map[string]int{"X": 7}, awaiting)

	view := e.RequisitionView()
	require.Len(t, view.Rows, 2)
	byCode := map[string]orders.Requisition{}
	for _, r := range view.Rows {
		byCode[r.Code] = r
	}
	require.Equal(t, orders.StatusPartiallyFulfilled, byCode["R1"].Status)
	require.Equal(t, orders.StatusPending, byCode["R2"].Status)
	require.Equal(t, "01/03/2024", byCode["R1"].OrderDate)
}

func TestRefreshTransportFailureKeepsSnapshot(t *testing.T) {
	e, src, _ := newTestEngine(t)

	src.err = errors.New("upstream down")
	require.Error(t, e.Refresh(context.Background(), true))

	require.Equal(t, map[string]int{"X": 7}, e.Awaiting())
	require.Len(t, e.RequisitionView().Rows, 2)
}

func TestRefreshSchemaIssueEmptiesSource(t *testing.T) {
	e, src, _ := newTestEngine(t)

	src.snap.FactoryOrders = orders.RawTable{
		{"Requisição", "Data Pedido"},
		{"R9", "01/01/2024"},
	}
	require.NoError(t, e.Refresh(context.Background(), true))

	require.Len(t, e.SchemaIssues(), 1)
	var schemaErr *orders.SchemaError
	require.ErrorAs(t, e.SchemaIssues()[0], &schemaErr)
	require.Equal(t, orders.SourceFactory, schemaErr.Source)

	require.Equal(t, map[string]int{"X": 4}, e.Awaiting())
}

func TestStockViewExcludesServicesAndCountsCards(t *testing.T) {
	e, _, _ := newTestEngine(t)

	view := e.StockView()
	require.Equal(t, 2, view.FilteredCount)
	for _, row := range view.Rows {
		require.False(t, row.IsService())
	}

	require.Equal(t, 1, view.StatusCounts[stock.StatusLow])
	require.Equal(t, 1, view.StatusCounts[stock.StatusExcess])

	low := view.Rows[1]
	if view.Rows[0].Code == "X" {
		low = view.Rows[0]
	}
	require.Equal(t, 7, low.Awaiting)
	require.Equal(t, float64(9), low.Effective)
	require.Equal(t, stock.StatusLow, low.Status)
}

func TestStockStatusFilterKeepsCardCounts(t *testing.T) {
	e, _, _ := newTestEngine(t)

	e.SetStockStatusFilter(stock.StatusExcess)
	view := e.StockView()
	require.Equal(t, 1, view.FilteredCount)
	require.Equal(t, "Y", view.Rows[0].Code)
	require.Equal(t, 1, view.StatusCounts[stock.StatusLow])

	e.SetStockStatusFilter(stock.StatusExcess)
	require.Equal(t, 2, e.StockView().FilteredCount)
}

func TestGlobalSearchSharedByProductAndStockViews(t *testing.T) {
	e, _, _ := newTestEngine(t)

	e.SetSearch("parafuso")
	require.Equal(t, 1, e.ProductSearchView().FilteredCount)
	require.Equal(t, 1, e.StockView().FilteredCount)

	e.SetSearch("")
	require.Equal(t, 3, e.ProductSearchView().FilteredCount)
}

func TestCategoryFilterNarrowsCatalog(t *testing.T) {
	e, _, _ := newTestEngine(t)

	e.ToggleCategory(stock.CategoryConsumption)
	view := e.ProductSearchView()
	require.Equal(t, 1, view.FilteredCount)
	require.Equal(t, "X", view.Rows[0].Code)

	e.ToggleCategory(stock.CategoryConsumption)
	require.Equal(t, 3, e.ProductSearchView().FilteredCount)
}

func TestSortTogglesDirectionOnRepeat(t *testing.T) {
	e, _, _ := newTestEngine(t)

	e.SortProducts(ColCode)
	require.Equal(t, shared.SortAsc, e.productState.Direction)
	e.SortProducts(ColCode)
	require.Equal(t, shared.SortDesc, e.productState.Direction)
	e.SortProducts(ColDescription)
	require.Equal(t, shared.SortAsc, e.productState.Direction)
}

func TestRequisitionSourceFilter(t *testing.T) {
	e, _, _ := newTestEngine(t)

	e.SetRequisitionSource(orders.SourceFactory)
	view := e.RequisitionView()
	require.Equal(t, 1, view.FilteredCount)
	require.Equal(t, "R2", view.Rows[0].Code)

	e.SetRequisitionSource("")
	require.Equal(t, 2, e.RequisitionView().FilteredCount)
}

func TestRequisitionStatusFilter(t *testing.T) {
	e, _, _ := newTestEngine(t)

	e.ToggleRequisitionStatus(orders.StatusPending)
	view := e.RequisitionView()
	require.Equal(t, 1, view.FilteredCount)
	require.Equal(t, "R2", view.Rows[0].Code)

	require.Equal(t, 1, view.StatusCounts[orders.StatusPartiallyFulfilled])
	require.Equal(t, 1, view.StatusCounts[orders.StatusPending])
}

func TestInvoiceViewFilters(t *testing.T) {
	e, _, _ := newTestEngine(t)

	view := e.InvoiceView()
	require.Equal(t, 2, view.FilteredCount)
	require.Equal(t, "n2", view.Rows[0].ID)

	e.SetInvoiceChannel(invoices.ChannelBling)
	view = e.InvoiceView()
	require.Equal(t, 1, view.FilteredCount)
	require.Equal(t, "n1", view.Rows[0].ID)
	var bling invoices.ChannelTally
	for _, ct := range view.Summary.Channels {
		if ct.Channel == invoices.ChannelBling {
			bling = ct
		}
	}
	require.Equal(t, 1, bling.Count)

	e.SetInvoiceChannel("")
	e.SetConferenceFilter(ConferenceUnchecked)
	view = e.InvoiceView()
	require.Equal(t, 1, view.FilteredCount)
	require.Equal(t, "n1", view.Rows[0].ID)

	e.SetConferenceFilter(ConferenceAll)
	from := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	e.SetInvoiceDateRange(&from, nil)
	view = e.InvoiceView()
	require.Equal(t, 1, view.FilteredCount)
	require.Equal(t, "n2", view.Rows[0].ID)
}

func TestConciliateMutatesRowAfterCommit(t *testing.T) {
	e, _, writer := newTestEngine(t)

	state, err := e.Conciliate(context.Background(), "n1", invoices.FlagChecked, "maria")
	require.NoError(t, err)
	require.Equal(t, invoices.StateCommitted, state)
	require.Equal(t, invoices.FlagChecked, writer.committed["n1"])

	e.SetConferenceFilter(ConferenceChecked)
	require.Equal(t, 2, e.InvoiceView().FilteredCount)
}

func TestConciliateRollbackKeepsRow(t *testing.T) {
	e, _, writer := newTestEngine(t)
	writer.err = errors.New("write refused")

	state, err := e.Conciliate(context.Background(), "n1", invoices.FlagChecked, "maria")
	require.Error(t, err)
	require.Equal(t, invoices.StateRolledBack, state)

	e.SetConferenceFilter(ConferenceUnchecked)
	view := e.InvoiceView()
	require.Equal(t, 1, view.FilteredCount)
	require.Equal(t, invoices.FlagUnchecked, view.Rows[0].Conciliated)
}

func TestConciliateUnknownInvoice(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.Conciliate(context.Background(), "missing", invoices.FlagChecked, "maria")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSelectionLifecycle(t *testing.T) {
	e, _, _ := newTestEngine(t)

	require.NoError(t, e.ToggleSelect("p1"))
	require.Equal(t, 1, e.SelectedCount())

	report := e.ReportView()
	require.Len(t, report, 1)
	require.Equal(t, "X", report[0].Product.Code)
	require.Equal(t, 7, report[0].Awaiting)
	require.Equal(t, 28, report[0].Qty)

	e.SetReorderQty("p1", 12)
	require.Equal(t, 12, e.ReportView()[0].Qty)

	require.NoError(t, e.ToggleSelect("p1"))
	require.Zero(t, e.SelectedCount())
	require.Empty(t, e.ReportView())

	require.ErrorIs(t, e.ToggleSelect("ghost"), shared.ErrNotFound)
}

func TestReportSkipsProductsGoneFromSnapshot(t *testing.T) {
	e, src, _ := newTestEngine(t)

	require.NoError(t, e.ToggleSelect("p1"))
	src.snap.Products = src.snap.Products[1:]
	require.NoError(t, e.Refresh(context.Background(), true))

	require.Empty(t, e.ReportView())
	require.Equal(t, 1, e.SelectedCount())
}
