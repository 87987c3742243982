package engine

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/armazem-erp/armazem-erp/internal/invoices"
	"github.com/armazem-erp/armazem-erp/internal/orders"
	"github.com/armazem-erp/armazem-erp/internal/platform/httpx"
	"github.com/armazem-erp/armazem-erp/internal/shared"
	"github.com/armazem-erp/armazem-erp/internal/stock"
)

// Handler exposes the engine over HTTP. The engine is single-session, so a
// mutex serializes every request against it; the record locker additionally
// fences conciliation commits across processes.
type Handler struct {
	logger   *slog.Logger
	engine   *Engine
	locker   *shared.RecordLocker
	validate *validator.Validate

	mu sync.Mutex
}

// NewHandler constructs Handler. locker may be nil when no redis is
// configured; commits then rely on the handler mutex alone.
func NewHandler(logger *slog.Logger, engine *Engine, locker *shared.RecordLocker) *Handler {
	return &Handler{
		logger:   logger,
		engine:   engine,
		locker:   locker,
		validate: validator.New(),
	}
}

// MountRoutes registers the engine routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/refresh", h.handleRefresh)
	r.Get("/catalog", h.handleCatalog)
	r.Get("/stock", h.handleStock)
	r.Get("/requisitions", h.handleRequisitions)
	r.Get("/invoices", h.handleInvoices)
	r.Post("/invoices/{invoiceID}/conciliate", h.handleConciliate)
	r.Post("/stock/selection/{productID}/toggle", h.handleToggleSelect)
	r.Put("/stock/selection/{productID}/quantity", h.handleSetQuantity)
	r.Delete("/stock/selection", h.handleClearSelection)
	r.Get("/report", h.handleReport)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	force := r.URL.Query().Get("force") != "false"
	if err := h.engine.Refresh(r.Context(), force); err != nil {
		h.logger.Error("refresh failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Refresh Failed", err.Error())
		return
	}

	issues := make([]string, 0, len(h.engine.SchemaIssues()))
	for _, err := range h.engine.SchemaIssues() {
		issues = append(issues, err.Error())
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"refreshed_at":  h.engine.RefreshedAt(),
		"schema_issues": issues,
	})
}

// applyListingParams folds the common query parameters into engine state.
func (h *Handler) applyListingParams(r *http.Request, sort func(string), page func(int)) {
	q := r.URL.Query()
	if q.Has("search") {
		h.engine.SetSearch(q.Get("search"))
	}
	if col := q.Get("sort"); col != "" {
		sort(col)
	}
	if raw := q.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page(n)
		}
	}
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	q := r.URL.Query()
	if q.Has("categories") {
		h.engine.ClearCategories()
		for _, c := range q["categories"] {
			h.engine.ToggleCategory(stock.Category(c))
		}
	}
	h.applyListingParams(r, h.engine.SortProducts, h.engine.SetProductPage)
	httpx.JSON(w, http.StatusOK, h.engine.ProductSearchView())
}

func (h *Handler) handleStock(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	q := r.URL.Query()
	if q.Has("status") {
		h.engine.stockState.StatusFilter = stock.Status(q.Get("status"))
		h.engine.stockState.Page = 1
	}
	if q.Has("categories") {
		h.engine.ClearCategories()
		for _, c := range q["categories"] {
			h.engine.ToggleCategory(stock.Category(c))
		}
	}
	h.applyListingParams(r, h.engine.SortStock, h.engine.SetStockPage)
	httpx.JSON(w, http.StatusOK, h.engine.StockView())
}

func (h *Handler) handleRequisitions(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	q := r.URL.Query()
	if q.Has("source") {
		h.engine.SetRequisitionSource(orders.SourceType(q.Get("source")))
	}
	if q.Has("status") {
		h.engine.requisitionState.StatusFilters = map[orders.DerivedStatus]bool{}
		for _, s := range q["status"] {
			h.engine.ToggleRequisitionStatus(orders.DerivedStatus(s))
		}
	}
	h.applyListingParams(r, h.engine.SortRequisitions, h.engine.SetRequisitionPage)
	httpx.JSON(w, http.StatusOK, h.engine.RequisitionView())
}

func (h *Handler) handleInvoices(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	q := r.URL.Query()
	if q.Has("from") || q.Has("to") {
		h.engine.SetInvoiceDateRange(shared.ParseDateBR(q.Get("from")), shared.ParseDateBR(q.Get("to")))
	}
	if q.Has("channel") {
		h.engine.SetInvoiceChannel(invoices.Channel(q.Get("channel")))
	}
	if q.Has("conference") {
		h.engine.SetConferenceFilter(ConferenceFilter(q.Get("conference")))
	}
	h.applyListingParams(r, h.engine.SortInvoices, h.engine.SetInvoicePage)
	httpx.JSON(w, http.StatusOK, h.engine.InvoiceView())
}

type conciliateRequest struct {
	Target string `json:"target" validate:"required,oneof=Sim Não"`
	Actor  string `json:"actor" validate:"required"`
}

func (h *Handler) handleConciliate(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "invoiceID")

	var req conciliateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if h.locker != nil {
		release, err := h.locker.Acquire(r.Context(), shared.InvoiceLockKey(invoiceID))
		if err != nil {
			if errors.Is(err, shared.ErrRecordLocked) {
				httpx.Problem(w, http.StatusConflict, "Record Locked", "invoice is being conciliated elsewhere")
				return
			}
			httpx.Problem(w, http.StatusServiceUnavailable, "Lock Unavailable", err.Error())
			return
		}
		defer func() {
			if err := release(r.Context()); err != nil {
				h.logger.Warn("lock release failed", slog.String("invoice", invoiceID), slog.Any("error", err))
			}
		}()
	}

	h.mu.Lock()
	state, err := h.engine.Conciliate(r.Context(), invoiceID, invoices.ConciliationFlag(req.Target), req.Actor)
	h.mu.Unlock()
	if err != nil {
		var commitErr *invoices.CommitFailure
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "invoice not in the current snapshot")
		case errors.As(err, &commitErr):
			httpx.Problem(w, http.StatusBadGateway, "Commit Failed", commitErr.Error())
		default:
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"state": string(state)})
}

type quantityRequest struct {
	Qty int `json:"qty" validate:"gte=0"`
}

func (h *Handler) handleToggleSelect(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	productID := chi.URLParam(r, "productID")
	if err := h.engine.ToggleSelect(productID); err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "product not in the current snapshot")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"selected": h.engine.SelectedCount()})
}

func (h *Handler) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine.SetReorderQty(chi.URLParam(r, "productID"), req.Qty)
	httpx.JSON(w, http.StatusOK, map[string]int{"qty": req.Qty})
}

func (h *Handler) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.engine.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	httpx.JSON(w, http.StatusOK, h.engine.ReportView())
}
