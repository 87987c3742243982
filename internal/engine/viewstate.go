package engine

import (
	"time"

	"github.com/armazem-erp/armazem-erp/internal/invoices"
	"github.com/armazem-erp/armazem-erp/internal/orders"
	"github.com/armazem-erp/armazem-erp/internal/shared"
	"github.com/armazem-erp/armazem-erp/internal/stock"
)

// ViewState is the sort/page state of one table. It lives for the engine's
// session and is mutated only through engine operations.
type ViewState struct {
	SortColumn string
	Direction  shared.SortDirection
	Page       int
	PageSize   int
}

func (v *ViewState) sortBy(column string) {
	if v.SortColumn == column {
		if v.Direction == shared.SortAsc {
			v.Direction = shared.SortDesc
		} else {
			v.Direction = shared.SortAsc
		}
		return
	}
	v.SortColumn = column
	v.Direction = shared.SortAsc
}

// stockViewState adds the diagnosis card filter to the common table state.
type stockViewState struct {
	ViewState
	StatusFilter stock.Status // empty means every bucket
}

// requisitionViewState narrows the consolidated orders table.
type requisitionViewState struct {
	ViewState
	Source        orders.SourceType // empty means both sources
	StatusFilters map[orders.DerivedStatus]bool
}

// invoiceViewState carries the conciliation page filters.
type invoiceViewState struct {
	ViewState
	DateFrom         *time.Time
	DateTo           *time.Time
	Channel          invoices.Channel // empty means every channel
	ConferenceFilter ConferenceFilter
}

// ConferenceFilter narrows invoices by review status.
type ConferenceFilter string

const (
	ConferenceAll       ConferenceFilter = "todos"
	ConferenceChecked   ConferenceFilter = "conferidas"
	ConferenceUnchecked ConferenceFilter = "nao_conferidas"
)
