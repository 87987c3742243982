package orders

import (
	"fmt"
	"strings"
)

// SourceType identifies the origin of a requisition dataset.
type SourceType string

const (
	// SourceExternal marks requisitions placed with outside suppliers.
	SourceExternal SourceType = "external"
	// SourceFactory marks requisitions placed with the internal factory.
	SourceFactory SourceType = "factory"
)

// DerivedStatus summarises the fulfillment of a requisition.
type DerivedStatus string

const (
	StatusNoItems            DerivedStatus = "NO_ITEMS"
	StatusFulfilled          DerivedStatus = "FULFILLED"
	StatusPartiallyFulfilled DerivedStatus = "PARTIALLY_FULFILLED"
	StatusPending            DerivedStatus = "PENDING"
)

// OrderItem is one normalized row of a raw order table. Cells that carry
// quantities or dates stay as raw text here; parsing happens where the value
// is consumed so a bad cell never drops the row.
type OrderItem struct {
	RequisitionCode  string
	ServiceCode      string
	EquipmentCode    string
	Description      string
	Location         string
	OrderedQty       string
	Status           string
	OrderDate        string
	ElapsedDays      string
	Observation      string
	DeliveryDeadline string
	Source           SourceType
}

// Fulfilled reports whether the item's normalized status marks it delivered.
func (i OrderItem) Fulfilled() bool {
	return i.Status == fulfilledStatus
}

const fulfilledStatus = "ok"

// Requisition groups the order items sharing a requisition code within one
// source. OrderDate is taken from the first row seen for the code.
type Requisition struct {
	Code           string
	OrderDate      string
	Source         SourceType
	TotalItems     int
	FulfilledCount int
	PendingCount   int
	Status         DerivedStatus
	Items          []OrderItem
}

// SchemaError reports required columns missing from a raw order table. The
// affected source yields no requisitions; the caller decides how to surface
// the failure.
type SchemaError struct {
	Source  SourceType
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("orders: source %s missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
}
