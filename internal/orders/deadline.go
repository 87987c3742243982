package orders

import (
	"strconv"
	"strings"
	"time"

	"github.com/armazem-erp/armazem-erp/internal/shared"
)

// ExpectedDelivery resolves an item's delivery deadline into a date. An
// absolute dd/mm/yyyy deadline wins; a bare number counts business days from
// the order date. Anything else yields nil.
func (i OrderItem) ExpectedDelivery() *time.Time {
	if d := shared.ParseDateBR(i.DeliveryDeadline); d != nil {
		return d
	}
	days, err := strconv.Atoi(strings.TrimSpace(i.DeliveryDeadline))
	if err != nil {
		return nil
	}
	ordered := shared.ParseDateBR(i.OrderDate)
	if ordered == nil {
		return nil
	}
	due := shared.AddBusinessDays(*ordered, days)
	return &due
}

// Overdue reports whether a pending item's expected delivery has passed.
// Fulfilled items and items without a resolvable deadline are never overdue.
func (i OrderItem) Overdue(now time.Time) bool {
	if i.Fulfilled() {
		return false
	}
	due := i.ExpectedDelivery()
	return due != nil && due.Before(now)
}
