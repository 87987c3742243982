package invoices

import (
	"context"
	"errors"
	"fmt"
)

// CommitState tracks one conciliation cycle over a single invoice record.
type CommitState string

const (
	// StateIdle means no change was requested (or the request was a no-op).
	StateIdle CommitState = "IDLE"
	// StatePendingConfirmation means a flag change awaits the user's confirmation.
	StatePendingConfirmation CommitState = "PENDING_CONFIRMATION"
	// StateCommitting means the write to the boundary is in flight.
	StateCommitting CommitState = "COMMITTING"
	// StateCommitted means the in-memory record now carries the target value.
	StateCommitted CommitState = "COMMITTED"
	// StateRolledBack means the commit failed or was declined; the record is
	// untouched and the displayed value reverted.
	StateRolledBack CommitState = "ROLLED_BACK"
)

// ConciliationWriter is the external write boundary for flag changes.
type ConciliationWriter interface {
	CommitConciliation(ctx context.Context, invoiceID string, target ConciliationFlag) error
}

// CommitFailure names the record whose write did not succeed.
type CommitFailure struct {
	InvoiceID string
	Err       error
}

func (e *CommitFailure) Error() string {
	return fmt.Sprintf("invoices: conciliation commit failed for %s: %v", e.InvoiceID, e.Err)
}

func (e *CommitFailure) Unwrap() error { return e.Err }

// ErrNotPending is returned when Confirm or Decline is called without a
// pending request.
var ErrNotPending = errors.New("invoices: no conciliation change pending")

// Conciliation is the optimistic-update cycle for one invoice: request a
// flag change, confirm (committing it through the boundary) or decline.
// Overlapping cycles on the same record are the caller's problem; the HTTP
// layer takes a per-record lock.
type Conciliation struct {
	writer  ConciliationWriter
	invoice *Invoice
	prior   ConciliationFlag
	target  ConciliationFlag
	state   CommitState
}

// NewConciliation starts a cycle over the given record.
func NewConciliation(writer ConciliationWriter, invoice *Invoice) *Conciliation {
	return &Conciliation{
		writer:  writer,
		invoice: invoice,
		prior:   invoice.Conciliated,
		state:   StateIdle,
	}
}

// Request asks for the flag to become target. Requesting the current value
// is a no-op with no I/O.
func (c *Conciliation) Request(target ConciliationFlag) CommitState {
	if target == c.invoice.Conciliated {
		c.state = StateIdle
		return c.state
	}
	c.prior = c.invoice.Conciliated
	c.target = target
	c.state = StatePendingConfirmation
	return c.state
}

// Confirm commits the pending change through the write boundary. On success
// the in-memory record is mutated to the target; on failure the record is
// left unchanged and the cycle rolls back with a CommitFailure.
func (c *Conciliation) Confirm(ctx context.Context) (CommitState, error) {
	if c.state != StatePendingConfirmation {
		return c.state, ErrNotPending
	}
	c.state = StateCommitting
	if err := c.writer.CommitConciliation(ctx, c.invoice.ID, c.target); err != nil {
		c.state = StateRolledBack
		return c.state, &CommitFailure{InvoiceID: c.invoice.ID, Err: err}
	}
	c.invoice.Conciliated = c.target
	c.state = StateCommitted
	return c.state, nil
}

// Decline abandons the pending change; the displayed value reverts.
func (c *Conciliation) Decline() (CommitState, error) {
	if c.state != StatePendingConfirmation {
		return c.state, ErrNotPending
	}
	c.state = StateRolledBack
	return c.state, nil
}

// State returns the cycle's current state.
func (c *Conciliation) State() CommitState { return c.state }

// Displayed is the flag value a view should show: the target while a change
// is pending or committed, the prior value otherwise.
func (c *Conciliation) Displayed() ConciliationFlag {
	switch c.state {
	case StatePendingConfirmation, StateCommitting:
		return c.target
	default:
		return c.invoice.Conciliated
	}
}
