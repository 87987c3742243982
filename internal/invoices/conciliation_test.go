package invoices

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armazem-erp/armazem-erp/internal/shared"
)

type memoryWriter struct {
	commits []string
	fail    error
}

func (w *memoryWriter) CommitConciliation(ctx context.Context, invoiceID string, target ConciliationFlag) error {
	if w.fail != nil {
		return w.fail
	}
	w.commits = append(w.commits, invoiceID+":"+string(target))
	return nil
}

type memoryAudit struct {
	entries []shared.AuditEntry
	fail    error
}

func (a *memoryAudit) Record(ctx context.Context, entry shared.AuditEntry) error {
	if a.fail != nil {
		return a.fail
	}
	a.entries = append(a.entries, entry)
	return nil
}

func testInvoice() Invoice {
	return Invoice{ID: "1234", IssueDate: "10/06/2024", Channel: ChannelBling, Conciliated: FlagUnchecked}
}

func TestConciliationNoOpRequest(t *testing.T) {
	w := &memoryWriter{}
	inv := testInvoice()
	cycle := NewConciliation(w, &inv)

	require.Equal(t, StateIdle, cycle.Request(FlagUnchecked))
	require.Empty(t, w.commits)
	require.Equal(t, FlagUnchecked, cycle.Displayed())
}

func TestConciliationCommitSuccess(t *testing.T) {
	w := &memoryWriter{}
	inv := testInvoice()
	cycle := NewConciliation(w, &inv)

	require.Equal(t, StatePendingConfirmation, cycle.Request(FlagChecked))
	require.Equal(t, FlagChecked, cycle.Displayed())
	// Nothing written until confirmation.
	require.Empty(t, w.commits)
	require.Equal(t, FlagUnchecked, inv.Conciliated)

	state, err := cycle.Confirm(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateCommitted, state)
	require.Equal(t, FlagChecked, inv.Conciliated)
	require.Equal(t, []string{"1234:Sim"}, w.commits)
}

func TestConciliationCommitFailureRollsBack(t *testing.T) {
	w := &memoryWriter{fail: errors.New("boom")}
	inv := testInvoice()
	before := inv
	cycle := NewConciliation(w, &inv)

	cycle.Request(FlagChecked)
	state, err := cycle.Confirm(context.Background())
	require.Equal(t, StateRolledBack, state)

	var failure *CommitFailure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, "1234", failure.InvoiceID)

	// The record is byte-for-byte untouched and the displayed value reverted.
	require.Equal(t, before, inv)
	require.Equal(t, FlagUnchecked, cycle.Displayed())
}

func TestConciliationDecline(t *testing.T) {
	w := &memoryWriter{}
	inv := testInvoice()
	cycle := NewConciliation(w, &inv)

	cycle.Request(FlagChecked)
	state, err := cycle.Decline()
	require.NoError(t, err)
	require.Equal(t, StateRolledBack, state)
	require.Equal(t, FlagUnchecked, inv.Conciliated)
	require.Equal(t, FlagUnchecked, cycle.Displayed())
	require.Empty(t, w.commits)
}

func TestConciliationConfirmWithoutRequest(t *testing.T) {
	inv := testInvoice()
	cycle := NewConciliation(&memoryWriter{}, &inv)

	_, err := cycle.Confirm(context.Background())
	require.ErrorIs(t, err, ErrNotPending)
	_, err = cycle.Decline()
	require.ErrorIs(t, err, ErrNotPending)
}

func TestServiceConciliateAudits(t *testing.T) {
	w := &memoryWriter{}
	audit := &memoryAudit{}
	svc := NewService(w, audit, slog.Default())
	inv := testInvoice()

	state, err := svc.Conciliate(context.Background(), &inv, FlagChecked, "maria")
	require.NoError(t, err)
	require.Equal(t, StateCommitted, state)
	require.Len(t, audit.entries, 1)
	require.Equal(t, "invoice.conciliation", audit.entries[0].Action)
	require.Equal(t, "1234", audit.entries[0].Record)
	require.Equal(t, map[string]any{"from": "Não", "to": "Sim"}, audit.entries[0].Meta)
}

func TestServiceConciliateNoOpSkipsBoundary(t *testing.T) {
	w := &memoryWriter{}
	svc := NewService(w, &memoryAudit{}, slog.Default())
	inv := testInvoice()

	state, err := svc.Conciliate(context.Background(), &inv, FlagUnchecked, "maria")
	require.NoError(t, err)
	require.Equal(t, StateIdle, state)
	require.Empty(t, w.commits)
}

func TestServiceConciliateFailureKeepsRecord(t *testing.T) {
	w := &memoryWriter{fail: errors.New("write rejected")}
	audit := &memoryAudit{}
	svc := NewService(w, audit, slog.Default())
	inv := testInvoice()

	state, err := svc.Conciliate(context.Background(), &inv, FlagChecked, "maria")
	require.Error(t, err)
	require.Equal(t, StateRolledBack, state)
	require.Equal(t, FlagUnchecked, inv.Conciliated)
	require.Empty(t, audit.entries)
}
