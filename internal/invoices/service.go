package invoices

import (
	"context"
	"log/slog"

	"github.com/armazem-erp/armazem-erp/internal/shared"
)

// AuditPort records committed conciliation changes.
type AuditPort interface {
	Record(ctx context.Context, entry shared.AuditEntry) error
}

// Service coordinates conciliation cycles against the write boundary and the
// audit trail.
type Service struct {
	writer ConciliationWriter
	audit  AuditPort
	logger *slog.Logger
}

// NewService builds Service. audit may be nil.
func NewService(writer ConciliationWriter, audit AuditPort, logger *slog.Logger) *Service {
	return &Service{writer: writer, audit: audit, logger: logger}
}

// Conciliate runs a full request-and-confirm cycle for one record on behalf
// of a user who already confirmed the change. A target equal to the current
// value returns StateIdle without touching the boundary.
func (s *Service) Conciliate(ctx context.Context, invoice *Invoice, target ConciliationFlag, actor string) (CommitState, error) {
	cycle := NewConciliation(s.writer, invoice)
	if cycle.Request(target) == StateIdle {
		return StateIdle, nil
	}
	prior := invoice.Conciliated
	state, err := cycle.Confirm(ctx)
	if err != nil {
		s.logger.Warn("conciliation commit failed",
			slog.String("invoice", invoice.ID),
			slog.Any("error", err))
		return state, err
	}
	if s.audit != nil {
		entry := shared.AuditEntry{
			Actor:  actor,
			Action: "invoice.conciliation",
			Record: invoice.ID,
			Meta:   map[string]any{"from": string(prior), "to": string(target)},
		}
		if err := s.audit.Record(ctx, entry); err != nil {
			// The commit already succeeded; a lost audit row is logged, not
			// surfaced.
			s.logger.Warn("audit record failed",
				slog.String("invoice", invoice.ID),
				slog.Any("error", err))
		}
	}
	return state, nil
}
