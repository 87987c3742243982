package invoices

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/armazem-erp/armazem-erp/internal/shared"
)

// Channel is the sales channel an invoice originated from.
type Channel string

const (
	ChannelBling         Channel = "Bling"
	ChannelMercadoLivre  Channel = "Mercado Livre"
	ChannelLojaIntegrada Channel = "Loja Integrada"
)

// Channels lists the known sales channels in display order.
func Channels() []Channel {
	return []Channel{ChannelBling, ChannelMercadoLivre, ChannelLojaIntegrada}
}

// ConciliationFlag marks whether an invoice has been reviewed. The literal
// Sim/Não values are the wire contract with the upstream sheet and must not
// be translated.
type ConciliationFlag string

const (
	FlagChecked   ConciliationFlag = "Sim"
	FlagUnchecked ConciliationFlag = "Não"
)

// Invoice is a sales-invoice record. IssueDate stays as the raw dd/mm/yyyy
// text; Value is parsed from decimal text at ingestion. Only the
// conciliation cycle mutates a loaded record, and only the Conciliated
// field.
type Invoice struct {
	ID          string
	Number      string
	IssueDate   string
	Customer    string
	Seller      string
	Value       decimal.Decimal
	Channel     Channel
	Situation   string
	Conciliated ConciliationFlag
	DanfeLink   string
}

// IssuedAt parses the issue date; nil when the text is unparseable, which
// excludes the invoice from date-range filters.
func (i Invoice) IssuedAt() *time.Time {
	return shared.ParseDateBR(i.IssueDate)
}

// IsChecked reports whether the record is marked reviewed. Anything other
// than the exact Sim literal counts as unchecked.
func (i Invoice) IsChecked() bool {
	return i.Conciliated == FlagChecked
}
