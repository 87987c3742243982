package engine

import (
	"time"

	"github.com/armazem-erp/armazem-erp/internal/invoices"
	"github.com/armazem-erp/armazem-erp/internal/orders"
	"github.com/armazem-erp/armazem-erp/internal/shared"
	"github.com/armazem-erp/armazem-erp/internal/stock"
)

// Column identifiers follow the upstream payload field names so that sort
// requests coming off the wire need no mapping step.
const (
	ColDescription = "descricao"
	ColCode        = "codigo"
	ColStock       = "estoque"
	ColAwaiting    = "aguardando_chegar"
	ColSales90     = "vendas_ultimos_90_dias"
	ColMinStock    = "estoque_minimo"
	ColMaxStock    = "estoque_maximo"

	ColOrderDate  = "data_pedido"
	ColSituation  = "situacao"
	ColTotalItems = "total_itens"

	ColIssueDate = "data_de_emissao"
	ColValue     = "valor_da_nota"
	ColNumber    = "numero_da_nota"
	ColCustomer  = "nome_do_cliente"
	ColSeller    = "nome_do_vendedor"
	ColChannel   = "origem_loja"
)

func timeColumn[T any](pick func(T) *time.Time) shared.Comparator[T] {
	return func(a, b T) int {
		ta, tb := pick(a), pick(b)
		switch {
		case ta == nil && tb == nil:
			return 0
		case ta == nil:
			return -1
		case tb == nil:
			return 1
		}
		return ta.Compare(*tb)
	}
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

var stockPipeline = shared.Pipeline[stock.Classified]{
	SearchFields: func(c stock.Classified) []string {
		return []string{c.Code, c.Description}
	},
	Columns: map[string]shared.Comparator[stock.Classified]{
		ColDescription: shared.StringColumn(func(c stock.Classified) string { return c.Description }),
		ColCode:        shared.StringColumn(func(c stock.Classified) string { return c.Code }),
		ColStock:       shared.NumberColumn(func(c stock.Classified) float64 { return c.CurrentStock }),
		ColAwaiting:    shared.NumberColumn(func(c stock.Classified) float64 { return float64(c.Awaiting) }),
		ColSales90:     shared.NumberColumn(func(c stock.Classified) float64 { return c.SalesLast90Days }),
		ColMinStock:    shared.NumberColumn(func(c stock.Classified) float64 { return floatOrZero(c.MinStock) }),
		ColMaxStock:    shared.NumberColumn(func(c stock.Classified) float64 { return floatOrZero(c.MaxStock) }),
	},
}

var productPipeline = shared.Pipeline[stock.Product]{
	SearchFields: func(p stock.Product) []string {
		return []string{p.Code, p.Description}
	},
	Columns: map[string]shared.Comparator[stock.Product]{
		ColDescription: shared.StringColumn(func(p stock.Product) string { return p.Description }),
		ColCode:        shared.StringColumn(func(p stock.Product) string { return p.Code }),
		ColStock:       shared.NumberColumn(func(p stock.Product) float64 { return p.CurrentStock }),
		ColSales90:     shared.NumberColumn(func(p stock.Product) float64 { return p.SalesLast90Days }),
	},
}

var requisitionPipeline = shared.Pipeline[orders.Requisition]{
	SearchFields: func(r orders.Requisition) []string {
		fields := []string{r.Code}
		for _, it := range r.Items {
			fields = append(fields, it.Description, it.ServiceCode)
		}
		return fields
	},
	Columns: map[string]shared.Comparator[orders.Requisition]{
		ColCode: shared.StringColumn(func(r orders.Requisition) string { return r.Code }),
		ColOrderDate: timeColumn(func(r orders.Requisition) *time.Time {
			return shared.ParseDateBR(r.OrderDate)
		}),
		ColSituation:  shared.StringColumn(func(r orders.Requisition) string { return string(r.Status) }),
		ColTotalItems: shared.NumberColumn(func(r orders.Requisition) float64 { return float64(r.TotalItems) }),
	},
}

var invoicePipeline = shared.Pipeline[invoices.Invoice]{
	SearchFields: func(inv invoices.Invoice) []string {
		return []string{inv.Number, inv.Customer, inv.Seller, inv.Situation}
	},
	Columns: map[string]shared.Comparator[invoices.Invoice]{
		ColIssueDate: timeColumn(func(inv invoices.Invoice) *time.Time { return inv.IssuedAt() }),
		ColValue: func(a, b invoices.Invoice) int {
			return a.Value.Cmp(b.Value)
		},
		ColNumber:   shared.StringColumn(func(inv invoices.Invoice) string { return inv.Number }),
		ColCustomer: shared.StringColumn(func(inv invoices.Invoice) string { return inv.Customer }),
		ColSeller:   shared.StringColumn(func(inv invoices.Invoice) string { return inv.Seller }),
		ColChannel:  shared.StringColumn(func(inv invoices.Invoice) string { return string(inv.Channel) }),
	},
}
