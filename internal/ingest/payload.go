package ingest

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/armazem-erp/armazem-erp/internal/invoices"
	"github.com/armazem-erp/armazem-erp/internal/orders"
	"github.com/armazem-erp/armazem-erp/internal/stock"
)

// envelope is the common {"data": ...} wrapper of every source endpoint.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// flexString tolerates sources that serialize codes and values as either
// JSON strings or numbers.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

type productRecord struct {
	ID          flexString `json:"id"`
	Code        flexString `json:"codigo"`
	Description string     `json:"descricao"`
	Stock       *float64   `json:"estoque"`
	MinStock    *float64   `json:"estoque_minimo"`
	MaxStock    *float64   `json:"estoque_maximo"`
	Sales90     *float64   `json:"vendas_ultimos_90_dias"`
	Tags        []string   `json:"grupo_de_tags_tags"`
	ImageURLs   []string   `json:"url_imagens_externas"`
}

func (r productRecord) toDomain() stock.Product {
	p := stock.Product{
		ID:          string(r.ID),
		Code:        string(r.Code),
		Description: r.Description,
		MinStock:    r.MinStock,
		MaxStock:    r.MaxStock,
		Tags:        r.Tags,
		ImageURLs:   r.ImageURLs,
	}
	if r.Stock != nil {
		p.CurrentStock = *r.Stock
	}
	if r.Sales90 != nil {
		p.SalesLast90Days = *r.Sales90
	}
	return p
}

func decodeProducts(payload []byte) ([]stock.Product, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, err
	}
	var records []productRecord
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &records); err != nil {
			return nil, err
		}
	}
	out := make([]stock.Product, 0, len(records))
	for _, r := range records {
		out = append(out, r.toDomain())
	}
	return out, nil
}

type invoiceRecord struct {
	ID        flexString `json:"id_nota"`
	Number    flexString `json:"numero_da_nota"`
	IssueDate string     `json:"data_de_emissao"`
	Customer  string     `json:"nome_do_cliente"`
	Seller    string     `json:"nome_do_vendedor"`
	Value     flexString `json:"valor_da_nota"`
	Channel   string     `json:"origem_loja"`
	Situation string     `json:"situacao"`
	Checked   string     `json:"conferido"`
	DanfeLink string     `json:"link_danfe"`
}

func (r invoiceRecord) toDomain() invoices.Invoice {
	// A bad decimal cell is absorbed as zero; it never drops the record.
	value, err := decimal.NewFromString(strings.TrimSpace(string(r.Value)))
	if err != nil {
		value = decimal.Zero
	}
	return invoices.Invoice{
		ID:          string(r.ID),
		Number:      string(r.Number),
		IssueDate:   r.IssueDate,
		Customer:    r.Customer,
		Seller:      r.Seller,
		Value:       value,
		Channel:     invoices.Channel(r.Channel),
		Situation:   r.Situation,
		Conciliated: invoices.ConciliationFlag(strings.TrimSpace(r.Checked)),
		DanfeLink:   r.DanfeLink,
	}
}

func decodeInvoices(payload []byte) ([]invoices.Invoice, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, err
	}
	var records []invoiceRecord
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &records); err != nil {
			return nil, err
		}
	}
	out := make([]invoices.Invoice, 0, len(records))
	for _, r := range records {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// decodeOrderTable reads the raw header+rows table, stringifying numeric
// cells so the normalizer sees a uniform text grid.
func decodeOrderTable(payload []byte) (orders.RawTable, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return orders.RawTable{}, nil
	}
	var rows [][]any
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		return nil, err
	}
	table := make(orders.RawTable, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cellToString(cell)
		}
		table[i] = cells
	}
	return table, nil
}

func cellToString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
