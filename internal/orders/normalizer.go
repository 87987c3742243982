package orders

import "strings"

// RawTable is a header-indexed table: row 0 holds the header labels, rows
// 1..N hold positionally-aligned values.
type RawTable [][]string

// Header labels recognized in raw order tables. Matching is case-insensitive
// after trimming; the three required labels abort normalization for the
// source when absent.
const (
	headerRequisition      = "requisição"
	headerStatus           = "situação"
	headerOrderDate        = "data pedido"
	headerServiceCode      = "codigo service"
	headerEquipmentCode    = "codigo mks-equipamentos"
	headerDescription      = "descrição"
	headerOrderedQty       = "quantidade pedido"
	headerLocation         = "localização"
	headerElapsedDays      = "dias corridos"
	headerObservation      = "observação"
	headerDeliveryDeadline = "prazo entrega"
)

type columnIndex struct {
	requisition      int
	status           int
	orderDate        int
	serviceCode      int
	equipmentCode    int
	description      int
	orderedQty       int
	location         int
	elapsedDays      int
	observation      int
	deliveryDeadline int
}

// Normalize turns a raw order table into requisition aggregates. Rows with an
// empty requisition-code cell are dropped silently; a missing required header
// fails the whole source with a SchemaError and an empty result.
func Normalize(table RawTable, source SourceType) ([]Requisition, error) {
	if len(table) < 2 {
		return []Requisition{}, nil
	}

	headers := make([]string, len(table[0]))
	for i, h := range table[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	idx := columnIndex{
		requisition:      indexOf(headers, headerRequisition),
		status:           indexOf(headers, headerStatus),
		orderDate:        indexOf(headers, headerOrderDate),
		serviceCode:      indexOf(headers, headerServiceCode),
		equipmentCode:    indexOf(headers, headerEquipmentCode),
		description:      indexOf(headers, headerDescription),
		orderedQty:       indexOf(headers, headerOrderedQty),
		location:         indexOf(headers, headerLocation),
		elapsedDays:      indexOf(headers, headerElapsedDays),
		observation:      indexOf(headers, headerObservation),
		deliveryDeadline: indexOf(headers, headerDeliveryDeadline),
	}

	var missing []string
	if idx.requisition < 0 {
		missing = append(missing, headerRequisition)
	}
	if idx.status < 0 {
		missing = append(missing, headerStatus)
	}
	if idx.orderDate < 0 {
		missing = append(missing, headerOrderDate)
	}
	if len(missing) > 0 {
		return []Requisition{}, &SchemaError{Source: source, Missing: missing}
	}

	byCode := make(map[string]*Requisition)
	var order []string

	for _, row := range table[1:] {
		code := strings.TrimSpace(cell(row, idx.requisition))
		if code == "" {
			continue
		}
		req, ok := byCode[code]
		if !ok {
			// First-seen row wins for the order date; later rows for the
			// same code are not re-validated against it.
			req = &Requisition{
				Code:      code,
				OrderDate: cell(row, idx.orderDate),
				Source:    source,
			}
			byCode[code] = req
			order = append(order, code)
		}

		item := OrderItem{
			RequisitionCode:  code,
			ServiceCode:      strings.TrimSpace(cell(row, idx.serviceCode)),
			EquipmentCode:    strings.TrimSpace(cell(row, idx.equipmentCode)),
			Description:      cell(row, idx.description),
			Location:         cell(row, idx.location),
			OrderedQty:       cell(row, idx.orderedQty),
			Status:           strings.ToLower(strings.TrimSpace(cell(row, idx.status))),
			OrderDate:        cell(row, idx.orderDate),
			ElapsedDays:      cell(row, idx.elapsedDays),
			Observation:      cell(row, idx.observation),
			DeliveryDeadline: cell(row, idx.deliveryDeadline),
			Source:           source,
		}
		req.Items = append(req.Items, item)
		req.TotalItems++
		if item.Fulfilled() {
			req.FulfilledCount++
		} else {
			req.PendingCount++
		}
	}

	out := make([]Requisition, 0, len(order))
	for _, code := range order {
		req := byCode[code]
		req.Status = deriveStatus(req.TotalItems, req.FulfilledCount, req.PendingCount)
		out = append(out, *req)
	}
	return out, nil
}

// deriveStatus applies the fulfillment rules in priority order.
func deriveStatus(total, fulfilled, pending int) DerivedStatus {
	switch {
	case total == 0:
		return StatusNoItems
	case pending == 0:
		return StatusFulfilled
	case fulfilled > 0:
		return StatusPartiallyFulfilled
	default:
		return StatusPending
	}
}

func indexOf(headers []string, label string) int {
	for i, h := range headers {
		if h == label {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
