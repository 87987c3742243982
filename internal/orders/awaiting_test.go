package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func pendingItem(service, qty string) OrderItem {
	return OrderItem{ServiceCode: service, OrderedQty: qty, Status: "pendente"}
}

func TestAwaitingArrivalSumsPendingOnly(t *testing.T) {
	external := []Requisition{{
		Code: "R1",
		Items: []OrderItem{
			{ServiceCode: "X", OrderedQty: "2", Status: "ok"},
			pendingItem("X", "4"),
			pendingItem("", "9"), // no service code, skipped
		},
	}}
	factory := []Requisition{{
		Code:  "R2",
		Items: []OrderItem{pendingItem("X", "3"), pendingItem("Y", "not-a-number")},
	}}

	got := AwaitingArrival(external, factory)
	require.Equal(t, map[string]int{"X": 7, "Y": 0}, got)
}

func TestAwaitingArrivalOrderIndependent(t *testing.T) {
	a := []Requisition{{Code: "A", Items: []OrderItem{pendingItem("P", "1"), pendingItem("Q", "5")}}}
	b := []Requisition{{Code: "B", Items: []OrderItem{pendingItem("P", "2")}}}

	require.Equal(t, AwaitingArrival(a, b), AwaitingArrival(b, a))
}

func TestAwaitingArrivalEmptyInput(t *testing.T) {
	require.Empty(t, AwaitingArrival())
	require.Empty(t, AwaitingArrival(nil, []Requisition{}))
}
