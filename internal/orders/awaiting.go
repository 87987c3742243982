package orders

import (
	"strconv"
	"strings"
)

// AwaitingArrival sums the ordered quantities of pending items per product
// code across every requisition of every source. Items without a service
// code are skipped; unparseable quantities count as 0. The fold is
// commutative, so the result does not depend on input order. The map is
// recomputed in full from the current snapshot on every call.
func AwaitingArrival(sources ...[]Requisition) map[string]int {
	awaiting := make(map[string]int)
	for _, reqs := range sources {
		for _, req := range reqs {
			for _, item := range req.Items {
				if item.Fulfilled() || item.ServiceCode == "" {
					continue
				}
				awaiting[item.ServiceCode] += parseQty(item.OrderedQty)
			}
		}
	}
	return awaiting
}

func parseQty(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
