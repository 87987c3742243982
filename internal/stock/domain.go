package stock

import "strings"

// Product is a catalog record joined against the awaiting-arrival map for
// stock-health classification. MinStock and MaxStock are nullable thresholds;
// when both are set, MinStock <= MaxStock.
type Product struct {
	ID              string
	Code            string
	Description     string
	CurrentStock    float64
	MinStock        *float64
	MaxStock        *float64
	SalesLast90Days float64
	Tags            []string
	ImageURLs       []string
}

// HasTag reports whether the product carries the exact tag.
func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsService reports whether the code marks a service item. Service items are
// excluded from the stock diagnosis view.
func (p Product) IsService() bool {
	return strings.HasPrefix(p.Code, "7")
}

// HasBlankTagGroup reports whether the product has no usable tag group.
func (p Product) HasBlankTagGroup() bool {
	if len(p.Tags) == 0 {
		return true
	}
	return len(p.Tags) == 1 && p.Tags[0] == ""
}

// Status buckets for stock health.
type Status string

const (
	StatusLow       Status = "LOW"
	StatusOK        Status = "OK"
	StatusExcess    Status = "EXCESS"
	StatusUndefined Status = "UNDEFINED"
)
