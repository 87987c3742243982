package invoices

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/armazem-erp/armazem-erp/internal/shared"
)

// Tally is a count plus monetary total.
type Tally struct {
	Count int
	Total decimal.Decimal
}

func (t *Tally) add(v decimal.Decimal) {
	t.Count++
	t.Total = t.Total.Add(v)
}

// ChannelTally is a tally attributed to one sales channel.
type ChannelTally struct {
	Channel Channel
	Tally
}

// Summary feeds the conciliation overview cards: per-channel totals over the
// date-filtered set, checked/unchecked split over the channel-filtered set,
// and the grand total.
type Summary struct {
	Channels  []ChannelTally
	Checked   Tally
	Unchecked Tally
	Grand     Tally
}

// FilterByDate keeps invoices issued inside [from, to]. Invoices with an
// unparseable issue date are excluded from any bounded range.
func FilterByDate(all []Invoice, from, to *time.Time) []Invoice {
	if from == nil && to == nil {
		return all
	}
	out := make([]Invoice, 0, len(all))
	for _, inv := range all {
		if shared.InDateRange(inv.IssuedAt(), from, to) {
			out = append(out, inv)
		}
	}
	return out
}

// Summarize computes the overview over date-filtered invoices. A non-empty
// channel narrows the checked/unchecked split to that channel; the
// per-channel cards always cover every channel.
func Summarize(all []Invoice, from, to *time.Time, channel Channel) Summary {
	dated := FilterByDate(all, from, to)

	var s Summary
	byChannel := make(map[Channel]*Tally, 3)
	for _, c := range Channels() {
		byChannel[c] = &Tally{Total: decimal.Zero}
	}
	s.Checked.Total = decimal.Zero
	s.Unchecked.Total = decimal.Zero
	s.Grand.Total = decimal.Zero

	for _, inv := range dated {
		if t, ok := byChannel[inv.Channel]; ok {
			t.add(inv.Value)
			s.Grand.add(inv.Value)
		}
		if channel != "" && inv.Channel != channel {
			continue
		}
		if inv.IsChecked() {
			s.Checked.add(inv.Value)
		} else {
			s.Unchecked.add(inv.Value)
		}
	}

	for _, c := range Channels() {
		s.Channels = append(s.Channels, ChannelTally{Channel: c, Tally: *byChannel[c]})
	}
	return s
}

// MonthlySales is one row of the dashboard table: per-channel totals for a
// month, keyed "yyyy-mm".
type MonthlySales struct {
	Month     string
	ByChannel map[Channel]decimal.Decimal
	Total     decimal.Decimal
}

// MonthlyBreakdown aggregates date-filtered invoices per month and channel,
// sorted by month key. Invoices without a parseable date are skipped.
func MonthlyBreakdown(all []Invoice, from, to *time.Time) []MonthlySales {
	months := make(map[string]*MonthlySales)
	for _, inv := range FilterByDate(all, from, to) {
		issued := inv.IssuedAt()
		if issued == nil {
			continue
		}
		key := issued.Format("2006-01")
		row, ok := months[key]
		if !ok {
			row = &MonthlySales{
				Month:     key,
				ByChannel: make(map[Channel]decimal.Decimal, 3),
				Total:     decimal.Zero,
			}
			months[key] = row
		}
		row.ByChannel[inv.Channel] = row.ByChannel[inv.Channel].Add(inv.Value)
		row.Total = row.Total.Add(inv.Value)
	}

	out := make([]MonthlySales, 0, len(months))
	for _, row := range months {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
