package shared

import (
	"strconv"
	"strings"
	"time"
)

// ParseDateBR parses "dd/mm/yyyy" (two-digit years read as 2000+yy). It
// returns nil for anything unparseable; callers treat a nil date as excluded
// from date-range filters.
func ParseDateBR(s string) *time.Time {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return nil
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return nil
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &t
}

// InDateRange reports whether d falls inside [from, to]. Nil bounds are open;
// a nil date never matches a bounded range.
func InDateRange(d, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	if d == nil {
		return false
	}
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

// AddBusinessDays advances t by n business days, skipping weekends.
func AddBusinessDays(t time.Time, n int) time.Time {
	for added := 0; added < n; {
		t = t.AddDate(0, 0, 1)
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return t
}

// BusinessDaysBetween counts the business days from a to b, exclusive of a.
// It returns 0 when b is not after a.
func BusinessDaysBetween(a, b time.Time) int {
	if !b.After(a) {
		return 0
	}
	days := 0
	for t := a.AddDate(0, 0, 1); !t.After(b); t = t.AddDate(0, 0, 1) {
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}
