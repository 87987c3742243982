package shared

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// The source spreadsheets carry pt-BR descriptions; sorting must follow that
// locale, with embedded numbers compared by value ("ITEM 2" before "ITEM 10").
var (
	collatorMu sync.Mutex
	collator   = collate.New(language.BrazilianPortuguese, collate.IgnoreCase, collate.Numeric)
)

// CompareBR compares two strings using pt-BR collation rules.
func CompareBR(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}
