// Package billing is the pure invoice arithmetic: item normalization,
// subtotal/tax/total derivation, and catalog quick-add. It has no storage
// or transport concerns so it stays unit-testable on its own.
package billing

import (
	"github.com/saddleworks/stablecare-backend/internal/catalog"
	"github.com/saddleworks/stablecare-backend/internal/domain"
	"github.com/saddleworks/stablecare-backend/internal/money"
)

type Totals struct {
	SubtotalCents int64
	TaxCents      int64
	TotalCents    int64
}

// Recompute is the single source of truth for invoice amounts. It sets
// every item's amount to quantity x rate and derives subtotal, tax and
// total from the items. Callers must run it after every item add, edit or
// remove, and after any tax toggle or rate change; the three derived
// fields are never edited directly.
func Recompute(items []domain.InvoiceItem, applyTax bool, taxRate float64) ([]domain.InvoiceItem, Totals) {
	var subtotal int64
	for i := range items {
		if items[i].Quantity < 1 {
			items[i].Quantity = 1
		}
		items[i].AmountCents = int64(items[i].Quantity) * items[i].RateCents
		items[i].Position = i
		subtotal += items[i].AmountCents
	}

	var tax int64
	if applyTax {
		tax = money.RoundCents(float64(subtotal) * taxRate / 100.0)
	}

	return items, Totals{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    subtotal + tax,
	}
}

// QuickAdd folds a catalog service into the item list. A line with the
// same description and the same rate gets its quantity bumped instead of
// a duplicate row; the same description at a different rate stays a
// distinct line.
func QuickAdd(items []domain.InvoiceItem, svc catalog.Service) []domain.InvoiceItem {
	for i := range items {
		if items[i].Description == svc.Label && items[i].RateCents == svc.PriceCents {
			items[i].Quantity++
			return items
		}
	}
	return append(items, domain.InvoiceItem{
		Description: svc.Label,
		Quantity:    1,
		RateCents:   svc.PriceCents,
	})
}
