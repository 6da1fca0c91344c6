package billing

import (
	"testing"

	"github.com/saddleworks/stablecare-backend/internal/catalog"
	"github.com/saddleworks/stablecare-backend/internal/domain"
)

func TestRecomputeScenario(t *testing.T) {
	items := []domain.InvoiceItem{
		{Description: "Turnout Blanket", Quantity: 1, RateCents: 2500},
	}
	items, totals := Recompute(items, true, 6.25)

	if items[0].AmountCents != 2500 {
		t.Fatalf("amount = %d, want 2500", items[0].AmountCents)
	}
	if totals.SubtotalCents != 2500 {
		t.Fatalf("subtotal = %d, want 2500", totals.SubtotalCents)
	}
	if totals.TaxCents != 156 {
		t.Fatalf("tax = %d, want 156", totals.TaxCents)
	}
	if totals.TotalCents != 2656 {
		t.Fatalf("total = %d, want 2656", totals.TotalCents)
	}
}

func TestRecomputeClosure(t *testing.T) {
	items := []domain.InvoiceItem{
		{Description: "Wash", Quantity: 3, RateCents: 1999},
		{Description: "Repair", Quantity: 2, RateCents: 333},
		{Description: "Waterproof", Quantity: 1, RateCents: 1500},
	}
	items, totals := Recompute(items, true, 6.25)

	var sum int64
	for _, it := range items {
		sum += it.AmountCents
	}
	if totals.SubtotalCents != sum {
		t.Fatalf("subtotal %d != sum of amounts %d", totals.SubtotalCents, sum)
	}
	if totals.TotalCents != totals.SubtotalCents+totals.TaxCents {
		t.Fatalf("total %d != subtotal %d + tax %d", totals.TotalCents, totals.SubtotalCents, totals.TaxCents)
	}
}

func TestRecomputeTaxToggle(t *testing.T) {
	items := []domain.InvoiceItem{{Description: "Wash", Quantity: 1, RateCents: 2500}}

	if _, totals := Recompute(items, false, 99.0); totals.TaxCents != 0 {
		t.Fatalf("tax off: tax = %d, want 0", totals.TaxCents)
	}
	if _, totals := Recompute(items, true, 0); totals.TaxCents != 0 {
		t.Fatalf("rate 0: tax = %d, want 0", totals.TaxCents)
	}
}

func TestRecomputeEmpty(t *testing.T) {
	items, totals := Recompute(nil, true, 6.25)
	if len(items) != 0 {
		t.Fatalf("expected no items")
	}
	if totals.SubtotalCents != 0 || totals.TaxCents != 0 || totals.TotalCents != 0 {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
}

func TestRecomputeCoercesQuantity(t *testing.T) {
	items := []domain.InvoiceItem{{Description: "Wash", Quantity: 0, RateCents: 100}}
	items, totals := Recompute(items, false, 0)
	if items[0].Quantity != 1 || items[0].AmountCents != 100 {
		t.Fatalf("quantity not coerced: %+v", items[0])
	}
	if totals.SubtotalCents != 100 {
		t.Fatalf("subtotal = %d", totals.SubtotalCents)
	}
}

func TestQuickAddDedup(t *testing.T) {
	c := catalog.Default()
	svc, _ := c.Lookup("cleaning")

	var items []domain.InvoiceItem
	items = QuickAdd(items, svc)
	items = QuickAdd(items, svc)

	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", items[0].Quantity)
	}
	if items[0].Description != svc.Label || items[0].RateCents != svc.PriceCents {
		t.Fatalf("unexpected line: %+v", items[0])
	}
}

func TestQuickAddSameDescriptionDifferentRate(t *testing.T) {
	c := catalog.Default()
	svc, _ := c.Lookup("cleaning")

	items := []domain.InvoiceItem{
		{Description: svc.Label, Quantity: 1, RateCents: svc.PriceCents + 500},
	}
	items = QuickAdd(items, svc)

	if len(items) != 2 {
		t.Fatalf("expected 2 lines (different rate is a distinct line), got %d", len(items))
	}
	if items[1].Quantity != 1 || items[1].RateCents != svc.PriceCents {
		t.Fatalf("unexpected appended line: %+v", items[1])
	}
}
