package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/saddleworks/stablecare-backend/internal/data/repos/testutil"
	"github.com/saddleworks/stablecare-backend/internal/domain"
	"github.com/saddleworks/stablecare-backend/internal/platform/apierr"
)

func TestInvoiceRepoCreateAssignsNumber(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewInvoiceRepo(db, testutil.Logger(t))
	ctx := context.Background()

	c := testutil.SeedCustomer(t, ctx, tx, "invnum@example.com")

	first := &domain.Invoice{
		CustomerID:   c.ID,
		CustomerName: c.Name,
		Status:       domain.InvoiceDraft,
		IssueDate:    time.Now(),
		Items: []domain.InvoiceItem{
			{Description: "Wash", Quantity: 1, RateCents: 2500, AmountCents: 2500},
		},
	}
	if err := repo.Create(ctx, tx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.Number == "" {
		t.Fatalf("Create: number not assigned")
	}

	second := &domain.Invoice{
		CustomerID:   c.ID,
		CustomerName: c.Name,
		Status:       domain.InvoiceDraft,
		IssueDate:    time.Now(),
	}
	if err := repo.Create(ctx, tx, second); err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if second.Number == first.Number {
		t.Fatalf("numbers must differ: %s", second.Number)
	}
}

func TestInvoiceRepoItemsOrdered(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewInvoiceRepo(db, testutil.Logger(t))
	ctx := context.Background()

	c := testutil.SeedCustomer(t, ctx, tx, "invorder@example.com")
	inv := &domain.Invoice{
		CustomerID:   c.ID,
		CustomerName: c.Name,
		Status:       domain.InvoiceDraft,
		IssueDate:    time.Now(),
		Items: []domain.InvoiceItem{
			{Description: "First", Quantity: 1, RateCents: 100, AmountCents: 100},
			{Description: "Second", Quantity: 1, RateCents: 200, AmountCents: 200},
			{Description: "Third", Quantity: 1, RateCents: 300, AmountCents: 300},
		},
	}
	if err := repo.Create(ctx, tx, inv); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, inv.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || len(got.Items) != 3 {
		t.Fatalf("GetByID: unexpected %+v", got)
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if got.Items[i].Description != want {
			t.Fatalf("item %d = %q, want %q", i, got.Items[i].Description, want)
		}
	}
}

func TestInvoiceRepoReplaceItems(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewInvoiceRepo(db, testutil.Logger(t))
	ctx := context.Background()

	c := testutil.SeedCustomer(t, ctx, tx, "invreplace@example.com")
	inv := &domain.Invoice{
		CustomerID:   c.ID,
		CustomerName: c.Name,
		Status:       domain.InvoiceDraft,
		IssueDate:    time.Now(),
		Items: []domain.InvoiceItem{
			{Description: "Old", Quantity: 1, RateCents: 100, AmountCents: 100},
		},
	}
	if err := repo.Create(ctx, tx, inv); err != nil {
		t.Fatalf("Create: %v", err)
	}

	inv.Items = []domain.InvoiceItem{
		{Description: "New A", Quantity: 2, RateCents: 500, AmountCents: 1000},
		{Description: "New B", Quantity: 1, RateCents: 700, AmountCents: 700},
	}
	inv.SubtotalCents = 1700
	inv.TotalCents = 1700
	if err := repo.ReplaceItems(ctx, tx, inv); err != nil {
		t.Fatalf("ReplaceItems: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, inv.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Items) != 2 || got.Items[0].Description != "New A" || got.Items[1].Description != "New B" {
		t.Fatalf("items not replaced: %+v", got.Items)
	}
	if got.SubtotalCents != 1700 || got.TotalCents != 1700 {
		t.Fatalf("totals not saved: %+v", got)
	}
}

func TestInvoiceRepoUpdateStatusMissing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewInvoiceRepo(db, testutil.Logger(t))
	ctx := context.Background()

	err := repo.UpdateStatus(ctx, tx, uuid.New(), domain.InvoiceSent, nil)
	if !apierr.IsNotFound(err) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
