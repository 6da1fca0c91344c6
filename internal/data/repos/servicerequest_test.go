package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/saddleworks/stablecare-backend/internal/data/repos/testutil"
	"github.com/saddleworks/stablecare-backend/internal/domain"
	"github.com/saddleworks/stablecare-backend/internal/platform/apierr"
)

func TestServiceRequestRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewServiceRequestRepo(db, testutil.Logger(t))
	ctx := context.Background()

	c := testutil.SeedCustomer(t, ctx, tx, "requests@example.com")

	req := &domain.ServiceRequest{
		CustomerID: c.ID,
		Services:   []string{"cleaning", "repairs"},
		Address:    "2 Paddock Way",
	}
	if err := repo.Create(ctx, tx, req); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if req.Status != domain.RequestPending {
		t.Fatalf("Create: status = %q, want pending", req.Status)
	}

	got, err := repo.GetByID(ctx, tx, req.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || len(got.Services) != 2 || got.Services[0] != "cleaning" {
		t.Fatalf("GetByID: unexpected %+v", got)
	}

	if err := repo.UpdateStatus(ctx, tx, req.ID, domain.RequestScheduled); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	scheduled, err := repo.List(ctx, tx, domain.RequestScheduled)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, r := range scheduled {
		if r.ID == req.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("List(scheduled): request missing")
	}

	if err := repo.Delete(ctx, tx, req.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, err := repo.GetByID(ctx, tx, req.ID)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if gone != nil {
		t.Fatalf("request survived delete")
	}
}

func TestServiceRequestRepoUpdateStatusMissing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewServiceRequestRepo(db, testutil.Logger(t))

	err := repo.UpdateStatus(context.Background(), tx, uuid.New(), domain.RequestCancelled)
	if !apierr.IsNotFound(err) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
