package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/saddleworks/stablecare-backend/internal/catalog"
	"github.com/saddleworks/stablecare-backend/internal/data/repos"
	"github.com/saddleworks/stablecare-backend/internal/data/repos/testutil"
	"github.com/saddleworks/stablecare-backend/internal/domain"
	"github.com/saddleworks/stablecare-backend/internal/notify"
	"github.com/saddleworks/stablecare-backend/internal/platform/apierr"
)

// stubDispatcher records outbound sends and fails on demand. Shared by
// the intake and invoice service tests.
type stubDispatcher struct {
	mu            sync.Mutex
	confirmations int
	alerts        int
	invoices      int
	err           error
}

func (d *stubDispatcher) SendConfirmation(ctx context.Context, view notify.RequestView) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.confirmations++
	if d.err != nil {
		return "", d.err
	}
	return "msg-confirmation", nil
}

func (d *stubDispatcher) SendStaffAlert(ctx context.Context, view notify.RequestView) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alerts++
	if d.err != nil {
		return "", d.err
	}
	return "msg-alert", nil
}

func (d *stubDispatcher) SendInvoice(ctx context.Context, view notify.InvoiceView) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.invoices++
	if d.err != nil {
		return "", d.err
	}
	return "msg-invoice", nil
}

func newIntakeFixture(t *testing.T, dispatcher notify.Dispatcher) (IntakeService, repos.CustomerRepo, repos.ServiceRequestRepo) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	customerRepo := repos.NewCustomerRepo(db, log)
	requestRepo := repos.NewServiceRequestRepo(db, log)
	customerService := NewCustomerService(db, log, customerRepo)
	svc := NewIntakeService(db, log, customerService, requestRepo, catalog.Default(), dispatcher)
	return svc, customerRepo, requestRepo
}

func TestDerivePickupDate(t *testing.T) {
	now := time.Date(2026, time.June, 15, 14, 30, 0, 0, time.UTC)

	cases := []struct {
		name       string
		month, day int
		want       string
		wantNil    bool
	}{
		{name: "future this year", month: 9, day: 1, want: "2026-09-01"},
		{name: "already passed rolls forward", month: 2, day: 10, want: "2027-02-10"},
		{name: "today stays current year", month: 6, day: 15, want: "2026-06-15"},
		{name: "tomorrow stays current year", month: 6, day: 16, want: "2026-06-16"},
		{name: "month out of range", month: 13, day: 1, wantNil: true},
		{name: "day out of range", month: 6, day: 40, wantNil: true},
		{name: "zero month", month: 0, day: 10, wantNil: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DerivePickupDate(tc.month, tc.day, now)
			if tc.wantNil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %s, got nil", tc.want)
			}
			if got.Format("2006-01-02") != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got.Format("2006-01-02"))
			}
		})
	}
}

func TestIntakeSubmitCreatesCustomerAndRequest(t *testing.T) {
	dispatcher := &stubDispatcher{}
	svc, customerRepo, requestRepo := newIntakeFixture(t, dispatcher)
	ctx := context.Background()

	month, day := 9, 1
	res, err := svc.Submit(ctx, IntakeInput{
		FullName:    "Avery Whitfield",
		Email:       "intake-new@example.com",
		Phone:       "555-0100",
		Address:     "12 Paddock Lane, Aiken, SC",
		PickupMonth: &month,
		PickupDay:   &day,
		Services:    []string{"cleaning", "repairs"},
		RepairNotes: "torn chest strap",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	customer, err := customerRepo.GetByID(ctx, nil, res.CustomerID)
	if err != nil || customer == nil {
		t.Fatalf("customer not created: %v %v", customer, err)
	}
	if customer.Email != "intake-new@example.com" {
		t.Fatalf("unexpected customer email %q", customer.Email)
	}

	req, err := requestRepo.GetByID(ctx, nil, res.RequestID)
	if err != nil || req == nil {
		t.Fatalf("request not created: %v %v", req, err)
	}
	if req.Status != domain.RequestPending {
		t.Fatalf("expected pending request, got %s", req.Status)
	}
	if req.Address != "12 Paddock Lane, Aiken, SC" {
		t.Fatalf("address not snapshotted: %q", req.Address)
	}
	if req.PickupDate == nil {
		t.Fatalf("pickup date not derived")
	}
	if len(req.Services) != 2 {
		t.Fatalf("expected 2 services, got %v", req.Services)
	}

	if dispatcher.confirmations != 1 || dispatcher.alerts != 1 {
		t.Fatalf("expected confirmation and staff alert, got %d/%d", dispatcher.confirmations, dispatcher.alerts)
	}
}

func TestIntakeSubmitReusesCustomerByEmail(t *testing.T) {
	svc, customerRepo, _ := newIntakeFixture(t, &stubDispatcher{})
	ctx := context.Background()

	existing := &domain.Customer{Name: "Original Name", Email: "intake-repeat@example.com"}
	if err := customerRepo.Create(ctx, nil, existing); err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	res, err := svc.Submit(ctx, IntakeInput{
		FullName: "Different Name",
		Email:    "intake-repeat@example.com",
		Address:  "old barn road",
		Services: []string{"waterproofing"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.CustomerID != existing.ID {
		t.Fatalf("expected existing customer %s, got %s", existing.ID, res.CustomerID)
	}

	var count int64
	if err := testutil.DB(t).Model(&domain.Customer{}).
		Where("email = ?", "intake-repeat@example.com").
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 customer row, got %d", count)
	}

	got, err := customerRepo.GetByID(ctx, nil, existing.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Original Name" {
		t.Fatalf("repeat intake must not overwrite the customer, got %q", got.Name)
	}
}

func TestIntakeSubmitValidation(t *testing.T) {
	svc, _, _ := newIntakeFixture(t, &stubDispatcher{})
	ctx := context.Background()

	cases := []struct {
		name  string
		input IntakeInput
	}{
		{"no services", IntakeInput{FullName: "A", Email: "v1@example.com", Address: "x"}},
		{"unknown service", IntakeInput{FullName: "A", Email: "v2@example.com", Address: "x", Services: []string{"grooming"}}},
		{"missing name", IntakeInput{Email: "v3@example.com", Address: "x", Services: []string{"cleaning"}}},
		{"missing email", IntakeInput{FullName: "A", Address: "x", Services: []string{"cleaning"}}},
		{"missing address", IntakeInput{FullName: "A", Email: "v4@example.com", Services: []string{"cleaning"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Submit(ctx, tc.input); !apierr.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	// Rejected submissions must leave no rows behind.
	var count int64
	if err := testutil.DB(t).Model(&domain.Customer{}).
		Where("email LIKE ?", "v%@example.com").
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("validation failure created %d customer rows", count)
	}
}

func TestIntakeSubmitSurvivesDispatchFailure(t *testing.T) {
	dispatcher := &stubDispatcher{err: errors.New("smtp down")}
	svc, _, requestRepo := newIntakeFixture(t, dispatcher)
	ctx := context.Background()

	res, err := svc.Submit(ctx, IntakeInput{
		FullName: "Rey Calder",
		Email:    "intake-dispatchfail@example.com",
		Address:  "1 Stable Way",
		Services: []string{"cleaning"},
	})
	if err != nil {
		t.Fatalf("Submit must succeed when notification fails, got %v", err)
	}

	req, err := requestRepo.GetByID(ctx, nil, res.RequestID)
	if err != nil || req == nil {
		t.Fatalf("request missing after dispatch failure: %v %v", req, err)
	}
	if req.Status != domain.RequestPending {
		t.Fatalf("expected pending, got %s", req.Status)
	}
}
