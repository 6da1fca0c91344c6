package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/saddleworks/stablecare-backend/internal/platform/apierr"
	"github.com/saddleworks/stablecare-backend/internal/platform/logger"
	"github.com/saddleworks/stablecare-backend/internal/platform/sendgrid"
)

type fakeClient struct {
	last sendgrid.SendEmailRequest
	err  error
}

func (f *fakeClient) Send(ctx context.Context, req sendgrid.SendEmailRequest) (*sendgrid.SendEmailResult, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &sendgrid.SendEmailResult{StatusCode: 202, MessageID: "msg-123"}, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestSendConfirmationRendersRequest(t *testing.T) {
	client := &fakeClient{}
	m := NewMailer(testLogger(t), client)

	pickup := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	id, err := m.SendConfirmation(context.Background(), RequestView{
		CustomerName:  "Avery Whitfield",
		CustomerEmail: "avery@example.com",
		Address:       "12 Paddock Lane",
		Services:      []string{"cleaning", "repairs"},
		PickupDate:    &pickup,
		RepairNotes:   "torn chest strap",
	})
	if err != nil {
		t.Fatalf("SendConfirmation: %v", err)
	}
	if id != "msg-123" {
		t.Fatalf("unexpected message id %q", id)
	}
	if len(client.last.To) != 1 || client.last.To[0].Email != "avery@example.com" {
		t.Fatalf("wrong recipient: %+v", client.last.To)
	}
	for _, want := range []string{"cleaning, repairs", "12 Paddock Lane", "September 1, 2026", "torn chest strap"} {
		if !strings.Contains(client.last.Text, want) {
			t.Fatalf("body missing %q:\n%s", want, client.last.Text)
		}
	}
}

func TestSendStaffAlertWithoutAddressIsNoop(t *testing.T) {
	t.Setenv("STAFF_ALERT_EMAIL", "")
	client := &fakeClient{}
	m := NewMailer(testLogger(t), client)

	id, err := m.SendStaffAlert(context.Background(), RequestView{CustomerName: "A"})
	if err != nil {
		t.Fatalf("SendStaffAlert: %v", err)
	}
	if id != "" {
		t.Fatalf("expected no send without STAFF_ALERT_EMAIL, got %q", id)
	}
	if client.last.Subject != "" {
		t.Fatalf("client should not have been called")
	}
}

func TestSendInvoiceWrapsTransportError(t *testing.T) {
	client := &fakeClient{err: errors.New("502 bad gateway")}
	m := NewMailer(testLogger(t), client)

	_, err := m.SendInvoice(context.Background(), InvoiceView{
		Number:        "INV-007",
		CustomerName:  "Morgan Hale",
		CustomerEmail: "morgan@example.com",
		IssueDate:     time.Now(),
		Subtotal:      "$25.00",
		Tax:           "$1.56",
		Total:         "$26.56",
	})
	if !apierr.IsDispatch(err) {
		t.Fatalf("expected dispatch error, got %v", err)
	}
}

func TestRenderInvoiceIncludesTotals(t *testing.T) {
	due := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	body := renderInvoice(InvoiceView{
		Number:       "INV-042",
		CustomerName: "Morgan Hale",
		Items: []InvoiceItemView{
			{Description: "Turnout Blanket Cleaning", Quantity: 2, Rate: "$25.00", Amount: "$50.00"},
		},
		Subtotal:  "$50.00",
		Tax:       "$3.13",
		Total:     "$53.13",
		Notes:     "leave at tack room",
		IssueDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   &due,
	})
	for _, want := range []string{"INV-042", "Turnout Blanket Cleaning", "$53.13", "April 15, 2026", "leave at tack room"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}
