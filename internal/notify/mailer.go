package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/saddleworks/stablecare-backend/internal/platform/apierr"
	"github.com/saddleworks/stablecare-backend/internal/platform/envutil"
	"github.com/saddleworks/stablecare-backend/internal/platform/logger"
	"github.com/saddleworks/stablecare-backend/internal/platform/sendgrid"
)

type Mailer struct {
	log        *logger.Logger
	client     sendgrid.Client
	staffEmail string
}

func NewMailer(log *logger.Logger, client sendgrid.Client) *Mailer {
	return &Mailer{
		log:        log.With("service", "Mailer"),
		client:     client,
		staffEmail: envutil.String("STAFF_ALERT_EMAIL", ""),
	}
}

// SendConfirmation emails the customer a pickup confirmation.
func (m *Mailer) SendConfirmation(ctx context.Context, view RequestView) (string, error) {
	res, err := m.client.Send(ctx, sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: view.CustomerEmail, Name: view.CustomerName}},
		Subject: "We received your service request",
		Text:    renderConfirmation(view),
	})
	if err != nil {
		return "", apierr.Dispatch(err)
	}
	return res.MessageID, nil
}

// SendStaffAlert notifies the configured staff address of a new intake.
// Without STAFF_ALERT_EMAIL it is a no-op.
func (m *Mailer) SendStaffAlert(ctx context.Context, view RequestView) (string, error) {
	if m.staffEmail == "" {
		return "", nil
	}
	res, err := m.client.Send(ctx, sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: m.staffEmail}},
		Subject: "New service request: " + view.CustomerName,
		Text:    renderStaffAlert(view),
	})
	if err != nil {
		return "", apierr.Dispatch(err)
	}
	return res.MessageID, nil
}

func (m *Mailer) SendInvoice(ctx context.Context, view InvoiceView) (string, error) {
	res, err := m.client.Send(ctx, sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: view.CustomerEmail, Name: view.CustomerName}},
		Subject: fmt.Sprintf("Invoice %s", view.Number),
		Text:    renderInvoice(view),
	})
	if err != nil {
		return "", apierr.Dispatch(err)
	}
	return res.MessageID, nil
}

func renderConfirmation(view RequestView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", view.CustomerName)
	b.WriteString("Thanks for your service request. Here is what we have on file:\n\n")
	fmt.Fprintf(&b, "Services: %s\n", strings.Join(view.Services, ", "))
	fmt.Fprintf(&b, "Pickup address: %s\n", view.Address)
	if view.PickupDate != nil {
		fmt.Fprintf(&b, "Pickup date: %s\n", view.PickupDate.Format("January 2, 2006"))
	}
	if view.RepairNotes != "" {
		fmt.Fprintf(&b, "Repair notes: %s\n", view.RepairNotes)
	}
	if view.Waterproofing != "" {
		fmt.Fprintf(&b, "Waterproofing notes: %s\n", view.Waterproofing)
	}
	if view.Allergies != "" {
		fmt.Fprintf(&b, "Allergies: %s\n", view.Allergies)
	}
	b.WriteString("\nWe'll be in touch to confirm pickup.\n")
	return b.String()
}

func renderStaffAlert(view RequestView) string {
	var b strings.Builder
	b.WriteString("New intake submission.\n\n")
	fmt.Fprintf(&b, "Customer: %s <%s> %s\n", view.CustomerName, view.CustomerEmail, view.CustomerPhone)
	fmt.Fprintf(&b, "Services: %s\n", strings.Join(view.Services, ", "))
	fmt.Fprintf(&b, "Address: %s\n", view.Address)
	if view.PickupDate != nil {
		fmt.Fprintf(&b, "Pickup date: %s\n", view.PickupDate.Format("2006-01-02"))
	}
	return b.String()
}

func renderInvoice(view InvoiceView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Invoice %s for %s\n", view.Number, view.CustomerName)
	fmt.Fprintf(&b, "Issued: %s\n", view.IssueDate.Format("January 2, 2006"))
	if view.DueDate != nil {
		fmt.Fprintf(&b, "Due: %s\n", view.DueDate.Format("January 2, 2006"))
	}
	b.WriteString("\n")
	for _, it := range view.Items {
		fmt.Fprintf(&b, "%-40s %3d x %10s = %10s\n", it.Description, it.Quantity, it.Rate, it.Amount)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", view.Subtotal)
	fmt.Fprintf(&b, "Tax:      %s\n", view.Tax)
	fmt.Fprintf(&b, "Total:    %s\n", view.Total)
	if view.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", view.Notes)
	}
	if view.Terms != "" {
		fmt.Fprintf(&b, "\nTerms: %s\n", view.Terms)
	}
	return b.String()
}
