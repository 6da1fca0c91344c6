// Package notify is the boundary to the email transport. The services
// hand it fully-rendered data views; how the mail is transported and
// authenticated is this package's concern alone.
package notify

import (
	"context"
	"time"
)

// RequestView is the data contract for an intake confirmation: the
// customer copy and the staff alert are both rendered from it.
type RequestView struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       string
	Services      []string
	PickupDate    *time.Time
	RepairNotes   string
	Waterproofing string
	Allergies     string
}

// InvoiceItemView is one billable line, money already formatted.
type InvoiceItemView struct {
	Description string
	Quantity    int
	Rate        string
	Amount      string
}

// InvoiceView is the data contract for sending an invoice.
type InvoiceView struct {
	Number        string
	CustomerName  string
	CustomerEmail string
	Items         []InvoiceItemView
	Subtotal      string
	Tax           string
	Total         string
	Notes         string
	Terms         string
	IssueDate     time.Time
	DueDate       *time.Time
}

// Dispatcher sends outbound mail. Implementations return the
// transport's message id on success.
type Dispatcher interface {
	SendConfirmation(ctx context.Context, view RequestView) (string, error)
	SendStaffAlert(ctx context.Context, view RequestView) (string, error)
	SendInvoice(ctx context.Context, view InvoiceView) (string, error)
}
