// Package export renders admin reporting downloads. Output is plain CSV
// meant for spreadsheets, not a wire format.
package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/saddleworks/stablecare-backend/internal/domain"
	"github.com/saddleworks/stablecare-backend/internal/money"
)

// Invoices writes one row per invoice with formatted money columns.
func Invoices(w io.Writer, invoices []*domain.Invoice) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"number", "customer_name", "customer_email", "status",
		"issue_date", "due_date", "sent_at",
		"subtotal", "tax", "total",
	}); err != nil {
		return err
	}
	for _, inv := range invoices {
		row := []string{
			inv.Number,
			inv.CustomerName,
			inv.CustomerEmail,
			string(inv.Status),
			inv.IssueDate.Format("2006-01-02"),
			formatDate(inv.DueDate),
			formatDate(inv.SentAt),
			money.Format(inv.SubtotalCents),
			money.Format(inv.TaxCents),
			money.Format(inv.TotalCents),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Customers writes the directory with the composed display address.
func Customers(w io.Writer, customers []*domain.Customer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"name", "email", "phone", "address", "created_at",
	}); err != nil {
		return err
	}
	for _, c := range customers {
		row := []string{
			c.Name,
			c.Email,
			c.Phone,
			c.DisplayAddress(),
			c.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Requests writes the service request log with the service list joined
// for spreadsheet filtering.
func Requests(w io.Writer, requests []*domain.ServiceRequest) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"id", "status", "services", "address", "pickup_date", "created_at",
	}); err != nil {
		return err
	}
	for _, r := range requests {
		services := ""
		for i, s := range r.Services {
			if i > 0 {
				services += "; "
			}
			services += s
		}
		row := []string{
			r.ID.String(),
			string(r.Status),
			services,
			r.Address,
			formatDate(r.PickupDate),
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
