package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saddleworks/stablecare-backend/internal/export"
	"github.com/saddleworks/stablecare-backend/internal/http/response"
	"github.com/saddleworks/stablecare-backend/internal/services"
)

type ExportHandler struct {
	customerService services.CustomerService
	requestService  services.RequestService
	invoiceService  services.InvoiceService
}

func NewExportHandler(
	customerService services.CustomerService,
	requestService services.RequestService,
	invoiceService services.InvoiceService,
) *ExportHandler {
	return &ExportHandler{
		customerService: customerService,
		requestService:  requestService,
		invoiceService:  invoiceService,
	}
}

func (h *ExportHandler) Invoices(c *gin.Context) {
	invoices, err := h.invoiceService.List(c.Request.Context(), "")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	setDownloadHeaders(c, "invoices")
	if err := export.Invoices(c.Writer, invoices); err != nil {
		_ = c.Error(err)
	}
}

func (h *ExportHandler) Customers(c *gin.Context) {
	customers, err := h.customerService.List(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	setDownloadHeaders(c, "customers")
	if err := export.Customers(c.Writer, customers); err != nil {
		_ = c.Error(err)
	}
}

func (h *ExportHandler) Requests(c *gin.Context) {
	requests, err := h.requestService.List(c.Request.Context(), "")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	setDownloadHeaders(c, "requests")
	if err := export.Requests(c.Writer, requests); err != nil {
		_ = c.Error(err)
	}
}

func setDownloadHeaders(c *gin.Context, name string) {
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
}
