package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/saddleworks/stablecare-backend/internal/catalog"
	"github.com/saddleworks/stablecare-backend/internal/http/response"
	"github.com/saddleworks/stablecare-backend/internal/money"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

// List exposes the service menu so the intake form and the invoice
// editor render codes, labels and prices from one source.
func (ch *CatalogHandler) List(c *gin.Context) {
	type serviceView struct {
		Code  string `json:"code"`
		Label string `json:"label"`
		Price string `json:"price"`
	}
	services := ch.catalog.All()
	out := make([]serviceView, 0, len(services))
	for _, s := range services {
		out = append(out, serviceView{
			Code:  s.Code,
			Label: s.Label,
			Price: money.Format(s.PriceCents),
		})
	}
	response.RespondOK(c, gin.H{
		"services": out,
		"tax_rate": ch.catalog.TaxRate(),
	})
}
