package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/saddleworks/stablecare-backend/internal/clients/redis"
	httpH "github.com/saddleworks/stablecare-backend/internal/http/handlers"
	httpMW "github.com/saddleworks/stablecare-backend/internal/http/middleware"
	"github.com/saddleworks/stablecare-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	RateLimiter redis.RateLimiter

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	IntakeHandler   *httpH.IntakeHandler
	CatalogHandler  *httpH.CatalogHandler
	CustomerHandler *httpH.CustomerHandler
	RequestHandler  *httpH.RequestHandler
	InvoiceHandler  *httpH.InvoiceHandler
	ExportHandler   *httpH.ExportHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(otelgin.Middleware("stablecare-backend"))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Public surface: login, the service menu, and the intake form.
		if cfg.AuthHandler != nil {
			api.POST("/login", cfg.AuthHandler.Login)
		}
		if cfg.CatalogHandler != nil {
			api.GET("/services", cfg.CatalogHandler.List)
		}
		if cfg.IntakeHandler != nil {
			api.POST("/intake", httpMW.IntakeRateLimit(cfg.Log, cfg.RateLimiter), cfg.IntakeHandler.Submit)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Customers
		if cfg.CustomerHandler != nil {
			protected.POST("/customers", cfg.CustomerHandler.Create)
			protected.GET("/customers", cfg.CustomerHandler.List)
			protected.GET("/customers/:id", cfg.CustomerHandler.Get)
			protected.PUT("/customers/:id", cfg.CustomerHandler.Update)
			protected.DELETE("/customers/:id", cfg.CustomerHandler.Delete)
		}

		// Service requests
		if cfg.RequestHandler != nil {
			protected.GET("/requests", cfg.RequestHandler.List)
			protected.GET("/requests/:id", cfg.RequestHandler.Get)
			protected.PATCH("/requests/:id/status", cfg.RequestHandler.SetStatus)
			protected.DELETE("/requests/:id", cfg.RequestHandler.Delete)
		}

		// Invoices
		if cfg.InvoiceHandler != nil {
			protected.POST("/invoices", cfg.InvoiceHandler.Create)
			protected.GET("/invoices", cfg.InvoiceHandler.List)
			protected.GET("/invoices/:id", cfg.InvoiceHandler.Get)
			protected.PUT("/invoices/:id", cfg.InvoiceHandler.Update)
			protected.DELETE("/invoices/:id", cfg.InvoiceHandler.Delete)
			protected.POST("/invoices/:id/items/quick-add", cfg.InvoiceHandler.QuickAddItem)
			protected.DELETE("/invoices/:id/items/:itemId", cfg.InvoiceHandler.RemoveItem)
			protected.POST("/invoices/:id/send", cfg.InvoiceHandler.Send)
			protected.PATCH("/invoices/:id/status", cfg.InvoiceHandler.SetStatus)
		}

		// CSV exports
		if cfg.ExportHandler != nil {
			protected.GET("/exports/invoices.csv", cfg.ExportHandler.Invoices)
			protected.GET("/exports/customers.csv", cfg.ExportHandler.Customers)
			protected.GET("/exports/requests.csv", cfg.ExportHandler.Requests)
		}
	}

	return r
}
