package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/saddleworks/stablecare-backend/internal/catalog"
	redisclient "github.com/saddleworks/stablecare-backend/internal/clients/redis"
	"github.com/saddleworks/stablecare-backend/internal/data/db"
	"github.com/saddleworks/stablecare-backend/internal/data/repos"
	httpserver "github.com/saddleworks/stablecare-backend/internal/http"
	httpH "github.com/saddleworks/stablecare-backend/internal/http/handlers"
	httpMW "github.com/saddleworks/stablecare-backend/internal/http/middleware"
	"github.com/saddleworks/stablecare-backend/internal/notify"
	"github.com/saddleworks/stablecare-backend/internal/observability"
	"github.com/saddleworks/stablecare-backend/internal/platform/envutil"
	"github.com/saddleworks/stablecare-backend/internal/platform/logger"
	"github.com/saddleworks/stablecare-backend/internal/platform/sendgrid"
	"github.com/saddleworks/stablecare-backend/internal/services"
)

func main() {
	_ = godotenv.Load()

	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "stablecare-backend",
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
	})

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Pricing catalog
	cat := catalog.Default()
	if path := envutil.String("CATALOG_PATH", ""); path != "" {
		cat, err = catalog.Load(path)
		if err != nil {
			log.Error("Catalog load failed", "path", path, "error", err)
			os.Exit(1)
		}
	}

	// Repos
	log.Info("Setting up repos...")
	customerRepo := repos.NewCustomerRepo(thePG, log)
	requestRepo := repos.NewServiceRequestRepo(thePG, log)
	invoiceRepo := repos.NewInvoiceRepo(thePG, log)

	// Outbound mail
	var dispatcher notify.Dispatcher
	sgClient, err := sendgrid.NewFromEnv(log)
	if err != nil {
		log.Warn("SendGrid init failed, notifications disabled", "error", err)
	} else {
		dispatcher = notify.NewMailer(log, sgClient)
	}

	// Rate limiting (optional; intake stays open without it)
	limiter, err := redisclient.NewRateLimiter(log)
	if err != nil {
		log.Warn("Redis rate limiter unavailable", "error", err)
		limiter = nil
	} else {
		defer limiter.Close()
	}

	// Services
	log.Info("Setting up services...")
	authService := services.NewAuthService(log)
	customerService := services.NewCustomerService(thePG, log, customerRepo)
	intakeService := services.NewIntakeService(thePG, log, customerService, requestRepo, cat, dispatcher)
	requestService := services.NewRequestService(thePG, log, requestRepo)
	invoiceService := services.NewInvoiceService(thePG, log, invoiceRepo, customerRepo, cat, dispatcher)

	// Handlers
	log.Info("Setting up handlers...")
	server := httpserver.NewServer(httpserver.RouterConfig{
		Log:             log,
		RateLimiter:     limiter,
		AuthHandler:     httpH.NewAuthHandler(authService),
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, authService),
		IntakeHandler:   httpH.NewIntakeHandler(intakeService),
		CatalogHandler:  httpH.NewCatalogHandler(cat),
		CustomerHandler: httpH.NewCustomerHandler(customerService),
		RequestHandler:  httpH.NewRequestHandler(requestService),
		InvoiceHandler:  httpH.NewInvoiceHandler(invoiceService),
		ExportHandler:   httpH.NewExportHandler(customerService, requestService, invoiceService),
		HealthHandler:   httpH.NewHealthHandler(),
	})

	port := envutil.String("PORT", "8080")
	go func() {
		log.Info("Server listening", "port", port)
		if err := server.Run(":" + port); err != nil {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("Server shutdown failed", "error", err)
	}
	if otelShutdown != nil {
		_ = otelShutdown(shutdownCtx)
	}
}
