package main

import (
	"strings"

	"inventorylite-backend/internal/audit"
	"inventorylite-backend/internal/auth"
	"inventorylite-backend/internal/billing"
	"inventorylite-backend/internal/cache"
	"inventorylite-backend/internal/catalog"
	"inventorylite-backend/internal/config"
	"inventorylite-backend/internal/dashboard"
	"inventorylite-backend/internal/database"
	"inventorylite-backend/internal/feedback"
	"inventorylite-backend/internal/inventory"
	"inventorylite-backend/internal/jobs"
	"inventorylite-backend/internal/logger"
	"inventorylite-backend/internal/orders"
	"inventorylite-backend/internal/partners"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	database.Init(cfg)
	cache.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.L.Error("unexpected error", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	app.Use(logger.RequestID())
	app.Use(logger.RequestLogger())

	origins := strings.Split(cfg.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/stripe/webhook", billing.StripeWebhookHandler(cfg))
	api.Post("/jobs/notifications", jobs.DispatchNotificationsHandler(cfg, jobs.NewSMTPSender(cfg)))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Post("/auth/delete-account", auth.DeleteAccountHandler())

	// Categories
	protected.Post("/categories", catalog.CreateCategoryHandler())
	protected.Get("/categories", catalog.ListCategoriesHandler())
	protected.Get("/categories/export", catalog.ExportCategoriesHandler())
	protected.Get("/categories/:id", catalog.GetCategoryHandler())
	protected.Put("/categories/:id", catalog.UpdateCategoryHandler())
	protected.Patch("/categories/:id/archive", catalog.ArchiveCategoryHandler())
	protected.Patch("/categories/:id/restore", catalog.RestoreCategoryHandler())

	// Domains
	protected.Post("/domains", catalog.CreateDomainHandler())
	protected.Get("/domains", catalog.ListDomainsHandler())
	protected.Get("/domains/export", catalog.ExportDomainsHandler())
	protected.Get("/domains/:id", catalog.GetDomainHandler())
	protected.Put("/domains/:id", catalog.UpdateDomainHandler())
	protected.Patch("/domains/:id/archive", catalog.ArchiveDomainHandler())
	protected.Patch("/domains/:id/restore", catalog.RestoreDomainHandler())

	// Stores
	protected.Post("/stores", catalog.CreateStoreHandler())
	protected.Get("/stores", catalog.ListStoresHandler())
	protected.Get("/stores/export", catalog.ExportStoresHandler())
	protected.Get("/stores/:id", catalog.GetStoreHandler())
	protected.Put("/stores/:id", catalog.UpdateStoreHandler())
	protected.Patch("/stores/:id/archive", catalog.ArchiveStoreHandler())
	protected.Patch("/stores/:id/restore", catalog.RestoreStoreHandler())

	// Variants
	protected.Post("/variants", catalog.CreateVariantHandler())
	protected.Get("/variants", catalog.ListVariantsHandler())
	protected.Get("/variants/export", catalog.ExportVariantsHandler())
	protected.Get("/variants/:id", catalog.GetVariantHandler())
	protected.Put("/variants/:id", catalog.UpdateVariantHandler())
	protected.Patch("/variants/:id/archive", catalog.ArchiveVariantHandler())
	protected.Patch("/variants/:id/restore", catalog.RestoreVariantHandler())

	// Suppliers
	protected.Post("/suppliers", partners.CreateSupplierHandler())
	protected.Get("/suppliers", partners.ListSuppliersHandler())
	protected.Get("/suppliers/export", partners.ExportSuppliersHandler())
	protected.Get("/suppliers/:id", partners.GetSupplierHandler())
	protected.Put("/suppliers/:id", partners.UpdateSupplierHandler())
	protected.Patch("/suppliers/:id/archive", partners.ArchiveSupplierHandler())
	protected.Patch("/suppliers/:id/restore", partners.RestoreSupplierHandler())

	// Customers
	protected.Post("/customers", partners.CreateCustomerHandler())
	protected.Get("/customers", partners.ListCustomersHandler())
	protected.Get("/customers/export", partners.ExportCustomersHandler())
	protected.Get("/customers/:id", partners.GetCustomerHandler())
	protected.Put("/customers/:id", partners.UpdateCustomerHandler())
	protected.Patch("/customers/:id/archive", partners.ArchiveCustomerHandler())
	protected.Patch("/customers/:id/restore", partners.RestoreCustomerHandler())

	// Vendors
	protected.Post("/vendors", partners.CreateVendorHandler())
	protected.Get("/vendors", partners.ListVendorsHandler())
	protected.Get("/vendors/export", partners.ExportVendorsHandler())
	protected.Get("/vendors/:id", partners.GetVendorHandler())
	protected.Put("/vendors/:id", partners.UpdateVendorHandler())
	protected.Patch("/vendors/:id/archive", partners.ArchiveVendorHandler())
	protected.Patch("/vendors/:id/restore", partners.RestoreVendorHandler())

	// Inventory items
	protected.Post("/items", inventory.CreateItemHandler())
	protected.Get("/items", inventory.ListItemsHandler())
	protected.Get("/items/export", inventory.ExportItemsHandler())
	protected.Get("/items/:id", inventory.GetItemHandler())
	protected.Put("/items/:id", inventory.UpdateItemHandler())
	protected.Patch("/items/:id/archive", inventory.ArchiveItemHandler())
	protected.Patch("/items/:id/restore", inventory.RestoreItemHandler())

	// Stock transactions
	protected.Post("/transactions", inventory.CreateTransactionHandler())
	protected.Get("/transactions", inventory.ListTransactionsHandler())

	// Purchase orders
	protected.Post("/purchase-orders", orders.CreatePurchaseOrderHandler())
	protected.Get("/purchase-orders", orders.ListPurchaseOrdersHandler())
	protected.Get("/purchase-orders/:id", orders.GetPurchaseOrderHandler())
	protected.Patch("/purchase-orders/:id/receive", orders.ReceivePurchaseOrderHandler())
	protected.Patch("/purchase-orders/:id/archive", orders.ArchivePurchaseOrderHandler())
	protected.Patch("/purchase-orders/:id/restore", orders.RestorePurchaseOrderHandler())

	// Sales orders
	protected.Post("/sales-orders", orders.CreateSalesOrderHandler())
	protected.Get("/sales-orders", orders.ListSalesOrdersHandler())
	protected.Get("/sales-orders/:id", orders.GetSalesOrderHandler())
	protected.Patch("/sales-orders/:id/fulfill", orders.FulfillSalesOrderHandler())
	protected.Patch("/sales-orders/:id/archive", orders.ArchiveSalesOrderHandler())
	protected.Patch("/sales-orders/:id/restore", orders.RestoreSalesOrderHandler())

	// Manual payments
	protected.Post("/manual-payments", billing.CreateManualPaymentHandler())
	protected.Get("/manual-payments", billing.ListManualPaymentsHandler())
	protected.Get("/manual-payments/export", billing.ExportManualPaymentsHandler())
	protected.Get("/manual-payments/:id", billing.GetManualPaymentHandler())
	protected.Put("/manual-payments/:id", billing.UpdateManualPaymentHandler())
	protected.Patch("/manual-payments/:id/archive", billing.ArchiveManualPaymentHandler())
	protected.Patch("/manual-payments/:id/restore", billing.RestoreManualPaymentHandler())

	// Feedback
	protected.Post("/feedback", feedback.CreateFeedbackHandler())
	protected.Get("/feedback", feedback.ListFeedbackHandler())
	protected.Patch("/feedback/:id/archive", feedback.ArchiveFeedbackHandler())
	protected.Patch("/feedback/:id/restore", feedback.RestoreFeedbackHandler())

	// Dashboard
	protected.Get("/dashboard/stats", dashboard.StatsHandler())
	protected.Get("/dashboard/monthly-trend", dashboard.MonthlyTrendHandler())

	// Audit trail
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	logger.L.Info("server starting", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.L.Fatal("server stopped", zap.Error(err))
	}
}
