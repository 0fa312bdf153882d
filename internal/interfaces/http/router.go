package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mulphico/inventory-valuation/pkg/jwt"
	"github.com/mulphico/inventory-valuation/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReportUC    reportService
	CatalogUC   catalogService
	Verifier    *jwt.Verifier
	ServiceName string
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	// Operación (público)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.Verifier))

	// Catálogo: cualquier rol autenticado
	catalogGroup := api.Group("/catalog")
	catalogHandler := NewCatalogHandler(deps.CatalogUC, log.Component("http.catalog"))
	catalogGroup.Get("/warehouses", catalogHandler.Warehouses)
	catalogGroup.Get("/categories", catalogHandler.Categories)
	catalogGroup.Get("/locations", catalogHandler.Locations)
	catalogGroup.Get("/products", catalogHandler.Products)

	// Reportes: admin o bodeguero
	reports := api.Group("/reports", RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero))
	reportHandler := NewReportHandler(deps.ReportUC, log.Component("http.report"))
	reports.Post("/inventory-valuation", reportHandler.Generate)
	reports.Post("/inventory-valuation/pdf", reportHandler.PDF)
	reports.Post("/inventory-valuation/xlsx", reportHandler.XLSX)
	reports.Get("/artifacts/:id", reportHandler.Artifact)
	reports.Post("/cache/invalidate", RequireRole(jwt.RoleAdmin), reportHandler.InvalidateCache)
}
