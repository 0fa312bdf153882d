package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"

	"github.com/mulphico/inventory-valuation/internal/application/catalog"
	"github.com/mulphico/inventory-valuation/internal/application/report"
	"github.com/mulphico/inventory-valuation/internal/domain/valuation"
	"github.com/mulphico/inventory-valuation/internal/infrastructure/cache"
	infrapdf "github.com/mulphico/inventory-valuation/internal/infrastructure/pdf"
	"github.com/mulphico/inventory-valuation/internal/infrastructure/postgres"
	"github.com/mulphico/inventory-valuation/internal/infrastructure/storage"
	"github.com/mulphico/inventory-valuation/internal/infrastructure/xlsx"
	httpRouter "github.com/mulphico/inventory-valuation/internal/interfaces/http"
	"github.com/mulphico/inventory-valuation/internal/observability/metrics"
	"github.com/mulphico/inventory-valuation/pkg/config"
	"github.com/mulphico/inventory-valuation/pkg/jwt"
	"github.com/mulphico/inventory-valuation/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	metrics.Init(pool)

	// Caché de reportes (opcional): sin REDIS_ADDR cada solicitud agrega en línea.
	var reportCache report.ReportCache
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no responde; la caché se degradará por solicitud")
		}
		cancel()
		reportCache = cache.NewReportCache(rdb, cfg.Report.CacheTTL, log)
	}

	artifactStore, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("almacenamiento de exportaciones")
	}

	policy, err := valuation.ParseAdjustmentPolicy(cfg.Report.AdjustmentPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("política de ajustes")
	}

	queryRepo := postgres.NewValuationQueryRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)

	reportUC := report.NewValuationReportUseCase(
		queryRepo, catalogRepo, reportCache,
		infrapdf.NewMarotoValuationRenderer(language.AmericanEnglish),
		xlsx.NewValuationWorkbookWriter(),
		artifactStore,
		report.Settings{Placeholder: cfg.Report.Placeholder, Policy: policy},
		log,
	)
	catalogUC := catalog.NewCatalogUseCase(catalogRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Inventory Valuation API",
		}))
	} else {
		log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger no disponible")
	}

	verifier, err := jwt.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Leeway)
	if err != nil {
		log.Fatal().Err(err).Msg("JWT_SECRET requerido")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ReportUC:    reportUC,
		CatalogUC:   catalogUC,
		Verifier:    verifier,
		ServiceName: cfg.App.Name,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
