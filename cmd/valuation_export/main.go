// valuation_export ejecuta un reporte de valorización contra PostgreSQL y escribe el archivo en disco.
//
// Uso:
//
//	go run ./cmd/valuation_export --from 2024-01-01 --to 2024-01-31 \
//	    --warehouses <uuid> --categories <uuid> \
//	    --locations <uuid>,<uuid> --products <uuid> --out report.xlsx
//
// Con --expand, las ubicaciones y productos omitidos se completan con las cascadas del catálogo
// (ubicaciones internas de las bodegas, productos de las categorías).
// La extensión de --out elige el formato: .xlsx (por defecto) o .pdf.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/text/language"

	"github.com/mulphico/inventory-valuation/internal/application/catalog"
	"github.com/mulphico/inventory-valuation/internal/application/dto"
	"github.com/mulphico/inventory-valuation/internal/application/report"
	"github.com/mulphico/inventory-valuation/internal/domain/valuation"
	infrapdf "github.com/mulphico/inventory-valuation/internal/infrastructure/pdf"
	"github.com/mulphico/inventory-valuation/internal/infrastructure/postgres"
	"github.com/mulphico/inventory-valuation/internal/infrastructure/xlsx"
	"github.com/mulphico/inventory-valuation/pkg/config"
	"github.com/mulphico/inventory-valuation/pkg/logger"
)

type options struct {
	from       string
	to         string
	warehouses []string
	locations  []string
	categories []string
	products   []string
	out        string
	expand     bool
	timeout    time.Duration
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := pflag.NewFlagSet("valuation_export", pflag.ContinueOnError)
	fs.StringVar(&o.from, "from", "", "fecha inicial (YYYY-MM-DD)")
	fs.StringVar(&o.to, "to", "", "fecha final (YYYY-MM-DD)")
	fs.StringSliceVar(&o.warehouses, "warehouses", nil, "IDs de bodega")
	fs.StringSliceVar(&o.locations, "locations", nil, "IDs de ubicación interna")
	fs.StringSliceVar(&o.categories, "categories", nil, "IDs de categoría")
	fs.StringSliceVar(&o.products, "products", nil, "IDs de producto")
	fs.StringVarP(&o.out, "out", "o", xlsx.Filename, "archivo de salida (.xlsx o .pdf)")
	fs.BoolVar(&o.expand, "expand", false, "completar ubicaciones y productos desde el catálogo")
	fs.DurationVar(&o.timeout, "timeout", 5*time.Minute, "tiempo máximo de ejecución")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.from == "" || o.to == "" {
		return o, errors.New("--from y --to son obligatorios")
	}
	return o, nil
}

// Códigos de salida del comando.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stderr))
}

// execute corre la exportación y devuelve el código de salida; los defer se cumplen antes de salir.
func execute(args []string, stderr io.Writer) int {
	opts, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, "Argumentos: %v\n", err)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Configuración: %v\n", err)
		return exitError
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: stderr})

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	if err := run(ctx, cfg, opts, log); err != nil {
		log.Error().Err(err).Msg("exportación fallida")
		return exitError
	}
	return exitOK
}

func run(ctx context.Context, cfg *config.Config, opts options, log *logger.Logger) error {
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	policy, err := valuation.ParseAdjustmentPolicy(cfg.Report.AdjustmentPolicy)
	if err != nil {
		return err
	}
	catalogRepo := postgres.NewCatalogRepository(pool)
	uc := report.NewValuationReportUseCase(
		postgres.NewValuationQueryRepository(pool), catalogRepo, nil,
		infrapdf.NewMarotoValuationRenderer(language.AmericanEnglish),
		xlsx.NewValuationWorkbookWriter(),
		nil,
		report.Settings{Placeholder: cfg.Report.Placeholder, Policy: policy},
		log,
	)

	req := dto.InventoryValuationRequest{
		DateFrom:     opts.from,
		DateTo:       opts.to,
		WarehouseIDs: opts.warehouses,
		LocationIDs:  opts.locations,
		CategoryIDs:  opts.categories,
		ProductIDs:   opts.products,
	}
	if opts.expand {
		if err := expand(ctx, catalog.NewCatalogUseCase(catalogRepo), &req); err != nil {
			return err
		}
	}

	var file *report.RenderedFile
	if strings.EqualFold(filepath.Ext(opts.out), ".pdf") {
		file, err = uc.RenderPDF(ctx, req)
	} else {
		file, err = uc.RenderXLSX(ctx, req)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.out, file.Data, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", opts.out, err)
	}
	log.Info().Str("out", opts.out).Int("bytes", len(file.Data)).Msg("reporte escrito")
	return nil
}

// expand completa las selecciones vacías con las cascadas del catálogo.
func expand(ctx context.Context, uc *catalog.CatalogUseCase, req *dto.InventoryValuationRequest) error {
	if len(req.LocationIDs) == 0 {
		locs, err := uc.Locations(ctx, req.WarehouseIDs)
		if err != nil {
			return err
		}
		for _, l := range locs.Items {
			req.LocationIDs = append(req.LocationIDs, l.ID)
		}
	}
	if len(req.ProductIDs) == 0 {
		prods, err := uc.Products(ctx, req.CategoryIDs)
		if err != nil {
			return err
		}
		for _, p := range prods.Items {
			req.ProductIDs = append(req.ProductIDs, p.ID)
		}
	}
	return nil
}
