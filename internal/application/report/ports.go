package report

import (
	"context"

	"github.com/mulphico/inventory-valuation/internal/domain/valuation"
)

// ReportCache caché de reportes indexada por la huella del alcance y la política de ajustes.
// hit indica si el reporte vino de la caché; los errores de load se propagan.
type ReportCache interface {
	Fetch(
		ctx context.Context,
		fingerprint, policy string,
		load func(context.Context) (*valuation.Report, error),
	) (report *valuation.Report, hit bool, err error)
	Invalidate(ctx context.Context) error
}

// DocumentRenderer genera el PDF tabular del reporte.
type DocumentRenderer interface {
	Render(ctx context.Context, report *valuation.Report) ([]byte, error)
	Filename() string
	ContentType() string
}

// WorkbookWriter genera la hoja de cálculo exportable.
type WorkbookWriter interface {
	Write(report *valuation.Report) ([]byte, error)
	Filename() string
	ContentType() string
}
