package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"confeccao/http-server/httperr"
	"confeccao/internal/service/report"
	"confeccao/internal/storage"

	"github.com/go-chi/render"
)

type SnapshotLoader interface {
	Load(ctx context.Context) (report.Snapshot, error)
}

type Response struct {
	report.Report
	FabricOptions []string             `json:"fabricOptions"`
	Seamstresses  []storage.Seamstress `json:"seamstresses"`
}

// GetReport filters the orders by ?start=&end=&reference=&status=&fabric=&seamstress=
// and totals them. The filter choices come along for the report form.
func GetReport(log *slog.Logger, loader SnapshotLoader, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.GetReport"

		filter, err := report.ParseFilter(r.URL.Query(), loc)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		snap, err := loader.Load(ctx)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		seamstresses := snap.Seamstresses
		if seamstresses == nil {
			seamstresses = []storage.Seamstress{}
		}

		render.JSON(w, r, Response{
			Report:        report.Build(snap.Orders, filter),
			FabricOptions: report.FabricOptions(snap.Products),
			Seamstresses:  seamstresses,
		})
	}
}
