package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"confeccao/http-server/httperr"
	"confeccao/internal/service/report"

	"github.com/go-chi/render"
)

type SnapshotLoader interface {
	Load(ctx context.Context) (report.Snapshot, error)
}

// GetDashboard computes the home screen metrics. Day and month buckets use loc.
func GetDashboard(log *slog.Logger, loader SnapshotLoader, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dashboard.GetDashboard"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		snap, err := loader.Load(ctx)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		render.JSON(w, r, report.Dashboard(snap.Orders, snap.Seamstresses, time.Now(), loc))
	}
}
