package generate

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"confeccao/http-server/httperr"
	"confeccao/internal/service/insights"
	"confeccao/internal/service/report"
	"confeccao/internal/storage"

	"github.com/go-chi/render"
)

type SnapshotLoader interface {
	Load(ctx context.Context) (report.Snapshot, error)
}

type InsightsGenerator interface {
	Generate(ctx context.Context, orders []storage.ProductionOrder, seamstresses []storage.Seamstress) insights.Result
}

// GenerateInsights asks the model for a summary of the current production.
// Model failures still answer 200 with a fallback text.
func GenerateInsights(log *slog.Logger, loader SnapshotLoader, gen InsightsGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.insights.GenerateInsights"

		loadCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		snap, err := loader.Load(loadCtx)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		// the model can take a while
		genCtx, cancelGen := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancelGen()

		render.JSON(w, r, gen.Generate(genCtx, snap.Orders, snap.Seamstresses))
	}
}
