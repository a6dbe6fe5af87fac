package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"confeccao/http-server/httperr"
	"confeccao/internal/service/production"
	"confeccao/internal/storage"

	"github.com/go-chi/render"
)

type FabricsProvider interface {
	ListFabrics(ctx context.Context, filter production.FabricFilter) ([]storage.Fabric, error)
}

// GetFabrics lists the stock, filtered by ?search= and ?minStock=.
func GetFabrics(log *slog.Logger, fabrics FabricsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.fabrics.GetFabrics"

		filter, err := production.ParseFabricFilter(r.URL.Query().Get("search"), r.URL.Query().Get("minStock"))
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := fabrics.ListFabrics(ctx, filter)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		render.JSON(w, r, list)
	}
}
