package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"confeccao/http-server/httperr"
	"confeccao/internal/storage"

	"github.com/go-chi/render"
)

type SeamstressesProvider interface {
	ListSeamstresses(ctx context.Context) ([]storage.Seamstress, error)
}

// GetSeamstresses lists the team. ?active=true hides inactive seamstresses.
func GetSeamstresses(log *slog.Logger, team SeamstressesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.seamstresses.GetSeamstresses"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := team.ListSeamstresses(ctx)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		if r.URL.Query().Get("active") == "true" {
			active := make([]storage.Seamstress, 0, len(list))
			for _, s := range list {
				if s.Active {
					active = append(active, s)
				}
			}
			list = active
		}

		render.JSON(w, r, list)
	}
}
