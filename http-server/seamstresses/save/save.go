package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"confeccao/http-server/httperr"
	"confeccao/internal/service/production"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type SeamstressSaver interface {
	SaveSeamstress(ctx context.Context, id string, in production.SeamstressInput) (production.SeamstressResult, error)
}

// SaveSeamstress serves both POST /api/seamstresses and PUT /api/seamstresses/{id}.
func SaveSeamstress(log *slog.Logger, team SeamstressSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.seamstresses.SaveSeamstress"

		var req production.SeamstressInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httperr.BadJSON(w, r, log, op, err)
			return
		}

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := team.SaveSeamstress(ctx, id, req)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		if id == "" {
			render.Status(r, http.StatusCreated)
		}
		render.JSON(w, r, res)
	}
}
