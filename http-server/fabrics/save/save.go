package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"confeccao/http-server/httperr"
	"confeccao/internal/service/production"
	"confeccao/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type FabricSaver interface {
	SaveFabric(ctx context.Context, id string, in production.FabricInput) (storage.Fabric, error)
}

type StockAdder interface {
	AddStock(ctx context.Context, id string, amount float64) (storage.Fabric, error)
}

// SaveFabric serves both POST /api/fabrics and PUT /api/fabrics/{id}.
func SaveFabric(log *slog.Logger, fabrics FabricSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.fabrics.SaveFabric"

		var req production.FabricInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httperr.BadJSON(w, r, log, op, err)
			return
		}

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		fabric, err := fabrics.SaveFabric(ctx, id, req)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		if id == "" {
			render.Status(r, http.StatusCreated)
		}
		render.JSON(w, r, fabric)
	}
}

type addStockRequest struct {
	Amount production.RollAmount `json:"amount"`
}

// AddStock registers rolls received from a supplier.
func AddStock(log *slog.Logger, fabrics StockAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.fabrics.AddStock"

		var req addStockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httperr.BadJSON(w, r, log, op, err)
			return
		}

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		fabric, err := fabrics.AddStock(ctx, id, float64(req.Amount))
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		log.Info("stock added",
			slog.String("op", op),
			slog.String("fabric", id),
			slog.Float64("amount", float64(req.Amount)),
			slog.Float64("stock", fabric.StockRolls),
		)

		render.JSON(w, r, fabric)
	}
}
