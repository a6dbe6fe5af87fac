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

type ProductSaver interface {
	SaveProduct(ctx context.Context, p storage.ProductReference) (production.ProductResult, error)
}

type ProductDeleter interface {
	DeleteProduct(ctx context.Context, id string) error
}

// SaveProduct serves both POST /api/products and PUT /api/products/{id}.
// Optional columns the database lacks are reported back in "dropped".
func SaveProduct(log *slog.Logger, products ProductSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.products.SaveProduct"

		var req storage.ProductReference
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httperr.BadJSON(w, r, log, op, err)
			return
		}

		id := chi.URLParam(r, "id")
		req.ID = id

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := products.SaveProduct(ctx, req)
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

func DeleteProduct(log *slog.Logger, products ProductDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.products.DeleteProduct"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := products.DeleteProduct(ctx, chi.URLParam(r, "id")); err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
