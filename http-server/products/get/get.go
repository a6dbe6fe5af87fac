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

type ProductsProvider interface {
	ListProducts(ctx context.Context) ([]storage.ProductReference, error)
}

func GetProducts(log *slog.Logger, products ProductsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.products.GetProducts"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := products.ListProducts(ctx)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		render.JSON(w, r, list)
	}
}
