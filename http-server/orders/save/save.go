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

type OrderCreator interface {
	CreateOrder(ctx context.Context, in production.OrderInput) (storage.ProductionOrder, error)
}

type OrderEditor interface {
	EditOrder(ctx context.Context, id string, in production.OrderInput) (storage.ProductionOrder, error)
}

type OrderDeleter interface {
	DeleteOrder(ctx context.Context, id string) error
}

// CreateOrder plans a new order. The id is optional and defaults to the next free number.
func CreateOrder(log *slog.Logger, orders OrderCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.CreateOrder"

		var req production.OrderInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httperr.BadJSON(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		order, err := orders.CreateOrder(ctx, req)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		log.Info("order created", slog.String("op", op), slog.String("id", order.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, order)
	}
}

func EditOrder(log *slog.Logger, orders OrderEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.EditOrder"

		var req production.OrderInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httperr.BadJSON(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		order, err := orders.EditOrder(ctx, chi.URLParam(r, "id"), req)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		render.JSON(w, r, order)
	}
}

func DeleteOrder(log *slog.Logger, orders OrderDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.DeleteOrder"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := orders.DeleteOrder(ctx, id); err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		log.Info("order deleted", slog.String("op", op), slog.String("id", id))

		w.WriteHeader(http.StatusNoContent)
	}
}
