package get

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"confeccao/http-server/httperr"
	"confeccao/internal/service/report"
	"confeccao/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type OrdersProvider interface {
	ListOrders(ctx context.Context) ([]storage.ProductionOrder, error)
}

type OrderProvider interface {
	GetOrder(ctx context.Context, id string) (storage.ProductionOrder, error)
}

type NextIDProvider interface {
	NextOrderID(ctx context.Context) (string, error)
}

type CutDraftProvider interface {
	CutDraft(ctx context.Context, id string) ([]storage.OrderItem, error)
}

// GetOrders lists the order board, optionally narrowed by ?q= and ?status=.
func GetOrders(log *slog.Logger, orders OrdersProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.GetOrders"

		status := storage.OrderStatus(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
		if status != "" && !status.Valid() {
			httperr.Write(w, r, log, op, report.ErrInvalidFilter)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := orders.ListOrders(ctx)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		render.JSON(w, r, report.SearchOrders(list, r.URL.Query().Get("q"), status))
	}
}

func GetOrder(log *slog.Logger, orders OrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.GetOrder"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		order, err := orders.GetOrder(ctx, chi.URLParam(r, "id"))
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		render.JSON(w, r, order)
	}
}

func GetNextID(log *slog.Logger, orders NextIDProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.GetNextID"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := orders.NextOrderID(ctx)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		render.JSON(w, r, map[string]string{"id": id})
	}
}

// GetCutDraft returns the items pre-filled for the cut confirmation form.
func GetCutDraft(log *slog.Logger, orders CutDraftProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.GetCutDraft"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		items, err := orders.CutDraft(ctx, chi.URLParam(r, "id"))
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		render.JSON(w, r, items)
	}
}
