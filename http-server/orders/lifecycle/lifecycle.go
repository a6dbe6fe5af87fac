// Package lifecycle exposes the shop-floor steps of a production order.
package lifecycle

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

type CuttingStarter interface {
	MoveToCutting(ctx context.Context, id string) (production.CuttingResult, error)
}

type CutConfirmer interface {
	ConfirmCut(ctx context.Context, id string, sizes map[string]storage.SizeDistribution) (storage.ProductionOrder, error)
}

type Distributor interface {
	Distribute(ctx context.Context, id string, req production.DistributeRequest) (storage.ProductionOrder, error)
}

type SplitFinisher interface {
	FinishSplit(ctx context.Context, id, splitID string) (storage.ProductionOrder, error)
}

// MoveToCutting sends a planned order to the cutting room and answers with
// the fabric stock it consumed.
func MoveToCutting(log *slog.Logger, svc CuttingStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lifecycle.MoveToCutting"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := svc.MoveToCutting(ctx, id)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		log.Info("order moved to cutting",
			slog.String("op", op),
			slog.String("id", id),
			slog.Int("deductions", len(res.Deductions)),
		)

		render.JSON(w, r, res)
	}
}

type confirmCutRequest struct {
	Sizes map[string]storage.SizeDistribution `json:"sizes"`
}

// ConfirmCut records the pieces actually cut, per color and size.
func ConfirmCut(log *slog.Logger, svc CutConfirmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lifecycle.ConfirmCut"

		var req confirmCutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httperr.BadJSON(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		order, err := svc.ConfirmCut(ctx, chi.URLParam(r, "id"), req.Sizes)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		render.JSON(w, r, order)
	}
}

func Distribute(log *slog.Logger, svc Distributor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lifecycle.Distribute"

		var req production.DistributeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httperr.BadJSON(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		order, err := svc.Distribute(ctx, chi.URLParam(r, "id"), req)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		render.JSON(w, r, order)
	}
}

func FinishSplit(log *slog.Logger, svc SplitFinisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lifecycle.FinishSplit"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		order, err := svc.FinishSplit(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "splitID"))
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		if order.Status == storage.StatusFinished {
			log.Info("order finished", slog.String("op", op), slog.String("id", order.ID))
		}

		render.JSON(w, r, order)
	}
}
