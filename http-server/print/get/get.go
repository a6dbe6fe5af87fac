// Package get serves the printable HTML sheets.
package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"confeccao/http-server/httperr"
	"confeccao/internal/service/printsheet"
	"confeccao/internal/service/production"
	"confeccao/internal/service/report"
	"confeccao/internal/storage"
)

type SnapshotLoader interface {
	Load(ctx context.Context) (report.Snapshot, error)
}

type FabricsProvider interface {
	ListFabrics(ctx context.Context, filter production.FabricFilter) ([]storage.Fabric, error)
}

// ?autoprint=false renders the page without opening the print dialog.
func options(r *http.Request, loc *time.Location) printsheet.Options {
	return printsheet.Options{
		AutoPrint: r.URL.Query().Get("autoprint") != "false",
		Location:  loc,
	}
}

func writeHTML(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// PrintPlannedOrders renders the cutting sheet of every planned order.
func PrintPlannedOrders(log *slog.Logger, loader SnapshotLoader, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.print.PrintPlannedOrders"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		snap, err := loader.Load(ctx)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		page, err := printsheet.PlannedOrders(snap.Orders, snap.Fabrics, options(r, loc))
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		writeHTML(w, page)
	}
}

// PrintFabrics renders the stock report with the same filters as GET /api/fabrics.
func PrintFabrics(log *slog.Logger, fabrics FabricsProvider, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.print.PrintFabrics"

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

		page, err := printsheet.Fabrics(list, time.Now(), options(r, loc))
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		writeHTML(w, page)
	}
}
