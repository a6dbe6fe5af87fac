package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"confeccao/http-server/httperr"
	"confeccao/internal/service/report"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, filter report.Filter) ([]byte, error)
}

// GenerateReportExcel downloads the report workbook for the same query
// parameters as GET /api/reports.
func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler, loc *time.Location) http.HandlerFunc {
	if loc == nil {
		loc = time.Local
	}

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.reports.GenerateReportExcel"

		filter, err := report.ParseFilter(r.URL.Query(), loc)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, filter)
		if err != nil {
			httperr.Write(w, r, log, op, err)
			return
		}

		fileName := fmt.Sprintf("Relatorio_Producao_%s.xlsx", time.Now().In(loc).Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
