package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	getdashboard "confeccao/http-server/dashboard/get"
	getfabrics "confeccao/http-server/fabrics/get"
	savefabrics "confeccao/http-server/fabrics/save"
	generate_excel "confeccao/http-server/generate-report/generate-excel"
	"confeccao/http-server/insights/generate"
	getorders "confeccao/http-server/orders/get"
	"confeccao/http-server/orders/lifecycle"
	saveorders "confeccao/http-server/orders/save"
	getprint "confeccao/http-server/print/get"
	getproducts "confeccao/http-server/products/get"
	saveproducts "confeccao/http-server/products/save"
	getreports "confeccao/http-server/reports/get"
	getseamstresses "confeccao/http-server/seamstresses/get"
	saveseamstresses "confeccao/http-server/seamstresses/save"
	"confeccao/internal/config"
	"confeccao/internal/middleware/auth"
	excelservice "confeccao/internal/service/generate-excel"
	"confeccao/internal/service/insights"
	"confeccao/internal/service/production"
	"confeccao/internal/service/report"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

type services struct {
	production *production.Service
	loader     *report.Loader
	excel      *excelservice.GenerateExcelService
	insights   *insights.Service
}

func routes(cfg config.Config, log *slog.Logger, svc services) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	loc := cfg.Location()
	prod := svc.production

	router.Route("/api", func(api chi.Router) {
		api.Use(auth.BasicAuth(log, cfg.AdminLogin, cfg.AdminPass))

		api.Get("/products", getproducts.GetProducts(log, prod))
		api.Post("/products", saveproducts.SaveProduct(log, prod))
		api.Put("/products/{id}", saveproducts.SaveProduct(log, prod))
		api.Delete("/products/{id}", saveproducts.DeleteProduct(log, prod))

		api.Get("/seamstresses", getseamstresses.GetSeamstresses(log, prod))
		api.Post("/seamstresses", saveseamstresses.SaveSeamstress(log, prod))
		api.Put("/seamstresses/{id}", saveseamstresses.SaveSeamstress(log, prod))

		api.Get("/fabrics", getfabrics.GetFabrics(log, prod))
		api.Post("/fabrics", savefabrics.SaveFabric(log, prod))
		api.Put("/fabrics/{id}", savefabrics.SaveFabric(log, prod))
		api.Post("/fabrics/{id}/stock", savefabrics.AddStock(log, prod))

		api.Get("/orders", getorders.GetOrders(log, prod))
		api.Get("/orders/next-id", getorders.GetNextID(log, prod))
		api.Get("/orders/{id}", getorders.GetOrder(log, prod))
		api.Post("/orders", saveorders.CreateOrder(log, prod))
		api.Put("/orders/{id}", saveorders.EditOrder(log, prod))
		api.Delete("/orders/{id}", saveorders.DeleteOrder(log, prod))

		// shop floor
		api.Post("/orders/{id}/cutting", lifecycle.MoveToCutting(log, prod))
		api.Get("/orders/{id}/cut-draft", getorders.GetCutDraft(log, prod))
		api.Post("/orders/{id}/cut", lifecycle.ConfirmCut(log, prod))
		api.Post("/orders/{id}/distribute", lifecycle.Distribute(log, prod))
		api.Post("/orders/{id}/splits/{splitID}/finish", lifecycle.FinishSplit(log, prod))

		api.Get("/dashboard", getdashboard.GetDashboard(log, svc.loader, loc))
		api.Get("/reports", getreports.GetReport(log, svc.loader, loc))
		api.Get("/reports/excel", generate_excel.GenerateReportExcel(log, svc.excel, loc))

		api.Get("/print/planned-orders", getprint.PrintPlannedOrders(log, svc.loader, loc))
		api.Get("/print/fabrics", getprint.PrintFabrics(log, prod, loc))

		api.Post("/insights", generate.GenerateInsights(log, svc.loader, svc.insights))
	})

	frontendDir := cfg.FrontendDir
	if _, err := os.Stat(frontendDir); err != nil {
		log.Warn("frontend dir not found, serving the API only", slog.String("path", frontendDir))
		return router
	}

	// SPA fallback: existing files are served as is, any other path gets index.html
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})

	return router
}
