package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getcatalog "github.com/moraesvn/projeto-estoque/http-server/catalog/get"
	removecatalog "github.com/moraesvn/projeto-estoque/http-server/catalog/remove"
	savecatalog "github.com/moraesvn/projeto-estoque/http-server/catalog/save"
	generate_excel "github.com/moraesvn/projeto-estoque/http-server/generate-report/generate-excel"
	getkpis "github.com/moraesvn/projeto-estoque/http-server/kpis/get"
	getsessions "github.com/moraesvn/projeto-estoque/http-server/sessions/get"
	removesessions "github.com/moraesvn/projeto-estoque/http-server/sessions/remove"
	savesessions "github.com/moraesvn/projeto-estoque/http-server/sessions/save"
	upsessions "github.com/moraesvn/projeto-estoque/http-server/sessions/update"
	getsettings "github.com/moraesvn/projeto-estoque/http-server/settings/get"
	savesettings "github.com/moraesvn/projeto-estoque/http-server/settings/save"
	getstages "github.com/moraesvn/projeto-estoque/http-server/stages/get"
	upstages "github.com/moraesvn/projeto-estoque/http-server/stages/update"
	"github.com/moraesvn/projeto-estoque/internal/config"
	"github.com/moraesvn/projeto-estoque/internal/middleware/auth"
	"github.com/moraesvn/projeto-estoque/internal/service/kpi"
	"github.com/moraesvn/projeto-estoque/internal/service/report"
	"github.com/moraesvn/projeto-estoque/internal/service/tracking"
	"github.com/moraesvn/projeto-estoque/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage, tracker *tracking.Service, kpis *kpi.Service, reports *report.ExcelService) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Catalogs for the selection boxes
	router.Get("/api/operators", getcatalog.GetOperators(log, storage))
	router.Get("/api/marketplaces", getcatalog.GetMarketplaces(log, storage))

	// Lots (sessions) of the registration screen
	router.Post("/api/sessions", savesessions.SaveSession(log, tracker))
	router.Get("/api/sessions/today", getsessions.GetSessionsToday(log, tracker))
	router.Get("/api/sessions/{id}", getsessions.GetSession(log, tracker))
	router.Put("/api/sessions/{id}/orders", upsessions.UpdateSessionOrders(log, tracker))

	// Stage timers
	router.Get("/api/sessions/{id}/stages", getstages.GetStageTimes(log, tracker))
	router.Post("/api/sessions/{id}/stages/start", upstages.StartStage(log, tracker))
	router.Post("/api/sessions/{id}/stages/end", upstages.EndStage(log, tracker))

	// KPI screen
	router.Get("/api/kpis/overview", getkpis.GetOverview(log, kpis))
	router.Get("/api/kpis/stages", getkpis.GetStageBreakdown(log, kpis))
	router.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, reports))

	// Admin panel: catalog management, lot cleanup and settings
	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/operators", getcatalog.GetOperatorsAdmin(log, storage))
	adminRouter.Post("/operators", savecatalog.SaveOperator(log, storage))
	adminRouter.Delete("/operators/{id}", removecatalog.RemoveOperator(log, storage))
	adminRouter.Get("/marketplaces", getcatalog.GetMarketplacesAdmin(log, storage))
	adminRouter.Post("/marketplaces", savecatalog.SaveMarketplace(log, storage))
	adminRouter.Delete("/marketplaces/{id}", removecatalog.RemoveMarketplace(log, storage))
	adminRouter.Delete("/sessions/{id}", removesessions.RemoveSession(log, storage))
	adminRouter.Get("/settings/{key}", getsettings.GetSetting(log, storage))
	adminRouter.Put("/settings/{key}", savesettings.SaveSetting(log, storage))

	router.Mount("/api/admin", adminRouter)

	// Static SPA frontend
	frontendDir := cfg.FrontendDir
	if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
		log.Warn("frontend dir not found, API only", slog.String("path", frontendDir))
		return router
	}

	fileServer := http.StripPrefix("/", http.FileServer(http.Dir(frontendDir)))

	router.Handle("/assets/*", fileServer)
	router.Handle("/js/*", fileServer)
	router.Handle("/css/*", fileServer)
	router.Handle("/img/*", fileServer)

	// SPA fallback: serve real files, otherwise index.html
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, r.URL.Path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})

	return router
}
