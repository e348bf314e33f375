package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	kpiget "github.com/moraesvn/projeto-estoque/http-server/kpis/get"
	"github.com/moraesvn/projeto-estoque/internal/storage"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, f storage.KPIFilter) ([]byte, error)
}

// GenerateReportExcel streams the KPI report as an xlsx download, using the
// same filter parameters as the KPI endpoints.
func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GenerateReportExcel"

		filter, err := kpiget.ParseFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, filter)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to generate excel report")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("KPIs_Expedicao_%s.xlsx", time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
