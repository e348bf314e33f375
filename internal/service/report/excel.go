package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/moraesvn/projeto-estoque/internal/service/kpi"
	"github.com/moraesvn/projeto-estoque/internal/storage"
)

type KPIService interface {
	Overview(ctx context.Context, f storage.KPIFilter) (*kpi.Overview, error)
	StageBreakdown(ctx context.Context, f storage.KPIFilter) (*kpi.StageBreakdown, error)
}

// ExcelService renders the KPI screen as a downloadable workbook: the metric
// cards, the per-day active time series and the per-stage breakdown.
type ExcelService struct {
	kpis KPIService
}

func NewExcelService(kpis KPIService) *ExcelService {
	return &ExcelService{kpis: kpis}
}

func (g *ExcelService) GenerateExcel(ctx context.Context, f storage.KPIFilter) ([]byte, error) {
	const op = "service.report.GenerateExcel"

	overview, err := g.kpis.Overview(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: overview: %w", op, err)
	}
	breakdown, err := g.kpis.StageBreakdown(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: breakdown: %w", op, err)
	}

	file := excelize.NewFile()
	defer file.Close()
	sheet := "KPIs Expedição"
	file.SetSheetName("Sheet1", sheet)

	headerStyle, _ := file.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	file.SetCellValue(sheet, "A1", fmt.Sprintf("Período: %s a %s", f.Start, f.End))

	// Metric cards.
	file.SetCellValue(sheet, "A3", "Métrica")
	file.SetCellValue(sheet, "B3", "Valor")
	file.SetCellStyle(sheet, "A3", "B3", headerStyle)

	file.SetCellValue(sheet, "A4", "Média de pedidos por hora")
	file.SetCellValue(sheet, "B4", overview.OrdersPerHour.OrdersPerHour)
	file.SetCellValue(sheet, "A5", "Média de tempo utilizado por dia")
	file.SetCellValue(sheet, "B5", overview.AvgDailyActiveTime)
	file.SetCellValue(sheet, "A6", "Média de tempo por pedido")
	file.SetCellValue(sheet, "B6", overview.AvgTimePerOrder)

	row := 7
	if overview.OrdersPerHour.Target != nil {
		file.SetCellValue(sheet, cellName(1, row), "Meta de pedidos por hora")
		file.SetCellValue(sheet, cellName(2, row), *overview.OrdersPerHour.Target)
		row++
		file.SetCellValue(sheet, cellName(1, row), "Diferença para a meta")
		file.SetCellValue(sheet, cellName(2, row), *overview.OrdersPerHour.TargetDelta)
		row++
	}
	row++

	// Per-day active time.
	file.SetCellValue(sheet, cellName(1, row), "Dia")
	file.SetCellValue(sheet, cellName(2, row), "Tempo ativo")
	file.SetCellStyle(sheet, cellName(1, row), cellName(2, row), headerStyle)
	row++
	for _, day := range overview.DailyActive {
		file.SetCellValue(sheet, cellName(1, row), day.Day)
		file.SetCellValue(sheet, cellName(2, row), day.ActiveTime)
		row++
	}
	row++

	// Per-stage breakdown (plain sums, not the union).
	file.SetCellValue(sheet, cellName(1, row), "Etapa")
	file.SetCellValue(sheet, cellName(2, row), "Tempo total")
	file.SetCellValue(sheet, cellName(3, row), "Pedidos")
	file.SetCellValue(sheet, cellName(4, row), "Seg/pedido")
	file.SetCellStyle(sheet, cellName(1, row), cellName(4, row), headerStyle)
	row++
	for _, st := range breakdown.Totals {
		file.SetCellValue(sheet, cellName(1, row), st.Stage)
		file.SetCellValue(sheet, cellName(2, row), st.TotalTime)
		file.SetCellValue(sheet, cellName(3, row), st.TotalOrders)
		file.SetCellValue(sheet, cellName(4, row), st.AvgSecondsPerOrder)
		row++
	}

	file.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      3,
		TopLeftCell: "A4",
	})
	file.SetColWidth(sheet, "A", "D", 28)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
