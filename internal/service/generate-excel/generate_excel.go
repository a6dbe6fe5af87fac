package generate_excel

import (
	"context"
	"fmt"
	"time"

	"confeccao/internal/service/report"
	"confeccao/internal/storage"

	"github.com/xuri/excelize/v2"
)

const (
	ordersSheet  = "Produção"
	fabricsSheet = "Estoque de Tecidos"
)

type SnapshotLoader interface {
	Load(ctx context.Context) (report.Snapshot, error)
}

type GenerateExcelService struct {
	loader SnapshotLoader
	loc    *time.Location
}

func NewGenerateService(loader SnapshotLoader, loc *time.Location) *GenerateExcelService {
	if loc == nil {
		loc = time.Local
	}
	return &GenerateExcelService{loader: loader, loc: loc}
}

// GenerateExcel builds the production workbook: the filtered orders with a
// totals row and one column per seamstress, plus the fabric stock.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, filter report.Filter) ([]byte, error) {
	const op = "service.generate_excel.GenerateExcel"

	snap, err := g.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch data: %w", op, err)
	}

	rep := report.Build(snap.Orders, filter)

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", ordersSheet)
	if _, err := f.NewSheet(fabricsSheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: style: %w", op, err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "top", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: style: %w", op, err)
	}

	if err := g.writeOrders(f, rep, snap.Seamstresses, headerStyle, totalStyle); err != nil {
		return nil, fmt.Errorf("%s: orders: %w", op, err)
	}
	if err := g.writeFabrics(f, snap.Fabrics, headerStyle); err != nil {
		return nil, fmt.Errorf("%s: fabrics: %w", op, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

var orderHeaders = []string{
	"Pedido", "Data", "Referência", "Descrição", "Tecido", "Status",
	"Cores", "Rolos", "Peças cortadas", "Peças costuradas",
}

func (g *GenerateExcelService) writeOrders(f *excelize.File, rep report.Report, workers []storage.Seamstress, headerStyle, totalStyle int) error {
	sheet := ordersSheet

	for i, name := range orderHeaders {
		if err := f.SetCellValue(sheet, cellName(i+1, 1), name); err != nil {
			return err
		}
	}

	// one column per seamstress with her finished pieces, right after the fixed headers
	workerCol := make(map[string]int, len(workers))
	baseLen := len(orderHeaders)
	for i, w := range workers {
		col := baseLen + i + 1
		workerCol[w.ID] = col
		f.SetCellValue(sheet, cellName(col, 1), w.Name)
	}

	lastCol := baseLen + len(workers)
	f.SetCellStyle(sheet, "A1", cellName(lastCol, 1), headerStyle)

	perWorker := make(map[int]int)
	for i, o := range rep.Orders {
		row := i + 2

		sewn := 0
		sewnBy := make(map[string]int)
		for _, s := range o.Splits {
			if s.Status == storage.StatusFinished {
				sewn += s.Pieces()
				sewnBy[s.SeamstressID] += s.Pieces()
			}
		}

		values := []any{
			o.ID,
			o.CreatedAt.In(g.loc).Format("02/01/2006"),
			o.ReferenceCode,
			o.Description,
			o.Fabric,
			o.Status.Label(),
			len(o.Items),
			storage.SumRolls(o.Items),
			storage.SumPieces(o.Items),
			sewn,
		}
		for col, v := range values {
			if err := f.SetCellValue(sheet, cellName(col+1, row), v); err != nil {
				return err
			}
		}

		for workerID, n := range sewnBy {
			col, ok := workerCol[workerID]
			if !ok {
				continue
			}
			f.SetCellValue(sheet, cellName(col, row), n)
			perWorker[col] += n
		}
	}

	totalRow := len(rep.Orders) + 2
	f.SetCellValue(sheet, cellName(1, totalRow), "Total")
	f.SetCellValue(sheet, cellName(6, totalRow), rep.TotalOrders)
	f.SetCellValue(sheet, cellName(8, totalRow), rep.TotalRolls)
	f.SetCellValue(sheet, cellName(9, totalRow), rep.TotalCut)
	f.SetCellValue(sheet, cellName(10, totalRow), rep.TotalSewn)
	for col, n := range perWorker {
		f.SetCellValue(sheet, cellName(col, totalRow), n)
	}
	f.SetCellStyle(sheet, cellName(1, totalRow), cellName(max(lastCol, len(orderHeaders)), totalRow), totalStyle)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})
	f.SetColWidth(sheet, "A", "J", 15)

	return nil
}

func (g *GenerateExcelService) writeFabrics(f *excelize.File, fabrics []storage.Fabric, headerStyle int) error {
	sheet := fabricsSheet

	headers := []string{"Tecido", "Cor", "Rolos (Qtd)", "Obs", "Atualizado em"}
	for i, name := range headers {
		if err := f.SetCellValue(sheet, cellName(i+1, 1), name); err != nil {
			return err
		}
	}
	f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), headerStyle)

	for i, fab := range fabrics {
		row := i + 2
		values := []any{fab.Name, fab.Color, fab.StockRolls, fab.Notes, fab.UpdatedAt.In(g.loc).Format("02/01/2006")}
		for col, v := range values {
			if err := f.SetCellValue(sheet, cellName(col+1, row), v); err != nil {
				return err
			}
		}
	}

	f.SetColWidth(sheet, "A", "E", 18)

	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
