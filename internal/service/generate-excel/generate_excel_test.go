package generate_excel

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"confeccao/internal/service/report"
	"confeccao/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubLoader struct {
	snap report.Snapshot
	err  error
}

func (s stubLoader) Load(context.Context) (report.Snapshot, error) {
	return s.snap, s.err
}

func snapshot() report.Snapshot {
	finished := time.Date(2024, 5, 9, 10, 0, 0, 0, time.UTC)
	return report.Snapshot{
		Seamstresses: []storage.Seamstress{{ID: "ana", Name: "Ana"}, {ID: "bia", Name: "Bia"}},
		Fabrics: []storage.Fabric{
			{Name: "Viscose", Color: "Preto", StockRolls: 13, UpdatedAt: finished},
		},
		Orders: []storage.ProductionOrder{
			{
				ID: "1", ReferenceCode: "REF01", Description: "Blusa", Fabric: "Viscose",
				Status:    storage.StatusSewing,
				CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
				Items:     []storage.OrderItem{{Color: "Azul", RollsUsed: 1.5, ActualPieces: 20}},
				Splits: []storage.OrderSplit{
					{SeamstressID: "bia", Status: storage.StatusFinished, FinishedAt: &finished,
						Items: []storage.OrderItem{{Color: "Azul", ActualPieces: 8}}},
					{SeamstressID: "ana", Status: storage.StatusSewing,
						Items: []storage.OrderItem{{Color: "Azul", ActualPieces: 12}}},
				},
			},
			{
				ID: "2", ReferenceCode: "REF02", Description: "Saia", Fabric: "Linho",
				Status:    storage.StatusPlanned,
				CreatedAt: time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC),
				Items:     []storage.OrderItem{{Color: "Cru", RollsUsed: 2}},
			},
		},
	}
}

func TestGenerateExcel(t *testing.T) {
	svc := NewGenerateService(stubLoader{snap: snapshot()}, time.UTC)

	out, err := svc.GenerateExcel(context.Background(), report.Filter{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ordersSheet, fabricsSheet}, f.GetSheetList())

	get := func(sheet, cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Pedido", get(ordersSheet, "A1"))
	assert.Equal(t, "Ana", get(ordersSheet, "K1"))
	assert.Equal(t, "Bia", get(ordersSheet, "L1"))

	assert.Equal(t, "1", get(ordersSheet, "A2"))
	assert.Equal(t, "01/05/2024", get(ordersSheet, "B2"))
	assert.Equal(t, "Na Costura", get(ordersSheet, "F2"))
	assert.Equal(t, "20", get(ordersSheet, "I2"))
	assert.Equal(t, "8", get(ordersSheet, "J2"))
	assert.Equal(t, "", get(ordersSheet, "K2"))
	assert.Equal(t, "8", get(ordersSheet, "L2"))

	assert.Equal(t, "Total", get(ordersSheet, "A4"))
	assert.Equal(t, "2", get(ordersSheet, "F4"))
	assert.Equal(t, "3.5", get(ordersSheet, "H4"))
	assert.Equal(t, "20", get(ordersSheet, "I4"))
	assert.Equal(t, "8", get(ordersSheet, "L4"))

	assert.Equal(t, "Viscose", get(fabricsSheet, "A2"))
	assert.Equal(t, "13", get(fabricsSheet, "C2"))
	assert.Equal(t, "09/05/2024", get(fabricsSheet, "E2"))
}

func TestGenerateExcel_Filtered(t *testing.T) {
	svc := NewGenerateService(stubLoader{snap: snapshot()}, time.UTC)

	out, err := svc.GenerateExcel(context.Background(), report.Filter{Status: storage.StatusPlanned})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	v, _ := f.GetCellValue(ordersSheet, "A2")
	assert.Equal(t, "2", v)
	v, _ = f.GetCellValue(ordersSheet, "A3")
	assert.Equal(t, "Total", v)
}

func TestGenerateExcel_LoadError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewGenerateService(stubLoader{err: boom}, nil)

	_, err := svc.GenerateExcel(context.Background(), report.Filter{})

	assert.ErrorIs(t, err, boom)
}
