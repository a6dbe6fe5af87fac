package production

import (
	"encoding/json"
	"testing"
	"time"

	"confeccao/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)

func ana() storage.Seamstress {
	return storage.Seamstress{ID: "w-ana", Name: "Ana", Active: true}
}

// cuttingOrder is an order in CUTTING whose cut is confirmed with
// Azul P:10 M:10 and Rosa P:5.
func cuttingOrder() storage.ProductionOrder {
	items := []storage.OrderItem{
		{Color: "Azul", ColorHex: "#0000ff", RollsUsed: 2, ActualPieces: 20, Sizes: storage.SizeDistribution{"P": 10, "M": 10}},
		{Color: "Rosa", ColorHex: "#ff00ff", RollsUsed: 1, ActualPieces: 5, Sizes: storage.SizeDistribution{"P": 5}},
	}
	return storage.ProductionOrder{
		ID:                 "7",
		ReferenceID:        "p-1",
		ReferenceCode:      "REF01",
		Fabric:             "Viscose",
		GridType:           storage.GridStandard,
		Items:              items,
		ActiveCuttingItems: storage.CloneItems(items),
		Splits:             []storage.OrderSplit{},
		Status:             storage.StatusCutting,
		CreatedAt:          testNow.Add(-48 * time.Hour),
	}
}

func active(o storage.ProductionOrder, color string) storage.OrderItem {
	return o.ActiveCuttingItems[itemIndex(o.ActiveCuttingItems, color)]
}

func TestTransition_IllegalPairs(t *testing.T) {
	cases := []struct {
		name   string
		status storage.OrderStatus
		cmd    Command
	}{
		{"finish split while planned", storage.StatusPlanned, FinishSplit{SplitID: "x"}},
		{"distribute while planned", storage.StatusPlanned, Distribute{}},
		{"start cutting twice", storage.StatusCutting, StartCutting{}},
		{"edit while sewing", storage.StatusSewing, Edit{}},
		{"edit finished", storage.StatusFinished, Edit{}},
		{"confirm cut while sewing", storage.StatusSewing, ConfirmCut{}},
		{"distribute finished", storage.StatusFinished, Distribute{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := storage.ProductionOrder{ID: "1", Status: tc.status}

			_, err := Transition(o, tc.cmd, testNow)

			assert.ErrorIs(t, err, ErrIllegalTransition)
			assert.False(t, Allowed(tc.status, tc.cmd.Event()))
		})
	}
}

func TestTransition_StartCutting(t *testing.T) {
	o := storage.ProductionOrder{ID: "1", Status: storage.StatusPlanned}

	next, err := Transition(o, StartCutting{}, testNow)

	require.NoError(t, err)
	assert.Equal(t, storage.StatusCutting, next.Status)
	assert.Equal(t, testNow, next.UpdatedAt)
	assert.Equal(t, storage.StatusPlanned, o.Status)
}

func TestTransition_ConfirmCut(t *testing.T) {
	o := cuttingOrder()
	o.ActiveCuttingItems = nil
	o.Items[0].ActualPieces = 0

	next, err := Transition(o, ConfirmCut{Sizes: map[string]storage.SizeDistribution{
		"Azul": {"P": 12, "M": 9},
	}}, testNow)

	require.NoError(t, err)
	assert.Equal(t, 21, next.Items[0].ActualPieces)
	assert.Equal(t, 5, next.Items[1].ActualPieces)
	require.Len(t, next.ActiveCuttingItems, 2)
	assert.Equal(t, storage.SizeDistribution{"P": 12, "M": 9}, next.ActiveCuttingItems[0].Sizes)

	// the active copy must not share maps with the confirmed items
	next.ActiveCuttingItems[0].Sizes["P"] = 0
	assert.Equal(t, 12, next.Items[0].Sizes["P"])
}

func TestTransition_ConfirmCutRejects(t *testing.T) {
	t.Run("negative count", func(t *testing.T) {
		_, err := Transition(cuttingOrder(), ConfirmCut{Sizes: map[string]storage.SizeDistribution{
			"Azul": {"P": -1},
		}}, testNow)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown color", func(t *testing.T) {
		_, err := Transition(cuttingOrder(), ConfirmCut{Sizes: map[string]storage.SizeDistribution{
			"Verde": {"P": 1},
		}}, testNow)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("already distributed", func(t *testing.T) {
		o := cuttingOrder()
		o.Splits = []storage.OrderSplit{{ID: "s1", Status: storage.StatusSewing}}
		_, err := Transition(o, ConfirmCut{}, testNow)
		assert.ErrorIs(t, err, ErrIllegalTransition)
	})
}

func TestTransition_DistributeBySize(t *testing.T) {
	o := cuttingOrder()

	next, err := Transition(o, Distribute{
		SplitID:    "s1",
		Seamstress: ana(),
		Request:    DistributeRequest{Mode: DistributeBySize, Sizes: []string{"P"}},
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, storage.StatusSewing, next.Status)
	require.Len(t, next.Splits, 1)

	split := next.Splits[0]
	assert.Equal(t, "s1", split.ID)
	assert.Equal(t, "Ana", split.SeamstressName)
	assert.Equal(t, storage.StatusSewing, split.Status)
	require.Len(t, split.Items, 2)
	assert.Equal(t, "Azul", split.Items[0].Color)
	assert.Equal(t, "#0000ff", split.Items[0].ColorHex)
	assert.Equal(t, storage.SizeDistribution{"P": 10}, split.Items[0].Sizes)
	assert.Equal(t, 10, split.Items[0].ActualPieces)
	assert.Equal(t, 10, split.Items[0].EstimatedPieces)
	assert.Zero(t, split.Items[0].RollsUsed)

	azul := active(next, "Azul")
	assert.Equal(t, storage.SizeDistribution{"P": 0, "M": 10}, azul.Sizes)
	assert.Equal(t, 10, azul.ActualPieces)
	assert.Equal(t, 0, active(next, "Rosa").ActualPieces)

	// confirmed totals are untouched by distribution
	assert.Equal(t, 20, next.Items[0].ActualPieces)
	// the input order is unchanged
	assert.Equal(t, 10, active(o, "Azul").Sizes["P"])
}

func TestTransition_DistributeCustom(t *testing.T) {
	next, err := Transition(cuttingOrder(), Distribute{
		SplitID:    "s1",
		Seamstress: ana(),
		Request: DistributeRequest{Mode: DistributeCustom, Lots: []Lot{
			{Color: "Azul", Sizes: storage.SizeDistribution{"P": 3, "M": 0}},
			{Color: "Azul", Sizes: storage.SizeDistribution{"P": 2}},
		}},
	}, testNow)
	require.NoError(t, err)

	require.Len(t, next.Splits[0].Items, 1)
	assert.Equal(t, storage.SizeDistribution{"P": 5}, next.Splits[0].Items[0].Sizes)
	assert.Equal(t, storage.SizeDistribution{"P": 5, "M": 10}, active(next, "Azul").Sizes)
}

func TestTransition_DistributeRejects(t *testing.T) {
	cases := []struct {
		name string
		req  DistributeRequest
		want error
	}{
		{
			name: "exceeds cutting room",
			req: DistributeRequest{Mode: DistributeCustom, Lots: []Lot{
				{Color: "Rosa", Sizes: storage.SizeDistribution{"P": 6}},
			}},
			want: ErrExceedsCuttingStock,
		},
		{
			name: "duplicate lots exceed together",
			req: DistributeRequest{Mode: DistributeCustom, Lots: []Lot{
				{Color: "Rosa", Sizes: storage.SizeDistribution{"P": 3}},
				{Color: "Rosa", Sizes: storage.SizeDistribution{"P": 3}},
			}},
			want: ErrExceedsCuttingStock,
		},
		{
			name: "size not cut",
			req: DistributeRequest{Mode: DistributeCustom, Lots: []Lot{
				{Color: "Rosa", Sizes: storage.SizeDistribution{"GG": 1}},
			}},
			want: ErrExceedsCuttingStock,
		},
		{
			name: "empty custom",
			req:  DistributeRequest{Mode: DistributeCustom},
			want: ErrNothingToDistribute,
		},
		{
			name: "by size without sizes",
			req:  DistributeRequest{Mode: DistributeBySize},
			want: ErrInvalidInput,
		},
		{
			name: "size with nothing left",
			req:  DistributeRequest{Mode: DistributeBySize, Sizes: []string{"GG"}},
			want: ErrNothingToDistribute,
		},
		{
			name: "unknown mode",
			req:  DistributeRequest{Mode: "HALF"},
			want: ErrInvalidInput,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Transition(cuttingOrder(), Distribute{SplitID: "s1", Seamstress: ana(), Request: tc.req}, testNow)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestTransition_DistributeNeedsConfirmedCut(t *testing.T) {
	o := cuttingOrder()
	o.ActiveCuttingItems = nil

	_, err := Transition(o, Distribute{SplitID: "s1", Seamstress: ana()}, testNow)

	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestTransition_FinishSingleSplitStaysSewing(t *testing.T) {
	o, err := Transition(cuttingOrder(), Distribute{
		SplitID:    "s1",
		Seamstress: ana(),
		Request:    DistributeRequest{Mode: DistributeBySize, Sizes: []string{"P"}},
	}, testNow)
	require.NoError(t, err)

	next, err := Transition(o, FinishSplit{SplitID: "s1"}, testNow.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, storage.StatusSewing, next.Status)
	assert.Nil(t, next.FinishedAt)
	assert.Equal(t, storage.StatusFinished, next.Splits[0].Status)
	require.NotNil(t, next.Splits[0].FinishedAt)
	assert.False(t, IsComplete(next))
}

func TestTransition_FullCycleFinishesOrder(t *testing.T) {
	o, err := Transition(cuttingOrder(), Distribute{
		SplitID:    "s1",
		Seamstress: ana(),
		Request:    DistributeRequest{Mode: DistributeBySize, Sizes: []string{"P"}},
	}, testNow)
	require.NoError(t, err)

	o, err = Transition(o, Distribute{
		SplitID:    "s2",
		Seamstress: storage.Seamstress{ID: "w-bia", Name: "Bia", Active: true},
		Request:    DistributeRequest{Mode: DistributeFull},
	}, testNow)
	require.NoError(t, err)
	require.Len(t, o.Splits, 2)
	assert.Equal(t, storage.SizeDistribution{"M": 10}, o.Splits[1].Items[0].Sizes)

	_, err = Transition(o, Distribute{SplitID: "s3", Seamstress: ana()}, testNow)
	assert.ErrorIs(t, err, ErrNothingToDistribute)

	o, err = Transition(o, FinishSplit{SplitID: "s2"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, storage.StatusSewing, o.Status)

	done := testNow.Add(2 * time.Hour)
	o, err = Transition(o, FinishSplit{SplitID: "s1"}, done)
	require.NoError(t, err)
	assert.Equal(t, storage.StatusFinished, o.Status)
	require.NotNil(t, o.FinishedAt)
	assert.Equal(t, done, *o.FinishedAt)
	assert.True(t, IsComplete(o))

	_, err = Transition(o, FinishSplit{SplitID: "s1"}, done)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestTransition_FinishSplitErrors(t *testing.T) {
	o := cuttingOrder()
	o.Status = storage.StatusSewing
	o.Splits = []storage.OrderSplit{
		{ID: "s1", Status: storage.StatusFinished},
		{ID: "s2", Status: storage.StatusSewing},
	}

	_, err := Transition(o, FinishSplit{SplitID: "s1"}, testNow)
	assert.ErrorIs(t, err, ErrSplitFinished)

	_, err = Transition(o, FinishSplit{SplitID: "nope"}, testNow)
	assert.ErrorIs(t, err, ErrSplitNotFound)
}

func TestIsComplete(t *testing.T) {
	o := cuttingOrder()
	assert.False(t, IsComplete(o), "no splits")

	o.ActiveCuttingItems = []storage.OrderItem{{Color: "Azul", ActualPieces: 0}}
	o.Splits = []storage.OrderSplit{{ID: "s1", Status: storage.StatusFinished}}
	assert.True(t, IsComplete(o))

	o.Splits = append(o.Splits, storage.OrderSplit{ID: "s2", Status: storage.StatusSewing})
	assert.False(t, IsComplete(o))

	o.Splits[1].Status = storage.StatusFinished
	o.ActiveCuttingItems[0].ActualPieces = 1
	assert.False(t, IsComplete(o))
}

func TestTransition_EditBeforeConfirmation(t *testing.T) {
	order := cuttingOrder()
	order.ActiveCuttingItems = nil

	product := storage.ProductReference{ID: "p-2", Code: "REF02", Description: "Vestido", DefaultFabric: "Linho"}

	next, err := Transition(order, Edit{
		Product: product,
		Input: OrderInput{
			ReferenceID: "p-2",
			GridType:    storage.GridStandard,
			Items: []ItemInput{
				{Color: "Azul", RollsUsed: 3, PiecesPerSize: 4},
				{Color: "Verde", RollsUsed: 1, PiecesPerSize: 2},
			},
			Notes: "urgente",
		},
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, "REF02", next.ReferenceCode)
	assert.Equal(t, "Linho", next.Fabric)
	assert.Equal(t, "urgente", next.Notes)
	require.Len(t, next.Items, 2)

	assert.Equal(t, 3.0, next.Items[0].RollsUsed)
	assert.Equal(t, 16, next.Items[0].EstimatedPieces)
	assert.Equal(t, storage.SizeDistribution{"P": 2, "M": 2, "G": 2, "GG": 2}, next.Items[1].Sizes)
	assert.Equal(t, storage.StatusCutting, next.Status)
}

func TestTransition_EditAfterConfirmedCut(t *testing.T) {
	order := cuttingOrder()

	out, err := Transition(order, Edit{
		Product: storage.ProductReference{ID: "p-1", Code: "REF01"},
		Input: OrderInput{
			ReferenceID: "p-1",
			GridType:    storage.GridStandard,
			Items: []ItemInput{
				{Color: "Azul", RollsUsed: 2},
				{Color: "Rosa", RollsUsed: 1},
				{Color: "Verde", RollsUsed: 1, PiecesPerSize: 5},
			},
		},
	}, testNow)

	require.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, order.Items, out.Items)
	assert.Len(t, out.ActiveCuttingItems, 2)
	assert.Equal(t, -1, itemIndex(out.Items, "Verde"))
}

func TestNewOrder_EstimatesFromYield(t *testing.T) {
	yield := 40
	product := storage.ProductReference{
		ID: "p-1", Code: "REF01", Description: "Blusa", DefaultFabric: "Viscose",
		DefaultGrid: storage.GridStandard, EstimatedPiecesPerRoll: &yield,
	}

	o, err := NewOrder("3", OrderInput{
		ReferenceID: "p-1",
		Items: []ItemInput{
			{Color: "Azul", RollsUsed: 2.5},
			{Color: "Preto", RollsUsed: 1, PiecesPerSize: 7},
		},
	}, product, testNow)
	require.NoError(t, err)

	assert.Equal(t, storage.StatusPlanned, o.Status)
	assert.Equal(t, storage.GridStandard, o.GridType)
	assert.Equal(t, "Viscose", o.Fabric)
	assert.Empty(t, o.ActiveCuttingItems)
	assert.Empty(t, o.Splits)

	// floor(2.5 * 40 / 4) = 25
	assert.Equal(t, 25, o.Items[0].PiecesPerSizeEst)
	assert.Equal(t, 100, o.Items[0].EstimatedPieces)
	assert.Equal(t, "#cccccc", o.Items[0].ColorHex)
	assert.Equal(t, 7, o.Items[1].PiecesPerSizeEst)
	assert.Equal(t, 28, o.Items[1].EstimatedPieces)
}

func TestNewOrder_Validation(t *testing.T) {
	product := storage.ProductReference{ID: "p-1"}

	cases := map[string]OrderInput{
		"no reference":   {Items: []ItemInput{{Color: "Azul"}}},
		"no items":       {ReferenceID: "p-1"},
		"blank color":    {ReferenceID: "p-1", Items: []ItemInput{{Color: " "}}},
		"repeated color": {ReferenceID: "p-1", Items: []ItemInput{{Color: "Azul"}, {Color: "Azul"}}},
		"negative rolls": {ReferenceID: "p-1", Items: []ItemInput{{Color: "Azul", RollsUsed: -1}}},
		"custom no size": {ReferenceID: "p-1", GridType: storage.GridCustom, Items: []ItemInput{{Color: "Azul"}}},
		"unknown grid":   {ReferenceID: "p-1", GridType: "XL", Items: []ItemInput{{Color: "Azul"}}},
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewOrder("1", in, product, testNow)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestNextOrderID(t *testing.T) {
	assert.Equal(t, "1", NextOrderID(nil))
	assert.Equal(t, "13", NextOrderID([]storage.ProductionOrder{{ID: "3"}, {ID: "12"}, {ID: "abc"}, {ID: "9"}}))
	assert.Equal(t, "1", NextOrderID([]storage.ProductionOrder{{ID: "x-1"}}))
}

func TestCutDraft(t *testing.T) {
	o := cuttingOrder()
	o.Items[0].ActualPieces = 0
	o.Items[0].Sizes = storage.SizeDistribution{"P": 4, "M": 6}

	draft := CutDraft(o)

	assert.Equal(t, 10, draft[0].ActualPieces)
	assert.Equal(t, 5, draft[1].ActualPieces)
	assert.Equal(t, 0, o.Items[0].ActualPieces)
}

func TestRollAmount_UnmarshalJSON(t *testing.T) {
	var body struct {
		A RollAmount `json:"a"`
		B RollAmount `json:"b"`
		C RollAmount `json:"c"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"a": 1.5, "b": "2,25", "c": null}`), &body))
	assert.Equal(t, RollAmount(1.5), body.A)
	assert.Equal(t, RollAmount(2.25), body.B)
	assert.Equal(t, RollAmount(0), body.C)

	err := json.Unmarshal([]byte(`{"a": "muito"}`), &body)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeductForCut(t *testing.T) {
	fabrics := []storage.Fabric{
		{ID: "f-1", Name: "Viscose", Color: "Preto", StockRolls: 15},
		{ID: "f-2", Name: "Viscose", Color: "Azul", StockRolls: 1},
		{ID: "f-3", Name: "Linho", Color: "Preto", StockRolls: 8},
	}
	order := storage.ProductionOrder{
		Fabric: " viscose",
		Items: []storage.OrderItem{
			{Color: "preto", RollsUsed: 2},
			{Color: "Azul", RollsUsed: 2.5},
			{Color: "Verde", RollsUsed: 1},
			{Color: "Branco", RollsUsed: 0},
		},
	}

	deductions, unmatched := DeductForCut(fabrics, order)

	require.Len(t, deductions, 2)
	assert.Equal(t, Deduction{FabricID: "f-1", Name: "Viscose", Color: "Preto", Before: 15, Used: 2, After: 13}, deductions[0])
	assert.Equal(t, 0.0, deductions[1].After)
	assert.Equal(t, []string{"Verde"}, unmatched)
	assert.Equal(t, 15.0, fabrics[0].StockRolls)
}

func TestFilterFabrics(t *testing.T) {
	fabrics := []storage.Fabric{
		{Name: "Viscose", Color: "Preto", StockRolls: 15},
		{Name: "Linho", Color: "Azul", StockRolls: 2},
		{Name: "Malha", Color: "Preto", StockRolls: 0.5},
	}
	minStock := 1.0

	assert.Len(t, FilterFabrics(fabrics, FabricFilter{Search: "PRETO"}), 2)
	assert.Len(t, FilterFabrics(fabrics, FabricFilter{Search: "preto", MinStock: &minStock}), 1)
	assert.Len(t, FilterFabrics(fabrics, FabricFilter{MinStock: &minStock}), 2)
	assert.Len(t, FilterFabrics(fabrics, FabricFilter{}), 3)
}

func TestRolls(t *testing.T) {
	assert.Equal(t, 0.3, AddRolls(0.1, 0.2))
	assert.Equal(t, 1.24, RoundRolls(1.2351))

	v, err := ParseRolls(" 3,5 ")
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)
}

func TestParseFabricFilter(t *testing.T) {
	f, err := ParseFabricFilter(" viscose ", "")
	require.NoError(t, err)
	assert.Equal(t, "viscose", f.Search)
	assert.Nil(t, f.MinStock)

	f, err = ParseFabricFilter("", "2,5")
	require.NoError(t, err)
	require.NotNil(t, f.MinStock)
	assert.Equal(t, 2.5, *f.MinStock)

	_, err = ParseFabricFilter("", "muito")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFabricMatches(t *testing.T) {
	f := storage.Fabric{Name: "Viscose", Color: "Preto"}

	assert.True(t, FabricMatches(f, "VISCOSE", "preto"))
	assert.False(t, FabricMatches(f, "Viscose ", "Preto"))
	assert.False(t, FabricMatches(f, "Viscose", "Azul"))
}
