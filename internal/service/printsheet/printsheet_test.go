package printsheet

import (
	"strings"
	"testing"
	"time"

	"confeccao/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlannedOrders(t *testing.T) {
	orders := []storage.ProductionOrder{
		{ID: "10", Status: storage.StatusPlanned, ReferenceCode: "REF10", Fabric: "Viscose", GridType: storage.GridStandard,
			Items: []storage.OrderItem{{Color: "Preto", RollsUsed: 2.5}, {Color: "Verde", RollsUsed: 1}}},
		{ID: "2", Status: storage.StatusPlanned, ReferenceCode: "REF02", Fabric: "Linho", GridType: storage.GridCustom, Notes: "<urgente>",
			Items: []storage.OrderItem{{Color: "Cru", RollsUsed: 1, Sizes: storage.SizeDistribution{"UNI": 4, "PP": 2}}}},
		{ID: "3", Status: storage.StatusCutting, ReferenceCode: "REF03"},
	}
	fabrics := []storage.Fabric{
		{Name: "viscose", Color: "PRETO", Notes: "VX-221"},
		{Name: "Linho", Color: "Cru"},
	}

	out, err := PlannedOrders(orders, fabrics, Options{})
	require.NoError(t, err)
	html := string(out)

	assert.Less(t, strings.Index(html, "#2<"), strings.Index(html, "#10<"))
	assert.NotContains(t, html, "REF03")
	assert.Contains(t, html, "Cód: VX-221")
	assert.Contains(t, html, "Rolos: 2,5")
	assert.Contains(t, html, "P, M, G, GG")
	assert.Contains(t, html, "PP, UNI")
	assert.Contains(t, html, "&lt;urgente&gt;")
	assert.NotContains(t, html, "window.print")
	// Verde has no fabric and Cru has no notes
	assert.Equal(t, 2, strings.Count(html, "Cód: -"))
}

func TestPlannedOrders_Nothing(t *testing.T) {
	_, err := PlannedOrders([]storage.ProductionOrder{{ID: "1", Status: storage.StatusSewing}}, nil, Options{})

	assert.ErrorIs(t, err, ErrNothingToPrint)
}

func TestFabrics(t *testing.T) {
	updated := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	fabrics := []storage.Fabric{
		{Name: "Viscose", Color: "Preto", ColorHex: "#000000", StockRolls: 13, UpdatedAt: updated},
		{Name: "Linho", Color: "Cru", ColorHex: "red;background:url(x)", StockRolls: 0.75, Notes: "fornecedor A", UpdatedAt: updated},
	}

	out, err := Fabrics(fabrics, time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC), Options{AutoPrint: true, Location: time.UTC})
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "Gerado em: 10/05/2024 14:30")
	assert.Contains(t, html, "05/03/2024")
	assert.Contains(t, html, "<td>0,75</td>")
	assert.Contains(t, html, "fornecedor A")
	assert.NotContains(t, html, "url(x)")
	assert.Contains(t, html, "window.print")
}

func TestSortByID(t *testing.T) {
	orders := []storage.ProductionOrder{{ID: "b"}, {ID: "12"}, {ID: "3"}, {ID: "a"}}

	SortByID(orders)

	ids := []string{}
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"3", "12", "a", "b"}, ids)
}
