package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"confeccao/internal/storage"

	"github.com/shopspring/decimal"
)

// RoundRolls keeps roll quantities at two decimal places.
func RoundRolls(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// AddRolls sums two roll quantities without float drift.
func AddRolls(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// ParseRolls reads a roll quantity typed with either a decimal comma or point.
func ParseRolls(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, s)
	}
	return d.Round(2).InexactFloat64(), nil
}

// RollAmount accepts 1.5 as well as "1,5" in JSON bodies.
type RollAmount float64

func (r *RollAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = 0
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*r = 0
			return nil
		}
		v, err := ParseRolls(s)
		if err != nil {
			return err
		}
		*r = RollAmount(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = RollAmount(v)
	return nil
}

// Deduction is the stock change of one fabric caused by a cut.
type Deduction struct {
	FabricID string  `json:"fabricId"`
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	Before   float64 `json:"before"`
	Used     float64 `json:"used"`
	After    float64 `json:"after"`
}

// FabricMatches reports whether f is the stock-keeping unit for an order
// cut in fabricName and color. Only case is ignored.
func FabricMatches(f storage.Fabric, fabricName, color string) bool {
	return strings.EqualFold(f.Name, fabricName) && strings.EqualFold(f.Color, color)
}

// FindFabric returns the fabric matching name and color, if any.
func FindFabric(fabrics []storage.Fabric, name, color string) (storage.Fabric, bool) {
	for _, f := range fabrics {
		if FabricMatches(f, name, color) {
			return f, true
		}
	}
	return storage.Fabric{}, false
}

// DeductForCut computes the stock left for every fabric consumed by the
// order's items. Stock never goes below zero. Items whose color has no
// matching fabric are returned as unmatched and change nothing.
func DeductForCut(fabrics []storage.Fabric, order storage.ProductionOrder) ([]Deduction, []string) {
	var (
		out       []Deduction
		unmatched []string
		byID      = map[string]int{}
	)

	for _, item := range order.Items {
		if item.RollsUsed <= 0 {
			continue
		}

		f, ok := FindFabric(fabrics, order.Fabric, item.Color)
		if !ok {
			unmatched = append(unmatched, item.Color)
			continue
		}

		idx, seen := byID[f.ID]
		if !seen {
			out = append(out, Deduction{
				FabricID: f.ID,
				Name:     f.Name,
				Color:    f.Color,
				Before:   f.StockRolls,
				After:    f.StockRolls,
			})
			idx = len(out) - 1
			byID[f.ID] = idx
		}

		d := &out[idx]
		used := decimal.NewFromFloat(item.RollsUsed)
		left := decimal.NewFromFloat(d.After).Sub(used)
		if left.IsNegative() {
			left = decimal.Zero
		}
		d.Used = decimal.NewFromFloat(d.Used).Add(used).Round(2).InexactFloat64()
		d.After = left.Round(2).InexactFloat64()
	}

	return out, unmatched
}

type FabricFilter struct {
	Search   string
	MinStock *float64
}

// ParseFabricFilter reads the stock screen query. An empty minStock means no lower bound.
func ParseFabricFilter(search, minStock string) (FabricFilter, error) {
	f := FabricFilter{Search: strings.TrimSpace(search)}
	if strings.TrimSpace(minStock) == "" {
		return f, nil
	}

	v, err := ParseRolls(minStock)
	if err != nil {
		return f, err
	}
	f.MinStock = &v

	return f, nil
}

// FilterFabrics keeps fabrics whose name or color contains the search text
// and whose stock is at least MinStock.
func FilterFabrics(fabrics []storage.Fabric, f FabricFilter) []storage.Fabric {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]storage.Fabric, 0, len(fabrics))
	for _, fab := range fabrics {
		if search != "" &&
			!strings.Contains(strings.ToLower(fab.Name), search) &&
			!strings.Contains(strings.ToLower(fab.Color), search) {
			continue
		}
		if f.MinStock != nil && fab.StockRolls < *f.MinStock {
			continue
		}
		out = append(out, fab)
	}

	return out
}
