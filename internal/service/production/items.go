package production

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"confeccao/internal/storage"
)

const defaultColorHex = "#cccccc"

// OrderInput is what the planning form submits when an order is created or edited.
type OrderInput struct {
	ID          string           `json:"id,omitempty"`
	ReferenceID string           `json:"referenceId"`
	Fabric      string           `json:"fabric"`
	GridType    storage.GridType `json:"gridType"`
	// Sizes selected for the order. Empty means the grid's own sizes.
	Sizes     []string    `json:"sizes,omitempty"`
	Items     []ItemInput `json:"items"`
	Notes     string      `json:"notes,omitempty"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
}

type ItemInput struct {
	Color     string     `json:"color"`
	ColorHex  string     `json:"colorHex,omitempty"`
	RollsUsed RollAmount `json:"rollsUsed"`
	// PiecesPerSize of zero falls back to the product's yield per roll.
	PiecesPerSize int `json:"piecesPerSize"`
}

// SelectedSizes resolves the size list for an input against its grid.
func (in OrderInput) SelectedSizes() []string {
	sizes := in.Sizes
	if len(sizes) == 0 {
		sizes = in.GridType.Sizes()
	}

	out := make([]string, 0, len(sizes))
	seen := make(map[string]bool, len(sizes))
	for _, s := range sizes {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	storage.SortSizes(out)

	return out
}

func (in OrderInput) validate() error {
	if strings.TrimSpace(in.ReferenceID) == "" {
		return fmt.Errorf("%w: reference is required", ErrInvalidInput)
	}
	if in.GridType != "" && !in.GridType.Valid() {
		return fmt.Errorf("%w: unknown grid %q", ErrInvalidInput, in.GridType)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: at least one color is required", ErrInvalidInput)
	}

	seen := make(map[string]bool, len(in.Items))
	for _, item := range in.Items {
		color := strings.TrimSpace(item.Color)
		if color == "" {
			return fmt.Errorf("%w: color name is required", ErrInvalidInput)
		}
		if seen[color] {
			return fmt.Errorf("%w: color %q listed twice", ErrInvalidInput, color)
		}
		seen[color] = true

		if item.RollsUsed < 0 {
			return fmt.Errorf("%w: rolls for %q cannot be negative", ErrInvalidInput, color)
		}
		if item.PiecesPerSize < 0 {
			return fmt.Errorf("%w: pieces per size for %q cannot be negative", ErrInvalidInput, color)
		}
	}

	return nil
}

// EstimatePiecesPerSize spreads the expected yield of the rolls evenly
// across the sizes, rounding down.
func EstimatePiecesPerSize(rolls float64, yield *int, sizes int) int {
	if yield == nil || *yield <= 0 || sizes <= 0 || rolls <= 0 {
		return 0
	}
	return int(math.Floor(rolls * float64(*yield) / float64(sizes)))
}

// BuildItems turns the form input into order items.
func BuildItems(in OrderInput, product storage.ProductReference) ([]storage.OrderItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	in.GridType = resolveGrid(in.GridType, product)
	sizes := in.SelectedSizes()
	if len(sizes) == 0 {
		return nil, fmt.Errorf("%w: at least one size is required", ErrInvalidInput)
	}

	items := make([]storage.OrderItem, 0, len(in.Items))

	for _, it := range in.Items {
		color := strings.TrimSpace(it.Color)
		hex := it.ColorHex
		if hex == "" {
			hex = defaultColorHex
		}

		rolls := RoundRolls(float64(it.RollsUsed))
		perSize := it.PiecesPerSize
		if perSize == 0 {
			perSize = EstimatePiecesPerSize(rolls, product.EstimatedPiecesPerRoll, len(sizes))
		}

		dist := make(storage.SizeDistribution, len(sizes))
		for _, s := range sizes {
			dist[s] = perSize
		}

		items = append(items, storage.OrderItem{
			Color:            color,
			ColorHex:         hex,
			RollsUsed:        rolls,
			PiecesPerSizeEst: perSize,
			EstimatedPieces:  perSize * len(sizes),
			Sizes:            dist,
		})
	}

	return items, nil
}

func resolveGrid(grid storage.GridType, product storage.ProductReference) storage.GridType {
	if grid == "" {
		grid = product.DefaultGrid
	}
	if grid == "" {
		grid = storage.GridStandard
	}
	return grid
}

func applyHeader(o *storage.ProductionOrder, in OrderInput, product storage.ProductReference) {
	grid := resolveGrid(in.GridType, product)

	fabric := strings.TrimSpace(in.Fabric)
	if fabric == "" {
		fabric = product.DefaultFabric
	}

	o.ReferenceID = product.ID
	o.ReferenceCode = product.Code
	o.Description = product.Description
	o.Fabric = fabric
	o.GridType = grid
	o.Notes = in.Notes
	if in.CreatedAt != nil && !in.CreatedAt.IsZero() {
		o.CreatedAt = *in.CreatedAt
	}
}

// NewOrder builds a PLANNED order from form input.
func NewOrder(id string, in OrderInput, product storage.ProductReference, now time.Time) (storage.ProductionOrder, error) {
	items, err := BuildItems(in, product)
	if err != nil {
		return storage.ProductionOrder{}, err
	}

	o := storage.ProductionOrder{
		ID:                 id,
		Items:              items,
		ActiveCuttingItems: []storage.OrderItem{},
		Splits:             []storage.OrderSplit{},
		Status:             storage.StatusPlanned,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	applyHeader(&o, in, product)

	return o, nil
}

// NextOrderID is one past the largest numeric id in use, or "1".
func NextOrderID(orders []storage.ProductionOrder) string {
	highest := 0
	for _, o := range orders {
		n, err := strconv.Atoi(strings.TrimSpace(o.ID))
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return strconv.Itoa(highest + 1)
}

// CutDraft returns the items to pre-fill the cut confirmation form. Items
// not counted yet start from the planned sizes.
func CutDraft(o storage.ProductionOrder) []storage.OrderItem {
	draft := storage.CloneItems(o.Items)
	for i := range draft {
		if draft[i].ActualPieces == 0 {
			draft[i].ActualPieces = draft[i].Sizes.Total()
		}
	}
	if draft == nil {
		draft = []storage.OrderItem{}
	}
	return draft
}

type DistributionMode string

const (
	DistributeFull   DistributionMode = "FULL"
	DistributeBySize DistributionMode = "BY_SIZE"
	DistributeCustom DistributionMode = "CUSTOM"
)

type DistributeRequest struct {
	SeamstressID string           `json:"seamstressId"`
	Mode         DistributionMode `json:"mode"`
	Sizes        []string         `json:"sizes,omitempty"`
	Lots         []Lot            `json:"lots,omitempty"`
}

// Lot is the quantity of one color sent in a split.
type Lot struct {
	Color string                   `json:"color"`
	Sizes storage.SizeDistribution `json:"sizes"`
}

// PlanLots resolves a distribution request against what is left in the
// cutting room. Empty lots are dropped.
func PlanLots(active []storage.OrderItem, req DistributeRequest) ([]Lot, error) {
	var lots []Lot

	switch req.Mode {
	case DistributeFull, "":
		for _, item := range active {
			lots = appendLot(lots, item.Color, item.Sizes, nil)
		}

	case DistributeBySize:
		if len(req.Sizes) == 0 {
			return nil, fmt.Errorf("%w: select at least one size", ErrInvalidInput)
		}
		only := make(map[string]bool, len(req.Sizes))
		for _, s := range req.Sizes {
			only[s] = true
		}
		for _, item := range active {
			lots = appendLot(lots, item.Color, item.Sizes, only)
		}

	case DistributeCustom:
		// lots naming the same color are summed before checking stock
		var colors []string
		asked := map[string]storage.SizeDistribution{}
		for _, lot := range req.Lots {
			if itemIndex(active, lot.Color) < 0 {
				return nil, fmt.Errorf("%w: color %q is not in the cutting room", ErrInvalidInput, lot.Color)
			}
			if _, ok := asked[lot.Color]; !ok {
				colors = append(colors, lot.Color)
				asked[lot.Color] = storage.SizeDistribution{}
			}
			for size, n := range lot.Sizes {
				if n < 0 {
					return nil, fmt.Errorf("%w: negative quantity for %s/%s", ErrInvalidInput, lot.Color, size)
				}
				asked[lot.Color][size] += n
			}
		}

		for _, color := range colors {
			left := active[itemIndex(active, color)].Sizes
			for size, n := range asked[color] {
				if n > left[size] {
					return nil, fmt.Errorf("%w: %s/%s asks %d, %d left",
						ErrExceedsCuttingStock, color, size, n, left[size])
				}
			}
			lots = appendLot(lots, color, asked[color], nil)
		}

	default:
		return nil, fmt.Errorf("%w: unknown distribution mode %q", ErrInvalidInput, req.Mode)
	}

	if len(lots) == 0 {
		return nil, ErrNothingToDistribute
	}

	return lots, nil
}

func appendLot(lots []Lot, color string, sizes storage.SizeDistribution, only map[string]bool) []Lot {
	picked := storage.SizeDistribution{}
	for size, n := range sizes {
		if n <= 0 || (only != nil && !only[size]) {
			continue
		}
		picked[size] = n
	}
	if len(picked) == 0 {
		return lots
	}
	return append(lots, Lot{Color: color, Sizes: picked})
}
