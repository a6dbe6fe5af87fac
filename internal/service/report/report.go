package report

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"confeccao/internal/storage"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var ErrInvalidFilter = errors.New("invalid report filter")

type Filter struct {
	// StartDate and EndDate are local midnights; EndDate covers its whole day.
	StartDate    *time.Time
	EndDate      *time.Time
	Reference    string
	Status       storage.OrderStatus
	Fabric       string
	SeamstressID string
}

// ParseFilter reads a filter from query parameters: start, end (YYYY-MM-DD
// in loc), reference, status, fabric, seamstress.
func ParseFilter(q url.Values, loc *time.Location) (Filter, error) {
	if loc == nil {
		loc = time.Local
	}

	f := Filter{
		Reference:    strings.TrimSpace(q.Get("reference")),
		Status:       storage.OrderStatus(strings.ToUpper(strings.TrimSpace(q.Get("status")))),
		Fabric:       q.Get("fabric"),
		SeamstressID: q.Get("seamstress"),
	}

	if f.Status != "" && !f.Status.Valid() {
		return f, fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, f.Status)
	}

	for key, dst := range map[string]**time.Time{"start": &f.StartDate, "end": &f.EndDate} {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			continue
		}
		t, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return f, fmt.Errorf("%w: %s=%q", ErrInvalidFilter, key, raw)
		}
		*dst = &t
	}

	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return f, fmt.Errorf("%w: end date before start date", ErrInvalidFilter)
	}

	return f, nil
}

func (f Filter) match(o storage.ProductionOrder) bool {
	if f.StartDate != nil && o.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && !o.CreatedAt.Before(f.EndDate.AddDate(0, 0, 1)) {
		return false
	}
	if f.Reference != "" {
		term := strings.ToLower(f.Reference)
		if !strings.Contains(strings.ToLower(o.ReferenceCode), term) &&
			!strings.Contains(strings.ToLower(o.Description), term) {
			return false
		}
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.Fabric != "" && o.Fabric != f.Fabric {
		return false
	}
	if f.SeamstressID != "" {
		found := false
		for _, s := range o.Splits {
			if s.SeamstressID == f.SeamstressID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type Report struct {
	Orders      []storage.ProductionOrder `json:"orders"`
	TotalOrders int                       `json:"totalOrders"`
	TotalCut    int                       `json:"totalCut"`
	TotalSewn   int                       `json:"totalSewn"`
	TotalRolls  float64                   `json:"totalRolls"`
}

// Build filters the orders and totals them. The input is not modified.
func Build(orders []storage.ProductionOrder, f Filter) Report {
	r := Report{Orders: []storage.ProductionOrder{}}
	rolls := decimal.Zero

	for _, o := range orders {
		if !f.match(o) {
			continue
		}

		r.Orders = append(r.Orders, o)
		r.TotalCut += storage.SumPieces(o.Items)
		for _, item := range o.Items {
			rolls = rolls.Add(decimal.NewFromFloat(item.RollsUsed))
		}
		for _, s := range o.Splits {
			if s.Status == storage.StatusFinished {
				r.TotalSewn += s.Pieces()
			}
		}
	}

	r.TotalOrders = len(r.Orders)
	r.TotalRolls = rolls.Round(2).InexactFloat64()

	return r
}

// SearchOrders is the order board lookup: term matches reference code or
// description ignoring case, or a part of the order id. Empty status keeps
// every stage.
func SearchOrders(orders []storage.ProductionOrder, term string, status storage.OrderStatus) []storage.ProductionOrder {
	term = strings.TrimSpace(term)
	lower := strings.ToLower(term)

	out := make([]storage.ProductionOrder, 0, len(orders))
	for _, o := range orders {
		if status != "" && o.Status != status {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(o.ReferenceCode), lower) &&
			!strings.Contains(strings.ToLower(o.Description), lower) &&
			!strings.Contains(o.ID, term) {
			continue
		}
		out = append(out, o)
	}

	return out
}

// FabricOptions lists the distinct default fabrics of the catalog, sorted.
func FabricOptions(products []storage.ProductReference) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range products {
		name := strings.TrimSpace(p.DefaultFabric)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
