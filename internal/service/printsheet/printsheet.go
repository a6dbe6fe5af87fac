// Package printsheet renders the printable shop-floor sheets as HTML.
package printsheet

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"confeccao/internal/service/production"
	"confeccao/internal/storage"
)

var ErrNothingToPrint = errors.New("no planned orders to print")

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)

const Company = "Kavin's"

type Options struct {
	// AutoPrint opens the browser print dialog once the page loads.
	AutoPrint bool
	Location  *time.Location
}

type plannedRow struct {
	Color      string
	FabricCode string
	Rolls      string
}

type plannedOrder struct {
	ID          string
	Reference   string
	Fabric      string
	Sizes       string
	Description string
	Notes       string
	Rows        []plannedRow
}

// FormatRolls prints a roll quantity the Brazilian way, e.g. 2,5.
func FormatRolls(v float64) string {
	return strings.Replace(strconv.FormatFloat(production.RoundRolls(v), 'f', -1, 64), ".", ",", 1)
}

// SortByID orders numeric ids numerically and falls back to text order.
func SortByID(orders []storage.ProductionOrder) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, errA := strconv.Atoi(orders[i].ID)
		b, errB := strconv.Atoi(orders[j].ID)
		if errA == nil && errB == nil {
			return a < b
		}
		return orders[i].ID < orders[j].ID
	})
}

// GridLabel is the size list printed in the order header.
func GridLabel(o storage.ProductionOrder) string {
	switch o.GridType {
	case storage.GridStandard, storage.GridPlus:
		return strings.Join(o.GridType.Sizes(), ", ")
	}
	if len(o.Items) == 0 {
		return ""
	}
	return strings.Join(o.Items[0].Sizes.Keys(), ", ")
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// PlannedOrders renders the cutting sheet for every PLANNED order. The
// fabric code of each color is the notes field of the matching fabric.
func PlannedOrders(orders []storage.ProductionOrder, fabrics []storage.Fabric, opts Options) ([]byte, error) {
	const op = "service.printsheet.PlannedOrders"

	planned := make([]storage.ProductionOrder, 0, len(orders))
	for _, o := range orders {
		if o.Status == storage.StatusPlanned {
			planned = append(planned, o)
		}
	}
	if len(planned) == 0 {
		return nil, ErrNothingToPrint
	}
	SortByID(planned)

	view := make([]plannedOrder, 0, len(planned))
	for _, o := range planned {
		po := plannedOrder{
			ID:          o.ID,
			Reference:   o.ReferenceCode,
			Fabric:      o.Fabric,
			Sizes:       GridLabel(o),
			Description: o.Description,
			Notes:       dash(o.Notes),
		}
		for _, item := range o.Items {
			code := "-"
			if f, ok := production.FindFabric(fabrics, o.Fabric, item.Color); ok {
				code = dash(f.Notes)
			}
			po.Rows = append(po.Rows, plannedRow{
				Color:      item.Color,
				FabricCode: code,
				Rolls:      FormatRolls(item.RollsUsed),
			})
		}
		view = append(view, po)
	}

	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "planned.html", map[string]any{
		"Company":   Company,
		"Orders":    view,
		"AutoPrint": opts.AutoPrint,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

type fabricRow struct {
	Name      string
	Color     string
	Swatch    string
	Rolls     string
	Notes     string
	UpdatedAt string
}

// Fabrics renders the stock report for the given, already filtered, fabrics.
func Fabrics(fabrics []storage.Fabric, now time.Time, opts Options) ([]byte, error) {
	const op = "service.printsheet.Fabrics"

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	rows := make([]fabricRow, 0, len(fabrics))
	for _, f := range fabrics {
		swatch := f.ColorHex
		if !hexColor.MatchString(swatch) {
			swatch = "#cccccc"
		}
		rows = append(rows, fabricRow{
			Name:      f.Name,
			Color:     f.Color,
			Swatch:    swatch,
			Rolls:     FormatRolls(f.StockRolls),
			Notes:     dash(f.Notes),
			UpdatedAt: f.UpdatedAt.In(loc).Format("02/01/2006"),
		})
	}

	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "fabrics.html", map[string]any{
		"Company":     Company,
		"GeneratedAt": now.In(loc).Format("02/01/2006 15:04"),
		"Fabrics":     rows,
		"AutoPrint":   opts.AutoPrint,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}
