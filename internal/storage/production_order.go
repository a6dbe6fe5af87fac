package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPlanned  OrderStatus = "PLANNED"
	StatusCutting  OrderStatus = "CUTTING"
	StatusSewing   OrderStatus = "SEWING"
	StatusFinished OrderStatus = "FINISHED"
)

// Label is the name shown on the shop floor.
func (s OrderStatus) Label() string {
	switch s {
	case StatusPlanned:
		return "Planejado"
	case StatusCutting:
		return "Em Corte"
	case StatusSewing:
		return "Na Costura"
	case StatusFinished:
		return "Finalizado"
	default:
		return string(s)
	}
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusCutting, StatusSewing, StatusFinished:
		return true
	}
	return false
}

type OrderItem struct {
	Color            string           `json:"color"`
	ColorHex         string           `json:"colorHex,omitempty"`
	RollsUsed        float64          `json:"rollsUsed"`
	PiecesPerSizeEst int              `json:"piecesPerSizeEst"`
	EstimatedPieces  int              `json:"estimatedPieces"`
	ActualPieces     int              `json:"actualPieces"`
	Sizes            SizeDistribution `json:"sizes"`
}

// Clone returns a copy that shares no maps with the receiver.
func (i OrderItem) Clone() OrderItem {
	i.Sizes = i.Sizes.Clone()
	return i
}

// OrderSplit is a packet of cut pieces handed to one seamstress. Its items
// never change after creation; only the status moves SEWING -> FINISHED.
type OrderSplit struct {
	ID             string      `json:"id"`
	SeamstressID   string      `json:"seamstressId"`
	SeamstressName string      `json:"seamstressName"`
	Status         OrderStatus `json:"status"`
	Items          []OrderItem `json:"items"`
	CreatedAt      time.Time   `json:"createdAt"`
	FinishedAt     *time.Time  `json:"finishedAt,omitempty"`
}

func (s OrderSplit) Pieces() int {
	return SumPieces(s.Items)
}

type ProductionOrder struct {
	ID            string   `json:"id"`
	ReferenceID   string   `json:"referenceId"`
	ReferenceCode string   `json:"referenceCode"`
	Description   string   `json:"description"`
	Fabric        string   `json:"fabric"`
	GridType      GridType `json:"gridType"`

	// Items is the confirmed total cut, one entry per color.
	Items []OrderItem `json:"items"`
	// ActiveCuttingItems is what still sits in the cutting room.
	ActiveCuttingItems []OrderItem `json:"activeCuttingItems"`
	// Splits is what has been sent to seamstresses, in send order.
	Splits []OrderSplit `json:"splits"`

	Status     OrderStatus `json:"status"`
	Notes      string      `json:"notes,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
	FinishedAt *time.Time  `json:"finishedAt,omitempty"`
}

// CutConfirmed reports whether the cutting room stock has been populated.
func (o ProductionOrder) CutConfirmed() bool {
	return len(o.ActiveCuttingItems) > 0
}

func (o ProductionOrder) SplitIndex(splitID string) int {
	for i, s := range o.Splits {
		if s.ID == splitID {
			return i
		}
	}
	return -1
}

// Clone deep-copies the order so mutations never leak into the caller's value.
func (o ProductionOrder) Clone() ProductionOrder {
	o.Items = CloneItems(o.Items)
	o.ActiveCuttingItems = CloneItems(o.ActiveCuttingItems)
	if o.Splits != nil {
		splits := make([]OrderSplit, len(o.Splits))
		for i, s := range o.Splits {
			s.Items = CloneItems(s.Items)
			if s.FinishedAt != nil {
				t := *s.FinishedAt
				s.FinishedAt = &t
			}
			splits[i] = s
		}
		o.Splits = splits
	}
	if o.FinishedAt != nil {
		t := *o.FinishedAt
		o.FinishedAt = &t
	}
	return o
}

func CloneItems(items []OrderItem) []OrderItem {
	if items == nil {
		return nil
	}
	out := make([]OrderItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

func SumPieces(items []OrderItem) int {
	total := 0
	for _, i := range items {
		total += i.ActualPieces
	}
	return total
}

// SumRolls adds roll quantities without float drift, rounded to two places.
func SumRolls(items []OrderItem) float64 {
	total := decimal.Zero
	for _, i := range items {
		total = total.Add(decimal.NewFromFloat(i.RollsUsed))
	}
	return total.Round(2).InexactFloat64()
}
