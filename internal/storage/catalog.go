package storage

import "time"

type ProductColor struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type ProductReference struct {
	ID                     string         `json:"id"`
	Code                   string         `json:"code"`
	Description            string         `json:"description"`
	DefaultFabric          string         `json:"defaultFabric"`
	DefaultColors          []ProductColor `json:"defaultColors"`
	DefaultGrid            GridType       `json:"defaultGrid"`
	EstimatedPiecesPerRoll *int           `json:"estimatedPiecesPerRoll,omitempty"`
}

type Seamstress struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Specialty string  `json:"specialty"`
	Active    bool    `json:"active"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
}

// Fabric is a stock-keeping unit identified by its (name, color) pair.
type Fabric struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	ColorHex   string    `json:"colorHex"`
	StockRolls float64   `json:"stockRolls"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
