package storage

import (
	"sort"
	"strings"
)

type GridType string

const (
	GridStandard GridType = "STANDARD"
	GridPlus     GridType = "PLUS"
	GridCustom   GridType = "CUSTOM"
)

func (g GridType) Valid() bool {
	switch g {
	case GridStandard, GridPlus, GridCustom:
		return true
	}
	return false
}

// Sizes returns the fixed size set of the grid. CUSTOM grids have none.
func (g GridType) Sizes() []string {
	switch g {
	case GridStandard:
		return []string{"P", "M", "G", "GG"}
	case GridPlus:
		return []string{"G1", "G2", "G3"}
	default:
		return nil
	}
}

var sizeOrder = []string{"PP", "P", "M", "G", "GG", "XG", "G1", "G2", "G3", "G4", "UNI"}

// SizeDistribution maps a size label to a piece count.
type SizeDistribution map[string]int

func (d SizeDistribution) Total() int {
	total := 0
	for _, v := range d {
		total += v
	}
	return total
}

func (d SizeDistribution) Clone() SizeDistribution {
	if d == nil {
		return nil
	}
	out := make(SizeDistribution, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Keys returns the sizes in shop order: known labels first, the rest A-Z.
func (d SizeDistribution) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	SortSizes(keys)
	return keys
}

func SortSizes(sizes []string) {
	rank := func(s string) int {
		up := strings.ToUpper(s)
		for i, known := range sizeOrder {
			if known == up {
				return i
			}
		}
		return -1
	}

	sort.SliceStable(sizes, func(i, j int) bool {
		ri, rj := rank(sizes[i]), rank(sizes[j])
		switch {
		case ri != -1 && rj != -1:
			return ri < rj
		case ri != -1:
			return true
		case rj != -1:
			return false
		default:
			return sizes[i] < sizes[j]
		}
	})
}
