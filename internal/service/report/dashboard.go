package report

import (
	"fmt"
	"sort"
	"time"

	"confeccao/internal/storage"
)

// LateAfter is how long a seamstress has to return a packet.
const LateAfter = 15 * 24 * time.Hour

var monthShort = [...]string{"jan.", "fev.", "mar.", "abr.", "mai.", "jun.", "jul.", "ago.", "set.", "out.", "nov.", "dez."}

type SeamstressStat struct {
	storage.Seamstress
	Produced      int  `json:"produced"`
	ActivePackets int  `json:"activePackets"`
	Idle          bool `json:"isIdle"`
}

type ChartPoint struct {
	Name   string `json:"name"`
	Pieces int    `json:"pieces"`
}

type LateSplit struct {
	OrderID        string    `json:"orderId"`
	ReferenceCode  string    `json:"referenceCode"`
	SplitID        string    `json:"splitId"`
	SeamstressName string    `json:"seamstressName"`
	Pieces         int       `json:"pieces"`
	Deadline       time.Time `json:"deadline"`
}

type DashboardMetrics struct {
	TotalOrders         int                         `json:"totalOrders"`
	StatusCounts        map[storage.OrderStatus]int `json:"statusCounts"`
	PlannedOrders       int                         `json:"plannedOrders"`
	CuttingOrders       int                         `json:"cuttingOrders"`
	SewingPackets       int                         `json:"sewingPackets"`
	ActiveSeamstresses  int                         `json:"activeSeamstresses"`
	TotalPiecesProduced int                         `json:"totalPiecesProduced"`
	MonthPiecesProduced int                         `json:"monthPiecesProduced"`
	Ranking             []SeamstressStat            `json:"ranking"`
	IdleSeamstresses    []SeamstressStat            `json:"idleSeamstresses"`
	BusySeamstresses    []SeamstressStat            `json:"busySeamstresses"`
	Weekly              []ChartPoint                `json:"weekly"`
	Monthly             []ChartPoint                `json:"monthly"`
	Late                []LateSplit                 `json:"late"`
}

// Deadline is when a split is due back from the seamstress.
func Deadline(s storage.OrderSplit) time.Time {
	return s.CreatedAt.Add(LateAfter)
}

// IsLate reports whether a split is still out past its deadline.
func IsLate(s storage.OrderSplit, now time.Time) bool {
	return s.Status != storage.StatusFinished && now.After(Deadline(s))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Dashboard computes the overview metrics. Calendar buckets are evaluated
// in loc.
func Dashboard(orders []storage.ProductionOrder, seamstresses []storage.Seamstress, now time.Time, loc *time.Location) DashboardMetrics {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	m := DashboardMetrics{
		TotalOrders:  len(orders),
		StatusCounts: map[storage.OrderStatus]int{},
		Late:         []LateSplit{},
	}

	type finished struct {
		at     time.Time
		pieces int
	}
	var done []finished

	sewingBy := map[string]bool{}
	producedBy := map[string]int{}
	packetsBy := map[string]int{}

	for _, o := range orders {
		m.StatusCounts[o.Status]++

		for _, s := range o.Splits {
			pieces := s.Pieces()

			switch s.Status {
			case storage.StatusSewing:
				m.SewingPackets++
				sewingBy[s.SeamstressID] = true
				packetsBy[s.SeamstressID]++
			case storage.StatusFinished:
				m.TotalPiecesProduced += pieces
				producedBy[s.SeamstressID] += pieces
				if s.FinishedAt != nil {
					done = append(done, finished{at: s.FinishedAt.In(loc), pieces: pieces})
				}
			}

			if IsLate(s, now) {
				m.Late = append(m.Late, LateSplit{
					OrderID:        o.ID,
					ReferenceCode:  o.ReferenceCode,
					SplitID:        s.ID,
					SeamstressName: s.SeamstressName,
					Pieces:         pieces,
					Deadline:       Deadline(s),
				})
			}
		}
	}

	m.PlannedOrders = m.StatusCounts[storage.StatusPlanned]
	m.CuttingOrders = m.StatusCounts[storage.StatusCutting]
	m.ActiveSeamstresses = len(sewingBy)

	for _, d := range done {
		if sameMonth(d.at, now) {
			m.MonthPiecesProduced += d.pieces
		}
	}

	m.Ranking = make([]SeamstressStat, 0, len(seamstresses))
	for _, w := range seamstresses {
		m.Ranking = append(m.Ranking, SeamstressStat{
			Seamstress:    w,
			Produced:      producedBy[w.ID],
			ActivePackets: packetsBy[w.ID],
			Idle:          w.Active && packetsBy[w.ID] == 0,
		})
	}
	sort.SliceStable(m.Ranking, func(i, j int) bool {
		return m.Ranking[i].Produced > m.Ranking[j].Produced
	})

	m.IdleSeamstresses = []SeamstressStat{}
	m.BusySeamstresses = []SeamstressStat{}
	for _, st := range m.Ranking {
		if st.Idle {
			m.IdleSeamstresses = append(m.IdleSeamstresses, st)
		} else if st.ActivePackets > 0 {
			m.BusySeamstresses = append(m.BusySeamstresses, st)
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		point := ChartPoint{Name: fmt.Sprintf("%02d/%02d", day.Day(), int(day.Month()))}
		for _, d := range done {
			if sameDay(d.at, day) {
				point.Pieces += d.pieces
			}
		}
		m.Weekly = append(m.Weekly, point)
	}

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	for i := 5; i >= 0; i-- {
		month := firstOfMonth.AddDate(0, -i, 0)
		point := ChartPoint{Name: monthShort[month.Month()-1]}
		for _, d := range done {
			if sameMonth(d.at, month) {
				point.Pieces += d.pieces
			}
		}
		m.Monthly = append(m.Monthly, point)
	}

	return m
}
