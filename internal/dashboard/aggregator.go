// Package dashboard aggregates shipment collections into the point-in-time
// summaries the operations dashboard shows: headline counts, the weekly
// volume chart, carrier/customer breakdowns, alert lists and the monthly
// pallet rollup. Everything is keyed off an explicit "today"; nothing here
// reads the clock or performs I/O.
package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zbergm/load-board-app/internal/models"
	"github.com/zbergm/load-board-app/internal/status"
)

// Stats is the headline dashboard block.
type Stats struct {
	TotalInboundToday      int `json:"total_inbound_today"`
	TotalOutboundToday     int `json:"total_outbound_today"`
	PendingInbound         int `json:"pending_inbound"`
	PendingOutbound        int `json:"pending_outbound"`
	CompletedInboundToday  int `json:"completed_inbound_today"`
	CompletedOutboundToday int `json:"completed_outbound_today"`
	OverdueInbound         int `json:"overdue_inbound"`
	OverdueOutbound        int `json:"overdue_outbound"`
	ShipmentsThisWeek      int `json:"shipments_this_week"`
}

// VolumeDay is one day bucket of the weekly volume chart.
type VolumeDay struct {
	Name     string      `json:"name"`
	Date     models.Date `json:"date"`
	Inbound  int         `json:"inbound"`
	Outbound int         `json:"outbound"`
}

// BreakdownEntry is one grouped count in a carrier/customer breakdown.
type BreakdownEntry struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TodayReport lists the not-yet-completed shipments scheduled for today.
type TodayReport struct {
	Date     models.Date               `json:"date"`
	Inbound  []models.InboundShipment  `json:"inbound"`
	Outbound []models.OutboundShipment `json:"outbound"`
}

// OverdueReport lists the shipments whose date has passed without completion.
type OverdueReport struct {
	Inbound  []models.InboundShipment  `json:"inbound"`
	Outbound []models.OutboundShipment `json:"outbound"`
}

// MonthPallets is one month's pallet total in a rollup.
type MonthPallets struct {
	MonthName string          `json:"month_name"`
	Pallets   decimal.Decimal `json:"pallets"`
}

// PalletRollup reports a customer's pallet volume for the current month plus
// all earlier months of the year that had shipments.
type PalletRollup struct {
	Year                int             `json:"year"`
	CurrentMonthName    string          `json:"current_month_name"`
	CurrentMonthPallets decimal.Decimal `json:"current_month_pallets"`
	PreviousMonths      []MonthPallets  `json:"previous_months"`
}

// ComputeStats derives the headline counts from both collections.
//
// Pending/overdue counts use the derived status, so an outbound load that is
// missing routing info counts in neither bucket (it has its own status). The
// week window is the trailing 7 days including today, the same window
// WeeklyVolume buckets.
func ComputeStats(inbound []models.InboundShipment, outbound []models.OutboundShipment, today models.Date) Stats {
	var st Stats
	weekStart := today.AddDays(-6)

	for _, s := range inbound {
		res := status.ClassifyInbound(s, today)
		if s.ShipDate != nil && s.ShipDate.Equal(today) {
			st.TotalInboundToday++
			if s.Received {
				st.CompletedInboundToday++
			}
		}
		switch res.Status {
		case status.Pending:
			st.PendingInbound++
		case status.Overdue:
			st.OverdueInbound++
		}
		if inWindow(s.ShipDate, weekStart, today) {
			st.ShipmentsThisWeek++
		}
	}

	for _, s := range outbound {
		res := status.ClassifyOutbound(s, today)
		if s.ShipDate != nil && s.ShipDate.Equal(today) {
			st.TotalOutboundToday++
			if s.Shipped {
				st.CompletedOutboundToday++
			}
		}
		switch res.Status {
		case status.Pending:
			st.PendingOutbound++
		case status.Overdue:
			st.OverdueOutbound++
		}
		if inWindow(s.ShipDate, weekStart, today) {
			st.ShipmentsThisWeek++
		}
	}

	return st
}

// WeeklyVolume buckets both collections by ship date over the trailing week.
// Always exactly 7 buckets, oldest first, today last.
func WeeklyVolume(inbound []models.InboundShipment, outbound []models.OutboundShipment, today models.Date) []VolumeDay {
	days := make([]VolumeDay, 7)
	for i := 0; i < 7; i++ {
		d := today.AddDays(i - 6)
		days[i] = VolumeDay{Name: d.Weekday(), Date: d}
	}
	for _, s := range inbound {
		if idx, ok := bucketIndex(s.ShipDate, today); ok {
			days[idx].Inbound++
		}
	}
	for _, s := range outbound {
		if idx, ok := bucketIndex(s.ShipDate, today); ok {
			days[idx].Outbound++
		}
	}
	return days
}

// BreakdownByCarrier groups inbound and outbound shipments together by
// carrier, counts them and sorts descending. Ties keep first-seen order, so
// the result is deterministic for a given canonical collection order. The
// full list is returned; callers slice off however many they want to show.
func BreakdownByCarrier(inbound []models.InboundShipment, outbound []models.OutboundShipment) []BreakdownEntry {
	g := newGrouper()
	for _, s := range inbound {
		g.add(s.Carrier)
	}
	for _, s := range outbound {
		g.add(s.Carrier)
	}
	return g.sorted()
}

// BreakdownByCustomer groups outbound shipments by customer. Same contract as
// BreakdownByCarrier.
func BreakdownByCustomer(outbound []models.OutboundShipment) []BreakdownEntry {
	g := newGrouper()
	for _, s := range outbound {
		g.add(s.Customer)
	}
	return g.sorted()
}

// TodayShipments lists the full records flagged IsToday by the classifier:
// scheduled for today and not yet received/shipped. The same predicate backs
// the headline math (total today minus completed today), so the list and the
// counts cannot drift apart.
func TodayShipments(inbound []models.InboundShipment, outbound []models.OutboundShipment, today models.Date) TodayReport {
	r := TodayReport{
		Date:     today,
		Inbound:  []models.InboundShipment{},
		Outbound: []models.OutboundShipment{},
	}
	for _, s := range inbound {
		if status.ClassifyInbound(s, today).IsToday {
			r.Inbound = append(r.Inbound, s)
		}
	}
	for _, s := range outbound {
		if status.ClassifyOutbound(s, today).IsToday {
			r.Outbound = append(r.Outbound, s)
		}
	}
	return r
}

// OverdueShipments lists the full records whose derived status is Overdue —
// exactly the records counted by ComputeStats.
func OverdueShipments(inbound []models.InboundShipment, outbound []models.OutboundShipment, today models.Date) OverdueReport {
	r := OverdueReport{
		Inbound:  []models.InboundShipment{},
		Outbound: []models.OutboundShipment{},
	}
	for _, s := range inbound {
		if status.ClassifyInbound(s, today).Status == status.Overdue {
			r.Inbound = append(r.Inbound, s)
		}
	}
	for _, s := range outbound {
		if status.ClassifyOutbound(s, today).Status == status.Overdue {
			r.Outbound = append(r.Outbound, s)
		}
	}
	return r
}

// MonthlyPalletRollup sums pallets for one customer's outbound shipments in
// one year, grouped by calendar month. The current month (today's month) is
// reported as a running total; earlier months of the year appear in
// chronological order, and months without shipments are omitted rather than
// reported as zero. Pallet sums keep half-unit precision; records with no
// ship date or no pallet count are skipped, never an error.
func MonthlyPalletRollup(outbound []models.OutboundShipment, customer string, year int, today models.Date) PalletRollup {
	sums := make(map[time.Month]decimal.Decimal)
	seen := make(map[time.Month]bool)

	for _, s := range outbound {
		if s.Customer != customer || s.ShipDate == nil || !s.Pallets.Valid {
			continue
		}
		if s.ShipDate.Year() != year {
			continue
		}
		m := s.ShipDate.Month()
		sums[m] = sums[m].Add(s.Pallets.Decimal)
		seen[m] = true
	}

	currentMonth := today.Month()
	r := PalletRollup{
		Year:                year,
		CurrentMonthName:    currentMonth.String(),
		CurrentMonthPallets: sums[currentMonth],
		PreviousMonths:      []MonthPallets{},
	}
	for m := time.January; m < currentMonth; m++ {
		if !seen[m] {
			continue
		}
		r.PreviousMonths = append(r.PreviousMonths, MonthPallets{
			MonthName: m.String(),
			Pallets:   sums[m],
		})
	}
	return r
}

func inWindow(d *models.Date, start, end models.Date) bool {
	if d == nil {
		return false
	}
	return !d.Before(start) && !d.After(end)
}

func bucketIndex(d *models.Date, today models.Date) (int, bool) {
	if d == nil {
		return 0, false
	}
	start := today.AddDays(-6)
	if d.Before(start) || d.After(today) {
		return 0, false
	}
	days := int(d.Time().Sub(start.Time()).Hours() / 24)
	return days, true
}

// grouper counts non-empty names preserving first-seen order for ties.
type grouper struct {
	counts map[string]int
	order  []string
}

func newGrouper() *grouper {
	return &grouper{counts: make(map[string]int)}
}

func (g *grouper) add(name string) {
	if name == "" {
		return
	}
	if _, ok := g.counts[name]; !ok {
		g.order = append(g.order, name)
	}
	g.counts[name]++
}

func (g *grouper) sorted() []BreakdownEntry {
	entries := make([]BreakdownEntry, 0, len(g.order))
	for _, name := range g.order {
		entries = append(entries, BreakdownEntry{Name: name, Value: g.counts[name]})
	}
	// Stable sort keeps first-seen order on equal counts.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	return entries
}
