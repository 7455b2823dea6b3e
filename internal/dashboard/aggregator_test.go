package dashboard

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zbergm/load-board-app/internal/models"
)

var testToday = models.NewDate(2025, time.February, 10)

func dateP(y int, m time.Month, d int) *models.Date {
	dt := models.NewDate(y, m, d)
	return &dt
}

func pallets(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func statsFixture() ([]models.InboundShipment, []models.OutboundShipment) {
	inbound := []models.InboundShipment{
		{ID: 1, ShipDate: dateP(2025, time.February, 10)},                 // today, pending
		{ID: 2, ShipDate: dateP(2025, time.February, 10), Received: true}, // today, done
		{ID: 3, ShipDate: dateP(2025, time.February, 1)},                  // overdue
		{ID: 4, ShipDate: dateP(2025, time.February, 20)},                 // future pending
		{ID: 5},                                                           // unscheduled pending
	}
	outbound := []models.OutboundShipment{
		// Today, routed, not shipped.
		{ID: 1, ReferenceNumber: "R1", Carrier: "XPO", ShipDate: dateP(2025, time.February, 10)},
		// Today, shipped.
		{ID: 2, ReferenceNumber: "R2", Carrier: "XPO", ShipDate: dateP(2025, time.February, 10), Shipped: true},
		// Overdue, routed.
		{ID: 3, ReferenceNumber: "R3", Carrier: "Estes", ShipDate: dateP(2025, time.February, 5)},
		// Past date but missing carrier: pending routing, NOT overdue or pending.
		{ID: 4, ReferenceNumber: "R4", ShipDate: dateP(2025, time.February, 5)},
		// Shipped late last week.
		{ID: 5, ReferenceNumber: "R5", Carrier: "XPO", ShipDate: dateP(2025, time.February, 8), Shipped: true, Delayed: true},
	}
	return inbound, outbound
}

func TestComputeStats(t *testing.T) {
	inbound, outbound := statsFixture()
	got := ComputeStats(inbound, outbound, testToday)

	want := Stats{
		TotalInboundToday:      2,
		TotalOutboundToday:     2,
		CompletedInboundToday:  1,
		CompletedOutboundToday: 1,
		PendingInbound:         3, // today's + future + unscheduled
		PendingOutbound:        1, // only the routed one due today
		OverdueInbound:         1,
		OverdueOutbound:        1, // the unrouted past-date record is excluded
		// Window is Feb 4-10. Inbound: IDs 1, 2 (Feb 10); Feb 1 and Feb 20
		// fall outside. Outbound: all five (Feb 5, 8, 10).
		ShipmentsThisWeek: 7,
	}

	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

// A pending-routing record must never be double-counted into pending or
// overdue.
func TestComputeStats_NoDoubleCountPendingRouting(t *testing.T) {
	outbound := []models.OutboundShipment{
		{ID: 1, ReferenceNumber: "", Carrier: "XPO", ShipDate: dateP(2025, time.January, 1)},
	}
	got := ComputeStats(nil, outbound, testToday)
	if got.PendingOutbound != 0 || got.OverdueOutbound != 0 {
		t.Errorf("pending=%d overdue=%d, want 0/0 for pending-routing record",
			got.PendingOutbound, got.OverdueOutbound)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	got := ComputeStats(nil, nil, testToday)
	if got != (Stats{}) {
		t.Errorf("empty collections: %+v, want zeroed stats", got)
	}
}

func TestWeeklyVolume(t *testing.T) {
	inbound, outbound := statsFixture()
	days := WeeklyVolume(inbound, outbound, testToday)

	if len(days) != 7 {
		t.Fatalf("bucket count = %d, want 7", len(days))
	}
	if !days[0].Date.Equal(models.NewDate(2025, time.February, 4)) {
		t.Errorf("first bucket = %s, want 2025-02-04", days[0].Date)
	}
	if !days[6].Date.Equal(testToday) {
		t.Errorf("last bucket = %s, want today", days[6].Date)
	}
	// Feb 10: 2 inbound, 2 outbound. Feb 5: 2 outbound. Feb 8: 1 outbound.
	if days[6].Inbound != 2 || days[6].Outbound != 2 {
		t.Errorf("today bucket = %d/%d, want 2/2", days[6].Inbound, days[6].Outbound)
	}
	if days[1].Outbound != 2 {
		t.Errorf("Feb 5 outbound = %d, want 2", days[1].Outbound)
	}
	if days[4].Outbound != 1 {
		t.Errorf("Feb 8 outbound = %d, want 1", days[4].Outbound)
	}
}

func TestWeeklyVolume_AlwaysSevenBuckets(t *testing.T) {
	days := WeeklyVolume(nil, nil, testToday)
	if len(days) != 7 {
		t.Fatalf("bucket count = %d, want 7", len(days))
	}
	for _, d := range days {
		if d.Inbound != 0 || d.Outbound != 0 {
			t.Errorf("empty collections produced counts: %+v", d)
		}
	}
}

func TestBreakdownByCarrier(t *testing.T) {
	inbound := []models.InboundShipment{
		{Carrier: "XPO"}, {Carrier: "Estes"}, {Carrier: "XPO"},
		{Carrier: ""}, // missing carrier is skipped
	}
	outbound := []models.OutboundShipment{
		{Carrier: "XPO"}, {Carrier: "Saia"},
	}
	got := BreakdownByCarrier(inbound, outbound)
	want := []BreakdownEntry{
		{Name: "XPO", Value: 3},
		// Estes and Saia tie at 1; Estes was seen first.
		{Name: "Estes", Value: 1},
		{Name: "Saia", Value: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("breakdown = %v, want %v", got, want)
	}
}

func TestBreakdownByCustomer(t *testing.T) {
	outbound := []models.OutboundShipment{
		{Customer: "NAPA"}, {Customer: "AutoZone"}, {Customer: "AutoZone"},
	}
	got := BreakdownByCustomer(outbound)
	want := []BreakdownEntry{
		{Name: "AutoZone", Value: 2},
		{Name: "NAPA", Value: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("breakdown = %v, want %v", got, want)
	}
}

// The alert lists must agree with the headline counts: today's list length
// equals total-today minus completed-today, and the overdue list length
// equals the overdue count.
func TestTodayAndOverdueListsMatchCounts(t *testing.T) {
	inbound, outbound := statsFixture()
	stats := ComputeStats(inbound, outbound, testToday)
	today := TodayShipments(inbound, outbound, testToday)
	overdue := OverdueShipments(inbound, outbound, testToday)

	if len(today.Inbound) != stats.TotalInboundToday-stats.CompletedInboundToday {
		t.Errorf("today inbound list = %d, counts say %d",
			len(today.Inbound), stats.TotalInboundToday-stats.CompletedInboundToday)
	}
	if len(today.Outbound) != stats.TotalOutboundToday-stats.CompletedOutboundToday {
		t.Errorf("today outbound list = %d, counts say %d",
			len(today.Outbound), stats.TotalOutboundToday-stats.CompletedOutboundToday)
	}
	if len(overdue.Inbound) != stats.OverdueInbound {
		t.Errorf("overdue inbound list = %d, count = %d", len(overdue.Inbound), stats.OverdueInbound)
	}
	if len(overdue.Outbound) != stats.OverdueOutbound {
		t.Errorf("overdue outbound list = %d, count = %d", len(overdue.Outbound), stats.OverdueOutbound)
	}
}

func TestMonthlyPalletRollup(t *testing.T) {
	outbound := []models.OutboundShipment{
		{Customer: "AutoZone", ShipDate: dateP(2025, time.January, 5), Pallets: pallets("3")},
		{Customer: "AutoZone", ShipDate: dateP(2025, time.January, 20), Pallets: pallets("2")},
		{Customer: "AutoZone", ShipDate: dateP(2025, time.February, 1), Pallets: pallets("1")},
	}
	got := MonthlyPalletRollup(outbound, "AutoZone", 2025, models.NewDate(2025, time.February, 10))

	if got.Year != 2025 || got.CurrentMonthName != "February" {
		t.Errorf("year/month = %d/%s", got.Year, got.CurrentMonthName)
	}
	if !got.CurrentMonthPallets.Equal(decimal.RequireFromString("1")) {
		t.Errorf("current month pallets = %s, want 1", got.CurrentMonthPallets)
	}
	if len(got.PreviousMonths) != 1 {
		t.Fatalf("previous months = %d, want 1", len(got.PreviousMonths))
	}
	prev := got.PreviousMonths[0]
	if prev.MonthName != "January" || !prev.Pallets.Equal(decimal.RequireFromString("5")) {
		t.Errorf("previous month = %s/%s, want January/5", prev.MonthName, prev.Pallets)
	}
}

func TestMonthlyPalletRollup_HalfUnits(t *testing.T) {
	outbound := []models.OutboundShipment{
		{Customer: "AutoZone", ShipDate: dateP(2025, time.February, 3), Pallets: pallets("2.5")},
		{Customer: "AutoZone", ShipDate: dateP(2025, time.February, 4), Pallets: pallets("0.5")},
	}
	got := MonthlyPalletRollup(outbound, "AutoZone", 2025, models.NewDate(2025, time.February, 10))
	if !got.CurrentMonthPallets.Equal(decimal.RequireFromString("3")) {
		t.Errorf("pallets = %s, want 3", got.CurrentMonthPallets)
	}
}

func TestMonthlyPalletRollup_Exclusions(t *testing.T) {
	outbound := []models.OutboundShipment{
		// Wrong customer.
		{Customer: "NAPA", ShipDate: dateP(2025, time.January, 5), Pallets: pallets("10")},
		// Wrong year.
		{Customer: "AutoZone", ShipDate: dateP(2024, time.January, 5), Pallets: pallets("10")},
		// No ship date.
		{Customer: "AutoZone", Pallets: pallets("10")},
		// No pallet count.
		{Customer: "AutoZone", ShipDate: dateP(2025, time.January, 5)},
		// Future month of the configured year is not reported.
		{Customer: "AutoZone", ShipDate: dateP(2025, time.November, 5), Pallets: pallets("10")},
	}
	got := MonthlyPalletRollup(outbound, "AutoZone", 2025, models.NewDate(2025, time.February, 10))
	if !got.CurrentMonthPallets.IsZero() {
		t.Errorf("current month pallets = %s, want 0", got.CurrentMonthPallets)
	}
	if len(got.PreviousMonths) != 0 {
		t.Errorf("previous months = %v, want none (zero months omitted)", got.PreviousMonths)
	}
}

func TestMonthlyPalletRollup_Empty(t *testing.T) {
	got := MonthlyPalletRollup(nil, "AutoZone", 2025, testToday)
	if !got.CurrentMonthPallets.IsZero() || len(got.PreviousMonths) != 0 {
		t.Errorf("empty collection rollup = %+v", got)
	}
}
