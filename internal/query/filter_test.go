package query

import (
	"reflect"
	"testing"
	"time"

	"github.com/zbergm/load-board-app/internal/models"
)

var testToday = models.NewDate(2025, time.March, 10)

func dateP(y int, m time.Month, d int) *models.Date {
	dt := models.NewDate(y, m, d)
	return &dt
}

func inboundFixture() []models.InboundShipment {
	return []models.InboundShipment{
		{ID: 1, Source: models.SourceTP, ItemNumber: "ITEM-001", PO: "PO-9", Carrier: "ABC Freight", ShipDate: dateP(2025, time.March, 1)},
		{ID: 2, Source: models.SourceOther, ItemNumber: "ITEM-002", Carrier: "XPO", ShipDate: dateP(2025, time.March, 10), Received: true},
		{ID: 3, Source: models.SourceTP, ItemNumber: "ITEM-003", Carrier: "ABC Freight", ShipDate: dateP(2025, time.March, 12), Notes: "hot load"},
		{ID: 4, Source: models.SourceTP, ItemNumber: "WIDGET-1", Carrier: "Estes"}, // unscheduled
		{ID: 5, Source: models.SourceOther, ItemNumber: "ITEM-005", Carrier: "abc freight", ShipDate: dateP(2025, time.March, 12)},
	}
}

func inboundIDs(p InboundPage) []int64 {
	ids := make([]int64, 0, len(p.Items))
	for _, s := range p.Items {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestQueryInbound_CanonicalOrder(t *testing.T) {
	p := QueryInbound(inboundFixture(), Filters{}, 1, 50, testToday)
	// Ship date descending, ties by ID descending, undated rows last.
	want := []int64{5, 3, 2, 1, 4}
	if got := inboundIDs(p); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestQueryInbound_Idempotent(t *testing.T) {
	f := Filters{Source: models.SourceTP}
	first := QueryInbound(inboundFixture(), f, 1, 2, testToday)
	second := QueryInbound(inboundFixture(), f, 1, 2, testToday)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs returned different pages")
	}
}

func TestQueryInbound_Pagination(t *testing.T) {
	items := inboundFixture()

	p1 := QueryInbound(items, Filters{}, 1, 2, testToday)
	if p1.Total != 5 || p1.TotalPages != 3 || len(p1.Items) != 2 {
		t.Fatalf("page 1: total=%d totalPages=%d len=%d", p1.Total, p1.TotalPages, len(p1.Items))
	}

	p3 := QueryInbound(items, Filters{}, 3, 2, testToday)
	if len(p3.Items) != 1 {
		t.Errorf("last page len = %d, want 1", len(p3.Items))
	}

	// Out-of-range page: empty items, metadata intact, page echoed back.
	p9 := QueryInbound(items, Filters{}, 9, 2, testToday)
	if len(p9.Items) != 0 || p9.Total != 5 || p9.TotalPages != 3 || p9.Page != 9 {
		t.Errorf("out-of-range page: %+v", p9)
	}
}

func TestQueryInbound_EmptyCollection(t *testing.T) {
	p := QueryInbound(nil, Filters{}, 1, 50, testToday)
	if p.Total != 0 || p.TotalPages != 1 || len(p.Items) != 0 {
		t.Errorf("empty collection: total=%d totalPages=%d len=%d, want 0/1/0", p.Total, p.TotalPages, len(p.Items))
	}
}

func TestQueryInbound_Defaults(t *testing.T) {
	p := QueryInbound(inboundFixture(), Filters{}, 0, 0, testToday)
	if p.Page != 1 || p.PageSize != DefaultPageSize {
		t.Errorf("page=%d pageSize=%d, want 1/%d", p.Page, p.PageSize, DefaultPageSize)
	}
}

func TestQueryInbound_Filters(t *testing.T) {
	items := inboundFixture()

	tests := []struct {
		name string
		f    Filters
		want []int64
	}{
		{"source exact", Filters{Source: models.SourceOther}, []int64{5, 2}},
		{"carrier exact is case-sensitive", Filters{Carrier: "ABC Freight"}, []int64{3, 1}},
		{"search is case-insensitive", Filters{Search: "abc"}, []int64{5, 3, 1}},
		{"search notes", Filters{Search: "HOT"}, []int64{3}},
		{"search po", Filters{Search: "po-9"}, []int64{1}},
		{"status pending includes overdue", Filters{Status: StatusPending}, []int64{5, 3, 1, 4}},
		{"status completed", Filters{Status: StatusCompleted}, []int64{2}},
		{"unknown status fails open", Filters{Status: "bogus"}, []int64{5, 3, 2, 1, 4}},
		{"date range inclusive", Filters{StartDate: dateP(2025, time.March, 1), EndDate: dateP(2025, time.March, 10)}, []int64{2, 1}},
		{"range never matches undated", Filters{StartDate: dateP(2020, time.January, 1), EndDate: dateP(2030, time.January, 1)}, []int64{5, 3, 2, 1}},
		{"combined", Filters{Source: models.SourceTP, Carrier: "ABC Freight"}, []int64{3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := QueryInbound(items, tt.f, 1, 50, testToday)
			if got := inboundIDs(p); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
			if p.Total != len(tt.want) {
				t.Errorf("total = %d, want %d", p.Total, len(tt.want))
			}
		})
	}
}

func outboundFixture() []models.OutboundShipment {
	return []models.OutboundShipment{
		// Fully routed, overdue.
		{ID: 1, Source: models.SourceTP, ReferenceNumber: "REF-1", OrderNumber: "ORD-1", Customer: "AutoZone", Carrier: "XPO", ShipDate: dateP(2025, time.March, 1)},
		// Missing carrier: pending routing even though overdue by date.
		{ID: 2, Source: models.SourceTP, ReferenceNumber: "REF-2", OrderNumber: "ORD-2", Customer: "AutoZone", ShipDate: dateP(2025, time.March, 1)},
		// Shipped.
		{ID: 3, Source: models.SourceOther, ReferenceNumber: "REF-3", Customer: "O'Reilly", Carrier: "XPO", ShipDate: dateP(2025, time.March, 5), Shipped: true},
		// Shipped late.
		{ID: 4, Source: models.SourceTP, ReferenceNumber: "REF-4", Customer: "NAPA", Carrier: "Estes", ShipDate: dateP(2025, time.March, 5), Shipped: true, Delayed: true},
		// Fully routed, future.
		{ID: 5, Source: models.SourceTP, ReferenceNumber: "REF-5", Customer: "AutoZone", Carrier: "XPO", ShipDate: dateP(2025, time.March, 20)},
	}
}

func outboundIDs(p OutboundPage) []int64 {
	ids := make([]int64, 0, len(p.Items))
	for _, s := range p.Items {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestQueryOutbound_StatusFilters(t *testing.T) {
	items := outboundFixture()

	tests := []struct {
		name string
		f    Filters
		want []int64
	}{
		// Pending excludes the pending-routing record (ID 2) even though it
		// is unshipped: it belongs to the dedicated filter value.
		{"pending excludes pending routing", Filters{Status: StatusPending}, []int64{5, 1}},
		{"pending routing", Filters{Status: StatusPendingRouting}, []int64{2}},
		{"completed includes shipped late", Filters{Status: StatusCompleted}, []int64{4, 3}},
		{"customer exact", Filters{Customer: "AutoZone"}, []int64{5, 2, 1}},
		{"search order number", Filters{Search: "ord-1"}, []int64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := QueryOutbound(items, tt.f, 1, 50, testToday)
			if got := outboundIDs(p); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

// Every unshipped record lands in exactly one of pending / pending_routing.
func TestQueryOutbound_NoDoubleCounting(t *testing.T) {
	items := outboundFixture()
	pending := QueryOutbound(items, Filters{Status: StatusPending}, 1, 50, testToday)
	routing := QueryOutbound(items, Filters{Status: StatusPendingRouting}, 1, 50, testToday)
	completed := QueryOutbound(items, Filters{Status: StatusCompleted}, 1, 50, testToday)
	if pending.Total+routing.Total+completed.Total != len(items) {
		t.Errorf("partition sizes %d+%d+%d != %d",
			pending.Total, routing.Total, completed.Total, len(items))
	}
	seen := map[int64]int{}
	for _, p := range []OutboundPage{pending, routing, completed} {
		for _, s := range p.Items {
			seen[s.ID]++
		}
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("shipment %d matched %d status buckets", id, n)
		}
	}
}
