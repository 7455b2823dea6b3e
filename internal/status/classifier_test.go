package status

import (
	"testing"
	"time"

	"github.com/zbergm/load-board-app/internal/models"
)

func dateP(y int, m time.Month, d int) *models.Date {
	dt := models.NewDate(y, m, d)
	return &dt
}

func TestClassifyInbound(t *testing.T) {
	today := models.NewDate(2025, time.January, 15)

	tests := []struct {
		name      string
		shipment  models.InboundShipment
		want      Label
		wantToday bool
	}{
		{
			name:     "received wins regardless of date",
			shipment: models.InboundShipment{Received: true, ShipDate: dateP(2025, time.January, 10)},
			want:     Received,
		},
		{
			name:     "received with no date",
			shipment: models.InboundShipment{Received: true},
			want:     Received,
		},
		{
			name:     "past date not received is overdue",
			shipment: models.InboundShipment{ShipDate: dateP(2025, time.January, 10)},
			want:     Overdue,
		},
		{
			name:      "due today is pending and flagged",
			shipment:  models.InboundShipment{ShipDate: dateP(2025, time.January, 15)},
			want:      Pending,
			wantToday: true,
		},
		{
			name:     "future date is pending",
			shipment: models.InboundShipment{ShipDate: dateP(2025, time.January, 20)},
			want:     Pending,
		},
		{
			name:     "no ship date is unscheduled, never overdue",
			shipment: models.InboundShipment{},
			want:     Pending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyInbound(tt.shipment, today)
			if got.Status != tt.want {
				t.Errorf("status = %q, want %q", got.Status, tt.want)
			}
			if got.IsToday != tt.wantToday {
				t.Errorf("IsToday = %v, want %v", got.IsToday, tt.wantToday)
			}
			if got.IsOverdue != (tt.want == Overdue) {
				t.Errorf("IsOverdue = %v for status %q", got.IsOverdue, got.Status)
			}
		})
	}
}

func TestClassifyInbound_ReceivedTodayNotFlagged(t *testing.T) {
	today := models.NewDate(2025, time.January, 15)
	s := models.InboundShipment{Received: true, ShipDate: dateP(2025, time.January, 15)}
	got := ClassifyInbound(s, today)
	if got.IsToday {
		t.Error("received shipment must not be flagged IsToday")
	}
}

func TestClassifyOutbound(t *testing.T) {
	today := models.NewDate(2025, time.January, 15)
	routed := models.OutboundShipment{
		ReferenceNumber: "REF-100",
		Carrier:         "ABC Freight",
	}

	tests := []struct {
		name      string
		mutate    func(s *models.OutboundShipment)
		want      Label
		wantToday bool
	}{
		{
			name:   "shipped and delayed",
			mutate: func(s *models.OutboundShipment) { s.Shipped = true; s.Delayed = true },
			want:   ShippedLate,
		},
		{
			name:   "shipped on time",
			mutate: func(s *models.OutboundShipment) { s.Shipped = true; s.ShipDate = dateP(2025, time.January, 10) },
			want:   Shipped,
		},
		{
			name:   "delayed without shipped has no effect",
			mutate: func(s *models.OutboundShipment) { s.Delayed = true; s.ShipDate = dateP(2025, time.January, 20) },
			want:   Pending,
		},
		{
			name:   "missing reference number",
			mutate: func(s *models.OutboundShipment) { s.ReferenceNumber = ""; s.ShipDate = dateP(2025, time.January, 10) },
			want:   PendingRouting,
		},
		{
			name:   "missing ship date",
			mutate: func(s *models.OutboundShipment) {},
			want:   PendingRouting,
		},
		{
			name:   "missing carrier beats overdue",
			mutate: func(s *models.OutboundShipment) { s.Carrier = ""; s.ShipDate = dateP(2025, time.January, 1) },
			want:   PendingRouting,
		},
		{
			name:   "fully routed past date is overdue",
			mutate: func(s *models.OutboundShipment) { s.ShipDate = dateP(2025, time.January, 10) },
			want:   Overdue,
		},
		{
			name:      "fully routed due today",
			mutate:    func(s *models.OutboundShipment) { s.ShipDate = dateP(2025, time.January, 15) },
			want:      Pending,
			wantToday: true,
		},
		{
			name:   "fully routed future date",
			mutate: func(s *models.OutboundShipment) { s.ShipDate = dateP(2025, time.January, 20) },
			want:   Pending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := routed
			tt.mutate(&s)
			got := ClassifyOutbound(s, today)
			if got.Status != tt.want {
				t.Errorf("status = %q, want %q", got.Status, tt.want)
			}
			if got.IsToday != tt.wantToday {
				t.Errorf("IsToday = %v, want %v", got.IsToday, tt.wantToday)
			}
		})
	}
}

// An unroutable shipment stays Pending Routing no matter what today is.
func TestClassifyOutbound_PendingRoutingIgnoresToday(t *testing.T) {
	s := models.OutboundShipment{
		ShipDate: dateP(2025, time.January, 10),
		Carrier:  "ABC",
		// reference number missing
	}
	for _, today := range []models.Date{
		models.NewDate(2024, time.June, 1),
		models.NewDate(2025, time.January, 10),
		models.NewDate(2026, time.December, 31),
	} {
		got := ClassifyOutbound(s, today)
		if got.Status != PendingRouting {
			t.Errorf("today=%s: status = %q, want %q", today, got.Status, PendingRouting)
		}
	}
}
