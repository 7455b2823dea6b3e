// Package status derives the display status of a shipment from its stored
// fields and the current date. Statuses are never persisted: the same record
// can be Pending today and Overdue tomorrow, so every read re-derives them
// against the caller's "today".
package status

import "github.com/zbergm/load-board-app/internal/models"

// Label is a derived, display-oriented shipment status.
type Label string

const (
	Pending        Label = "Pending"
	Overdue        Label = "Overdue"
	Received       Label = "Received"
	Shipped        Label = "Shipped"
	ShippedLate    Label = "Shipped/Late"
	PendingRouting Label = "Pending Routing"
)

// Result carries the status label plus the two row-highlight flags the UI
// uses. IsToday is independent of the label: a Pending shipment due today is
// both Pending and IsToday.
type Result struct {
	Status    Label `json:"status"`
	IsToday   bool  `json:"is_today"`
	IsOverdue bool  `json:"is_overdue"`
}

// ClassifyInbound derives the status of an inbound shipment.
//
// Rules, first match wins:
//  1. received            -> Received
//  2. ship date < today   -> Overdue
//  3. otherwise           -> Pending
//
// A shipment with no ship date is a valid unscheduled record; it can never be
// Overdue or IsToday.
func ClassifyInbound(s models.InboundShipment, today models.Date) Result {
	var r Result
	switch {
	case s.Received:
		r.Status = Received
	case s.ShipDate != nil && s.ShipDate.Before(today):
		r.Status = Overdue
		r.IsOverdue = true
	default:
		r.Status = Pending
	}
	r.IsToday = !s.Received && s.ShipDate != nil && s.ShipDate.Equal(today)
	return r
}

// ClassifyOutbound derives the status of an outbound shipment.
//
// Rules, first match wins:
//  1. shipped && delayed                          -> Shipped/Late
//  2. shipped                                     -> Shipped
//  3. reference, ship date or carrier missing     -> Pending Routing
//  4. ship date < today                           -> Overdue
//  5. otherwise                                   -> Pending
//
// Delayed is only meaningful once Shipped is set; an unshipped record with
// Delayed=true classifies exactly like one without it. Missing routing info
// wins over Overdue: a load we cannot route yet is a routing problem, not a
// late one, even when its ship date has passed.
func ClassifyOutbound(s models.OutboundShipment, today models.Date) Result {
	var r Result
	switch {
	case s.Shipped && s.Delayed:
		r.Status = ShippedLate
	case s.Shipped:
		r.Status = Shipped
	case s.ReferenceNumber == "" || s.ShipDate == nil || s.Carrier == "":
		r.Status = PendingRouting
	case s.ShipDate.Before(today):
		r.Status = Overdue
		r.IsOverdue = true
	default:
		r.Status = Pending
	}
	r.IsToday = !s.Shipped && s.ShipDate != nil && s.ShipDate.Equal(today)
	return r
}
