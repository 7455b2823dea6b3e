// Package query turns a filter set and page parameters into a stable page of
// shipments. It works over an already-materialized snapshot, so repeated calls
// with the same data return identical pages.
package query

import (
	"sort"
	"strings"

	"github.com/zbergm/load-board-app/internal/models"
	"github.com/zbergm/load-board-app/internal/status"
)

// DefaultPageSize is used when the caller does not ask for a page size.
const DefaultPageSize = 50

// Status filter values accepted from the API. Anything else is treated as no
// constraint (fail-open; the choice is deliberate and tested, see DESIGN.md).
const (
	StatusPending        = "pending"
	StatusCompleted      = "completed"
	StatusPendingRouting = "pending_routing"
)

// Filters is one listing request's constraints. Zero values mean "no
// constraint". Search is a case-insensitive substring match over the
// free-text fields; Carrier and Customer are exact, case-sensitive matches
// against the stored text; StartDate/EndDate bound ShipDate inclusively.
type Filters struct {
	Search    string
	Source    string
	Carrier   string
	Customer  string
	Status    string
	StartDate *models.Date
	EndDate   *models.Date
}

// InboundPage is one page of inbound shipments plus pagination metadata.
type InboundPage struct {
	Items      []models.InboundShipment `json:"items"`
	Total      int                      `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	TotalPages int                      `json:"total_pages"`
}

// OutboundPage is one page of outbound shipments plus pagination metadata.
type OutboundPage struct {
	Items      []models.OutboundShipment `json:"items"`
	Total      int                       `json:"total"`
	Page       int                       `json:"page"`
	PageSize   int                       `json:"page_size"`
	TotalPages int                       `json:"total_pages"`
}

// QueryInbound filters, orders and pages an inbound collection.
//
// Ordering is canonical and deterministic: ship date descending, undated rows
// last, ties broken by ID descending, so the newest loads surface first. A
// page past the end returns empty items with correct metadata; the engine
// never clamps the requested page.
func QueryInbound(items []models.InboundShipment, f Filters, page, pageSize int, today models.Date) InboundPage {
	page, pageSize = normalizePage(page, pageSize)

	ordered := make([]models.InboundShipment, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return dateLess(ordered[j].ShipDate, ordered[j].ID, ordered[i].ShipDate, ordered[i].ID)
	})

	var matched []models.InboundShipment
	for _, s := range ordered {
		if matchInbound(s, f, today) {
			matched = append(matched, s)
		}
	}

	items, total, totalPages := sliceInbound(matched, page, pageSize)
	return InboundPage{Items: items, Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}
}

// QueryOutbound filters, orders and pages an outbound collection. Same
// contract as QueryInbound.
func QueryOutbound(items []models.OutboundShipment, f Filters, page, pageSize int, today models.Date) OutboundPage {
	page, pageSize = normalizePage(page, pageSize)

	ordered := make([]models.OutboundShipment, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return dateLess(ordered[j].ShipDate, ordered[j].ID, ordered[i].ShipDate, ordered[i].ID)
	})

	var matched []models.OutboundShipment
	for _, s := range ordered {
		if matchOutbound(s, f, today) {
			matched = append(matched, s)
		}
	}

	items2, total, totalPages := sliceOutbound(matched, page, pageSize)
	return OutboundPage{Items: items2, Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// dateLess orders (a, aID) before (b, bID) ascending with nil dates first,
// so the callers' inverted comparison yields: dates descending, nil last,
// ties by ID descending.
func dateLess(a *models.Date, aID int64, b *models.Date, bID int64) bool {
	switch {
	case a == nil && b == nil:
		return aID < bID
	case a == nil:
		return true
	case b == nil:
		return false
	case a.Equal(*b):
		return aID < bID
	default:
		return a.Before(*b)
	}
}

// totalPages is ceil(total/pageSize), but never 0: "page 1 of 1" is what the
// UI shows for an empty result, not "page 1 of 0".
func paginate(total, page, pageSize int) (start, end, totalPages int) {
	totalPages = (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	start = (page - 1) * pageSize
	if start > total {
		start = total
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end, totalPages
}

func sliceInbound(matched []models.InboundShipment, page, pageSize int) ([]models.InboundShipment, int, int) {
	total := len(matched)
	start, end, totalPages := paginate(total, page, pageSize)
	items := make([]models.InboundShipment, 0, end-start)
	items = append(items, matched[start:end]...)
	return items, total, totalPages
}

func sliceOutbound(matched []models.OutboundShipment, page, pageSize int) ([]models.OutboundShipment, int, int) {
	total := len(matched)
	start, end, totalPages := paginate(total, page, pageSize)
	items := make([]models.OutboundShipment, 0, end-start)
	items = append(items, matched[start:end]...)
	return items, total, totalPages
}

func matchInbound(s models.InboundShipment, f Filters, today models.Date) bool {
	if f.Source != "" && s.Source != f.Source {
		return false
	}
	if f.Carrier != "" && s.Carrier != f.Carrier {
		return false
	}
	if !matchDateRange(s.ShipDate, f.StartDate, f.EndDate) {
		return false
	}
	if f.Search != "" && !containsFold(f.Search, s.ItemNumber, s.PO, s.Carrier, s.BOLNumber, s.Notes) {
		return false
	}
	switch f.Status {
	case StatusPending:
		st := status.ClassifyInbound(s, today).Status
		return st == status.Pending || st == status.Overdue
	case StatusCompleted:
		return status.ClassifyInbound(s, today).Status == status.Received
	}
	return true
}

func matchOutbound(s models.OutboundShipment, f Filters, today models.Date) bool {
	if f.Source != "" && s.Source != f.Source {
		return false
	}
	if f.Carrier != "" && s.Carrier != f.Carrier {
		return false
	}
	if f.Customer != "" && s.Customer != f.Customer {
		return false
	}
	if !matchDateRange(s.ShipDate, f.StartDate, f.EndDate) {
		return false
	}
	if f.Search != "" && !containsFold(f.Search, s.ReferenceNumber, s.OrderNumber, s.Customer, s.Carrier, s.Notes) {
		return false
	}
	switch f.Status {
	case StatusPending:
		// Excludes Pending Routing: those belong to the dedicated filter
		// value, and counting them here would double-count them.
		st := status.ClassifyOutbound(s, today).Status
		return st == status.Pending || st == status.Overdue
	case StatusCompleted:
		st := status.ClassifyOutbound(s, today).Status
		return st == status.Shipped || st == status.ShippedLate
	case StatusPendingRouting:
		return status.ClassifyOutbound(s, today).Status == status.PendingRouting
	}
	return true
}

// matchDateRange applies inclusive bounds. A shipment with no ship date never
// matches a range filter.
func matchDateRange(d, start, end *models.Date) bool {
	if start == nil && end == nil {
		return true
	}
	if d == nil {
		return false
	}
	if start != nil && d.Before(*start) {
		return false
	}
	if end != nil && d.After(*end) {
		return false
	}
	return true
}

func containsFold(needle string, fields ...string) bool {
	needle = strings.ToLower(needle)
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
