// Package service holds the business logic for the load board: shipment CRUD
// with lifecycle events, derived-status listings, dashboard aggregation and
// reference data. Handlers stay thin; everything that needs "today" goes
// through the injected clock.
package service

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/zbergm/load-board-app/internal/dashboard"
	"github.com/zbergm/load-board-app/internal/events"
	"github.com/zbergm/load-board-app/internal/models"
	"github.com/zbergm/load-board-app/internal/query"
	"github.com/zbergm/load-board-app/internal/status"
	"github.com/zbergm/load-board-app/store"
)

// InboundItem is an inbound record with its derived status attached. The
// status is recomputed on every read against the current date, never stored.
type InboundItem struct {
	models.InboundShipment
	Status    status.Label `json:"status"`
	IsToday   bool         `json:"is_today"`
	IsOverdue bool         `json:"is_overdue"`
}

// OutboundItem is an outbound record with its derived status attached.
type OutboundItem struct {
	models.OutboundShipment
	Status    status.Label `json:"status"`
	IsToday   bool         `json:"is_today"`
	IsOverdue bool         `json:"is_overdue"`
}

// InboundList is one page of decorated inbound records.
type InboundList struct {
	Items      []InboundItem `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// OutboundList is one page of decorated outbound records.
type OutboundList struct {
	Items      []OutboundItem `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// LoadBoardService wires the store, the event publisher and the clock
// together.
type LoadBoardService struct {
	store    store.Store
	producer events.Publisher
	// rollupCustomer is the customer the monthly pallet rollup reports on.
	rollupCustomer string
	// clock allows tests to pin "today".
	clock func() time.Time
}

func NewLoadBoardService(st store.Store, producer events.Publisher, rollupCustomer string) *LoadBoardService {
	return &LoadBoardService{
		store:          st,
		producer:       producer,
		rollupCustomer: rollupCustomer,
		clock:          time.Now,
	}
}

func (s *LoadBoardService) today() models.Date {
	return models.DateOf(s.clock())
}

// publish sends a lifecycle event. Failures are logged and swallowed: a dead
// broker must never fail a warehouse operation.
func (s *LoadBoardService) publish(ctx context.Context, key, event string, payload interface{}) {
	if err := s.producer.Publish(ctx, key, event, payload); err != nil {
		log.Printf("failed to publish %s: %v", event, err)
	}
}

func decorateInbound(sh models.InboundShipment, today models.Date) InboundItem {
	res := status.ClassifyInbound(sh, today)
	return InboundItem{InboundShipment: sh, Status: res.Status, IsToday: res.IsToday, IsOverdue: res.IsOverdue}
}

func decorateOutbound(sh models.OutboundShipment, today models.Date) OutboundItem {
	res := status.ClassifyOutbound(sh, today)
	return OutboundItem{OutboundShipment: sh, Status: res.Status, IsToday: res.IsToday, IsOverdue: res.IsOverdue}
}

// --- inbound ---

func (s *LoadBoardService) ListInbound(ctx context.Context, f query.Filters, page, pageSize int) (InboundList, error) {
	all, err := s.store.ListInbound(ctx)
	if err != nil {
		return InboundList{}, err
	}
	today := s.today()
	p := query.QueryInbound(all, f, page, pageSize, today)

	items := make([]InboundItem, 0, len(p.Items))
	for _, sh := range p.Items {
		items = append(items, decorateInbound(sh, today))
	}
	return InboundList{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}, nil
}

func (s *LoadBoardService) GetInbound(ctx context.Context, id int64) (InboundItem, error) {
	sh, err := s.store.GetInbound(ctx, id)
	if err != nil {
		return InboundItem{}, err
	}
	return decorateInbound(sh, s.today()), nil
}

func (s *LoadBoardService) CreateInbound(ctx context.Context, sh models.InboundShipment) (InboundItem, error) {
	if err := sh.Validate(); err != nil {
		return InboundItem{}, err
	}
	created, err := s.store.CreateInbound(ctx, sh)
	if err != nil {
		return InboundItem{}, err
	}
	s.publish(ctx, itemKey(created.ID), events.InboundCreated, created)
	return decorateInbound(created, s.today()), nil
}

func (s *LoadBoardService) UpdateInbound(ctx context.Context, sh models.InboundShipment) (InboundItem, error) {
	if err := sh.Validate(); err != nil {
		return InboundItem{}, err
	}
	updated, err := s.store.UpdateInbound(ctx, sh)
	if err != nil {
		return InboundItem{}, err
	}
	s.publish(ctx, itemKey(updated.ID), events.InboundUpdated, updated)
	return decorateInbound(updated, s.today()), nil
}

func (s *LoadBoardService) DeleteInbound(ctx context.Context, id int64) error {
	if err := s.store.DeleteInbound(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, itemKey(id), events.InboundDeleted, map[string]int64{"id": id})
	return nil
}

// MarkInboundReceived flips the record to received. Idempotent: marking an
// already-received load is a no-op that returns the current record.
func (s *LoadBoardService) MarkInboundReceived(ctx context.Context, id int64) (InboundItem, error) {
	sh, err := s.store.GetInbound(ctx, id)
	if err != nil {
		return InboundItem{}, err
	}
	if sh.Received {
		return decorateInbound(sh, s.today()), nil
	}
	sh.Received = true
	updated, err := s.store.UpdateInbound(ctx, sh)
	if err != nil {
		return InboundItem{}, err
	}
	s.publish(ctx, itemKey(id), events.InboundReceived, updated)
	return decorateInbound(updated, s.today()), nil
}

// --- outbound ---

func (s *LoadBoardService) ListOutbound(ctx context.Context, f query.Filters, page, pageSize int) (OutboundList, error) {
	all, err := s.store.ListOutbound(ctx)
	if err != nil {
		return OutboundList{}, err
	}
	today := s.today()
	p := query.QueryOutbound(all, f, page, pageSize, today)

	items := make([]OutboundItem, 0, len(p.Items))
	for _, sh := range p.Items {
		items = append(items, decorateOutbound(sh, today))
	}
	return OutboundList{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}, nil
}

func (s *LoadBoardService) GetOutbound(ctx context.Context, id int64) (OutboundItem, error) {
	sh, err := s.store.GetOutbound(ctx, id)
	if err != nil {
		return OutboundItem{}, err
	}
	return decorateOutbound(sh, s.today()), nil
}

func (s *LoadBoardService) CreateOutbound(ctx context.Context, sh models.OutboundShipment) (OutboundItem, error) {
	if err := sh.Validate(); err != nil {
		return OutboundItem{}, err
	}
	created, err := s.store.CreateOutbound(ctx, sh)
	if err != nil {
		return OutboundItem{}, err
	}
	s.publish(ctx, itemKey(created.ID), events.OutboundCreated, created)
	return decorateOutbound(created, s.today()), nil
}

func (s *LoadBoardService) UpdateOutbound(ctx context.Context, sh models.OutboundShipment) (OutboundItem, error) {
	if err := sh.Validate(); err != nil {
		return OutboundItem{}, err
	}
	updated, err := s.store.UpdateOutbound(ctx, sh)
	if err != nil {
		return OutboundItem{}, err
	}
	s.publish(ctx, itemKey(updated.ID), events.OutboundUpdated, updated)
	return decorateOutbound(updated, s.today()), nil
}

func (s *LoadBoardService) DeleteOutbound(ctx context.Context, id int64) error {
	if err := s.store.DeleteOutbound(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, itemKey(id), events.OutboundDeleted, map[string]int64{"id": id})
	return nil
}

// MarkOutboundShipped flips the record to shipped and stamps when it actually
// left: ActualDate gets today's date and PickupTime the wall-clock time, both
// only if not already set. Delayed is left alone; "shipped late" is derived
// from the combination on read. Idempotent.
func (s *LoadBoardService) MarkOutboundShipped(ctx context.Context, id int64) (OutboundItem, error) {
	sh, err := s.store.GetOutbound(ctx, id)
	if err != nil {
		return OutboundItem{}, err
	}
	if sh.Shipped {
		return decorateOutbound(sh, s.today()), nil
	}
	sh.Shipped = true
	if sh.ActualDate == nil {
		d := s.today()
		sh.ActualDate = &d
	}
	if sh.PickupTime == "" {
		sh.PickupTime = s.clock().Format("15:04")
	}
	updated, err := s.store.UpdateOutbound(ctx, sh)
	if err != nil {
		return OutboundItem{}, err
	}
	s.publish(ctx, itemKey(id), events.OutboundShipped, updated)
	return decorateOutbound(updated, s.today()), nil
}

// --- dashboard ---

func (s *LoadBoardService) loadAll(ctx context.Context) ([]models.InboundShipment, []models.OutboundShipment, error) {
	inbound, err := s.store.ListInbound(ctx)
	if err != nil {
		return nil, nil, err
	}
	outbound, err := s.store.ListOutbound(ctx)
	if err != nil {
		return nil, nil, err
	}
	return inbound, outbound, nil
}

func (s *LoadBoardService) DashboardStats(ctx context.Context) (dashboard.Stats, error) {
	inbound, outbound, err := s.loadAll(ctx)
	if err != nil {
		return dashboard.Stats{}, err
	}
	return dashboard.ComputeStats(inbound, outbound, s.today()), nil
}

func (s *LoadBoardService) WeeklyVolume(ctx context.Context) ([]dashboard.VolumeDay, error) {
	inbound, outbound, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return dashboard.WeeklyVolume(inbound, outbound, s.today()), nil
}

// CarrierBreakdown returns the top carriers by shipment count. limit <= 0
// means all of them.
func (s *LoadBoardService) CarrierBreakdown(ctx context.Context, limit int) ([]dashboard.BreakdownEntry, error) {
	inbound, outbound, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return capEntries(dashboard.BreakdownByCarrier(inbound, outbound), limit), nil
}

// CustomerBreakdown returns the top customers by outbound shipment count.
func (s *LoadBoardService) CustomerBreakdown(ctx context.Context, limit int) ([]dashboard.BreakdownEntry, error) {
	outbound, err := s.store.ListOutbound(ctx)
	if err != nil {
		return nil, err
	}
	return capEntries(dashboard.BreakdownByCustomer(outbound), limit), nil
}

func (s *LoadBoardService) TodayShipments(ctx context.Context) (dashboard.TodayReport, error) {
	inbound, outbound, err := s.loadAll(ctx)
	if err != nil {
		return dashboard.TodayReport{}, err
	}
	return dashboard.TodayShipments(inbound, outbound, s.today()), nil
}

func (s *LoadBoardService) OverdueShipments(ctx context.Context) (dashboard.OverdueReport, error) {
	inbound, outbound, err := s.loadAll(ctx)
	if err != nil {
		return dashboard.OverdueReport{}, err
	}
	return dashboard.OverdueShipments(inbound, outbound, s.today()), nil
}

// PalletRollup reports the configured customer's monthly pallet volume.
// year <= 0 means the current year.
func (s *LoadBoardService) PalletRollup(ctx context.Context, year int) (dashboard.PalletRollup, error) {
	outbound, err := s.store.ListOutbound(ctx)
	if err != nil {
		return dashboard.PalletRollup{}, err
	}
	today := s.today()
	if year <= 0 {
		year = today.Year()
	}
	return dashboard.MonthlyPalletRollup(outbound, s.rollupCustomer, year, today), nil
}

// --- reference data ---

func (s *LoadBoardService) ListCarriers(ctx context.Context) ([]models.Carrier, error) {
	return s.store.ListCarriers(ctx)
}

func (s *LoadBoardService) AddCarrier(ctx context.Context, name string) (models.Carrier, error) {
	return s.store.CreateCarrier(ctx, name)
}

func (s *LoadBoardService) RemoveCarrier(ctx context.Context, id int64) error {
	return s.store.DeleteCarrier(ctx, id)
}

func (s *LoadBoardService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.store.ListCustomers(ctx)
}

func (s *LoadBoardService) AddCustomer(ctx context.Context, name string) (models.Customer, error) {
	return s.store.CreateCustomer(ctx, name)
}

func (s *LoadBoardService) RemoveCustomer(ctx context.Context, id int64) error {
	return s.store.DeleteCustomer(ctx, id)
}

func (s *LoadBoardService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}

func (s *LoadBoardService) GetProduct(ctx context.Context, itemNumber string) (models.Product, error) {
	return s.store.GetProduct(ctx, itemNumber)
}

func (s *LoadBoardService) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	return s.store.CreateProduct(ctx, p)
}

func (s *LoadBoardService) RemoveProduct(ctx context.Context, id int64) error {
	return s.store.DeleteProduct(ctx, id)
}

func capEntries(entries []dashboard.BreakdownEntry, limit int) []dashboard.BreakdownEntry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

func itemKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
