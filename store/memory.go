package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zbergm/load-board-app/internal/models"
)

// MemoryStore is an in-memory Store used by tests and by DB-less runs. All
// methods are safe for concurrent use; every read returns a copied snapshot.
type MemoryStore struct {
	mu sync.RWMutex

	inbound   map[int64]models.InboundShipment
	outbound  map[int64]models.OutboundShipment
	carriers  map[int64]models.Carrier
	customers map[int64]models.Customer
	products  map[int64]models.Product
	syncLog   []models.SyncLogEntry

	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		inbound:   make(map[int64]models.InboundShipment),
		outbound:  make(map[int64]models.OutboundShipment),
		carriers:  make(map[int64]models.Carrier),
		customers: make(map[int64]models.Customer),
		products:  make(map[int64]models.Product),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) next() int64 {
	s.nextID++
	return s.nextID
}

// ctxErr lets callers cancel before we touch the maps, mirroring what a real
// database driver would do with the context.
func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// --- inbound ---

func (s *MemoryStore) ListInbound(ctx context.Context) ([]models.InboundShipment, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.InboundShipment, 0, len(s.inbound))
	for _, v := range s.inbound {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetInbound(ctx context.Context, id int64) (models.InboundShipment, error) {
	if err := ctxErr(ctx); err != nil {
		return models.InboundShipment{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.inbound[id]
	if !ok {
		return models.InboundShipment{}, ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) CreateInbound(ctx context.Context, sh models.InboundShipment) (models.InboundShipment, error) {
	if err := ctxErr(ctx); err != nil {
		return models.InboundShipment{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sh.ID = s.next()
	now := time.Now()
	sh.CreatedAt = now
	sh.UpdatedAt = now
	s.inbound[sh.ID] = sh
	return sh, nil
}

func (s *MemoryStore) UpdateInbound(ctx context.Context, sh models.InboundShipment) (models.InboundShipment, error) {
	if err := ctxErr(ctx); err != nil {
		return models.InboundShipment{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.inbound[sh.ID]
	if !ok {
		return models.InboundShipment{}, ErrNotFound
	}
	sh.CreatedAt = existing.CreatedAt
	sh.UpdatedAt = time.Now()
	s.inbound[sh.ID] = sh
	return sh, nil
}

func (s *MemoryStore) DeleteInbound(ctx context.Context, id int64) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inbound[id]; !ok {
		return ErrNotFound
	}
	delete(s.inbound, id)
	return nil
}

func (s *MemoryStore) ReplaceAllInbound(ctx context.Context, shipments []models.InboundShipment) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inbound = make(map[int64]models.InboundShipment, len(shipments))
	now := time.Now()
	for _, sh := range shipments {
		sh.ID = s.next()
		sh.CreatedAt = now
		sh.UpdatedAt = now
		syncedAt := now
		sh.SyncedAt = &syncedAt
		s.inbound[sh.ID] = sh
	}
	return nil
}

// --- outbound ---

func (s *MemoryStore) ListOutbound(ctx context.Context) ([]models.OutboundShipment, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.OutboundShipment, 0, len(s.outbound))
	for _, v := range s.outbound {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetOutbound(ctx context.Context, id int64) (models.OutboundShipment, error) {
	if err := ctxErr(ctx); err != nil {
		return models.OutboundShipment{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.outbound[id]
	if !ok {
		return models.OutboundShipment{}, ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) CreateOutbound(ctx context.Context, sh models.OutboundShipment) (models.OutboundShipment, error) {
	if err := ctxErr(ctx); err != nil {
		return models.OutboundShipment{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sh.ID = s.next()
	now := time.Now()
	sh.CreatedAt = now
	sh.UpdatedAt = now
	s.outbound[sh.ID] = sh
	return sh, nil
}

func (s *MemoryStore) UpdateOutbound(ctx context.Context, sh models.OutboundShipment) (models.OutboundShipment, error) {
	if err := ctxErr(ctx); err != nil {
		return models.OutboundShipment{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.outbound[sh.ID]
	if !ok {
		return models.OutboundShipment{}, ErrNotFound
	}
	sh.CreatedAt = existing.CreatedAt
	sh.UpdatedAt = time.Now()
	s.outbound[sh.ID] = sh
	return sh, nil
}

func (s *MemoryStore) DeleteOutbound(ctx context.Context, id int64) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.outbound[id]; !ok {
		return ErrNotFound
	}
	delete(s.outbound, id)
	return nil
}

func (s *MemoryStore) ReplaceAllOutbound(ctx context.Context, shipments []models.OutboundShipment) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbound = make(map[int64]models.OutboundShipment, len(shipments))
	now := time.Now()
	for _, sh := range shipments {
		sh.ID = s.next()
		sh.CreatedAt = now
		sh.UpdatedAt = now
		syncedAt := now
		sh.SyncedAt = &syncedAt
		s.outbound[sh.ID] = sh
	}
	return nil
}

// --- reference data ---

func (s *MemoryStore) ListCarriers(ctx context.Context) ([]models.Carrier, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Carrier, 0, len(s.carriers))
	for _, v := range s.carriers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) CreateCarrier(ctx context.Context, name string) (models.Carrier, error) {
	if err := ctxErr(ctx); err != nil {
		return models.Carrier{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.carriers {
		if strings.EqualFold(c.Name, name) {
			return models.Carrier{}, ErrDuplicate
		}
	}
	c := models.Carrier{ID: s.next(), Name: name}
	s.carriers[c.ID] = c
	return c, nil
}

func (s *MemoryStore) DeleteCarrier(ctx context.Context, id int64) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carriers[id]; !ok {
		return ErrNotFound
	}
	delete(s.carriers, id)
	return nil
}

func (s *MemoryStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Customer, 0, len(s.customers))
	for _, v := range s.customers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) CreateCustomer(ctx context.Context, name string) (models.Customer, error) {
	if err := ctxErr(ctx); err != nil {
		return models.Customer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if strings.EqualFold(c.Name, name) {
			return models.Customer{}, ErrDuplicate
		}
	}
	c := models.Customer{ID: s.next(), Name: name}
	s.customers[c.ID] = c
	return c, nil
}

func (s *MemoryStore) DeleteCustomer(ctx context.Context, id int64) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[id]; !ok {
		return ErrNotFound
	}
	delete(s.customers, id)
	return nil
}

func (s *MemoryStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0, len(s.products))
	for _, v := range s.products {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemNumber < out[j].ItemNumber })
	return out, nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, itemNumber string) (models.Product, error) {
	if err := ctxErr(ctx); err != nil {
		return models.Product{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ItemNumber == itemNumber {
			return p, nil
		}
	}
	return models.Product{}, ErrNotFound
}

func (s *MemoryStore) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if err := ctxErr(ctx); err != nil {
		return models.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.products {
		if existing.ItemNumber == p.ItemNumber {
			return models.Product{}, ErrDuplicate
		}
	}
	p.ID = s.next()
	s.products[p.ID] = p
	return p, nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id int64) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// --- sync log ---

func (s *MemoryStore) AppendSyncLog(ctx context.Context, e models.SyncLogEntry) (models.SyncLogEntry, error) {
	if err := ctxErr(ctx); err != nil {
		return models.SyncLogEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.next()
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	s.syncLog = append(s.syncLog, e)
	return e, nil
}

func (s *MemoryStore) ListSyncLog(ctx context.Context, limit int) ([]models.SyncLogEntry, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SyncLogEntry, 0, len(s.syncLog))
	// Newest first.
	for i := len(s.syncLog) - 1; i >= 0; i-- {
		out = append(out, s.syncLog[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
