package store

import (
	"context"
	"errors"

	"github.com/zbergm/load-board-app/internal/models"
)

// ErrNotFound is returned when a record does not exist. Handlers map it to a
// 404; everything else is a 500.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique name or item number already exists.
// Handlers map it to a 400.
var ErrDuplicate = errors.New("record already exists")

// ShipmentStore defines the storage operations for shipment records. List
// methods return a full snapshot in insertion order (ID ascending); the query
// engine owns the display ordering, so the store just has to be consistent.
type ShipmentStore interface {
	ListInbound(ctx context.Context) ([]models.InboundShipment, error)
	GetInbound(ctx context.Context, id int64) (models.InboundShipment, error)
	CreateInbound(ctx context.Context, s models.InboundShipment) (models.InboundShipment, error)
	UpdateInbound(ctx context.Context, s models.InboundShipment) (models.InboundShipment, error)
	DeleteInbound(ctx context.Context, id int64) error
	// ReplaceAllInbound swaps the whole collection in one shot; the Excel
	// import is the only caller.
	ReplaceAllInbound(ctx context.Context, shipments []models.InboundShipment) error

	ListOutbound(ctx context.Context) ([]models.OutboundShipment, error)
	GetOutbound(ctx context.Context, id int64) (models.OutboundShipment, error)
	CreateOutbound(ctx context.Context, s models.OutboundShipment) (models.OutboundShipment, error)
	UpdateOutbound(ctx context.Context, s models.OutboundShipment) (models.OutboundShipment, error)
	DeleteOutbound(ctx context.Context, id int64) error
	ReplaceAllOutbound(ctx context.Context, shipments []models.OutboundShipment) error
}

// ReferenceStore holds the carrier/customer/product lookup tables. Plain
// key-value data: no derived logic lives here.
type ReferenceStore interface {
	ListCarriers(ctx context.Context) ([]models.Carrier, error)
	CreateCarrier(ctx context.Context, name string) (models.Carrier, error)
	DeleteCarrier(ctx context.Context, id int64) error

	ListCustomers(ctx context.Context) ([]models.Customer, error)
	CreateCustomer(ctx context.Context, name string) (models.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error

	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, itemNumber string) (models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// SyncLogStore records Excel sync runs.
type SyncLogStore interface {
	AppendSyncLog(ctx context.Context, e models.SyncLogEntry) (models.SyncLogEntry, error)
	ListSyncLog(ctx context.Context, limit int) ([]models.SyncLogEntry, error)
}

// Store is the full storage surface the service needs.
type Store interface {
	ShipmentStore
	ReferenceStore
	SyncLogStore
	Close() error
}
