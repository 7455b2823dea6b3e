package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalid marks validation failures so transports can map them to a 400.
var ErrInvalid = errors.New("invalid shipment")

// Shipment sources. TP loads come in through the third-party portal and carry
// a receipt number; everything else is keyed manually.
const (
	SourceTP    = "TP"
	SourceOther = "OTHER"
)

// ValidSource reports whether s is one of the known shipment sources.
func ValidSource(s string) bool {
	return s == SourceTP || s == SourceOther
}

// InboundShipment is a single incoming freight record. Optional text fields use
// "" for absent; optional dates and numbers use nil/invalid. The derived status
// is intentionally not a field here: it is a function of the record and the
// current date, computed on every read.
type InboundShipment struct {
	ID              int64               `json:"id"`
	Source          string              `json:"source"`
	ItemNumber      string              `json:"item_number"`
	Cases           *int64              `json:"cases"`
	PO              string              `json:"po"`
	Carrier         string              `json:"carrier"`
	BOLNumber       string              `json:"bol_number"`
	TPReceiptNumber string              `json:"tp_receipt_number"`
	ShipDate        *Date               `json:"ship_date"`
	Received        bool                `json:"received"`
	Pallets         decimal.NullDecimal `json:"pallets"`
	Notes           string              `json:"notes"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	SyncedAt        *time.Time          `json:"synced_at"`
}

// OutboundShipment is a single outgoing freight record. Delayed only means
// anything once Shipped is set ("shipped, but late"). ActualDate and
// PickupTime are stamped by the mark-shipped transition.
type OutboundShipment struct {
	ID              int64               `json:"id"`
	Source          string              `json:"source"`
	ReferenceNumber string              `json:"reference_number"`
	OrderNumber     string              `json:"order_number"`
	Customer        string              `json:"customer"`
	ShipDate        *Date               `json:"ship_date"`
	Carrier         string              `json:"carrier"`
	Shipped         bool                `json:"shipped"`
	Delayed         bool                `json:"delayed"`
	ActualDate      *Date               `json:"actual_date"`
	Pallets         decimal.NullDecimal `json:"pallets"`
	Pro             string              `json:"pro"`
	Seal            string              `json:"seal"`
	Notes           string              `json:"notes"`
	PickupTime      string              `json:"pickup_time"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	SyncedAt        *time.Time          `json:"synced_at"`
}

// Validate checks the fields a caller can get wrong on create/update.
func (s InboundShipment) Validate() error {
	if !ValidSource(s.Source) {
		return fmt.Errorf("%w: source %q must be %s or %s", ErrInvalid, s.Source, SourceTP, SourceOther)
	}
	if s.Cases != nil && *s.Cases < 0 {
		return fmt.Errorf("%w: cases must not be negative", ErrInvalid)
	}
	if s.Pallets.Valid && s.Pallets.Decimal.IsNegative() {
		return fmt.Errorf("%w: pallets must not be negative", ErrInvalid)
	}
	return nil
}

// Validate checks the fields a caller can get wrong on create/update.
func (s OutboundShipment) Validate() error {
	if !ValidSource(s.Source) {
		return fmt.Errorf("%w: source %q must be %s or %s", ErrInvalid, s.Source, SourceTP, SourceOther)
	}
	if s.Pallets.Valid && s.Pallets.Decimal.IsNegative() {
		return fmt.Errorf("%w: pallets must not be negative", ErrInvalid)
	}
	return nil
}
