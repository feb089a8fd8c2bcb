// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

import (
	"github.com/shopspring/decimal"
)

// ServiceType identifies the carrier product a shipment moved under
type ServiceType string

const (
	ServiceExpress      ServiceType = "express"
	ServiceAirFreight   ServiceType = "air_freight"
	ServiceOceanFreight ServiceType = "ocean_freight"
	ServiceUnknown      ServiceType = "unknown"
)

// String returns the string representation of the service type
func (s ServiceType) String() string {
	return string(s)
}

// IsValid checks if the service type is known
func (s ServiceType) IsValid() bool {
	switch s {
	case ServiceExpress, ServiceAirFreight, ServiceOceanFreight:
		return true
	default:
		return false
	}
}

// Direction identifies which end of a shipment a zone table or
// surcharge rule is scoped to
type Direction string

const (
	DirectionOrigin      Direction = "origin"
	DirectionDestination Direction = "destination"
)

// String returns the string representation of the direction
func (d Direction) String() string {
	return string(d)
}

// Shipment is a single invoice line to audit.
// It is read-only input to the pipeline and is never mutated.
type Shipment struct {
	// AWB is the air waybill / tracking reference
	AWB string `json:"awb"`

	// InvoiceID groups line items billed on the same invoice
	InvoiceID string `json:"invoice_id"`

	// Origin is the normalized origin country or city code
	Origin string `json:"origin"`

	// OriginAddress is the free-text origin, used as a resolution
	// fallback when Origin has no mapping
	OriginAddress string `json:"origin_address,omitempty"`

	// Destination is the normalized destination country or city code
	Destination string `json:"destination"`

	// DestinationAddress is the free-text destination fallback
	DestinationAddress string `json:"destination_address,omitempty"`

	// ActualWeightKg is the scale weight before billable rounding
	ActualWeightKg decimal.Decimal `json:"actual_weight_kg"`

	// Service is the carrier product
	Service ServiceType `json:"service"`

	// InvoicedAmount is what the carrier billed for this line
	InvoicedAmount decimal.Decimal `json:"invoiced_amount"`

	// InvoiceCurrency is the currency of InvoicedAmount
	InvoiceCurrency string `json:"invoice_currency"`
}
