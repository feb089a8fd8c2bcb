// Package ratecard provides immutable rate-card snapshots with content
// hashing. A snapshot is built once by the (external) rate-card loader,
// validated at load time, and treated as read-only for the lifetime of
// a batch run.
package ratecard

import (
	"github.com/shopspring/decimal"

	"freight-audit/core/types"
)

// ZoneMapping maps a location code to a numbered zone for one side of
// the shipment under one service
type ZoneMapping struct {
	// LocationCode is a normalized country or city code
	LocationCode string `json:"location_code"`

	// Direction scopes the mapping to origin-side or destination-side
	// lookups
	Direction types.Direction `json:"direction"`

	// Service is the carrier product the mapping applies to
	Service types.ServiceType `json:"service"`

	// Zone is the numbered zone
	Zone int `json:"zone"`
}

// ZoneMatrixEntry maps an (origin zone, destination zone) pair to a
// named rate zone. The matrix may be asymmetric.
type ZoneMatrixEntry struct {
	OriginZone      int               `json:"origin_zone"`
	DestinationZone int               `json:"destination_zone"`
	Service         types.ServiceType `json:"service"`
	RateZone        string            `json:"rate_zone"`
}

// RateBand maps a weight interval to a price for a rate zone.
// Non-extension rows carry a flat price for the whole interval.
// Extension rows carry a per-increment rate for weights beyond the
// base table's ceiling.
type RateBand struct {
	RateZone     string          `json:"rate_zone"`
	WeightFromKg decimal.Decimal `json:"weight_from_kg"`
	WeightToKg   decimal.Decimal `json:"weight_to_kg"`

	// Price is a flat price for base rows, a per-increment rate for
	// extension rows
	Price decimal.Decimal `json:"price"`

	// IsOverweightExtension marks per-increment extension rows
	IsOverweightExtension bool `json:"is_overweight_extension"`

	// IncrementKg is the billing increment for extension rows
	IncrementKg decimal.Decimal `json:"increment_kg,omitempty"`
}

// Contains reports whether a billable weight falls inside the band,
// endpoints inclusive
func (b RateBand) Contains(weightKg decimal.Decimal) bool {
	return weightKg.GreaterThanOrEqual(b.WeightFromKg) && weightKg.LessThanOrEqual(b.WeightToKg)
}

// SurchargeKind is the computation model of a surcharge rule
type SurchargeKind string

const (
	// SurchargeFlat adds a fixed amount
	SurchargeFlat SurchargeKind = "flat"

	// SurchargePercentage adds a percentage of a base amount
	SurchargePercentage SurchargeKind = "percentage"

	// SurchargePerKg adds a rate multiplied by the billable weight
	SurchargePerKg SurchargeKind = "per_kg"
)

// IsValid checks if the kind is known
func (k SurchargeKind) IsValid() bool {
	switch k {
	case SurchargeFlat, SurchargePercentage, SurchargePerKg:
		return true
	default:
		return false
	}
}

// PercentBase selects what a percentage rule is computed against
type PercentBase string

const (
	// PercentOfRunning computes against the running subtotal, so later
	// percentage rules compound on earlier surcharges
	PercentOfRunning PercentBase = "running"

	// PercentOfBase computes against the base charge only
	PercentOfBase PercentBase = "base"
)

// SurchargeRule is one surcharge in the carrier's fixed application
// order. Rules are an ordered list, not a set.
type SurchargeRule struct {
	// Code is the carrier's surcharge code (FSC, VAT, RAS, ...)
	Code string `json:"code"`

	Kind SurchargeKind `json:"kind"`

	// Value is the flat amount, the percentage, or the per-kg rate
	// depending on Kind
	Value decimal.Decimal `json:"value"`

	// Minimum and Maximum clamp the raw contribution before it is
	// added to the subtotal. Nil means unclamped.
	Minimum *decimal.Decimal `json:"minimum,omitempty"`
	Maximum *decimal.Decimal `json:"maximum,omitempty"`

	// PercentBase applies to percentage rules; defaults to running
	PercentBase PercentBase `json:"percent_base,omitempty"`

	// Services restricts the rule to specific products; empty = all
	Services []types.ServiceType `json:"services,omitempty"`

	// Directions restricts the rule to origin-side or
	// destination-side contracts; empty = all
	Directions []types.Direction `json:"directions,omitempty"`
}

// Matches reports whether the rule applies to a service and audit
// direction
func (r SurchargeRule) Matches(service types.ServiceType, direction types.Direction) bool {
	if len(r.Services) > 0 {
		found := false
		for _, s := range r.Services {
			if s == service {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(r.Directions) > 0 {
		found := false
		for _, d := range r.Directions {
			if d == direction {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
