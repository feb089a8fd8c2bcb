package audit

import (
	"freight-audit/core/types"
	"freight-audit/internal/errors"
)

// CarrierProfile captures the carrier-specific variation the source
// systems hardcode per carrier: rounding policy, surcharge order,
// tolerance thresholds, rate-card currency. One shared pipeline takes
// the profile as configuration instead of copy-pasting logic per
// carrier.
type CarrierProfile struct {
	// Name identifies the carrier
	Name string `json:"name"`

	// Service is the product this profile audits
	Service types.ServiceType `json:"service"`

	// Direction is the side of the network the contract prices:
	// origin-side for export rate cards, destination-side for import
	Direction types.Direction `json:"direction"`

	// Currency is the rate-card currency
	Currency string `json:"currency"`

	// Rounding is the billable-weight policy
	Rounding RoundingPolicy `json:"rounding"`

	// Thresholds are the classification tolerances
	Thresholds Thresholds `json:"thresholds"`

	// SurchargeOrder lists surcharge codes in application order.
	// Codes absent from the snapshot are a configuration error.
	SurchargeOrder []string `json:"surcharge_order"`

	// ExchangeRates are the supplied conversion rates for invoices
	// billed in a different currency than the rate card
	ExchangeRates ExchangeRates `json:"exchange_rates,omitempty"`
}

// Validate checks the profile shape
func (p *CarrierProfile) Validate() error {
	if p.Name == "" {
		return errors.New(errors.TypeConfig, "carrier profile needs a name")
	}
	if !p.Service.IsValid() {
		return errors.Newf(errors.TypeConfig, "carrier profile %q has unknown service %q", p.Name, p.Service)
	}
	if p.Direction != types.DirectionOrigin && p.Direction != types.DirectionDestination {
		return errors.Newf(errors.TypeConfig, "carrier profile %q has unknown direction %q", p.Name, p.Direction)
	}
	if p.Currency == "" {
		return errors.Newf(errors.TypeConfig, "carrier profile %q needs a rate-card currency", p.Name)
	}
	if err := p.Rounding.Validate(); err != nil {
		return err
	}
	return p.Thresholds.Validate()
}
