package config

import (
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/shopspring/decimal"

	"freight-audit/core/audit"
	"freight-audit/core/types"
	"freight-audit/internal/errors"
)

// profileFile is the HCL shape of a carrier profile file:
//
//	carrier "dhl-express" {
//	  service   = "express"
//	  direction = "destination"
//	  currency  = "EUR"
//
//	  rounding {
//	    threshold_kg       = "20"
//	    increment_below_kg = "0.5"
//	    increment_above_kg = "1"
//	  }
//
//	  thresholds {
//	    pass_percent   = "2"
//	    review_percent = "10"
//	  }
//
//	  surcharge_order = ["FSC", "VAT"]
//
//	  exchange_rate "EUR" "AED" {
//	    rate = "4.01"
//	  }
//	}
//
// Decimal values are quoted strings so they survive HCL's number
// handling with full precision.
type profileFile struct {
	Carriers []profileBlock `hcl:"carrier,block"`
}

type profileBlock struct {
	Name           string              `hcl:"name,label"`
	Service        string              `hcl:"service"`
	Direction      string              `hcl:"direction"`
	Currency       string              `hcl:"currency"`
	SurchargeOrder []string            `hcl:"surcharge_order,optional"`
	Rounding       roundingBlock       `hcl:"rounding,block"`
	Thresholds     thresholdsBlock     `hcl:"thresholds,block"`
	ExchangeRates  []exchangeRateBlock `hcl:"exchange_rate,block"`
}

type roundingBlock struct {
	ThresholdKg      string `hcl:"threshold_kg"`
	IncrementBelowKg string `hcl:"increment_below_kg"`
	IncrementAboveKg string `hcl:"increment_above_kg"`
}

type thresholdsBlock struct {
	PassPercent   string `hcl:"pass_percent"`
	ReviewPercent string `hcl:"review_percent"`
}

type exchangeRateBlock struct {
	From string `hcl:"from,label"`
	To   string `hcl:"to,label"`
	Rate string `hcl:"rate"`
}

// LoadProfiles parses all carrier profiles in an HCL file
func LoadProfiles(path string) ([]*audit.CarrierProfile, error) {
	var file profileFile
	if err := hclsimple.DecodeFile(path, nil, &file); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "parsing carrier profiles", err)
	}

	profiles := make([]*audit.CarrierProfile, 0, len(file.Carriers))
	for _, block := range file.Carriers {
		profile, err := block.resolve()
		if err != nil {
			return nil, err
		}
		if err := profile.Validate(); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// LoadProfile parses one named carrier profile from an HCL file.
// With an empty name, a file holding exactly one profile matches.
func LoadProfile(path, name string) (*audit.CarrierProfile, error) {
	profiles, err := LoadProfiles(path)
	if err != nil {
		return nil, err
	}
	if name == "" && len(profiles) == 1 {
		return profiles[0], nil
	}
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, errors.Newf(errors.TypeConfig, "no carrier profile %q in %s", name, path)
}

// resolve converts the raw HCL block into a typed profile
func (b profileBlock) resolve() (*audit.CarrierProfile, error) {
	thresholdKg, err := parseDecimal(b.Name, "rounding.threshold_kg", b.Rounding.ThresholdKg)
	if err != nil {
		return nil, err
	}
	below, err := parseDecimal(b.Name, "rounding.increment_below_kg", b.Rounding.IncrementBelowKg)
	if err != nil {
		return nil, err
	}
	above, err := parseDecimal(b.Name, "rounding.increment_above_kg", b.Rounding.IncrementAboveKg)
	if err != nil {
		return nil, err
	}
	passPct, err := parseDecimal(b.Name, "thresholds.pass_percent", b.Thresholds.PassPercent)
	if err != nil {
		return nil, err
	}
	reviewPct, err := parseDecimal(b.Name, "thresholds.review_percent", b.Thresholds.ReviewPercent)
	if err != nil {
		return nil, err
	}

	rates := make(audit.ExchangeRates, len(b.ExchangeRates))
	for _, er := range b.ExchangeRates {
		rate, err := parseDecimal(b.Name, "exchange_rate.rate", er.Rate)
		if err != nil {
			return nil, err
		}
		rates[audit.RateKey(er.From, er.To)] = rate
	}

	return &audit.CarrierProfile{
		Name:      b.Name,
		Service:   types.ServiceType(b.Service),
		Direction: types.Direction(b.Direction),
		Currency:  b.Currency,
		Rounding: audit.RoundingPolicy{
			ThresholdKg:      thresholdKg,
			IncrementBelowKg: below,
			IncrementAboveKg: above,
		},
		Thresholds: audit.Thresholds{
			PassPercent:   passPct,
			ReviewPercent: reviewPct,
		},
		SurchargeOrder: b.SurchargeOrder,
		ExchangeRates:  rates,
	}, nil
}

func parseDecimal(profile, field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.Newf(errors.TypeConfig,
			"carrier profile %q: %s is not a decimal: %q", profile, field, raw)
	}
	return d, nil
}
