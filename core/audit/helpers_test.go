package audit

import (
	"testing"

	"github.com/shopspring/decimal"

	"freight-audit/core/ratecard"
	"freight-audit/core/types"
)

// testSnapshot builds the rate card used across the package tests:
// AE exports priced into GB (rate zone B) and DE (rate zone C), with
// an overweight extension on zone B.
func testSnapshot(t *testing.T) *ratecard.Snapshot {
	t.Helper()

	b := ratecard.NewBuilder("acme", "2026-01")

	b.AddZoneMapping(ratecard.ZoneMapping{LocationCode: "AE", Direction: types.DirectionOrigin, Service: types.ServiceExpress, Zone: 1})
	b.AddZoneMapping(ratecard.ZoneMapping{LocationCode: "GB", Direction: types.DirectionDestination, Service: types.ServiceExpress, Zone: 2})
	b.AddZoneMapping(ratecard.ZoneMapping{LocationCode: "JEA", Direction: types.DirectionDestination, Service: types.ServiceExpress, Zone: 2})
	b.AddZoneMapping(ratecard.ZoneMapping{LocationCode: "DE", Direction: types.DirectionDestination, Service: types.ServiceExpress, Zone: 3})

	// XX is deliberately mapped twice to exercise ambiguity
	b.AddZoneMapping(ratecard.ZoneMapping{LocationCode: "XX", Direction: types.DirectionDestination, Service: types.ServiceExpress, Zone: 4})
	b.AddZoneMapping(ratecard.ZoneMapping{LocationCode: "XX", Direction: types.DirectionDestination, Service: types.ServiceExpress, Zone: 5})

	b.AddKnownName("Dubai", "AE")
	b.AddKnownName("London", "GB")

	b.AddMatrixEntry(ratecard.ZoneMatrixEntry{OriginZone: 1, DestinationZone: 2, Service: types.ServiceExpress, RateZone: "B"})
	b.AddMatrixEntry(ratecard.ZoneMatrixEntry{OriginZone: 1, DestinationZone: 3, Service: types.ServiceExpress, RateZone: "C"})

	b.AddRateBand(ratecard.RateBand{RateZone: "B", WeightFromKg: decimal.RequireFromString("0.01"), WeightToKg: decimal.RequireFromString("1"), Price: decimal.RequireFromString("12.00")})
	b.AddRateBand(ratecard.RateBand{RateZone: "B", WeightFromKg: decimal.RequireFromString("1.01"), WeightToKg: decimal.RequireFromString("1.5"), Price: decimal.RequireFromString("16.47")})
	b.AddRateBand(ratecard.RateBand{RateZone: "B", WeightFromKg: decimal.RequireFromString("1.51"), WeightToKg: decimal.RequireFromString("30"), Price: decimal.RequireFromString("271.11")})
	b.AddRateBand(ratecard.RateBand{
		RateZone:              "B",
		WeightFromKg:          decimal.RequireFromString("30.01"),
		WeightToKg:            decimal.RequireFromString("300"),
		Price:                 decimal.RequireFromString("4.84"),
		IsOverweightExtension: true,
		IncrementKg:           decimal.RequireFromString("0.5"),
	})

	b.AddRateBand(ratecard.RateBand{RateZone: "C", WeightFromKg: decimal.RequireFromString("0.01"), WeightToKg: decimal.RequireFromString("30"), Price: decimal.RequireFromString("50.00")})

	b.AddSurchargeRule(ratecard.SurchargeRule{
		Code:        "FSC",
		Kind:        ratecard.SurchargePercentage,
		Value:       decimal.RequireFromString("17.5"),
		PercentBase: ratecard.PercentOfRunning,
		Services:    []types.ServiceType{types.ServiceExpress},
		Directions:  []types.Direction{types.DirectionDestination},
	})
	b.AddSurchargeRule(ratecard.SurchargeRule{
		Code:  "VAT",
		Kind:  ratecard.SurchargePercentage,
		Value: decimal.RequireFromString("5"),
	})
	b.AddSurchargeRule(ratecard.SurchargeRule{
		Code:  "RAS",
		Kind:  ratecard.SurchargeFlat,
		Value: decimal.RequireFromString("20.00"),
	})

	snap, err := b.Build()
	if err != nil {
		t.Fatalf("building test snapshot: %v", err)
	}
	return snap
}

// testProfile matches testSnapshot: destination-side express contract
// in AED with no surcharges ordered
func testProfile() *CarrierProfile {
	return &CarrierProfile{
		Name:      "acme-express",
		Service:   types.ServiceExpress,
		Direction: types.DirectionDestination,
		Currency:  "AED",
		Rounding: RoundingPolicy{
			ThresholdKg:      decimal.RequireFromString("20"),
			IncrementBelowKg: decimal.RequireFromString("0.5"),
			IncrementAboveKg: decimal.RequireFromString("1"),
		},
		Thresholds: Thresholds{
			PassPercent:   decimal.RequireFromString("2"),
			ReviewPercent: decimal.RequireFromString("10"),
		},
	}
}
