package audit

import (
	"freight-audit/core/ratecard"
	"freight-audit/core/types"
	"freight-audit/internal/errors"
)

// ResolveRateZone maps an (origin zone, destination zone) pair to the
// named rate zone used for pricing. Pure table lookup: adjacency in
// zone number does not imply adjacency in rate, so no interpolation is
// ever attempted.
func ResolveRateZone(snap *ratecard.Snapshot, originZone, destinationZone int, service types.ServiceType) (string, error) {
	rateZone, ok := snap.RateZone(originZone, destinationZone, service)
	if !ok {
		return "", errors.MissingMatrixEntry(originZone, destinationZone)
	}
	return rateZone, nil
}
