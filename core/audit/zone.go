package audit

import (
	"regexp"
	"strings"

	"freight-audit/core/ratecard"
	"freight-audit/core/types"
	"freight-audit/internal/errors"
)

// Zone resolution sources, recorded in the trace so reviewers can see
// whether a zone was mapped directly or derived heuristically
const (
	ZoneSourceMapping   = "mapping"
	ZoneSourceAddress   = "address_code"
	ZoneSourceKnownName = "known_name"
)

// ZoneResolution is the outcome of resolving one end of a shipment
type ZoneResolution struct {
	// Zone is the resolved zone number
	Zone int

	// Code is the location code that resolved
	Code string

	// Source says how the code was obtained
	Source string
}

// trailingCodeRe matches a trailing parenthetical location code, as in
// "Jebel Ali Free Zone (JEA)"
var trailingCodeRe = regexp.MustCompile(`\(([A-Za-z]{2,5})\)\s*$`)

// ResolveZone maps a location to a zone number. Resolution order:
// exact code match, then a trailing parenthetical code extracted from
// the free-text address, then the carrier's known-name table. A code
// mapping to multiple zones fails as ambiguous rather than picking
// one; a location with no mapping fails as missing with no default
// substituted - fallback policy belongs to the caller.
func ResolveZone(snap *ratecard.Snapshot, code, address string, direction types.Direction, service types.ServiceType) (ZoneResolution, error) {
	if code != "" {
		if res, err, ok := lookupZone(snap, code, direction, service, ZoneSourceMapping); ok {
			return res, err
		}
	}

	if m := trailingCodeRe.FindStringSubmatch(address); m != nil {
		derived := strings.ToUpper(m[1])
		if res, err, ok := lookupZone(snap, derived, direction, service, ZoneSourceAddress); ok {
			return res, err
		}
	}

	for _, name := range []string{address, code} {
		if name == "" {
			continue
		}
		if derived, ok := snap.KnownNameCode(name); ok {
			if res, err, found := lookupZone(snap, derived, direction, service, ZoneSourceKnownName); found {
				return res, err
			}
		}
	}

	location := code
	if location == "" {
		location = address
	}
	return ZoneResolution{}, errors.MissingZoneMapping(location, direction.String())
}

// lookupZone returns ok=false when the code has no mapping at all, so
// the caller can try the next heuristic
func lookupZone(snap *ratecard.Snapshot, code string, direction types.Direction, service types.ServiceType, source string) (ZoneResolution, error, bool) {
	zones := snap.Zones(code, direction, service)
	switch len(zones) {
	case 0:
		return ZoneResolution{}, nil, false
	case 1:
		return ZoneResolution{Zone: zones[0], Code: code, Source: source}, nil, true
	default:
		return ZoneResolution{}, errors.AmbiguousZoneResolution(code, zones), true
	}
}
