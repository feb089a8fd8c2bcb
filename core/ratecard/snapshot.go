package ratecard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"freight-audit/core/determinism"
	"freight-audit/core/types"
)

// SnapshotID uniquely identifies a rate-card snapshot
type SnapshotID string

// zoneKey indexes zone mappings
type zoneKey struct {
	Code      string
	Direction types.Direction
	Service   types.ServiceType
}

// matrixKey indexes zone-matrix entries
type matrixKey struct {
	OriginZone      int
	DestinationZone int
	Service         types.ServiceType
}

// Snapshot is IMMUTABLE after Build. It is a point-in-time capture of
// one carrier's contracted rate card, safe to share across workers
// with no locking.
type Snapshot struct {
	id          SnapshotID
	carrier     string
	version     string
	contentHash determinism.ContentHash

	zones      map[zoneKey][]int
	knownNames map[string]string
	matrix     map[matrixKey]string
	bands      map[string][]RateBand
	surcharges map[string]SurchargeRule

	sealed bool
}

// ID returns the hash-derived snapshot identifier
func (s *Snapshot) ID() SnapshotID {
	return s.id
}

// Carrier returns the carrier name the card belongs to
func (s *Snapshot) Carrier() string {
	return s.carrier
}

// Version returns the loader-supplied rate-card version
func (s *Snapshot) Version() string {
	return s.version
}

// ContentHash returns the SHA-256 hash of all rate data
func (s *Snapshot) ContentHash() determinism.ContentHash {
	return s.contentHash
}

// Verify checks content hash integrity
func (s *Snapshot) Verify() bool {
	return s.computeHash() == s.contentHash
}

// Zones returns all zone numbers mapped to a location key.
// Zero matches means missing; more than one means ambiguous. The
// caller decides which typed failure to surface.
func (s *Snapshot) Zones(code string, direction types.Direction, service types.ServiceType) []int {
	return s.zones[zoneKey{Code: code, Direction: direction, Service: service}]
}

// KnownNameCode resolves a free-text location name to a location code
// via the carrier-supplied fallback table. Matching is case-insensitive.
func (s *Snapshot) KnownNameCode(name string) (string, bool) {
	code, ok := s.knownNames[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// RateZone looks up the named rate zone for a zone pair
func (s *Snapshot) RateZone(originZone, destinationZone int, service types.ServiceType) (string, bool) {
	rz, ok := s.matrix[matrixKey{OriginZone: originZone, DestinationZone: destinationZone, Service: service}]
	return rz, ok
}

// Bands returns the bands for a rate zone: base rows sorted by weight,
// then extension rows sorted by weight. The slice is shared; callers
// must not mutate it.
func (s *Snapshot) Bands(rateZone string) []RateBand {
	return s.bands[rateZone]
}

// BaseBands returns only the non-extension bands for a rate zone
func (s *Snapshot) BaseBands(rateZone string) []RateBand {
	all := s.bands[rateZone]
	for i, b := range all {
		if b.IsOverweightExtension {
			return all[:i]
		}
	}
	return all
}

// ExtensionBands returns only the overweight extension rows
func (s *Snapshot) ExtensionBands(rateZone string) []RateBand {
	all := s.bands[rateZone]
	for i, b := range all {
		if b.IsOverweightExtension {
			return all[i:]
		}
	}
	return nil
}

// Surcharge returns a surcharge rule by code
func (s *Snapshot) Surcharge(code string) (SurchargeRule, bool) {
	rule, ok := s.surcharges[code]
	return rule, ok
}

// computeHash hashes all collections in sorted order
func (s *Snapshot) computeHash() determinism.ContentHash {
	var h bytes.Buffer
	h.Write([]byte(s.carrier))
	h.Write([]byte{0})
	h.Write([]byte(s.version))
	h.Write([]byte{0})

	determinism.RangeMapSorted(s.zones, func(k zoneKey, zones []int) bool {
		data, _ := json.Marshal(map[string]interface{}{
			"code": k.Code, "dir": string(k.Direction), "svc": string(k.Service), "zones": zones,
		})
		h.Write(data)
		return true
	})
	determinism.RangeMapSorted(s.knownNames, func(name, code string) bool {
		h.Write([]byte(name + "=" + code + "\n"))
		return true
	})
	determinism.RangeMapSorted(s.matrix, func(k matrixKey, rz string) bool {
		h.Write([]byte(fmt.Sprintf("%d/%d/%s=%s\n", k.OriginZone, k.DestinationZone, k.Service, rz)))
		return true
	})
	determinism.RangeMapSorted(s.bands, func(rz string, bands []RateBand) bool {
		for _, b := range bands {
			data, _ := json.Marshal(map[string]interface{}{
				"zone": b.RateZone, "from": b.WeightFromKg.String(), "to": b.WeightToKg.String(),
				"price": b.Price.String(), "ext": b.IsOverweightExtension, "inc": b.IncrementKg.String(),
			})
			h.Write(data)
		}
		return true
	})
	determinism.RangeMapSorted(s.surcharges, func(code string, rule SurchargeRule) bool {
		data, _ := json.Marshal(rule)
		h.Write(data)
		return true
	})

	return determinism.ComputeHash(h.Bytes())
}

// seal finalizes identity from content
func (s *Snapshot) seal() {
	s.contentHash = s.computeHash()
	s.id = SnapshotID(snapshotIDs.Generate(s.carrier, s.version, s.contentHash.Hex()))
	s.sealed = true
}

// snapshotIDs derives snapshot identifiers from carrier, version and
// content, so equal rate cards always get equal IDs
var snapshotIDs = determinism.NewIDGenerator("ratecard")
