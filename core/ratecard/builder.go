package ratecard

import (
	"fmt"
	"sort"
	"strings"

	"freight-audit/core/determinism"
	"freight-audit/internal/errors"
)

// Builder assembles a Snapshot. Malformed rate cards are rejected at
// Build, before any shipment is processed: a bad band or duplicate
// matrix key would silently corrupt every downstream audit.
type Builder struct {
	carrier    string
	version    string
	zones      map[zoneKey][]int
	knownNames map[string]string
	matrix     map[matrixKey]string
	bands      map[string][]RateBand
	surcharges map[string]SurchargeRule
	problems   []string
}

// NewBuilder creates a snapshot builder for one carrier rate card
func NewBuilder(carrier, version string) *Builder {
	return &Builder{
		carrier:    carrier,
		version:    version,
		zones:      make(map[zoneKey][]int),
		knownNames: make(map[string]string),
		matrix:     make(map[matrixKey]string),
		bands:      make(map[string][]RateBand),
		surcharges: make(map[string]SurchargeRule),
	}
}

// AddZoneMapping adds a location-to-zone mapping. Exact duplicates
// collapse; conflicting duplicates are kept so resolution can surface
// the ambiguity instead of picking arbitrarily.
func (b *Builder) AddZoneMapping(m ZoneMapping) *Builder {
	key := zoneKey{Code: m.LocationCode, Direction: m.Direction, Service: m.Service}
	for _, z := range b.zones[key] {
		if z == m.Zone {
			return b
		}
	}
	b.zones[key] = append(b.zones[key], m.Zone)
	sort.Ints(b.zones[key])
	return b
}

// AddKnownName adds a free-text name to the fallback table used by
// heuristic zone resolution
func (b *Builder) AddKnownName(name, locationCode string) *Builder {
	b.knownNames[strings.ToLower(strings.TrimSpace(name))] = locationCode
	return b
}

// AddMatrixEntry adds a zone-matrix entry
func (b *Builder) AddMatrixEntry(e ZoneMatrixEntry) *Builder {
	key := matrixKey{OriginZone: e.OriginZone, DestinationZone: e.DestinationZone, Service: e.Service}
	if existing, ok := b.matrix[key]; ok && existing != e.RateZone {
		b.problems = append(b.problems, fmt.Sprintf(
			"duplicate matrix entry %d/%d/%s maps to both %q and %q",
			e.OriginZone, e.DestinationZone, e.Service, existing, e.RateZone))
		return b
	}
	b.matrix[key] = e.RateZone
	return b
}

// AddRateBand adds a rate band row
func (b *Builder) AddRateBand(band RateBand) *Builder {
	b.bands[band.RateZone] = append(b.bands[band.RateZone], band)
	return b
}

// AddSurchargeRule adds a surcharge rule
func (b *Builder) AddSurchargeRule(rule SurchargeRule) *Builder {
	if _, ok := b.surcharges[rule.Code]; ok {
		b.problems = append(b.problems, fmt.Sprintf("duplicate surcharge rule %q", rule.Code))
		return b
	}
	b.surcharges[rule.Code] = rule
	return b
}

// Build validates and seals the snapshot
func (b *Builder) Build() (*Snapshot, error) {
	b.validateBands()
	b.validateSurcharges()

	if len(b.problems) > 0 {
		return nil, errors.SnapshotInvalid(
			fmt.Sprintf("rate card %s/%s rejected: %s", b.carrier, b.version, strings.Join(b.problems, "; ")))
	}

	snap := &Snapshot{
		carrier:    b.carrier,
		version:    b.version,
		zones:      b.zones,
		knownNames: b.knownNames,
		matrix:     b.matrix,
		bands:      b.bands,
		surcharges: b.surcharges,
	}
	snap.seal()
	return snap, nil
}

// validateBands checks band ranges per rate zone: monotonic ranges,
// no overlap among base rows, extension rows above the base ceiling
// and non-overlapping among themselves, positive increments.
func (b *Builder) validateBands() {
	for _, rz := range sortedZones(b.bands) {
		rows := b.bands[rz]

		var base, ext []RateBand
		for _, row := range rows {
			if row.WeightFromKg.GreaterThan(row.WeightToKg) {
				b.problems = append(b.problems, fmt.Sprintf(
					"zone %q band %s-%s has inverted range", rz, row.WeightFromKg, row.WeightToKg))
			}
			if row.WeightFromKg.IsNegative() {
				b.problems = append(b.problems, fmt.Sprintf(
					"zone %q band starts at negative weight %s", rz, row.WeightFromKg))
			}
			if row.IsOverweightExtension {
				if !row.IncrementKg.IsPositive() {
					b.problems = append(b.problems, fmt.Sprintf(
						"zone %q extension band %s-%s has non-positive increment", rz, row.WeightFromKg, row.WeightToKg))
				}
				ext = append(ext, row)
			} else {
				base = append(base, row)
			}
		}

		sortByWeight(base)
		sortByWeight(ext)

		for i := 1; i < len(base); i++ {
			if base[i].WeightFromKg.LessThanOrEqual(base[i-1].WeightToKg) {
				b.problems = append(b.problems, fmt.Sprintf(
					"zone %q bands %s-%s and %s-%s overlap", rz,
					base[i-1].WeightFromKg, base[i-1].WeightToKg, base[i].WeightFromKg, base[i].WeightToKg))
			}
		}
		for i := 1; i < len(ext); i++ {
			if ext[i].WeightFromKg.LessThanOrEqual(ext[i-1].WeightToKg) {
				b.problems = append(b.problems, fmt.Sprintf(
					"zone %q extension bands %s-%s and %s-%s overlap", rz,
					ext[i-1].WeightFromKg, ext[i-1].WeightToKg, ext[i].WeightFromKg, ext[i].WeightToKg))
			}
		}
		if len(ext) > 0 && len(base) > 0 {
			ceiling := base[len(base)-1].WeightToKg
			if ext[0].WeightFromKg.LessThan(ceiling) {
				b.problems = append(b.problems, fmt.Sprintf(
					"zone %q extension starts at %s, below base ceiling %s", rz, ext[0].WeightFromKg, ceiling))
			}
		}
		if len(ext) > 0 && len(base) == 0 {
			b.problems = append(b.problems, fmt.Sprintf(
				"zone %q has extension bands but no base bands", rz))
		}

		// Store in lookup order: base rows, then extension rows
		b.bands[rz] = append(base, ext...)
	}
}

// validateSurcharges checks rule shapes
func (b *Builder) validateSurcharges() {
	for _, code := range sortedCodes(b.surcharges) {
		rule := b.surcharges[code]
		if !rule.Kind.IsValid() {
			b.problems = append(b.problems, fmt.Sprintf("surcharge %q has unknown kind %q", code, rule.Kind))
		}
		if (rule.Kind == SurchargePercentage || rule.Kind == SurchargePerKg) && rule.Value.IsNegative() {
			b.problems = append(b.problems, fmt.Sprintf("surcharge %q has negative value %s", code, rule.Value))
		}
		if rule.Minimum != nil && rule.Maximum != nil && rule.Minimum.GreaterThan(*rule.Maximum) {
			b.problems = append(b.problems, fmt.Sprintf("surcharge %q minimum exceeds maximum", code))
		}
	}
}

func sortByWeight(bands []RateBand) {
	determinism.SortSlice(bands, func(a, b RateBand) bool {
		return a.WeightFromKg.LessThan(b.WeightFromKg)
	})
}

func sortedZones(m map[string][]RateBand) []string {
	zones := make([]string, 0, len(m))
	for z := range m {
		zones = append(zones, z)
	}
	sort.Strings(zones)
	return zones
}

func sortedCodes(m map[string]SurchargeRule) []string {
	codes := make([]string, 0, len(m))
	for c := range m {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
