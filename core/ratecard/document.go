package ratecard

import (
	"encoding/json"
	"os"

	"freight-audit/internal/errors"
)

// KnownName maps a free-text location name to a location code
type KnownName struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Document is the serialized rate card, exported from the carrier's
// contract sheets. It is a transport shape only: a Document becomes
// usable by building it into a validated, sealed Snapshot.
type Document struct {
	Carrier    string            `json:"carrier"`
	Version    string            `json:"version"`
	Zones      []ZoneMapping     `json:"zones"`
	KnownNames []KnownName       `json:"known_names,omitempty"`
	Matrix     []ZoneMatrixEntry `json:"matrix"`
	RateBands  []RateBand        `json:"rate_bands"`
	Surcharges []SurchargeRule   `json:"surcharges,omitempty"`
}

// ReadDocument reads a rate-card document from a JSON file
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "reading rate card", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "parsing rate card", err)
	}
	if doc.Carrier == "" {
		return nil, errors.New(errors.TypeConfig, "rate card has no carrier")
	}
	if doc.Version == "" {
		return nil, errors.New(errors.TypeConfig, "rate card has no version")
	}
	return &doc, nil
}

// Build validates the document and seals it into a Snapshot
func (d *Document) Build() (*Snapshot, error) {
	b := NewBuilder(d.Carrier, d.Version)
	for _, z := range d.Zones {
		b.AddZoneMapping(z)
	}
	for _, n := range d.KnownNames {
		b.AddKnownName(n.Name, n.Code)
	}
	for _, e := range d.Matrix {
		b.AddMatrixEntry(e)
	}
	for _, band := range d.RateBands {
		b.AddRateBand(band)
	}
	for _, rule := range d.Surcharges {
		b.AddSurchargeRule(rule)
	}
	return b.Build()
}
