// Package errors provides the typed error taxonomy for the audit pipeline.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInvalidWeight indicates a non-positive actual weight
	TypeInvalidWeight Type = "INVALID_WEIGHT"

	// TypeMissingZoneMapping indicates no zone mapping exists for a location
	TypeMissingZoneMapping Type = "MISSING_ZONE_MAPPING"

	// TypeAmbiguousZoneResolution indicates multiple zones match one location
	TypeAmbiguousZoneResolution Type = "AMBIGUOUS_ZONE_RESOLUTION"

	// TypeMissingMatrixEntry indicates the zone pair is absent from the matrix
	TypeMissingMatrixEntry Type = "MISSING_MATRIX_ENTRY"

	// TypeMissingRateBand indicates no band or extension covers the weight
	TypeMissingRateBand Type = "MISSING_RATE_BAND"

	// TypeCurrencyConversionMissing indicates no exchange rate was supplied
	TypeCurrencyConversionMissing Type = "CURRENCY_CONVERSION_MISSING"

	// TypeSnapshotInvalid indicates a malformed rate-card snapshot.
	// This is fatal at load time, before any shipment is processed.
	TypeSnapshotInvalid Type = "SNAPSHOT_INVALID"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error (recovered panic, timeout)
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// TypeOf returns the error's type, or TypeInternal for untyped errors.
// Used to group REVIEW reasons in batch summaries.
func TypeOf(err error) Type {
	if e, ok := err.(*Error); ok {
		return e.Type
	}
	return TypeInternal
}

// InvalidWeight creates an invalid weight error
func InvalidWeight(weight string) *Error {
	return Newf(TypeInvalidWeight, "actual weight must be positive, got %s", weight)
}

// MissingZoneMapping creates a missing zone mapping error
func MissingZoneMapping(location, direction string) *Error {
	return Newf(TypeMissingZoneMapping, "no zone mapping for %s location %q", direction, location)
}

// AmbiguousZoneResolution creates an ambiguous zone error
func AmbiguousZoneResolution(location string, zones []int) *Error {
	return Newf(TypeAmbiguousZoneResolution, "location %q maps to multiple zones %v", location, zones)
}

// MissingMatrixEntry creates a missing matrix entry error
func MissingMatrixEntry(originZone, destinationZone int) *Error {
	return Newf(TypeMissingMatrixEntry, "no rate zone for origin zone %d, destination zone %d", originZone, destinationZone)
}

// MissingRateBand creates a missing rate band error
func MissingRateBand(rateZone, weight string) *Error {
	return Newf(TypeMissingRateBand, "no rate band covers %s kg in rate zone %q", weight, rateZone)
}

// CurrencyConversionMissing creates a missing exchange rate error
func CurrencyConversionMissing(from, to string) *Error {
	return Newf(TypeCurrencyConversionMissing, "no exchange rate supplied for %s to %s", from, to)
}

// SnapshotInvalid creates a snapshot validation error
func SnapshotInvalid(message string) *Error {
	return New(TypeSnapshotInvalid, message)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
