// Package output renders batch results for humans and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"freight-audit/core/batch"
	"freight-audit/core/determinism"
	"freight-audit/core/types"
)

// Format represents output format type
type Format string

const (
	// FormatText is a human-readable table
	FormatText Format = "text"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the batch result
	Render(w io.Writer, result *batch.Result) error
}

// New returns the formatter for a format name
func New(format Format) (Formatter, error) {
	switch format {
	case FormatText, "":
		return &TextFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// JSONFormatter renders the full result, traces included
type JSONFormatter struct{}

// Format returns the format type
func (f *JSONFormatter) Format() Format { return FormatJSON }

// Render writes indented JSON
func (f *JSONFormatter) Render(w io.Writer, result *batch.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// TextFormatter renders a per-shipment table, the invoice rollups,
// and the batch summary with review reasons
type TextFormatter struct{}

// Format returns the format type
func (f *TextFormatter) Format() Format { return FormatText }

// Render writes the table
func (f *TextFormatter) Render(w io.Writer, result *batch.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "AWB\tINVOICE\tEXPECTED\tINVOICED\tVARIANCE\tSTATUS\tREASON")
	for _, r := range result.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.AWB, r.InvoiceID,
			determinism.NewMoneyFromDecimal(r.ExpectedAmount, r.Currency),
			determinism.NewMoneyFromDecimal(r.InvoicedAmount, r.Currency),
			determinism.NewMoneyFromDecimal(r.Variance, r.Currency),
			r.Status, r.ReviewReason)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := result.Summary

	if len(s.Invoices) > 1 {
		fmt.Fprintln(w)
		fmt.Fprintln(tw, "INVOICE\tLINES\tEXPECTED\tINVOICED\tVARIANCE\tSTATUS")
		for _, inv := range s.Invoices {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
				inv.InvoiceID, inv.Lines, inv.Expected, inv.Invoiced, inv.Variance, inv.Status)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "carrier %s, snapshot %s\n", s.Carrier, s.SnapshotID)
	fmt.Fprintf(w, "%d audited: %d pass, %d review, %d overcharge, %d undercharge\n",
		s.Completed,
		s.StatusCounts[types.StatusPass],
		s.StatusCounts[types.StatusReview],
		s.StatusCounts[types.StatusOvercharge],
		s.StatusCounts[types.StatusUndercharge])
	fmt.Fprintf(w, "total expected %s, invoiced %s, variance %s\n",
		s.TotalExpected, s.TotalInvoiced, s.TotalVariance)

	if len(s.ReviewReasons) > 0 {
		fmt.Fprintln(w, "review reasons:")
		determinism.RangeMapSorted(s.ReviewReasons, func(reason string, count int) bool {
			fmt.Fprintf(w, "  %s: %d\n", reason, count)
			return true
		})
	}

	return nil
}
