// Package cmd - audit command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"freight-audit/core/audit"
	"freight-audit/core/batch"
	"freight-audit/core/output"
	"freight-audit/core/ratecard"
	"freight-audit/core/types"
	"freight-audit/internal/config"
	"freight-audit/internal/logging"
)

var (
	ratecardFile string
	profileFile  string
	carrierName  string
	outputFormat string
	auditWorkers int
	auditTimeout time.Duration
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit [shipments-file]",
	Short: "Audit a batch of invoice lines against a rate card",
	Long: `Recompute the expected charge for every shipment in a batch and
classify each line against what the carrier billed.

The shipments file is a JSON array of invoice lines. The rate card is
a JSON export of the carrier's contract; the profile is an HCL file
declaring the carrier's rounding, thresholds, surcharge order and
exchange rates.

Examples:
  freight-audit audit --ratecard dhl-2026-01.json --profile dhl.hcl invoices.json
  freight-audit audit --format json --ratecard card.json --profile carrier.hcl lines.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVarP(&ratecardFile, "ratecard", "r", "", "rate card JSON file [REQUIRED]")
	auditCmd.Flags().StringVarP(&profileFile, "profile", "p", "", "carrier profile HCL file [REQUIRED]")
	auditCmd.Flags().StringVar(&carrierName, "carrier", "", "carrier profile name (defaults to the file's only profile)")
	auditCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (text, json)")
	auditCmd.Flags().IntVar(&auditWorkers, "workers", 0, "worker pool size")
	auditCmd.Flags().DurationVar(&auditTimeout, "timeout", 0, "per-shipment timeout")

	auditCmd.MarkFlagRequired("ratecard")
	auditCmd.MarkFlagRequired("profile")
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Get()

	shipments, err := readShipments(args[0])
	if err != nil {
		return err
	}

	snapshot, err := loadSnapshot(ratecardFile)
	if err != nil {
		return err
	}

	profile, err := config.LoadProfile(profileFile, carrierName)
	if err != nil {
		return err
	}

	logging.Info("starting audit")

	pipeline, err := audit.NewPipeline(snapshot, profile)
	if err != nil {
		return err
	}

	workers := cfg.Batch.Workers
	if auditWorkers > 0 {
		workers = auditWorkers
	}
	timeout := time.Duration(cfg.Batch.ShipmentTimeoutSeconds) * time.Second
	if auditTimeout > 0 {
		timeout = auditTimeout
	}

	orchestrator := batch.NewOrchestrator(pipeline,
		batch.WithWorkers(workers),
		batch.WithShipmentTimeout(timeout))

	result, err := orchestrator.Run(ctx, shipments)
	if err != nil {
		return err
	}

	format := output.Format(outputFormat)
	if outputFormat == "" {
		format = output.Format(cfg.Output.DefaultFormat)
	}
	formatter, err := output.New(format)
	if err != nil {
		return err
	}
	return formatter.Render(os.Stdout, result)
}

// readShipments reads a JSON array of invoice lines
func readShipments(path string) ([]types.Shipment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading shipments: %w", err)
	}
	var shipments []types.Shipment
	if err := json.Unmarshal(data, &shipments); err != nil {
		return nil, fmt.Errorf("parsing shipments: %w", err)
	}
	if len(shipments) == 0 {
		return nil, fmt.Errorf("no shipments in %s", path)
	}
	return shipments, nil
}

// loadSnapshot reads and seals a rate card
func loadSnapshot(path string) (*ratecard.Snapshot, error) {
	doc, err := ratecard.ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return doc.Build()
}
