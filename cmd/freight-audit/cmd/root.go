// Package cmd provides the CLI commands for freight-audit.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"freight-audit/internal/config"
	"freight-audit/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "freight-audit",
	Short: "Audit carrier freight invoices against contracted rate cards",
	Long: `freight-audit recomputes what each shipment should have cost from the
carrier's contracted rate card and compares it with what the carrier
billed.

Every audited line carries a step-by-step trace of how its expected
charge was derived, and is classified as PASS, REVIEW, OVERCHARGE or
UNDERCHARGE.

Examples:
  freight-audit audit --ratecard dhl-2026-01.json --profile dhl.hcl invoices.json
  freight-audit audit --format json --ratecard card.json --profile carrier.hcl lines.json
  freight-audit validate dhl-2026-01.json`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.freight-audit.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	// Initialize logging
	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("freight-audit version 0.1.0")
	},
}
