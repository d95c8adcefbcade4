package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/fire-spread-service/internal/domain"
)

var (
	extractDataset string
	extractRun     int
	extractMinutes int
	extractFormat  string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the burned pixels of one run at one elapsed time",
	RunE: func(cmd *cobra.Command, args []string) error {
		if extractFormat != "json" && extractFormat != "grid" {
			return fmt.Errorf("unknown format %q (want json or grid)", extractFormat)
		}
		dataset := extractDataset
		if dataset == "" {
			dataset = cfg.DefaultDataset
		}

		svc, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		res, err := svc.Engine.Extract(cmd.Context(), domain.Query{
			Dataset: dataset,
			Run:     extractRun,
			Minutes: extractMinutes,
		})
		if err != nil {
			return err
		}

		if extractFormat == "grid" {
			return renderGrid(os.Stdout, res)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractDataset, "dataset", "", "Dataset id (defaults to DEFAULT_DATASET)")
	extractCmd.Flags().IntVar(&extractRun, "run", 1, "Simulation run number")
	extractCmd.Flags().IntVar(&extractMinutes, "minutes", 0, "Elapsed simulated minutes")
	extractCmd.Flags().StringVar(&extractFormat, "format", "json", "Output format: json or grid")
	rootCmd.AddCommand(extractCmd)
}
