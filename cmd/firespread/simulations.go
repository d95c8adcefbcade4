package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var simulationsCmd = &cobra.Command{
	Use:   "simulations",
	Short: "List datasets with simulation results",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		sims, err := svc.Engine.Simulations(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range sims {
			fmt.Println(s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulationsCmd)
}
