package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "shiftctl",
		Short: "Operational commands for the shiftledger payroll engine",
	}

	root.AddCommand(
		newBulkCalculateCmd(),
		newRetentionSweepCmd(),
		newRefreshHolidaysCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
