package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"shiftledger/internal/signals"
	"shiftledger/internal/timecatalog"
)

func newRefreshHolidaysCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "refresh-holidays",
		Short: "Fetch and replace the holiday catalog for a year (and year+1)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := newEnv()

			src := timecatalog.NewHTTPHolidaySource(holidayAPIBaseURL())
			catalog := e.catalog(src)
			warmer := signals.NewHolidayWarmer(catalog, e.runner, e.log)

			if year == 0 {
				year = time.Now().Year()
			}
			if err := warmer.Warm(context.Background(), year); err != nil {
				return err
			}
			fmt.Printf("refresh-holidays complete for %d and %d\n", year, year+1)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year to refresh (defaults to the current year)")
	return cmd
}

func holidayAPIBaseURL() string {
	if url := os.Getenv("HOLIDAY_API_BASE_URL"); url != "" {
		return url
	}
	return "https://www.hebcal.com/hebcal"
}
