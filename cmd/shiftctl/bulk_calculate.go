package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"shiftledger/internal/bulk"
	"shiftledger/internal/payroll"
	"shiftledger/internal/repository"
	"shiftledger/internal/timecatalog"
)

func newBulkCalculateCmd() *cobra.Command {
	var year, month int
	var lat, lng float64
	var saveToDB, useCache, useParallel, invalidate bool
	var strategyName string

	cmd := &cobra.Command{
		Use:   "bulk-calculate",
		Short: "Calculate payroll for every active employee for one month",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := newEnv()
			ctx := context.Background()

			employees := repository.NewEmployeeGormRepository(e.gdb)
			worklogs := repository.NewWorkLogGormRepository(e.gdb)
			holidays := e.holidayRepo()
			compDays := repository.NewCompensatoryDayGormRepository(e.gdb)
			summaries := repository.NewMonthlyPayrollSummaryGormRepository(e.gdb)
			dailyCalcs := repository.NewDailyPayrollCalculationGormRepository(e.gdb)

			svc := bulk.New(bulk.Dependencies{
				Employees:  employees,
				WorkLogs:   worklogs,
				Holidays:   holidays,
				CompDays:   compDays,
				Summaries:  summaries,
				DailyCalcs: dailyCalcs,
				Cache:      e.cache,
				SunSource:  timecatalog.NOAASunSource{},
				Tiers:      e.cfg.Payroll.OvertimeTiers.TierThresholds(),
				Lat:        lat,
				Lng:        lng,
				Log:        e.log,
			}, bulk.Config{
				ThreadCutoff:  e.cfg.Bulk.ThreadCutoff,
				ProcessCutoff: e.cfg.Bulk.ProcessCutoff,
				WorkerCap:     e.cfg.Bulk.WorkerCap,
				CacheTTL:      e.cfg.Cache.TTLMonthlySummary,
			})

			result, err := svc.Run(ctx, nil, year, month, bulk.Options{
				UseCache:        useCache,
				UseParallel:     useParallel,
				SaveToDB:        saveToDB,
				InvalidateCache: invalidate,
				StrategyName:    payroll.Name(strategyName),
			})
			if err != nil {
				return err
			}

			fmt.Printf("bulk-calculate %d-%02d: %d succeeded, %d failed, %d from cache, %.1f employees/sec\n",
				year, month, result.Successful, result.Failed, result.CachedCount, result.Throughput)
			for _, f := range result.Failures {
				fmt.Printf("  FAILED employee=%s reason=%s err=%v\n", f.EmployeeID, f.Reason, f.Err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year to calculate")
	cmd.Flags().IntVar(&month, "month", 0, "month to calculate (1-12)")
	cmd.Flags().Float64Var(&lat, "lat", 31.78, "latitude for sunset/Shabbat calculation")
	cmd.Flags().Float64Var(&lng, "lng", 35.22, "longitude for sunset/Shabbat calculation")
	cmd.Flags().BoolVar(&saveToDB, "save", true, "persist results to the database")
	cmd.Flags().BoolVar(&useCache, "cache", true, "use the versioned cache")
	cmd.Flags().BoolVar(&useParallel, "parallel", true, "allow concurrent per-employee calculation")
	cmd.Flags().BoolVar(&invalidate, "invalidate-cache", false, "force recomputation, ignoring cached results")
	cmd.Flags().StringVar(&strategyName, "strategy", string(payroll.Enhanced), "payroll strategy: enhanced or legacy")
	cmd.MarkFlagRequired("year")
	cmd.MarkFlagRequired("month")

	return cmd
}
