package bulk

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"shiftledger/internal/cache"
	"shiftledger/internal/domain"
	"shiftledger/internal/payroll"
	"shiftledger/internal/recalc"
	"shiftledger/internal/repository"
	"shiftledger/internal/shiftsplitter"
	"shiftledger/internal/timecatalog"
)

// Config holds the adaptive-executor and cache tunables (spec §4.5, §6).
type Config struct {
	ThreadCutoff  int           // batches below this run sequentially. Default 10.
	ProcessCutoff int           // not read by Run: every parallel batch at/above ThreadCutoff uses WorkerCap. Default 50.
	WorkerCap     int           // max concurrent Strategy invocations. Default min(NumCPU, 8).
	CacheTTL      time.Duration // monthly_summary cache TTL. Default 1h.
}

// DefaultConfig returns the spec-documented defaults.
func DefaultConfig() Config {
	cap := runtime.NumCPU()
	if cap > 8 {
		cap = 8
	}
	return Config{ThreadCutoff: 10, ProcessCutoff: 50, WorkerCap: cap, CacheTTL: time.Hour}
}

// Options controls one Run invocation (spec §4.5 contract).
type Options struct {
	UseCache        bool
	UseParallel     bool // MUST be false inside an outer transaction or test fixture sharing one DB handle.
	SaveToDB        bool
	InvalidateCache bool
	BatchSize       int
	Deadline        time.Duration // 0 means no deadline.
	StrategyName    payroll.Name
	FastMode        bool
}

// EmployeeResult pairs one employee with its computed PayrollResult.
type EmployeeResult struct {
	EmployeeID uuid.UUID
	Result     *domain.PayrollResult
	FromCache  bool
}

// Failure records one employee's failure reason without aborting the batch.
type Failure struct {
	EmployeeID uuid.UUID
	Reason     string
	Err        error
}

// Result is the batch aggregate (spec §4.5 output contract).
type Result struct {
	Successful  int
	Failed      int
	CachedCount int
	Results     []EmployeeResult
	Failures    []Failure
	Duration    time.Duration
	Throughput  float64 // employees/sec
}

// Dependencies are the collaborators Service needs for the bounded
// data-loading protocol plus per-employee persistence.
type Dependencies struct {
	Employees  repository.EmployeeRepository
	WorkLogs   repository.WorkLogRepository
	Holidays   repository.HolidayRepository
	CompDays   repository.CompensatoryDayRepository
	Summaries  repository.MonthlyPayrollSummaryRepository
	DailyCalcs repository.DailyPayrollCalculationRepository
	Cache      *cache.VersionedCache
	SunSource  timecatalog.SunSource
	Tiers      shiftsplitter.TierThresholds
	Lat, Lng   float64
	Log        *logrus.Entry
}

// Service implements BulkPayrollService (spec §4.5): compute PayrollResult
// for a set of employees for one (year, month) with a fixed, small number
// of database round-trips.
type Service struct {
	deps Dependencies
	cfg  Config
}

// New builds a Service.
func New(deps Dependencies, cfg Config) *Service {
	if deps.Log == nil {
		deps.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{deps: deps, cfg: cfg}
}

// Run executes the batch for employeeIDs (or every active employee, when
// empty) for (year, month).
func (s *Service) Run(ctx context.Context, employeeIDs []uuid.UUID, year, month int, opts Options) (*Result, error) {
	start := time.Now()
	if opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Deadline)
		defer cancel()
	}
	if opts.StrategyName == "" {
		opts.StrategyName = payroll.Enhanced
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	// Query 1+2: employees + active salary, one join-equivalent call.
	employees, err := s.deps.Employees.ListActiveWithSalary()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBulkLoadFailed, err)
	}
	wanted := toSet(employeeIDs)
	employees = filterEmployees(employees, wanted)

	// Query 3: every WorkLog for the month across every requested employee.
	allLogs, err := s.deps.WorkLogs.ListForRangeAllEmployees(monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBulkLoadFailed, err)
	}
	logsByEmployee := groupLogsByEmployee(allLogs)

	// Query 4: every Holiday/Shabbat row touching the month.
	holidays, err := s.deps.Holidays.GetRange(monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBulkLoadFailed, err)
	}
	holidayRepo := newInMemoryHolidayRepo(holidays)
	vc := s.deps.Cache
	catalog := timecatalog.New(holidayRepo, nil, s.deps.SunSource, vc, timecatalog.DefaultConfig(), s.deps.Log)

	// Query 5 (optional): existing summary rows, the DB-durable half of the
	// cache-check layer (Redis is the fast half, checked per employee below).
	var existingSummaries map[uuid.UUID]domain.MonthlyPayrollSummary
	if opts.UseCache && !opts.InvalidateCache {
		rows, err := s.deps.Summaries.ListForMonth(year, month)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrBulkLoadFailed, err)
		}
		existingSummaries = make(map[uuid.UUID]domain.MonthlyPayrollSummary, len(rows))
		for _, row := range rows {
			existingSummaries[row.EmployeeID] = row
		}
	}

	if opts.InvalidateCache {
		for _, e := range employees {
			vc.Delete(ctx, cacheKey(e.Employee.ID, year, month)) //nolint:errcheck // best-effort invalidation
		}
	}

	splitter := shiftsplitter.New(catalog, s.deps.Tiers, s.deps.Lat, s.deps.Lng)

	workers := s.cfg.WorkerCap
	if !opts.UseParallel || len(employees) < s.cfg.ThreadCutoff {
		workers = 1
	}
	if workers < 1 {
		workers = 1
	}

	result := &Result{}
	var mu sync.Mutex
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, e := range employees {
		e := e
		select {
		case <-ctx.Done():
			mu.Lock()
			result.Failures = append(result.Failures, Failure{EmployeeID: e.Employee.ID, Reason: "deadline_exceeded", Err: ctx.Err()})
			result.Failed++
			mu.Unlock()
			continue
		default:
		}

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			er, fail := s.runOne(ctx, e, year, month, opts, logsByEmployee[e.Employee.ID], splitter, catalog, existingSummaries)

			mu.Lock()
			defer mu.Unlock()
			if fail != nil {
				result.Failures = append(result.Failures, *fail)
				result.Failed++
				return
			}
			result.Results = append(result.Results, *er)
			result.Successful++
			if er.FromCache {
				result.CachedCount++
			}
		}()
	}
	wg.Wait()

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].EmployeeID.String() < result.Results[j].EmployeeID.String()
	})
	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].EmployeeID.String() < result.Failures[j].EmployeeID.String()
	})

	result.Duration = time.Since(start)
	if result.Duration > 0 {
		result.Throughput = float64(result.Successful) / result.Duration.Seconds()
	}
	return result, nil
}

func (s *Service) runOne(
	ctx context.Context,
	e repository.EmployeeWithSalary,
	year, month int,
	opts Options,
	logs []domain.WorkLog,
	splitter *shiftsplitter.Splitter,
	catalog *timecatalog.TimeCatalog,
	existingSummaries map[uuid.UUID]domain.MonthlyPayrollSummary,
) (*EmployeeResult, *Failure) {
	employeeID := e.Employee.ID

	if opts.UseCache && !opts.InvalidateCache {
		var cached domain.PayrollResult
		if hit, _ := s.deps.Cache.Get(ctx, cacheKey(employeeID, year, month), &cached); hit {
			return &EmployeeResult{EmployeeID: employeeID, Result: &cached, FromCache: true}, nil
		}
		if row, ok := existingSummaries[employeeID]; ok {
			return &EmployeeResult{EmployeeID: employeeID, Result: summaryToResult(row), FromCache: true}, nil
		}
	}

	if e.Salary == nil {
		return nil, &Failure{EmployeeID: employeeID, Reason: "no_active_salary", Err: domain.ErrNoActiveSalary}
	}

	deps := payroll.DefaultDependencies()
	deps.WorkLogs = &inMemoryWorkLogRepo{employeeID: employeeID, logs: logs}
	deps.Salaries = &inMemorySalaryRepo{salary: e.Salary}
	deps.CompDays = s.deps.CompDays
	deps.Splitter = splitter
	deps.Catalog = catalog
	deps.Lat, deps.Lng = s.deps.Lat, s.deps.Lng

	strategy := payroll.NewStrategy(opts.StrategyName, deps, s.deps.Log)
	payrollResult, segments, err := strategy.CalculateDetailed(ctx, employeeID, year, month, opts.FastMode)
	if err != nil {
		return nil, &Failure{EmployeeID: employeeID, Reason: "calculation_failed", Err: err}
	}

	if opts.SaveToDB {
		if err := s.persist(employeeID, year, month, payrollResult, segments); err != nil {
			return nil, &Failure{EmployeeID: employeeID, Reason: "persist_failed", Err: err}
		}
	}

	if opts.UseCache {
		_ = s.deps.Cache.Set(ctx, cacheKey(employeeID, year, month), payrollResult, s.cfg.CacheTTL)
	}

	return &EmployeeResult{EmployeeID: employeeID, Result: payrollResult}, nil
}

// persist upserts the MonthlyPayrollSummary and replaces every
// DailyPayrollCalculation row keyed by the WorkLogs this run touched,
// through recalc.PersistResult; the writes are not wrapped in one shared
// transaction, so a failure part-way leaves the earlier writes in place.
func (s *Service) persist(employeeID uuid.UUID, year, month int, result *domain.PayrollResult, segments []domain.PayrollSegment) error {
	return recalc.PersistResult(s.deps.Summaries, s.deps.DailyCalcs, employeeID, year, month, result, segments)
}

func cacheKey(employeeID uuid.UUID, year, month int) string {
	return fmt.Sprintf("monthly_summary:%s:%d:%d", employeeID, year, month)
}

// summaryToResult reconstructs a coarse PayrollResult from a durable
// MonthlyPayrollSummary row for the DB-backed half of the cache check —
// per-classification Breakdown and DailyPays aren't persisted at that
// granularity, so a cache-hit-from-DB result omits them.
func summaryToResult(row domain.MonthlyPayrollSummary) *domain.PayrollResult {
	return &domain.PayrollResult{
		EmployeeID:             row.EmployeeID,
		Year:                   row.Year,
		Month:                  row.Month,
		TotalHours:             row.TotalHours,
		RegularHours:           row.RegularHours,
		OvertimeHours:          row.OvertimeHours,
		SpecialHours:           row.SpecialHours,
		BasePay:                row.BasePay,
		BonusesPay:             row.BonusesPay,
		TotalPay:               row.TotalPay,
		CompensatoryDaysEarned: row.CompensatoryDaysEarned,
		Degraded:               row.Degraded,
		RatesUsed:              map[domain.Classification]decimal.Decimal{},
	}
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	if len(ids) == 0 {
		return nil
	}
	out := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func filterEmployees(employees []repository.EmployeeWithSalary, wanted map[uuid.UUID]struct{}) []repository.EmployeeWithSalary {
	if wanted == nil {
		return employees
	}
	out := make([]repository.EmployeeWithSalary, 0, len(wanted))
	for _, e := range employees {
		if _, ok := wanted[e.Employee.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}

func groupLogsByEmployee(logs []domain.WorkLog) map[uuid.UUID][]domain.WorkLog {
	out := map[uuid.UUID][]domain.WorkLog{}
	for _, l := range logs {
		out[l.EmployeeID] = append(out[l.EmployeeID], l)
	}
	return out
}
