package bulk_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shiftledger/internal/bulk"
	"shiftledger/internal/cache"
	"shiftledger/internal/domain"
	"shiftledger/internal/payroll"
	"shiftledger/internal/repository"
	"shiftledger/internal/shiftsplitter"
	"shiftledger/internal/timecatalog"
)

type fakeEmployeeRepo struct{ rows []repository.EmployeeWithSalary }

func (f *fakeEmployeeRepo) GetByID(uuid.UUID) (*domain.Employee, error) { return nil, nil }
func (f *fakeEmployeeRepo) ListActive() ([]domain.Employee, error)     { return nil, nil }
func (f *fakeEmployeeRepo) ListActiveWithSalary() ([]repository.EmployeeWithSalary, error) {
	return f.rows, nil
}

type fakeWorkLogRepo struct{ logs []domain.WorkLog }

func (f *fakeWorkLogRepo) OpenShift(*domain.WorkLog) error { return nil }
func (f *fakeWorkLogRepo) CloseShift(uuid.UUID, time.Time, string) (*domain.WorkLog, error) {
	return nil, nil
}
func (f *fakeWorkLogRepo) SoftDelete(uuid.UUID, uuid.UUID) error              { return nil }
func (f *fakeWorkLogRepo) GetByID(uuid.UUID) (*domain.WorkLog, error)         { return nil, nil }
func (f *fakeWorkLogRepo) ListActive(uuid.UUID) ([]domain.WorkLog, error)     { return nil, nil }
func (f *fakeWorkLogRepo) ListForRange(uuid.UUID, time.Time, time.Time) ([]domain.WorkLog, error) {
	return nil, nil
}
func (f *fakeWorkLogRepo) ListForRangeIncludingDeleted(uuid.UUID, time.Time, time.Time) ([]domain.WorkLog, error) {
	return nil, nil
}
func (f *fakeWorkLogRepo) ListForRangeAllEmployees(time.Time, time.Time) ([]domain.WorkLog, error) {
	return f.logs, nil
}
func (f *fakeWorkLogRepo) BulkCreate([]domain.WorkLog) error { return nil }

type fakeHolidayRepo struct{}

func (f *fakeHolidayRepo) GetByDate(time.Time) (*domain.Holiday, error) { return nil, nil }
func (f *fakeHolidayRepo) GetRange(time.Time, time.Time) ([]domain.Holiday, error) {
	return nil, nil
}
func (f *fakeHolidayRepo) Replace(int, []domain.Holiday) error { return nil }

type fakeCompDayRepo struct{}

func (f *fakeCompDayRepo) CreateIfAbsent(*domain.CompensatoryDay) (bool, error) { return true, nil }
func (f *fakeCompDayRepo) Balance(uuid.UUID) (int, error)                      { return 0, nil }
func (f *fakeCompDayRepo) ListUnused(uuid.UUID) ([]domain.CompensatoryDay, error) {
	return nil, nil
}
func (f *fakeCompDayRepo) MarkUsed(uuid.UUID, time.Time) error { return nil }

type fakeSummaryRepo struct {
	upserted []domain.MonthlyPayrollSummary
	existing []domain.MonthlyPayrollSummary
}

func (f *fakeSummaryRepo) Upsert(s *domain.MonthlyPayrollSummary) error {
	f.upserted = append(f.upserted, *s)
	return nil
}
func (f *fakeSummaryRepo) Get(uuid.UUID, int, int) (*domain.MonthlyPayrollSummary, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeSummaryRepo) ListForMonth(int, int) ([]domain.MonthlyPayrollSummary, error) {
	return f.existing, nil
}

type fakeDailyCalcRepo struct{ replaced map[uuid.UUID][]domain.DailyPayrollCalculation }

func newFakeDailyCalcRepo() *fakeDailyCalcRepo {
	return &fakeDailyCalcRepo{replaced: map[uuid.UUID][]domain.DailyPayrollCalculation{}}
}
func (f *fakeDailyCalcRepo) ReplaceForWorkLog(_ *gorm.DB, workLogID uuid.UUID, rows []domain.DailyPayrollCalculation) error {
	f.replaced[workLogID] = rows
	return nil
}
func (f *fakeDailyCalcRepo) ListForMonth(uuid.UUID, int, int) ([]domain.DailyPayrollCalculation, error) {
	return nil, nil
}
func (f *fakeDailyCalcRepo) ListForMonthAllEmployees(int, int) ([]domain.DailyPayrollCalculation, error) {
	return nil, nil
}
func (f *fakeDailyCalcRepo) WithTx(tx *gorm.DB) repository.DailyPayrollCalculationRepository {
	return f
}

type fakeCacheClient struct{ store map[string]string }

func newFakeCacheClient() *fakeCacheClient { return &fakeCacheClient{store: map[string]string{}} }
func (f *fakeCacheClient) Get(_ context.Context, key string) (string, error) {
	v, ok := f.store[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}
func (f *fakeCacheClient) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.store[key] = value
	return nil
}
func (f *fakeCacheClient) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.store, k)
	}
	return nil
}
func (f *fakeCacheClient) Scan(_ context.Context, _ string) ([]string, error) { return nil, nil }

func newTestService(rows []repository.EmployeeWithSalary, logs []domain.WorkLog, summaries *fakeSummaryRepo, dailyCalcs *fakeDailyCalcRepo) *bulk.Service {
	vc := cache.New(newFakeCacheClient(), "shiftledger", 1, nil)
	deps := bulk.Dependencies{
		Employees:  &fakeEmployeeRepo{rows: rows},
		WorkLogs:   &fakeWorkLogRepo{logs: logs},
		Holidays:   &fakeHolidayRepo{},
		CompDays:   &fakeCompDayRepo{},
		Summaries:  summaries,
		DailyCalcs: dailyCalcs,
		Cache:      vc,
		SunSource:  timecatalog.NOAASunSource{},
		Tiers:      shiftsplitter.DefaultTierThresholds(),
		Lat:        31.78,
		Lng:        35.22,
	}
	return bulk.New(deps, bulk.DefaultConfig())
}

func TestService_Run_ComputesEveryEmployeeSequentiallyBelowThreadCutoff(t *testing.T) {
	employeeID := uuid.New()
	rate := decimal.NewFromInt(40)
	rows := []repository.EmployeeWithSalary{{
		Employee: domain.Employee{BaseModel: domain.BaseModel{ID: employeeID}, Active: true},
		Salary:   &domain.Salary{EmployeeID: employeeID, CalculationType: domain.CalculationHourly, HourlyRate: &rate},
	}}

	checkIn := time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(8 * time.Hour)
	logs := []domain.WorkLog{{
		BaseModel:  domain.BaseModel{ID: uuid.New()},
		EmployeeID: employeeID,
		CheckIn:    checkIn,
		CheckOut:   &checkOut,
	}}

	svc := newTestService(rows, logs, &fakeSummaryRepo{}, newFakeDailyCalcRepo())

	result, err := svc.Run(context.Background(), nil, 2026, 8, bulk.Options{StrategyName: payroll.Enhanced})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "320.00", result.Results[0].Result.TotalPay.StringFixed(2))
}

func TestService_Run_MissingSalaryIsAPerEmployeeFailure(t *testing.T) {
	employeeID := uuid.New()
	rows := []repository.EmployeeWithSalary{{
		Employee: domain.Employee{BaseModel: domain.BaseModel{ID: employeeID}, Active: true},
		Salary:   nil,
	}}

	svc := newTestService(rows, nil, &fakeSummaryRepo{}, newFakeDailyCalcRepo())

	result, err := svc.Run(context.Background(), nil, 2026, 8, bulk.Options{StrategyName: payroll.Enhanced})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "no_active_salary", result.Failures[0].Reason)
}

func TestService_Run_SaveToDBPersistsSummaryAndDailyRows(t *testing.T) {
	employeeID := uuid.New()
	rate := decimal.NewFromInt(40)
	rows := []repository.EmployeeWithSalary{{
		Employee: domain.Employee{BaseModel: domain.BaseModel{ID: employeeID}, Active: true},
		Salary:   &domain.Salary{EmployeeID: employeeID, CalculationType: domain.CalculationHourly, HourlyRate: &rate},
	}}

	workLogID := uuid.New()
	checkIn := time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(8 * time.Hour)
	logs := []domain.WorkLog{{
		BaseModel:  domain.BaseModel{ID: workLogID},
		EmployeeID: employeeID,
		CheckIn:    checkIn,
		CheckOut:   &checkOut,
	}}

	summaries := &fakeSummaryRepo{}
	dailyCalcs := newFakeDailyCalcRepo()
	svc := newTestService(rows, logs, summaries, dailyCalcs)

	result, err := svc.Run(context.Background(), nil, 2026, 8, bulk.Options{StrategyName: payroll.Enhanced, SaveToDB: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Successful)

	require.Len(t, summaries.upserted, 1)
	assert.Equal(t, employeeID, summaries.upserted[0].EmployeeID)
	require.Contains(t, dailyCalcs.replaced, workLogID)
}

func TestService_Run_UsesRedisCacheOnSecondRun(t *testing.T) {
	employeeID := uuid.New()
	rate := decimal.NewFromInt(40)
	rows := []repository.EmployeeWithSalary{{
		Employee: domain.Employee{BaseModel: domain.BaseModel{ID: employeeID}, Active: true},
		Salary:   &domain.Salary{EmployeeID: employeeID, CalculationType: domain.CalculationHourly, HourlyRate: &rate},
	}}

	checkIn := time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(8 * time.Hour)
	logs := []domain.WorkLog{{
		BaseModel:  domain.BaseModel{ID: uuid.New()},
		EmployeeID: employeeID,
		CheckIn:    checkIn,
		CheckOut:   &checkOut,
	}}

	svc := newTestService(rows, logs, &fakeSummaryRepo{}, newFakeDailyCalcRepo())
	ctx := context.Background()

	first, err := svc.Run(ctx, nil, 2026, 8, bulk.Options{StrategyName: payroll.Enhanced, UseCache: true})
	require.NoError(t, err)
	assert.Equal(t, 0, first.CachedCount)

	second, err := svc.Run(ctx, nil, 2026, 8, bulk.Options{StrategyName: payroll.Enhanced, UseCache: true})
	require.NoError(t, err)
	assert.Equal(t, 1, second.CachedCount)
	require.Len(t, second.Results, 1)
	assert.True(t, second.Results[0].FromCache)
}
