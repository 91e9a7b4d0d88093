package main

import (
	"context"
	"log"
	"os"
	"time"

	"shiftledger/api/handler"
	"shiftledger/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv" // For loading environment variables from .env file
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"shiftledger/db"
	"shiftledger/internal/bulk"
	"shiftledger/internal/cache"
	"shiftledger/internal/config"
	"shiftledger/internal/facade"
	"shiftledger/internal/payroll"
	"shiftledger/internal/recalc"
	"shiftledger/internal/repository"
	"shiftledger/internal/retention"
	"shiftledger/internal/service"
	"shiftledger/internal/shiftsplitter"
	"shiftledger/internal/signals"
	"shiftledger/internal/task"
	"shiftledger/internal/timecatalog"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	gdb := db.InitDB()
	logger := logrus.NewEntry(logrus.StandardLogger())

	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "" {
		ginMode = gin.ReleaseMode
	}
	gin.SetMode(ginMode)
	router := gin.Default()

	// --- Dependency Injection for Audit Log and Authentication ---
	auditRepo := repository.NewAuditLogGormRepository(gdb)
	userRepo := repository.NewUserGormRepository(gdb)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set.")
	}
	authService := service.NewAuthService(userRepo, auditRepo, jwtSecret)
	authHandler := handler.NewAuthHandler(authService)

	// --- Cache + idempotent task runner ---
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr()})
	vc := cache.New(cache.NewRedisClient(rdb), "shiftledger", cfg.Cache.Version, logger)
	runner := task.NewRunner(vc, logger)
	bus := task.NewBus(64, logger)

	// --- Repositories shared by the payroll domain ---
	workLogRepo := repository.NewWorkLogGormRepository(gdb)
	salaryRepo := repository.NewSalaryGormRepository(gdb)
	holidayRepo := repository.NewHolidayGormRepository(gdb)
	compDayRepo := repository.NewCompensatoryDayGormRepository(gdb)
	employeeRepo := repository.NewEmployeeGormRepository(gdb)
	summaryRepo := repository.NewMonthlyPayrollSummaryGormRepository(gdb)
	dailyCalcRepo := repository.NewDailyPayrollCalculationGormRepository(gdb)

	lat, lng := locationDefaults()
	holidaySrc := timecatalog.NewHTTPHolidaySource(holidayAPIBaseURL())
	sunSrc := timecatalog.NOAASunSource{}
	catalog := timecatalog.New(holidayRepo, holidaySrc, sunSrc, vc, cfg.TimeCatalogConfig(), logger)
	splitter := shiftsplitter.New(catalog, cfg.Payroll.OvertimeTiers.TierThresholds(), lat, lng)

	strategyDeps := payroll.Dependencies{
		WorkLogs:             workLogRepo,
		Salaries:             salaryRepo,
		CompDays:             compDayRepo,
		Splitter:             splitter,
		Catalog:              catalog,
		Lat:                  lat,
		Lng:                  lng,
		StandardMonthlyHours: cfg.Payroll.StandardMonthlyHours,
		WeeklyOvertimeCap:    cfg.Payroll.WeeklyOvertimeCap,
		DailyWarnHours:       payroll.DefaultDependencies().DailyWarnHours,
		DailyHardCapHours:    cfg.Payroll.DailyHardCapHours,
	}

	// recalcFn is the RecalcPayrollFunc signals.Dispatcher enqueues on every
	// check-in, check-out, and soft-delete, always against the enhanced
	// strategy: a shift edit never re-derives a month under the legacy
	// formula, and any stored summary for that month is replaced by the
	// enhanced result.
	enhancedStrategy := payroll.NewStrategy(payroll.Enhanced, strategyDeps, logger)
	recomputer := recalc.NewRecomputer(enhancedStrategy, summaryRepo, dailyCalcRepo)
	var recalcFn signals.RecalcPayrollFunc = recomputer.Run

	dispatcher := signals.NewDispatcher(workLogRepo, bus, runner, recalcFn, logger)

	bulkSvc := bulk.New(bulk.Dependencies{
		Employees:  employeeRepo,
		WorkLogs:   workLogRepo,
		Holidays:   holidayRepo,
		CompDays:   compDayRepo,
		Summaries:  summaryRepo,
		DailyCalcs: dailyCalcRepo,
		Cache:      vc,
		SunSource:  sunSrc,
		Tiers:      cfg.Payroll.OvertimeTiers.TierThresholds(),
		Lat:        lat,
		Lng:        lng,
		Log:        logger,
	}, bulk.Config{
		ThreadCutoff:  cfg.Bulk.ThreadCutoff,
		ProcessCutoff: cfg.Bulk.ProcessCutoff,
		WorkerCap:     cfg.Bulk.WorkerCap,
		CacheTTL:      cfg.Cache.TTLMonthlySummary,
	})

	f := facade.New(dispatcher, workLogRepo, strategyDeps, bulkSvc, logger)

	workLogHandler := handler.NewWorkLogHandler(f)
	payrollHandler := handler.NewPayrollHandler(f)

	// --- Background workers ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus.Start(ctx, 4)

	warmer := signals.NewHolidayWarmer(catalog, runner, logger)
	go warmer.RunDaily(ctx, 24*time.Hour)

	sweeper := retention.NewSweeper(gdb, runner, retention.DefaultConfig(), logger)
	go runRetentionSweepDaily(ctx, sweeper, logger)

	// --- Register API Routes ---
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(userRepo))
	{
		protected.GET("/me", func(c *gin.Context) {
			user, _ := c.Get("currentUser")
			c.JSON(200, gin.H{"message": "Welcome!", "user": user})
		})

		employeeRoutes := protected.Group("/employee")
		employeeRoutes.Use(middleware.AuthorizeMiddleware("employee"))
		{
			employeeRoutes.POST("/worklogs/check-in", workLogHandler.CheckIn)
			employeeRoutes.POST("/worklogs/check-out", workLogHandler.CheckOut)
			employeeRoutes.DELETE("/worklogs/:id", workLogHandler.SoftDelete)
			employeeRoutes.GET("/worklogs/active/:employeeID", workLogHandler.ListActiveSessions)
			employeeRoutes.POST("/payroll/calculate", payrollHandler.Calculate)
		}

		adminRoutes := protected.Group("/admin")
		adminRoutes.Use(middleware.AuthorizeMiddleware("admin"))
		{
			adminRoutes.GET("/dashboard", func(c *gin.Context) {
				c.JSON(200, gin.H{"message": "Admin Dashboard"})
			})
			adminRoutes.POST("/payroll/bulk-calculate", payrollHandler.BulkCalculate)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func redisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func holidayAPIBaseURL() string {
	if url := os.Getenv("HOLIDAY_API_BASE_URL"); url != "" {
		return url
	}
	return "https://www.hebcal.com/hebcal"
}

func locationDefaults() (lat, lng float64) {
	return 31.78, 35.22
}

func runRetentionSweepDaily(ctx context.Context, sweeper *retention.Sweeper, log *logrus.Entry) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sweeper.Run(ctx); err != nil {
				log.WithError(err).Error("retention sweep failed")
			}
		}
	}
}
