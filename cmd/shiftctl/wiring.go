package main

import (
	"log"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"shiftledger/db"
	"shiftledger/internal/cache"
	"shiftledger/internal/config"
	"shiftledger/internal/repository"
	"shiftledger/internal/task"
	"shiftledger/internal/timecatalog"
)

// env is a thin wrapper over the process's DB + Redis + config, shared by
// every shiftctl subcommand so each one doesn't repeat the same boilerplate.
type env struct {
	gdb    *gorm.DB
	cfg    *config.Config
	cache  *cache.VersionedCache
	runner *task.Runner
	log    *logrus.Entry
}

func newEnv() *env {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("shiftctl: loading config: %v", err)
	}

	gdb := db.InitDB()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr()})
	logger := logrus.NewEntry(logrus.StandardLogger())
	vc := cache.New(cache.NewRedisClient(rdb), "shiftledger", cfg.Cache.Version, logger)

	return &env{
		gdb:    gdb,
		cfg:    cfg,
		cache:  vc,
		runner: task.NewRunner(vc, logger),
		log:    logger,
	}
}

func redisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func (e *env) holidayRepo() repository.HolidayRepository {
	return repository.NewHolidayGormRepository(e.gdb)
}

func (e *env) catalog(holidaySrc timecatalog.HolidaySource) *timecatalog.TimeCatalog {
	return timecatalog.New(e.holidayRepo(), holidaySrc, timecatalog.NOAASunSource{}, e.cache, e.cfg.TimeCatalogConfig(), e.log)
}
