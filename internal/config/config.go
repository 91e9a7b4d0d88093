package config

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"shiftledger/internal/shiftsplitter"
	"shiftledger/internal/timecatalog"
)

// Config is the process-wide configuration loaded once at startup (spec
// §6 "Configuration"). The teacher's own DB_HOST-style envs stay as plain
// os.Getenv calls in db.InitDB; everything nested here — cache tuning,
// payroll constants, bulk executor thresholds — is resolved through viper
// instead, since those keys naturally nest (cache.ttl.holidays,
// payroll.overtime_tiers.t1) in a way flat env-var lookups don't.
type Config struct {
	Cache struct {
		Version            int
		TTLHolidays        time.Duration
		TTLMonthlySummary  time.Duration
	}
	Payroll struct {
		OvertimeTiers         OvertimeTierConfig
		WeeklyOvertimeCap     decimal.Decimal
		DailyHardCapHours     decimal.Decimal
		StandardMonthlyHours  decimal.Decimal
	}
	Sabbath struct {
		CandleOffsetMinutes   int
		HavdalahOffsetMinutes int
	}
	Bulk struct {
		ThreadCutoff  int
		ProcessCutoff int
		WorkerCap     int
	}
	Signals struct {
		SkipInBulk bool
	}
	Idempotency struct {
		DefaultTTLHours int
	}
}

// OvertimeTierConfig mirrors shiftsplitter.TierThresholds in configuration
// form (plain floats, since viper doesn't know decimal.Decimal).
type OvertimeTierConfig struct {
	T1Start, T2Start, T3Start          float64
	T1Mult, T2Mult, T3Mult             float64
	PremiumBaseMult                    float64
	PremiumT1Mult, PremiumT2Mult       float64
}

// Load reads configuration from environment variables (prefixed
// SHIFTLEDGER_, nested keys joined by underscore, e.g.
// SHIFTLEDGER_CACHE_TTL_HOLIDAYS) and an optional config file, falling back
// to the spec's documented defaults for anything unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SHIFTLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("shiftledger")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/shiftledger")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	setDefaults(v)

	cfg := &Config{}
	cfg.Cache.Version = v.GetInt("cache.version")
	cfg.Cache.TTLHolidays = v.GetDuration("cache.ttl.holidays")
	cfg.Cache.TTLMonthlySummary = v.GetDuration("cache.ttl.monthly_summary")

	cfg.Payroll.OvertimeTiers = OvertimeTierConfig{
		T1Start:         v.GetFloat64("payroll.overtime_tiers.t1"),
		T2Start:         v.GetFloat64("payroll.overtime_tiers.t2"),
		T3Start:         v.GetFloat64("payroll.overtime_tiers.t3"),
		T1Mult:          v.GetFloat64("payroll.overtime_tiers.t1_mult"),
		T2Mult:          v.GetFloat64("payroll.overtime_tiers.t2_mult"),
		T3Mult:          v.GetFloat64("payroll.overtime_tiers.t3_mult"),
		PremiumBaseMult: v.GetFloat64("payroll.overtime_tiers.premium_base_mult"),
		PremiumT1Mult:   v.GetFloat64("payroll.overtime_tiers.premium_t1_mult"),
		PremiumT2Mult:   v.GetFloat64("payroll.overtime_tiers.premium_t2_mult"),
	}
	cfg.Payroll.WeeklyOvertimeCap = decimal.NewFromFloat(v.GetFloat64("payroll.weekly_overtime_cap"))
	cfg.Payroll.DailyHardCapHours = decimal.NewFromFloat(v.GetFloat64("payroll.daily_hard_cap_hours"))
	cfg.Payroll.StandardMonthlyHours = decimal.NewFromFloat(v.GetFloat64("payroll.standard_monthly_hours"))

	cfg.Sabbath.CandleOffsetMinutes = v.GetInt("sabbath.candle_offset_minutes")
	cfg.Sabbath.HavdalahOffsetMinutes = v.GetInt("sabbath.havdalah_offset_minutes")

	cfg.Bulk.ThreadCutoff = v.GetInt("bulk.thread_cutoff")
	cfg.Bulk.ProcessCutoff = v.GetInt("bulk.process_cutoff")
	cfg.Bulk.WorkerCap = v.GetInt("bulk.worker_cap")

	cfg.Signals.SkipInBulk = v.GetBool("signals.skip_in_bulk")
	cfg.Idempotency.DefaultTTLHours = v.GetInt("idempotency.default_ttl_hours")

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.version", 1)
	v.SetDefault("cache.ttl.holidays", 7*24*time.Hour)
	v.SetDefault("cache.ttl.monthly_summary", time.Hour)

	v.SetDefault("payroll.overtime_tiers.t1", 8.6)
	v.SetDefault("payroll.overtime_tiers.t2", 10.6)
	v.SetDefault("payroll.overtime_tiers.t3", 12.6)
	v.SetDefault("payroll.overtime_tiers.t1_mult", 1.25)
	v.SetDefault("payroll.overtime_tiers.t2_mult", 1.50)
	v.SetDefault("payroll.overtime_tiers.t3_mult", 1.75)
	v.SetDefault("payroll.overtime_tiers.premium_base_mult", 1.50)
	v.SetDefault("payroll.overtime_tiers.premium_t1_mult", 1.75)
	v.SetDefault("payroll.overtime_tiers.premium_t2_mult", 2.00)
	v.SetDefault("payroll.weekly_overtime_cap", 16)
	v.SetDefault("payroll.daily_hard_cap_hours", 16)
	v.SetDefault("payroll.standard_monthly_hours", 185)

	v.SetDefault("sabbath.candle_offset_minutes", 18)
	v.SetDefault("sabbath.havdalah_offset_minutes", 40)

	v.SetDefault("bulk.thread_cutoff", 10)
	v.SetDefault("bulk.process_cutoff", 50)
	v.SetDefault("bulk.worker_cap", 8)

	v.SetDefault("signals.skip_in_bulk", true)
	v.SetDefault("idempotency.default_ttl_hours", 24)
}

// TierThresholds converts OvertimeTierConfig into the decimal-based type
// shiftsplitter.Splitter actually takes.
func (c OvertimeTierConfig) TierThresholds() shiftsplitter.TierThresholds {
	return shiftsplitter.TierThresholds{
		T1Start:         decimal.NewFromFloat(c.T1Start),
		T2Start:         decimal.NewFromFloat(c.T2Start),
		T3Start:         decimal.NewFromFloat(c.T3Start),
		BaseMult:        decimal.NewFromInt(1),
		T1Mult:          decimal.NewFromFloat(c.T1Mult),
		T2Mult:          decimal.NewFromFloat(c.T2Mult),
		T3Mult:          decimal.NewFromFloat(c.T3Mult),
		PremiumBaseMult: decimal.NewFromFloat(c.PremiumBaseMult),
		PremiumT1Mult:   decimal.NewFromFloat(c.PremiumT1Mult),
		PremiumT2Mult:   decimal.NewFromFloat(c.PremiumT2Mult),
	}
}

// TimeCatalogConfig converts the Sabbath/Cache sections into
// timecatalog.Config.
func (c *Config) TimeCatalogConfig() timecatalog.Config {
	return timecatalog.Config{
		CandleOffset:        time.Duration(c.Sabbath.CandleOffsetMinutes) * time.Minute,
		HavdalahOffset:      time.Duration(c.Sabbath.HavdalahOffsetMinutes) * time.Minute,
		HolidayCacheTTL:     c.Cache.TTLHolidays,
		SunTimesCacheTTL:    365 * 24 * time.Hour,
		ExternalCallTimeout: 10 * time.Second,
	}
}
