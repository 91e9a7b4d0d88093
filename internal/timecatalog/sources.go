package timecatalog

import (
	"context"
	"time"

	"shiftledger/internal/domain"
)

// HolidaySource is the injectable Hebrew-calendar holiday source (spec §6
// "Holiday/sun source... injectable interface... mockable via a single test
// fixture"). Production code never branches on "mock mode"; tests swap this
// interface for a recorded-response fake once per test session.
//
//go:generate mockgen -source=sources.go -destination=../../tests/mocks/timecatalog/mock_sources.go -package=mocks
type HolidaySource interface {
	FetchHolidays(ctx context.Context, year int) ([]domain.Holiday, error)
}

// SunSource supplies sunrise/sunset for a date and location.
type SunSource interface {
	FetchSun(ctx context.Context, date time.Time, lat, lng float64) (sunrise, sunset time.Time, err error)
}
