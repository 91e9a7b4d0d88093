package timecatalog

import (
	"context"
	"math"
	"time"
)

// NOAASunSource computes sunrise/sunset from the NOAA solar position
// approximation (the standard closed-form algorithm used by most
// sunrise/sunset calculators). It needs no network access, so its only
// failure mode is polar-day/polar-night (math.NaN), which is treated like
// any other SunSource failure and degrades to the TimeCatalog estimate.
type NOAASunSource struct{}

func (NOAASunSource) FetchSun(_ context.Context, date time.Time, lat, lng float64) (time.Time, time.Time, error) {
	sunrise, sunset, ok := sunriseSunsetUTC(date, lat, lng)
	if !ok {
		return time.Time{}, time.Time{}, errPolarDay
	}
	return sunrise, sunset, nil
}

var errPolarDay = errPolar{}

type errPolar struct{}

func (errPolar) Error() string { return "timecatalog: no sunrise/sunset at this latitude/date (polar day or night)" }

// sunriseSunsetUTC implements the NOAA general solar position equations.
// Returns ok=false when the sun never rises or sets (|lat| near the poles).
func sunriseSunsetUTC(date time.Time, lat, lng float64) (sunrise, sunset time.Time, ok bool) {
	dayOfYear := float64(date.YearDay())
	latRad := lat * math.Pi / 180

	// Fractional year, in radians.
	gamma := 2 * math.Pi / 365 * (dayOfYear - 1)

	// Equation of time (minutes) and solar declination (radians).
	eqTime := 229.18 * (0.000075 + 0.001868*math.Cos(gamma) - 0.032077*math.Sin(gamma) -
		0.014615*math.Cos(2*gamma) - 0.040849*math.Sin(2*gamma))
	decl := 0.006918 - 0.399912*math.Cos(gamma) + 0.070257*math.Sin(gamma) -
		0.006758*math.Cos(2*gamma) + 0.000907*math.Sin(2*gamma) -
		0.002697*math.Cos(3*gamma) + 0.00148*math.Sin(3*gamma)

	cosHourAngle := (math.Cos(90.833*math.Pi/180) / (math.Cos(latRad) * math.Cos(decl))) - math.Tan(latRad)*math.Tan(decl)
	if cosHourAngle < -1 || cosHourAngle > 1 {
		return time.Time{}, time.Time{}, false
	}
	hourAngle := math.Acos(cosHourAngle) * 180 / math.Pi

	sunriseMinutesUTC := 720 - 4*(lng+hourAngle) - eqTime
	sunsetMinutesUTC := 720 - 4*(lng-hourAngle) - eqTime

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	sunrise = midnight.Add(time.Duration(sunriseMinutesUTC * float64(time.Minute)))
	sunset = midnight.Add(time.Duration(sunsetMinutesUTC * float64(time.Minute)))
	return sunrise, sunset, true
}
