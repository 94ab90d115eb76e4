package models

import "errors"

var (
	// ErrCityNotFound means the geocoder had no place for the city name.
	ErrCityNotFound = errors.New("city not found")
	// ErrForecastUnavailable means the forecast series for a location was empty.
	ErrForecastUnavailable = errors.New("forecast unavailable")
	// ErrNoResults means an image or poem search came back empty.
	ErrNoResults = errors.New("no search results")
)

// Outcome maps a reply error to its journal outcome.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeAnswered
	case errors.Is(err, ErrCityNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrForecastUnavailable):
		return OutcomeNoData
	case errors.Is(err, ErrNoResults):
		return OutcomeNoResult
	default:
		return OutcomeFailed
	}
}
