package models

import (
	"database/sql"
	"time"
)

// Location is a geocoded place.
type Location struct {
	Name string // corrected display name, nominative
	Lat  float64
	Lon  float64
}

type ForecastSample struct {
	Time          time.Time
	Condition     string // provider code, e.g. "partly-cloudy"
	ConditionText string // localized description, e.g. "малооблачно"
	Temp          float64
	Humidity      int
	WindSpeed     float64
}

// ImageQuery carries the search text plus the facts behind it, so image
// sources that generate rather than search can build a richer prompt.
type ImageQuery struct {
	Text      string
	City      string
	Condition string // provider code
	Temp      float64
	At        time.Time
}

type PartKind int

const (
	PartForecast PartKind = iota
	PartImage
	PartPoem
)

func (k PartKind) String() string {
	switch k {
	case PartForecast:
		return "forecast"
	case PartImage:
		return "image"
	case PartPoem:
		return "poem"
	default:
		return "unknown"
	}
}

// Part is one item of a reply: forecast text, image URL, or poem text.
type Part struct {
	Kind    PartKind
	Content string
}

// Query outcomes recorded in the journal.
const (
	OutcomeAnswered = "answered"
	OutcomeNotFound = "city_not_found"
	OutcomeNoData   = "forecast_unavailable"
	OutcomeNoResult = "no_results"
	OutcomeFailed   = "failed"
)

type QueryRecord struct {
	ID           int64
	ChatID       sql.NullInt64
	Text         string
	City         string
	TargetTime   time.Time
	ResolvedName sql.NullString
	Lat          sql.NullFloat64
	Lon          sql.NullFloat64
	PartsSent    int
	Outcome      string
	ErrorMessage sql.NullString
	CreatedAt    time.Time
}
