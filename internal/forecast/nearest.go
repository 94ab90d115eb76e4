package forecast

import (
	"errors"
	"time"

	"github.com/karfly/WeatherBletherBot/internal/models"
)

// ErrEmptyInput is returned when there is nothing to select from.
var ErrEmptyInput = errors.New("forecast: no samples to select from")

// SelectNearest returns the sample closest in time to target. On a tie the
// earlier sample in the slice wins.
func SelectNearest(samples []models.ForecastSample, target time.Time) (models.ForecastSample, error) {
	if len(samples) == 0 {
		return models.ForecastSample{}, ErrEmptyInput
	}

	best := 0
	bestDist := absDuration(samples[0].Time.Sub(target))
	for i := 1; i < len(samples); i++ {
		if d := absDuration(samples[i].Time.Sub(target)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return samples[best], nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
