package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/karfly/WeatherBletherBot/internal/models"
)

func samplesAt(times ...time.Time) []models.ForecastSample {
	out := make([]models.ForecastSample, len(times))
	for i, ts := range times {
		out[i] = models.ForecastSample{Time: ts, Temp: float64(i)}
	}
	return out
}

func TestSelectNearest(t *testing.T) {
	base := time.Unix(1760000000, 0).UTC()

	tests := []struct {
		name     string
		samples  []models.ForecastSample
		target   time.Time
		wantTemp float64
	}{
		{
			name:     "closest after target",
			samples:  samplesAt(base.Add(-time.Hour), base, base.Add(2*time.Hour)),
			target:   base.Add(time.Second),
			wantTemp: 1,
		},
		{
			name:     "target before series",
			samples:  samplesAt(base, base.Add(time.Hour)),
			target:   base.Add(-48 * time.Hour),
			wantTemp: 0,
		},
		{
			name:     "target after series",
			samples:  samplesAt(base, base.Add(time.Hour)),
			target:   base.Add(48 * time.Hour),
			wantTemp: 1,
		},
		{
			name:     "tie goes to first",
			samples:  samplesAt(base, base.Add(2*time.Hour)),
			target:   base.Add(time.Hour),
			wantTemp: 0,
		},
		{
			name:     "unordered input",
			samples:  samplesAt(base.Add(5*time.Hour), base.Add(time.Hour), base.Add(3*time.Hour)),
			target:   base.Add(170 * time.Minute),
			wantTemp: 2,
		},
		{
			name:     "single sample",
			samples:  samplesAt(base),
			target:   base.Add(1000 * time.Hour),
			wantTemp: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectNearest(tt.samples, tt.target)
			if err != nil {
				t.Fatalf("SelectNearest: %v", err)
			}
			if got.Temp != tt.wantTemp {
				t.Errorf("selected sample %v, want %v", got.Temp, tt.wantTemp)
			}
		})
	}
}

func TestSelectNearest_Empty(t *testing.T) {
	_, err := SelectNearest(nil, time.Now())
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("err = %v, want ErrEmptyInput", err)
	}
}
