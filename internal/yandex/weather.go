package yandex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/karfly/WeatherBletherBot/internal/forecast"
	"github.com/karfly/WeatherBletherBot/internal/httputil"
	"github.com/karfly/WeatherBletherBot/internal/models"
)

const weatherURL = "https://api.weather.yandex.ru/v1/forecast"

// WeatherClient fetches hourly forecasts from the Yandex Weather API.
type WeatherClient struct {
	apiKey string
	opts   options
	fetch  *httputil.Fetcher
}

func NewWeatherClient(apiKey string, opts ...Option) *WeatherClient {
	o := buildOptions(weatherURL, opts)
	return &WeatherClient{
		apiKey: apiKey,
		opts:   o,
		fetch:  httputil.NewFetcher("yandex_weather", o.client),
	}
}

type weatherResponse struct {
	L10n      map[string]string `json:"l10n"`
	Forecasts []struct {
		Date  string `json:"date"`
		Hours []struct {
			HourTS    int64   `json:"hour_ts"`
			Temp      float64 `json:"temp"`
			Condition string  `json:"condition"`
			Humidity  int     `json:"humidity"`
			WindSpeed float64 `json:"wind_speed"`
		} `json:"hours"`
	} `json:"forecasts"`
}

// Forecast returns the hourly forecast series for a point, flattened across
// forecast days. It returns models.ErrForecastUnavailable for an empty series.
func (c *WeatherClient) Forecast(ctx context.Context, lat, lon float64) ([]models.ForecastSample, error) {
	params := url.Values{
		"lat":  {httputil.FormatFloat(lat)},
		"lon":  {httputil.FormatFloat(lon)},
		"l10n": {"true"},
	}
	header := http.Header{}
	header.Set("X-Yandex-API-Key", c.apiKey)

	body, err := c.fetch.Get(ctx, c.opts.baseURL+"?"+params.Encode(), header)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	location := fmt.Sprintf("%.4f,%.4f", lat, lon)
	c.opts.archivePayload("yandex", "forecast", location, body)

	samples, err := parseForecast(body)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("forecast for %s: %w", location, models.ErrForecastUnavailable)
	}
	return samples, nil
}

func parseForecast(body []byte) ([]models.ForecastSample, error) {
	var data weatherResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal forecast: %w", err)
	}

	var samples []models.ForecastSample
	for _, day := range data.Forecasts {
		for _, h := range day.Hours {
			text, ok := data.L10n[h.Condition]
			if !ok {
				text = forecast.DescribeCondition(h.Condition)
			}
			samples = append(samples, models.ForecastSample{
				Time:          time.Unix(h.HourTS, 0).UTC(),
				Condition:     h.Condition,
				ConditionText: text,
				Temp:          h.Temp,
				Humidity:      h.Humidity,
				WindSpeed:     h.WindSpeed,
			})
		}
	}
	return samples, nil
}
