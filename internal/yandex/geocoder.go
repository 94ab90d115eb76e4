package yandex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/karfly/WeatherBletherBot/internal/httputil"
	"github.com/karfly/WeatherBletherBot/internal/models"
)

const geocodeURL = "https://geocode-maps.yandex.ru/1.x/"

// Geocoder resolves place names through the Yandex Geocoder HTTP API.
type Geocoder struct {
	apiKey string
	opts   options
	fetch  *httputil.Fetcher
}

func NewGeocoder(apiKey string, opts ...Option) *Geocoder {
	o := buildOptions(geocodeURL, opts)
	return &Geocoder{
		apiKey: apiKey,
		opts:   o,
		fetch:  httputil.NewFetcher("yandex_geocode", o.client),
	}
}

type geocodeResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					Name  string `json:"name"`
					Point struct {
						Pos string `json:"pos"`
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

// Geocode returns coordinates and the corrected name of the best match for
// name. It returns models.ErrCityNotFound when nothing matches.
func (g *Geocoder) Geocode(ctx context.Context, name string) (models.Location, error) {
	params := url.Values{
		"geocode": {name},
		"results": {"1"},
		"format":  {"json"},
	}
	if g.apiKey != "" {
		params.Set("apikey", g.apiKey)
	}

	body, err := g.fetch.Get(ctx, g.opts.baseURL+"?"+params.Encode(), http.Header{})
	if err != nil {
		return models.Location{}, fmt.Errorf("geocode %q: %w", name, err)
	}
	g.opts.archivePayload("yandex", "geocode", name, body)

	return parseGeocode(name, body)
}

func parseGeocode(name string, body []byte) (models.Location, error) {
	var data geocodeResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return models.Location{}, fmt.Errorf("unmarshal geocode: %w", err)
	}

	members := data.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return models.Location{}, fmt.Errorf("geocode %q: %w", name, models.ErrCityNotFound)
	}

	obj := members[0].GeoObject
	// pos is "lon lat"
	parts := strings.Fields(obj.Point.Pos)
	if len(parts) != 2 {
		return models.Location{}, fmt.Errorf("geocode %q: malformed position %q", name, obj.Point.Pos)
	}
	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("parse longitude: %w", err)
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("parse latitude: %w", err)
	}

	return models.Location{Name: obj.Name, Lat: lat, Lon: lon}, nil
}
