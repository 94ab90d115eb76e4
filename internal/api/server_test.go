package api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/karfly/WeatherBletherBot/internal/answer"
	"github.com/karfly/WeatherBletherBot/internal/api"
	"github.com/karfly/WeatherBletherBot/internal/dicts"
	"github.com/karfly/WeatherBletherBot/internal/models"
	"github.com/karfly/WeatherBletherBot/internal/morph"
	"github.com/karfly/WeatherBletherBot/internal/query"
	"github.com/karfly/WeatherBletherBot/internal/store"
)

type stubCollaborators struct {
	geoErr  error
	poemErr error
}

func (s stubCollaborators) Geocode(ctx context.Context, name string) (models.Location, error) {
	if s.geoErr != nil {
		return models.Location{}, s.geoErr
	}
	return models.Location{Name: name, Lat: 55.75, Lon: 37.61}, nil
}

func (s stubCollaborators) Forecast(ctx context.Context, lat, lon float64) ([]models.ForecastSample, error) {
	return []models.ForecastSample{{
		Time: time.Now(), Condition: "clear", ConditionText: "ясно", Temp: 10, Humidity: 50, WindSpeed: 2,
	}}, nil
}

func (s stubCollaborators) FindImage(ctx context.Context, q models.ImageQuery) (string, error) {
	return "http://img.example/sun.jpg", nil
}

func (s stubCollaborators) FindPoem(ctx context.Context, q string) (string, error) {
	if s.poemErr != nil {
		return "", s.poemErr
	}
	return "Солнце светит", nil
}

func setupServer(t *testing.T, collab stubCollaborators) (*api.Server, *store.Store) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	s := store.New(db)
	if err := s.Migrate(); err != nil {
		t.Fatal(err)
	}

	d, err := dicts.Default()
	if err != nil {
		t.Fatal(err)
	}
	analyzer := morph.NewAnalyzer()
	composer := answer.NewComposer(answer.Config{
		Parser:     query.NewParser(d, analyzer),
		Morph:      analyzer,
		Geocoder:   collab,
		Forecaster: collab,
		Images:     collab,
		Poems:      collab,
		Journal:    s,
	})
	return api.NewServer(composer, s, "8080"), s
}

func get(t *testing.T, srv *api.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	srv, _ := setupServer(t, stubCollaborators{})

	w := get(t, srv, "/health")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var health api.HealthStatus
	if err := json.NewDecoder(w.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("status = %q, want ok", health.Status)
	}
	if health.MigrationVersion < 1 {
		t.Errorf("migration_version = %d, want >= 1", health.MigrationVersion)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	srv, _ := setupServer(t, stubCollaborators{})

	w := get(t, srv, "/metrics")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Error("expected Prometheus exposition output")
	}
}

func TestAnswerEndpoint(t *testing.T) {
	t.Parallel()
	srv, st := setupServer(t, stubCollaborators{})

	w := get(t, srv, "/api/answer?q="+url.QueryEscape("погода в Казани завтра"))
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp api.AnswerResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.City != "Казань" {
		t.Errorf("city = %q, want Казань", resp.City)
	}
	if !strings.HasPrefix(resp.Forecast, "В Казани будет ясно") {
		t.Errorf("forecast = %q", resp.Forecast)
	}
	if resp.ImageURL != "http://img.example/sun.jpg" || resp.Poem != "Солнце светит" {
		t.Errorf("image = %q, poem = %q", resp.ImageURL, resp.Poem)
	}

	records, err := st.RecentQueries(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Outcome != models.OutcomeAnswered {
		t.Errorf("journal = %+v", records)
	}
}

func TestAnswerEndpointStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		collab stubCollaborators
		query  string
		want   int
	}{
		{"missing q", stubCollaborators{}, "", http.StatusBadRequest},
		{"blank q", stubCollaborators{}, "   ", http.StatusBadRequest},
		{"city not found", stubCollaborators{geoErr: fmt.Errorf("geocode: %w", models.ErrCityNotFound)}, "в Нигдеграде", http.StatusNotFound},
		{"poem failure", stubCollaborators{poemErr: fmt.Errorf("poem: %w", models.ErrNoResults)}, "в Москве", http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := setupServer(t, tt.collab)
			w := get(t, srv, "/api/answer?q="+url.QueryEscape(tt.query))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestAnswerEndpointKeepsPartialParts(t *testing.T) {
	t.Parallel()
	srv, _ := setupServer(t, stubCollaborators{poemErr: fmt.Errorf("poem: %w", models.ErrNoResults)})

	w := get(t, srv, "/api/answer?q="+url.QueryEscape("в Москве"))
	var resp api.AnswerResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Forecast == "" || resp.ImageURL == "" {
		t.Errorf("expected forecast and image before the failure: %+v", resp)
	}
	if resp.Poem != "" || resp.Error == "" {
		t.Errorf("poem = %q, error = %q", resp.Poem, resp.Error)
	}
}

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()
	srv, _ := setupServer(t, stubCollaborators{geoErr: fmt.Errorf("geocode: %w", models.ErrCityNotFound)})

	get(t, srv, "/api/answer?q="+url.QueryEscape("в Нигдеграде"))

	w := get(t, srv, "/api/stats?hours=1")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp api.StatsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Queries.Total != 1 || resp.Queries.ByOutcome[models.OutcomeNotFound] != 1 {
		t.Errorf("queries = %+v", resp.Queries)
	}

	if w := get(t, srv, "/api/stats?hours=abc"); w.Code != http.StatusBadRequest {
		t.Errorf("invalid hours status = %d, want 400", w.Code)
	}
}

func TestStatsEndpointLatestPayloads(t *testing.T) {
	t.Parallel()
	srv, st := setupServer(t, stubCollaborators{})

	if err := st.ArchivePayload("yandex", "forecast", "55.7500,37.6100", []byte(`{"fact":{"temp":3}}`)); err != nil {
		t.Fatal(err)
	}

	w := get(t, srv, "/api/stats")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp api.StatsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Latest) != 1 {
		t.Fatalf("latest = %+v, want one forecast entry", resp.Latest)
	}
	got := resp.Latest[0]
	if got.Endpoint != "forecast" || got.LocationID != "55.7500,37.6100" || got.ID == 0 {
		t.Errorf("latest[0] = %+v", got)
	}
}

func TestPayloadEndpoint(t *testing.T) {
	t.Parallel()
	srv, st := setupServer(t, stubCollaborators{})

	body := `{"fact":{"temp":3,"condition":"clear"}}`
	if err := st.ArchivePayload("yandex", "forecast", "55.7500,37.6100", []byte(body)); err != nil {
		t.Fatal(err)
	}
	latest, err := st.LatestRawPayload("yandex", "forecast")
	if err != nil || latest == nil {
		t.Fatalf("LatestRawPayload() = %v, %v", latest, err)
	}

	w := get(t, srv, fmt.Sprintf("/api/payloads/%d", latest.ID))
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if w.Body.String() != body {
		t.Errorf("body = %q, want %q", w.Body.String(), body)
	}

	tests := []struct {
		target string
		want   int
	}{
		{"/api/payloads/999", http.StatusNotFound},
		{"/api/payloads/abc", http.StatusBadRequest},
		{"/api/payloads/0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if w := get(t, srv, tt.target); w.Code != tt.want {
			t.Errorf("GET %s status = %d, want %d", tt.target, w.Code, tt.want)
		}
	}
}
