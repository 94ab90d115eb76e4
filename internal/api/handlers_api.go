package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/karfly/WeatherBletherBot/internal/models"
	"github.com/karfly/WeatherBletherBot/internal/store"
)

type AnswerResponse struct {
	City       string    `json:"city"`
	TargetTime time.Time `json:"target_time"`
	Forecast   string    `json:"forecast,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	Poem       string    `json:"poem,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// handleAPIAnswer runs every reply stage for ?q= and returns the parts as
// JSON. Parts produced before a failure are included.
func (s *Server) handleAPIAnswer(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusBadRequest, AnswerResponse{Error: "missing q parameter"})
		return
	}

	reply := s.composer.Build(q)
	resp := AnswerResponse{City: reply.City(), TargetTime: reply.Target()}

	for part, err := range reply.All(r.Context()) {
		if err != nil {
			resp.Error = err.Error()
			writeJSON(w, answerStatus(err), resp)
			return
		}
		switch part.Kind {
		case models.PartForecast:
			resp.Forecast = part.Content
		case models.PartImage:
			resp.ImageURL = part.Content
		case models.PartPoem:
			resp.Poem = part.Content
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func answerStatus(err error) int {
	if errors.Is(err, models.ErrCityNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

type StatsResponse struct {
	Since    time.Time              `json:"since"`
	Queries  *store.QueryStats      `json:"queries"`
	Payloads *store.RawPayloadStats `json:"payloads"`
	Latest   []LatestPayload        `json:"latest"`
}

// LatestPayload points at the newest archived response of one upstream
// endpoint. The body is served by /api/payloads/{id}.
type LatestPayload struct {
	Source     string    `json:"source"`
	Endpoint   string    `json:"endpoint"`
	ID         int64     `json:"id"`
	FetchedAt  time.Time `json:"fetched_at"`
	LocationID string    `json:"location_id,omitempty"`
}

// archivedEndpoints are the upstream calls whose responses are archived.
var archivedEndpoints = []struct{ source, endpoint string }{
	{"yandex", "geocode"},
	{"yandex", "forecast"},
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	hours := 24
	if h := r.URL.Query().Get("hours"); h != "" {
		n, err := strconv.Atoi(h)
		if err != nil || n <= 0 {
			http.Error(w, "invalid hours parameter", http.StatusBadRequest)
			return
		}
		hours = n
	}
	since := s.now().Add(-time.Duration(hours) * time.Hour)

	queries, err := s.store.GetQueryStats(since, 10)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	payloads, err := s.store.GetRawPayloadStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := StatsResponse{Since: since, Queries: queries, Payloads: payloads, Latest: []LatestPayload{}}
	for _, e := range archivedEndpoints {
		p, err := s.store.LatestRawPayload(e.source, e.endpoint)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if p == nil {
			continue
		}
		resp.Latest = append(resp.Latest, LatestPayload{
			Source:     p.Source,
			Endpoint:   p.Endpoint,
			ID:         p.ID,
			FetchedAt:  p.FetchedAt,
			LocationID: p.LocationID.String,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleAPIPayload returns an archived upstream response as it was received.
func (s *Server) handleAPIPayload(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid payload id", http.StatusBadRequest)
		return
	}

	body, err := s.store.GetRawPayload(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "payload not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
