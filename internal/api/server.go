// Package api serves the ops HTTP endpoints: health, metrics, a debug
// answer endpoint and journal stats.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/karfly/WeatherBletherBot/internal/answer"
	"github.com/karfly/WeatherBletherBot/internal/store"
)

type Server struct {
	composer *answer.Composer
	store    *store.Store
	port     string
	now      func() time.Time
}

func NewServer(composer *answer.Composer, store *store.Store, port string) *Server {
	return &Server{
		composer: composer,
		store:    store,
		port:     port,
		now:      time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/answer", s.handleAPIAnswer)
	mux.HandleFunc("GET /api/stats", s.handleAPIStats)
	mux.HandleFunc("GET /api/payloads/{id}", s.handleAPIPayload)
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("api: listening on :%s", s.port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

type HealthStatus struct {
	Status           string `json:"status"`
	MigrationVersion int    `json:"migration_version"`
	Error            string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	version, err := s.store.MigrationVersion()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, HealthStatus{Status: "error", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, HealthStatus{Status: "ok", MigrationVersion: version})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}
