// Package http exposes the service's HTTP surface: health and metrics
// endpoints plus a small JSON API over the watch engine.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tailwatch/tailwatch/internal/adapter/photos"
	"github.com/tailwatch/tailwatch/internal/config"
	"github.com/tailwatch/tailwatch/internal/domain"
	"github.com/tailwatch/tailwatch/internal/watch"
)

// Watcher is the engine surface the API needs.
type Watcher interface {
	CheckReadiness(ctx context.Context) error
	Poll(ctx context.Context) error
	Area() domain.WatchArea
	SetArea(area domain.WatchArea)
	Snapshot() []watch.Sighting
	Alerts() []domain.Alert
	LastError() error
}

// StateLookuper fetches the live state of a single aircraft.
type StateLookuper interface {
	StateByICAO24(ctx context.Context, icao24 string) (*domain.AircraftState, error)
}

// TypeResolver resolves one identifier to its type record.
type TypeResolver interface {
	Resolve(ctx context.Context, icao24 string) (domain.TypeRecord, error)
}

// PhotoSource constructs photo URLs for an airframe.
type PhotoSource interface {
	URLs(icao24 string) photos.URLs
}

// Server exposes health, readiness, metrics, and the watch API.
type Server struct {
	httpServer *http.Server
	watcher    Watcher
	states     StateLookuper
	resolver   TypeResolver
	photos     PhotoSource
	logger     *slog.Logger
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(addr string, watcher Watcher, states StateLookuper, resolver TypeResolver, photoSource PhotoSource, logger *slog.Logger) *Server {
	r := mux.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		watcher:  watcher,
		states:   states,
		resolver: resolver,
		photos:   photoSource,
		logger:   logger,
	}

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/watch", s.handleGetWatch).Methods(http.MethodGet)
	api.HandleFunc("/watch", s.handlePutWatch).Methods(http.MethodPut)
	api.HandleFunc("/watch/refresh", s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/aircraft", s.handleListAircraft).Methods(http.MethodGet)
	api.HandleFunc("/aircraft/{icao24}", s.handleGetAircraft).Methods(http.MethodGet)
	api.HandleFunc("/alerts", s.handleListAlerts).Methods(http.MethodGet)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.watcher.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleGetWatch(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.watcher.Area())
}

type watchRequest struct {
	Lat      float64  `json:"lat"`
	Lon      float64  `json:"lon"`
	RadiusKm float64  `json:"radius_km"`
	Models   []string `json:"models"`
	Active   bool     `json:"active"`
}

func (s *Server) handlePutWatch(w http.ResponseWriter, r *http.Request) {
	var req watchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Lat < -90 || req.Lat > 90 {
		writeError(w, http.StatusBadRequest, "lat must be between -90 and 90")
		return
	}
	if req.Lon < -180 || req.Lon > 180 {
		writeError(w, http.StatusBadRequest, "lon must be between -180 and 180")
		return
	}
	if req.RadiusKm < config.MinRadiusKm || req.RadiusKm > config.MaxRadiusKm {
		writeError(w, http.StatusBadRequest, "radius_km must be between 1 and 200")
		return
	}
	if len(req.Models) == 0 {
		writeError(w, http.StatusBadRequest, "models must not be empty")
		return
	}

	models := make([]string, 0, len(req.Models))
	for _, m := range req.Models {
		key := strings.ToUpper(strings.TrimSpace(m))
		if !domain.KnownModelKey(key) {
			writeError(w, http.StatusBadRequest, "unknown model key: "+m)
			return
		}
		models = append(models, key)
	}

	area := domain.WatchArea{
		Center:   domain.Point{Lat: req.Lat, Lon: req.Lon},
		RadiusKm: req.RadiusKm,
		Models:   models,
		Active:   req.Active,
	}
	s.watcher.SetArea(area)
	s.logger.Info("watch area replaced",
		"lat", req.Lat, "lon", req.Lon, "radius_km", req.RadiusKm, "models", models, "active", req.Active)

	writeJSON(w, http.StatusOK, area)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.watcher.Poll(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"aircraft": len(s.watcher.Snapshot()),
	})
}

type aircraftResponse struct {
	watch.Sighting
	Photos photos.URLs `json:"photos"`
}

func (s *Server) handleListAircraft(w http.ResponseWriter, _ *http.Request) {
	sightings := s.watcher.Snapshot()
	out := make([]aircraftResponse, 0, len(sightings))
	for _, sighting := range sightings {
		out = append(out, aircraftResponse{
			Sighting: sighting,
			Photos:   s.photos.URLs(sighting.State.ICAO24),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetAircraft(w http.ResponseWriter, r *http.Request) {
	icao24 := strings.ToLower(mux.Vars(r)["icao24"])

	state, err := s.states.StateByICAO24(r.Context(), icao24)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if state == nil {
		writeError(w, http.StatusNotFound, "aircraft not currently tracked")
		return
	}

	record, err := s.resolver.Resolve(r.Context(), icao24)
	if err != nil {
		s.logger.Warn("type lookup failed", "icao24", icao24, "error", err)
		record = domain.TypeRecord{ICAO24: icao24}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"state":     state,
		"record":    record,
		"model_key": domain.ModelKeyForType(record.TypeCode),
		"photos":    s.photos.URLs(icao24),
	})
}

func (s *Server) handleListAlerts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.watcher.Alerts())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
