package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/tailwatch/tailwatch/internal/adapter/http"
	"github.com/tailwatch/tailwatch/internal/adapter/photos"
	"github.com/tailwatch/tailwatch/internal/domain"
	"github.com/tailwatch/tailwatch/internal/watch"
)

type mockWatcher struct {
	readyErr  error
	pollErr   error
	pollCalls int
	area      domain.WatchArea
	setArea   *domain.WatchArea
	sightings []watch.Sighting
	alerts    []domain.Alert
}

func (m *mockWatcher) CheckReadiness(_ context.Context) error { return m.readyErr }
func (m *mockWatcher) Poll(_ context.Context) error {
	m.pollCalls++
	return m.pollErr
}
func (m *mockWatcher) Area() domain.WatchArea        { return m.area }
func (m *mockWatcher) SetArea(area domain.WatchArea) { m.setArea = &area }
func (m *mockWatcher) Snapshot() []watch.Sighting    { return m.sightings }
func (m *mockWatcher) Alerts() []domain.Alert        { return m.alerts }
func (m *mockWatcher) LastError() error              { return nil }

type mockStates struct {
	state *domain.AircraftState
	err   error
}

func (m *mockStates) StateByICAO24(_ context.Context, _ string) (*domain.AircraftState, error) {
	return m.state, m.err
}

type mockResolver struct {
	record domain.TypeRecord
	err    error
}

func (m *mockResolver) Resolve(_ context.Context, _ string) (domain.TypeRecord, error) {
	return m.record, m.err
}

type mockPhotos struct{}

func (mockPhotos) URLs(icao24 string) photos.URLs {
	return photos.URLs{
		Full:      "https://photos.example.com/image/" + icao24,
		Thumbnail: "https://photos.example.com/thumbnail/" + icao24,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defaultArea() domain.WatchArea {
	return domain.WatchArea{
		Center:   domain.Point{Lat: 59.3293, Lon: 18.0686},
		RadiusKm: 50,
		Models:   []string{"B737"},
		Active:   true,
	}
}

func newTestServer(w *mockWatcher, states *mockStates, resolver *mockResolver) *httpadapter.Server {
	if states == nil {
		states = &mockStates{}
	}
	if resolver == nil {
		resolver = &mockResolver{}
	}
	return httpadapter.NewServer(":0", w, states, resolver, mockPhotos{}, discardLogger())
}

func do(srv *httpadapter.Server, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	srv.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := do(newTestServer(&mockWatcher{}, nil, nil), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyz(t *testing.T) {
	rec := do(newTestServer(&mockWatcher{}, nil, nil), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(newTestServer(&mockWatcher{readyErr: fmt.Errorf("no successful poll yet")}, nil, nil),
		http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no successful poll yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(newTestServer(&mockWatcher{}, nil, nil), http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestGetWatch(t *testing.T) {
	rec := do(newTestServer(&mockWatcher{area: defaultArea()}, nil, nil), http.MethodGet, "/api/watch", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var area domain.WatchArea
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &area))
	assert.Equal(t, 50.0, area.RadiusKm)
	assert.Equal(t, []string{"B737"}, area.Models)
}

func TestPutWatch_ReplacesArea(t *testing.T) {
	w := &mockWatcher{}
	rec := do(newTestServer(w, nil, nil), http.MethodPut, "/api/watch",
		`{"lat": 59.3293, "lon": 18.0686, "radius_km": 75, "models": ["b737", "A320"], "active": true}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, w.setArea)
	assert.Equal(t, 75.0, w.setArea.RadiusKm)
	assert.Equal(t, []string{"B737", "A320"}, w.setArea.Models, "model keys are normalized")
	assert.True(t, w.setArea.Active)
}

func TestPutWatch_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"lat out of range", `{"lat": 91, "lon": 0, "radius_km": 50, "models": ["B737"]}`},
		{"lon out of range", `{"lat": 0, "lon": 181, "radius_km": 50, "models": ["B737"]}`},
		{"radius too small", `{"lat": 0, "lon": 0, "radius_km": 0.5, "models": ["B737"]}`},
		{"radius too large", `{"lat": 0, "lon": 0, "radius_km": 500, "models": ["B737"]}`},
		{"no models", `{"lat": 0, "lon": 0, "radius_km": 50, "models": []}`},
		{"unknown model", `{"lat": 0, "lon": 0, "radius_km": 50, "models": ["X999"]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := &mockWatcher{}
			rec := do(newTestServer(w, nil, nil), http.MethodPut, "/api/watch", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, w.setArea, "invalid request must not touch the watch")
		})
	}
}

func TestRefresh(t *testing.T) {
	w := &mockWatcher{}
	rec := do(newTestServer(w, nil, nil), http.MethodPost, "/api/watch/refresh", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, w.pollCalls)

	w = &mockWatcher{pollErr: fmt.Errorf("feed unreachable")}
	rec = do(newTestServer(w, nil, nil), http.MethodPost, "/api/watch/refresh", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestListAircraft_IncludesPhotoURLs(t *testing.T) {
	w := &mockWatcher{
		sightings: []watch.Sighting{{
			State:      domain.AircraftState{ICAO24: "4ca1fa", Callsign: "RYR1WD"},
			Record:     domain.TypeRecord{TypeCode: "B738", Found: true},
			ModelKey:   "B737",
			DistanceKm: 10.0,
			Alerted:    true,
		}},
	}
	rec := do(newTestServer(w, nil, nil), http.MethodGet, "/api/aircraft", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	photoURLs, ok := list[0]["photos"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://photos.example.com/thumbnail/4ca1fa", photoURLs["thumbnail"])
}

func TestGetAircraft(t *testing.T) {
	states := &mockStates{state: &domain.AircraftState{
		ICAO24:   "4ca1fa",
		Callsign: "RYR1WD",
		Position: &domain.Point{Lat: 59.4, Lon: 18.1},
	}}
	resolver := &mockResolver{record: domain.TypeRecord{
		ICAO24: "4ca1fa", TypeCode: "B738", Registration: "EI-DCL", Found: true,
	}}

	rec := do(newTestServer(&mockWatcher{}, states, resolver), http.MethodGet, "/api/aircraft/4CA1FA", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "B737", body["model_key"])
}

func TestGetAircraft_NotTracked(t *testing.T) {
	rec := do(newTestServer(&mockWatcher{}, &mockStates{state: nil}, nil),
		http.MethodGet, "/api/aircraft/ffffff", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAlerts(t *testing.T) {
	w := &mockWatcher{alerts: []domain.Alert{{ICAO24: "4ca1fa", ModelKey: "B737"}}}
	rec := do(newTestServer(w, nil, nil), http.MethodGet, "/api/alerts", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var alerts []domain.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, "4ca1fa", alerts[0].ICAO24)
}
