package opensky

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tailwatch/tailwatch/internal/domain"
)

// Client fetches live state vectors from an OpenSky-style position feed.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a position feed client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// AircraftInRadius returns every aircraft with a valid position fix within
// radiusKm great-circle kilometres of center. The feed is queried with the
// enclosing bounding box, then trimmed to the exact circle so box-corner
// overfetch never leaks through.
func (c *Client) AircraftInRadius(ctx context.Context, center domain.Point, radiusKm float64) ([]domain.AircraftState, error) {
	box := domain.BoundingBoxFor(center, radiusKm)

	states, err := c.StatesIn(ctx, box)
	if err != nil {
		return nil, err
	}

	inRadius := make([]domain.AircraftState, 0, len(states))
	for _, s := range states {
		if s.Position == nil {
			continue
		}
		if domain.Haversine(center, *s.Position) <= radiusKm {
			inRadius = append(inRadius, s)
		}
	}
	return inRadius, nil
}

// StatesIn fetches raw state vectors for a bounding box.
func (c *Client) StatesIn(ctx context.Context, box domain.BoundingBox) ([]domain.AircraftState, error) {
	params := url.Values{
		"lamin": {formatCoord(box.LatMin)},
		"lamax": {formatCoord(box.LatMax)},
		"lomin": {formatCoord(box.LonMin)},
		"lomax": {formatCoord(box.LonMax)},
	}
	return c.fetchStates(ctx, params)
}

// StateByICAO24 fetches the state vector for a single aircraft. Returns nil
// when the feed has no current state for the identifier.
func (c *Client) StateByICAO24(ctx context.Context, icao24 string) (*domain.AircraftState, error) {
	params := url.Values{
		"icao24": {strings.ToLower(strings.TrimSpace(icao24))},
	}
	states, err := c.fetchStates(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(states) == 0 {
		return nil, nil
	}
	return &states[0], nil
}

func (c *Client) fetchStates(ctx context.Context, params url.Values) ([]domain.AircraftState, error) {
	fullURL := c.baseURL + "/states/all?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("states request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("position feed error: status %d: %s", resp.StatusCode, body)
	}

	var feed response
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode states response: %w", err)
	}

	states := make([]domain.AircraftState, 0, len(feed.States))
	for _, fields := range feed.States {
		s, ok := parseState(fields)
		if !ok {
			c.logger.Debug("skipping malformed state vector", "fields", len(fields))
			continue
		}
		states = append(states, s)
	}
	return states, nil
}

// Feed response types. The states array is positional, not keyed; see the
// domain package doc for the field layout.

type response struct {
	Time   int64               `json:"time"`
	States [][]json.RawMessage `json:"states"`
}

// parseState decodes one positional state array. Returns ok=false when the
// array is too short or carries no identifier.
func parseState(fields []json.RawMessage) (domain.AircraftState, bool) {
	if len(fields) < 17 {
		return domain.AircraftState{}, false
	}

	icao24 := stringAt(fields, 0)
	if icao24 == "" {
		return domain.AircraftState{}, false
	}

	s := domain.AircraftState{
		ICAO24:        strings.ToLower(icao24),
		Callsign:      strings.TrimSpace(stringAt(fields, 1)),
		OriginCountry: stringAt(fields, 2),
		BaroAltitudeM: floatAt(fields, 7),
		OnGround:      boolAt(fields, 8),
		VelocityMS:    floatAt(fields, 9),
		TrueTrack:     floatAt(fields, 10),
		VerticalRate:  floatAt(fields, 11),
		GeoAltitudeM:  floatAt(fields, 13),
		Squawk:        stringAt(fields, 14),
	}

	lon := floatAt(fields, 5)
	lat := floatAt(fields, 6)
	if lat != nil && lon != nil {
		s.Position = &domain.Point{Lat: *lat, Lon: *lon}
	}

	if lastContact := intAt(fields, 4); lastContact > 0 {
		s.LastContact = time.Unix(lastContact, 0).UTC()
	}
	if len(fields) > 17 {
		s.Category = int(intAt(fields, 17))
	}

	return s, true
}

func stringAt(fields []json.RawMessage, i int) string {
	var v string
	if err := json.Unmarshal(fields[i], &v); err != nil {
		return ""
	}
	return v
}

// floatAt decodes an optional numeric field; null and malformed values come
// back as nil ("unknown", never zero).
func floatAt(fields []json.RawMessage, i int) *float64 {
	var v *float64
	if err := json.Unmarshal(fields[i], &v); err != nil {
		return nil
	}
	return v
}

func intAt(fields []json.RawMessage, i int) int64 {
	var v int64
	if err := json.Unmarshal(fields[i], &v); err != nil {
		return 0
	}
	return v
}

func boolAt(fields []json.RawMessage, i int) bool {
	var v bool
	if err := json.Unmarshal(fields[i], &v); err != nil {
		return false
	}
	return v
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
