package hexdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tailwatch/tailwatch/internal/domain"
)

// Client looks up airframe registration metadata from a hexdb-style feed.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a type feed client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Lookup fetches the metadata record for one icao24 identifier.
// HTTP 404 is a confirmed negative, returned as Found=false with no error.
// Transport failures and unexpected statuses are returned as errors so the
// caller can distinguish "confirmed absent" from "lookup failed".
func (c *Client) Lookup(ctx context.Context, icao24 string) (domain.TypeRecord, error) {
	icao24 = strings.ToLower(strings.TrimSpace(icao24))
	fullURL := fmt.Sprintf("%s/api/v1/aircraft/%s", c.baseURL, icao24)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.TypeRecord{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.TypeRecord{}, fmt.Errorf("type lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.TypeRecord{ICAO24: icao24, Found: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.TypeRecord{}, fmt.Errorf("type feed error: status %d: %s", resp.StatusCode, body)
	}

	var rec record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return domain.TypeRecord{}, fmt.Errorf("decode type response: %w", err)
	}

	return domain.TypeRecord{
		ICAO24:       icao24,
		Registration: rec.Registration,
		TypeCode:     rec.ICAOTypeCode,
		TypeName:     rec.Type,
		Manufacturer: rec.Manufacturer,
		Operator:     rec.RegisteredOwners,
		Found:        true,
	}, nil
}

// Type feed response shape; every field is optional.
type record struct {
	ICAOTypeCode     string `json:"ICAOTypeCode"`
	Manufacturer     string `json:"Manufacturer"`
	ModeS            string `json:"ModeS"`
	RegisteredOwners string `json:"RegisteredOwners"`
	Registration     string `json:"Registration"`
	Type             string `json:"Type"`
}
