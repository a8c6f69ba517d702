// Package photos builds aircraft photo URLs from an icao24 identifier.
package photos

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// URLs holds the photo locations for one airframe. Both are constructed
// from templates; neither is guaranteed to resolve.
type URLs struct {
	Full      string `json:"full"`
	Thumbnail string `json:"thumbnail"`
}

// Source constructs photo URLs and can probe whether a photo exists.
type Source struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewSource creates a photo source rooted at baseURL.
func NewSource(baseURL string, timeout time.Duration, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// URLs returns the full and thumbnail photo URLs for an airframe. Purely
// string construction, no network.
func (s *Source) URLs(icao24 string) URLs {
	id := strings.ToLower(strings.TrimSpace(icao24))
	return URLs{
		Full:      fmt.Sprintf("%s/image/%s", s.baseURL, id),
		Thumbnail: fmt.Sprintf("%s/thumbnail/%s", s.baseURL, id),
	}
}

// Exists probes the thumbnail URL with a HEAD request. A 404 means no photo;
// any other non-200 status is an error.
func (s *Source) Exists(ctx context.Context, icao24 string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.URLs(icao24).Thumbnail, nil)
	if err != nil {
		return false, fmt.Errorf("building photo probe: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("probing photo: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("photo probe returned status %d", resp.StatusCode)
	}
}
