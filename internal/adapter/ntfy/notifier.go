// Package ntfy pushes alert notifications to an ntfy.sh-compatible server.
package ntfy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tailwatch/tailwatch/internal/watch"
)

// Notifier posts notifications to a single ntfy topic.
type Notifier struct {
	httpClient *http.Client
	serverURL  string
	topic      string
	logger     *slog.Logger
}

// NewNotifier creates a push sink for the given server and topic.
func NewNotifier(serverURL, topic string, timeout time.Duration, logger *slog.Logger) *Notifier {
	return &Notifier{
		httpClient: &http.Client{Timeout: timeout},
		serverURL:  strings.TrimRight(serverURL, "/"),
		topic:      topic,
		logger:     logger,
	}
}

// Notify publishes one notification. The body is the message text; title and
// priority ride in headers per the ntfy publish protocol.
func (n *Notifier) Notify(ctx context.Context, note watch.Notification) error {
	url := n.serverURL + "/" + n.topic
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(note.Body))
	if err != nil {
		return fmt.Errorf("building ntfy request: %w", err)
	}
	req.Header.Set("Title", note.Title)
	req.Header.Set("Priority", "high")
	req.Header.Set("Tags", "airplane")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("publishing to ntfy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("ntfy returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	n.logger.Debug("ntfy notification published", "topic", n.topic, "icao24", note.Alert.ICAO24)
	return nil
}
