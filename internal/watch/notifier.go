package watch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tailwatch/tailwatch/internal/domain"
)

// Notification is one alert rendered for delivery: a title, a multi-line
// body, and a display-duration hint, plus the structured alert for sinks
// that prefer fields over text.
type Notification struct {
	Title    string
	Body     string
	Duration time.Duration
	Alert    domain.Alert
}

// Notifier delivers a notification to one sink. Sinks are best-effort: a
// failing sink is logged and never blocks the others.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// defaultDisplayDuration is the hint passed to toast-style sinks.
const defaultDisplayDuration = 10 * time.Second

// renderNotification formats an alert into its delivery shape.
func renderNotification(a domain.Alert) Notification {
	var b strings.Builder
	if a.Callsign != "" {
		fmt.Fprintf(&b, "Callsign: %s\n", a.Callsign)
	}
	if a.Registration != "" {
		fmt.Fprintf(&b, "Registration: %s\n", a.Registration)
	}
	if a.TypeCode != "" {
		fmt.Fprintf(&b, "Type: %s (%s)\n", a.ModelName, a.TypeCode)
	} else {
		fmt.Fprintf(&b, "Type: %s\n", a.ModelName)
	}
	fmt.Fprintf(&b, "Distance: %.1fkm\n", a.DistanceKm)
	if a.AltitudeM != nil {
		fmt.Fprintf(&b, "Altitude: %.0fm\n", *a.AltitudeM)
	}

	return Notification{
		Title:    a.ModelName + " in your area",
		Body:     strings.TrimRight(b.String(), "\n"),
		Duration: defaultDisplayDuration,
		Alert:    a,
	}
}

// LogNotifier writes notifications to the structured log. Always installed,
// so every alert leaves a trace even when push sinks are disabled.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notification sink.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	l.logger.Info("aircraft alert",
		"title", n.Title,
		"icao24", n.Alert.ICAO24,
		"callsign", n.Alert.Callsign,
		"registration", n.Alert.Registration,
		"model", n.Alert.ModelKey,
		"distance_km", n.Alert.DistanceKm,
	)
	return nil
}
