package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tailwatch/tailwatch/internal/domain"
)

// Radius bounds enforced at the configuration/API surface. The engine itself
// accepts any positive radius.
const (
	MinRadiusKm = 1
	MaxRadiusKm = 200
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	WatchLat      float64
	WatchLon      float64
	WatchRadiusKm float64
	WatchModels   []string
	WatchActive   bool
	PollInterval  time.Duration

	OpenSkyBaseURL string
	OpenSkyTimeout time.Duration
	HexDBBaseURL   string
	HexDBTimeout   time.Duration
	PhotoBaseURL   string
	PhotoTimeout   time.Duration

	// Push notification configuration (ntfy-compatible server).
	NtfyURL     string
	NtfyTopic   string
	NtfyEnabled bool
	NtfyTimeout time.Duration

	// Optional Kafka alert publisher.
	KafkaBrokers    []string
	KafkaAlertTopic string
	KafkaEnabled    bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	lat, err := requiredFloat("WATCH_LAT", -90, 90)
	if err != nil {
		return nil, err
	}
	lon, err := requiredFloat("WATCH_LON", -180, 180)
	if err != nil {
		return nil, err
	}

	radius, err := parseFloat("WATCH_RADIUS_KM", 50)
	if err != nil {
		return nil, err
	}
	if radius < MinRadiusKm || radius > MaxRadiusKm {
		return nil, fmt.Errorf("WATCH_RADIUS_KM must be between %d and %d", MinRadiusKm, MaxRadiusKm)
	}

	models, err := parseModels(os.Getenv("WATCH_TYPES"))
	if err != nil {
		return nil, err
	}

	pollInterval, err := parseDuration("POLL_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	openskyTimeout, err := parseDuration("OPENSKY_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	hexdbTimeout, err := parseDuration("HEXDB_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	photoTimeout, err := parseDuration("PHOTO_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, err
	}
	ntfyTimeout, err := parseDuration("NTFY_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		WatchLat:      lat,
		WatchLon:      lon,
		WatchRadiusKm: radius,
		WatchModels:   models,
		WatchActive:   envOrDefault("WATCH_ACTIVE", "true") == "true",
		PollInterval:  pollInterval,

		OpenSkyBaseURL: envOrDefault("OPENSKY_BASE_URL", "https://opensky-network.org/api"),
		OpenSkyTimeout: openskyTimeout,
		HexDBBaseURL:   envOrDefault("HEXDB_BASE_URL", "https://hexdb.io"),
		HexDBTimeout:   hexdbTimeout,
		PhotoBaseURL:   envOrDefault("PHOTO_BASE_URL", "https://photos.hexdb.io"),
		PhotoTimeout:   photoTimeout,

		NtfyURL:     os.Getenv("NTFY_URL"),
		NtfyTopic:   os.Getenv("NTFY_TOPIC"),
		NtfyTimeout: ntfyTimeout,

		KafkaBrokers:    parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaAlertTopic: os.Getenv("KAFKA_ALERT_TOPIC"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	cfg.NtfyEnabled = cfg.NtfyURL != "" && cfg.NtfyTopic != ""
	if cfg.NtfyURL != "" && cfg.NtfyTopic == "" {
		return nil, errors.New("NTFY_URL is set but NTFY_TOPIC is not")
	}

	cfg.KafkaEnabled = len(cfg.KafkaBrokers) > 0 && cfg.KafkaAlertTopic != ""
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaAlertTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_ALERT_TOPIC is not")
	}

	return cfg, nil
}

// WatchArea assembles the configured watch area.
func (c *Config) WatchArea() domain.WatchArea {
	return domain.WatchArea{
		Center:   domain.Point{Lat: c.WatchLat, Lon: c.WatchLon},
		RadiusKm: c.WatchRadiusKm,
		Models:   c.WatchModels,
		Active:   c.WatchActive,
	}
}

func parseModels(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("WATCH_TYPES is required (comma-separated model keys, e.g. \"B737,A320\")")
	}

	var models []string
	for _, part := range strings.Split(raw, ",") {
		key := strings.ToUpper(strings.TrimSpace(part))
		if key == "" {
			continue
		}
		if !domain.KnownModelKey(key) {
			return nil, fmt.Errorf("WATCH_TYPES: unknown model key %q", key)
		}
		models = append(models, key)
	}
	if len(models) == 0 {
		return nil, errors.New("WATCH_TYPES contains no model keys")
	}
	return models, nil
}

func parseBrokers(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func requiredFloat(key string, min, max float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s must be between %g and %g", key, min, max)
	}
	return v, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}
