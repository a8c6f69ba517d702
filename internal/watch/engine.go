package watch

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/tailwatch/tailwatch/internal/domain"
	"github.com/tailwatch/tailwatch/internal/observability"
)

// PresenceState is the per-identifier position in the alert state machine.
// Absent aircraft are simply missing from the presence map, so the zero
// value never appears as a stored state.
type PresenceState int

const (
	StateAbsent PresenceState = iota
	StatePresent
	StateAlerted
)

// AircraftProvider yields live aircraft inside a circle.
type AircraftProvider interface {
	AircraftInRadius(ctx context.Context, center domain.Point, radiusKm float64) ([]domain.AircraftState, error)
}

// TypeResolver resolves type records for a set of identifiers. Identifiers
// that could not be resolved are absent from the result; the only error is
// context cancellation.
type TypeResolver interface {
	ResolveBatch(ctx context.Context, icao24s []string) (map[string]domain.TypeRecord, error)
}

// Sighting is one aircraft currently inside the watch circle, enriched with
// its resolved type and distance to the watch center.
type Sighting struct {
	State      domain.AircraftState `json:"state"`
	Record     domain.TypeRecord    `json:"record"`
	ModelKey   string               `json:"model_key,omitempty"`
	DistanceKm float64              `json:"distance_km"`
	Alerted    bool                 `json:"alerted"`
}

// Engine drives the poll-resolve-match-alert cycle. One poll runs to
// completion before the next may start; the presence map is replaced
// atomically only after a fully successful poll, so a failed poll never
// corrupts novelty tracking.
type Engine struct {
	provider  AircraftProvider
	resolver  TypeResolver
	notifiers []Notifier
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	interval  time.Duration

	// pollMu serializes poll cycles: the scheduled tick and a manual
	// refresh must not race on the presence map.
	pollMu sync.Mutex

	mu        sync.Mutex
	area      domain.WatchArea
	watched   map[string]struct{}
	presence  map[string]PresenceState
	sightings []Sighting
	alerts    []domain.Alert
	lastErr   error
	gen       uint64 // bumped by SetArea; in-flight polls commit only against their own generation

	ready atomic.Bool
}

// New creates an Engine watching the given area. Pass a nil clock to use
// real time.
func New(provider AircraftProvider, resolver TypeResolver, area domain.WatchArea, interval time.Duration, notifiers []Notifier, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	e := &Engine{
		provider:  provider,
		resolver:  resolver,
		notifiers: notifiers,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
		interval:  interval,
		presence:  make(map[string]PresenceState),
	}
	e.setAreaLocked(area)
	return e
}

// Run polls on the configured cadence until the context is cancelled. The
// first poll fires immediately.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("watch engine started", "interval", e.interval)

	if err := e.Poll(ctx); err != nil {
		e.logger.Warn("poll failed", "error", err)
	}

	ticker := e.clock.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("watch engine stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if err := e.Poll(ctx); err != nil {
				e.logger.Warn("poll failed", "error", err)
			}
		}
	}
}

// Poll runs one fetch-resolve-match cycle. Safe to call manually
// ("refresh now"); concurrent calls are serialized. Any failure leaves the
// presence map untouched so the next successful poll continues from the last
// known-good state.
func (e *Engine) Poll(ctx context.Context) error {
	e.pollMu.Lock()
	defer e.pollMu.Unlock()

	e.mu.Lock()
	area := e.area
	watched := e.watched
	prev := e.presence
	gen := e.gen
	e.mu.Unlock()

	if !area.Active {
		e.metrics.PollsTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	start := e.clock.Now()

	states, err := e.provider.AircraftInRadius(ctx, area.Center, area.RadiusKm)
	if err != nil {
		e.failPoll(err)
		return err
	}

	ids := make([]string, 0, len(states))
	for _, s := range states {
		ids = append(ids, s.ICAO24)
	}

	records, err := e.resolver.ResolveBatch(ctx, ids)
	if err != nil {
		e.failPoll(err)
		return err
	}

	next := make(map[string]PresenceState, len(states))
	sightings := make([]Sighting, 0, len(states))
	var fired []domain.Alert

	for _, s := range states {
		if s.Position == nil {
			continue
		}

		distance := domain.Haversine(area.Center, *s.Position)
		record := records[s.ICAO24]
		modelKey := domain.ModelKeyForType(record.TypeCode)

		prevState := prev[s.ICAO24]
		isNew := prevState == StateAbsent
		_, matches := watched[modelKey]

		state := StatePresent
		if prevState == StateAlerted {
			state = StateAlerted
		}
		if matches && isNew && prevState != StateAlerted {
			state = StateAlerted
			fired = append(fired, domain.Alert{
				ICAO24:       s.ICAO24,
				Callsign:     s.Callsign,
				Registration: record.Registration,
				TypeCode:     record.TypeCode,
				ModelKey:     modelKey,
				ModelName:    domain.ModelName(modelKey),
				DistanceKm:   distance,
				AltitudeM:    s.BaroAltitudeM,
				AlertedAt:    e.clock.Now(),
			})
		}

		next[s.ICAO24] = state
		sightings = append(sightings, Sighting{
			State:      s,
			Record:     record,
			ModelKey:   modelKey,
			DistanceKm: distance,
			Alerted:    state == StateAlerted,
		})
	}

	sort.Slice(sightings, func(i, j int) bool {
		return sightings[i].DistanceKm < sightings[j].DistanceKm
	})

	// Commit only if the watch is still the one this poll started against.
	// Identifiers absent from next automatically lose alerted status, which
	// re-arms them for their next visit.
	e.mu.Lock()
	if !e.area.Active || e.gen != gen {
		e.mu.Unlock()
		e.metrics.PollsTotal.WithLabelValues("discarded").Inc()
		e.logger.Info("discarding poll result, watch changed during poll")
		return nil
	}
	e.presence = next
	e.sightings = sightings
	e.alerts = append(e.alerts, fired...)
	e.lastErr = nil
	e.mu.Unlock()

	e.ready.Store(true)
	e.metrics.PollsTotal.WithLabelValues("ok").Inc()
	e.metrics.PollDuration.Observe(e.clock.Since(start).Seconds())
	e.metrics.AircraftInRadius.Set(float64(len(sightings)))
	e.metrics.AlertsTotal.Add(float64(len(fired)))

	for _, alert := range fired {
		e.deliver(ctx, renderNotification(alert))
	}

	e.logger.Debug("poll complete",
		"aircraft", len(sightings),
		"alerts", len(fired),
		"duration", e.clock.Since(start),
	)
	return nil
}

func (e *Engine) deliver(ctx context.Context, n Notification) {
	for _, notifier := range e.notifiers {
		if err := notifier.Notify(ctx, n); err != nil {
			e.logger.Warn("notifier failed", "icao24", n.Alert.ICAO24, "error", err)
		}
	}
}

func (e *Engine) failPoll(err error) {
	e.mu.Lock()
	e.lastErr = err
	e.mu.Unlock()
	e.metrics.PollsTotal.WithLabelValues("error").Inc()
}

// Area returns the current watch area.
func (e *Engine) Area() domain.WatchArea {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.area
}

// SetArea replaces the watch area and resets presence tracking: a new watch
// is a new monitoring session, so every aircraft counts as unseen again.
func (e *Engine) SetArea(area domain.WatchArea) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setAreaLocked(area)
}

func (e *Engine) setAreaLocked(area domain.WatchArea) {
	e.area = area
	e.watched = make(map[string]struct{}, len(area.Models))
	for _, key := range area.Models {
		e.watched[key] = struct{}{}
	}
	e.presence = make(map[string]PresenceState)
	e.sightings = nil
	e.gen++

	if area.Active {
		e.metrics.WatchActive.Set(1)
	} else {
		e.metrics.WatchActive.Set(0)
	}
}

// Snapshot returns the aircraft seen inside the circle at the last
// successful poll, nearest first.
func (e *Engine) Snapshot() []Sighting {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Sighting, len(e.sightings))
	copy(out, e.sightings)
	return out
}

// Alerts returns the alert history since startup, oldest first.
func (e *Engine) Alerts() []domain.Alert {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.Alert, len(e.alerts))
	copy(out, e.alerts)
	return out
}

// LastError returns the most recent poll failure, or nil after a successful
// poll.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// CheckReadiness returns nil once at least one poll has completed
// successfully.
func (e *Engine) CheckReadiness(_ context.Context) error {
	if !e.ready.Load() {
		return errors.New("no successful poll yet")
	}
	return nil
}
