package hexdb

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tailwatch/tailwatch/internal/domain"
	"github.com/tailwatch/tailwatch/internal/observability"
)

const (
	// Batch resolution queries the type feed in chunks with a pause between
	// them. A courtesy throttle, not rate limiting: no backoff, no retry.
	batchChunkSize  = 10
	batchChunkPause = 500 * time.Millisecond
)

// Lookuper fetches a single type record.
type Lookuper interface {
	Lookup(ctx context.Context, icao24 string) (domain.TypeRecord, error)
}

// CachedResolver memoizes type lookups for the lifetime of the process.
// Confirmed negatives are cached like hits, so an identifier is fetched at
// most once. Entries are only ever added, never evicted or overwritten, which
// keeps the cache safe under interleaved polls. Lookup errors are NOT cached;
// the next poll retries them.
type CachedResolver struct {
	inner   Lookuper
	logger  *slog.Logger
	metrics *observability.Metrics

	mu      sync.Mutex
	entries map[string]domain.TypeRecord

	chunkSize int
	pause     time.Duration
}

// NewCachedResolver creates a memoizing decorator around a type feed client.
func NewCachedResolver(inner Lookuper, logger *slog.Logger, metrics *observability.Metrics) *CachedResolver {
	return &CachedResolver{
		inner:     inner,
		logger:    logger,
		metrics:   metrics,
		entries:   make(map[string]domain.TypeRecord),
		chunkSize: batchChunkSize,
		pause:     batchChunkPause,
	}
}

// Resolve returns the cached record for icao24, fetching and caching it on
// first sight. A cached negative is returned without a second fetch.
func (r *CachedResolver) Resolve(ctx context.Context, icao24 string) (domain.TypeRecord, error) {
	r.mu.Lock()
	rec, ok := r.entries[icao24]
	r.mu.Unlock()
	if ok {
		r.metrics.TypeCacheHits.WithLabelValues("hit").Inc()
		return rec, nil
	}
	r.metrics.TypeCacheHits.WithLabelValues("miss").Inc()

	rec, err := r.inner.Lookup(ctx, icao24)
	if err != nil {
		r.metrics.TypeLookups.WithLabelValues("error").Inc()
		return domain.TypeRecord{}, err
	}

	if rec.Found {
		r.metrics.TypeLookups.WithLabelValues("found").Inc()
	} else {
		r.metrics.TypeLookups.WithLabelValues("negative").Inc()
	}

	r.mu.Lock()
	r.entries[icao24] = rec
	r.mu.Unlock()
	return rec, nil
}

// ResolveBatch resolves a list of identifiers in fixed-size chunks with a
// short pause between chunks to bound burst load on the type feed. The pause
// is skipped for chunks served entirely from cache. Individual lookup
// failures are logged and the identifier is left out of the result; the only
// returned error is context cancellation.
func (r *CachedResolver) ResolveBatch(ctx context.Context, icao24s []string) (map[string]domain.TypeRecord, error) {
	records := make(map[string]domain.TypeRecord, len(icao24s))

	seen := make(map[string]bool, len(icao24s))
	ids := make([]string, 0, len(icao24s))
	for _, id := range icao24s {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	prevChunkFetched := false
	for start := 0; start < len(ids); start += r.chunkSize {
		end := min(start+r.chunkSize, len(ids))

		if prevChunkFetched {
			if !sleepWithContext(ctx, r.pause) {
				return records, ctx.Err()
			}
		}

		sizeBefore := r.Size()
		for _, id := range ids[start:end] {
			if ctx.Err() != nil {
				return records, ctx.Err()
			}
			rec, err := r.Resolve(ctx, id)
			if err != nil {
				r.logger.Warn("type lookup failed", "icao24", id, "error", err)
				continue
			}
			records[id] = rec
		}
		prevChunkFetched = r.Size() > sizeBefore
	}

	return records, nil
}

// Reset clears the cache. Exposed for test isolation.
func (r *CachedResolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]domain.TypeRecord)
}

// Size returns the number of cached entries, negatives included.
func (r *CachedResolver) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
