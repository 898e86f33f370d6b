// Package fetch downloads catalog objects in bounded-concurrency batches.
//
// A batch fetch dispatches ids to a fixed pool of workers. Each item is
// retried independently with exponential backoff, not-found failures are
// never retried, and successes are persisted to the cache immediately so
// a partly failed batch still improves coverage. One item's failure never
// cancels its siblings; the batch always runs to completion and reports
// per-item outcomes.
package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fdk/internal/catalog"
	"fdk/internal/domain"
	"fdk/internal/storage"
)

const (
	// DefaultMaxConcurrent caps in-flight fetches for bulk downloads.
	DefaultMaxConcurrent = 10

	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

// Config holds the fetcher settings.
type Config struct {
	// MaxConcurrent is the default worker count for batches.
	// Zero means DefaultMaxConcurrent.
	MaxConcurrent int `mapstructure:"max_concurrent"`

	// MaxAttempts is the per-item attempt budget. Zero means 3.
	MaxAttempts int `mapstructure:"max_attempts"`

	// BaseDelay is the backoff unit between attempts; the delay doubles
	// after every failed attempt. Zero means 1s.
	BaseDelay time.Duration `mapstructure:"base_delay"`
}

// Fetcher downloads detail objects from a source and persists them.
type Fetcher struct {
	source  catalog.Source
	store   storage.Store
	cfg     Config
	metrics *Metrics
}

// Option configures the Fetcher.
type Option func(*Fetcher)

// WithMetrics attaches Prometheus metrics to the fetcher.
func WithMetrics(m *Metrics) Option {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// New creates a Fetcher. store may be nil, in which case fetched objects
// are returned but not persisted.
func New(source catalog.Source, store storage.Store, cfg Config, opts ...Option) *Fetcher {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}

	f := &Fetcher{
		source: source,
		store:  store,
		cfg:    cfg,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Result is the outcome of one item in a batch.
type Result struct {
	// ID identifies the requested object.
	ID domain.ObjectID

	// Object is the fetched detail object, nil on failure.
	Object *domain.CatalogObject

	// Err is the final error after exhausting retries, nil on success.
	Err error

	// Attempts is the number of attempts made.
	Attempts int
}

// Failed reports whether the item ended in failure.
func (r Result) Failed() bool {
	return r.Err != nil
}

// BatchResult aggregates a batch fetch.
type BatchResult struct {
	// RunID identifies the batch in logs and statistics.
	RunID string

	// Total is the number of requested ids.
	Total int

	// Downloaded is the number of items fetched and persisted.
	Downloaded int

	// Failed is the number of items that exhausted their retries.
	Failed int

	// Duration is the wall time of the whole batch.
	Duration time.Duration

	// Results holds per-item outcomes in request order.
	Results []Result
}

// FetchAll downloads the given ids with at most maxConcurrent in-flight
// fetches. maxConcurrent <= 0 means the configured default.
func (f *Fetcher) FetchAll(ctx context.Context, ids []domain.ObjectID, language string, maxConcurrent int) BatchResult {
	start := time.Now()

	batch := BatchResult{
		RunID: uuid.NewString(),
		Total: len(ids),
	}

	if len(ids) == 0 {
		batch.Duration = time.Since(start)
		return batch
	}

	if maxConcurrent <= 0 {
		maxConcurrent = f.cfg.MaxConcurrent
	}
	if maxConcurrent > len(ids) {
		maxConcurrent = len(ids)
	}

	log.Debug("starting batch fetch",
		"run_id", batch.RunID,
		"total", batch.Total,
		"concurrency", maxConcurrent,
	)

	results := make([]Result, len(ids))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < maxConcurrent; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = f.fetchOne(ctx, ids[idx], language)
			}
		}()
	}

	for i := range ids {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, r := range results {
		if r.Failed() {
			batch.Failed++
			log.Warn("object fetch failed",
				"run_id", batch.RunID,
				"object_id", r.ID,
				"attempts", r.Attempts,
				"error", r.Err,
			)
		} else {
			batch.Downloaded++
		}
	}

	batch.Results = results
	batch.Duration = time.Since(start)

	if f.metrics != nil {
		f.metrics.batches.Inc()
	}

	log.Info("batch fetch finished",
		"run_id", batch.RunID,
		"total", batch.Total,
		"downloaded", batch.Downloaded,
		"failed", batch.Failed,
		"duration", batch.Duration,
	)

	return batch
}

// FetchOne downloads a single object with the same retry policy as a
// batch, persisting it on success.
func (f *Fetcher) FetchOne(ctx context.Context, id domain.ObjectID, language string) (*domain.CatalogObject, error) {
	result := f.fetchOne(ctx, id, language)
	if result.Failed() {
		return nil, result.Err
	}
	return result.Object, nil
}

// fetchOne runs the attempt loop for one id. An attempt covers both the
// fetch and the save; either failing consumes the attempt.
func (f *Fetcher) fetchOne(ctx context.Context, id domain.ObjectID, language string) Result {
	start := time.Now()

	if f.metrics != nil {
		f.metrics.inFlight.Inc()
		defer f.metrics.inFlight.Dec()
	}

	var lastErr error
	for attempt := 1; attempt <= f.cfg.MaxAttempts; attempt++ {
		obj, err := f.source.FetchObject(ctx, id, language)
		if err == nil && f.store != nil {
			err = f.store.Save(ctx, obj)
		}
		if err == nil {
			f.observe("success", start)
			return Result{ID: id, Object: obj, Attempts: attempt}
		}

		lastErr = err
		if !domain.IsRetryable(err) {
			f.observe("failure", start)
			return Result{ID: id, Err: err, Attempts: attempt}
		}

		if attempt < f.cfg.MaxAttempts {
			if f.metrics != nil {
				f.metrics.retries.Inc()
			}
			log.Debug("retrying object fetch",
				"object_id", id,
				"attempt", attempt,
				"error", err,
			)

			delay := f.cfg.BaseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				f.observe("failure", start)
				return Result{ID: id, Err: ctx.Err(), Attempts: attempt}
			}
		}
	}

	f.observe("failure", start)
	return Result{ID: id, Err: lastErr, Attempts: f.cfg.MaxAttempts}
}

func (f *Fetcher) observe(outcome string, start time.Time) {
	if f.metrics == nil {
		return
	}
	f.metrics.fetches.WithLabelValues(outcome).Inc()
	f.metrics.duration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
