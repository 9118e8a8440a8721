package feeds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Collector fetches a set of feeds concurrently on a worker pool.
type Collector struct {
	feeds  []Feed
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures a Collector.
type Option func(*Collector) error

// WithPoolSize sets the number of concurrent fetches.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(c *Collector) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if c.pool != nil {
			c.pool.Release()
		}
		c.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewCollector creates a collector over feeds. Release it when done.
func NewCollector(feeds []Feed, opts ...Option) (*Collector, error) {
	for i, f := range feeds {
		if f == nil {
			return nil, fmt.Errorf("feed %d is nil", i)
		}
	}

	pool, err := ants.NewPool(max(runtime.NumCPU(), 1))
	if err != nil {
		return nil, err
	}

	c := &Collector{
		feeds:  feeds,
		pool:   pool,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(c); optErr != nil {
			c.Release()
			return nil, optErr
		}
	}

	return c, nil
}

// Collect fetches every feed once. Events are returned in feed order.
// A feed that fails contributes nothing; all failures are joined into the
// returned error, which is nil when every feed succeeded.
func (c *Collector) Collect(ctx context.Context) ([]Event, error) {
	results := make([][]Event, len(c.feeds))
	errs := make([]error, len(c.feeds))

	var wg sync.WaitGroup
	for i, feed := range c.feeds {
		wg.Add(1)
		err := c.pool.Submit(func() {
			defer wg.Done()
			events, err := feed.Fetch(ctx)
			if err != nil {
				errs[i] = fmt.Errorf("feed %s: %w", feed.Name(), err)
				return
			}
			results[i] = events
		})
		if err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("feed %s: %w", feed.Name(), err)
		}
	}
	wg.Wait()

	var events []Event
	for i, r := range results {
		if errs[i] != nil {
			c.logger.Warn("feed failed", "feed", c.feeds[i].Name(), "err", errs[i])
			continue
		}
		events = append(events, r...)
	}

	c.logger.Debug("collected feeds", "feeds", len(c.feeds), "events", len(events))
	return events, errors.Join(errs...)
}

// Release releases the worker pool.
// The collector should not be used after calling Release.
func (c *Collector) Release() {
	if c.pool != nil {
		c.pool.Release()
	}
}
