// internal/reader/reader.go
package reader

import (
	"context"
	"errors"
	"time"

	"github.com/tamzrod/vitals-sampler/internal/cache"
	"github.com/tamzrod/vitals-sampler/internal/reading"
)

// DefaultPollInterval is the retry interval of WaitFor.
const DefaultPollInterval = 200 * time.Millisecond

// Predicate decides whether a tuple is good enough to return early.
type Predicate func(reading.Tuple) bool

// Field is satisfied when the named reading is present.
func Field(n reading.Name) Predicate {
	return func(t reading.Tuple) bool { return t.Get(n).Present() }
}

// Any is satisfied when at least one reading is present.
func Any() Predicate {
	return func(t reading.Tuple) bool { return t.AnyPresent() }
}

// Ensurer starts the sampling loop if it is not running.
type Ensurer interface {
	EnsureRunning() error
}

// Coordinator implements the bounded-wait read.
// Latency is bounded by wait + poll interval.
type Coordinator struct {
	cache *cache.Cache
	ens   Ensurer
	poll  time.Duration
	now   func() time.Time
}

// New creates a Coordinator. poll <= 0 uses DefaultPollInterval.
func New(c *cache.Cache, ens Ensurer, poll time.Duration) (*Coordinator, error) {
	if c == nil {
		return nil, errors.New("reader: cache required")
	}
	if ens == nil {
		return nil, errors.New("reader: ensurer required")
	}
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Coordinator{cache: c, ens: ens, poll: poll, now: time.Now}, nil
}

// Latest ensures sampling and returns the current snapshot without waiting.
func (c *Coordinator) Latest() (reading.Snapshot, error) {
	if err := c.ens.EnsureRunning(); err != nil {
		return c.cache.Read(), err
	}
	return c.cache.Read(), nil
}

// WaitFor polls the cache until pred holds or wait has elapsed, then
// returns the latest snapshot either way. Negative waits count as zero.
// A cancelled ctx ends the wait early without error.
// The only error is a failure to start sampling.
func (c *Coordinator) WaitFor(ctx context.Context, wait time.Duration, pred Predicate) (reading.Snapshot, error) {
	if err := c.ens.EnsureRunning(); err != nil {
		return c.cache.Read(), err
	}
	if wait < 0 {
		wait = 0
	}
	deadline := c.now().Add(wait)

	timer := time.NewTimer(c.poll)
	defer timer.Stop()

	for {
		snap := c.cache.Read()
		if pred(snap.Tuple) {
			return snap, nil
		}
		if !c.now().Before(deadline) {
			return snap, nil
		}

		timer.Reset(c.poll)
		select {
		case <-ctx.Done():
			return c.cache.Read(), nil
		case <-timer.C:
		}
	}
}
