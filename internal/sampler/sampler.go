// internal/sampler/sampler.go
package sampler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tamzrod/vitals-sampler/internal/cache"
	"github.com/tamzrod/vitals-sampler/internal/reading"
	"github.com/tamzrod/vitals-sampler/internal/source"
)

// DefaultInterval is the sampling cadence.
const DefaultInterval = time.Second

// ErrClosed is returned by EnsureRunning after Close.
var ErrClosed = errors.New("sampler: closed")

// State is the lifecycle state of the sampling loop.
type State int32

const (
	Stopped State = iota
	Running
	Stopping
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return "stopped"
	}
}

// Observer is told about every tick. Implementations must not block.
type Observer interface {
	ObserveTick(s reading.Snapshot, failed bool)
}

// Config is the immutable runtime config of a Sampler.
type Config struct {
	Mode     source.Mode
	Interval time.Duration

	// Out, if set, receives every tick.
	// Sends never block: a full channel drops the tick.
	Out chan<- reading.Tick

	Observer Observer
	Logger   *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Sampler is the only writer of the cache.
// It owns one background loop at a time.
type Sampler struct {
	cfg   Config
	src   source.Source
	cache *cache.Cache
	log   *slog.Logger

	// mu serializes lifecycle decisions (start/stop/close).
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	closed bool

	state   atomic.Int32
	starts  atomic.Int64
	ticks   atomic.Uint64
	dropped atomic.Uint64
}

// New creates a stopped sampler.
func New(cfg Config, src source.Source, c *cache.Cache) (*Sampler, error) {
	if src == nil {
		return nil, errors.New("sampler: source required")
	}
	if c == nil {
		return nil, errors.New("sampler: cache required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("sampler: interval must be > 0")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Sampler{
		cfg:   cfg,
		src:   src,
		cache: c,
		log:   log.With(slog.String("component", "sampler")),
	}, nil
}

// EnsureRunning starts the loop unless one is already alive.
// Safe for concurrent use: exactly one loop is started.
func (s *Sampler) EnsureRunning() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	switch State(s.state.Load()) {
	case Running:
		return nil
	case Stopping:
		// Let the previous loop finish before starting a fresh one.
		<-s.done
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	s.state.Store(int32(Running))
	s.starts.Add(1)
	go s.run(ctx, done)
	return nil
}

// Stop signals the loop and waits for it to exit.
// The sampler can be started again afterwards.
func (s *Sampler) Stop() {
	s.mu.Lock()
	done := s.signalStop()
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Close stops the loop and refuses further starts.
func (s *Sampler) Close() {
	s.mu.Lock()
	s.closed = true
	done := s.signalStop()
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

// signalStop must be called with mu held.
func (s *Sampler) signalStop() chan struct{} {
	if State(s.state.Load()) == Stopped || s.cancel == nil {
		return nil
	}
	s.state.CompareAndSwap(int32(Running), int32(Stopping))
	s.cancel()
	return s.done
}

// State reports the current lifecycle state.
func (s *Sampler) State() State { return State(s.state.Load()) }

// Starts is the number of loops started so far.
func (s *Sampler) Starts() int64 { return s.starts.Load() }

// Ticks is the number of snapshots published so far.
func (s *Sampler) Ticks() uint64 { return s.ticks.Load() }

// Dropped is the number of ticks not handed to Out.
func (s *Sampler) Dropped() uint64 { return s.dropped.Load() }

// Mode returns the configured sampling mode.
func (s *Sampler) Mode() source.Mode { return s.cfg.Mode }

// ---- LOOP ----

// run is one loop lifetime. The stop signal is checked at each
// iteration boundary; a tick in progress always completes.
func (s *Sampler) run(ctx context.Context, done chan struct{}) {
	s.log.Info("sampling loop started", slog.String("mode", s.cfg.Mode.String()))

	defer func() {
		s.state.Store(int32(Stopped))
		close(done)
		s.log.Info("sampling loop stopped")
	}()

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			return
		}

		s.tick()

		timer.Reset(s.cfg.Interval)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// tick samples once and publishes. It never fails.
func (s *Sampler) tick() {
	tuple, failed := source.Safe(s.src)
	if failed {
		s.log.Warn("sample failed, publishing empty tick")
	}

	snap := reading.Snapshot{Tuple: tuple, At: s.cfg.Now()}
	s.cache.Publish(snap)
	s.ticks.Add(1)

	if s.cfg.Observer != nil {
		s.cfg.Observer.ObserveTick(snap, failed)
	}

	if s.cfg.Out != nil {
		select {
		case s.cfg.Out <- reading.Tick{Snapshot: snap, Failed: failed}:
		default:
			s.dropped.Add(1)
		}
	}
}
