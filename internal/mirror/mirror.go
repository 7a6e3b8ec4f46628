// internal/mirror/mirror.go
package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tamzrod/vitals-sampler/internal/reading"
	"github.com/tamzrod/vitals-sampler/internal/status"
)

// Mirror delivers snapshots and sampler health into Modbus memory.
// Delivery only: it never touches the cache and never stops the sampler.
type Mirror struct {
	plan Plan
	cli  RegisterClient
	obs  Observer
	log  *slog.Logger

	tracker  *status.Tracker
	nameRegs []uint16

	needFull bool
	last     status.Snapshot
}

// New builds a mirror. obs and log may be nil.
func New(plan Plan, cli RegisterClient, obs Observer, log *slog.Logger) (*Mirror, error) {
	if cli == nil {
		return nil, errors.New("mirror: client required")
	}
	if int(plan.BaseAddress)+SlotsPerReadings > int(plan.StatusAddress) &&
		int(plan.StatusAddress)+status.SlotsPerBlock > int(plan.BaseAddress) {
		return nil, fmt.Errorf("mirror: readings block at %d overlaps status block at %d",
			plan.BaseAddress, plan.StatusAddress)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Mirror{
		plan:     plan,
		cli:      cli,
		obs:      obs,
		log:      log.With(slog.String("component", "mirror"), slog.String("endpoint", plan.Endpoint)),
		tracker:  status.NewTracker(plan.ModeCode),
		nameRegs: status.EncodeDeviceName(plan.DeviceName),
		needFull: true, // full re-assert on first successful write
	}, nil
}

// Run consumes ticks until ctx is done.
// A 1 Hz ticker advances seconds-without-data while not healthy.
func (m *Mirror) Run(ctx context.Context, in <-chan reading.Tick) error {
	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	// Full block write on start (identity re-assert).
	if err := m.WriteStatus(m.tracker.Snapshot()); err != nil {
		m.log.Warn("status write failed on start", slog.Any("error", err))
	}

	for {
		select {
		case <-ctx.Done():
			if m.tracker.MarkStopped() {
				if err := m.WriteStatus(m.tracker.Snapshot()); err != nil {
					m.log.Warn("status write failed on stop", slog.Any("error", err))
				}
			}
			return nil

		case tick, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			m.handle(tick)

		case <-secTicker.C:
			if m.tracker.TickSecond() {
				if err := m.WriteStatus(m.tracker.Snapshot()); err != nil {
					m.log.Warn("status seconds tick write failed", slog.Any("error", err))
				}
			}
		}
	}
}

func (m *Mirror) handle(tick reading.Tick) {
	if err := m.WriteReadings(tick.Snapshot); err != nil {
		m.log.Warn("readings write failed", slog.Any("error", err))
	}

	if m.tracker.Observe(tick.AnyPresent(), tick.Failed) {
		if err := m.WriteStatus(m.tracker.Snapshot()); err != nil {
			m.log.Warn("status write failed", slog.Any("error", err))
		}
	}
}

// WriteReadings writes the readings block verbatim.
func (m *Mirror) WriteReadings(s reading.Snapshot) error {
	err := m.cli.WriteRegisters(m.plan.UnitID, m.plan.BaseAddress, EncodeReadings(s))
	m.observe("readings", err)
	if err != nil {
		return fmt.Errorf("mirror: readings write failed: %w", err)
	}
	return nil
}

// WriteStatus delivers a status snapshot into status memory.
// On any write failure, the next call re-asserts the full block.
func (m *Mirror) WriteStatus(s status.Snapshot) error {
	base := m.plan.StatusAddress

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if m.needFull {
		err := m.cli.WriteRegisters(m.plan.UnitID, base, status.Encode(s, m.nameRegs))
		m.observe("status", err)
		if err != nil {
			return fmt.Errorf("mirror: full status block write failed: %w", err)
		}
		m.needFull = false
		m.last = s
		return nil
	}

	var errs []string

	write := func(slot int, v uint16, name string) bool {
		err := m.cli.WriteRegisters(m.plan.UnitID, base+uint16(slot), []uint16{v})
		m.observe("status", err)
		if err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", slot, name, err))
			return false
		}
		return true
	}

	if m.last.Health != s.Health && write(status.SlotHealthCode, s.Health, "health") {
		m.last.Health = s.Health
	}
	if m.last.LastErrorCode != s.LastErrorCode && write(status.SlotLastErrorCode, s.LastErrorCode, "last_error") {
		m.last.LastErrorCode = s.LastErrorCode
	}
	if m.last.SecondsWithoutData != s.SecondsWithoutData && write(status.SlotSecondsWithoutData, s.SecondsWithoutData, "seconds") {
		m.last.SecondsWithoutData = s.SecondsWithoutData
	}
	if m.last.Mode != s.Mode && write(status.SlotModeCode, s.Mode, "mode") {
		m.last.Mode = s.Mode
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt: re-assert on next call.
		m.needFull = true
		return errors.New("mirror: " + strings.Join(errs, " | "))
	}
	return nil
}

// Status returns the tracked health snapshot.
func (m *Mirror) Status() status.Snapshot { return m.tracker.Snapshot() }

func (m *Mirror) observe(kind string, err error) {
	if m.obs != nil {
		m.obs.ObserveMirrorWrite(kind, err)
	}
}
