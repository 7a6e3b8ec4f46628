package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tamzrod/vitals-sampler/internal/config"
	"github.com/tamzrod/vitals-sampler/internal/reader"
	"github.com/tamzrod/vitals-sampler/internal/reading"
	"github.com/tamzrod/vitals-sampler/internal/sampler"
	"github.com/tamzrod/vitals-sampler/internal/source"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestNew_StartsStopped(t *testing.T) {
	svc, err := New(config.SamplerConfig{Mode: "simulate", IntervalMs: 10, PollIntervalMs: 5}, Options{Logger: quiet()})
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, sampler.Stopped, svc.Sampler.State())
	assert.Equal(t, source.Simulate, svc.Sampler.Mode())
	assert.False(t, svc.Cache.Read().Sampled())
}

func TestNew_UnknownModeFallsBackToHardware(t *testing.T) {
	svc, err := New(config.SamplerConfig{Mode: "quantum", IntervalMs: 10, PollIntervalMs: 5}, Options{Logger: quiet()})
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, source.Hardware, svc.Sampler.Mode())

	snap, err := svc.Reader.WaitFor(t.Context(), 50*time.Millisecond, reader.Any())
	require.NoError(t, err)
	assert.False(t, snap.AnyPresent())
}

func TestNew_RejectsBadInterval(t *testing.T) {
	_, err := New(config.SamplerConfig{Mode: "simulate"}, Options{Logger: quiet()})
	assert.Error(t, err)
}

func TestOptions_SourceAndOut(t *testing.T) {
	out := make(chan reading.Tick, 8)
	src := source.Func(func() reading.Tuple {
		return reading.Tuple{SpO2: reading.Of(95)}
	})

	svc, err := New(config.SamplerConfig{Mode: "fixed", IntervalMs: 10, PollIntervalMs: 5}, Options{
		Logger: quiet(),
		Source: src,
		Out:    out,
	})
	require.NoError(t, err)
	defer svc.Close()

	snap, err := svc.Reader.WaitFor(t.Context(), time.Second, reader.Field(reading.SpO2))
	require.NoError(t, err)
	assert.Equal(t, 95.0, snap.SpO2.Or(0))

	select {
	case tick := <-out:
		assert.False(t, tick.Failed)
	case <-time.After(time.Second):
		t.Fatal("no tick forwarded")
	}
}

func TestClose_RefusesRestart(t *testing.T) {
	svc, err := New(config.SamplerConfig{Mode: "simulate", IntervalMs: 10, PollIntervalMs: 5}, Options{Logger: quiet()})
	require.NoError(t, err)

	require.NoError(t, svc.Sampler.EnsureRunning())
	require.NoError(t, svc.Close())

	assert.Equal(t, sampler.Stopped, svc.Sampler.State())
	_, err = svc.Reader.Latest()
	assert.ErrorIs(t, err, sampler.ErrClosed)
}

func TestClose_Nil(t *testing.T) {
	var svc *Service
	assert.Error(t, svc.Close())
}
