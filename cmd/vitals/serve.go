// cmd/vitals/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tamzrod/vitals-sampler/internal/api"
	"github.com/tamzrod/vitals-sampler/internal/config"
	"github.com/tamzrod/vitals-sampler/internal/metrics"
	"github.com/tamzrod/vitals-sampler/internal/mirror"
	mbclient "github.com/tamzrod/vitals-sampler/internal/mirror/modbus"
	"github.com/tamzrod/vitals-sampler/internal/reading"
	"github.com/tamzrod/vitals-sampler/internal/service"
	"github.com/tamzrod/vitals-sampler/internal/source"
)

// mirrorQueue buffers ticks between the sampler and a slow Modbus peer.
const mirrorQueue = 16

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// serve runs until ctx is done. A nil ln listens on cfg.Server.Listen.
func serve(ctx context.Context, cfg *config.Config, log *slog.Logger, ln net.Listener) error {
	m := metrics.New()

	// --------------------
	// Optional Modbus mirror
	// --------------------

	var (
		out chan reading.Tick
		mir *mirror.Mirror
	)
	if cfg.Mirror.Enabled() {
		client, err := mbclient.NewEndpointClient(mbclient.Config{
			Endpoint: cfg.Mirror.Endpoint,
			Timeout:  ms(cfg.Mirror.TimeoutMs),
		})
		if err != nil {
			return fmt.Errorf("mirror connect %s: %w", cfg.Mirror.Endpoint, err)
		}
		defer client.Close()

		mir, err = buildMirror(cfg, client, m, log)
		if err != nil {
			return err
		}
		out = make(chan reading.Tick, mirrorQueue)
	}

	// --------------------
	// Sampler service
	// --------------------

	svc, err := service.New(cfg.Sampler, service.Options{Observer: m, Out: out, Logger: log})
	if err != nil {
		return fmt.Errorf("service build failed: %w", err)
	}

	// Start eagerly so the first request finds a warm cache.
	if err := svc.Sampler.EnsureRunning(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.Server.Listen,
		Handler: api.New(api.Options{
			Service:    svc,
			Metrics:    m,
			Logger:     log,
			CORSOrigin: cfg.Server.CORSOrigin,
			Settle:     ms(cfg.Sampler.SettleMs),
		}).Handler(),
		ReadHeaderTimeout: ms(cfg.Server.ReadHeaderTimeoutMs),
	}

	// --------------------
	// Run until interrupted
	// --------------------

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http listening", slog.String("addr", cfg.Server.Listen), slog.String("mode", svc.Sampler.Mode().String()))
		var err error
		if ln != nil {
			err = srv.Serve(ln)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	if mir != nil {
		g.Go(func() error { return mir.Run(gctx, out) })
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		// Listener and sampler shutdown are independent.
		_ = svc.Close()

		sctx, cancel := context.WithTimeout(context.Background(), ms(cfg.Server.ShutdownTimeoutMs))
		defer cancel()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}

func buildMirror(cfg *config.Config, cli mirror.RegisterClient, obs mirror.Observer, log *slog.Logger) (*mirror.Mirror, error) {
	mode, _ := source.ParseMode(cfg.Sampler.Mode)
	mir, err := mirror.New(mirror.Plan{
		Endpoint:      cfg.Mirror.Endpoint,
		UnitID:        uint8(cfg.Mirror.UnitID),
		BaseAddress:   uint16(cfg.Mirror.BaseAddress),
		StatusAddress: uint16(cfg.Mirror.StatusAddress),
		DeviceName:    cfg.Mirror.DeviceName,
		ModeCode:      uint16(mode),
	}, cli, obs, log)
	if err != nil {
		return nil, fmt.Errorf("mirror build failed: %w", err)
	}
	return mir, nil
}
