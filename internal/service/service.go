// internal/service/service.go
package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/tamzrod/vitals-sampler/internal/cache"
	cfg "github.com/tamzrod/vitals-sampler/internal/config"
	"github.com/tamzrod/vitals-sampler/internal/reader"
	"github.com/tamzrod/vitals-sampler/internal/reading"
	"github.com/tamzrod/vitals-sampler/internal/sampler"
	"github.com/tamzrod/vitals-sampler/internal/source"
)

// Service is the single per-process owner of the cache, the sampling
// loop and the read coordinator. Build it once and pass it down.
type Service struct {
	Cache   *cache.Cache
	Sampler *sampler.Sampler
	Reader  *reader.Coordinator
}

// Options are the runtime hooks a Service can be wired with.
type Options struct {
	Observer sampler.Observer
	Out      chan<- reading.Tick
	Logger   *slog.Logger

	// Source overrides the mode-selected source (tests, real drivers).
	Source source.Source
}

// New builds a stopped Service from sampler config.
// The mode is resolved here, once.
func New(sc cfg.SamplerConfig, opts Options) (*Service, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	mode, known := source.ParseMode(sc.Mode)
	if !known {
		log.Warn("unknown sampling mode, using hardware placeholder", slog.String("mode", sc.Mode))
	}

	src := opts.Source
	if src == nil {
		src = source.New(mode, source.FixedValues{
			Temperature: sc.Fixed.Temperature,
			HeartRate:   sc.Fixed.HeartRate,
			SpO2:        sc.Fixed.SpO2,
		}, nil)
	}

	c := cache.New()

	s, err := sampler.New(sampler.Config{
		Mode:     mode,
		Interval: time.Duration(sc.IntervalMs) * time.Millisecond,
		Out:      opts.Out,
		Observer: opts.Observer,
		Logger:   log,
	}, src, c)
	if err != nil {
		return nil, err
	}

	r, err := reader.New(c, s, time.Duration(sc.PollIntervalMs)*time.Millisecond)
	if err != nil {
		return nil, err
	}

	return &Service{Cache: c, Sampler: s, Reader: r}, nil
}

// Close stops sampling for good.
func (s *Service) Close() error {
	if s == nil || s.Sampler == nil {
		return errors.New("service: not initialized")
	}
	s.Sampler.Close()
	return nil
}
