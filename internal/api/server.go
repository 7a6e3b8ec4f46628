// internal/api/server.go
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tamzrod/vitals-sampler/internal/metrics"
	"github.com/tamzrod/vitals-sampler/internal/service"
)

// DefaultSettle is the fixed delay of /api/max/once.
const DefaultSettle = time.Second

// Options wires the endpoint layer. Metrics is optional.
type Options struct {
	Service    *service.Service
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	CORSOrigin string

	// Settle is the /api/max/once delay. Zero means DefaultSettle;
	// it is never taken from the request.
	Settle time.Duration
}

// Server maps HTTP requests onto cache reads.
type Server struct {
	svc     *service.Service
	metrics *metrics.Metrics
	log     *slog.Logger
	origin  string
	settle  time.Duration
}

func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	settle := opts.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Server{
		svc:     opts.Service,
		metrics: opts.Metrics,
		log:     log.With(slog.String("component", "api")),
		origin:  opts.CORSOrigin,
		settle:  settle,
	}
}

// Handler returns the full middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/read", s.handleReadAll)
	mux.HandleFunc("GET /api/read/{sensor}", s.handleReadSensor)
	mux.HandleFunc("GET /api/max/once", s.handleMaxOnce)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	mux.HandleFunc("/", s.handleNotFound)

	var h http.Handler = mux
	h = s.cors(h)
	h = s.instrument(h)
	h = requestID(h)
	return h
}
